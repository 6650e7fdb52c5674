package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
	"golang.org/x/text/language"
)

type Config struct {
	AppEnv         string  `env:"APP_ENV" envDefault:"development"`
	TelegramToken  string  `env:"TELEGRAM_TOKEN,required"`
	AdminIDs       []int64 `env:"ADMIN_IDS" envSeparator:","`
	AdminChannelID int64   `env:"ADMIN_CHANNEL_ID"`

	API      APIConfig      `envPrefix:"API_"`
	Booking  BookingConfig  `envPrefix:"BOOKING_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Database DatabaseConfig `envPrefix:"DB_"`
}

// APIConfig points at the remote booking API, e.g. https://demo.recras.nl/api2/.
type APIConfig struct {
	BaseURL         string        `env:"BASE_URL,required,notEmpty"`
	Token           string        `env:"TOKEN"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	RetryMaxElapsed time.Duration `env:"RETRY_MAX_ELAPSED" envDefault:"10s"`
}

type BookingConfig struct {
	Locale   string `env:"LOCALE" envDefault:"nl-NL"`
	Timezone string `env:"TIMEZONE" envDefault:"Europe/Amsterdam"`
	Currency string `env:"CURRENCY" envDefault:"EUR"`
	// RedirectURL is sent with every booking; customers land there after paying.
	RedirectURL string `env:"REDIRECT_URL"`
	// PackageID skips the package choice when set.
	PackageID int `env:"PACKAGE_ID"`

	language language.Tag
	location *time.Location
}

func (b BookingConfig) Language() language.Tag {
	return b.language
}

func (b BookingConfig) Location() *time.Location {
	if b.location == nil {
		return time.Local
	}
	return b.location
}

type RedisConfig struct {
	Addr     string        `env:"ADDR,required"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	TTL      time.Duration `env:"TTL" envDefault:"24h"`
}

type DatabaseConfig struct {
	Host            string        `env:"HOST,required"`
	Port            int           `env:"PORT,required"`
	User            string        `env:"USER,required"`
	Password        string        `env:"PASSWORD,required"`
	Name            string        `env:"NAME,required"`
	SSLMode         string        `env:"SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"2m"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if len(cfg.AdminIDs) == 0 {
		return nil, fmt.Errorf("at least one admin ID is required")
	}

	tag, err := language.Parse(cfg.Booking.Locale)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_LOCALE %q: %w", cfg.Booking.Locale, err)
	}
	cfg.Booking.language = tag

	loc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_TIMEZONE %q: %w", cfg.Booking.Timezone, err)
	}
	cfg.Booking.location = loc

	if cfg.API.RequestTimeout <= 0 {
		return nil, fmt.Errorf("API_REQUEST_TIMEOUT must be positive")
	}

	return &cfg, nil
}

// IsAdmin reports whether the Telegram user may run admin commands.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
