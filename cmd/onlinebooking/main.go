package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"onlinebooking/internal/booking"
	"onlinebooking/internal/bot"
	"onlinebooking/internal/config"
	"onlinebooking/internal/contactform"
	"onlinebooking/internal/i18n"
	"onlinebooking/internal/storage"
	"onlinebooking/internal/storage/migrations"
	redisstore "onlinebooking/internal/storage/redis"
	"onlinebooking/pkg/api"
	"onlinebooking/pkg/logger"
	"onlinebooking/pkg/redis"
)

// ENTRY POINT

func main() {
	migrate := flag.String("migrate", "up", "migrations to run before starting: up, down or status")
	flag.Parse()

	zapLogger, err := logger.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	redisClient := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx); err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	pgStorage, err := storage.NewPostgresStorage(ctx, cfg.Database, redisClient, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to init PostgreSQL storage", zap.Error(err))
	}
	defer pgStorage.Close()

	migrator, err := storage.NewMigrator(pgStorage.DB(), migrations.FS, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to load migrations", zap.Error(err))
	}

	switch *migrate {
	case "up":
		err = migrator.Up(ctx)
	case "down":
		err = migrator.Down(ctx)
	case "status":
		err = migrator.Status(ctx)
	default:
		zapLogger.Fatal("Unknown migrate mode", zap.String("mode", *migrate))
	}
	if err != nil {
		zapLogger.Fatal("Migrations failed", zap.Error(err))
	}
	if *migrate != "up" {
		return
	}

	apiClient := api.NewClient(cfg.API.BaseURL, cfg.API.Token, cfg.API.RequestTimeout, cfg.API.RetryMaxElapsed, zapLogger)

	packages, err := booking.LoadPackages(ctx, apiClient)
	if err != nil {
		zapLogger.Fatal("Failed to load packages", zap.Error(err))
	}
	zapLogger.Info("Packages loaded",
		zap.Int("total", len(packages)),
		zap.Int("bookable", len(booking.BookablePackages(packages))))

	botAPI, err := bot.NewBotAPI(cfg.TelegramToken, !logger.IsProduction(cfg.AppEnv), zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create bot API", zap.Error(err))
	}

	tgBot := bot.New(cfg, bot.Deps{
		API:        botAPI,
		State:      redisstore.New(redisClient.Redis(), cfg.Redis.TTL),
		Storage:    pgStorage,
		Limiter:    redisClient,
		Transport:  apiClient,
		Forms:      contactform.NewProvider(apiClient, zapLogger),
		Packages:   packages,
		Translator: i18n.New(cfg.Booking.Language(), cfg.Booking.Currency),
	}, zapLogger)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botAPI.GetUpdatesChan(u)
	defer botAPI.StopReceivingUpdates()

	if err := tgBot.Start(ctx, updates); err != nil {
		zapLogger.Fatal("Bot stopped with error", zap.Error(err))
	}

	zapLogger.Info("Bot shutdown gracefully")
}
