package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"onlinebooking/internal/storage"
	redisstore "onlinebooking/internal/storage/redis"
)

// Sender is the part of tgbotapi.BotAPI the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type StateStore interface {
	GetUserDialogState(ctx context.Context, chatID int64) (*redisstore.UserState, error)
	SetUserDialogState(ctx context.Context, chatID int64, state *redisstore.UserState) error
	DropUserDialogState(ctx context.Context, chatID int64) error
}

type BookingStore interface {
	SaveBooking(ctx context.Context, b storage.Booking) (int64, error)
	GetBookingStatistics(ctx context.Context) (*storage.BookingStatistics, error)
	ExportBookingsToExcel(ctx context.Context, dir, name string) (string, error)
}

type RateLimiter interface {
	CheckRateLimit(ctx context.Context, userID int64, action string, limit int64, window time.Duration) (bool, error)
}

var (
	_ Sender       = (*tgbotapi.BotAPI)(nil)
	_ StateStore   = (*redisstore.Storage)(nil)
	_ BookingStore = (*storage.PostgresStorage)(nil)
)
