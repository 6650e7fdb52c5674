package bot

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"onlinebooking/internal/booking"
	"onlinebooking/internal/i18n"
	"onlinebooking/internal/storage"
)

const reportsDir = "reports"

// handleAdminCommand reports whether cmd was an admin command.
func (b *Bot) handleAdminCommand(ctx context.Context, chatID int64, cmd string) bool {
	switch cmd {
	case "export", "stats":
	default:
		return false
	}
	if !b.isAdmin(chatID) {
		b.sendError(chatID, b.tr.T("UNKNOWN_COMMAND"))
		return true
	}

	switch cmd {
	case "export":
		b.handleExportBookings(ctx, chatID)
	case "stats":
		b.handleBookingStats(ctx, chatID)
	}
	return true
}

func (b *Bot) handleBookingStats(ctx context.Context, chatID int64) {
	stats, err := b.storage.GetBookingStatistics(ctx)
	if err != nil {
		b.logger.Error("Failed to get booking statistics", zap.Error(err))
		b.sendError(chatID, b.tr.T("ADMIN_STATS_FAILED"))
		return
	}

	b.sendText(chatID, "📊 "+formatStats(b.tr, stats))
}

func formatStats(tr *i18n.Translator, stats *storage.BookingStatistics) string {
	price := func(cents int64) string { return tr.Price(booking.Money(cents)) }
	return tr.T("ADMIN_STATS",
		"TOTAL", strconv.Itoa(stats.TotalBookings),
		"TOTAL_AMOUNT", price(stats.TotalCents),
		"TODAY", strconv.Itoa(stats.TodayBookings),
		"TODAY_AMOUNT", price(stats.TodayCents),
		"WEEK", strconv.Itoa(stats.WeekBookings),
		"WEEK_AMOUNT", price(stats.WeekCents),
		"MONTH", strconv.Itoa(stats.MonthBookings),
		"MONTH_AMOUNT", price(stats.MonthCents),
		"FAILED", strconv.Itoa(stats.StatusCounts[string(booking.StateFailed)]),
	)
}

func (b *Bot) handleExportBookings(ctx context.Context, chatID int64) {
	name := fmt.Sprintf("bookings_report_%s", b.now().Format("20060102_150405"))
	path, err := b.storage.ExportBookingsToExcel(ctx, reportsDir, name)
	if err != nil {
		b.logger.Error("Failed to export bookings", zap.Error(err))
		b.sendError(chatID, b.tr.T("ADMIN_EXPORT_FAILED"))
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = "📊 " + b.tr.T("ADMIN_EXPORT")

	if _, err := b.api.Send(doc); err != nil {
		b.logger.Error("Failed to send Excel file", zap.Error(err))
		b.sendError(chatID, b.tr.T("ADMIN_EXPORT_FAILED"))
	}
}
