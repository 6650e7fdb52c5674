package bot

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"onlinebooking/internal/booking"
	"onlinebooking/internal/i18n"
	"onlinebooking/internal/storage"
)

// bookingRecord turns a submission outcome into the row kept for admins.
func bookingRecord(chatID int64, username string, pkg booking.Package, out booking.Outcome) storage.Booking {
	res := out.Reservation
	rec := storage.Booking{
		ChatID:        chatID,
		Username:      username,
		PackageID:     pkg.ID,
		PackageName:   pkg.Name(),
		BeginAt:       res.Begin,
		PaymentMethod: string(res.PaymentMethod),
		Status:        string(out.State),
		SubtotalCents: int64(out.Price.Subtotal),
		DiscountCents: int64(out.Price.Discount),
		VoucherCents:  int64(out.Price.Vouchers),
		TotalCents:    int64(out.Price.Total),
		Vouchers:      strings.Join(res.Vouchers, ","),
		PaymentURL:    out.PaymentURL,
	}
	if res.DiscountCode != nil {
		rec.DiscountCode = *res.DiscountCode
	}
	if contact, err := json.Marshal(res.ContactForm); err == nil {
		rec.Contact = contact
	}
	if payload, err := json.Marshal(res); err == nil {
		rec.Payload = payload
	}
	if len(out.Raw) > 0 && json.Valid(out.Raw) {
		rec.Response = []byte(out.Raw)
	}
	return rec
}

func bookingNotification(tr *i18n.Translator, rec storage.Booking) string {
	return tr.T("NOTIFY_NEW_BOOKING",
		"ID", strconv.FormatInt(rec.ID, 10),
		"PACKAGE", rec.PackageName,
		"BEGIN", rec.BeginAt.Format("2006-01-02 15:04"),
		"TOTAL", tr.Price(booking.Money(rec.TotalCents)),
		"PAYMENT", tr.T(paymentKey(booking.PaymentMethod(rec.PaymentMethod))),
		"STATUS", rec.Status,
		"USERNAME", rec.Username,
	)
}

// recordBooking stores the outcome and tells the admin channel about
// bookings that went through.
func (b *Bot) recordBooking(ctx context.Context, rec storage.Booking) {
	id, err := b.storage.SaveBooking(ctx, rec)
	if err != nil {
		b.logger.Error("Failed to save booking",
			zap.Int64("chat_id", rec.ChatID),
			zap.String("status", rec.Status),
			zap.Error(err))
		return
	}
	rec.ID = id

	if rec.Status == string(booking.StateFailed) {
		return
	}
	b.NotifyNewBookingToChannel(rec)
}

// NotifyNewBookingToChannel sends a short notice to the admin channel.
func (b *Bot) NotifyNewBookingToChannel(rec storage.Booking) {
	if b.cfg.AdminChannelID == 0 {
		b.logger.Debug("Channel notifications disabled - no channel ID configured")
		return
	}

	msg := tgbotapi.NewMessage(b.cfg.AdminChannelID, bookingNotification(b.tr, rec))
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send channel notification",
			zap.Int64("booking_id", rec.ID),
			zap.Error(err))
	}
}
