package bot

import (
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"onlinebooking/internal/booking"
	"onlinebooking/internal/contactform"
	"onlinebooking/internal/i18n"
)

// BOT KEYBOARDS

const (
	monthLayout = "2006-01"

	daysPerRow     = 5
	timesPerRow    = 4
	quickQuantity  = 5
	callbackNoop   = "noop"
	callbackBook   = "book"
	callbackChange = "change"
	callbackReset  = "restart"
)

// parseCallback splits "action:arg" at the first colon, so times such as
// "time:10:00" keep their own colon.
func parseCallback(data string) (action, arg string) {
	action, arg, _ = strings.Cut(data, ":")
	return action, arg
}

func packageKeyboard(packages []booking.Package) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(packages))
	for _, p := range packages {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(p.Name(), "pkg:"+strconv.Itoa(p.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// quantityKeyboard offers 0 up to a few units, capped by the line maximum.
func quantityKeyboard(maxUnits *int) tgbotapi.ReplyKeyboardMarkup {
	limit := quickQuantity
	if maxUnits != nil && *maxUnits < limit {
		limit = *maxUnits
	}
	row := make([]tgbotapi.KeyboardButton, 0, limit+1)
	for i := 0; i <= limit; i++ {
		row = append(row, tgbotapi.NewKeyboardButton(strconv.Itoa(i)))
	}
	kb := tgbotapi.NewReplyKeyboard(row)
	kb.ResizeKeyboard = true
	return kb
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func endOfMonth(t time.Time) time.Time {
	return monthOf(t).AddDate(0, 1, -1)
}

// daysInMonth keeps the days of month, preserving order.
func daysInMonth(days []string, month time.Time) []string {
	prefix := month.Format(monthLayout) + "-"
	var out []string
	for _, d := range days {
		if strings.HasPrefix(d, prefix) {
			out = append(out, d)
		}
	}
	return out
}

// dateKeyboard shows the available days of one month. The previous month
// is offered only while it is not before the first month of the calendar.
func dateKeyboard(tr *i18n.Translator, days []string, month, first time.Time) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, d := range daysInMonth(days, month) {
		label := strings.TrimPrefix(d[len(d)-2:], "0")
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, "date:"+d))
		if len(row) == daysPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	var nav []tgbotapi.InlineKeyboardButton
	if monthOf(month).After(monthOf(first)) {
		prev := month.AddDate(0, -1, 0).Format(monthLayout)
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("◀", "month:"+prev))
	}
	nav = append(nav,
		tgbotapi.NewInlineKeyboardButtonData(month.Format("01/2006"), callbackNoop),
		tgbotapi.NewInlineKeyboardButtonData(tr.T("BUTTON_MORE_DATES")+" ▶", "month:"+month.AddDate(0, 1, 0).Format(monthLayout)),
	)
	rows = append(rows, nav)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func timeKeyboard(times []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, t := range times {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(t, "time:"+t))
		if len(row) == timesPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// contactKeyboard returns the reply markup for a contact form field: its
// choices, a share button for phone numbers and a skip button for optional
// fields.
func contactKeyboard(tr *i18n.Translator, field booking.FormField) any {
	var rows [][]tgbotapi.KeyboardButton
	for _, c := range field.Choices {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(c)))
	}
	if contactform.IsPhoneField(field) {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact("📱 "+tr.T("BUTTON_SHARE_PHONE")),
		))
	}
	if !field.Required {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(tr.T("BUTTON_SKIP"))))
	}
	if len(rows) == 0 {
		return tgbotapi.NewRemoveKeyboard(true)
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// summaryKeyboard offers booking only when nothing blocks it.
func summaryKeyboard(tr *i18n.Translator, allowed bool, methods []booking.PaymentMethod, current booking.PaymentMethod) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	if len(methods) > 1 {
		var row []tgbotapi.InlineKeyboardButton
		for _, m := range methods {
			label := tr.T(paymentKey(m))
			if m == current {
				label = "✅ " + label
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, "pay:"+string(m)))
		}
		rows = append(rows, row)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(tr.T("BUTTON_DISCOUNT"), "discount"),
		tgbotapi.NewInlineKeyboardButtonData(tr.T("BUTTON_VOUCHER"), "voucher"),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(tr.T("BUTTON_CHANGE"), callbackChange),
		tgbotapi.NewInlineKeyboardButtonData(tr.T("BUTTON_RESTART"), callbackReset),
	))
	if allowed {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ "+tr.T("BUTTON_BOOK_NOW"), callbackBook),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func paymentKey(m booking.PaymentMethod) string {
	if m == booking.PaymentAfterwards {
		return "PAYMENT_AFTERWARDS"
	}
	return "PAYMENT_DIRECT"
}

func paymentURLKeyboard(tr *i18n.Translator, url string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonURL(tr.T("PAYMENT_DIRECT"), url),
	))
}
