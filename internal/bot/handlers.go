package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"onlinebooking/internal/booking"
	"onlinebooking/internal/contactform"
)

const (
	codeAttempts = 5
	codeWindow   = 10 * time.Minute
	bookAttempts = 3
	bookWindow   = time.Minute
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	cmd := msg.Command()

	if b.handleAdminCommand(ctx, chatID, cmd) {
		return
	}

	switch cmd {
	case "start":
		b.handleStart(ctx, chatID, usernameOf(msg.From))
	case "help":
		b.sendText(chatID, b.tr.T("HELP"))
	case "cancel":
		b.handleCancel(ctx, chatID)
	default:
		b.sendError(chatID, b.tr.T("UNKNOWN_COMMAND"))
	}
}

func usernameOf(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	return u.UserName
}

func (b *Bot) handleDefault(chatID int64, st *chatState) {
	if st.Step == "" {
		b.sendText(chatID, b.tr.T("UNKNOWN_COMMAND"))
		return
	}
	b.sendText(chatID, b.tr.T("USE_BUTTONS"))
}

func (b *Bot) handleStart(ctx context.Context, chatID int64, username string) {
	b.dropState(ctx, chatID)
	st := &chatState{Username: username}

	msg := tgbotapi.NewMessage(chatID, "👋 "+b.tr.T("WELCOME"))
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	b.sendMessage(msg)

	if id := b.cfg.Booking.PackageID; id != 0 {
		b.selectPackage(ctx, chatID, st, id)
		return
	}
	b.askPackage(ctx, chatID, st)
}

func (b *Bot) handleCancel(ctx context.Context, chatID int64) {
	if s, ok := b.sessions[chatID]; ok {
		if err := s.Reset(); err != nil {
			b.sendBookingError(chatID, err)
			return
		}
	}
	b.dropState(ctx, chatID)

	msg := tgbotapi.NewMessage(chatID, b.tr.T("CANCELLED"))
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	b.sendMessage(msg)
}

func (b *Bot) handleCallback(ctx context.Context, chatID int64, messageID int, st *chatState, action, arg string) {
	switch action {
	case callbackNoop:
		return
	case "pkg":
		id, err := strconv.Atoi(arg)
		if err != nil {
			b.sendText(chatID, b.tr.T("USE_BUTTONS"))
			return
		}
		b.selectPackage(ctx, chatID, st, id)
		return
	case callbackReset:
		b.handleStart(ctx, chatID, st.Username)
		return
	}

	if !b.ensureSession(ctx, chatID, st) {
		return
	}
	s := b.session(chatID)

	switch action {
	case "month":
		b.handleMonth(ctx, chatID, messageID, st, s, arg)
	case "date":
		b.handleDate(ctx, chatID, st, s, arg)
	case "time":
		b.handleTime(ctx, chatID, st, s, arg)
	case "pay":
		if err := s.SetPaymentMethod(booking.PaymentMethod(arg)); err != nil {
			b.sendBookingError(chatID, err)
		}
		b.showSummary(ctx, chatID, st, s)
	case "discount":
		b.askCode(ctx, chatID, st, StepDiscount, "DISCOUNT_ASK")
	case "voucher":
		b.askCode(ctx, chatID, st, StepVoucher, "VOUCHER_ASK")
	case callbackChange:
		b.askAmounts(ctx, chatID, st, s)
	case callbackBook:
		b.handleBook(ctx, chatID, st, s)
	default:
		b.sendText(chatID, b.tr.T("USE_BUTTONS"))
	}
}

func (b *Bot) askPackage(ctx context.Context, chatID int64, st *chatState) {
	if len(b.packages) == 0 {
		b.sendError(chatID, b.tr.T("NO_PACKAGES"))
		b.dropState(ctx, chatID)
		return
	}

	st.Step = StepPackage
	msg := tgbotapi.NewMessage(chatID, b.tr.T("PACKAGE_CHOOSE"))
	msg.ReplyMarkup = packageKeyboard(b.packages)
	b.sendMessage(msg)
	b.saveState(ctx, chatID, st)
}

func (b *Bot) selectPackage(ctx context.Context, chatID int64, st *chatState, id int) {
	s := b.session(chatID)

	err := s.SelectPackage(ctx, id)
	if err != nil {
		b.logger.Warn("Failed to select package",
			zap.Int64("chat_id", chatID),
			zap.Int("package_id", id),
			zap.Error(err))
		if booking.KindOf(err) != booking.KindTransport {
			b.sendBookingError(chatID, err)
			return
		}
	}

	if _, ok := s.Package(); !ok {
		b.sendError(chatID, b.tr.T(string(booking.CodeNoPackage)))
		b.askPackage(ctx, chatID, st)
		return
	}
	if err != nil {
		b.sendBookingError(chatID, err)
	}
	b.askAmounts(ctx, chatID, st, s)
}

// askAmounts starts the quantity questions: the booking size first when the
// package has one, then every per-line line in package order.
func (b *Bot) askAmounts(ctx context.Context, chatID int64, st *chatState, s *booking.Session) {
	pkg, ok := s.Package()
	if !ok {
		b.askPackage(ctx, chatID, st)
		return
	}

	st.LineIndex = 0
	if !pkg.HasBookingSize() {
		b.askNextLine(ctx, chatID, st, s)
		return
	}

	st.Step = StepBookingSize
	msg := tgbotapi.NewMessage(chatID, b.tr.T("BOOKING_SIZE_ASK",
		"PRICE", b.tr.Price(booking.BookingSizeUnitPrice(pkg))))
	msg.ReplyMarkup = quantityKeyboard(nil)
	b.sendMessage(msg)
	b.saveState(ctx, chatID, st)
}

func (b *Bot) askNextLine(ctx context.Context, chatID int64, st *chatState, s *booking.Session) {
	pkg, _ := s.Package()
	lines := pkg.PerLineLines()
	if st.LineIndex >= len(lines) {
		b.afterAmounts(ctx, chatID, st, s)
		return
	}

	l := lines[st.LineIndex]
	text := b.tr.T("QUANTITY_ASK",
		"PRODUCT", lineName(l),
		"PRICE", b.tr.Price(l.Product.Price))
	if l.PersonsPerUnit > 1 {
		text += " " + b.tr.T("PRODUCT_MINIMUM", "MINIMUM", strconv.Itoa(l.PersonsPerUnit))
	}

	st.Step = StepQuantity
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = quantityKeyboard(l.MaxUnits)
	b.sendMessage(msg)
	b.saveState(ctx, chatID, st)
}

func parseQuantity(text string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	return n, err == nil
}

// quantityAccepted reports whether the entered amount was stored. A failed
// availability refresh does not undo the amount; the date step fetches again.
func (b *Bot) quantityAccepted(chatID int64, err error) bool {
	if err == nil {
		return true
	}
	if booking.KindOf(err) == booking.KindTransport {
		b.logger.Warn("Failed to refresh availability", zap.Int64("chat_id", chatID), zap.Error(err))
		return true
	}
	b.sendBookingError(chatID, err)
	return false
}

func (b *Bot) warnMaximum(chatID int64, s *booking.Session) {
	if _, over := s.MaximumViolation(); !over {
		return
	}
	pkg, _ := s.Package()
	if pkg.MaxPersonsOnline == nil {
		return
	}
	b.sendText(chatID, "⚠️ "+b.tr.T("PRODUCT_MAXIMUM", "MAXIMUM", strconv.Itoa(*pkg.MaxPersonsOnline)))
}

func (b *Bot) handleBookingSize(ctx context.Context, chatID int64, st *chatState, text string) {
	if !b.ensureSession(ctx, chatID, st) {
		return
	}
	s := b.session(chatID)

	n, ok := parseQuantity(text)
	if !ok {
		b.sendBookingError(chatID, booking.ErrQuantityInvalid)
		return
	}
	if !b.quantityAccepted(chatID, s.SetBookingSize(ctx, n)) {
		return
	}
	b.warnMaximum(chatID, s)

	st.LineIndex = 0
	b.askNextLine(ctx, chatID, st, s)
}

func (b *Bot) handleQuantity(ctx context.Context, chatID int64, st *chatState, text string) {
	if !b.ensureSession(ctx, chatID, st) {
		return
	}
	s := b.session(chatID)

	pkg, _ := s.Package()
	lines := pkg.PerLineLines()
	if st.LineIndex >= len(lines) {
		b.afterAmounts(ctx, chatID, st, s)
		return
	}

	n, ok := parseQuantity(text)
	if !ok {
		b.sendBookingError(chatID, booking.ErrQuantityInvalid)
		return
	}
	if !b.quantityAccepted(chatID, s.SetQuantity(ctx, lines[st.LineIndex].ID, n)) {
		return
	}
	b.warnMaximum(chatID, s)

	st.LineIndex++
	b.askNextLine(ctx, chatID, st, s)
}

// afterAmounts moves on to the calendar once the amounts can be booked;
// otherwise the warnings are shown and the amounts are asked again.
func (b *Bot) afterAmounts(ctx context.Context, chatID int64, st *chatState, s *booking.Session) {
	v := summaryOf(s)
	w := warnings(b.tr, v)
	for _, line := range w {
		b.sendText(chatID, "⚠️ "+line)
	}

	if len(v.Unmet) > 0 || !booking.AmountsValid(v.Package, v.Selection) {
		if len(w) == 0 {
			b.sendError(chatID, b.tr.T(string(booking.ReasonAmountsInvalid)))
		}
		b.askAmounts(ctx, chatID, st, s)
		return
	}

	msg := tgbotapi.NewMessage(chatID, b.tr.T("LOADING"))
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	b.sendMessage(msg)

	st.Month = ""
	b.showDates(ctx, chatID, st, s, 0)
}

// showDates renders the calendar month in st.Month, or the month of the
// first available day. A non-zero messageID edits that message in place.
func (b *Bot) showDates(ctx context.Context, chatID int64, st *chatState, s *booking.Session, messageID int) {
	loc := b.cfg.Booking.Location()
	now := b.now().In(loc)

	month := monthOf(now)
	if m, err := time.ParseInLocation(monthLayout, st.Month, loc); err == nil {
		month = m
	} else {
		if err := s.ExtendAvailability(ctx, endOfMonth(month)); err != nil {
			b.logger.Warn("Failed to load available days", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		if days := s.AvailableDays(); len(days) > 0 {
			if d, err := time.ParseInLocation(booking.DateLayout, days[0], loc); err == nil {
				month = monthOf(d)
			}
		}
	}

	if err := s.ExtendAvailability(ctx, endOfMonth(month)); err != nil {
		b.logger.Warn("Failed to load available days",
			zap.Int64("chat_id", chatID),
			zap.String("month", month.Format(monthLayout)),
			zap.Error(err))
		b.sendBookingError(chatID, err)
	}

	st.Step = StepDate
	st.Month = month.Format(monthLayout)

	days := s.AvailableDays()
	text := b.tr.T("DATE_CHOOSE")
	if len(days) == 0 {
		text = b.tr.T("DATE_NONE_AVAILABLE")
	}
	markup := dateKeyboard(b.tr, days, month, now)

	if messageID != 0 {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
		if _, err := b.api.Send(edit); err != nil {
			b.logger.Warn("Failed to update calendar", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	} else {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = markup
		b.sendMessage(msg)
	}
	b.saveState(ctx, chatID, st)
}

func (b *Bot) handleMonth(ctx context.Context, chatID int64, messageID int, st *chatState, s *booking.Session, arg string) {
	if _, err := time.Parse(monthLayout, arg); err != nil {
		b.sendText(chatID, b.tr.T("USE_BUTTONS"))
		return
	}
	st.Month = arg
	b.showDates(ctx, chatID, st, s, messageID)
}

func (b *Bot) handleDate(ctx context.Context, chatID int64, st *chatState, s *booking.Session, day string) {
	if err := s.ChooseDate(ctx, day); err != nil {
		b.sendBookingError(chatID, err)
		return
	}

	times := s.AvailableTimes()
	if len(times) == 0 {
		b.sendError(chatID, b.tr.T(string(booking.CodeDateUnavailable)))
		b.showDates(ctx, chatID, st, s, 0)
		return
	}

	st.Step = StepTime
	msg := tgbotapi.NewMessage(chatID, b.tr.T("DATE")+": "+day+"\n"+b.tr.T("TIME_CHOOSE"))
	msg.ReplyMarkup = timeKeyboard(times)
	b.sendMessage(msg)
	b.saveState(ctx, chatID, st)
}

func (b *Bot) handleTime(ctx context.Context, chatID int64, st *chatState, s *booking.Session, t string) {
	if err := s.ChooseTime(t); err != nil {
		b.sendBookingError(chatID, err)
		return
	}

	form := s.ContactForm()
	if form == nil || form.Valid() {
		b.showSummary(ctx, chatID, st, s)
		return
	}
	st.FieldIndex = firstInvalidField(form)
	b.askField(ctx, chatID, st, s)
}

type fieldChecker interface {
	FieldError(booking.FormField) error
}

func fieldError(form booking.ContactForm, f booking.FormField) error {
	if fc, ok := form.(fieldChecker); ok {
		return fc.FieldError(f)
	}
	return nil
}

// firstInvalidField is the index to start asking at; forms that cannot
// explain themselves are asked from the top.
func firstInvalidField(form booking.ContactForm) int {
	if _, ok := form.(fieldChecker); !ok {
		return 0
	}
	for i, f := range form.Fields() {
		if fieldError(form, f) != nil {
			return i
		}
	}
	return 0
}

func fieldErrorKey(err error) string {
	switch {
	case errors.Is(err, contactform.ErrInvalidEmail):
		return "EMAIL_INVALID"
	case errors.Is(err, contactform.ErrInvalidPhone):
		return "PHONE_INVALID"
	case errors.Is(err, contactform.ErrRequired):
		return "FIELD_REQUIRED"
	case errors.Is(err, contactform.ErrInvalidChoice):
		return "FIELD_CHOICE_INVALID"
	default:
		return string(booking.ReasonContactFormInvalid)
	}
}

func fieldLabel(f booking.FormField) string {
	if f.Label != "" {
		return f.Label
	}
	return f.Identifier
}

func (b *Bot) askField(ctx context.Context, chatID int64, st *chatState, s *booking.Session) {
	form := s.ContactForm()
	if form == nil {
		b.showSummary(ctx, chatID, st, s)
		return
	}
	fields := form.Fields()
	if st.FieldIndex >= len(fields) {
		b.showSummary(ctx, chatID, st, s)
		return
	}

	f := fields[st.FieldIndex]
	text := b.tr.T("CONTACT_FIELD_ASK", "FIELD", fieldLabel(f))
	if f.Required {
		text += " *"
	}

	st.Step = StepContact
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = contactKeyboard(b.tr, f)
	b.sendMessage(msg)
	b.saveState(ctx, chatID, st)
}

func (b *Bot) handleContactField(ctx context.Context, chatID int64, st *chatState, text string) {
	if !b.ensureSession(ctx, chatID, st) {
		return
	}
	s := b.session(chatID)

	form := s.ContactForm()
	if form == nil || st.FieldIndex >= len(form.Fields()) {
		b.showSummary(ctx, chatID, st, s)
		return
	}
	f := form.Fields()[st.FieldIndex]

	value := text
	if !f.Required && text == b.tr.T("BUTTON_SKIP") {
		value = ""
	}

	err := form.SetValue(f.Identifier, value)
	if err == nil {
		err = fieldError(form, f)
	}
	if err != nil {
		b.logger.Debug("Contact field rejected",
			zap.Int64("chat_id", chatID),
			zap.String("field", f.Identifier),
			zap.Error(err))
		b.sendError(chatID, b.tr.T("CONTACT_FIELD_INVALID",
			"FIELD", fieldLabel(f),
			"REASON", b.tr.T(fieldErrorKey(err))))
		b.askField(ctx, chatID, st, s)
		return
	}

	st.FieldIndex++
	b.askField(ctx, chatID, st, s)
}

func (b *Bot) showSummary(ctx context.Context, chatID int64, st *chatState, s *booking.Session) {
	if _, ok := s.Package(); !ok {
		b.askPackage(ctx, chatID, st)
		return
	}

	v := summaryOf(s)
	st.Step = StepSummary

	msg := tgbotapi.NewMessage(chatID, formatSummary(b.tr, v))
	msg.ReplyMarkup = summaryKeyboard(b.tr, v.Verdict.Allowed, v.Package.PaymentMethods(), v.Selection.PaymentMethod)
	b.sendMessage(msg)
	b.saveState(ctx, chatID, st)
}

func (b *Bot) askCode(ctx context.Context, chatID int64, st *chatState, step, key string) {
	st.Step = step
	msg := tgbotapi.NewMessage(chatID, b.tr.T(key))
	msg.ReplyMarkup = tgbotapi.ForceReply{ForceReply: true}
	b.sendMessage(msg)
	b.saveState(ctx, chatID, st)
}

// rateLimited counts one attempt of action. Limiter failures let the
// attempt through.
func (b *Bot) rateLimited(ctx context.Context, chatID int64, action string, limit int64, window time.Duration) bool {
	if b.limiter == nil {
		return false
	}
	exceeded, err := b.limiter.CheckRateLimit(ctx, chatID, action, limit, window)
	if err != nil {
		b.logger.Warn("Rate limit check failed",
			zap.Int64("chat_id", chatID),
			zap.String("action", action),
			zap.Error(err))
		return false
	}
	if exceeded {
		b.sendError(chatID, b.tr.T("RATE_LIMITED"))
	}
	return exceeded
}

func (b *Bot) handleDiscountCode(ctx context.Context, chatID int64, st *chatState, text string) {
	if !b.ensureSession(ctx, chatID, st) {
		return
	}
	s := b.session(chatID)

	if !b.rateLimited(ctx, chatID, "discount", codeAttempts, codeWindow) {
		if err := s.ApplyDiscountCode(ctx, text); err != nil {
			b.sendBookingError(chatID, err)
		} else {
			name := text
			if d := s.Discount(); d != nil && d.Name != "" {
				name = d.Name
			}
			b.sendText(chatID, "✅ "+b.tr.T("DISCOUNT_APPLIED", "NAME", name))
		}
	}
	b.showSummary(ctx, chatID, st, s)
}

func (b *Bot) handleVoucherCode(ctx context.Context, chatID int64, st *chatState, text string) {
	if !b.ensureSession(ctx, chatID, st) {
		return
	}
	s := b.session(chatID)

	if !b.rateLimited(ctx, chatID, "voucher", codeAttempts, codeWindow) {
		if err := s.ApplyVoucher(ctx, text); err != nil {
			b.sendBookingError(chatID, err)
		} else {
			b.sendText(chatID, "✅ "+b.tr.T("VOUCHER_APPLIED"))
		}
	}
	b.showSummary(ctx, chatID, st, s)
}

func (b *Bot) handleBook(ctx context.Context, chatID int64, st *chatState, s *booking.Session) {
	if b.rateLimited(ctx, chatID, "book", bookAttempts, bookWindow) {
		return
	}
	if !s.CanSubmit().Allowed {
		b.showSummary(ctx, chatID, st, s)
		return
	}
	pkg, _ := s.Package()

	b.sendText(chatID, "⏳ "+b.tr.T("LOADING"))
	out, err := s.Submit(ctx)
	if out.State == "" {
		b.sendBookingError(chatID, err)
		if !errors.Is(err, booking.ErrBusy) {
			b.showSummary(ctx, chatID, st, s)
		}
		return
	}

	b.recordBooking(ctx, bookingRecord(chatID, st.Username, pkg, out))

	switch out.State {
	case booking.StateConfirmed:
		b.sendText(chatID, "✅ "+strings.TrimSpace(b.tr.T("BOOKING_CONFIRMED", "MESSAGE", out.Message)))
		b.dropState(ctx, chatID)
	case booking.StatePaymentRedirect:
		msg := tgbotapi.NewMessage(chatID, b.tr.T("PAYMENT_LINK", "URL", out.PaymentURL))
		msg.ReplyMarkup = paymentURLKeyboard(b.tr, out.PaymentURL)
		b.sendMessage(msg)
		b.dropState(ctx, chatID)
	default:
		if err != nil {
			b.sendBookingError(chatID, err)
		} else {
			b.sendError(chatID, b.tr.T("BOOKING_FAILED"))
		}
		b.showSummary(ctx, chatID, st, s)
	}
}
