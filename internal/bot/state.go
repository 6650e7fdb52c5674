package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"onlinebooking/internal/booking"
	redisstore "onlinebooking/internal/storage/redis"
)

const (
	StepPackage     = "package"
	StepBookingSize = "booking_size"
	StepQuantity    = "quantity"
	StepDate        = "date"
	StepTime        = "time"
	StepContact     = "contact"
	StepSummary     = "summary"
	StepDiscount    = "discount"
	StepVoucher     = "voucher"
)

type chatState = redisstore.UserState

func (b *Bot) loadState(ctx context.Context, chatID int64) (*chatState, error) {
	st, err := b.state.GetUserDialogState(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get state: %w", err)
	}
	return st, nil
}

// saveState stores the dialog position together with a snapshot of the
// chat's booking session.
func (b *Bot) saveState(ctx context.Context, chatID int64, st *chatState) {
	if s, ok := b.sessions[chatID]; ok {
		st.Booking = snapshotOf(s)
	}
	if err := b.state.SetUserDialogState(ctx, chatID, st); err != nil {
		b.logger.Error("Failed to save user state",
			zap.Int64("chat_id", chatID),
			zap.String("step", st.Step),
			zap.Error(err))
	}
}

func (b *Bot) dropState(ctx context.Context, chatID int64) {
	delete(b.sessions, chatID)
	if err := b.state.DropUserDialogState(ctx, chatID); err != nil {
		b.logger.Error("Failed to clear user state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

func (b *Bot) newSession() *booking.Session {
	return booking.NewSession(b.transport, b.packages,
		booking.WithLogger(b.logger),
		booking.WithLocation(b.cfg.Booking.Location()),
		booking.WithRedirectURL(b.cfg.Booking.RedirectURL),
		booking.WithContactForms(b.forms),
		booking.WithClock(b.now),
	)
}

// ensureSession makes sure the chat has a booking session. After a restart
// the session is rebuilt from the stored snapshot; if that is only partly
// possible the dialog is resumed at the first incomplete step and false is
// returned so the triggering update is not applied to a changed dialog.
func (b *Bot) ensureSession(ctx context.Context, chatID int64, st *chatState) bool {
	if _, ok := b.sessions[chatID]; ok {
		return true
	}

	s := b.newSession()
	b.sessions[chatID] = s
	if st.Booking == nil {
		if st.Step == "" || st.Step == StepPackage {
			return true
		}
		b.resume(ctx, chatID, st, s)
		return false
	}

	err := replay(ctx, s, st.Booking)
	if err == nil {
		return true
	}
	b.logger.Warn("Failed to restore booking session",
		zap.Int64("chat_id", chatID),
		zap.Error(err))
	b.sendText(chatID, b.tr.T("SESSION_RESTORE_FAILED"))
	b.resume(ctx, chatID, st, s)
	return false
}

func (b *Bot) session(chatID int64) *booking.Session {
	s, ok := b.sessions[chatID]
	if !ok {
		s = b.newSession()
		b.sessions[chatID] = s
	}
	return s
}

// resume asks for whatever the session is missing next.
func (b *Bot) resume(ctx context.Context, chatID int64, st *chatState, s *booking.Session) {
	switch stepFor(s.State()) {
	case StepPackage:
		b.askPackage(ctx, chatID, st)
	case StepQuantity:
		b.askAmounts(ctx, chatID, st, s)
	case StepDate:
		st.Month = ""
		b.showDates(ctx, chatID, st, s, 0)
	case StepContact:
		st.FieldIndex = 0
		b.askField(ctx, chatID, st, s)
	default:
		b.showSummary(ctx, chatID, st, s)
	}
}

func snapshotOf(s *booking.Session) *redisstore.Snapshot {
	pkg, ok := s.Package()
	if !ok {
		return nil
	}
	sel := s.Selection()

	snap := &redisstore.Snapshot{
		PackageID:     pkg.ID,
		Quantities:    sel.Quantities,
		BookingSize:   sel.BookingSize,
		Date:          sel.Date,
		Time:          sel.Time,
		PaymentMethod: string(sel.PaymentMethod),
		Vouchers:      s.Vouchers(),
	}
	if d := s.Discount(); d != nil {
		snap.DiscountCode = d.Code
	}
	if form := s.ContactForm(); form != nil {
		snap.Contact = form.Serialize()
	}
	return snap
}

// replay feeds a snapshot through the session operations in wizard order.
// Everything is checked against the API again; a date that is no longer
// available stops the replay of the date, time and codes.
func replay(ctx context.Context, s *booking.Session, snap *redisstore.Snapshot) error {
	if err := s.SelectPackage(ctx, snap.PackageID); err != nil && booking.KindOf(err) != booking.KindTransport {
		return err
	}
	pkg, ok := s.Package()
	if !ok {
		return fmt.Errorf("package %d is no longer bookable", snap.PackageID)
	}

	var errs []error
	if snap.BookingSize > 0 && pkg.HasBookingSize() {
		if err := s.SetBookingSize(ctx, snap.BookingSize); err != nil {
			errs = append(errs, err)
		}
	}
	lineIDs := make([]int, 0, len(snap.Quantities))
	for id := range snap.Quantities {
		lineIDs = append(lineIDs, id)
	}
	sort.Ints(lineIDs)
	for _, id := range lineIDs {
		if err := s.SetQuantity(ctx, id, snap.Quantities[id]); err != nil {
			errs = append(errs, err)
		}
	}

	if form := s.ContactForm(); form != nil {
		for k, v := range snap.Contact {
			if err := form.SetValue(k, v); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if snap.PaymentMethod != "" {
		if err := s.SetPaymentMethod(booking.PaymentMethod(snap.PaymentMethod)); err != nil {
			errs = append(errs, err)
		}
	}

	if snap.Date == "" {
		return errors.Join(errs...)
	}
	day, err := time.Parse(booking.DateLayout, snap.Date)
	if err != nil {
		return errors.Join(append(errs, booking.ErrDateInvalid)...)
	}
	if err := s.ExtendAvailability(ctx, endOfMonth(day)); err != nil {
		return errors.Join(append(errs, err)...)
	}
	if err := s.ChooseDate(ctx, snap.Date); err != nil {
		return errors.Join(append(errs, err)...)
	}
	if snap.Time != "" {
		if err := s.ChooseTime(snap.Time); err != nil {
			return errors.Join(append(errs, err)...)
		}
	}

	if snap.DiscountCode != "" {
		if err := s.ApplyDiscountCode(ctx, snap.DiscountCode); err != nil {
			errs = append(errs, err)
		}
	}
	for _, code := range snap.Vouchers {
		if err := s.ApplyVoucher(ctx, code); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// stepFor is the dialog step that continues a session in the given state.
func stepFor(state booking.State) string {
	switch state {
	case booking.StateNoPackage:
		return StepPackage
	case booking.StatePackageSelected:
		return StepQuantity
	case booking.StateProductsEntered:
		return StepDate
	case booking.StateDateTimeChosen:
		return StepContact
	default:
		return StepSummary
	}
}
