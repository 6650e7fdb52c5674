package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Reservation is the body posted to onlineboeking/reserveer.
type Reservation struct {
	PackageID        int               `json:"arrangement_id"`
	Begin            time.Time         `json:"begin"`
	PaymentMethod    PaymentMethod     `json:"betaalmethode"`
	ContactForm      map[string]string `json:"contactformulier"`
	DiscountCode     *string           `json:"kortingscode"`
	Products         []ProductCount    `json:"producten"`
	Status           *string           `json:"status"`
	SendConfirmation bool              `json:"stuur_bevestiging_email"`
	Vouchers         []string          `json:"vouchers"`
	BookingSize      *int              `json:"boekingsgrootte,omitempty"`
	RedirectURL      string            `json:"redirect_url,omitempty"`
}

// Outcome is what a submission ended in.
type Outcome struct {
	State       State
	PaymentURL  string
	Message     string
	Raw         json.RawMessage
	Reservation Reservation
	Price       Breakdown
}

type reserveResponse struct {
	PaymentURL string          `json:"payment_url"`
	Message    string          `json:"message"`
	Status     json.RawMessage `json:"status"`
}

// Payload builds the reservation for the current selection. It is a
// contract violation to ask for it while CanSubmit is not allowed.
func (s *Session) Payload() (Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v := s.verdictLocked(); !v.Allowed {
		return Reservation{}, blockedError(v)
	}
	return s.payloadLocked()
}

func blockedError(v Verdict) error {
	return &Error{Kind: KindProgrammer, Code: CodeSubmitBlocked, Err: fmt.Errorf("blocked by %v", v.Reasons)}
}

func (s *Session) payloadLocked() (Reservation, error) {
	pkg := *s.pkg
	begin, err := time.ParseInLocation(DateLayout+" "+TimeLayout, s.sel.Date+" "+s.sel.Time, s.loc)
	if err != nil {
		return Reservation{}, &Error{Kind: KindProgrammer, Code: CodeSubmitBlocked, Err: fmt.Errorf("begin: %w", err)}
	}

	method := PaymentDirect
	if pkg.AcceptsPayment(s.sel.PaymentMethod) {
		method = s.sel.PaymentMethod
	}

	r := Reservation{
		PackageID:        pkg.ID,
		Begin:            begin,
		PaymentMethod:    method,
		ContactForm:      s.form.Serialize(),
		Products:         s.sel.ProductCounts(pkg),
		SendConfirmation: true,
		RedirectURL:      s.redirectURL,
	}
	if s.discount != nil && s.discount.Code != "" {
		code := s.discount.Code
		r.DiscountCode = &code
	}
	if len(s.voucherOrder) > 0 {
		r.Vouchers = append([]string(nil), s.voucherOrder...)
	}
	if pkg.HasBookingSize() {
		size := s.sel.BookingSize
		r.BookingSize = &size
	}
	return r, nil
}

// Submit posts the reservation. Calling it while CanSubmit is not allowed is
// a programmer error. A successful booking discards the selection.
func (s *Session) Submit(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	if s.phase == StateSubmitting {
		s.mu.Unlock()
		return Outcome{}, ErrBusy
	}
	if v := s.verdictLocked(); !v.Allowed {
		s.mu.Unlock()
		s.logger.DPanic("Submit called while booking is blocked", zap.Any("reasons", v.Reasons))
		return Outcome{}, blockedError(v)
	}

	pkg := *s.pkg
	bookingSize := 0
	if pkg.HasBookingSize() {
		bookingSize = s.sel.BookingSize
	}
	productSum := 0
	for _, c := range s.sel.ProductCounts(pkg) {
		productSum += c.Units
	}
	if bookingSize == 0 && productSum == 0 {
		s.mu.Unlock()
		return Outcome{}, ErrNoProducts
	}

	payload, err := s.payloadLocked()
	if err != nil {
		s.mu.Unlock()
		return Outcome{}, err
	}
	price := Price(pkg, s.sel, s.discount, s.vouchers)
	s.setPhaseLocked(StateSubmitting)
	s.mu.Unlock()

	s.logger.Info("Submitting booking",
		zap.Int("package_id", payload.PackageID),
		zap.Time("begin", payload.Begin),
		zap.String("payment_method", string(payload.PaymentMethod)),
		zap.Stringer("total", price.Total))

	raw, err := s.transport.Post(ctx, pathReserve, payload)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := Outcome{Raw: raw, Reservation: payload, Price: price}
	if err != nil {
		out.State = StateFailed
		s.setPhaseLocked(StateFailed)
		s.logger.Error("Booking request failed", zap.Error(err))
		return out, transportError("reserve", err)
	}

	var resp reserveResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		s.logger.Warn("Unexpected booking response", zap.ByteString("response", raw), zap.Error(err))
	}

	switch {
	case resp.PaymentURL != "":
		out.State = StatePaymentRedirect
		out.PaymentURL = resp.PaymentURL
	case resp.Message != "" && truthy(resp.Status):
		out.Message = resp.Message
		out.State = StateConfirmed
		if payload.RedirectURL != "" {
			out.State = StatePaymentRedirect
			out.PaymentURL = payload.RedirectURL
		}
	default:
		out.State = StateFailed
		s.logger.Warn("Booking not confirmed", zap.ByteString("response", raw))
	}

	s.setPhaseLocked(out.State)
	if out.State != StateFailed {
		s.clearLocked()
	}
	return out, nil
}

func truthy(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	switch string(v) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}
