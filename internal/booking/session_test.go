package booking

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
)

// readySession has drinks, a date, a time and a valid contact form.
func readySession(t *testing.T, extra ...Option) (*Session, *fakeTransport) {
	t.Helper()
	ctx := context.Background()
	s, ft := newTestSession(t, &fakeForm{valid: true, values: map[string]string{"contactpersoon.email1": "a@b.nl"}}, extra...)
	if err := s.SetQuantity(ctx, 11, 2); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if err := s.ChooseDate(ctx, "2026-03-12"); err != nil {
		t.Fatalf("ChooseDate: %v", err)
	}
	if err := s.ChooseTime("10:00"); err != nil {
		t.Fatalf("ChooseTime: %v", err)
	}
	return s, ft
}

func TestSelectPackage(t *testing.T) {
	s, ft := newTestSession(t, nil)

	var names []string
	for _, p := range s.Packages() {
		names = append(names, p.Name())
	}
	if !reflect.DeepEqual(names, []string{"Archery", "Company outing"}) {
		t.Fatalf("packages = %v", names)
	}

	pkg, ok := s.Package()
	if !ok || pkg.ID != 7 {
		t.Fatalf("package = %v %v", pkg.ID, ok)
	}
	if got := s.State(); got != StatePackageSelected {
		t.Fatalf("state = %s", got)
	}
	if got := s.Selection().PaymentMethod; got != PaymentDirect {
		t.Fatalf("payment method = %s", got)
	}
	if got := s.AvailableDays(); !reflect.DeepEqual(got, []string{"2026-03-12", "2026-03-13"}) {
		t.Fatalf("days = %v", got)
	}

	calls := ft.callsTo(pathAvailableDays)
	if len(calls) != 1 {
		t.Fatalf("expected one days request, got %d", len(calls))
	}
	var req map[string]any
	if err := json.Unmarshal(calls[0].body, &req); err != nil {
		t.Fatal(err)
	}
	if req["begin"] != "2026-03-10" || req["eind"] != "2026-06-10" {
		t.Fatalf("initial window = %v..%v", req["begin"], req["eind"])
	}
}

func TestSelectUnknownPackageResets(t *testing.T) {
	s, _ := newTestSession(t, nil)
	if err := s.SetQuantity(context.Background(), 11, 2); err != nil {
		t.Fatal(err)
	}

	// package 8 exists but is not bookable online
	if err := s.SelectPackage(context.Background(), 8); err != nil {
		t.Fatalf("SelectPackage: %v", err)
	}
	if _, ok := s.Package(); ok {
		t.Fatal("package still selected")
	}
	if got := s.State(); got != StateNoPackage {
		t.Fatalf("state = %s", got)
	}
	if len(s.Selection().Quantities) != 0 || len(s.AvailableDays()) != 0 {
		t.Fatal("selection not cleared")
	}
	if err := s.SetQuantity(context.Background(), 11, 1); !errors.Is(err, ErrNoPackage) {
		t.Fatalf("err = %v", err)
	}
}

func TestSetQuantityValidation(t *testing.T) {
	s, _ := newTestSession(t, nil)
	ctx := context.Background()

	tests := []struct {
		line  int
		units int
		want  error
	}{
		{99, 1, ErrUnknownLine},
		{13, 1, ErrUnknownLine},
		{11, -1, ErrQuantityInvalid},
		{11, 41, ErrQuantityTooHigh},
	}
	for _, tt := range tests {
		if err := s.SetQuantity(ctx, tt.line, tt.units); !errors.Is(err, tt.want) {
			t.Errorf("SetQuantity(%d, %d) = %v, want %v", tt.line, tt.units, err, tt.want)
		}
	}
	if err := s.SetBookingSize(ctx, 3); err != nil {
		t.Fatalf("SetBookingSize: %v", err)
	}
	if got := s.Selection().BookingSize; got != 3 {
		t.Fatalf("booking size = %d", got)
	}
}

func TestQuantityChangeInvalidatesDate(t *testing.T) {
	s, ft := readySession(t)
	ctx := context.Background()
	before := len(ft.callsTo(pathAvailableDays))

	// same value is not a change
	if err := s.SetQuantity(ctx, 11, 2); err != nil {
		t.Fatal(err)
	}
	if got := len(ft.callsTo(pathAvailableDays)); got != before {
		t.Fatalf("unchanged quantity refetched days")
	}

	ft.reply(pathAvailableDays, `["2026-03-20"]`)
	if err := s.SetQuantity(ctx, 11, 3); err != nil {
		t.Fatal(err)
	}
	sel := s.Selection()
	if sel.Date != "" || sel.Time != "" {
		t.Fatalf("date/time kept after quantity change: %q %q", sel.Date, sel.Time)
	}
	if got := s.AvailableDays(); !reflect.DeepEqual(got, []string{"2026-03-20"}) {
		t.Fatalf("days = %v", got)
	}
	if got := s.AvailableTimes(); got != nil {
		t.Fatalf("times = %v", got)
	}

	calls := ft.callsTo(pathAvailableDays)
	var req daysRequest
	if err := json.Unmarshal(calls[len(calls)-1].body, &req); err != nil {
		t.Fatal(err)
	}
	if req.Products[0] != (ProductCount{Units: 3, LineID: 11}) {
		t.Fatalf("days requested for %v", req.Products)
	}
}

func TestChooseDateAndTime(t *testing.T) {
	s, ft := newTestSession(t, nil)
	ctx := context.Background()

	if err := s.ChooseDate(ctx, "12-03-2026"); !errors.Is(err, ErrDateInvalid) {
		t.Fatalf("err = %v", err)
	}
	if err := s.ChooseDate(ctx, "2026-03-20"); !errors.Is(err, ErrDateUnavailable) {
		t.Fatalf("err = %v", err)
	}
	if err := s.ChooseTime("10:00"); !errors.Is(err, ErrDateInvalid) {
		t.Fatalf("time before date: %v", err)
	}

	if err := s.ChooseDate(ctx, "2026-03-12"); err != nil {
		t.Fatalf("ChooseDate: %v", err)
	}
	if got := s.AvailableTimes(); !reflect.DeepEqual(got, []string{"10:00", "14:30"}) {
		t.Fatalf("times = %v", got)
	}
	if len(ft.callsTo(pathAvailableTimes)) != 1 {
		t.Fatal("expected one times request")
	}
	if err := s.ChooseTime("11:00"); !errors.Is(err, ErrTimeInvalid) {
		t.Fatalf("err = %v", err)
	}
	if err := s.ChooseTime("14:30"); err != nil {
		t.Fatalf("ChooseTime: %v", err)
	}
	if got := s.State(); got != StateDateTimeChosen {
		t.Fatalf("state = %s", got)
	}

	// choosing another day clears the time
	if err := s.ChooseDate(ctx, "2026-03-13"); err != nil {
		t.Fatal(err)
	}
	if got := s.Selection().Time; got != "" {
		t.Fatalf("time = %q", got)
	}
}

func TestCanSubmitReasons(t *testing.T) {
	s, _ := newTestSession(t, nil)
	if err := s.SetQuantity(context.Background(), 12, 3); err != nil {
		t.Fatal(err)
	}

	want := []ReasonCode{ReasonRequiredProduct, ReasonInvalidDate, ReasonInvalidTime, ReasonContactFormInvalid}
	v := s.CanSubmit()
	if v.Allowed || !reflect.DeepEqual(v.Reasons, want) {
		t.Fatalf("verdict = %+v", v)
	}

	s.Reset()
	v = s.CanSubmit()
	if v.Allowed || v.Reasons[0] != ReasonAmountsInvalid {
		t.Fatalf("verdict without package = %+v", v)
	}
}

func TestCanSubmitAllowed(t *testing.T) {
	s, _ := readySession(t)
	if v := s.CanSubmit(); !v.Allowed || len(v.Reasons) != 0 {
		t.Fatalf("verdict = %+v", v)
	}
	if got := s.State(); got != StateContactInfoEntered {
		t.Fatalf("state = %s", got)
	}
}

func TestSetPaymentMethod(t *testing.T) {
	s, _ := newTestSession(t, nil)
	if err := s.SetPaymentMethod(PaymentAfterwards); err != nil {
		t.Fatal(err)
	}
	if err := s.SetPaymentMethod("ideal"); !errors.Is(err, ErrPaymentMethodInvalid) {
		t.Fatalf("err = %v", err)
	}
	if got := s.Selection().PaymentMethod; got != PaymentAfterwards {
		t.Fatalf("payment method = %s", got)
	}
}

func TestApplyDiscountCode(t *testing.T) {
	s, ft := readySession(t)
	ctx := context.Background()

	if err := s.ApplyDiscountCode(ctx, "  "); !errors.Is(err, ErrDiscountEmpty) {
		t.Fatalf("err = %v", err)
	}

	ft.reply(pathCheckDiscount, `false`)
	err := s.ApplyDiscountCode(ctx, "NOPE")
	if !errors.Is(err, ErrDiscountInvalid) || KindOf(err) != KindRemoteRejection {
		t.Fatalf("err = %v", err)
	}
	if s.Discount() != nil {
		t.Fatal("invalid discount applied")
	}

	ft.reply(pathCheckDiscount, `{"naam": "Ten off", "percentage": 10}`)
	if err := s.ApplyDiscountCode(ctx, " TEN "); err != nil {
		t.Fatalf("ApplyDiscountCode: %v", err)
	}
	d := s.Discount()
	if d == nil || d.Code != "TEN" || d.Percentage != 1000 {
		t.Fatalf("discount = %+v", d)
	}
	if got := s.Price(); got.Subtotal != 2000 || got.Discount != -200 || got.Total != 1800 {
		t.Fatalf("price = %+v", got)
	}

	calls := ft.callsTo(pathCheckDiscount)
	last := calls[len(calls)-1]
	if last.method != "GET" || !strings.Contains(last.path, "kortingscode=TEN") || !strings.Contains(last.path, "datum=2026-03-12") {
		t.Fatalf("discount request = %s %s", last.method, last.path)
	}
}

func TestApplyVoucher(t *testing.T) {
	s, ft := newTestSession(t, nil)
	ctx := context.Background()

	if err := s.ApplyVoucher(ctx, "GIFT"); !errors.Is(err, ErrDateInvalid) {
		t.Fatalf("voucher without date: %v", err)
	}
	if err := s.ChooseDate(ctx, "2026-03-12"); err != nil {
		t.Fatal(err)
	}

	ft.reply(pathCheckVoucher, `{"GIFT": {"valid": true, "processed": {"11": {"aantal": 1, "prijs_per_stuk": 5}}}}`)
	if err := s.ApplyVoucher(ctx, "GIFT"); err != nil {
		t.Fatalf("ApplyVoucher: %v", err)
	}
	if got := s.Price().Vouchers; got != -500 {
		t.Fatalf("voucher amount = %s", got)
	}

	if err := s.ApplyVoucher(ctx, "GIFT"); !errors.Is(err, ErrVoucherAlreadyApplied) {
		t.Fatalf("second apply = %v", err)
	}
	if err := s.ApplyVoucher(ctx, " GIFT\n"); !errors.Is(err, ErrVoucherAlreadyApplied) {
		t.Fatalf("padded second apply = %v", err)
	}
	if got := s.Price().Vouchers; got != -500 {
		t.Fatalf("voucher amount changed to %s", got)
	}
	if n := len(ft.callsTo(pathCheckVoucher)); n != 1 {
		t.Fatalf("expected one voucher request, got %d", n)
	}

	ft.reply(pathCheckVoucher, `{"BAD": {"valid": false}}`)
	if err := s.ApplyVoucher(ctx, "BAD"); !errors.Is(err, ErrVoucherInvalid) {
		t.Fatalf("err = %v", err)
	}
	if !reflect.DeepEqual(s.Vouchers(), []string{"GIFT"}) {
		t.Fatalf("vouchers = %v", s.Vouchers())
	}
}

func TestSubmitBlocked(t *testing.T) {
	s, ft := newTestSession(t, &fakeForm{valid: true})

	_, err := s.Submit(context.Background())
	if !errors.Is(err, ErrSubmitBlocked) || KindOf(err) != KindProgrammer {
		t.Fatalf("err = %v", err)
	}
	if _, err := s.Payload(); !errors.Is(err, ErrSubmitBlocked) {
		t.Fatalf("Payload err = %v", err)
	}
	if len(ft.callsTo(pathReserve)) != 0 {
		t.Fatal("blocked booking was posted")
	}
}

func TestSubmitPayload(t *testing.T) {
	s, ft := readySession(t)
	ft.reply(pathReserve, `{"payment_url": "https://pay.example/123"}`)

	out, err := s.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.State != StatePaymentRedirect || out.PaymentURL != "https://pay.example/123" {
		t.Fatalf("outcome = %+v", out)
	}

	calls := ft.callsTo(pathReserve)
	if len(calls) != 1 {
		t.Fatalf("expected one reserve call, got %d", len(calls))
	}
	var body map[string]any
	if err := json.Unmarshal(calls[0].body, &body); err != nil {
		t.Fatal(err)
	}
	if body["arrangement_id"] != float64(7) || body["betaalmethode"] != "mollie" ||
		body["begin"] != "2026-03-12T10:00:00Z" || body["stuur_bevestiging_email"] != true {
		t.Fatalf("payload = %v", body)
	}
	if body["kortingscode"] != nil || body["status"] != nil {
		t.Fatalf("optional fields = %v %v", body["kortingscode"], body["status"])
	}
	if body["boekingsgrootte"] != float64(0) {
		t.Fatalf("boekingsgrootte = %v", body["boekingsgrootte"])
	}
	products := body["producten"].([]any)
	if len(products) != 3 {
		t.Fatalf("producten = %v", products)
	}
	first := products[0].(map[string]any)
	if first["arrangementsregel_id"] != float64(11) || first["aantal"] != float64(2) {
		t.Fatalf("first product = %v", first)
	}

	// a successful booking discards the selection
	if _, ok := s.Package(); ok {
		t.Fatal("package kept after booking")
	}
	if got := s.State(); got != StatePaymentRedirect {
		t.Fatalf("state = %s", got)
	}
}

func TestSubmitOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		redirect string
		response string
		want     State
		wantURL  string
	}{
		{"confirmed", "", `{"message": "Booked", "status": "reserved"}`, StateConfirmed, ""},
		{"confirmed with redirect", "https://shop.example/thanks", `{"message": "Booked", "status": 1}`, StatePaymentRedirect, "https://shop.example/thanks"},
		{"message without status", "", `{"message": "Sold out"}`, StateFailed, ""},
		{"unexpected body", "", `[]`, StateFailed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ft := readySession(t, WithRedirectURL(tt.redirect))
			ft.reply(pathReserve, tt.response)

			out, err := s.Submit(context.Background())
			if err != nil {
				t.Fatalf("Submit: %v", err)
			}
			if out.State != tt.want || out.PaymentURL != tt.wantURL {
				t.Fatalf("outcome = %s %q", out.State, out.PaymentURL)
			}
			if s.State() != tt.want {
				t.Fatalf("state = %s", s.State())
			}
			_, kept := s.Package()
			if kept != (tt.want == StateFailed) {
				t.Fatalf("package kept = %v", kept)
			}
		})
	}
}

func TestSubmitTransportFailureCanRetry(t *testing.T) {
	s, ft := readySession(t)
	ft.on(pathReserve, func(string, []byte) (string, error) {
		return "", errors.New("connection reset")
	})

	out, err := s.Submit(context.Background())
	if KindOf(err) != KindTransport || out.State != StateFailed {
		t.Fatalf("err = %v, state = %s", err, out.State)
	}
	if s.State() != StateFailed {
		t.Fatalf("state = %s", s.State())
	}

	ft.reply(pathReserve, `{"message": "Booked", "status": true}`)
	out, err = s.Submit(context.Background())
	if err != nil || out.State != StateConfirmed {
		t.Fatalf("retry: %v %s", err, out.State)
	}
}

func TestEditingBlockedWhileSubmitting(t *testing.T) {
	s, ft := readySession(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	ft.on(pathReserve, func(string, []byte) (string, error) {
		close(entered)
		<-release
		return `{"payment_url": "https://pay.example/1"}`, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background())
		done <- err
	}()
	<-entered

	if err := s.SetQuantity(context.Background(), 11, 3); !errors.Is(err, ErrBusy) {
		t.Errorf("SetQuantity while submitting = %v", err)
	}
	if _, err := s.Submit(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("second Submit = %v", err)
	}
	if s.State() != StateSubmitting {
		t.Errorf("state = %s", s.State())
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Submit: %v", err)
	}
}

func TestStaleDaysDropped(t *testing.T) {
	s, ft := newTestSession(t, nil)
	ctx := context.Background()

	var mu sync.Mutex
	first := true
	entered := make(chan struct{})
	release := make(chan struct{})
	ft.on(pathAvailableDays, func(string, []byte) (string, error) {
		mu.Lock()
		isFirst := first
		first = false
		mu.Unlock()
		if isFirst {
			close(entered)
			<-release
			return `["2026-04-01"]`, nil
		}
		return `["2026-03-20"]`, nil
	})

	done := make(chan error, 1)
	go func() {
		done <- s.RequestRange(ctx, testNow, testNow.AddDate(0, 1, 0))
	}()
	<-entered

	// the quantity change invalidates the request above
	if err := s.SetQuantity(ctx, 11, 2); err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("RequestRange: %v", err)
	}

	if got := s.AvailableDays(); !reflect.DeepEqual(got, []string{"2026-03-20"}) {
		t.Fatalf("days = %v", got)
	}
}

func TestExtendAvailability(t *testing.T) {
	s, ft := newTestSession(t, nil)
	ft.reply(pathAvailableDays, `["2026-04-02"]`)

	if err := s.ExtendAvailability(context.Background(), time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}
	calls := ft.callsTo(pathAvailableDays)
	var req daysRequest
	if err := json.Unmarshal(calls[len(calls)-1].body, &req); err != nil {
		t.Fatal(err)
	}
	if req.Begin != "2026-03-13" || req.End != "2026-05-13" {
		t.Fatalf("window = %s..%s", req.Begin, req.End)
	}
	if !s.IsAvailable("2026-03-12") || !s.IsAvailable("2026-04-02") {
		t.Fatalf("days = %v", s.AvailableDays())
	}

	// April is now covered for a calendar showing March
	n := len(ft.callsTo(pathAvailableDays))
	s.ExtendAvailability(context.Background(), time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	if len(ft.callsTo(pathAvailableDays)) != n {
		t.Fatal("unexpected fetch")
	}
}

// holdFirst makes the first request to prefix wait until release is closed
// and answer held; later requests answer rest at once. entered is closed
// when the first request arrives.
func holdFirst(ft *fakeTransport, prefix, held, rest string) (entered, release chan struct{}) {
	var mu sync.Mutex
	first := true
	entered = make(chan struct{})
	release = make(chan struct{})
	ft.on(prefix, func(string, []byte) (string, error) {
		mu.Lock()
		isFirst := first
		first = false
		mu.Unlock()
		if isFirst {
			close(entered)
			<-release
			return held, nil
		}
		return rest, nil
	})
	return entered, release
}

func TestStaleTimesDroppedAfterOtherDate(t *testing.T) {
	s, ft := newTestSession(t, nil)
	ctx := context.Background()
	entered, release := holdFirst(ft, pathAvailableTimes,
		`["2026-03-12T10:00:00Z"]`, `["2026-03-13T14:30:00Z"]`)

	done := make(chan error, 1)
	go func() { done <- s.ChooseDate(ctx, "2026-03-12") }()
	<-entered

	if err := s.ChooseDate(ctx, "2026-03-13"); err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("ChooseDate: %v", err)
	}

	if got := s.Selection().Date; got != "2026-03-13" {
		t.Fatalf("date = %q", got)
	}
	if got := s.AvailableTimes(); !reflect.DeepEqual(got, []string{"14:30"}) {
		t.Fatalf("times = %v", got)
	}
	if err := s.ChooseTime("10:00"); !errors.Is(err, ErrTimeInvalid) {
		t.Fatalf("time of the other day accepted: %v", err)
	}
}

func TestStaleTimesDroppedAfterQuantityChange(t *testing.T) {
	s, ft := newTestSession(t, nil)
	ctx := context.Background()
	entered, release := holdFirst(ft, pathAvailableTimes,
		`["2026-03-12T10:00:00Z"]`, `["2026-03-12T14:30:00Z"]`)

	done := make(chan error, 1)
	go func() { done <- s.ChooseDate(ctx, "2026-03-12") }()
	<-entered

	if err := s.SetQuantity(ctx, 11, 4); err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("ChooseDate: %v", err)
	}

	if got := s.Selection().Date; got != "" {
		t.Fatalf("date = %q", got)
	}
	if got := s.AvailableTimes(); len(got) != 0 {
		t.Fatalf("times = %v", got)
	}
}

func TestStaleVoucherDroppedAfterQuantityChange(t *testing.T) {
	s, ft := newTestSession(t, nil)
	ctx := context.Background()
	if err := s.SetQuantity(ctx, 11, 4); err != nil {
		t.Fatal(err)
	}
	if err := s.ChooseDate(ctx, "2026-03-12"); err != nil {
		t.Fatal(err)
	}
	entered, release := holdFirst(ft, pathCheckVoucher,
		`{"GIFT": {"valid": true, "processed": {"11": {"aantal": 4, "prijs_per_stuk": 10}}}}`, `{}`)

	done := make(chan error, 1)
	go func() { done <- s.ApplyVoucher(ctx, "GIFT") }()
	<-entered

	if err := s.SetQuantity(ctx, 11, 2); err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("ApplyVoucher: %v", err)
	}

	if got := s.Vouchers(); len(got) != 0 {
		t.Fatalf("vouchers = %v", got)
	}
	if got := s.Price(); got.Vouchers != 0 || got.Total != got.Subtotal {
		t.Fatalf("price = %+v", got)
	}
}

func TestStaleVoucherDroppedAfterPackageChange(t *testing.T) {
	s, ft := readySession(t)
	ctx := context.Background()
	entered, release := holdFirst(ft, pathCheckVoucher,
		`{"GIFT": {"valid": true, "processed": {"11": {"aantal": 1, "prijs_per_stuk": 10}}}}`, `{}`)

	done := make(chan error, 1)
	go func() { done <- s.ApplyVoucher(ctx, "GIFT") }()
	<-entered

	if err := s.SelectPackage(ctx, 7); err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("ApplyVoucher: %v", err)
	}

	if got := s.Vouchers(); len(got) != 0 {
		t.Fatalf("vouchers = %v", got)
	}
}

func TestStaleDiscountDroppedAfterQuantityChange(t *testing.T) {
	s, ft := readySession(t)
	ctx := context.Background()
	entered, release := holdFirst(ft, pathCheckDiscount,
		`{"naam": "Ten off", "percentage": 10}`, `false`)

	done := make(chan error, 1)
	go func() { done <- s.ApplyDiscountCode(ctx, "TEN") }()
	<-entered

	if err := s.SetQuantity(ctx, 11, 4); err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("ApplyDiscountCode: %v", err)
	}

	if d := s.Discount(); d != nil {
		t.Fatalf("discount = %+v", d)
	}
}

func TestStaleDiscountDroppedAfterPackageChange(t *testing.T) {
	s, ft := readySession(t)
	ctx := context.Background()
	entered, release := holdFirst(ft, pathCheckDiscount,
		`{"naam": "Ten off", "percentage": 10}`, `false`)

	done := make(chan error, 1)
	go func() { done <- s.ApplyDiscountCode(ctx, "TEN") }()
	<-entered

	if err := s.SelectPackage(ctx, 7); err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("ApplyDiscountCode: %v", err)
	}

	if d := s.Discount(); d != nil {
		t.Fatalf("discount = %+v", d)
	}
}

func TestDiscountKeptWhenSameDateChosenAgain(t *testing.T) {
	s, ft := readySession(t)
	ctx := context.Background()
	ft.reply(pathCheckDiscount, `{"naam": "Ten off", "percentage": 10}`)

	if err := s.ApplyDiscountCode(ctx, "TEN"); err != nil {
		t.Fatal(err)
	}
	if err := s.ChooseDate(ctx, "2026-03-12"); err != nil {
		t.Fatal(err)
	}
	if d := s.Discount(); d == nil || d.Code != "TEN" {
		t.Fatalf("discount = %+v", d)
	}
}
