package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	pathAvailableDays  = "onlineboeking/beschikbaredagen"
	pathAvailableTimes = "onlineboeking/beschikbaretijden"
	pathCheckDiscount  = "onlineboeking/controleerkortingscode"
	pathCheckVoucher   = "onlineboeking/controleervoucher"
	pathReserve        = "onlineboeking/reserveer"
)

// Session is one user's pass through the booking wizard.
//
// All methods are safe for concurrent use. The lock is released while a
// request is in flight; responses are applied only if nothing invalidated
// them in the meantime.
type Session struct {
	mu sync.Mutex

	transport   Transport
	forms       ContactFormProvider
	logger      *zap.Logger
	now         func() time.Time
	loc         *time.Location
	redirectURL string

	packages []Package
	pkg      *Package
	// epoch changes whenever the package is (re)selected or discarded
	epoch uint64
	// version changes with the package, the quantities and the chosen date;
	// code checks issued under an older version are dropped
	version uint64

	sel          Selection
	discount     *Discount
	vouchers     map[string]VoucherBreakdown
	voucherOrder []string
	form         ContactForm
	avail        *AvailabilityCache
	phase        State
}

type Option func(*Session)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLocation sets the time zone dates and times are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(s *Session) { s.loc = loc }
}

// WithRedirectURL is sent as redirect_url and followed after a booking
// that needs no online payment.
func WithRedirectURL(u string) Option {
	return func(s *Session) { s.redirectURL = u }
}

func WithContactForms(p ContactFormProvider) Option {
	return func(s *Session) { s.forms = p }
}

func NewSession(transport Transport, packages []Package, opts ...Option) *Session {
	s := &Session{
		transport: transport,
		logger:    zap.NewNop(),
		now:       time.Now,
		loc:       time.Local,
		packages:  BookablePackages(packages),
		sel:       NewSelection(),
		vouchers:  make(map[string]VoucherBreakdown),
		avail:     NewAvailabilityCache(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Packages returns the bookable packages in display order.
func (s *Session) Packages() []Package {
	return append([]Package(nil), s.packages...)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	if s.phase != "" {
		return s.phase
	}
	if s.pkg == nil {
		return StateNoPackage
	}
	if s.sel.Date != "" && s.sel.Time != "" {
		if s.form != nil && s.form.Valid() {
			return StateContactInfoEntered
		}
		return StateDateTimeChosen
	}
	if s.sel.TotalUnits(*s.pkg) > 0 {
		return StateProductsEntered
	}
	return StatePackageSelected
}

func (s *Session) setPhaseLocked(to State) {
	if !canTransition(s.phase, to) {
		s.logger.DPanic("illegal session transition",
			zap.String("from", string(s.phase)),
			zap.String("to", string(to)))
	}
	s.phase = to
}

// editableLocked reopens a finished session for editing.
func (s *Session) editableLocked() error {
	switch s.phase {
	case StateSubmitting:
		return ErrBusy
	case "":
		return nil
	default:
		s.setPhaseLocked("")
		return nil
	}
}

func (s *Session) Package() (Package, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pkg == nil {
		return Package{}, false
	}
	return *s.pkg, true
}

func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.clone()
}

func (s *Session) Discount() *Discount {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.discount == nil {
		return nil
	}
	d := *s.discount
	return &d
}

// Vouchers returns the accepted voucher codes in the order they were applied.
func (s *Session) Vouchers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.voucherOrder...)
}

func (s *Session) ContactForm() ContactForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *Session) Price() Breakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pkg == nil {
		return Breakdown{}
	}
	return Price(*s.pkg, s.sel, s.discount, s.vouchers)
}

func (s *Session) UnmetDependencies() []UnmetDependency {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pkg == nil {
		return nil
	}
	return UnmetDependencies(*s.pkg, s.sel)
}

func (s *Session) MinimumViolations() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pkg == nil {
		return nil
	}
	return MinimumViolations(*s.pkg, s.sel)
}

func (s *Session) MaximumViolation() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pkg == nil {
		return 0, false
	}
	return MaximumViolation(*s.pkg, s.sel)
}

func (s *Session) StandardAttachments() []Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pkg == nil {
		return nil
	}
	return StandardAttachments(*s.pkg, s.sel)
}

func (s *Session) AvailableDays() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.avail.Days()
}

func (s *Session) IsAvailable(day string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.avail.IsAvailable(day)
}

// AvailableTimes returns the times fetched for the chosen date.
func (s *Session) AvailableTimes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.avail.Times(s.sel.Date)
}

// CanSubmit re-evaluates every blocking condition.
func (s *Session) CanSubmit() Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verdictLocked()
}

func (s *Session) verdictLocked() Verdict {
	if s.pkg == nil {
		return evaluate(Package{}, NewSelection(), nil)
	}
	return evaluate(*s.pkg, s.sel, s.form)
}

// Reset drops the package and everything selected for it.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	s.clearLocked()
	return nil
}

func (s *Session) clearLocked() {
	s.pkg = nil
	s.epoch++
	s.version++
	s.sel = NewSelection()
	s.discount = nil
	s.vouchers = make(map[string]VoucherBreakdown)
	s.voucherOrder = nil
	s.form = nil
	s.avail.Reset()
}

// SelectPackage switches to the package with the given id. An id that is not
// among the bookable packages resets the session instead.
func (s *Session) SelectPackage(ctx context.Context, id int) error {
	s.mu.Lock()
	if err := s.editableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.clearLocked()

	var pkg Package
	found := false
	for _, p := range s.packages {
		if p.ID == id {
			pkg, found = p, true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		s.logger.Info("Package not bookable, session reset", zap.Int("package_id", id))
		return nil
	}

	s.pkg = &pkg
	if methods := pkg.PaymentMethods(); len(methods) > 0 {
		s.sel.PaymentMethod = methods[0]
	} else {
		s.sel.PaymentMethod = PaymentDirect
	}
	epoch := s.epoch
	s.mu.Unlock()

	s.logger.Debug("Package selected", zap.Int("package_id", id))

	var errs []error
	if s.forms != nil {
		form, err := s.forms.ContactForm(ctx, pkg)
		if err != nil {
			s.logger.Warn("Failed to load contact form", zap.Int("package_id", id), zap.Error(err))
			errs = append(errs, transportError("load contact form", err))
		} else {
			s.mu.Lock()
			if s.epoch == epoch {
				s.form = form
			}
			s.mu.Unlock()
		}
	}

	begin, end := initialWindow(s.now().In(s.loc))
	if err := s.RequestRange(ctx, begin, end); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SetQuantity sets the units of a per-line package line.
func (s *Session) SetQuantity(ctx context.Context, lineID, units int) error {
	return s.updateSelection(ctx, func(pkg Package, sel *Selection) (bool, error) {
		line, ok := pkg.Line(lineID)
		if !ok || line.IsBookingSize() {
			return false, ErrUnknownLine
		}
		if units < 0 {
			return false, ErrQuantityInvalid
		}
		if line.MaxUnits != nil && units > *line.MaxUnits {
			return false, ErrQuantityTooHigh
		}
		if sel.Quantities[lineID] == units {
			return false, nil
		}
		sel.Quantities[lineID] = units
		return true, nil
	})
}

// SetBookingSize sets the shared quantity of all booking-size lines.
func (s *Session) SetBookingSize(ctx context.Context, size int) error {
	return s.updateSelection(ctx, func(pkg Package, sel *Selection) (bool, error) {
		lines := pkg.BookingSizeLines()
		if len(lines) == 0 {
			return false, ErrUnknownLine
		}
		if size < 0 {
			return false, ErrQuantityInvalid
		}
		for _, l := range lines {
			if l.MaxUnits != nil && size > *l.MaxUnits {
				return false, ErrQuantityTooHigh
			}
		}
		if sel.BookingSize == size {
			return false, nil
		}
		sel.BookingSize = size
		return true, nil
	})
}

// updateSelection applies a quantity change. Availability depends on the
// requested quantities, so any change drops the known days, the chosen date
// and time, and fetches the initial window again.
func (s *Session) updateSelection(ctx context.Context, mutate func(Package, *Selection) (bool, error)) error {
	s.mu.Lock()
	if err := s.editableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.pkg == nil {
		s.mu.Unlock()
		return ErrNoPackage
	}
	changed, err := mutate(*s.pkg, &s.sel)
	if err != nil || !changed {
		s.mu.Unlock()
		return err
	}
	s.sel.Date = ""
	s.sel.Time = ""
	s.version++
	s.avail.Reset()
	s.mu.Unlock()

	begin, end := initialWindow(s.now().In(s.loc))
	return s.RequestRange(ctx, begin, end)
}

type daysRequest struct {
	PackageID int            `json:"arrangement_id"`
	Begin     string         `json:"begin"`
	End       string         `json:"eind"`
	Products  []ProductCount `json:"producten"`
}

// RequestRange fetches the available days between begin and end for the
// current package and quantities and merges them into the cache.
func (s *Session) RequestRange(ctx context.Context, begin, end time.Time) error {
	s.mu.Lock()
	if s.pkg == nil {
		s.mu.Unlock()
		return ErrNoPackage
	}
	gen := s.avail.Generation()
	req := daysRequest{
		PackageID: s.pkg.ID,
		Begin:     begin.In(s.loc).Format(DateLayout),
		End:       end.In(s.loc).Format(DateLayout),
		Products:  s.sel.ProductCounts(*s.pkg),
	}
	s.mu.Unlock()

	raw, err := s.transport.Post(ctx, pathAvailableDays, req)
	if err != nil {
		s.logger.Warn("Failed to fetch available days",
			zap.Int("package_id", req.PackageID),
			zap.String("begin", req.Begin),
			zap.String("end", req.End),
			zap.Error(err))
		return transportError("available days", err)
	}
	var days []string
	if err := json.Unmarshal(raw, &days); err != nil {
		return transportError("decode available days", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.avail.Merge(gen, days) {
		s.logger.Debug("Dropping stale available days",
			zap.Int("package_id", req.PackageID),
			zap.Uint64("generation", gen))
	}
	return nil
}

// ExtendAvailability pages in more days when the calendar shows the month of
// visibleEnd and the known days do not reach past it.
func (s *Session) ExtendAvailability(ctx context.Context, visibleEnd time.Time) error {
	s.mu.Lock()
	if s.pkg == nil {
		s.mu.Unlock()
		return ErrNoPackage
	}
	begin, end, ok := s.avail.ExtensionWindow(visibleEnd.In(s.loc), s.now().In(s.loc))
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return s.RequestRange(ctx, begin, end)
}

type timesRequest struct {
	PackageID int            `json:"arrangement_id"`
	Date      string         `json:"datum"`
	Products  []ProductCount `json:"producten"`
}

// ChooseDate picks an available day and fetches its times. Any previously
// chosen time is cleared.
func (s *Session) ChooseDate(ctx context.Context, day string) error {
	s.mu.Lock()
	if err := s.editableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.pkg == nil {
		s.mu.Unlock()
		return ErrNoPackage
	}
	if _, err := time.ParseInLocation(DateLayout, day, s.loc); err != nil {
		s.mu.Unlock()
		return ErrDateInvalid
	}
	if !s.avail.IsAvailable(day) {
		s.mu.Unlock()
		return ErrDateUnavailable
	}
	if s.sel.Date != day {
		s.version++
	}
	s.sel.Date = day
	s.sel.Time = ""
	s.avail.clearTimes()
	gen := s.avail.Generation()
	req := timesRequest{
		PackageID: s.pkg.ID,
		Date:      day,
		Products:  s.sel.ProductCounts(*s.pkg),
	}
	s.mu.Unlock()

	raw, err := s.transport.Post(ctx, pathAvailableTimes, req)
	if err != nil {
		s.logger.Warn("Failed to fetch available times",
			zap.Int("package_id", req.PackageID),
			zap.String("date", day),
			zap.Error(err))
		return transportError("available times", err)
	}
	var stamps []string
	if err := json.Unmarshal(raw, &stamps); err != nil {
		return transportError("decode available times", err)
	}
	times := timesOfDay(stamps, s.loc)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sel.Date != day || !s.avail.SetTimes(gen, day, times) {
		s.logger.Debug("Dropping stale available times", zap.String("date", day))
	}
	return nil
}

// timesOfDay turns API datetimes into unique "15:04" strings, keeping order.
func timesOfDay(stamps []string, loc *time.Location) []string {
	seen := make(map[string]bool, len(stamps))
	out := make([]string, 0, len(stamps))
	for _, st := range stamps {
		t, ok := parseTimestamp(st, loc)
		if !ok {
			continue
		}
		v := t.Format(TimeLayout)
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func parseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), true
	}
	for _, layout := range timestampLayouts[1:] {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ChooseTime picks one of the times fetched for the chosen date.
func (s *Session) ChooseTime(t string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	if s.pkg == nil {
		return ErrNoPackage
	}
	if s.sel.Date == "" {
		return ErrDateInvalid
	}
	if !s.avail.HasTime(s.sel.Date, t) {
		return ErrTimeInvalid
	}
	s.sel.Time = t
	return nil
}

func (s *Session) SetPaymentMethod(m PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	if s.pkg == nil {
		return ErrNoPackage
	}
	if !s.pkg.AcceptsPayment(m) {
		return ErrPaymentMethodInvalid
	}
	s.sel.PaymentMethod = m
	return nil
}

// ApplyDiscountCode checks a discount code remotely and, when valid, makes
// it the single active discount.
func (s *Session) ApplyDiscountCode(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrDiscountEmpty
	}

	s.mu.Lock()
	if err := s.editableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.pkg == nil {
		s.mu.Unlock()
		return ErrNoPackage
	}
	version := s.version
	q := url.Values{}
	q.Set("datum", s.sel.Date)
	q.Set("arrangement", strconv.Itoa(s.pkg.ID))
	q.Set("kortingscode", code)
	s.mu.Unlock()

	raw, err := s.transport.Get(ctx, pathCheckDiscount+"?"+q.Encode())
	if err != nil {
		s.logger.Warn("Failed to check discount code", zap.Error(err))
		return transportError("check discount code", err)
	}
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("false")) || bytes.Equal(trimmed, []byte("null")) || len(trimmed) == 0 {
		return ErrDiscountInvalid
	}
	var d Discount
	if err := json.Unmarshal(trimmed, &d); err != nil {
		return transportError("decode discount", err)
	}
	d.Code = code

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != version {
		s.logger.Debug("Dropping discount checked for a previous selection", zap.String("code", code))
		return nil
	}
	s.discount = &d
	return nil
}

type voucherRequest struct {
	PackageID int            `json:"arrangement_id"`
	Date      string         `json:"datum"`
	Products  []ProductCount `json:"producten"`
	Vouchers  []string       `json:"vouchers"`
}

type voucherResult struct {
	Valid     bool             `json:"valid"`
	Processed VoucherBreakdown `json:"processed"`
}

// ApplyVoucher checks a voucher remotely and adds its breakdown. Accepted
// codes accumulate and are never replaced.
func (s *Session) ApplyVoucher(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrVoucherEmpty
	}

	s.mu.Lock()
	if err := s.editableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.pkg == nil {
		s.mu.Unlock()
		return ErrNoPackage
	}
	if _, ok := s.vouchers[code]; ok {
		s.mu.Unlock()
		return ErrVoucherAlreadyApplied
	}
	if _, err := time.ParseInLocation(DateLayout, s.sel.Date, s.loc); err != nil {
		s.mu.Unlock()
		return ErrDateInvalid
	}
	version := s.version
	req := voucherRequest{
		PackageID: s.pkg.ID,
		Date:      s.sel.Date,
		Products:  s.sel.ProductCounts(*s.pkg),
		Vouchers:  []string{code},
	}
	s.mu.Unlock()

	raw, err := s.transport.Post(ctx, pathCheckVoucher, req)
	if err != nil {
		s.logger.Warn("Failed to check voucher", zap.Error(err))
		return transportError("check voucher", err)
	}
	var results map[string]voucherResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return transportError("decode voucher", err)
	}
	result, ok := results[code]
	if !ok || !result.Valid {
		return ErrVoucherInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != version {
		s.logger.Debug("Dropping voucher checked for a previous selection", zap.String("code", code))
		return nil
	}
	if _, ok := s.vouchers[code]; ok {
		return ErrVoucherAlreadyApplied
	}
	s.vouchers[code] = result.Processed
	s.voucherOrder = append(s.voucherOrder, code)
	return nil
}
