package booking

// State is the wizard position of a Session.
type State string

const (
	StateNoPackage          State = "no_package"
	StatePackageSelected    State = "package_selected"
	StateProductsEntered    State = "products_entered"
	StateDateTimeChosen     State = "date_time_chosen"
	StateContactInfoEntered State = "contact_info_entered"
	StateSubmitting         State = "submitting"
	StateConfirmed          State = "confirmed"
	StatePaymentRedirect    State = "payment_redirect"
	StateFailed             State = "failed"
)

// phaseTransitions guards the stored phase. The editing states are derived
// from the selection and collapse into "" here.
var phaseTransitions = map[State][]State{
	"":                   {StateSubmitting},
	StateSubmitting:      {StateConfirmed, StatePaymentRedirect, StateFailed},
	StateConfirmed:       {""},
	StatePaymentRedirect: {""},
	StateFailed:          {"", StateSubmitting},
}

func canTransition(from, to State) bool {
	for _, s := range phaseTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s State) IsTerminal() bool {
	return s == StateConfirmed || s == StatePaymentRedirect
}

// ReasonCode explains why a booking cannot be submitted yet.
type ReasonCode string

const (
	ReasonRequiredProduct    ReasonCode = "BOOKING_DISABLED_REQUIRED_PRODUCT"
	ReasonAmountsInvalid     ReasonCode = "BOOKING_DISABLED_AMOUNTS_INVALID"
	ReasonInvalidDate        ReasonCode = "BOOKING_DISABLED_INVALID_DATE"
	ReasonInvalidTime        ReasonCode = "BOOKING_DISABLED_INVALID_TIME"
	ReasonContactFormInvalid ReasonCode = "BOOKING_DISABLED_CONTACT_FORM_INVALID"
)

// Verdict is the result of CanSubmit.
type Verdict struct {
	Allowed bool
	Reasons []ReasonCode
}

// evaluate builds the verdict in the fixed reason order.
func evaluate(pkg Package, sel Selection, form ContactForm) Verdict {
	var reasons []ReasonCode
	if len(UnmetDependencies(pkg, sel)) > 0 {
		reasons = append(reasons, ReasonRequiredProduct)
	}
	if !AmountsValid(pkg, sel) {
		reasons = append(reasons, ReasonAmountsInvalid)
	}
	if sel.Date == "" {
		reasons = append(reasons, ReasonInvalidDate)
	}
	if sel.Time == "" {
		reasons = append(reasons, ReasonInvalidTime)
	}
	if form == nil || !form.Valid() {
		reasons = append(reasons, ReasonContactFormInvalid)
	}
	return Verdict{Allowed: len(reasons) == 0, Reasons: reasons}
}
