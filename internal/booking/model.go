package booking

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// QuantityMode tells how the quantity of a package line is determined.
type QuantityMode string

const (
	ModePerLine     QuantityMode = "per-line"
	ModeBookingSize QuantityMode = "booking-size"
)

// wire value of onlineboeking_aantalbepalingsmethode for booking-size lines
const wireBookingSize = "boekingsgrootte"

func (m *QuantityMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case wireBookingSize, string(ModeBookingSize):
		*m = ModeBookingSize
	default:
		*m = ModePerLine
	}
	return nil
}

type Rounding string

const (
	RoundUp   Rounding = "up"
	RoundDown Rounding = "down"
)

// Only "boven" (or "up") rounds up; every other value floors.
func (r *Rounding) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "boven", string(RoundUp):
		*r = RoundUp
	default:
		*r = RoundDown
	}
	return nil
}

type PaymentMethod string

const (
	PaymentDirect     PaymentMethod = "mollie"
	PaymentAfterwards PaymentMethod = "factuur"
)

type Package struct {
	ID                    int           `json:"id"`
	DisplayName           string        `json:"weergavenaam"`
	InternalName          string        `json:"arrangement"`
	Lines                 []PackageLine `json:"regels"`
	AllowsDirectPayment   bool          `json:"mag_online_geboekt_worden_direct_betalen"`
	AllowsDeferredPayment bool          `json:"mag_online_geboekt_worden_achteraf_betalen"`
	MaxPersonsOnline      *int          `json:"maximum_aantal_personen_online"`
	OnlineBookable        bool          `json:"mag_online"`
	ContactFormID         int           `json:"onlineboeking_contactformulier_id"`
}

// Name falls back to the internal name; display names are optional.
func (p Package) Name() string {
	if strings.TrimSpace(p.DisplayName) != "" {
		return p.DisplayName
	}
	return p.InternalName
}

func (p Package) Line(id int) (PackageLine, bool) {
	for _, l := range p.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return PackageLine{}, false
}

func (p Package) BookingSizeLines() []PackageLine {
	var out []PackageLine
	for _, l := range p.Lines {
		if l.IsBookingSize() {
			out = append(out, l)
		}
	}
	return out
}

func (p Package) PerLineLines() []PackageLine {
	var out []PackageLine
	for _, l := range p.Lines {
		if !l.IsBookingSize() {
			out = append(out, l)
		}
	}
	return out
}

func (p Package) HasBookingSize() bool {
	return len(p.BookingSizeLines()) > 0
}

// Product looks up a product by id across all lines of the package.
func (p Package) Product(id int) (Product, bool) {
	for _, l := range p.Lines {
		if l.Product.ID == id {
			return l.Product, true
		}
	}
	return Product{}, false
}

// PaymentMethods lists the methods the package accepts, direct first.
func (p Package) PaymentMethods() []PaymentMethod {
	var methods []PaymentMethod
	if p.AllowsDirectPayment {
		methods = append(methods, PaymentDirect)
	}
	if p.AllowsDeferredPayment {
		methods = append(methods, PaymentAfterwards)
	}
	return methods
}

func (p Package) AcceptsPayment(m PaymentMethod) bool {
	for _, pm := range p.PaymentMethods() {
		if pm == m {
			return true
		}
	}
	return false
}

type PackageLine struct {
	ID             int          `json:"id"`
	Mode           QuantityMode `json:"onlineboeking_aantalbepalingsmethode"`
	PersonsPerUnit int          `json:"aantal_personen"`
	MaxUnits       *int         `json:"max"`
	Description    string       `json:"beschrijving_templated"`
	Product        Product      `json:"product"`
	Begin          *Timestamp   `json:"begin"`
	End            *Timestamp   `json:"eind"`
}

func (l PackageLine) IsBookingSize() bool {
	return l.Mode == ModeBookingSize
}

type Product struct {
	ID           int                 `json:"id"`
	DisplayName  string              `json:"weergavenaam"`
	Price        Money               `json:"verkoop"`
	Dependencies []ProductDependency `json:"vereist_product"`
	Attachments  []Attachment        `json:"standaardbijlagen"`
}

type ProductDependency struct {
	RequiredProductID   FlexInt  `json:"vereist_product_id"`
	UnitsPerRequirement int      `json:"per_x_aantal"`
	Rounding            Rounding `json:"afronding"`
}

type Attachment struct {
	ID       int    `json:"id"`
	Name     string `json:"naam"`
	Filename string `json:"filename"`
}

// FlexInt decodes ids that the API sends either as numbers or as strings.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	v, err := parseFixed(data, 0)
	if err != nil {
		return err
	}
	*f = FlexInt(v)
	return nil
}

// Timestamp accepts RFC 3339 as well as the API's "2006-01-02 15:04:05".
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		v, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			t.Time = v
			return nil
		}
		lastErr = err
	}
	return lastErr
}

// Discount is a percentage-off code confirmed by the server.
type Discount struct {
	Code       string     `json:"code"`
	Name       string     `json:"naam"`
	Percentage Percentage `json:"percentage"`
}

// VoucherLine is one line consumed by a voucher.
type VoucherLine struct {
	Units        int   `json:"aantal"`
	PricePerUnit Money `json:"prijs_per_stuk"`
}

// VoucherBreakdown is the server's "processed" part of a voucher check,
// keyed by the package line the voucher was applied to.
type VoucherBreakdown map[string]VoucherLine

// UnmarshalJSON also accepts a plain list of lines, keyed by position.
func (v *VoucherBreakdown) UnmarshalJSON(data []byte) error {
	var lines map[string]VoucherLine
	if err := json.Unmarshal(data, &lines); err == nil {
		*v = lines
		return nil
	}
	var list []VoucherLine
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	out := make(VoucherBreakdown, len(list))
	for i, l := range list {
		out[strconv.Itoa(i)] = l
	}
	*v = out
	return nil
}

// ProductCount is one entry of the "producten" list sent to the API.
type ProductCount struct {
	Units  int `json:"aantal"`
	LineID int `json:"arrangementsregel_id"`
}
