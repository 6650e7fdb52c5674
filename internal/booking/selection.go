package booking

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Selection is what the user has entered for the active package.
// Booking-size lines have no entry in Quantities; they all read BookingSize.
type Selection struct {
	Quantities    map[int]int   `json:"quantities"`
	BookingSize   int           `json:"booking_size"`
	Date          string        `json:"date,omitempty"`
	Time          string        `json:"time,omitempty"`
	PaymentMethod PaymentMethod `json:"payment_method,omitempty"`
}

func NewSelection() Selection {
	return Selection{Quantities: make(map[int]int)}
}

// Quantity returns the selected units for a line of pkg.
func (s Selection) Quantity(line PackageLine) int {
	if line.IsBookingSize() {
		return s.BookingSize
	}
	return s.Quantities[line.ID]
}

// ProductCounts lists per-line lines in package order, then booking-size lines.
func (s Selection) ProductCounts(pkg Package) []ProductCount {
	counts := make([]ProductCount, 0, len(pkg.Lines))
	for _, l := range pkg.PerLineLines() {
		counts = append(counts, ProductCount{Units: s.Quantities[l.ID], LineID: l.ID})
	}
	for _, l := range pkg.BookingSizeLines() {
		counts = append(counts, ProductCount{Units: s.BookingSize, LineID: l.ID})
	}
	return counts
}

// TotalUnits sums the per-line quantities and, when pkg has booking-size
// lines, the booking size once per booking-size line.
func (s Selection) TotalUnits(pkg Package) int {
	total := 0
	for _, c := range s.ProductCounts(pkg) {
		total += c.Units
	}
	return total
}

func (s Selection) clone() Selection {
	c := s
	c.Quantities = make(map[int]int, len(s.Quantities))
	for k, v := range s.Quantities {
		c.Quantities[k] = v
	}
	return c
}
