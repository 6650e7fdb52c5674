package booking

// AmountsValid requires every active per-line line to reach its persons per
// unit, and at least one unit selected overall. One short line invalidates the
// whole selection.
func AmountsValid(pkg Package, sel Selection) bool {
	hasProduct := false
	for _, l := range pkg.PerLineLines() {
		q := sel.Quantities[l.ID]
		if q <= 0 {
			continue
		}
		hasProduct = true
		if q < l.PersonsPerUnit {
			return false
		}
	}
	if pkg.HasBookingSize() && sel.BookingSize > 0 {
		hasProduct = true
	}
	return hasProduct
}

// MinimumViolations returns the ids of active per-line lines below their
// minimum. Booking-size lines have no minimum.
func MinimumViolations(pkg Package, sel Selection) []int {
	var ids []int
	for _, l := range pkg.PerLineLines() {
		q := sel.Quantities[l.ID]
		if q > 0 && q < l.PersonsPerUnit {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

// MaximumViolation returns the first line whose quantity exceeds the
// package's online maximum. Only one warning is ever surfaced.
func MaximumViolation(pkg Package, sel Selection) (int, bool) {
	if pkg.MaxPersonsOnline == nil {
		return 0, false
	}
	limit := *pkg.MaxPersonsOnline
	for _, c := range sel.ProductCounts(pkg) {
		if c.Units > limit {
			return c.LineID, true
		}
	}
	return 0, false
}
