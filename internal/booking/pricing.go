package booking

import "sort"

// Breakdown is the full price picture for a selection.
type Breakdown struct {
	Subtotal Money
	Discount Money
	Vouchers Money
	Total    Money
}

// Subtotal sums quantity × unit price over every line. A booking-size line is
// counted once with the booking size as its quantity.
func Subtotal(pkg Package, sel Selection) Money {
	var total Money
	for _, l := range pkg.Lines {
		total += Money(sel.Quantity(l)) * l.Product.Price
	}
	return total
}

// DiscountAmount is negative: it reduces the total.
func DiscountAmount(d *Discount, subtotal Money) Money {
	if d == nil {
		return 0
	}
	return -d.Percentage.Of(subtotal)
}

// VoucherAmount is the (negative) value of all consumed voucher lines.
func VoucherAmount(vouchers map[string]VoucherBreakdown) Money {
	var total Money
	for _, v := range vouchers {
		for _, line := range v {
			total -= Money(line.Units) * line.PricePerUnit
		}
	}
	return total
}

// Total may be negative; whether to show that is up to the caller.
func Total(pkg Package, sel Selection, d *Discount, vouchers map[string]VoucherBreakdown) Money {
	return Price(pkg, sel, d, vouchers).Total
}

func Price(pkg Package, sel Selection, d *Discount, vouchers map[string]VoucherBreakdown) Breakdown {
	sub := Subtotal(pkg, sel)
	b := Breakdown{
		Subtotal: sub,
		Discount: DiscountAmount(d, sub),
		Vouchers: VoucherAmount(vouchers),
	}
	b.Total = b.Subtotal + b.Discount + b.Vouchers
	return b
}

// BookingSizeUnitPrice is the price of one unit of booking size: the sum of
// the product prices of all booking-size lines.
func BookingSizeUnitPrice(pkg Package) Money {
	var total Money
	for _, l := range pkg.BookingSizeLines() {
		total += l.Product.Price
	}
	return total
}

// StandardAttachments collects the standard attachments of every product
// with a positive quantity, deduplicated by id and sorted by id.
func StandardAttachments(pkg Package, sel Selection) []Attachment {
	seen := make(map[int]Attachment)
	for _, l := range pkg.Lines {
		if sel.Quantity(l) <= 0 {
			continue
		}
		for _, a := range l.Product.Attachments {
			seen[a.ID] = a
		}
	}
	out := make([]Attachment, 0, len(seen))
	for _, a := range seen {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
