package bot

import (
	"strconv"
	"strings"

	"onlinebooking/internal/booking"
	"onlinebooking/internal/i18n"
)

// summaryView is everything shown on the booking overview.
type summaryView struct {
	Package     booking.Package
	Selection   booking.Selection
	Price       booking.Breakdown
	Discount    *booking.Discount
	Vouchers    []string
	Preview     []booking.LinePreview
	Attachments []booking.Attachment
	Unmet       []booking.UnmetDependency
	Minimums    []int
	Maximum     int
	HasMaximum  bool
	Verdict     booking.Verdict
}

func summaryOf(s *booking.Session) summaryView {
	pkg, _ := s.Package()
	maxLine, hasMax := s.MaximumViolation()
	return summaryView{
		Package:     pkg,
		Selection:   s.Selection(),
		Price:       s.Price(),
		Discount:    s.Discount(),
		Vouchers:    s.Vouchers(),
		Preview:     s.TimePreview(),
		Attachments: s.StandardAttachments(),
		Unmet:       s.UnmetDependencies(),
		Minimums:    s.MinimumViolations(),
		Maximum:     maxLine,
		HasMaximum:  hasMax,
		Verdict:     s.CanSubmit(),
	}
}

func lineName(l booking.PackageLine) string {
	if l.Product.DisplayName != "" {
		return l.Product.DisplayName
	}
	return l.Description
}

func formatSummary(tr *i18n.Translator, v summaryView) string {
	var sb strings.Builder

	sb.WriteString("📋 " + tr.T("SUMMARY") + ": " + v.Package.Name() + "\n\n")

	for _, l := range v.Package.Lines {
		q := v.Selection.Quantity(l)
		if q <= 0 {
			continue
		}
		sb.WriteString("• " + tr.Number(q) + " × " + lineName(l) + "  " +
			tr.Price(booking.Money(q)*l.Product.Price) + "\n")
	}

	if v.Selection.Date != "" {
		sb.WriteString("\n" + tr.T("DATE") + ": " + v.Selection.Date + "\n")
	}
	if v.Selection.Time != "" {
		sb.WriteString(tr.T("TIME") + ": " + v.Selection.Time + "\n")
	}
	for _, p := range v.Preview {
		sb.WriteString("  " + tr.T("TIME_PREVIEW",
			"PRODUCT", lineName(p.Line),
			"BEGIN", p.Begin.Format(booking.TimeLayout),
			"END", p.End.Format(booking.TimeLayout),
		) + "\n")
	}

	sb.WriteString("\n")
	if v.Discount != nil || len(v.Vouchers) > 0 {
		sb.WriteString(tr.T("PRICE_SUBTOTAL") + ": " + tr.Price(v.Price.Subtotal) + "\n")
		if v.Discount != nil {
			sb.WriteString(tr.T("PRICE_DISCOUNT", "NAME", v.Discount.Name) + ": " + tr.Price(v.Price.Discount) + "\n")
		}
		if len(v.Vouchers) > 0 {
			sb.WriteString(tr.T("VOUCHERS_DISCOUNT") + ": " + tr.Price(v.Price.Vouchers) + "\n")
		}
		sb.WriteString(tr.T("PRICE_TOTAL_WITH_DISCOUNT") + ": " + tr.Price(v.Price.Total) + "\n")
	} else {
		sb.WriteString(tr.T("PRICE_TOTAL") + ": " + tr.Price(v.Price.Total) + "\n")
	}

	if v.Selection.PaymentMethod != "" {
		sb.WriteString(tr.T("PAYMENT_METHOD") + ": " + tr.T(paymentKey(v.Selection.PaymentMethod)) + "\n")
	}

	if w := warnings(tr, v); len(w) > 0 {
		sb.WriteString("\n")
		for _, line := range w {
			sb.WriteString("⚠️ " + line + "\n")
		}
	}

	if len(v.Attachments) > 0 {
		sb.WriteString("\n" + tr.T("AGREE_ATTACHMENTS") + "\n")
		for _, a := range v.Attachments {
			sb.WriteString("• " + a.Name + "\n")
		}
	}

	if !v.Verdict.Allowed {
		sb.WriteString("\n")
		for _, r := range v.Verdict.Reasons {
			sb.WriteString("❗ " + tr.T(string(r)) + "\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// warnings lists unmet product dependencies, lines below their minimum and
// the online maximum, in that order.
func warnings(tr *i18n.Translator, v summaryView) []string {
	var out []string
	for _, u := range v.Unmet {
		out = append(out, tr.T("PRODUCT_REQUIRED",
			"NUM", tr.Number(v.Selection.Quantity(u.Line)),
			"PRODUCT", lineName(u.Line),
			"REQUIRED_AMOUNT", tr.Number(u.RequiredAmount),
			"REQUIRED_PRODUCT", u.RequiredProductName,
		))
	}
	for _, id := range v.Minimums {
		l, ok := v.Package.Line(id)
		if !ok {
			continue
		}
		out = append(out, lineName(l)+" "+tr.T("PRODUCT_MINIMUM", "MINIMUM", strconv.Itoa(l.PersonsPerUnit)))
	}
	if v.HasMaximum && v.Package.MaxPersonsOnline != nil {
		out = append(out, tr.T("PRODUCT_MAXIMUM", "MAXIMUM", strconv.Itoa(*v.Package.MaxPersonsOnline)))
	}
	return out
}
