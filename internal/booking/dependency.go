package booking

// UnmetDependency describes one product dependency that the current
// quantities do not satisfy.
type UnmetDependency struct {
	Line                PackageLine
	Rule                ProductDependency
	RequiredAmount      int
	RequiredProductName string
}

// RequiredUnits is unitsHeld / UnitsPerRequirement, rounded per the rule.
// A rule without a positive divisor requires nothing.
func RequiredUnits(unitsHeld int, rule ProductDependency) int {
	per := rule.UnitsPerRequirement
	if per <= 0 || unitsHeld <= 0 {
		return 0
	}
	q := unitsHeld / per
	if rule.Rounding == RoundUp && unitsHeld%per != 0 {
		q++
	}
	return q
}

// IsSatisfied reports whether the rule attached to lineID is met.
//
// Lines other than lineID holding the required product are searched in
// package order, skipping lines without quantity; the first one found
// decides. Later lines with the same product are never consulted. Without
// such a line the rule is unmet, even when it requires zero units.
func IsSatisfied(pkg Package, sel Selection, lineID int, rule ProductDependency) bool {
	line, ok := pkg.Line(lineID)
	if !ok {
		return false
	}
	required := RequiredUnits(sel.Quantity(line), rule)
	for _, other := range pkg.Lines {
		if other.ID == lineID || other.Product.ID != int(rule.RequiredProductID) {
			continue
		}
		q := sel.Quantity(other)
		if q == 0 {
			continue
		}
		return q >= required
	}
	return false
}

// UnmetDependencies lists violated rules for every line with a positive
// quantity, in line order and then rule order.
func UnmetDependencies(pkg Package, sel Selection) []UnmetDependency {
	var unmet []UnmetDependency
	for _, line := range pkg.Lines {
		held := sel.Quantity(line)
		if held <= 0 {
			continue
		}
		for _, rule := range line.Product.Dependencies {
			if IsSatisfied(pkg, sel, line.ID, rule) {
				continue
			}
			name := ""
			if p, ok := pkg.Product(int(rule.RequiredProductID)); ok {
				name = p.DisplayName
			}
			unmet = append(unmet, UnmetDependency{
				Line:                line,
				Rule:                rule,
				RequiredAmount:      RequiredUnits(held, rule),
				RequiredProductName: name,
			})
		}
	}
	return unmet
}
