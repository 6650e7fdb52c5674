package booking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount in cents.
type Money int64

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Float is for display helpers only; never feed it back into a calculation.
func (m Money) Float() float64 {
	return float64(m) / 100
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts JSON numbers and numeric strings ("12.5", "12,50").
func (m *Money) UnmarshalJSON(data []byte) error {
	v, err := parseFixed(data, 2)
	if err != nil {
		return fmt.Errorf("money: %w", err)
	}
	*m = Money(v)
	return nil
}

// ParseMoney parses a decimal amount such as "10.00" into cents.
func ParseMoney(s string) (Money, error) {
	v, err := parseDecimal(s, 2)
	if err != nil {
		return 0, err
	}
	return Money(v), nil
}

// Percentage is stored in basis points: 12.5% is 1250.
type Percentage int64

func (p *Percentage) UnmarshalJSON(data []byte) error {
	v, err := parseFixed(data, 2)
	if err != nil {
		return fmt.Errorf("percentage: %w", err)
	}
	*p = Percentage(v)
	return nil
}

func (p Percentage) MarshalJSON() ([]byte, error) {
	return []byte(Money(p).String()), nil
}

func (p Percentage) String() string {
	s := Money(p).String()
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + "%"
}

// Of returns p percent of m, rounded half away from zero to the cent.
func (p Percentage) Of(m Money) Money {
	num := int64(m) * int64(p)
	q, r := num/10000, num%10000
	if r >= 5000 {
		q++
	} else if r <= -5000 {
		q--
	}
	return Money(q)
}

func parseFixed(data []byte, scale int) (int64, error) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return 0, nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, err
		}
		return parseDecimal(s, scale)
	}
	return parseDecimal(string(data), scale)
}

// parseDecimal converts a base-10 string to an integer scaled by 10^scale
// without going through float64. Extra fraction digits are rounded half up.
func parseDecimal(s string, scale int) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, fmt.Errorf("empty decimal")
	}
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid decimal %q: %w", s, err)
		}
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	roundUp := false
	if len(frac) > scale {
		roundUp = frac[scale] >= '5'
		frac = frac[:scale]
	}
	frac += strings.Repeat("0", scale-len(frac))

	v, err := strconv.ParseInt(intPart+frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	if roundUp {
		v++
	}
	if neg {
		v = -v
	}
	return v, nil
}
