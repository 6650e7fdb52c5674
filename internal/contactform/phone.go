package contactform

import (
	"strings"
	"unicode"
)

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// NormalizePhoneNumber strips formatting and writes Dutch numbers with +31.
func NormalizePhoneNumber(phone string) string {
	phone = strings.TrimSpace(phone)
	cleaned := digits(phone)

	if strings.HasPrefix(cleaned, "0031") {
		return "+31" + strings.TrimPrefix(cleaned[4:], "0")
	}
	if strings.HasPrefix(cleaned, "31") && len(cleaned) == 11 {
		return "+" + cleaned
	}
	if strings.HasPrefix(cleaned, "0") && !strings.HasPrefix(cleaned, "00") && len(cleaned) == 10 {
		return "+31" + cleaned[1:]
	}

	// international numbers keep their country code
	if strings.HasPrefix(phone, "+") {
		return "+" + cleaned
	}
	if strings.HasPrefix(cleaned, "00") {
		return "+" + cleaned[2:]
	}
	return cleaned
}

func IsValidPhoneNumber(phone string) bool {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return false
	}
	if !strings.HasPrefix(phone, "+") && !unicode.IsDigit(rune(phone[0])) && phone[0] != '(' {
		return false
	}
	for _, r := range phone {
		if !unicode.IsDigit(r) && !strings.ContainsRune("+-() .", r) {
			return false
		}
	}

	cleaned := digits(phone)
	if len(cleaned) < 10 || len(cleaned) > 15 {
		return false
	}

	badNumbers := map[string]bool{
		"0000000000": true,
		"1111111111": true,
		"1234567890": true,
		"9999999999": true,
		"0123456789": true,
	}
	return !badNumbers[cleaned]
}
