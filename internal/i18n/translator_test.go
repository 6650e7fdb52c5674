package i18n

import (
	"fmt"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"onlinebooking/internal/booking"
)

func TestLocalesDefineSameKeys(t *testing.T) {
	base := messages[BaseLocale.String()]
	for locale, msgs := range messages {
		for key := range base {
			if _, ok := msgs[key]; !ok {
				t.Errorf("%s: missing %s", locale, key)
			}
		}
		for key := range msgs {
			if _, ok := base[key]; !ok {
				t.Errorf("%s: %s not in base locale", locale, key)
			}
		}
	}
}

func TestEveryCodeIsTranslated(t *testing.T) {
	keys := []string{
		string(booking.CodeNoPackage), string(booking.CodeUnknownLine), string(booking.CodeQuantityInvalid),
		string(booking.CodeQuantityTooHigh), string(booking.CodeDateInvalid), string(booking.CodeDateUnavailable),
		string(booking.CodeTimeInvalid), string(booking.CodePaymentMethodInvalid), string(booking.CodeDiscountEmpty),
		string(booking.CodeDiscountInvalid), string(booking.CodeVoucherEmpty), string(booking.CodeVoucherAlreadyApplied),
		string(booking.CodeVoucherInvalid), string(booking.CodeNoProducts), string(booking.CodeBusy),
		string(booking.CodeTransport), string(booking.CodeSubmitBlocked),
		string(booking.ReasonRequiredProduct), string(booking.ReasonAmountsInvalid), string(booking.ReasonInvalidDate),
		string(booking.ReasonInvalidTime), string(booking.ReasonContactFormInvalid),
	}
	for _, key := range keys {
		if _, ok := messages["en"][key]; !ok {
			t.Errorf("no message for %s", key)
		}
	}
}

func TestTranslate(t *testing.T) {
	nl := New(language.MustParse("nl-NL"), "EUR")
	if nl.Language() != language.Dutch {
		t.Fatalf("language = %s", nl.Language())
	}
	got := nl.Translate("PRODUCT_REQUIRED", map[string]string{
		"NUM":              "3",
		"PRODUCT":          "Lunch",
		"REQUIRED_AMOUNT":  "2",
		"REQUIRED_PRODUCT": "Drinks",
	})
	if got != "3 Lunch vereist dat ook 2 Drinks geboekt wordt." {
		t.Fatalf("got %q", got)
	}

	en := New(language.German, "EUR")
	if en.Language() != language.English {
		t.Fatalf("unsupported locale should fall back to English, got %s", en.Language())
	}
	if got := en.T("PRODUCT_MINIMUM", "MINIMUM", "4"); got != "(must be at least 4)" {
		t.Fatalf("got %q", got)
	}
	if got := en.Translate("NOT_A_KEY", nil); got != "NOT_A_KEY" {
		t.Fatalf("unknown key = %q", got)
	}
}

func TestError(t *testing.T) {
	en := New(language.English, "EUR")
	if got := en.Error(booking.ErrVoucherAlreadyApplied); got != "Voucher has already been applied." {
		t.Fatalf("got %q", got)
	}
	if got := en.Error(fmt.Errorf("wrapped: %w", booking.ErrDiscountInvalid)); got != "Invalid discount code." {
		t.Fatalf("got %q", got)
	}
	if got := en.Error(fmt.Errorf("boom")); got != messages["en"]["TRANSPORT_FAILED"] {
		t.Fatalf("got %q", got)
	}
}

func TestPriceAndNumber(t *testing.T) {
	en := New(language.English, "EUR")
	if got := en.Price(1800); !strings.Contains(got, "18") {
		t.Fatalf("price = %q", got)
	}
	if got := en.Number(1234); got != "1,234" {
		t.Fatalf("number = %q", got)
	}
	if got := New(language.English, "nope").Price(500); !strings.Contains(got, "5") {
		t.Fatalf("price = %q", got)
	}
}
