package i18n

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"onlinebooking/internal/booking"
)

// BaseLocale is used for keys a locale does not define.
var BaseLocale = language.English

// Translator renders user-facing text for one locale.
type Translator struct {
	tag      language.Tag
	printer  *message.Printer
	currency currency.Unit
}

var _ booking.Translator = (*Translator)(nil)

var (
	supported []language.Tag
	matcher   language.Matcher
	builder   = mustBuildCatalog()
)

func mustBuildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(BaseLocale))

	// the matcher falls back to the first tag, so the base locale goes first
	locales := []string{BaseLocale.String()}
	others := make([]string, 0, len(messages))
	for locale := range messages {
		if locale != BaseLocale.String() {
			others = append(others, locale)
		}
	}
	sort.Strings(others)
	locales = append(locales, others...)

	for _, locale := range locales {
		tag := language.MustParse(locale)
		supported = append(supported, tag)
		for key, msg := range messages[locale] {
			// messages are printf formats; a literal % must not become a verb
			if err := b.SetString(tag, key, strings.ReplaceAll(msg, "%", "%%")); err != nil {
				panic(fmt.Sprintf("i18n: register %s/%s: %v", locale, key, err))
			}
		}
	}
	matcher = language.NewMatcher(supported)
	return b
}

// New returns a translator for the closest supported locale. cur is an ISO
// 4217 code; an unknown code falls back to EUR.
func New(tag language.Tag, cur string) *Translator {
	_, idx, _ := matcher.Match(tag)
	best := supported[idx]

	unit, err := currency.ParseISO(cur)
	if err != nil {
		unit = currency.EUR
	}
	return &Translator{
		tag:      best,
		printer:  message.NewPrinter(best, message.Catalog(builder)),
		currency: unit,
	}
}

func (t *Translator) Language() language.Tag {
	return t.tag
}

// Translate looks up key and substitutes {NAME} parameters. Unknown keys are
// returned unchanged.
func (t *Translator) Translate(key string, params map[string]string) string {
	s := t.printer.Sprintf(key)
	if len(params) == 0 {
		return s
	}
	pairs := make([]string, 0, 2*len(params))
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

// T is Translate with parameters given as name, value pairs.
func (t *Translator) T(key string, kv ...string) string {
	if len(kv) == 0 {
		return t.Translate(key, nil)
	}
	params := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		params[kv[i]] = kv[i+1]
	}
	return t.Translate(key, params)
}

// Price formats an amount with the configured currency symbol.
func (t *Translator) Price(m booking.Money) string {
	return t.printer.Sprint(currency.Symbol(t.currency.Amount(m.Float())))
}

// Number formats an integer with locale grouping.
func (t *Translator) Number(n int) string {
	return t.printer.Sprintf("%d", n)
}

// Error translates a booking error by its code, falling back to the generic
// transport message.
func (t *Translator) Error(err error) string {
	code := booking.CodeOf(err)
	if code == "" {
		code = booking.CodeTransport
	}
	return t.Translate(string(code), nil)
}
