package contactform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"go.uber.org/zap"

	"onlinebooking/internal/booking"
)

var (
	ErrUnknownField  = errors.New("unknown contact form field")
	ErrInvalidChoice = errors.New("value is not one of the field's choices")
	ErrRequired      = errors.New("required")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrInvalidPhone  = errors.New("invalid phone number")
)

// field kinds that are shown but never filled in
var decorativeKinds = map[string]bool{
	"header":   true,
	"kopje":    true,
	"tekstvak": true,
}

type fieldDTO struct {
	ID         int      `json:"id"`
	Name       string   `json:"naam"`
	Identifier string   `json:"field_identifier"`
	Kind       string   `json:"soort_invoer"`
	Required   bool     `json:"verplicht"`
	Choices    []string `json:"mogelijke_keuzes"`
}

// Form is a contact form loaded from the API.
type Form struct {
	mu     sync.Mutex
	fields []booking.FormField
	values map[string]string
}

var _ booking.ContactForm = (*Form)(nil)

func NewForm(fields []booking.FormField) *Form {
	return &Form{
		fields: fields,
		values: make(map[string]string),
	}
}

func (f *Form) Fields() []booking.FormField {
	return append([]booking.FormField(nil), f.fields...)
}

func (f *Form) field(identifier string) (booking.FormField, bool) {
	for _, fl := range f.fields {
		if fl.Identifier == identifier {
			return fl, true
		}
	}
	return booking.FormField{}, false
}

// SetValue stores a trimmed value. Phone numbers are normalized; values of
// choice fields must be one of the choices.
func (f *Form) SetValue(identifier, value string) error {
	fl, ok := f.field(identifier)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, identifier)
	}
	value = strings.TrimSpace(value)
	if value != "" && len(fl.Choices) > 0 && !contains(fl.Choices, value) {
		return fmt.Errorf("%w: %s", ErrInvalidChoice, identifier)
	}
	if IsPhoneField(fl) && value != "" {
		value = NormalizePhoneNumber(value)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[identifier] = value
	return nil
}

func (f *Form) Value(identifier string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[identifier]
}

// FieldError returns why the current value of a field is not acceptable,
// or nil.
func (f *Form) FieldError(fl booking.FormField) error {
	v := f.Value(fl.Identifier)
	if v == "" {
		if fl.Required {
			return ErrRequired
		}
		return nil
	}
	switch {
	case isEmail(fl):
		if _, err := mail.ParseAddress(v); err != nil {
			return ErrInvalidEmail
		}
	case IsPhoneField(fl):
		if !IsValidPhoneNumber(v) {
			return ErrInvalidPhone
		}
	}
	return nil
}

func (f *Form) Valid() bool {
	for _, fl := range f.fields {
		if f.FieldError(fl) != nil {
			return false
		}
	}
	return true
}

// Serialize maps field identifiers to the entered values. Empty fields are
// left out.
func (f *Form) Serialize() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

func isEmail(fl booking.FormField) bool {
	return fl.Kind == "email" || strings.Contains(fl.Identifier, "email")
}

// IsPhoneField reports whether a field holds a phone number.
func IsPhoneField(fl booking.FormField) bool {
	return fl.Kind == "telefoon" || strings.Contains(fl.Identifier, "telefoon")
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Provider loads the contact form configured for a package.
type Provider struct {
	transport booking.Transport
	logger    *zap.Logger
}

var _ booking.ContactFormProvider = (*Provider)(nil)

func NewProvider(transport booking.Transport, logger *zap.Logger) *Provider {
	return &Provider{transport: transport, logger: logger}
}

func (p *Provider) ContactForm(ctx context.Context, pkg booking.Package) (booking.ContactForm, error) {
	const operation = "contactform.ContactForm"

	if pkg.ContactFormID == 0 {
		p.logger.Warn("Package has no contact form", zap.Int("package_id", pkg.ID))
		return NewForm(nil), nil
	}

	raw, err := p.transport.Get(ctx, fmt.Sprintf("contactformulieren/%d/velden", pkg.ContactFormID))
	if err != nil {
		return nil, fmt.Errorf("%s: get fields: %w", operation, err)
	}
	var dtos []fieldDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, fmt.Errorf("%s: decode fields: %w", operation, err)
	}

	fields := make([]booking.FormField, 0, len(dtos))
	for _, d := range dtos {
		if decorativeKinds[d.Kind] || d.Identifier == "" {
			continue
		}
		fields = append(fields, booking.FormField{
			ID:         d.ID,
			Identifier: d.Identifier,
			Label:      d.Name,
			Kind:       d.Kind,
			Required:   d.Required,
			Choices:    d.Choices,
		})
	}
	return NewForm(fields), nil
}
