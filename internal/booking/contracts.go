package booking

import (
	"context"
	"encoding/json"
)

// Transport talks to the remote booking API. Paths are relative to the API
// base, e.g. "onlineboeking/reserveer". Retries and timeouts belong here.
type Transport interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
}

// FormField describes one contact form field.
type FormField struct {
	ID         int
	Identifier string
	Label      string
	Kind       string
	Required   bool
	Choices    []string
}

// ContactForm is filled in by the presentation layer.
type ContactForm interface {
	Fields() []FormField
	SetValue(identifier, value string) error
	Valid() bool
	Serialize() map[string]string
}

// ContactFormProvider builds the contact form belonging to a package.
type ContactFormProvider interface {
	ContactForm(ctx context.Context, pkg Package) (ContactForm, error)
}

// Translator turns keys into user-facing text. The core never calls it.
type Translator interface {
	Translate(key string, params map[string]string) string
}
