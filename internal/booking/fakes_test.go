package booking

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type call struct {
	method string
	path   string
	body   []byte
}

type handlerFunc func(path string, body []byte) (string, error)

// fakeTransport answers by path prefix and records every call.
type fakeTransport struct {
	mu       sync.Mutex
	handlers map[string]handlerFunc
	calls    []call
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{handlers: make(map[string]handlerFunc)}
}

func (f *fakeTransport) on(prefix string, h handlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[prefix] = h
}

func (f *fakeTransport) reply(prefix, body string) {
	f.on(prefix, func(string, []byte) (string, error) { return body, nil })
}

func (f *fakeTransport) do(method, path string, body any) (json.RawMessage, error) {
	var data []byte
	if body != nil {
		var err error
		if data, err = json.Marshal(body); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	f.calls = append(f.calls, call{method: method, path: path, body: data})
	var h handlerFunc
	best := ""
	for prefix, fn := range f.handlers {
		if strings.HasPrefix(path, prefix) && len(prefix) > len(best) {
			best, h = prefix, fn
		}
	}
	f.mu.Unlock()
	if h == nil {
		return nil, errors.New("no handler for " + path)
	}
	out, err := h(path, data)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(out), nil
}

func (f *fakeTransport) Get(_ context.Context, path string) (json.RawMessage, error) {
	return f.do("GET", path, nil)
}

func (f *fakeTransport) Post(_ context.Context, path string, body any) (json.RawMessage, error) {
	return f.do("POST", path, body)
}

func (f *fakeTransport) callsTo(prefix string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if strings.HasPrefix(c.path, prefix) {
			out = append(out, c)
		}
	}
	return out
}

type fakeForm struct {
	valid  bool
	values map[string]string
}

func (f *fakeForm) Fields() []FormField {
	return []FormField{{ID: 1, Identifier: "contactpersoon.email1", Label: "E-mail", Required: true}}
}

func (f *fakeForm) SetValue(identifier, value string) error {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	f.values[identifier] = value
	return nil
}

func (f *fakeForm) Valid() bool { return f.valid }

func (f *fakeForm) Serialize() map[string]string { return f.values }

type fakeForms struct {
	form *fakeForm
}

func (p fakeForms) ContactForm(context.Context, Package) (ContactForm, error) {
	return p.form, nil
}

// Package 7: a per-line drinks line (min 2, 10.00), a lunch line requiring
// one drink per two lunches rounded up, and a booking-size entry line.
const packagesJSON = `[
  {
    "id": 7,
    "arrangement": "zz internal",
    "weergavenaam": "Company outing",
    "mag_online": true,
    "mag_online_geboekt_worden_direct_betalen": true,
    "mag_online_geboekt_worden_achteraf_betalen": true,
    "maximum_aantal_personen_online": 50,
    "onlineboeking_contactformulier_id": 3,
    "regels": [
      {
        "id": 11,
        "onlineboeking_aantalbepalingsmethode": "invullen door klant",
        "aantal_personen": 2,
        "max": 40,
        "begin": "2026-01-01 10:00:00",
        "eind": "2026-01-01 11:00:00",
        "product": {"id": 101, "weergavenaam": "Drinks", "verkoop": 10, "vereist_product": [],
          "standaardbijlagen": [{"id": 5, "naam": "Menu", "filename": "menu.pdf"}]}
      },
      {
        "id": 12,
        "onlineboeking_aantalbepalingsmethode": "invullen door klant",
        "aantal_personen": 1,
        "begin": "2026-01-01 12:00:00",
        "eind": "2026-01-01 13:30:00",
        "product": {"id": 102, "weergavenaam": "Lunch", "verkoop": "12.50",
          "vereist_product": [{"vereist_product_id": "101", "per_x_aantal": 2, "afronding": "boven"}]}
      },
      {
        "id": 13,
        "onlineboeking_aantalbepalingsmethode": "boekingsgrootte",
        "aantal_personen": 1,
        "product": {"id": 103, "weergavenaam": "Entry", "verkoop": 4.25}
      }
    ]
  },
  {"id": 8, "arrangement": "aa hidden", "mag_online": false, "regels": []},
  {"id": 9, "arrangement": "Archery", "weergavenaam": "", "mag_online": true, "regels": []}
]`

func loadTestPackages(t *testing.T) []Package {
	t.Helper()
	var packages []Package
	if err := json.Unmarshal([]byte(packagesJSON), &packages); err != nil {
		t.Fatalf("decode packages: %v", err)
	}
	return packages
}

func testPackage(t *testing.T) Package {
	t.Helper()
	return loadTestPackages(t)[0]
}

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// newTestSession returns a session on package 7 with days and times stubbed.
func newTestSession(t *testing.T, form *fakeForm, extra ...Option) (*Session, *fakeTransport) {
	t.Helper()
	ft := newFakeTransport()
	ft.reply(pathAvailableDays, `["2026-03-12","2026-03-13"]`)
	ft.reply(pathAvailableTimes, `["2026-03-12T10:00:00Z","2026-03-12T14:30:00Z"]`)
	opts := []Option{
		WithClock(func() time.Time { return testNow }),
		WithLocation(time.UTC),
	}
	if form != nil {
		opts = append(opts, WithContactForms(fakeForms{form: form}))
	}
	opts = append(opts, extra...)
	s := NewSession(ft, loadTestPackages(t), opts...)
	if err := s.SelectPackage(context.Background(), 7); err != nil {
		t.Fatalf("SelectPackage: %v", err)
	}
	return s, ft
}
