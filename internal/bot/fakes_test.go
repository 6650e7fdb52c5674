package bot

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"onlinebooking/internal/booking"
	"onlinebooking/internal/config"
	"onlinebooking/internal/contactform"
	"onlinebooking/internal/i18n"
	"onlinebooking/internal/storage"
	redisstore "onlinebooking/internal/storage/redis"
)

type fakeSender struct {
	sent     []tgbotapi.Chattable
	requests int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// texts returns the text of every message and edit sent so far.
func (f *fakeSender) texts() []string {
	var out []string
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeSender) last() tgbotapi.MessageConfig {
	for i := len(f.sent) - 1; i >= 0; i-- {
		if m, ok := f.sent[i].(tgbotapi.MessageConfig); ok {
			return m
		}
	}
	return tgbotapi.MessageConfig{}
}

// lastInline returns the callback data of the last inline keyboard sent.
func (f *fakeSender) lastInline() []string {
	for i := len(f.sent) - 1; i >= 0; i-- {
		m, ok := f.sent[i].(tgbotapi.MessageConfig)
		if !ok {
			continue
		}
		kb, ok := m.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
		if !ok {
			continue
		}
		return callbackData(kb)
	}
	return nil
}

func callbackData(kb tgbotapi.InlineKeyboardMarkup) []string {
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != nil {
				out = append(out, *btn.CallbackData)
			}
		}
	}
	return out
}

type fakeStates struct {
	mu     sync.Mutex
	states map[int64][]byte
}

func newFakeStates() *fakeStates {
	return &fakeStates{states: make(map[int64][]byte)}
}

func (f *fakeStates) GetUserDialogState(_ context.Context, chatID int64) (*redisstore.UserState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var st redisstore.UserState
	data, ok := f.states[chatID]
	if !ok {
		return &st, nil
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (f *fakeStates) SetUserDialogState(_ context.Context, chatID int64, st *redisstore.UserState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	f.states[chatID] = data
	return nil
}

func (f *fakeStates) DropUserDialogState(_ context.Context, chatID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.states, chatID)
	return nil
}

func (f *fakeStates) step(t *testing.T, chatID int64) string {
	t.Helper()
	st, err := f.GetUserDialogState(context.Background(), chatID)
	if err != nil {
		t.Fatalf("GetUserDialogState: %v", err)
	}
	return st.Step
}

type fakeBookings struct {
	saved []storage.Booking
}

func (f *fakeBookings) SaveBooking(_ context.Context, b storage.Booking) (int64, error) {
	f.saved = append(f.saved, b)
	return int64(len(f.saved)), nil
}

func (f *fakeBookings) GetBookingStatistics(context.Context) (*storage.BookingStatistics, error) {
	return &storage.BookingStatistics{TotalBookings: len(f.saved), StatusCounts: map[string]int{}}, nil
}

func (f *fakeBookings) ExportBookingsToExcel(context.Context, string, string) (string, error) {
	return "", errors.New("not supported")
}

// fakeAPI answers the booking API by path.
type fakeAPI struct {
	mu    sync.Mutex
	posts []string
}

func (f *fakeAPI) Get(_ context.Context, path string) (json.RawMessage, error) {
	return nil, errors.New("unexpected GET " + path)
}

func (f *fakeAPI) Post(_ context.Context, path string, _ any) (json.RawMessage, error) {
	f.mu.Lock()
	f.posts = append(f.posts, path)
	f.mu.Unlock()

	switch {
	case strings.HasPrefix(path, "onlineboeking/beschikbaredagen"):
		return json.RawMessage(`["2026-03-12","2026-03-13"]`), nil
	case strings.HasPrefix(path, "onlineboeking/beschikbaretijden"):
		return json.RawMessage(`["2026-03-12 10:00:00","2026-03-12 14:30:00"]`), nil
	case strings.HasPrefix(path, "onlineboeking/reserveer"):
		return json.RawMessage(`{"message":"See you soon!","status":"ok"}`), nil
	}
	return nil, errors.New("unexpected POST " + path)
}

type fakeForms struct{}

func (fakeForms) ContactForm(context.Context, booking.Package) (booking.ContactForm, error) {
	return contactform.NewForm([]booking.FormField{
		{ID: 1, Identifier: "contactpersoon.email1", Label: "Email", Kind: "email", Required: true},
	}), nil
}

func canoePackage() booking.Package {
	return booking.Package{
		ID:                    1,
		DisplayName:           "Canoe trip",
		OnlineBookable:        true,
		AllowsDeferredPayment: true,
		ContactFormID:         3,
		Lines: []booking.PackageLine{
			{
				ID:             11,
				Mode:           booking.ModePerLine,
				PersonsPerUnit: 1,
				Product:        booking.Product{ID: 101, DisplayName: "Canoe", Price: 1000},
			},
		},
	}
}

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type harness struct {
	bot      *Bot
	sender   *fakeSender
	states   *fakeStates
	bookings *fakeBookings
	api      *fakeAPI
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, newFakeStates(), &fakeBookings{}, &fakeAPI{})
}

func newHarnessWith(t *testing.T, states *fakeStates, bookings *fakeBookings, api *fakeAPI) *harness {
	t.Helper()
	sender := &fakeSender{}
	b := New(&config.Config{AdminIDs: []int64{1}}, Deps{
		API:        sender,
		State:      states,
		Storage:    bookings,
		Transport:  api,
		Forms:      fakeForms{},
		Packages:   []booking.Package{canoePackage()},
		Translator: i18n.New(language.English, "EUR"),
	}, zap.NewNop())
	b.now = func() time.Time { return testNow }
	return &harness{bot: b, sender: sender, states: states, bookings: bookings, api: api}
}

const testChat = 42

func (h *harness) text(text string) {
	msg := &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: testChat},
		From: &tgbotapi.User{UserName: "jan"},
	}
	if strings.HasPrefix(text, "/") {
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}}
	}
	h.bot.handleUpdate(context.Background(), tgbotapi.Update{Message: msg})
}

func (h *harness) press(data string) {
	h.bot.handleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    data,
		From:    &tgbotapi.User{UserName: "jan"},
		Message: &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: testChat}},
	}})
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
