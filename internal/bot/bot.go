package bot

import (
	"context"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"onlinebooking/internal/booking"
	"onlinebooking/internal/config"
	"onlinebooking/internal/i18n"
)

type Bot struct {
	api       Sender
	logger    *zap.Logger
	state     StateStore
	storage   BookingStore
	limiter   RateLimiter
	cfg       *config.Config
	tr        *i18n.Translator
	transport booking.Transport
	forms     booking.ContactFormProvider
	packages  []booking.Package
	now       func() time.Time

	mu       sync.Mutex
	sessions map[int64]*booking.Session
	handlers map[string]func(context.Context, int64, *chatState, string)
}

// Deps are the collaborators of a Bot.
type Deps struct {
	API        Sender
	State      StateStore
	Storage    BookingStore
	Limiter    RateLimiter
	Transport  booking.Transport
	Forms      booking.ContactFormProvider
	Packages   []booking.Package
	Translator *i18n.Translator
}

func New(cfg *config.Config, deps Deps, logger *zap.Logger) *Bot {
	b := &Bot{
		api:       deps.API,
		logger:    logger,
		state:     deps.State,
		storage:   deps.Storage,
		limiter:   deps.Limiter,
		cfg:       cfg,
		tr:        deps.Translator,
		transport: deps.Transport,
		forms:     deps.Forms,
		packages:  booking.BookablePackages(deps.Packages),
		now:       time.Now,
		sessions:  make(map[int64]*booking.Session),
	}

	b.registerHandlers()
	return b
}

// NewBotAPI authorizes against Telegram.
func NewBotAPI(token string, debug bool, logger *zap.Logger) (*tgbotapi.BotAPI, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	botAPI.Debug = debug

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))
	return botAPI, nil
}

// registerHandlers maps the steps that expect typed text.
func (b *Bot) registerHandlers() {
	b.handlers = map[string]func(context.Context, int64, *chatState, string){
		StepBookingSize: b.handleBookingSize,
		StepQuantity:    b.handleQuantity,
		StepContact:     b.handleContactField,
		StepDiscount:    b.handleDiscountCode,
		StepVoucher:     b.handleVoucherCode,
	}
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	b.logger.Info("Starting bot")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if update.Message != nil {
		b.processMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		b.processCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text))

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	st, err := b.loadState(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get user state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, b.tr.T(string(booking.CodeTransport)))
		return
	}
	if st.Username == "" && msg.From != nil {
		st.Username = msg.From.UserName
	}

	text := msg.Text
	if msg.Contact != nil && st.Step == StepContact {
		text = msg.Contact.PhoneNumber
	}

	if handler, exists := b.handlers[st.Step]; exists {
		handler(ctx, chatID, st, strings.TrimSpace(text))
		return
	}
	b.handleDefault(chatID, st)
}

func (b *Bot) processCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	b.logger.Debug("Processing callback",
		zap.Int64("chat_id", chatID),
		zap.String("data", callback.Data))

	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Warn("Failed to answer callback", zap.Error(err))
	}

	st, err := b.loadState(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get user state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, b.tr.T(string(booking.CodeTransport)))
		return
	}
	if st.Username == "" && callback.From != nil {
		st.Username = callback.From.UserName
	}

	action, arg := parseCallback(callback.Data)
	b.handleCallback(ctx, chatID, callback.Message.MessageID, st, action, arg)
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.String("text", msg.Text),
			zap.Error(err))
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendError(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, "❌ "+text))
}

// sendBookingError explains a failed session operation.
func (b *Bot) sendBookingError(chatID int64, err error) {
	b.sendError(chatID, b.tr.Error(err))
}

func (b *Bot) isAdmin(chatID int64) bool {
	return b.cfg.IsAdmin(chatID)
}
