package bot

import (
	"context"

	"event-booking-bot/internal/api/client"
	"event-booking-bot/internal/api/response"
	"event-booking-bot/internal/botconfig_parser"
	"event-booking-bot/internal/cache"
	"event-booking-bot/internal/chat"
	"event-booking-bot/internal/config"
	"event-booking-bot/internal/dialog"
	"event-booking-bot/internal/logger"

	"github.com/google/uuid"
)

// Gateway - все операции API, которыми пользуется бот
type Gateway interface {
	dialog.Gateway
	ListEvents(ctx context.Context) ([]response.Event, error)
	ListAvailableEvents(ctx context.Context, dateFrom, dateTo string) ([]response.Event, error)
	ListReservations(ctx context.Context) ([]response.Reservation, error)
}

// Bot разбирает входящие обновления: команды, кнопки и текст внутри диалога.
type Bot struct {
	store    *cache.Store
	api      Gateway
	sender   chat.Sender
	messages *botconfig_parser.Holder
	dialogs  *dialog.Engine
	limiter  *limiter
}

func New(store *cache.Store, api Gateway, sender chat.Sender, messages *botconfig_parser.Holder, rl config.RateLimit) *Bot {
	return &Bot{
		store:    store,
		api:      api,
		sender:   sender,
		messages: messages,
		dialogs:  dialog.New(api, sender, messages),
		limiter:  newLimiter(rl),
	}
}

// DeclareCommands отправляет меню команд в мессенджер
func (b *Bot) DeclareCommands(ctx context.Context) error {
	return b.sender.SetCommands(ctx, b.messages.Get().Commands)
}

// Receive обрабатывает одно обновление. Обновления одного пользователя
// обрабатываются строго по очереди, разных - параллельно.
func (b *Bot) Receive(ctx context.Context, update chat.Update) {
	if update.UserID == 0 {
		logger.Debug("Skip update without user")
		return
	}

	requestID := uuid.NewString()
	ctx = client.WithRequestID(ctx, requestID)

	if !b.limiter.Allow(update.UserID) {
		logger.Warning("Rate limit exceeded for user", update.UserID)
		return
	}

	logger.Debug("Receive update", requestID, update)

	unlock := b.store.Lock(update.UserID)
	defer unlock()

	session := b.store.Get(update.UserID)

	if err := b.processUpdate(ctx, &update, &session); err != nil {
		logger.Warning("Error processUpdate", requestID, err)
	}

	if err := b.changeState(update.UserID, &session); err != nil {
		logger.Warning("Error changeState", requestID, err)
	}
}

func (b *Bot) changeState(userID int64, session *cache.Session) error {
	if session.Empty() {
		return b.store.Clear(userID)
	}
	return b.store.Set(userID, *session)
}

func (b *Bot) processUpdate(ctx context.Context, update *chat.Update, session *cache.Session) error {
	switch update.Kind {
	case chat.UPDATE_COMMAND:
		return b.processCommand(ctx, update, session)

	case chat.UPDATE_CALLBACK:
		if answerer, ok := b.sender.(chat.CallbackAnswerer); ok && update.CallbackID != "" {
			if err := answerer.AnswerCallback(ctx, update.CallbackID); err != nil {
				logger.Warning("Error while answer callback", err)
			}
		}
		return b.processCallback(ctx, update, session)

	case chat.UPDATE_TEXT:
		return b.processText(ctx, update, session)
	}

	return nil
}

func (b *Bot) send(ctx context.Context, chatID int64, text string, keyboard chat.Keyboard) {
	if err := b.sender.Send(ctx, chatID, text, keyboard); err != nil {
		logger.Warning("Error while send message to chat", chatID, err)
	}
}
