package telegram

import (
	"context"
	"net/http"
	"strings"

	"event-booking-bot/internal/chat"
	"event-booking-bot/internal/config"
	"event-booking-bot/internal/logger"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Handler получает разобранные обновления
type Handler func(ctx context.Context, update chat.Update)

// Transport - доставка сообщений через Telegram Bot API
type Transport struct {
	b   *tgbot.Bot
	cnf config.Telegram
}

func New(cnf config.Telegram, handler Handler) (*Transport, error) {
	opts := []tgbot.Option{
		tgbot.WithDefaultHandler(func(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
			u, ok := ToUpdate(update)
			if !ok {
				logger.Debug("Skip unsupported update", update.ID)
				return
			}
			handler(ctx, u)
		}),
	}
	if cnf.WebhookSecret != "" {
		opts = append(opts, tgbot.WithWebhookSecretToken(cnf.WebhookSecret))
	}

	b, err := tgbot.New(cnf.Token, opts...)
	if err != nil {
		return nil, err
	}

	return &Transport{b: b, cnf: cnf}, nil
}

// Run получает обновления до отмены контекста: long polling или webhook.
func (t *Transport) Run(ctx context.Context) {
	if t.cnf.Mode == config.MODE_WEBHOOK {
		t.b.StartWebhook(ctx)
		return
	}
	t.b.Start(ctx)
}

// WebhookHandler - обработчик для http сервера в режиме webhook
func (t *Transport) WebhookHandler() http.HandlerFunc {
	return t.b.WebhookHandler()
}

func (t *Transport) SetWebhook(ctx context.Context) error {
	_, err := t.b.SetWebhook(ctx, &tgbot.SetWebhookParams{
		URL:         t.cnf.WebhookURL,
		SecretToken: t.cnf.WebhookSecret,
	})
	return err
}

func (t *Transport) DeleteWebhook(ctx context.Context) error {
	_, err := t.b.DeleteWebhook(ctx, &tgbot.DeleteWebhookParams{})
	return err
}

func (t *Transport) Send(ctx context.Context, chatID int64, text string, keyboard chat.Keyboard) error {
	params := &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markup := ToMarkup(keyboard); markup != nil {
		params.ReplyMarkup = markup
	}

	_, err := t.b.SendMessage(ctx, params)
	return err
}

func (t *Transport) SetCommands(ctx context.Context, commands []chat.Command) error {
	list := make([]models.BotCommand, 0, len(commands))
	for _, c := range commands {
		list = append(list, models.BotCommand{Command: c.Command, Description: c.Description})
	}

	_, err := t.b.SetMyCommands(ctx, &tgbot.SetMyCommandsParams{Commands: list})
	return err
}

func (t *Transport) AnswerCallback(ctx context.Context, callbackID string) error {
	_, err := t.b.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{CallbackQueryID: callbackID})
	return err
}

// ToUpdate переводит обновление Telegram во внутренний формат.
// false - обновление не поддерживается (редактирование, фото и т.п.)
func ToUpdate(update *models.Update) (chat.Update, bool) {
	switch {
	case update.CallbackQuery != nil:
		q := update.CallbackQuery
		chatID := q.From.ID
		switch {
		case q.Message.Message != nil:
			chatID = q.Message.Message.Chat.ID
		case q.Message.InaccessibleMessage != nil:
			chatID = q.Message.InaccessibleMessage.Chat.ID
		}
		return chat.Update{
			Kind:         chat.UPDATE_CALLBACK,
			UserID:       q.From.ID,
			ChatID:       chatID,
			CallbackID:   q.ID,
			CallbackData: q.Data,
		}, true

	case update.Message != nil && update.Message.From != nil:
		msg := update.Message
		u := chat.Update{
			Kind:   chat.UPDATE_TEXT,
			UserID: msg.From.ID,
			ChatID: msg.Chat.ID,
			Text:   msg.Text,
		}
		if strings.HasPrefix(msg.Text, "/") {
			if name, args, ok := chat.ParseCommand(msg.Text); ok {
				u.Kind = chat.UPDATE_COMMAND
				u.Command = name
				u.Args = args
			}
		}
		return u, true
	}

	return chat.Update{}, false
}

// ToMarkup - inline клавиатура, если у кнопок есть данные, иначе обычная
func ToMarkup(keyboard chat.Keyboard) models.ReplyMarkup {
	if len(keyboard) == 0 {
		return nil
	}

	if keyboard.Inline() {
		rows := make([][]models.InlineKeyboardButton, 0, len(keyboard))
		for _, row := range keyboard {
			buttons := make([]models.InlineKeyboardButton, 0, len(row))
			for _, b := range row {
				buttons = append(buttons, models.InlineKeyboardButton{Text: b.Text, CallbackData: b.Data})
			}
			rows = append(rows, buttons)
		}
		return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
	}

	rows := make([][]models.KeyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		buttons := make([]models.KeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, models.KeyboardButton{Text: b.Text})
		}
		rows = append(rows, buttons)
	}
	return &models.ReplyKeyboardMarkup{Keyboard: rows, ResizeKeyboard: true}
}
