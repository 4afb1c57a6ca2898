package telegram

import (
	"testing"

	"event-booking-bot/internal/chat"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUpdateText(t *testing.T) {
	u, ok := ToUpdate(&models.Update{Message: &models.Message{
		From: &models.User{ID: 1},
		Chat: models.Chat{ID: 10},
		Text: "Ann",
	}})

	require.True(t, ok)
	assert.Equal(t, chat.Update{Kind: chat.UPDATE_TEXT, UserID: 1, ChatID: 10, Text: "Ann"}, u)
}

func TestToUpdateCommand(t *testing.T) {
	u, ok := ToUpdate(&models.Update{Message: &models.Message{
		From: &models.User{ID: 1},
		Chat: models.Chat{ID: 10},
		Text: "/event@booking_bot 42",
	}})

	require.True(t, ok)
	assert.Equal(t, chat.UPDATE_COMMAND, u.Kind)
	assert.Equal(t, "event", u.Command)
	assert.Equal(t, []string{"42"}, u.Args)
}

func TestToUpdateCallback(t *testing.T) {
	u, ok := ToUpdate(&models.Update{CallbackQuery: &models.CallbackQuery{
		ID:   "cb1",
		From: models.User{ID: 1},
		Data: "book_42",
		Message: models.MaybeInaccessibleMessage{
			Message: &models.Message{Chat: models.Chat{ID: 10}},
		},
	}})

	require.True(t, ok)
	assert.Equal(t, chat.Update{Kind: chat.UPDATE_CALLBACK, UserID: 1, ChatID: 10, CallbackID: "cb1", CallbackData: "book_42"}, u)
}

func TestToUpdateSkipsUnsupported(t *testing.T) {
	_, ok := ToUpdate(&models.Update{EditedMessage: &models.Message{Text: "x"}})
	assert.False(t, ok)

	_, ok = ToUpdate(&models.Update{Message: &models.Message{Text: "from channel"}})
	assert.False(t, ok)
}

func TestToMarkup(t *testing.T) {
	assert.Nil(t, ToMarkup(nil))

	inline := ToMarkup(chat.Keyboard{{{Text: "Concert", Data: "event_42"}}})
	assert.Equal(t, &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{{Text: "Concert", CallbackData: "event_42"}}},
	}, inline)

	reply := ToMarkup(chat.Keyboard{{{Text: "Вход"}}, {{Text: "Регистрация"}}})
	assert.Equal(t, &models.ReplyKeyboardMarkup{
		Keyboard:       [][]models.KeyboardButton{{{Text: "Вход"}}, {{Text: "Регистрация"}}},
		ResizeKeyboard: true,
	}, reply)
}
