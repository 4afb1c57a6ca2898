package chat

import "context"

type UpdateKind int

const (
	UPDATE_TEXT UpdateKind = iota + 1
	UPDATE_COMMAND
	UPDATE_CALLBACK
)

type (
	// Входящее обновление от транспорта
	Update struct {
		Kind UpdateKind
		// пользователь, по нему ищется сессия
		UserID int64
		// куда отвечать
		ChatID int64

		Text string

		// для UPDATE_COMMAND: имя без "/" и аргументы
		Command string
		Args    []string

		// для UPDATE_CALLBACK
		CallbackID   string
		CallbackData string
	}

	// Кнопка. С Data - inline кнопка с callback, без Data - кнопка
	// клавиатуры, которая отправляет свой текст в чат.
	Button struct {
		Text string
		Data string
	}

	Keyboard [][]Button

	// Команда для меню бота
	Command struct {
		Command     string `yaml:"command"`
		Description string `yaml:"description"`
	}

	// Sender - исходящая сторона транспорта
	Sender interface {
		Send(ctx context.Context, chatID int64, text string, keyboard Keyboard) error
		SetCommands(ctx context.Context, commands []Command) error
	}

	// CallbackAnswerer - транспорт, которому нужно подтверждать нажатие кнопки
	CallbackAnswerer interface {
		AnswerCallback(ctx context.Context, callbackID string) error
	}
)

// Inline - клавиатура из callback кнопок
func (k Keyboard) Inline() bool {
	for _, row := range k {
		for _, b := range row {
			if b.Data != "" {
				return true
			}
		}
	}
	return false
}
