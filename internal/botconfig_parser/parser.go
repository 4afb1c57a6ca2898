package botconfig_parser

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sync"

	"event-booking-bot/internal/chat"
	"event-booking-bot/internal/database"
	"event-booking-bot/internal/logger"

	"github.com/goccy/go-yaml"
)

var reCommand = regexp.MustCompile(`^[a-z0-9_]{1,32}$`)

// Holder хранит актуальные тексты и подменяет их при изменении bot.yml.
type Holder struct {
	mu       sync.RWMutex
	messages *Messages
}

func InitMessages(path string) (*Holder, error) {
	m, err := loadMessages(path)
	if err != nil {
		return nil, err
	}
	return &Holder{messages: m}, nil
}

// NewHolder - тексты без файла, только значения по умолчанию
func NewHolder() *Holder {
	m := &Messages{}
	setDefaultMessages(m)
	return &Holder{messages: m}
}

// Get - текущие тексты. Возвращенное значение не меняется при перезагрузке.
func (h *Holder) Get() *Messages {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.messages
}

// UpdateMessages перечитывает файл. При ошибке остаются прежние тексты.
func (h *Holder) UpdateMessages(path string) error {
	m, err := loadMessages(path)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.messages = m
	h.mu.Unlock()
	return nil
}

func loadMessages(path string) (*Messages, error) {
	m := &Messages{}

	input, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Info("Bot config not found, default messages are used:", path)
	case err != nil:
		return nil, err
	default:
		if err := yaml.NewDecoder(bytes.NewBuffer(input)).Decode(m); err != nil {
			return nil, err
		}
	}

	setDefaultMessages(m)

	return m, m.checkMessages()
}

func (m *Messages) checkMessages() error {
	seen := make(map[string]bool)
	for _, c := range m.Commands {
		if !reCommand.MatchString(c.Command) {
			return fmt.Errorf("некорректное имя команды: %q", c.Command)
		}
		if c.Description == "" {
			return fmt.Errorf("отсутствует описание команды: %s", c.Command)
		}
		if seen[c.Command] {
			return fmt.Errorf("команда указана дважды: %s", c.Command)
		}
		seen[c.Command] = true
	}
	if m.Buttons.Register == m.Buttons.Login {
		return errors.New("кнопки регистрации и входа не могут совпадать")
	}
	return nil
}

// FlowName - название диалога для сообщений
func (m *Messages) FlowName(flow database.FlowKind) string {
	if name, ok := m.FlowNames[string(flow)]; ok {
		return name
	}
	return string(flow)
}

func defaultCommands() []chat.Command {
	return []chat.Command{
		{Command: "start", Description: "Начать работу с ботом"},
		{Command: "register", Description: "Регистрация нового аккаунта"},
		{Command: "login", Description: "Вход в аккаунт"},
		{Command: "events", Description: "Показать все события"},
		{Command: "search", Description: "Найти события по датам"},
		{Command: "book", Description: "Забронировать событие"},
		{Command: "my_reservations", Description: "Мои бронирования"},
		{Command: "cancel", Description: "Отменить текущую операцию"},
		{Command: "logout", Description: "Выйти из аккаунта"},
		{Command: "help", Description: "Справка по использованию"},
	}
}

func setDefault(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

// настроить тексты по умолчанию которые не заданы
func setDefaultMessages(m *Messages) {
	if len(m.Commands) == 0 {
		m.Commands = defaultCommands()
	}

	setDefault(&m.Buttons.Register, "📝 Регистрация")
	setDefault(&m.Buttons.Login, "🔐 Вход")
	setDefault(&m.Buttons.Book, "📝 Забронировать")

	setDefault(&m.Start.Guest, "👋 Добро пожаловать в бот для бронирования событий!\n\n"+
		"Для начала работы необходимо авторизоваться:\n\n"+
		"🔹 /register - Регистрация нового аккаунта\n"+
		"🔹 /login - Вход в существующий аккаунт")
	setDefault(&m.Start.User, "👋 Привет, {name}!\n\n"+
		"Вы уже авторизованы. Используйте команды из меню для работы с ботом.\n\n"+
		"Доступные команды:\n"+
		"/events - Показать все события\n"+
		"/book - Забронировать событие\n"+
		"/my_reservations - Мои бронирования\n"+
		"/logout - Выйти из аккаунта\n"+
		"/help - Показать справку")

	setDefault(&m.Help.Guest, "📚 Справка по использованию бота\n\n"+
		"Для начала работы необходимо авторизоваться:\n"+
		"/register - Регистрация нового аккаунта\n"+
		"/login - Вход в существующий аккаунт\n\n"+
		"После авторизации будут доступны:\n"+
		"/events - Показать список всех доступных событий\n"+
		"/book - Забронировать событие\n"+
		"/my_reservations - Показать мои бронирования")
	setDefault(&m.Help.User, "📚 Справка по использованию бота\n\n"+
		"/events - Показать список всех доступных событий\n"+
		"/event <id> - Показать детали конкретного события\n"+
		"/search <dateFrom> <dateTo> - События, доступные в диапазоне дат\n"+
		"/book - Забронировать событие\n"+
		"/my_reservations - Показать мои бронирования\n"+
		"/cancel - Отменить текущую операцию\n"+
		"/logout - Выйти из аккаунта")

	setDefault(&m.Registration.AskName, "📝 Регистрация нового пользователя\n\nВведите ваше имя:")
	setDefault(&m.Registration.AskSurname, "Введите вашу фамилию:")
	setDefault(&m.Registration.AskStudentID, "Введите ваш Student ID:")
	setDefault(&m.Registration.AskPassword, "Введите пароль (минимум 4 символа):")
	setDefault(&m.Registration.Success, "✅ Регистрация успешна!\n\n"+
		"👤 Имя: {name} {surname}\n"+
		"🆔 Student ID: {student_id}\n\n"+
		"Теперь вы можете использовать все функции бота!")
	setDefault(&m.Registration.Failed, "❌ Ошибка при регистрации: {error}")

	setDefault(&m.Login.AskStudentID, "🔐 Вход в систему\n\nВведите ваш Student ID:")
	setDefault(&m.Login.AskPassword, "Введите ваш пароль:")
	setDefault(&m.Login.Success, "✅ Вход выполнен успешно!\n\n"+
		"👤 Привет, {name} {surname}!\n\n"+
		"Теперь вы можете использовать все функции бота!")
	setDefault(&m.Login.Failed, "❌ Ошибка при входе: {error}")

	setDefault(&m.Booking.AskEventID, "📝 Для бронирования события введите ID события:\n"+
		"(Или используйте кнопку 'Забронировать' в деталях события)")
	setDefault(&m.Booking.InvalidEventID, "❌ Неверный формат. Введите числовой ID события.")
	setDefault(&m.Booking.EventNotFound, "❌ Событие с ID {id} не найдено.")
	setDefault(&m.Booking.AskPassword, "✅ Событие найдено: {event}\n\n"+
		"Введите ваш пароль для подтверждения бронирования:")
	setDefault(&m.Booking.Success, "✅ Бронирование успешно создано!\n\n"+
		"🎯 Событие: {event}\n"+
		"🆔 ID бронирования: {reservation_id}")
	setDefault(&m.Booking.AuthFailed, "❌ Ошибка авторизации: {error}. Проверьте studentId и пароль.")
	setDefault(&m.Booking.Failed, "❌ Ошибка при создании бронирования: {error}")

	setDefault(&m.Events.Empty, "📭 Событий пока нет.")
	setDefault(&m.Events.Header, "📅 Доступные события ({total} всего):")
	setDefault(&m.Events.Item, "🎯 {name}\n   ID: {id} | {status}")
	setDefault(&m.Events.More, "Показано {shown} из {total} событий. Используйте /event <id> для просмотра деталей.")
	setDefault(&m.Events.Details, "🎯 {name}\n\n"+
		"📋 Тип: {type}\n"+
		"📝 Описание: {description}\n"+
		"📅 Доступно с: {from}\n"+
		"📅 Доступно до: {to}\n"+
		"🔔 Статус: {status}\n"+
		"🆔 ID: {id}")
	setDefault(&m.Events.Active, "✅ Активно")
	setDefault(&m.Events.Inactive, "❌ Неактивно")
	setDefault(&m.Events.ButtonText, "{name} (ID: {id})")
	setDefault(&m.Events.Usage, "❌ Укажите ID события. Пример: /event 1")
	setDefault(&m.Events.BadID, "❌ Неверный формат ID. ID должен быть числом.")
	setDefault(&m.Events.SearchHeader, "📅 События с {from} по {to}:")
	setDefault(&m.Events.SearchUsage, "❌ Укажите диапазон дат. Пример: /search 2024-01-01 2024-01-31")
	setDefault(&m.Events.SearchEmpty, "📭 В этом диапазоне событий нет.")

	setDefault(&m.Reservations.Empty, "📭 У вас пока нет бронирований.")
	setDefault(&m.Reservations.Header, "📋 Ваши бронирования ({total}):")
	setDefault(&m.Reservations.Item, "🎯 {event}\n   ID бронирования: {id} | {status}")
	setDefault(&m.Reservations.More, "Показано {shown} из {total} бронирований.")
	setDefault(&m.Reservations.Active, "✅ Активно")
	setDefault(&m.Reservations.Cancelled, "❌ Отменено")
	setDefault(&m.Reservations.UnknownEvent, "Событие #{id}")

	setDefault(&m.ErrorMessages.AlreadyAuthenticated, "❌ Вы уже авторизованы. Используйте /logout для выхода.")
	setDefault(&m.ErrorMessages.AuthRequired, "❌ Для этого необходимо авторизоваться.\nИспользуйте /register или /login")
	setDefault(&m.ErrorMessages.NotAuthenticated, "❌ Вы не авторизованы.")
	setDefault(&m.ErrorMessages.FlowActive, "❌ Сначала завершите текущую операцию ({flow}) или отмените ее командой /cancel.")
	setDefault(&m.ErrorMessages.EmptyInput, "❌ Получено пустое значение. Операция прервана.")
	setDefault(&m.ErrorMessages.Transport, "❌ Сервис бронирования недоступен. Попробуйте позже.")
	setDefault(&m.ErrorMessages.CommandUnknown, "Команда неизвестна. Используйте /help для списка команд.")
	setDefault(&m.ErrorMessages.Generic, "❌ Ошибка: {error}")

	setDefault(&m.Cancelled, "❌ Операция отменена.")
	setDefault(&m.LoggedOut, "✅ Вы успешно вышли из аккаунта.")

	if m.FlowNames == nil {
		m.FlowNames = make(map[string]string)
	}
	for flow, name := range map[database.FlowKind]string{
		database.FLOW_REGISTRATION: "регистрация",
		database.FLOW_LOGIN:        "вход",
		database.FLOW_BOOKING:      "бронирование",
	} {
		if _, ok := m.FlowNames[string(flow)]; !ok {
			m.FlowNames[string(flow)] = name
		}
	}
}
