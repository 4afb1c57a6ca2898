package dialog

import (
	"context"
	"strconv"
	"strings"

	"event-booking-bot/internal/api/client"
	"event-booking-bot/internal/api/response"
	"event-booking-bot/internal/botconfig_parser"
	"event-booking-bot/internal/cache"
	"event-booking-bot/internal/chat"
	"event-booking-bot/internal/database"
	"event-booking-bot/internal/logger"
)

// Gateway - операции API, которые нужны диалогам
type Gateway interface {
	GetEvent(ctx context.Context, id int64) (response.Event, error)
	Login(ctx context.Context, studentID, password string) (response.User, error)
	Register(ctx context.Context, studentID, name, surname, password string) (response.User, error)
	CreateReservation(ctx context.Context, eventID int64, studentID, password string) (response.Reservation, error)
}

// Engine ведет диалоги регистрации, входа и бронирования.
//
// Методы меняют переданную сессию и отправляют ответ пользователю. Сохранение
// сессии и блокировка пользователя - на вызывающей стороне. Возвращаемая ошибка
// нужна для логов: пользователь о ней уже уведомлен.
type Engine struct {
	api      Gateway
	sender   chat.Sender
	messages *botconfig_parser.Holder
}

func New(api Gateway, sender chat.Sender, messages *botconfig_parser.Holder) *Engine {
	return &Engine{
		api:      api,
		sender:   sender,
		messages: messages,
	}
}

func (e *Engine) send(ctx context.Context, chatID int64, text string, keyboard chat.Keyboard) {
	if err := e.sender.Send(ctx, chatID, text, keyboard); err != nil {
		logger.Warning("Error while send message to chat", chatID, err)
	}
}

// abort - завершить диалог с сообщением. Собранные данные удаляются.
func (e *Engine) abort(ctx context.Context, session *cache.Session, chatID int64, text string) {
	session.EndFlow()
	e.send(ctx, chatID, text, nil)
}

// проверки на входе в диалог, сессию не меняют
func (e *Engine) guard(ctx context.Context, session *cache.Session, chatID int64, needAuth bool) error {
	m := e.messages.Get()

	if session.InFlow() {
		e.send(ctx, chatID, botconfig_parser.Format(m.ErrorMessages.FlowActive, "flow", m.FlowName(session.ActiveFlow)), nil)
		return &StateError{Reason: REASON_FLOW_ACTIVE}
	}
	if needAuth && !session.Authenticated {
		e.send(ctx, chatID, m.ErrorMessages.AuthRequired, nil)
		return &StateError{Reason: REASON_NOT_AUTHENTICATED}
	}
	if !needAuth && session.Authenticated {
		e.send(ctx, chatID, m.ErrorMessages.AlreadyAuthenticated, nil)
		return &StateError{Reason: REASON_AUTHENTICATED}
	}
	return nil
}

func (e *Engine) StartRegistration(ctx context.Context, session *cache.Session, chatID int64) error {
	if err := e.guard(ctx, session, chatID, false); err != nil {
		return err
	}

	session.StartFlow(database.FLOW_REGISTRATION)
	e.send(ctx, chatID, e.messages.Get().Registration.AskName, nil)
	return nil
}

func (e *Engine) StartLogin(ctx context.Context, session *cache.Session, chatID int64) error {
	if err := e.guard(ctx, session, chatID, false); err != nil {
		return err
	}

	session.StartFlow(database.FLOW_LOGIN)
	e.send(ctx, chatID, e.messages.Get().Login.AskStudentID, nil)
	return nil
}

// StartBooking - бронирование по команде, ID события еще не известен
func (e *Engine) StartBooking(ctx context.Context, session *cache.Session, chatID int64) error {
	if err := e.guard(ctx, session, chatID, true); err != nil {
		return err
	}

	session.StartFlow(database.FLOW_BOOKING)
	e.send(ctx, chatID, e.messages.Get().Booking.AskEventID, nil)
	return nil
}

// BookEvent - бронирование по кнопке, ID события уже известен
func (e *Engine) BookEvent(ctx context.Context, session *cache.Session, chatID int64, eventID int64) error {
	if err := e.guard(ctx, session, chatID, true); err != nil {
		return err
	}

	session.StartFlow(database.FLOW_BOOKING)
	return e.selectEvent(ctx, session, chatID, eventID)
}

// Cancel прерывает диалог, авторизация сохраняется
func (e *Engine) Cancel(ctx context.Context, session *cache.Session, chatID int64) error {
	if session.InFlow() {
		logger.Debug("Cancel flow", string(session.ActiveFlow), "at", string(session.FlowState))
	}
	session.Cancel()
	e.send(ctx, chatID, e.messages.Get().Cancelled, nil)
	return nil
}

// HandleText передает текст текущему шагу диалога.
func (e *Engine) HandleText(ctx context.Context, session *cache.Session, chatID int64, text string) error {
	m := e.messages.Get()

	if !session.InFlow() {
		return &StateError{Reason: REASON_NO_FLOW}
	}
	if err := session.Check(); err != nil {
		logger.Warning("Broken session state, flow aborted:", err)
		e.abort(ctx, session, chatID, botconfig_parser.Format(m.ErrorMessages.Generic, "error", "некорректное состояние диалога"))
		return err
	}

	value := strings.TrimSpace(text)
	step := session.FlowState

	// на всех шагах, кроме ID события, пустой ввод прерывает диалог
	if value == "" && step != database.BOOK_AWAITING_EVENT_ID {
		e.abort(ctx, session, chatID, m.ErrorMessages.EmptyInput)
		return &ValidationError{Field: string(step)}
	}

	switch step {
	case database.REG_AWAITING_NAME:
		return e.collect(ctx, session, chatID, database.VAR_NAME, value, m.Registration.AskSurname)
	case database.REG_AWAITING_SURNAME:
		return e.collect(ctx, session, chatID, database.VAR_SURNAME, value, m.Registration.AskStudentID)
	case database.REG_AWAITING_STUDENT_ID:
		return e.collect(ctx, session, chatID, database.VAR_STUDENT_ID, value, m.Registration.AskPassword)
	case database.REG_AWAITING_PASSWORD:
		// пароль берется как есть, без обрезки пробелов
		return e.commitRegistration(ctx, session, chatID, text)

	case database.LOGIN_AWAITING_STUDENT_ID:
		return e.collect(ctx, session, chatID, database.VAR_STUDENT_ID, value, m.Login.AskPassword)
	case database.LOGIN_AWAITING_PASSWORD:
		return e.commitLogin(ctx, session, chatID, text)

	case database.BOOK_AWAITING_EVENT_ID:
		eventID, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			e.send(ctx, chatID, m.Booking.InvalidEventID, nil)
			return &ValidationError{Field: database.VAR_EVENT_ID, Retry: true}
		}
		return e.selectEvent(ctx, session, chatID, eventID)
	case database.BOOK_AWAITING_PASSWORD:
		return e.commitBooking(ctx, session, chatID, text)
	}

	return &StateError{Reason: REASON_NO_FLOW}
}

// collect сохраняет ответ и переходит к следующему шагу
func (e *Engine) collect(ctx context.Context, session *cache.Session, chatID int64, key, value, nextPrompt string) error {
	session.SetVar(key, value)
	session.Advance()
	e.send(ctx, chatID, nextPrompt, nil)
	return nil
}

func (e *Engine) commitRegistration(ctx context.Context, session *cache.Session, chatID int64, password string) error {
	m := e.messages.Get()

	name, _ := session.GetVar(database.VAR_NAME)
	surname, _ := session.GetVar(database.VAR_SURNAME)
	studentID, _ := session.GetVar(database.VAR_STUDENT_ID)

	user, err := e.api.Register(ctx, studentID, name, surname, password)
	if err != nil {
		e.abort(ctx, session, chatID, e.errorText(m.Registration.Failed, err))
		return err
	}

	session.Authorize(user, studentID, password)
	session.EndFlow()
	logger.Event("User registered:", studentID)

	e.send(ctx, chatID, botconfig_parser.Format(m.Registration.Success,
		"name", name,
		"surname", surname,
		"student_id", studentID,
	), nil)
	return nil
}

func (e *Engine) commitLogin(ctx context.Context, session *cache.Session, chatID int64, password string) error {
	m := e.messages.Get()

	studentID, _ := session.GetVar(database.VAR_STUDENT_ID)

	user, err := e.api.Login(ctx, studentID, password)
	if err != nil {
		e.abort(ctx, session, chatID, e.errorText(m.Login.Failed, err))
		return err
	}

	session.Authorize(user, studentID, password)
	session.EndFlow()
	logger.Event("User logged in:", studentID)

	e.send(ctx, chatID, botconfig_parser.Format(m.Login.Success,
		"name", user.Name,
		"surname", user.Surname,
	), nil)
	return nil
}

// selectEvent проверяет что событие существует и либо сразу бронирует,
// либо запрашивает пароль
func (e *Engine) selectEvent(ctx context.Context, session *cache.Session, chatID int64, eventID int64) error {
	m := e.messages.Get()

	event, err := e.api.GetEvent(ctx, eventID)
	if err != nil {
		if client.IsNotFound(err) {
			e.abort(ctx, session, chatID, botconfig_parser.Format(m.Booking.EventNotFound, "id", strconv.FormatInt(eventID, 10)))
			return err
		}
		e.abort(ctx, session, chatID, e.errorText(m.ErrorMessages.Generic, err))
		return err
	}

	session.SetVar(database.VAR_EVENT_ID, strconv.FormatInt(event.ID, 10))
	session.SetVar(database.VAR_EVENT_NAME, event.Name)

	if session.HasCredentials() {
		return e.commitBooking(ctx, session, chatID, session.Password)
	}

	session.Advance()
	e.send(ctx, chatID, botconfig_parser.Format(m.Booking.AskPassword, "event", event.Name), nil)
	return nil
}

func (e *Engine) commitBooking(ctx context.Context, session *cache.Session, chatID int64, password string) error {
	m := e.messages.Get()

	rawID, _ := session.GetVar(database.VAR_EVENT_ID)
	eventName, _ := session.GetVar(database.VAR_EVENT_NAME)
	eventID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		e.abort(ctx, session, chatID, botconfig_parser.Format(m.ErrorMessages.Generic, "error", "не выбрано событие"))
		return err
	}

	reservation, err := e.api.CreateReservation(ctx, eventID, session.StudentID, password)
	if err != nil {
		tpl := m.Booking.Failed
		if client.IsAuth(err) {
			tpl = m.Booking.AuthFailed
		}
		e.abort(ctx, session, chatID, e.errorText(tpl, err))
		return err
	}

	session.Password = password
	session.EndFlow()
	logger.Event("Reservation created:", reservation.ID, "event", eventID)

	e.send(ctx, chatID, botconfig_parser.Format(m.Booking.Success,
		"event", eventName,
		"reservation_id", strconv.FormatInt(reservation.ID, 10),
	), nil)
	return nil
}

// errorText - текст ошибки для пользователя: сообщение сервера, если оно есть,
// для сетевых ошибок общий текст
func (e *Engine) errorText(tpl string, err error) string {
	m := e.messages.Get()

	if client.IsTransport(err) {
		return m.ErrorMessages.Transport
	}

	msg := client.ServerMessage(err)
	if msg == "" {
		msg = "Неизвестная ошибка"
	}
	return botconfig_parser.Format(tpl, "error", msg)
}
