// Package testutil - подмены шлюза API и транспорта для тестов диалогов и роутера.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"event-booking-bot/internal/api/client"
	"event-booking-bot/internal/api/response"
	"event-booking-bot/internal/chat"
)

type (
	// Call - запись об одном вызове шлюза
	Call struct {
		Method string
		Args   []string
	}

	// FakeGateway отвечает заранее заданными данными и записывает вызовы.
	FakeGateway struct {
		mu    sync.Mutex
		calls []Call

		Events       map[int64]response.Event
		EventList    []response.Event
		Reservations []response.Reservation

		// пароль, с которым проходит вход и бронирование
		Password string
		// следующий ID бронирования
		ReservationID int64
		User          response.User

		LoginErr       error
		RegisterErr    error
		ReservationErr error
		EventsErr      error
	}

	SentMessage struct {
		ChatID   int64
		Text     string
		Keyboard chat.Keyboard
	}

	FakeSender struct {
		mu       sync.Mutex
		Sent     []SentMessage
		Commands []chat.Command
		SendErr  error
	}
)

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		Events: map[int64]response.Event{
			42: {ID: 42, Name: "Concert", Type: "CONCERT", Status: true, AvailableFrom: "2024-01-01", AvailableTo: "2024-02-01"},
		},
		Password:      "p",
		ReservationID: 99,
		User:          response.User{ID: 5, StudentID: "S1", Name: "Ann", Surname: "Lee"},
	}
}

func (g *FakeGateway) record(method string, args ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, Call{Method: method, Args: args})
}

func (g *FakeGateway) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Call(nil), g.calls...)
}

// CallsOf - вызовы одного метода
func (g *FakeGateway) CallsOf(method string) []Call {
	var out []Call
	for _, c := range g.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (g *FakeGateway) GetEvent(ctx context.Context, id int64) (response.Event, error) {
	g.record("GetEvent", fmt.Sprint(id))
	if g.EventsErr != nil {
		return response.Event{}, g.EventsErr
	}
	event, ok := g.Events[id]
	if !ok {
		return response.Event{}, &client.NotFoundError{Entity: "event", ID: id}
	}
	return event, nil
}

func (g *FakeGateway) ListEvents(ctx context.Context) ([]response.Event, error) {
	g.record("ListEvents")
	if g.EventsErr != nil {
		return nil, g.EventsErr
	}
	return g.EventList, nil
}

func (g *FakeGateway) ListAvailableEvents(ctx context.Context, dateFrom, dateTo string) ([]response.Event, error) {
	g.record("ListAvailableEvents", dateFrom, dateTo)
	if g.EventsErr != nil {
		return nil, g.EventsErr
	}
	return g.EventList, nil
}

func (g *FakeGateway) ListReservations(ctx context.Context) ([]response.Reservation, error) {
	g.record("ListReservations")
	if g.EventsErr != nil {
		return nil, g.EventsErr
	}
	return g.Reservations, nil
}

func (g *FakeGateway) Login(ctx context.Context, studentID, password string) (response.User, error) {
	g.record("Login", studentID, password)
	if g.LoginErr != nil {
		return response.User{}, g.LoginErr
	}
	if password != g.Password {
		return response.User{}, &client.AuthError{Message: "Неверный пароль"}
	}
	user := g.User
	user.StudentID = studentID
	return user, nil
}

func (g *FakeGateway) Register(ctx context.Context, studentID, name, surname, password string) (response.User, error) {
	g.record("Register", studentID, name, surname, password)
	if g.RegisterErr != nil {
		return response.User{}, g.RegisterErr
	}
	return response.User{ID: g.User.ID, StudentID: studentID, Name: name, Surname: surname}, nil
}

func (g *FakeGateway) CreateReservation(ctx context.Context, eventID int64, studentID, password string) (response.Reservation, error) {
	g.record("CreateReservation", fmt.Sprint(eventID), studentID, password)
	if g.ReservationErr != nil {
		return response.Reservation{}, g.ReservationErr
	}
	if password != g.Password {
		return response.Reservation{}, &client.AuthError{Message: "Неверный пароль"}
	}
	return response.Reservation{ID: g.ReservationID, EventID: eventID, CheckIn: studentID, Status: true}, nil
}

func (s *FakeSender) Send(ctx context.Context, chatID int64, text string, keyboard chat.Keyboard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, SentMessage{ChatID: chatID, Text: text, Keyboard: keyboard})
	return s.SendErr
}

func (s *FakeSender) SetCommands(ctx context.Context, commands []chat.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Commands = commands
	return nil
}

// Last - последнее отправленное сообщение
func (s *FakeSender) Last() SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Sent) == 0 {
		return SentMessage{}
	}
	return s.Sent[len(s.Sent)-1]
}

func (s *FakeSender) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Sent)
}

// Texts - все отправленные тексты через перевод строки
func (s *FakeSender) Texts() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	texts := make([]string, 0, len(s.Sent))
	for _, m := range s.Sent {
		texts = append(texts, m.Text)
	}
	return strings.Join(texts, "\n")
}
