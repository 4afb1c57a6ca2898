package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	"event-booking-bot/internal/api/client"
	"event-booking-bot/internal/api/response"
	"event-booking-bot/internal/botconfig_parser"
	"event-booking-bot/internal/cache"
	"event-booking-bot/internal/chat"
	"event-booking-bot/internal/logger"
)

const (
	CALLBACK_EVENT = "event_"
	CALLBACK_BOOK  = "book_"

	DATE_FORMAT = "2006-01-02"
)

func (b *Bot) processCommand(ctx context.Context, update *chat.Update, session *cache.Session) error {
	m := b.messages.Get()
	chatID := update.ChatID

	switch update.Command {
	case "start":
		b.start(ctx, chatID, session)
		return nil

	case "help":
		if session.Authenticated {
			b.send(ctx, chatID, m.Help.User, nil)
		} else {
			b.send(ctx, chatID, m.Help.Guest, nil)
		}
		return nil

	case "register":
		return b.dialogs.StartRegistration(ctx, session, chatID)

	case "login":
		return b.dialogs.StartLogin(ctx, session, chatID)

	case "book":
		return b.dialogs.StartBooking(ctx, session, chatID)

	case "cancel":
		return b.dialogs.Cancel(ctx, session, chatID)

	case "logout":
		if !session.Authenticated {
			b.send(ctx, chatID, m.ErrorMessages.NotAuthenticated, nil)
			return nil
		}
		logger.Event("User logged out:", session.StudentID)
		*session = cache.Session{}
		b.send(ctx, chatID, m.LoggedOut, nil)
		return nil

	case "events":
		if !b.requireAuth(ctx, chatID, session) {
			return nil
		}
		return b.listEvents(ctx, chatID)

	case "event":
		if !b.requireAuth(ctx, chatID, session) {
			return nil
		}
		if len(update.Args) == 0 {
			b.send(ctx, chatID, m.Events.Usage, nil)
			return nil
		}
		eventID, err := strconv.ParseInt(update.Args[0], 10, 64)
		if err != nil {
			b.send(ctx, chatID, m.Events.BadID, nil)
			return nil
		}
		return b.showEvent(ctx, chatID, eventID)

	case "search":
		if !b.requireAuth(ctx, chatID, session) {
			return nil
		}
		if len(update.Args) < 2 || !isDate(update.Args[0]) || !isDate(update.Args[1]) {
			b.send(ctx, chatID, m.Events.SearchUsage, nil)
			return nil
		}
		return b.searchEvents(ctx, chatID, update.Args[0], update.Args[1])

	case "my_reservations":
		if !b.requireAuth(ctx, chatID, session) {
			return nil
		}
		return b.listReservations(ctx, chatID, session.StudentID)
	}

	b.send(ctx, chatID, m.ErrorMessages.CommandUnknown, nil)
	return nil
}

func (b *Bot) processCallback(ctx context.Context, update *chat.Update, session *cache.Session) error {
	data := update.CallbackData

	switch {
	case strings.HasPrefix(data, CALLBACK_BOOK):
		eventID, err := strconv.ParseInt(strings.TrimPrefix(data, CALLBACK_BOOK), 10, 64)
		if err != nil {
			logger.Warning("Bad callback data:", data)
			return nil
		}
		return b.dialogs.BookEvent(ctx, session, update.ChatID, eventID)

	case strings.HasPrefix(data, CALLBACK_EVENT):
		eventID, err := strconv.ParseInt(strings.TrimPrefix(data, CALLBACK_EVENT), 10, 64)
		if err != nil {
			logger.Warning("Bad callback data:", data)
			return nil
		}
		if !b.requireAuth(ctx, update.ChatID, session) {
			return nil
		}
		return b.showEvent(ctx, update.ChatID, eventID)
	}

	logger.Warning("Unknown callback:", data)
	return nil
}

func (b *Bot) processText(ctx context.Context, update *chat.Update, session *cache.Session) error {
	m := b.messages.Get()
	text := strings.TrimSpace(update.Text)

	// кнопки приветствия работают как команды
	switch text {
	case m.Buttons.Register:
		return b.dialogs.StartRegistration(ctx, session, update.ChatID)
	case m.Buttons.Login:
		return b.dialogs.StartLogin(ctx, session, update.ChatID)
	}

	if session.InFlow() {
		return b.dialogs.HandleText(ctx, session, update.ChatID, update.Text)
	}

	b.send(ctx, update.ChatID, m.ErrorMessages.CommandUnknown, nil)
	return nil
}

func (b *Bot) start(ctx context.Context, chatID int64, session *cache.Session) {
	m := b.messages.Get()

	if session.Authenticated && session.User != nil {
		b.send(ctx, chatID, botconfig_parser.Format(m.Start.User, "name", session.User.Name), nil)
		return
	}

	b.send(ctx, chatID, m.Start.Guest, chat.Keyboard{
		{{Text: m.Buttons.Register}},
		{{Text: m.Buttons.Login}},
	})
}

func (b *Bot) requireAuth(ctx context.Context, chatID int64, session *cache.Session) bool {
	if session.Authenticated {
		return true
	}
	b.send(ctx, chatID, b.messages.Get().ErrorMessages.AuthRequired, nil)
	return false
}

func (b *Bot) listEvents(ctx context.Context, chatID int64) error {
	m := b.messages.Get()

	events, err := b.api.ListEvents(ctx)
	if err != nil {
		b.send(ctx, chatID, b.errorText(err), nil)
		return err
	}
	if len(events) == 0 {
		b.send(ctx, chatID, m.Events.Empty, nil)
		return nil
	}

	header := botconfig_parser.Format(m.Events.Header, "total", strconv.Itoa(len(events)))
	text, keyboard := renderEvents(m, header, events)
	b.send(ctx, chatID, text, keyboard)
	return nil
}

func (b *Bot) searchEvents(ctx context.Context, chatID int64, dateFrom, dateTo string) error {
	m := b.messages.Get()

	events, err := b.api.ListAvailableEvents(ctx, dateFrom, dateTo)
	if err != nil {
		b.send(ctx, chatID, b.errorText(err), nil)
		return err
	}
	if len(events) == 0 {
		b.send(ctx, chatID, m.Events.SearchEmpty, nil)
		return nil
	}

	header := botconfig_parser.Format(m.Events.SearchHeader, "from", dateFrom, "to", dateTo)
	text, keyboard := renderEvents(m, header, events)
	b.send(ctx, chatID, text, keyboard)
	return nil
}

func (b *Bot) showEvent(ctx context.Context, chatID int64, eventID int64) error {
	m := b.messages.Get()

	event, err := b.api.GetEvent(ctx, eventID)
	if err != nil {
		if client.IsNotFound(err) {
			b.send(ctx, chatID, botconfig_parser.Format(m.Booking.EventNotFound, "id", strconv.FormatInt(eventID, 10)), nil)
			return nil
		}
		b.send(ctx, chatID, b.errorText(err), nil)
		return err
	}

	b.send(ctx, chatID, renderEventDetails(m, event), chat.Keyboard{
		{{Text: m.Buttons.Book, Data: CALLBACK_BOOK + strconv.FormatInt(event.ID, 10)}},
	})
	return nil
}

func (b *Bot) listReservations(ctx context.Context, chatID int64, studentID string) error {
	m := b.messages.Get()

	all, err := b.api.ListReservations(ctx)
	if err != nil {
		b.send(ctx, chatID, b.errorText(err), nil)
		return err
	}

	reservations := response.FilterByOwner(all, studentID)
	if len(reservations) == 0 {
		b.send(ctx, chatID, m.Reservations.Empty, nil)
		return nil
	}

	names := make(map[int64]string)
	for _, r := range reservations[:min(len(reservations), PAGE_SIZE)] {
		if _, ok := names[r.EventID]; ok {
			continue
		}
		event, err := b.api.GetEvent(ctx, r.EventID)
		if err != nil {
			logger.Debug("Could not resolve event name", r.EventID, err.Error())
			continue
		}
		names[r.EventID] = event.Name
	}

	b.send(ctx, chatID, renderReservations(m, reservations, names), nil)
	return nil
}

func (b *Bot) errorText(err error) string {
	m := b.messages.Get()

	if client.IsTransport(err) {
		return m.ErrorMessages.Transport
	}
	msg := client.ServerMessage(err)
	if msg == "" {
		msg = "Неизвестная ошибка"
	}
	return botconfig_parser.Format(m.ErrorMessages.Generic, "error", msg)
}

func isDate(s string) bool {
	_, err := time.Parse(DATE_FORMAT, s)
	return err == nil
}
