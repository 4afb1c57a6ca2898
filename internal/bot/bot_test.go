package bot

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"event-booking-bot/internal/api/response"
	"event-booking-bot/internal/botconfig_parser"
	"event-booking-bot/internal/cache"
	"event-booking-bot/internal/chat"
	"event-booking-bot/internal/config"
	"event-booking-bot/internal/database"
	"event-booking-bot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userID = 1
	chatID = 10
)

type testBot struct {
	*Bot
	store  *cache.Store
	gw     *testutil.FakeGateway
	sender *testutil.FakeSender
	m      *botconfig_parser.Messages
}

func newTestBot(t *testing.T, rl config.RateLimit) *testBot {
	t.Helper()

	bc, err := database.ConnectInMemoryCache(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { bc.Close() })

	store := cache.NewStore(bc)
	gw := testutil.NewFakeGateway()
	sender := &testutil.FakeSender{}
	holder := botconfig_parser.NewHolder()

	return &testBot{
		Bot:    New(store, gw, sender, holder, rl),
		store:  store,
		gw:     gw,
		sender: sender,
		m:      holder.Get(),
	}
}

func (tb *testBot) login(t *testing.T) {
	t.Helper()
	var s cache.Session
	s.Authorize(response.User{ID: 5, StudentID: "S1", Name: "Ann", Surname: "Lee"}, "S1", "p")
	require.NoError(t, tb.store.Set(userID, s))
}

func (tb *testBot) command(text string) {
	name, args, _ := chat.ParseCommand(text)
	tb.Receive(context.Background(), chat.Update{
		Kind: chat.UPDATE_COMMAND, UserID: userID, ChatID: chatID,
		Text: text, Command: name, Args: args,
	})
}

func (tb *testBot) text(text string) {
	tb.Receive(context.Background(), chat.Update{Kind: chat.UPDATE_TEXT, UserID: userID, ChatID: chatID, Text: text})
}

func (tb *testBot) callback(data string) {
	tb.Receive(context.Background(), chat.Update{Kind: chat.UPDATE_CALLBACK, UserID: userID, ChatID: chatID, CallbackID: "cb", CallbackData: data})
}

func TestStartForGuestShowsAuthButtons(t *testing.T) {
	tb := newTestBot(t, config.RateLimit{})

	tb.command("/start")

	last := tb.sender.Last()
	assert.Equal(t, int64(chatID), last.ChatID)
	assert.Equal(t, tb.m.Start.Guest, last.Text)
	assert.False(t, last.Keyboard.Inline())
	assert.Equal(t, chat.Keyboard{{{Text: tb.m.Buttons.Register}}, {{Text: tb.m.Buttons.Login}}}, last.Keyboard)
	session := tb.store.Get(userID)
	assert.True(t, session.Empty())
}

func TestStartForUserGreetsByName(t *testing.T) {
	tb := newTestBot(t, config.RateLimit{})
	tb.login(t)

	tb.command("/start")

	assert.Contains(t, tb.sender.Last().Text, "Ann")
	assert.Nil(t, tb.sender.Last().Keyboard)
}

func TestRegistrationThroughButton(t *testing.T) {
	tb := newTestBot(t, config.RateLimit{})

	tb.text(tb.m.Buttons.Register)
	assert.Equal(t, tb.m.Registration.AskName, tb.sender.Last().Text)
	assert.Equal(t, database.REG_AWAITING_NAME, tb.store.Get(userID).FlowState)

	for _, input := range []string{"Ann", "Lee", "S1", "pass1"} {
		tb.text(input)
	}

	session := tb.store.Get(userID)
	assert.True(t, session.Authenticated)
	assert.Equal(t, "S1", session.StudentID)
	assert.False(t, session.InFlow())
	assert.Len(t, tb.gw.CallsOf("Register"), 1)
}

func TestTextWithoutFlowIsUnknown(t *testing.T) {
	tb := newTestBot(t, config.RateLimit{})

	tb.text("hello")

	assert.Equal(t, tb.m.ErrorMessages.CommandUnknown, tb.sender.Last().Text)
	assert.Empty(t, tb.gw.Calls())
}

func TestUnknownCommand(t *testing.T) {
	tb := newTestBot(t, config.RateLimit{})

	tb.command("/nope")

	assert.Equal(t, tb.m.ErrorMessages.CommandUnknown, tb.sender.Last().Text)
}

func TestEventsRequireAuth(t *testing.T) {
	tb := newTestBot(t, config.RateLimit{})

	for _, cmd := range []string{"/events", "/event 42", "/my_reservations", "/search 2024-01-01 2024-01-31", "/book"} {
		tb.command(cmd)
		assert.Equal(t, tb.m.ErrorMessages.AuthRequired, tb.sender.Last().Text, cmd)
	}
	assert.Empty(t, tb.gw.Calls())
}

func TestListEventsShowsFirstPage(t *testing.T) {
	tb := newTestBot(t, config.RateLimit{})
	tb.login(t)
	for i := 1; i <= 12; i++ {
		tb.gw.EventList = append(tb.gw.EventList, response.Event{ID: int64(i), Name: fmt.Sprintf("Event %d", i), Status: i%2 == 0})
	}

	tb.command("/events")

	last := tb.sender.Last()
	assert.Contains(t, last.Text, "12")
	assert.Contains(t, last.Text, "Event 10")
	assert.NotContains(t, last.Text, "Event 11")
	require.Len(t, last.Keyboard, PAGE_SIZE)
	assert.Equal(t, "event_1", last.Keyboard[0][0].Data)
	assert.Equal(t, "Event 1 (ID: 1)", last.Keyboard[0][0].Text)
}

func TestListEventsEmpty(t *testing.T) {
	tb := newTestBot(t, config.RateLimit{})
	tb.login(t)

	tb.command("/events")

	assert.Equal(t, tb.m.Events.Empty, tb.sender.Last().Text)
}

func TestShowEvent(t *testing.T) {
	tb := newTestBot(t, config.RateLimit{})
	tb.login(t)

	tb.command("/event")
	assert.Equal(t, tb.m.Events.Usage, tb.sender.Last().Text)

	tb.command("/event abc")
	assert.Equal(t, tb.m.Events.BadID, tb.sender.Last().Text)

	tb.command("/event 7")
	assert.Contains(t, tb.sender.Last().Text, "7")
	assert.Nil(t, tb.sender.Last().Keyboard)

	tb.command("/event 42")
	last := tb.sender.Last()
	assert.Contains(t, last.Text, "Concert")
	assert.Contains(t, last.Text, "CONCERT")
	assert.Equal(t, chat.Keyboard{{{Text: tb.m.Buttons.Book, Data: "book_42"}}}, last.Keyboard)

	tb.callback("event_42")
	assert.Equal(t, last, tb.sender.Last())
}

func TestBookButtonWithCachedCredentials(t *testing.T) {
	tb := newTestBot(t, config.RateLimit{})
	tb.login(t)

	tb.callback("book_42")

	calls := tb.gw.CallsOf("CreateReservation")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"42", "S1", "p"}, calls[0].Args)
	session := tb.store.Get(userID)
	assert.False(t, session.InFlow())
	assert.Contains(t, tb.sender.Last().Text, "99")
}

func TestBookCommandFlow(t *testing.T) {
	tb := newTestBot(t, config.RateLimit{})
	tb.login(t)

	tb.command("/book")
	assert.Equal(t, database.BOOK_AWAITING_EVENT_ID, tb.store.Get(userID).FlowState)

	tb.text("not a number")
	assert.Equal(t, database.BOOK_AWAITING_EVENT_ID, tb.store.Get(userID).FlowState)
	assert.Empty(t, tb.gw.Calls())

	tb.text("42")
	session := tb.store.Get(userID)
	assert.False(t, session.InFlow())
	assert.Len(t, tb.gw.CallsOf("CreateReservation"), 1)
}

func TestStatelessCommandsKeepFlow(t *testing.T) {
	tb := newTestBot(t, config.RateLimit{})
	tb.login(t)

	tb.command("/book")
	tb.command("/events")
	tb.command("/help")

	assert.Equal(t, database.BOOK_AWAITING_EVENT_ID, tb.store.Get(userID).FlowState)

	tb.command("/login")
	assert.Contains(t, tb.sender.Last().Text, "бронирование")
	assert.Equal(t, database.BOOK_AWAITING_EVENT_ID, tb.store.Get(userID).FlowState)
}

func TestCancelKeepsAuth(t *testing.T) {
	tb := newTestBot(t, config.RateLimit{})
	tb.login(t)
	before := tb.store.Get(userID)

	tb.command("/book")
	tb.command("/cancel")

	assert.Equal(t, before, tb.store.Get(userID))
	assert.Equal(t, tb.m.Cancelled, tb.sender.Last().Text)

	tb.command("/cancel")
	assert.Equal(t, before, tb.store.Get(userID))
}

func TestLogout(t *testing.T) {
	tb := newTestBot(t, config.RateLimit{})

	tb.command("/logout")
	assert.Equal(t, tb.m.ErrorMessages.NotAuthenticated, tb.sender.Last().Text)

	tb.login(t)
	tb.command("/book")
	tb.command("/logout")

	assert.Equal(t, tb.m.LoggedOut, tb.sender.Last().Text)
	assert.Equal(t, cache.Session{}, tb.store.Get(userID))
}

func TestMyReservations(t *testing.T) {
	tb := newTestBot(t, config.RateLimit{})
	tb.login(t)
	tb.gw.Reservations = []response.Reservation{
		{ID: 1, EventID: 42, CheckIn: "S1", Status: true},
		{ID: 2, EventID: 42, CheckIn: "S2", Status: true},
		{ID: 3, EventID: 8, CheckIn: "S1", Status: false},
	}

	tb.command("/my_reservations")

	text := tb.sender.Last().Text
	assert.Contains(t, text, "(2)")
	assert.Contains(t, text, "Concert")
	assert.Contains(t, text, "Событие #8")
	assert.Contains(t, text, tb.m.Reservations.Cancelled)
	assert.Equal(t, 1, strings.Count(text, "Concert"))
	assert.Len(t, tb.gw.CallsOf("GetEvent"), 2)
}

func TestMyReservationsEmpty(t *testing.T) {
	tb := newTestBot(t, config.RateLimit{})
	tb.login(t)
	tb.gw.Reservations = []response.Reservation{{ID: 2, EventID: 42, CheckIn: "S2"}}

	tb.command("/my_reservations")

	assert.Equal(t, tb.m.Reservations.Empty, tb.sender.Last().Text)
}

func TestSearch(t *testing.T) {
	tb := newTestBot(t, config.RateLimit{})
	tb.login(t)

	tb.command("/search 2024-01-01")
	assert.Equal(t, tb.m.Events.SearchUsage, tb.sender.Last().Text)
	tb.command("/search tomorrow later")
	assert.Equal(t, tb.m.Events.SearchUsage, tb.sender.Last().Text)
	assert.Empty(t, tb.gw.Calls())

	tb.command("/search 2024-01-01 2024-01-31")
	assert.Equal(t, tb.m.Events.SearchEmpty, tb.sender.Last().Text)

	calls := tb.gw.CallsOf("ListAvailableEvents")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"2024-01-01", "2024-01-31"}, calls[0].Args)
}

func TestRateLimitDropsUpdates(t *testing.T) {
	tb := newTestBot(t, config.RateLimit{PerSecond: 0.001, Burst: 1})

	tb.command("/help")
	tb.command("/help")
	tb.command("/help")

	assert.Equal(t, 1, tb.sender.Count())
}

func TestDeclareCommands(t *testing.T) {
	tb := newTestBot(t, config.RateLimit{})

	require.NoError(t, tb.DeclareCommands(context.Background()))
	assert.Equal(t, tb.m.Commands, tb.sender.Commands)
}
