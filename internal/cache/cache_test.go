package cache

import (
	"context"
	"sync"
	"testing"

	"event-booking-bot/internal/api/response"
	"event-booking-bot/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	bc, err := database.ConnectInMemoryCache(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { bc.Close() })
	return NewStore(bc)
}

func TestGetCreatesEmptySession(t *testing.T) {
	store := newTestStore(t)

	session := store.Get(100)
	assert.False(t, session.Authenticated)
	assert.False(t, session.InFlow())
	assert.Nil(t, session.UserID)
}

func TestSetGetClear(t *testing.T) {
	store := newTestStore(t)

	session := store.Get(1)
	session.Authorize(response.User{ID: 7, Name: "Ann"}, "S1", "p")
	require.True(t, session.StartFlow(database.FLOW_BOOKING))
	session.SetVar(database.VAR_EVENT_ID, "42")
	require.NoError(t, store.Set(1, session))

	got := store.Get(1)
	assert.Equal(t, session, got)
	assert.Equal(t, database.BOOK_AWAITING_EVENT_ID, got.FlowState)

	// другие пользователи не затронуты
	assert.False(t, store.Get(2).Authenticated)

	require.NoError(t, store.Clear(1))
	assert.Equal(t, Session{}, store.Get(1))
	assert.NoError(t, store.Clear(1))
}

func TestSetRejectsInconsistentSession(t *testing.T) {
	store := newTestStore(t)

	err := store.Set(1, Session{ActiveFlow: database.FLOW_LOGIN})
	assert.Error(t, err)

	err = store.Set(1, Session{FlowState: database.LOGIN_AWAITING_PASSWORD})
	assert.Error(t, err)

	err = store.Set(1, Session{ActiveFlow: database.FLOW_LOGIN, FlowState: database.REG_AWAITING_NAME})
	assert.Error(t, err)

	assert.Equal(t, Session{}, store.Get(1))
}

func TestFlowLifecycle(t *testing.T) {
	var session Session

	require.True(t, session.StartFlow(database.FLOW_REGISTRATION))
	assert.False(t, session.StartFlow(database.FLOW_LOGIN), "only one flow at a time")

	steps := []database.Step{database.REG_AWAITING_NAME}
	for session.Advance() {
		steps = append(steps, session.FlowState)
	}
	assert.Equal(t, []database.Step{
		database.REG_AWAITING_NAME,
		database.REG_AWAITING_SURNAME,
		database.REG_AWAITING_STUDENT_ID,
		database.REG_AWAITING_PASSWORD,
	}, steps)
	require.NoError(t, session.Check())

	session.SetVar(database.VAR_NAME, "Ann")
	session.EndFlow()
	assert.False(t, session.InFlow())
	assert.Empty(t, session.FlowScratch)
	assert.NoError(t, session.Check())
}

func TestCancelKeepsAuthFields(t *testing.T) {
	var session Session
	session.Authorize(response.User{ID: 3, Name: "Ann", Surname: "Lee"}, "S1", "p")
	before := session

	require.True(t, session.StartFlow(database.FLOW_BOOKING))
	session.SetVar(database.VAR_EVENT_ID, "42")
	session.Advance()

	session.Cancel()

	assert.Equal(t, before, session)
	assert.False(t, session.InFlow())
	assert.Nil(t, session.FlowScratch)
}

func TestCancelUnauthenticated(t *testing.T) {
	var session Session
	require.True(t, session.StartFlow(database.FLOW_LOGIN))
	session.SetVar(database.VAR_STUDENT_ID, "S1")

	session.Cancel()

	assert.Equal(t, Session{}, session)
}

func TestLockSerializesUser(t *testing.T) {
	store := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := store.Lock(1)
			defer unlock()

			session := store.Get(1)
			session.SetVar("n", session.FlowScratch["n"]+"x")
			session.ActiveFlow = database.FLOW_LOGIN
			session.FlowState = database.LOGIN_AWAITING_STUDENT_ID
			assert.NoError(t, store.Set(1, session))
		}()
	}
	wg.Wait()

	session := store.Get(1)
	v, _ := session.GetVar("n")
	assert.Len(t, v, 50)
	assert.Zero(t, store.lockCount())
}

func TestLockReleasedAfterUse(t *testing.T) {
	store := newTestStore(t)

	unlock := store.Lock(1)
	assert.Equal(t, 1, store.lockCount())

	done := make(chan struct{})
	go func() {
		defer close(done)
		store.Lock(1)()
	}()

	unlock()
	<-done

	for id := int64(2); id < 100; id++ {
		store.Lock(id)()
	}
	assert.Zero(t, store.lockCount())
}
