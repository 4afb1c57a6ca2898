package cache

import (
	"encoding/json"
	"errors"
	"strconv"
	"sync"

	"event-booking-bot/internal/logger"

	"github.com/allegro/bigcache/v3"
)

// Store - сессии пользователей по ключу чата.
// Кроме хранения выдает блокировку на пользователя: все переходы диалога одного
// пользователя выполняются под ней.
type Store struct {
	cache *bigcache.BigCache

	mu    sync.Mutex
	locks map[int64]*userLock
}

// блокировка пользователя живет в карте, пока ее кто-то держит или ждет
type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewStore(cache *bigcache.BigCache) *Store {
	return &Store{
		cache: cache,
		locks: make(map[int64]*userLock),
	}
}

func dbStateKey(userKey int64) string {
	return "session:" + strconv.FormatInt(userKey, 10)
}

// Get никогда не возвращает ошибку: при отсутствии или порче данных отдается
// пустая сессия.
func (s *Store) Get(userKey int64) Session {
	var session Session

	b, err := s.cache.Get(dbStateKey(userKey))
	if err != nil {
		if !errors.Is(err, bigcache.ErrEntryNotFound) {
			logger.Warning("Error while read session from cache", err)
		}
		return session
	}

	if err := json.Unmarshal(b, &session); err != nil {
		logger.Warning("Error while decoding session", err)
		return Session{}
	}

	return session
}

func (s *Store) Set(userKey int64, session Session) error {
	if err := session.Check(); err != nil {
		return err
	}

	data, err := json.Marshal(session)
	if err != nil {
		logger.Warning("Error while encoding session", err)
		return err
	}

	err = s.cache.Set(dbStateKey(userKey), data)
	if err != nil {
		logger.Warning("Error while write session to cache", err)
	}
	return err
}

// Clear - полный сброс сессии
func (s *Store) Clear(userKey int64) error {
	err := s.cache.Delete(dbStateKey(userKey))
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil
	}
	return err
}

// Lock захватывает блокировку пользователя и возвращает функцию освобождения.
func (s *Store) Lock(userKey int64) (unlock func()) {
	s.mu.Lock()
	l, ok := s.locks[userKey]
	if !ok {
		l = &userLock{}
		s.locks[userKey] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, userKey)
		}
		s.mu.Unlock()
	}
}

// lockCount - сколько пользователей сейчас держат или ждут блокировку
func (s *Store) lockCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}
