package bot

import (
	"sync"
	"time"

	"event-booking-bot/internal/config"

	"golang.org/x/time/rate"
)

// после скольких пользователей в карте запускать очистку
const LIMITER_SWEEP_MIN = 1024

// limiter - ограничение частоты сообщений по пользователям. nil - без ограничений.
type limiter struct {
	mu    sync.Mutex
	limit rate.Limit
	burst int
	users map[int64]*rate.Limiter
	// размер карты, при котором будет следующая очистка
	sweepAt int
}

func newLimiter(cnf config.RateLimit) *limiter {
	if cnf.PerSecond <= 0 {
		return nil
	}
	return &limiter{
		limit:   rate.Limit(cnf.PerSecond),
		burst:   max(cnf.Burst, 1),
		users:   make(map[int64]*rate.Limiter),
		sweepAt: LIMITER_SWEEP_MIN,
	}
}

func (l *limiter) Allow(userID int64) bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	lim, ok := l.users[userID]
	if !ok {
		if len(l.users) >= l.sweepAt {
			l.sweep(time.Now())
		}
		lim = rate.NewLimiter(l.limit, l.burst)
		l.users[userID] = lim
	}
	l.mu.Unlock()

	return lim.Allow()
}

// sweep удаляет лимитеры с полным запасом: они ничем не отличаются от новых.
// Вызывается под l.mu.
func (l *limiter) sweep(now time.Time) {
	for id, lim := range l.users {
		if lim.TokensAt(now) >= float64(l.burst) {
			delete(l.users, id)
		}
	}
	l.sweepAt = max(2*len(l.users), LIMITER_SWEEP_MIN)
}
