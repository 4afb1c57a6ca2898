package database

import (
	"context"
	"time"

	"github.com/allegro/bigcache/v3"
)

// SESSION_LIFE_WINDOW - срок жизни записи в bigcache. Недостижим на практике:
// bigcache удаляет старейшую запись шарда при каждой записи, если она старше этого срока.
const SESSION_LIFE_WINDOW = 100 * 365 * 24 * time.Hour

func inMemoryCacheConfig() bigcache.Config {
	cnf := bigcache.DefaultConfig(SESSION_LIFE_WINDOW)
	cnf.CleanWindow = 0
	cnf.Verbose = false
	return cnf
}

// ConnectInMemoryCache - хранилище сессий в памяти процесса.
// Сессия живет до рестарта или явного выхода пользователя.
func ConnectInMemoryCache(ctx context.Context) (*bigcache.BigCache, error) {
	return bigcache.New(ctx, inMemoryCacheConfig())
}
