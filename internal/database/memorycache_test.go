package database

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCacheNeverExpires(t *testing.T) {
	cnf := inMemoryCacheConfig()

	assert.Zero(t, cnf.CleanWindow)
	assert.GreaterOrEqual(t, cnf.LifeWindow, 50*365*24*time.Hour)
}

// при записи в шард bigcache удаляет старейшую запись, если она старше LifeWindow
func TestIdleEntrySurvivesWritesToSameShard(t *testing.T) {
	cnf := inMemoryCacheConfig()
	cnf.Shards = 1

	bc, err := bigcache.New(context.Background(), cnf)
	require.NoError(t, err)
	t.Cleanup(func() { bc.Close() })

	require.NoError(t, bc.Set("session:1", []byte(`{"authenticated":true}`)))
	time.Sleep(1100 * time.Millisecond)
	for i := 2; i < 50; i++ {
		require.NoError(t, bc.Set("session:"+strconv.Itoa(i), []byte(`{}`)))
	}

	got, err := bc.Get("session:1")
	require.NoError(t, err)
	assert.Equal(t, `{"authenticated":true}`, string(got))
}

func TestConnectInMemoryCache(t *testing.T) {
	bc, err := ConnectInMemoryCache(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { bc.Close() })

	require.NoError(t, bc.Set("k", []byte("v")))
	got, err := bc.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}
