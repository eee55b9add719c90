package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/dashsync/internal/storage"
)

type fakeClock struct {
	now time.Time
	mu  sync.Mutex
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// setupTestStorage создает БД во временной директории
func setupTestStorage(t *testing.T) (*Storage, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	dbPath := filepath.Join(t.TempDir(), "state.db")

	s, err := New(context.Background(), dbPath, WithClock(clock.Now), WithJanitorInterval(0))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s, clock
}

func TestNew_RunsMigrations(t *testing.T) {
	s, _ := setupTestStorage(t)

	var name string
	err := s.DB().QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'state_kv'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "state_kv", name)

	var version int64
	err = s.DB().QueryRow(`SELECT MAX(version_id) FROM goose_db_version WHERE is_applied`).Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestStorage_SetGetDelete(t *testing.T) {
	s, _ := setupTestStorage(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	require.NoError(t, s.SetWithExpiry(ctx, "k", []byte("v1"), time.Hour))
	require.NoError(t, s.SetWithExpiry(ctx, "k", []byte("v2"), time.Hour))

	value, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), value)

	removed, err := s.Delete(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	removed, err = s.Delete(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)
}

func TestStorage_Expiry(t *testing.T) {
	s, clock := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SetWithExpiry(ctx, "short", []byte("x"), time.Minute))
	require.NoError(t, s.SetWithExpiry(ctx, "forever", []byte("y"), 0))

	clock.Advance(time.Minute)

	_, err := s.Get(ctx, "short")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	removed, err := s.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	value, err := s.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, []byte("y"), value)
}

func TestStorage_SetIfAbsent(t *testing.T) {
	s, clock := setupTestStorage(t)
	ctx := context.Background()

	ok, err := s.SetIfAbsent(ctx, "lock", []byte("a"), 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.SetIfAbsent(ctx, "lock", []byte("b"), 5*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	clock.Advance(6 * time.Second)

	// истекшая строка заменяется
	ok, err = s.SetIfAbsent(ctx, "lock", []byte("b"), 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	value, err := s.Get(ctx, "lock")
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), value)
}

func TestStorage_DeleteIfEquals(t *testing.T) {
	s, _ := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SetWithExpiry(ctx, "lock", []byte("token-a"), time.Minute))

	ok, err := s.DeleteIfEquals(ctx, "lock", []byte("token-b"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeleteIfEquals(ctx, "lock", []byte("token-a"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStorage_RunAtomic(t *testing.T) {
	s, _ := setupTestStorage(t)
	ctx := context.Background()

	err := s.RunAtomic(ctx, "doc", func(current []byte) (*storage.Write, error) {
		assert.Nil(t, current)
		return &storage.Write{Value: []byte("v1"), TTL: time.Hour}, nil
	})
	require.NoError(t, err)

	err = s.RunAtomic(ctx, "doc", func(current []byte) (*storage.Write, error) {
		assert.Equal(t, []byte("v1"), current)
		return nil, nil
	})
	require.NoError(t, err)

	sentinel := errors.New("rejected")
	err = s.RunAtomic(ctx, "doc", func(current []byte) (*storage.Write, error) {
		return nil, sentinel
	})
	assert.Equal(t, sentinel, err)

	value, err := s.Get(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), value)
}

func TestStorage_RunAtomic_Concurrent(t *testing.T) {
	s, _ := setupTestStorage(t)
	ctx := context.Background()

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.RunAtomic(ctx, "counter", func(current []byte) (*storage.Write, error) {
				next := append([]byte{}, current...)
				return &storage.Write{Value: append(next, 'x')}, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	value, err := s.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Len(t, value, workers)
}

func TestStorage_ClosedIsUnavailable(t *testing.T) {
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "closed.db"), WithJanitorInterval(0))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	ctx := context.Background()
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrStoreUnavailable)
	_, err = s.Delete(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrStoreUnavailable)
	assert.ErrorIs(t, s.Ping(ctx), storage.ErrStoreUnavailable)
}
