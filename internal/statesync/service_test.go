package statesync

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/dashsync/internal/lock"
	"github.com/iudanet/dashsync/internal/models"
	"github.com/iudanet/dashsync/internal/retry"
	"github.com/iudanet/dashsync/internal/storage"
	"github.com/iudanet/dashsync/internal/storage/boltdb"
	redisstore "github.com/iudanet/dashsync/internal/storage/redis"
	"github.com/iudanet/dashsync/internal/storage/sqlite"
)

const (
	testUser      = "user-1"
	testWorkspace = "ws-1"
	testKey       = "dashboard-state:user-1:ws-1"
	testLockKey   = "dashboard-state:user-1:ws-1:lock"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() Config {
	return Config{
		StateTTL:  time.Hour,
		OpTimeout: time.Second,
		Retry: retry.Policy{
			Attempts:  3,
			BaseDelay: time.Millisecond,
			MaxDelay:  2 * time.Millisecond,
		},
	}
}

func newService(store storage.Store, opts ...Option) *Service {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(StaticSource(store), lock.NewManager(5*time.Second, nil), testConfig(), testLogger(), opts...)
}

// setupRedis поднимает miniredis и сервис поверх него
func setupRedis(t *testing.T) (*Service, *redisstore.Storage, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := redisstore.New(context.Background(), redisstore.Options{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return newService(store), store, mr
}

// backends возвращает все реализации хранилища
func backends(t *testing.T) map[string]storage.Store {
	t.Helper()

	mr := miniredis.RunT(t)
	redis, err := redisstore.New(context.Background(), redisstore.Options{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)

	dir := t.TempDir()
	bolt, err := boltdb.New(context.Background(), filepath.Join(dir, "state.db"), boltdb.WithJanitorInterval(0))
	require.NoError(t, err)

	lite, err := sqlite.New(context.Background(), filepath.Join(dir, "state.sqlite"), sqlite.WithJanitorInterval(0))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = redis.Close()
		_ = bolt.Close()
		_ = lite.Close()
	})

	return map[string]storage.Store{
		"redis":  redis,
		"bolt":   bolt,
		"sqlite": lite,
	}
}

func save(version int64, state string) SaveRequest {
	return SaveRequest{Version: version, State: json.RawMessage(state)}
}

func TestService_Scenario(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			svc := newService(store)
			ctx := context.Background()

			assert.Nil(t, svc.GetState(ctx, testUser, testWorkspace))

			out := svc.SaveState(ctx, testUser, testWorkspace, save(1, `{"a":1}`))
			assert.Equal(t, models.SaveOutcome{Success: true, ServerVersion: 1}, out)

			got := svc.GetState(ctx, testUser, testWorkspace)
			require.NotNil(t, got)
			assert.Equal(t, int64(1), got.Version)
			assert.JSONEq(t, `{"a":1}`, string(got.State))
			assert.True(t, fixedNow.Equal(got.LastModified))

			out = svc.SaveState(ctx, testUser, testWorkspace, save(2, `{"a":2}`))
			assert.Equal(t, models.SaveOutcome{Success: true, ServerVersion: 2, ConflictResolution: models.ResolutionClient}, out)

			out = svc.SaveState(ctx, testUser, testWorkspace, save(1, `{"a":3}`))
			assert.Equal(t, models.SaveOutcome{Success: false, ServerVersion: 2, ConflictResolution: models.ResolutionServer}, out)

			got = svc.GetState(ctx, testUser, testWorkspace)
			require.NotNil(t, got)
			assert.Equal(t, int64(2), got.Version)
			assert.JSONEq(t, `{"a":2}`, string(got.State))

			// блокировка снята после каждой записи
			_, err := store.Get(ctx, testLockKey)
			assert.ErrorIs(t, err, storage.ErrKeyNotFound)

			assert.Equal(t, models.DeleteOutcome{Success: true}, svc.DeleteState(ctx, testUser, testWorkspace))
			assert.Equal(t, models.DeleteOutcome{Success: false}, svc.DeleteState(ctx, testUser, testWorkspace))
			assert.Nil(t, svc.GetState(ctx, testUser, testWorkspace))

			stats := svc.Stats()
			assert.Equal(t, int64(2), stats.Saves)
			assert.Equal(t, int64(1), stats.Conflicts)
		})
	}
}

func TestService_SaveTieBreak(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jan2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	jan3 := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		modifiedAt  *time.Time
		name        string
		want        models.SaveOutcome
		wantVersion int64
	}{
		{
			name:       "server modified later wins",
			modifiedAt: &jan1,
			want:       models.SaveOutcome{Success: false, ServerVersion: 5, ConflictResolution: models.ResolutionServer},
		},
		{
			name:       "client modified later wins",
			modifiedAt: &jan3,
			want:       models.SaveOutcome{Success: true, ServerVersion: 5, ConflictResolution: models.ResolutionClient},
		},
		{
			name: "missing client timestamp wins",
			want: models.SaveOutcome{Success: true, ServerVersion: 5, ConflictResolution: models.ResolutionClient},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mr := miniredis.RunT(t)
			store, err := redisstore.New(context.Background(), redisstore.Options{URL: "redis://" + mr.Addr()})
			require.NoError(t, err)
			defer store.Close()

			ctx := context.Background()
			seed := newService(store, WithClock(func() time.Time { return jan2 }))
			require.True(t, seed.SaveState(ctx, testUser, testWorkspace, save(5, `{"v":"server"}`)).Success)

			req := save(5, `{"v":"client"}`)
			req.ModifiedAt = tt.modifiedAt
			out := newService(store).SaveState(ctx, testUser, testWorkspace, req)
			assert.Equal(t, tt.want, out)

			got := seed.GetState(ctx, testUser, testWorkspace)
			require.NotNil(t, got)
			if tt.want.Success {
				assert.JSONEq(t, `{"v":"client"}`, string(got.State))
			} else {
				assert.JSONEq(t, `{"v":"server"}`, string(got.State))
			}
		})
	}
}

func TestService_RecordTTLAndChecksum(t *testing.T) {
	svc, store, mr := setupRedis(t)
	ctx := context.Background()

	req := save(3, `{"layout":[]}`)
	req.Checksum = "crc-123"
	require.True(t, svc.SaveState(ctx, testUser, testWorkspace, req).Success)

	assert.Equal(t, time.Hour, mr.TTL(testKey))

	raw, err := store.Get(ctx, testKey)
	require.NoError(t, err)
	record, err := models.DecodeRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, "crc-123", record.Checksum)

	// Get не возвращает checksum
	out, err := json.Marshal(svc.GetState(ctx, testUser, testWorkspace))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "crc-123")

	// запись истекает по TTL
	mr.FastForward(time.Hour + time.Second)
	assert.Nil(t, svc.GetState(ctx, testUser, testWorkspace))
	assert.False(t, svc.DeleteState(ctx, testUser, testWorkspace).Success)
}

func TestService_FailOpenWithoutStore(t *testing.T) {
	svc := New(StaticSource(nil), lock.NewManager(0, nil), Config{}, testLogger())
	ctx := context.Background()

	assert.Equal(t, models.SaveOutcome{Success: false, ServerVersion: 4},
		svc.SaveState(ctx, testUser, testWorkspace, save(4, `{}`)))
	assert.Nil(t, svc.GetState(ctx, testUser, testWorkspace))
	assert.Equal(t, models.DeleteOutcome{Success: false}, svc.DeleteState(ctx, testUser, testWorkspace))
	assert.Equal(t, int64(3), svc.Stats().Unavailable)

	// nil источник ведет себя так же
	svc = New(nil, lock.NewManager(0, nil), Config{}, testLogger())
	assert.Nil(t, svc.GetState(ctx, testUser, testWorkspace))
}

func TestService_GetRetries(t *testing.T) {
	record, err := (&models.StoredStateRecord{Version: 2, State: json.RawMessage(`{"ok":true}`), LastModified: fixedNow}).Encode()
	require.NoError(t, err)

	down := storage.Unavailable("get", errors.New("connection reset"))

	tests := []struct {
		name        string
		results     []error
		wantCalls   int
		wantRetries int64
		wantFound   bool
	}{
		{name: "always unavailable", results: []error{down, down, down, down}, wantCalls: 3, wantRetries: 2},
		{name: "recovers on third attempt", results: []error{down, down, nil}, wantCalls: 3, wantRetries: 2, wantFound: true},
		{name: "first attempt succeeds", results: []error{nil}, wantCalls: 1, wantFound: true},
		{name: "not found is terminal", results: []error{storage.ErrKeyNotFound}, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			store := &storage.StoreMock{
				GetFunc: func(ctx context.Context, key string) ([]byte, error) {
					assert.Equal(t, testKey, key)
					err := tt.results[calls]
					calls++
					if err != nil {
						return nil, err
					}
					return record, nil
				},
			}

			svc := newService(store)
			got := svc.GetState(context.Background(), testUser, testWorkspace)

			assert.Equal(t, tt.wantCalls, len(store.GetCalls()))
			assert.Equal(t, tt.wantRetries, svc.Stats().GetRetries)
			if tt.wantFound {
				require.NotNil(t, got)
				assert.Equal(t, int64(2), got.Version)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestService_CorruptedRecord(t *testing.T) {
	svc, store, _ := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, store.SetWithExpiry(ctx, testKey, []byte("{not json"), time.Hour))

	assert.Nil(t, svc.GetState(ctx, testUser, testWorkspace))
	assert.Equal(t, int64(1), svc.Stats().Corrupted)

	// поврежденная запись перезаписывается любой версией
	out := svc.SaveState(ctx, testUser, testWorkspace, save(0, `{"fresh":true}`))
	assert.Equal(t, models.SaveOutcome{Success: true, ServerVersion: 0}, out)
	assert.Equal(t, int64(2), svc.Stats().Corrupted)

	got := svc.GetState(ctx, testUser, testWorkspace)
	require.NotNil(t, got)
	assert.Equal(t, int64(0), got.Version)
}

func TestService_LockContention(t *testing.T) {
	svc, store, mr := setupRedis(t)
	ctx := context.Background()

	require.True(t, svc.SaveState(ctx, testUser, testWorkspace, save(1, `{"n":1}`)).Success)

	// другой писатель держит блокировку
	ok, err := store.SetIfAbsent(ctx, testLockKey, []byte("other-writer"), 5*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	out := svc.SaveState(ctx, testUser, testWorkspace, save(2, `{"n":2}`))
	assert.Equal(t, models.SaveOutcome{Success: false, ServerVersion: 2}, out)
	assert.Equal(t, int64(1), svc.Stats().LockBusy)

	// чужая блокировка не снимается
	held, err := store.Get(ctx, testLockKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("other-writer"), held)

	got := svc.GetState(ctx, testUser, testWorkspace)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.Version)

	// брошенная блокировка истекает сама
	mr.FastForward(6 * time.Second)
	out = svc.SaveState(ctx, testUser, testWorkspace, save(2, `{"n":2}`))
	assert.True(t, out.Success)
}

func TestService_SaveStoreFailures(t *testing.T) {
	down := storage.Unavailable("op", errors.New("timeout"))

	t.Run("lock acquire fails", func(t *testing.T) {
		store := &storage.StoreMock{
			SetIfAbsentFunc: func(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
				return false, down
			},
		}
		svc := newService(store)

		out := svc.SaveState(context.Background(), testUser, testWorkspace, save(7, `{}`))
		assert.Equal(t, models.SaveOutcome{Success: false, ServerVersion: 7}, out)
		assert.Empty(t, store.RunAtomicCalls())
		assert.Equal(t, int64(1), svc.Stats().StoreFailures)
	})

	t.Run("atomic write fails", func(t *testing.T) {
		store := &storage.StoreMock{
			SetIfAbsentFunc: func(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
				assert.Equal(t, testLockKey, key)
				return true, nil
			},
			RunAtomicFunc: func(ctx context.Context, key string, fn storage.AtomicFunc) error {
				return down
			},
			DeleteIfEqualsFunc: func(ctx context.Context, key string, value []byte) (bool, error) {
				return true, nil
			},
		}
		svc := newService(store)

		out := svc.SaveState(context.Background(), testUser, testWorkspace, save(7, `{}`))
		assert.Equal(t, models.SaveOutcome{Success: false, ServerVersion: 7}, out)
		// блокировка снимается своим токеном
		require.Len(t, store.DeleteIfEqualsCalls(), 1)
		assert.Equal(t, testLockKey, store.DeleteIfEqualsCalls()[0].Key)
		assert.Equal(t, store.SetIfAbsentCalls()[0].Value, store.DeleteIfEqualsCalls()[0].Value)
		assert.Equal(t, int64(1), svc.Stats().StoreFailures)
	})

	t.Run("release fails", func(t *testing.T) {
		store := &storage.StoreMock{
			SetIfAbsentFunc: func(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
				return true, nil
			},
			RunAtomicFunc: func(ctx context.Context, key string, fn storage.AtomicFunc) error {
				_, err := fn(nil)
				return err
			},
			DeleteIfEqualsFunc: func(ctx context.Context, key string, value []byte) (bool, error) {
				return false, down
			},
		}
		svc := newService(store)

		out := svc.SaveState(context.Background(), testUser, testWorkspace, save(7, `{}`))
		assert.Equal(t, models.SaveOutcome{Success: true, ServerVersion: 7}, out)
	})

	t.Run("delete fails", func(t *testing.T) {
		store := &storage.StoreMock{
			DeleteFunc: func(ctx context.Context, key string) (int64, error) {
				return 0, down
			},
		}
		svc := newService(store)

		assert.Equal(t, models.DeleteOutcome{Success: false}, svc.DeleteState(context.Background(), testUser, testWorkspace))
		assert.Len(t, store.DeleteCalls(), 1)
	})
}

func TestService_RejectsInvalidInput(t *testing.T) {
	// хранилище без функций паникует при любом обращении
	svc := newService(&storage.StoreMock{})
	ctx := context.Background()

	tests := []struct {
		name      string
		user      string
		workspace string
		req       SaveRequest
	}{
		{name: "negative version", user: testUser, workspace: testWorkspace, req: save(-1, `{}`)},
		{name: "missing state", user: testUser, workspace: testWorkspace, req: SaveRequest{Version: 1}},
		{name: "state is not json", user: testUser, workspace: testWorkspace, req: save(1, `{oops`)},
		{name: "empty user", user: "", workspace: testWorkspace, req: save(1, `{}`)},
		{name: "workspace with colon", user: testUser, workspace: "a:b", req: save(1, `{}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := svc.SaveState(ctx, tt.user, tt.workspace, tt.req)
			assert.Equal(t, models.SaveOutcome{Success: false, ServerVersion: tt.req.Version}, out)
		})
	}

	assert.Nil(t, svc.GetState(ctx, testUser, "bad/ws"))
	assert.False(t, svc.DeleteState(ctx, "", testWorkspace).Success)
	assert.Equal(t, int64(len(tests)+2), svc.Stats().Rejected)
}

func TestService_ConcurrentSaves(t *testing.T) {
	svc, _, _ := setupRedis(t)
	ctx := context.Background()

	const writers = 20

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		maxSuccess int64 = -1
	)

	for v := int64(1); v <= writers; v++ {
		wg.Add(1)
		go func(v int64) {
			defer wg.Done()
			out := svc.SaveState(ctx, testUser, testWorkspace, save(v, `{"v":1}`))
			if out.Success {
				mu.Lock()
				maxSuccess = max(maxSuccess, v)
				mu.Unlock()
			}
			if out.ConflictResolution == models.ResolutionServer {
				assert.Greater(t, out.ServerVersion, v)
			}
		}(v)
	}
	wg.Wait()

	got := svc.GetState(ctx, testUser, testWorkspace)
	if maxSuccess < 0 {
		assert.Nil(t, got)
		return
	}
	require.NotNil(t, got)
	assert.Equal(t, maxSuccess, got.Version)
}

func TestService_VersionNeverDecreases(t *testing.T) {
	svc, _, _ := setupRedis(t)
	ctx := context.Background()

	versions := []int64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3}
	var last int64 = -1

	for _, v := range versions {
		svc.SaveState(ctx, testUser, testWorkspace, save(v, `{}`))

		got := svc.GetState(ctx, testUser, testWorkspace)
		require.NotNil(t, got)
		assert.GreaterOrEqual(t, got.Version, last)
		last = got.Version
	}
	assert.Equal(t, int64(9), last)
}

func TestService_ResolveConflict(t *testing.T) {
	svc := newService(nil)

	assert.Equal(t, models.ResolutionClient, svc.ResolveConflict(nil, 1, nil))
	assert.Equal(t, models.ResolutionServer,
		svc.ResolveConflict(&models.StoredStateRecord{Version: 3}, 2, nil))
	assert.Equal(t, models.ResolutionClient,
		svc.ResolveConflict(&models.StoredStateRecord{Version: 3}, 4, nil))
}
