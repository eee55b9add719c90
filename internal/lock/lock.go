// Package lock provides short-lived per-key write locks kept in the shared
// store. A lock is a marker set with "set if absent"; it expires on its own
// so a crashed holder never blocks the key for longer than the lock TTL.
package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTTL срок жизни блокировки по умолчанию
	DefaultTTL = 5 * time.Second
	// MaxTTL верхняя граница: блокировка должна истекать за секунды, не минуты
	MaxTTL = time.Minute
)

// ErrLockBusy indicates that another writer currently holds the lock.
// It is an expected outcome, not a failure.
var ErrLockBusy = errors.New("lock is held by another writer")

// Locker is the subset of storage.Store the manager needs
type Locker interface {
	SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	DeleteIfEquals(ctx context.Context, key string, value []byte) (bool, error)
}

// Lease is a held lock
type Lease struct {
	// ExpiresAt момент, после которого блокировка может быть захвачена другим писателем
	Key       string
	Token     string
	ExpiresAt time.Time
}

// Manager acquires and releases locks
type Manager struct {
	newToken func() string
	now      func() time.Time
	ttl      time.Duration
}

// NewManager creates a manager with the given lock TTL.
// A TTL outside (0, MaxTTL] falls back to DefaultTTL with a warning.
func NewManager(ttl time.Duration, logger *slog.Logger) *Manager {
	if ttl <= 0 || ttl > MaxTTL {
		if logger != nil {
			logger.Warn("invalid lock ttl, using default", "ttl", ttl, "default", DefaultTTL)
		}
		ttl = DefaultTTL
	}

	return &Manager{
		ttl:      ttl,
		newToken: func() string { return uuid.New().String() },
		now:      time.Now,
	}
}

// TTL returns the effective lock TTL
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Acquire makes a single attempt to take the lock for key.
// Returns ErrLockBusy if it is held; store errors are returned as is.
func (m *Manager) Acquire(ctx context.Context, locker Locker, key string) (*Lease, error) {
	token := m.newToken()
	acquiredAt := m.now()

	ok, err := locker.SetIfAbsent(ctx, key, []byte(token), m.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %q: %w", key, err)
	}
	if !ok {
		return nil, ErrLockBusy
	}

	return &Lease{
		Key:       key,
		Token:     token,
		ExpiresAt: acquiredAt.Add(m.ttl),
	}, nil
}

// Release removes the lock if it is still held by lease.
// Returns false if the lock had already expired or was taken over.
func (m *Manager) Release(ctx context.Context, locker Locker, lease *Lease) (bool, error) {
	if lease == nil {
		return false, nil
	}

	released, err := locker.DeleteIfEquals(ctx, lease.Key, []byte(lease.Token))
	if err != nil {
		return false, fmt.Errorf("failed to release lock %q: %w", lease.Key, err)
	}

	return released, nil
}
