// Package storage defines the contract every key-value backend of the
// state service implements.
package storage

import (
	"context"
	"time"
)

//go:generate moq -out store_mock.go . Store

// Write describes a value an AtomicFunc wants to store.
type Write struct {
	Value []byte
	TTL   time.Duration
}

// AtomicFunc receives the current value of a key (nil when absent or expired)
// and returns the value to store, or nil to leave the key untouched.
// A backend may call it more than once; only the last call's decision is applied.
type AtomicFunc func(current []byte) (*Write, error)

// Store defines a key-value store with expiry and atomic read-modify-write.
// Backend failures are returned wrapped in ErrStoreUnavailable.
// Implementations do not retry failed calls.
type Store interface {
	// Get returns the value stored under key
	// Returns ErrKeyNotFound if key doesn't exist or has expired
	Get(ctx context.Context, key string) ([]byte, error)

	// SetWithExpiry stores value under key, replacing any previous value
	// ttl of 0 means the value never expires
	SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetIfAbsent stores value only if key doesn't exist
	// Returns true if the value was stored
	SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Delete removes key
	// Returns number of removed keys (0 or 1)
	Delete(ctx context.Context, key string) (int64, error)

	// DeleteIfEquals removes key only if it currently holds value
	// Returns true if the key was removed
	DeleteIfEquals(ctx context.Context, key string, value []byte) (bool, error)

	// RunAtomic reads key, calls fn and applies its Write as one atomic unit:
	// no other writer of key can interleave between the read and the write.
	// Errors returned by fn are returned unchanged.
	RunAtomic(ctx context.Context, key string, fn AtomicFunc) error

	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error

	// Close releases the backend connection
	Close() error
}
