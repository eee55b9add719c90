package storage

import (
	"errors"
	"fmt"
)

// Common storage errors
var (
	// ErrKeyNotFound indicates that key doesn't exist or has expired
	ErrKeyNotFound = errors.New("key not found")

	// ErrStoreUnavailable indicates that the backend could not serve the call
	// (timeout, connection reset, closed database, capacity rejection)
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrTxContention indicates that an optimistic transaction kept losing
	// to concurrent writers
	ErrTxContention = errors.New("transaction contention")
)

// Unavailable wraps a backend error into ErrStoreUnavailable.
// Nil stays nil.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
