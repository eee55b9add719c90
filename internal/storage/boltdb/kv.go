package boltdb

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/dashsync/internal/storage"
)

// Get returns the live value stored under key
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	found := false

	err := s.db.View(func(tx *bbolt.Tx) error {
		value, found = s.liveValue(tx.Bucket(bucketState), key)
		return nil
	})
	if err != nil {
		return nil, storage.Unavailable("get", err)
	}
	if !found {
		return nil, storage.ErrKeyNotFound
	}

	return value, nil
}

// SetWithExpiry stores value under key
func (s *Storage) SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketState).Put([]byte(key), wrap(value, ttl, s.now()))
	})
	return storage.Unavailable("set", err)
}

// SetIfAbsent stores value only if there is no live value under key
func (s *Storage) SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	stored := false

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketState)
		if _, live := s.liveValue(bucket, key); live {
			return nil
		}
		if err := bucket.Put([]byte(key), wrap(value, ttl, s.now())); err != nil {
			return err
		}
		stored = true
		return nil
	})
	if err != nil {
		return false, storage.Unavailable("set if absent", err)
	}

	return stored, nil
}

// Delete removes key; an expired key counts as absent
func (s *Storage) Delete(ctx context.Context, key string) (int64, error) {
	var removed int64

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketState)
		raw := bucket.Get([]byte(key))
		if raw == nil {
			return nil
		}
		if _, live := unwrap(raw, s.now()); live {
			removed = 1
		}
		return bucket.Delete([]byte(key))
	})
	if err != nil {
		return 0, storage.Unavailable("delete", err)
	}

	return removed, nil
}

// DeleteIfEquals removes key only while it holds value
func (s *Storage) DeleteIfEquals(ctx context.Context, key string, value []byte) (bool, error) {
	removed := false

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketState)
		current, live := s.liveValue(bucket, key)
		if !live || !bytes.Equal(current, value) {
			return nil
		}
		if err := bucket.Delete([]byte(key)); err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, storage.Unavailable("delete if equals", err)
	}

	return removed, nil
}

// RunAtomic runs read, fn and write inside a single bbolt write transaction.
// bbolt allows one writer at a time, so nothing can interleave.
func (s *Storage) RunAtomic(ctx context.Context, key string, fn storage.AtomicFunc) error {
	var fnErr error

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketState)
		current, live := s.liveValue(bucket, key)
		if !live {
			current = nil
		}

		write, err := fn(current)
		if err != nil {
			// Ошибка функции откатывает транзакцию и возвращается как есть
			fnErr = err
			return err
		}
		if write == nil {
			return nil
		}

		if err := bucket.Put([]byte(key), wrap(write.Value, write.TTL, s.now())); err != nil {
			return fmt.Errorf("failed to put value: %w", err)
		}
		return nil
	})

	if fnErr != nil {
		return fnErr
	}
	return storage.Unavailable("atomic update", err)
}
