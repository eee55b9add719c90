package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/dashsync/internal/storage"
)

// expiresAt converts ttl into the stored unix-nanos deadline; 0 means never
func (s *Storage) expiresAt(ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return s.now().Add(ttl).UnixNano()
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// getLive reads the live value of key; expired rows are reported as absent
func (s *Storage) getLive(ctx context.Context, q querier, key string) ([]byte, error) {
	query := `
		SELECT value
		FROM state_kv
		WHERE key = ? AND (expires_at = 0 OR expires_at > ?)
	`

	var value []byte
	err := q.QueryRowContext(ctx, query, key, s.now().UnixNano()).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get value: %w", err)
	}

	return value, nil
}

// put inserts or replaces key
func (s *Storage) put(ctx context.Context, q querier, key string, value []byte, ttl time.Duration) error {
	query := `
		INSERT INTO state_kv (key, value, expires_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`

	if _, err := q.ExecContext(ctx, query, key, value, s.expiresAt(ttl)); err != nil {
		return fmt.Errorf("failed to put value: %w", err)
	}

	return nil
}

// Get returns the live value stored under key
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.getLive(ctx, s.db, key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, err
		}
		return nil, storage.Unavailable("get", err)
	}
	return value, nil
}

// SetWithExpiry stores value under key
func (s *Storage) SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return storage.Unavailable("set", s.put(ctx, s.db, key, value, ttl))
}

// SetIfAbsent stores value only if there is no live row for key.
// An expired row is replaced.
func (s *Storage) SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	query := `
		INSERT INTO state_kv (key, value, expires_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
		WHERE state_kv.expires_at != 0 AND state_kv.expires_at <= ?
	`

	result, err := s.db.ExecContext(ctx, query, key, value, s.expiresAt(ttl), s.now().UnixNano())
	if err != nil {
		return false, storage.Unavailable("set if absent", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, storage.Unavailable("set if absent", err)
	}

	return rows > 0, nil
}

// Delete removes key; an expired row is removed too but counts as absent
func (s *Storage) Delete(ctx context.Context, key string) (int64, error) {
	var removed int64

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.getLive(ctx, tx, key); err == nil {
			removed = 1
		} else if !errors.Is(err, storage.ErrKeyNotFound) {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM state_kv WHERE key = ?`, key); err != nil {
			return fmt.Errorf("failed to delete value: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, storage.Unavailable("delete", err)
	}

	return removed, nil
}

// DeleteIfEquals removes key only while it holds value
func (s *Storage) DeleteIfEquals(ctx context.Context, key string, value []byte) (bool, error) {
	query := `
		DELETE FROM state_kv
		WHERE key = ? AND value = ? AND (expires_at = 0 OR expires_at > ?)
	`

	result, err := s.db.ExecContext(ctx, query, key, value, s.now().UnixNano())
	if err != nil {
		return false, storage.Unavailable("delete if equals", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, storage.Unavailable("delete if equals", err)
	}

	return rows > 0, nil
}

// RunAtomic runs read, fn and write inside one SQL transaction
func (s *Storage) RunAtomic(ctx context.Context, key string, fn storage.AtomicFunc) error {
	var fnErr error

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		current, err := s.getLive(ctx, tx, key)
		if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
			return err
		}

		write, err := fn(current)
		if err != nil {
			fnErr = err
			return err
		}
		if write == nil {
			return nil
		}

		return s.put(ctx, tx, key, write.Value, write.TTL)
	})

	if fnErr != nil {
		return fnErr
	}
	return storage.Unavailable("atomic update", err)
}

// DeleteExpired removes all expired rows
// Returns number of deleted rows
func (s *Storage) DeleteExpired(ctx context.Context) (int, error) {
	query := `DELETE FROM state_kv WHERE expires_at != 0 AND expires_at <= ?`

	result, err := s.db.ExecContext(ctx, query, s.now().UnixNano())
	if err != nil {
		return 0, storage.Unavailable("delete expired", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, storage.Unavailable("delete expired", err)
	}

	return int(rows), nil
}

// inTx runs fn in a transaction, committing on success
func (s *Storage) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback failed: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
