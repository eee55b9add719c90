// Package boltdb implements storage.Store on top of an embedded bbolt
// database. It suits single-node deployments: the file lock allows only one
// process at a time.
package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/dashsync/internal/storage"
)

var (
	// BoltDB bucket names
	bucketState = []byte("state")
)

// envelopeHeader - размер заголовка значения: время истечения в unix nanos
const envelopeHeader = 8

// DefaultJanitorInterval how often expired keys are reaped
const DefaultJanitorInterval = time.Minute

// Option configures Storage
type Option func(*Storage)

// WithClock overrides the time source used for expiry
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		s.now = now
	}
}

// WithJanitorInterval sets the reaping interval; zero or negative disables the janitor
func WithJanitorInterval(interval time.Duration) Option {
	return func(s *Storage) {
		s.janitorInterval = interval
	}
}

// WithLogger sets the logger used by the janitor
func WithLogger(logger *slog.Logger) Option {
	return func(s *Storage) {
		s.logger = logger
	}
}

// Storage represents BoltDB implementation of storage.Store
type Storage struct {
	db              *bbolt.DB
	now             func() time.Time
	logger          *slog.Logger
	stopC           chan struct{}
	janitorInterval time.Duration
	wg              sync.WaitGroup
	closeOnce       sync.Once
}

var _ storage.Store = (*Storage)(nil)

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string, opts ...Option) (*Storage, error) {
	s := &Storage{
		now:             time.Now,
		logger:          slog.Default(),
		janitorInterval: DefaultJanitorInterval,
		stopC:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Открываем BoltDB; таймаут на файловую блокировку, чтобы второй процесс не висел
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}
	s.db = db

	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	if s.janitorInterval > 0 {
		s.wg.Add(1)
		go s.janitor()
	}

	return s, nil
}

// Close stops the janitor and closes the database
func (s *Storage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopC)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// Ping checks that the database is open
func (s *Storage) Ping(ctx context.Context) error {
	return storage.Unavailable("ping", s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketState) == nil {
			return fmt.Errorf("bucket %q is missing", bucketState)
		}
		return nil
	}))
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketState); err != nil {
			return fmt.Errorf("failed to create state bucket: %w", err)
		}
		return nil
	})
}

// janitor периодически удаляет истекшие ключи
func (s *Storage) janitor() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := s.Reap(context.Background())
			if err != nil {
				s.logger.Warn("boltdb janitor failed", "error", err)
				continue
			}
			if removed > 0 {
				s.logger.Debug("boltdb janitor reaped expired keys", "removed", removed)
			}
		case <-s.stopC:
			return
		}
	}
}

// Reap removes all expired keys
// Returns number of removed keys
func (s *Storage) Reap(ctx context.Context) (int, error) {
	now := s.now()
	removed := 0

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketState)
		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			if _, live := unwrap(v, now); live {
				continue
			}
			if err := cursor.Delete(); err != nil {
				return fmt.Errorf("failed to delete expired key: %w", err)
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, storage.Unavailable("reap", err)
	}

	return removed, nil
}

// wrap упаковывает значение вместе со временем истечения
func wrap(value []byte, ttl time.Duration, now time.Time) []byte {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = now.Add(ttl).UnixNano()
	}

	buf := make([]byte, envelopeHeader+len(value))
	binary.BigEndian.PutUint64(buf, uint64(expiresAt))
	copy(buf[envelopeHeader:], value)
	return buf
}

// unwrap returns a copy of the payload and whether it is still live.
// bbolt memory is only valid inside the transaction, hence the copy.
func unwrap(raw []byte, now time.Time) ([]byte, bool) {
	if len(raw) < envelopeHeader {
		return nil, false
	}

	expiresAt := int64(binary.BigEndian.Uint64(raw[:envelopeHeader]))
	if expiresAt != 0 && now.UnixNano() >= expiresAt {
		return nil, false
	}

	value := make([]byte, len(raw)-envelopeHeader)
	copy(value, raw[envelopeHeader:])
	return value, true
}

// liveValue reads key inside tx, hiding expired entries
func (s *Storage) liveValue(bucket *bbolt.Bucket, key string) ([]byte, bool) {
	raw := bucket.Get([]byte(key))
	if raw == nil {
		return nil, false
	}
	return unwrap(raw, s.now())
}
