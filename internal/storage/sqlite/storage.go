// Package sqlite implements storage.Store on a SQLite database file.
// Several processes on one host may share the file; WAL mode and the busy
// timeout serialize their writers.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/iudanet/dashsync/internal/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// DefaultJanitorInterval how often expired rows are deleted
const DefaultJanitorInterval = time.Minute

// Option configures Storage
type Option func(*Storage)

// WithClock overrides the time source used for expiry
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		s.now = now
	}
}

// WithJanitorInterval sets the cleanup interval; zero or negative disables the janitor
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

// Storage represents SQLite implementation of storage.Store
type Storage struct {
	db              *sql.DB
	now             func() time.Time
	logger          *slog.Logger
	stopC           chan struct{}
	janitorInterval time.Duration
	wg              sync.WaitGroup
	closeOnce       sync.Once
}

var _ storage.Store = (*Storage)(nil)

// New creates a new SQLite storage instance
// dbPath is the path to the SQLite database file
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

	// Открываем соединение с БД
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Одно соединение: транзакции RunAtomic выполняются строго по очереди
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s.db = db

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if s.janitorInterval > 0 {
		s.wg.Add(1)
		go s.janitor()
	}

	return s, nil
}

// Close stops the janitor and closes the database connection
func (s *Storage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopC)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// Ping checks the database connection
func (s *Storage) Ping(ctx context.Context) error {
	return storage.Unavailable("ping", s.db.PingContext(ctx))
}

// runMigrations выполняет миграции из embedded FS
func (s *Storage) runMigrations() error {
	goose.SetDialect("sqlite3")
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	return nil
}

// janitor периодически удаляет истекшие строки
func (s *Storage) janitor() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := s.DeleteExpired(context.Background())
			if err != nil {
				s.logger.Warn("sqlite janitor failed", "error", err)
				continue
			}
			if removed > 0 {
				s.logger.Debug("sqlite janitor deleted expired keys", "removed", removed)
			}
		case <-s.stopC:
			return
		}
	}
}

// DB returns the underlying database connection
func (s *Storage) DB() *sql.DB {
	return s.db
}
