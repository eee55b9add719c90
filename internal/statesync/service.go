// Package statesync keeps per-user, per-workspace dashboard state in the
// shared store. Writes take a short-lived lock and resolve version
// conflicts inside one atomic read-modify-write. Every operation fails open:
// store problems turn into "nothing saved" or "nothing found", never into
// an error for the caller.
package statesync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/dashsync/internal/conflict"
	"github.com/iudanet/dashsync/internal/lock"
	"github.com/iudanet/dashsync/internal/models"
	"github.com/iudanet/dashsync/internal/retry"
	"github.com/iudanet/dashsync/internal/storage"
	"github.com/iudanet/dashsync/internal/validation"
)

// DefaultOpTimeout таймаут одного обращения к хранилищу
const DefaultOpTimeout = 2 * time.Second

// errInvalidRequest отклоняет запрос до обращения к хранилищу
var errInvalidRequest = errors.New("invalid request")

// StoreSource supplies the current store handle; nil means "not available"
type StoreSource interface {
	Store() storage.Store
}

// Config configures Service
type Config struct {
	Retry     retry.Policy
	Namespace string
	StateTTL  time.Duration
	OpTimeout time.Duration
}

// SaveRequest is an incoming write
type SaveRequest struct {
	ModifiedAt *time.Time      // время изменения на клиенте, используется только при равных версиях
	Checksum   string          // сохраняется как есть
	State      json.RawMessage // непрозрачное состояние дашборда
	Version    int64
}

// Option configures Service
type Option func(*Service)

// WithClock overrides the clock used for lastModified
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service implements save, get and delete of dashboard state
type Service struct {
	source StoreSource
	locks  *lock.Manager
	logger *slog.Logger
	now    func() time.Time
	stats  counters
	cfg    Config
}

// New creates a Service
func New(source StoreSource, locks *lock.Manager, cfg Config, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = models.DefaultNamespace
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = DefaultOpTimeout
	}
	if cfg.Retry.Attempts <= 0 {
		cfg.Retry = retry.DefaultPolicy()
	}

	s := &Service{
		source: source,
		locks:  locks,
		logger: logger,
		now:    time.Now,
		cfg:    cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveState writes req for (userID, workspaceID) unless the stored record is newer.
func (s *Service) SaveState(ctx context.Context, userID, workspaceID string, req SaveRequest) models.SaveOutcome {
	failOpen := models.SaveOutcome{Success: false, ServerVersion: req.Version}

	store := s.store()
	if store == nil {
		return failOpen
	}

	key, err := s.key(userID, workspaceID)
	if err == nil {
		err = validateSave(req)
	}
	if err != nil {
		s.stats.rejected.Add(1)
		s.logger.Warn("save rejected", "user_id", userID, "workspace_id", workspaceID, "error", err)
		return failOpen
	}

	lease, err := s.acquire(ctx, store, key)
	if err != nil {
		if errors.Is(err, lock.ErrLockBusy) {
			s.stats.lockBusy.Add(1)
			s.logger.Warn("save skipped, state is locked by another writer",
				"user_id", userID, "workspace_id", workspaceID, "version", req.Version)
		} else {
			s.stats.storeFailures.Add(1)
			s.logger.Warn("save failed to acquire lock",
				"user_id", userID, "workspace_id", workspaceID, "error", err)
		}
		return failOpen
	}
	defer s.release(ctx, store, lease)

	var (
		outcome   models.SaveOutcome
		corrupted error
	)

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	err = store.RunAtomic(opCtx, key.String(), func(current []byte) (*storage.Write, error) {
		// Функция может вызываться повторно, состояние сбрасываем
		corrupted = nil
		existing := models.ParseOrNone(current, models.DecodeRecord, func(err error) { corrupted = err })

		resolution := conflict.Resolve(existing, req.Version, req.ModifiedAt)
		if resolution == models.ResolutionServer {
			outcome = models.SaveOutcome{
				Success:            false,
				ServerVersion:      existing.Version,
				ConflictResolution: models.ResolutionServer,
			}
			return nil, nil
		}

		record := &models.StoredStateRecord{
			Version:      req.Version,
			State:        req.State,
			LastModified: s.now().UTC(),
			Checksum:     req.Checksum,
		}
		data, err := record.Encode()
		if err != nil {
			return nil, err
		}

		outcome = models.SaveOutcome{Success: true, ServerVersion: req.Version}
		if resolution == models.ResolutionClient {
			outcome.ConflictResolution = models.ResolutionClient
		}
		return &storage.Write{Value: data, TTL: s.cfg.StateTTL}, nil
	})
	if err != nil {
		s.stats.storeFailures.Add(1)
		s.logger.Warn("save failed",
			"user_id", userID, "workspace_id", workspaceID, "version", req.Version, "error", err)
		return failOpen
	}

	if corrupted != nil {
		s.reportCorrupted(key, corrupted)
	}

	if outcome.Success {
		s.stats.saves.Add(1)
		s.logger.Debug("state saved", "user_id", userID, "workspace_id", workspaceID, "version", req.Version)
	} else {
		s.stats.conflicts.Add(1)
		s.logger.Info("save rejected, server state is newer",
			"user_id", userID, "workspace_id", workspaceID,
			"version", req.Version, "server_version", outcome.ServerVersion)
	}

	return outcome
}

// GetState returns the stored state or nil when it is absent, corrupted
// or the store cannot be reached.
func (s *Service) GetState(ctx context.Context, userID, workspaceID string) *models.StateSnapshot {
	store := s.store()
	if store == nil {
		return nil
	}

	key, err := s.key(userID, workspaceID)
	if err != nil {
		s.stats.rejected.Add(1)
		s.logger.Warn("get rejected", "user_id", userID, "workspace_id", workspaceID, "error", err)
		return nil
	}

	policy := s.cfg.Retry
	onRetry := policy.OnRetry
	policy.OnRetry = func(attempt int, err error) {
		s.stats.getRetries.Add(1)
		s.logger.Warn("get attempt failed, retrying",
			"user_id", userID, "workspace_id", workspaceID, "attempt", attempt, "error", err)
		if onRetry != nil {
			onRetry(attempt, err)
		}
	}

	data, err := retry.Do(ctx, policy, func(ctx context.Context) ([]byte, error) {
		opCtx, cancel := s.opContext(ctx)
		defer cancel()
		return store.Get(opCtx, key.String())
	})
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		s.stats.storeFailures.Add(1)
		s.logger.Warn("get failed", "user_id", userID, "workspace_id", workspaceID, "error", err)
		return nil
	}

	record := models.ParseOrNone(data, models.DecodeRecord, func(err error) {
		s.reportCorrupted(key, err)
	})
	if record == nil {
		return nil
	}

	return record.Snapshot()
}

// DeleteState removes the stored state. Removing an absent state is not a
// failure but reports Success false.
func (s *Service) DeleteState(ctx context.Context, userID, workspaceID string) models.DeleteOutcome {
	store := s.store()
	if store == nil {
		return models.DeleteOutcome{Success: false}
	}

	key, err := s.key(userID, workspaceID)
	if err != nil {
		s.stats.rejected.Add(1)
		s.logger.Warn("delete rejected", "user_id", userID, "workspace_id", workspaceID, "error", err)
		return models.DeleteOutcome{Success: false}
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	removed, err := store.Delete(opCtx, key.String())
	if err != nil {
		s.stats.storeFailures.Add(1)
		s.logger.Warn("delete failed", "user_id", userID, "workspace_id", workspaceID, "error", err)
		return models.DeleteOutcome{Success: false}
	}

	return models.DeleteOutcome{Success: removed > 0}
}

// ResolveConflict reports which side would win if a client at clientVersion
// wrote over serverRecord. A nil record means the client wins.
func (s *Service) ResolveConflict(serverRecord *models.StoredStateRecord, clientVersion int64, clientModifiedAt *time.Time) models.Resolution {
	return conflict.External(conflict.Resolve(serverRecord, clientVersion, clientModifiedAt))
}

// store возвращает текущий handle, учитывая недоступность
func (s *Service) store() storage.Store {
	var store storage.Store
	if s.source != nil {
		store = s.source.Store()
	}
	if store == nil {
		s.stats.unavailable.Add(1)
		s.logger.Debug("store is not available, failing open")
	}
	return store
}

func (s *Service) key(userID, workspaceID string) (models.StateKey, error) {
	if err := validation.ValidateUserID(userID); err != nil {
		return models.StateKey{}, fmt.Errorf("%w: %w", errInvalidRequest, err)
	}
	if err := validation.ValidateWorkspaceID(workspaceID); err != nil {
		return models.StateKey{}, fmt.Errorf("%w: %w", errInvalidRequest, err)
	}
	return models.NewStateKey(s.cfg.Namespace, userID, workspaceID), nil
}

func validateSave(req SaveRequest) error {
	if req.Version < 0 {
		return fmt.Errorf("%w: negative version %d", errInvalidRequest, req.Version)
	}
	if len(req.State) == 0 {
		return fmt.Errorf("%w: missing state", errInvalidRequest)
	}
	if !json.Valid(req.State) {
		return fmt.Errorf("%w: state is not valid JSON", errInvalidRequest)
	}
	return nil
}

func (s *Service) acquire(ctx context.Context, store storage.Store, key models.StateKey) (*lock.Lease, error) {
	opCtx, cancel := s.opContext(ctx)
	defer cancel()
	return s.locks.Acquire(opCtx, store, key.LockKey())
}

// release снимает блокировку даже если контекст запроса уже отменен
func (s *Service) release(ctx context.Context, store storage.Store, lease *lock.Lease) {
	opCtx, cancel := s.opContext(context.WithoutCancel(ctx))
	defer cancel()

	released, err := s.locks.Release(opCtx, store, lease)
	if err != nil {
		s.logger.Warn("failed to release lock, it will expire on its own",
			"lock_key", lease.Key, "error", err)
		return
	}
	if !released {
		s.logger.Warn("lock expired before release",
			"lock_key", lease.Key,
			"ttl", s.locks.TTL(),
			"overrun", s.now().Sub(lease.ExpiresAt))
	}
}

func (s *Service) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.OpTimeout)
}

func (s *Service) reportCorrupted(key models.StateKey, err error) {
	s.stats.corrupted.Add(1)
	s.logger.Warn("corrupted state record treated as absent",
		"user_id", key.UserID(), "workspace_id", key.WorkspaceID(), "error", err)
}
