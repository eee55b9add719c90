package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/iudanet/dashsync/internal/config"
	"github.com/iudanet/dashsync/internal/storage"
	"github.com/iudanet/dashsync/internal/storage/boltdb"
	redisstore "github.com/iudanet/dashsync/internal/storage/redis"
	"github.com/iudanet/dashsync/internal/storage/sqlite"
)

// Open opens the backend selected by the scheme of cfg.URL
func Open(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (storage.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	scheme, path, found := strings.Cut(cfg.URL, "://")
	if !found {
		return nil, fmt.Errorf("store url %q has no scheme", cfg.URL)
	}
	scheme = strings.ToLower(scheme)

	switch scheme {
	case "redis", "rediss":
		s, err := redisstore.New(ctx, redisstore.Options{
			URL:          cfg.URL,
			PoolSize:     cfg.PoolSize,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.OpTimeout,
			WriteTimeout: cfg.OpTimeout,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case "bolt", "sqlite":
		if path == "" {
			return nil, fmt.Errorf("store url %q: empty path", cfg.URL)
		}
	default:
		return nil, fmt.Errorf("store url %q: unsupported scheme %q", cfg.URL, scheme)
	}

	// Файловые хранилища
	if scheme == "bolt" {
		s, err := boltdb.New(ctx, path,
			boltdb.WithJanitorInterval(cfg.JanitorInterval),
			boltdb.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	s, err := sqlite.New(ctx, path,
		sqlite.WithJanitorInterval(cfg.JanitorInterval),
		sqlite.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Dial returns a Dialer that opens the backend described by cfg
func Dial(cfg config.StoreConfig, logger *slog.Logger) Dialer {
	return func(ctx context.Context) (storage.Store, error) {
		return Open(ctx, cfg, logger)
	}
}
