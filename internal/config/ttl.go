package config

import (
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// DefaultStateTTLSeconds - 30 дней
const DefaultStateTTLSeconds = 2592000

// DefaultStateTTL is DefaultStateTTLSeconds as a duration
const DefaultStateTTL = DefaultStateTTLSeconds * time.Second

// ResolveStateTTL parses the "state TTL seconds" setting.
// Empty means default. A non-numeric or non-positive value also means
// default, with a warning; it never fails startup.
func ResolveStateTTL(raw string, logger *slog.Logger) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultStateTTL
	}

	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || seconds <= 0 {
		if logger != nil {
			logger.Warn("invalid state ttl, using default",
				"value", raw,
				"default_seconds", DefaultStateTTLSeconds)
		}
		return DefaultStateTTL
	}

	// Защита от переполнения time.Duration
	if seconds > int64(maxDuration/time.Second) {
		if logger != nil {
			logger.Warn("state ttl too large, using default",
				"value", raw,
				"default_seconds", DefaultStateTTLSeconds)
		}
		return DefaultStateTTL
	}

	return time.Duration(seconds) * time.Second
}

const maxDuration = time.Duration(1<<63 - 1)

// ResolveLockTTL keeps the lock alive longer than one store call.
// A ttl not longer than opTimeout is raised to 3*opTimeout with a warning:
// a save holds the lock across acquire and the atomic write.
func ResolveLockTTL(ttl, opTimeout time.Duration, logger *slog.Logger) time.Duration {
	if ttl <= 0 || opTimeout <= 0 || ttl > opTimeout {
		return ttl
	}

	raised := 3 * opTimeout
	if logger != nil {
		logger.Warn("lock ttl is not longer than store op timeout, raising it",
			"ttl", ttl,
			"op_timeout", opTimeout,
			"raised_to", raised)
	}
	return raised
}
