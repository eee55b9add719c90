package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/dashsync/internal/statesync"
	"github.com/iudanet/dashsync/pkg/api"
)

// healthPingTimeout таймаут проверки хранилища
const healthPingTimeout = time.Second

// StatsSource reports the service counters
type StatsSource interface {
	Stats() statesync.Stats
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger  *slog.Logger
	source  statesync.StoreSource
	stats   StatsSource
	version string
}

// NewHealthHandler создает новый handler для health check
func NewHealthHandler(logger *slog.Logger, version string, source statesync.StoreSource, stats StatsSource) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		version: version,
		source:  source,
		stats:   stats,
	}
}

// Health обрабатывает GET /api/v1/health
// Сервис работает и без хранилища (fail-open), поэтому статус всегда 200,
// а доступность хранилища передается в поле store
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{
		Status:  "ok",
		Version: h.version,
		Store:   h.storeStatus(r.Context()),
	}

	if h.stats != nil {
		s := h.stats.Stats()
		resp.Stats = map[string]int64{
			"saves":             s.Saves,
			"conflicts":         s.Conflicts,
			"lock_busy":         s.LockBusy,
			"store_failures":    s.StoreFailures,
			"store_unavailable": s.Unavailable,
			"corrupted_records": s.Corrupted,
			"get_retries":       s.GetRetries,
			"rejected_requests": s.Rejected,
		}
	}

	writeJSON(h.logger, w, resp, http.StatusOK)
}

func (h *HealthHandler) storeStatus(ctx context.Context) string {
	if h.source == nil {
		return "down"
	}
	store := h.source.Store()
	if store == nil {
		return "down"
	}

	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		h.logger.Warn("store ping failed", "error", err)
		return "down"
	}
	return "up"
}
