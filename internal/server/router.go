// Package server wires the HTTP API of dashsync
package server

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/dashsync/internal/config"
	"github.com/iudanet/dashsync/internal/server/handlers"
	"github.com/iudanet/dashsync/internal/server/middleware"
	"github.com/iudanet/dashsync/internal/statesync"
)

// HealthPath путь health check, не логируется и не требует авторизации
const HealthPath = "/api/v1/health"

// Service is what the routes need from the state service
type Service interface {
	handlers.StateService
	handlers.StatsSource
}

// RouterConfig configures NewRouter
type RouterConfig struct {
	Limiter *middleware.RateLimiter
	JWT     handlers.JWTConfig
	Version string
}

// NewRouter builds the HTTP handler:
// recovery -> logging -> rate limit -> mux, auth on state routes only
func NewRouter(logger *slog.Logger, cfg RouterConfig, service Service, source statesync.StoreSource) http.Handler {
	stateHandler := handlers.NewStateHandler(logger, service)
	healthHandler := handlers.NewHealthHandler(logger, cfg.Version, source, service)

	auth := middleware.AuthMiddleware(logger, cfg.JWT)

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+HealthPath, healthHandler.Health)
	mux.Handle("GET /api/v1/workspaces/{workspaceID}/state", auth(http.HandlerFunc(stateHandler.Get)))
	mux.Handle("PUT /api/v1/workspaces/{workspaceID}/state", auth(http.HandlerFunc(stateHandler.Put)))
	mux.Handle("DELETE /api/v1/workspaces/{workspaceID}/state", auth(http.HandlerFunc(stateHandler.Delete)))

	chain := []func(http.Handler) http.Handler{
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger, HealthPath),
	}
	if cfg.Limiter != nil {
		chain = append(chain, middleware.RateLimitMiddleware(cfg.Limiter))
	}

	return middleware.Chain(mux, chain...)
}

// NewHTTPServer creates an http.Server with the configured timeouts
func NewHTTPServer(cfg config.HTTPConfig, handler http.Handler, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
}
