package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/iudanet/dashsync/internal/config"
	"github.com/iudanet/dashsync/internal/lock"
	"github.com/iudanet/dashsync/internal/provider"
	"github.com/iudanet/dashsync/internal/retry"
	"github.com/iudanet/dashsync/internal/server"
	"github.com/iudanet/dashsync/internal/server/handlers"
	"github.com/iudanet/dashsync/internal/server/middleware"
	"github.com/iudanet/dashsync/internal/statesync"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	fs := pflag.NewFlagSet("dashsync-server", pflag.ExitOnError)
	flags := config.RegisterFlags(fs)
	showVersion := fs.Bool("version", false, "Show version information")
	mintToken := fs.String("mint-token", "", "print a development access token for the given user id and exit")
	mintTTL := fs.Duration("mint-ttl", time.Hour, "lifetime of the token printed by --mint-token")
	_ = fs.Parse(os.Args[1:])

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	flags.Apply(fs, cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	jwtConfig := handlers.JWTConfig{
		Issuer:         cfg.Auth.Issuer,
		Secret:         []byte(cfg.Auth.JWTSecret),
		AccessTokenTTL: *mintTTL,
	}

	if *mintToken != "" {
		token, _, err := handlers.GenerateAccessToken(jwtConfig, *mintToken)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to mint token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
		os.Exit(0)
	}

	logger := config.NewLogger(os.Stdout, cfg.Log)
	slog.SetDefault(logger)

	if err := run(cfg, jwtConfig, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, jwtConfig handlers.JWTConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting dashsync server",
		"version", Version,
		"addr", cfg.HTTP.Addr,
		"store", cfg.StoreScheme())

	// Хранилище подключается в фоне; до подключения сервис работает в режиме fail-open
	stores := provider.New(logger, provider.WithBackoff(cfg.Store.ConnectBackoff, cfg.Store.ConnectMaxDelay))
	stores.Connect(ctx, provider.Dial(cfg.Store, logger))
	defer func() {
		if err := stores.Close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	locks := lock.NewManager(config.ResolveLockTTL(cfg.Lock.TTL, cfg.Store.OpTimeout, logger), logger)
	service := statesync.New(stores, locks, statesync.Config{
		Retry: retry.Policy{
			Attempts:      cfg.Retry.Attempts,
			BaseDelay:     cfg.Retry.BaseDelay,
			MaxDelay:      cfg.Retry.MaxDelay,
			JitterPercent: cfg.Retry.JitterPercent,
		},
		Namespace: cfg.State.Namespace,
		StateTTL:  config.ResolveStateTTL(cfg.State.TTLSeconds, logger),
		OpTimeout: cfg.Store.OpTimeout,
	}, logger)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, logger)
	defer limiter.Stop()

	handler := server.NewRouter(logger, server.RouterConfig{
		Limiter: limiter,
		JWT:     jwtConfig,
		Version: Version,
	}, service, stores)
	srv := server.NewHTTPServer(cfg.HTTP, handler, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped", "stats", service.Stats())
	return nil
}

func printVersion() {
	fmt.Printf("Dashsync Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
