// Package provider hands the state service its store handle. The handle is
// established in the background; until then Store returns nil and the
// service runs in fail-open mode.
package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	goretry "github.com/sethvargo/go-retry"

	"github.com/iudanet/dashsync/internal/storage"
)

const (
	// DefaultConnectBackoff пауза перед первой повторной попыткой подключения
	DefaultConnectBackoff = 500 * time.Millisecond
	// DefaultConnectMaxDelay верхняя граница паузы между попытками
	DefaultConnectMaxDelay = 30 * time.Second
)

// Dialer opens a store handle
type Dialer func(ctx context.Context) (storage.Store, error)

// Option configures Provider
type Option func(*Provider)

// WithBackoff sets the connect backoff bounds
func WithBackoff(base, maxDelay time.Duration) Option {
	return func(p *Provider) {
		if base > 0 {
			p.base = base
		}
		if maxDelay > 0 {
			p.maxDelay = maxDelay
		}
	}
}

// handle обертка, чтобы хранить интерфейс в atomic.Pointer
type handle struct {
	store storage.Store
}

// Provider holds the current store handle
type Provider struct {
	current  atomic.Pointer[handle]
	logger   *slog.Logger
	ready    chan struct{}
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
	base     time.Duration
	maxDelay time.Duration
	closed   bool
}

// New creates a provider without a handle
func New(logger *slog.Logger, opts ...Option) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Provider{
		logger:   logger,
		ready:    make(chan struct{}),
		base:     DefaultConnectBackoff,
		maxDelay: DefaultConnectMaxDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Store returns the current handle or nil if none is established yet
func (p *Provider) Store() storage.Store {
	h := p.current.Load()
	if h == nil {
		return nil
	}
	return h.store
}

// Ready is closed once a handle has been set
func (p *Provider) Ready() <-chan struct{} {
	return p.ready
}

// Set installs store as the current handle. The first call closes Ready.
func (p *Provider) Set(store storage.Store) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if store == nil {
		return
	}
	if p.closed {
		_ = store.Close()
		return
	}

	prev := p.current.Swap(&handle{store: store})
	if prev == nil {
		close(p.ready)
	}
}

// Connect dials and pings the store in the background, retrying with capped
// exponential backoff until it succeeds, ctx is done or Close is called.
// It returns immediately.
func (p *Provider) Connect(ctx context.Context, dial Dialer) {
	ctx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		cancel()
		return
	}
	p.cancel = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		defer cancel()

		store, err := p.dialLoop(ctx, dial)
		if err != nil {
			p.logger.Warn("store connect abandoned", "error", err)
			return
		}

		p.Set(store)
		p.logger.Info("store connected")
	}()
}

// dialLoop повторяет подключение до успеха или отмены контекста
func (p *Provider) dialLoop(ctx context.Context, dial Dialer) (storage.Store, error) {
	backoff := goretry.WithCappedDuration(p.maxDelay, goretry.NewExponential(p.base))
	backoff = goretry.WithJitterPercent(10, backoff)

	var store storage.Store
	attempt := 0

	err := goretry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		s, err := connectOnce(ctx, dial)
		if err != nil {
			p.logger.Error("store connect failed", "attempt", attempt, "error", err)
			return goretry.RetryableError(err)
		}

		store = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// connectOnce открывает хранилище и проверяет его ping'ом
func connectOnce(ctx context.Context, dial Dialer) (storage.Store, error) {
	store, err := dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	return store, nil
}

// Close stops a pending Connect and closes the current handle
func (p *Provider) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()

	h := p.current.Swap(nil)
	if h == nil || h.store == nil {
		return nil
	}
	return h.store.Close()
}
