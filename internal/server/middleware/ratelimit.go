package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter ограничивает частоту запросов по ключу (IP клиента).
// Каждый ключ получает token bucket емкостью rate, который равномерно
// пополняется на rate токенов за window.
type RateLimiter struct {
	buckets map[string]*bucket
	logger  *slog.Logger
	now     func() time.Time
	stopC   chan struct{}
	window  time.Duration
	rate    float64
	mu      sync.Mutex
	once    sync.Once
}

type bucket struct {
	updated time.Time
	tokens  float64
}

// NewRateLimiter создает limiter и запускает очистку неактивных ключей.
// rate <= 0 отключает ограничение.
func NewRateLimiter(rate int, window time.Duration, logger *slog.Logger) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		logger:  logger,
		now:     time.Now,
		stopC:   make(chan struct{}),
		window:  window,
		rate:    float64(rate),
	}

	if rate > 0 {
		go rl.cleanup()
	}

	return rl
}

// Enabled reports whether the limiter restricts anything
func (rl *RateLimiter) Enabled() bool {
	return rl.rate > 0
}

// Allow забирает токен для key; false - лимит исчерпан
func (rl *RateLimiter) Allow(key string) bool {
	if !rl.Enabled() {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.rate, updated: now}
		rl.buckets[key] = b
	}

	// Пополнение пропорционально прошедшему времени
	elapsed := now.Sub(b.updated)
	if elapsed > 0 {
		b.tokens = math.Min(rl.rate, b.tokens+rl.rate*elapsed.Seconds()/rl.window.Seconds())
		b.updated = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// retryAfter сколько секунд ждать одного токена
func (rl *RateLimiter) retryAfter() int {
	seconds := rl.window.Seconds() / rl.rate
	return max(1, int(math.Ceil(seconds)))
}

// cleanup удаляет ключи с полным bucket, они ничем не отличаются от новых
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.prune()
		case <-rl.stopC:
			return
		}
	}
}

func (rl *RateLimiter) prune() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for key, b := range rl.buckets {
		if now.Sub(b.updated) >= rl.window {
			delete(rl.buckets, key)
			removed++
		}
	}
	return removed
}

// Stop останавливает очистку
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() {
		close(rl.stopC)
	})
}

// RateLimitMiddleware отвечает 429, когда клиент исчерпал лимит
func RateLimitMiddleware(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !limiter.Enabled() {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			if !limiter.Allow(key) {
				limiter.logger.Warn("Rate limit exceeded",
					"ip", key,
					"method", r.Method,
					"path", r.URL.Path,
				)

				w.Header().Set("Retry-After", strconv.Itoa(limiter.retryAfter()))
				writeError(w, "rate limit exceeded, please try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP извлекает IP клиента: первый адрес X-Forwarded-For,
// затем X-Real-IP, затем RemoteAddr без порта
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
