// Package retry runs store calls under a bounded retry policy. Only
// transient errors (storage.ErrStoreUnavailable) are retried.
package retry

import (
	"context"
	"time"

	goretry "github.com/sethvargo/go-retry"

	"github.com/iudanet/dashsync/internal/storage"
)

const (
	// DefaultAttempts общее число попыток, включая первую
	DefaultAttempts = 3
	// DefaultBaseDelay пауза перед первым повтором
	DefaultBaseDelay = 20 * time.Millisecond
	// DefaultMaxDelay верхняя граница паузы между попытками
	DefaultMaxDelay = 500 * time.Millisecond
	// DefaultJitterPercent разброс паузы в процентах
	DefaultJitterPercent = 20
)

// Policy describes how many times and how often a call is attempted
type Policy struct {
	// OnRetry is called before every repeated attempt with the attempt
	// number that failed (starting at 1) and its error
	OnRetry       func(attempt int, err error)
	Attempts      int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	JitterPercent uint64
}

// DefaultPolicy returns the policy used for Get
func DefaultPolicy() Policy {
	return Policy{
		Attempts:      DefaultAttempts,
		BaseDelay:     DefaultBaseDelay,
		MaxDelay:      DefaultMaxDelay,
		JitterPercent: DefaultJitterPercent,
	}
}

// backoff строит новый (stateful) backoff на один вызов Do
func (p Policy) backoff() goretry.Backoff {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	base := p.BaseDelay
	if base <= 0 {
		base = time.Millisecond
	}

	b := goretry.NewExponential(base)
	if p.MaxDelay > 0 {
		b = goretry.WithCappedDuration(p.MaxDelay, b)
	}
	if p.JitterPercent > 0 {
		b = goretry.WithJitterPercent(p.JitterPercent, b)
	}
	return goretry.WithMaxRetries(uint64(attempts-1), b)
}

// Do calls fn until it succeeds, returns a non-transient error, the attempts
// are exhausted or ctx is done. The last error is returned.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	attempt := 0

	err := goretry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		attempt++

		value, err := fn(ctx)
		if err == nil {
			result = value
			return nil
		}
		if !storage.IsTransient(err) {
			return err
		}

		if p.OnRetry != nil && attempt < max(p.Attempts, 1) {
			p.OnRetry(attempt, err)
		}
		return goretry.RetryableError(err)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}
