package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces repeated attempts (download retries) with a token bucket.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiter allows perSecond attempts per second with the given burst.
// A non-positive rate means unlimited.
func NewLimiter(perSecond float64, burst int) *Limiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{inner: rate.NewLimiter(limit, burst)}
}

// Allow reports whether n attempts may happen now.
func (l *Limiter) Allow(n int) bool {
	return l.inner.AllowN(time.Now(), n)
}

// Wait blocks until n attempts are allowed or ctx is done. A nil Limiter
// never blocks.
func (l *Limiter) Wait(ctx context.Context, n int) error {
	if l == nil {
		return ctx.Err()
	}
	return l.inner.WaitN(ctx, n)
}
