package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter implements per-model rate limiting for external scoring calls,
// so batches against different models do not starve each other.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a rate limiter. requestsPerSecond <= 0 disables
// throttling entirely.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until the model's limiter admits one call, or the context
// is cancelled.
func (l *Limiter) Wait(ctx context.Context, model string) error {
	return l.getLimiter(model).Wait(ctx)
}

// Allow checks if a call is admissible without waiting.
func (l *Limiter) Allow(model string) bool {
	return l.getLimiter(model).Allow()
}

// SetModelRate sets a custom rate limit for a specific model.
func (l *Limiter) SetModelRate(model string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}
	l.limiters[model] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

func (l *Limiter) getLimiter(model string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[model]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists := l.limiters[model]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[model] = limiter
	return limiter
}
