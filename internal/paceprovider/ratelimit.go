package paceprovider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Default provider quotas: 100 requests per 15 minutes, 1000 per day
const (
	DefaultShortLimit  = 100
	DefaultDailyLimit  = 1000
	DefaultMinInterval = 200 * time.Millisecond

	shortWindow = 15 * time.Minute
)

// ErrRateLimited is returned when a quota window is used up. Callers treat it
// like any other provider failure instead of waiting for the reset.
var ErrRateLimited = errors.New("pace provider rate limit exhausted")

// window is one quota period
type window struct {
	limit    int
	usage    int
	resetsAt time.Time
}

func (w *window) exhausted() bool {
	return w.limit > 0 && w.usage >= w.limit
}

// RateLimiter keeps requests within the provider's short and daily quotas
// and spaces them by a minimum interval
type RateLimiter struct {
	mu sync.Mutex

	short window
	daily window

	minInterval time.Duration
	lastRequest time.Time
}

// NewRateLimiter creates a limiter with the default quotas
func NewRateLimiter(minInterval time.Duration) *RateLimiter {
	now := time.Now()
	return &RateLimiter{
		short:       window{limit: DefaultShortLimit, resetsAt: now.Add(shortWindow)},
		daily:       window{limit: DefaultDailyLimit, resetsAt: nextDay(now)},
		minInterval: minInterval,
	}
}

// Wait spaces requests by the minimum interval. It never waits for a quota
// window to reset: an exhausted window returns ErrRateLimited immediately.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	r.resetExpired(time.Now())

	if r.short.exhausted() {
		return fmt.Errorf("%w: short window resets at %s", ErrRateLimited, r.short.resetsAt.Format(time.RFC3339))
	}
	if r.daily.exhausted() {
		return fmt.Errorf("%w: daily window resets at %s", ErrRateLimited, r.daily.resetsAt.Format(time.RFC3339))
	}

	if elapsed := time.Since(r.lastRequest); elapsed < r.minInterval {
		if err := r.sleep(ctx, r.minInterval-elapsed); err != nil {
			return err
		}
	}

	r.short.usage++
	r.daily.usage++
	r.lastRequest = time.Now()

	return nil
}

// sleep releases the lock while waiting. Must be called with r.mu held.
func (r *RateLimiter) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	r.mu.Unlock()
	defer r.mu.Lock()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *RateLimiter) resetExpired(now time.Time) {
	if !now.Before(r.short.resetsAt) {
		r.short.usage = 0
		r.short.resetsAt = now.Add(shortWindow)
	}
	if !now.Before(r.daily.resetsAt) {
		r.daily.usage = 0
		r.daily.resetsAt = nextDay(now)
	}
}

// UpdateFromHeaders syncs state from response headers of the form
// X-RateLimit-Limit: "100,1000" and X-RateLimit-Usage: "34,512"
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if short, daily, ok := parsePair(h.Get("X-RateLimit-Usage")); ok {
		r.short.usage = short
		r.daily.usage = daily
	}
	if short, daily, ok := parsePair(h.Get("X-RateLimit-Limit")); ok {
		r.short.limit = short
		r.daily.limit = daily
	}
}

// Status returns the remaining requests in each window
func (r *RateLimiter) Status() (shortRemaining, dailyRemaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.short.limit - r.short.usage, r.daily.limit - r.daily.usage
}

func parsePair(v string) (int, int, bool) {
	parts := strings.Split(v, ",")
	if len(parts) < 2 {
		return 0, 0, false
	}
	a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errA != nil || errB != nil {
		return 0, 0, false
	}
	return a, b, true
}

func nextDay(t time.Time) time.Time {
	return t.Truncate(24 * time.Hour).Add(24 * time.Hour)
}
