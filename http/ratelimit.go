package http

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter applies a token bucket per host so repeated page fetches do not
// hammer YouTube.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewRateLimiter creates a limiter allowing rps requests per second per host.
// An rps of 0 disables limiting.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

// Wait blocks until a request to urlStr is allowed or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context, urlStr string) error {
	if rl == nil || rl.rps <= 0 {
		return nil
	}
	return rl.limiter(hostOf(urlStr)).Wait(ctx)
}

func (rl *RateLimiter) limiter(host string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if l, ok := rl.limiters[host]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Limit(rl.rps), rl.burst)
	rl.limiters[host] = l
	return l
}

// hostOf returns the host of urlStr without its port, or "unknown".
func hostOf(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return u.Hostname()
}
