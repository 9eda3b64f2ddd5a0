// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net"
	"net/http"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/mixtide/pulse/pkg/metrics"
)

const defaultLimiterCacheSize = 10000

// RateLimiter applies a token-bucket limit per client address. Limiter
// state lives in a bounded LRU cache so an open set of clients cannot
// grow memory without bound.
type RateLimiter struct {
	limiters *lru.Cache[string, *rate.Limiter]
	rps      rate.Limit
	burst    int
}

// NewRateLimiter creates a rate limiter allowing rps requests per second
// with the given burst per client. cacheSize bounds the number of tracked
// clients; non-positive values use a default.
func NewRateLimiter(rps float64, burst, cacheSize int) (*RateLimiter, error) {
	if cacheSize <= 0 {
		cacheSize = defaultLimiterCacheSize
	}
	cache, err := lru.New[string, *rate.Limiter](cacheSize)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{
		limiters: cache,
		rps:      rate.Limit(rps),
		burst:    burst,
	}, nil
}

// Middleware rejects requests exceeding the client's budget with 429.
func (rl *RateLimiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientKey(r)) {
			metrics.RecordRateLimited()
			writeError(w, http.StatusTooManyRequests, "rate_limited", nil)
			return
		}
		next.ServeHTTP(w, r)
	}
}

func (rl *RateLimiter) allow(key string) bool {
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rps, rl.burst)
		// A racing insert for the same client just means one extra bucket.
		rl.limiters.Add(key, limiter)
	}
	return limiter.Allow()
}

// clientKey extracts the client address without the ephemeral port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
