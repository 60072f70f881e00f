package httpx

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig tunes an IPRateLimiter.
type RateLimitConfig struct {
	PerSecond float64       // sustained events per second
	Burst     int           // events allowed at once
	Idle      time.Duration // limiters unused this long are dropped
	Now       func() time.Time
}

type ipLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

// IPRateLimiter keeps one token bucket per client key.
type IPRateLimiter struct {
	limit rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time

	mu        sync.Mutex
	limiters  map[string]*ipLimiter
	lastSweep time.Time
}

// NewIPRateLimiter builds a limiter. Zero values fall back to one event every
// five seconds, a burst of three and a ten minute idle window.
func NewIPRateLimiter(cfg RateLimitConfig) *IPRateLimiter {
	if cfg.PerSecond <= 0 {
		cfg.PerSecond = 0.2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 3
	}
	if cfg.Idle <= 0 {
		cfg.Idle = 10 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &IPRateLimiter{
		limit:    rate.Limit(cfg.PerSecond),
		burst:    cfg.Burst,
		idle:     cfg.Idle,
		now:      cfg.Now,
		limiters: make(map[string]*ipLimiter),
	}
}

// Allow reports whether key may perform one more event now.
func (l *IPRateLimiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.idle {
		for k, e := range l.limiters {
			if now.Sub(e.seen) > l.idle {
				delete(l.limiters, k)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.limiters[key]
	if !ok {
		e = &ipLimiter{lim: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = e
	}
	e.seen = now
	return e.lim.AllowN(now, 1)
}

// Len returns the number of tracked clients.
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// clientIP returns the first X-Forwarded-For hop, then X-Real-Ip, then the peer address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-Ip")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
