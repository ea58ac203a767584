package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

/*
DESIGN OVERVIEW

One token bucket (golang.org/x/time/rate) per client IP.

- Buckets are created lazily on first request
- Buckets idle for longer than IdleTTL are evicted, so the map is
  bounded by the number of clients active within one TTL window
- Requests whose remote address cannot be parsed share one bucket
*/

const (
	DefaultRequestsPerSecond = 20
	DefaultBurst             = 40
	DefaultIdleTTL           = 5 * time.Minute

	unknownClient = "unknown"
)

type Config struct {
	RequestsPerSecond float64
	Burst             int
	IdleTTL           time.Duration
}

/*
Clock abstraction (for testability)
*/

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Limiter struct {
	mu        sync.Mutex
	clock     Clock
	cfg       Config
	clients   map[string]*client
	lastSweep time.Time
}

func NewLimiter(cfg Config) *Limiter {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}

	return &Limiter{
		clock:   realClock{},
		cfg:     cfg,
		clients: make(map[string]*client),
	}
}

// SetClock is used only for tests.
func (l *Limiter) SetClock(c Clock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clock = c
	l.lastSweep = c.Now()
}

func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(r.RemoteAddr) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Allow reports whether the client at remoteAddr may proceed.
func (l *Limiter) Allow(remoteAddr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	l.sweep(now)

	key := extractIP(remoteAddr)
	if key == "" {
		key = unknownClient
	}

	c := l.clients[key]
	if c == nil {
		c = &client{limiter: rate.NewLimiter(rate.Limit(l.cfg.RequestsPerSecond), l.cfg.Burst)}
		l.clients[key] = c
	}
	c.lastSeen = now

	return c.limiter.AllowN(now, 1)
}

// Stats returns the number of tracked clients.
func (l *Limiter) Stats() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// sweep drops idle clients at most once per IdleTTL. Caller holds l.mu.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.cfg.IdleTTL {
		return
	}
	l.lastSweep = now

	for key, c := range l.clients {
		if now.Sub(c.lastSeen) >= l.cfg.IdleTTL {
			delete(l.clients, key)
		}
	}
}

/*
Helpers
*/

func extractIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return ""
	}
	return host
}
