package dashboard

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type routeCounters struct {
	success atomic.Int64
	failure atomic.Int64
}

// StatsCollector counts exchanges per route.
type StatsCollector struct {
	mu        sync.RWMutex
	routes    map[string]*routeCounters
	startedAt time.Time
}

// RouteStats is a point-in-time view of one route.
type RouteStats struct {
	Route   string `json:"route"`
	Success int64  `json:"success"`
	Failure int64  `json:"failure"`
}

func NewStatsCollector() *StatsCollector {
	return &StatsCollector{
		routes:    make(map[string]*routeCounters),
		startedAt: time.Now(),
	}
}

func (s *StatsCollector) counters(route string) *routeCounters {
	s.mu.RLock()
	c, ok := s.routes[route]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok = s.routes[route]; !ok {
		c = &routeCounters{}
		s.routes[route] = c
	}
	return c
}

// IncrementSuccess counts an exchange the gateway answered on its own terms,
// including relayed upstream error statuses.
func (s *StatsCollector) IncrementSuccess(route string) {
	s.counters(route).success.Add(1)
}

// IncrementFailure counts a gateway-side failure (404, 502, 504, ...).
func (s *StatsCollector) IncrementFailure(route string) {
	s.counters(route).failure.Add(1)
}

// Snapshot returns per-route counters sorted by route name and the uptime.
func (s *StatsCollector) Snapshot() ([]RouteStats, time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]RouteStats, 0, len(s.routes))
	for name, c := range s.routes {
		out = append(out, RouteStats{
			Route:   name,
			Success: c.success.Load(),
			Failure: c.failure.Load(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Route < out[j].Route })

	return out, time.Since(s.startedAt)
}
