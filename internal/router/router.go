package router

import (
	"fmt"
	"net/http"
	"strings"
)

/*
ROUTING DESIGN:

- The table is static data, built once and read-only afterwards
- Exact match on (method, path), no wildcards, no parameters
- A miss is a normal result, not an error
- Duplicate keys are rejected before the gateway starts
*/

// Router holds the route table.
// It has no mutable state, so concurrent Match calls need no locking.
type Router struct {
	ordered []Route
	index   map[string]Route
}

// New validates routes and builds the lookup table.
func New(routes []Route) (*Router, error) {
	r := &Router{
		ordered: make([]Route, 0, len(routes)),
		index:   make(map[string]Route, len(routes)),
	}

	for i, rt := range routes {
		rt.Method = strings.ToUpper(strings.TrimSpace(rt.Method))
		if rt.Name == "" {
			rt.Name = rt.key()
		}

		if err := rt.validate(); err != nil {
			return nil, fmt.Errorf("route[%d] %s: %w", i, rt.Name, err)
		}

		if prev, exists := r.index[rt.key()]; exists {
			return nil, fmt.Errorf("route[%d] %s: duplicate %s (already registered by %s)",
				i, rt.Name, rt.key(), prev.Name)
		}

		r.index[rt.key()] = rt
		r.ordered = append(r.ordered, rt)
	}

	return r, nil
}

// Match returns the route registered for method and path.
// The boolean is false when nothing matches.
func (r *Router) Match(method, path string) (Route, bool) {
	rt, ok := r.index[method+" "+path]
	return rt, ok
}

// MatchRequest is Match applied to an inbound request.
func (r *Router) MatchRequest(req *http.Request) (Route, bool) {
	return r.Match(req.Method, req.URL.Path)
}

// Routes returns a copy of the table in declaration order.
func (r *Router) Routes() []Route {
	out := make([]Route, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Len reports the number of registered routes.
func (r *Router) Len() int {
	return len(r.ordered)
}
