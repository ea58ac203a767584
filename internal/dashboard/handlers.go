package dashboard

import (
	"encoding/json"
	"net/http"
	"strconv"

	"IntegrationGateway/internal/audit"
	"IntegrationGateway/internal/router"
)

// LimiterStats is the interface for rate limit statistics.
type LimiterStats interface {
	Stats() (clients int)
}

// RouteLister exposes the route table.
type RouteLister interface {
	Routes() []router.Route
}

// Handlers holds dependencies for admin API endpoints.
type Handlers struct {
	Stats           *StatsCollector
	Routes          RouteLister
	ExchangeLogPath string
	Limiter         LimiterStats
}

// ServeAPI routes admin API requests to the appropriate handler.
func (h *Handlers) ServeAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	switch r.URL.Path {
	case "/admin/stats":
		h.serveStats(w)
	case "/admin/routes":
		h.serveRoutes(w)
	case "/admin/exchanges":
		h.serveExchanges(w, r)
	case "/admin/status":
		h.serveStatus(w)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (h *Handlers) serveStats(w http.ResponseWriter) {
	routes, uptime := h.Stats.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"routes":         routes,
		"uptime_seconds": int64(uptime.Seconds()),
	})
}

func (h *Handlers) serveRoutes(w http.ResponseWriter) {
	type routeDTO struct {
		Name     string `json:"name"`
		Method   string `json:"method"`
		Path     string `json:"path"`
		Kind     string `json:"kind"`
		Upstream string `json:"upstream,omitempty"`
	}

	routes := h.Routes.Routes()
	dtos := make([]routeDTO, len(routes))
	for i, rt := range routes {
		dtos[i] = routeDTO{
			Name:     rt.Name,
			Method:   rt.Method,
			Path:     rt.Path,
			Kind:     rt.Kind.String(),
			Upstream: rt.UpstreamURL,
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"routes": dtos})
}

func (h *Handlers) serveExchanges(w http.ResponseWriter, r *http.Request) {
	if h.ExchangeLogPath == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{"entries": []audit.Entry{}})
		return
	}

	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	entries, err := audit.ReadLastEntries(h.ExchangeLogPath, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read exchange log"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func (h *Handlers) serveStatus(w http.ResponseWriter) {
	var clients int
	if h.Limiter != nil {
		clients = h.Limiter.Stats()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rate_limit": map[string]interface{}{
			"enabled": h.Limiter != nil,
			"clients": clients,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
