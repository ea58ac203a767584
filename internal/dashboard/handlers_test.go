package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"IntegrationGateway/internal/audit"
	"IntegrationGateway/internal/router"
)

type staticRoutes []router.Route

func (s staticRoutes) Routes() []router.Route { return s }

type fakeLimiter int

func (f fakeLimiter) Stats() int { return int(f) }

func newHandlers(t *testing.T) *Handlers {
	t.Helper()
	return &Handlers{
		Stats: NewStatsCollector(),
		Routes: staticRoutes{
			{Name: "health", Method: "GET", Path: "/api/health", Kind: router.KindHealth},
			{Name: "erp-orders", Method: "GET", Path: "/api/erp/orders", Kind: router.KindProxy, UpstreamURL: "http://erp:8091/orders"},
		},
	}
}

func get(t *testing.T, h *Handlers, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeAPI(rr, httptest.NewRequest("GET", target, nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return rr, body
}

func TestStatsEndpoint(t *testing.T) {
	h := newHandlers(t)
	h.Stats.IncrementSuccess("erp-orders")
	h.Stats.IncrementSuccess("erp-orders")
	h.Stats.IncrementFailure("not_found")

	rr, body := get(t, h, "/admin/stats")
	assert.Equal(t, http.StatusOK, rr.Code)

	routes := body["routes"].([]interface{})
	require.Len(t, routes, 2)
	first := routes[0].(map[string]interface{})
	assert.Equal(t, "erp-orders", first["route"])
	assert.Equal(t, 2.0, first["success"])
}

func TestRoutesEndpoint(t *testing.T) {
	h := newHandlers(t)

	_, body := get(t, h, "/admin/routes")
	routes := body["routes"].([]interface{})
	require.Len(t, routes, 2)

	health := routes[0].(map[string]interface{})
	assert.Equal(t, "health", health["kind"])
	_, hasUpstream := health["upstream"]
	assert.False(t, hasUpstream)

	orders := routes[1].(map[string]interface{})
	assert.Equal(t, "http://erp:8091/orders", orders["upstream"])
}

func TestExchangesEndpoint(t *testing.T) {
	h := newHandlers(t)
	h.ExchangeLogPath = filepath.Join(t.TempDir(), "exchanges.log")

	logger, err := audit.NewLogger(h.ExchangeLogPath)
	require.NoError(t, err)
	defer logger.Close()
	for i := 0; i < 3; i++ {
		logger.Record(audit.Entry{Route: "erp-orders", Status: 200, Outcome: "ok"})
	}

	_, body := get(t, h, "/admin/exchanges?limit=2")
	assert.Len(t, body["entries"], 2)
}

func TestExchangesWithoutLog(t *testing.T) {
	h := newHandlers(t)

	_, body := get(t, h, "/admin/exchanges")
	assert.Len(t, body["entries"], 0)
}

func TestStatusEndpoint(t *testing.T) {
	h := newHandlers(t)
	h.Limiter = fakeLimiter(7)

	_, body := get(t, h, "/admin/status")
	rl := body["rate_limit"].(map[string]interface{})
	assert.Equal(t, true, rl["enabled"])
	assert.Equal(t, 7.0, rl["clients"])
}

func TestUnknownAndNonGet(t *testing.T) {
	h := newHandlers(t)

	rr, _ := get(t, h, "/admin/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeAPI(rr, httptest.NewRequest("POST", "/admin/stats", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
