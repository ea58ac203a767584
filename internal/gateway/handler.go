package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"IntegrationGateway/internal/audit"
	"IntegrationGateway/internal/metrics"
	"IntegrationGateway/internal/middleware"
	"IntegrationGateway/internal/proxy"
	"IntegrationGateway/internal/router"
)

/*
REQUEST LIFECYCLE

Received -> Matched | NotFound
Matched  -> Forwarding -> Responded
NotFound -> Responded (404)

Every per-request failure ends here as an HTTP response.
Nothing in this handler is shared between requests except read-only
configuration and concurrency-safe collectors.
*/

// notFoundRoute labels metrics and stats for requests that matched nothing.
const notFoundRoute = "not_found"

// Matcher resolves an inbound request to a route.
type Matcher interface {
	Match(method, path string) (router.Route, bool)
}

// Forwarder answers a matched route.
type Forwarder interface {
	Forward(ctx context.Context, route router.Route) (*proxy.Response, error)
}

// ExchangeRecorder receives one entry per completed exchange.
type ExchangeRecorder interface {
	Record(e audit.Entry)
}

// StatsRecorder counts outcomes per route.
type StatsRecorder interface {
	IncrementSuccess(route string)
	IncrementFailure(route string)
}

// Handler serves the configured route table.
type Handler struct {
	routes    Matcher
	forwarder Forwarder
	log       *logrus.Entry
	metrics   *metrics.Metrics
	exchanges ExchangeRecorder
	stats     StatsRecorder
}

// Option configures optional Handler collaborators.
type Option func(*Handler)

// WithMetrics records request and upstream error metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithExchangeRecorder writes one entry per exchange to r.
func WithExchangeRecorder(r ExchangeRecorder) Option {
	return func(h *Handler) { h.exchanges = r }
}

// WithStats counts per-route outcomes for the admin API.
func WithStats(s StatsRecorder) Option {
	return func(h *Handler) { h.stats = s }
}

// New returns a Handler answering routes through forwarder.
func New(routes Matcher, forwarder Forwarder, log *logrus.Entry, opts ...Option) *Handler {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	h := &Handler{
		routes:    routes,
		forwarder: forwarder,
		log:       log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// exchange carries the per-request facts needed for logging and metrics.
type exchange struct {
	route    router.Route
	status   int
	outcome  string
	started  time.Time
	upstream string
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.metrics != nil {
		h.metrics.InFlight.Inc()
		defer h.metrics.InFlight.Dec()
	}

	ex := exchange{started: time.Now()}
	defer h.finish(r, &ex)

	route, ok := h.routes.Match(r.Method, r.URL.Path)
	if !ok {
		ex.route = router.Route{Name: notFoundRoute}
		ex.status = http.StatusNotFound
		ex.outcome = "route_not_found"

		h.log.WithFields(logrus.Fields{
			"request_id": middleware.RequestIDFromContext(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
		}).Info("route not found")

		writeJSON(w, http.StatusNotFound, []byte(`{"error":"route not found"}`))
		return
	}

	ex.route = route
	ex.upstream = route.UpstreamURL

	if middleware.DeclaredBodyTooLarge(r) {
		ex.status = http.StatusRequestEntityTooLarge
		ex.outcome = "request_too_large"
		writeJSON(w, ex.status, []byte(`{"error":"request body too large"}`))
		return
	}

	resp, err := h.forwarder.Forward(r.Context(), route)
	if err != nil {
		h.fail(w, r, &ex, err)
		return
	}

	ex.status = resp.StatusCode
	ex.outcome = "ok"
	if resp.Upstream && resp.StatusCode >= 400 {
		ex.outcome = "upstream_error_status"
	}

	writeJSON(w, resp.StatusCode, resp.Body)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, ex *exchange, err error) {
	fields := logrus.Fields{
		"request_id": middleware.RequestIDFromContext(r.Context()),
		"route":      ex.route.Name,
		"upstream":   ex.route.UpstreamURL,
		"error":      err.Error(),
	}

	var perr *proxy.Error
	if !errors.As(err, &perr) {
		ex.status = http.StatusInternalServerError
		ex.outcome = "internal_error"
		h.log.WithFields(fields).Error("forward failed")
		writeJSON(w, ex.status, []byte(`{"error":"internal gateway error"}`))
		return
	}

	ex.outcome = "upstream_" + perr.Kind.String()
	if h.metrics != nil {
		h.metrics.ObserveUpstreamError(ex.route.Name, perr.Kind.String())
	}

	if perr.Kind == proxy.Canceled {
		// Client is gone; there is nobody to answer.
		ex.status = 0
		h.log.WithFields(fields).Debug("client canceled request")
		return
	}

	ex.status = perr.Kind.StatusCode()
	h.log.WithFields(fields).Warn("upstream " + perr.Kind.String())

	writeJSON(w, ex.status, errorBody(perr.Kind))
}

func errorBody(kind proxy.ErrorKind) []byte {
	switch kind {
	case proxy.Timeout:
		return []byte(`{"error":"upstream timeout"}`)
	case proxy.Encoding:
		return []byte(`{"error":"upstream response could not be decoded"}`)
	case proxy.ResponseTooLarge:
		return []byte(`{"error":"upstream response too large"}`)
	default:
		return []byte(`{"error":"upstream unreachable"}`)
	}
}

func (h *Handler) finish(r *http.Request, ex *exchange) {
	elapsed := time.Since(ex.started)

	if h.metrics != nil && ex.status != 0 {
		h.metrics.ObserveRequest(ex.route.Name, ex.status, elapsed)
	}

	if h.stats != nil {
		if ex.outcome == "ok" || ex.outcome == "upstream_error_status" {
			h.stats.IncrementSuccess(ex.route.Name)
		} else {
			h.stats.IncrementFailure(ex.route.Name)
		}
	}

	if h.exchanges != nil {
		h.exchanges.Record(audit.Entry{
			RequestID:  middleware.RequestIDFromContext(r.Context()),
			Route:      ex.route.Name,
			Method:     r.Method,
			Path:       r.URL.Path,
			Upstream:   ex.upstream,
			Status:     ex.status,
			Outcome:    ex.outcome,
			DurationMS: elapsed.Milliseconds(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
