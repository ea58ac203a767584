package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"IntegrationGateway/internal/middleware"
	"IntegrationGateway/internal/router"
)

/*
FORWARDING DESIGN:

- One outbound GET per proxy route, no retries
- The inbound request context is the parent of the outbound call,
  so a client disconnect cancels the upstream request
- Every call is bounded by Options.Timeout
- Upstream status and body are relayed verbatim, including 4xx/5xx
- Connection pool is shared and bounded
*/

const (
	DefaultTimeout             = 10 * time.Second
	DefaultMaxResponseBytes    = 10 << 20 // 10 MiB
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 16
	DefaultMaxConnsPerHost     = 64
	DefaultIdleConnTimeout     = 90 * time.Second
)

// Options configures a Forwarder. Zero values fall back to the defaults above.
type Options struct {
	Engine              string
	Timeout             time.Duration
	MaxResponseBytes    int64
	StrictUTF8          bool
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
	IdleConnTimeout     time.Duration
}

func (o *Options) applyDefaults() {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxResponseBytes <= 0 {
		o.MaxResponseBytes = DefaultMaxResponseBytes
	}
	if o.MaxIdleConns <= 0 {
		o.MaxIdleConns = DefaultMaxIdleConns
	}
	if o.MaxIdleConnsPerHost <= 0 {
		o.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}
	if o.MaxConnsPerHost <= 0 {
		o.MaxConnsPerHost = DefaultMaxConnsPerHost
	}
	if o.IdleConnTimeout <= 0 {
		o.IdleConnTimeout = DefaultIdleConnTimeout
	}
}

// Response is what the gateway relays to the caller.
type Response struct {
	StatusCode int
	Body       []byte
	// Upstream is true when the response came from an upstream call.
	Upstream bool
}

// Forwarder answers matched routes.
type Forwarder struct {
	opts       Options
	client     *http.Client
	healthBody []byte
	log        *logrus.Entry
}

// New creates a Forwarder with its own pooled transport.
func New(opts Options, log *logrus.Entry) *Forwarder {
	opts.applyDefaults()

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   opts.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        opts.MaxIdleConns,
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		MaxConnsPerHost:     opts.MaxConnsPerHost,
		IdleConnTimeout:     opts.IdleConnTimeout,
	}

	client := &http.Client{
		Transport: transport,
		// Redirects are relayed to the caller, never followed.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return NewWithClient(opts, client, log)
}

// NewWithClient uses the given client instead of building a transport.
// Options.Timeout still bounds every call through the request context.
func NewWithClient(opts Options, client *http.Client, log *logrus.Entry) *Forwarder {
	opts.applyDefaults()

	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	body, _ := json.Marshal(healthPayload{Status: "healthy", Engine: opts.Engine})

	return &Forwarder{
		opts:       opts,
		client:     client,
		healthBody: body,
		log:        log,
	}
}

type healthPayload struct {
	Status string `json:"status"`
	Engine string `json:"engine"`
}

// Timeout returns the effective upstream timeout.
func (f *Forwarder) Timeout() time.Duration {
	return f.opts.Timeout
}

// Close releases idle upstream connections.
func (f *Forwarder) Close() {
	f.client.CloseIdleConnections()
}

// Forward answers route. Health routes never touch the network.
func (f *Forwarder) Forward(ctx context.Context, route router.Route) (*Response, error) {
	switch route.Kind {
	case router.KindHealth:
		return &Response{StatusCode: http.StatusOK, Body: f.healthBody}, nil
	case router.KindProxy:
		return f.bridge(ctx, route)
	default:
		return nil, fmt.Errorf("route %s: unsupported kind %s", route.Name, route.Kind)
	}
}

func (f *Forwarder) bridge(parent context.Context, route router.Route) (*Response, error) {
	ctx, cancel := context.WithTimeout(parent, f.opts.Timeout)
	defer cancel()

	fail := func(kind ErrorKind, err error) (*Response, error) {
		return nil, &Error{Kind: kind, Route: route.Name, URL: route.UpstreamURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, route.UpstreamURL, nil)
	if err != nil {
		return fail(Unreachable, err)
	}
	req.Header.Set("Accept", "application/json")
	if id := middleware.RequestIDFromContext(parent); id != "" {
		req.Header.Set(middleware.RequestIDHeader, id)
	}

	f.log.WithFields(logrus.Fields{
		"route":    route.Name,
		"upstream": route.UpstreamURL,
	}).Debug("forwarding request")

	resp, err := f.client.Do(req)
	if err != nil {
		return fail(classify(parent, ctx, err), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxResponseBytes+1))
	if err != nil {
		return fail(classify(parent, ctx, err), fmt.Errorf("reading upstream body: %w", err))
	}
	if int64(len(body)) > f.opts.MaxResponseBytes {
		return fail(ResponseTooLarge, fmt.Errorf("body exceeds %d bytes", f.opts.MaxResponseBytes))
	}

	if f.opts.StrictUTF8 && !utf8.Valid(body) {
		return fail(Encoding, errors.New("upstream body is not valid UTF-8"))
	}

	return &Response{StatusCode: resp.StatusCode, Body: body, Upstream: true}, nil
}

// classify decides why an outbound call failed. parent is the inbound
// request context, ctx the timeout-bounded child.
func classify(parent, ctx context.Context, err error) ErrorKind {
	if parent.Err() != nil {
		if errors.Is(parent.Err(), context.DeadlineExceeded) {
			return Timeout
		}
		return Canceled
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout
	}

	return Unreachable
}
