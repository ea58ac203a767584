package proxy

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed forward.
type ErrorKind int

const (
	// Unreachable covers refused connections, DNS failures and broken reads.
	Unreachable ErrorKind = iota
	// Timeout means the upstream did not answer within the configured bound.
	Timeout
	// Encoding means the upstream body is not valid UTF-8 in strict mode.
	Encoding
	// ResponseTooLarge means the upstream body exceeded MaxResponseBytes.
	ResponseTooLarge
	// Canceled means the inbound client went away before the upstream answered.
	Canceled
)

func (k ErrorKind) String() string {
	switch k {
	case Unreachable:
		return "unreachable"
	case Timeout:
		return "timeout"
	case Encoding:
		return "encoding"
	case ResponseTooLarge:
		return "response_too_large"
	case Canceled:
		return "canceled"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// StatusCode is the gateway status reported for this kind of failure.
// Canceled has no status: the client is gone and nothing is written.
func (k ErrorKind) StatusCode() int {
	switch k {
	case Timeout:
		return http.StatusGatewayTimeout
	case Canceled:
		return 0
	default:
		return http.StatusBadGateway
	}
}

// Error is returned by Forward for every failure that is not an upstream
// application error. Upstream 4xx/5xx responses are not errors.
type Error struct {
	Kind  ErrorKind
	Route string
	URL   string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream %s for route %s (%s): %v", e.Kind, e.Route, e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
