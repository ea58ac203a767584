package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Kind selects how a matched route is answered.
type Kind int

const (
	// KindHealth routes are answered by the gateway itself.
	KindHealth Kind = iota
	// KindProxy routes are bridged to a static upstream URL.
	KindProxy
)

func (k Kind) String() string {
	switch k {
	case KindHealth:
		return "health"
	case KindProxy:
		return "proxy"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a configuration value into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "health":
		return KindHealth, nil
	case "proxy", "":
		return KindProxy, nil
	default:
		return 0, fmt.Errorf("unknown route kind %q", s)
	}
}

// Route is one entry of the route table.
// Routes are built once at startup and never mutated.
type Route struct {
	Name        string
	Method      string
	Path        string
	Kind        Kind
	UpstreamURL string // set only for KindProxy
}

func (r Route) key() string {
	return r.Method + " " + r.Path
}

func (r Route) validate() error {
	if strings.TrimSpace(r.Method) == "" {
		return errors.New("method is required")
	}
	if !strings.HasPrefix(r.Path, "/") {
		return errors.New("path must start with '/'")
	}

	switch r.Kind {
	case KindHealth:
		if r.UpstreamURL != "" {
			return errors.New("health route must not have an upstream")
		}
	case KindProxy:
		if r.UpstreamURL == "" {
			return errors.New("proxy route requires an upstream URL")
		}
		u, err := url.Parse(r.UpstreamURL)
		if err != nil {
			return fmt.Errorf("invalid upstream URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("upstream URL %q must be http or https", r.UpstreamURL)
		}
		if u.Host == "" {
			return fmt.Errorf("upstream URL %q has no host", r.UpstreamURL)
		}
	default:
		return fmt.Errorf("unsupported kind %s", r.Kind)
	}

	return nil
}
