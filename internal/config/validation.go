package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"IntegrationGateway/internal/router"
)

func (c *Config) validate() error {
	if strings.TrimSpace(c.Server.Name) == "" {
		return errors.New("server.name is required")
	}
	if strings.TrimSpace(c.Server.Listen) == "" {
		return errors.New("server.listen is required")
	}
	if c.Server.AdminListen != "" && c.Server.AdminListen == c.Server.Listen {
		return errors.New("server.admin_listen must differ from server.listen")
	}
	if c.Proxy.Timeout <= 0 {
		return errors.New("proxy.timeout must be positive")
	}
	if c.Server.WriteTimeout > 0 && c.Proxy.Timeout >= c.Server.WriteTimeout {
		// The server would drop the connection before a 504 could be written.
		return fmt.Errorf("proxy.timeout (%s) must be shorter than server.write_timeout (%s)",
			c.Proxy.Timeout, c.Server.WriteTimeout)
	}
	if c.Proxy.MaxResponseBytes < 0 {
		return errors.New("proxy.max_response_bytes must not be negative")
	}

	for name, raw := range c.Upstreams {
		if err := validateUpstream(raw); err != nil {
			return fmt.Errorf("upstreams.%s: %w", name, err)
		}
	}

	if len(c.Routes) == 0 {
		return errors.New("at least one route is required")
	}

	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond < 0 {
		return errors.New("rate_limit.requests_per_second must not be negative")
	}

	// Resolving the table also rejects unknown upstreams and duplicates.
	if _, err := c.RouterRoutes(); err != nil {
		return err
	}

	return nil
}

func validateUpstream(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("URL is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL %q must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL %q has no host", raw)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("URL %q must not carry a query or fragment", raw)
	}

	return nil
}

// RouterRoutes resolves every configured route into a router.Route with its
// absolute upstream URL. The result is validated by router.New as well.
func (c *Config) RouterRoutes() ([]router.Route, error) {
	out := make([]router.Route, 0, len(c.Routes))
	seen := make(map[string]bool, len(c.Routes))

	for i, rt := range c.Routes {
		kind, err := router.ParseKind(rt.Kind)
		if err != nil {
			return nil, routeError(i, rt, err.Error())
		}

		if rt.Name != "" {
			if seen[rt.Name] {
				return nil, routeError(i, rt, "duplicate route name")
			}
			seen[rt.Name] = true
		}

		method := rt.Method
		if method == "" {
			method = "GET"
		}

		r := router.Route{
			Name:   rt.Name,
			Method: strings.ToUpper(method),
			Path:   rt.Path,
			Kind:   kind,
		}

		if kind == router.KindProxy {
			base, ok := c.Upstreams[rt.Upstream]
			if !ok {
				return nil, routeError(i, rt, fmt.Sprintf("unknown upstream %q", rt.Upstream))
			}
			r.UpstreamURL = joinURL(base, rt.UpstreamPath)
		} else if rt.Upstream != "" {
			return nil, routeError(i, rt, "health route must not reference an upstream")
		}

		out = append(out, r)
	}

	if _, err := router.New(out); err != nil {
		return nil, err
	}

	return out, nil
}

func joinURL(base, path string) string {
	base = strings.TrimRight(base, "/")
	if path == "" {
		return base
	}
	return base + "/" + strings.TrimLeft(path, "/")
}

func routeError(index int, rt Route, msg string) error {
	name := rt.Name
	if name == "" {
		name = rt.Path
	}
	return fmt.Errorf("routes[%d] %s: %s", index, name, msg)
}
