package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

/*
CONFIGURATION DESIGN:

- Configuration is static data, loaded once at startup
- Defaults first, then the YAML file, then environment overrides
- Validation happens BEFORE the gateway starts
- Any error is fatal: the process must not start half-configured
*/

type Server struct {
	Name            string        `yaml:"name"`
	Listen          string        `yaml:"listen"`
	AdminListen     string        `yaml:"admin_listen"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type Proxy struct {
	Timeout             time.Duration `yaml:"timeout"`
	MaxResponseBytes    int64         `yaml:"max_response_bytes"`
	StrictUTF8          bool          `yaml:"strict_utf8"`
	MaxIdleConns        int           `yaml:"max_idle_conns"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host"`
	MaxConnsPerHost     int           `yaml:"max_conns_per_host"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout"`
}

type Route struct {
	Name         string `yaml:"name"`
	Method       string `yaml:"method"`
	Path         string `yaml:"path"`
	Kind         string `yaml:"kind"`
	Upstream     string `yaml:"upstream"`
	UpstreamPath string `yaml:"upstream_path"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type RateLimit struct {
	Enabled           bool          `yaml:"enabled"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	IdleTTL           time.Duration `yaml:"idle_ttl"`
}

type ExchangeLog struct {
	Path string `yaml:"path"`
}

type Config struct {
	Server      Server            `yaml:"server"`
	Upstreams   map[string]string `yaml:"upstreams"`
	Proxy       Proxy             `yaml:"proxy"`
	Routes      []Route           `yaml:"routes"`
	Logging     Logging           `yaml:"logging"`
	RateLimit   RateLimit         `yaml:"rate_limit"`
	ExchangeLog ExchangeLog       `yaml:"exchange_log"`
}

// Default returns the built-in configuration: the ERP, CRM and ITSM
// routes plus the health route.
func Default() *Config {
	return &Config{
		Server: Server{
			Name:            "integration-gateway",
			Listen:          ":8080",
			AdminListen:     ":9090",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Upstreams: map[string]string{
			"erp":  "http://erp-service:8091",
			"crm":  "http://crm-service:8092",
			"itsm": "http://itsm-service:8093",
		},
		Proxy: Proxy{
			Timeout: 10 * time.Second,
		},
		Routes: DefaultRoutes(),
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultRoutes is the route set the gateway serves when none is configured.
func DefaultRoutes() []Route {
	return []Route{
		{Name: "health", Method: "GET", Path: "/api/health", Kind: "health"},
		{Name: "erp-orders", Method: "GET", Path: "/api/erp/orders", Kind: "proxy", Upstream: "erp", UpstreamPath: "/orders"},
		{Name: "erp-inventory", Method: "GET", Path: "/api/erp/inventory", Kind: "proxy", Upstream: "erp", UpstreamPath: "/inventory"},
		{Name: "crm-customers", Method: "GET", Path: "/api/crm/customers", Kind: "proxy", Upstream: "crm", UpstreamPath: "/customers"},
		{Name: "crm-leads", Method: "GET", Path: "/api/crm/leads", Kind: "proxy", Upstream: "crm", UpstreamPath: "/leads"},
		{Name: "itsm-tickets", Method: "GET", Path: "/api/itsm/tickets", Kind: "proxy", Upstream: "itsm", UpstreamPath: "/tickets"},
	}
}

// Load builds the configuration. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Routes and upstreams from the file replace the defaults rather than
	// merging into them.
	fromFile := *c
	fromFile.Routes = nil
	fromFile.Upstreams = nil

	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}

	if fromFile.Routes == nil {
		fromFile.Routes = c.Routes
	}
	if fromFile.Upstreams == nil {
		fromFile.Upstreams = c.Upstreams
	}

	*c = fromFile
	return nil
}

// envUpstreams maps environment variables onto upstream names.
var envUpstreams = map[string]string{
	"ERP_SERVICE_URL":  "erp",
	"CRM_SERVICE_URL":  "crm",
	"ITSM_SERVICE_URL": "itsm",
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for env, name := range envUpstreams {
		if v, ok := lookup(env); ok && strings.TrimSpace(v) != "" {
			if c.Upstreams == nil {
				c.Upstreams = make(map[string]string)
			}
			c.Upstreams[name] = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup("GATEWAY_NAME"); ok && v != "" {
		c.Server.Name = v
	}
	if v, ok := lookup("GATEWAY_LISTEN"); ok && v != "" {
		c.Server.Listen = v
	}
	if v, ok := lookup("GATEWAY_ADMIN_LISTEN"); ok {
		c.Server.AdminListen = v
	}
	if v, ok := lookup("GATEWAY_LOG_LEVEL"); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup("GATEWAY_UPSTREAM_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GATEWAY_UPSTREAM_TIMEOUT: %w", err)
		}
		c.Proxy.Timeout = d
	}

	return nil
}
