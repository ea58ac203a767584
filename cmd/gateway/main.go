package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"IntegrationGateway/internal/audit"
	"IntegrationGateway/internal/config"
	"IntegrationGateway/internal/dashboard"
	"IntegrationGateway/internal/gateway"
	"IntegrationGateway/internal/logging"
	"IntegrationGateway/internal/metrics"
	"IntegrationGateway/internal/middleware"
	"IntegrationGateway/internal/proxy"
	"IntegrationGateway/internal/ratelimit"
	"IntegrationGateway/internal/router"
)

/*
MIDDLEWARE ORDER (TOP to BOTTOM):

1. Request ID         :   correlation for logs and upstream calls
2. Access log         :   one line per request, sees every status
3. Recover            :   a panic becomes a 500, never a crash
4. Request guard      :   cap inbound bodies (oversized declared bodies get 413 after routing)
5. Rate limiting      :   optional, per client IP
6. Gateway handler    :   route lookup, health, upstream bridging
*/

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file (optional)")
	logLevel := flag.String("log-level", "", "override log level: debug, info, warn, error")
	flag.Parse()

	/*
		Configuration (fatal on any error)
	*/

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("configuration error: %v", err)
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	if err != nil {
		logrus.Fatalf("configuration error: %v", err)
	}
	log := logging.Component(logger, "main")

	routes, err := cfg.RouterRoutes()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	rt, err := router.New(routes)
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	/*
		Forwarder (shared, bounded connection pool)
	*/

	forwarder := proxy.New(proxy.Options{
		Engine:              cfg.Server.Name,
		Timeout:             cfg.Proxy.Timeout,
		MaxResponseBytes:    cfg.Proxy.MaxResponseBytes,
		StrictUTF8:          cfg.Proxy.StrictUTF8,
		MaxIdleConns:        cfg.Proxy.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Proxy.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.Proxy.MaxConnsPerHost,
		IdleConnTimeout:     cfg.Proxy.IdleConnTimeout,
	}, logging.Component(logger, "proxy"))
	defer forwarder.Close()

	/*
		Metrics, stats and exchange log
	*/

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)
	stats := dashboard.NewStatsCollector()

	opts := []gateway.Option{
		gateway.WithMetrics(m),
		gateway.WithStats(stats),
	}

	if cfg.ExchangeLog.Path != "" {
		exchangeLog, err := audit.NewLogger(cfg.ExchangeLog.Path)
		if err != nil {
			log.Fatalf("failed to open exchange log: %v", err)
		}
		defer exchangeLog.Close()
		opts = append(opts, gateway.WithExchangeRecorder(exchangeLog))
	}

	handler := gateway.New(rt, forwarder, logging.Component(logger, "gateway"), opts...)

	/*
		Final handler chain (exact required order)
	*/

	var chain http.Handler = handler
	dashboardHandlers := &dashboard.Handlers{
		Stats:           stats,
		Routes:          rt,
		ExchangeLogPath: cfg.ExchangeLog.Path,
	}

	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
			IdleTTL:           cfg.RateLimit.IdleTTL,
		})
		chain = limiter.Middleware(chain)
		dashboardHandlers.Limiter = limiter
	}

	chain = middleware.ValidateRequestMiddleware(chain)
	chain = middleware.Recover(logging.Component(logger, "recover"))(chain)
	chain = middleware.AccessLog(logging.Component(logger, "access"))(chain)
	chain = middleware.RequestID(chain)

	servers := []*http.Server{{
		Addr:         cfg.Server.Listen,
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}}

	/*
		Admin listener (metrics and dashboard API, off the gateway surface)
	*/

	if cfg.Server.AdminListen != "" {
		adminMux := http.NewServeMux()
		adminMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		adminMux.HandleFunc("/admin/", dashboardHandlers.ServeAPI)

		servers = append(servers, &http.Server{
			Addr:         cfg.Server.AdminListen,
			Handler:      adminMux,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		})
	}

	/*
		Run until signalled, then drain in-flight requests
	*/

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, len(servers))
	var wg sync.WaitGroup
	for _, srv := range servers {
		wg.Add(1)
		go func(srv *http.Server) {
			defer wg.Done()
			log.WithField("addr", srv.Addr).Info("listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(srv)
	}

	log.WithFields(logrus.Fields{
		"name":    cfg.Server.Name,
		"routes":  rt.Len(),
		"timeout": cfg.Proxy.Timeout.String(),
	}).Info("integration gateway started")

	failed := false
	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		log.WithError(err).Error("server error")
		failed = true
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).WithField("addr", srv.Addr).Warn("shutdown incomplete")
		}
	}
	wg.Wait()

	log.Info("integration gateway stopped")
	if failed {
		os.Exit(1)
	}
}
