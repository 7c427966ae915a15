package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"redirectly/api"
	"redirectly/api/router/handlers"
	"redirectly/config"
	"redirectly/core"
	"redirectly/database"
	"redirectly/logger"
	"redirectly/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// externalPollInterval is how often a running service checks the database
// for writes made by another process.
const externalPollInterval = time.Second

// services is the in-process state shared by the API server and the proxy:
// one engine kept in sync with storage, the badge board and the metrics
// registry.
type services struct {
	registry   *prometheus.Registry
	metrics    *core.Metrics
	engine     *core.Engine
	badges     *core.BadgeBoard
	background *core.Background
	ingester   *core.ShareIngester
	recorder   *core.MatchRecorder
}

func newServices() (*services, error) {
	s := &services{badges: core.NewBadgeBoard()}
	if config.AppConfig.Metrics.Enabled {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		s.metrics = core.NewMetrics(s.registry)
	}

	s.engine = core.NewEngine(s.metrics)
	s.engine.OnRuleMatched(s.badges.RuleMatched)

	if _, err := database.PrimeSnapshot(); err != nil {
		return nil, fmt.Errorf("loading stored state: %w", err)
	}
	store := database.LocalStorage{}
	s.ingester = core.NewShareIngester(store, s.metrics)
	s.background = core.NewBackground(store, s.engine)
	if err := s.background.Start(); err != nil {
		return nil, fmt.Errorf("starting background: %w", err)
	}

	if conf := config.AppConfig.MatchLog; conf.Enabled {
		s.recorder = core.NewMatchRecorder(context.Background(), core.MatchRecorderConfig{
			BufferSize:    conf.BufferSize,
			MaxEntries:    conf.MaxEntries,
			PruneInterval: time.Duration(conf.PruneIntervalSeconds) * time.Second,
		}, func(info models.MatchInfo) error {
			_, err := database.LogRuleMatch(info)
			return err
		}, database.PruneMatchLog, s.metrics)
		s.recorder.Start()
		s.engine.OnRuleMatched(s.recorder.Record)
	}
	return s, nil
}

// watch republishes writes from other processes until ctx is done.
func (s *services) watch(ctx context.Context) {
	go func() {
		if err := database.WatchExternalChanges(ctx, externalPollInterval); err != nil {
			logger.Error("Services: external change watcher stopped: %v", err)
		}
	}()
}

func (s *services) close() {
	s.background.Stop()
	if s.recorder != nil {
		s.recorder.Stop()
	}
}

// handler mounts the API under /api and, when enabled, Prometheus metrics
// under /metrics.
func (s *services) handler() http.Handler {
	apiRouter := api.NewRouter(handlers.Live{
		Engine:   s.engine,
		Badges:   s.badges,
		Ingester: s.ingester,
	})

	mainMux := http.NewServeMux()
	mainMux.Handle("/api/", http.StripPrefix("/api", apiRouter))
	if s.registry != nil {
		mainMux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	mainMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("Server: no handler for %s %s", r.Method, r.URL.Path)
		http.NotFound(w, r)
	})
	return mainMux
}

// proxyOptions builds the proxy configuration. A missing CA is not fatal:
// the proxy then only rewrites plain HTTP.
func (s *services) proxyOptions() core.ProxyOptions {
	opts := core.ProxyOptions{TabHeader: config.AppConfig.Proxy.TabHeader}
	if config.AppConfig.Proxy.ShareLinks {
		opts.Ingester = s.ingester
	}

	certPath, keyPath := config.AppConfig.Proxy.CACertPath, config.AppConfig.Proxy.CAKeyPath
	if certPath == "" || keyPath == "" {
		logger.ProxyError("Proxy CA certificate or key path not configured. HTTPS traffic will be tunnelled without rewriting.")
		return opts
	}
	ca, err := core.LoadCA(certPath, keyPath)
	if err != nil {
		logger.ProxyError("Could not load proxy CA (%v). Run 'redirectly proxy init-ca' to enable HTTPS rewriting.", err)
		return opts
	}
	logger.ProxyInfo("Proxy using CA Cert: %s, CA Key: %s", certPath, keyPath)
	opts.CA = ca
	return opts
}

// serveHTTP runs the API server on port until ctx is done.
func serveHTTP(ctx context.Context, port string, handler http.Handler) error {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server: Listening on :%s", port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
		logger.Info("Server: Shutdown signal received...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("Server: Gracefully stopped.")
		return nil
	}
}

// resolvePort returns the flag value when the user set it, else the
// configured value, else fallback.
func resolvePort(flagChanged bool, flagValue, configValue, fallback string) string {
	port := configValue
	if flagChanged {
		port = flagValue
	}
	if port == "" {
		port = fallback
	}
	return port
}
