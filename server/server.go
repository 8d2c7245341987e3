// Package server provides the HTTP server for the signup board.
//
// The server keeps one activity list in memory and renders it for every
// visitor. Form values and the status message belong to the request that
// posted them. Opening the page reloads the activities from the backend;
// submitting the form signs up through the backend and reloads on success.
// The browser hides a shown message by fetching /fragments/message after
// board.message_hide_after.
//
// # Endpoints
//
//   - GET / - The board, or just the board fragment for HTMX requests
//   - GET /fragments/activities - The activity list as it is, without reloading
//   - GET /fragments/message - The empty status area
//   - POST /signup - Submits the signup form
//   - GET /api/board - The board state as JSON
//   - POST /api/refresh - Reloads the activities
//   - GET /api/events - Recently logged events
//   - GET /api/version - Build info and server properties
//   - GET /health - Simple health check, returns "ok"
//   - GET /config - Returns current configuration as YAML
//   - POST /reload - Reloads configuration from disk
//   - GET /metrics - Prometheus metrics
//
// # Architecture
//
// The board, the metrics and the log collector live as long as the server.
// The backend client, the loader and the signup handler are derived from
// the config and swapped atomically on reload. Listener, CSRF and refresh
// schedule settings need a restart.
//
// # Example
//
//	srv, err := server.New("/etc/signupboard/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server

import (
	"context"
	"crypto/tls"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nomis52/signupboard/board"
	"github.com/nomis52/signupboard/buildinfo"
	"github.com/nomis52/signupboard/clients/activityclient"
	"github.com/nomis52/signupboard/config"
	"github.com/nomis52/signupboard/logging"
	"github.com/nomis52/signupboard/metrics"
	"github.com/nomis52/signupboard/server/cron"
	"github.com/nomis52/signupboard/server/handlers"
	"github.com/nomis52/signupboard/server/types"
)

//go:embed static
var staticFiles embed.FS

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

// serverDeps holds config-derived dependencies that are swapped atomically on reload.
type serverDeps struct {
	config *config.Config
	loader *board.Loader
	signup *board.SignupHandler
}

// Server is the HTTP server for the signup board.
type Server struct {
	configPath string
	addr       string
	logger     *slog.Logger
	collector  *logging.LogCollector
	page       *board.Page
	registry   *metrics.ScrapeRegistry
	metrics    *board.Metrics
	deps       atomic.Pointer[serverDeps]
	refresh    *cron.Manager
	startedAt  time.Time
	hostname   string
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server) error

// WithListenAddr overrides the configured listen address.
func WithListenAddr(addr string) Option {
	return func(s *Server) error {
		s.addr = addr
		return nil
	}
}

// WithLogger replaces the logger built from the logging config.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		s.logger = logger
		return nil
	}
}

// New creates a new Server from the config file at configPath.
func New(configPath string, opts ...Option) (*Server, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	s := &Server{
		configPath: configPath,
		addr:       cfg.Listener.Addr,
		collector:  logging.NewLogCollector(logging.DefaultCollectorSize),
		startedAt:  time.Now(),
	}
	s.hostname, _ = os.Hostname()

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.logger == nil {
		base, err := logging.New(cfg.Logging)
		if err != nil {
			return nil, err
		}
		s.logger = base.Logger
	}
	s.logger = slog.New(logging.NewCapturingHandler(s.logger.Handler(), s.collector))

	s.page = board.NewPage(s.logger)

	s.registry, err = metrics.NewScrapeRegistry(metrics.WithPrefix(cfg.Monitoring.MetricsPrefix))
	if err != nil {
		return nil, fmt.Errorf("creating metrics registry: %w", err)
	}
	s.metrics, err = board.NewMetrics(s.registry)
	if err != nil {
		return nil, err
	}

	if err := s.apply(cfg); err != nil {
		return nil, err
	}

	if spec := cfg.Board.RefreshSchedule; spec != "" {
		s.refresh, err = cron.NewManager(spec, s.Load, s.logger)
		if err != nil {
			return nil, fmt.Errorf("creating refresh schedule: %w", err)
		}
	}

	return s, nil
}

// Logger returns the server's logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// Reload reads the config from disk and rebuilds the backend dependencies.
// The board keeps its state.
func (s *Server) Reload() error {
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		return err
	}
	return s.apply(cfg)
}

func (s *Server) apply(cfg *config.Config) error {
	client, err := activityclient.New(cfg.Backend.BaseURL,
		activityclient.WithTimeout(cfg.Backend.Timeout),
		activityclient.WithUserAgent(cfg.Backend.UserAgent),
		activityclient.WithLogger(s.logger),
	)
	if err != nil {
		return fmt.Errorf("creating activities client: %w", err)
	}

	loader := board.NewLoader(client, s.page, s.page,
		board.WithLoaderLogger(s.logger),
		board.WithLoaderMetrics(s.metrics),
	)
	signup := board.NewSignupHandler(client, s.page, s.page, loader,
		board.WithHideAfter(cfg.Board.MessageHideAfter),
		board.WithAfterFunc(hiddenByBrowser),
		board.WithSignupLogger(s.logger),
		board.WithSignupMetrics(s.metrics),
	)

	s.deps.Store(&serverDeps{
		config: cfg,
		loader: loader,
		signup: signup,
	})

	s.logger.Info("configuration loaded",
		"config_path", s.configPath,
		"backend_url", cfg.Redacted().Backend.BaseURL,
	)
	return nil
}

// Config returns the current configuration.
func (s *Server) Config() *config.Config {
	return s.deps.Load().config
}

// Load refreshes the board from the backend.
func (s *Server) Load(ctx context.Context) error {
	return s.deps.Load().loader.Load(ctx)
}

// Submit submits one visitor's form and reports the outcome on it.
func (s *Server) Submit(ctx context.Context, form *board.Form) board.Outcome {
	return s.deps.Load().signup.SubmitForm(ctx, form, form)
}

// hiddenByBrowser drops hide timers. Each request renders its own form,
// so the page hides the message itself.
func hiddenByBrowser(time.Duration, func()) {}

// Page returns the board.
func (s *Server) Page() *board.Page {
	return s.page
}

// Properties describes the running server.
func (s *Server) Properties() types.ServerProperties {
	props := types.ServerProperties{
		Build:      buildinfo.Get(),
		StartedAt:  s.startedAt,
		Hostname:   s.hostname,
		BackendURL: s.Config().Redacted().Backend.BaseURL,
	}
	if s.refresh != nil {
		next := s.refresh.NextRun()
		props.NextRefresh = &next
	}
	return props
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	cfg := s.Config()
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.HandleHealth)
	r.Method(http.MethodGet, "/config", handlers.NewConfigHandler(s.logger, s))
	r.Method(http.MethodPost, "/reload", handlers.NewReloadHandler(s.logger, s))
	r.Method(http.MethodGet, "/metrics", s.registry.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/board", handlers.NewBoardJSONHandler(s.page))
		r.Method(http.MethodPost, "/refresh", handlers.NewRefreshHandler(s.logger, s))
		r.Method(http.MethodGet, "/events", handlers.NewEventsHandler(s.collector))
		r.Method(http.MethodGet, "/version", handlers.NewVersionHandler(s))
	})

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		s.logger.Error("failed to create static file system", "error", err)
	} else {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}

	r.Group(func(r chi.Router) {
		if cfg.CSRFEnabled() {
			r.Use(csrfProtect(cfg.Security, s.logger))
		}
		r.Method(http.MethodGet, "/", handlers.NewPageHandler(s, s.page, s))
		r.Method(http.MethodGet, "/fragments/activities", handlers.NewFragmentHandler(s.page))
		r.Get("/fragments/message", handlers.HandleMessageFragment)
		r.Method(http.MethodPost, "/signup", handlers.NewSignupHandler(s.logger, s.page, s, s))
	})

	return r
}

// Run starts the HTTP server and blocks until the context is cancelled.
// It performs a graceful shutdown when the context is done. The refresh
// schedule, if any, starts with the server.
func (s *Server) Run(ctx context.Context) error {
	listener := s.Config().Listener

	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	}
	if listener.TLSEnabled() {
		certs, err := NewCertLoader(listener.TLSCert, listener.TLSKey, s.logger)
		if err != nil {
			return err
		}
		s.httpServer.TLSConfig = &tls.Config{
			MinVersion:     tls.VersionTLS12,
			GetCertificate: certs.GetCertificate,
		}
	}

	if s.refresh != nil {
		s.logger.Info("starting refresh schedule", "next_run", s.refresh.NextRun())
		s.refresh.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			"addr", s.addr,
			"tls", listener.TLSEnabled(),
			"config_path", s.configPath,
		)
		var err error
		if listener.TLSEnabled() {
			err = s.httpServer.ListenAndServeTLS("", "")
		} else {
			err = s.httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
