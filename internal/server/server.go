// Package server exposes the drawdown analysis over HTTP: an HTML form, a
// JSON success-rate API, ticker autocomplete and a health check.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"DrawdownLens/internal/model"
	"DrawdownLens/internal/service"
	"DrawdownLens/internal/symbols"
)

//go:embed templates/*.html
var templateFS embed.FS

// Analyzer is the analysis entry point the handlers call.
type Analyzer interface {
	Analyze(ctx context.Context, ticker string, targetGainPct float64) (*service.Analysis, error)
	SuccessRates(ctx context.Context, ticker string, targetGainPct float64) (*model.SuccessRateTable, error)
}

// Options configures a Server.
type Options struct {
	Addr              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	DefaultTarget     float64 // JSON API
	FormDefaultTarget float64 // HTML form
	Provider          string
}

// Server manages the HTTP server and routes.
type Server struct {
	analyzer  Analyzer
	symbols   *symbols.Directory
	opts      Options
	logger    *zap.Logger
	validate  *validator.Validate
	templates *template.Template
	router    *http.ServeMux
	server    *http.Server
}

// New creates a new HTTP server. dir may be nil, in which case autocomplete
// always returns an empty list.
func New(analyzer Analyzer, dir *symbols.Directory, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultTarget == 0 {
		opts.DefaultTarget = 20
	}
	if opts.FormDefaultTarget == 0 {
		opts.FormDefaultTarget = 3
	}
	s := &Server{
		analyzer:  analyzer,
		symbols:   dir,
		opts:      opts,
		logger:    logger,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		templates: template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")),
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.withMiddleware(s.router),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", zap.String("address", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
