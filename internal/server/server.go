// Package server exposes the assessment pipeline over HTTP as JSON.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/rshade/metallca/internal/lca"
	"github.com/rshade/metallca/internal/report"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultMaxBodyBytes   = 1 << 20
	shutdownTimeout       = 10 * time.Second
)

// Options configures the handler. Assessor and Tables are required; without
// a Store the /reports routes are not mounted.
type Options struct {
	Assessor *lca.Assessor
	Tables   *lca.Tables
	Store    report.Store
	Logger   zerolog.Logger

	RequestTimeout time.Duration
	AllowedOrigins []string
	MaxBodyBytes   int64
	Version        string
}

type handler struct {
	assessor     *lca.Assessor
	tables       *lca.Tables
	store        report.Store
	maxBodyBytes int64
	version      string
}

// NewHandler builds the chi router serving the LCA API.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Assessor == nil || opts.Tables == nil {
		return nil, errors.New("server requires an assessor and reference tables")
	}

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	h := &handler{
		assessor:     opts.Assessor,
		tables:       opts.Tables,
		store:        opts.Store,
		maxBodyBytes: maxBody,
		version:      opts.Version,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(opts.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{traceHeader},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)
	r.Get("/tables", h.getTables)
	r.Post("/calculate", h.calculate)

	if h.store != nil {
		r.Route("/reports", func(r chi.Router) {
			r.Post("/", h.createReport)
			r.Get("/", h.listReports)
			r.Get("/{id}", h.getReport)
			r.Get("/{id}/markdown", h.getReportMarkdown)
			r.Delete("/{id}", h.deleteReport)
		})
	}

	return r, nil
}

// New returns an http.Server for handler on addr.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// Run serves until ctx is done and then shuts down gracefully.
func Run(ctx context.Context, srv *http.Server) error {
	logger := zerolog.Ctx(ctx)
	errCh := make(chan error, 1)

	go func() {
		logger.Info().Str("component", "server").Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Str("component", "server").Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
