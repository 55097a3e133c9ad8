// Package server hosts the short-link HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/sundayezeilo/shortlinks/internal/config"
	"github.com/sundayezeilo/shortlinks/internal/httpx"
	"github.com/sundayezeilo/shortlinks/internal/shortener/httpapi"
)

// HealthFunc reports whether the backing store is reachable.
type HealthFunc func(ctx context.Context) error

type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	handler *httpapi.Handler
	health  HealthFunc
	httpSrv *http.Server
}

// New builds a Server. health may be nil, in which case /x/health always
// reports ok.
func New(cfg *config.Config, logger *slog.Logger, handler *httpapi.Handler, health HealthFunc) *Server {
	return &Server{cfg: cfg, logger: logger, handler: handler, health: health}
}

type route struct {
	pattern string
	handle  http.HandlerFunc
}

func (s *Server) routes() []route {
	return []route{
		{"GET /x/health", s.healthCheck},
		{"POST /api/links", s.handler.CreateLink},
		{"GET /api/links", s.handler.ListLinks},
		{"GET /api/logs", s.handler.RecentActivity},
		{"POST /api/events", s.handler.RecordEvent},
		{"GET /s/{slug}", s.handler.ResolveLink},
	}
}

// Handler returns the routed API wrapped in tracing and middleware.
// Recovery sits outermost so that a panic anywhere still yields a 500.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, rt := range s.routes() {
		mux.Handle(rt.pattern, nameSpan(rt.handle))
	}

	chained := httpx.Chain(
		httpx.Recovery(s.logger),
		httpx.RequestID,
		httpx.Principal,
		httpx.Logger(s.logger),
		httpx.CORS(nil),
	)(mux)

	return otelhttp.NewHandler(chained, s.cfg.Observability.ServiceName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "HTTP " + r.Method
		}),
	)
}

// nameSpan renames the server span after the matched route once the mux has
// picked one, keeping slugs out of span names.
func nameSpan(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span := trace.SpanFromContext(r.Context())
		span.SetName(r.Pattern)
		span.SetAttributes(semconv.HTTPRoute(r.Pattern))
		next.ServeHTTP(w, r)
	})
}

// Start serves until ctx is cancelled, SIGINT or SIGTERM arrives, or the
// listener fails. A signal triggers a graceful shutdown bounded by
// SERVER_SHUTDOWN_TIMEOUT.
func (s *Server) Start(ctx context.Context) error {
	sc := s.cfg.Server
	s.httpSrv = &http.Server{
		Addr:         net.JoinHostPort(sc.Host, sc.Port),
		Handler:      s.Handler(),
		ReadTimeout:  sc.ReadTimeout,
		WriteTimeout: sc.WriteTimeout,
		IdleTimeout:  sc.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server",
			"addr", s.httpSrv.Addr,
			"env", s.cfg.App.Environment,
			"base_url", sc.BaseURL,
		)
		serveErr <- s.httpSrv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("received shutdown signal", "cause", context.Cause(ctx))
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sc.ShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	s.logger.Info("server stopped gracefully")
	return nil
}

// Shutdown drains in-flight requests. When ctx expires first the remaining
// connections are closed.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	s.logger.Info("shutting down server")

	err := s.httpSrv.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		s.logger.Warn("shutdown timeout exceeded, forcing close")
		return s.httpSrv.Close()
	}
	return err
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Store   string `json:"store"`
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:  "ok",
		Service: s.cfg.Observability.ServiceName,
		Version: s.cfg.Observability.ServiceVersion,
		Store:   s.cfg.Store.Driver,
	}
	code := http.StatusOK
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.logger.WarnContext(r.Context(), "health check failed", "error", err.Error())
			resp.Status, code = "degraded", http.StatusServiceUnavailable
		}
	}
	httpx.WriteJSON(w, code, resp)
}
