// Package http serves the operational endpoints of the bot process: health,
// readiness and Prometheus metrics.
package http

import (
	"context"
	"net/http"
	"time"

	"budgetbot/internal/log"
	"budgetbot/internal/middleware/security"
	"budgetbot/internal/middleware/trace"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ReadinessChecker reports whether a dependency is reachable.
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	http.Server
}

const readyTimeout = 2 * time.Second

// NewServer routes /healthz, /readyz and /metrics. metrics may be nil.
func NewServer(addr string, ready ReadinessChecker, metrics http.Handler, logger *log.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(trace.Middleware(logger))
	r.Use(security.Headers(security.DefaultHeadersConfig()))

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady(ready, logger.WithComponent(log.ComponentHTTP)))
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	return &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(ready ReadinessChecker, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := ready.Ping(ctx); err != nil {
			logger.WarnContext(ctx, "Readiness check failed",
				log.FieldRequestID, trace.GetRequestID(r.Context()),
				log.FieldError, err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("store unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}
}
