// Package server serves the demo scenarios over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/vango-dev/safecontext/internal/demo"
	diag "github.com/vango-dev/safecontext/internal/errors"
)

// Options configures the router.
type Options struct {
	// Metrics serves GET /metrics when non-nil.
	Metrics http.Handler

	// Pretty indents rendered HTML.
	Pretty bool

	// Logger receives one line per request.
	// Default: slog.Default().
	Logger *slog.Logger
}

// NewRouter returns the demo HTTP handler:
//
//	GET /healthz            liveness probe
//	GET /scenarios          scenario names as JSON
//	GET /scenarios/{name}   rendered scenario; ?format=json for a JSON Result
//	GET /metrics            Prometheus metrics, when configured
func NewRouter(registry *demo.Registry, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "server")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/scenarios", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, registry.Names())
	})

	r.Get("/scenarios/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		res, err := registry.Render(name, true, opts.Pretty)
		if err != nil {
			status := http.StatusInternalServerError
			d := diag.Diagnose(err, diag.CodeRenderFailed)
			if d.Code == diag.CodeUnknownScenario {
				status = http.StatusNotFound
			}
			logger.Warn("render failed", "scenario", name, "code", d.Code)
			writeJSON(w, status, d)
			return
		}

		if r.URL.Query().Get("format") == "json" {
			writeJSON(w, http.StatusOK, res)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(res.HTML))
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

// Run serves handler on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func Run(ctx context.Context, addr string, handler http.Handler, shutdownTimeout time.Duration, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil

	case <-ctx.Done():
		logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
			return err
		}
		logger.Info("server shutdown complete")
		return nil
	}
}
