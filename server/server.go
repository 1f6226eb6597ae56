// Package server exposes the HTTP API: health, readiness, metrics, and the
// recent-messages endpoint. It injects correlation IDs into request contexts
// for consistent logging.
package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/onnwee/chatwire/telemetry"
)

// NewMux returns the HTTP handler with all routes.
func NewMux(db *sql.DB, connected func() bool) http.Handler {
	handlers := &Handlers{db: db, connected: connected}

	mux := http.NewServeMux()

	// Metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Health and readiness endpoints
	mux.HandleFunc("/healthz", handlers.HandleHealthz)
	mux.HandleFunc("/readyz", handlers.HandleReadyz)

	// Chat endpoints
	mux.HandleFunc("/channels/", handlers.HandleChannelsDispatcher)

	// Wrap with correlation ID injector
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Reuse corr header if provided else generate
		corr := r.Header.Get("X-Correlation-ID")
		if corr == "" {
			corr = uuid.New().String()
		}
		ctx := telemetry.WithCorrelation(r.Context(), corr)
		w.Header().Set("X-Correlation-ID", corr)
		mux.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Start runs the HTTP server until ctx is canceled, then shuts down gracefully.
func Start(ctx context.Context, db *sql.DB, addr string, connected func() bool) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewMux(db, connected),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
