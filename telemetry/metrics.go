// Package telemetry provides Prometheus metrics and correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	LinesReceived  prometheus.Counter
	LinesMalformed *prometheus.CounterVec // labelled by parse failure reason
	MessagesStored prometheus.Counter
	StoreFailures  prometheus.Counter
	PongsSent      prometheus.Counter
	LinesSent      prometheus.Counter
	LineSplits     prometheus.Counter
	Reconnects     prometheus.Counter

	// Gauges
	ConnectedGauge prometheus.Gauge // 1=connected,0=not
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		LinesReceived = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_lines_received_total", Help: "Number of raw IRC lines received"})
		LinesMalformed = promauto.NewCounterVec(prometheus.CounterOpts{Name: "chat_lines_malformed_total", Help: "Number of malformed IRC lines skipped"}, []string{"reason"})
		MessagesStored = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_messages_stored_total", Help: "Number of chat messages persisted"})
		StoreFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_store_failures_total", Help: "Number of failed chat message inserts"})
		PongsSent = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_pongs_sent_total", Help: "Number of PONG replies sent"})
		LinesSent = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_lines_sent_total", Help: "Number of outgoing IRC lines written"})
		LineSplits = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_line_splits_total", Help: "Number of oversized payload splits performed"})
		Reconnects = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_reconnects_total", Help: "Number of transport reconnect attempts"})
		ConnectedGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "chat_connected", Help: "Chat transport connected=1 disconnected=0"})
	})
}

// CountMalformed records a skipped malformed line under its reason label.
func CountMalformed(reason string) {
	if LinesMalformed != nil {
		LinesMalformed.WithLabelValues(reason).Inc()
	}
}

// SetConnected sets gauge to 1 if connected else 0.
func SetConnected(connected bool) {
	if ConnectedGauge != nil {
		if connected {
			ConnectedGauge.Set(1)
		} else {
			ConnectedGauge.Set(0)
		}
	}
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding correlation id (if absent) and the id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	v := ctx.Value(corrKey)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
