package telemetry

import (
	"context"
	"testing"
)

func TestInitIdempotent(t *testing.T) {
	Init()
	first := LinesReceived
	Init()
	if LinesReceived != first {
		t.Error("Init() re-registered metrics; expected idempotent registration")
	}
	if LinesReceived == nil || LinesMalformed == nil || ConnectedGauge == nil {
		t.Error("expected all metrics registered after Init()")
	}
}

func TestCountMalformedBeforeInitIsSafe(t *testing.T) {
	// Counters are guarded against nil so packages can record before/without Init.
	CountMalformed("missing command")
	SetConnected(true)
	SetConnected(false)
}

func TestCorrelation(t *testing.T) {
	ctx := context.Background()
	if got := GetCorrelation(ctx); got != "" {
		t.Errorf("GetCorrelation(empty ctx) = %q, want empty", got)
	}
	ctx = WithCorrelation(ctx, "abc-123")
	if got := GetCorrelation(ctx); got != "abc-123" {
		t.Errorf("GetCorrelation = %q, want abc-123", got)
	}
	if LoggerWithCorr(ctx) == nil {
		t.Error("LoggerWithCorr returned nil")
	}
}
