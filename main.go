// Command chatwire is the main entrypoint for the chat ingestion service.
// It:
//   - Loads configuration and initializes structured logging.
//   - Connects to Postgres and runs idempotent migrations.
//   - Starts the chat ingestor: IRC transport (TLS socket or websocket),
//     login handshake, channel joins, and the line read loop.
//   - Exposes a minimal HTTP server with /healthz, /readyz, /metrics, and
//     /channels/{channel}/messages.
//
// Shutdown is graceful on SIGINT/SIGTERM.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/onnwee/chatwire/chat"
	"github.com/onnwee/chatwire/config"
	"github.com/onnwee/chatwire/db"
	"github.com/onnwee/chatwire/server"
	"github.com/onnwee/chatwire/telemetry"
)

func main() {
	// Load .env file if present (local dev convenience only; production relies on real env)
	_ = godotenv.Load(".env")

	// Configure logging (level + format). Defaults: level=info, format=text.
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info", "":
		// keep default
	default:
		tmp := slog.New(slog.NewTextHandler(os.Stdout, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	var handler slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))

	// Config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	// Metrics / telemetry init
	telemetry.Init()

	// Initialize OpenTelemetry tracing (optional; requires OTEL_EXPORTER_OTLP_ENDPOINT)
	shutdown, err := telemetry.InitTracing("chatwire", "1.0.0")
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdown()

	// DB
	database, err := db.Connect()
	if err != nil {
		slog.Error("failed to open db", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("failed to close database", slog.Any("err", err))
		}
	}()
	if err := db.Migrate(context.Background(), database); err != nil {
		slog.Error("failed to migrate db", slog.Any("err", err))
		os.Exit(1)
	}

	// Root context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Chat ingestor, when credentials are complete. The service still serves
	// stored history and metrics without them.
	var connected func() bool
	if err := cfg.ValidateChatReady(); err == nil {
		ing := &chat.Ingestor{
			Cfg:   cfg,
			Dial:  chat.DialerFromConfig(cfg),
			Store: chat.DBStore{DB: database},
		}
		connected = ing.Connected
		go ing.Run(ctx)
	} else {
		slog.Info("chat ingestor disabled", slog.Any("reason", err))
	}

	// HTTP server (health/readiness/metrics/messages)
	if err := server.Start(ctx, database, cfg.HTTPAddr, connected); err != nil {
		slog.Error("http server exited with error", slog.Any("err", err))
	}

	slog.Info("shutting down")
}
