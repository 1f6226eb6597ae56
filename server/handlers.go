package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/onnwee/chatwire/db"
	"github.com/onnwee/chatwire/irc"
	"github.com/onnwee/chatwire/telemetry"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	db        *sql.DB
	connected func() bool // chat transport state, nil when no ingestor runs
}

// HandleHealthz responds to liveness probe requests by checking database connectivity.
func (h *Handlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		http.Error(w, "unhealthy", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// HandleReadyz responds to readiness probe requests: database reachable and
// chat transport connected (when an ingestor is wired in).
func (h *Handlers) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	checks := []struct {
		name string
		fn   func() bool
	}{
		{"database", func() bool { return h.db.PingContext(r.Context()) == nil }},
		{"chat_transport", func() bool { return h.connected == nil || h.connected() }},
	}

	for _, check := range checks {
		if !check.fn() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"status":       "not_ready",
				"failed_check": check.name,
			})
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}

// HandleChannelsDispatcher routes /channels/{channel}/messages.
func (h *Handlers) HandleChannelsDispatcher(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/channels/")
	parts := strings.Split(rest, "/")
	if len(parts) == 2 && parts[1] == "messages" && parts[0] != "" {
		h.handleChannelMessages(w, r, parts[0])
		return
	}
	http.NotFound(w, r)
}

// handleChannelMessages returns recent messages for a channel, newest first.
func (h *Handlers) handleChannelMessages(w http.ResponseWriter, r *http.Request, channel string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	limit := parseIntQuery(r, "limit", 100)
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	msgs, err := db.RecentMessages(r.Context(), h.db, irc.LoginName(channel), limit)
	if err != nil {
		telemetry.LoggerWithCorr(r.Context()).Error("recent messages query failed", slog.Any("err", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(msgs)
}
