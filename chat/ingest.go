package chat

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/onnwee/chatwire/config"
	"github.com/onnwee/chatwire/db"
	"github.com/onnwee/chatwire/irc"
	"github.com/onnwee/chatwire/telemetry"
	"github.com/onnwee/chatwire/transport"
)

// Store persists parsed chat messages.
type Store interface {
	Insert(ctx context.Context, m db.ChatMessage) error
}

// DBStore persists messages through the db package.
type DBStore struct{ DB *sql.DB }

func (s DBStore) Insert(ctx context.Context, m db.ChatMessage) error {
	return db.InsertChatMessage(ctx, s.DB, m)
}

// Dialer opens a transport; swapped out in tests.
type Dialer func(ctx context.Context) (transport.Transport, error)

// DialerFromConfig picks the transport named by cfg.Transport.
func DialerFromConfig(cfg *config.Config) Dialer {
	if cfg.Transport == "ws" {
		return func(ctx context.Context) (transport.Transport, error) {
			return transport.DialWebSocket(ctx, cfg.WebsocketURL)
		}
	}
	return func(ctx context.Context) (transport.Transport, error) {
		return transport.DialTCP(ctx, cfg.IRCAddr, true)
	}
}

// Ingestor consumes the inbound line stream and persists chat messages.
type Ingestor struct {
	Cfg   *config.Config
	Dial  Dialer
	Store Store

	connected atomic.Bool
}

// Connected reports whether the transport is currently up; the readiness
// probe uses it.
func (ing *Ingestor) Connected() bool { return ing.connected.Load() }

// Run connects, logs in, joins the configured channels, and consumes lines
// until ctx is canceled. Connection loss triggers reconnect with capped
// exponential backoff; a session that held for a while resets the backoff.
func (ing *Ingestor) Run(ctx context.Context) {
	backoff := ing.Cfg.ReconnectMin
	for {
		started := time.Now()
		err := ing.runOnce(ctx)
		ing.connected.Store(false)
		telemetry.SetConnected(false)
		if ctx.Err() != nil {
			return
		}
		if time.Since(started) > 30*time.Second {
			backoff = ing.Cfg.ReconnectMin
		}
		slog.Warn("chat connection lost", slog.Any("err", err), slog.Duration("retry_in", backoff))
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		inc(telemetry.Reconnects)
		backoff *= 2
		if backoff > ing.Cfg.ReconnectMax {
			backoff = ing.Cfg.ReconnectMax
		}
	}
}

func (ing *Ingestor) runOnce(ctx context.Context) error {
	t, err := ing.Dial(ctx)
	if err != nil {
		return err
	}
	defer t.Close()
	// Context cancellation unblocks a pending ReadLine by closing the transport.
	stop := context.AfterFunc(ctx, func() { _ = t.Close() })
	defer stop()

	if err := transport.Login(ctx, t, ing.Cfg.BotUsername, ing.Cfg.OAuthToken); err != nil {
		return err
	}
	for _, ch := range ing.Cfg.Channels {
		if err := transport.Join(ctx, t, ch); err != nil {
			return err
		}
	}
	ing.connected.Store(true)
	telemetry.SetConnected(true)
	slog.Info("chat connected", slog.Any("channels", ing.Cfg.Channels))

	for {
		line, err := t.ReadLine(ctx)
		if err != nil {
			return err
		}
		ing.handleLine(ctx, t, line)
	}
}

// handleLine tokenizes one inbound line and dispatches on its command.
func (ing *Ingestor) handleLine(ctx context.Context, t transport.Transport, line string) {
	inc(telemetry.LinesReceived)
	msg, err := irc.Parse(line)
	if err != nil {
		telemetry.CountMalformed(malformedReason(err))
		slog.Debug("skipping malformed line", slog.String("line", line), slog.Any("err", err))
		return
	}
	switch msg.Command {
	case "PING":
		param := ""
		if len(msg.Params) > 0 {
			param = msg.Params[0]
		}
		if err := t.WriteLine(ctx, "PONG :"+param); err != nil {
			slog.Warn("pong write failed", slog.Any("err", err))
			return
		}
		inc(telemetry.PongsSent)
	case "PRIVMSG":
		ing.storePrivmsg(ctx, msg)
	case "RECONNECT":
		// Server-initiated reconnect; closing feeds the backoff loop.
		slog.Info("server requested reconnect")
		_ = t.Close()
	}
}

func (ing *Ingestor) storePrivmsg(ctx context.Context, msg *irc.Message) {
	if len(msg.Params) < 2 {
		return
	}
	ctx, span := telemetry.StartSpan(ctx, "chat", "store_privmsg")
	defer span.End()

	username := msg.Prefix
	if i := strings.IndexByte(username, '!'); i >= 0 {
		username = username[:i]
	}
	id := msg.Tag("id")
	if id == "" {
		id = uuid.New().String()
	}
	sentAt := time.Now().UTC()
	if ts := msg.Tag("tmi-sent-ts"); ts != "" {
		if n, err := strconv.ParseInt(ts, 10, 64); err == nil {
			sentAt = time.UnixMilli(n).UTC()
		}
	}

	m := db.ChatMessage{
		MessageID:   id,
		Channel:     irc.LoginName(msg.Params[0]),
		Username:    username,
		DisplayName: msg.Tag("display-name"),
		Message:     msg.Params[1],
		Badges:      serializeBadges(irc.ParseBadges(msg.Tag("badges"))),
		Emotes:      msg.Tag("emotes"),
		Color:       msg.Tag("color"),
		Raw:         msg.Raw,
		SentAt:      sentAt,
	}
	if err := ing.Store.Insert(ctx, m); err != nil {
		inc(telemetry.StoreFailures)
		telemetry.RecordError(span, err)
		telemetry.LoggerWithCorr(ctx).Error("failed to insert chat message", slog.Any("err", err))
		return
	}
	inc(telemetry.MessagesStored)
}

// serializeBadges renders decoded badges as "name:level," pairs, sorted by
// name so the stored form is stable. Invalid levels serialize with an empty
// level part.
func serializeBadges(b irc.Badges) string {
	if len(b) == 0 {
		return ""
	}
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(name)
		sb.WriteByte(':')
		if lvl := b[name]; lvl.Valid {
			sb.WriteString(strconv.Itoa(lvl.Level))
		}
		sb.WriteByte(',')
	}
	return sb.String()
}

func malformedReason(err error) string {
	switch {
	case errors.Is(err, irc.ErrUnterminatedTags):
		return "unterminated_tags"
	case errors.Is(err, irc.ErrUnterminatedPrefix):
		return "unterminated_prefix"
	case errors.Is(err, irc.ErrMissingCommand):
		return "missing_command"
	default:
		return "other"
	}
}

func inc(c prometheus.Counter) {
	if c != nil {
		c.Inc()
	}
}
