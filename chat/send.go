package chat

import (
	"context"
	"time"

	"github.com/onnwee/chatwire/irc"
	"github.com/onnwee/chatwire/telemetry"
	"github.com/onnwee/chatwire/transport"
)

// Sender writes outgoing chat messages, splitting payloads that exceed the
// protocol line budget and pacing consecutive writes.
type Sender struct {
	T      transport.Transport
	Limit  int           // max payload bytes per PRIVMSG; defaults to 450
	Pacing time.Duration // delay between the pieces of a split message
}

// Say sends text to a channel as one or more PRIVMSG lines. Oversized
// payloads are split at word boundaries; each extra piece waits Pacing before
// it goes out so a long message cannot burst past the chat rate limit.
// An empty text is a no-op.
func (s *Sender) Say(ctx context.Context, channel, text string) error {
	if text == "" {
		return nil
	}
	target := irc.ChannelName(channel)
	limit := s.Limit
	if limit <= 0 {
		limit = 450
	}
	for {
		head, tail := irc.SplitLine(text, limit)
		if err := s.T.WriteLine(ctx, "PRIVMSG "+target+" :"+head); err != nil {
			return err
		}
		inc(telemetry.LinesSent)
		if tail == "" {
			return nil
		}
		inc(telemetry.LineSplits)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.Pacing):
		}
		text = tail
	}
}
