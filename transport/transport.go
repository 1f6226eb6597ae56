// Package transport provides raw line transports to the chat service: a TLS
// TCP socket and a WebSocket, both speaking one logical IRC line at a time
// with CR/LF framing handled here. The parsing of those lines lives in the
// irc package; this package only moves bytes.
package transport

import (
	"context"
	"strings"

	"github.com/onnwee/chatwire/irc"
)

// Transport is a bidirectional line pipe. ReadLine blocks until a full line
// arrives (returned without its CR/LF); WriteLine appends the framing.
// Close unblocks a pending ReadLine; the usual lifecycle is a goroutine that
// waits on ctx.Done and calls Close.
type Transport interface {
	ReadLine(ctx context.Context) (string, error)
	WriteLine(ctx context.Context, line string) error
	Close() error
}

// Login performs the Twitch IRC handshake: capability request, then
// PASS/NICK. The token is prefixed with "oauth:" when the env value omits it.
func Login(ctx context.Context, t Transport, nick, token string) error {
	if token != "" && !strings.HasPrefix(token, "oauth:") {
		token = "oauth:" + token
	}
	for _, line := range []string{
		"CAP REQ :twitch.tv/tags twitch.tv/commands",
		"PASS " + token,
		"NICK " + irc.LoginName(nick),
	} {
		if err := t.WriteLine(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

// Join requests membership in a channel, canonicalizing the name first.
func Join(ctx context.Context, t Transport, channel string) error {
	return t.WriteLine(ctx, "JOIN "+irc.ChannelName(channel))
}
