package transport

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

type wsTransport struct {
	conn *websocket.Conn

	mu      sync.Mutex // serializes writes
	pending []string   // lines from a frame not yet handed out
}

// DialWebSocket connects to a wss:// (or ws://) chat endpoint. The websocket
// interface carries the same IRC lines as the raw socket; a single text frame
// may hold several CRLF-separated lines, which ReadLine hands out one at a time.
func DialWebSocket(ctx context.Context, url string) (Transport, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial websocket %s: %w", url, err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return &wsTransport{conn: conn}, nil
}

func (t *wsTransport) ReadLine(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if len(t.pending) > 0 {
			line := t.pending[0]
			t.pending = t.pending[1:]
			return line, nil
		}
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			return "", err
		}
		for _, line := range strings.Split(string(data), "\r\n") {
			line = strings.TrimSuffix(line, "\r")
			if line != "" {
				t.pending = append(t.pending, line)
			}
		}
	}
}

func (t *wsTransport) WriteLine(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if d, ok := ctx.Deadline(); ok {
		_ = t.conn.SetWriteDeadline(d)
	}
	return t.conn.WriteMessage(websocket.TextMessage, []byte(line+"\r\n"))
}

func (t *wsTransport) Close() error { return t.conn.Close() }
