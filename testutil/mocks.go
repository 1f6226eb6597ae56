package testutil

import (
	"context"
	"net"
	"sync"

	"github.com/onnwee/chatwire/db"
)

// FakeTransport is an in-memory transport.Transport for tests: incoming lines
// are fed through the Incoming channel, outgoing lines are recorded.
type FakeTransport struct {
	Incoming chan string

	mu      sync.Mutex
	written []string

	closeOnce sync.Once
	closed    chan struct{}
}

func NewFakeTransport() *FakeTransport {
	return &FakeTransport{
		Incoming: make(chan string, 64),
		closed:   make(chan struct{}),
	}
}

func (f *FakeTransport) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-f.closed:
		return "", net.ErrClosed
	case line := <-f.Incoming:
		return line, nil
	}
}

func (f *FakeTransport) WriteLine(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-f.closed:
		return net.ErrClosed
	default:
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, line)
	return nil
}

func (f *FakeTransport) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

// Written returns a copy of all lines written so far.
func (f *FakeTransport) Written() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.written))
	copy(out, f.written)
	return out
}

// MemStore collects chat messages in memory; it satisfies chat.Store.
type MemStore struct {
	mu       sync.Mutex
	Messages []db.ChatMessage
}

func (s *MemStore) Insert(ctx context.Context, m db.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, m)
	return nil
}

// All returns a copy of the stored messages.
func (s *MemStore) All() []db.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]db.ChatMessage, len(s.Messages))
	copy(out, s.Messages)
	return out
}
