package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/onnwee/chatwire/testutil"
)

func TestSayShortMessageSingleLine(t *testing.T) {
	tr := testutil.NewFakeTransport()
	s := &Sender{T: tr, Limit: 450}
	if err := s.Say(context.Background(), "SomeChannel", "hello"); err != nil {
		t.Fatalf("Say: %v", err)
	}
	written := tr.Written()
	if len(written) != 1 {
		t.Fatalf("wrote %d lines, want 1", len(written))
	}
	if written[0] != "PRIVMSG #somechannel :hello" {
		t.Errorf("line = %q", written[0])
	}
}

func TestSaySplitsOversizedPayload(t *testing.T) {
	tr := testutil.NewFakeTransport()
	s := &Sender{T: tr, Limit: 10}
	if err := s.Say(context.Background(), "#chan", "aaaa bbbb cccc dddd"); err != nil {
		t.Fatalf("Say: %v", err)
	}
	written := tr.Written()
	if len(written) < 2 {
		t.Fatalf("wrote %d lines, want a split", len(written))
	}
	var pieces []string
	for _, line := range written {
		i := strings.Index(line, " :")
		if !strings.HasPrefix(line, "PRIVMSG #chan :") {
			t.Errorf("line = %q, want PRIVMSG to #chan", line)
		}
		payload := line[i+2:]
		if len(payload) > 10 {
			t.Errorf("payload %q exceeds limit", payload)
		}
		pieces = append(pieces, payload)
	}
	// Word-boundary splits lose exactly the boundary spaces.
	if got := strings.Join(pieces, " "); got != "aaaa bbbb cccc dddd" {
		t.Errorf("rejoined payloads = %q, want original text", got)
	}
}

func TestSayEmptyTextIsNoop(t *testing.T) {
	tr := testutil.NewFakeTransport()
	s := &Sender{T: tr}
	if err := s.Say(context.Background(), "#chan", ""); err != nil {
		t.Fatalf("Say: %v", err)
	}
	if n := len(tr.Written()); n != 0 {
		t.Errorf("wrote %d lines for empty text, want 0", n)
	}
}

func TestSayCanceledBetweenPieces(t *testing.T) {
	tr := testutil.NewFakeTransport()
	s := &Sender{T: tr, Limit: 4, Pacing: 0}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Say(ctx, "#chan", "aaaa bbbb"); err == nil {
		t.Error("Say with canceled ctx succeeded, want error")
	}
}
