package db

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"
)

// setupTestDB opens TEST_PG_DSN and migrates, or skips. testutil.SetupTestDB
// is not usable here (it imports this package).
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN not set")
	}
	database, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := Migrate(context.Background(), database); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestInsertAndRecentMessages(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i, text := range []string{"first", "second", "third"} {
		msg := ChatMessage{
			MessageID: "test-" + text,
			Channel:   "somechannel",
			Username:  "alice",
			Message:   text,
			Badges:    "subscriber:12,",
			SentAt:    base.Add(time.Duration(i) * time.Second),
		}
		if err := InsertChatMessage(ctx, database, msg); err != nil {
			t.Fatalf("InsertChatMessage: %v", err)
		}
	}

	got, err := RecentMessages(ctx, database, "somechannel", 2)
	if err != nil {
		t.Fatalf("RecentMessages: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d messages, want 2", len(got))
	}
	// Newest first
	if got[0].Message != "third" || got[1].Message != "second" {
		t.Errorf("unexpected order: %q then %q", got[0].Message, got[1].Message)
	}
}

func TestInsertDuplicateMessageID(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	msg := ChatMessage{
		MessageID: "dup-1",
		Channel:   "somechannel",
		Username:  "bob",
		Message:   "hello",
		SentAt:    time.Now().UTC(),
	}
	if err := InsertChatMessage(ctx, database, msg); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	// Replays after reconnect must be silently dropped.
	if err := InsertChatMessage(ctx, database, msg); err != nil {
		t.Fatalf("duplicate insert should be a no-op, got: %v", err)
	}

	var count int
	if err := database.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chat_messages WHERE message_id='dup-1'`).Scan(&count); err != nil {
		t.Fatalf("count query: %v", err)
	}
	if count != 1 {
		t.Errorf("stored %d copies, want 1", count)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	database := setupTestDB(t)
	// SetupTestDB already migrated once; a second pass must not fail.
	if err := Migrate(context.Background(), database); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}
