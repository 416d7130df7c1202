package mcp

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/aide-assistant/aide/internal/assistant"
	"github.com/aide-assistant/aide/internal/config"
	"github.com/aide-assistant/aide/internal/datetime"
	"github.com/aide-assistant/aide/internal/db"
	"github.com/aide-assistant/aide/internal/intent"
	"github.com/aide-assistant/aide/internal/store"
)

func setupTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	st := store.NewStore(database)

	classifier := intent.New(st, config.DefaultConfig().Classifier)
	router := assistant.NewRouter(assistant.Deps{
		Tasks: st, Notes: st, Reminders: st, Events: st, About: st,
		Classifier: classifier,
		Extractor:  datetime.NewExtractor(time.UTC),
		Clock:      datetime.FixedClock(time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC)),
	})
	return NewServer(router, classifier, st, "test", nil), st
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func TestHandleChat(t *testing.T) {
	s, st := setupTestServer(t)
	ctx := context.Background()

	res, err := s.handleChat(ctx, call(map[string]any{"message": "note Trip: Pack passport"}))
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(t, res); got != "Saved note: Trip" {
		t.Errorf("got %q, want %q", got, "Saved note: Trip")
	}
	notes, _ := st.ListNotes(ctx, 10)
	if len(notes) != 1 {
		t.Errorf("expected 1 note, got %d", len(notes))
	}
}

func TestHandleChat_MissingMessage(t *testing.T) {
	s, _ := setupTestServer(t)
	res, err := s.handleChat(context.Background(), call(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected tool error")
	}
}

func TestHandleRetrainAndStatus(t *testing.T) {
	s, _ := setupTestServer(t)
	ctx := context.Background()

	res, _ := s.handleStatus(ctx, call(nil))
	if got := resultText(t, res); !strings.Contains(got, "Trained:   false") {
		t.Errorf("status before training: %q", got)
	}

	res, _ = s.handleRetrain(ctx, call(nil))
	if got := resultText(t, res); !strings.HasPrefix(got, "Trained on 28 phrases across 9 labels") {
		t.Errorf("retrain: got %q", got)
	}

	res, _ = s.handleStatus(ctx, call(nil))
	got := resultText(t, res)
	if !strings.Contains(got, "Trained:   true") || !strings.Contains(got, "help") {
		t.Errorf("status after training: %q", got)
	}
}

func TestHandleAddPhrase(t *testing.T) {
	s, st := setupTestServer(t)
	ctx := context.Background()

	res, _ := s.handleAddPhrase(ctx, call(map[string]any{"label": "weather", "text": "rain?"}))
	if !res.IsError || !strings.Contains(resultText(t, res), "invalid label") {
		t.Errorf("bad label: %+v", res)
	}

	res, _ = s.handleAddPhrase(ctx, call(map[string]any{"label": "tasks", "text": "   "}))
	if !res.IsError {
		t.Error("expected error for blank text")
	}

	res, _ = s.handleAddPhrase(ctx, call(map[string]any{"label": "Tasks", "text": "put it on my list"}))
	if got := resultText(t, res); !strings.HasPrefix(got, "Added phrase for tasks") {
		t.Errorf("add: got %q", got)
	}
	res, _ = s.handleAddPhrase(ctx, call(map[string]any{"label": "tasks", "text": "put it on my list"}))
	if got := resultText(t, res); !strings.HasPrefix(got, "Phrase already known") {
		t.Errorf("duplicate: got %q", got)
	}

	phrases, _ := st.AllPhrases(ctx)
	if len(phrases) != 1 {
		t.Errorf("expected 1 phrase, got %d", len(phrases))
	}

	res, _ = s.handleRetrain(ctx, call(nil))
	if got := resultText(t, res); !strings.HasPrefix(got, "Trained on 29 phrases") {
		t.Errorf("retrain with stored phrase: got %q", got)
	}
}
