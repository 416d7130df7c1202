package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aide-assistant/aide/internal/assistant"
	"github.com/aide-assistant/aide/internal/datetime"
	"github.com/aide-assistant/aide/internal/db"
	"github.com/aide-assistant/aide/internal/store"
)

func setupTestDB(t *testing.T) *store.Store {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return store.NewStore(database)
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDescribePhraseCounts(t *testing.T) {
	if got := describePhraseCounts(nil); got != "" {
		t.Errorf("empty: got %q", got)
	}
	got := describePhraseCounts(map[string]int{"notes": 1, "tasks": 3, "weather": 2})
	want := " (3 tasks, 1 notes, 2 weather?)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

const profileTOML = `
[profile]
display_name = "Ada"
short_bio = "Engineer"

[persona]
greeting_template = "Hi {name}!"

[[qa]]
question = "Favourite language?"
answer = "Go"

[[project]]
title = "aide"
summary = "assistant"
order = 1

[[project]]
title = "old"
is_active = false
`

func TestProfileImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "me.toml")
	if err := os.WriteFile(path, []byte(profileTOML), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := loadProfileFile(path)
	if err != nil {
		t.Fatalf("loadProfileFile: %v", err)
	}
	if f.Profile == nil || f.Persona == nil || len(f.QA) != 1 || len(f.Projects) != 2 {
		t.Fatalf("unexpected parse: %+v", f)
	}

	st := setupTestDB(t)
	ctx := context.Background()
	if err := importProfile(ctx, st, f); err != nil {
		t.Fatalf("importProfile: %v", err)
	}

	p, _ := st.GetProfile(ctx)
	if p == nil || p.DisplayName != "Ada" {
		t.Errorf("profile: got %+v", p)
	}
	persona, _ := st.GetPersona(ctx)
	if persona == nil || persona.Tone != "friendly" {
		t.Errorf("persona: got %+v", persona)
	}
	projects, _ := st.ListActiveProjects(ctx, 10)
	if len(projects) != 1 || projects[0].Title != "aide" {
		t.Errorf("active projects: got %+v", projects)
	}
}

func TestLoadProfileFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"qa.toml":      "[[qa]]\nquestion = \"q\"\n",
		"project.toml": "[[project]]\nsummary = \"no title\"\n",
		"broken.toml":  "[profile\n",
	} {
		path := filepath.Join(dir, name)
		os.WriteFile(path, []byte(content), 0o644)
		if _, err := loadProfileFile(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestConverse_Scripted(t *testing.T) {
	st := setupTestDB(t)
	router := assistant.NewRouter(assistant.Deps{
		Tasks: st, Notes: st, Reminders: st, Events: st, About: st,
		Extractor: datetime.NewExtractor(time.UTC),
		Clock:     datetime.FixedClock(time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC)),
	})

	in := strings.NewReader("add task Buy milk\nwhat time is it\n")
	var out bytes.Buffer
	if err := converse(context.Background(), router, in, &out, false); err != nil {
		t.Fatalf("converse: %v", err)
	}

	want := "Added task #1: Buy milk\nIt is 2025-08-25 12:00:00 UTC\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestConverse_PromptStopsOnExit(t *testing.T) {
	st := setupTestDB(t)
	router := assistant.NewRouter(assistant.Deps{Tasks: st, Notes: st, Reminders: st, Events: st})

	in := strings.NewReader("\nexit\nadd task never\n")
	var out bytes.Buffer
	if err := converse(context.Background(), router, in, &out, true); err != nil {
		t.Fatalf("converse: %v", err)
	}
	tasks, _ := st.ListTasks(context.Background(), true)
	if len(tasks) != 0 {
		t.Errorf("expected no tasks after exit, got %d", len(tasks))
	}
	if strings.Count(out.String(), "> ") != 2 {
		t.Errorf("expected two prompts, got %q", out.String())
	}
}

func TestExecute_PhrasesAdd(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "aide.db")
	t.Setenv("AIDE_DB", dbPath)
	t.Setenv("TIME_ZONE", "UTC")

	rootCmd.SetArgs([]string{"--config", filepath.Join(dir, "config.toml"), "phrases", "add", "Tasks", "put", "bread", "on", "my", "list"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	rootCmd.SetArgs([]string{"--config", filepath.Join(dir, "config.toml"), "phrases", "add", "weather", "rain"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("expected error for unknown label")
	}

	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()
	phrases, err := store.NewStore(database).AllPhrases(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(phrases) != 1 || phrases[0].Label != "tasks" || phrases[0].Text != "put bread on my list" {
		t.Errorf("got %+v", phrases)
	}
}
