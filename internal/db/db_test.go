package db

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestOpen_CreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	v, err := database.Version()
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if want := len(migrations) - 1; v != want {
		t.Errorf("version: got %d, want %d", v, want)
	}
	if !filepath.IsAbs(database.Path()) {
		t.Errorf("path should be absolute, got %q", database.Path())
	}
}

func TestSize(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	before, err := database.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if before <= 0 {
		t.Errorf("size: got %d, want > 0", before)
	}

	if _, err := database.Conn().Exec(`INSERT INTO notes (title, content) VALUES ('a', ?)`, strings.Repeat("x", 8192)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	after, err := database.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if after <= before {
		t.Errorf("size after insert: got %d, want > %d", after, before)
	}
}

func TestOpen_CreatesParentDirs(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "test.db")
	database, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()
}

func TestOpen_TablesExist(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	tables := []string{
		"tasks", "notes", "reminders", "events",
		"profile", "qa_pairs", "persona", "projects",
		"training_phrases", "smalltalk_patterns", "messages", "schema_migrations",
	}
	for _, table := range tables {
		var count int
		err := database.Conn().QueryRow(
			`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("query table %q: %v", table, err)
		}
		if count != 1 {
			t.Errorf("table %q not found", table)
		}
	}
}

func TestOpen_MigrationsRecorded(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	var count int
	if err := database.Conn().QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("query migrations: %v", err)
	}
	if count != len(migrations) {
		t.Errorf("expected %d migrations recorded, got %d", len(migrations), count)
	}

	v, err := database.Version()
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != len(migrations)-1 {
		t.Errorf("version: got %d, want %d", v, len(migrations)-1)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db1, err := Open(dbPath)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if _, err := db1.Conn().Exec(`INSERT INTO notes (title, content) VALUES ('a', 'b')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	db1.Close()

	db2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer db2.Close()

	var count int
	db2.Conn().QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&count)
	if count != 1 {
		t.Errorf("notes after re-open: got %d, want 1", count)
	}
}

func TestTrainingPhrases_UniqueLabelText(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	conn := database.Conn()
	if _, err := conn.Exec(`INSERT INTO training_phrases (label, text) VALUES ('tasks', 'add task')`); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := conn.Exec(`INSERT INTO training_phrases (label, text) VALUES ('tasks', 'add task')`); err == nil {
		t.Error("expected unique constraint violation")
	}
}

func TestClose(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := database.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := database.Version(); err == nil {
		t.Error("expected Version to fail after Close")
	}
}
