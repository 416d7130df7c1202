package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL migration statements.
// Each entry is applied once in order. New migrations are appended at the end.
var migrations = []string{
	// Migration 0..3: personal records
	`CREATE TABLE IF NOT EXISTS tasks (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		title        TEXT NOT NULL,
		is_completed INTEGER NOT NULL DEFAULT 0,
		due_at       DATETIME,
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS notes (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		title      TEXT NOT NULL,
		content    TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS reminders (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		message    TEXT NOT NULL,
		due_at     DATETIME NOT NULL,
		delivered  INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS events (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		title     TEXT NOT NULL,
		starts_at DATETIME NOT NULL,
		ends_at   DATETIME,
		location  TEXT NOT NULL DEFAULT '',
		details   TEXT NOT NULL DEFAULT ''
	)`,

	// Migration 4..7: about-me records
	`CREATE TABLE IF NOT EXISTS profile (
		id           INTEGER PRIMARY KEY CHECK (id = 1),
		display_name TEXT NOT NULL DEFAULT '',
		short_bio    TEXT NOT NULL DEFAULT '',
		full_bio     TEXT NOT NULL DEFAULT '',
		email        TEXT NOT NULL DEFAULT '',
		location     TEXT NOT NULL DEFAULT '',
		website      TEXT NOT NULL DEFAULT '',
		timezone     TEXT NOT NULL DEFAULT 'Europe/Paris'
	)`,

	`CREATE TABLE IF NOT EXISTS qa_pairs (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		question TEXT NOT NULL,
		answer   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS persona (
		id                INTEGER PRIMARY KEY CHECK (id = 1),
		tone              TEXT NOT NULL DEFAULT 'friendly',
		greeting_template TEXT NOT NULL DEFAULT '',
		closing_template  TEXT NOT NULL DEFAULT '',
		refer_to_user_as  TEXT NOT NULL DEFAULT '',
		third_person      INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL,
		summary     TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		url         TEXT NOT NULL DEFAULT '',
		tags        TEXT NOT NULL DEFAULT '',
		is_active   INTEGER NOT NULL DEFAULT 1,
		sort_order  INTEGER NOT NULL DEFAULT 0
	)`,

	// Migration 8..10: assistant state
	`CREATE TABLE IF NOT EXISTS training_phrases (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		label      TEXT NOT NULL,
		text       TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (label, text)
	)`,

	`CREATE TABLE IF NOT EXISTS smalltalk_patterns (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		pattern    TEXT NOT NULL,
		is_regex   INTEGER NOT NULL DEFAULT 0,
		answers    TEXT NOT NULL,
		is_active  INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		sender     TEXT NOT NULL CHECK (sender IN ('user', 'assistant')),
		text       TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE INDEX IF NOT EXISTS idx_reminders_due      ON reminders(delivered, due_at)`,
	`CREATE INDEX IF NOT EXISTS idx_events_starts      ON events(starts_at)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_order     ON projects(is_active, sort_order, id)`,
	`CREATE INDEX IF NOT EXISTS idx_smalltalk_created  ON smalltalk_patterns(is_active, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_created   ON messages(created_at DESC)`,
}

// applyMigrations runs any migrations that have not yet been applied.
func applyMigrations(conn *sql.DB) error {
	// Ensure the migration tracking table exists first.
	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for i, stmt := range migrations {
		var count int
		row := conn.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, i)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("check migration %d: %w", i, err)
		}
		if count > 0 {
			continue
		}

		tx, err := conn.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", i, err)
		}
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", i, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, i); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", i, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", i, err)
		}
	}

	return nil
}
