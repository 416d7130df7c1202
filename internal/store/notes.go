package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// CreateNote inserts a note.
func (s *Store) CreateNote(ctx context.Context, title, content string) (Note, error) {
	conn, err := s.conn()
	if err != nil {
		return Note{}, err
	}

	now := time.Now().UTC()
	res, err := conn.ExecContext(ctx,
		`INSERT INTO notes (title, content, created_at) VALUES (?, ?, ?)`,
		title, content, formatTime(now),
	)
	if err != nil {
		return Note{}, wrap("create note", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Note{}, wrap("create note", err)
	}
	return Note{ID: id, Title: title, Content: content, CreatedAt: now.Truncate(time.Second)}, nil
}

// SearchNotes returns notes whose title or content contains query,
// ignoring case, newest first.
func (s *Store) SearchNotes(ctx context.Context, query string, limit int) ([]Note, error) {
	conn, err := s.conn()
	if err != nil {
		return nil, err
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	rows, err := conn.QueryContext(ctx, `
		SELECT id, title, content, created_at FROM notes
		WHERE lower(title) LIKE ? ESCAPE '\' OR lower(content) LIKE ? ESCAPE '\'
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		pattern, pattern, limit,
	)
	if err != nil {
		return nil, wrap("search notes", err)
	}
	defer rows.Close()
	return scanNotes(rows)
}

// ListNotes returns the most recent notes.
func (s *Store) ListNotes(ctx context.Context, limit int) ([]Note, error) {
	conn, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx,
		`SELECT id, title, content, created_at FROM notes ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, wrap("list notes", err)
	}
	defer rows.Close()
	return scanNotes(rows)
}

func scanNotes(rows *sql.Rows) ([]Note, error) {
	var out []Note
	for rows.Next() {
		var n Note
		var createdAt string
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &createdAt); err != nil {
			return nil, wrap("scan note", err)
		}
		n.CreatedAt = parseTime(createdAt)
		out = append(out, n)
	}
	return out, wrap("scan notes", rows.Err())
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
