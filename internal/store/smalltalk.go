package store

import (
	"context"
	"database/sql"
	"time"
)

const patternColumns = `id, pattern, is_regex, answers, is_active, created_at`

// ActivePatterns returns active smalltalk patterns, most recently created first.
func (s *Store) ActivePatterns(ctx context.Context) ([]SmalltalkPattern, error) {
	conn, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, `SELECT `+patternColumns+` FROM smalltalk_patterns
		WHERE is_active = 1 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, wrap("list active patterns", err)
	}
	defer rows.Close()
	return scanPatterns(rows)
}

// ListPatterns returns every pattern, active or not, most recent first.
func (s *Store) ListPatterns(ctx context.Context) ([]SmalltalkPattern, error) {
	conn, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, `SELECT `+patternColumns+` FROM smalltalk_patterns
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, wrap("list patterns", err)
	}
	defer rows.Close()
	return scanPatterns(rows)
}

// AddPattern inserts an active pattern.
func (s *Store) AddPattern(ctx context.Context, pattern string, isRegex bool, answers string) (SmalltalkPattern, error) {
	conn, err := s.conn()
	if err != nil {
		return SmalltalkPattern{}, err
	}

	now := time.Now().UTC()
	res, err := conn.ExecContext(ctx,
		`INSERT INTO smalltalk_patterns (pattern, is_regex, answers, created_at) VALUES (?, ?, ?, ?)`,
		pattern, boolInt(isRegex), answers, formatTime(now),
	)
	if err != nil {
		return SmalltalkPattern{}, wrap("add pattern", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return SmalltalkPattern{}, wrap("add pattern", err)
	}
	return SmalltalkPattern{
		ID: id, Pattern: pattern, IsRegex: isRegex, Answers: answers,
		Active: true, CreatedAt: now.Truncate(time.Second),
	}, nil
}

// SetPatternActive enables or disables a pattern.
func (s *Store) SetPatternActive(ctx context.Context, id int64, active bool) error {
	conn, err := s.conn()
	if err != nil {
		return err
	}
	res, err := conn.ExecContext(ctx, `UPDATE smalltalk_patterns SET is_active = ? WHERE id = ?`, boolInt(active), id)
	return affectedOne("set pattern active", res, err)
}

func scanPatterns(rows *sql.Rows) ([]SmalltalkPattern, error) {
	var out []SmalltalkPattern
	for rows.Next() {
		var p SmalltalkPattern
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Pattern, &p.IsRegex, &p.Answers, &p.Active, &createdAt); err != nil {
			return nil, wrap("scan pattern", err)
		}
		p.CreatedAt = parseTime(createdAt)
		out = append(out, p)
	}
	return out, wrap("scan patterns", rows.Err())
}
