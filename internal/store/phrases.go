package store

import (
	"context"
)

// AllPhrases returns every stored training phrase in insertion order.
func (s *Store) AllPhrases(ctx context.Context) ([]TrainingPhrase, error) {
	conn, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, `SELECT id, label, text FROM training_phrases ORDER BY id`)
	if err != nil {
		return nil, wrap("list phrases", err)
	}
	defer rows.Close()

	var out []TrainingPhrase
	for rows.Next() {
		var p TrainingPhrase
		if err := rows.Scan(&p.ID, &p.Label, &p.Text); err != nil {
			return nil, wrap("scan phrase", err)
		}
		out = append(out, p)
	}
	return out, wrap("list phrases", rows.Err())
}

// AddPhrase stores a training phrase. It reports false without error when
// the (label, text) pair already exists.
func (s *Store) AddPhrase(ctx context.Context, label, text string) (bool, error) {
	conn, err := s.conn()
	if err != nil {
		return false, err
	}

	res, err := conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO training_phrases (label, text) VALUES (?, ?)`, label, text)
	if err != nil {
		return false, wrap("add phrase", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrap("add phrase", err)
	}
	return n > 0, nil
}

// CountPhrasesByLabel returns the number of stored phrases per label.
func (s *Store) CountPhrasesByLabel(ctx context.Context) (map[string]int, error) {
	conn, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, `SELECT label, COUNT(*) FROM training_phrases GROUP BY label`)
	if err != nil {
		return nil, wrap("count phrases", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, wrap("scan phrase count", err)
		}
		counts[label] = n
	}
	return counts, wrap("count phrases", rows.Err())
}
