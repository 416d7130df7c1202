package store

import (
	"context"
	"fmt"
	"slices"
	"time"
)

// AppendMessage records one transcript line.
func (s *Store) AppendMessage(ctx context.Context, sender Sender, text string) (Message, error) {
	if !ValidSender(sender) {
		return Message{}, fmt.Errorf("store: append message: invalid sender %q", sender)
	}
	conn, err := s.conn()
	if err != nil {
		return Message{}, err
	}

	now := time.Now().UTC()
	res, err := conn.ExecContext(ctx,
		`INSERT INTO messages (sender, text, created_at) VALUES (?, ?, ?)`,
		string(sender), text, formatTime(now),
	)
	if err != nil {
		return Message{}, wrap("append message", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Message{}, wrap("append message", err)
	}
	return Message{ID: id, Sender: sender, Text: text, CreatedAt: now.Truncate(time.Second)}, nil
}

// RecentMessages returns the last limit messages in chronological order.
func (s *Store) RecentMessages(ctx context.Context, limit int) ([]Message, error) {
	conn, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx,
		`SELECT id, sender, text, created_at FROM messages ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, wrap("recent messages", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		var sender, createdAt string
		if err := rows.Scan(&m.ID, &sender, &m.Text, &createdAt); err != nil {
			return nil, wrap("scan message", err)
		}
		m.Sender = Sender(sender)
		m.CreatedAt = parseTime(createdAt)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("recent messages", err)
	}
	slices.Reverse(out)
	return out, nil
}
