package store

import (
	"context"
	"errors"
)

// Stats summarises what the database holds.
type Stats struct {
	Tasks            int
	OpenTasks        int
	Notes            int
	PendingReminders int
	Events           int
	Phrases          int
	Patterns         int
	Messages         int
}

// Stats counts rows across the modules. Tables that are missing count as
// zero.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	conn, err := s.conn()
	if err != nil {
		return Stats{}, err
	}

	var st Stats
	queries := []struct {
		dst *int
		sql string
	}{
		{&st.Tasks, `SELECT COUNT(*) FROM tasks`},
		{&st.OpenTasks, `SELECT COUNT(*) FROM tasks WHERE is_completed = 0`},
		{&st.Notes, `SELECT COUNT(*) FROM notes`},
		{&st.PendingReminders, `SELECT COUNT(*) FROM reminders WHERE delivered = 0`},
		{&st.Events, `SELECT COUNT(*) FROM events`},
		{&st.Phrases, `SELECT COUNT(*) FROM training_phrases`},
		{&st.Patterns, `SELECT COUNT(*) FROM smalltalk_patterns WHERE is_active = 1`},
		{&st.Messages, `SELECT COUNT(*) FROM messages`},
	}
	for _, q := range queries {
		err := conn.QueryRowContext(ctx, q.sql).Scan(q.dst)
		if err = wrap("stats", err); err != nil && !errors.Is(err, ErrUnavailable) {
			return Stats{}, err
		}
	}
	return st, nil
}
