package store

import (
	"context"
	"time"
)

// CreateReminder inserts an undelivered reminder.
func (s *Store) CreateReminder(ctx context.Context, message string, dueAt time.Time) (Reminder, error) {
	conn, err := s.conn()
	if err != nil {
		return Reminder{}, err
	}

	now := time.Now().UTC()
	res, err := conn.ExecContext(ctx,
		`INSERT INTO reminders (message, due_at, created_at) VALUES (?, ?, ?)`,
		message, formatTime(dueAt), formatTime(now),
	)
	if err != nil {
		return Reminder{}, wrap("create reminder", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Reminder{}, wrap("create reminder", err)
	}
	return Reminder{ID: id, Message: message, DueAt: dueAt, CreatedAt: now.Truncate(time.Second)}, nil
}

// ListReminders returns reminders ordered by due time.
func (s *Store) ListReminders(ctx context.Context, pendingOnly bool) ([]Reminder, error) {
	conn, err := s.conn()
	if err != nil {
		return nil, err
	}

	q := `SELECT id, message, due_at, delivered, created_at FROM reminders`
	if pendingOnly {
		q += ` WHERE delivered = 0`
	}
	q += ` ORDER BY due_at, id`

	rows, err := conn.QueryContext(ctx, q)
	if err != nil {
		return nil, wrap("list reminders", err)
	}
	defer rows.Close()

	var out []Reminder
	for rows.Next() {
		var r Reminder
		var dueAt, createdAt string
		if err := rows.Scan(&r.ID, &r.Message, &dueAt, &r.Delivered, &createdAt); err != nil {
			return nil, wrap("scan reminder", err)
		}
		r.DueAt = parseTime(dueAt)
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}
	return out, wrap("list reminders", rows.Err())
}

// CancelReminder deletes the reminder.
func (s *Store) CancelReminder(ctx context.Context, id int64) error {
	conn, err := s.conn()
	if err != nil {
		return err
	}
	res, err := conn.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	return affectedOne("cancel reminder", res, err)
}

// MarkDueRemindersDelivered flags every undelivered reminder due at or before
// now and returns how many were flagged.
func (s *Store) MarkDueRemindersDelivered(ctx context.Context, now time.Time) (int, error) {
	conn, err := s.conn()
	if err != nil {
		return 0, err
	}
	res, err := conn.ExecContext(ctx,
		`UPDATE reminders SET delivered = 1 WHERE delivered = 0 AND due_at <= ?`, formatTime(now))
	if err != nil {
		return 0, wrap("mark reminders delivered", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrap("mark reminders delivered", err)
	}
	return int(n), nil
}
