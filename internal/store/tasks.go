package store

import (
	"context"
	"database/sql"
	"time"
)

// CreateTask inserts a task and returns it with its id and creation time.
func (s *Store) CreateTask(ctx context.Context, title string, dueAt *time.Time) (Task, error) {
	conn, err := s.conn()
	if err != nil {
		return Task{}, err
	}

	now := time.Now().UTC()
	res, err := conn.ExecContext(ctx,
		`INSERT INTO tasks (title, due_at, created_at) VALUES (?, ?, ?)`,
		title, nullTime(dueAt), formatTime(now),
	)
	if err != nil {
		return Task{}, wrap("create task", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Task{}, wrap("create task", err)
	}

	t := Task{ID: id, Title: title, CreatedAt: now.Truncate(time.Second)}
	if dueAt != nil {
		d := *dueAt
		t.DueAt = &d
	}
	return t, nil
}

// ListTasks returns tasks ordered by completion, then due time (unscheduled last).
func (s *Store) ListTasks(ctx context.Context, includeCompleted bool) ([]Task, error) {
	conn, err := s.conn()
	if err != nil {
		return nil, err
	}

	q := `SELECT id, title, is_completed, due_at, created_at FROM tasks`
	if !includeCompleted {
		q += ` WHERE is_completed = 0`
	}
	q += ` ORDER BY is_completed, due_at IS NULL, due_at, id`

	rows, err := conn.QueryContext(ctx, q)
	if err != nil {
		return nil, wrap("list tasks", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		var t Task
		var due sql.NullString
		var createdAt string
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &due, &createdAt); err != nil {
			return nil, wrap("scan task", err)
		}
		t.DueAt = parseNullTime(due)
		t.CreatedAt = parseTime(createdAt)
		out = append(out, t)
	}
	return out, wrap("list tasks", rows.Err())
}

// CompleteTask marks the task done.
func (s *Store) CompleteTask(ctx context.Context, id int64) error {
	conn, err := s.conn()
	if err != nil {
		return err
	}
	res, err := conn.ExecContext(ctx, `UPDATE tasks SET is_completed = 1 WHERE id = ?`, id)
	return affectedOne("complete task", res, err)
}
