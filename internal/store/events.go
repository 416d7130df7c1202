package store

import (
	"context"
	"database/sql"
	"time"
)

// CreateEvent inserts ev and returns it with its id.
func (s *Store) CreateEvent(ctx context.Context, ev Event) (Event, error) {
	conn, err := s.conn()
	if err != nil {
		return Event{}, err
	}

	res, err := conn.ExecContext(ctx,
		`INSERT INTO events (title, starts_at, ends_at, location, details) VALUES (?, ?, ?, ?, ?)`,
		ev.Title, formatTime(ev.StartsAt), nullTime(ev.EndsAt), ev.Location, ev.Details,
	)
	if err != nil {
		return Event{}, wrap("create event", err)
	}
	ev.ID, err = res.LastInsertId()
	if err != nil {
		return Event{}, wrap("create event", err)
	}
	return ev, nil
}

// ListEvents returns events starting at or after from, earliest first.
// A zero from lists everything.
func (s *Store) ListEvents(ctx context.Context, from time.Time) ([]Event, error) {
	conn, err := s.conn()
	if err != nil {
		return nil, err
	}

	q := `SELECT id, title, starts_at, ends_at, location, details FROM events`
	var args []any
	if !from.IsZero() {
		q += ` WHERE starts_at >= ?`
		args = append(args, formatTime(from))
	}
	q += ` ORDER BY starts_at, id`

	rows, err := conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, wrap("list events", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var ev Event
		var startsAt string
		var endsAt sql.NullString
		if err := rows.Scan(&ev.ID, &ev.Title, &startsAt, &endsAt, &ev.Location, &ev.Details); err != nil {
			return nil, wrap("scan event", err)
		}
		ev.StartsAt = parseTime(startsAt)
		ev.EndsAt = parseNullTime(endsAt)
		out = append(out, ev)
	}
	return out, wrap("list events", rows.Err())
}

// DeleteEvent removes the event.
func (s *Store) DeleteEvent(ctx context.Context, id int64) error {
	conn, err := s.conn()
	if err != nil {
		return err
	}
	res, err := conn.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	return affectedOne("delete event", res, err)
}
