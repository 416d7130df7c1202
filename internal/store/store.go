package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aide-assistant/aide/internal/db"
)

var (
	// ErrUnavailable reports that a collaborator's backing storage is missing
	// or not initialised. Callers treat it as "module not installed".
	ErrUnavailable = errors.New("store: unavailable")

	// ErrNotFound is returned by id-addressed updates and deletes.
	ErrNotFound = errors.New("store: not found")
)

// timeLayout is how instants are written. All stored instants are UTC so
// that text comparison in SQL orders them correctly.
const timeLayout = "2006-01-02 15:04:05"

// Store provides read/write access to the aide SQLite database.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given DB.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// conn returns the live connection, or ErrUnavailable for a nil store.
func (s *Store) conn() (*sql.DB, error) {
	if s == nil || s.db == nil {
		return nil, ErrUnavailable
	}
	return s.db.Conn(), nil
}

// wrap annotates err with the failed operation. A missing table means the
// database predates that module and is reported as ErrUnavailable.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("store: %s: %w (%v)", op, ErrUnavailable, err)
	}
	return fmt.Errorf("store: %s: %w", op, err)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

// parseTime tries multiple SQLite timestamp layouts.
// go-sqlite3 may return RFC3339 or the plain "2006-01-02 15:04:05" format depending on
// the column type and platform.
func parseTime(s string) time.Time {
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05Z",
		timeLayout,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t := parseTime(ns.String)
	if t.IsZero() {
		return nil
	}
	return &t
}

// affectedOne maps a zero-row update or delete to ErrNotFound.
func affectedOne(op string, res sql.Result, err error) error {
	if err != nil {
		return wrap(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrap(op, err)
	}
	if n == 0 {
		return fmt.Errorf("store: %s: %w", op, ErrNotFound)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
