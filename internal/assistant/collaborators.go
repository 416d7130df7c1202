package assistant

import (
	"context"
	"time"

	"github.com/aide-assistant/aide/internal/intent"
	"github.com/aide-assistant/aide/internal/store"
)

// TaskStore creates and queries tasks.
type TaskStore interface {
	CreateTask(ctx context.Context, title string, dueAt *time.Time) (store.Task, error)
	ListTasks(ctx context.Context, includeCompleted bool) ([]store.Task, error)
	CompleteTask(ctx context.Context, id int64) error
}

type NoteStore interface {
	CreateNote(ctx context.Context, title, content string) (store.Note, error)
	SearchNotes(ctx context.Context, query string, limit int) ([]store.Note, error)
	ListNotes(ctx context.Context, limit int) ([]store.Note, error)
}

type ReminderStore interface {
	CreateReminder(ctx context.Context, message string, dueAt time.Time) (store.Reminder, error)
	ListReminders(ctx context.Context, pendingOnly bool) ([]store.Reminder, error)
	CancelReminder(ctx context.Context, id int64) error
}

type EventStore interface {
	CreateEvent(ctx context.Context, ev store.Event) (store.Event, error)
	ListEvents(ctx context.Context, from time.Time) ([]store.Event, error)
}

// AboutStore reads the optional profile, FAQ, persona and project records.
// Methods may return store.ErrUnavailable when that module is missing.
type AboutStore interface {
	GetProfile(ctx context.Context) (*store.Profile, error)
	FirstQAPair(ctx context.Context) (*store.QAPair, error)
	GetPersona(ctx context.Context) (*store.Persona, error)
	ListActiveProjects(ctx context.Context, limit int) ([]store.Project, error)
}

// Classifier is the first routing stage.
type Classifier interface {
	Predict(text string) (intent.Label, float64)
}

// Replier produces smalltalk replies.
type Replier interface {
	Match(ctx context.Context, text string) string
}
