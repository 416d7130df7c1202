// Package store defines aide's persisted records and the SQLite-backed
// collaborators the assistant creates and queries them through.
package store

import "time"

// Sender identifies who wrote a transcript message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// ValidSender returns true if s is a recognised sender.
func ValidSender(s Sender) bool {
	switch s {
	case SenderUser, SenderAssistant:
		return true
	}
	return false
}

// Task is a to-do item with an optional due time.
type Task struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Completed bool       `json:"is_completed"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Note is a titled free-text note.
type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Reminder fires once at DueAt; Delivered is set by MarkDueRemindersDelivered.
type Reminder struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	DueAt     time.Time `json:"due_at"`
	Delivered bool      `json:"delivered"`
	CreatedAt time.Time `json:"created_at"`
}

type Event struct {
	ID       int64      `json:"id"`
	Title    string     `json:"title"`
	StartsAt time.Time  `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
	Location string     `json:"location,omitempty"`
	Details  string     `json:"details,omitempty"`
}

// Profile is the single "about me" record.
type Profile struct {
	DisplayName string `json:"display_name" toml:"display_name"`
	ShortBio    string `json:"short_bio" toml:"short_bio"`
	FullBio     string `json:"full_bio" toml:"full_bio"`
	Email       string `json:"email" toml:"email"`
	Location    string `json:"location" toml:"location"`
	Website     string `json:"website" toml:"website"`
	TimeZone    string `json:"timezone" toml:"timezone"`
}

type QAPair struct {
	ID       int64  `json:"id"`
	Question string `json:"question" toml:"question"`
	Answer   string `json:"answer" toml:"answer"`
}

// Persona shapes how replies greet and sign off.
type Persona struct {
	Tone             string `json:"tone" toml:"tone"`
	GreetingTemplate string `json:"greeting_template" toml:"greeting_template"`
	ClosingTemplate  string `json:"closing_template" toml:"closing_template"`
	ReferToUserAs    string `json:"refer_to_user_as" toml:"refer_to_user_as"`
	ThirdPerson      bool   `json:"third_person" toml:"third_person"`
}

type Project struct {
	ID          int64  `json:"id"`
	Title       string `json:"title" toml:"title"`
	Summary     string `json:"summary,omitempty" toml:"summary"`
	Description string `json:"description,omitempty" toml:"description"`
	URL         string `json:"url,omitempty" toml:"url"`
	Tags        string `json:"tags,omitempty" toml:"tags"`
	Active      bool   `json:"is_active" toml:"is_active"`
	Order       int    `json:"order" toml:"order"`
}

// TrainingPhrase is a user-supplied labelled example for the intent classifier.
type TrainingPhrase struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// SmalltalkPattern is an admin-defined chit-chat rule. Answers holds one or
// more replies separated by newlines or '|'.
type SmalltalkPattern struct {
	ID        int64     `json:"id"`
	Pattern   string    `json:"pattern"`
	IsRegex   bool      `json:"is_regex"`
	Answers   string    `json:"answers"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is one line of the chat transcript.
type Message struct {
	ID        int64     `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
