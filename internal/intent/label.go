// Package intent classifies utterances into a closed set of intent labels.
package intent

import "fmt"

// Label is an intent category. The zero value None means "no prediction".
type Label uint8

const (
	None Label = iota
	Tasks
	Notes
	Reminders
	Events
	Time
	Smalltalk
	Profile
	Projects
	Help

	labelEnd
)

// NumLabels is the number of real labels, excluding None.
const NumLabels = int(labelEnd) - 1

var labelNames = [...]string{
	None:      "none",
	Tasks:     "tasks",
	Notes:     "notes",
	Reminders: "reminders",
	Events:    "events",
	Time:      "time",
	Smalltalk: "smalltalk",
	Profile:   "profile",
	Projects:  "projects",
	Help:      "help",
}

func (l Label) String() string {
	if int(l) < len(labelNames) {
		return labelNames[l]
	}
	return fmt.Sprintf("Label(%d)", uint8(l))
}

// Valid reports whether l is one of the real labels.
func (l Label) Valid() bool {
	return l > None && l < labelEnd
}

// Labels returns every real label in declaration order.
func Labels() []Label {
	out := make([]Label, 0, NumLabels)
	for l := None + 1; l < labelEnd; l++ {
		out = append(out, l)
	}
	return out
}

// ParseLabel maps a label name to its Label. "none" is not accepted.
func ParseLabel(s string) (Label, bool) {
	for l := None + 1; l < labelEnd; l++ {
		if labelNames[l] == s {
			return l, true
		}
	}
	return None, false
}

func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Label) UnmarshalText(b []byte) error {
	if string(b) == "none" {
		*l = None
		return nil
	}
	v, ok := ParseLabel(string(b))
	if !ok {
		return fmt.Errorf("intent: unknown label %q", b)
	}
	*l = v
	return nil
}
