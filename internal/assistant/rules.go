package assistant

import (
	"regexp"
	"slices"
	"strings"

	"github.com/aide-assistant/aide/internal/intent"
)

// RuleFallback picks a label without a model. None means no rule matched.
type RuleFallback interface {
	Classify(text string) intent.Label
}

// Rule assigns Label when Match accepts the trimmed, lower-cased utterance.
type Rule struct {
	Label intent.Label
	Match func(lower string) bool
}

// Rules is an ordered keyword ladder; the first matching rule wins.
type Rules []Rule

func (rs Rules) Classify(text string) intent.Label {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, r := range rs {
		if r.Match(lower) {
			return r.Label
		}
	}
	return intent.None
}

var (
	helpWords   = []string{"help", "/help", "commands", "examples", "how to use"}
	smalltalkRe = regexp.MustCompile(`\b(hi|hello|hey|yo|good\s+(morning|afternoon|evening))\b`)
)

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// DefaultRules is the built-in ladder: help, smalltalk, tasks, reminders,
// notes, events, profile, projects, time.
func DefaultRules() Rules {
	return Rules{
		{intent.Help, func(s string) bool {
			return strings.HasPrefix(s, "help") || slices.Contains(helpWords, s)
		}},
		{intent.Smalltalk, func(s string) bool {
			return smalltalkRe.MatchString(s) || containsAny(s, "how are you", "thank")
		}},
		{intent.Tasks, func(s string) bool {
			return strings.HasPrefix(s, "add task") || strings.Contains(s, "task")
		}},
		{intent.Reminders, func(s string) bool {
			return strings.HasPrefix(s, "remind me") || strings.Contains(s, "reminder")
		}},
		{intent.Notes, func(s string) bool {
			return strings.HasPrefix(s, "note ") || strings.HasPrefix(s, "search notes") || strings.Contains(s, "note")
		}},
		{intent.Events, func(s string) bool {
			return strings.HasPrefix(s, "add event") || strings.Contains(s, "event")
		}},
		{intent.Profile, func(s string) bool {
			return containsAny(s, "about me", "who am i", "profile")
		}},
		{intent.Projects, func(s string) bool {
			return strings.Contains(s, "project")
		}},
		{intent.Time, func(s string) bool {
			return containsAny(s, "time", "date")
		}},
	}
}
