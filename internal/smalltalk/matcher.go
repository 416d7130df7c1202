// Package smalltalk answers chit-chat from admin-defined patterns, falling
// back to a small built-in repertoire.
package smalltalk

import (
	"context"
	"math/rand/v2"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/aide-assistant/aide/internal/store"
)

// PatternSource supplies active patterns, most recently created first.
type PatternSource interface {
	ActivePatterns(ctx context.Context) ([]store.SmalltalkPattern, error)
}

// category is a built-in reply set.
type category struct {
	match   func(lower string) bool
	replies []string
}

var greetingRe = regexp.MustCompile(`\b(hi|hello|hey|yo)\b`)

var builtins = []category{
	{
		match:   greetingRe.MatchString,
		replies: []string{"Hello!", "Hi there!", "Hey, how can I help?", "Hello! What can I do for you today?"},
	},
	{
		match:   func(s string) bool { return strings.Contains(s, "how are you") },
		replies: []string{"I'm doing great, ready to help!", "All good here. How can I assist?", "Feeling efficient today. What's up?"},
	},
	{
		match:   func(s string) bool { return strings.Contains(s, "thank") },
		replies: []string{"You're welcome!", "Anytime!", "Happy to help!"},
	},
}

var generic = []string{
	"Sounds good. How can I help further?",
	"Got it. Want me to add a task or note?",
	"Let me know what you'd like to do next.",
}

// Matcher picks a smalltalk reply for an utterance.
type Matcher struct {
	source PatternSource
	logger *zap.Logger
	intn   func(n int) int
}

// New returns a Matcher. source may be nil to use only the built-ins.
func New(source PatternSource, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{source: source, logger: logger.Named("smalltalk"), intn: rand.IntN}
}

// Match returns a reply for text. It never fails: storage errors and
// malformed patterns are skipped in favour of the built-in replies.
func (m *Matcher) Match(ctx context.Context, text string) string {
	lower := strings.ToLower(text)

	if reply, ok := m.matchPatterns(ctx, lower); ok {
		return reply
	}
	for _, c := range builtins {
		if c.match(lower) {
			return m.pick(c.replies)
		}
	}
	return m.pick(generic)
}

func (m *Matcher) matchPatterns(ctx context.Context, lower string) (string, bool) {
	if m.source == nil {
		return "", false
	}
	patterns, err := m.source.ActivePatterns(ctx)
	if err != nil {
		m.logger.Warn("smalltalk patterns unavailable", zap.Error(err))
		return "", false
	}

	for _, p := range patterns {
		if !matches(p, lower) {
			continue
		}
		answers := SplitAnswers(p.Answers)
		if len(answers) == 0 {
			continue
		}
		return m.pick(answers), true
	}
	return "", false
}

func matches(p store.SmalltalkPattern, lower string) bool {
	if strings.TrimSpace(p.Pattern) == "" {
		return false
	}
	if !p.IsRegex {
		return strings.Contains(lower, strings.ToLower(p.Pattern))
	}
	re, err := regexp.Compile("(?i)" + p.Pattern)
	if err != nil {
		return false
	}
	return re.MatchString(lower)
}

// SplitAnswers splits a stored answers field on line breaks and '|',
// dropping blank entries.
func SplitAnswers(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == '\r' || r == '|'
	})
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (m *Matcher) pick(options []string) string {
	return options[m.intn(len(options))]
}
