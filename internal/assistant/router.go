// Package assistant routes a single utterance to the handler for its intent
// and returns the reply. It keeps no state between calls.
package assistant

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/aide-assistant/aide/internal/datetime"
	"github.com/aide-assistant/aide/internal/intent"
	"github.com/aide-assistant/aide/internal/smalltalk"
)

const (
	defaultThreshold = 0.55
	fallbackReply    = "I didn't catch that. Try 'help'."
)

// Deps are the collaborators a Router dispatches to. Tasks, Notes,
// Reminders and Events are required; the rest are optional.
type Deps struct {
	Tasks     TaskStore
	Notes     NoteStore
	Reminders ReminderStore
	Events    EventStore
	About     AboutStore

	Classifier Classifier
	Rules      RuleFallback
	Smalltalk  Replier
	Extractor  *datetime.Extractor
	Clock      datetime.Clock
	Threshold  float64
	Logger     *zap.Logger
}

// Router is the dialog entry point.
type Router struct {
	tasks      TaskStore
	notes      NoteStore
	reminders  ReminderStore
	events     EventStore
	about      AboutStore
	classifier Classifier
	rules      RuleFallback
	smalltalk  Replier
	extractor  *datetime.Extractor
	clock      datetime.Clock
	threshold  float64
	logger     *zap.Logger
}

// NewRouter fills unset optional dependencies with defaults: the built-in
// rule ladder, built-in smalltalk, a UTC extractor and the system clock.
func NewRouter(d Deps) *Router {
	r := &Router{
		tasks:      d.Tasks,
		notes:      d.Notes,
		reminders:  d.Reminders,
		events:     d.Events,
		about:      d.About,
		classifier: d.Classifier,
		rules:      d.Rules,
		smalltalk:  d.Smalltalk,
		extractor:  d.Extractor,
		clock:      d.Clock,
		threshold:  d.Threshold,
		logger:     d.Logger,
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	r.logger = r.logger.Named("router")
	if r.rules == nil {
		r.rules = DefaultRules()
	}
	if r.smalltalk == nil {
		r.smalltalk = smalltalk.New(nil, r.logger)
	}
	if r.extractor == nil {
		r.extractor = datetime.NewExtractor(time.UTC)
	}
	if r.clock == nil {
		r.clock = datetime.SystemClock(r.extractor.Location())
	}
	if r.threshold <= 0 {
		r.threshold = defaultThreshold
	}
	return r
}

// Result describes how an utterance was routed.
type Result struct {
	Label      intent.Label `json:"label"`
	Confidence float64      `json:"confidence"`
	ByRules    bool         `json:"by_rules"`
	Reply      string       `json:"reply"`
}

// Handle returns the reply for utterance.
func (r *Router) Handle(ctx context.Context, utterance string) string {
	return r.Route(ctx, utterance).Reply
}

// Route classifies utterance, falling back to the rule ladder when the
// classifier has no answer or is below threshold, and runs the handler.
// It always produces a non-empty reply.
func (r *Router) Route(ctx context.Context, utterance string) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("handler panicked", zap.Any("panic", p), zap.Stringer("label", res.Label))
			res.Reply = fallbackReply
		}
	}()

	if r.classifier != nil {
		res.Label, res.Confidence = r.classifier.Predict(utterance)
	}
	if res.Label == intent.None || res.Confidence < r.threshold {
		res.Label = r.rules.Classify(utterance)
		res.ByRules = true
	}

	res.Reply = r.dispatch(ctx, res.Label, utterance)
	if res.Reply == "" {
		res.Reply = fallbackReply
	}

	r.logger.Debug("routed",
		zap.Stringer("label", res.Label),
		zap.Float64("confidence", res.Confidence),
		zap.Bool("by_rules", res.ByRules))
	return res
}

// dispatch must handle every label; the array index below stops compiling
// when a label is added so this switch gets updated with it.
func (r *Router) dispatch(ctx context.Context, label intent.Label, text string) string {
	var x [1]struct{}
	_ = x[intent.NumLabels-9]

	switch label {
	case intent.Tasks:
		return r.handleTasks(ctx, text)
	case intent.Notes:
		return r.handleNotes(ctx, text)
	case intent.Reminders:
		return r.handleReminders(ctx, text)
	case intent.Events:
		return r.handleEvents(ctx, text)
	case intent.Time:
		return r.handleTime()
	case intent.Smalltalk:
		return r.handleSmalltalk(ctx, text)
	case intent.Profile:
		return r.handleProfile(ctx)
	case intent.Projects:
		return r.handleProjects(ctx)
	case intent.Help:
		return HelpText
	case intent.None:
	}
	return fallbackReply
}
