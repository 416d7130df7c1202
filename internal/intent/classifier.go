package intent

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/aide-assistant/aide/internal/config"
	"github.com/aide-assistant/aide/internal/store"
)

// PhraseSource supplies stored training phrases.
type PhraseSource interface {
	AllPhrases(ctx context.Context) ([]store.TrainingPhrase, error)
}

// Status describes the classifier for admin callers.
type Status struct {
	Enabled   bool    `json:"enabled"`
	Trained   bool    `json:"trained"`
	Labels    []Label `json:"labels"`
	Threshold float64 `json:"threshold"`
	Phrases   int     `json:"phrases"`
}

// Training status messages.
const (
	msgDisabled       = "ML disabled."
	msgNotEnough      = "Not enough distinct labels. Add training phrases to cover at least two intents."
	msgTrainedPattern = "Trained on %d phrases across %d labels."
)

// Classifier predicts intent labels from a model rebuilt by Train.
// Predict and Train may be called concurrently; a prediction always sees
// one complete model.
type Classifier struct {
	source  PhraseSource
	cfg     config.ClassifierConfig
	seeds   []Example
	logger  *zap.Logger
	current atomic.Pointer[model]
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithSeeds replaces the built-in seed corpus.
func WithSeeds(seeds []Example) Option {
	return func(c *Classifier) { c.seeds = seeds }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns an untrained classifier. source may be nil, in which case
// training uses the seeds alone.
func New(source PhraseSource, cfg config.ClassifierConfig, opts ...Option) *Classifier {
	c := &Classifier{
		source: source,
		cfg:    cfg,
		seeds:  DefaultSeeds(),
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.Named("intent")
	return c
}

// Threshold is the minimum confidence callers should trust.
func (c *Classifier) Threshold() float64 { return c.cfg.Threshold }

// Train rebuilds the model from the seeds plus stored phrases and swaps it
// in. It returns a human-readable status message.
func (c *Classifier) Train(ctx context.Context) string {
	if !c.cfg.Enabled {
		c.current.Store(nil)
		return msgDisabled
	}

	corpus := c.corpus(ctx)
	distinct := make(map[Label]bool)
	for _, ex := range corpus {
		distinct[ex.Label] = true
	}
	if len(distinct) < 2 {
		c.current.Store(nil)
		c.logger.Info("classifier left untrained", zap.Int("labels", len(distinct)))
		return msgNotEnough
	}

	m := fit(corpus, trainParams{
		epochs:       max(c.cfg.Epochs, 1),
		learningRate: c.cfg.LearningRate,
		c:            c.cfg.C,
	})
	c.current.Store(m)

	c.logger.Info("classifier trained",
		zap.Int("phrases", len(corpus)),
		zap.Int("labels", len(distinct)),
		zap.Int("features", m.vec.size()))
	return fmt.Sprintf(msgTrainedPattern, len(corpus), len(distinct))
}

// corpus merges the seeds with stored phrases. Unreadable storage and
// phrases with unknown labels are logged and skipped.
func (c *Classifier) corpus(ctx context.Context) []Example {
	corpus := make([]Example, 0, len(c.seeds))
	for _, ex := range c.seeds {
		if ex.Label.Valid() && strings.TrimSpace(ex.Text) != "" {
			corpus = append(corpus, ex)
		}
	}
	if c.source == nil {
		return corpus
	}

	phrases, err := c.source.AllPhrases(ctx)
	if err != nil {
		c.logger.Warn("training phrases unavailable, using seeds only", zap.Error(err))
		return corpus
	}
	for _, p := range phrases {
		label, ok := ParseLabel(p.Label)
		if !ok {
			c.logger.Warn("skipping phrase with unknown label",
				zap.Int64("id", p.ID), zap.String("label", p.Label))
			continue
		}
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		corpus = append(corpus, Example{Text: p.Text, Label: label})
	}
	return corpus
}

// Predict returns the most likely label and its probability, or (None, 0)
// when the classifier is disabled or untrained. It never applies the
// threshold itself.
func (c *Classifier) Predict(text string) (Label, float64) {
	if !c.cfg.Enabled {
		return None, 0
	}
	m := c.current.Load()
	if m == nil {
		return None, 0
	}
	return m.predict(text)
}

// Status reports the current model.
func (c *Classifier) Status() Status {
	s := Status{
		Enabled:   c.cfg.Enabled,
		Threshold: c.cfg.Threshold,
		Labels:    []Label{},
	}
	if m := c.current.Load(); m != nil && c.cfg.Enabled {
		s.Trained = true
		s.Labels = append(s.Labels, m.classes...)
		s.Phrases = m.size
	}
	return s
}
