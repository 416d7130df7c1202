package intent

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/aide-assistant/aide/internal/config"
	"github.com/aide-assistant/aide/internal/store"
)

type fakePhrases struct {
	phrases []store.TrainingPhrase
	err     error
}

func (f *fakePhrases) AllPhrases(context.Context) ([]store.TrainingPhrase, error) {
	return f.phrases, f.err
}

func testConfig() config.ClassifierConfig {
	return config.DefaultConfig().Classifier
}

func TestClassifier_UntrainedPredictsNone(t *testing.T) {
	c := New(nil, testConfig())
	label, conf := c.Predict("add task buy milk")
	if label != None || conf != 0 {
		t.Errorf("got (%v, %v), want (none, 0)", label, conf)
	}
	if c.Status().Trained {
		t.Error("status should report untrained")
	}
}

func TestClassifier_TrainsOnSeeds(t *testing.T) {
	c := New(nil, testConfig())
	msg := c.Train(context.Background())

	want := "Trained on 28 phrases across 9 labels."
	if msg != want {
		t.Errorf("message: got %q, want %q", msg, want)
	}

	st := c.Status()
	if !st.Enabled || !st.Trained {
		t.Errorf("status: got %+v", st)
	}
	if len(st.Labels) != NumLabels {
		t.Errorf("labels: got %d, want %d", len(st.Labels), NumLabels)
	}
	if st.Threshold != 0.55 {
		t.Errorf("threshold: got %v", st.Threshold)
	}
}

func TestClassifier_TrainingSetRecall(t *testing.T) {
	c := New(nil, testConfig())
	c.Train(context.Background())

	for _, ex := range DefaultSeeds() {
		label, conf := c.Predict(ex.Text)
		if label != ex.Label {
			t.Errorf("%q: got %v, want %v", ex.Text, label, ex.Label)
			continue
		}
		if conf < c.Threshold() {
			t.Errorf("%q: confidence %.3f below threshold", ex.Text, conf)
		}
		if conf > 1 {
			t.Errorf("%q: confidence %.3f above 1", ex.Text, conf)
		}
	}
}

func TestClassifier_SharedWordStaysBelowThreshold(t *testing.T) {
	c := New(nil, testConfig())
	c.Train(context.Background())

	// Each shares only "you" or "how" with a help seed.
	for _, text := range []string{"thank you", "how are you", "how are you today?", "thank you so much"} {
		label, conf := c.Predict(text)
		if conf >= c.Threshold() {
			t.Errorf("%q: got %v at %.3f, want confidence below %.2f", text, label, conf, c.Threshold())
		}
	}
}

func TestClassifier_StatusLabelsSortedByName(t *testing.T) {
	c := New(nil, testConfig())
	c.Train(context.Background())

	var names []string
	for _, l := range c.Status().Labels {
		names = append(names, l.String())
	}
	want := "events,help,notes,profile,projects,reminders,smalltalk,tasks,time"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("labels: got %q, want %q", got, want)
	}
}

func TestClassifier_SingleLabelStaysUntrained(t *testing.T) {
	seeds := []Example{{"add task", Tasks}, {"list tasks", Tasks}}
	c := New(nil, testConfig(), WithSeeds(seeds))

	msg := c.Train(context.Background())
	if !strings.HasPrefix(msg, "Not enough distinct labels") {
		t.Errorf("message: got %q", msg)
	}
	for _, text := range []string{"add task", "hello", ""} {
		label, conf := c.Predict(text)
		if label != None || conf != 0 {
			t.Errorf("%q: got (%v, %v), want (none, 0)", text, label, conf)
		}
	}
}

func TestClassifier_RetrainToSingleLabelDropsModel(t *testing.T) {
	src := &fakePhrases{}
	c := New(src, testConfig(), WithSeeds([]Example{{"add task", Tasks}}))

	src.phrases = []store.TrainingPhrase{{Label: "notes", Text: "jot this down"}}
	c.Train(context.Background())
	if !c.Status().Trained {
		t.Fatal("expected trained model with two labels")
	}

	src.phrases = nil
	c.Train(context.Background())
	if c.Status().Trained {
		t.Error("expected model to be dropped after retrain with one label")
	}
}

func TestClassifier_UsesStoredPhrases(t *testing.T) {
	src := &fakePhrases{phrases: []store.TrainingPhrase{
		{ID: 1, Label: "tasks", Text: "put groceries on my list"},
		{ID: 2, Label: "tasks", Text: "put laundry on my list"},
		{ID: 3, Label: "bogus", Text: "ignored"},
		{ID: 4, Label: "notes", Text: "   "},
	}}
	c := New(src, testConfig())

	msg := c.Train(context.Background())
	if msg != "Trained on 30 phrases across 9 labels." {
		t.Errorf("message: got %q", msg)
	}
	if got := c.Status().Phrases; got != 30 {
		t.Errorf("phrases: got %d, want 30", got)
	}

	label, _ := c.Predict("put groceries on my list")
	if label != Tasks {
		t.Errorf("stored phrase: got %v, want tasks", label)
	}
}

func TestClassifier_SourceErrorFallsBackToSeeds(t *testing.T) {
	src := &fakePhrases{err: errors.New("no such table: training_phrases")}
	c := New(src, testConfig())

	msg := c.Train(context.Background())
	if msg != "Trained on 28 phrases across 9 labels." {
		t.Errorf("message: got %q", msg)
	}
}

func TestClassifier_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	c := New(nil, cfg)

	if msg := c.Train(context.Background()); msg != "ML disabled." {
		t.Errorf("message: got %q", msg)
	}
	label, conf := c.Predict("add task")
	if label != None || conf != 0 {
		t.Errorf("got (%v, %v), want (none, 0)", label, conf)
	}
	st := c.Status()
	if st.Enabled || st.Trained {
		t.Errorf("status: got %+v", st)
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	a := New(nil, testConfig())
	b := New(nil, testConfig())
	a.Train(context.Background())
	b.Train(context.Background())

	for _, text := range []string{"add a task for tomorrow", "what can you do", "random words"} {
		la, ca := a.Predict(text)
		lb, cb := b.Predict(text)
		if la != lb || ca != cb {
			t.Errorf("%q: (%v, %v) vs (%v, %v)", text, la, ca, lb, cb)
		}
	}
}

func TestClassifier_ConcurrentPredictAndTrain(t *testing.T) {
	c := New(nil, testConfig())
	c.Train(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				label, conf := c.Predict("list tasks")
				if label != None && (conf < 0 || conf > 1) {
					t.Errorf("confidence out of range: %v", conf)
				}
			}
		}()
	}
	for i := 0; i < 3; i++ {
		c.Train(context.Background())
	}
	wg.Wait()
}

func TestTerms(t *testing.T) {
	got := terms("Add a TASK, buy milk")
	want := []string{"add", "task", "buy", "milk", "add task", "task buy", "buy milk"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestVectorizer_UnknownTermsWeakenVector(t *testing.T) {
	v := fitVectorizer([]string{"what can you do", "help"})

	alone := v.transform("you")
	if len(alone) != 1 || math.Abs(alone[0].value-1) > 1e-12 {
		t.Fatalf("you: got %+v, want one unit feature", alone)
	}

	mixed := v.transform("thank you")
	if len(mixed) != 1 {
		t.Fatalf("thank you: got %d features, want 1", len(mixed))
	}
	if mixed[0].value >= 0.5 {
		t.Errorf("thank you: weight %.3f, want below 0.5", mixed[0].value)
	}

	if got := v.transform("nothing known here"); got != nil {
		t.Errorf("unknown text: got %+v, want nil", got)
	}
}

func TestLabel_RoundTrip(t *testing.T) {
	for _, l := range Labels() {
		got, ok := ParseLabel(l.String())
		if !ok || got != l {
			t.Errorf("%v: parsed %v, %v", l, got, ok)
		}
	}
	if _, ok := ParseLabel("none"); ok {
		t.Error("none should not parse as a real label")
	}
	if len(Labels()) != NumLabels {
		t.Errorf("labels: got %d, want %d", len(Labels()), NumLabels)
	}

	var l Label
	if err := l.UnmarshalText([]byte("projects")); err != nil || l != Projects {
		t.Errorf("unmarshal: got %v, %v", l, err)
	}
	if err := l.UnmarshalText([]byte("weather")); err == nil {
		t.Error("expected error for unknown label")
	}
}
