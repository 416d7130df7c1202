package datetime

import (
	"testing"
	"time"
)

var ref = time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC)

func TestExtract_RelativeDelta(t *testing.T) {
	e := NewExtractor(time.UTC)

	tests := []struct {
		text string
		want time.Time
		rest string
	}{
		{"remind me in 10 minutes to stretch", ref.Add(10 * time.Minute), "remind me to stretch"},
		{"in 0 minutes", ref, ""},
		{"in 1 minute", ref.Add(time.Minute), ""},
		{"ping me in 2 hours", ref.Add(2 * time.Hour), "ping me"},
		{"in 30 seconds check oven", ref.Add(30 * time.Second), "check oven"},
		{"in 3 days pay rent", ref.Add(72 * time.Hour), "pay rent"},
		{"in 2 weeks review", ref.Add(14 * 24 * time.Hour), "review"},
		{"Call Alice IN 2 HOURS", ref.Add(2 * time.Hour), "Call Alice"},
	}
	for _, tt := range tests {
		got, rest, ok := e.Extract(tt.text, ref)
		if !ok {
			t.Errorf("%q: expected a match", tt.text)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("%q: got %v, want %v", tt.text, got, tt.want)
		}
		if rest != tt.rest {
			t.Errorf("%q: rest got %q, want %q", tt.text, rest, tt.rest)
		}
	}
}

func TestExtract_DeltaOverflowIsNoMatch(t *testing.T) {
	e := NewExtractor(time.UTC)
	text := "in 99999999999999 weeks"
	_, rest, ok := e.Extract(text, ref)
	if ok {
		t.Error("expected no match for overflowing delta")
	}
	if rest != text {
		t.Errorf("rest: got %q, want original", rest)
	}
}

func TestExtract_Tomorrow(t *testing.T) {
	e := NewExtractor(time.UTC)

	tests := []struct {
		text string
		ref  time.Time
		want time.Time
		rest string
	}{
		{"tomorrow", ref, time.Date(2025, 8, 26, 9, 0, 0, 0, time.UTC), ""},
		{"add task Buy milk tomorrow at 09:00", time.Date(2025, 8, 25, 23, 59, 59, 999, time.UTC),
			time.Date(2025, 8, 26, 9, 0, 0, 0, time.UTC), "add task Buy milk"},
		{"tomorrow at 9pm", ref, time.Date(2025, 8, 26, 21, 0, 0, 0, time.UTC), ""},
		{"tomorrow at 12am", ref, time.Date(2025, 8, 26, 0, 0, 0, 0, time.UTC), ""},
		{"tomorrow at 12pm", ref, time.Date(2025, 8, 26, 12, 0, 0, 0, time.UTC), ""},
		{"tomorrow at 7:45:30", ref, time.Date(2025, 8, 26, 7, 45, 30, 0, time.UTC), ""},
		{"remind me tomorrow at 9 to call mom", ref, time.Date(2025, 8, 26, 9, 0, 0, 0, time.UTC), "remind me to call mom"},
		{"Tomorrow At 6:30 PM", ref, time.Date(2025, 8, 26, 18, 30, 0, 0, time.UTC), ""},
		{"tomorrow", time.Date(2025, 12, 31, 18, 0, 0, 0, time.UTC), time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC), ""},
	}
	for _, tt := range tests {
		got, rest, ok := e.Extract(tt.text, tt.ref)
		if !ok {
			t.Errorf("%q: expected a match", tt.text)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("%q: got %v, want %v", tt.text, got, tt.want)
		}
		if got.Nanosecond() != 0 {
			t.Errorf("%q: expected zero sub-second part, got %d", tt.text, got.Nanosecond())
		}
		if rest != tt.rest {
			t.Errorf("%q: rest got %q, want %q", tt.text, rest, tt.rest)
		}
	}
}

func TestExtract_TodayAtRollsForward(t *testing.T) {
	e := NewExtractor(time.UTC)

	tests := []struct {
		text string
		want time.Time
	}{
		{"today at 18:00", time.Date(2025, 8, 25, 18, 0, 0, 0, time.UTC)},
		{"today at 8am", time.Date(2025, 8, 26, 8, 0, 0, 0, time.UTC)},
		{"today at 12:00", time.Date(2025, 8, 26, 12, 0, 0, 0, time.UTC)},
		{"today at 12:00:01", time.Date(2025, 8, 25, 12, 0, 1, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, _, ok := e.Extract(tt.text, ref)
		if !ok {
			t.Errorf("%q: expected a match", tt.text)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("%q: got %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestExtract_TodayWithoutTimeIsNoMatch(t *testing.T) {
	e := NewExtractor(time.UTC)
	if _, _, ok := e.Extract("today is sunny", ref); ok {
		t.Error("expected no match for bare 'today'")
	}
}

func TestExtract_OnDate(t *testing.T) {
	e := NewExtractor(time.UTC)
	want := time.Date(2025, 8, 25, 14, 0, 0, 0, time.UTC)

	for _, r := range []time.Time{ref, ref.AddDate(-3, 0, 0), ref.AddDate(4, 6, 2)} {
		got, rest, ok := e.Extract("dentist on 2025-08-25 at 14:00", r)
		if !ok {
			t.Fatalf("expected a match")
		}
		if !got.Equal(want) {
			t.Errorf("ref %v: got %v, want %v", r, got, want)
		}
		if rest != "dentist" {
			t.Errorf("rest: got %q, want %q", rest, "dentist")
		}
	}

	got, _, _ := e.Extract("on 2025-08-25", ref)
	if !got.Equal(time.Date(2025, 8, 25, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("default hour: got %v", got)
	}
}

func TestExtract_BareDate(t *testing.T) {
	e := NewExtractor(time.UTC)

	tests := []struct {
		text string
		want time.Time
		rest string
	}{
		{"2025-09-01 launch", time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC), "launch"},
		{"launch 2025-09-01 14:30 party", time.Date(2025, 9, 1, 14, 30, 0, 0, time.UTC), "launch party"},
		{"launch 2025-09-01 2:30pm", time.Date(2025, 9, 1, 14, 30, 0, 0, time.UTC), "launch"},
	}
	for _, tt := range tests {
		got, rest, ok := e.Extract(tt.text, ref)
		if !ok {
			t.Errorf("%q: expected a match", tt.text)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("%q: got %v, want %v", tt.text, got, tt.want)
		}
		if rest != tt.rest {
			t.Errorf("%q: rest got %q, want %q", tt.text, rest, tt.rest)
		}
	}
}

func TestExtract_Precedence(t *testing.T) {
	e := NewExtractor(time.UTC)

	got, rest, ok := e.Extract("in 5 minutes or tomorrow", ref)
	if !ok || !got.Equal(ref.Add(5*time.Minute)) {
		t.Errorf("delta should win: got %v, %v", got, ok)
	}
	if rest != "or tomorrow" {
		t.Errorf("rest: got %q", rest)
	}

	got, _, _ = e.Extract("on 2025-10-10 or tomorrow", ref)
	if !got.Equal(time.Date(2025, 8, 26, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("tomorrow should beat on-date: got %v", got)
	}
}

func TestExtract_NoMatch(t *testing.T) {
	e := NewExtractor(time.UTC)

	for _, text := range []string{"", "   ", "buy milk", "in a while", "at 9"} {
		got, rest, ok := e.Extract(text, ref)
		if ok {
			t.Errorf("%q: unexpected match %v", text, got)
		}
		if rest != text {
			t.Errorf("%q: rest got %q, want unchanged", text, rest)
		}
	}
}

func TestExtract_InvalidValuesAreNoMatch(t *testing.T) {
	e := NewExtractor(time.UTC)

	for _, text := range []string{
		"on 2025-02-30",
		"2025-13-01 review",
		"tomorrow at 25:00",
		"today at 13pm",
		"tomorrow at 10:75",
	} {
		_, rest, ok := e.Extract(text, ref)
		if ok {
			t.Errorf("%q: expected no match", text)
		}
		if rest != text {
			t.Errorf("%q: rest got %q, want unchanged", text, rest)
		}
	}
}

func TestExtract_ResultsInConfiguredZone(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	e := NewExtractor(paris)

	// 22:30 UTC is already the 26th in Paris.
	r := time.Date(2025, 8, 25, 22, 30, 0, 0, time.UTC)
	got, _, ok := e.Extract("tomorrow", r)
	if !ok {
		t.Fatal("expected a match")
	}
	want := time.Date(2025, 8, 27, 9, 0, 0, 0, paris)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got.Location() != paris {
		t.Errorf("location: got %v, want %v", got.Location(), paris)
	}

	got, _, _ = e.Extract("in 10 minutes", r)
	if got.Location() != paris {
		t.Errorf("delta location: got %v", got.Location())
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		h, m, s int
		ok      bool
	}{
		{"14:05", 14, 5, 0, true},
		{"7:45:30", 7, 45, 30, true},
		{"9pm", 21, 0, 0, true},
		{"9:30 am", 9, 30, 0, true},
		{"12am", 0, 0, 0, true},
		{"12pm", 12, 0, 0, true},
		{"12:15AM", 0, 15, 0, true},
		{"9", 9, 0, 0, true},
		{"24:00", 0, 0, 0, false},
		{"13pm", 0, 0, 0, false},
		{"9:60", 0, 0, 0, false},
		{"nine", 0, 0, 0, false},
	}
	for _, tt := range tests {
		h, m, s, ok := ParseClock(tt.in)
		if ok != tt.ok {
			t.Errorf("%q: ok got %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && (h != tt.h || m != tt.m || s != tt.s) {
			t.Errorf("%q: got %02d:%02d:%02d, want %02d:%02d:%02d", tt.in, h, m, s, tt.h, tt.m, tt.s)
		}
	}
}

func TestFixedClock(t *testing.T) {
	c := FixedClock(ref)
	if !c.Now().Equal(ref) {
		t.Errorf("got %v, want %v", c.Now(), ref)
	}
}
