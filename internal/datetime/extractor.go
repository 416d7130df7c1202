// Package datetime turns natural time phrases such as "in 10 minutes",
// "tomorrow at 9pm" or "on 2025-08-25 at 14:00" into absolute instants.
package datetime

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	time24 = `\d{1,2}:\d{2}(?::\d{2})?`
	time12 = `\d{1,2}(?::\d{2})?\s?(?:am|pm)`
	date   = `\d{4}-\d{2}-\d{2}`

	// After "at" a bare hour is also read as a 24-hour clock ("tomorrow at 9").
	atTime = `(?P<t>` + time12 + `|` + time24 + `|\d{1,2})`
)

var (
	deltaRe    = regexp.MustCompile(`(?i)\bin\s+(?P<n>\d+)\s+(?P<u>seconds?|minutes?|hours?|days?|weeks?)\b`)
	tomorrowRe = regexp.MustCompile(`(?i)\btomorrow(?:\s+at\s+` + atTime + `)?\b`)
	todayRe    = regexp.MustCompile(`(?i)\btoday\s+at\s+` + atTime + `\b`)
	onDateRe   = regexp.MustCompile(`(?i)\bon\s+(?P<d>` + date + `)(?:\s+at\s+` + atTime + `)?\b`)
	bareDateRe = regexp.MustCompile(`(?i)\b(?P<d>` + date + `)(?:\s+(?P<t>` + time12 + `|` + time24 + `))?\b`)
)

var units = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
	"week":   7 * 24 * time.Hour,
}

// defaultHour is used when a day is named without a clock time.
const defaultHour = 9

// Extractor finds the first temporal phrase in an utterance. It is safe
// for concurrent use.
type Extractor struct {
	loc *time.Location
}

// NewExtractor returns an Extractor that interprets and reports times in loc.
func NewExtractor(loc *time.Location) *Extractor {
	if loc == nil {
		loc = time.UTC
	}
	return &Extractor{loc: loc}
}

// Location returns the zone results are expressed in.
func (e *Extractor) Location() *time.Location { return e.loc }

type rule func(e *Extractor, m []string, names []string, ref time.Time) (time.Time, bool)

type matcher struct {
	re   *regexp.Regexp
	eval rule
}

// matchers are tried in order; the first pattern that matches decides the
// outcome, even when its values turn out to be invalid.
var matchers = []matcher{
	{deltaRe, (*Extractor).delta},
	{tomorrowRe, (*Extractor).tomorrow},
	{todayRe, (*Extractor).todayAt},
	{onDateRe, (*Extractor).onDate},
	{bareDateRe, (*Extractor).onDate},
}

// Extract returns the instant named in text relative to ref, and text with
// that phrase removed. ok is false when no phrase matches or the phrase
// names an impossible date or clock time; rest is then text unchanged.
func (e *Extractor) Extract(text string, ref time.Time) (at time.Time, rest string, ok bool) {
	ref = ref.In(e.loc)
	for _, m := range matchers {
		idx := m.re.FindStringSubmatchIndex(text)
		if idx == nil {
			continue
		}
		groups := make([]string, len(idx)/2)
		for i := range groups {
			if idx[2*i] >= 0 {
				groups[i] = text[idx[2*i]:idx[2*i+1]]
			}
		}
		t, valid := m.eval(e, groups, m.re.SubexpNames(), ref)
		if !valid {
			return time.Time{}, text, false
		}
		return t.In(e.loc), cut(text, idx[0], idx[1]), true
	}
	return time.Time{}, text, false
}

func (e *Extractor) delta(m, names []string, ref time.Time) (time.Time, bool) {
	n, err := strconv.ParseInt(group(m, names, "n"), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	unit := units[strings.TrimSuffix(strings.ToLower(group(m, names, "u")), "s")]
	if n > math.MaxInt64/int64(unit) {
		return time.Time{}, false
	}
	return ref.Add(time.Duration(n) * unit), true
}

func (e *Extractor) tomorrow(m, names []string, ref time.Time) (time.Time, bool) {
	next := ref.AddDate(0, 0, 1)
	return e.at(next.Year(), next.Month(), next.Day(), group(m, names, "t"))
}

func (e *Extractor) todayAt(m, names []string, ref time.Time) (time.Time, bool) {
	at, ok := e.at(ref.Year(), ref.Month(), ref.Day(), group(m, names, "t"))
	if !ok {
		return time.Time{}, false
	}
	if !at.After(ref) {
		at = at.AddDate(0, 0, 1)
	}
	return at, true
}

func (e *Extractor) onDate(m, names []string, _ time.Time) (time.Time, bool) {
	y, mo, d, ok := parseDate(group(m, names, "d"))
	if !ok {
		return time.Time{}, false
	}
	return e.at(y, mo, d, group(m, names, "t"))
}

// at builds the instant for a calendar day in e.loc, at clock or at the
// default hour when clock is empty.
func (e *Extractor) at(y int, mo time.Month, d int, clock string) (time.Time, bool) {
	h, mi, s := defaultHour, 0, 0
	if clock != "" {
		var ok bool
		if h, mi, s, ok = ParseClock(clock); !ok {
			return time.Time{}, false
		}
	}
	return time.Date(y, mo, d, h, mi, s, 0, e.loc), true
}

// ParseClock reads "14:05", "14:05:30", "9pm", "9:30 am" or a bare hour.
// 12am is midnight and 12pm is noon.
func ParseClock(tok string) (hour, min, sec int, ok bool) {
	tok = strings.ToLower(strings.TrimSpace(tok))

	meridiem := ""
	if strings.HasSuffix(tok, "am") || strings.HasSuffix(tok, "pm") {
		meridiem = tok[len(tok)-2:]
		tok = strings.TrimSpace(tok[:len(tok)-2])
	}

	parts := strings.Split(tok, ":")
	if len(parts) > 3 || (meridiem != "" && len(parts) > 2) {
		return 0, 0, 0, false
	}
	vals := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, false
		}
		vals[i] = v
	}
	hour, min, sec = vals[0], vals[1], vals[2]

	switch meridiem {
	case "am":
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour != 12 {
			hour += 12
		}
	}

	if hour > 23 || min > 59 || sec > 59 {
		return 0, 0, 0, false
	}
	return hour, min, sec, true
}

// parseDate reads YYYY-MM-DD and rejects days that do not exist.
func parseDate(s string) (int, time.Month, int, bool) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, 0, 0, false
	}
	return t.Year(), t.Month(), t.Day(), true
}

func group(m, names []string, name string) string {
	for i, n := range names {
		if n == name && m[i] != "" {
			return m[i]
		}
	}
	return ""
}

// cut removes text[start:end] and trims, leaving one space at the seam.
func cut(text string, start, end int) string {
	left := strings.TrimRight(text[:start], " \t")
	right := strings.TrimLeft(text[end:], " \t")
	if left == "" || right == "" {
		return strings.TrimSpace(left + right)
	}
	return strings.TrimSpace(left + " " + right)
}
