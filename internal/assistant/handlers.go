package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/aide-assistant/aide/internal/datetime"
	"github.com/aide-assistant/aide/internal/store"
)

const (
	listLimit       = 10
	noteTitleRunes  = 40
	untitled        = "(untitled)"
	noMessage       = "(no message)"
	minuteLayout    = "2006-01-02 15:04"
	secondLayout    = "2006-01-02 15:04:05"
	notesUsage      = "Try: 'note Title: content' or 'search notes milk'"
	eventsUsage     = "Usage: add event 2025-08-25 14:00 - Title [@Location]"
	reminderNoTime  = "I couldn't find a time in that. Try 'in 10 minutes' or 'tomorrow at 09:00'."
	storageProblem  = "Sorry, I couldn't save that right now. Please try again."
	lookupProblem   = "Sorry, I couldn't look that up right now. Please try again."
)

var (
	taskMarkerRe     = regexp.MustCompile(`(?i)^\s*(?:add\s+task|task)\b[\s:]*`)
	listTasksRe      = regexp.MustCompile(`(?i)^\s*(?:list|show)\s+(?:my\s+)?tasks?\s*$`)
	completeTaskRe   = regexp.MustCompile(`(?i)^\s*(?:complete|finish|done)\s+task\b\s*#?(\d*)\s*$`)
	searchNotesRe    = regexp.MustCompile(`(?is)^\s*search\s+notes?\b\s*(.*)$`)
	listNotesRe      = regexp.MustCompile(`(?i)^\s*(?:list|show)\s+(?:my\s+)?notes\s*$`)
	noteRe           = regexp.MustCompile(`(?is)^\s*note\b\s*(.*)$`)
	remindMeRe       = regexp.MustCompile(`(?i)^\s*remind\s+me\b\s*`)
	leadingToRe      = regexp.MustCompile(`(?i)^to\s+`)
	listRemindersRe  = regexp.MustCompile(`(?i)^\s*(?:list|show)\s+(?:my\s+)?reminders?\s*$`)
	cancelReminderRe = regexp.MustCompile(`(?i)^\s*cancel\s+reminder\b\s*#?(\d*)\s*$`)
	listEventsRe     = regexp.MustCompile(`(?i)^\s*(?:list|show)\s+(?:my\s+)?events?\s*$`)
	eventRe          = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\s+(\d{1,2}:\d{2})\s*-\s*(.+)`)
)

func (r *Router) now() time.Time {
	return r.clock.Now().In(r.extractor.Location())
}

func (r *Router) handleTasks(ctx context.Context, text string) string {
	if listTasksRe.MatchString(text) {
		return r.listTasks(ctx)
	}
	if m := completeTaskRe.FindStringSubmatch(text); m != nil {
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return "Which task? Try 'complete task 3'."
		}
		if err := r.tasks.CompleteTask(ctx, id); err != nil {
			if isNotFound(err) {
				return fmt.Sprintf("I couldn't find task #%d.", id)
			}
			r.logger.Warn("complete task failed", zap.Int64("id", id), zap.Error(err))
			return storageProblem
		}
		return fmt.Sprintf("Completed task #%d.", id)
	}

	due, rest, found := r.extractor.Extract(text, r.now())
	title := strings.TrimSpace(taskMarkerRe.ReplaceAllString(rest, ""))
	if title == "" {
		title = untitled
	}

	var dueAt *time.Time
	if found {
		dueAt = &due
	}
	task, err := r.tasks.CreateTask(ctx, title, dueAt)
	if err != nil {
		r.logger.Warn("create task failed", zap.Error(err))
		return storageProblem
	}

	reply := fmt.Sprintf("Added task #%d: %s", task.ID, task.Title)
	if found {
		reply += fmt.Sprintf(" (due %s)", due.Format(minuteLayout))
	}
	return reply
}

func (r *Router) listTasks(ctx context.Context) string {
	tasks, err := r.tasks.ListTasks(ctx, false)
	if err != nil {
		r.logger.Warn("list tasks failed", zap.Error(err))
		return lookupProblem
	}
	if len(tasks) == 0 {
		return "No open tasks."
	}
	lines := []string{"Open tasks:"}
	for i, t := range tasks {
		if i == listLimit {
			break
		}
		line := fmt.Sprintf("[%d] %s", t.ID, t.Title)
		if t.DueAt != nil {
			line += " (due " + t.DueAt.In(r.extractor.Location()).Format(minuteLayout) + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (r *Router) handleNotes(ctx context.Context, text string) string {
	if m := searchNotesRe.FindStringSubmatch(text); m != nil {
		notes, err := r.notes.SearchNotes(ctx, strings.TrimSpace(m[1]), listLimit)
		if err != nil {
			r.logger.Warn("search notes failed", zap.Error(err))
			return lookupProblem
		}
		if len(notes) == 0 {
			return "No matches."
		}
		return "Matches:\n" + noteLines(notes)
	}

	if listNotesRe.MatchString(text) {
		notes, err := r.notes.ListNotes(ctx, listLimit)
		if err != nil {
			r.logger.Warn("list notes failed", zap.Error(err))
			return lookupProblem
		}
		if len(notes) == 0 {
			return "No notes yet."
		}
		return "Notes:\n" + noteLines(notes)
	}

	m := noteRe.FindStringSubmatch(text)
	if m == nil {
		return notesUsage
	}
	title, content, ok := splitNote(m[1])
	if !ok {
		return notesUsage
	}

	note, err := r.notes.CreateNote(ctx, title, content)
	if err != nil {
		r.logger.Warn("create note failed", zap.Error(err))
		return storageProblem
	}
	return "Saved note: " + note.Title
}

// splitNote reads "Title: content" or a bare body. Without a title the
// first 40 characters of the content stand in for it.
func splitNote(body string) (title, content string, ok bool) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", "", false
	}
	if before, after, found := strings.Cut(body, ":"); found {
		title, content = strings.TrimSpace(before), strings.TrimSpace(after)
	} else {
		content = body
	}
	if title == "" {
		title = truncateRunes(content, noteTitleRunes)
	}
	if title == "" {
		return "", "", false
	}
	return title, content, true
}

func noteLines(notes []store.Note) string {
	lines := make([]string, len(notes))
	for i, n := range notes {
		lines[i] = fmt.Sprintf("[%d] %s", n.ID, n.Title)
	}
	return strings.Join(lines, "\n")
}

func (r *Router) handleReminders(ctx context.Context, text string) string {
	if listRemindersRe.MatchString(text) {
		return r.listReminders(ctx)
	}
	if m := cancelReminderRe.FindStringSubmatch(text); m != nil {
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return "Which reminder? Try 'cancel reminder 2'."
		}
		if err := r.reminders.CancelReminder(ctx, id); err != nil {
			if isNotFound(err) {
				return fmt.Sprintf("I couldn't find reminder #%d.", id)
			}
			r.logger.Warn("cancel reminder failed", zap.Int64("id", id), zap.Error(err))
			return storageProblem
		}
		return fmt.Sprintf("Cancelled reminder #%d.", id)
	}

	due, rest, found := r.extractor.Extract(text, r.now())
	if !found {
		return reminderNoTime
	}
	msg := strings.TrimSpace(remindMeRe.ReplaceAllString(rest, ""))
	msg = strings.TrimSpace(leadingToRe.ReplaceAllString(msg, ""))
	if msg == "" {
		msg = noMessage
	}

	rem, err := r.reminders.CreateReminder(ctx, msg, due)
	if err != nil {
		r.logger.Warn("create reminder failed", zap.Error(err))
		return storageProblem
	}
	return fmt.Sprintf("Reminder #%d set for %s - %s", rem.ID, due.Format(secondLayout), rem.Message)
}

func (r *Router) listReminders(ctx context.Context) string {
	rems, err := r.reminders.ListReminders(ctx, true)
	if err != nil {
		r.logger.Warn("list reminders failed", zap.Error(err))
		return lookupProblem
	}
	if len(rems) == 0 {
		return "No pending reminders."
	}
	lines := []string{"Pending reminders:"}
	for i, rem := range rems {
		if i == listLimit {
			break
		}
		lines = append(lines, fmt.Sprintf("[%d] %s - %s",
			rem.ID, rem.DueAt.In(r.extractor.Location()).Format(minuteLayout), rem.Message))
	}
	return strings.Join(lines, "\n")
}

func (r *Router) handleEvents(ctx context.Context, text string) string {
	if listEventsRe.MatchString(text) {
		return r.listEvents(ctx)
	}

	m := eventRe.FindStringSubmatch(text)
	if m == nil {
		return eventsUsage
	}
	day, err := time.Parse("2006-01-02", m[1])
	if err != nil {
		return eventsUsage
	}
	h, mi, _, ok := datetime.ParseClock(m[2])
	if !ok {
		return eventsUsage
	}
	title, location, _ := strings.Cut(m[3], "@")
	title, location = strings.TrimSpace(title), strings.TrimSpace(location)
	if title == "" {
		return eventsUsage
	}

	loc := r.extractor.Location()
	ev, err := r.events.CreateEvent(ctx, store.Event{
		Title:    title,
		StartsAt: time.Date(day.Year(), day.Month(), day.Day(), h, mi, 0, 0, loc),
		Location: location,
	})
	if err != nil {
		r.logger.Warn("create event failed", zap.Error(err))
		return storageProblem
	}

	suffix := ""
	if ev.Location != "" {
		suffix = " @ " + ev.Location
	}
	return fmt.Sprintf("Event #%d added: %s at %s%s", ev.ID, ev.Title, ev.StartsAt.In(loc).Format(minuteLayout), suffix)
}

func (r *Router) listEvents(ctx context.Context) string {
	loc := r.extractor.Location()
	evs, err := r.events.ListEvents(ctx, r.now())
	if err != nil {
		r.logger.Warn("list events failed", zap.Error(err))
		return lookupProblem
	}
	if len(evs) == 0 {
		return "No upcoming events."
	}
	lines := []string{"Upcoming events:"}
	for i, ev := range evs {
		if i == listLimit {
			break
		}
		line := fmt.Sprintf("[%d] %s - %s", ev.ID, ev.StartsAt.In(loc).Format(minuteLayout), ev.Title)
		if ev.Location != "" {
			line += " @ " + ev.Location
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (r *Router) handleTime() string {
	return r.now().Format("It is 2006-01-02 15:04:05 MST")
}

func (r *Router) handleSmalltalk(ctx context.Context, text string) string {
	return r.style(ctx, r.smalltalk.Match(ctx, text))
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}
