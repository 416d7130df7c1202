package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gorilla/mux"

	"github.com/aide-assistant/aide/internal/store"
)

const noteTitleRunes = 40

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil && id > 0
}

// maxBodyBytes caps JSON request bodies and websocket frames.
const maxBodyBytes = 64 << 10

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// orEmpty keeps list endpoints from encoding null.
func orEmpty[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}

// --- tasks ---

type createTaskRequest struct {
	Title string     `json:"title"`
	DueAt *time.Time `json:"due_at,omitempty"`
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	all := r.URL.Query().Get("all") == "1"
	tasks, err := s.store.ListTasks(r.Context(), all)
	if err != nil {
		s.storeError(w, r, "list tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(tasks))
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !decode(w, r, &req) {
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	task, err := s.store.CreateTask(r.Context(), req.Title, req.DueAt)
	if err != nil {
		s.storeError(w, r, "create task", err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.CompleteTask(r.Context(), id); err != nil {
		s.storeError(w, r, "complete task", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

// --- notes ---

type createNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(r, defaultMessageLimit, maxMessageLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	var notes []store.Note
	var err error
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		notes, err = s.store.SearchNotes(r.Context(), q, limit)
	} else {
		notes, err = s.store.ListNotes(r.Context(), limit)
	}
	if err != nil {
		s.storeError(w, r, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(notes))
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if !decode(w, r, &req) {
		return
	}
	title, content := strings.TrimSpace(req.Title), strings.TrimSpace(req.Content)
	if title == "" {
		title = content
		if utf8.RuneCountInString(title) > noteTitleRunes {
			title = strings.TrimSpace(string([]rune(title)[:noteTitleRunes]))
		}
	}
	if title == "" {
		writeError(w, http.StatusBadRequest, "title or content is required")
		return
	}
	note, err := s.store.CreateNote(r.Context(), title, content)
	if err != nil {
		s.storeError(w, r, "create note", err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// --- reminders ---

type createReminderRequest struct {
	Message string     `json:"message"`
	DueAt   *time.Time `json:"due_at"`
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	pending := r.URL.Query().Get("pending") == "1"
	rems, err := s.store.ListReminders(r.Context(), pending)
	if err != nil {
		s.storeError(w, r, "list reminders", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(rems))
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var req createReminderRequest
	if !decode(w, r, &req) {
		return
	}
	if req.DueAt == nil {
		writeError(w, http.StatusBadRequest, "due_at is required")
		return
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		msg = "(no message)"
	}
	rem, err := s.store.CreateReminder(r.Context(), msg, *req.DueAt)
	if err != nil {
		s.storeError(w, r, "create reminder", err)
		return
	}
	writeJSON(w, http.StatusCreated, rem)
}

func (s *Server) handleCancelReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.CancelReminder(r.Context(), id); err != nil {
		s.storeError(w, r, "cancel reminder", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- events ---

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	var from time.Time
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "from must be RFC 3339")
			return
		}
		from = t
	}
	evs, err := s.store.ListEvents(r.Context(), from)
	if err != nil {
		s.storeError(w, r, "list events", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(evs))
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var ev store.Event
	if !decode(w, r, &ev) {
		return
	}
	ev.ID = 0
	ev.Title = strings.TrimSpace(ev.Title)
	if ev.Title == "" || ev.StartsAt.IsZero() {
		writeError(w, http.StatusBadRequest, "title and starts_at are required")
		return
	}
	if ev.EndsAt != nil && ev.EndsAt.Before(ev.StartsAt) {
		writeError(w, http.StatusBadRequest, "ends_at is before starts_at")
		return
	}
	created, err := s.store.CreateEvent(r.Context(), ev)
	if err != nil {
		s.storeError(w, r, "create event", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.DeleteEvent(r.Context(), id); err != nil {
		s.storeError(w, r, "delete event", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- about ---

// AboutResponse is the body of GET /api/about. Sections whose module is
// not installed are null.
type AboutResponse struct {
	Profile  *store.Profile  `json:"profile"`
	Persona  *store.Persona  `json:"persona"`
	Projects []store.Project `json:"projects"`
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var resp AboutResponse
	var err error

	if resp.Profile, err = s.store.GetProfile(ctx); err != nil && !isUnavailable(err) {
		s.storeError(w, r, "get profile", err)
		return
	}
	if resp.Persona, err = s.store.GetPersona(ctx); err != nil && !isUnavailable(err) {
		s.storeError(w, r, "get persona", err)
		return
	}
	if resp.Projects, err = s.store.ListActiveProjects(ctx, maxMessageLimit); err != nil && !isUnavailable(err) {
		s.storeError(w, r, "list projects", err)
		return
	}
	resp.Projects = orEmpty(resp.Projects)
	writeJSON(w, http.StatusOK, resp)
}
