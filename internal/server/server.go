// Package server exposes the assistant over HTTP and a websocket chat
// endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/aide-assistant/aide/internal/assistant"
	"github.com/aide-assistant/aide/internal/config"
	"github.com/aide-assistant/aide/internal/intent"
	"github.com/aide-assistant/aide/internal/store"
)

// Dialog routes one utterance. *assistant.Router satisfies it.
type Dialog interface {
	Route(ctx context.Context, utterance string) assistant.Result
}

// Trainer retrains and reports on the intent classifier.
type Trainer interface {
	Train(ctx context.Context) string
	Status() intent.Status
}

// Server provides the HTTP and websocket endpoints.
type Server struct {
	dialog   Dialog
	trainer  Trainer
	store    *store.Store
	cfg      config.ServerConfig
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// New creates a Server. trainer may be nil, in which case the admin
// classifier routes answer 503.
func New(dialog Dialog, trainer Trainer, st *store.Store, cfg config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		dialog:  dialog,
		trainer: trainer,
		store:   st,
		cfg:     cfg,
		logger:  logger.Named("server"),
		upgrader: websocket.Upgrader{
			CheckOrigin: allowOrigin(cfg.AllowedOrigins),
		},
	}
}

// SetupRoutes registers every endpoint on r.
func (s *Server) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/chat", s.handleChat).Methods("POST")
	api.HandleFunc("/messages", s.handleMessages).Methods("GET")

	api.HandleFunc("/tasks", s.handleListTasks).Methods("GET")
	api.HandleFunc("/tasks", s.handleCreateTask).Methods("POST")
	api.HandleFunc("/tasks/{id:[0-9]+}/complete", s.handleCompleteTask).Methods("POST")

	api.HandleFunc("/notes", s.handleListNotes).Methods("GET")
	api.HandleFunc("/notes", s.handleCreateNote).Methods("POST")

	api.HandleFunc("/reminders", s.handleListReminders).Methods("GET")
	api.HandleFunc("/reminders", s.handleCreateReminder).Methods("POST")
	api.HandleFunc("/reminders/{id:[0-9]+}", s.handleCancelReminder).Methods("DELETE")

	api.HandleFunc("/events", s.handleListEvents).Methods("GET")
	api.HandleFunc("/events", s.handleCreateEvent).Methods("POST")
	api.HandleFunc("/events/{id:[0-9]+}", s.handleDeleteEvent).Methods("DELETE")

	api.HandleFunc("/about", s.handleAbout).Methods("GET")

	// Admin
	api.Handle("/retrain", s.admin(s.handleRetrain)).Methods("POST")
	api.Handle("/status", s.admin(s.handleStatus)).Methods("GET")
	api.Handle("/phrases", s.admin(s.handleAddPhrase)).Methods("POST")

	r.HandleFunc("/ws/chat", s.handleWebSocketChat)

	r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		path, _ := route.GetPathTemplate()
		methods, _ := route.GetMethods()
		s.logger.Debug("route registered", zap.String("path", path), zap.Strings("methods", methods))
		return nil
	})
}

// Handler returns the routed API wrapped in CORS, request id, access log
// and panic recovery middleware.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	s.SetupRoutes(r)

	var h http.Handler = r
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.logger}),
		handlers.PrintRecoveryStack(s.logger.Core().Enabled(zap.DebugLevel)),
	)(h)
	h = s.accessLog(h)
	h = requestID(h)

	cors := handlers.CORS(
		handlers.AllowedOrigins(s.cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", requestIDHeader}),
		handlers.ExposedHeaders([]string{requestIDHeader}),
	)
	return cors(h)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	read, write := s.cfg.Timeouts()
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  read,
		WriteTimeout: write,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// storeError maps a store failure to a response.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "module not installed")
	default:
		s.logger.Error(op+" failed", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
