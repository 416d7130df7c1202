package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/aide-assistant/aide/internal/intent"
	"github.com/aide-assistant/aide/internal/store"
)

func isUnavailable(err error) bool { return errors.Is(err, store.ErrUnavailable) }

// RetrainResponse reports the training outcome alongside the new status.
type RetrainResponse struct {
	Message string `json:"message"`
	intent.Status
}

type addPhraseRequest struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

func (s *Server) handleRetrain(w http.ResponseWriter, r *http.Request) {
	if s.trainer == nil {
		writeError(w, http.StatusServiceUnavailable, "classifier not configured")
		return
	}
	msg := s.trainer.Train(r.Context())
	s.logger.Info("retrained", zap.String("request_id", RequestID(r.Context())), zap.String("result", msg))
	writeJSON(w, http.StatusOK, RetrainResponse{Message: msg, Status: s.trainer.Status()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.trainer == nil {
		writeError(w, http.StatusServiceUnavailable, "classifier not configured")
		return
	}
	writeJSON(w, http.StatusOK, s.trainer.Status())
}

func (s *Server) handleAddPhrase(w http.ResponseWriter, r *http.Request) {
	var req addPhraseRequest
	if !decode(w, r, &req) {
		return
	}
	label, ok := intent.ParseLabel(strings.ToLower(strings.TrimSpace(req.Label)))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown label "+strconv.Quote(req.Label))
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	added, err := s.store.AddPhrase(r.Context(), label.String(), text)
	if err != nil {
		s.storeError(w, r, "add phrase", err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"added": added, "label": label, "text": text})
}
