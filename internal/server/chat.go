package server

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/aide-assistant/aide/internal/store"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 500
)

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	Reply     string `json:"reply"`
	RequestID string `json:"request_id"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decode(w, r, &req) {
		return
	}

	id := RequestID(r.Context())
	reply := s.converse(r.Context(), id, req.Message)
	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply, RequestID: id})
}

// converse routes one utterance and records the exchange in the transcript.
// Transcript failures are logged; the reply is still returned.
func (s *Server) converse(ctx context.Context, id, message string) string {
	res := s.dialog.Route(ctx, message)

	s.logger.Debug("chat",
		zap.String("request_id", id),
		zap.Stringer("label", res.Label),
		zap.Float64("confidence", res.Confidence),
		zap.Bool("by_rules", res.ByRules))

	if _, err := s.store.AppendMessage(ctx, store.SenderUser, message); err != nil {
		s.logger.Warn("transcript write failed", zap.String("request_id", id), zap.Error(err))
		return res.Reply
	}
	if _, err := s.store.AppendMessage(ctx, store.SenderAssistant, res.Reply); err != nil {
		s.logger.Warn("transcript write failed", zap.String("request_id", id), zap.Error(err))
	}
	return res.Reply
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(r, defaultMessageLimit, maxMessageLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	msgs, err := s.store.RecentMessages(r.Context(), limit)
	if err != nil {
		s.storeError(w, r, "recent messages", err)
		return
	}
	if msgs == nil {
		msgs = []store.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

// queryLimit reads ?limit=, clamped to ceiling.
func queryLimit(r *http.Request, def, ceiling int) (int, bool) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return min(n, ceiling), true
}

// WSMessage is a websocket frame in either direction.
type WSMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Reply   string `json:"reply,omitempty"`
}

func (s *Server) handleWebSocketChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	sessionID := uuid.New().String()
	s.logger.Info("websocket connected", zap.String("session_id", sessionID))

	go s.handleWSConnection(conn, sessionID)
}

func (s *Server) handleWSConnection(conn *websocket.Conn, sessionID string) {
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)

	var wsMu sync.Mutex
	write := func(v WSMessage) error {
		wsMu.Lock()
		defer wsMu.Unlock()
		return conn.WriteJSON(v)
	}

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			s.logger.Debug("websocket closed", zap.String("session_id", sessionID), zap.Error(err))
			return
		}

		var err error
		switch msg.Type {
		case "chat":
			reply := s.converse(context.Background(), sessionID, msg.Message)
			err = write(WSMessage{Type: "reply", Reply: reply})
		case "ping":
			err = write(WSMessage{Type: "pong"})
		default:
			err = write(WSMessage{Type: "error", Reply: "unknown message type"})
		}
		if err != nil {
			s.logger.Debug("websocket write failed", zap.String("session_id", sessionID), zap.Error(err))
			return
		}
	}
}
