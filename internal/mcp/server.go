// Package mcp exposes the assistant as Model Context Protocol tools over
// stdio.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/aide-assistant/aide/internal/assistant"
	"github.com/aide-assistant/aide/internal/intent"
)

// Dialog routes one utterance.
type Dialog interface {
	Route(ctx context.Context, utterance string) assistant.Result
}

// Trainer retrains and reports on the intent classifier.
type Trainer interface {
	Train(ctx context.Context) string
	Status() intent.Status
}

// PhraseStore stores training phrases.
type PhraseStore interface {
	AddPhrase(ctx context.Context, label, text string) (bool, error)
}

// Server wires the assistant into an MCP tool server.
type Server struct {
	dialog  Dialog
	trainer Trainer
	phrases PhraseStore
	logger  *zap.Logger
	mcp     *server.MCPServer
}

// NewServer registers the aide tools.
func NewServer(dialog Dialog, trainer Trainer, phrases PhraseStore, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		dialog:  dialog,
		trainer: trainer,
		phrases: phrases,
		logger:  logger.Named("mcp"),
		mcp:     server.NewMCPServer("aide", version, server.WithToolCapabilities(true)),
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("chat",
		mcp.WithDescription("Send one message to the personal assistant and return its reply. "+
			"It understands tasks, notes, reminders, events, the time, and questions about the owner."),
		mcp.WithString("message", mcp.Required(), mcp.Description("The user's utterance")),
	), s.handleChat)

	s.mcp.AddTool(mcp.NewTool("retrain",
		mcp.WithDescription("Rebuild the intent classifier from the built-in seeds and stored training phrases."),
	), s.handleRetrain)

	s.mcp.AddTool(mcp.NewTool("classifier_status",
		mcp.WithDescription("Report whether the intent classifier is enabled and trained, and on which labels."),
	), s.handleStatus)

	s.mcp.AddTool(mcp.NewTool("add_training_phrase",
		mcp.WithDescription("Store a labelled example utterance for the next retrain."),
		mcp.WithString("label", mcp.Required(), mcp.Description("Intent label: tasks, notes, reminders, events, time, smalltalk, profile, projects or help")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Example utterance")),
	), s.handleAddPhrase)
}

// ServeStdio blocks serving MCP over stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP over stdio")
	return server.ServeStdio(s.mcp)
}
