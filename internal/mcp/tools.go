package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/aide-assistant/aide/internal/intent"
)

func (s *Server) handleChat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := req.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: message"), nil
	}

	res := s.dialog.Route(ctx, message)
	s.logger.Debug("chat", zap.Stringer("label", res.Label), zap.Bool("by_rules", res.ByRules))
	return mcp.NewToolResultText(res.Reply), nil
}

func (s *Server) handleRetrain(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.trainer == nil {
		return mcp.NewToolResultError("classifier not configured"), nil
	}
	return mcp.NewToolResultText(s.trainer.Train(ctx)), nil
}

func (s *Server) handleStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.trainer == nil {
		return mcp.NewToolResultError("classifier not configured"), nil
	}
	return mcp.NewToolResultText(formatStatus(s.trainer.Status())), nil
}

func (s *Server) handleAddPhrase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	labelStr, err := req.RequireString("label")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: label"), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}

	label, ok := intent.ParseLabel(strings.ToLower(strings.TrimSpace(labelStr)))
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("invalid label %q (valid: %s)", labelStr, labelList())), nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return mcp.NewToolResultError("text must not be empty"), nil
	}

	added, err := s.phrases.AddPhrase(ctx, label.String(), text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to store phrase: %v", err)), nil
	}
	if !added {
		return mcp.NewToolResultText(fmt.Sprintf("Phrase already known for %s.", label)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Added phrase for %s. Run retrain to use it.", label)), nil
}

func formatStatus(st intent.Status) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Enabled:   %t\n", st.Enabled)
	fmt.Fprintf(&sb, "Trained:   %t\n", st.Trained)
	fmt.Fprintf(&sb, "Threshold: %.2f\n", st.Threshold)
	if st.Trained {
		labels := make([]string, len(st.Labels))
		for i, l := range st.Labels {
			labels[i] = l.String()
		}
		fmt.Fprintf(&sb, "Phrases:   %d\n", st.Phrases)
		fmt.Fprintf(&sb, "Labels:    %s\n", strings.Join(labels, ", "))
	}
	return sb.String()
}

func labelList() string {
	labels := intent.Labels()
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.String()
	}
	return strings.Join(names, ", ")
}
