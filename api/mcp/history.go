package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/papercomputeco/recall/pkg/history"
)

var (
	historyToolName    = "history_recent"
	historyDescription = "Return the most recent conversation messages, oldest first."
)

const defaultHistoryLimit = 10

// HistoryInput represents the input arguments for the history_recent tool.
type HistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of messages to return (default: 10)"`
}

// HistoryOutput represents the output of the history_recent tool.
type HistoryOutput struct {
	Messages []history.Entry `json:"messages"`
	Count    int             `json:"count"`
}

// handleHistoryRecent processes a history_recent request.
func (s *Server) handleHistoryRecent(ctx context.Context, _ *mcp.CallToolRequest, input HistoryInput) (*mcp.CallToolResult, HistoryOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	entries, err := s.config.Storage.ListEntries(ctx)
	if err != nil {
		s.config.Logger.Error("failed to list history", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to list history: %v", err)},
			},
		}, HistoryOutput{}, nil
	}

	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Returned %d messages", len(entries))},
		},
	}, HistoryOutput{Messages: entries, Count: len(entries)}, nil
}
