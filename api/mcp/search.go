package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/papercomputeco/recall/pkg/knowledge"
	"github.com/papercomputeco/recall/pkg/utils"
)

var (
	searchToolName    = "knowledge_search"
	searchDescription = "Search the knowledge store by term-frequency cosine similarity. Returns the most relevant documents for the query text with their scores and metadata."
)

const previewLen = 200

// SearchInput represents the input arguments for the knowledge_search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query text"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"number of results to return (default: 3)"`
}

// SearchResult represents a single search result.
type SearchResult struct {
	Score    float64           `json:"score"`
	Preview  string            `json:"preview"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SearchOutput represents the output of the knowledge_search tool.
type SearchOutput struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// handleSearch processes a knowledge_search request.
func (s *Server) handleSearch(_ context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	topK := input.TopK
	if topK <= 0 {
		topK = knowledge.DefaultTopK
	}

	s.config.Logger.Debug("MCP knowledge search request",
		zap.String("query", input.Query),
		zap.Int("topK", topK),
	)

	results := s.config.Knowledge.Search(input.Query, topK)

	output := SearchOutput{
		Query:   input.Query,
		Results: make([]SearchResult, 0, len(results)),
		Count:   len(results),
	}
	for _, r := range results {
		output.Results = append(output.Results, SearchResult{
			Score:    r.Score,
			Preview:  utils.Truncate(r.Document.Content, previewLen),
			Content:  r.Document.Content,
			Metadata: r.Document.Metadata,
		})
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Found %d matching documents", output.Count)},
		},
	}, output, nil
}
