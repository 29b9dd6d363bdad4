package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/recall/pkg/knowledge"
)

// SearchResponse is the body of GET /v1/knowledge/search.
type SearchResponse struct {
	Query   string             `json:"query"`
	Results []knowledge.Result `json:"results"`
}

// handleSearchEndpoint handles GET /v1/knowledge/search requests.
// Query parameters:
//   - query: the search query text; empty yields no results
//   - top_k (optional, default 3): number of results to return
func (s *Server) handleSearchEndpoint(c *fiber.Ctx) error {
	query := c.Query("query")

	topK := knowledge.DefaultTopK
	if topKStr := c.Query("top_k"); topKStr != "" {
		parsed, err := strconv.Atoi(topKStr)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "top_k must be a positive integer",
			})
		}
		topK = parsed
	}

	return c.JSON(SearchResponse{
		Query:   query,
		Results: s.knowledge.Search(query, topK),
	})
}
