package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/recall/pkg/backend"
	"github.com/papercomputeco/recall/pkg/history"
	"github.com/papercomputeco/recall/pkg/knowledge"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ReplaceResponse acknowledges a document set replacement.
type ReplaceResponse struct {
	Count int `json:"count"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleListDocuments returns the full document set.
func (s *Server) handleListDocuments(c *fiber.Ctx) error {
	docs, err := s.storer.ListDocuments(c.Context())
	if err != nil {
		s.logger.Error("failed to list documents", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list documents"})
	}
	return c.JSON(docs)
}

// handleReplaceDocuments replaces the document set with the request body and
// refreshes the search index.
func (s *Server) handleReplaceDocuments(c *fiber.Ctx) error {
	docs, err := backend.Decode[knowledge.Document](c.Body())
	if err != nil {
		msg := "invalid document list"
		if errors.Is(err, backend.ErrNotList) {
			msg = "request body must be a JSON array"
		}
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg})
	}

	ctx := c.Context()
	s.replaceMu.Lock()
	defer s.replaceMu.Unlock()
	if err := s.storer.ReplaceDocuments(ctx, docs); err != nil {
		s.logger.Error("failed to replace documents", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to store documents"})
	}
	s.knowledge.ReplaceDocuments(ctx, docs)

	s.logger.Debug("replaced document set", zap.Int("count", len(docs)))
	return c.JSON(ReplaceResponse{Count: len(docs)})
}

// handleListHistory returns the full history log.
func (s *Server) handleListHistory(c *fiber.Ctx) error {
	entries, err := s.storer.ListEntries(c.Context())
	if err != nil {
		s.logger.Error("failed to list history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list history"})
	}
	return c.JSON(entries)
}

// handleAppendHistory appends one entry to the history log.
func (s *Server) handleAppendHistory(c *fiber.Ctx) error {
	var entry history.Entry
	if err := json.Unmarshal(c.Body(), &entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid history entry"})
	}
	if entry.Role == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "role is required"})
	}
	entry.Normalize()

	if err := s.storer.AppendEntry(c.Context(), entry); err != nil {
		s.logger.Error("failed to append history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to store history entry"})
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// handleClearHistory removes every history entry.
func (s *Server) handleClearHistory(c *fiber.Ctx) error {
	if err := s.storer.ClearEntries(c.Context()); err != nil {
		s.logger.Error("failed to clear history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to clear history"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
