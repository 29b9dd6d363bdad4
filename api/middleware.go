package api

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

const bearerPrefix = "Bearer "

// requireToken rejects requests without the configured bearer token.
func (s *Server) requireToken(c *fiber.Ctx) error {
	if s.config.Token == "" {
		return c.Next()
	}

	want := []byte(bearerPrefix + s.config.Token)
	got := []byte(c.Get(fiber.HeaderAuthorization))
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "missing or invalid bearer token"})
	}
	return c.Next()
}
