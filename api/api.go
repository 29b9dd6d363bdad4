package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/recall/api/mcp"
	"github.com/papercomputeco/recall/pkg/knowledge"
	"github.com/papercomputeco/recall/pkg/storage"
)

// Server is the API server implementing the remote backend protocol.
type Server struct {
	config    Config
	storer    storage.Driver
	knowledge *knowledge.Store
	logger    *zap.Logger
	app       *fiber.App

	// replaceMu keeps storage and the search index on the same document set.
	replaceMu sync.Mutex
}

// NewServer creates a new API server.
// The storer is injected so the caller owns its lifecycle. The server's
// search index is loaded from the storer before any route is served.
func NewServer(ctx context.Context, config Config, storer storage.Driver, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	index := knowledge.NewStore(ctx, nil,
		knowledge.WithLogger(logger),
		knowledge.WithName("server"),
	)
	docs, err := storer.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading documents: %w", err)
	}
	index.ReplaceDocuments(ctx, docs)

	mcpServer, err := mcp.NewServer(mcp.Config{
		Knowledge: index,
		Storage:   storer,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating MCP server: %w", err)
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:    config,
		storer:    storer,
		knowledge: index,
		logger:    logger,
		app:       app,
	}

	app.Get("/ping", s.handlePing)

	v1 := app.Group("/v1", s.requireToken)
	v1.Get("/knowledge/documents", s.handleListDocuments)
	v1.Put("/knowledge/documents", s.handleReplaceDocuments)
	v1.Get("/knowledge/search", s.handleSearchEndpoint)
	v1.Get("/history", s.handleListHistory)
	v1.Post("/history", s.handleAppendHistory)
	v1.Delete("/history", s.handleClearHistory)

	app.All("/mcp", s.requireToken, adaptor.HTTPHandler(mcpServer.Handler()))

	return s, nil
}

// Handler returns the server as a net/http handler.
func (s *Server) Handler() http.Handler {
	return adaptor.FiberApp(s.app)
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
		zap.Bool("auth", s.config.Token != ""),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	if err := s.app.Shutdown(); err != nil {
		return err
	}
	return s.knowledge.Close()
}
