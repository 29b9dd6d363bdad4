// Package servecmder provides the serve command that runs the remote backend
// service.
package servecmder

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/recall/api"
	"github.com/papercomputeco/recall/pkg/config"
	"github.com/papercomputeco/recall/pkg/dotdir"
	"github.com/papercomputeco/recall/pkg/logger"
	storageutils "github.com/papercomputeco/recall/pkg/storage/utils"
)

type ServeCommander struct {
	cfg       *config.Config
	configDir string
	debug     bool
	logOut    io.Writer
	logger    *zap.Logger
}

const serveLongDesc string = `Run the recall remote backend service.

The service stores the knowledge document set and the conversation history
for clients configured with the cloud backend:
  PUT/GET    /v1/knowledge/documents
  GET        /v1/knowledge/search?query=...&top_k=N
  POST/GET/DELETE /v1/history
  /mcp       MCP tools knowledge_search and history_recent

Examples:
  recall serve
  recall serve --storage sqlite --sqlite ./recall.sqlite --token s3cret
  recall serve --storage postgres --postgres-dsn postgres://recall@localhost/recall`

const serveShortDesc string = "Run the remote backend service"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.cfg, err = config.ResolveCommandConfig(cmd, config.ServerFlags)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.logOut = cmd.ErrOrStderr()
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlags(cmd, config.ServerFlags, config.ServerFlags.Keys()...)

	return cmd
}

func (c *ServeCommander) run(ctx context.Context) error {
	c.logger = logger.NewLoggerWithWriters(c.debug, c.logOut)
	defer func() { _ = c.logger.Sync() }()

	sqlitePath := c.cfg.Server.SQLitePath
	if sqlitePath == "" {
		var err error
		sqlitePath, err = dotdir.NewManager().SQLitePath(c.configDir)
		if err != nil {
			return fmt.Errorf("resolving sqlite path: %w", err)
		}
	}

	storer, err := storageutils.NewDriver(ctx, storageutils.NewDriverOpts{
		Kind:        c.cfg.Server.Storage,
		SQLitePath:  sqlitePath,
		PostgresDSN: c.cfg.Server.PostgresDSN,
		Logger:      c.logger,
	})
	if err != nil {
		return err
	}
	defer storer.Close()

	server, err := api.NewServer(ctx, api.Config{
		ListenAddr: c.cfg.Server.Listen,
		Token:      c.cfg.Server.Token,
	}, storer, c.logger)
	if err != nil {
		return fmt.Errorf("creating api server: %w", err)
	}

	// Channel to capture errors from the server goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case <-ctx.Done():
		c.logger.Info("context cancelled, shutting down")
	}

	return server.Shutdown()
}
