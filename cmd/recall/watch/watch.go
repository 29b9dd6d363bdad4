// Package watchcmder provides the watch command that keeps the knowledge
// store in sync with a source directory.
package watchcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/recall/pkg/config"
	"github.com/papercomputeco/recall/pkg/logger"
	"github.com/papercomputeco/recall/pkg/session"
	"github.com/papercomputeco/recall/pkg/watcher"
	"github.com/papercomputeco/recall/pkg/worker"
)

type watchCommander struct {
	dir string

	cfg       *config.Config
	configDir string
	debug     bool
	logOut    io.Writer
	logger    *zap.Logger
}

const watchLongDesc string = `Watch a directory and reload the knowledge store when it changes.

The directory is ingested once at start. Afterwards every burst of changes to
files with a configured suffix triggers one full reload, replacing the store
contents with the directory's current documents.

Examples:
  recall watch ./docs
  recall watch --kb-backend file ./docs`

const watchShortDesc string = "Reload the knowledge store on file changes"

func NewWatchCmd() *cobra.Command {
	cmder := &watchCommander{}

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: watchShortDesc,
		Long:  watchLongDesc,
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.cfg, err = config.ResolveCommandConfig(cmd, config.StoreFlags)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.dir = cmder.cfg.Knowledge.SourceDir
			if len(args) == 1 {
				cmder.dir = args[0]
			}
			if cmder.dir == "" {
				return errors.New("no directory given and knowledge.source_dir is not configured")
			}

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.logOut = cmd.ErrOrStderr()
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlags(cmd, config.StoreFlags, config.StoreFlags.Keys()...)

	return cmd
}

func (c *watchCommander) run(ctx context.Context) error {
	c.logger = logger.NewLoggerWithWriters(c.debug, c.logOut)
	defer func() { _ = c.logger.Sync() }()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s, err := session.Open(ctx, session.Options{
		Config:      c.cfg,
		ConfigDir:   c.configDir,
		SkipHistory: true,
		Logger:      c.logger,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	pool, err := worker.NewPool(&worker.Config{
		Store:    s.Knowledge,
		Suffixes: c.cfg.Knowledge.Suffixes,
		Logger:   c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Close()

	pool.Enqueue(worker.Job{Dir: c.dir, Reason: "initial load"})

	w := watcher.New(c.dir, c.cfg.Knowledge.Suffixes, pool, watcher.WithLogger(c.logger))
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("watching %s: %w", c.dir, err)
	}
	defer w.Stop()

	c.logger.Info("watching for changes", zap.String("dir", c.dir))

	select {
	case <-ctx.Done():
	case <-w.Done():
	}
	c.logger.Info("stopping watcher")
	return nil
}
