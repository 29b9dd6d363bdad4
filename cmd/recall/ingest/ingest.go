// Package ingestcmder provides the ingest command that loads a directory of
// documents into the knowledge store.
package ingestcmder

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/recall/pkg/cliui"
	"github.com/papercomputeco/recall/pkg/config"
	"github.com/papercomputeco/recall/pkg/knowledge"
	"github.com/papercomputeco/recall/pkg/logger"
	"github.com/papercomputeco/recall/pkg/session"
)

type ingestCommander struct {
	dir      string
	append   bool
	suffixes []string

	cfg       *config.Config
	configDir string
	debug     bool
	logOut    io.Writer
	logger    *zap.Logger
}

const ingestLongDesc string = `Load a directory of documents into the knowledge store.

Every regular file below DIR whose extension matches one of the configured
suffixes becomes one document, with its path recorded in the "path" metadata
key. The loaded set replaces the store contents unless --append is given.
When DIR is omitted, knowledge.source_dir from the configuration is used.

Examples:
  recall ingest ./docs
  recall ingest ./notes --append --suffix .org
  recall ingest --kb-backend file --kb-file ./kb.json ./docs`

const ingestShortDesc string = "Load documents into the knowledge store"

func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest [dir]",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
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
			if !cmd.Flags().Changed("suffix") {
				cmder.suffixes = cmder.cfg.Knowledge.Suffixes
			}

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			cmder.logOut = cmd.ErrOrStderr()
			return cmder.run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	config.AddStringFlags(cmd, config.StoreFlags, config.StoreFlags.Keys()...)
	cmd.Flags().BoolVar(&cmder.append, "append", false, "Add to the existing documents instead of replacing them")
	cmd.Flags().StringSliceVar(&cmder.suffixes, "suffix", nil, "File suffixes to ingest (default from knowledge.suffixes)")

	return cmd
}

func (c *ingestCommander) run(ctx context.Context, out io.Writer) error {
	c.logger = logger.NewLoggerWithWriters(c.debug, c.logOut)
	defer func() { _ = c.logger.Sync() }()

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

	var report knowledge.LoadReport
	err = cliui.Step(out, fmt.Sprintf("Ingesting %s", c.dir), func() error {
		var loadErr error
		report, loadErr = s.Knowledge.LoadDirectory(ctx, c.dir, knowledge.LoadOptions{
			Suffixes: c.suffixes,
			Append:   c.append,
		})
		return loadErr
	})
	if err != nil {
		return err
	}

	if report.Documents == 0 {
		fmt.Fprintf(out, "  %s\n", cliui.DimStyle.Render("No matching documents found; store left unchanged."))
		return nil
	}

	fmt.Fprintf(out, "  %s %s documents, %s terms, persisted to %s\n",
		cliui.SuccessMark,
		cliui.ValueStyle.Render(fmt.Sprint(report.Documents)),
		cliui.ValueStyle.Render(fmt.Sprint(len(s.Knowledge.Vocabulary()))),
		cliui.KeyStyle.Render(report.Persist.Source.String()),
	)
	if report.Persist.Degraded() {
		fmt.Fprintf(out, "  %s %s\n", cliui.WarnMark, cliui.DimStyle.Render(report.Persist.Err.Error()))
	}
	return nil
}
