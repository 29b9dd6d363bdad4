// Package historycmder provides the history command for reading and writing
// the conversation history.
package historycmder

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/recall/pkg/backend"
	"github.com/papercomputeco/recall/pkg/cliui"
	"github.com/papercomputeco/recall/pkg/config"
	"github.com/papercomputeco/recall/pkg/logger"
	"github.com/papercomputeco/recall/pkg/session"
)

const historyLongDesc string = `Manage the conversation history.

The history is an append-only log of role/content messages persisted to the
configured history backend (memory, file or cloud).

Use subcommands to add, list, or clear messages:
  recall history add <role> <content>   Append a message
  recall history list [-n N]            Show the most recent messages
  recall history clear                  Remove every message`

const historyShortDesc string = "Manage the conversation history"

// historyCommander holds what every history subcommand needs.
type historyCommander struct {
	cfg       *config.Config
	configDir string
	debug     bool
}

func NewHistoryCmd() *cobra.Command {
	cmder := &historyCommander{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: historyShortDesc,
		Long:  historyLongDesc,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.cfg, err = config.ResolveCommandConfig(cmd, config.StoreFlags)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return nil
		},
	}

	for _, key := range []string{config.FlagHistoryBackend, config.FlagHistoryFile, config.FlagHistoryURL, config.FlagEventStream} {
		f := config.StoreFlags[key]
		cmd.PersistentFlags().String(f.Name, "", f.Description)
	}

	cmd.AddCommand(newAddCmd(cmder))
	cmd.AddCommand(newListCmd(cmder))
	cmd.AddCommand(newClearCmd(cmder))

	return cmd
}

// open opens a session for one subcommand run.
func (c *historyCommander) open(ctx context.Context, logOut io.Writer) (*session.Session, *zap.Logger, error) {
	l := logger.NewLoggerWithWriters(c.debug, logOut)
	s, err := session.Open(ctx, session.Options{
		Config:    c.cfg,
		ConfigDir: c.configDir,
		Logger:    l,
	})
	if err != nil {
		return nil, nil, err
	}
	return s, l, nil
}

func printOutcome(out io.Writer, verb string, res backend.PersistResult) {
	fmt.Fprintf(out, "  %s %s (%s)\n", cliui.SuccessMark, verb, cliui.KeyStyle.Render(res.Source.String()))
	if res.Degraded() {
		fmt.Fprintf(out, "  %s %s\n", cliui.WarnMark, cliui.DimStyle.Render(res.Err.Error()))
	}
}
