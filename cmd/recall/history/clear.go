package historycmder

import (
	"github.com/spf13/cobra"
)

func newClearCmd(cmder *historyCommander) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every message",
		Long:  "Remove every message from the conversation history and its backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, l, err := cmder.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = l.Sync() }()
			defer s.Close()

			res := s.History.Clear(cmd.Context())
			printOutcome(cmd.OutOrStdout(), "Cleared history", res)
			return nil
		},
	}
}
