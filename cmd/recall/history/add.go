package historycmder

import (
	"github.com/spf13/cobra"
)

const addLongDesc string = `Append a message to the conversation history.

The message is timestamped with the current UTC time.

Examples:
  recall history add user "What is the capital of France?"
  recall history add assistant "Paris."`

func newAddCmd(cmder *historyCommander) *cobra.Command {
	return &cobra.Command{
		Use:   "add <role> <content>",
		Short: "Append a message",
		Long:  addLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, l, err := cmder.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = l.Sync() }()
			defer s.Close()

			res := s.History.SaveMessage(cmd.Context(), args[0], args[1])
			printOutcome(cmd.OutOrStdout(), "Saved message", res)
			return nil
		},
	}
}
