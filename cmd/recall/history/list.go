package historycmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/recall/pkg/cliui"
)

const listLongDesc string = `Show the conversation history, oldest first.

Examples:
  recall history list
  recall history list -n 5`

func newListCmd(cmder *historyCommander) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the conversation history",
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, l, err := cmder.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = l.Sync() }()
			defer s.Close()

			entries := s.History.History()
			if limit > 0 {
				entries = s.History.Recent(limit)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No messages.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "  %s %s %s\n",
					cliui.DimStyle.Render(e.Timestamp),
					cliui.RoleStyle.Render("["+e.Role+"]"),
					cliui.ValueStyle.Render(e.Content),
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the N most recent messages")

	return cmd
}
