// Package recallcmder
package recallcmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/papercomputeco/recall/cmd/recall/config"
	historycmder "github.com/papercomputeco/recall/cmd/recall/history"
	ingestcmder "github.com/papercomputeco/recall/cmd/recall/ingest"
	searchcmder "github.com/papercomputeco/recall/cmd/recall/search"
	servecmder "github.com/papercomputeco/recall/cmd/recall/serve"
	watchcmder "github.com/papercomputeco/recall/cmd/recall/watch"
	versioncmder "github.com/papercomputeco/recall/cmd/version"
)

const recallLongDesc string = `Recall is a small retrieval and conversation memory core.

Ingest a directory of text into the knowledge store, search it by similarity,
keep a conversation history and serve both over HTTP for remote clients:
  recall ingest ./docs       Load documents into the knowledge store
  recall search "query"      Rank stored documents against a query
  recall history list        Show the conversation history
  recall serve               Run the remote backend service
  recall watch ./docs        Reload the knowledge store on file changes`

const recallShortDesc string = "Recall - retrieval and conversation memory"

func NewRecallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "recall",
		Short:         recallShortDesc,
		Long:          recallLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .recall/ directory holding config.toml and data files")

	// Add subcommands
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(historycmder.NewHistoryCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(watchcmder.NewWatchCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
