// Package searchcmder provides the search command for similarity search over
// the knowledge store.
package searchcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/recall/pkg/cliui"
	"github.com/papercomputeco/recall/pkg/config"
	"github.com/papercomputeco/recall/pkg/knowledge"
	"github.com/papercomputeco/recall/pkg/logger"
	"github.com/papercomputeco/recall/pkg/session"
	"github.com/papercomputeco/recall/pkg/utils"
)

const previewLen = 77

type searchCommander struct {
	query  string
	topK   int
	asJSON bool

	cfg       *config.Config
	configDir string
	debug     bool
	logOut    io.Writer
	logger    *zap.Logger
}

// Output is the --json rendering of a search.
type Output struct {
	Query   string             `json:"query"`
	Results []knowledge.Result `json:"results"`
	Count   int                `json:"count"`
}

const searchLongDesc string = `Search the knowledge store.

Ranks every stored document by cosine similarity between term-frequency
vectors of the query and the document and prints the top results. Documents
sharing no term with the query may still be listed with a score of zero when
fewer than --top documents match.

Example:
  recall search "how to configure logging"
  recall search "error handling" --top 10
  recall search "error handling" --json`

const searchShortDesc string = "Search the knowledge store"

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
		Args:  cobra.ExactArgs(1),
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
			cmder.query = args[0]

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
	cmd.Flags().IntVarP(&cmder.topK, "top", "k", knowledge.DefaultTopK, "Number of results to return")
	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Print results as JSON")

	return cmd
}

func (c *searchCommander) run(ctx context.Context, out io.Writer) error {
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

	results := s.Knowledge.Search(c.query, c.topK)

	if c.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(Output{Query: c.query, Results: results, Count: len(results)})
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}

	fmt.Fprintf(out, "\n%s %s\n\n",
		cliui.HeaderStyle.Render("Search Results for:"),
		cliui.KeyStyle.Render(fmt.Sprintf("%q", c.query)),
	)
	for i, r := range results {
		printResult(out, i+1, r)
	}
	return nil
}

func printResult(out io.Writer, rank int, r knowledge.Result) {
	source := r.Document.Metadata["path"]
	if source == "" {
		source = "(no path)"
	}

	fmt.Fprintf(out, "  %s  %s  %s\n",
		cliui.RankStyle.Render(fmt.Sprintf("#%d", rank)),
		cliui.ScoreStyle.Render(fmt.Sprintf("score: %.4f", r.Score)),
		cliui.KeyStyle.Render(source),
	)

	preview := strings.ReplaceAll(r.Document.Content, "\n", " ")
	fmt.Fprintf(out, "  %s\n\n", cliui.ValueStyle.Render(utils.Truncate(preview, previewLen)))
}
