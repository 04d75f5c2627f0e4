package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/atelierhq/folio/internal/embed"
	"github.com/atelierhq/folio/internal/suggest"
	"github.com/atelierhq/folio/internal/ui"
)

func newSuggestCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest <partial>",
		Short: "Show suggestions for a partial query",
		Long: `Show the suggestions the site would offer for a partial query:
prefix matches from the search history first, semantically similar past
searches after.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			partial := strings.Join(args, " ")

			provider := embed.NewProvider(cmd.Context(), cfg.Embeddings)
			defer func() { _ = provider.Close() }()

			history := suggest.LoadHistory(cfg.Paths.HistoryFile)
			suggester := suggest.NewEngine(history, provider, cfg.Suggest.DefaultLimit)

			got := suggester.GetSuggestions(cmd.Context(), partial, limit)

			out := cmd.OutOrStdout()
			ui.NewRenderer(out, !ui.UseColor(out, noColor)).Suggestions(partial, got)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of suggestions")

	return cmd
}
