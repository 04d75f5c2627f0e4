package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atelierhq/folio/internal/catalog"
	"github.com/atelierhq/folio/internal/config"
	"github.com/atelierhq/folio/internal/embed"
	"github.com/atelierhq/folio/internal/search"
	"github.com/atelierhq/folio/internal/suggest"
	"github.com/atelierhq/folio/internal/ui"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	limit       int
	mode        string // "hybrid", "multimodal", "text", "images"
	format      string // "text", "json"
	interactive bool
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the portfolio from the terminal",
		Long: `Search the portfolio catalog.

The default mode runs the same four-strategy hybrid ranking the site
uses. Multimodal mode blends text and image similarity.

Examples:
  folio search "ceramic vases"
  folio search "sunset" --mode multimodal
  folio search "light installation" --format json
  folio search -i`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if opts.interactive {
				return runInteractive(cmd.Context(), cfg)
			}
			if len(args) == 0 {
				return cmd.Help()
			}
			return runSearch(cmd.Context(), cmd, cfg, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of results")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "hybrid", "Search mode: hybrid, multimodal, text, images")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Interactive search browser")

	return cmd
}

// newSession builds the engines a CLI search needs. The caller owns the
// provider.
func newSession(ctx context.Context, cfg *config.Config) (*search.Engine, *suggest.Engine, embed.Provider) {
	snap := catalog.Load(cfg.Paths.WorksFile, cfg.Paths.ImagesFile)
	provider := embed.NewProvider(ctx, cfg.Embeddings)
	engine := search.NewEngine(cfg.Search, provider, snap)
	history := suggest.LoadHistory(cfg.Paths.HistoryFile)
	suggester := suggest.NewEngine(history, provider, cfg.Suggest.DefaultLimit)
	return engine, suggester, provider
}

func runSearch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, query string, opts searchOptions) error {
	engine, suggester, provider := newSession(ctx, cfg)
	defer func() { _ = provider.Close() }()

	out := cmd.OutOrStdout()
	r := ui.NewRenderer(out, !ui.UseColor(out, noColor))

	switch opts.mode {
	case "multimodal", "text":
		fn := engine.MultimodalSearch
		if opts.mode == "text" {
			fn = engine.TextSearch
		}
		results, err := fn(ctx, query, opts.limit)
		if err != nil {
			return err
		}
		if opts.format == "json" {
			return writeJSONOut(cmd, results)
		}
		r.Blend(query, results)
		return nil

	case "images":
		hits, err := engine.SearchImages(ctx, query, opts.limit)
		if err != nil {
			return err
		}
		if opts.format == "json" {
			return writeJSONOut(cmd, hits)
		}
		for _, hit := range hits {
			fmt.Fprintf(cmd.OutOrStdout(), "%.3f  %s\n", hit.Score, hit.Image.URL)
		}
		return nil

	default:
		results, outcomes := engine.Search(ctx, query, search.Options{Limit: opts.limit})

		if err := suggester.AddSearch(ctx, query); err != nil {
			slog.Warn("recording search history failed", slog.String("error", err.Error()))
		}

		if opts.format == "json" {
			return writeJSONOut(cmd, results)
		}
		var degraded []string
		for _, o := range outcomes {
			if o.Degraded {
				degraded = append(degraded, string(o.Strategy))
			}
		}
		r.Results(query, results, degraded)
		return nil
	}
}

func runInteractive(ctx context.Context, cfg *config.Config) error {
	engine, suggester, provider := newSession(ctx, cfg)
	defer func() { _ = provider.Close() }()

	browser := ui.NewBrowser(
		func(ctx context.Context, query string) ([]search.Result, []search.Outcome) {
			results, outcomes := engine.Search(ctx, query, search.Options{})
			if err := suggester.AddSearch(ctx, query); err != nil {
				slog.Warn("recording search history failed", slog.String("error", err.Error()))
			}
			return results, outcomes
		},
		func(ctx context.Context, partial string) []suggest.Suggestion {
			return suggester.GetSuggestions(ctx, partial, cfg.Suggest.DefaultLimit)
		},
		noColor,
	)
	return browser.Run()
}

func writeJSONOut(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
