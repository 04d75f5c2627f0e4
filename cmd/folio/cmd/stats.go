package cmd

import (
	"github.com/spf13/cobra"

	"github.com/atelierhq/folio/internal/telemetry"
	"github.com/atelierhq/folio/internal/ui"
)

func newStatsCmd() *cobra.Command {
	var topTerms int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show persisted query telemetry",
		Long: `Show the query telemetry the server has persisted: per-mode query
counts, top search terms, and recent zero-result queries.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := telemetry.OpenStore(cfg.Paths.TelemetryDB)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			snap, err := buildStatsSnapshot(store, topTerms)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSONOut(cmd, snap)
			}
			out := cmd.OutOrStdout()
			ui.NewRenderer(out, !ui.UseColor(out, noColor)).Stats(snap)
			return nil
		},
	}

	cmd.Flags().IntVar(&topTerms, "top", 20, "Number of top terms to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

// buildStatsSnapshot assembles a snapshot from the persisted telemetry,
// covering all recorded days.
func buildStatsSnapshot(store *telemetry.Store, topTerms int) (telemetry.Snapshot, error) {
	var snap telemetry.Snapshot

	modes, err := store.GetModeCounts("0000-01-01", "9999-12-31")
	if err != nil {
		return snap, err
	}
	snap.ModeCounts = modes
	for _, n := range modes {
		snap.TotalQueries += n
	}

	terms, err := store.GetTopTerms(topTerms)
	if err != nil {
		return snap, err
	}
	snap.TopTerms = terms

	zero, err := store.GetZeroResultQueries(100)
	if err != nil {
		return snap, err
	}
	snap.ZeroResultQueries = zero
	snap.ZeroResultCount = int64(len(zero))

	latency, err := store.GetLatencyCounts("0000-01-01", "9999-12-31")
	if err != nil {
		return snap, err
	}
	snap.Latency = latency

	return snap, nil
}
