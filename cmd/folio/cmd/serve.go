package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/atelierhq/folio/internal/catalog"
	"github.com/atelierhq/folio/internal/config"
	"github.com/atelierhq/folio/internal/embed"
	"github.com/atelierhq/folio/internal/logging"
	"github.com/atelierhq/folio/internal/search"
	"github.com/atelierhq/folio/internal/server"
	"github.com/atelierhq/folio/internal/suggest"
	"github.com/atelierhq/folio/internal/telemetry"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio site and search API",
		Long: `Serve the static portfolio site and the search API.

The catalog files are watched for changes; edits to the works index or
image catalog are picked up without a restart.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides config)")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	// The server logs to file when configured, in addition to stderr.
	logCfg := logging.Config{
		Level:         cfg.LogLevel,
		FilePath:      cfg.Paths.LogFile,
		WriteToStderr: true,
	}
	if debugMode {
		logCfg.Level = "debug"
	}
	cleanup, err := logging.SetupDefault(logCfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snap := catalog.Load(cfg.Paths.WorksFile, cfg.Paths.ImagesFile)
	slog.Info("catalog loaded",
		slog.Int("works", len(snap.Works)),
		slog.Int("images", len(snap.Images)))

	provider := embed.NewProvider(ctx, cfg.Embeddings)
	defer func() { _ = provider.Close() }()

	engine := search.NewEngine(cfg.Search, provider, snap)

	history := suggest.LoadHistory(cfg.Paths.HistoryFile)
	suggester := suggest.NewEngine(history, provider, cfg.Suggest.DefaultLimit)
	if cfg.Suggest.SeedDefaults {
		if err := suggester.SeedDefaults(ctx); err != nil {
			slog.Warn("seeding default suggestions failed",
				slog.String("error", err.Error()))
		}
	}

	var collector *telemetry.Collector
	var store *telemetry.Store
	if cfg.Telemetry.Enabled {
		store, err = telemetry.OpenStore(cfg.Paths.TelemetryDB)
		if err != nil {
			slog.Warn("telemetry store unavailable, running without persistence",
				slog.String("error", err.Error()))
		}
		collector = telemetry.NewCollector(store, cfg.Telemetry.FlushInterval)
		defer func() {
			_ = collector.Close()
			if store != nil {
				_ = store.Close()
			}
		}()
	}

	watcher, err := catalog.NewWatcher(cfg.Paths.WorksFile, cfg.Paths.ImagesFile,
		func(fresh *catalog.Snapshot) {
			engine.SetSnapshot(fresh)
		})
	if err != nil {
		slog.Warn("catalog watcher unavailable, live reload disabled",
			slog.String("error", err.Error()))
	} else {
		go watcher.Run(ctx)
	}

	return server.New(cfg, engine, suggester, collector, store).Start(ctx)
}
