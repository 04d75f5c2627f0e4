package embed

import (
	"context"
	"log/slog"

	"github.com/atelierhq/folio/internal/config"
)

// NewProvider builds the configured embedding provider wrapped in the
// query cache.
//
// Fallback chain: requesting "ollama" when the endpoint is unreachable
// degrades to the static provider with a logged warning rather than
// failing startup. Search quality drops; availability does not.
func NewProvider(ctx context.Context, cfg config.EmbeddingsConfig) Provider {
	var inner Provider

	switch cfg.Provider {
	case "static":
		inner = NewStaticProvider()

	case "ollama", "":
		ollama, err := NewOllamaProvider(ctx, OllamaConfig{
			Host:       cfg.OllamaHost,
			Model:      cfg.Model,
			ImageModel: cfg.ImageModel,
		})
		if err != nil {
			slog.Warn("ollama unavailable, falling back to static embeddings",
				slog.String("host", cfg.OllamaHost),
				slog.String("error", err.Error()))
			inner = NewStaticProvider()
		} else {
			inner = ollama
		}

	default:
		slog.Warn("unknown embedding provider, using static",
			slog.String("provider", cfg.Provider))
		inner = NewStaticProvider()
	}

	slog.Info("embedding provider ready",
		slog.String("model", inner.ModelName()),
		slog.Int("dimensions", inner.Dimensions()))

	return NewCachedProvider(inner, cfg.CacheSize)
}
