package suggest

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/atelierhq/folio/internal/embed"
	"github.com/atelierhq/folio/internal/vec"
)

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	Query string  `json:"query"`
	Score float64 `json:"score"`
	Count int     `json:"count"`
}

// Engine answers partial queries from the history: prefix matches first,
// semantic nearest-neighbors when prefixes alone cannot fill the limit.
type Engine struct {
	history  *History
	provider embed.Provider
	logger   *slog.Logger

	defaultLimit int
}

// NewEngine creates a suggestion engine over the given history.
func NewEngine(history *History, provider embed.Provider, defaultLimit int) *Engine {
	if defaultLimit <= 0 {
		defaultLimit = 5
	}
	return &Engine{
		history:      history,
		provider:     provider,
		logger:       slog.Default().With(slog.String("component", "suggest")),
		defaultLimit: defaultLimit,
	}
}

// History exposes the underlying history for stats reporting.
func (e *Engine) History() *History {
	return e.history
}

// GetSuggestions returns up to limit candidates for a partial query.
//
// Prefix matches always score a perfect 1.0, ranked among themselves by
// popularity. If they fill the limit, the provider is never called. The
// semantic phase only rescores non-prefix entries; entries without a
// stored embedding score 0 there but are never excluded.
func (e *Engine) GetSuggestions(ctx context.Context, partial string, limit int) []Suggestion {
	p := normalize(partial)
	if p == "" {
		return nil
	}
	if limit <= 0 {
		limit = e.defaultLimit
	}

	entries := e.history.Snapshot()

	var prefix []Suggestion
	prefixKeys := make(map[string]struct{})
	for _, entry := range entries {
		if strings.HasPrefix(normalize(entry.Query), p) {
			prefix = append(prefix, Suggestion{Query: entry.Query, Score: 1.0, Count: entry.Count})
			prefixKeys[normalize(entry.Query)] = struct{}{}
		}
	}
	sort.SliceStable(prefix, func(a, b int) bool {
		return prefix[a].Count > prefix[b].Count
	})

	if len(prefix) >= limit {
		return prefix[:limit]
	}

	partialEmb, err := e.provider.EmbedText(ctx, partial)
	if err != nil {
		e.logger.Warn("semantic suggestions degraded",
			slog.String("error", err.Error()))
		return prefix
	}

	merged := prefix
	for _, entry := range entries {
		if _, seen := prefixKeys[normalize(entry.Query)]; seen {
			continue
		}
		merged = append(merged, Suggestion{
			Query: entry.Query,
			Score: vec.Cosine(partialEmb, entry.Embedding),
			Count: entry.Count,
		})
	}

	sort.SliceStable(merged, func(a, b int) bool {
		if merged[a].Score != merged[b].Score {
			return merged[a].Score > merged[b].Score
		}
		return merged[a].Count > merged[b].Count
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// AddSearch records a committed search in the history. It is invoked as a
// side effect of full searches, never of keystroke-driven suggestion
// fetches, so history growth tracks committed searches.
//
// Repeats increment the stored entry without recomputing its embedding.
// For a new query a failed embedding is recorded as nil rather than
// dropping the entry.
func (e *Engine) AddSearch(ctx context.Context, query string) error {
	if normalize(query) == "" {
		return nil
	}

	var embedding []float32
	if _, exists := e.history.Lookup(query); !exists {
		var err error
		embedding, err = e.provider.EmbedText(ctx, query)
		if err != nil {
			e.logger.Warn("recording search without embedding",
				slog.String("query", query),
				slog.String("error", err.Error()))
			embedding = nil
		}
	}

	return e.history.Record(query, embedding)
}

// SeedDefaults populates a fresh history with curated generic queries so
// autocomplete works immediately after first deployment. Idempotent: a
// non-empty history is left untouched.
func (e *Engine) SeedDefaults(ctx context.Context) error {
	if e.history.Len() > 0 {
		e.logger.Debug("search history already populated, skipping seeds",
			slog.Int("entries", e.history.Len()))
		return nil
	}

	for _, q := range defaultSearches {
		if err := e.AddSearch(ctx, q); err != nil {
			return err
		}
	}

	e.logger.Info("seeded default search history",
		slog.Int("entries", len(defaultSearches)))
	return nil
}
