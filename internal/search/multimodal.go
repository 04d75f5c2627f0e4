package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/atelierhq/folio/internal/vec"
)

// BlendWeights configures the two-signal multimodal scoring path. The
// weights must sum to 1.0.
type BlendWeights struct {
	Text  float64
	Image float64
}

// MultimodalSearch ranks works by blending text-embedding similarity with
// the mean similarity over the work's image embeddings, using the
// configured blend (default 0.7 text / 0.3 image). This path is separate
// from the four-strategy hybrid ranking, not a fifth strategy inside it.
func (e *Engine) MultimodalSearch(ctx context.Context, query string, limit int) ([]BlendResult, error) {
	return e.blendSearch(ctx, query, BlendWeights{
		Text:  e.cfg.TextWeight,
		Image: e.cfg.ImageWeight,
	}, limit)
}

// TextSearch is the pure-text variant: weight 1.0 on the text embedding,
// image similarity skipped entirely for lower latency.
func (e *Engine) TextSearch(ctx context.Context, query string, limit int) ([]BlendResult, error) {
	return e.blendSearch(ctx, query, BlendWeights{Text: 1.0}, limit)
}

// blendSearch is the single generic blend implementation; the named entry
// points above are configurations of it.
func (e *Engine) blendSearch(ctx context.Context, query string, blend BlendWeights, limit int) ([]BlendResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	queryEmb, err := e.provider.EmbedText(ctx, query)
	if err != nil {
		e.logger.Warn("blend search degraded, provider failed",
			slog.String("error", err.Error()))
		return nil, err
	}

	e.mu.RLock()
	snap := e.snap
	e.mu.RUnlock()

	results := make([]BlendResult, 0)
	for _, w := range snap.Works {
		textScore := vec.Cosine(queryEmb, w.TextEmbedding)

		var imageScore float64
		if blend.Image > 0 {
			imageScore = vec.MeanCosine(queryEmb, w.ImageEmbeddings)
		}

		score := textScore*blend.Text + imageScore*blend.Image
		if score+scoreEpsilon < e.cfg.MinSimilarity {
			continue
		}
		results = append(results, BlendResult{
			Work:       w,
			Score:      score,
			TextScore:  textScore,
			ImageScore: imageScore,
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}
	if limit > e.cfg.MaxResults {
		limit = e.cfg.MaxResults
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
