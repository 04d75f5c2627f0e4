package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/atelierhq/folio/internal/catalog"
	"github.com/atelierhq/folio/internal/config"
	"github.com/atelierhq/folio/internal/embed"
)

// scoreEpsilon absorbs float error at the combined-threshold boundary so
// a score computed exactly at the threshold is included.
const scoreEpsilon = 1e-9

// Engine runs hybrid search over one corpus snapshot. Derived state
// (inverted index, fuzzy matcher, image index) is rebuilt whenever the
// snapshot is swapped; searches in flight keep the snapshot they started
// with.
type Engine struct {
	cfg      config.SearchConfig
	provider embed.Provider
	logger   *slog.Logger

	mu      sync.RWMutex
	snap    *catalog.Snapshot
	keyword *KeywordIndex
	fuzzy   *FuzzyMatcher
	images  *ImageIndex
}

// NewEngine creates an engine over the given snapshot and builds the
// derived indexes.
func NewEngine(cfg config.SearchConfig, provider embed.Provider, snap *catalog.Snapshot) *Engine {
	e := &Engine{
		cfg:      cfg,
		provider: provider,
		logger:   slog.Default().With(slog.String("component", "search")),
	}
	e.SetSnapshot(snap)
	return e
}

// SetSnapshot swaps the corpus and rebuilds derived indexes.
func (e *Engine) SetSnapshot(snap *catalog.Snapshot) {
	if snap == nil {
		snap = &catalog.Snapshot{}
	}

	keyword := NewKeywordIndex(snap.Works)
	fz := NewFuzzyMatcher(snap.Works, e.cfg.FuzzyThreshold)
	images := NewImageIndex(snap.Images)

	e.mu.Lock()
	e.snap = snap
	e.keyword = keyword
	e.fuzzy = fz
	e.images = images
	e.mu.Unlock()

	e.logger.Info("indexes rebuilt",
		slog.Int("works", len(snap.Works)),
		slog.Int("images", len(snap.Images)),
		slog.Int("terms", keyword.TermCount()))
}

// Snapshot returns the current corpus snapshot.
func (e *Engine) Snapshot() *catalog.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

// Search runs the four strategies concurrently and merges their scores
// into one ranked list. Outcomes report per-strategy results including
// degradation, so callers can tell "no match" from "strategy down".
//
// An empty or whitespace query short-circuits to an empty list without
// touching any matcher or the provider.
func (e *Engine) Search(ctx context.Context, query string, opts Options) ([]Result, []Outcome) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	e.mu.RLock()
	snap, keyword, fz := e.snap, e.keyword, e.fuzzy
	e.mu.RUnlock()

	weights := e.weights(opts)

	outcomes := make([]Outcome, 4)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		outcomes[0] = e.runSemantic(gctx, query, snap.Works, opts)
		return nil
	})
	g.Go(func() error {
		outcomes[1] = runStrategy(StrategyKeyword, opts, func() map[int]float64 {
			return e.filterKeyword(keyword.Search(query))
		})
		return nil
	})
	g.Go(func() error {
		outcomes[2] = runStrategy(StrategyFuzzy, opts, func() map[int]float64 {
			return fz.Search(query)
		})
		return nil
	})
	g.Go(func() error {
		outcomes[3] = runStrategy(StrategyMetadata, opts, func() map[int]float64 {
			return matchMetadata(query, snap.Works)
		})
		return nil
	})

	// Matchers absorb their own failures; the group never errors.
	_ = g.Wait()

	results := e.combine(snap, outcomes, weights, opts)

	e.logger.Debug("search complete",
		slog.String("query", query),
		slog.Int("results", len(results)))

	return results, outcomes
}

// runSemantic embeds the query and scores text embeddings. Provider
// failure degrades the strategy to an empty contribution; the other three
// strategies still rank.
func (e *Engine) runSemantic(ctx context.Context, query string, works []*catalog.Work, opts Options) Outcome {
	out := Outcome{Strategy: StrategySemantic}
	if opts.Disabled[StrategySemantic] {
		return out
	}

	queryEmb, err := e.provider.EmbedText(ctx, query)
	if err != nil {
		e.logger.Warn("semantic strategy degraded",
			slog.String("error", err.Error()))
		out.Degraded = true
		out.Err = err
		return out
	}

	out.Scores = semanticScores(queryEmb, works, e.cfg.SemanticThreshold)
	return out
}

func runStrategy(s Strategy, opts Options, fn func() map[int]float64) Outcome {
	out := Outcome{Strategy: s}
	if opts.Disabled[s] {
		return out
	}
	out.Scores = fn()
	return out
}

func (e *Engine) filterKeyword(scores map[int]float64) map[int]float64 {
	if e.cfg.KeywordThreshold <= 0 {
		return scores
	}
	for i, s := range scores {
		if s < e.cfg.KeywordThreshold {
			delete(scores, i)
		}
	}
	return scores
}

// combine merges the sparse per-strategy score maps into score records,
// computes the weighted composite, filters by the combined threshold,
// sorts, and truncates. Works absent from every strategy never enter the
// union.
func (e *Engine) combine(snap *catalog.Snapshot, outcomes []Outcome, w Weights, opts Options) []Result {
	records := make(map[int]*Breakdown)
	touch := func(i int) *Breakdown {
		if b, ok := records[i]; ok {
			return b
		}
		b := &Breakdown{}
		records[i] = b
		return b
	}

	for _, out := range outcomes {
		for i, s := range out.Scores {
			b := touch(i)
			switch out.Strategy {
			case StrategySemantic:
				b.Semantic = s
			case StrategyKeyword:
				b.Keyword = s
			case StrategyFuzzy:
				b.Fuzzy = s
			case StrategyMetadata:
				b.Metadata = s
			}
		}
	}

	indices := make([]int, 0, len(records))
	for i := range records {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	results := make([]Result, 0, len(records))
	for _, i := range indices {
		b := records[i]
		combined := b.Semantic*w.Semantic + b.Keyword*w.Keyword +
			b.Fuzzy*w.Fuzzy + b.Metadata*w.Metadata
		if combined+scoreEpsilon < e.cfg.CombinedThreshold {
			continue
		}
		results = append(results, Result{
			Work:      snap.Works[i],
			Score:     combined,
			Breakdown: *b,
		})
	}

	// Stable sort; equal scores keep catalog order, no secondary key is
	// applied.
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}
	if limit > e.cfg.MaxResults {
		limit = e.cfg.MaxResults
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (e *Engine) weights(opts Options) Weights {
	if opts.Weights != nil {
		return *opts.Weights
	}
	return Weights{
		Semantic: e.cfg.SemanticWeight,
		Keyword:  e.cfg.KeywordWeight,
		Fuzzy:    e.cfg.FuzzyWeight,
		Metadata: e.cfg.MetadataWeight,
	}
}
