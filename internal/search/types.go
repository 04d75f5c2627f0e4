// Package search implements hybrid search over the portfolio corpus:
// four matching strategies (semantic, keyword, fuzzy, metadata) run
// concurrently and their per-work scores merge into one weighted
// composite ranking. A separate two-signal blend path serves multimodal
// queries.
package search

import (
	"github.com/atelierhq/folio/internal/catalog"
)

// Strategy identifies one of the four hybrid matching strategies.
type Strategy string

const (
	StrategySemantic Strategy = "semantic"
	StrategyKeyword  Strategy = "keyword"
	StrategyFuzzy    Strategy = "fuzzy"
	StrategyMetadata Strategy = "metadata"
)

// Weights holds the four strategy weights. They must sum to 1.0.
type Weights struct {
	Semantic float64 `json:"semantic"`
	Keyword  float64 `json:"keyword"`
	Fuzzy    float64 `json:"fuzzy"`
	Metadata float64 `json:"metadata"`
}

// Options adjusts a single search call.
type Options struct {
	// Limit caps the result count. Zero means the configured default.
	Limit int

	// Weights overrides the configured strategy weights when non-nil.
	Weights *Weights

	// Disabled turns individual strategies off. A disabled strategy
	// contributes an empty result set; no weight redistribution occurs.
	Disabled map[Strategy]bool
}

// Breakdown carries the raw per-strategy sub-scores behind a combined
// score, for display and debugging.
type Breakdown struct {
	Semantic float64 `json:"semantic"`
	Keyword  float64 `json:"keyword"`
	Fuzzy    float64 `json:"fuzzy"`
	Metadata float64 `json:"metadata"`
}

// Result is one ranked work.
type Result struct {
	Work      *catalog.Work `json:"work"`
	Score     float64       `json:"score"`
	Breakdown Breakdown     `json:"breakdown"`
}

// Outcome reports how one strategy fared during a search. Degraded marks
// a strategy that failed (provider down, usually) and contributed nothing;
// it is distinct from a strategy that ran and simply found no matches.
type Outcome struct {
	Strategy Strategy
	Scores   map[int]float64
	Degraded bool
	Err      error
}

// BlendResult is one ranked work from the two-signal multimodal path.
type BlendResult struct {
	Work       *catalog.Work `json:"work"`
	Score      float64       `json:"score"`
	TextScore  float64       `json:"textScore"`
	ImageScore float64       `json:"imageScore"`
}
