package search

import (
	"strings"

	"github.com/atelierhq/folio/internal/catalog"
)

// Metadata contribution weights. The sum is capped at 1.0.
const (
	metadataYearWeight     = 0.3
	metadataMediumWeight   = 0.2
	metadataCategoryWeight = 0.3
	metadataTagWeight      = 0.2
)

// matchMetadata scores works by literal substring hits of their
// structured fields inside the raw query: year, medium terms, category,
// and tags each contribute a fixed weight. Only works with a nonzero
// score are returned.
func matchMetadata(query string, works []*catalog.Work) map[int]float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	scores := make(map[int]float64)
	for i, w := range works {
		var score float64

		if w.Year != "" && strings.Contains(q, strings.ToLower(w.Year)) {
			score += metadataYearWeight
		}
		for _, m := range w.Medium {
			if m != "" && strings.Contains(q, strings.ToLower(m)) {
				score += metadataMediumWeight
			}
		}
		if w.Category != "" && strings.Contains(q, strings.ToLower(w.Category)) {
			score += metadataCategoryWeight
		}
		for _, tag := range w.Tags {
			if tag != "" && strings.Contains(q, strings.ToLower(tag)) {
				score += metadataTagWeight
			}
		}

		if score > 1.0 {
			score = 1.0
		}
		if score > 0 {
			scores[i] = score
		}
	}
	return scores
}
