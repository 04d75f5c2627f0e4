package search

import (
	"github.com/atelierhq/folio/internal/catalog"
	"github.com/atelierhq/folio/internal/vec"
)

// semanticScores computes cosine similarity between the query embedding
// and each work's text embedding. Works without an embedding score 0 and
// are never excluded from the other strategies; they simply fall below
// the threshold here. Only scores at or above threshold are returned.
func semanticScores(queryEmb []float32, works []*catalog.Work, threshold float64) map[int]float64 {
	scores := make(map[int]float64)
	for i, w := range works {
		s := vec.Cosine(queryEmb, w.TextEmbedding)
		if s >= threshold && s > 0 {
			scores[i] = s
		}
	}
	return scores
}
