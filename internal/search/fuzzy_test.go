package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/folio/internal/catalog"
)

func fuzzyCorpus() []*catalog.Work {
	return []*catalog.Work{
		{
			ID:          "ceramics",
			Title:       "Ceramic Vessels",
			Description: "Hand-thrown stoneware vessels",
			Tags:        []string{"pottery"},
		},
		{
			ID:    "photo",
			Title: "Street Photography",
		},
	}
}

func TestFuzzyMatcher_ExactMatchScoresFieldWeights(t *testing.T) {
	m := NewFuzzyMatcher(fuzzyCorpus(), 0.4)

	scores := m.Search("ceramic")
	require.Contains(t, scores, 0)
	// Exact title hit contributes the full title weight.
	assert.InDelta(t, fuzzyTitleWeight, scores[0], 1e-9)
}

func TestFuzzyMatcher_ToleratesTypos(t *testing.T) {
	m := NewFuzzyMatcher(fuzzyCorpus(), 0.4)

	// One transposition away from "ceramic".
	scores := m.Search("cermaic")
	assert.Contains(t, scores, 0)

	// Hopelessly far from anything.
	scores = m.Search("zzxqwv")
	assert.Empty(t, scores)
}

func TestFuzzyMatcher_DistanceCutoff(t *testing.T) {
	strict := NewFuzzyMatcher(fuzzyCorpus(), 0.1)
	loose := NewFuzzyMatcher(fuzzyCorpus(), 0.5)

	// "potery" is one deletion from the tag "pottery" (distance 1/7 ≈ 0.14).
	assert.Empty(t, strict.Search("potery"))
	assert.Contains(t, loose.Search("potery"), 0)
}

func TestFuzzyMatcher_HigherIsBetter(t *testing.T) {
	m := NewFuzzyMatcher(fuzzyCorpus(), 0.4)

	exact := m.Search("photography")[1]
	typo := m.Search("photograpy")[1]
	assert.Greater(t, exact, typo)
}

func TestFuzzyMatcher_MultipleFieldsAccumulate(t *testing.T) {
	m := NewFuzzyMatcher(fuzzyCorpus(), 0.4)

	// "vessels" hits both title and description.
	scores := m.Search("vessels")
	require.Contains(t, scores, 0)
	assert.InDelta(t, fuzzyTitleWeight+fuzzyDescriptionWeight, scores[0], 1e-9)
}

func TestFuzzyMatcher_EmptyQuery(t *testing.T) {
	m := NewFuzzyMatcher(fuzzyCorpus(), 0.4)
	assert.Empty(t, m.Search(""))
	assert.Empty(t, m.Search("a"))
}
