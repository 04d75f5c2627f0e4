package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/folio/internal/catalog"
)

func metadataCorpus() []*catalog.Work {
	return []*catalog.Work{
		{
			ID:       "a",
			Year:     "2020",
			Medium:   []string{"neon", "steel"},
			Category: "installation",
			Tags:     []string{"light", "beach"},
		},
		{
			ID:   "b",
			Year: "2019",
			Tags: []string{"sculpture"},
		},
	}
}

func TestMatchMetadata_YearHit(t *testing.T) {
	scores := matchMetadata("works from 2020", metadataCorpus())
	require.Contains(t, scores, 0)
	assert.InDelta(t, metadataYearWeight, scores[0], 1e-9)
	assert.NotContains(t, scores, 1)
}

func TestMatchMetadata_PerHitAccumulation(t *testing.T) {
	// year (0.3) + medium neon (0.2) + tag light (0.2) = 0.7
	scores := matchMetadata("neon light 2020", metadataCorpus())
	require.Contains(t, scores, 0)
	assert.InDelta(t, 0.7, scores[0], 1e-9)
}

func TestMatchMetadata_CappedAtOne(t *testing.T) {
	// year 0.3 + two mediums 0.4 + category 0.3 + two tags 0.4 = 1.4, capped.
	scores := matchMetadata("2020 neon steel installation light beach", metadataCorpus())
	require.Contains(t, scores, 0)
	assert.InDelta(t, 1.0, scores[0], 1e-9)
}

func TestMatchMetadata_CaseInsensitive(t *testing.T) {
	scores := matchMetadata("NEON Light", metadataCorpus())
	assert.Contains(t, scores, 0)
}

func TestMatchMetadata_ZeroScoresExcluded(t *testing.T) {
	scores := matchMetadata("watercolor portrait", metadataCorpus())
	assert.Empty(t, scores)
}

func TestMatchMetadata_EmptyQuery(t *testing.T) {
	assert.Empty(t, matchMetadata("", metadataCorpus()))
	assert.Empty(t, matchMetadata("   ", metadataCorpus()))
}
