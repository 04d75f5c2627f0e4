package search

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/atelierhq/folio/internal/catalog"
)

// Field weights for fuzzy matching. Title dominates; tags are a weak
// signal because they already feed the keyword and metadata strategies.
const (
	fuzzyTitleWeight       = 0.5
	fuzzyDescriptionWeight = 0.2
	fuzzyTextWeight        = 0.2
	fuzzyTagWeight         = 0.1

	// fuzzyMinTermLen skips noise terms too short to edit-distance match.
	fuzzyMinTermLen = 2
)

type fuzzyField struct {
	weight float64
	words  []string
}

// FuzzyMatcher scores typo-tolerant matches over weighted text fields
// using normalized Levenshtein distance. Field word lists are precomputed
// from the snapshot.
type FuzzyMatcher struct {
	items [][]fuzzyField

	// threshold is the maximum normalized edit distance for a match
	// (lower is stricter).
	threshold float64
}

// NewFuzzyMatcher builds the matcher over the given works.
func NewFuzzyMatcher(works []*catalog.Work, threshold float64) *FuzzyMatcher {
	m := &FuzzyMatcher{
		items:     make([][]fuzzyField, len(works)),
		threshold: threshold,
	}

	for i, w := range works {
		m.items[i] = []fuzzyField{
			{fuzzyTitleWeight, fuzzyWords(w.Title)},
			{fuzzyDescriptionWeight, fuzzyWords(w.Description)},
			{fuzzyTextWeight, fuzzyWords(w.TextContent)},
			{fuzzyTagWeight, fuzzyWords(strings.Join(w.Tags, " "))},
		}
	}

	return m
}

// fuzzyWords splits text into lowercase surface forms. No stemming: edit
// distance against the stemmed form would double-penalize inflections.
func fuzzyWords(text string) []string {
	var words []string
	for _, f := range strings.Fields(strings.ToLower(text)) {
		f = strings.Trim(f, ".,;:!?\"'()[]")
		if len(f) >= fuzzyMinTermLen {
			words = append(words, f)
		}
	}
	return words
}

// Search scores each work by its best fuzzy field matches. Per field the
// closest query-term/field-word pair determines the field's normalized
// distance; a field within the threshold contributes
// weight * (1 - distance). Works with no passing field are omitted.
func (m *FuzzyMatcher) Search(query string) map[int]float64 {
	queryWords := fuzzyWords(query)
	if len(queryWords) == 0 {
		return nil
	}

	scores := make(map[int]float64)
	for i, fields := range m.items {
		var total float64
		for _, field := range fields {
			dist := bestDistance(queryWords, field.words)
			if dist <= m.threshold {
				total += field.weight * (1 - dist)
			}
		}
		if total > 0 {
			scores[i] = total
		}
	}
	return scores
}

// bestDistance returns the minimum normalized Levenshtein distance over
// all query-word/field-word pairs, or 1 if either side is empty.
func bestDistance(queryWords, fieldWords []string) float64 {
	best := 1.0
	for _, q := range queryWords {
		for _, f := range fieldWords {
			d := normalizedDistance(q, f)
			if d < best {
				best = d
			}
		}
	}
	return best
}

func normalizedDistance(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	return float64(fuzzy.LevenshteinDistance(a, b)) / float64(longest)
}
