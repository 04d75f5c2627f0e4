package search

import (
	"strings"

	"github.com/atelierhq/folio/internal/catalog"
)

// KeywordIndex is an inverted index from stemmed term to the works
// containing it. Built once from a snapshot; rebuilt wholesale when the
// snapshot changes.
type KeywordIndex struct {
	postings map[string][]int
}

// NewKeywordIndex builds the index over the given works. Each work's term
// set is the union of its tokenized title, description, text content,
// tags, medium, and category, deduplicated across fields.
func NewKeywordIndex(works []*catalog.Work) *KeywordIndex {
	idx := &KeywordIndex{postings: make(map[string][]int)}

	for i, w := range works {
		seen := make(map[string]struct{})
		addTerms(seen, w.Title)
		addTerms(seen, w.Description)
		addTerms(seen, w.TextContent)
		addTerms(seen, strings.Join(w.Tags, " "))
		addTerms(seen, strings.Join(w.Medium, " "))
		addTerms(seen, w.Category)

		for term := range seen {
			idx.postings[term] = append(idx.postings[term], i)
		}
	}

	return idx
}

func addTerms(set map[string]struct{}, text string) {
	for _, t := range Tokenize(text) {
		set[t] = struct{}{}
	}
}

// Search tokenizes the query and scores each matching work by term
// overlap: score = matched query terms / total query terms, so a work
// containing every query term scores 1.0.
func (idx *KeywordIndex) Search(query string) map[int]float64 {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	counts := make(map[int]int)
	for _, term := range terms {
		for _, i := range idx.postings[term] {
			counts[i]++
		}
	}

	scores := make(map[int]float64, len(counts))
	for i, c := range counts {
		scores[i] = float64(c) / float64(len(terms))
	}
	return scores
}

// TermCount returns the number of distinct indexed terms.
func (idx *KeywordIndex) TermCount() int {
	return len(idx.postings)
}
