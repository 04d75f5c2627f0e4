package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/coder/hnsw"

	"github.com/atelierhq/folio/internal/catalog"
	"github.com/atelierhq/folio/internal/vec"
)

// ImageIndex is an approximate nearest-neighbor index over the image
// catalog's embeddings, for direct image search. Built fresh per
// snapshot; there is no deletion path.
type ImageIndex struct {
	graph  *hnsw.Graph[uint64]
	images map[uint64]*catalog.Image
	dims   int
}

// ImageHit is one ranked image.
type ImageHit struct {
	Image *catalog.Image `json:"image"`
	Score float64        `json:"score"`
}

// NewImageIndex builds the index. Images without an embedding are skipped
// with a warning; they cannot be ranked.
func NewImageIndex(images []*catalog.Image) *ImageIndex {
	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = 16
	graph.EfSearch = 20

	idx := &ImageIndex{
		graph:  graph,
		images: make(map[uint64]*catalog.Image),
	}

	var key uint64
	for _, img := range images {
		if len(img.Embedding) == 0 {
			slog.Warn("image has no embedding, excluded from image search",
				slog.String("id", img.ID))
			continue
		}
		if idx.dims == 0 {
			idx.dims = len(img.Embedding)
		}
		if len(img.Embedding) != idx.dims {
			slog.Warn("image embedding dimension mismatch, excluded",
				slog.String("id", img.ID),
				slog.Int("got", len(img.Embedding)),
				slog.Int("want", idx.dims))
			continue
		}
		graph.Add(hnsw.MakeNode(key, vec.Normalize(img.Embedding)))
		idx.images[key] = img
		key++
	}

	return idx
}

// Len returns the number of indexed images.
func (idx *ImageIndex) Len() int {
	return len(idx.images)
}

// Search returns the k nearest images to the query embedding, scored as
// cosine similarity.
func (idx *ImageIndex) Search(query []float32, k int) []ImageHit {
	if idx.graph.Len() == 0 || len(query) != idx.dims || k <= 0 {
		return nil
	}

	nq := vec.Normalize(query)
	nodes := idx.graph.Search(nq, k)

	hits := make([]ImageHit, 0, len(nodes))
	for _, node := range nodes {
		img, ok := idx.images[node.Key]
		if !ok {
			continue
		}
		hits = append(hits, ImageHit{
			Image: img,
			Score: vec.Cosine(nq, node.Value),
		})
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})
	return hits
}

// SearchImages embeds the query text and ranks catalog images against it.
func (e *Engine) SearchImages(ctx context.Context, query string, limit int) ([]ImageHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}
	if limit > e.cfg.MaxResults {
		limit = e.cfg.MaxResults
	}

	queryEmb, err := e.provider.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	images := e.images
	e.mu.RUnlock()

	return images.Search(queryEmb, limit), nil
}
