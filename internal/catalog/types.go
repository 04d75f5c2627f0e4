// Package catalog holds the read-only corpus the search core operates on:
// portfolio works and their images, loaded from precomputed JSON snapshots.
//
// Snapshots are produced by an offline pipeline that also computes the
// embeddings; this package only loads them. During a search the corpus is
// never mutated; reloads swap in a whole new Snapshot.
package catalog

// Work is a single portfolio piece.
//
// Embedding invariant: all text embeddings in a snapshot share one
// dimensionality, all image embeddings share another (independent of the
// text one). A nil TextEmbedding means semantic matching scores this work
// zero; it is never excluded from the other strategies.
type Work struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TextContent string   `json:"textContent"`
	Tags        []string `json:"tags"`
	Medium      []string `json:"medium"`
	Category    string   `json:"category"`
	Year        string   `json:"year"`
	Featured    bool     `json:"featured"`
	Status      string   `json:"status"`
	Images      []string `json:"images"`

	TextEmbedding   []float32   `json:"textEmbedding"`
	ImageEmbeddings [][]float32 `json:"imageEmbeddings"`
}

// Image is a single catalog image with its precomputed embedding.
type Image struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption"`
	Alt       string    `json:"alt"`
	Embedding []float32 `json:"embedding"`
}

// Snapshot is an immutable view of the corpus. The search engine and the
// image index are built against one Snapshot and rebuilt when a new one is
// loaded.
type Snapshot struct {
	Works  []*Work
	Images []*Image
}

// WorkByID returns the work with the given id, or nil.
func (s *Snapshot) WorkByID(id string) *Work {
	for _, w := range s.Works {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// worksFile is the on-disk shape of the works snapshot.
type worksFile struct {
	Works []*Work `json:"works"`
}

// imagesFile is the on-disk shape of the image catalog.
type imagesFile struct {
	Images []*Image `json:"images"`
}
