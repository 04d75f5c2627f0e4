// Package embed provides embedding providers for search queries.
//
// Corpus embeddings are precomputed offline; at runtime only query text
// (and uploaded query images) are embedded. Providers fail with retryable
// network errors and the search core degrades instead of failing the
// request.
package embed

import (
	"context"
	"time"

	folioerrors "github.com/atelierhq/folio/internal/errors"
)

const (
	// DefaultTimeout bounds a single provider call.
	DefaultTimeout = 30 * time.Second

	// StaticDimensions is the embedding dimension of the static provider.
	StaticDimensions = 256

	// DefaultCacheSize is the default query embedding cache size.
	// At 384 dims * 4 bytes * 1000 entries this is under 2MB.
	DefaultCacheSize = 1000
)

// Provider generates vector embeddings for queries.
type Provider interface {
	// EmbedText generates an embedding for query text.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedImage generates an embedding for raw image bytes.
	EmbedImage(ctx context.Context, data []byte) ([]float32, error)

	// Dimensions returns the text embedding dimension.
	Dimensions() int

	// ModelName returns the model identifier.
	ModelName() string

	// Available checks if the provider is ready.
	Available(ctx context.Context) bool

	// Close releases resources.
	Close() error
}

func errClosed() error {
	return folioerrors.New(folioerrors.ErrCodeInternal, "embedding provider is closed", nil)
}
