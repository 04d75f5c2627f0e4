package embed

import (
	"context"
	"hash/fnv"
	"regexp"
	"strings"
	"sync"

	"github.com/atelierhq/folio/internal/vec"
)

// StaticProvider generates embeddings with a hash-based scheme. It needs no
// network and no model download, and the same input always produces the
// same vector. Semantic quality is limited; it exists for development and
// as a degraded fallback when Ollama is unreachable.
type StaticProvider struct {
	mu     sync.RWMutex
	closed bool
}

var _ Provider = (*StaticProvider)(nil)

// Feature weights for vector generation.
const (
	tokenWeight = 0.7
	ngramWeight = 0.3
	ngramSize   = 3
)

var wordRegex = regexp.MustCompile(`[a-z0-9]+`)

// NewStaticProvider creates a new static provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

// EmbedText generates a deterministic embedding for query text.
func (p *StaticProvider) EmbedText(_ context.Context, text string) ([]float32, error) {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return nil, errClosed()
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return make([]float32, StaticDimensions), nil
	}

	vector := make([]float32, StaticDimensions)

	lower := strings.ToLower(trimmed)
	for _, word := range wordRegex.FindAllString(lower, -1) {
		vector[hashToIndex(word)] += tokenWeight
	}
	for _, ngram := range extractNgrams(squash(lower), ngramSize) {
		vector[hashToIndex(ngram)] += ngramWeight
	}

	return vec.Normalize(vector), nil
}

// EmbedImage generates a deterministic embedding from raw image bytes.
// Bytes are hashed in fixed windows so similar files land on similar
// vectors only by accident; good enough for wiring and tests.
func (p *StaticProvider) EmbedImage(_ context.Context, data []byte) ([]float32, error) {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return nil, errClosed()
	}

	vector := make([]float32, StaticDimensions)
	if len(data) == 0 {
		return vector, nil
	}

	const window = 64
	for i := 0; i < len(data); i += window {
		end := i + window
		if end > len(data) {
			end = len(data)
		}
		h := fnv.New64()
		_, _ = h.Write(data[i:end])
		vector[int(h.Sum64()%uint64(StaticDimensions))] += 1.0
	}

	return vec.Normalize(vector), nil
}

// squash strips everything but letters and digits for n-gram extraction.
func squash(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func extractNgrams(s string, n int) []string {
	if len(s) < n {
		return nil
	}
	ngrams := make([]string, 0, len(s)-n+1)
	for i := 0; i <= len(s)-n; i++ {
		ngrams = append(ngrams, s[i:i+n])
	}
	return ngrams
}

func hashToIndex(s string) int {
	h := fnv.New64()
	_, _ = h.Write([]byte(s))
	return int(h.Sum64() % uint64(StaticDimensions))
}

// Dimensions returns the embedding dimension.
func (p *StaticProvider) Dimensions() int {
	return StaticDimensions
}

// ModelName returns the model identifier.
func (p *StaticProvider) ModelName() string {
	return "static"
}

// Available reports readiness (always true unless closed).
func (p *StaticProvider) Available(_ context.Context) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.closed
}

// Close releases resources.
func (p *StaticProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
