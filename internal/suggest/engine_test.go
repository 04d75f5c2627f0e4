package suggest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	folioerrors "github.com/atelierhq/folio/internal/errors"
)

type stubProvider struct {
	vectors   map[string][]float32
	fallback  []float32
	err       error
	textCalls int
}

func (s *stubProvider) EmbedText(_ context.Context, text string) ([]float32, error) {
	s.textCalls++
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return s.fallback, nil
}

func (s *stubProvider) EmbedImage(_ context.Context, _ []byte) ([]float32, error) {
	return s.fallback, s.err
}

func (s *stubProvider) Dimensions() int                  { return 2 }
func (s *stubProvider) ModelName() string                { return "stub" }
func (s *stubProvider) Available(_ context.Context) bool { return s.err == nil }
func (s *stubProvider) Close() error                     { return nil }

func newTestEngine(t *testing.T, provider *stubProvider) *Engine {
	t.Helper()
	return NewEngine(tempHistory(t), provider, 5)
}

func suggestionQueries(ss []Suggestion) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.Query
	}
	return out
}

func TestGetSuggestions_PrefixPriority(t *testing.T) {
	provider := &stubProvider{fallback: []float32{1, 0}}
	e := newTestEngine(t, provider)
	ctx := context.Background()

	require.NoError(t, e.history.Record("cat photo", nil))
	cp, _ := e.history.Lookup("cat photo")
	cp.Count = 5
	require.NoError(t, e.history.Record("cats playing", nil))

	got := e.GetSuggestions(ctx, "cat", 2)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"cat photo", "cats playing"}, suggestionQueries(got))
	assert.Equal(t, 1.0, got[0].Score)
	assert.Equal(t, 1.0, got[1].Score)
	assert.Equal(t, 5, got[0].Count)

	// Prefix matches filled the limit; the cheap path never embeds.
	assert.Zero(t, provider.textCalls)
}

func TestGetSuggestions_EmptyInputShortCircuits(t *testing.T) {
	provider := &stubProvider{fallback: []float32{1, 0}}
	e := newTestEngine(t, provider)
	require.NoError(t, e.history.Record("anything", nil))

	assert.Empty(t, e.GetSuggestions(context.Background(), "", 5))
	assert.Empty(t, e.GetSuggestions(context.Background(), "   ", 5))
	assert.Zero(t, provider.textCalls)
}

func TestGetSuggestions_SemanticPhaseFillsRemainder(t *testing.T) {
	provider := &stubProvider{
		vectors: map[string][]float32{
			"sun": {1, 0},
		},
		fallback: []float32{0, 1},
	}
	e := newTestEngine(t, provider)
	ctx := context.Background()

	require.NoError(t, e.history.Record("sunset beach", []float32{1, 0}))
	require.NoError(t, e.history.Record("golden hour", []float32{0.9, 0.1}))
	require.NoError(t, e.history.Record("blue pottery", []float32{0, 1}))

	got := e.GetSuggestions(ctx, "sun", 3)
	require.Len(t, got, 3)

	// The prefix match leads with a perfect score; semantic neighbors
	// follow ordered by similarity.
	assert.Equal(t, []string{"sunset beach", "golden hour", "blue pottery"}, suggestionQueries(got))
	assert.Equal(t, 1.0, got[0].Score)
	assert.Greater(t, got[1].Score, got[2].Score)
	assert.Equal(t, 1, provider.textCalls)
}

func TestGetSuggestions_PrefixEntriesNotRescored(t *testing.T) {
	// The prefix entry's embedding is orthogonal to the partial query;
	// were it rescored semantically it would sink to the bottom.
	provider := &stubProvider{vectors: map[string][]float32{"sun": {1, 0}}}
	e := newTestEngine(t, provider)
	ctx := context.Background()

	require.NoError(t, e.history.Record("sunset", []float32{0, 1}))
	require.NoError(t, e.history.Record("warm light", []float32{1, 0}))

	got := e.GetSuggestions(ctx, "sun", 2)
	require.Len(t, got, 2)
	assert.Equal(t, "sunset", got[0].Query)
	assert.Equal(t, 1.0, got[0].Score)
}

func TestGetSuggestions_MissingEmbeddingScoresZero(t *testing.T) {
	provider := &stubProvider{fallback: []float32{1, 0}}
	e := newTestEngine(t, provider)
	ctx := context.Background()

	require.NoError(t, e.history.Record("embedded", []float32{1, 0}))
	require.NoError(t, e.history.Record("bare", nil))

	got := e.GetSuggestions(ctx, "zzz", 5)
	require.Len(t, got, 2)
	assert.Equal(t, "embedded", got[0].Query)
	assert.Zero(t, got[1].Score)
}

func TestGetSuggestions_ProviderFailureReturnsPrefixOnly(t *testing.T) {
	provider := &stubProvider{err: folioerrors.ProviderError("down", nil)}
	e := newTestEngine(t, provider)
	ctx := context.Background()

	require.NoError(t, e.history.Record("sunset", nil))
	require.NoError(t, e.history.Record("pottery", nil))

	got := e.GetSuggestions(ctx, "sun", 5)
	require.Len(t, got, 1)
	assert.Equal(t, "sunset", got[0].Query)
}

func TestAddSearch_IdempotentDedup(t *testing.T) {
	provider := &stubProvider{fallback: []float32{1, 0}}
	e := newTestEngine(t, provider)
	ctx := context.Background()

	require.NoError(t, e.AddSearch(ctx, "Sunset"))
	require.NoError(t, e.AddSearch(ctx, "Sunset"))
	require.NoError(t, e.AddSearch(ctx, "SUNSET"))

	require.Equal(t, 1, e.history.Len())
	entry, ok := e.history.Lookup("sunset")
	require.True(t, ok)
	assert.Equal(t, 3, entry.Count)

	// The embedding is computed once, on first sight.
	assert.Equal(t, 1, provider.textCalls)
}

func TestAddSearch_EmbeddingFailureStillRecords(t *testing.T) {
	provider := &stubProvider{err: folioerrors.ProviderError("down", nil)}
	e := newTestEngine(t, provider)

	require.NoError(t, e.AddSearch(context.Background(), "charcoal drawings"))

	entry, ok := e.history.Lookup("charcoal drawings")
	require.True(t, ok)
	assert.Nil(t, entry.Embedding)
	assert.Equal(t, 1, entry.Count)
}

func TestSeedDefaults_Idempotent(t *testing.T) {
	provider := &stubProvider{fallback: []float32{1, 0}}
	e := newTestEngine(t, provider)
	ctx := context.Background()

	require.NoError(t, e.SeedDefaults(ctx))
	seeded := e.history.Len()
	assert.Equal(t, len(defaultSearches), seeded)

	// Second call leaves the history untouched.
	require.NoError(t, e.SeedDefaults(ctx))
	assert.Equal(t, seeded, e.history.Len())
}

func TestSeedDefaults_SkipsNonEmptyHistory(t *testing.T) {
	provider := &stubProvider{fallback: []float32{1, 0}}
	e := newTestEngine(t, provider)
	require.NoError(t, e.history.Record("existing", nil))

	require.NoError(t, e.SeedDefaults(context.Background()))
	assert.Equal(t, 1, e.history.Len())
}
