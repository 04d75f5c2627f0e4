package embed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProvider wraps StaticProvider and counts calls that reach it.
type countingProvider struct {
	*StaticProvider
	textCalls  int
	imageCalls int
}

func (c *countingProvider) EmbedText(ctx context.Context, text string) ([]float32, error) {
	c.textCalls++
	return c.StaticProvider.EmbedText(ctx, text)
}

func (c *countingProvider) EmbedImage(ctx context.Context, data []byte) ([]float32, error) {
	c.imageCalls++
	return c.StaticProvider.EmbedImage(ctx, data)
}

func TestCachedProvider_HitsSkipInner(t *testing.T) {
	inner := &countingProvider{StaticProvider: NewStaticProvider()}
	cached := NewCachedProvider(inner, 10)
	ctx := context.Background()

	first, err := cached.EmbedText(ctx, "woodcut prints")
	require.NoError(t, err)
	second, err := cached.EmbedText(ctx, "woodcut prints")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.textCalls)
}

func TestCachedProvider_DistinctInputsMiss(t *testing.T) {
	inner := &countingProvider{StaticProvider: NewStaticProvider()}
	cached := NewCachedProvider(inner, 10)
	ctx := context.Background()

	_, err := cached.EmbedText(ctx, "first query")
	require.NoError(t, err)
	_, err = cached.EmbedText(ctx, "second query")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.textCalls)
}

func TestCachedProvider_TextAndImageKeysDisjoint(t *testing.T) {
	inner := &countingProvider{StaticProvider: NewStaticProvider()}
	cached := NewCachedProvider(inner, 10)
	ctx := context.Background()

	// Same bytes through both paths must not collide.
	_, err := cached.EmbedText(ctx, "abc")
	require.NoError(t, err)
	_, err = cached.EmbedImage(ctx, []byte("abc"))
	require.NoError(t, err)

	assert.Equal(t, 1, inner.textCalls)
	assert.Equal(t, 1, inner.imageCalls)
}

func TestCachedProvider_Eviction(t *testing.T) {
	inner := &countingProvider{StaticProvider: NewStaticProvider()}
	cached := NewCachedProvider(inner, 1)
	ctx := context.Background()

	_, err := cached.EmbedText(ctx, "a")
	require.NoError(t, err)
	_, err = cached.EmbedText(ctx, "b")
	require.NoError(t, err)
	_, err = cached.EmbedText(ctx, "a")
	require.NoError(t, err)

	assert.Equal(t, 3, inner.textCalls)
}

func TestCachedProvider_Passthrough(t *testing.T) {
	inner := NewStaticProvider()
	cached := NewCachedProvider(inner, 0)

	assert.Equal(t, StaticDimensions, cached.Dimensions())
	assert.Equal(t, "static", cached.ModelName())
	assert.True(t, cached.Available(context.Background()))
	assert.Same(t, Provider(inner), cached.Inner())
}
