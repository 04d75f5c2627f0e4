package embed

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider_Deterministic(t *testing.T) {
	p := NewStaticProvider()
	ctx := context.Background()

	a, err := p.EmbedText(ctx, "ceramic sculpture")
	require.NoError(t, err)
	b, err := p.EmbedText(ctx, "ceramic sculpture")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, StaticDimensions)
}

func TestStaticProvider_UnitLength(t *testing.T) {
	p := NewStaticProvider()

	v, err := p.EmbedText(context.Background(), "oil painting on canvas")
	require.NoError(t, err)

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestStaticProvider_EmptyTextIsZeroVector(t *testing.T) {
	p := NewStaticProvider()

	v, err := p.EmbedText(context.Background(), "   ")
	require.NoError(t, err)
	require.Len(t, v, StaticDimensions)
	for _, x := range v {
		assert.Zero(t, x)
	}
}

func TestStaticProvider_DistinctTextsDiffer(t *testing.T) {
	p := NewStaticProvider()
	ctx := context.Background()

	a, err := p.EmbedText(ctx, "ceramic vase")
	require.NoError(t, err)
	b, err := p.EmbedText(ctx, "street photography")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestStaticProvider_EmbedImageDeterministic(t *testing.T) {
	p := NewStaticProvider()
	ctx := context.Background()
	data := []byte("fake image bytes, long enough to span hashing windows............")

	a, err := p.EmbedImage(ctx, data)
	require.NoError(t, err)
	b, err := p.EmbedImage(ctx, data)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestStaticProvider_ClosedRejectsCalls(t *testing.T) {
	p := NewStaticProvider()
	require.NoError(t, p.Close())

	_, err := p.EmbedText(context.Background(), "anything")
	assert.Error(t, err)
	assert.False(t, p.Available(context.Background()))
}
