package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine_Identity(t *testing.T) {
	v := []float32{0.3, 0.5, 0.2, 0.9}
	assert.InDelta(t, 1.0, Cosine(v, v), 1e-9)
}

func TestCosine_Orthogonal(t *testing.T) {
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
}

func TestCosine_Opposite(t *testing.T) {
	assert.InDelta(t, -1.0, Cosine([]float32{1, 2}, []float32{-1, -2}), 1e-9)
}

func TestCosine_Bounds(t *testing.T) {
	pairs := [][2][]float32{
		{{1, 2, 3}, {4, 5, 6}},
		{{0.1, 0.9}, {0.9, 0.1}},
		{{5, 0, 0}, {5, 5, 5}},
	}
	for _, p := range pairs {
		s := Cosine(p[0], p[1])
		assert.GreaterOrEqual(t, s, -1.0)
		assert.LessOrEqual(t, s, 1.0+1e-9)
	}
}

func TestCosine_DegenerateInputs(t *testing.T) {
	assert.Zero(t, Cosine(nil, []float32{1, 2}))
	assert.Zero(t, Cosine([]float32{1, 2}, nil))
	assert.Zero(t, Cosine([]float32{1, 2}, []float32{1, 2, 3}))
	assert.Zero(t, Cosine([]float32{0, 0}, []float32{1, 1}))
	assert.Zero(t, Cosine([]float32{1, 1}, []float32{0, 0}))
	assert.Zero(t, Cosine(nil, nil))
}

func TestNormalize_UnitLength(t *testing.T) {
	v := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, float64(v[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(v[1]), 1e-6)
}

func TestNormalize_ZeroVectorUnchanged(t *testing.T) {
	v := []float32{0, 0, 0}
	assert.Equal(t, v, Normalize(v))
}

func TestMeanCosine_AveragesAcrossImages(t *testing.T) {
	query := []float32{1, 0}
	images := [][]float32{
		{1, 0}, // similarity 1
		{0, 1}, // similarity 0
	}
	assert.InDelta(t, 0.5, MeanCosine(query, images), 1e-9)
}

func TestMeanCosine_EmptyIsZero(t *testing.T) {
	assert.Zero(t, MeanCosine([]float32{1, 0}, nil))
}

func TestMeanCosine_SkipsNothing(t *testing.T) {
	// A nil image embedding contributes 0 to the mean, it is not dropped.
	query := []float32{1, 0}
	images := [][]float32{{1, 0}, nil}
	assert.InDelta(t, 0.5, MeanCosine(query, images), 1e-9)
}
