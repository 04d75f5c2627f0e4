// Package vec provides the small vector math surface the search core
// needs: cosine similarity, normalization, and the mean-similarity
// aggregate used for multi-image works.
package vec

import "math"

// Cosine returns the cosine similarity between a and b.
//
// Fail-soft contract: nil vectors, length mismatch, or zero magnitude all
// return 0 rather than an error. An invariant violation reads as "no
// similarity", never as a crash.
func Cosine(a, b []float32) float64 {
	if a == nil || b == nil || len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		magA += av * av
		magB += bv * bv
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// Normalize returns a unit-length copy of v. A zero vector is returned
// unchanged.
func Normalize(v []float32) []float32 {
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}
	magnitude := math.Sqrt(sumSquares)
	if magnitude == 0 {
		return v
	}

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / magnitude)
	}
	return out
}

// MeanCosine returns the arithmetic mean of Cosine(query, v) over vs.
//
// Mean, not max: a work with many weakly related images is not penalized
// against a work with one strongly related image, and redundant images do
// not boost the score. Empty input returns 0.
func MeanCosine(query []float32, vs [][]float32) float64 {
	if len(vs) == 0 {
		return 0
	}

	var sum float64
	for _, v := range vs {
		sum += Cosine(query, v)
	}
	return sum / float64(len(vs))
}
