package match

import "math"

// CosineSimilarity computes the cosine similarity of two vectors,
// clamped to [0,1]. Embedding providers can yield small negative values
// on near-orthogonal vectors from floating-point noise; those clamp to 0
// rather than propagating. A zero or mismatched vector scores 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return Clamp01(dot / math.Sqrt(normA*normB))
}

// Clamp01 clamps v to the [0,1] interval.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
