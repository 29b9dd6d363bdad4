package vector

import "math"

// CosineSimilarity returns the cosine of the angle between a and b, or 0 when
// either vector is empty or has zero magnitude. TF weights are non-negative so
// the result lies in [0, 1].
func CosineSimilarity(a, b Sparse) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// iterate the smaller side for the dot product
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	var dot float64
	for i, w := range small {
		if x, ok := large[i]; ok {
			dot += w * x
		}
	}

	normA, normB := norm(a), norm(b)
	if normA == 0 || normB == 0 {
		return 0
	}
	// rounding can land one ulp above 1 for parallel vectors
	return math.Min(1, dot/(normA*normB))
}

func norm(v Sparse) float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}
