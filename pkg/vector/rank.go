package vector

import "sort"

// Scored pairs a matrix row with its similarity to a query.
type Scored struct {
	// Index is the row position in the matrix.
	Index int

	// Score is the cosine similarity (higher = more similar).
	Score float64
}

// TopK scores every row of matrix against query and returns the k best,
// highest score first. Ties keep row order. An empty query or matrix, or
// k <= 0, yields an empty result.
func TopK(query Sparse, matrix []Sparse, k int) []Scored {
	if k <= 0 || len(query) == 0 || len(matrix) == 0 {
		return []Scored{}
	}

	scored := make([]Scored, len(matrix))
	for i, row := range matrix {
		scored[i] = Scored{Index: i, Score: CosineSimilarity(query, row)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k < len(scored) {
		scored = scored[:k]
	}
	return scored
}
