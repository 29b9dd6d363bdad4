package vector

// Sparse is a term-frequency vector keyed by vocabulary index. Missing
// indices are zero.
type Sparse map[int]float64

// Vectorize computes relative term frequencies for tokens against vocab.
// Weights are count divided by the total number of tokens, including tokens
// the vocabulary does not know; unknown terms are then dropped.
func Vectorize(tokens []string, vocab *Vocabulary) Sparse {
	if len(tokens) == 0 {
		return Sparse{}
	}

	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}

	total := float64(len(tokens))
	vec := make(Sparse, len(counts))
	for term, n := range counts {
		if i, ok := vocab.Index(term); ok {
			vec[i] = float64(n) / total
		}
	}
	return vec
}
