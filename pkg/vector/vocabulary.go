package vector

// Vocabulary maps terms to dense indices in the order they were first seen.
// It is append-only; a changed document set gets a new Vocabulary.
type Vocabulary struct {
	index map[string]int
	terms []string
}

// NewVocabulary returns an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{index: make(map[string]int)}
}

// BuildVocabulary assigns every distinct term across the tokenized documents
// the next free index, walking documents and tokens in order.
func BuildVocabulary(tokenized [][]string) *Vocabulary {
	v := NewVocabulary()
	for _, tokens := range tokenized {
		for _, t := range tokens {
			v.Add(t)
		}
	}
	return v
}

// Add registers term if unseen and returns its index.
func (v *Vocabulary) Add(term string) int {
	if i, ok := v.index[term]; ok {
		return i
	}
	i := len(v.terms)
	v.index[term] = i
	v.terms = append(v.terms, term)
	return i
}

// Index looks up the index of term.
func (v *Vocabulary) Index(term string) (int, bool) {
	if v == nil {
		return 0, false
	}
	i, ok := v.index[term]
	return i, ok
}

// Len returns the number of distinct terms.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.terms)
}

// Terms returns the terms in index order.
func (v *Vocabulary) Terms() []string {
	if v == nil {
		return nil
	}
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}
