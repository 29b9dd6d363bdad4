// Package vector turns free text into sparse term-frequency vectors and ranks
// them by cosine similarity.
//
// There is no embedding model behind it: a vocabulary is built from the
// tokenized document set, every document becomes a map of vocabulary index to
// relative term frequency, and queries are projected into the same vocabulary.
package vector
