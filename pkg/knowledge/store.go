// Package knowledge provides the document store behind retrieval: it keeps a
// set of documents, their term-frequency vectors and the shared vocabulary in
// step, persists every change through a backend adapter and answers top-k
// similarity queries.
package knowledge

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/papercomputeco/recall/pkg/backend"
	"github.com/papercomputeco/recall/pkg/backend/inmemory"
	"github.com/papercomputeco/recall/pkg/eventstream"
	"github.com/papercomputeco/recall/pkg/eventstream/nop"
	"github.com/papercomputeco/recall/pkg/vector"
)

// DefaultTopK is the number of results returned when callers have no
// preference.
const DefaultTopK = 3

// Result is a search hit.
type Result struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// Store is a similarity-searchable document set. It is safe for concurrent
// use.
type Store struct {
	name      string
	adapter   backend.Adapter[Document]
	publisher eventstream.Publisher
	logger    *zap.Logger

	// mu guards docs, vocab, matrix and lastLoad.
	mu       sync.RWMutex
	docs     []Document
	vocab    *vector.Vocabulary
	matrix   []vector.Sparse
	lastLoad backend.Outcome

	// persistMu is taken before mu is released so persists run in mutation
	// order without holding mu during backend I/O.
	persistMu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithPublisher sets the publisher notified after every persist. The store
// never closes it.
func WithPublisher(p eventstream.Publisher) Option {
	return func(s *Store) {
		s.publisher = p
	}
}

// WithName sets the store name reported in persist events. Defaults to
// "knowledge".
func WithName(name string) Option {
	return func(s *Store) {
		s.name = name
	}
}

// NewStore creates a store and seeds it from the adapter. A nil adapter
// keeps everything in memory.
func NewStore(ctx context.Context, adapter backend.Adapter[Document], opts ...Option) *Store {
	s := &Store{
		name:    "knowledge",
		adapter: adapter,
		vocab:   vector.NewVocabulary(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.adapter == nil {
		s.adapter = inmemory.NewDriver[Document]()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.publisher == nil {
		s.publisher = nop.NewPublisher()
	}

	res := s.adapter.Load(ctx)
	s.docs = cloneDocuments(res.Records)
	s.lastLoad = res.Outcome
	s.rebuild()

	s.logger.Debug("knowledge store loaded",
		zap.String("backend", string(s.adapter.Kind())),
		zap.Stringer("source", res.Source),
		zap.Int("documents", len(s.docs)),
		zap.Int("terms", s.vocab.Len()),
	)
	return s
}

// AddDocuments appends docs and persists the full set. An empty batch does
// nothing.
func (s *Store) AddDocuments(ctx context.Context, docs []Document) backend.PersistResult {
	if len(docs) == 0 {
		return backend.Persisted(backend.SourceNone, nil)
	}

	s.mu.Lock()
	s.docs = append(s.docs, cloneDocuments(docs)...)
	s.rebuild()
	return s.persistLocked(ctx, eventstream.OperationAdd)
}

// ReplaceDocuments discards the current set, installs docs and persists.
func (s *Store) ReplaceDocuments(ctx context.Context, docs []Document) backend.PersistResult {
	s.mu.Lock()
	s.docs = cloneDocuments(docs)
	s.rebuild()
	return s.persistLocked(ctx, eventstream.OperationReplace)
}

// Search returns up to k documents ranked by cosine similarity to query.
// Documents that share no term with the query can still appear, with a score
// of zero, when fewer than k documents match.
func (s *Store) Search(query string, k int) []Result {
	tokens := vector.Tokenize(query)
	if len(tokens) == 0 || k <= 0 {
		return []Result{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.docs) == 0 {
		return []Result{}
	}

	ranked := vector.TopK(vector.Vectorize(tokens, s.vocab), s.matrix, k)
	results := make([]Result, len(ranked))
	for i, r := range ranked {
		doc := s.docs[r.Index]
		results[i] = Result{
			Document: NewDocument(doc.Content, doc.Metadata),
			Score:    r.Score,
		}
	}
	return results
}

// Documents returns a copy of the stored documents in insertion order.
func (s *Store) Documents() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDocuments(s.docs)
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Vocabulary returns the current terms in index order.
func (s *Store) Vocabulary() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vocab.Terms()
}

// LastLoad reports where the initial document set came from.
func (s *Store) LastLoad() backend.Outcome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastLoad
}

// Backend returns the adapter kind in use.
func (s *Store) Backend() backend.Kind {
	return s.adapter.Kind()
}

// Close releases the adapter. The publisher belongs to the caller and is
// left open.
func (s *Store) Close() error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	return s.adapter.Close()
}

// rebuild recomputes vocabulary and matrix from docs. Callers hold mu.
func (s *Store) rebuild() {
	tokenized := make([][]string, len(s.docs))
	for i, d := range s.docs {
		tokenized[i] = vector.Tokenize(d.Content)
	}

	s.vocab = vector.BuildVocabulary(tokenized)
	s.matrix = make([]vector.Sparse, len(tokenized))
	for i, tokens := range tokenized {
		s.matrix[i] = vector.Vectorize(tokens, s.vocab)
	}
}

// persistLocked snapshots docs, hands the lock over to persistMu and writes
// the snapshot. Callers hold mu; it is released before returning.
func (s *Store) persistLocked(ctx context.Context, op eventstream.Operation) backend.PersistResult {
	n := len(s.docs)
	snapshot := s.docs[:n:n]

	s.persistMu.Lock()
	s.mu.Unlock()
	defer s.persistMu.Unlock()

	res := s.adapter.Persist(ctx, snapshot)
	s.logger.Debug("knowledge store persisted",
		zap.String("op", string(op)),
		zap.Int("documents", n),
		zap.Stringer("source", res.Source),
		zap.Bool("degraded", res.Degraded()),
	)

	event := eventstream.NewPersistEvent(s.name, op, n, s.adapter.Kind(), res)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("could not publish persist event", zap.String("store", s.name), zap.Error(err))
	}
	return res
}
