// Package history keeps the append-only conversation log and persists it
// through a backend.LogAdapter.
package history

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/recall/pkg/backend"
	"github.com/papercomputeco/recall/pkg/backend/inmemory"
	"github.com/papercomputeco/recall/pkg/eventstream"
	"github.com/papercomputeco/recall/pkg/eventstream/nop"
)

// Store is a conversation log. It is safe for concurrent use.
type Store struct {
	name      string
	adapter   backend.LogAdapter[Entry]
	publisher eventstream.Publisher
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.RWMutex
	entries  []Entry
	lastLoad backend.Outcome

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

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a log seeded from adapter. A nil adapter keeps everything
// in memory.
func NewStore(ctx context.Context, adapter backend.LogAdapter[Entry], opts ...Option) *Store {
	s := &Store{
		name:    "history",
		adapter: adapter,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.adapter == nil {
		s.adapter = inmemory.NewDriver[Entry]()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.publisher == nil {
		s.publisher = nop.NewPublisher()
	}

	res := s.adapter.Load(ctx)
	s.entries = append([]Entry(nil), res.Records...)
	s.lastLoad = res.Outcome

	s.logger.Debug("history store loaded",
		zap.String("backend", string(s.adapter.Kind())),
		zap.Stringer("source", res.Source),
		zap.Int("entries", len(s.entries)),
	)
	return s
}

// SaveMessage appends a timestamped entry and persists it.
func (s *Store) SaveMessage(ctx context.Context, role, content string) backend.PersistResult {
	s.mu.Lock()
	entry := Entry{Role: role, Content: content, Timestamp: formatTimestamp(s.now())}
	s.entries = append(s.entries, entry)
	n := len(s.entries)
	snapshot := s.entries[:n:n]

	s.persistMu.Lock()
	s.mu.Unlock()
	defer s.persistMu.Unlock()

	res := s.adapter.Append(ctx, entry, snapshot)
	s.publish(ctx, eventstream.OperationAppend, n, res)
	return res
}

// History returns the full log, oldest first.
func (s *Store) History() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry{}, s.entries...)
}

// Recent returns the last n entries, or nothing when n <= 0.
func (s *Store) Recent(n int) []Entry {
	if n <= 0 {
		return []Entry{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	start := max(len(s.entries)-n, 0)
	return append([]Entry{}, s.entries[start:]...)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear empties the log and the backend.
func (s *Store) Clear(ctx context.Context) backend.PersistResult {
	s.mu.Lock()
	s.entries = nil

	s.persistMu.Lock()
	s.mu.Unlock()
	defer s.persistMu.Unlock()

	res := s.adapter.Clear(ctx)
	s.publish(ctx, eventstream.OperationClear, 0, res)
	return res
}

// LastLoad reports where the initial log came from.
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

func (s *Store) publish(ctx context.Context, op eventstream.Operation, n int, res backend.PersistResult) {
	s.logger.Debug("history store persisted",
		zap.String("op", string(op)),
		zap.Int("entries", n),
		zap.Stringer("source", res.Source),
		zap.Bool("degraded", res.Degraded()),
	)

	event := eventstream.NewPersistEvent(s.name, op, n, s.adapter.Kind(), res)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("could not publish persist event", zap.String("store", s.name), zap.Error(err))
	}
}
