// Package inmemory provides an in-memory storage driver for tests
// and single-process deployments.
package inmemory

import (
	"context"
	"sync"

	"github.com/papercomputeco/recall/pkg/history"
	"github.com/papercomputeco/recall/pkg/knowledge"
	"github.com/papercomputeco/recall/pkg/storage"
)

// Driver implements storage.Driver in process memory.
type Driver struct {
	// mu guards docs, entries and closed
	mu sync.RWMutex

	docs    []knowledge.Document
	entries []history.Entry
	closed  bool
}

// NewDriver creates a new in-memory storer.
func NewDriver() *Driver {
	return &Driver{}
}

func (s *Driver) ReplaceDocuments(_ context.Context, docs []knowledge.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrClosed
	}

	s.docs = make([]knowledge.Document, len(docs))
	for i, d := range docs {
		s.docs[i] = knowledge.NewDocument(d.Content, d.Metadata)
	}
	return nil
}

func (s *Driver) ListDocuments(_ context.Context) ([]knowledge.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, storage.ErrClosed
	}

	out := make([]knowledge.Document, len(s.docs))
	for i, d := range s.docs {
		out[i] = knowledge.NewDocument(d.Content, d.Metadata)
	}
	return out, nil
}

func (s *Driver) AppendEntry(_ context.Context, entry history.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrClosed
	}

	s.entries = append(s.entries, entry)
	return nil
}

func (s *Driver) ListEntries(_ context.Context) ([]history.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, storage.ErrClosed
	}

	out := make([]history.Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *Driver) ClearEntries(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrClosed
	}

	s.entries = nil
	return nil
}

func (s *Driver) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
