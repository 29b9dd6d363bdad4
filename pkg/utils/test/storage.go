package testutils

import (
	"context"
	"errors"
	"sync"

	"github.com/papercomputeco/recall/pkg/history"
	"github.com/papercomputeco/recall/pkg/knowledge"
)

// ErrMockStorage is returned by MockStorageDriver when a failure is requested.
var ErrMockStorage = errors.New("mock storage failure")

// MockStorageDriver is a test storage driver that records calls and can be
// told to fail.
type MockStorageDriver struct {
	mu sync.Mutex

	Docs    []knowledge.Document
	Entries []history.Entry

	// Calls records the name of every invoked method in order.
	Calls []string

	// FailWrites causes every mutating call to return ErrMockStorage.
	FailWrites bool

	// FailReads causes every list call to return ErrMockStorage.
	FailReads bool
}

func NewMockStorageDriver() *MockStorageDriver {
	return &MockStorageDriver{
		Docs:    make([]knowledge.Document, 0),
		Entries: make([]history.Entry, 0),
	}
}

func (m *MockStorageDriver) ReplaceDocuments(_ context.Context, docs []knowledge.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "ReplaceDocuments")
	if m.FailWrites {
		return ErrMockStorage
	}
	m.Docs = append([]knowledge.Document{}, docs...)
	return nil
}

func (m *MockStorageDriver) ListDocuments(_ context.Context) ([]knowledge.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "ListDocuments")
	if m.FailReads {
		return nil, ErrMockStorage
	}
	return append([]knowledge.Document{}, m.Docs...), nil
}

func (m *MockStorageDriver) AppendEntry(_ context.Context, entry history.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "AppendEntry")
	if m.FailWrites {
		return ErrMockStorage
	}
	m.Entries = append(m.Entries, entry)
	return nil
}

func (m *MockStorageDriver) ListEntries(_ context.Context) ([]history.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "ListEntries")
	if m.FailReads {
		return nil, ErrMockStorage
	}
	return append([]history.Entry{}, m.Entries...), nil
}

func (m *MockStorageDriver) ClearEntries(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "ClearEntries")
	if m.FailWrites {
		return ErrMockStorage
	}
	m.Entries = m.Entries[:0]
	return nil
}

func (m *MockStorageDriver) Close() error {
	return nil
}
