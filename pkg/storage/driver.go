// Package storage holds the server-side record sets behind the remote
// backend protocol: the knowledge document set and the history log.
package storage

import (
	"context"

	"github.com/papercomputeco/recall/pkg/history"
	"github.com/papercomputeco/recall/pkg/knowledge"
)

// Driver defines the interface for persisting the record sets served by the
// remote protocol service.
type Driver interface {
	// ReplaceDocuments atomically replaces the full document set.
	ReplaceDocuments(ctx context.Context, docs []knowledge.Document) error

	// ListDocuments returns the document set in insertion order.
	ListDocuments(ctx context.Context) ([]knowledge.Document, error)

	// AppendEntry appends one entry to the history log.
	AppendEntry(ctx context.Context, entry history.Entry) error

	// ListEntries returns the history log, oldest first.
	ListEntries(ctx context.Context) ([]history.Entry, error)

	// ClearEntries removes every history entry.
	ClearEntries(ctx context.Context) error

	// Close closes the store and releases any resources.
	Close() error
}
