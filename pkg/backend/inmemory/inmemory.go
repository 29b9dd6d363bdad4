// Package inmemory provides the transient backend: nothing survives the
// process, so every operation is a no-op.
package inmemory

import (
	"context"

	"github.com/papercomputeco/recall/pkg/backend"
)

// Driver is a backend.LogAdapter that keeps nothing.
type Driver[T any] struct{}

// NewDriver creates an in-memory backend.
func NewDriver[T any]() *Driver[T] {
	return &Driver[T]{}
}

func (d *Driver[T]) Kind() backend.Kind {
	return backend.KindMemory
}

// Load always returns an empty record set.
func (d *Driver[T]) Load(_ context.Context) backend.LoadResult[T] {
	return backend.Loaded[T](nil, backend.SourceMemory, nil)
}

func (d *Driver[T]) Persist(_ context.Context, _ []T) backend.PersistResult {
	return backend.Persisted(backend.SourceMemory, nil)
}

func (d *Driver[T]) Append(_ context.Context, _ T, _ []T) backend.PersistResult {
	return backend.Persisted(backend.SourceMemory, nil)
}

func (d *Driver[T]) Clear(_ context.Context) backend.PersistResult {
	return backend.Persisted(backend.SourceMemory, nil)
}

func (d *Driver[T]) Close() error {
	return nil
}
