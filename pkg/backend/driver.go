// Package backend defines where the knowledge and history stores keep their
// state between runs: nowhere (memory), a local JSON file, or a remote HTTP
// service that falls back to a local adapter when it cannot be reached.
package backend

import (
	"context"
	"fmt"
	"strings"
)

// Kind names a backend flavour.
type Kind string

const (
	KindMemory Kind = "memory"
	KindFile   Kind = "file"
	KindCloud  Kind = "cloud"
)

// ParseKind normalizes a configured backend name. An empty name selects the
// memory backend.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindMemory, nil
	case KindMemory, KindFile, KindCloud:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unsupported backend %q", ErrInvalidConfig, s)
	}
}

// Adapter persists and restores a whole record set. Implementations recover
// from I/O failures internally and report them through the returned results;
// they never mutate the caller's records.
type Adapter[T any] interface {
	// Kind reports which backend flavour this adapter is.
	Kind() Kind

	// Load returns the persisted record set.
	Load(ctx context.Context) LoadResult[T]

	// Persist replaces the persisted record set with records.
	Persist(ctx context.Context, records []T) PersistResult

	// Close releases any resources held by the adapter.
	Close() error
}

// LogAdapter is an Adapter for append-only logs. Append receives both the new
// record and the full log including it, so whole-file backends can rewrite
// and remote backends can send only the delta.
type LogAdapter[T any] interface {
	Adapter[T]

	// Append persists record, the last element of all.
	Append(ctx context.Context, record T, all []T) PersistResult

	// Clear drops the persisted log.
	Clear(ctx context.Context) PersistResult
}
