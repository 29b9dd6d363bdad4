// Package file provides a backend that keeps the full record set as an
// indented JSON array in a single local file.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/papercomputeco/recall/pkg/backend"
)

// Driver is a backend.LogAdapter over one JSON file. Every write rewrites the
// whole file.
type Driver[T any] struct {
	path   string
	logger *zap.Logger
}

// NewDriver creates a file backend at path. The parent directory is created
// on first write.
func NewDriver[T any](path string, logger *zap.Logger) (*Driver[T], error) {
	if path == "" {
		return nil, fmt.Errorf("%w: file backend requires a path", backend.ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Driver[T]{
		path:   path,
		logger: logger,
	}, nil
}

func (d *Driver[T]) Kind() backend.Kind {
	return backend.KindFile
}

// Path returns the file location.
func (d *Driver[T]) Path() string {
	return d.path
}

// Load reads the file. A missing file is an empty set; an unreadable or
// malformed file is an empty set with the cause attached.
func (d *Driver[T]) Load(_ context.Context) backend.LoadResult[T] {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return backend.Loaded[T](nil, backend.SourceFile, nil)
		}
		err = fmt.Errorf("reading %s: %w", d.path, err)
		d.logger.Warn("could not read backend file", zap.String("path", d.path), zap.Error(err))
		return backend.Loaded[T](nil, backend.SourceFile, err)
	}

	records, err := backend.Decode[T](data)
	if err != nil {
		err = fmt.Errorf("parsing %s: %w", d.path, err)
		d.logger.Warn("backend file is corrupt, starting empty", zap.String("path", d.path), zap.Error(err))
		return backend.Loaded[T](nil, backend.SourceFile, err)
	}

	d.logger.Debug("loaded backend file", zap.String("path", d.path), zap.Int("count", len(records)))
	return backend.Loaded(records, backend.SourceFile, nil)
}

// Persist overwrites the file with records.
func (d *Driver[T]) Persist(_ context.Context, records []T) backend.PersistResult {
	if err := d.write(records); err != nil {
		d.logger.Warn("could not write backend file", zap.String("path", d.path), zap.Error(err))
		return backend.Persisted(backend.SourceFile, err)
	}
	return backend.Persisted(backend.SourceFile, nil)
}

// Append rewrites the file with all.
func (d *Driver[T]) Append(ctx context.Context, _ T, all []T) backend.PersistResult {
	return d.Persist(ctx, all)
}

// Clear removes the file.
func (d *Driver[T]) Clear(_ context.Context) backend.PersistResult {
	if err := os.Remove(d.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		err = fmt.Errorf("removing %s: %w", d.path, err)
		d.logger.Warn("could not remove backend file", zap.String("path", d.path), zap.Error(err))
		return backend.Persisted(backend.SourceFile, err)
	}
	return backend.Persisted(backend.SourceFile, nil)
}

func (d *Driver[T]) Close() error {
	return nil
}

// write replaces the file atomically through a temp file in the same
// directory.
func (d *Driver[T]) write(records []T) error {
	data, err := backend.Encode(records)
	if err != nil {
		return err
	}

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting file mode: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", d.path, err)
	}
	return nil
}
