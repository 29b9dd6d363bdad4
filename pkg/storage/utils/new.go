// Package storageutils builds a storage.Driver from configuration.
package storageutils

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/papercomputeco/recall/pkg/storage"
	"github.com/papercomputeco/recall/pkg/storage/inmemory"
	"github.com/papercomputeco/recall/pkg/storage/postgres"
	"github.com/papercomputeco/recall/pkg/storage/sqlite"
)

// NewDriverOpts selects and configures a storage driver.
type NewDriverOpts struct {
	// Kind is one of "memory", "sqlite" or "postgres". Empty means memory.
	Kind string

	SQLitePath  string
	PostgresDSN string

	Logger *zap.Logger
}

// NewDriver opens the storage driver described by opts.
func NewDriver(ctx context.Context, opts NewDriverOpts) (storage.Driver, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	switch kind := strings.ToLower(strings.TrimSpace(opts.Kind)); kind {
	case "", "memory":
		logger.Info("using in-memory storage")
		return inmemory.NewDriver(), nil

	case "sqlite":
		if opts.SQLitePath == "" {
			return nil, errors.New("sqlite storage requires a database path")
		}
		driver, err := sqlite.NewDriver(ctx, opts.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite storer: %w", err)
		}
		logger.Info("using SQLite storage", zap.String("path", opts.SQLitePath))
		return driver, nil

	case "postgres":
		if opts.PostgresDSN == "" {
			return nil, errors.New("postgres storage requires a DSN")
		}
		driver, err := postgres.NewDriver(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL storer: %w", err)
		}
		logger.Info("using PostgreSQL storage")
		return driver, nil

	default:
		return nil, storage.ErrUnsupportedStorage{Kind: kind}
	}
}
