// Package session wires the configured knowledge store, history store and
// persist event publisher together. Commands open one session per run and
// pass its stores to whatever needs them.
package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/papercomputeco/recall/pkg/backend"
	backendutils "github.com/papercomputeco/recall/pkg/backend/utils"
	"github.com/papercomputeco/recall/pkg/config"
	"github.com/papercomputeco/recall/pkg/dotdir"
	"github.com/papercomputeco/recall/pkg/eventstream"
	eventstreamutils "github.com/papercomputeco/recall/pkg/eventstream/utils"
	"github.com/papercomputeco/recall/pkg/history"
	"github.com/papercomputeco/recall/pkg/knowledge"
)

// Options configures Open.
type Options struct {
	// Config is the resolved configuration. Defaults apply when nil.
	Config *config.Config

	// ConfigDir overrides the .recall/ directory holding the default data files.
	ConfigDir string

	// SkipHistory leaves History nil for commands that never touch it.
	SkipHistory bool

	Logger *zap.Logger
}

// Session owns the stores of one command run.
type Session struct {
	Config    *config.Config
	Knowledge *knowledge.Store
	History   *history.Store
	Publisher eventstream.Publisher
}

// Open builds the publisher and stores described by o.Config. Each store
// loads its persisted records before Open returns.
func Open(ctx context.Context, o Options) (*Session, error) {
	cfg := o.Config
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ddm := dotdir.NewManager()
	knowledgePath, err := ddm.KnowledgePath(o.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("resolving knowledge file: %w", err)
	}

	publisher, err := eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{
		ProviderType: cfg.EventStream.Provider,
		Brokers:      cfg.EventStream.Brokers,
		Topic:        cfg.EventStream.Topic,
	})
	if err != nil {
		return nil, fmt.Errorf("creating event publisher: %w", err)
	}

	kbAdapter, err := backendutils.New[knowledge.Document](cfg.Knowledge.BackendOptions(knowledgePath, logger))
	if err != nil {
		publisher.Close()
		return nil, fmt.Errorf("creating knowledge backend: %w", err)
	}

	s := &Session{
		Config:    cfg,
		Publisher: publisher,
		Knowledge: knowledge.NewStore(ctx, kbAdapter,
			knowledge.WithLogger(logger),
			knowledge.WithPublisher(publisher),
		),
	}
	logOutcome(logger, "knowledge", s.Knowledge.Backend(), s.Knowledge.LastLoad(), s.Knowledge.Len())

	if o.SkipHistory {
		return s, nil
	}

	historyPath, err := ddm.HistoryPath(o.ConfigDir)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("resolving history file: %w", err)
	}
	historyAdapter, err := backendutils.New[history.Entry](cfg.History.BackendOptions(historyPath, logger))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("creating history backend: %w", err)
	}
	s.History = history.NewStore(ctx, historyAdapter,
		history.WithLogger(logger),
		history.WithPublisher(publisher),
	)
	logOutcome(logger, "history", s.History.Backend(), s.History.LastLoad(), s.History.Len())

	return s, nil
}

// Close closes the stores and the publisher.
func (s *Session) Close() error {
	var errs []error
	if s.Knowledge != nil {
		errs = append(errs, s.Knowledge.Close())
	}
	if s.History != nil {
		errs = append(errs, s.History.Close())
	}
	if s.Publisher != nil {
		errs = append(errs, s.Publisher.Close())
	}
	return errors.Join(errs...)
}

func logOutcome(logger *zap.Logger, store string, kind backend.Kind, load backend.Outcome, n int) {
	if load.Degraded() {
		logger.Warn("store loaded with degraded backend",
			zap.String("store", store),
			zap.String("backend", string(kind)),
			zap.Stringer("source", load.Source),
			zap.Int("records", n),
			zap.Error(load.Err),
		)
		return
	}
	logger.Debug("store loaded",
		zap.String("store", store),
		zap.String("backend", string(kind)),
		zap.Stringer("source", load.Source),
		zap.Int("records", n),
	)
}
