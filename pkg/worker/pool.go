// Package worker provides an asynchronous worker pool that reloads the
// knowledge store from a source directory.
//
// The pool decouples directory scans and backend writes from the callers that
// notice a change (the file watcher, the CLI) so they never block on I/O.
package worker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/papercomputeco/recall/pkg/knowledge"
)

var (
	// A single worker keeps reloads of the same directory ordered.
	defaultNumWorkers   uint = 1
	defaultJobQueueSize uint = 16
)

// Job is a unit of work for the worker pool to execute against.
type Job struct {
	// Dir is the directory to load documents from.
	Dir string

	// Reason describes what triggered the job, for logging.
	Reason string

	// Append adds the loaded documents instead of replacing the store contents.
	Append bool
}

// Loader is the part of knowledge.Store the pool drives.
type Loader interface {
	LoadDirectory(ctx context.Context, dir string, opts knowledge.LoadOptions) (knowledge.LoadReport, error)
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Store receives the loaded documents.
	Store Loader

	// Suffixes filters the files read from each job's directory.
	Suffixes []string

	// NumWorkers is the number of background workers in the pool (defaults to 1).
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 16).
	QueueSize uint

	// Logger is the provided zap logger
	Logger *zap.Logger
}

// Pool processes reload jobs asynchronously via a worker pool.
type Pool struct {
	config *Config
	queue  chan Job
	wg     sync.WaitGroup
	logger *zap.Logger

	// mu guards closed against Enqueue racing Close
	mu     sync.RWMutex
	closed bool
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.Store == nil {
		return nil, errors.New("worker pool requires a store")
	}

	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}

	wp := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: c.Logger,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns true if enqueued, false if the queue is full or the pool is closed,
// resulting in the job being dropped.
func (p *Pool) Enqueue(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.logger.Warn("job not queued, pool closed", zap.String("dir", job.Dir))
		return false
	}

	select {
	case p.queue <- job:
		p.logger.Debug("job queued",
			zap.String("dir", job.Dir),
			zap.String("reason", job.Reason),
		)
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped",
			zap.String("dir", job.Dir),
			zap.String("reason", job.Reason),
		)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// It is safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
}

// worker is the inner worker thread that continuously pulls jobs off the jobs queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", zap.Uint("worker_id", id))

	for job := range p.queue {
		p.processJob(job)
	}

	p.logger.Debug("reload worker stopped", zap.Uint("worker_id", id))
}

// processJob loads the job's directory into the store.
func (p *Pool) processJob(job Job) {
	ctx := context.Background()

	report, err := p.config.Store.LoadDirectory(ctx, job.Dir, knowledge.LoadOptions{
		Suffixes: p.config.Suffixes,
		Append:   job.Append,
	})
	if err != nil {
		p.logger.Error("knowledge reload failed",
			zap.String("dir", job.Dir),
			zap.String("reason", job.Reason),
			zap.Error(err),
		)
		return
	}

	if report.Persist.Degraded() {
		p.logger.Warn("knowledge reloaded with degraded persistence",
			zap.String("dir", job.Dir),
			zap.Int("documents", report.Documents),
			zap.Stringer("source", report.Persist.Source),
			zap.Error(report.Persist.Err),
		)
		return
	}

	p.logger.Info("knowledge reloaded",
		zap.String("dir", job.Dir),
		zap.String("reason", job.Reason),
		zap.Int("documents", report.Documents),
		zap.Stringer("source", report.Persist.Source),
	)
}
