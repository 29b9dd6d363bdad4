// Package remote provides a backend that keeps its record set on an HTTP
// service and mirrors every write into a local fallback adapter.
//
// The service speaks a small JSON protocol: PUT replaces the full record set,
// GET returns it, POST appends one record and DELETE clears everything. Every
// call is attempted once; on any failure the fallback serves the call and the
// failure is logged and returned inside the result, never as an error.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/recall/pkg/backend"
	"github.com/papercomputeco/recall/pkg/backend/inmemory"
)

// DefaultTimeout bounds every remote call when Config.Timeout is unset.
const DefaultTimeout = 5 * time.Second

// Config holds configuration for the remote driver.
type Config[T any] struct {
	// URL is the endpoint of the record set (e.g., "http://localhost:8081/v1/history").
	URL string

	// Token is sent as a bearer token when non-empty.
	Token string

	// Timeout bounds each remote call. Defaults to DefaultTimeout.
	Timeout time.Duration

	// HTTPClient overrides the client used for remote calls.
	HTTPClient *http.Client

	// Fallback receives every write and serves reads when the remote fails.
	// Defaults to an in-memory adapter.
	Fallback backend.LogAdapter[T]
}

// Driver is a backend.LogAdapter backed by a remote HTTP service.
type Driver[T any] struct {
	url        string
	token      string
	timeout    time.Duration
	httpClient *http.Client
	fallback   backend.LogAdapter[T]
	logger     *zap.Logger
}

// NewDriver creates a remote driver. A missing URL is a configuration error.
func NewDriver[T any](c Config[T], logger *zap.Logger) (*Driver[T], error) {
	url := strings.TrimRight(strings.TrimSpace(c.URL), "/")
	if url == "" {
		return nil, fmt.Errorf("%w: cloud backend requires a URL", backend.ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Driver[T]{
		url:        url,
		token:      c.Token,
		timeout:    c.Timeout,
		httpClient: c.HTTPClient,
		fallback:   c.Fallback,
		logger:     logger,
	}
	if d.timeout <= 0 {
		d.timeout = DefaultTimeout
	}
	if d.httpClient == nil {
		d.httpClient = &http.Client{}
	}
	if d.fallback == nil {
		d.fallback = inmemory.NewDriver[T]()
	}

	return d, nil
}

func (d *Driver[T]) Kind() backend.Kind {
	return backend.KindCloud
}

// Fallback returns the local adapter mirroring this driver.
func (d *Driver[T]) Fallback() backend.LogAdapter[T] {
	return d.fallback
}

// Load fetches the record set. The fallback serves the call when the remote
// fails, returns something other than a JSON array, or returns an empty list
// while the fallback holds records.
func (d *Driver[T]) Load(ctx context.Context) backend.LoadResult[T] {
	records, err := d.fetch(ctx)
	if err != nil {
		d.remoteFailed("load", err)
		fb := d.fallback.Load(ctx)
		return backend.Loaded(fb.Records, backend.SourceFallback, errors.Join(err, fb.Err))
	}

	if len(records) == 0 {
		fb := d.fallback.Load(ctx)
		if len(fb.Records) > 0 {
			d.logger.Debug("remote record set is empty, using fallback",
				zap.String("url", d.url),
				zap.Int("count", len(fb.Records)),
			)
			return backend.Loaded(fb.Records, backend.SourceFallback, fb.Err)
		}
	}

	d.logger.Debug("loaded remote record set", zap.String("url", d.url), zap.Int("count", len(records)))
	return backend.Loaded(records, backend.SourceRemote, nil)
}

// Persist sends the full record set with PUT, then writes the fallback
// regardless of the outcome.
func (d *Driver[T]) Persist(ctx context.Context, records []T) backend.PersistResult {
	body, err := backend.Encode(records)
	if err == nil {
		err = d.send(ctx, http.MethodPut, body)
	}
	fb := d.fallback.Persist(ctx, records)
	return d.settle("persist", err, fb)
}

// Append sends record with POST, then appends to the fallback regardless of
// the outcome.
func (d *Driver[T]) Append(ctx context.Context, record T, all []T) backend.PersistResult {
	body, err := json.Marshal(record)
	if err != nil {
		err = fmt.Errorf("encoding record: %w", err)
	} else {
		err = d.send(ctx, http.MethodPost, body)
	}
	fb := d.fallback.Append(ctx, record, all)
	return d.settle("append", err, fb)
}

// Clear sends DELETE, then clears the fallback regardless of the outcome.
func (d *Driver[T]) Clear(ctx context.Context) backend.PersistResult {
	err := d.send(ctx, http.MethodDelete, nil)
	fb := d.fallback.Clear(ctx)
	return d.settle("clear", err, fb)
}

func (d *Driver[T]) Close() error {
	d.httpClient.CloseIdleConnections()
	return d.fallback.Close()
}

func (d *Driver[T]) settle(op string, remoteErr error, fb backend.PersistResult) backend.PersistResult {
	if remoteErr != nil {
		d.remoteFailed(op, remoteErr)
		return backend.Persisted(backend.SourceFallback, errors.Join(remoteErr, fb.Err))
	}
	return backend.Persisted(backend.SourceRemote, fb.Err)
}

func (d *Driver[T]) remoteFailed(op string, err error) {
	d.logger.Warn("remote backend unavailable, using fallback",
		zap.String("op", op),
		zap.String("url", d.url),
		zap.String("fallback", string(d.fallback.Kind())),
		zap.Error(err),
	)
}

func (d *Driver[T]) fetch(ctx context.Context) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := d.newRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending get request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading get response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get failed: status %d: %s", resp.StatusCode, string(body))
	}

	return backend.Decode[T](body)
}

func (d *Driver[T]) send(ctx context.Context, method string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := d.newRequest(ctx, method, body)
	if err != nil {
		return err
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending %s request: %w", strings.ToLower(method), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s failed: status %d: %s", strings.ToLower(method), resp.StatusCode, string(respBody))
	}
	return nil
}

func (d *Driver[T]) newRequest(ctx context.Context, method string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.url, reader)
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", strings.ToLower(method), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if d.token != "" {
		req.Header.Set("Authorization", "Bearer "+d.token)
	}
	return req, nil
}
