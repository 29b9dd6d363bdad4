package backendutils

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/recall/pkg/backend"
	"github.com/papercomputeco/recall/pkg/backend/file"
	"github.com/papercomputeco/recall/pkg/backend/inmemory"
	"github.com/papercomputeco/recall/pkg/backend/remote"
)

// Options select and configure a backend.
type Options struct {
	// Kind is one of "memory", "file" or "cloud". Empty selects memory.
	Kind string

	// FilePath is the JSON file for the file backend, and the default
	// fallback file for the cloud backend.
	FilePath string

	CloudURL     string
	CloudToken   string
	CloudTimeout time.Duration

	// FallbackPath overrides FilePath as the cloud backend's fallback file.
	// With neither set the cloud backend falls back to memory.
	FallbackPath string

	HTTPClient *http.Client
	Logger     *zap.Logger
}

// New builds the backend described by o. Options that cannot produce a
// working backend yield an error wrapping backend.ErrInvalidConfig.
func New[T any](o *Options) (backend.LogAdapter[T], error) {
	if o == nil {
		o = &Options{}
	}
	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	kind, err := backend.ParseKind(o.Kind)
	if err != nil {
		return nil, err
	}

	switch kind {
	case backend.KindMemory:
		return inmemory.NewDriver[T](), nil

	case backend.KindFile:
		d, err := file.NewDriver[T](o.FilePath, logger)
		if err != nil {
			return nil, err
		}
		return d, nil

	case backend.KindCloud:
		var fallback backend.LogAdapter[T]
		if p := o.fallbackPath(); p != "" {
			fallback, err = file.NewDriver[T](p, logger)
			if err != nil {
				return nil, err
			}
		} else {
			fallback = inmemory.NewDriver[T]()
		}

		d, err := remote.NewDriver(remote.Config[T]{
			URL:        o.CloudURL,
			Token:      o.CloudToken,
			Timeout:    o.CloudTimeout,
			HTTPClient: o.HTTPClient,
			Fallback:   fallback,
		}, logger)
		if err != nil {
			return nil, err
		}
		return d, nil

	default:
		return nil, fmt.Errorf("%w: unsupported backend %q", backend.ErrInvalidConfig, o.Kind)
	}
}

func (o *Options) fallbackPath() string {
	if o.FallbackPath != "" {
		return o.FallbackPath
	}
	return o.FilePath
}
