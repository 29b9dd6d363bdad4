package storage

import "errors"

// ErrClosed is returned by operations on a driver after Close.
var ErrClosed = errors.New("storage driver is closed")

// ErrUnsupportedStorage is returned when a storage kind is not recognized.
type ErrUnsupportedStorage struct {
	Kind string
}

func (e ErrUnsupportedStorage) Error() string {
	if e.Kind == "" {
		return "unsupported storage"
	}

	return "unsupported storage: " + e.Kind
}
