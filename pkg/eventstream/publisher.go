package eventstream

import "context"

// Publisher publishes persist events to an event stream backend.
type Publisher interface {
	Publish(ctx context.Context, event *PersistEvent) error
	Close() error
}
