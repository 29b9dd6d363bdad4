// Package eventstream publishes a record of every store write to an external
// event stream so other systems can follow knowledge and history changes.
package eventstream

import (
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/recall/pkg/backend"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeStorePersisted is emitted after a store hands a write to its backend.
	EventTypeStorePersisted = "recall.store.persisted"
)

// Operation names the store mutation that triggered a persist.
type Operation string

const (
	OperationReplace Operation = "replace"
	OperationAdd     Operation = "add"
	OperationAppend  Operation = "append"
	OperationClear   Operation = "clear"
)

// PersistEvent is a transport-neutral event payload for a store write.
type PersistEvent struct {
	SchemaVersion int            `json:"schema_version"`
	EventType     string         `json:"event_type"`
	EventID       string         `json:"event_id"`
	EmittedAt     time.Time      `json:"emitted_at"`
	Store         string         `json:"store"`
	Operation     Operation      `json:"operation"`
	Records       int            `json:"records"`
	Backend       backend.Kind   `json:"backend"`
	Source        backend.Source `json:"source"`
	Error         string         `json:"error,omitempty"`
}

// NewPersistEvent builds an event for a completed persist.
func NewPersistEvent(store string, op Operation, records int, kind backend.Kind, res backend.PersistResult) *PersistEvent {
	event := &PersistEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeStorePersisted,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Store:         store,
		Operation:     op,
		Records:       records,
		Backend:       kind,
		Source:        res.Source,
	}
	if res.Err != nil {
		event.Error = res.Err.Error()
	}
	return event
}
