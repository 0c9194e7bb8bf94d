package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is a single lifecycle event emitted by the manager. Events are
// partitioned per resource type and recorded in chronological order.
type Event struct {
	// ID is the unique identifier for this event.
	ID string `json:"id"`

	// Timestamp is when the event was emitted.
	Timestamp time.Time `json:"timestamp"`

	// TypeName is the resource type, used for log partitioning.
	TypeName string `json:"type_name"`

	// ResourceName is the name of the affected resource.
	ResourceName string `json:"resource_name"`

	// Operation is the lifecycle operation (create, start, stop, delete).
	Operation string `json:"operation"`

	// State is the resulting lifecycle state.
	State string `json:"state"`

	// Detail is free-text detail for the operation.
	Detail string `json:"detail,omitempty"`
}

// New builds an event with a fresh ID and the current timestamp.
func New(typeName, resourceName, operation, state, detail string) Event {
	return Event{
		ID:           uuid.NewString(),
		Timestamp:    time.Now(),
		TypeName:     typeName,
		ResourceName: resourceName,
		Operation:    operation,
		State:        state,
		Detail:       detail,
	}
}

// Recorder is the contract the manager requires from its activity
// logging collaborator. A Record failure must not undo the lifecycle
// operation it accompanies; the manager surfaces it as a warning.
type Recorder interface {
	// Record persists a single event.
	Record(ctx context.Context, event Event) error

	// ReadAll returns every event recorded for typeName, in emission order.
	ReadAll(ctx context.Context, typeName string) ([]Event, error)

	// ReadRecent returns up to limit of the most recent events across
	// all types, in chronological order.
	ReadRecent(ctx context.Context, limit int) ([]Event, error)

	// Close releases the recorder's underlying storage.
	Close() error
}
