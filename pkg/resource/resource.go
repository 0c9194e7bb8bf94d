package resource

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Spec is the capability set every resource variant implements. A
// variant owns its configuration shape and display text; lifecycle
// behavior is identical across variants. Adding a new type means
// implementing Spec and registering a factory for it, with no changes
// to the manager or the state machine.
type Spec interface {
	// TypeName returns the registry name of the variant. It is also used
	// to partition the activity log.
	TypeName() string

	// Validate checks the configuration against the variant's allowed
	// value sets and generates any variant-owned fields. It returns a
	// VALIDATION_ERROR naming the offending field and its allowed set.
	Validate() error

	// CreationDetails returns the detail text recorded with the create event.
	CreationDetails() string

	// StartDetails returns the detail text recorded with a start event.
	StartDetails() string

	// Describe returns a human-readable summary of the resource,
	// including its name, type, state, and key configuration fields.
	Describe(name string, state State) string
}

// Factory constructs and validates a variant Spec from raw JSON
// configuration.
type Factory func(raw json.RawMessage) (Spec, error)

// Resource is a managed resource record: identity, typed configuration,
// and lifecycle state. Configuration is immutable after creation except
// for fields the variant itself generates. A deleted resource is
// retained as a tombstone.
type Resource struct {
	// ID is the unique identifier for this resource.
	ID string `json:"id"`

	// Name is the caller-chosen name, unique across all types.
	Name string `json:"name"`

	// Type is the registered type name of the variant.
	Type string `json:"type"`

	// Spec is the validated, typed configuration payload.
	Spec Spec `json:"spec"`

	// State is the current lifecycle state.
	State State `json:"state"`

	// CreatedAt is when the resource was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the resource last changed state.
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates a resource in the initial CREATED state. The spec must
// already be validated.
func New(name string, spec Spec) *Resource {
	now := time.Now()
	return &Resource{
		ID:        uuid.NewString(),
		Name:      name,
		Type:      spec.TypeName(),
		Spec:      spec,
		State:     StateCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply transitions the resource through op. State is updated only
// after the transition is confirmed legal; on error the state is
// unchanged.
func (r *Resource) Apply(op Operation) error {
	next, err := Next(r.State, op)
	if err != nil {
		return err
	}
	r.State = next
	r.UpdatedAt = time.Now()
	return nil
}

// Snapshot is a read-only view of a resource handed to callers. It is a
// value copy; mutating it does not affect the managed resource.
type Snapshot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	State     State     `json:"state"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns the public view of the resource.
func (r *Resource) Snapshot() Snapshot {
	return Snapshot{
		ID:        r.ID,
		Name:      r.Name,
		Type:      r.Type,
		State:     r.State,
		Details:   r.Spec.Describe(r.Name, r.State),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
