// Package manager owns the authoritative resource collection and is
// the single entry point for every lifecycle operation. It enforces
// name uniqueness across all types, delegates transition legality to
// the resources themselves, and emits an activity event for every
// successful operation, including creation.
package manager

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/cloudconnect/cloudconnect/pkg/activity"
	"github.com/cloudconnect/cloudconnect/pkg/resource"
	"github.com/cloudconnect/cloudconnect/pkg/telemetry"
)

// Manager mediates all operations against stored resources. The
// collection is guarded by a coarse mutex: operations are O(1) lookups
// plus O(1) state transitions, so finer locking buys nothing. Entries
// are never removed; deletion is a tombstone state.
type Manager struct {
	mu       sync.Mutex
	registry *resource.Registry
	recorder activity.Recorder
	logger   *telemetry.Logger
	metrics  *telemetry.Metrics
	tracer   *telemetry.Tracer

	byName map[string]*resource.Resource
	order  []string
}

// New creates a manager over the given registry and activity recorder.
// tel may be nil; logging then goes to stderr and metrics and tracing
// are no-ops.
func New(registry *resource.Registry, recorder activity.Recorder, tel *telemetry.Telemetry) (*Manager, error) {
	if tel == nil {
		var err error
		cfg := telemetry.DefaultConfig()
		cfg.Metrics.Enabled = false
		tel, err = telemetry.New(cfg)
		if err != nil {
			return nil, err
		}
	}
	return &Manager{
		registry: registry,
		recorder: recorder,
		logger:   tel.Logger.NewComponentLogger("manager"),
		metrics:  tel.Metrics,
		tracer:   tel.Tracer,
		byName:   make(map[string]*resource.Resource),
		order:    []string{},
	}, nil
}

// Registry returns the type registry the manager resolves factories
// from.
func (m *Manager) Registry() *resource.Registry { return m.registry }

// Recorder returns the activity logging collaborator.
func (m *Manager) Recorder() activity.Recorder { return m.recorder }

// Create validates rawConfig through the registered factory for
// typeName and stores the new resource in state CREATED. The name must
// be non-empty and unique across every type.
func (m *Manager) Create(ctx context.Context, typeName, name string, rawConfig json.RawMessage) (resource.Snapshot, error) {
	ctx, span := m.tracer.StartOperationSpan(ctx, string(resource.OpCreate), typeName, name)
	defer span.End()
	started := time.Now()

	snap, err := m.create(ctx, typeName, name, rawConfig)
	m.finish(span, typeName, resource.OpCreate, started, err)
	return snap, err
}

func (m *Manager) create(ctx context.Context, typeName, name string, rawConfig json.RawMessage) (resource.Snapshot, error) {
	if name == "" {
		return resource.Snapshot{}, resource.NewValidationError("name", nil, "resource name cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byName[name]; exists {
		return resource.Snapshot{}, resource.NewDuplicateNameError(name)
	}

	factory, err := m.registry.Resolve(typeName)
	if err != nil {
		return resource.Snapshot{}, err
	}

	spec, err := factory(rawConfig)
	if err != nil {
		return resource.Snapshot{}, err
	}

	r := resource.New(name, spec)
	m.byName[name] = r
	m.order = append(m.order, name)
	m.updateGaugesLocked()

	m.emit(ctx, r, resource.OpCreate, spec.CreationDetails())
	return r.Snapshot(), nil
}

// Start starts the named resource.
func (m *Manager) Start(ctx context.Context, name string) (resource.Snapshot, error) {
	return m.transition(ctx, name, resource.OpStart)
}

// Stop stops the named resource.
func (m *Manager) Stop(ctx context.Context, name string) (resource.Snapshot, error) {
	return m.transition(ctx, name, resource.OpStop)
}

// Delete soft-deletes the named resource. The record stays in the
// collection with state DELETED and its configuration intact.
func (m *Manager) Delete(ctx context.Context, name string) (resource.Snapshot, error) {
	return m.transition(ctx, name, resource.OpDelete)
}

func (m *Manager) transition(ctx context.Context, name string, op resource.Operation) (resource.Snapshot, error) {
	m.mu.Lock()
	r, exists := m.byName[name]
	m.mu.Unlock()

	typeName := ""
	if exists {
		typeName = r.Type
	}
	ctx, span := m.tracer.StartOperationSpan(ctx, string(op), typeName, name)
	defer span.End()
	started := time.Now()

	snap, err := m.apply(ctx, name, op)
	m.finish(span, typeName, op, started, err)
	return snap, err
}

func (m *Manager) apply(ctx context.Context, name string, op resource.Operation) (resource.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.byName[name]
	if !exists {
		return resource.Snapshot{}, resource.NewNotFoundError(name)
	}

	if err := r.Apply(op); err != nil {
		return resource.Snapshot{}, err
	}
	m.updateGaugesLocked()

	detail := ""
	if op == resource.OpStart {
		detail = r.Spec.StartDetails()
	}
	m.emit(ctx, r, op, detail)
	return r.Snapshot(), nil
}

// List returns snapshots of every resource in creation order, deleted
// ones included.
func (m *Manager) List(_ context.Context) []resource.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snaps := make([]resource.Snapshot, 0, len(m.order))
	for _, name := range m.order {
		snaps = append(snaps, m.byName[name].Snapshot())
	}
	return snaps
}

// Get returns a snapshot of the named resource.
func (m *Manager) Get(_ context.Context, name string) (resource.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.byName[name]
	if !exists {
		return resource.Snapshot{}, resource.NewNotFoundError(name)
	}
	return r.Snapshot(), nil
}

// emit hands an event to the activity recorder. A recorder failure is
// surfaced as a warning and counted, but never undoes the state change
// it accompanies.
func (m *Manager) emit(ctx context.Context, r *resource.Resource, op resource.Operation, detail string) {
	event := activity.New(r.Type, r.Name, string(op), string(r.State), detail)

	log := m.logger.WithType(r.Type).WithResource(r.Name).WithOperation(string(op))
	log.Infof("%s %q %s", r.Type, r.Name, op)

	if err := m.recorder.Record(ctx, event); err != nil {
		m.metrics.RecordActivityFailure()
		log.WithError(err).Warn("failed to record activity event")
	}
}

// finish records metrics and trace status for a completed operation.
func (m *Manager) finish(span trace.Span, typeName string, op resource.Operation, started time.Time, err error) {
	duration := time.Since(started)
	if err != nil {
		telemetry.RecordError(span, err)
		m.metrics.RecordOperation(typeName, string(op), "error", duration)
		var rerr *resource.Error
		if errors.As(err, &rerr) {
			m.metrics.RecordOperationError(rerr.Code)
		}
		return
	}
	telemetry.RecordSuccess(span)
	m.metrics.RecordOperation(typeName, string(op), "success", duration)
}

// updateGaugesLocked recomputes the per-type, per-state resource
// gauges. Callers must hold the mutex.
func (m *Manager) updateGaugesLocked() {
	counts := make(map[[2]string]int)
	for _, r := range m.byName {
		counts[[2]string{r.Type, string(r.State)}]++
	}
	for _, typeName := range m.registry.Types() {
		for _, state := range []resource.State{
			resource.StateCreated, resource.StateStarted, resource.StateStopped, resource.StateDeleted,
		} {
			m.metrics.SetResourceCount(typeName, string(state),
				float64(counts[[2]string{typeName, string(state)}]))
		}
	}
}
