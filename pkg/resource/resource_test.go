package resource

import (
	"strings"
	"testing"
)

func newTestResource(t *testing.T) *Resource {
	t.Helper()
	spec, err := NewAppService(mustJSON(t, map[string]any{
		"runtime": "nodejs", "region": "WestEurope", "replica_count": 1,
	}))
	if err != nil {
		t.Fatalf("spec: %v", err)
	}
	return New("web1", spec)
}

func TestNewResource(t *testing.T) {
	r := newTestResource(t)
	if r.ID == "" {
		t.Error("resource has no ID")
	}
	if r.State != StateCreated {
		t.Errorf("initial state = %s, want %s", r.State, StateCreated)
	}
	if r.Type != TypeAppService {
		t.Errorf("type = %s, want %s", r.Type, TypeAppService)
	}
	if r.CreatedAt.IsZero() || r.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestApplyAdvancesState(t *testing.T) {
	r := newTestResource(t)
	for _, step := range []struct {
		op   Operation
		want State
	}{
		{OpStart, StateStarted},
		{OpStop, StateStopped},
		{OpDelete, StateDeleted},
	} {
		if err := r.Apply(step.op); err != nil {
			t.Fatalf("apply %s: %v", step.op, err)
		}
		if r.State != step.want {
			t.Fatalf("state after %s = %s, want %s", step.op, r.State, step.want)
		}
	}
}

func TestApplyLeavesStateUnchangedOnError(t *testing.T) {
	r := newTestResource(t)
	if err := r.Apply(OpDelete); !IsInvalidTransition(err) {
		t.Fatalf("error = %v, want INVALID_TRANSITION", err)
	}
	if r.State != StateCreated {
		t.Fatalf("state mutated on failed transition: %s", r.State)
	}
}

func TestSnapshotRetainsConfigAfterDelete(t *testing.T) {
	r := newTestResource(t)
	before := r.Snapshot()

	for _, op := range []Operation{OpStart, OpStop, OpDelete} {
		if err := r.Apply(op); err != nil {
			t.Fatalf("apply %s: %v", op, err)
		}
	}

	after := r.Snapshot()
	if after.State != StateDeleted {
		t.Fatalf("state = %s, want %s", after.State, StateDeleted)
	}
	// Config fields survive deletion; only the state line differs.
	for _, want := range []string{"nodejs", "WestEurope", "1"} {
		if !strings.Contains(after.Details, want) {
			t.Errorf("details lost %q after delete:\n%s", want, after.Details)
		}
	}
	if before.ID != after.ID || before.Name != after.Name {
		t.Error("identity changed across transitions")
	}
}
