package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/cloudconnect/cloudconnect/pkg/activity"
	"github.com/cloudconnect/cloudconnect/pkg/resource"
)

// memRecorder is an in-memory activity recorder for testing.
type memRecorder struct {
	mu     sync.Mutex
	events []activity.Event
	fail   bool
}

func (r *memRecorder) Record(_ context.Context, event activity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return fmt.Errorf("recorder unavailable")
	}
	r.events = append(r.events, event)
	return nil
}

func (r *memRecorder) ReadAll(_ context.Context, typeName string) ([]activity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []activity.Event
	for _, e := range r.events {
		if e.TypeName == typeName {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memRecorder) ReadRecent(_ context.Context, limit int) ([]activity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := append([]activity.Event{}, r.events...)
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events, nil
}

func (r *memRecorder) Close() error { return nil }

func newTestManager(t *testing.T) (*Manager, *memRecorder) {
	t.Helper()
	rec := &memRecorder{}
	m, err := New(resource.NewDefaultRegistry(), rec, nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m, rec
}

func appServiceConfig(t *testing.T) json.RawMessage {
	t.Helper()
	return mustJSON(t, map[string]any{
		"runtime": "python", "region": "EastUS", "replica_count": 2,
	})
}

func storageConfig(t *testing.T) json.RawMessage {
	t.Helper()
	return mustJSON(t, map[string]any{
		"encryption_enabled": true, "max_size_gb": 100,
	})
}

func cacheConfig(t *testing.T) json.RawMessage {
	t.Helper()
	return mustJSON(t, map[string]any{
		"ttl_seconds": 300, "capacity_mb": 256, "eviction_policy": "LRU",
	})
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}

// TestHappyPathLifecycle drives an AppService through its full
// lifecycle and checks the tombstone stays visible.
func TestHappyPathLifecycle(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	snap, err := m.Create(ctx, resource.TypeAppService, "web1", appServiceConfig(t))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if snap.State != resource.StateCreated {
		t.Fatalf("state after create = %s, want %s", snap.State, resource.StateCreated)
	}

	steps := []struct {
		op   func(context.Context, string) (resource.Snapshot, error)
		want resource.State
	}{
		{m.Start, resource.StateStarted},
		{m.Stop, resource.StateStopped},
		{m.Delete, resource.StateDeleted},
	}
	for _, step := range steps {
		snap, err = step.op(ctx, "web1")
		if err != nil {
			t.Fatalf("transition to %s: %v", step.want, err)
		}
		if snap.State != step.want {
			t.Fatalf("state = %s, want %s", snap.State, step.want)
		}
	}

	list := m.List(ctx)
	if len(list) != 1 {
		t.Fatalf("list length = %d, want 1 (soft delete keeps the entry)", len(list))
	}
	if list[0].Name != "web1" || list[0].State != resource.StateDeleted {
		t.Fatalf("listed resource = %s/%s, want web1/deleted", list[0].Name, list[0].State)
	}

	got, err := m.Get(ctx, "web1")
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got.State != resource.StateDeleted {
		t.Fatalf("get state = %s, want deleted", got.State)
	}
}

// TestStartAfterDelete covers the invalid-start scenario: a deleted
// storage account cannot be started.
func TestStartAfterDelete(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.Create(ctx, resource.TypeStorageAccount, "s1", storageConfig(t)); err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, op := range []func(context.Context, string) (resource.Snapshot, error){m.Start, m.Stop, m.Delete} {
		if _, err := op(ctx, "s1"); err != nil {
			t.Fatalf("lifecycle step failed: %v", err)
		}
	}

	_, err := m.Start(ctx, "s1")
	if !resource.IsInvalidTransition(err) {
		t.Fatalf("error = %v, want INVALID_TRANSITION", err)
	}
	snap, _ := m.Get(ctx, "s1")
	if snap.State != resource.StateDeleted {
		t.Fatalf("state changed by failed start: %s", snap.State)
	}
}

// TestDeleteWhileRunning covers the invalid-delete scenario: a running
// cache must be stopped before deletion.
func TestDeleteWhileRunning(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.Create(ctx, resource.TypeCacheDB, "c1", cacheConfig(t)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := m.Start(ctx, "c1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	_, err := m.Delete(ctx, "c1")
	if !resource.IsInvalidTransition(err) {
		t.Fatalf("error = %v, want INVALID_TRANSITION", err)
	}
	snap, _ := m.Get(ctx, "c1")
	if snap.State != resource.StateStarted {
		t.Fatalf("state changed by failed delete: %s", snap.State)
	}
}

// TestDuplicateNameAcrossTypes checks name uniqueness regardless of
// type.
func TestDuplicateNameAcrossTypes(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.Create(ctx, resource.TypeAppService, "dup1", appServiceConfig(t)); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := m.Create(ctx, resource.TypeStorageAccount, "dup1", storageConfig(t))
	if !resource.IsDuplicateName(err) {
		t.Fatalf("error = %v, want DUPLICATE_NAME", err)
	}
	if len(m.List(ctx)) != 1 {
		t.Fatal("failed create still inserted a resource")
	}
}

// TestActivityLogContents verifies the per-type event stream after the
// happy path: exactly four events for web1, in order.
func TestActivityLogContents(t *testing.T) {
	m, rec := newTestManager(t)
	ctx := context.Background()

	if _, err := m.Create(ctx, resource.TypeAppService, "web1", appServiceConfig(t)); err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, op := range []func(context.Context, string) (resource.Snapshot, error){m.Start, m.Stop, m.Delete} {
		if _, err := op(ctx, "web1"); err != nil {
			t.Fatalf("lifecycle step failed: %v", err)
		}
	}

	events, err := rec.ReadAll(ctx, resource.TypeAppService)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	wantOps := []string{"create", "start", "stop", "delete"}
	wantStates := []string{"created", "started", "stopped", "deleted"}
	for i := range wantOps {
		e := events[i]
		if e.ResourceName != "web1" || e.Operation != wantOps[i] || e.State != wantStates[i] {
			t.Errorf("event %d = %s/%s/%s, want web1/%s/%s",
				i, e.ResourceName, e.Operation, e.State, wantOps[i], wantStates[i])
		}
		if e.Timestamp.IsZero() {
			t.Errorf("event %d has no timestamp", i)
		}
	}
	if events[0].Detail == "" {
		t.Error("create event has no detail text")
	}
	if events[1].Detail != "in EastUS" {
		t.Errorf("start event detail = %q, want %q", events[1].Detail, "in EastUS")
	}
}

func TestCreateUnknownType(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Create(context.Background(), "VirtualMachine", "vm1", nil)
	if !resource.IsUnknownType(err) {
		t.Fatalf("error = %v, want UNKNOWN_TYPE", err)
	}
}

func TestCreateEmptyName(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Create(context.Background(), resource.TypeAppService, "", appServiceConfig(t))
	if !resource.IsValidation(err) {
		t.Fatalf("error = %v, want VALIDATION_ERROR", err)
	}
}

func TestCreateInvalidConfigDoesNotInsert(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Create(ctx, resource.TypeAppService, "bad", mustJSON(t, map[string]any{
		"runtime": "cobol", "region": "EastUS", "replica_count": 1,
	}))
	if !resource.IsValidation(err) {
		t.Fatalf("error = %v, want VALIDATION_ERROR", err)
	}
	if _, err := m.Get(ctx, "bad"); !resource.IsNotFound(err) {
		t.Fatal("invalid resource was inserted")
	}
}

func TestOperationsOnMissingResource(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	for _, op := range []func(context.Context, string) (resource.Snapshot, error){m.Start, m.Stop, m.Delete} {
		if _, err := op(ctx, "ghost"); !resource.IsNotFound(err) {
			t.Fatalf("error = %v, want NOT_FOUND", err)
		}
	}
	if _, err := m.Get(ctx, "ghost"); !resource.IsNotFound(err) {
		t.Fatalf("get error want NOT_FOUND")
	}
}

// TestRecorderFailureIsNonFatal checks that a failing activity recorder
// does not undo or fail the lifecycle operation.
func TestRecorderFailureIsNonFatal(t *testing.T) {
	m, rec := newTestManager(t)
	rec.fail = true
	ctx := context.Background()

	snap, err := m.Create(ctx, resource.TypeCacheDB, "c1", cacheConfig(t))
	if err != nil {
		t.Fatalf("create failed on recorder error: %v", err)
	}
	if snap.State != resource.StateCreated {
		t.Fatalf("state = %s, want created", snap.State)
	}

	if _, err := m.Start(ctx, "c1"); err != nil {
		t.Fatalf("start failed on recorder error: %v", err)
	}
	snap, _ = m.Get(ctx, "c1")
	if snap.State != resource.StateStarted {
		t.Fatalf("state = %s, want started", snap.State)
	}
}

// TestListPreservesCreationOrder checks insertion-order listing across
// types.
func TestListPreservesCreationOrder(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	creates := []struct {
		typeName string
		name     string
		config   json.RawMessage
	}{
		{resource.TypeCacheDB, "zeta", cacheConfig(t)},
		{resource.TypeAppService, "alpha", appServiceConfig(t)},
		{resource.TypeStorageAccount, "mid", storageConfig(t)},
	}
	for _, c := range creates {
		if _, err := m.Create(ctx, c.typeName, c.name, c.config); err != nil {
			t.Fatalf("create %s: %v", c.name, err)
		}
	}

	list := m.List(ctx)
	if len(list) != 3 {
		t.Fatalf("list length = %d, want 3", len(list))
	}
	for i, want := range []string{"zeta", "alpha", "mid"} {
		if list[i].Name != want {
			t.Errorf("list[%d] = %s, want %s", i, list[i].Name, want)
		}
	}
}

func TestConcurrentOperations(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("web%d", i)
			if _, err := m.Create(ctx, resource.TypeAppService, name, appServiceConfig(t)); err != nil {
				t.Errorf("create %s: %v", name, err)
				return
			}
			if _, err := m.Start(ctx, name); err != nil {
				t.Errorf("start %s: %v", name, err)
			}
		}(i)
	}
	wg.Wait()

	if got := len(m.List(ctx)); got != 10 {
		t.Fatalf("list length = %d, want 10", got)
	}
}
