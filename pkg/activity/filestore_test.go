package activity

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}
	return store
}

func TestFileStoreRecordAndReadAll(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	for i, op := range []string{"create", "start", "stop", "delete"} {
		event := New("AppService", "web1", op, "started", "")
		// Keep timestamps strictly increasing for ordering checks.
		event.Timestamp = time.Now().Add(time.Duration(i) * time.Millisecond)
		if err := store.Record(ctx, event); err != nil {
			t.Fatalf("record %s: %v", op, err)
		}
	}

	events, err := store.ReadAll(ctx, "AppService")
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	for i, want := range []string{"create", "start", "stop", "delete"} {
		if events[i].Operation != want {
			t.Errorf("event %d operation = %q, want %q", i, events[i].Operation, want)
		}
	}
}

func TestFileStorePartitionsByType(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, New("AppService", "web1", "create", "created", "")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Record(ctx, New("CacheDB", "c1", "create", "created", "")); err != nil {
		t.Fatalf("record: %v", err)
	}

	for _, name := range []string{"appservice.log", "cachedb.log"} {
		if _, err := os.Stat(filepath.Join(store.Dir(), name)); err != nil {
			t.Errorf("expected per-type log file %s: %v", name, err)
		}
	}

	events, err := store.ReadAll(ctx, "AppService")
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(events) != 1 || events[0].ResourceName != "web1" {
		t.Fatalf("AppService stream = %+v, want only web1", events)
	}
}

func TestFileStoreReadAllUnknownType(t *testing.T) {
	store := newTestFileStore(t)
	events, err := store.ReadAll(context.Background(), "StorageAccount")
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("got %d events for unknown type, want 0", len(events))
	}
}

func TestFileStoreReadRecent(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	base := time.Now()
	names := []string{"a", "b", "c", "d", "e"}
	types := []string{"AppService", "CacheDB", "AppService", "StorageAccount", "CacheDB"}
	for i := range names {
		event := New(types[i], names[i], "create", "created", "")
		event.Timestamp = base.Add(time.Duration(i) * time.Second)
		if err := store.Record(ctx, event); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	events, err := store.ReadRecent(ctx, 3)
	if err != nil {
		t.Fatalf("read recent: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	for i, want := range []string{"c", "d", "e"} {
		if events[i].ResourceName != want {
			t.Errorf("recent[%d] = %q, want %q", i, events[i].ResourceName, want)
		}
	}
}

func TestFileStoreFollow(t *testing.T) {
	store := newTestFileStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// An event recorded before Follow must not be replayed.
	if err := store.Record(ctx, New("AppService", "old", "create", "created", "")); err != nil {
		t.Fatalf("record: %v", err)
	}

	ch, err := store.Follow(ctx, "AppService")
	if err != nil {
		t.Fatalf("follow: %v", err)
	}

	if err := store.Record(ctx, New("AppService", "web1", "start", "started", "")); err != nil {
		t.Fatalf("record: %v", err)
	}

	select {
	case event, ok := <-ch:
		if !ok {
			t.Fatal("follow channel closed early")
		}
		if event.ResourceName != "web1" || event.Operation != "start" {
			t.Fatalf("followed event = %+v", event)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for followed event")
	}

	cancel()
	for range ch {
		// Drain until the watcher goroutine closes the channel.
	}
}
