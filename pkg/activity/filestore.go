package activity

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileStore records events as JSON lines, one file per resource type
// (e.g. appservice.log), under a single directory. Writes are
// serialized and every file handle is released on every exit path.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates the log directory if needed and returns a store
// over it.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("log directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the log directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) pathFor(typeName string) string {
	return filepath.Join(s.dir, strings.ToLower(typeName)+".log")
}

// Record implements Recorder. The event is appended to the per-type
// stream as a single JSON line.
func (s *FileStore) Record(_ context.Context, event Event) error {
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.pathFor(event.TypeName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

// ReadAll implements Recorder. A type with no recorded events yields an
// empty slice.
func (s *FileStore) ReadAll(_ context.Context, typeName string) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return readEventsFile(s.pathFor(typeName))
}

// ReadRecent implements Recorder. Streams from all types are merged
// chronologically and the newest limit events are returned, oldest
// first.
func (s *FileStore) ReadRecent(_ context.Context, limit int) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read log directory: %w", err)
	}

	var all []Event
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		events, err := readEventsFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		all = append(all, events...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.Before(all[j].Timestamp)
	})
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

// Close implements Recorder. The file store holds no long-lived handles.
func (s *FileStore) Close() error { return nil }

// Follow tails the stream for typeName, emitting events appended after
// the call. The channel is closed when ctx is cancelled or the watcher
// fails.
func (s *FileStore) Follow(ctx context.Context, typeName string) (<-chan Event, error) {
	path := s.pathFor(typeName)

	offset := int64(0)
	if info, err := os.Stat(path); err == nil {
		offset = info.Size()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Watch the directory: the log file may not exist yet.
	if err := watcher.Add(s.dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch log directory: %w", err)
	}

	ch := make(chan Event)
	go func() {
		defer close(ch)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				events, next, err := readEventsFrom(path, offset)
				if err != nil {
					return
				}
				offset = next
				for _, event := range events {
					select {
					case ch <- event:
					case <-ctx.Done():
						return
					}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return ch, nil
}

// readEventsFile reads a whole per-type stream. Missing files are
// treated as empty streams.
func readEventsFile(path string) ([]Event, error) {
	events, _, err := readEventsFrom(path, 0)
	return events, err
}

// readEventsFrom reads complete JSON lines starting at offset and
// returns the parsed events plus the offset after the last complete
// line.
func readEventsFrom(path string, offset int64) ([]Event, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Event{}, offset, nil
		}
		return nil, offset, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("failed to seek log file: %w", err)
	}

	events := []Event{}
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			// A partial trailing line belongs to an in-progress write;
			// leave it for the next read.
			break
		}
		offset += int64(len(line))
		trimmed := strings.TrimSpace(string(line))
		if trimmed == "" {
			continue
		}
		var event Event
		if err := json.Unmarshal([]byte(trimmed), &event); err != nil {
			return nil, offset, fmt.Errorf("corrupt event record: %w", err)
		}
		events = append(events, event)
	}
	return events, offset, nil
}
