package rules

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestDefaultWatcherConfig(t *testing.T) {
	config := DefaultWatcherConfig()
	if config.DebounceInterval != 100*time.Millisecond {
		t.Errorf("DebounceInterval = %v, want 100ms", config.DebounceInterval)
	}
}

func TestWatcher_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	other := filepath.Join(dir, "other.yaml")
	if err := os.WriteFile(path, []byte("name: a\n"), 0644); err != nil {
		t.Fatal(err)
	}

	config := DefaultWatcherConfig()
	config.Path = path
	config.DebounceInterval = 50 * time.Millisecond

	w, err := NewWatcher(config, nil)
	if err != nil {
		t.Fatal(err)
	}

	var reloads atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = w.Watch(ctx, func() error {
			reloads.Add(1)
			return nil
		})
	}()
	time.Sleep(100 * time.Millisecond)

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(other, []byte("name: b\n"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if n := reloads.Load(); n != 0 {
		t.Fatalf("reloads after unrelated write = %d, want 0", n)
	}

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("name: c\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	time.Sleep(300 * time.Millisecond)

	if n := reloads.Load(); n != 1 {
		t.Errorf("reloads = %d, want 1 after debounced burst", n)
	}

	if err := w.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestWatcher_ShouldProcessEvent(t *testing.T) {
	w := &Watcher{config: DefaultWatcherConfig()}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"yaml write", fsnotify.Event{Name: "r/a.yaml", Op: fsnotify.Write}, true},
		{"yml create", fsnotify.Event{Name: "r/a.yml", Op: fsnotify.Create}, true},
		{"chmod", fsnotify.Event{Name: "r/a.yaml", Op: fsnotify.Chmod}, false},
		{"other extension", fsnotify.Event{Name: "r/a.txt", Op: fsnotify.Write}, false},
		{"hidden", fsnotify.Event{Name: "r/.a.yaml", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.shouldProcessEvent(tt.event); got != tt.want {
				t.Errorf("shouldProcessEvent(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		d.Trigger(func() { calls.Add(1) })
	}
	time.Sleep(100 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}

	d.Stop()
	d.Trigger(func() { calls.Add(1) })
	time.Sleep(60 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("calls after Stop = %d, want 1", n)
	}
}
