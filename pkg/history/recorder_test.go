package history

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRecorder_WritesOnClose(t *testing.T) {
	store := NewMemoryStore()
	rec := NewRecorder(store, &RecorderConfig{AsyncBuffer: 10, WriteTimeout: time.Second})

	for _, input := range []string{"x + 0", "y * 1", "z"} {
		if err := rec.Record(context.Background(), NewRecord("evaluate", input)); err != nil {
			t.Fatalf("Record() failed: %v", err)
		}
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	count, _ := store.Count(context.Background())
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}

func TestRecorder_RecordAfterClose(t *testing.T) {
	rec := NewRecorder(NewMemoryStore(), nil)
	rec.Close()
	rec.Close()

	err := rec.Record(context.Background(), NewRecord("evaluate", "x"))
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Record() after Close error = %v, want ErrClosed", err)
	}
}

func TestRecorder_StoreFailureIsLogged(t *testing.T) {
	store := NewMemoryStore()
	store.Close()

	rec := NewRecorder(store, nil)
	if err := rec.Record(context.Background(), NewRecord("evaluate", "x")); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	// The write error is logged, not returned.
	if err := rec.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
}
