package history

import (
	"context"
	"testing"
	"time"

	"mercator-hq/symbolic/pkg/config"
)

func TestPruner_Prune(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name        string
		config      *PrunerConfig
		wantDeleted int64
		wantLeft    []string
	}{
		{
			name:        "by age",
			config:      &PrunerConfig{RetentionDays: 7},
			wantDeleted: 2,
			wantLeft:    []string{"new-2", "new-1"},
		},
		{
			name:        "by count",
			config:      &PrunerConfig{MaxRecords: 1},
			wantDeleted: 3,
			wantLeft:    []string{"new-2"},
		},
		{
			name:        "age then count",
			config:      &PrunerConfig{RetentionDays: 7, MaxRecords: 1},
			wantDeleted: 3,
			wantLeft:    []string{"new-2"},
		},
		{
			name:        "disabled",
			config:      &PrunerConfig{},
			wantDeleted: 0,
			wantLeft:    []string{"new-2", "new-1", "old-2", "old-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			seed(t, store,
				&Record{ID: "old-1", Operation: "evaluate", CreatedAt: now.AddDate(0, 0, -10)},
				&Record{ID: "old-2", Operation: "evaluate", CreatedAt: now.AddDate(0, 0, -8)},
				&Record{ID: "new-1", Operation: "evaluate", CreatedAt: now.AddDate(0, 0, -3)},
				&Record{ID: "new-2", Operation: "evaluate", CreatedAt: now},
			)

			deleted, err := NewPruner(store, tt.config).Prune(context.Background())
			if err != nil {
				t.Fatalf("Prune() failed: %v", err)
			}
			if deleted != tt.wantDeleted {
				t.Errorf("Prune() = %d, want %d", deleted, tt.wantDeleted)
			}

			left, _ := store.Recent(context.Background(), 10)
			if !equalIDs(ids(left), tt.wantLeft) {
				t.Errorf("remaining = %v, want %v", ids(left), tt.wantLeft)
			}
		})
	}
}

func TestPrunerConfigFrom(t *testing.T) {
	cfg := PrunerConfigFrom(&config.HistoryConfig{
		RetentionDays: 14,
		PruneSchedule: "0 4 * * *",
		MaxRecords:    500,
	})
	if cfg.RetentionDays != 14 || cfg.PruneSchedule != "0 4 * * *" || cfg.MaxRecords != 500 {
		t.Errorf("PrunerConfigFrom() = %+v", cfg)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	pruner := NewPruner(NewMemoryStore(), &PrunerConfig{PruneSchedule: "0 3 * * *", RetentionDays: 1})
	s := NewScheduler(pruner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !s.IsRunning() {
		t.Fatal("IsRunning() = false after Start")
	}

	next := s.NextRun()
	if next == nil {
		t.Fatal("NextRun() = nil")
	}
	if next.Hour() != 3 || next.Minute() != 0 {
		t.Errorf("NextRun() = %v, want 03:00", next)
	}

	s.Stop()
	if s.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	s := NewScheduler(NewPruner(NewMemoryStore(), &PrunerConfig{PruneSchedule: "*/5 * * * *"}))

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for s.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.IsRunning() {
		t.Error("scheduler still running after context cancel")
	}
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := NewScheduler(NewPruner(NewMemoryStore(), &PrunerConfig{PruneSchedule: "not a schedule"}))
	if err := s.Start(context.Background()); err == nil {
		t.Error("Start() with invalid schedule succeeded")
	}
	if s.IsRunning() {
		t.Error("IsRunning() = true after failed Start")
	}
}

func TestScheduler_EmptySchedule(t *testing.T) {
	s := NewScheduler(NewPruner(NewMemoryStore(), &PrunerConfig{}))
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if s.IsRunning() {
		t.Error("IsRunning() = true with empty schedule")
	}
	if s.NextRun() != nil {
		t.Error("NextRun() != nil with empty schedule")
	}
}
