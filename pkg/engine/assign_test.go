package engine

import (
	"reflect"
	"testing"
)

func TestAssign(t *testing.T) {
	tests := []struct {
		name       string
		order      []int
		candidates int
		fits       func(slot, candidate int) bool
		want       []int
		wantOK     bool
	}{
		{
			name:       "identity",
			order:      []int{0, 1, 2},
			candidates: 3,
			fits:       func(s, c int) bool { return s == c },
			want:       []int{0, 1, 2},
			wantOK:     true,
		},
		{
			name:       "reversed",
			order:      []int{0, 1, 2},
			candidates: 3,
			fits:       func(s, c int) bool { return s+c == 2 },
			want:       []int{2, 1, 0},
			wantOK:     true,
		},
		{
			name:       "needs backtracking",
			order:      []int{0, 1},
			candidates: 2,
			// slot 0 accepts both, slot 1 only candidate 0
			fits:   func(s, c int) bool { return s == 0 || c == 0 },
			want:   []int{1, 0},
			wantOK: true,
		},
		{
			name:       "pivot order changes first choice",
			order:      []int{1, 0},
			candidates: 2,
			fits:       func(s, c int) bool { return true },
			want:       []int{1, 0},
			wantOK:     true,
		},
		{
			name:       "no perfect matching",
			order:      []int{0, 1},
			candidates: 2,
			fits:       func(s, c int) bool { return c == 0 },
			wantOK:     false,
		},
		{
			name:       "count mismatch",
			order:      []int{0, 1},
			candidates: 3,
			fits:       func(s, c int) bool { return true },
			wantOK:     false,
		},
		{
			name:       "empty",
			order:      nil,
			candidates: 0,
			fits:       func(s, c int) bool { return false },
			want:       []int{},
			wantOK:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := assign(tt.order, tt.candidates, func(s, c int, next func() bool) bool {
				return tt.fits(s, c) && next()
			}, accept)
			if ok != tt.wantOK {
				t.Fatalf("assign() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("assign() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssignUndoesAbandonedPairings(t *testing.T) {
	// slot 0 fits either candidate, slot 1 only candidate 0, so the first
	// pairing of slot 0 with candidate 0 must be undone.
	active := map[int]int{}
	undone := 0

	_, ok := assign([]int{0, 1}, 2, func(s, c int, next func() bool) bool {
		if s == 1 && c != 0 {
			return false
		}
		active[s] = c
		if next() {
			return true
		}
		delete(active, s)
		undone++
		return false
	}, accept)

	if !ok {
		t.Fatal("assign() failed")
	}
	if undone != 1 {
		t.Errorf("undo called %d times, want 1", undone)
	}
	if active[0] != 1 || active[1] != 0 {
		t.Errorf("final pairing = %v, want map[0:1 1:0]", active)
	}
}

func TestAssignResumesWhenDoneRejects(t *testing.T) {
	complete := 0

	got, ok := assign([]int{0, 1, 2}, 3, func(s, c int, next func() bool) bool {
		return next()
	}, func() bool {
		complete++
		// Accept only the fourth complete pairing in search order.
		return complete == 4
	})

	if !ok {
		t.Fatal("assign() failed")
	}
	if complete != 4 {
		t.Errorf("done called %d times, want 4", complete)
	}
	// Search order: 012, 021, 102, 120.
	if !reflect.DeepEqual(got, []int{1, 2, 0}) {
		t.Errorf("assign() = %v, want [1 2 0]", got)
	}
}

func TestAssignRetriesSameCandidate(t *testing.T) {
	// try offers two alternatives for every pairing; done rejects until
	// slot 0 has used its second alternative.
	alt := map[int]int{}

	_, ok := assign([]int{0}, 1, func(s, c int, next func() bool) bool {
		for a := 0; a < 2; a++ {
			alt[s] = a
			if next() {
				return true
			}
		}
		delete(alt, s)
		return false
	}, func() bool { return alt[0] == 1 })

	if !ok {
		t.Fatal("assign() failed")
	}
	if alt[0] != 1 {
		t.Errorf("alternative = %d, want 1", alt[0])
	}
}
