package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const backendMemory = "memory"

// MemoryStore implements Store in memory. Records are copied on the way
// in and out.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
	seq     map[string]uint64
	next    uint64
	closed  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
		seq:     make(map[string]uint64),
	}
}

// Store saves a copy of record.
func (m *MemoryStore) Store(ctx context.Context, record *Record) error {
	if record == nil {
		return NewStorageError(backendMemory, "store", errorNilRecord)
	}
	fillDefaults(record)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return NewStorageError(backendMemory, "store", ErrClosed)
	}

	cp := *record
	m.records[cp.ID] = &cp
	m.next++
	m.seq[cp.ID] = m.next
	return nil
}

// Get returns a copy of the record with id.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, NewStorageError(backendMemory, "get", ErrClosed)
	}

	r, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

// Recent returns the newest records.
func (m *MemoryStore) Recent(ctx context.Context, limit int) ([]*Record, error) {
	return m.Query(ctx, &Query{Limit: limit})
}

// Query returns records matching q, newest first.
func (m *MemoryStore) Query(ctx context.Context, q *Query) ([]*Record, error) {
	if q == nil {
		q = &Query{}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, NewStorageError(backendMemory, "query", ErrClosed)
	}

	matched := make([]*Record, 0, len(m.records))
	for _, r := range m.records {
		if matches(r, q) {
			matched = append(matched, r)
		}
	}
	m.sortNewestFirst(matched)

	if q.Offset >= len(matched) {
		return []*Record{}, nil
	}
	matched = matched[q.Offset:]
	if limit := q.effectiveLimit(); len(matched) > limit {
		matched = matched[:limit]
	}

	out := make([]*Record, len(matched))
	for i, r := range matched {
		cp := *r
		out[i] = &cp
	}
	return out, nil
}

// Count returns the number of stored records.
func (m *MemoryStore) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return 0, NewStorageError(backendMemory, "count", ErrClosed)
	}
	return int64(len(m.records)), nil
}

// DeleteBefore deletes records created before cutoff.
func (m *MemoryStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, NewStorageError(backendMemory, "delete", ErrClosed)
	}

	var n int64
	for id, r := range m.records {
		if r.CreatedAt.Before(cutoff) {
			m.remove(id)
			n++
		}
	}
	return n, nil
}

// DeleteOldest keeps the newest keep records and deletes the rest.
func (m *MemoryStore) DeleteOldest(ctx context.Context, keep int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, NewStorageError(backendMemory, "delete_oldest", ErrClosed)
	}
	if keep < 0 {
		keep = 0
	}
	if int64(len(m.records)) <= keep {
		return 0, nil
	}

	all := make([]*Record, 0, len(m.records))
	for _, r := range m.records {
		all = append(all, r)
	}
	m.sortNewestFirst(all)

	var n int64
	for _, r := range all[keep:] {
		m.remove(r.ID)
		n++
	}
	return n, nil
}

// Ping reports whether the store is open.
func (m *MemoryStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return NewStorageError(backendMemory, "ping", ErrClosed)
	}
	return nil
}

// Close drops all records.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	m.seq = nil
	m.closed = true
	return nil
}

func (m *MemoryStore) remove(id string) {
	delete(m.records, id)
	delete(m.seq, id)
}

// sortNewestFirst orders by creation time, then insertion order.
func (m *MemoryStore) sortNewestFirst(rs []*Record) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].CreatedAt.After(rs[j].CreatedAt)
		}
		return m.seq[rs[i].ID] > m.seq[rs[j].ID]
	})
}

func matches(r *Record, q *Query) bool {
	if q.Operation != "" && r.Operation != q.Operation {
		return false
	}
	if q.Since != nil && r.CreatedAt.Before(*q.Since) {
		return false
	}
	if q.Until != nil && r.CreatedAt.After(*q.Until) {
		return false
	}
	if q.FailedOnly && r.Error == "" {
		return false
	}
	return true
}

func fillDefaults(record *Record) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
}
