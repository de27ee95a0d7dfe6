package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is one stored evaluation or rewrite.
type Record struct {
	// ID is a UUID assigned when the record is created.
	ID string `json:"id"`

	// RequestID links the record to the HTTP request that produced it.
	RequestID string `json:"request_id,omitempty"`

	// Operation is "evaluate" or "rewrite".
	Operation string `json:"operation"`

	// Input is the expression text as received.
	Input string `json:"input"`

	// Output is the canonical result. Empty when Error is set.
	Output string `json:"output,omitempty"`

	// Error is the failure message, if any.
	Error string `json:"error,omitempty"`

	// RuleSet names the rule set applied by a rewrite.
	RuleSet string `json:"rule_set,omitempty"`

	// Rewrites is the number of rule firings.
	Rewrites int `json:"rewrites"`

	// Duration is how long the operation took.
	Duration time.Duration `json:"duration_ns"`

	CreatedAt time.Time `json:"created_at"`
}

// NewRecord creates a record with a fresh ID and creation time.
func NewRecord(operation, input string) *Record {
	return &Record{
		ID:        uuid.New().String(),
		Operation: operation,
		Input:     input,
		CreatedAt: time.Now().UTC(),
	}
}

// Succeeded reports whether the operation produced an output.
func (r *Record) Succeeded() bool {
	return r.Error == ""
}

// Query filters records. Zero fields do not filter.
type Query struct {
	Operation string
	Since     *time.Time
	Until     *time.Time

	// FailedOnly keeps only records with an error.
	FailedOnly bool

	// Limit caps the result size (0 = DefaultLimit).
	Limit  int
	Offset int
}

// Query limits.
const (
	DefaultLimit = 100
	MaxLimit     = 10000
)

// effectiveLimit clamps q.Limit into [1, MaxLimit].
func (q *Query) effectiveLimit() int {
	switch {
	case q.Limit <= 0:
		return DefaultLimit
	case q.Limit > MaxLimit:
		return MaxLimit
	default:
		return q.Limit
	}
}

// Store persists evaluation records. Results are newest first.
type Store interface {
	// Store persists a record.
	Store(ctx context.Context, record *Record) error

	// Get returns the record with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Recent returns up to limit of the newest records.
	Recent(ctx context.Context, limit int) ([]*Record, error)

	// Query returns records matching q.
	Query(ctx context.Context, q *Query) ([]*Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)

	// DeleteBefore deletes records created before cutoff.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteOldest deletes the oldest records beyond the newest keep.
	DeleteOldest(ctx context.Context, keep int64) (int64, error)

	// Ping verifies the store is usable.
	Ping(ctx context.Context) error

	// Close releases the store.
	Close() error
}
