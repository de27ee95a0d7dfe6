package history

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Get for an unknown id.
	ErrNotFound = errors.New("history record not found")

	// ErrClosed is returned by a store after Close.
	ErrClosed = errors.New("history store is closed")

	errorNilRecord = errors.New("nil record")
)

// StorageError represents an error from a storage backend.
type StorageError struct {
	Backend   string // "sqlite" or "memory"
	Operation string // Operation that failed ("store", "query", "delete", etc.)
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}
