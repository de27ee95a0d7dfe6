package engine

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNonConvergent indicates rewriting kept firing past its bound.
	ErrNonConvergent = errors.New("rewriting did not converge")

	// ErrDanglingTag indicates a result references a tag its predicate never binds.
	ErrDanglingTag = errors.New("result references unbound tag")

	// ErrInvalidRule indicates a malformed predicate or result.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrDuplicateRule indicates two rules in a set share a name.
	ErrDuplicateRule = errors.New("duplicate rule name")

	// ErrInvalidConfig indicates invalid engine configuration.
	ErrInvalidConfig = errors.New("invalid engine configuration")
)

// RuleError reports why a rule could not be constructed.
type RuleError struct {
	Rule    string
	Message string
	Cause   error
}

// Error returns the error message.
func (e *RuleError) Error() string {
	name := e.Rule
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("rule %s: %s", name, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RuleError) Unwrap() error {
	return e.Cause
}

// NonConvergentError reports a rewrite that exceeded its bound.
type NonConvergentError struct {
	Rule  string // Rule that kept firing, empty when a whole rule set cycled
	Node  string // Rendering of the node being rewritten when the bound was hit
	Limit int
}

// Error returns the error message.
func (e *NonConvergentError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("rule set did not reach a fixed point within %d passes at %s", e.Limit, e.Node)
	}
	return fmt.Sprintf("rule %s fired more than %d times at %s", e.Rule, e.Limit, e.Node)
}

// Unwrap returns ErrNonConvergent.
func (e *NonConvergentError) Unwrap() error {
	return ErrNonConvergent
}
