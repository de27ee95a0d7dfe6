package errors

import (
	"fmt"
	"strings"
)

// ErrorType categorizes the failure.
type ErrorType string

const (
	ErrorTypeLexical     ErrorType = "lexical"     // Malformed number literal
	ErrorTypeSyntax      ErrorType = "syntax"      // Unexpected token, unresolved operator, trailing input
	ErrorTypeRule        ErrorType = "rule"        // Invalid rule definition or rule file
	ErrorTypeConvergence ErrorType = "convergence" // Rewriting did not reach a fixed point
	ErrorTypeIO          ErrorType = "io"          // File I/O error
)

// Location is a position inside a file, used for rule-file diagnostics.
type Location struct {
	File   string // Path to the file
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// String returns "file:line:column".
func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsValid returns true if the location has file and line information.
func (l Location) IsValid() bool {
	return l.File != "" && l.Line > 0
}

// Error is a diagnostic carrying enough position information to point at
// the offending input.
type Error struct {
	Type       ErrorType // Category of error
	Message    string    // Error message
	Column     int       // 0-based rune offset into Source
	Source     string    // Expression text, when the error came from parsing
	Location   Location  // File location, when the error came from a file
	Context    string    // Surrounding lines of the file
	Suggestion string    // Suggested fix (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", e.Type, e.Message))

	if e.Source != "" {
		sb.WriteString(fmt.Sprintf(" at column %d", e.Column))
	}

	if e.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("\n  --> %s", e.Location.String()))
	}

	if e.Context != "" {
		sb.WriteString("\n  |\n")
		sb.WriteString(strings.TrimRight(e.Context, "\n"))
		sb.WriteString("\n  |")
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\n  = suggestion: %s", e.Suggestion))
	}

	return sb.String()
}

// Caret renders a marker line pointing at Column, shifted right by indent
// characters so it lines up under input echoed after a prompt.
func (e *Error) Caret(indent int) string {
	col := e.Column
	if col < 0 {
		col = 0
	}
	return strings.Repeat(" ", indent+col) + "^ " + e.Message
}

// ErrorList collects several errors instead of stopping at the first.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*Error, 0),
	}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddError creates and adds a new error located in a file.
func (el *ErrorList) AddError(errType ErrorType, message string, location Location) {
	el.Add(&Error{
		Type:     errType,
		Message:  message,
		Location: location,
	})
}

// AddErrorWithSuggestion creates and adds a new error with a suggestion.
func (el *ErrorList) AddErrorWithSuggestion(errType ErrorType, message string, location Location, suggestion string) {
	el.Add(&Error{
		Type:       errType,
		Message:    message,
		Location:   location,
		Suggestion: suggestion,
	})
}

// HasErrors returns true if the error list contains any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Count returns the number of errors in the list.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Error implements the error interface.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d error(s):\n", el.Count()))

	for i, err := range el.Errors {
		sb.WriteString(fmt.Sprintf("\nError %d:\n", i+1))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// ToError returns nil if the list is empty, otherwise the list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// ByType returns all errors of the given type.
func (el *ErrorList) ByType(errType ErrorType) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Type == errType {
			result = append(result, err)
		}
	}
	return result
}

// HasErrorType returns true if the list contains an error of the given type.
func (el *ErrorList) HasErrorType(errType ErrorType) bool {
	for _, err := range el.Errors {
		if err.Type == errType {
			return true
		}
	}
	return false
}
