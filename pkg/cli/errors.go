package cli

import (
	"errors"
	"fmt"
	"strings"

	exprerrors "mercator-hq/symbolic/pkg/expr/errors"
)

// ConfigError represents an error in configuration or flags.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// Process exit codes returned by ExitCode.
const (
	ExitFailure    = 1
	ExitConfig     = 2
	ExitExpression = 3
)

// ExitCode maps a command error to a process exit status. Configuration
// problems exit with ExitConfig, malformed expressions with ExitExpression
// and everything else with ExitFailure. A nil error is 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfig
	}
	var exprErr *exprerrors.Error
	if errors.As(err, &exprErr) {
		return ExitExpression
	}
	return ExitFailure
}

// RenderExpressionError formats err for a terminal. An expression error
// is shown as a caret under the offending column, shifted by indent so it
// lines up with input echoed after a prompt. Other errors are returned as
// their message.
func RenderExpressionError(err error, indent int) string {
	var exprErr *exprerrors.Error
	if !errors.As(err, &exprErr) || exprErr.Source == "" {
		return err.Error()
	}

	var sb strings.Builder
	sb.WriteString(exprErr.Caret(indent))
	if exprErr.Suggestion != "" {
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", indent))
		sb.WriteString("help: ")
		sb.WriteString(exprErr.Suggestion)
	}
	return sb.String()
}
