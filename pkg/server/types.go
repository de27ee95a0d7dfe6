package server

import (
	"mercator-hq/symbolic/pkg/engine"
	"mercator-hq/symbolic/pkg/expr/function"
	"mercator-hq/symbolic/pkg/history"
)

// ExpressionRequest is the body of POST /v1/evaluate and /v1/rewrite.
type ExpressionRequest struct {
	Expression string `json:"expression"`
}

// EvaluateResponse is returned by POST /v1/evaluate.
type EvaluateResponse struct {
	ID     string `json:"id,omitempty"`
	Input  string `json:"input"`
	Result string `json:"result"`
}

// RewriteResponse is returned by POST /v1/rewrite.
type RewriteResponse struct {
	ID        string        `json:"id,omitempty"`
	Input     string        `json:"input"`
	Canonical string        `json:"canonical"`
	Result    string        `json:"result"`
	RuleSet   string        `json:"rule_set"`
	Passes    int           `json:"passes"`
	Rewrites  int           `json:"rewrites"`
	Steps     []engine.Step `json:"steps,omitempty"`
}

// FunctionInfo describes one registered function.
type FunctionInfo struct {
	Identifier    string `json:"identifier"`
	Syntax        string `json:"syntax"`
	Commutativity string `json:"commutativity"`
	Associativity string `json:"associativity"`
	ArityType     string `json:"arity_type"`
	Arity         int    `json:"arity"`
	Precedence    int    `json:"precedence,omitempty"`
}

// NewFunctionInfo converts a registry entry.
func NewFunctionInfo(f *function.Function) FunctionInfo {
	return FunctionInfo{
		Identifier:    f.Identifier,
		Syntax:        f.Syntax.String(),
		Commutativity: f.Commutativity.String(),
		Associativity: f.Associativity.String(),
		ArityType:     f.ArityType.String(),
		Arity:         f.Arity,
		Precedence:    f.Precedence.Level(),
	}
}

// FunctionsResponse is returned by GET /v1/functions.
type FunctionsResponse struct {
	Functions []FunctionInfo `json:"functions"`
}

// ErrorResponse wraps every error returned by the API.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains detailed error information.
type ErrorDetail struct {
	// Message is a human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error: "invalid_request_error", "expression_error",
	// "rewrite_error", "not_found" or "server_error".
	Type string `json:"type"`

	// Code is a machine-readable error code.
	Code string `json:"code,omitempty"`

	// Column is the 0-based character offset of an expression error.
	Column *int `json:"column,omitempty"`

	Suggestion string `json:"suggestion,omitempty"`
}

// Error types.
const (
	ErrorTypeInvalidRequest = "invalid_request_error"
	ErrorTypeExpression     = "expression_error"
	ErrorTypeRewrite        = "rewrite_error"
	ErrorTypeNotFound       = "not_found"
	ErrorTypeServerError    = "server_error"
)

// Error codes.
const (
	CodeInvalidJSON      = "invalid_json"
	CodeMissingField     = "missing_field"
	CodeInvalidValue     = "invalid_value"
	CodeRequestTooLarge  = "request_too_large"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeNonConvergent    = "non_convergent"
	CodeInternalError    = "internal_error"
)

// NewErrorResponse creates an error response.
func NewErrorResponse(message, errorType, code string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Message: message,
			Type:    errorType,
			Code:    code,
		},
	}
}

// HTTPStatusCode returns the status code for the error type.
func (e *ErrorDetail) HTTPStatusCode() int {
	switch e.Type {
	case ErrorTypeInvalidRequest:
		if e.Code == CodeRequestTooLarge {
			return 413
		}
		if e.Code == CodeMethodNotAllowed {
			return 405
		}
		return 400
	case ErrorTypeExpression:
		return 400
	case ErrorTypeRewrite:
		return 422
	case ErrorTypeNotFound:
		return 404
	default:
		return 500
	}
}

// HistoryResponse is returned by GET /v1/history.
type HistoryResponse struct {
	Records []*history.Record `json:"records"`
	Total   int64             `json:"total"`
}
