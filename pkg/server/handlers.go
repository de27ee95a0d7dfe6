package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/symbolic/pkg/engine"
	exprerrors "mercator-hq/symbolic/pkg/expr/errors"
	"mercator-hq/symbolic/pkg/expr/function"
	"mercator-hq/symbolic/pkg/history"
	"mercator-hq/symbolic/pkg/telemetry/logging"
	"mercator-hq/symbolic/pkg/telemetry/tracing"
)

// handlers serves the /v1 API.
type handlers struct {
	engine             *engine.Engine
	store              history.Store
	recorder           *history.Recorder
	tracer             *tracing.Tracer
	maxExpressionBytes int
	logger             *slog.Logger
}

// evaluate handles POST /v1/evaluate.
func (h *handlers) evaluate(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	ctx := logging.WithOperation(r.Context(), engine.OperationEvaluate)
	ctx, span := h.tracer.Start(ctx, "engine.evaluate",
		trace.WithAttributes(attribute.Int("expression.length", len(req.Expression))))
	defer span.End()

	record := h.newRecord(ctx, engine.OperationEvaluate, req.Expression)
	start := time.Now()

	tree, err := h.engine.Evaluate(ctx, req.Expression)
	record.Duration = time.Since(start)
	if err != nil {
		tracing.SetError(span, err)
		record.Error = err.Error()
		h.record(ctx, record)
		writeError(w, errorFor(err))
		return
	}

	record.Output = tree.String()
	h.record(ctx, record)

	writeJSON(w, http.StatusOK, &EvaluateResponse{
		ID:     record.ID,
		Input:  req.Expression,
		Result: record.Output,
	})
}

// rewrite handles POST /v1/rewrite.
func (h *handlers) rewrite(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	ctx := logging.WithOperation(r.Context(), engine.OperationRewrite)
	record := h.newRecord(ctx, engine.OperationRewrite, req.Expression)
	ruleSet := h.engine.Rules().Name()
	record.RuleSet = ruleSet

	ctx, span := h.tracer.Start(ctx, "engine.rewrite",
		trace.WithAttributes(
			attribute.Int("expression.length", len(req.Expression)),
			attribute.String("rules.set", ruleSet),
		))
	defer span.End()
	start := time.Now()

	outcome, err := h.engine.Rewrite(ctx, req.Expression)
	record.Duration = time.Since(start)
	if err != nil {
		tracing.SetError(span, err)
		record.Error = err.Error()
		h.record(ctx, record)
		writeError(w, errorFor(err))
		return
	}

	record.Output = outcome.Output.String()
	record.Rewrites = outcome.Report.Rewrites
	h.record(ctx, record)
	span.SetAttributes(
		attribute.Int("rewrite.passes", outcome.Report.Passes),
		attribute.Int("rewrite.count", outcome.Report.Rewrites),
	)

	writeJSON(w, http.StatusOK, &RewriteResponse{
		ID:        record.ID,
		Input:     req.Expression,
		Canonical: outcome.Input.String(),
		Result:    record.Output,
		RuleSet:   ruleSet,
		Passes:    outcome.Report.Passes,
		Rewrites:  outcome.Report.Rewrites,
		Steps:     outcome.Report.Steps,
	})
}

// functions handles GET /v1/functions.
func (h *handlers) functions(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	catalog := function.Catalog()
	resp := &FunctionsResponse{Functions: make([]FunctionInfo, 0, len(catalog))}
	for _, f := range catalog {
		resp.Functions = append(resp.Functions, NewFunctionInfo(f))
	}
	writeJSON(w, http.StatusOK, resp)
}

// history handles GET /v1/history. Query parameters: limit, offset,
// operation and failed.
func (h *handlers) history(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if h.store == nil {
		writeError(w, NewErrorResponse("history is disabled", ErrorTypeNotFound, ""))
		return
	}

	q, err := parseHistoryQuery(r)
	if err != nil {
		writeError(w, NewErrorResponse(err.Error(), ErrorTypeInvalidRequest, CodeInvalidValue))
		return
	}

	records, err := h.store.Query(r.Context(), q)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "history query failed", "error", err)
		writeError(w, NewErrorResponse("failed to query history", ErrorTypeServerError, CodeInternalError))
		return
	}
	total, err := h.store.Count(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "history count failed", "error", err)
		writeError(w, NewErrorResponse("failed to count history", ErrorTypeServerError, CodeInternalError))
		return
	}

	writeJSON(w, http.StatusOK, &HistoryResponse{Records: records, Total: total})
}

// historyRecord handles GET /v1/history/{id}.
func (h *handlers) historyRecord(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if h.store == nil {
		writeError(w, NewErrorResponse("history is disabled", ErrorTypeNotFound, ""))
		return
	}

	id := r.PathValue("id")
	record, err := h.store.Get(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		writeError(w, NewErrorResponse(fmt.Sprintf("no history record %q", id), ErrorTypeNotFound, ""))
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "history lookup failed", "id", id, "error", err)
		writeError(w, NewErrorResponse("failed to read history", ErrorTypeServerError, CodeInternalError))
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *handlers) decode(w http.ResponseWriter, r *http.Request) (*ExpressionRequest, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, NewErrorResponse(
				fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit),
				ErrorTypeInvalidRequest, CodeRequestTooLarge))
			return nil, false
		}
		writeError(w, NewErrorResponse("failed to read request body", ErrorTypeInvalidRequest, CodeInvalidValue))
		return nil, false
	}

	var req ExpressionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, NewErrorResponse("request body is not valid JSON", ErrorTypeInvalidRequest, CodeInvalidJSON))
		return nil, false
	}
	if strings.TrimSpace(req.Expression) == "" {
		writeError(w, NewErrorResponse("'expression' is required", ErrorTypeInvalidRequest, CodeMissingField))
		return nil, false
	}
	if h.maxExpressionBytes > 0 && len(req.Expression) > h.maxExpressionBytes {
		writeError(w, NewErrorResponse(
			fmt.Sprintf("expression exceeds %d bytes", h.maxExpressionBytes),
			ErrorTypeInvalidRequest, CodeRequestTooLarge))
		return nil, false
	}
	return &req, true
}

func (h *handlers) newRecord(ctx context.Context, operation, input string) *history.Record {
	record := history.NewRecord(operation, input)
	record.RequestID = logging.GetRequestID(ctx)
	return record
}

func (h *handlers) record(ctx context.Context, record *history.Record) {
	if h.recorder == nil {
		return
	}
	if err := h.recorder.Record(ctx, record); err != nil {
		h.logger.WarnContext(ctx, "failed to record history", "record_id", record.ID, "error", err)
	}
}

func parseHistoryQuery(r *http.Request) (*history.Query, error) {
	values := r.URL.Query()
	q := &history.Query{Operation: values.Get("operation")}

	if q.Operation != "" && q.Operation != engine.OperationEvaluate && q.Operation != engine.OperationRewrite {
		return nil, fmt.Errorf("operation must be %q or %q", engine.OperationEvaluate, engine.OperationRewrite)
	}
	if v := values.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("limit must be a positive integer")
		}
		q.Limit = n
	}
	if v := values.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("offset must be a non-negative integer")
		}
		q.Offset = n
	}
	if v := values.Get("failed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("failed must be a boolean")
		}
		q.FailedOnly = b
	}
	return q, nil
}

// errorFor maps engine errors to API errors.
func errorFor(err error) *ErrorResponse {
	var exprErr *exprerrors.Error
	if errors.As(err, &exprErr) {
		resp := NewErrorResponse(exprErr.Message, ErrorTypeExpression, string(exprErr.Type))
		if exprErr.Source != "" {
			column := exprErr.Column
			resp.Error.Column = &column
		}
		resp.Error.Suggestion = exprErr.Suggestion
		return resp
	}

	if errors.Is(err, engine.ErrNonConvergent) {
		return NewErrorResponse(err.Error(), ErrorTypeRewrite, CodeNonConvergent)
	}

	return NewErrorResponse("An internal error occurred. Please try again later.", ErrorTypeServerError, CodeInternalError)
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, NewErrorResponse(
		fmt.Sprintf("method %s not allowed", r.Method),
		ErrorTypeInvalidRequest, CodeMethodNotAllowed))
	return false
}

func writeError(w http.ResponseWriter, resp *ErrorResponse) {
	writeJSON(w, resp.Error.HTTPStatusCode(), resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
