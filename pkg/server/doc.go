// Package server exposes the expression engine over HTTP.
//
// # Endpoints
//
//	POST /v1/evaluate      {"expression": "x + x * 0"}  -> canonical form
//	POST /v1/rewrite       {"expression": "x + 0"}      -> active rule set applied
//	GET  /v1/functions     registered functions
//	GET  /v1/history       recent evaluations (?limit=&offset=&operation=&failed=)
//	GET  /v1/history/{id}  one evaluation
//	GET  /health           liveness
//	GET  /ready            readiness
//	GET  /metrics          Prometheus metrics
//
// Expression errors are answered with 400 and carry the 0-based column of
// the offending token:
//
//	{"error": {"message": "unexpected end of input", "type": "expression_error",
//	           "code": "syntax", "column": 3}}
//
// A rewrite that does not converge is answered with 422.
//
// # Middleware
//
// Requests pass through recovery, request ID, tracing, logging and body
// size limiting, outermost first. The request ID is taken from X-Request-ID when
// the client sends one and is otherwise a new UUID.
//
// # Usage
//
//	eng, _ := engine.NewEngine(nil, logger)
//	srv := server.NewServer(&cfg.Server, eng, server.Dependencies{
//	    History:  store,
//	    Recorder: history.NewRecorder(store, nil),
//	    Metrics:  collector,
//	    Logger:   logger,
//	})
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Start blocks until ctx is cancelled and then shuts down gracefully.
package server
