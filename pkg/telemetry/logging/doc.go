// Package logging provides structured logging on top of log/slog.
//
// Records are written as JSON or text. The request id, rule and operation
// stored in a context with WithRequestID, WithRule and WithOperation are
// added to every record logged through a *Context method, including those
// made on the *slog.Logger returned by Logger.Slog:
//
//	logger, _ := logging.New(logging.Config{Level: "info", Format: "json"})
//	ctx := logging.WithRequestID(ctx, id)
//	logger.Slog().InfoContext(ctx, "expression rewritten", "rewrites", n)
package logging
