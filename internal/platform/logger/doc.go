// Package logger provides structured logging for the application.
//
// It configures a log/slog JSON handler with a configurable level and carries
// request-scoped loggers through context.Context, so that fields such as
// trace_id or user_id attached near the edge appear on every record written
// further down the call stack.
package logger
