// Package logger configures structured JSON logging on top of log/slog,
// with level selection from config and helpers for attaching
// request-scoped loggers (trace ID correlation) to a context.
package logger
