package logging

import (
	"context"
	"log/slog"
	"os"
)

// ContextKey is the type for context keys carrying request-scoped fields.
type ContextKey string

const (
	// RequestIDKey carries the HTTP request ID.
	RequestIDKey ContextKey = "request_id"
	// ActorIDKey carries the acting user or system.
	ActorIDKey ContextKey = "actor_id"
)

// Logger wraps slog.Logger. Records logged through the Context variants
// (InfoContext and friends) are stamped with the request ID and actor
// carried in the context, anywhere in the call tree.
type Logger struct {
	*slog.Logger
}

// New creates a structured logger writing to stdout in the given format.
func New(level slog.Level, format string) *Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(contextHandler{handler})}
}

// ParseLevel parses a log level string, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// contextHandler decorates every record with the request-scoped fields found
// in the context before delegating to the wrapped handler.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		rec.AddAttrs(slog.String("request_id", requestID))
	}
	if actorID, ok := ctx.Value(ActorIDKey).(string); ok && actorID != "" {
		rec.AddAttrs(slog.String("actor_id", actorID))
	}
	return h.Handler.Handle(ctx, rec)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}
