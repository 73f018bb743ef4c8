// Package logging is the structured logger shared by the server packages.
// SlogLogger is the only implementation; tests use NewDiscardLogger.
package logging

import "context"

// Logger takes a message plus alternating key/value args:
//
//	log.Debug(ctx, "session refreshed", "user_id", id, "expires", exp)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that adds args to every record.
	With(args ...any) Logger
}

// ForModule tags every record of l with module=name.
func ForModule(l Logger, name string) Logger {
	return l.With("module", name)
}
