// Package logger defines the structured logging interface used across
// go-zebra and a slog-backed default implementation.
//
// The engine logs through the [Logger] interface only, so applications can
// plug in their own logging framework by wrapping it in this interface and
// passing it via the connection configuration.
package logger

// Level indicates the logging severity level.
type Level = int8

// Severity levels, ordered from most to least verbose.
const (
	// DebugLevel logs are voluminous and usually disabled in production.
	DebugLevel Level = iota - 1
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel logs flag potential issues that need no individual review.
	WarnLevel
	// ErrorLevel logs are high-priority failures.
	ErrorLevel
	// FatalLevel logs a message and then terminates the process.
	FatalLevel
)

// Logger is the leveled, structured logging interface the engine logs
// through. Every method accepts a message followed by alternating key-value
// pairs, which implementations render together with any context accumulated
// via With.
type Logger interface {
	// Debug logs a message at DebugLevel.
	Debug(msg string, keysAndValues ...any)
	// Info logs a message at InfoLevel.
	Info(msg string, keysAndValues ...any)
	// Warn logs a message at WarnLevel.
	Warn(msg string, keysAndValues ...any)
	// Error logs a message at ErrorLevel.
	Error(msg string, keysAndValues ...any)
	// Fatal logs a message at FatalLevel and then calls os.Exit(1), even if
	// logging at FatalLevel is disabled.
	Fatal(msg string, keysAndValues ...any)

	// With returns a child logger with the given key-value pairs added to its
	// context. The child and parent do not affect each other.
	With(keyValues ...any) Logger

	// Level returns the minimum enabled level.
	Level() Level
	// SetLevel sets the minimum enabled level.
	SetLevel(level Level)
}
