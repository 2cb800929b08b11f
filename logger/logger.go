// Package logger provides the logging abstraction used by go-bk390a.
//
// Every component accepts a Logger through its options, so applications can plug
// in their preferred logging framework. The default implementation is backed by
// log/slog and writes either JSON records or a colored console format.
//
// Log Levels:
//
//   - DebugLevel:  per-frame detail such as raw frame hex dumps.
//   - InfoLevel:  startup and shutdown messages.
//   - WarnLevel:  recoverable problems, e.g. undecodable frames.
//   - ErrorLevel:  errors that require attention.
//   - FatalLevel:  startup failures that terminate the program.
package logger

// Level indicates the logging severity level.
type Level = int8

const (
	// DebugLevel logs are typically voluminous, and are usually disabled in production.
	DebugLevel Level = iota - 1
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel logs are more important than Info, but don't need individual
	// human review.
	WarnLevel
	// ErrorLevel logs are high-priority. If the meter is running smoothly,
	// it shouldn't generate any error-level logs.
	ErrorLevel
	// FatalLevel logs a message, then calls os.Exit(1).
	FatalLevel
)

// LevelFromFlags maps the command line verbosity switches to a level.
// debug wins over quiet when both are set.
func LevelFromFlags(debug bool, quiet bool) Level {
	switch {
	case debug:
		return DebugLevel
	case quiet:
		return WarnLevel
	default:
		return InfoLevel
	}
}

// Logger defines a common interface for logging.
type Logger interface {
	// Debug logs a message at DebugLevel.
	Debug(msg string, keysAndValues ...any)
	// Info logs a message at InfoLevel.
	Info(msg string, keysAndValues ...any)
	// Warn logs a message at WarnLevel.
	Warn(msg string, keysAndValues ...any)
	// Error logs a message at ErrorLevel.
	Error(msg string, keysAndValues ...any)
	// Fatal logs a message at FatalLevel, then calls os.Exit(1).
	Fatal(msg string, keysAndValues ...any)
	// With creates a child logger and adds structured context to it.
	// Key-values added to the child don't affect the parent, and vice versa.
	With(keyValues ...any) Logger
	// Level returns the minimum enabled level for this logger.
	Level() Level
	// SetLevel sets the minimum enabled level for this logger.
	SetLevel(level Level)
}
