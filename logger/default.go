package logger

// The package-level functions log through a process-wide default logger so
// code without an injected Logger still has somewhere to write.
var defaultLogger = NewSlog(InfoLevel, false)

// GetLogger returns the process-wide default logger.
func GetLogger() Logger {
	return defaultLogger
}

// SetLevel sets the minimum enabled level of the default logger.
func SetLevel(level Level) {
	defaultLogger.SetLevel(level)
}

// With returns a child of the default logger carrying the given context.
func With(keyValues ...any) Logger {
	return defaultLogger.With(keyValues...)
}

func Debug(msg string, keysAndValues ...any) {
	defaultLogger.Debug(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any) {
	defaultLogger.Info(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	defaultLogger.Warn(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	defaultLogger.Error(msg, keysAndValues...)
}

func Fatal(msg string, keysAndValues ...any) {
	defaultLogger.Fatal(msg, keysAndValues...)
}
