package logger

import (
	"sync"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	// globalLogger holds the singleton logger instance.
	globalLogger *Logger
	once         sync.Once
)

// Get returns a singleton logger configured with the provided level,
// writing to stderr. The first call initializes the logger; subsequent
// calls ignore the level and return the already initialized instance.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level)
	})
	return globalLogger
}

// GetFile returns the singleton logger writing to the given file instead
// of stderr. Used by the terminal UI, which owns stdout/stderr while it
// runs. First initialization wins, same as Get.
func GetFile(level, path string) *Logger {
	once.Do(func() {
		globalLogger = newFileLogger(level, path)
	})
	return globalLogger
}
