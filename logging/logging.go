// Package logging provides the module's single logging entry point. It is a
// thin shim over log/slog: new code can inject *slog.Logger directly, and
// call sites that can't (the calibration package, the tokcount CLI) use
// Get/Set against a process-wide singleton.
package logging

import (
	"log/slog"
	"os"
	"sync/atomic"
)

var singleton atomic.Pointer[slog.Logger]

func init() {
	singleton.Store(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// Get returns the current singleton logger.
func Get() *slog.Logger {
	return singleton.Load()
}

// Set replaces the singleton logger. Intended for tests capturing output
// and for cmd/tokcount wiring a leveled handler from flags.
func Set(l *slog.Logger) {
	singleton.Store(l)
}

// Warnw logs at warn level with key-value pairs.
func Warnw(msg string, keysAndValues ...any) {
	Get().Warn(msg, keysAndValues...)
}

// Infow logs at info level with key-value pairs.
func Infow(msg string, keysAndValues ...any) {
	Get().Info(msg, keysAndValues...)
}

// Errorw logs at error level with key-value pairs.
func Errorw(msg string, keysAndValues ...any) {
	Get().Error(msg, keysAndValues...)
}
