// Package log configures the process-wide slog logger. Standard output
// belongs to the host, so records only ever go to a rotating file.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	initOnce    sync.Once
	initialized atomic.Bool
)

// Setup installs the default logger. Without debug every record is
// discarded; with debug, JSON records go to logFile.
func Setup(logFile string, debug bool) {
	initOnce.Do(func() {
		if !debug || logFile == "" {
			slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
			return
		}

		_ = os.MkdirAll(filepath.Dir(logFile), 0o755)

		logRotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    5, // MB
			MaxBackups: 1,
			MaxAge:     14, // days
		}

		handler := slog.NewJSONHandler(logRotator, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		})

		slog.SetDefault(slog.New(handler).With("pid", os.Getpid()))
		initialized.Store(true)
	})
}

// Initialized reports whether file logging is active.
func Initialized() bool {
	return initialized.Load()
}

// RecoverPanic logs a panic with its stack and runs fallback. It must be
// called directly by a deferred statement.
func RecoverPanic(name string, fallback func()) {
	if r := recover(); r != nil {
		slog.Error("panic recovered",
			"where", name,
			"panic", fmt.Sprint(r),
			"stack", string(debug.Stack()),
		)
		if fallback != nil {
			fallback()
		}
	}
}
