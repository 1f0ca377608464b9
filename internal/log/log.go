// Package log holds the process-wide zerolog logger. Until Init is called
// every event is discarded, so packages can log unconditionally.
package log

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger     = zerolog.Nop()
	loggerLock sync.RWMutex
)

// Init routes log output to w at the given level. A console writer is used
// when pretty is set.
func Init(w io.Writer, level string, pretty bool) {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: true}
	}
	l := zerolog.New(w).
		Level(parseLogLevel(level)).
		With().
		Timestamp().
		Logger()

	loggerLock.Lock()
	logger = l
	loggerLock.Unlock()
}

// SetLevel sets the global log level at runtime
func SetLevel(levelStr string) {
	loggerLock.Lock()
	logger = logger.Level(parseLogLevel(levelStr))
	loggerLock.Unlock()
}

func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func current() *zerolog.Logger {
	loggerLock.RLock()
	l := logger
	loggerLock.RUnlock()
	return &l
}

func Debug() *zerolog.Event { return current().Debug() }
func Info() *zerolog.Event  { return current().Info() }
func Warn() *zerolog.Event  { return current().Warn() }
func Error() *zerolog.Event { return current().Error() }

// Logger returns the underlying zerolog.Logger for integrations
func Logger() zerolog.Logger {
	return *current()
}
