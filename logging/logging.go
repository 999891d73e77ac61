// Package logging provides structured, leveled logging built on zerolog.
//
// Output goes to a human-readable console writer on stderr so that log
// lines never mix with version strings printed on stdout. Packages obtain
// a scoped logger once at init time via GetPackageLogger; the logger
// resolves the active backend on every call, so levels configured after
// flag parsing apply to loggers created before it.
//
// Example:
//
//	var logger = logging.GetPackageLogger("bumpfile")
//
//	func Load(data []byte) (*File, error) {
//		logger.Debug().Int("bytes", len(data)).Msg("loading bumpfile")
//		...
//	}
package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/valentin-kaiser/go-bump/flag"
)

var (
	mu   sync.RWMutex
	root = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger().
		Level(zerolog.WarnLevel)
)

// Logger is a package-scoped handle that resolves the active backend on
// every call. It is safe for concurrent use.
type Logger struct {
	pkg string
}

// GetPackageLogger returns a logger that tags every event with the
// package name
func GetPackageLogger(pkg string) *Logger {
	return &Logger{pkg: pkg}
}

// Setup applies the parsed command-line flags to the logging backend.
// It should be called once after flag parsing, before any work is done.
func Setup() {
	if flag.Debug {
		SetLevel(zerolog.DebugLevel)
	}
}

// SetLevel changes the level of the active backend
func SetLevel(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	root = root.Level(level)
}

// SetOutput redirects log output, primarily for tests
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	root = root.Output(w)
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// Trace returns a trace level event tagged with the package name
func (l *Logger) Trace() *zerolog.Event {
	backend := current()
	return backend.Trace().Str("package", l.pkg)
}

// Debug returns a debug level event tagged with the package name
func (l *Logger) Debug() *zerolog.Event {
	backend := current()
	return backend.Debug().Str("package", l.pkg)
}

// Info returns an info level event tagged with the package name
func (l *Logger) Info() *zerolog.Event {
	backend := current()
	return backend.Info().Str("package", l.pkg)
}

// Warn returns a warning level event tagged with the package name
func (l *Logger) Warn() *zerolog.Event {
	backend := current()
	return backend.Warn().Str("package", l.pkg)
}

// Error returns an error level event tagged with the package name
func (l *Logger) Error() *zerolog.Event {
	backend := current()
	return backend.Error().Str("package", l.pkg)
}
