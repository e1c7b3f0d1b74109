// Package logging builds the application's zerolog logger and adapts it to
// the lastfm.Logger interface.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps debug, info, warn and error to zerolog levels. Anything
// else is info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New creates a logger at the given level. With a log file the output is
// JSON appended to the file; otherwise it is console output on stderr.
// The returned closer releases the file and is never nil.
func New(logLevel, logFile string) (zerolog.Logger, io.Closer) {
	level := ParseLevel(logLevel)

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			return newLogger(f, level), f
		}
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return newLogger(console, level), io.NopCloser(nil)
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Adapter logs lastfm client debug output through zerolog.
type Adapter struct {
	logger zerolog.Logger
}

// NewAdapter tags every message with component=lastfm.
func NewAdapter(logger zerolog.Logger) *Adapter {
	return &Adapter{logger: logger.With().Str("component", "lastfm").Logger()}
}

// Debugf implements lastfm.Logger.
func (a *Adapter) Debugf(format string, args ...interface{}) {
	a.logger.Debug().Msgf(format, args...)
}
