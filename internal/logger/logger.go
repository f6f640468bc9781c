// Package logger configures the zerolog logger shared by all Echoes
// services.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates the root logger. Debug mode lowers the level filter; output
// goes to stderr so CLI results on stdout stay clean and pipeable.
func New(debug bool) zerolog.Logger {
	return NewWithWriter(os.Stderr, debug)
}

// NewWithWriter creates a root logger writing to w. Used by tests.
func NewWithWriter(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.DateTime,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
