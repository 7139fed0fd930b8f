// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// LevelFor maps the repeatable -v counter onto a log level.
//
//	0  errors only
//	1  progress and warnings
//	2+ per-page debug output
func LevelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.ErrorLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

// Setup creates a human-readable logger writing to out at the level chosen by verbosity.
// It does not touch zerolog's global state; callers pass the logger down explicitly.
// Writes to out are serialized, so out need not be safe for concurrent use.
func Setup(verbosity int, out io.Writer) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        zerolog.SyncWriter(out),
		TimeFormat: time.TimeOnly,
		NoColor:    true,
	}
	return zerolog.New(output).
		Level(LevelFor(verbosity)).
		With().
		Timestamp().
		Logger()
}

// NewLogger derives a logger tagged with the given component name.
func NewLogger(base zerolog.Logger, component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}
