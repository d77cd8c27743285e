// Package logger provides the process-wide structured logger.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a zerolog logger at the given level. Pretty switches to the
// console writer for local development.
func New(level string, pretty bool) zerolog.Logger {
	lvl := zerolog.InfoLevel
	switch level {
	case "debug":
		lvl = zerolog.DebugLevel
	case "info":
		lvl = zerolog.InfoLevel
	case "warn":
		lvl = zerolog.WarnLevel
	case "error":
		lvl = zerolog.ErrorLevel
	}

	var out = os.Stdout
	if pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
			Level(lvl).With().Timestamp().Str("service", "marketchat").Logger()
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Str("service", "marketchat").Logger()
}
