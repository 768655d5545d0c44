// Package logger builds the zerolog logger the binaries hand down to every
// component. There is no package-level instance: the caller constructs one
// and passes it explicitly, the same way the store is passed.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger construction.
type Options struct {
	// Level is the minimum level: trace, debug, info, warn, error.
	// Empty or unrecognised means info.
	Level string
	// Pretty switches from JSON to coloured console output.
	Pretty bool
	// Output defaults to os.Stderr, keeping stdout free for command output.
	Output io.Writer
}

// Init constructs a logger from the given options.
func Init(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).
		Level(parseLevel(opts.Level)).
		With().
		Timestamp().
		Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
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
