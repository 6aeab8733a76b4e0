// Package logger configures the process-wide structured logger for
// StockPulse.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controls verbosity and output format.
type Config struct {
	Level  string // debug, info, warn, error
	Pretty bool   // human-readable console output for dev mode
}

// New builds the root logger. The level is set on the logger itself rather
// than globally, so tests can run loggers at different levels side by side.
// Pretty mode writes colorized console lines with wall-clock timestamps;
// otherwise output is JSON with RFC3339 timestamps.
func New(cfg Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stdout
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(out).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("app", "stockpulse").
		Logger()
}

// parseLevel maps a configured level name to a zerolog level. Unknown or
// empty names fall back to info.
func parseLevel(name string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetGlobalLogger routes zerolog's package-level logger through l, so any
// stray log.Info() calls end up in the same sink.
func SetGlobalLogger(l zerolog.Logger) {
	log.Logger = l
}
