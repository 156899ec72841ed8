package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// New builds the process logger. Console format is for local development;
// production runs emit JSON. Caller info is only attached at debug level
// since it costs a runtime.Caller per event.
func New(cfg Config) zerolog.Logger {
	var output io.Writer = os.Stdout

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	logCtx := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("service", "pawnbook")

	if level == zerolog.DebugLevel {
		logCtx = logCtx.Caller()
	}

	return logCtx.Logger()
}
