package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds the process logger and installs it as the global zerolog logger.
// dev gets a human readable console writer at debug level; everything else
// gets JSON at info.
func New(env string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var l zerolog.Logger
	if env == "dev" {
		out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		l = zerolog.New(out).Level(zerolog.DebugLevel)
	} else {
		l = zerolog.New(os.Stdout).Level(zerolog.InfoLevel)
	}

	l = l.With().Timestamp().Caller().Str("service", "stackit").Logger()
	log.Logger = l
	return l
}

// Nop is a disabled logger for tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
