package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the application logger. Outside production the output is the
// human-readable console writer; in production it stays plain JSON.
func New(appEnv string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if appEnv == "production" {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
	}
	return zerolog.New(output).With().Timestamp().Logger()
}
