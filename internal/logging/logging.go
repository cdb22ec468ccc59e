package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates the application logger. DEV environments get the
// human-readable console writer, everything else gets JSON.
func NewLogger(appName, env string) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("app", appName).
		Logger()

	if env == "DEV" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	return logger
}

// WithComponent returns a sub-logger tagged with a component name
func WithComponent(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}
