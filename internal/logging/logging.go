package logging

import (
	"io"
	"os"

	"blackjack-casino/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var writer io.Writer = os.Stdout

// Init configures the global zerolog logger. Call once at process start,
// before anything logs.
func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil && cfg.Level != "" {
		level = parsed
	}
	zerolog.SetGlobalLevel(level)

	writer = os.Stdout
	if cfg.File != "" {
		if w, err := newSizeLimitedWriter(cfg.File, cfg.MaxMB); err == nil {
			writer = w
		} else {
			log.Warn().Err(err).Str("path", cfg.File).Msg("log file unavailable, using stdout")
		}
	}

	output := writer
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: writer}
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// Writer is the sink shared with the HTTP request logger.
func Writer() io.Writer {
	return writer
}
