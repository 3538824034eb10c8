package logger

import (
	"fmt"

	"github.com/dustin/partsrec/config"
	"github.com/dustin/partsrec/internal/layout"
	"github.com/rs/zerolog"
)

// DefaultName is the channel used when no name is configured
const DefaultName = "hardware_recognition"

// process-wide registry; sinks for a name are attached once per process
var defaultRegistry = NewRegistry()

type Logger struct {
	name   string
	logger zerolog.Logger
}

// NewLogger returns the named channel, attaching its console and daily file
// sinks on first use. Empty config values default to DefaultName and the
// logs directory of the default project layout.
func NewLogger(cfg *config.LoggingConfig) (*Logger, error) {
	var name, dir string
	if cfg != nil {
		name, dir = cfg.Name, cfg.Dir
	}

	if dir == "" {
		l, err := layout.New("")
		if err != nil {
			return nil, fmt.Errorf("failed to resolve log directory: %w", err)
		}
		dir = l.LogsDir()
	}

	return defaultRegistry.Logger(name, dir)
}

func (l *Logger) Name() string {
	return l.name
}

func (l *Logger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

func (l *Logger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

func (l *Logger) Warning(msg string) {
	l.logger.Warn().Msg(msg)
}

func (l *Logger) Error(msg string) {
	l.logger.Error().Msg(msg)
}

// Critical records at the highest severity without terminating the process
func (l *Logger) Critical(msg string) {
	l.logger.WithLevel(zerolog.FatalLevel).Msg(msg)
}
