package commands

import (
	"io"

	"github.com/rs/zerolog"
)

// ZerologAdapter exposes a zerolog logger through the sapi.Logger interface.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter creates a console-format adapter writing to w.
func NewZerologAdapter(w io.Writer) *ZerologAdapter {
	writer := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}

	return &ZerologAdapter{
		logger: zerolog.New(writer).With().Timestamp().Logger(),
	}
}

// Debug logs at debug level.
func (a *ZerologAdapter) Debug(msg string, fields map[string]interface{}) {
	a.logger.Debug().Fields(fields).Msg(msg)
}

// Info logs at info level.
func (a *ZerologAdapter) Info(msg string, fields map[string]interface{}) {
	a.logger.Info().Fields(fields).Msg(msg)
}

// Warn logs at warn level.
func (a *ZerologAdapter) Warn(msg string, fields map[string]interface{}) {
	a.logger.Warn().Fields(fields).Msg(msg)
}

// Error logs at error level.
func (a *ZerologAdapter) Error(msg string, fields map[string]interface{}) {
	a.logger.Error().Fields(fields).Msg(msg)
}
