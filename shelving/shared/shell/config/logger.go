package config

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// NewLogger creates a charmbracelet logger writing to w at the configured level.
func (c LogConfig) NewLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: log.level: %w", ErrInvalidConfig, err)
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		ReportCaller:    c.ReportCaller,
	}), nil
}

// NewSlogLogger puts the charmbracelet logger behind slog, which satisfies both logger
// interfaces the event store and the handlers take.
func (c LogConfig) NewSlogLogger(w io.Writer) (*slog.Logger, error) {
	logger, err := c.NewLogger(w)
	if err != nil {
		return nil, err
	}

	return slog.New(logger), nil
}
