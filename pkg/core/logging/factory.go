// ============================================================================
// nclpost - NCL post-processor command stream reader
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating Foundation loggers from config
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"

	mdwlog "github.com/msto63/nclpost/foundation/core/log"
	"github.com/msto63/nclpost/pkg/core/config"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service name
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format
	Format string // "json" or "text" (default: text)

	// Output writer (default: stderr)
	Output io.Writer

	// Additional outputs (besides Output)
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "text",
	}
}

// NewLogger creates a new Foundation logger
func NewLogger(cfg LoggerConfig) *mdwlog.Logger {
	// Build output writer
	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}

	// Add additional outputs if specified
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	// Determine format
	format := mdwlog.FormatText
	if cfg.Format == "json" {
		format = mdwlog.FormatJSON
	}

	return mdwlog.NewWithConfig(mdwlog.Config{
		Level:  parseLevel(cfg.Level),
		Format: format,
		Output: output,
		Name:   cfg.ServiceName,
	})
}

// FromConfig creates the application logger from the [general] section.
// verbose lowers the level to debug; an explicit format overrides the file.
func FromConfig(cfg *config.Config, verbose bool, format string, output io.Writer) *mdwlog.Logger {
	lc := DefaultLoggerConfig(cfg.General.Name)
	lc.Level = cfg.General.LogLevel
	lc.Format = cfg.General.LogFormat
	lc.Output = output
	if verbose && parseLevel(lc.Level) > mdwlog.LevelDebug {
		lc.Level = "debug"
	}
	if format != "" {
		lc.Format = format
	}
	return NewLogger(lc)
}

// parseLevel converts a string level to mdwlog.Level, defaulting to info
func parseLevel(level string) mdwlog.Level {
	parsed, err := mdwlog.ParseLevel(level)
	if err != nil {
		return mdwlog.LevelInfo
	}
	return parsed
}
