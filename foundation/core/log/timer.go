// File: timer.go
// Title: Operation Timer
// Description: Measures the duration of an operation and logs it on Stop.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package log

import (
	"time"
)

// Timer measures and logs the duration of an operation
type Timer struct {
	logger    *Logger
	operation string
	level     Level
	fields    Fields
	start     time.Time
	stopped   bool
}

// NewTimer creates and starts a new timer
func NewTimer(logger *Logger, operation string) *Timer {
	return &Timer{
		logger:    logger,
		operation: operation,
		level:     LevelDebug,
		fields:    make(Fields),
		start:     time.Now(),
	}
}

// WithLevel sets the level the timer logs at
func (t *Timer) WithLevel(level Level) *Timer {
	t.level = level
	return t
}

// WithFields adds fields to the final timer entry
func (t *Timer) WithFields(fields Fields) *Timer {
	for k, v := range fields {
		t.fields[k] = v
	}
	return t
}

// Elapsed returns the time since the timer started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Stop logs the elapsed time once and returns it
func (t *Timer) Stop() time.Duration {
	elapsed := t.Elapsed()
	if t.stopped {
		return elapsed
	}
	t.stopped = true

	fields := t.fields.Clone()
	fields["operation"] = t.operation
	t.logger.log(t.level, "operation completed", nil, elapsed, fields)
	return elapsed
}
