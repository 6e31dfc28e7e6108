// File: sink.go
// Title: Classification Event Sink
// Description: The callback through which the classifier reports rejected
//              lines, and its adapter onto the structured logger.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package parser

import (
	"fmt"

	mdwerror "github.com/msto63/nclpost/foundation/core/error"
	mdwlog "github.com/msto63/nclpost/foundation/core/log"
)

// Event describes one rejected line
type Event struct {
	Severity mdwlog.Level
	Line     int
	Raw      string
	Code     mdwerror.Code
	Message  string
}

// String renders the event the way it appears in plain logs
func (e Event) String() string {
	return fmt.Sprintf("%s (%d): %s", e.Message, e.Line, e.Raw)
}

// LogSink receives classification events. A nil sink drops them.
type LogSink func(Event)

// LoggerSink forwards events to logger at the event's severity
func LoggerSink(logger *mdwlog.Logger) LogSink {
	if logger == nil {
		return nil
	}
	return func(e Event) {
		logger.Log(e.Severity, e.Message, mdwlog.Fields{
			"line": e.Line,
			"raw":  e.Raw,
			"code": e.Code.String(),
		})
	}
}

// Collector is a LogSink target that keeps every event
type Collector struct {
	Events []Event
}

// Sink returns the collecting LogSink
func (c *Collector) Sink() LogSink {
	return func(e Event) {
		c.Events = append(c.Events, e)
	}
}
