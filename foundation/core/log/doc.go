// Package log provides structured logging for the nclpost reader.
//
// Package: log
// Title: nclpost Structured Logging
// Description: Leveled, field-based logging with JSON and text output. Every
//              component of the NCL pipeline obtains a child logger carrying a
//              "component" field; parse sessions add their session id and the
//              source they are reading.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation for the NCL reader
//
// Usage:
//
//	logger := log.New().
//		WithLevel(log.LevelDebug).
//		WithFormat(log.FormatText).
//		WithField("component", "ncl-reader")
//
//	logger.Info("NCL file parsed", log.Fields{
//		"lines":  120,
//		"errors": 2,
//	})
//	logger.ErrorWithErr("cannot open NCL file", err)
//
//	timer := logger.StartTimer("read")
//	// ... parse
//	timer.Stop()
package log
