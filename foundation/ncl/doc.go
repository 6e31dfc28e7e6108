// File: doc.go
// Title: NCL Reader Package Documentation
// Description: Entry point for reading NCL command streams.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

/*
Package ncl reads NCL (APT/ACL post-processor) command streams.

A Session owns the global part/machine/unit state, the flat list of
classified commands and the error count of one input:

	s, err := ncl.NewSession(ncl.Options{Sink: parser.LoggerSink(logger)})
	if err != nil {
		return err
	}
	if err := s.ReadFile("part.ncl"); err != nil {
		return err
	}
	for _, seq := range s.Sequences(500) {
		...
	}

Lines that cannot be classified never fail a read. They become
*ast.Unknown, are counted by ErrorCount and are reported once to the sink.
Only failures of the input itself (missing file, read error) are returned
as errors.

A Session is not safe for concurrent use. Parse independent inputs with one
Session each.
*/
package ncl
