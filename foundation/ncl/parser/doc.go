// File: doc.go
// Title: NCL Parser Package Documentation
// Description: Line normalisation and command classification for NCL
//              command streams.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial parser implementation

/*
Package parser turns raw NCL text into classified commands.

It has two stages:

  - the normaliser (SplitLines, JoinContinuations, SplitComment) produces one
    logical line per command: physical lines ending in "$" are joined with
    the next one and everything after the first "$$" is a comment;
  - the Classifier maps one logical line to exactly one ast.Command using an
    ordered, first-match-wins rule table.

The rule order is fixed:

	 1  PARTNO/text              global
	 2  MACHIN/postproc, machine global
	 3  UNITS/mm|inch            global, any other word is rejected
	 4  LOADTL/n                 load tool
	 5  SPINDL/RPM, n            spindle on
	 6  SPINDL/OFF               spindle off
	 7  RAPID                    rapid mode
	 8  FINI                     end of program
	 9  GOTO/x, y, z             linear move
	10  CIRCLE/x, y, z, i, j, k, r
	11  FEDRAT/n, unit
	12  CYCLE/DRILL, args
	13  CYCLE/DEEP, args
	14  CYCLE/OFF
	    registered feature markers
	    empty line               blank
	    anything else            unknown

A rule whose pattern matches but whose payload does not convert (wrong number
of coordinates, unparsable number) falls through to the next rule. Only the
UNITS rule rejects a line outright. Rejected and unmatched lines become
*ast.Unknown and are reported once to the LogSink.
*/
package parser
