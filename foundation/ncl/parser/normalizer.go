// File: normalizer.go
// Title: NCL Line Normalizer
// Description: Splits text into physical lines, joins "$" continuation
//              lines into logical lines and separates "$$" comments.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package parser

import (
	"strings"
	"unicode"
)

const (
	continuationMarker = "$"
	commentMarker      = "$$"
)

// trimFragment removes the trailing run of "$" and whitespace from one
// fragment of a logical line
func trimFragment(s string) string {
	return strings.TrimRightFunc(s, func(r rune) bool {
		return r == '$' || unicode.IsSpace(r)
	})
}

// SplitLines splits text at "\n", "\r\n" and "\r". A terminator at the very
// end does not produce an extra empty line; empty text yields no lines.
func SplitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

// JoinContinuations joins every line whose right-trimmed form ends in "$"
// with the following line. Each fragment loses its trailing "$"/whitespace run,
// continued fragments also lose leading whitespace, and fragments are joined
// by one space. A continuation on the last line ends the logical line.
func JoinContinuations(lines []string) []string {
	joined := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		sum := trimFragment(lines[i])
		for isContinued(lines[i]) && i+1 < len(lines) {
			i++
			next := strings.TrimLeftFunc(lines[i], unicode.IsSpace)
			sum += " " + trimFragment(next)
		}
		joined = append(joined, sum)
	}
	return joined
}

func isContinued(line string) bool {
	return strings.HasSuffix(strings.TrimRightFunc(line, unicode.IsSpace), continuationMarker)
}

// SplitComment splits a logical line at the first "$$". The command part is
// trimmed, the comment is returned as written.
func SplitComment(line string) (command, comment string) {
	if i := strings.Index(line, commentMarker); i >= 0 {
		comment = line[i+len(commentMarker):]
		line = line[:i]
	}
	return strings.TrimSpace(line), comment
}
