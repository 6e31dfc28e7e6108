// File: sequence.go
// Title: NCL Sequence Segmenter
// Description: Groups a classified command stream into sequences started by
//              feature markers and truncates sequences to a move budget.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

// Package sequence splits NCL command streams into feature sequences.
package sequence

import (
	"github.com/msto63/nclpost/foundation/ncl/ast"
)

// MarkerFunc decides whether cmd starts a new sequence and, if so, returns
// the feature number and an optional name for it.
type MarkerFunc func(cmd ast.Command) (feature, name string, ok bool)

// DefaultMarker recognises *ast.FeatureMarker commands
func DefaultMarker(cmd ast.Command) (feature, name string, ok bool) {
	m, ok := cmd.(*ast.FeatureMarker)
	if !ok {
		return "", "", false
	}
	return m.FeatureNumber, m.Name, true
}

// Segment partitions cmds into sequences. Each marker closes the open
// sequence and opens a new one that includes the marker line itself.
// Commands before the first marker belong to no sequence. A nil marker
// means DefaultMarker.
func Segment(cmds []ast.Command, marker MarkerFunc) []*ast.Sequence {
	if marker == nil {
		marker = DefaultMarker
	}

	var (
		result  []*ast.Sequence
		current *ast.Sequence
	)
	for _, cmd := range cmds {
		if feature, name, ok := marker(cmd); ok {
			if current != nil {
				result = append(result, current)
			}
			current = &ast.Sequence{FeatureNumber: &feature}
			if name != "" {
				current.Name = &name
			}
		}
		if current == nil {
			continue
		}
		current.Lines = append(current.Lines, cmd)
		if cmd.Kind() == ast.KindLoadTool {
			current.HasToolCall = true
		}
	}
	if current != nil {
		result = append(result, current)
	}
	return result
}

// Cut drops the first GOTO that exceeds maxGotoCount and everything after
// it. It returns the number of removed commands. A negative limit counts as
// zero.
func Cut(seq *ast.Sequence, maxGotoCount int) int {
	if seq == nil {
		return 0
	}
	if maxGotoCount < 0 {
		maxGotoCount = 0
	}

	gotoCount := 0
	for i, cmd := range seq.Lines {
		if cmd.Kind() != ast.KindGoto {
			continue
		}
		gotoCount++
		if gotoCount > maxGotoCount {
			removed := len(seq.Lines) - i
			seq.Lines = seq.Lines[:i:i]
			seq.UpdateToolCall()
			return removed
		}
	}
	return 0
}

// CutAll applies Cut to every sequence and returns the total removed
func CutAll(seqs []*ast.Sequence, maxGotoCount int) int {
	total := 0
	for _, s := range seqs {
		total += Cut(s, maxGotoCount)
	}
	return total
}
