// File: state.go
// Title: Global State and Sequences
// Description: Part/machine/unit globals accumulated during a parse and the
//              sequence grouping produced by the segmenter.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package ast

// Globals is mutated by PARTNO, MACHIN and UNITS during one session
type Globals struct {
	PartNo    *string `json:"part_no,omitempty" yaml:"part_no,omitempty"`
	PostProc  *string `json:"post_proc,omitempty" yaml:"post_proc,omitempty"`
	MachineNo *string `json:"machine_no,omitempty" yaml:"machine_no,omitempty"`
	Units     Unit    `json:"units" yaml:"units"`
}

// NewGlobals returns globals with Units set to MM
func NewGlobals() *Globals {
	return &Globals{Units: MM}
}

// Sequence is the run of commands between two feature markers
type Sequence struct {
	Name          *string
	FeatureNumber *string
	HasToolCall   bool
	Lines         []Command
}

// Len returns the number of commands in the sequence
func (s *Sequence) Len() int {
	return len(s.Lines)
}

// GotoCount returns the number of linear moves in the sequence
func (s *Sequence) GotoCount() int {
	n := 0
	for _, c := range s.Lines {
		if c.Kind() == KindGoto {
			n++
		}
	}
	return n
}

// UpdateToolCall recomputes HasToolCall from the current lines
func (s *Sequence) UpdateToolCall() {
	s.HasToolCall = false
	for _, c := range s.Lines {
		if c.Kind() == KindLoadTool {
			s.HasToolCall = true
			return
		}
	}
}
