// File: command.go
// Title: NCL Command Variants
// Description: Command interface, the shared base fields and one struct per
//              command variant. String forms are used by the CLI and tests.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial command variants

package ast

import (
	"fmt"
	"strconv"

	mdwerror "github.com/msto63/nclpost/foundation/core/error"
)

// Kind identifies the variant of a Command
type Kind int

const (
	KindUnknown Kind = iota
	KindGlobal
	KindBlank
	KindLoadTool
	KindSpindleRPM
	KindSpindleOff
	KindFeedRate
	KindRapid
	KindFini
	KindGoto
	KindCircle
	KindCycleDrill
	KindCycleDeep
	KindCycleOff
	KindFeature
)

var kindNames = [...]string{
	KindUnknown:    "unknown",
	KindGlobal:     "global",
	KindBlank:      "blank",
	KindLoadTool:   "loadtl",
	KindSpindleRPM: "spindle_rpm",
	KindSpindleOff: "spindle_off",
	KindFeedRate:   "fedrat",
	KindRapid:      "rapid",
	KindFini:       "fini",
	KindGoto:       "goto",
	KindCircle:     "circle",
	KindCycleDrill: "cycle_drill",
	KindCycleDeep:  "cycle_deep",
	KindCycleOff:   "cycle_off",
	KindFeature:    "feature",
}

// String returns the lower-case name of the kind
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind resolves a kind name as returned by Kind.String
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return KindUnknown, false
}

// Command is one classified logical line
type Command interface {
	// Kind returns the variant tag
	Kind() Kind

	// Base returns the fields every variant carries
	Base() *BaseCommand

	// String returns a compact, human readable form
	String() string
}

// BaseCommand holds the fields shared by all variants
type BaseCommand struct {
	LineNo  int    // 1-based logical line number
	RawLine string // logical line as read, comment included
	Comment string // text after the first "$$", verbatim
}

// Base returns the receiver; it makes every embedding struct satisfy Command
func (b *BaseCommand) Base() *BaseCommand { return b }

// Unknown is a line no rule accepted
type Unknown struct {
	BaseCommand
	Reason mdwerror.Code // CodeNCLSyntax or CodeNCLSemantic
}

// Global is a directive that only mutated the session globals
type Global struct {
	BaseCommand
	Directive string // PARTNO, MACHIN or UNITS
}

// Blank is an empty logical line
type Blank struct{ BaseCommand }

// LoadTool is a tool change
type LoadTool struct {
	BaseCommand
	ToolNo int
}

// SpindleRPM switches the spindle on
type SpindleRPM struct {
	BaseCommand
	RPM float64
}

// SpindleOff switches the spindle off
type SpindleOff struct{ BaseCommand }

// FeedRate sets the feed; Unit is nil when the unit word is not recognised
type FeedRate struct {
	BaseCommand
	Rate float64
	Unit *Unit
}

// Rapid selects rapid positioning for the next move
type Rapid struct{ BaseCommand }

// Fini ends the program
type Fini struct{ BaseCommand }

// Goto is a linear move
type Goto struct {
	BaseCommand
	X, Y, Z float64
}

// Circle is a circular move; I/J/K is the arc normal, R the radius
type Circle struct {
	BaseCommand
	X, Y, Z float64
	I, J, K float64
	R       float64
}

// CycleDrill starts a drill cycle
type CycleDrill struct {
	BaseCommand
	Args *ArgList
}

// CycleDeep starts a deep (peck) drill cycle
type CycleDeep struct {
	BaseCommand
	Args *ArgList
}

// CycleOff cancels the active cycle
type CycleOff struct{ BaseCommand }

// FeatureMarker starts a new sequence
type FeatureMarker struct {
	BaseCommand
	FeatureNumber string
	Name          string
	Rule          string // name of the marker rule that matched
}

func (*Unknown) Kind() Kind       { return KindUnknown }
func (*Global) Kind() Kind        { return KindGlobal }
func (*Blank) Kind() Kind         { return KindBlank }
func (*LoadTool) Kind() Kind      { return KindLoadTool }
func (*SpindleRPM) Kind() Kind    { return KindSpindleRPM }
func (*SpindleOff) Kind() Kind    { return KindSpindleOff }
func (*FeedRate) Kind() Kind      { return KindFeedRate }
func (*Rapid) Kind() Kind         { return KindRapid }
func (*Fini) Kind() Kind          { return KindFini }
func (*Goto) Kind() Kind          { return KindGoto }
func (*Circle) Kind() Kind        { return KindCircle }
func (*CycleDrill) Kind() Kind    { return KindCycleDrill }
func (*CycleDeep) Kind() Kind     { return KindCycleDeep }
func (*CycleOff) Kind() Kind      { return KindCycleOff }
func (*FeatureMarker) Kind() Kind { return KindFeature }

func (c *Unknown) String() string { return fmt.Sprintf("unknown[%s](%q)", c.Reason, c.RawLine) }
func (c *Global) String() string  { return fmt.Sprintf("global(%s)", c.Directive) }
func (*Blank) String() string     { return "blank" }
func (c *LoadTool) String() string {
	return fmt.Sprintf("loadtl(%d)", c.ToolNo)
}
func (c *SpindleRPM) String() string { return "spindle_rpm(" + formatNumber(c.RPM) + ")" }
func (*SpindleOff) String() string   { return "spindle_off" }
func (c *FeedRate) String() string {
	unit := "-"
	if c.Unit != nil {
		unit = c.Unit.String()
	}
	return fmt.Sprintf("fedrat(%s, %s)", formatNumber(c.Rate), unit)
}
func (*Rapid) String() string { return "rapid" }
func (*Fini) String() string  { return "fini" }
func (c *Goto) String() string {
	return fmt.Sprintf("goto(%s, %s, %s)", formatNumber(c.X), formatNumber(c.Y), formatNumber(c.Z))
}
func (c *Circle) String() string {
	return fmt.Sprintf("circle(%s, %s, %s, %s, %s, %s, r=%s)",
		formatNumber(c.X), formatNumber(c.Y), formatNumber(c.Z),
		formatNumber(c.I), formatNumber(c.J), formatNumber(c.K), formatNumber(c.R))
}
func (c *CycleDrill) String() string { return "cycle_drill(" + c.Args.String() + ")" }
func (c *CycleDeep) String() string  { return "cycle_deep(" + c.Args.String() + ")" }
func (*CycleOff) String() string     { return "cycle_off" }
func (c *FeatureMarker) String() string {
	if c.Name == "" {
		return fmt.Sprintf("feature(%s)", c.FeatureNumber)
	}
	return fmt.Sprintf("feature(%s, %q)", c.FeatureNumber, c.Name)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// IsUnknown reports whether cmd is an *Unknown
func IsUnknown(cmd Command) bool {
	_, ok := cmd.(*Unknown)
	return ok
}

// CountKinds tallies the commands per kind
func CountKinds(cmds []Command) map[Kind]int {
	counts := make(map[Kind]int)
	for _, c := range cmds {
		counts[c.Kind()]++
	}
	return counts
}
