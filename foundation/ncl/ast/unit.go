// File: unit.go
// Title: Measurement Units
// Description: Length and feed-rate units as written in UNITS and FEDRAT.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package ast

import (
	"fmt"
	"strings"
)

// Unit is a length or feed-rate unit
type Unit int

const (
	MM Unit = iota
	Inch
	InchPerMin
	InchPerRev
	SurfacefeetPerMin
	MmPerMin
	MmPerRev
	SurfaceMeterPerMin
)

var unitNames = [...]string{
	MM:                 "MM",
	Inch:               "Inch",
	InchPerMin:         "InchPerMin",
	InchPerRev:         "InchPerRev",
	SurfacefeetPerMin:  "SurfacefeetPerMin",
	MmPerMin:           "MmPerMin",
	MmPerRev:           "MmPerRev",
	SurfaceMeterPerMin: "SurfaceMeterPerMin",
}

// String returns the unit name
func (u Unit) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitNames[u]
}

// IsLength reports whether u is a length unit (MM or Inch)
func (u Unit) IsLength() bool {
	return u == MM || u == Inch
}

// ParseUnit matches word case-insensitively against the unit names
func ParseUnit(word string) (Unit, bool) {
	for u, name := range unitNames {
		if strings.EqualFold(name, word) {
			return Unit(u), true
		}
	}
	return MM, false
}

// MarshalText implements encoding.TextMarshaler
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (u *Unit) UnmarshalText(text []byte) error {
	parsed, ok := ParseUnit(string(text))
	if !ok {
		return fmt.Errorf("unknown unit %q", text)
	}
	*u = parsed
	return nil
}
