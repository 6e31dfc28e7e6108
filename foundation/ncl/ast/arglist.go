// File: arglist.go
// Title: Cycle Argument List
// Description: Ordered name/value container for CYCLE arguments, built from
//              the comma separated remainder of a cycle line.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package ast

import (
	"encoding/json"
	"strings"

	"github.com/msto63/nclpost/foundation/utils/stringx"
)

// ArgList maps upper-case argument names to numeric values. Keys are unique;
// Keys() reports first-seen order.
type ArgList struct {
	keys   []string
	values map[string]float64
}

// NewArgList returns an empty list
func NewArgList() *ArgList {
	return &ArgList{values: make(map[string]float64)}
}

// ParseArgList reads "NAME, value, NAME, value, ...". A pair whose value is
// not a number is skipped, a trailing name without value is ignored and a
// repeated name keeps its first position but takes the last value.
func ParseArgList(s string) *ArgList {
	args := NewArgList()
	items := stringx.SplitTrim(s, ",")
	for i := 0; i+1 < len(items); i += 2 {
		v, ok := ParseNumber(items[i+1])
		if !ok {
			continue
		}
		args.Set(items[i], v)
	}
	return args
}

// Set stores value under the upper-cased name
func (a *ArgList) Set(name string, value float64) {
	key := strings.ToUpper(name)
	if _, exists := a.values[key]; !exists {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Get looks a name up case-insensitively
func (a *ArgList) Get(name string) (float64, bool) {
	if a == nil {
		return 0, false
	}
	v, ok := a.values[strings.ToUpper(name)]
	return v, ok
}

// Len returns the number of arguments
func (a *ArgList) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Keys returns the names in first-seen order
func (a *ArgList) Keys() []string {
	if a == nil {
		return nil
	}
	return append([]string(nil), a.keys...)
}

// Map returns a copy of the arguments
func (a *ArgList) Map() map[string]float64 {
	result := make(map[string]float64, a.Len())
	if a == nil {
		return result
	}
	for k, v := range a.values {
		result[k] = v
	}
	return result
}

// String renders "NAME=value, ..." in key order
func (a *ArgList) String() string {
	if a.Len() == 0 {
		return ""
	}
	parts := make([]string, 0, len(a.keys))
	for _, k := range a.keys {
		parts = append(parts, k+"="+formatNumber(a.values[k]))
	}
	return strings.Join(parts, ", ")
}

// MarshalJSON encodes the list as an object
func (a *ArgList) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Map())
}
