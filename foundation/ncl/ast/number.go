// File: number.go
// Title: Locale-Invariant Number Parsing
// Description: Decimal number parsing shared by the classifier and the
//              argument list. Accepts an optional sign, a decimal point and an
//              exponent; rejects thousands separators, hex and NaN/Inf words.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package ast

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/msto63/nclpost/foundation/utils/stringx"
)

var numberPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseNumber parses s after trimming surrounding whitespace
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !numberPattern.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseNumbers parses a comma separated list. Empty items are skipped; any
// item that is not a number fails the whole list.
func ParseNumbers(s string) ([]float64, bool) {
	items := stringx.SplitTrim(s, ",")
	result := make([]float64, 0, len(items))
	for _, it := range items {
		v, ok := ParseNumber(it)
		if !ok {
			return nil, false
		}
		result = append(result, v)
	}
	return result, true
}
