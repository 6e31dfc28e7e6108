// File: severity.go
// Title: Error Severity Levels
// Description: Severity levels and the default severity for each code.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates bad input the caller can correct
	SeverityLow Severity = iota

	// SeverityMedium is the default for errors without a more specific code
	SeverityMedium

	// SeverityHigh indicates a failing dependency such as the database
	SeverityHigh

	// SeverityCritical indicates a broken invariant inside nclpost
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// GetSeverityFromCode determines the default severity for an error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeInternal:
		return SeverityCritical
	case CodeDatabaseError, CodeIO:
		return SeverityHigh
	case CodeInvalidInput, CodeNotFound, CodeInvalidConfig, CodeConfigError,
		CodeNCLSyntax, CodeNCLSemantic, CodeCanceled:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
