// File: codes.go
// Title: Error Code Definitions
// Description: Standardized error codes for nclpost.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeIO           Code = "IO_ERROR"
	CodeCanceled     Code = "CANCELED"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Storage
	CodeDatabaseError Code = "DATABASE_ERROR"

	// NCL classification; describe why a line became Unknown
	CodeNCLSyntax   Code = "NCL_SYNTAX"
	CodeNCLSemantic Code = "NCL_SEMANTIC"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid reports whether c is one of the defined codes
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeIO, CodeCanceled,
		CodeConfigError, CodeInvalidConfig, CodeDatabaseError,
		CodeNCLSyntax, CodeNCLSemantic:
		return true
	}
	return false
}

// Category returns a coarse category for the code
func (c Code) Category() string {
	switch c {
	case CodeConfigError, CodeInvalidConfig:
		return "config"
	case CodeDatabaseError:
		return "storage"
	case CodeNCLSyntax, CodeNCLSemantic:
		return "ncl"
	case CodeNotFound, CodeIO:
		return "io"
	default:
		return "general"
	}
}
