// File: error_test.go
// Title: Core Error Tests
// Description: Tests for error construction, wrapping and code lookup.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial error tests

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestNew(t *testing.T) {
	err := New("test error")

	if err.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", err.Error(), "test error")
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}
	if err.Severity() != SeverityMedium {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityMedium)
	}
	if err.Timestamp().IsZero() {
		t.Error("Timestamp() should be set")
	}
}

func TestWithCodeSetsSeverity(t *testing.T) {
	tests := []struct {
		code Code
		want Severity
	}{
		{CodeNotFound, SeverityLow},
		{CodeDatabaseError, SeverityHigh},
		{CodeInternal, SeverityCritical},
		{CodeUnknown, SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New("x").WithCode(tt.code)
			if err.Severity() != tt.want {
				t.Errorf("severity = %v, want %v", err.Severity(), tt.want)
			}
		})
	}

	explicit := New("x").WithSeverity(SeverityCritical).WithCode(CodeNotFound)
	if explicit.Severity() != SeverityCritical {
		t.Errorf("explicit severity overwritten: %v", explicit.Severity())
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "nothing") != nil {
		t.Fatal("Wrap(nil) should return nil")
	}

	base := New("no such file").WithCode(CodeNotFound).WithDetail("path", "a.ncl")
	wrapped := Wrap(base, "read NCL")

	if wrapped.Error() != "read NCL: no such file" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
	if wrapped.Code() != CodeNotFound {
		t.Errorf("wrapped code = %v, want %v", wrapped.Code(), CodeNotFound)
	}
	if wrapped.Details()["path"] != "a.ncl" {
		t.Errorf("details not inherited: %v", wrapped.Details())
	}
	if !errors.Is(wrapped, base) {
		t.Error("errors.Is should find the wrapped error")
	}

	std := Wrap(fs.ErrNotExist, "open")
	if !errors.Is(std, fs.ErrNotExist) {
		t.Error("standard cause should be reachable through Unwrap")
	}
	if std.Code() != CodeUnknown {
		t.Errorf("standard cause code = %v", std.Code())
	}
}

func TestHasCodeAndGetCode(t *testing.T) {
	inner := New("bad marker").WithCode(CodeInvalidConfig)
	outer := fmt.Errorf("load config: %w", inner)

	if !HasCode(outer, CodeInvalidConfig) {
		t.Error("HasCode should look through fmt wrapping")
	}
	if HasCode(outer, CodeNotFound) {
		t.Error("HasCode matched the wrong code")
	}
	if GetCode(outer) != CodeInvalidConfig {
		t.Errorf("GetCode = %v", GetCode(outer))
	}
	if GetCode(errors.New("plain")) != CodeUnknown {
		t.Error("GetCode of a plain error should be UNKNOWN")
	}
	if GetSeverity(outer) != SeverityLow {
		t.Errorf("GetSeverity = %v", GetSeverity(outer))
	}
}

func TestMarshalJSON(t *testing.T) {
	err := New("store failed").
		WithCode(CodeDatabaseError).
		WithOperation("store.SaveRun").
		WithCause(errors.New("disk full"))

	data, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		t.Fatalf("Marshal: %v", marshalErr)
	}

	var decoded map[string]interface{}
	if jsonErr := json.Unmarshal(data, &decoded); jsonErr != nil {
		t.Fatalf("Unmarshal: %v", jsonErr)
	}
	if decoded["code"] != "DATABASE_ERROR" || decoded["operation"] != "store.SaveRun" || decoded["cause"] != "disk full" {
		t.Errorf("unexpected JSON: %s", data)
	}
}

func TestCodeCategory(t *testing.T) {
	if CodeNCLSyntax.Category() != "ncl" {
		t.Errorf("NCL_SYNTAX category = %s", CodeNCLSyntax.Category())
	}
	if !CodeNCLSemantic.IsValid() {
		t.Error("NCL_SEMANTIC should be valid")
	}
	if Code("BOGUS").IsValid() {
		t.Error("BOGUS should not be valid")
	}
}
