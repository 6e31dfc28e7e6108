// ============================================================================
// nclpost - NCL post-processor command stream reader
// ============================================================================
//
// Package:     version
// Description: Central version information for the nclpost binary
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version of nclpost
const Version = "0.1.0"

// StoreSchema is the version of the run store schema
const StoreSchema = 1

// Set at build time via -ldflags "-X github.com/msto63/nclpost/pkg/core/version.Commit=..."
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// String returns a one-line version description
func String() string {
	return fmt.Sprintf("nclpost %s (commit %s, built %s, %s)", Version, Commit, BuildDate, runtime.Version())
}
