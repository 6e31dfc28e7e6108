// Package error provides the structured error type used across nclpost.
//
// Package: error
// Title: nclpost Error Handling
// Description: An Error carries a machine-readable Code, a Severity, the
//              operation that failed and arbitrary details. Outer surfaces
//              (file access, configuration, the run store) return these
//              errors; per-line classification problems never do, they are
//              recorded as Unknown commands instead and only borrow the NCL
//              codes of this package to describe why a line was rejected.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
//
// Usage:
//
//	import mdwerror "github.com/msto63/nclpost/foundation/core/error"
//
//	err := mdwerror.New("NCL file not found").
//		WithCode(mdwerror.CodeNotFound).
//		WithOperation("ncl.ReadFile").
//		WithDetail("path", path)
//
//	if mdwerror.HasCode(err, mdwerror.CodeNotFound) {
//		// ...
//	}
package error
