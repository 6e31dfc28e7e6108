// File: doc.go
// Title: NCL Feature-Marker Registry Documentation
// Description: Documents the registry of feature-marker rules.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

// Package registry holds the feature-marker rules of the NCL classifier.
//
// The fourteen built-in NCL directives have a fixed grammar. Feature markers,
// the lines that start a new sequence, differ between post-processors, so
// nclpost ships without one and lets the caller register regular expressions
// instead:
//
//	reg, err := registry.New(registry.Options{})
//	if err != nil {
//		return err
//	}
//	err = reg.RegisterMarker("featno", `^FEATNO\s*/\s*(?P<feature>\d+)`)
//
// A marker pattern must contain a named group "feature" and may contain a
// named group "name". Patterns that match an empty line are rejected. Rules
// are tried in registration order, the first match wins. Marker rules are
// consulted after all built-in rules failed and after the blank-line check.
package registry
