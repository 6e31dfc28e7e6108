// Package filex provides the file helpers used around NCL input handling.
//
// Package: filex
// Title: File Helpers for NCL Input
// Description: Small file and directory helpers: type checks, extension
//              matching, extension-filtered directory search and content
//              hashing. Batch input collection and the watcher build on it.
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
//	files, err := filex.FindByExtension("programs", []string{".ncl", ".apt"})
//	sum, err := filex.SHA256Hash("part.ncl")
//
// Extension comparisons are case-insensitive, so PART.NCL matches ".ncl".
package filex
