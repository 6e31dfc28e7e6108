// Package stringx provides the small string helpers shared by the NCL parser
// and the command line output.
//
// Package: stringx
// Title: String Helpers for nclpost
// Description: Whitespace checks, separator splitting with trimming and
//              empty-entry removal, and Unicode-aware truncation/padding
//              for tabular text output.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
package stringx
