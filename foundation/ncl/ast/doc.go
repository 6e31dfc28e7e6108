// File: doc.go
// Title: NCL Command Model Package Documentation
// Description: Defines the typed command records produced by the NCL
//              classifier, the argument list container, measurement units,
//              the per-session global state and the sequence grouping.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial command model

/*
Package ast defines the command model of an NCL (APT/ACL post-processor)
command stream.

Every logical line of an NCL program becomes exactly one Command. The concrete
type tells what kind of line it was:

  - *Unknown          classification failed (Reason says why)
  - *Global           PARTNO, MACHIN or UNITS; only mutated Globals
  - *Blank            an empty logical line
  - *LoadTool         LOADTL/n
  - *SpindleRPM       SPINDL/RPM, n
  - *SpindleOff       SPINDL/OFF
  - *FeedRate         FEDRAT/n, unit
  - *Rapid            RAPID
  - *Fini             FINI
  - *Goto             GOTO/x, y, z
  - *Circle           CIRCLE/x, y, z, i, j, k, r
  - *CycleDrill       CYCLE/DRILL, args...
  - *CycleDeep        CYCLE/DEEP, args...
  - *CycleOff         CYCLE/OFF
  - *FeatureMarker    a line matched by a registered feature-marker rule

Units are recorded as written, they are never applied to numeric values.
*/
package ast
