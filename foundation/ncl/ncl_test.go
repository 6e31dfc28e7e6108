// File: ncl_test.go
// Title: NCL Parse Session Tests
// Description: End-to-end tests of reading NCL input through a Session.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial test suite

package ncl

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdwerror "github.com/msto63/nclpost/foundation/core/error"
	mdwlog "github.com/msto63/nclpost/foundation/core/log"
	"github.com/msto63/nclpost/foundation/ncl/ast"
	"github.com/msto63/nclpost/foundation/ncl/parser"
	"github.com/msto63/nclpost/foundation/ncl/registry"
)

const samplePart = `PARTNO/ BRACKET-7
MACHIN/ UNCX01, 1
UNITS/ MM
FEATNO/ 10, FACE
LOADTL/ 1
SPINDL/ RPM, 2400, CLW
FEDRAT/ 300, MMPERMIN
RAPID
GOTO/ 0, 0, 5
GOTO/ 10, 0, 5 $$ first pass
GOTO/ 10, 10, $
      5
FEATNO/ 20, HOLES
CYCLE/ DRILL, DEPTH, 12.5, FEED, 80, $
      RTRCTO, 2
GOTO/ 20, 20, 0
CYCLE/ OFF
SPINDL/ OFF
COOLNT/ ON
FINI
`

func newTestSession(t *testing.T, sink parser.LogSink) *Session {
	t.Helper()
	reg, err := registry.New(registry.Options{
		Logger: mdwlog.Discard(),
		Markers: []registry.MarkerSpec{
			{Name: "featno", Pattern: `^FEATNO\s*/\s*(?P<feature>\d+)(\s*,\s*(?P<name>.+))?`},
		},
	})
	require.NoError(t, err)

	s, err := NewSession(Options{Logger: mdwlog.Discard(), Sink: sink, Registry: reg})
	require.NoError(t, err)
	return s
}

func kinds(cmds []ast.Command) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.Kind().String()
	}
	return out
}

func TestSessionReadText(t *testing.T) {
	var collector parser.Collector
	s := newTestSession(t, collector.Sink())
	s.ReadText(samplePart)

	want := []string{
		"global", "global", "global", "feature", "loadtl", "spindle_rpm", "fedrat",
		"rapid", "goto", "goto", "goto", "feature", "cycle_drill", "goto",
		"cycle_off", "spindle_off", "unknown", "fini",
	}
	if diff := cmp.Diff(want, kinds(s.Commands())); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}

	for i, c := range s.Commands() {
		assert.Equal(t, i+1, c.Base().LineNo, "line numbers are sequential")
	}

	g := s.Globals()
	assert.Equal(t, "BRACKET-7", *g.PartNo)
	assert.Equal(t, "UNCX01", *g.PostProc)
	assert.Equal(t, "1", *g.MachineNo)
	assert.Equal(t, ast.MM, g.Units)

	assert.Equal(t, 1, s.ErrorCount())
	require.Len(t, s.Unknowns(), 1)
	assert.Equal(t, "COOLNT/ ON", s.Unknowns()[0].RawLine)
	assert.Len(t, collector.Events, 1, "exactly one event per unknown line")

	third := s.Commands()[10].(*ast.Goto)
	assert.Equal(t, ast.Goto{BaseCommand: third.BaseCommand, X: 10, Y: 10, Z: 5}, *third)
	assert.Equal(t, " first pass", s.Commands()[9].Base().Comment)

	drill := s.Commands()[12].(*ast.CycleDrill)
	assert.Equal(t, []string{"DEPTH", "FEED", "RTRCTO"}, drill.Args.Keys())
}

func TestSessionSequences(t *testing.T) {
	s := newTestSession(t, nil)
	s.ReadText(samplePart)

	seqs := s.Sequences(0)
	require.Len(t, seqs, 2)

	assert.Equal(t, "10", *seqs[0].FeatureNumber)
	assert.Equal(t, "FACE", *seqs[0].Name)
	assert.True(t, seqs[0].HasToolCall)
	assert.Equal(t, 8, seqs[0].Len())
	assert.Equal(t, 3, seqs[0].GotoCount())

	assert.Equal(t, "HOLES", *seqs[1].Name)
	assert.False(t, seqs[1].HasToolCall)
	assert.Equal(t, 7, seqs[1].Len())

	cut := s.Sequences(2)
	assert.Equal(t, 7, cut[0].Len())
	assert.Equal(t, 7, cut[1].Len())
	assert.Len(t, s.Commands(), 18, "cutting never touches the session commands")
}

func TestSequencesZeroMeansNoLimit(t *testing.T) {
	s := newTestSession(t, nil)
	s.ReadText(samplePart)

	uncut := s.Sequences(0)
	require.Len(t, uncut, 2)
	assert.Equal(t, 3, uncut[0].GotoCount())
	assert.Equal(t, 8, uncut[0].Len())

	negative := s.Sequences(-1)
	assert.Equal(t, 3, negative[0].GotoCount())
}

func TestTabbedContinuationIsUnknown(t *testing.T) {
	s := newTestSession(t, nil)
	s.ReadText("GOTO/1,1,1$\t\n2,2,2\n")

	assert.Equal(t, []string{"unknown"}, kinds(s.Commands()))
	assert.Equal(t, 1, s.ErrorCount())
}

func TestSessionExamples(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   []string
		errors int
	}{
		{"partno", "PARTNO/ TESTPART", []string{"global"}, 0},
		{"bad units", "UNITS/ FOO", []string{"unknown"}, 1},
		{"goto", "GOTO/ 1.0, 2.0, 3.0", []string{"goto"}, 0},
		{"circle", "CIRCLE/ 0,0,0,0,0,1,5.5", []string{"circle"}, 0},
		{"joined goto", "GOTO/1,1,1$\n2,2,2", []string{"unknown"}, 1},
		{"drill", "CYCLE/DRILL, DEPTH, 10.0, FEED, 2.5", []string{"cycle_drill"}, 0},
		{"empty input", "", []string{}, 0},
		{"trailing continuation", "RAPID\nGOTO/1,2,3 $\n", []string{"rapid", "goto"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, nil)
			s.ReadText(tt.input)
			assert.Equal(t, tt.want, kinds(s.Commands()))
			assert.Equal(t, tt.errors, s.ErrorCount())
		})
	}
}

func TestSessionExampleGlobals(t *testing.T) {
	s := newTestSession(t, nil)
	s.ReadText("PARTNO/ TESTPART")
	require.NotNil(t, s.Globals().PartNo)
	assert.Equal(t, "TESTPART", *s.Globals().PartNo)

	s = newTestSession(t, nil)
	s.ReadText("UNITS/ FOO")
	assert.Equal(t, ast.MM, s.Globals().Units)
}

func TestCommandCountEqualsLogicalLines(t *testing.T) {
	inputs := []string{
		samplePart,
		"A$\nB$\nC\nD",
		"\n\n\n",
		"GOTO/1,2,3\r\nRAPID\r\n",
	}
	for _, in := range inputs {
		s := newTestSession(t, nil)
		s.ReadText(in)
		logical := parser.JoinContinuations(parser.SplitLines(in))
		assert.Len(t, s.Commands(), len(logical))
	}
}

func TestRepeatedReadsContinueNumbering(t *testing.T) {
	s := newTestSession(t, nil)
	s.ReadLines([]string{"RAPID", "BOGUS"})
	s.ReadLines([]string{"GOTO/1,2,3", "ALSO BOGUS"})

	require.Len(t, s.Commands(), 4)
	assert.Equal(t, 3, s.Commands()[2].Base().LineNo)
	assert.Equal(t, 2, s.ErrorCount())
}

func TestSessionReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "part.ncl")
	require.NoError(t, os.WriteFile(path, []byte("\uFEFFPARTNO/ FROMFILE\r\nGOTO/1,2,3\r\n"), 0o644))

	s := newTestSession(t, nil)
	require.NoError(t, s.ReadFile(path))
	assert.Equal(t, path, s.Source())
	assert.Equal(t, "FROMFILE", *s.Globals().PartNo)
	assert.Len(t, s.Commands(), 2)
}

func TestSessionReadFileMissing(t *testing.T) {
	s := newTestSession(t, nil)
	err := s.ReadFile(filepath.Join(t.TempDir(), "missing.ncl"))
	require.Error(t, err)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeNotFound))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("device gone") }

func TestSessionReadReader(t *testing.T) {
	s := newTestSession(t, nil)
	require.NoError(t, s.ReadReader(strings.NewReader("RAPID\nFINI")))
	assert.Equal(t, "reader", s.Source())
	assert.Len(t, s.Commands(), 2)

	err := s.ReadReader(failingReader{})
	require.Error(t, err)
	assert.Equal(t, mdwerror.CodeIO, mdwerror.GetCode(err))
}

func TestSessionLogsSummary(t *testing.T) {
	var buf bytes.Buffer
	logger := mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelInfo, Format: mdwlog.FormatText, Output: &buf})

	s, err := NewSession(Options{Logger: logger, SessionID: "run-1"})
	require.NoError(t, err)
	assert.Equal(t, "run-1", s.ID())

	s.ReadText("RAPID\nBOGUS")
	out := buf.String()
	assert.Contains(t, out, "NCL input read")
	assert.Contains(t, out, "unknownLines=1")
	assert.Contains(t, out, "session=run-1")
	assert.Equal(t, 1, strings.Count(out, "\n"), "nil sink keeps unknown lines out of the log")
}

func TestNewSessionGeneratesID(t *testing.T) {
	a, err := NewSession(Options{Logger: mdwlog.Discard()})
	require.NoError(t, err)
	b, err := NewSession(Options{Logger: mdwlog.Discard()})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}
