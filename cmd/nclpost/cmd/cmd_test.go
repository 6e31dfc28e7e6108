package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	mdwlog "github.com/msto63/nclpost/foundation/core/log"
	"github.com/msto63/nclpost/foundation/ncl/ast"
	"github.com/msto63/nclpost/internal/batch"
)

func parseTemp(t *testing.T, content string) *batch.Result {
	t.Helper()
	path := filepath.Join(t.TempDir(), "part.ncl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return batch.ParseFile(context.Background(), path, batch.Options{Logger: mdwlog.Discard()})
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, ExitCode(errUnknownLines))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
}

func TestResultStatus(t *testing.T) {
	clean := parseTemp(t, "RAPID\nFINI\n")
	dirty := parseTemp(t, "RAPID\nCOOLNT/ ON\n")
	missing := batch.ParseFile(context.Background(), filepath.Join(t.TempDir(), "nope.ncl"),
		batch.Options{Logger: mdwlog.Discard()})

	tests := []struct {
		name        string
		results     []*batch.Result
		failOnError bool
		wantCode    int
	}{
		{"clean", []*batch.Result{clean}, true, 0},
		{"unknown lines tolerated", []*batch.Result{clean, dirty}, false, 0},
		{"unknown lines fail", []*batch.Result{clean, dirty}, true, 2},
		{"read failure", []*batch.Result{missing, dirty}, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := resultStatus(tt.results, tt.failOnError)
			if tt.wantCode == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, ExitCode(err))
		})
	}
}

func TestValidateOutput(t *testing.T) {
	for _, f := range []string{"text", "json", "yaml", "yml"} {
		assert.NoError(t, validateOutput(f), f)
	}
	assert.Error(t, validateOutput("xml"))
}

func TestFileReportStructured(t *testing.T) {
	r := parseTemp(t, "PARTNO/ BRACKET\nUNITS/ INCH\nGOTO/ 1, 2, 3\n")
	rep := newFileReport(r, true, false)

	var buf bytes.Buffer
	require.NoError(t, writeStructured(&buf, "json", rep))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(3), decoded["line_count"])
	globals := decoded["globals"].(map[string]interface{})
	assert.Equal(t, "BRACKET", globals["part_no"])
	assert.Len(t, decoded["commands"], 3)

	buf.Reset()
	require.NoError(t, writeStructured(&buf, "yaml", rep))
	var fromYAML fileReport
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, rep.Path, fromYAML.Path)
	assert.Equal(t, 3, fromYAML.LineCount)
}

func TestFileReportReadError(t *testing.T) {
	r := batch.ParseFile(context.Background(), filepath.Join(t.TempDir(), "nope.ncl"),
		batch.Options{Logger: mdwlog.Discard()})
	rep := newFileReport(r, true, true)
	assert.NotEmpty(t, rep.Error)
	assert.Nil(t, rep.Globals)

	var buf bytes.Buffer
	printReportText(&buf, rep)
	assert.Contains(t, buf.String(), "nope.ncl")
}

func TestPrintSequenceTextAlignsUmlauts(t *testing.T) {
	column := func(name string) int {
		var buf bytes.Buffer
		feature := "10"
		printSequenceText(&buf, ast.SequenceRecord{Index: 1, Name: &name, FeatureNumber: &feature, LineCount: 3})
		line := buf.String()
		i := strings.Index(line, "Zeilen")
		require.GreaterOrEqual(t, i, 0)
		return utf8.RuneCountInString(line[:i])
	}

	assert.Equal(t, column("Planfraesen"), column("Planfräsen!"))
}
