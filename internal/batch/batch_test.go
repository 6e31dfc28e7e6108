package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdwerror "github.com/msto63/nclpost/foundation/core/error"
	mdwlog "github.com/msto63/nclpost/foundation/core/log"
	"github.com/msto63/nclpost/foundation/ncl/registry"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testOptions(t *testing.T) Options {
	t.Helper()
	reg, err := registry.New(registry.Options{
		Logger: mdwlog.Discard(),
		Markers: []registry.MarkerSpec{
			{Name: "featno", Pattern: `^FEATNO\s*/\s*(?P<feature>\d+)`},
		},
	})
	require.NoError(t, err)
	return Options{Logger: mdwlog.Discard(), Registry: reg, Workers: 2}
}

func TestParseFilesKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 8; i++ {
		content := fmt.Sprintf("PARTNO/ P%d\nFEATNO/ 1\nGOTO/ %d, 0, 0\nFINI\n", i, i)
		paths = append(paths, writeFile(t, dir, fmt.Sprintf("p%d.ncl", i), content))
	}

	results, err := ParseFiles(context.Background(), paths, testOptions(t))
	require.NoError(t, err)
	require.Len(t, results, len(paths))

	for i, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, paths[i], r.Path)
		assert.Equal(t, fmt.Sprintf("P%d", i), *r.Session.Globals().PartNo)
		assert.Len(t, r.Sequences, 1)
		assert.False(t, r.Failed())
	}
}

func TestParseFilesReportsPerFileErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.ncl", "RAPID\nFINI\n")
	bad := writeFile(t, dir, "bad.ncl", "RAPID\nCOOLNT/ ON\n")
	missing := filepath.Join(dir, "missing.ncl")

	results, err := ParseFiles(context.Background(), []string{good, missing, bad}, testOptions(t))
	require.NoError(t, err)

	assert.False(t, results[0].Failed())

	assert.True(t, results[1].Failed())
	assert.True(t, mdwerror.HasCode(results[1].Err, mdwerror.CodeNotFound))
	assert.Nil(t, results[1].Session)

	assert.True(t, results[2].Failed())
	assert.NoError(t, results[2].Err)
	assert.Equal(t, 1, results[2].Session.ErrorCount())
}

func TestParseFilesCanceled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.ncl", "RAPID\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := ParseFiles(ctx, []string{path, path}, testOptions(t))
	require.Error(t, err)
	assert.Equal(t, mdwerror.CodeCanceled, mdwerror.GetCode(err))
	for _, r := range results {
		assert.True(t, mdwerror.HasCode(r.Err, mdwerror.CodeCanceled))
	}
}

func TestParseFileCutsSequences(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cut.ncl", "FEATNO/ 1\nGOTO/1,1,1\nGOTO/2,2,2\nGOTO/3,3,3\n")

	opts := testOptions(t)
	opts.MaxGotoCount = 2
	r := ParseFile(context.Background(), path, opts)
	require.NoError(t, r.Err)
	require.Len(t, r.Sequences, 1)
	assert.Equal(t, 3, r.Sequences[0].Len())
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.ncl", "")
	b := writeFile(t, dir, "sub/b.APT", "")
	writeFile(t, dir, "sub/readme.txt", "")
	c := writeFile(t, dir, "c.txt", "")

	files, err := Collect([]string{dir}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)

	files, err = Collect([]string{c, a, filepath.Join(dir, "*.ncl")}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{a, c}, files)

	_, err = Collect([]string{filepath.Join(dir, "*.none")}, nil)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeNotFound))
}

func TestCollectPathKinds(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "sub/a.ncl", "")
	b := writeFile(t, dir, "b.txt", "")

	files, err := Collect([]string{filepath.Join(dir, "sub"), b}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{b, a}, files)

	_, err = Collect([]string{filepath.Join(dir, "missing.ncl")}, nil)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeNotFound))
}
