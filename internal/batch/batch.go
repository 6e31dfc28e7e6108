// Package batch parses many NCL files concurrently.
package batch

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	mdwerror "github.com/msto63/nclpost/foundation/core/error"
	mdwlog "github.com/msto63/nclpost/foundation/core/log"
	"github.com/msto63/nclpost/foundation/ncl"
	"github.com/msto63/nclpost/foundation/ncl/ast"
	"github.com/msto63/nclpost/foundation/ncl/parser"
	"github.com/msto63/nclpost/foundation/ncl/registry"
	"github.com/msto63/nclpost/foundation/utils/filex"
)

// DefaultExtensions are the file extensions picked up when a directory is
// given as input
var DefaultExtensions = []string{".ncl", ".apt", ".cl"}

// Options configures a batch run
type Options struct {
	Logger   *mdwlog.Logger
	Registry *registry.Registry

	// Workers bounds the number of files parsed at once (default NumCPU)
	Workers int

	// MaxGotoCount cuts each sequence when > 0
	MaxGotoCount int

	// LogUnknowns routes unknown-line events to the logger, tagged with
	// the file path
	LogUnknowns bool
}

// Result is the outcome of parsing one file
type Result struct {
	Path      string
	Size      int64
	Session   *ncl.Session
	Sequences []*ast.Sequence
	Duration  time.Duration
	Err       error
}

// Failed reports whether the file could not be read or had unknown lines
func (r *Result) Failed() bool {
	return r.Err != nil || (r.Session != nil && r.Session.ErrorCount() > 0)
}

// ParseFile parses a single file. Read errors end up in Result.Err.
func ParseFile(ctx context.Context, path string, opts Options) *Result {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}

	start := time.Now()
	result := &Result{Path: path}
	if err := ctx.Err(); err != nil {
		result.Err = mdwerror.Wrap(err, "parse canceled").
			WithCode(mdwerror.CodeCanceled).
			WithOperation("batch.ParseFile").
			WithDetail("path", path)
		return result
	}

	var sink parser.LogSink
	if opts.LogUnknowns {
		sink = parser.LoggerSink(opts.Logger.WithSource(path))
	}

	session, err := ncl.NewSession(ncl.Options{
		Logger:   opts.Logger,
		Sink:     sink,
		Registry: opts.Registry,
	})
	if err != nil {
		result.Err = err
		return result
	}

	if err := session.ReadFile(path); err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if info, err := os.Stat(path); err == nil {
		result.Size = info.Size()
	}
	result.Session = session
	result.Sequences = session.Sequences(opts.MaxGotoCount)
	result.Duration = time.Since(start)
	return result
}

// ParseFiles parses paths with at most opts.Workers files in flight.
// Results keep the order of paths. Per-file failures are reported in
// Result.Err; the returned error is only set when ctx ends the batch.
func ParseFiles(ctx context.Context, paths []string, opts Options) ([]*Result, error) {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	logger := opts.Logger.WithField("component", "ncl-batch")
	timer := logger.StartTimer("batch.parse")
	defer timer.Stop()

	results := make([]*Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = ParseFile(gctx, path, opts)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	logger.Info("Batch parsed", mdwlog.Fields{
		"files":   len(paths),
		"failed":  failed,
		"workers": opts.Workers,
	})

	if err := ctx.Err(); err != nil {
		return results, mdwerror.Wrap(err, "batch canceled").
			WithCode(mdwerror.CodeCanceled).
			WithOperation("batch.ParseFiles")
	}
	return results, nil
}

// Collect expands args into a sorted, de-duplicated list of files. Plain
// files are taken as given, directories are walked for files with one of
// the extensions and anything else is treated as a glob pattern.
func Collect(args []string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, arg := range args {
		switch {
		case filex.IsDir(arg):
			found, err := filex.FindByExtension(arg, extensions)
			if err != nil {
				return nil, mdwerror.Wrap(err, "failed to walk directory").
					WithCode(mdwerror.CodeIO).
					WithOperation("batch.Collect").
					WithDetail("path", arg)
			}
			for _, f := range found {
				add(f)
			}
		case filex.IsFile(arg):
			add(arg)
		default:
			matches, globErr := filepath.Glob(arg)
			if globErr != nil {
				return nil, mdwerror.Wrap(globErr, "invalid file pattern").
					WithCode(mdwerror.CodeInvalidInput).
					WithOperation("batch.Collect").
					WithDetail("pattern", arg)
			}
			if len(matches) == 0 {
				return nil, mdwerror.New("no input matches").
					WithCode(mdwerror.CodeNotFound).
					WithOperation("batch.Collect").
					WithDetail("pattern", arg)
			}
			for _, m := range matches {
				add(m)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}
