// File: ncl.go
// Title: NCL Parse Session
// Description: Orchestrates normalisation, classification and global state
//              accumulation over a complete input and exposes the results.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package ncl

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/nclpost/foundation/core/error"
	mdwlog "github.com/msto63/nclpost/foundation/core/log"
	"github.com/msto63/nclpost/foundation/ncl/ast"
	"github.com/msto63/nclpost/foundation/ncl/parser"
	"github.com/msto63/nclpost/foundation/ncl/registry"
	"github.com/msto63/nclpost/foundation/ncl/sequence"
)

const byteOrderMark = "\uFEFF"

// Options configures a Session
type Options struct {
	// Logger for session events (optional, defaults to default logger)
	Logger *mdwlog.Logger

	// Sink receives one event per Unknown line (optional, nil is silent)
	Sink parser.LogSink

	// Registry holds feature-marker rules (optional)
	Registry *registry.Registry

	// Marker decides where sequences start (optional, defaults to
	// sequence.DefaultMarker)
	Marker sequence.MarkerFunc

	// SessionID identifies the session in logs and the run store
	// (optional, defaults to a random UUID)
	SessionID string
}

// Session is one parse of one input
type Session struct {
	id         string
	source     string
	classifier *parser.Classifier
	marker     sequence.MarkerFunc
	logger     *mdwlog.Logger

	globals    *ast.Globals
	commands   []ast.Command
	errorCount int
}

// NewSession creates an empty session
func NewSession(opts Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}

	s := &Session{
		id:      opts.SessionID,
		marker:  opts.Marker,
		logger:  opts.Logger.WithField("component", "ncl-session").WithSession(opts.SessionID),
		globals: ast.NewGlobals(),
	}
	s.classifier = parser.New(parser.Options{
		Logger:   opts.Logger,
		Registry: opts.Registry,
		Sink:     opts.Sink,
	})

	return s, nil
}

// ReadLines classifies physical lines. Repeated reads append to the
// command list and continue the line numbering.
func (s *Session) ReadLines(lines []string) {
	timer := s.logger.StartTimer("ncl.read")
	defer timer.Stop()

	logical := parser.JoinContinuations(lines)
	lineNo := len(s.commands)
	unknowns := 0
	for _, l := range logical {
		lineNo++
		cmd, ok := s.classifier.Classify(lineNo, l, s.globals)
		if !ok {
			unknowns++
		}
		s.commands = append(s.commands, cmd)
	}
	s.errorCount += unknowns

	s.logger.Info("NCL input read", mdwlog.Fields{
		"physicalLines": len(lines),
		"logicalLines":  len(logical),
		"unknownLines":  unknowns,
		"totalErrors":   s.errorCount,
	})
}

// ReadText classifies a text block
func (s *Session) ReadText(text string) {
	s.ReadLines(parser.SplitLines(strings.TrimPrefix(text, byteOrderMark)))
}

// ReadReader reads r to the end and classifies its content
func (s *Session) ReadReader(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return mdwerror.Wrap(err, "failed to read NCL input").
			WithCode(mdwerror.CodeIO).
			WithOperation("ncl.ReadReader").
			WithDetail("source", s.sourceOr("reader"))
	}
	if s.source == "" {
		s.source = "reader"
	}
	s.ReadText(string(data))
	return nil
}

// ReadFile reads and classifies the file at path
func (s *Session) ReadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		code := mdwerror.CodeIO
		if errors.Is(err, fs.ErrNotExist) {
			code = mdwerror.CodeNotFound
		}
		return mdwerror.Wrap(err, "failed to open NCL file").
			WithCode(code).
			WithOperation("ncl.ReadFile").
			WithDetail("path", path)
	}
	defer f.Close()

	s.source = path
	s.logger = s.logger.WithSource(path)
	return s.ReadReader(f)
}

func (s *Session) sourceOr(fallback string) string {
	if s.source == "" {
		return fallback
	}
	return s.source
}

// ID returns the session id
func (s *Session) ID() string { return s.id }

// Source returns the file path of the last ReadFile, "reader" after
// ReadReader, or "" for line and text input
func (s *Session) Source() string { return s.source }

// Globals returns the accumulated global state
func (s *Session) Globals() *ast.Globals { return s.globals }

// Commands returns the classified commands in input order
func (s *Session) Commands() []ast.Command { return s.commands }

// ErrorCount returns the number of Unknown commands
func (s *Session) ErrorCount() int { return s.errorCount }

// Unknowns returns the Unknown commands in input order
func (s *Session) Unknowns() []*ast.Unknown {
	var result []*ast.Unknown
	for _, c := range s.commands {
		if u, ok := c.(*ast.Unknown); ok {
			result = append(result, u)
		}
	}
	return result
}

// Sequences segments the commands and, when maxGotoCount > 0, cuts every
// sequence to that many GOTO moves. A limit of 0 or below means no limit,
// unlike sequence.Cut where 0 drops the first GOTO and everything after it.
func (s *Session) Sequences(maxGotoCount int) []*ast.Sequence {
	seqs := sequence.Segment(s.commands, s.marker)
	if maxGotoCount > 0 {
		if removed := sequence.CutAll(seqs, maxGotoCount); removed > 0 {
			s.logger.Debug("Sequences cut", mdwlog.Fields{
				"maxGotoCount":    maxGotoCount,
				"removedCommands": removed,
			})
		}
	}
	return seqs
}
