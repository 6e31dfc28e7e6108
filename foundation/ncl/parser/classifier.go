// File: classifier.go
// Title: NCL Command Classifier
// Description: Ordered rule table mapping one logical line to one command
//              variant, mutating the session globals for PARTNO, MACHIN
//              and UNITS.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package parser

import (
	"regexp"
	"strconv"
	"strings"

	mdwerror "github.com/msto63/nclpost/foundation/core/error"
	mdwlog "github.com/msto63/nclpost/foundation/core/log"
	"github.com/msto63/nclpost/foundation/ncl/ast"
	"github.com/msto63/nclpost/foundation/ncl/registry"
)

// outcome of a rule builder
type outcome int

const (
	fallThrough outcome = iota // pattern matched, payload did not convert
	accepted
	rejected // pattern matched, payload invalid; line becomes Unknown
)

type builder func(m []string, g *ast.Globals) (ast.Command, outcome)

type rule struct {
	name    string
	pattern *regexp.Regexp
	build   builder
}

// rules in priority order; do not reorder
var rules = []rule{
	{"partno", regexp.MustCompile(`^PARTNO\s*/\s*(\w.*)`), buildPartNo},
	{"machin", regexp.MustCompile(`^MACHIN\s*/\s*([^,]+),\s*(\w.*)`), buildMachin},
	{"units", regexp.MustCompile(`^UNITS\s*/\s*(\w.*)`), buildUnits},
	{"loadtl", regexp.MustCompile(`^LOADTL\s*/\s*(\d+)$`), buildLoadTool},
	{"spindl_rpm", regexp.MustCompile(`^SPINDL\s*/\s*RPM,\s*([-0-9+.]+)`), buildSpindleRPM},
	{"spindl_off", regexp.MustCompile(`^SPINDL\s*/\s*OFF$`), constant(func() ast.Command { return &ast.SpindleOff{} })},
	{"rapid", regexp.MustCompile(`^RAPID$`), constant(func() ast.Command { return &ast.Rapid{} })},
	{"fini", regexp.MustCompile(`^FINI`), constant(func() ast.Command { return &ast.Fini{} })},
	{"goto", regexp.MustCompile(`^GOTO\s*/\s*([-0-9+., ]+)`), buildGoto},
	{"circle", regexp.MustCompile(`^CIRCLE\s*/\s*([-0-9+., ]+)`), buildCircle},
	{"fedrat", regexp.MustCompile(`^FEDRAT\s*/\s*([-0-9+.]+),\s*(\w+)`), buildFeedRate},
	{"cycle_drill", regexp.MustCompile(`^CYCLE\s*/\s*DRILL\s*,\s*(.+)`), buildCycleDrill},
	{"cycle_deep", regexp.MustCompile(`^CYCLE\s*/\s*DEEP\s*,\s*(.+)`), buildCycleDeep},
	{"cycle_off", regexp.MustCompile(`^CYCLE\s*/\s*OFF\s*$`), constant(func() ast.Command { return &ast.CycleOff{} })},
}

// RuleNames returns the built-in rule names in priority order
func RuleNames() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

// Options configures a Classifier
type Options struct {
	Logger   *mdwlog.Logger
	Registry *registry.Registry // feature-marker rules, may be nil
	Sink     LogSink            // receives one event per rejected line, may be nil
}

// Classifier classifies logical lines. It holds no per-session state and is
// safe for concurrent use when its registry is.
type Classifier struct {
	logger   *mdwlog.Logger
	registry *registry.Registry
	sink     LogSink
}

// New creates a classifier
func New(opts Options) *Classifier {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}

	return &Classifier{
		logger:   opts.Logger.WithField("component", "ncl-classifier"),
		registry: opts.Registry,
		sink:     opts.Sink,
	}
}

// Classify maps one logical line to a command. raw is the logical line
// including any "$$" comment; globals is updated by the global directives.
// The boolean is false exactly when the result is an *ast.Unknown.
func (c *Classifier) Classify(lineNo int, raw string, globals *ast.Globals) (ast.Command, bool) {
	text, comment := SplitComment(raw)
	base := ast.BaseCommand{LineNo: lineNo, RawLine: raw, Comment: comment}

	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		cmd, out := r.build(m, globals)
		switch out {
		case accepted:
			*cmd.Base() = base
			c.trace(lineNo, cmd, r.name)
			return cmd, true
		case rejected:
			return c.unknown(base, mdwerror.CodeNCLSemantic, "Invalid "+strings.ToUpper(r.name)+" value"), false
		}
	}

	if text == "" {
		return &ast.Blank{BaseCommand: base}, true
	}

	if feature, name, ruleName, ok := c.registry.Match(text); ok {
		cmd := &ast.FeatureMarker{BaseCommand: base, FeatureNumber: feature, Name: name, Rule: ruleName}
		c.trace(lineNo, cmd, ruleName)
		return cmd, true
	}

	return c.unknown(base, mdwerror.CodeNCLSyntax, "Unknown line"), false
}

func (c *Classifier) unknown(base ast.BaseCommand, code mdwerror.Code, msg string) ast.Command {
	if c.sink != nil {
		c.sink(Event{
			Severity: mdwlog.LevelError,
			Line:     base.LineNo,
			Raw:      base.RawLine,
			Code:     code,
			Message:  msg,
		})
	}
	return &ast.Unknown{BaseCommand: base, Reason: code}
}

func (c *Classifier) trace(lineNo int, cmd ast.Command, ruleName string) {
	if !c.logger.IsLevelEnabled(mdwlog.LevelTrace) {
		return
	}
	c.logger.Trace("Line classified", mdwlog.Fields{
		"line": lineNo,
		"kind": cmd.Kind().String(),
		"rule": ruleName,
	})
}

func constant(fn func() ast.Command) builder {
	return func([]string, *ast.Globals) (ast.Command, outcome) {
		return fn(), accepted
	}
}

func buildPartNo(m []string, g *ast.Globals) (ast.Command, outcome) {
	partNo := strings.TrimSpace(m[1])
	g.PartNo = &partNo
	return &ast.Global{Directive: "PARTNO"}, accepted
}

func buildMachin(m []string, g *ast.Globals) (ast.Command, outcome) {
	postProc := strings.TrimSpace(m[1])
	machineNo := strings.TrimSpace(m[2])
	g.PostProc = &postProc
	g.MachineNo = &machineNo
	return &ast.Global{Directive: "MACHIN"}, accepted
}

func buildUnits(m []string, g *ast.Globals) (ast.Command, outcome) {
	switch strings.ToLower(strings.TrimSpace(m[1])) {
	case "mm":
		g.Units = ast.MM
	case "inch":
		g.Units = ast.Inch
	default:
		return nil, rejected
	}
	return &ast.Global{Directive: "UNITS"}, accepted
}

func buildLoadTool(m []string, _ *ast.Globals) (ast.Command, outcome) {
	toolNo, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fallThrough
	}
	return &ast.LoadTool{ToolNo: toolNo}, accepted
}

func buildSpindleRPM(m []string, _ *ast.Globals) (ast.Command, outcome) {
	rpm, ok := ast.ParseNumber(m[1])
	if !ok {
		return nil, fallThrough
	}
	return &ast.SpindleRPM{RPM: rpm}, accepted
}

func buildGoto(m []string, _ *ast.Globals) (ast.Command, outcome) {
	v, ok := ast.ParseNumbers(m[1])
	if !ok || len(v) != 3 {
		return nil, fallThrough
	}
	return &ast.Goto{X: v[0], Y: v[1], Z: v[2]}, accepted
}

func buildCircle(m []string, _ *ast.Globals) (ast.Command, outcome) {
	v, ok := ast.ParseNumbers(m[1])
	if !ok || len(v) != 7 {
		return nil, fallThrough
	}
	return &ast.Circle{X: v[0], Y: v[1], Z: v[2], I: v[3], J: v[4], K: v[5], R: v[6]}, accepted
}

func buildFeedRate(m []string, _ *ast.Globals) (ast.Command, outcome) {
	rate, ok := ast.ParseNumber(m[1])
	if !ok {
		return nil, fallThrough
	}
	cmd := &ast.FeedRate{Rate: rate}
	if unit, ok := ast.ParseUnit(m[2]); ok {
		cmd.Unit = &unit
	}
	return cmd, accepted
}

func buildCycleDrill(m []string, _ *ast.Globals) (ast.Command, outcome) {
	return &ast.CycleDrill{Args: ast.ParseArgList(m[1])}, accepted
}

func buildCycleDeep(m []string, _ *ast.Globals) (ast.Command, outcome) {
	return &ast.CycleDeep{Args: ast.ParseArgList(m[1])}, accepted
}
