package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/nclpost/foundation/core/error"
	"github.com/msto63/nclpost/foundation/ncl/ast"
	"github.com/msto63/nclpost/foundation/utils/filex"
	"github.com/msto63/nclpost/foundation/utils/stringx"
	"github.com/msto63/nclpost/internal/batch"
)

// fileReport is the exported view of one parsed file
type fileReport struct {
	Path       string               `json:"path" yaml:"path"`
	Size       int64                `json:"size,omitempty" yaml:"size,omitempty"`
	RunID      string               `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Globals    *ast.Globals         `json:"globals,omitempty" yaml:"globals,omitempty"`
	LineCount  int                  `json:"line_count" yaml:"line_count"`
	ErrorCount int                  `json:"error_count" yaml:"error_count"`
	Error      string               `json:"error,omitempty" yaml:"error,omitempty"`
	Commands   []ast.Record         `json:"commands,omitempty" yaml:"commands,omitempty"`
	Sequences  []ast.SequenceRecord `json:"sequences,omitempty" yaml:"sequences,omitempty"`
}

func newFileReport(r *batch.Result, withCommands, withSequenceCommands bool) fileReport {
	rep := fileReport{Path: r.Path, Size: r.Size}
	if r.Err != nil {
		rep.Error = r.Err.Error()
		return rep
	}

	s := r.Session
	rep.RunID = s.ID()
	rep.Globals = s.Globals()
	rep.LineCount = len(s.Commands())
	rep.ErrorCount = s.ErrorCount()
	if withCommands {
		rep.Commands = ast.ToRecords(s.Commands())
	}
	for i, seq := range r.Sequences {
		rep.Sequences = append(rep.Sequences, ast.ToSequenceRecord(i, seq, withSequenceCommands))
	}
	return rep
}

// writeStructured encodes v as json or yaml
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return mdwerror.New("unbekanntes Ausgabeformat " + format).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("cmd.writeStructured")
	}
}

func validateOutput(format string) error {
	switch format {
	case "text", "json", "yaml", "yml":
		return nil
	}
	return mdwerror.New("unbekanntes Ausgabeformat " + format + " (text, json, yaml)").
		WithCode(mdwerror.CodeInvalidInput).
		WithOperation("cmd.validateOutput")
}

// printReportText renders one file report for the terminal
func printReportText(w io.Writer, rep fileReport) {
	if rep.Error != "" {
		fmt.Fprintf(w, "%s %s\n    %s\n", statusIcon(false), rep.Path, errorStyle.Render(rep.Error))
		return
	}

	fmt.Fprintf(w, "%s %s  %s\n", statusIcon(rep.ErrorCount == 0), titleStyle.Render(rep.Path),
		mutedStyle.Render(fmt.Sprintf("(%s, %d Zeilen, %d Fehler)", filex.FormatSize(rep.Size), rep.LineCount, rep.ErrorCount)))

	g := rep.Globals
	fmt.Fprintf(w, "    Teil: %s  Postprozessor: %s  Maschine: %s  Einheit: %s\n",
		stringx.Deref(g.PartNo, "-"), stringx.Deref(g.PostProc, "-"),
		stringx.Deref(g.MachineNo, "-"), g.Units)

	if len(rep.Commands) > 0 {
		fmt.Fprintln(w)
		printRecordsText(w, rep.Commands)
	}

	if len(rep.Sequences) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("    Sequenzen:"))
		for _, seq := range rep.Sequences {
			printSequenceText(w, seq)
		}
	}
}

func printSequenceText(w io.Writer, seq ast.SequenceRecord) {
	tool := ""
	if seq.HasToolCall {
		tool = okStyle.Render(" [Werkzeug]")
	}
	// %-24s counts bytes, names may carry umlauts
	name := stringx.Truncate(stringx.Deref(seq.Name, ""), 24, "...")
	fmt.Fprintf(w, "    %3d  FEATNO %s %s %4d Zeilen %4d GOTO%s\n",
		seq.Index, stringx.PadRight(stringx.Deref(seq.FeatureNumber, "-"), 6, ' '),
		stringx.PadRight(name, 24, ' '),
		seq.LineCount, seq.GotoCount, tool)
	if len(seq.Commands) > 0 {
		printRecordsText(w, seq.Commands)
	}
}

func printRecordsText(w io.Writer, records []ast.Record) {
	for _, rec := range records {
		kind := kindStyle.Render(rec.Kind)
		if rec.Kind == ast.KindUnknown.String() {
			kind = errorStyle.Width(12).Render(rec.Kind)
		}
		fmt.Fprintf(w, "%s  %s %s\n", lineNoStyle.Render(fmt.Sprint(rec.Line)), kind, rec.Raw)
	}
}
