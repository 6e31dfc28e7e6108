// File: record.go
// Title: Command Records
// Description: Flat, serialisable view of commands for JSON/YAML output and
//              for the run store payload column.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package ast

// Record is the serialisable form of a Command
type Record struct {
	Line    int                    `json:"line" yaml:"line"`
	Kind    string                 `json:"kind" yaml:"kind"`
	Raw     string                 `json:"raw" yaml:"raw"`
	Comment string                 `json:"comment,omitempty" yaml:"comment,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// SequenceRecord is the serialisable form of a Sequence
type SequenceRecord struct {
	Index         int      `json:"index" yaml:"index"`
	Name          *string  `json:"name,omitempty" yaml:"name,omitempty"`
	FeatureNumber *string  `json:"feature_number,omitempty" yaml:"feature_number,omitempty"`
	HasToolCall   bool     `json:"has_tool_call" yaml:"has_tool_call"`
	LineCount     int      `json:"line_count" yaml:"line_count"`
	GotoCount     int      `json:"goto_count" yaml:"goto_count"`
	Commands      []Record `json:"commands,omitempty" yaml:"commands,omitempty"`
}

// ToRecord flattens cmd
func ToRecord(cmd Command) Record {
	b := cmd.Base()
	return Record{
		Line:    b.LineNo,
		Kind:    cmd.Kind().String(),
		Raw:     b.RawLine,
		Comment: b.Comment,
		Payload: Payload(cmd),
	}
}

// ToRecords flattens a command list
func ToRecords(cmds []Command) []Record {
	records := make([]Record, 0, len(cmds))
	for _, c := range cmds {
		records = append(records, ToRecord(c))
	}
	return records
}

// ToSequenceRecord flattens seq; commands are included when withCommands is set
func ToSequenceRecord(index int, seq *Sequence, withCommands bool) SequenceRecord {
	rec := SequenceRecord{
		Index:         index,
		Name:          seq.Name,
		FeatureNumber: seq.FeatureNumber,
		HasToolCall:   seq.HasToolCall,
		LineCount:     seq.Len(),
		GotoCount:     seq.GotoCount(),
	}
	if withCommands {
		rec.Commands = ToRecords(seq.Lines)
	}
	return rec
}

// Payload returns the variant specific fields of cmd, nil when there are none
func Payload(cmd Command) map[string]interface{} {
	switch c := cmd.(type) {
	case *Unknown:
		return map[string]interface{}{"reason": c.Reason.String()}
	case *Global:
		return map[string]interface{}{"directive": c.Directive}
	case *LoadTool:
		return map[string]interface{}{"tool_no": c.ToolNo}
	case *SpindleRPM:
		return map[string]interface{}{"rpm": c.RPM}
	case *FeedRate:
		p := map[string]interface{}{"rate": c.Rate}
		if c.Unit != nil {
			p["unit"] = c.Unit.String()
		}
		return p
	case *Goto:
		return map[string]interface{}{"x": c.X, "y": c.Y, "z": c.Z}
	case *Circle:
		return map[string]interface{}{
			"x": c.X, "y": c.Y, "z": c.Z,
			"i": c.I, "j": c.J, "k": c.K, "r": c.R,
		}
	case *CycleDrill:
		return map[string]interface{}{"args": c.Args.Map()}
	case *CycleDeep:
		return map[string]interface{}{"args": c.Args.Map()}
	case *FeatureMarker:
		p := map[string]interface{}{"feature_number": c.FeatureNumber, "rule": c.Rule}
		if c.Name != "" {
			p["name"] = c.Name
		}
		return p
	}
	return nil
}
