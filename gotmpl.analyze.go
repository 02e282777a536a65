package gotmpl

import (
	"github.com/itsatony/go-gotmpl/internal"
)

// Position is a location in template source.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span is a half-open byte range in template source.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Certainty levels for variable accesses
const (
	CertaintyAlways      = string(internal.CertaintyAlways)
	CertaintyConditional = string(internal.CertaintyConditional)
)

// Issue severity levels
const (
	SeverityWarning = internal.SeverityWarning
	SeverityInfo    = internal.SeverityInfo
)

// FunctionCall is one helper invocation site found by analysis.
type FunctionCall struct {
	Name     string   `json:"name"`
	Position Position `json:"position"`
	Span     Span     `json:"span"`
	Known    bool     `json:"known"`
}

// VariableAccess is one data or variable access site found by analysis.
type VariableAccess struct {
	Path      string   `json:"path"`
	Kind      string   `json:"kind"`
	Position  Position `json:"position"`
	Span      Span     `json:"span"`
	Certainty string   `json:"certainty"`
}

// ControlUsage is one control construct found by analysis.
type ControlUsage struct {
	Keyword  string   `json:"keyword"`
	Position Position `json:"position"`
	Span     Span     `json:"span"`
	HasElse  bool     `json:"has_else"`
}

// Issue is a non-fatal analysis finding.
type Issue struct {
	Severity string   `json:"severity"`
	Message  string   `json:"message"`
	Name     string   `json:"name,omitempty"`
	Position Position `json:"position"`
	Span     Span     `json:"span"`
}

// Analysis is the static inventory of a parsed template: every helper
// call, data access, and control construct, plus advisory issues. Analysis
// requires no data context and never fails.
type Analysis struct {
	Functions []FunctionCall   `json:"functions"`
	Variables []VariableAccess `json:"variables"`
	Controls  []ControlUsage   `json:"controls"`
	Issues    []Issue          `json:"issues"`
	Comments  int              `json:"comments"`
	TextBytes int              `json:"text_bytes"`
}

// newAnalysis converts the internal analysis into its public form.
func newAnalysis(a *internal.Analysis) *Analysis {
	analysis := &Analysis{
		Comments:  a.Comments,
		TextBytes: a.TextBytes,
	}

	for _, call := range a.Functions {
		analysis.Functions = append(analysis.Functions, FunctionCall{
			Name:     call.Name,
			Position: newPosition(call.Position),
			Span:     newSpan(call.Span),
			Known:    call.Known,
		})
	}
	for _, access := range a.Variables {
		analysis.Variables = append(analysis.Variables, VariableAccess{
			Path:      access.Path,
			Kind:      access.Kind,
			Position:  newPosition(access.Position),
			Span:      newSpan(access.Span),
			Certainty: string(access.Certainty),
		})
	}
	for _, control := range a.Controls {
		analysis.Controls = append(analysis.Controls, ControlUsage{
			Keyword:  control.Keyword,
			Position: newPosition(control.Position),
			Span:     newSpan(control.Span),
			HasElse:  control.HasElse,
		})
	}
	for _, issue := range a.Issues {
		analysis.Issues = append(analysis.Issues, Issue{
			Severity: issue.Severity,
			Message:  issue.Message,
			Name:     issue.Name,
			Position: newPosition(issue.Position),
			Span:     newSpan(issue.Span),
		})
	}

	return analysis
}

func newPosition(p internal.Position) Position {
	return Position{Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func newSpan(s internal.Span) Span {
	return Span{Start: s.Start, End: s.End}
}
