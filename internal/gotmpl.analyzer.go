package internal

import (
	"fmt"

	"go.uber.org/zap"
)

// Certainty describes whether an access always happens when the template
// renders or only under some branch.
type Certainty string

// Certainty levels
const (
	CertaintyAlways      Certainty = "always"
	CertaintyConditional Certainty = "conditional"
)

// Access kind constants
const (
	AccessKindField    = "field"
	AccessKindVariable = "variable"
	AccessKindDot      = "dot"
)

// Issue severity constants
const (
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Analysis issue message constants
const (
	IssueMsgUnknownFunction = "function not registered"
	IssueMsgEmptyBranch     = "control branch has empty body"
)

// FunctionCall records one helper invocation site.
type FunctionCall struct {
	Name     string
	Position Position
	Span     Span
	Known    bool
}

// VariableAccess records one data or variable access site.
type VariableAccess struct {
	Path      string
	Kind      string
	Position  Position
	Span      Span
	Certainty Certainty
}

// ControlUsage records one control construct.
type ControlUsage struct {
	Keyword  string
	Position Position
	Span     Span
	HasElse  bool
}

// AnalysisIssue is a non-fatal finding. Analysis never fails; issues are
// advisory only.
type AnalysisIssue struct {
	Severity string
	Message  string
	Name     string
	Position Position
	Span     Span
}

// Analysis is the static inventory of a parsed template.
type Analysis struct {
	Functions []FunctionCall
	Variables []VariableAccess
	Controls  []ControlUsage
	Issues    []AnalysisIssue
	Comments  int
	TextBytes int
}

// Analyzer performs a read-only walk over a parsed tree. It needs no data
// context; a nil function lookup disables unknown-function findings.
type Analyzer struct {
	funcs  FuncLookup
	logger *zap.Logger
}

// NewAnalyzer creates an analyzer. funcs may be nil.
func NewAnalyzer(funcs FuncLookup, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		funcs:  funcs,
		logger: logger,
	}
}

// Analyze walks the tree and returns its static inventory.
func (a *Analyzer) Analyze(root *ListNode) *Analysis {
	a.logger.Debug(LogMsgAnalyzeStart)
	analysis := &Analysis{}
	a.walkList(analysis, root, CertaintyAlways)
	a.logger.Debug(LogMsgAnalyzeEnd,
		zap.Int(LogFieldFunctions, len(analysis.Functions)),
		zap.Int(LogFieldNodes, len(analysis.Variables)))
	return analysis
}

func (a *Analyzer) walkList(analysis *Analysis, list *ListNode, certainty Certainty) {
	for _, node := range list.Nodes {
		a.walkNode(analysis, node, certainty)
	}
}

func (a *Analyzer) walkNode(analysis *Analysis, node Node, certainty Certainty) {
	switch n := node.(type) {
	case *TextNode:
		analysis.TextBytes += len(n.Text)

	case *CommentNode:
		analysis.Comments++

	case *ActionNode:
		a.walkPipe(analysis, n.Pipe, certainty)

	case *IfNode:
		a.walkBranch(analysis, &n.BranchNode, KeywordIf, certainty)

	case *RangeNode:
		a.walkBranch(analysis, &n.BranchNode, KeywordRange, certainty)

	case *WithNode:
		a.walkBranch(analysis, &n.BranchNode, KeywordWith, certainty)
	}
}

func (a *Analyzer) walkBranch(analysis *Analysis, branch *BranchNode, keyword string, certainty Certainty) {
	analysis.Controls = append(analysis.Controls, ControlUsage{
		Keyword:  keyword,
		Position: branch.Position,
		Span:     branch.ByteSpan,
		HasElse:  branch.ElseList != nil,
	})

	a.walkPipe(analysis, branch.Pipe, certainty)

	if len(branch.List.Nodes) == 0 {
		analysis.Issues = append(analysis.Issues, AnalysisIssue{
			Severity: SeverityInfo,
			Message:  IssueMsgEmptyBranch,
			Name:     keyword,
			Position: branch.Position,
			Span:     branch.ByteSpan,
		})
	}

	a.walkList(analysis, branch.List, CertaintyConditional)
	if branch.ElseList != nil {
		a.walkList(analysis, branch.ElseList, CertaintyConditional)
	}
}

func (a *Analyzer) walkPipe(analysis *Analysis, pipe *PipeNode, certainty Certainty) {
	for _, cmd := range pipe.Cmds {
		for _, arg := range cmd.Args {
			a.walkExpr(analysis, arg, certainty)
		}
	}
}

func (a *Analyzer) walkExpr(analysis *Analysis, node Node, certainty Certainty) {
	switch n := node.(type) {
	case *IdentifierNode:
		known := true
		if a.funcs != nil {
			known = a.funcs.Has(n.Name)
		}
		analysis.Functions = append(analysis.Functions, FunctionCall{
			Name:     n.Name,
			Position: n.Position,
			Span:     n.ByteSpan,
			Known:    known,
		})
		if !known {
			analysis.Issues = append(analysis.Issues, AnalysisIssue{
				Severity: SeverityWarning,
				Message:  IssueMsgUnknownFunction,
				Name:     n.Name,
				Position: n.Position,
				Span:     n.ByteSpan,
			})
		}

	case *FieldNode:
		analysis.Variables = append(analysis.Variables, VariableAccess{
			Path:      n.String(),
			Kind:      AccessKindField,
			Position:  n.Position,
			Span:      n.ByteSpan,
			Certainty: certainty,
		})

	case *VariableNode:
		analysis.Variables = append(analysis.Variables, VariableAccess{
			Path:      n.String(),
			Kind:      AccessKindVariable,
			Position:  n.Position,
			Span:      n.ByteSpan,
			Certainty: certainty,
		})

	case *DotNode:
		analysis.Variables = append(analysis.Variables, VariableAccess{
			Path:      n.String(),
			Kind:      AccessKindDot,
			Position:  n.Position,
			Span:      n.ByteSpan,
			Certainty: certainty,
		})

	case *SubPipeNode:
		a.walkPipe(analysis, n.Pipe, certainty)
	}
}

// String returns a one-line summary of the analysis.
func (a *Analysis) String() string {
	return fmt.Sprintf("functions=%d variables=%d controls=%d issues=%d",
		len(a.Functions), len(a.Variables), len(a.Controls), len(a.Issues))
}
