package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, source string, funcs FuncLookup) *Analysis {
	t.Helper()
	lexer := NewLexer(source, nil)
	items, err := lexer.Lex()
	require.NoError(t, err)

	root, err := NewParser(items, parserFuncs(), nil).Parse()
	require.NoError(t, err)

	return NewAnalyzer(funcs, nil).Analyze(root)
}

func TestAnalyzerInventory(t *testing.T) {
	source := `hello {{ coalesce .name "friend" | title }}{{if .ok}}{{.a.b}}{{end}}{{/* note */}}`
	analysis := analyze(t, source, parserFuncs())

	require.Len(t, analysis.Functions, 2)
	assert.Equal(t, "coalesce", analysis.Functions[0].Name)
	assert.True(t, analysis.Functions[0].Known)
	assert.Equal(t, "title", analysis.Functions[1].Name)

	require.Len(t, analysis.Variables, 3)
	assert.Equal(t, ".name", analysis.Variables[0].Path)
	assert.Equal(t, AccessKindField, analysis.Variables[0].Kind)
	assert.Equal(t, CertaintyAlways, analysis.Variables[0].Certainty)
	assert.Equal(t, ".ok", analysis.Variables[1].Path)
	assert.Equal(t, ".a.b", analysis.Variables[2].Path)
	assert.Equal(t, CertaintyConditional, analysis.Variables[2].Certainty)

	require.Len(t, analysis.Controls, 1)
	assert.Equal(t, KeywordIf, analysis.Controls[0].Keyword)
	assert.False(t, analysis.Controls[0].HasElse)

	assert.Equal(t, 1, analysis.Comments)
	assert.Equal(t, len("hello "), analysis.TextBytes)
	assert.Empty(t, analysis.Issues)
}

func TestAnalyzerUnknownFunctionIsWarningNotFailure(t *testing.T) {
	// The analyzer's lookup differs from the parser's: names absent from it
	// become warnings, never errors.
	analysis := analyze(t, `{{ title .x }}`, stubFuncs{})

	require.Len(t, analysis.Functions, 1)
	assert.False(t, analysis.Functions[0].Known)

	require.Len(t, analysis.Issues, 1)
	assert.Equal(t, SeverityWarning, analysis.Issues[0].Severity)
	assert.Equal(t, IssueMsgUnknownFunction, analysis.Issues[0].Message)
	assert.Equal(t, "title", analysis.Issues[0].Name)
}

func TestAnalyzerNilLookupDisablesWarnings(t *testing.T) {
	analysis := analyze(t, `{{ title .x }}`, nil)
	assert.True(t, analysis.Functions[0].Known)
	assert.Empty(t, analysis.Issues)
}

func TestAnalyzerVariableAccesses(t *testing.T) {
	analysis := analyze(t, `{{range $i, $v := .xs}}{{$v.name}}{{.}}{{end}}`, parserFuncs())

	var kinds []string
	var paths []string
	for _, access := range analysis.Variables {
		kinds = append(kinds, access.Kind)
		paths = append(paths, access.Path)
	}
	assert.Equal(t, []string{AccessKindField, AccessKindVariable, AccessKindDot}, kinds)
	assert.Equal(t, []string{".xs", "$v.name", "."}, paths)
}

func TestAnalyzerEmptyBranchIssue(t *testing.T) {
	analysis := analyze(t, `{{if .a}}{{end}}`, parserFuncs())

	require.Len(t, analysis.Issues, 1)
	assert.Equal(t, SeverityInfo, analysis.Issues[0].Severity)
	assert.Equal(t, IssueMsgEmptyBranch, analysis.Issues[0].Message)
}

func TestAnalyzerNestedCertainty(t *testing.T) {
	analysis := analyze(t, `{{.top}}{{if .a}}{{if .b}}{{.deep}}{{end}}{{end}}`, parserFuncs())

	byPath := make(map[string]Certainty)
	for _, access := range analysis.Variables {
		byPath[access.Path] = access.Certainty
	}
	assert.Equal(t, CertaintyAlways, byPath[".top"])
	assert.Equal(t, CertaintyAlways, byPath[".a"])
	assert.Equal(t, CertaintyConditional, byPath[".b"])
	assert.Equal(t, CertaintyConditional, byPath[".deep"])
}
