package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFuncs is a minimal FuncLookup for parser tests.
type stubFuncs map[string]bool

func (s stubFuncs) Has(name string) bool { return s[name] }

func parserFuncs() stubFuncs {
	return stubFuncs{
		"eq": true, "ne": true, "lt": true, "le": true, "gt": true, "ge": true,
		"print": true, "coalesce": true, "title": true, "upper": true,
		"len": true, "not": true,
	}
}

func parseSource(t *testing.T, source string) (*ListNode, error) {
	t.Helper()
	lexer := NewLexer(source, nil)
	items, err := lexer.Lex()
	require.NoError(t, err)
	return NewParser(items, parserFuncs(), nil).Parse()
}

func TestParserTextOnly(t *testing.T) {
	root, err := parseSource(t, "plain text, no actions")
	require.NoError(t, err)
	require.Len(t, root.Nodes, 1)

	text, ok := root.Nodes[0].(*TextNode)
	require.True(t, ok)
	assert.Equal(t, "plain text, no actions", text.Text)
}

func TestParserSimplePipeline(t *testing.T) {
	root, err := parseSource(t, `{{ coalesce .name "friend" | title }}`)
	require.NoError(t, err)
	require.Len(t, root.Nodes, 1)

	action, ok := root.Nodes[0].(*ActionNode)
	require.True(t, ok)
	require.Len(t, action.Pipe.Cmds, 2)

	first := action.Pipe.Cmds[0]
	require.Len(t, first.Args, 3)
	assert.Equal(t, "coalesce", first.Args[0].(*IdentifierNode).Name)
	assert.Equal(t, []string{"name"}, first.Args[1].(*FieldNode).Path)
	assert.Equal(t, "friend", first.Args[2].(*StringNode).Value)

	second := action.Pipe.Cmds[1]
	require.Len(t, second.Args, 1)
	assert.Equal(t, "title", second.Args[0].(*IdentifierNode).Name)
}

func TestParserDeclaration(t *testing.T) {
	root, err := parseSource(t, `{{ $x := .y }}`)
	require.NoError(t, err)

	action := root.Nodes[0].(*ActionNode)
	require.Len(t, action.Pipe.Decl, 1)
	assert.Equal(t, "x", action.Pipe.Decl[0].Name)
	assert.False(t, action.Pipe.IsAssign)
}

func TestParserAssignment(t *testing.T) {
	root, err := parseSource(t, `{{ $x = .y }}`)
	require.NoError(t, err)

	action := root.Nodes[0].(*ActionNode)
	require.Len(t, action.Pipe.Decl, 1)
	assert.True(t, action.Pipe.IsAssign)
}

func TestParserControlStructures(t *testing.T) {
	root, err := parseSource(t, `{{if .a}}x{{else}}y{{end}}{{with .b}}z{{end}}{{range .c}}w{{end}}`)
	require.NoError(t, err)
	require.Len(t, root.Nodes, 3)

	ifNode, ok := root.Nodes[0].(*IfNode)
	require.True(t, ok)
	require.Len(t, ifNode.List.Nodes, 1)
	require.NotNil(t, ifNode.ElseList)
	assert.Equal(t, "y", ifNode.ElseList.Nodes[0].(*TextNode).Text)

	withNode, ok := root.Nodes[1].(*WithNode)
	require.True(t, ok)
	assert.Nil(t, withNode.ElseList)

	rangeNode, ok := root.Nodes[2].(*RangeNode)
	require.True(t, ok)
	assert.Equal(t, "w", rangeNode.List.Nodes[0].(*TextNode).Text)
}

func TestParserNestedControls(t *testing.T) {
	root, err := parseSource(t, `{{range .xs}}{{if .ok}}y{{end}}{{end}}`)
	require.NoError(t, err)
	require.Len(t, root.Nodes, 1)

	rangeNode := root.Nodes[0].(*RangeNode)
	require.Len(t, rangeNode.List.Nodes, 1)
	_, ok := rangeNode.List.Nodes[0].(*IfNode)
	assert.True(t, ok)
}

func TestParserControlSpanIncludesEnd(t *testing.T) {
	source := `{{if .a}}x{{end}}`
	root, err := parseSource(t, source)
	require.NoError(t, err)

	ifNode := root.Nodes[0].(*IfNode)
	assert.Equal(t, 0, ifNode.ByteSpan.Start)
	assert.Equal(t, len(source), ifNode.ByteSpan.End)
}

func TestParserOperatorRewrite(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{`{{if .a == .b}}x{{end}}`, "eq"},
		{`{{if .a != .b}}x{{end}}`, "ne"},
		{`{{if .a < .b}}x{{end}}`, "lt"},
		{`{{if .a <= .b}}x{{end}}`, "le"},
		{`{{if .a > .b}}x{{end}}`, "gt"},
		{`{{if .a >= .b}}x{{end}}`, "ge"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			root, err := parseSource(t, tt.source)
			require.NoError(t, err)

			ifNode := root.Nodes[0].(*IfNode)
			cmd := ifNode.Pipe.Cmds[0]
			require.Len(t, cmd.Args, 3)
			assert.Equal(t, tt.want, cmd.Args[0].(*IdentifierNode).Name)
		})
	}
}

func TestParserTwoVariableRange(t *testing.T) {
	root, err := parseSource(t, `{{range $i, $v := .List}}{{$i}}:{{$v}} {{end}}`)
	require.NoError(t, err)

	rangeNode := root.Nodes[0].(*RangeNode)
	require.Len(t, rangeNode.Pipe.Decl, 2)
	assert.Equal(t, "i", rangeNode.Pipe.Decl[0].Name)
	assert.Equal(t, "v", rangeNode.Pipe.Decl[1].Name)
}

func TestParserSubPipeline(t *testing.T) {
	root, err := parseSource(t, `{{ not (eq .a 1) }}`)
	require.NoError(t, err)

	action := root.Nodes[0].(*ActionNode)
	cmd := action.Pipe.Cmds[0]
	require.Len(t, cmd.Args, 2)

	sub, ok := cmd.Args[1].(*SubPipeNode)
	require.True(t, ok)
	assert.Equal(t, "eq", sub.Pipe.Cmds[0].Args[0].(*IdentifierNode).Name)
}

func TestParserUnknownFunction(t *testing.T) {
	_, err := parseSource(t, `a {{ frobnicate .x }} b`)
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, ParseUnknownFunction, parseErr.Kind)
	assert.Equal(t, "frobnicate", parseErr.Name)
	assert.Equal(t, 5, parseErr.Span.Start)
	assert.Equal(t, 15, parseErr.Span.End)
}

func TestParserOperatorRequiresRegisteredHelper(t *testing.T) {
	lexer := NewLexer(`{{if .a == .b}}x{{end}}`, nil)
	items, err := lexer.Lex()
	require.NoError(t, err)

	_, err = NewParser(items, stubFuncs{}, nil).Parse()
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, ParseUnknownFunction, parseErr.Kind)
	assert.Equal(t, "eq", parseErr.Name)
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		kind   ParseErrorKind
	}{
		{"empty action", `{{}}`, ParseMalformedPipeline},
		{"dangling pipe", `{{ .x | }}`, ParseMalformedPipeline},
		{"leading pipe", `{{ | upper }}`, ParseMalformedPipeline},
		{"unexpected else", `{{else}}`, ParseMalformedPipeline},
		{"unexpected end", `{{end}}`, ParseMalformedPipeline},
		{"unclosed if", `{{if .a}}x`, ParseMalformedPipeline},
		{"double else", `{{if .a}}x{{else}}y{{else}}z{{end}}`, ParseMalformedPipeline},
		{"unclosed paren", `{{ not (eq .a 1 }}`, ParseMalformedPipeline},
		{"stray close paren", `{{ upper .a) }}`, ParseMalformedPipeline},
		{"else if", `{{if .a}}x{{else if .b}}y{{end}}`, ParseUnsupportedConstruct},
		{"define", `{{define "x"}}y{{end}}`, ParseUnsupportedConstruct},
		{"template", `{{template "x"}}`, ParseUnsupportedConstruct},
		{"block", `{{block "x" .}}y{{end}}`, ParseUnsupportedConstruct},
		{"three-variable declaration", `{{range $a, $b, $c := .xs}}{{end}}`, ParseMultipleDeclarationMismatch},
		{"two-variable declaration outside range", `{{ $a, $b := .x }}`, ParseMultipleDeclarationMismatch},
		{"two-variable if declaration", `{{if $a, $b := .x}}y{{end}}`, ParseMultipleDeclarationMismatch},
		{"declaration inside parens", `{{ print ($x := 1) }}`, ParseMalformedPipeline},
		{"chained comparison", `{{if .a == .b == .c}}x{{end}}`, ParseMalformedPipeline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSource(t, tt.source)
			require.Error(t, err)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.kind, parseErr.Kind)
		})
	}
}

func TestParserCanonicalString(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{`{{ coalesce .name "friend" | title }}`, `{{coalesce .name "friend" | title}}`},
		{`{{if .a}}x{{else}}y{{end}}`, `{{if .a}}x{{else}}y{{end}}`},
		{`{{range  $i, $v := .List}}{{$i}}{{end}}`, `{{range $i, $v := .List}}{{$i}}{{end}}`},
		{`{{ not (eq .a 1) }}`, `{{not (eq .a 1)}}`},
		{`{{if .a == .b}}x{{end}}`, `{{if eq .a .b}}x{{end}}`},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			root, err := parseSource(t, tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, root.String())

			// Canonical form parses back to the same canonical form.
			again, err := parseSource(t, root.String())
			require.NoError(t, err)
			assert.Equal(t, tt.want, again.String())
		})
	}
}
