package internal

import (
	"strconv"
	"strings"
)

// NodeType identifies the type of an AST node
type NodeType int

// Node types
const (
	NodeTypeList NodeType = iota
	NodeTypeText
	NodeTypeComment
	NodeTypeAction
	NodeTypeIf
	NodeTypeRange
	NodeTypeWith
	NodeTypePipe
	NodeTypeCommand
	NodeTypeIdentifier
	NodeTypeField
	NodeTypeVariable
	NodeTypeDot
	NodeTypeString
	NodeTypeNumber
	NodeTypeBool
	NodeTypeNil
)

// Node is the interface implemented by all AST nodes. Nodes are immutable
// after parsing; a tree may be rendered concurrently without synchronization.
type Node interface {
	// Type returns the node type
	Type() NodeType

	// Pos returns the source position where this node starts
	Pos() Position

	// Span returns the byte span this node covers, including delimiters
	// and trim markers for action-level nodes
	Span() Span

	// String returns the canonical template representation of the node
	String() string
}

// NodeInfo carries the source location shared by all nodes.
type NodeInfo struct {
	Position Position
	ByteSpan Span
}

// Pos returns the source position where this node starts
func (n NodeInfo) Pos() Position { return n.Position }

// Span returns the byte span this node covers
func (n NodeInfo) Span() Span { return n.ByteSpan }

// ListNode is an ordered sequence of nodes.
type ListNode struct {
	NodeInfo
	Nodes []Node
}

// Type returns the node type
func (n *ListNode) Type() NodeType { return NodeTypeList }

// String returns the canonical template representation
func (n *ListNode) String() string {
	var sb strings.Builder
	for _, node := range n.Nodes {
		sb.WriteString(node.String())
	}
	return sb.String()
}

// NewListNode creates an empty list node
func NewListNode(info NodeInfo) *ListNode {
	return &ListNode{NodeInfo: info}
}

// TextNode is literal output text.
type TextNode struct {
	NodeInfo
	Text string
}

// Type returns the node type
func (n *TextNode) Type() NodeType { return NodeTypeText }

// String returns the canonical template representation
func (n *TextNode) String() string { return n.Text }

// NewTextNode creates a text node
func NewTextNode(text string, info NodeInfo) *TextNode {
	return &TextNode{NodeInfo: info, Text: text}
}

// CommentNode is a {{/* ... */}} comment. It produces no output but is kept
// in the tree for analysis and canonicalization.
type CommentNode struct {
	NodeInfo
	Text string
}

// Type returns the node type
func (n *CommentNode) Type() NodeType { return NodeTypeComment }

// String returns the canonical template representation
func (n *CommentNode) String() string {
	return StrOpenDelim + StrCommentOpen + n.Text + StrCommentClose + StrCloseDelim
}

// NewCommentNode creates a comment node
func NewCommentNode(text string, info NodeInfo) *CommentNode {
	return &CommentNode{NodeInfo: info, Text: text}
}

// ActionNode is a {{pipeline}} output action.
type ActionNode struct {
	NodeInfo
	Pipe *PipeNode
}

// Type returns the node type
func (n *ActionNode) Type() NodeType { return NodeTypeAction }

// String returns the canonical template representation
func (n *ActionNode) String() string {
	return StrOpenDelim + n.Pipe.String() + StrCloseDelim
}

// NewActionNode creates an action node
func NewActionNode(pipe *PipeNode, info NodeInfo) *ActionNode {
	return &ActionNode{NodeInfo: info, Pipe: pipe}
}

// BranchNode is the common shape of if, range, and with nodes.
type BranchNode struct {
	NodeInfo
	Pipe     *PipeNode
	List     *ListNode
	ElseList *ListNode // nil when no else branch
}

// IfNode is a {{if pipeline}}...{{else}}...{{end}} action.
type IfNode struct {
	BranchNode
}

// Type returns the node type
func (n *IfNode) Type() NodeType { return NodeTypeIf }

// String returns the canonical template representation
func (n *IfNode) String() string { return n.branchString(KeywordIf) }

// NewIfNode creates an if node
func NewIfNode(pipe *PipeNode, info NodeInfo) *IfNode {
	return &IfNode{BranchNode{NodeInfo: info, Pipe: pipe}}
}

// RangeNode is a {{range pipeline}}...{{else}}...{{end}} action.
type RangeNode struct {
	BranchNode
}

// Type returns the node type
func (n *RangeNode) Type() NodeType { return NodeTypeRange }

// String returns the canonical template representation
func (n *RangeNode) String() string { return n.branchString(KeywordRange) }

// NewRangeNode creates a range node
func NewRangeNode(pipe *PipeNode, info NodeInfo) *RangeNode {
	return &RangeNode{BranchNode{NodeInfo: info, Pipe: pipe}}
}

// WithNode is a {{with pipeline}}...{{else}}...{{end}} action.
type WithNode struct {
	BranchNode
}

// Type returns the node type
func (n *WithNode) Type() NodeType { return NodeTypeWith }

// String returns the canonical template representation
func (n *WithNode) String() string { return n.branchString(KeywordWith) }

// NewWithNode creates a with node
func NewWithNode(pipe *PipeNode, info NodeInfo) *WithNode {
	return &WithNode{BranchNode{NodeInfo: info, Pipe: pipe}}
}

// branchString renders the canonical form of a branch construct.
func (n *BranchNode) branchString(keyword string) string {
	var sb strings.Builder
	sb.WriteString(StrOpenDelim)
	sb.WriteString(keyword)
	sb.WriteByte(CharSpace)
	sb.WriteString(n.Pipe.String())
	sb.WriteString(StrCloseDelim)
	sb.WriteString(n.List.String())
	if n.ElseList != nil {
		sb.WriteString(StrOpenDelim)
		sb.WriteString(KeywordElse)
		sb.WriteString(StrCloseDelim)
		sb.WriteString(n.ElseList.String())
	}
	sb.WriteString(StrOpenDelim)
	sb.WriteString(KeywordEnd)
	sb.WriteString(StrCloseDelim)
	return sb.String()
}

// PipeNode is a pipeline: an optional variable declaration followed by one
// or more commands connected with |.
type PipeNode struct {
	NodeInfo
	Decl     []*VariableNode
	IsAssign bool // true for =, false for :=
	Cmds     []*CommandNode
}

// Type returns the node type
func (n *PipeNode) Type() NodeType { return NodeTypePipe }

// String returns the canonical template representation
func (n *PipeNode) String() string {
	var sb strings.Builder
	if len(n.Decl) > 0 {
		for i, decl := range n.Decl {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(decl.String())
		}
		if n.IsAssign {
			sb.WriteString(" = ")
		} else {
			sb.WriteString(" := ")
		}
	}
	for i, cmd := range n.Cmds {
		if i > 0 {
			sb.WriteString(" | ")
		}
		sb.WriteString(cmd.String())
	}
	return sb.String()
}

// NewPipeNode creates a pipe node
func NewPipeNode(info NodeInfo) *PipeNode {
	return &PipeNode{NodeInfo: info}
}

// CommandNode is one stage of a pipeline: a lead expression plus arguments.
type CommandNode struct {
	NodeInfo
	Args []Node // Args[0] is the lead
}

// Type returns the node type
func (n *CommandNode) Type() NodeType { return NodeTypeCommand }

// String returns the canonical template representation
func (n *CommandNode) String() string {
	parts := make([]string, len(n.Args))
	for i, arg := range n.Args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}

// NewCommandNode creates a command node
func NewCommandNode(info NodeInfo) *CommandNode {
	return &CommandNode{NodeInfo: info}
}

// IdentifierNode is a bare identifier, always a function name.
type IdentifierNode struct {
	NodeInfo
	Name string
}

// Type returns the node type
func (n *IdentifierNode) Type() NodeType { return NodeTypeIdentifier }

// String returns the canonical template representation
func (n *IdentifierNode) String() string { return n.Name }

// NewIdentifierNode creates an identifier node
func NewIdentifierNode(name string, info NodeInfo) *IdentifierNode {
	return &IdentifierNode{NodeInfo: info, Name: name}
}

// FieldNode is a .a.b field path rooted at the current dot.
type FieldNode struct {
	NodeInfo
	Path []string
}

// Type returns the node type
func (n *FieldNode) Type() NodeType { return NodeTypeField }

// String returns the canonical template representation
func (n *FieldNode) String() string {
	return "." + strings.Join(n.Path, ".")
}

// NewFieldNode creates a field node
func NewFieldNode(path []string, info NodeInfo) *FieldNode {
	return &FieldNode{NodeInfo: info, Path: path}
}

// VariableNode is a $name reference with an optional attached field path.
// Name is empty for the root variable $.
type VariableNode struct {
	NodeInfo
	Name string
	Path []string
}

// Type returns the node type
func (n *VariableNode) Type() NodeType { return NodeTypeVariable }

// String returns the canonical template representation
func (n *VariableNode) String() string {
	var sb strings.Builder
	sb.WriteByte(CharDollar)
	sb.WriteString(n.Name)
	for _, seg := range n.Path {
		sb.WriteByte(CharDot)
		sb.WriteString(seg)
	}
	return sb.String()
}

// NewVariableNode creates a variable node
func NewVariableNode(name string, path []string, info NodeInfo) *VariableNode {
	return &VariableNode{NodeInfo: info, Name: name, Path: path}
}

// DotNode is the bare dot: the current context value.
type DotNode struct {
	NodeInfo
}

// Type returns the node type
func (n *DotNode) Type() NodeType { return NodeTypeDot }

// String returns the canonical template representation
func (n *DotNode) String() string { return "." }

// NewDotNode creates a dot node
func NewDotNode(info NodeInfo) *DotNode {
	return &DotNode{NodeInfo: info}
}

// StringNode is a string literal. Raw marks backtick-quoted literals.
type StringNode struct {
	NodeInfo
	Value string
	Raw   bool
}

// Type returns the node type
func (n *StringNode) Type() NodeType { return NodeTypeString }

// String returns the canonical template representation
func (n *StringNode) String() string {
	if n.Raw {
		return string(CharBacktick) + n.Value + string(CharBacktick)
	}
	return strconv.Quote(n.Value)
}

// NewStringNode creates a string literal node
func NewStringNode(value string, raw bool, info NodeInfo) *StringNode {
	return &StringNode{NodeInfo: info, Value: value, Raw: raw}
}

// NumberNode is a numeric literal, kept in both integer and float form.
type NumberNode struct {
	NodeInfo
	Text    string
	IsInt   bool
	Int64   int64
	Float64 float64
}

// Type returns the node type
func (n *NumberNode) Type() NodeType { return NodeTypeNumber }

// String returns the canonical template representation
func (n *NumberNode) String() string { return n.Text }

// NewNumberNode creates a number literal node from its source text.
func NewNumberNode(text string, info NodeInfo) (*NumberNode, error) {
	node := &NumberNode{NodeInfo: info, Text: text}
	if i, err := strconv.ParseInt(text, IntParseBase, IntParseBits); err == nil {
		node.IsInt = true
		node.Int64 = i
		node.Float64 = float64(i)
		return node, nil
	}
	f, err := strconv.ParseFloat(text, FloatBitSize)
	if err != nil {
		return nil, err
	}
	node.Float64 = f
	return node, nil
}

// BoolNode is a boolean literal.
type BoolNode struct {
	NodeInfo
	Value bool
}

// Type returns the node type
func (n *BoolNode) Type() NodeType { return NodeTypeBool }

// String returns the canonical template representation
func (n *BoolNode) String() string {
	if n.Value {
		return StrTrue
	}
	return StrFalse
}

// NewBoolNode creates a boolean literal node
func NewBoolNode(value bool, info NodeInfo) *BoolNode {
	return &BoolNode{NodeInfo: info, Value: value}
}

// NilNode is the nil literal.
type NilNode struct {
	NodeInfo
}

// Type returns the node type
func (n *NilNode) Type() NodeType { return NodeTypeNil }

// String returns the canonical template representation
func (n *NilNode) String() string { return KeywordNil }

// NewNilNode creates a nil literal node
func NewNilNode(info NodeInfo) *NilNode {
	return &NilNode{NodeInfo: info}
}

// SubPipeNode is a parenthesized pipeline used as an expression.
type SubPipeNode struct {
	NodeInfo
	Pipe *PipeNode
}

// Type returns the node type
func (n *SubPipeNode) Type() NodeType { return NodeTypePipe }

// String returns the canonical template representation
func (n *SubPipeNode) String() string {
	return string(CharLeftParen) + n.Pipe.String() + string(CharRightParen)
}

// NewSubPipeNode creates a parenthesized pipeline expression node
func NewSubPipeNode(pipe *PipeNode, info NodeInfo) *SubPipeNode {
	return &SubPipeNode{NodeInfo: info, Pipe: pipe}
}
