package internal

import (
	"strings"

	"go.uber.org/zap"
)

// Parser builds an AST from the lexer's item stream. It is parameterized by
// a function lookup so unknown function names are rejected at parse time.
// A parse either returns a complete tree or an error, never both.
type Parser struct {
	items  []Item
	funcs  FuncLookup
	logger *zap.Logger
}

// NewParser creates a parser over the given item stream
func NewParser(items []Item, funcs FuncLookup, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgParserCreated, zap.Int(LogFieldItems, len(items)))
	return &Parser{
		items:  items,
		funcs:  funcs,
		logger: logger,
	}
}

// controlFrame tracks one open if, range, or with construct.
type controlFrame struct {
	branch   *BranchNode
	keyword  string
	inElse   bool
	position Position
}

// Parse consumes the item stream and returns the root node list.
func (p *Parser) Parse() (*ListNode, error) {
	p.logger.Debug(LogMsgParseStart)

	root := NewListNode(NodeInfo{})
	targets := []*ListNode{root}
	var frames []*controlFrame

	for _, item := range p.items {
		target := targets[len(targets)-1]

		switch item.Type {
		case ItemTypeText:
			appendNode(target, NewTextNode(item.Value, itemInfo(item)))

		case ItemTypeComment:
			appendNode(target, NewCommentNode(item.Value, itemInfo(item)))

		case ItemTypeAction:
			newTargets, newFrames, err := p.parseAction(item, targets, frames)
			if err != nil {
				return nil, err
			}
			targets, frames = newTargets, newFrames
		}
	}

	if len(frames) > 0 {
		frame := frames[len(frames)-1]
		return nil, NewParseError(ParseMalformedPipeline, ErrMsgUnclosedControl,
			frame.keyword, frame.position, frame.branch.ByteSpan)
	}

	p.logger.Debug(LogMsgParseEnd, zap.Int(LogFieldNodes, len(root.Nodes)))
	return root, nil
}

// parseAction dispatches one action item: a control keyword or an output
// pipeline. Returns the updated target and frame stacks.
func (p *Parser) parseAction(item Item, targets []*ListNode, frames []*controlFrame) ([]*ListNode, []*controlFrame, error) {
	cursor := newTokenCursor(item.Tokens)
	first := cursor.peek()
	target := targets[len(targets)-1]

	if first.IsEOF() {
		return nil, nil, NewParseError(ParseMalformedPipeline, ErrMsgEmptyAction,
			"", item.Position, item.Span)
	}

	switch {
	case first.IsKeyword(KeywordIf), first.IsKeyword(KeywordRange), first.IsKeyword(KeywordWith):
		cursor.next()
		pipe, err := p.parsePipe(cursor, first.Value, false)
		if err != nil {
			return nil, nil, err
		}
		if err := cursor.expectEOF(); err != nil {
			return nil, nil, err
		}

		branch, node := newBranchNode(first.Value, pipe, itemInfo(item))
		branch.List = NewListNode(NodeInfo{})
		appendNode(target, node)
		targets = append(targets, branch.List)
		frames = append(frames, &controlFrame{
			branch:   branch,
			keyword:  first.Value,
			position: item.Position,
		})
		return targets, frames, nil

	case first.IsKeyword(KeywordElse):
		cursor.next()
		if next := cursor.peek(); next.IsKeyword(KeywordIf) {
			return nil, nil, NewParseError(ParseUnsupportedConstruct, ErrMsgElseIfUnsupported,
				KeywordElse+" "+KeywordIf, item.Position, item.Span)
		}
		if err := cursor.expectEOF(); err != nil {
			return nil, nil, err
		}
		if len(frames) == 0 {
			return nil, nil, NewParseError(ParseMalformedPipeline, ErrMsgUnexpectedElse,
				"", item.Position, item.Span)
		}
		frame := frames[len(frames)-1]
		if frame.inElse {
			return nil, nil, NewParseError(ParseMalformedPipeline, ErrMsgUnexpectedElse,
				"", item.Position, item.Span)
		}
		frame.inElse = true
		frame.branch.ElseList = NewListNode(NodeInfo{})
		targets[len(targets)-1] = frame.branch.ElseList
		return targets, frames, nil

	case first.IsKeyword(KeywordEnd):
		cursor.next()
		if err := cursor.expectEOF(); err != nil {
			return nil, nil, err
		}
		if len(frames) == 0 {
			return nil, nil, NewParseError(ParseMalformedPipeline, ErrMsgUnexpectedEnd,
				"", item.Position, item.Span)
		}
		frame := frames[len(frames)-1]
		frame.branch.ByteSpan.End = item.Span.End
		frames = frames[:len(frames)-1]
		targets = targets[:len(targets)-1]
		return targets, frames, nil

	default:
		if first.Type == TokenTypeIdent && isReservedConstruct(first.Value) {
			return nil, nil, NewParseError(ParseUnsupportedConstruct, ErrMsgConstructUnsupported,
				first.Value, first.Position, item.Span)
		}
		pipe, err := p.parsePipe(cursor, "", false)
		if err != nil {
			return nil, nil, err
		}
		if err := cursor.expectEOF(); err != nil {
			return nil, nil, err
		}
		appendNode(target, NewActionNode(pipe, itemInfo(item)))
		return targets, frames, nil
	}
}

// parsePipe parses a pipeline: an optional declaration followed by commands
// separated by |. When insideParens is set, parsing stops at the matching
// right parenthesis, which is consumed.
func (p *Parser) parsePipe(cursor *tokenCursor, context string, insideParens bool) (*PipeNode, error) {
	start := cursor.peek()
	pipe := NewPipeNode(NodeInfo{
		Position: start.Position,
		ByteSpan: start.Span,
	})

	if err := p.parseDeclaration(cursor, pipe, context); err != nil {
		return nil, err
	}
	if insideParens && len(pipe.Decl) > 0 {
		return nil, NewParseError(ParseMalformedPipeline, ErrMsgUnexpectedToken,
			pipe.Decl[0].String(), pipe.Decl[0].Position, pipe.Decl[0].ByteSpan)
	}

	for {
		cmd, err := p.parseCommand(cursor, insideParens)
		if err != nil {
			return nil, err
		}
		pipe.Cmds = append(pipe.Cmds, cmd)
		pipe.ByteSpan.End = cmd.ByteSpan.End

		tok := cursor.peek()
		switch {
		case tok.IsEOF():
			if insideParens {
				return nil, NewParseError(ParseMalformedPipeline, ErrMsgUnclosedParen,
					"", tok.Position, tok.Span)
			}
			return pipe, nil
		case tok.Type == TokenTypeRightParen:
			if insideParens {
				cursor.next()
				pipe.ByteSpan.End = tok.Span.End
				return pipe, nil
			}
			return nil, NewParseError(ParseMalformedPipeline, ErrMsgUnexpectedToken,
				tok.Text, tok.Position, tok.Span)
		case tok.Type == TokenTypePipe:
			cursor.next()
		default:
			return nil, NewParseError(ParseMalformedPipeline, ErrMsgUnexpectedToken,
				tok.Text, tok.Position, tok.Span)
		}
	}
}

// parseDeclaration consumes a leading $a, $b := / = declaration when one is
// present. Declarations of more than two variables, and two-variable
// declarations outside range, are rejected.
func (p *Parser) parseDeclaration(cursor *tokenCursor, pipe *PipeNode, context string) error {
	if !cursor.looksLikeDeclaration() {
		return nil
	}

	var decl []*VariableNode
	for {
		tok := cursor.next()
		if tok.Type != TokenTypeVariable {
			return NewParseError(ParseMalformedPipeline, ErrMsgExpectedVariable,
				tok.Text, tok.Position, tok.Span)
		}
		name, path := splitVariable(tok.Value)
		if len(path) > 0 || name == "" {
			return NewParseError(ParseMalformedPipeline, ErrMsgExpectedVariable,
				tok.Text, tok.Position, tok.Span)
		}
		decl = append(decl, NewVariableNode(name, nil, tokenInfo(tok)))

		sep := cursor.next()
		switch sep.Type {
		case TokenTypeComma:
			continue
		case TokenTypeDeclare, TokenTypeAssign:
			if len(decl) > MaxDeclVars {
				return NewParseError(ParseMultipleDeclarationMismatch, ErrMsgTooManyDeclVars,
					"", decl[0].Position, Span{Start: decl[0].ByteSpan.Start, End: sep.Span.End})
			}
			if len(decl) == MaxDeclVars && context != KeywordRange {
				return NewParseError(ParseMultipleDeclarationMismatch, ErrMsgTwoVarOutsideRange,
					"", decl[0].Position, Span{Start: decl[0].ByteSpan.Start, End: sep.Span.End})
			}
			pipe.Decl = decl
			pipe.IsAssign = sep.Type == TokenTypeAssign
			return nil
		default:
			return NewParseError(ParseMalformedPipeline, ErrMsgUnexpectedToken,
				sep.Text, sep.Position, sep.Span)
		}
	}
}

// parseCommand parses one pipeline stage: a sequence of operands, or a
// binary comparison which is rewritten into the equivalent helper call.
func (p *Parser) parseCommand(cursor *tokenCursor, insideParens bool) (*CommandNode, error) {
	first := cursor.peek()
	cmd := NewCommandNode(NodeInfo{
		Position: first.Position,
		ByteSpan: first.Span,
	})

	for {
		tok := cursor.peek()
		if !isOperandStart(tok.Type) {
			break
		}
		operand, err := p.parseOperand(cursor)
		if err != nil {
			return nil, err
		}
		cmd.Args = append(cmd.Args, operand)
		cmd.ByteSpan.End = operand.Span().End
	}

	if len(cmd.Args) == 0 {
		tok := cursor.peek()
		return nil, NewParseError(ParseMalformedPipeline, ErrMsgEmptyCommand,
			tok.Text, tok.Position, tok.Span)
	}

	if cursor.peek().Type == TokenTypeOperator {
		return p.rewriteComparison(cursor, cmd)
	}

	return cmd, nil
}

// rewriteComparison turns `left OP right` into the equivalent helper call
// (`eq left right` and friends). Chained comparisons are rejected.
func (p *Parser) rewriteComparison(cursor *tokenCursor, left *CommandNode) (*CommandNode, error) {
	op := cursor.next()
	if len(left.Args) != 1 {
		return nil, NewParseError(ParseMalformedPipeline, ErrMsgUnexpectedToken,
			op.Text, op.Position, op.Span)
	}

	funcName := operatorFunc(op.Value)
	if !p.funcs.Has(funcName) {
		return nil, NewParseError(ParseUnknownFunction, ErrMsgUnknownFunction,
			funcName, op.Position, op.Span)
	}

	right, err := p.parseOperand(cursor)
	if err != nil {
		return nil, err
	}
	if next := cursor.peek(); next.Type == TokenTypeOperator {
		return nil, NewParseError(ParseMalformedPipeline, ErrMsgUnexpectedToken,
			next.Text, next.Position, next.Span)
	}

	cmd := NewCommandNode(NodeInfo{
		Position: left.Position,
		ByteSpan: Span{Start: left.ByteSpan.Start, End: right.Span().End},
	})
	cmd.Args = []Node{
		NewIdentifierNode(funcName, NodeInfo{Position: op.Position, ByteSpan: op.Span}),
		left.Args[0],
		right,
	}
	return cmd, nil
}

// parseOperand parses a single expression operand.
func (p *Parser) parseOperand(cursor *tokenCursor) (Node, error) {
	tok := cursor.next()
	info := tokenInfo(tok)

	switch tok.Type {
	case TokenTypeIdent:
		if isReservedConstruct(tok.Value) {
			return nil, NewParseError(ParseUnsupportedConstruct, ErrMsgConstructUnsupported,
				tok.Value, tok.Position, tok.Span)
		}
		if !p.funcs.Has(tok.Value) {
			return nil, NewParseError(ParseUnknownFunction, ErrMsgUnknownFunction,
				tok.Value, tok.Position, tok.Span)
		}
		return NewIdentifierNode(tok.Value, info), nil

	case TokenTypeVariable:
		name, path := splitVariable(tok.Value)
		return NewVariableNode(name, path, info), nil

	case TokenTypeField:
		return NewFieldNode(splitField(tok.Value), info), nil

	case TokenTypeDot:
		return NewDotNode(info), nil

	case TokenTypeString:
		return NewStringNode(tok.Value, false, info), nil

	case TokenTypeRawString:
		return NewStringNode(tok.Value, true, info), nil

	case TokenTypeNumber:
		node, err := NewNumberNode(tok.Value, info)
		if err != nil {
			return nil, NewParseError(ParseMalformedPipeline, ErrMsgUnexpectedToken,
				tok.Text, tok.Position, tok.Span)
		}
		return node, nil

	case TokenTypeBool:
		return NewBoolNode(tok.Value == KeywordTrue, info), nil

	case TokenTypeNil:
		return NewNilNode(info), nil

	case TokenTypeLeftParen:
		pipe, err := p.parsePipe(cursor, "", true)
		if err != nil {
			return nil, err
		}
		return NewSubPipeNode(pipe, NodeInfo{
			Position: tok.Position,
			ByteSpan: Span{Start: tok.Span.Start, End: pipe.ByteSpan.End},
		}), nil

	default:
		return nil, NewParseError(ParseMalformedPipeline, ErrMsgExpectedOperand,
			tok.Text, tok.Position, tok.Span)
	}
}

// tokenCursor is a simple forward-only cursor over an action's tokens.
type tokenCursor struct {
	tokens []Token
	idx    int
}

func newTokenCursor(tokens []Token) *tokenCursor {
	return &tokenCursor{tokens: tokens}
}

func (c *tokenCursor) peek() Token {
	if c.idx >= len(c.tokens) {
		return Token{Type: TokenTypeEOF}
	}
	return c.tokens[c.idx]
}

func (c *tokenCursor) peekAt(n int) Token {
	if c.idx+n >= len(c.tokens) {
		return Token{Type: TokenTypeEOF}
	}
	return c.tokens[c.idx+n]
}

func (c *tokenCursor) next() Token {
	tok := c.peek()
	if c.idx < len(c.tokens) {
		c.idx++
	}
	return tok
}

// expectEOF fails unless the cursor is exhausted.
func (c *tokenCursor) expectEOF() error {
	tok := c.peek()
	if !tok.IsEOF() {
		return NewParseError(ParseMalformedPipeline, ErrMsgUnexpectedToken,
			tok.Text, tok.Position, tok.Span)
	}
	return nil
}

// looksLikeDeclaration reports whether the cursor sits on a variable list
// followed by := or =.
func (c *tokenCursor) looksLikeDeclaration() bool {
	if c.peek().Type != TokenTypeVariable {
		return false
	}
	for n := 1; ; n += 2 {
		switch c.peekAt(n).Type {
		case TokenTypeDeclare, TokenTypeAssign:
			return true
		case TokenTypeComma:
			if c.peekAt(n + 1).Type != TokenTypeVariable {
				return false
			}
		default:
			return false
		}
	}
}

// Helpers

// itemInfo builds node location info from a lexer item.
func itemInfo(item Item) NodeInfo {
	return NodeInfo{Position: item.Position, ByteSpan: item.Span}
}

// tokenInfo builds node location info from a token.
func tokenInfo(tok Token) NodeInfo {
	return NodeInfo{Position: tok.Position, ByteSpan: tok.Span}
}

// appendNode appends a child to a list, extending the list's span.
func appendNode(list *ListNode, node Node) {
	if len(list.Nodes) == 0 {
		list.Position = node.Pos()
		list.ByteSpan.Start = node.Span().Start
	}
	list.ByteSpan.End = node.Span().End
	list.Nodes = append(list.Nodes, node)
}

// newBranchNode creates the branch node for a control keyword and returns
// both the shared branch struct and the concrete node.
func newBranchNode(keyword string, pipe *PipeNode, info NodeInfo) (*BranchNode, Node) {
	switch keyword {
	case KeywordRange:
		node := NewRangeNode(pipe, info)
		return &node.BranchNode, node
	case KeywordWith:
		node := NewWithNode(pipe, info)
		return &node.BranchNode, node
	default:
		node := NewIfNode(pipe, info)
		return &node.BranchNode, node
	}
}

// splitVariable splits "$name.a.b" into its name and field path.
// The name is empty for the root variable $.
func splitVariable(value string) (string, []string) {
	trimmed := strings.TrimPrefix(value, string(CharDollar))
	if trimmed == "" {
		return "", nil
	}
	parts := strings.Split(trimmed, ".")
	return parts[0], parts[1:]
}

// splitField splits ".a.b" into its path segments.
func splitField(value string) []string {
	return strings.Split(strings.TrimPrefix(value, "."), ".")
}

// isOperandStart reports whether a token type can begin an operand.
func isOperandStart(t TokenType) bool {
	switch t {
	case TokenTypeIdent, TokenTypeVariable, TokenTypeField, TokenTypeDot,
		TokenTypeString, TokenTypeRawString, TokenTypeNumber,
		TokenTypeBool, TokenTypeNil, TokenTypeLeftParen:
		return true
	default:
		return false
	}
}

// isReservedConstruct reports whether the identifier names a template
// construct that is recognized but deliberately not implemented.
func isReservedConstruct(name string) bool {
	switch name {
	case KeywordDefine, KeywordTemplate, KeywordBlock:
		return true
	default:
		return false
	}
}

// operatorFunc maps a comparison operator to its helper function name.
func operatorFunc(op string) string {
	switch op {
	case OpEq:
		return FuncNameEq
	case OpNe:
		return FuncNameNe
	case OpLt:
		return FuncNameLt
	case OpLe:
		return FuncNameLe
	case OpGt:
		return FuncNameGt
	default:
		return FuncNameGe
	}
}
