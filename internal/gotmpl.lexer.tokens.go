package internal

import "fmt"

// Position represents a location in the source template
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Span is a half-open byte range [Start, End) in the source template.
type Span struct {
	Start int
	End   int
}

// String returns a human-readable span string
func (s Span) String() string {
	return fmt.Sprintf("[%d:%d)", s.Start, s.End)
}

// ItemType identifies the kind of a top-level lexer item
type ItemType int

// Item types
const (
	ItemTypeText ItemType = iota
	ItemTypeComment
	ItemTypeAction
)

// String returns the item type name
func (t ItemType) String() string {
	switch t {
	case ItemTypeText:
		return "Text"
	case ItemTypeComment:
		return "Comment"
	case ItemTypeAction:
		return "Action"
	default:
		return "Unknown"
	}
}

// Item is a top-level lexer unit: literal text, a comment, or an action.
// For actions, Tokens holds the tokenized body and the span covers the
// construct including delimiters and trim markers.
type Item struct {
	Type      ItemType
	Value     string // text content, comment text, or raw action body
	Position  Position
	Span      Span
	Tokens    []Token // populated for actions only
	TrimLeft  bool
	TrimRight bool
}

// String returns a human-readable representation of the item
func (i Item) String() string {
	return fmt.Sprintf("Item{%s: %q @ %s}", i.Type, i.Value, i.Position)
}

// TokenType identifies the kind of an action-body token
type TokenType int

// Token types
const (
	TokenTypeEOF TokenType = iota
	TokenTypeIdent
	TokenTypeKeyword  // if, else, end, range, with
	TokenTypeVariable // $name or bare $, optionally with attached field path
	TokenTypeField    // .name or .name.sub, leading dot included
	TokenTypeDot      // bare .
	TokenTypeString
	TokenTypeRawString
	TokenTypeNumber
	TokenTypeBool
	TokenTypeNil
	TokenTypePipe
	TokenTypeComma
	TokenTypeDeclare // :=
	TokenTypeAssign  // =
	TokenTypeLeftParen
	TokenTypeRightParen
	TokenTypeOperator // ==, !=, <, <=, >, >=
)

// String returns the token type name
func (t TokenType) String() string {
	switch t {
	case TokenTypeEOF:
		return "EOF"
	case TokenTypeIdent:
		return "Ident"
	case TokenTypeKeyword:
		return "Keyword"
	case TokenTypeVariable:
		return "Variable"
	case TokenTypeField:
		return "Field"
	case TokenTypeDot:
		return "Dot"
	case TokenTypeString:
		return "String"
	case TokenTypeRawString:
		return "RawString"
	case TokenTypeNumber:
		return "Number"
	case TokenTypeBool:
		return "Bool"
	case TokenTypeNil:
		return "Nil"
	case TokenTypePipe:
		return "Pipe"
	case TokenTypeComma:
		return "Comma"
	case TokenTypeDeclare:
		return "Declare"
	case TokenTypeAssign:
		return "Assign"
	case TokenTypeLeftParen:
		return "LeftParen"
	case TokenTypeRightParen:
		return "RightParen"
	case TokenTypeOperator:
		return "Operator"
	default:
		return "Unknown"
	}
}

// Token represents a lexical token inside an action body.
// For string tokens, Value holds the decoded content; Text holds the
// literal source including quotes.
type Token struct {
	Type     TokenType
	Value    string
	Text     string
	Position Position
	Span     Span
}

// String returns a human-readable representation of the token
func (t Token) String() string {
	if t.Value == "" {
		return fmt.Sprintf("Token{%s @ %s}", t.Type, t.Position)
	}
	return fmt.Sprintf("Token{%s: %q @ %s}", t.Type, t.Value, t.Position)
}

// IsEOF returns true if this is an end-of-body token
func (t Token) IsEOF() bool {
	return t.Type == TokenTypeEOF
}

// IsKeyword returns true if the token is the given keyword
func (t Token) IsKeyword(kw string) bool {
	return t.Type == TokenTypeKeyword && t.Value == kw
}

// NewToken creates a new token with the given type, value, and position
func NewToken(tokenType TokenType, value string, pos Position, span Span) Token {
	return Token{
		Type:     tokenType,
		Value:    value,
		Text:     value,
		Position: pos,
		Span:     span,
	}
}

// NewEOFToken creates an EOF token at the given position
func NewEOFToken(pos Position) Token {
	return Token{
		Type:     TokenTypeEOF,
		Position: pos,
		Span:     Span{Start: pos.Offset, End: pos.Offset},
	}
}

// keywordType classifies an identifier-shaped word into its token type.
func keywordType(word string) TokenType {
	switch word {
	case KeywordIf, KeywordElse, KeywordEnd, KeywordRange, KeywordWith:
		return TokenTypeKeyword
	case KeywordTrue, KeywordFalse:
		return TokenTypeBool
	case KeywordNil:
		return TokenTypeNil
	default:
		return TokenTypeIdent
	}
}
