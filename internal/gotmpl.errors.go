package internal

import "fmt"

// LexErrorKind categorizes lexing failures.
type LexErrorKind string

// Lex error kinds
const (
	LexUnterminatedAction  LexErrorKind = "unterminated_action"
	LexUnterminatedComment LexErrorKind = "unterminated_comment"
	LexUnterminatedString  LexErrorKind = "unterminated_string"
	LexInvalidToken        LexErrorKind = "invalid_token"
)

// ParseErrorKind categorizes parsing failures.
type ParseErrorKind string

// Parse error kinds
const (
	ParseUnknownFunction             ParseErrorKind = "unknown_function"
	ParseMalformedPipeline           ParseErrorKind = "malformed_pipeline"
	ParseUnsupportedConstruct        ParseErrorKind = "unsupported_construct"
	ParseMultipleDeclarationMismatch ParseErrorKind = "multiple_declaration_mismatch"
)

// RenderErrorKind categorizes evaluation failures.
type RenderErrorKind string

// Render error kinds
const (
	RenderUndefinedVariable RenderErrorKind = "undefined_variable"
	RenderUnknownFunction   RenderErrorKind = "unknown_function"
	RenderTypeMismatch      RenderErrorKind = "type_mismatch"
	RenderFieldNotFound     RenderErrorKind = "field_not_found"
	RenderHelperError       RenderErrorKind = "helper_error"
)

// Error message constants
const (
	ErrMsgUnterminatedAction  = "unterminated action"
	ErrMsgUnterminatedComment = "unterminated comment"
	ErrMsgUnterminatedString  = "unterminated string literal"
	ErrMsgInvalidToken        = "invalid token"
	ErrMsgCommentNotClosed    = "comment ends before closing delimiter"

	ErrMsgUnknownFunction     = "function not registered"
	ErrMsgEmptyAction         = "empty action"
	ErrMsgEmptyCommand        = "empty command in pipeline"
	ErrMsgUnexpectedToken     = "unexpected token"
	ErrMsgExpectedOperand     = "expected operand"
	ErrMsgUnclosedParen       = "unclosed parenthesis"
	ErrMsgUnexpectedElse      = "unexpected else"
	ErrMsgUnexpectedEnd       = "unexpected end"
	ErrMsgUnclosedControl     = "unclosed control action"
	ErrMsgElseIfUnsupported   = "else if is not supported"
	ErrMsgConstructUnsupported = "construct is not supported"
	ErrMsgTooManyDeclVars     = "too many variables in declaration"
	ErrMsgTwoVarOutsideRange  = "two-variable declaration requires range"
	ErrMsgExpectedVariable    = "expected variable name in declaration"

	ErrMsgUndefinedVariable = "variable not declared"
	ErrMsgRootImmutable     = "root variable cannot be assigned"
	ErrMsgFieldNotFound     = "field access on non-container value"
	ErrMsgTypeMismatch      = "type mismatch"
	ErrMsgHelperFailed      = "helper function failed"
	ErrMsgNotRangeable      = "value is not rangeable"
)

// LexError is a lexing failure with the span of the offending construct.
type LexError struct {
	Kind     LexErrorKind
	Message  string
	Position Position
	Span     Span
}

// NewLexError creates a lex error.
func NewLexError(kind LexErrorKind, message string, pos Position, span Span) *LexError {
	return &LexError{
		Kind:     kind,
		Message:  message,
		Position: pos,
		Span:     span,
	}
}

// Error implements the error interface.
func (e *LexError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Position)
}

// ParseError is a parsing failure with the offending identifier (when any)
// and the span of the construct.
type ParseError struct {
	Kind     ParseErrorKind
	Message  string
	Name     string
	Position Position
	Span     Span
}

// NewParseError creates a parse error.
func NewParseError(kind ParseErrorKind, message, name string, pos Position, span Span) *ParseError {
	return &ParseError{
		Kind:     kind,
		Message:  message,
		Name:     name,
		Position: pos,
		Span:     span,
	}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s at %s", e.Message, e.Name, e.Position)
	}
	return fmt.Sprintf("%s at %s", e.Message, e.Position)
}

// RenderError is an evaluation failure. Cause carries the helper error for
// RenderHelperError kinds.
type RenderError struct {
	Kind     RenderErrorKind
	Message  string
	Name     string
	Position Position
	Span     Span
	Cause    error
}

// NewRenderError creates a render error.
func NewRenderError(kind RenderErrorKind, message, name string, span Span) *RenderError {
	return &RenderError{
		Kind:    kind,
		Message: message,
		Name:    name,
		Span:    span,
	}
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Name)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *RenderError) Unwrap() error {
	return e.Cause
}
