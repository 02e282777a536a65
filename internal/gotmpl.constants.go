package internal

// Delimiter constants
const (
	StrOpenDelim    = "{{"
	StrCloseDelim   = "}}"
	StrTrimMarker   = "-"
	StrCommentOpen  = "/*"
	StrCommentClose = "*/"
)

// Character constants
const (
	CharNewline     = '\n'
	CharCarriageRet = '\r'
	CharSpace       = ' '
	CharTab         = '\t'
	CharDollar      = '$'
	CharDot         = '.'
	CharPipe        = '|'
	CharComma       = ','
	CharColon       = ':'
	CharEquals      = '='
	CharBang        = '!'
	CharLess        = '<'
	CharGreater     = '>'
	CharLeftParen   = '('
	CharRightParen  = ')'
	CharDoubleQuote = '"'
	CharBacktick    = '`'
	CharBackslash   = '\\'
	CharUnderscore  = '_'
	CharMinus       = '-'
	CharPlus        = '+'
)

// Keyword constants
const (
	KeywordIf    = "if"
	KeywordElse  = "else"
	KeywordEnd   = "end"
	KeywordRange = "range"
	KeywordWith  = "with"
	KeywordNil   = "nil"
	KeywordTrue  = "true"
	KeywordFalse = "false"
)

// Reserved keywords that are recognized but deliberately not implemented.
const (
	KeywordDefine   = "define"
	KeywordTemplate = "template"
	KeywordBlock    = "block"
)

// Comparison operator constants and the helper names they rewrite to
const (
	OpEq = "=="
	OpNe = "!="
	OpLt = "<"
	OpLe = "<="
	OpGt = ">"
	OpGe = ">="

	FuncNameEq = "eq"
	FuncNameNe = "ne"
	FuncNameLt = "lt"
	FuncNameLe = "le"
	FuncNameGt = "gt"
	FuncNameGe = "ge"
)

// Variable name constants
const (
	VarNameRoot = "$"
)

// Rendering constants
const (
	StrNoValue    = "<no value>"
	StrTrue       = "true"
	StrFalse      = "false"
	StrEmptyJSON  = "null"
	TrimCutset    = " \t\r\n"
	VariadicArgs  = -1
	MaxDeclVars   = 2
	FloatFmtFlag  = 'g'
	FloatFmtPrec  = -1
	FloatBitSize  = 64
	IntParseBase  = 10
	IntParseBits  = 64
)

// Log message constants
const (
	LogMsgLexerCreated   = "lexer created"
	LogMsgLexStart       = "lexing started"
	LogMsgLexEnd         = "lexing finished"
	LogMsgParserCreated  = "parser created"
	LogMsgParseStart     = "parsing started"
	LogMsgParseEnd       = "parsing finished"
	LogMsgRenderStart    = "render started"
	LogMsgRenderEnd      = "render finished"
	LogMsgRenderFailed   = "render failed"
	LogMsgAnalyzeStart   = "analysis started"
	LogMsgAnalyzeEnd     = "analysis finished"
	LogMsgFuncRegistered = "function registered"
	LogMsgFuncShadowed   = "function re-registered"
)

// Log field name constants
const (
	LogFieldSource    = "source_bytes"
	LogFieldItems     = "items"
	LogFieldNodes     = "nodes"
	LogFieldOutput    = "output_bytes"
	LogFieldFunction  = "function"
	LogFieldFunctions = "functions"
	LogFieldError     = "error"
)
