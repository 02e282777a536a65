package gotmpl

// Version is the library version.
const Version = "1.0.0"

// Default template name used when none is given
const (
	DefaultTemplateName = "template"
)

// Error code constants for categorization
const (
	ErrCodeLex     = "GOTMPL_LEX"
	ErrCodeParse   = "GOTMPL_PARSE"
	ErrCodeRender  = "GOTMPL_RENDER"
	ErrCodeConfig  = "GOTMPL_CONFIG"
	ErrCodeStorage = "GOTMPL_STORAGE"
)

// Error kind constants surfaced in error metadata. Lex kinds.
const (
	KindUnterminatedAction  = "unterminated_action"
	KindUnterminatedComment = "unterminated_comment"
	KindUnterminatedString  = "unterminated_string"
	KindInvalidToken        = "invalid_token"
)

// Parse kinds
const (
	KindUnknownFunction             = "unknown_function"
	KindMalformedPipeline           = "malformed_pipeline"
	KindUnsupportedConstruct        = "unsupported_construct"
	KindMultipleDeclarationMismatch = "multiple_declaration_mismatch"
)

// Render kinds
const (
	KindUndefinedVariable = "undefined_variable"
	KindTypeMismatch      = "type_mismatch"
	KindFieldNotFound     = "field_not_found"
	KindHelperError       = "helper_error"
)

// Metadata key constants for error context
const (
	MetaKeyKind      = "kind"
	MetaKeyLine      = "line"
	MetaKeyColumn    = "column"
	MetaKeyOffset    = "offset"
	MetaKeySpanStart = "span_start"
	MetaKeySpanEnd   = "span_end"
	MetaKeyName      = "name"
	MetaKeyTemplate  = "template"
	MetaKeyDriver    = "driver"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	ErrMsgLexFailed       = "template lexing failed"
	ErrMsgParseFailed     = "template parsing failed"
	ErrMsgRenderFailed    = "template rendering failed"
	ErrMsgEmptyName       = "template name cannot be empty"
	ErrMsgNilRegistry     = "registry cannot be nil"
	ErrMsgNoStorage       = "no template storage configured"
	ErrMsgTemplateMissing = "template not found"
)

// Helper error message constants
const (
	ErrMsgIndexOutOfRange = "index out of range"
	ErrMsgOddDictArgs     = "dict requires an even number of arguments"
)
