package gotmpl

import (
	"errors"
	"strconv"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-gotmpl/internal"
)

// wrapLexError converts an internal lex error into a public error with
// structured metadata.
func wrapLexError(lexErr *internal.LexError, templateName string) error {
	return cuserr.NewValidationError(ErrCodeLex, lexErr.Message).
		WithMetadata(MetaKeyKind, string(lexErr.Kind)).
		WithMetadata(MetaKeyTemplate, templateName).
		WithMetadata(MetaKeyLine, strconv.Itoa(lexErr.Position.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(lexErr.Position.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(lexErr.Position.Offset)).
		WithMetadata(MetaKeySpanStart, strconv.Itoa(lexErr.Span.Start)).
		WithMetadata(MetaKeySpanEnd, strconv.Itoa(lexErr.Span.End))
}

// wrapParseError converts an internal parse error into a public error with
// structured metadata, including the offending identifier when present.
func wrapParseError(parseErr *internal.ParseError, templateName string) error {
	err := cuserr.NewValidationError(ErrCodeParse, parseErr.Message).
		WithMetadata(MetaKeyKind, string(parseErr.Kind)).
		WithMetadata(MetaKeyTemplate, templateName).
		WithMetadata(MetaKeyLine, strconv.Itoa(parseErr.Position.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(parseErr.Position.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(parseErr.Position.Offset)).
		WithMetadata(MetaKeySpanStart, strconv.Itoa(parseErr.Span.Start)).
		WithMetadata(MetaKeySpanEnd, strconv.Itoa(parseErr.Span.End))
	if parseErr.Name != "" {
		err = err.WithMetadata(MetaKeyName, parseErr.Name)
	}
	return err
}

// wrapRenderError converts an internal render error into a public error
// with structured metadata, preserving the helper cause when present.
func wrapRenderError(renderErr *internal.RenderError, templateName string) error {
	var err *cuserr.CustomError
	if renderErr.Cause != nil {
		err = cuserr.WrapStdError(renderErr.Cause, ErrCodeRender, renderErr.Message)
	} else {
		err = cuserr.NewValidationError(ErrCodeRender, renderErr.Message)
	}
	err = err.
		WithMetadata(MetaKeyKind, string(renderErr.Kind)).
		WithMetadata(MetaKeyTemplate, templateName).
		WithMetadata(MetaKeySpanStart, strconv.Itoa(renderErr.Span.Start)).
		WithMetadata(MetaKeySpanEnd, strconv.Itoa(renderErr.Span.End))
	if renderErr.Name != "" {
		err = err.WithMetadata(MetaKeyName, renderErr.Name)
	}
	return err
}

// wrapTemplateError dispatches an internal error to the matching wrapper.
func wrapTemplateError(err error, templateName string) error {
	var lexErr *internal.LexError
	if errors.As(err, &lexErr) {
		return wrapLexError(lexErr, templateName)
	}
	var parseErr *internal.ParseError
	if errors.As(err, &parseErr) {
		return wrapParseError(parseErr, templateName)
	}
	var renderErr *internal.RenderError
	if errors.As(err, &renderErr) {
		return wrapRenderError(renderErr, templateName)
	}
	return cuserr.WrapStdError(err, ErrCodeRender, ErrMsgRenderFailed).
		WithMetadata(MetaKeyTemplate, templateName)
}

// ErrorKind extracts the error kind from a public error's metadata.
// Returns the empty string for errors without a kind.
func ErrorKind(err error) string {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return ""
	}
	kind, ok := customErr.GetMetadata(MetaKeyKind)
	if !ok {
		return ""
	}
	return kind
}

// ErrorName extracts the offending identifier from a public error's
// metadata, such as the unknown function or undefined variable name.
func ErrorName(err error) string {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return ""
	}
	name, ok := customErr.GetMetadata(MetaKeyName)
	if !ok {
		return ""
	}
	return name
}

// NewEmptyNameError creates an error for an empty template name.
func NewEmptyNameError() error {
	return cuserr.NewValidationError(ErrCodeConfig, ErrMsgEmptyName)
}

// NewNoStorageError creates an error for storage operations on an engine
// without configured storage.
func NewNoStorageError() error {
	return cuserr.NewValidationError(ErrCodeConfig, ErrMsgNoStorage)
}

// NewTemplateNotFoundError creates an error for a missing stored template.
func NewTemplateNotFoundError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyTemplate, ErrMsgTemplateMissing).
		WithMetadata(MetaKeyTemplate, name)
}
