package internal

import (
	"strings"

	"go.uber.org/zap"
)

// Lexer splits template source into a linear item stream of text, comments,
// and actions. Trim markers are resolved here, so downstream phases never see
// them. Action bodies are tokenized in the same pass; a returned item stream
// is therefore fully checked for lexical validity.
type Lexer struct {
	source   string
	pos      int // Current byte position
	line     int // Current line (1-indexed)
	column   int // Current column (1-indexed)
	trimNext bool
	logger   *zap.Logger
}

// NewLexer creates a new lexer for the given source
func NewLexer(source string, logger *zap.Logger) *Lexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgLexerCreated, zap.Int(LogFieldSource, len(source)))
	return &Lexer{
		source: source,
		pos:    0,
		line:   1,
		column: 1,
		logger: logger,
	}
}

// Lex processes the source and returns the item stream
func (l *Lexer) Lex() ([]Item, error) {
	l.logger.Debug(LogMsgLexStart)
	var items []Item

	for !l.isAtEnd() {
		if l.matchStr(StrOpenDelim) {
			item, err := l.scanAction()
			if err != nil {
				return nil, err
			}
			if item.TrimLeft {
				items = trimPrecedingText(items)
			}
			items = append(items, item)
			continue
		}

		item := l.scanText()
		if item.Value != "" {
			items = append(items, item)
		}
	}

	l.logger.Debug(LogMsgLexEnd, zap.Int(LogFieldItems, len(items)))
	return items, nil
}

// scanText scans literal text up to the next open delimiter, applying a
// pending right-trim from the previous action.
func (l *Lexer) scanText() Item {
	startPos := l.currentPosition()
	start := l.pos

	for !l.isAtEnd() && !l.matchStr(StrOpenDelim) {
		l.advance()
	}

	value := l.source[start:l.pos]
	if l.trimNext {
		value = strings.TrimLeft(value, TrimCutset)
		l.trimNext = false
	}

	return Item{
		Type:     ItemTypeText,
		Value:    value,
		Position: startPos,
		Span:     Span{Start: start, End: l.pos},
	}
}

// scanAction scans a full {{...}} or {{/*...*/}} construct. The caller has
// verified the open delimiter is present.
func (l *Lexer) scanAction() (Item, error) {
	startPos := l.currentPosition()
	start := l.pos
	l.trimNext = false
	l.advanceN(len(StrOpenDelim))

	trimLeft := false
	if l.peek() == CharMinus && isSpaceByte(l.peekAt(1)) {
		l.advance()
		trimLeft = true
	}

	// A comment must span the whole action body.
	probe := l.pos
	for probe < len(l.source) && isSpaceByte(l.source[probe]) {
		probe++
	}
	if strings.HasPrefix(l.source[probe:], StrCommentOpen) {
		return l.scanComment(start, startPos, trimLeft)
	}

	bodyStart := l.pos
	bodyStartPos := l.currentPosition()
	bodyEnd, trimRight, err := l.scanActionEnd(startPos)
	if err != nil {
		return Item{}, err
	}

	body := l.source[bodyStart:bodyEnd]
	tokens, err := lexActionBody(l.source, bodyStart, bodyEnd, bodyStartPos)
	if err != nil {
		return Item{}, err
	}

	if trimRight {
		l.trimNext = true
	}

	return Item{
		Type:      ItemTypeAction,
		Value:     strings.TrimSpace(body),
		Position:  startPos,
		Span:      Span{Start: start, End: l.pos},
		Tokens:    tokens,
		TrimLeft:  trimLeft,
		TrimRight: trimRight,
	}, nil
}

// scanComment scans a {{/* ... */}} construct starting after the open
// delimiter and optional left trim marker.
func (l *Lexer) scanComment(start int, startPos Position, trimLeft bool) (Item, error) {
	l.skipSpace()
	l.advanceN(len(StrCommentOpen))
	textStart := l.pos

	idx := strings.Index(l.source[l.pos:], StrCommentClose)
	if idx < 0 {
		return Item{}, NewLexError(LexUnterminatedComment, ErrMsgUnterminatedComment,
			startPos, Span{Start: start, End: len(l.source)})
	}
	l.advanceN(idx)
	text := l.source[textStart:l.pos]
	l.advanceN(len(StrCommentClose))

	l.skipSpace()
	trimRight := false
	if l.peek() == CharMinus && l.peekAt(1) == StrCloseDelim[0] && l.peekAt(2) == StrCloseDelim[1] {
		l.advance()
		trimRight = true
		l.trimNext = true
	}
	if !l.matchStr(StrCloseDelim) {
		return Item{}, NewLexError(LexInvalidToken, ErrMsgCommentNotClosed,
			l.currentPosition(), Span{Start: start, End: l.pos})
	}
	l.advanceN(len(StrCloseDelim))

	return Item{
		Type:      ItemTypeComment,
		Value:     text,
		Position:  startPos,
		Span:      Span{Start: start, End: l.pos},
		TrimLeft:  trimLeft,
		TrimRight: trimRight,
	}, nil
}

// scanActionEnd advances to the closing delimiter, honoring string literals,
// and reports whether a right trim marker was consumed. Returns the byte
// offset of the body end (before the trim marker and close delimiter).
func (l *Lexer) scanActionEnd(actionPos Position) (bodyEnd int, trimRight bool, err error) {
	for !l.isAtEnd() {
		ch := l.peek()

		switch ch {
		case CharDoubleQuote:
			if err := l.skipQuotedString(); err != nil {
				return 0, false, err
			}
			continue
		case CharBacktick:
			if err := l.skipRawString(); err != nil {
				return 0, false, err
			}
			continue
		case CharMinus:
			if l.peekAt(1) == StrCloseDelim[0] && l.peekAt(2) == StrCloseDelim[1] && l.precededBySpace() {
				bodyEnd = l.pos
				l.advance()
				l.advanceN(len(StrCloseDelim))
				return bodyEnd, true, nil
			}
		}

		if l.matchStr(StrCloseDelim) {
			bodyEnd = l.pos
			l.advanceN(len(StrCloseDelim))
			return bodyEnd, false, nil
		}

		l.advance()
	}

	return 0, false, NewLexError(LexUnterminatedAction, ErrMsgUnterminatedAction,
		actionPos, Span{Start: actionPos.Offset, End: len(l.source)})
}

// skipQuotedString consumes a double-quoted string including both quotes.
func (l *Lexer) skipQuotedString() error {
	strPos := l.currentPosition()
	strStart := l.pos
	l.advance() // opening quote

	for !l.isAtEnd() {
		ch := l.peek()
		if ch == CharBackslash {
			l.advance()
			if !l.isAtEnd() {
				l.advance()
			}
			continue
		}
		if ch == CharDoubleQuote {
			l.advance()
			return nil
		}
		if ch == CharNewline {
			break
		}
		l.advance()
	}

	return NewLexError(LexUnterminatedString, ErrMsgUnterminatedString,
		strPos, Span{Start: strStart, End: l.pos})
}

// skipRawString consumes a backtick-quoted string including both backticks.
func (l *Lexer) skipRawString() error {
	strPos := l.currentPosition()
	strStart := l.pos
	l.advance() // opening backtick

	for !l.isAtEnd() {
		if l.peek() == CharBacktick {
			l.advance()
			return nil
		}
		l.advance()
	}

	return NewLexError(LexUnterminatedString, ErrMsgUnterminatedString,
		strPos, Span{Start: strStart, End: l.pos})
}

// Helper methods

// currentPosition returns the current position
func (l *Lexer) currentPosition() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

// isAtEnd returns true if we've reached the end of source
func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

// peek returns the current character without advancing
func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

// peekAt returns the character n bytes ahead without advancing
func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.source) {
		return 0
	}
	return l.source[l.pos+n]
}

// precededBySpace reports whether the previous byte is whitespace
func (l *Lexer) precededBySpace() bool {
	return l.pos > 0 && isSpaceByte(l.source[l.pos-1])
}

// advance consumes and returns the current character
func (l *Lexer) advance() byte {
	if l.isAtEnd() {
		return 0
	}
	ch := l.source[l.pos]
	l.pos++
	if ch == CharNewline {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

// advanceN advances by n characters
func (l *Lexer) advanceN(n int) {
	for i := 0; i < n && !l.isAtEnd(); i++ {
		l.advance()
	}
}

// matchStr returns true if the remaining source starts with s
func (l *Lexer) matchStr(s string) bool {
	return strings.HasPrefix(l.source[l.pos:], s)
}

// skipSpace skips whitespace characters
func (l *Lexer) skipSpace() {
	for !l.isAtEnd() && isSpaceByte(l.peek()) {
		l.advance()
	}
}

// trimPrecedingText strips trailing whitespace from the last text item.
func trimPrecedingText(items []Item) []Item {
	if len(items) == 0 {
		return items
	}
	last := &items[len(items)-1]
	if last.Type == ItemTypeText {
		last.Value = strings.TrimRight(last.Value, TrimCutset)
	}
	return items
}

// Character classification helpers

func isSpaceByte(ch byte) bool {
	return ch == CharSpace || ch == CharTab || ch == CharNewline || ch == CharCarriageRet
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return isLetter(ch) || ch == CharUnderscore
}

func isIdentPart(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == CharUnderscore
}
