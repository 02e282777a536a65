package internal

import "strings"

// tokenLexer tokenizes a single action body. It operates on the full source
// between [start, end) so token positions and spans stay absolute.
type tokenLexer struct {
	source string
	end    int
	pos    int
	line   int
	column int
}

// lexActionBody tokenizes the action body between start and end and appends
// a trailing EOF token.
func lexActionBody(source string, start, end int, startPos Position) ([]Token, error) {
	tl := &tokenLexer{
		source: source,
		end:    end,
		pos:    start,
		line:   startPos.Line,
		column: startPos.Column,
	}

	var tokens []Token
	for {
		tok, err := tl.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.IsEOF() {
			return tokens, nil
		}
	}
}

// next scans and returns the next token.
func (tl *tokenLexer) next() (Token, error) {
	tl.skipSpace()
	if tl.isAtEnd() {
		return NewEOFToken(tl.currentPosition()), nil
	}

	pos := tl.currentPosition()
	ch := tl.peek()

	switch {
	case ch == CharPipe:
		tl.advance()
		return tl.emit(TokenTypePipe, string(CharPipe), pos), nil
	case ch == CharComma:
		tl.advance()
		return tl.emit(TokenTypeComma, string(CharComma), pos), nil
	case ch == CharLeftParen:
		tl.advance()
		return tl.emit(TokenTypeLeftParen, string(CharLeftParen), pos), nil
	case ch == CharRightParen:
		tl.advance()
		return tl.emit(TokenTypeRightParen, string(CharRightParen), pos), nil
	case ch == CharColon:
		tl.advance()
		if tl.peek() != CharEquals {
			return Token{}, tl.invalidToken(pos)
		}
		tl.advance()
		return tl.emit(TokenTypeDeclare, ":=", pos), nil
	case ch == CharEquals:
		tl.advance()
		if tl.peek() == CharEquals {
			tl.advance()
			return tl.emit(TokenTypeOperator, OpEq, pos), nil
		}
		return tl.emit(TokenTypeAssign, "=", pos), nil
	case ch == CharBang:
		tl.advance()
		if tl.peek() != CharEquals {
			return Token{}, tl.invalidToken(pos)
		}
		tl.advance()
		return tl.emit(TokenTypeOperator, OpNe, pos), nil
	case ch == CharLess:
		tl.advance()
		if tl.peek() == CharEquals {
			tl.advance()
			return tl.emit(TokenTypeOperator, OpLe, pos), nil
		}
		return tl.emit(TokenTypeOperator, OpLt, pos), nil
	case ch == CharGreater:
		tl.advance()
		if tl.peek() == CharEquals {
			tl.advance()
			return tl.emit(TokenTypeOperator, OpGe, pos), nil
		}
		return tl.emit(TokenTypeOperator, OpGt, pos), nil
	case ch == CharDoubleQuote:
		return tl.scanString(pos)
	case ch == CharBacktick:
		return tl.scanRawString(pos)
	case ch == CharDollar:
		return tl.scanVariable(pos), nil
	case ch == CharDot:
		return tl.scanDotOrField(pos), nil
	case isDigit(ch):
		return tl.scanNumber(pos)
	case ch == CharMinus || ch == CharPlus:
		if isDigit(tl.peekAt(1)) {
			return tl.scanNumber(pos)
		}
		return Token{}, tl.invalidToken(pos)
	case isIdentStart(ch):
		return tl.scanWord(pos), nil
	default:
		return Token{}, tl.invalidToken(pos)
	}
}

// scanString scans a double-quoted string literal, decoding escapes.
func (tl *tokenLexer) scanString(pos Position) (Token, error) {
	start := tl.pos
	tl.advance() // opening quote

	var sb strings.Builder
	for !tl.isAtEnd() {
		ch := tl.peek()

		if ch == CharDoubleQuote {
			tl.advance()
			tok := tl.emit(TokenTypeString, sb.String(), pos)
			tok.Text = tl.source[start:tl.pos]
			return tok, nil
		}

		if ch == CharBackslash {
			tl.advance()
			if tl.isAtEnd() {
				break
			}
			esc := tl.advance()
			switch esc {
			case 'n':
				sb.WriteByte(CharNewline)
			case 't':
				sb.WriteByte(CharTab)
			case 'r':
				sb.WriteByte(CharCarriageRet)
			case CharDoubleQuote, CharBackslash:
				sb.WriteByte(esc)
			default:
				return Token{}, NewLexError(LexInvalidToken, ErrMsgInvalidToken,
					pos, Span{Start: start, End: tl.pos})
			}
			continue
		}

		if ch == CharNewline {
			break
		}
		sb.WriteByte(tl.advance())
	}

	return Token{}, NewLexError(LexUnterminatedString, ErrMsgUnterminatedString,
		pos, Span{Start: start, End: tl.pos})
}

// scanRawString scans a backtick-quoted string literal. No escapes.
func (tl *tokenLexer) scanRawString(pos Position) (Token, error) {
	start := tl.pos
	tl.advance() // opening backtick

	valueStart := tl.pos
	for !tl.isAtEnd() {
		if tl.peek() == CharBacktick {
			value := tl.source[valueStart:tl.pos]
			tl.advance()
			tok := tl.emit(TokenTypeRawString, value, pos)
			tok.Text = tl.source[start:tl.pos]
			return tok, nil
		}
		tl.advance()
	}

	return Token{}, NewLexError(LexUnterminatedString, ErrMsgUnterminatedString,
		pos, Span{Start: start, End: tl.pos})
}

// scanVariable scans $name with an optionally attached field path ($x.y.z).
func (tl *tokenLexer) scanVariable(pos Position) Token {
	start := tl.pos
	tl.advance() // $

	for !tl.isAtEnd() && isIdentPart(tl.peek()) {
		tl.advance()
	}
	tl.consumeFieldChain()

	return tl.emit(TokenTypeVariable, tl.source[start:tl.pos], pos)
}

// scanDotOrField scans a bare dot or a .a.b field path.
func (tl *tokenLexer) scanDotOrField(pos Position) Token {
	start := tl.pos
	if !isIdentStart(tl.peekAt(1)) {
		tl.advance()
		return tl.emit(TokenTypeDot, string(CharDot), pos)
	}
	tl.consumeFieldChain()
	return tl.emit(TokenTypeField, tl.source[start:tl.pos], pos)
}

// consumeFieldChain consumes zero or more .ident segments.
func (tl *tokenLexer) consumeFieldChain() {
	for tl.peek() == CharDot && isIdentStart(tl.peekAt(1)) {
		tl.advance() // dot
		for !tl.isAtEnd() && isIdentPart(tl.peek()) {
			tl.advance()
		}
	}
}

// scanNumber scans an integer or float literal with optional sign and
// exponent.
func (tl *tokenLexer) scanNumber(pos Position) (Token, error) {
	start := tl.pos
	if tl.peek() == CharMinus || tl.peek() == CharPlus {
		tl.advance()
	}
	for !tl.isAtEnd() && isDigit(tl.peek()) {
		tl.advance()
	}
	if tl.peek() == CharDot && isDigit(tl.peekAt(1)) {
		tl.advance()
		for !tl.isAtEnd() && isDigit(tl.peek()) {
			tl.advance()
		}
	}
	if tl.peek() == 'e' || tl.peek() == 'E' {
		if isDigit(tl.peekAt(1)) ||
			((tl.peekAt(1) == CharMinus || tl.peekAt(1) == CharPlus) && isDigit(tl.peekAt(2))) {
			tl.advance()
			tl.advance()
			for !tl.isAtEnd() && isDigit(tl.peek()) {
				tl.advance()
			}
		}
	}

	// A letter glued to a number is not a valid token.
	if !tl.isAtEnd() && isIdentStart(tl.peek()) {
		return Token{}, tl.invalidToken(pos)
	}

	return tl.emit(TokenTypeNumber, tl.source[start:tl.pos], pos), nil
}

// scanWord scans an identifier or keyword.
func (tl *tokenLexer) scanWord(pos Position) Token {
	start := tl.pos
	for !tl.isAtEnd() && isIdentPart(tl.peek()) {
		tl.advance()
	}
	word := tl.source[start:tl.pos]
	return tl.emit(keywordType(word), word, pos)
}

// Helper methods

func (tl *tokenLexer) emit(tokenType TokenType, value string, pos Position) Token {
	return Token{
		Type:     tokenType,
		Value:    value,
		Text:     value,
		Position: pos,
		Span:     Span{Start: pos.Offset, End: tl.pos},
	}
}

func (tl *tokenLexer) invalidToken(pos Position) error {
	end := pos.Offset + 1
	if end > tl.end {
		end = tl.end
	}
	return NewLexError(LexInvalidToken, ErrMsgInvalidToken, pos,
		Span{Start: pos.Offset, End: end})
}

func (tl *tokenLexer) currentPosition() Position {
	return Position{Offset: tl.pos, Line: tl.line, Column: tl.column}
}

func (tl *tokenLexer) isAtEnd() bool {
	return tl.pos >= tl.end
}

func (tl *tokenLexer) peek() byte {
	if tl.isAtEnd() {
		return 0
	}
	return tl.source[tl.pos]
}

func (tl *tokenLexer) peekAt(n int) byte {
	if tl.pos+n >= tl.end {
		return 0
	}
	return tl.source[tl.pos+n]
}

func (tl *tokenLexer) advance() byte {
	if tl.isAtEnd() {
		return 0
	}
	ch := tl.source[tl.pos]
	tl.pos++
	if ch == CharNewline {
		tl.line++
		tl.column = 1
	} else {
		tl.column++
	}
	return ch
}

func (tl *tokenLexer) skipSpace() {
	for !tl.isAtEnd() && isSpaceByte(tl.peek()) {
		tl.advance()
	}
}
