package lexer

import (
	"drlint/internal/diag"
	"drlint/internal/token"
)

func (lx *Lexer) scanString() token.Token {
	return lx.scanStringBody(lx.cursor.Mark(), false, false)
}

// scanStringBody reads a string literal whose prefix (@, $, $@) has already been
// consumed from start; the cursor sits on the opening quote.
func (lx *Lexer) scanStringBody(start Mark, verbatim, interpolated bool) token.Token {
	if b0, b1, b2, ok := lx.cursor.Peek3(); ok && b0 == '"' && b1 == '"' && b2 == '"' {
		return lx.scanRawString(start)
	}
	lx.cursor.Bump() // opening '"'
	if lx.skipStringContent(verbatim, interpolated) {
		return lx.emit(token.StringLit, start)
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return lx.emit(token.Invalid, start)
}

// skipStringContent consumes up to and including the closing quote.
// Regular strings stop at a newline; verbatim strings may span lines and
// escape quotes by doubling them.
func (lx *Lexer) skipStringContent(verbatim, interpolated bool) bool {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '"':
			lx.cursor.Bump()
			if verbatim && lx.cursor.Peek() == '"' {
				lx.cursor.Bump()
				continue
			}
			return true
		case b == '\\' && !verbatim:
			lx.cursor.Bump()
			if !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case b == '\n' && !verbatim:
			return false
		case b == '{' && interpolated:
			lx.cursor.Bump()
			if lx.cursor.Peek() == '{' {
				lx.cursor.Bump()
				continue
			}
			if !lx.skipInterpolation() {
				return false
			}
		default:
			lx.cursor.Bump()
		}
	}
	return false
}

// skipInterpolation consumes a {...} hole, including nested strings and braces.
func (lx *Lexer) skipInterpolation() bool {
	depth := 1
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '{':
			depth++
			lx.cursor.Bump()
		case '}':
			lx.cursor.Bump()
			depth--
			if depth == 0 {
				return true
			}
		case '"':
			lx.cursor.Bump()
			if !lx.skipStringContent(false, false) {
				return false
			}
		case '@', '$':
			lx.cursor.Bump()
			verbatim, interpolated := b == '@', b == '$'
			if c := lx.cursor.Peek(); c == '@' || c == '$' {
				verbatim, interpolated = true, true
				lx.cursor.Bump()
			}
			if lx.cursor.Peek() == '"' {
				lx.cursor.Bump()
				if !lx.skipStringContent(verbatim, interpolated) {
					return false
				}
			}
		case '\'':
			lx.skipCharContent()
		case '\n':
			return false
		default:
			lx.cursor.Bump()
		}
	}
	return false
}

// scanRawString reads """...""" literals: the closing delimiter is the same
// number of quotes as the opening one.
func (lx *Lexer) scanRawString(start Mark) token.Token {
	n := 0
	for lx.cursor.Peek() == '"' {
		lx.cursor.Bump()
		n++
	}
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() != '"' {
			lx.cursor.Bump()
			continue
		}
		run := 0
		for lx.cursor.Peek() == '"' {
			lx.cursor.Bump()
			run++
		}
		if run >= n {
			return lx.emit(token.StringLit, start)
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated raw string literal")
	return lx.emit(token.Invalid, start)
}

func (lx *Lexer) scanChar() token.Token {
	start := lx.cursor.Mark()
	if lx.skipCharContent() {
		return lx.emit(token.CharLit, start)
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedChar, sp, "unterminated character literal")
	return lx.emit(token.Invalid, start)
}

func (lx *Lexer) skipCharContent() bool {
	lx.cursor.Bump() // opening '\''
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '\'':
			lx.cursor.Bump()
			return true
		case '\\':
			lx.cursor.Bump()
			if !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case '\n':
			return false
		default:
			lx.cursor.Bump()
		}
	}
	return false
}
