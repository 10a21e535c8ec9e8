package lexer

import (
	"drlint/internal/diag"
	"drlint/internal/token"
)

// scanIdent reads an identifier and classifies reserved keywords.
// Keywords are case-sensitive; Token.Text is the exact source slice.
func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()
	r, sz := lx.peekRune()
	if sz == 0 || !isIdentStartRune(r) {
		lx.bumpRune()
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unknown character")
		return lx.emit(token.Invalid, start)
	}
	lx.consumeIdentTail()

	tok := lx.emit(token.Ident, start)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}

// consumeIdentTail consumes identifier characters starting at the cursor.
func (lx *Lexer) consumeIdentTail() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				return
			}
			lx.cursor.Bump()
			continue
		}
		r, sz := lx.peekRune()
		if sz == 0 || !isIdentContinueRune(r) {
			return
		}
		lx.bumpRune()
	}
}
