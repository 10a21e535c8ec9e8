package lexer

import (
	"drlint/internal/diag"
	"drlint/internal/token"
)

// scanNumber supports 123, 1_000, 0x1F, 0b1010, 1.5, .5, 1e-3 and the
// u/l/ul/f/d/m suffixes.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X' || b1 == 'b' || b1 == 'B') {
		lx.cursor.Off += 2
		hex := b1 == 'x' || b1 == 'X'
		n := 0
		for {
			b := lx.cursor.Peek()
			if b == '_' || (hex && isHex(b)) || (!hex && (b == '0' || b == '1')) {
				lx.cursor.Bump()
				n++
				continue
			}
			break
		}
		if n == 0 {
			lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "expected digits after base prefix")
		}
		lx.scanIntSuffix()
		return lx.emit(kind, start)
	}

	lx.digits()
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		kind = token.RealLit
		lx.cursor.Bump()
		lx.digits()
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			// "1e" followed by an identifier char is not an exponent
			lx.cursor.Reset(mark)
		} else {
			kind = token.RealLit
			lx.digits()
		}
	}
	switch lx.cursor.Peek() {
	case 'f', 'F', 'd', 'D', 'm', 'M':
		kind = token.RealLit
		lx.cursor.Bump()
	default:
		lx.scanIntSuffix()
	}
	return lx.emit(kind, start)
}

func (lx *Lexer) digits() {
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) scanIntSuffix() {
	for i := 0; i < 2; i++ {
		switch lx.cursor.Peek() {
		case 'u', 'U', 'l', 'L':
			lx.cursor.Bump()
		default:
			return
		}
	}
}
