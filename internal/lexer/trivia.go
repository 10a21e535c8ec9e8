package lexer

import (
	"drlint/internal/diag"
	"drlint/internal/token"
)

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\f' || b == '\v'
}

// collectLeadingTrivia gathers the trivia before a significant token into lx.hold.
//   - runs of spaces/tabs coalesce into one TriviaSpace
//   - runs of '\n' coalesce into one TriviaNewline
//   - //... up to '\n' is TriviaLineComment, ///... is TriviaDocLine
//   - /* ... */ is TriviaBlockComment (unterminated: reported, cut at EOF)
//   - a '#' line starting with only indentation is TriviaDirective
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case isSpaceByte(b):
			lx.hold = append(lx.hold, lx.scanSpaces())
		case b == '\n':
			start := lx.cursor.Mark()
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.hold = append(lx.hold, lx.trivia(token.TriviaNewline, start))
		case b == '/':
			tr, ok := lx.scanComment()
			if !ok {
				return
			}
			lx.hold = append(lx.hold, tr)
		case b == '#' && lx.cursor.AtLineStart():
			start := lx.cursor.Mark()
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			lx.hold = append(lx.hold, lx.trivia(token.TriviaDirective, start))
		default:
			return
		}
	}
}

// collectTrailingTrivia takes same-line spaces and comments after a token,
// ending with (and including) a single newline.
func (lx *Lexer) collectTrailingTrivia() []token.Trivia {
	var out []token.Trivia
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case isSpaceByte(b):
			out = append(out, lx.scanSpaces())
		case b == '\n':
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			return append(out, lx.trivia(token.TriviaNewline, start))
		case b == '/':
			tr, ok := lx.scanComment()
			if !ok {
				return out
			}
			out = append(out, tr)
		default:
			return out
		}
	}
	return out
}

func (lx *Lexer) trivia(kind token.TriviaKind, start Mark) token.Trivia {
	sp := lx.cursor.SpanFrom(start)
	return token.Trivia{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
}

func (lx *Lexer) scanSpaces() token.Trivia {
	start := lx.cursor.Mark()
	for isSpaceByte(lx.cursor.Peek()) && !lx.cursor.EOF() {
		lx.cursor.Bump()
	}
	return lx.trivia(token.TriviaSpace, start)
}

// scanComment reads //, /// or /* */; ok is false when the '/' starts an operator.
func (lx *Lexer) scanComment() (token.Trivia, bool) {
	start := lx.cursor.Mark()
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' || (b1 != '/' && b1 != '*') {
		return token.Trivia{}, false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()

	if b1 == '/' {
		kind := token.TriviaLineComment
		// "///" is a doc line, "////" is an ordinary comment again
		if lx.cursor.Peek() == '/' && lx.cursor.PeekAt(1) != '/' {
			kind = token.TriviaDocLine
		}
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		return lx.trivia(kind, start), true
	}

	closed := false
	for !lx.cursor.EOF() {
		if c0, c1, ok := lx.cursor.Peek2(); ok && c0 == '*' && c1 == '/' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			closed = true
			break
		}
		lx.cursor.Bump()
	}
	tr := lx.trivia(token.TriviaBlockComment, start)
	if !closed {
		lx.errLex(diag.LexUnterminatedBlockComment, tr.Span, "unterminated block comment")
	}
	return tr, true
}
