package lexer

import (
	"drlint/internal/diag"
	"drlint/internal/source"
	"drlint/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // one-token lookahead buffer
	hold   []token.Trivia // pending leading trivia
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Tokenize lexes the whole file. The result always ends with an EOF token
// that carries the trivia after the last significant token.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	toks := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

// Next returns the next significant token with its Leading and Trailing trivia.
// After EOF it keeps returning EOF with no trivia.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		tok := token.Token{
			Kind:    token.EOF,
			Span:    lx.emptySpan(),
			Leading: lx.hold,
		}
		lx.hold = nil
		return tok
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '@' || ch == '$':
		tok = lx.scanPrefixed()
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		tok = lx.scanIdent()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '.' && isDec(lx.cursor.PeekAt(1)):
		tok = lx.scanNumber()
	case ch == '"':
		tok = lx.scanString()
	case ch == '\'':
		tok = lx.scanChar()
	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.hold
	lx.hold = nil
	tok.Trailing = lx.collectTrailingTrivia()
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) emptySpan() source.Span {
	return source.At(lx.file.ID, lx.cursor.Off)
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanPrefixed handles '@' and '$': verbatim identifiers, verbatim,
// interpolated and raw strings.
func (lx *Lexer) scanPrefixed() token.Token {
	start := lx.cursor.Mark()
	verbatim, interpolated := false, false
	for {
		c := lx.cursor.Peek()
		if c == '@' && !verbatim {
			verbatim = true
			lx.cursor.Bump()
			continue
		}
		if c == '$' && !interpolated {
			interpolated = true
			for lx.cursor.Peek() == '$' {
				lx.cursor.Bump()
			}
			continue
		}
		break
	}

	if lx.cursor.Peek() == '"' {
		return lx.scanStringBody(start, verbatim, interpolated)
	}
	if verbatim && !interpolated && (isIdentStartByte(lx.cursor.Peek()) || lx.cursor.Peek() >= utf8RuneSelf) {
		lx.consumeIdentTail()
		return lx.emit(token.Ident, start)
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, "unexpected '"+lx.file.Text(sp)+"'")
	return lx.emit(token.Invalid, start)
}
