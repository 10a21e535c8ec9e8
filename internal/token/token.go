package token

import (
	"drlint/internal/source"
)

// Token represents a single source token with its location and trivia.
// Trailing holds the spaces and comments after the token on the same line
// plus at most one newline; everything later is Leading of the next token.
type Token struct {
	Kind     Kind
	Span     source.Span
	Text     string
	Leading  []Trivia
	Trailing []Trivia
}

// FullSpan covers the token together with its leading and trailing trivia.
func (t Token) FullSpan() source.Span {
	sp := t.Span
	if len(t.Leading) > 0 {
		sp.Start = t.Leading[0].Span.Start
	}
	if len(t.Trailing) > 0 {
		sp.End = t.Trailing[len(t.Trailing)-1].Span.End
	}
	return sp
}

// FullText reproduces the source covered by FullSpan.
func (t Token) FullText() string {
	n := len(t.Text)
	for _, tr := range t.Leading {
		n += len(tr.Text)
	}
	for _, tr := range t.Trailing {
		n += len(tr.Text)
	}
	buf := make([]byte, 0, n)
	for _, tr := range t.Leading {
		buf = append(buf, tr.Text...)
	}
	buf = append(buf, t.Text...)
	for _, tr := range t.Trailing {
		buf = append(buf, tr.Text...)
	}
	return string(buf)
}

// IsLiteral reports whether the token is a numeric, character, string, boolean or null literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, RealLit, CharLit, StringLit, KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a reserved keyword.
func (t Token) IsKeyword() bool {
	return t.Kind > keywordBegin && t.Kind < keywordEnd
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Is reports whether the token is an identifier with the given text.
// Contextual keywords (var, async, await, yield, get, set, ...) are matched this way.
func (t Token) Is(text string) bool { return t.Kind == Ident && t.Text == text }
