package parser

import (
	"drlint/internal/syntax"
	"drlint/internal/token"
)

// Speculative scanners: they only read tokens and return the position after
// the recognized construct. Nothing is reported and nothing is built.

// scanType recognizes a type starting at pos.
func (p *Parser) scanType(pos syntax.TokenID) (syntax.TokenID, bool) {
	switch k := p.kindAt(pos); {
	case k == token.LParen:
		end, ok := p.scanTupleType(pos)
		if !ok {
			return pos, false
		}
		pos = end
	case k == token.Ident || token.IsPredefinedType(k):
		pos = p.scanQualified(pos)
	default:
		return pos, false
	}
	return p.scanTypeSuffix(pos), true
}

func (p *Parser) scanQualified(pos syntax.TokenID) syntax.TokenID {
	for {
		pos++ // ident or predefined type
		if p.kindAt(pos) == token.Lt {
			if end, ok := p.scanTypeArgs(pos); ok {
				pos = end
			}
		}
		if (p.kindAt(pos) == token.Dot || p.kindAt(pos) == token.ColonColon) && p.kindAt(pos+1) == token.Ident {
			pos++
			continue
		}
		return pos
	}
}

func (p *Parser) scanTypeSuffix(pos syntax.TokenID) syntax.TokenID {
	for {
		switch p.kindAt(pos) {
		case token.Question, token.Star:
			pos++
		case token.LBracket:
			end := pos + 1
			for p.kindAt(end) == token.Comma {
				end++
			}
			if p.kindAt(end) != token.RBracket {
				return pos
			}
			pos = end + 1
		default:
			return pos
		}
	}
}

// scanTypeArgs recognizes "<T, U<V>>" with pos at '<'.
func (p *Parser) scanTypeArgs(pos syntax.TokenID) (syntax.TokenID, bool) {
	pos++
	if p.kindAt(pos) == token.Gt {
		// open generic typeof(List<>)
		return pos + 1, true
	}
	for {
		if p.kindAt(pos) == token.Comma {
			pos++ // Dictionary<,>
			continue
		}
		end, ok := p.scanType(pos)
		if !ok {
			return pos, false
		}
		pos = end
		switch p.kindAt(pos) {
		case token.Comma:
			pos++
		case token.Gt:
			return pos + 1, true
		default:
			return pos, false
		}
	}
}

func (p *Parser) scanTupleType(pos syntax.TokenID) (syntax.TokenID, bool) {
	pos++ // (
	elems := 0
	for {
		end, ok := p.scanType(pos)
		if !ok {
			return pos, false
		}
		pos = end
		if p.kindAt(pos) == token.Ident {
			pos++
		}
		elems++
		switch p.kindAt(pos) {
		case token.Comma:
			pos++
		case token.RParen:
			return pos + 1, elems >= 2
		default:
			return pos, false
		}
	}
}

// matching returns the position of the delimiter closing the one at pos.
func (p *Parser) matching(pos syntax.TokenID) (syntax.TokenID, bool) {
	depth := 0
	for {
		switch p.kindAt(pos) {
		case token.LParen, token.LBrace, token.LBracket:
			depth++
		case token.RParen, token.RBrace, token.RBracket:
			depth--
			if depth == 0 {
				return pos, true
			}
		case token.EOF:
			return pos, false
		}
		pos++
	}
}

// genericFollows reports whether the token after a type argument list
// confirms a generic name rather than a '<' comparison.
func genericFollows(k token.Kind) bool {
	switch k {
	case token.LParen, token.RParen, token.RBracket, token.RBrace, token.Colon,
		token.Semicolon, token.Comma, token.Dot, token.Question, token.QuestionDot,
		token.EqEq, token.BangEq, token.EOF, token.LBracket, token.LBrace:
		return true
	}
	return false
}

// isLambdaStart reports "x =>", "(a, b) =>", "async x =>" and friends.
func (p *Parser) isLambdaStart() bool {
	pos := p.pos
	for p.tok(pos).Is("async") || p.kindAt(pos) == token.KwStatic {
		pos++
	}
	switch p.kindAt(pos) {
	case token.Ident:
		return p.kindAt(pos+1) == token.FatArrow
	case token.LParen:
		end, ok := p.matching(pos)
		return ok && p.kindAt(end+1) == token.FatArrow
	}
	return false
}

// isCast disambiguates "(T)x" from a parenthesized expression.
func (p *Parser) isCast() bool {
	end, ok := p.scanType(p.pos + 1)
	if !ok || p.kindAt(end) != token.RParen {
		return false
	}
	next := p.tok(end + 1)
	// (int)x, (Foo.Bar)-1 are casts when the type is a keyword type
	if token.IsPredefinedType(p.kindAt(p.pos+1)) && end == p.pos+2 {
		return canStartExpr(next.Kind)
	}
	switch next.Kind {
	case token.Ident, token.LParen, token.Bang, token.Tilde, token.KwThis, token.KwBase,
		token.KwNew, token.KwTypeof, token.KwSizeof, token.KwDefault, token.KwTrue,
		token.KwFalse, token.KwNull, token.KwChecked, token.KwUnchecked:
		return true
	}
	return next.IsLiteral()
}

// localDeclEnd recognizes "Type name" at pos and returns the position of the
// name. The token after the name must be one of follow.
func (p *Parser) localDeclEnd(pos syntax.TokenID, follow ...token.Kind) (syntax.TokenID, bool) {
	end, ok := p.scanType(pos)
	if !ok || p.kindAt(end) != token.Ident {
		return pos, false
	}
	nextKind := p.kindAt(end + 1)
	for _, f := range follow {
		if nextKind == f {
			return end, true
		}
	}
	return pos, false
}

func canStartExpr(k token.Kind) bool {
	switch k {
	case token.Ident, token.IntLit, token.RealLit, token.CharLit, token.StringLit,
		token.LParen, token.LBracket, token.LBrace, token.Bang, token.Tilde, token.Plus, token.Minus,
		token.PlusPlus, token.MinusMinus, token.Caret, token.Amp, token.Star, token.DotDot,
		token.KwThis, token.KwBase, token.KwNew, token.KwTypeof, token.KwSizeof,
		token.KwDefault, token.KwTrue, token.KwFalse, token.KwNull, token.KwChecked,
		token.KwUnchecked, token.KwDelegate, token.KwStackalloc, token.KwThrow, token.KwRef,
		token.KwStatic:
		return true
	}
	return token.IsPredefinedType(k)
}
