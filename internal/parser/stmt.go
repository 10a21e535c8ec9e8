package parser

import (
	"drlint/internal/diag"
	"drlint/internal/syntax"
	"drlint/internal/token"
)

// parseBlock parses "{ statements }".
func (p *Parser) parseBlock() syntax.NodeID {
	id := p.open(syntax.Block)
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'"); !ok {
		return syntax.NoNode
	}
	stmts := p.parseStatementsUntil(token.RBrace)
	p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close block")
	p.node(id).Children = stmts
	return p.done(id)
}

func (p *Parser) parseStatementsUntil(stop token.Kind) []syntax.NodeID {
	var stmts []syntax.NodeID
	for !p.atOr(stop, token.EOF) {
		if p.atSwitchLabel() && stop == token.RBrace {
			// метка секции switch закрывает список инструкций секции
			break
		}
		start := p.pos
		if s := p.parseStatement(); s != syntax.NoNode {
			stmts = append(stmts, s)
		}
		if p.pos == start {
			p.err(diag.SynExpectStatement, "unexpected '"+p.peek().Text+"'")
			p.advance()
		}
	}
	return stmts
}

// parseStatement parses one statement. It returns NoNode only when nothing
// could be recognized; the caller then skips a token.
func (p *Parser) parseStatement() syntax.NodeID {
	switch k := p.peek().Kind; {
	case k == token.LBrace:
		return p.parseBlock()
	case k == token.Semicolon:
		id := p.open(syntax.Empty)
		p.advance()
		return p.done(id)
	case k == token.KwIf:
		return p.parseIf()
	case k == token.KwFor:
		return p.parseFor()
	case k == token.KwForeach:
		return p.parseForEach(p.pos)
	case k == token.KwWhile:
		return p.parseWhile()
	case k == token.KwDo:
		return p.parseDo()
	case k == token.KwLock:
		return p.parseParenthesized(syntax.Lock, p.pos)
	case k == token.KwFixed:
		return p.parseParenthesized(syntax.Fixed, p.pos)
	case k == token.KwUsing && p.peekN(1).Kind == token.LParen:
		return p.parseParenthesized(syntax.UsingStmt, p.pos)
	case k == token.KwUsing:
		return p.parseLocalDecl()
	case p.atWord("await") && p.peekN(1).Kind == token.KwUsing:
		first := p.advance()
		if p.peekN(1).Kind == token.LParen {
			return p.parseParenthesized(syntax.UsingStmt, first)
		}
		return p.parseLocalDeclFrom(first)
	case p.atWord("await") && p.peekN(1).Kind == token.KwForeach:
		first := p.advance()
		return p.parseForEach(first)
	case k == token.KwSwitch:
		return p.parseSwitch()
	case k == token.KwTry:
		return p.parseTry()
	case (k == token.KwChecked || k == token.KwUnchecked) && p.peekN(1).Kind == token.LBrace:
		return p.parseKeywordBlock(syntax.Checked)
	case k == token.KwUnsafe && p.peekN(1).Kind == token.LBrace:
		return p.parseKeywordBlock(syntax.Unsafe)
	case k == token.KwReturn:
		return p.parseJumpWithExpr(syntax.Return)
	case k == token.KwThrow:
		return p.parseJumpWithExpr(syntax.Throw)
	case k == token.KwBreak:
		return p.parseSimpleJump(syntax.Break)
	case k == token.KwContinue:
		return p.parseSimpleJump(syntax.Continue)
	case k == token.KwGoto:
		return p.parseGoto()
	case p.atWord("yield") && p.peekN(1).Kind == token.KwReturn:
		id := p.open(syntax.Yield)
		p.node(id).Keyword = p.advance()
		p.advance()
		e := p.parseExpr()
		p.node(id).Expr = e
		p.expectSemicolon()
		return p.done(id)
	case p.atWord("yield") && p.peekN(1).Kind == token.KwBreak:
		id := p.open(syntax.Yield)
		p.node(id).Keyword = p.advance()
		p.advance()
		p.expectSemicolon()
		return p.done(id)
	case k == token.Ident && p.peekN(1).Kind == token.Colon:
		id := p.open(syntax.Labeled)
		p.node(id).Name = p.advance()
		p.advance()
		if !p.at(token.RBrace) {
			body := p.parseStatement()
			p.node(id).Body = body
		}
		return p.done(id)
	case k == token.KwConst:
		return p.parseLocalDecl()
	}

	if fn, ok := p.tryLocalFunction(); ok {
		return fn
	}
	if p.isLocalDeclStart() {
		return p.parseLocalDecl()
	}
	return p.parseExprStmt()
}

func (p *Parser) expectSemicolon() {
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';'")
}

func (p *Parser) parseExprStmt() syntax.NodeID {
	id := p.open(syntax.ExprStmt)
	e := p.parseExpr()
	if e == syntax.NoNode {
		return syntax.NoNode
	}
	p.node(id).Expr = e
	p.expectSemicolon()
	return p.done(id)
}

// isLocalDeclStart detects "Type name =", "var x;", "ref int r = ...".
func (p *Parser) isLocalDeclStart() bool {
	pos := p.pos
	for p.kindAt(pos) == token.KwRef || p.kindAt(pos) == token.KwReadonly || p.tok(pos).Is("scoped") {
		pos++
	}
	_, ok := p.localDeclEnd(pos, token.Assign, token.Semicolon, token.Comma, token.LBracket)
	return ok
}

func (p *Parser) parseLocalDecl() syntax.NodeID {
	return p.parseLocalDeclFrom(p.pos)
}

// parseLocalDeclFrom parses modifiers, a type and declarators followed by ';'.
func (p *Parser) parseLocalDeclFrom(first syntax.TokenID) syntax.NodeID {
	id := p.openAt(syntax.LocalDecl, first)
	var mods []syntax.TokenID
	for p.atOr(token.KwConst, token.KwUsing, token.KwRef, token.KwReadonly) || p.atWord("scoped") {
		mods = append(mods, p.advance())
	}
	var kids []syntax.NodeID
	if t := p.parseType(); t != syntax.NoNode {
		kids = append(kids, t)
	}
	kids = append(kids, p.parseDeclarators()...)
	p.expectSemicolon()
	n := p.node(id)
	n.Modifiers = mods
	n.Children = kids
	return p.done(id)
}

// parseDeclarators parses "a = 1, b, c[4]" and stops before ';'.
func (p *Parser) parseDeclarators() []syntax.NodeID {
	var out []syntax.NodeID
	for {
		if !p.at(token.Ident) {
			p.err(diag.SynExpectIdentifier, "expected variable name")
			return out
		}
		d := p.open(syntax.Declarator)
		p.node(d).Name = p.advance()
		if p.at(token.LBracket) {
			// fixed-size buffer: fixed int buf[16]
			p.skipBalanced()
		}
		if _, ok := p.eat(token.Assign); ok {
			p.eat(token.KwRef)
			e := p.parseExpr()
			p.node(d).Expr = e
		}
		out = append(out, p.done(d))
		if _, ok := p.eat(token.Comma); !ok {
			return out
		}
	}
}

// tryLocalFunction recognizes "[mods] Type Name(...)" inside a body and
// parses it as a Method.
func (p *Parser) tryLocalFunction() (syntax.NodeID, bool) {
	pos := p.pos
	for p.kindAt(pos) == token.KwStatic || p.kindAt(pos) == token.KwUnsafe ||
		p.kindAt(pos) == token.KwExtern || p.tok(pos).Is("async") {
		pos++
	}
	end, ok := p.localDeclEnd(pos, token.LParen, token.Lt)
	if !ok {
		return syntax.NoNode, false
	}
	// Name(...) must be followed by a body or constraints to be a function
	if p.kindAt(end+1) == token.LParen {
		closeTok, ok := p.matching(end + 1)
		if !ok {
			return syntax.NoNode, false
		}
		switch k := p.tok(closeTok + 1); {
		case k.Kind == token.LBrace, k.Kind == token.FatArrow, k.Is("where"):
		default:
			return syntax.NoNode, false
		}
	}
	return p.parseMethodLike(p.pos, p.parseModifiers()), true
}

func (p *Parser) parseJumpWithExpr(kind syntax.Kind) syntax.NodeID {
	id := p.open(kind)
	p.node(id).Keyword = p.advance()
	if !p.at(token.Semicolon) {
		e := p.parseExpr()
		p.node(id).Expr = e
	}
	p.expectSemicolon()
	return p.done(id)
}

func (p *Parser) parseSimpleJump(kind syntax.Kind) syntax.NodeID {
	id := p.open(kind)
	p.node(id).Keyword = p.advance()
	p.expectSemicolon()
	return p.done(id)
}

func (p *Parser) parseGoto() syntax.NodeID {
	id := p.open(syntax.Goto)
	p.node(id).Keyword = p.advance()
	switch {
	case p.at(token.KwCase):
		p.advance()
		e := p.parseExpr()
		p.node(id).Expr = e
	case p.at(token.KwDefault):
		p.advance()
	default:
		p.expect(token.Ident, diag.SynExpectIdentifier, "expected label")
	}
	p.expectSemicolon()
	return p.done(id)
}

func (p *Parser) parseKeywordBlock(kind syntax.Kind) syntax.NodeID {
	id := p.open(kind)
	p.node(id).Keyword = p.advance()
	blk := p.parseBlock()
	p.node(id).Block = blk
	return p.done(id)
}
