package parser

import (
	"drlint/internal/diag"
	"drlint/internal/syntax"
	"drlint/internal/token"
)

// parseEmbedded parses the body of a control construct. A missing body is
// reported and yields NoNode.
func (p *Parser) parseEmbedded(owner string) syntax.NodeID {
	if p.atOr(token.RBrace, token.EOF) {
		p.err(diag.SynExpectStatement, "expected statement after '"+owner+"'")
		return syntax.NoNode
	}
	return p.parseStatement()
}

// parseIf handles if/else chains; an else clause is an Else node whose Body
// may itself be an If.
func (p *Parser) parseIf() syntax.NodeID {
	id := p.open(syntax.If)
	kw := p.advance()
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'if'")
	cond := p.parseExpr()
	closeTok, _ := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after condition")
	body := p.parseEmbedded("if")

	var elseID syntax.NodeID
	if p.at(token.KwElse) {
		elseID = p.open(syntax.Else)
		ekw := p.advance()
		ebody := p.parseEmbedded("else")
		en := p.node(elseID)
		en.Keyword, en.Body = ekw, ebody
		p.done(elseID)
	}

	n := p.node(id)
	n.Keyword, n.Close, n.Cond, n.Body, n.Else = kw, closeTok, cond, body, elseID
	return p.done(id)
}

func (p *Parser) parseFor() syntax.NodeID {
	id := p.open(syntax.For)
	kw := p.advance()
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'for'")
	var header []syntax.NodeID

	// initializer
	if !p.at(token.Semicolon) {
		if p.isLocalDeclStart() {
			decl := p.open(syntax.LocalDecl)
			var kids []syntax.NodeID
			if t := p.parseType(); t != syntax.NoNode {
				kids = append(kids, t)
			}
			kids = append(kids, p.parseDeclarators()...)
			p.node(decl).Children = kids
			header = append(header, p.done(decl))
		} else {
			header = append(header, p.parseExprList(token.Semicolon)...)
		}
	}
	p.expectSemicolon()
	if !p.at(token.Semicolon) {
		if c := p.parseExpr(); c != syntax.NoNode {
			header = append(header, c)
		}
	}
	p.expectSemicolon()
	if !p.at(token.RParen) {
		header = append(header, p.parseExprList(token.RParen)...)
	}
	closeTok, _ := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after for header")
	body := p.parseEmbedded("for")

	n := p.node(id)
	n.Keyword, n.Close, n.Body = kw, closeTok, body
	n.Children = header
	return p.done(id)
}

func (p *Parser) parseExprList(stop token.Kind) []syntax.NodeID {
	var out []syntax.NodeID
	for !p.atOr(stop, token.EOF) {
		start := p.pos
		if e := p.parseExpr(); e != syntax.NoNode {
			out = append(out, e)
		}
		if _, ok := p.eat(token.Comma); !ok {
			if p.pos == start {
				p.advance()
				continue
			}
			break
		}
	}
	return out
}

// parseForEach parses "foreach (T x in expr) body"; first is the position
// of "await" when present.
func (p *Parser) parseForEach(first syntax.TokenID) syntax.NodeID {
	id := p.openAt(syntax.ForEach, first)
	kw := p.advance()
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'foreach'")

	var header []syntax.NodeID
	if end, ok := p.localDeclEnd(p.pos, token.KwIn); ok {
		header = append(header, p.parseInlineDeclarator(end))
	} else {
		// deconstruction: foreach (var (a, b) in xs)
		for !p.atOr(token.KwIn, token.RParen, token.EOF) {
			if p.at(token.LParen) {
				p.skipBalanced()
				continue
			}
			p.advance()
		}
	}
	p.expect(token.KwIn, diag.SynUnexpectedToken, "expected 'in' in foreach")
	if src := p.parseExpr(); src != syntax.NoNode {
		header = append(header, src)
	}
	closeTok, _ := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after foreach header")
	body := p.parseEmbedded("foreach")

	n := p.node(id)
	n.Keyword, n.Close, n.Body = kw, closeTok, body
	n.Children = header
	return p.done(id)
}

func (p *Parser) parseWhile() syntax.NodeID {
	id := p.open(syntax.While)
	kw := p.advance()
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'while'")
	cond := p.parseExpr()
	closeTok, _ := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after condition")
	body := p.parseEmbedded("while")
	n := p.node(id)
	n.Keyword, n.Close, n.Cond, n.Body = kw, closeTok, cond, body
	return p.done(id)
}

func (p *Parser) parseDo() syntax.NodeID {
	id := p.open(syntax.Do)
	kw := p.advance()
	body := p.parseEmbedded("do")
	var cond syntax.NodeID
	if _, ok := p.expect(token.KwWhile, diag.SynUnexpectedToken, "expected 'while' after do body"); ok {
		p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'while'")
		cond = p.parseExpr()
		p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after condition")
		p.expectSemicolon()
	}
	n := p.node(id)
	n.Keyword, n.Body, n.Cond = kw, body, cond
	return p.done(id)
}

// parseParenthesized covers using (...), lock (...) and fixed (...): the
// header is either a declaration or an expression.
func (p *Parser) parseParenthesized(kind syntax.Kind, first syntax.TokenID) syntax.NodeID {
	id := p.openAt(kind, first)
	kw := p.advance()
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after '"+p.tok(kw).Text+"'")

	var header []syntax.NodeID
	if kind != syntax.Lock && p.isLocalDeclStart() {
		decl := p.open(syntax.LocalDecl)
		var kids []syntax.NodeID
		if t := p.parseType(); t != syntax.NoNode {
			kids = append(kids, t)
		}
		kids = append(kids, p.parseDeclarators()...)
		p.node(decl).Children = kids
		header = append(header, p.done(decl))
	} else if !p.at(token.RParen) {
		if e := p.parseExpr(); e != syntax.NoNode {
			header = append(header, e)
		}
	}
	closeTok, _ := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'")
	body := p.parseEmbedded(p.tok(kw).Text)

	n := p.node(id)
	n.Keyword, n.Close, n.Body = kw, closeTok, body
	n.Children = header
	return p.done(id)
}

func (p *Parser) atSwitchLabel() bool {
	return p.at(token.KwCase) || (p.at(token.KwDefault) && p.peekN(1).Kind == token.Colon)
}

// parseSwitch parses a switch statement. Every section becomes an Other
// node holding its statements; labels are skipped.
func (p *Parser) parseSwitch() syntax.NodeID {
	id := p.open(syntax.Switch)
	kw := p.advance()
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'switch'")
	subject := p.parseExpr()
	closeTok, _ := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'")
	var sections []syntax.NodeID
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after switch header"); ok {
		for !p.atOr(token.RBrace, token.EOF) {
			if !p.atSwitchLabel() {
				p.err(diag.SynUnexpectedToken, "expected 'case' or 'default'")
				p.advance()
				continue
			}
			sec := p.open(syntax.Other)
			for p.atSwitchLabel() {
				p.skipLabel()
			}
			stmts := p.parseStatementsUntil(token.RBrace)
			p.node(sec).Children = stmts
			sections = append(sections, p.done(sec))
		}
		p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close switch")
	}
	n := p.node(id)
	n.Keyword, n.Close, n.Expr = kw, closeTok, subject
	n.Children = sections
	return p.done(id)
}

// skipLabel consumes "case <pattern> [when <expr>]:" or "default:".
func (p *Parser) skipLabel() {
	p.advance()
	for !p.atOr(token.Colon, token.EOF, token.RBrace) {
		if p.atOr(token.LParen, token.LBracket, token.LBrace) {
			p.skipBalanced()
			continue
		}
		p.advance()
	}
	p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after case label")
}

func (p *Parser) parseTry() syntax.NodeID {
	id := p.open(syntax.Try)
	kw := p.advance()
	var kids []syntax.NodeID
	if b := p.parseBlock(); b != syntax.NoNode {
		kids = append(kids, b)
	}
	for p.at(token.KwCatch) {
		p.advance()
		if p.at(token.LParen) {
			p.advance()
			decl := p.open(syntax.LocalDecl)
			var dk []syntax.NodeID
			if t := p.parseType(); t != syntax.NoNode {
				dk = append(dk, t)
			}
			if p.at(token.Ident) {
				d := p.open(syntax.Declarator)
				p.node(d).Name = p.advance()
				dk = append(dk, p.done(d))
			}
			p.node(decl).Children = dk
			kids = append(kids, p.done(decl))
			p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after catch declaration")
		}
		if p.atWord("when") {
			p.advance()
			p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'when'")
			if f := p.parseExpr(); f != syntax.NoNode {
				kids = append(kids, f)
			}
			p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'")
		}
		if b := p.parseBlock(); b != syntax.NoNode {
			kids = append(kids, b)
		}
	}
	if _, ok := p.eat(token.KwFinally); ok {
		if b := p.parseBlock(); b != syntax.NoNode {
			kids = append(kids, b)
		}
	}
	n := p.node(id)
	n.Keyword = kw
	n.Children = kids
	return p.done(id)
}
