package parser

import (
	"drlint/internal/diag"
	"drlint/internal/syntax"
	"drlint/internal/token"
)

var contextualModifiers = map[string]struct{}{
	"partial":  {},
	"async":    {},
	"required": {},
	"file":     {},
	"scoped":   {},
}

// parseModifiers consumes keyword and contextual modifiers. A contextual word
// is a modifier only when another declaration token follows it.
func (p *Parser) parseModifiers() []syntax.TokenID {
	var mods []syntax.TokenID
	for {
		cur := p.peek()
		if cur.Kind == token.KwNew && !p.newIsModifier() {
			return mods
		}
		if token.IsModifier(cur.Kind) && !(cur.Kind == token.KwFixed && p.peekN(1).Kind == token.LParen) {
			mods = append(mods, p.advance())
			continue
		}
		if cur.Kind == token.Ident {
			if _, ok := contextualModifiers[cur.Text]; ok {
				next := p.peekN(1)
				if next.Kind == token.Ident || next.IsKeyword() {
					mods = append(mods, p.advance())
					continue
				}
			}
		}
		return mods
	}
}

// newIsModifier tells "new void M()" from "new Foo()" at the current 'new'.
func (p *Parser) newIsModifier() bool {
	next := p.peekN(1)
	if token.IsModifier(next.Kind) || next.Kind == token.KwClass || next.Kind == token.KwStruct ||
		next.Kind == token.KwInterface || next.Kind == token.KwEnum || next.Kind == token.KwDelegate {
		return true
	}
	end, ok := p.scanType(p.pos + 1)
	if !ok {
		return false
	}
	k := p.kindAt(end)
	return k == token.Ident || k == token.KwThis || k == token.KwOperator
}

// skipAttributes consumes "[...]" attribute sections.
func (p *Parser) skipAttributes() {
	for p.at(token.LBracket) {
		p.skipBalanced()
	}
}

// parseMember parses one namespace- or type-level declaration. At the
// compilation-unit level top-level statements are accepted too.
func (p *Parser) parseMember(inType bool) syntax.NodeID {
	start := p.pos
	if p.at(token.KwUsing) && !inType && p.peekN(1).Kind != token.LParen {
		return p.parseUsingDirective(start)
	}
	if p.atWord("global") && p.peekN(1).Kind == token.KwUsing {
		return p.parseUsingDirective(start)
	}
	if p.at(token.KwNamespace) {
		return p.parseNamespace()
	}

	p.skipAttributes()
	first := start
	mods := p.parseModifiers()

	switch k := p.peek(); {
	case k.Kind == token.KwClass || k.Kind == token.KwStruct || k.Kind == token.KwInterface:
		return p.parseTypeDecl(first, mods)
	case k.Is("record") && (p.peekN(1).Kind == token.Ident || p.peekN(1).Kind == token.KwClass || p.peekN(1).Kind == token.KwStruct):
		return p.parseTypeDecl(first, mods)
	case k.Kind == token.KwEnum:
		return p.parseEnum(first, mods)
	case k.Kind == token.KwDelegate && p.peekN(1).Kind != token.LParen && p.peekN(1).Kind != token.LBrace:
		return p.skipDeclaration(first, syntax.Other)
	case k.Kind == token.RBrace && inType:
		return syntax.NoNode
	}

	if !inType && len(mods) == 0 && p.pos == first && p.looksLikeStatement() {
		return p.parseStatement()
	}

	id := p.parseTypeMember(first, mods, inType)
	if p.pos == start {
		p.err(diag.SynUnexpectedToken, "unexpected '"+p.peek().Text+"'")
		p.advance()
	}
	return id
}

// looksLikeStatement decides whether a top-level token run is a statement
// rather than a member declaration.
func (p *Parser) looksLikeStatement() bool {
	switch p.peek().Kind {
	case token.KwIf, token.KwFor, token.KwForeach, token.KwWhile, token.KwDo, token.KwSwitch,
		token.KwTry, token.KwReturn, token.KwThrow, token.KwLock, token.KwFixed, token.KwUsing,
		token.KwBreak, token.KwContinue, token.KwGoto, token.LBrace, token.Semicolon:
		return true
	}
	if _, ok := p.localDeclEnd(p.pos, token.LParen, token.Lt, token.LBrace, token.FatArrow); ok {
		return false // member
	}
	if p.isLocalDeclStart() {
		return true
	}
	return canStartExpr(p.peek().Kind) && !p.at(token.KwStatic)
}

func (p *Parser) parseUsingDirective(first syntax.TokenID) syntax.NodeID {
	id := p.openAt(syntax.Using, first)
	for !p.atOr(token.Semicolon, token.EOF) {
		p.advance()
	}
	p.expectSemicolon()
	return p.done(id)
}

func (p *Parser) parseNamespace() syntax.NodeID {
	id := p.open(syntax.Namespace)
	kw := p.advance()
	name, _ := p.expect(token.Ident, diag.SynExpectIdentifier, "expected namespace name")
	for p.at(token.Dot) && p.peekN(1).Kind == token.Ident {
		p.advance()
		name = p.advance()
	}
	var members []syntax.NodeID
	if _, ok := p.eat(token.Semicolon); ok {
		// file-scoped namespace: the rest of the file
		for !p.at(token.EOF) {
			if m := p.parseMember(false); m != syntax.NoNode {
				members = append(members, m)
			}
		}
	} else if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after namespace name"); ok {
		for !p.atOr(token.RBrace, token.EOF) {
			if m := p.parseMember(false); m != syntax.NoNode {
				members = append(members, m)
			}
		}
		p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close namespace")
		p.eat(token.Semicolon)
	}
	n := p.node(id)
	n.Keyword, n.Name = kw, name
	n.Children = members
	return p.done(id)
}

// parseTypeDecl parses class, struct, interface and record declarations.
func (p *Parser) parseTypeDecl(first syntax.TokenID, mods []syntax.TokenID) syntax.NodeID {
	kind := syntax.Class
	kw := p.advance()
	switch p.kindAt(kw) {
	case token.KwStruct:
		kind = syntax.Struct
	case token.KwInterface:
		kind = syntax.Interface
	}
	if p.tok(kw).Is("record") && p.at(token.KwStruct) {
		kind = syntax.Struct
		p.advance()
	} else if p.tok(kw).Is("record") {
		p.eat(token.KwClass)
	}
	id := p.openAt(kind, first)

	name, _ := p.expect(token.Ident, diag.SynExpectIdentifier, "expected type name")
	p.skipTypeParams()

	var kids []syntax.NodeID
	if p.at(token.LParen) {
		kids = append(kids, p.parseParameterList(token.LParen, token.RParen)...)
	}
	var bases []string
	if _, ok := p.eat(token.Colon); ok {
		for {
			t := p.parseType()
			if t == syntax.NoNode {
				break
			}
			kids = append(kids, t)
			bases = append(bases, p.tok(p.node(t).Name).Text)
			if p.at(token.LParen) {
				// record base with arguments: record B(int X) : A(X)
				p.advance()
				kids = append(kids, p.parseArgs(token.RParen)...)
				p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'")
			}
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
	}
	p.skipConstraints()

	if _, ok := p.eat(token.Semicolon); !ok {
		if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to open type body"); ok {
			for !p.atOr(token.RBrace, token.EOF) {
				if m := p.parseMember(true); m != syntax.NoNode {
					kids = append(kids, m)
				}
			}
			p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close type body")
			p.eat(token.Semicolon)
		}
	}

	n := p.node(id)
	n.Keyword, n.Name, n.Modifiers, n.Bases = kw, name, mods, bases
	n.Children = kids
	return p.done(id)
}

func (p *Parser) parseEnum(first syntax.TokenID, mods []syntax.TokenID) syntax.NodeID {
	id := p.openAt(syntax.Enum, first)
	kw := p.advance()
	name, _ := p.expect(token.Ident, diag.SynExpectIdentifier, "expected enum name")
	var kids []syntax.NodeID
	if _, ok := p.eat(token.Colon); ok {
		if t := p.parseType(); t != syntax.NoNode {
			kids = append(kids, t)
		}
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to open enum body"); ok {
		for !p.atOr(token.RBrace, token.EOF) {
			start := p.pos
			p.skipAttributes()
			if p.at(token.Ident) {
				m := p.openAt(syntax.EnumMember, start)
				p.node(m).Name = p.advance()
				if _, ok := p.eat(token.Assign); ok {
					e := p.parseExpr()
					p.node(m).Expr = e
				}
				kids = append(kids, p.done(m))
			}
			if _, ok := p.eat(token.Comma); !ok {
				if p.pos == start {
					p.err(diag.SynExpectIdentifier, "expected enum member")
					p.advance()
					continue
				}
				if !p.at(token.RBrace) {
					p.err(diag.SynUnexpectedToken, "expected ',' or '}' in enum body")
				}
			}
		}
		p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close enum body")
		p.eat(token.Semicolon)
	}
	n := p.node(id)
	n.Keyword, n.Name, n.Modifiers = kw, name, mods
	n.Children = kids
	return p.done(id)
}

// skipDeclaration consumes up to the next ';' at depth 0.
func (p *Parser) skipDeclaration(first syntax.TokenID, kind syntax.Kind) syntax.NodeID {
	id := p.openAt(kind, first)
	for !p.atOr(token.Semicolon, token.EOF) {
		if p.atOr(token.LParen, token.LBracket, token.LBrace) {
			p.skipBalanced()
			continue
		}
		p.advance()
	}
	p.expectSemicolon()
	return p.done(id)
}

// parseTypeMember parses fields, methods, constructors, properties,
// indexers, operators and events.
func (p *Parser) parseTypeMember(first syntax.TokenID, mods []syntax.TokenID, inType bool) syntax.NodeID {
	// constructor: Name(   destructor: ~Name(
	if p.at(token.Tilde) && p.peekN(1).Kind == token.Ident {
		p.advance()
		return p.parseMethodLikeKind(syntax.Method, first, mods, syntax.NoNode)
	}
	if inType && p.at(token.Ident) && p.peekN(1).Kind == token.LParen {
		return p.parseMethodLikeKind(syntax.Constructor, first, mods, syntax.NoNode)
	}
	// conversion operators: implicit operator T(...)
	if p.atOr(token.KwImplicit, token.KwExplicit) {
		p.advance()
		p.expect(token.KwOperator, diag.SynUnexpectedToken, "expected 'operator'")
		id := p.openAt(syntax.Method, first)
		var kids []syntax.NodeID
		if t := p.parseType(); t != syntax.NoNode {
			kids = append(kids, t)
		}
		return p.finishMethod(id, mods, syntax.NoToken, kids)
	}

	typ := p.parseType()
	if typ == syntax.NoNode {
		return syntax.NoNode
	}

	switch {
	case p.at(token.KwOperator):
		p.advance()
		id := p.openAt(syntax.Method, first)
		p.advance() // operator symbol
		if p.at(token.Gt) {
			p.advance() // >>
		}
		return p.finishMethod(id, mods, syntax.NoToken, []syntax.NodeID{typ})
	case p.at(token.KwThis) && p.peekN(1).Kind == token.LBracket:
		id := p.openAt(syntax.Property, first)
		p.advance()
		params := p.parseParameterList(token.LBracket, token.RBracket)
		return p.finishProperty(id, mods, syntax.NoToken, append([]syntax.NodeID{typ}, params...))
	case !p.at(token.Ident):
		p.err(diag.SynExpectIdentifier, "expected member name")
		return p.skipDeclaration(first, syntax.Other)
	}

	// explicit interface implementation: IFoo.Bar
	name := p.advance()
	for p.at(token.Dot) && p.peekN(1).Kind == token.Ident {
		p.advance()
		name = p.advance()
	}
	if p.at(token.Dot) && p.peekN(1).Kind == token.KwThis {
		p.advance()
		p.advance()
		id := p.openAt(syntax.Property, first)
		params := p.parseParameterList(token.LBracket, token.RBracket)
		return p.finishProperty(id, mods, syntax.NoToken, append([]syntax.NodeID{typ}, params...))
	}

	switch {
	case p.atOr(token.LParen, token.Lt):
		id := p.openAt(syntax.Method, first)
		p.skipTypeParams()
		return p.finishMethod(id, mods, name, []syntax.NodeID{typ})
	case p.atOr(token.LBrace, token.FatArrow):
		id := p.openAt(syntax.Property, first)
		return p.finishProperty(id, mods, name, []syntax.NodeID{typ})
	}

	// field: the name we already consumed is the first declarator
	id := p.openAt(syntax.Field, first)
	kids := []syntax.NodeID{typ}
	d := p.openAt(syntax.Declarator, name)
	if p.at(token.LBracket) {
		p.skipBalanced()
	}
	if _, ok := p.eat(token.Assign); ok {
		e := p.parseExpr()
		p.node(d).Expr = e
	}
	p.node(d).Name = name
	kids = append(kids, p.done(d))
	if _, ok := p.eat(token.Comma); ok {
		kids = append(kids, p.parseDeclarators()...)
	}
	p.expectSemicolon()
	n := p.node(id)
	n.Modifiers = mods
	n.Children = kids
	return p.done(id)
}

// parseMethodLike parses a local function after its modifiers.
func (p *Parser) parseMethodLike(first syntax.TokenID, mods []syntax.TokenID) syntax.NodeID {
	typ := p.parseType()
	id := p.openAt(syntax.Method, first)
	name, _ := p.expect(token.Ident, diag.SynExpectIdentifier, "expected function name")
	p.skipTypeParams()
	return p.finishMethod(id, mods, name, []syntax.NodeID{typ})
}

// parseMethodLikeKind handles constructors and destructors: Name(...).
func (p *Parser) parseMethodLikeKind(kind syntax.Kind, first syntax.TokenID, mods []syntax.TokenID, typ syntax.NodeID) syntax.NodeID {
	id := p.openAt(kind, first)
	name := p.advance()
	return p.finishMethod(id, mods, name, []syntax.NodeID{typ})
}

// finishMethod parses parameters, constraints, constructor initializer and
// the body: a block, "=> expr;" or ';'.
func (p *Parser) finishMethod(id syntax.NodeID, mods []syntax.TokenID, name syntax.TokenID, kids []syntax.NodeID) syntax.NodeID {
	if p.at(token.LParen) {
		kids = append(kids, p.parseParameterList(token.LParen, token.RParen)...)
	} else {
		p.err(diag.SynUnexpectedToken, "expected '(' to open parameter list")
	}
	p.skipConstraints()
	if _, ok := p.eat(token.Colon); ok {
		// : base(...) / : this(...)
		if p.atOr(token.KwBase, token.KwThis) {
			p.advance()
		}
		if p.at(token.LParen) {
			p.advance()
			kids = append(kids, p.parseArgs(token.RParen)...)
			p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'")
		}
	}
	var body, expr syntax.NodeID
	switch {
	case p.at(token.LBrace):
		body = p.parseBlock()
	case p.at(token.FatArrow):
		p.advance()
		expr = p.parseExpr()
		p.expectSemicolon()
	default:
		p.expectSemicolon()
	}
	n := p.node(id)
	n.Name, n.Modifiers, n.Body, n.Expr = name, mods, body, expr
	n.Children = kids
	return p.done(id)
}

// finishProperty parses accessors "{ get; private set => x = value; }",
// an expression body, and an optional initializer.
func (p *Parser) finishProperty(id syntax.NodeID, mods []syntax.TokenID, name syntax.TokenID, kids []syntax.NodeID) syntax.NodeID {
	var expr syntax.NodeID
	if _, ok := p.eat(token.FatArrow); ok {
		expr = p.parseExpr()
		p.expectSemicolon()
	} else if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to open accessor list"); ok {
		for !p.atOr(token.RBrace, token.EOF) {
			start := p.pos
			p.skipAttributes()
			p.parseModifiers()
			if !p.at(token.Ident) {
				p.err(diag.SynExpectIdentifier, "expected accessor")
				if p.pos == start {
					p.advance()
				}
				continue
			}
			acc := p.openAt(syntax.Other, start)
			p.node(acc).Keyword = p.advance()
			switch {
			case p.at(token.LBrace):
				b := p.parseBlock()
				p.node(acc).Body = b
			case p.at(token.FatArrow):
				p.advance()
				e := p.parseExpr()
				p.node(acc).Expr = e
				p.expectSemicolon()
			default:
				p.expectSemicolon()
			}
			kids = append(kids, p.done(acc))
		}
		p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close accessor list")
		if _, ok := p.eat(token.Assign); ok {
			init := p.parseExpr()
			if init != syntax.NoNode {
				kids = append(kids, init)
			}
			p.expectSemicolon()
		}
	}
	n := p.node(id)
	n.Name, n.Modifiers, n.Expr = name, mods, expr
	n.Children = kids
	return p.done(id)
}

// parseParameterList parses "(int a, ref T b = default, params X[] c)".
// Untyped lambda parameters "(a, b)" are accepted too.
func (p *Parser) parseParameterList(openKind, closeKind token.Kind) []syntax.NodeID {
	p.expect(openKind, diag.SynUnexpectedToken, "expected parameter list")
	var params []syntax.NodeID
	for !p.atOr(closeKind, token.EOF) {
		start := p.pos
		p.skipAttributes()
		prm := p.openAt(syntax.Parameter, start)
		var mods []syntax.TokenID
		for p.atOr(token.KwRef, token.KwOut, token.KwIn, token.KwParams, token.KwThis, token.KwReadonly) || p.atWord("scoped") {
			mods = append(mods, p.advance())
		}
		var kids []syntax.NodeID
		var name syntax.TokenID
		if p.at(token.Ident) && (p.peekN(1).Kind == token.Comma || p.peekN(1).Kind == closeKind) {
			name = p.advance()
		} else if t := p.parseType(); t != syntax.NoNode {
			kids = append(kids, t)
			name, _ = p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
		}
		var def syntax.NodeID
		if _, ok := p.eat(token.Assign); ok {
			def = p.parseExpr()
		}
		n := p.node(prm)
		n.Name, n.Modifiers, n.Expr = name, mods, def
		n.Children = kids
		params = append(params, p.done(prm))
		if !p.eatSeparator(closeKind, start) {
			break
		}
	}
	p.expect(closeKind, diag.SynUnclosedDelimiter, "expected '"+closeKind.String()+"' to close parameter list")
	return params
}
