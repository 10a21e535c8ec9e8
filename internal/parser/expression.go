package parser

import (
	"drlint/internal/diag"
	"drlint/internal/syntax"
	"drlint/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precCoalesce       = 1 // ??
	precLogicalOr      = 2 // ||
	precLogicalAnd     = 3 // &&
	precBitwiseOr      = 4 // |
	precBitwiseXor     = 5 // ^
	precBitwiseAnd     = 6 // &
	precEquality       = 7 // == !=
	precRelational     = 8 // < > <= >= is as
	precShift          = 9 // << >>
	precAdditive       = 10
	precMultiplicative = 11
	precRange          = 12 // ..
)

// binaryOp inspects the current position. For ">>" two adjacent '>' tokens
// form one operator; last is the second token.
func (p *Parser) binaryOp() (prec int, rightAssoc bool, width int, ok bool) {
	switch p.peek().Kind {
	case token.QuestionQuestion:
		return precCoalesce, true, 1, true
	case token.OrOr:
		return precLogicalOr, false, 1, true
	case token.AndAnd:
		return precLogicalAnd, false, 1, true
	case token.Pipe:
		return precBitwiseOr, false, 1, true
	case token.Caret:
		return precBitwiseXor, false, 1, true
	case token.Amp:
		return precBitwiseAnd, false, 1, true
	case token.EqEq, token.BangEq:
		return precEquality, false, 1, true
	case token.Lt, token.LtEq, token.GtEq, token.KwIs, token.KwAs:
		return precRelational, false, 1, true
	case token.Gt:
		next := p.pos + 1
		if p.adjacent(p.pos, next) {
			switch p.kindAt(next) {
			case token.Gt:
				return precShift, false, 2, true
			case token.GtEq:
				return 0, false, 0, false // >>=
			}
		}
		return precRelational, false, 1, true
	case token.Shl:
		return precShift, false, 1, true
	case token.Plus, token.Minus:
		return precAdditive, false, 1, true
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative, false, 1, true
	case token.DotDot:
		return precRange, false, 1, true
	}
	return 0, false, 0, false
}

// assignOp reports an assignment operator, including ">>=" split as '>' '>='.
func (p *Parser) assignOp() (width int, ok bool) {
	switch p.peek().Kind {
	case token.Assign, token.PlusAssign, token.MinusAssign, token.StarAssign, token.SlashAssign,
		token.PercentAssign, token.AmpAssign, token.PipeAssign, token.CaretAssign,
		token.ShlAssign, token.QuestionAssign:
		return 1, true
	case token.Gt:
		if p.kindAt(p.pos+1) == token.GtEq && p.adjacent(p.pos, p.pos+1) {
			return 2, true
		}
	}
	return 0, false
}

func (p *Parser) parseExpr() syntax.NodeID {
	if p.isLambdaStart() {
		return p.parseLambda()
	}
	left := p.parseConditional()
	if left == syntax.NoNode {
		return left
	}
	width, ok := p.assignOp()
	if !ok {
		return left
	}
	id := p.openAt(syntax.Assign, p.node(left).First)
	op := p.advance()
	opLast := op
	if width == 2 {
		opLast = p.advance()
	}
	right := p.parseExpr()
	if right == syntax.NoNode {
		p.err(diag.SynExpectExpression, "expected expression after '"+p.tok(op).Text+"'")
	}
	n := p.node(id)
	n.Left, n.Op, n.OpLast, n.Right = left, op, opLast, right
	return p.done(id)
}

func (p *Parser) parseConditional() syntax.NodeID {
	cond := p.parseBinary(precCoalesce)
	if cond == syntax.NoNode || !p.at(token.Question) {
		return cond
	}
	id := p.openAt(syntax.Conditional, p.node(cond).First)
	p.advance()
	left := p.parseExpr()
	p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in conditional expression")
	right := p.parseExpr()
	n := p.node(id)
	n.Cond, n.Left, n.Right = cond, left, right
	return p.done(id)
}

func (p *Parser) parseBinary(minPrec int) syntax.NodeID {
	left := p.parseUnary()
	if left == syntax.NoNode {
		return left
	}
	for {
		prec, rightAssoc, width, ok := p.binaryOp()
		if !ok || prec < minPrec {
			return left
		}
		id := p.openAt(syntax.Binary, p.node(left).First)
		op := p.advance()
		opLast := op
		if width == 2 {
			opLast = p.advance()
		}

		var right syntax.NodeID
		switch p.kindAt(op) {
		case token.KwIs, token.KwAs:
			right = p.parsePattern()
		case token.DotDot:
			if canStartExpr(p.peek().Kind) {
				right = p.parseBinary(prec + 1)
			}
		default:
			next := prec + 1
			if rightAssoc {
				next = prec
			}
			right = p.parseBinary(next)
			if right == syntax.NoNode {
				p.err(diag.SynExpectExpression, "expected expression after '"+p.tok(op).Text+"'")
			}
		}
		n := p.node(id)
		n.Left, n.Op, n.OpLast, n.Right = left, op, opLast, right
		left = p.done(id)
	}
}

// parsePattern covers the right side of is/as: a type with an optional
// designation, "not"/"null" forms, or a constant expression.
func (p *Parser) parsePattern() syntax.NodeID {
	if p.atWord("not") {
		p.advance()
	}
	if p.atOr(token.Lt, token.Gt, token.LtEq, token.GtEq) {
		// relational pattern: is > 5
		id := p.open(syntax.Unary)
		op := p.advance()
		n := p.node(id)
		n.Op, n.OpLast = op, op
		operand := p.parseUnary()
		p.node(id).Expr = operand
		return p.done(id)
	}
	if _, ok := p.scanType(p.pos); ok && !p.at(token.LParen) {
		t := p.parseType()
		if p.at(token.LBrace) {
			p.skipBalanced() // property pattern
		}
		if p.at(token.Ident) && !p.atWord("and") && !p.atWord("or") && !p.atWord("when") {
			d := p.open(syntax.Declarator)
			p.node(d).Name = p.advance()
			p.done(d)
			p.node(t).Children = append(p.node(t).Children, d)
		}
		p.node(t).Last = p.last
		p.b.Seal(t)
		return t
	}
	if p.at(token.LBrace) {
		id := p.open(syntax.Other)
		p.skipBalanced()
		return p.done(id)
	}
	return p.parseUnary()
}

func (p *Parser) parseUnary() syntax.NodeID {
	switch k := p.peek().Kind; {
	case k == token.Plus || k == token.Minus || k == token.Bang || k == token.Tilde ||
		k == token.PlusPlus || k == token.MinusMinus || k == token.Caret || k == token.Amp ||
		k == token.Star || k == token.KwThrow || k == token.KwRef || k == token.DotDot:
		id := p.open(syntax.Unary)
		op := p.advance()
		var operand syntax.NodeID
		if k == token.KwThrow || k == token.KwRef {
			operand = p.parseExpr()
		} else if k != token.DotDot || canStartExpr(p.peek().Kind) {
			operand = p.parseUnary()
		}
		n := p.node(id)
		n.Op, n.OpLast, n.Expr = op, op, operand
		return p.done(id)
	case p.atWord("await") && canStartExpr(p.peekN(1).Kind):
		id := p.open(syntax.Unary)
		op := p.advance()
		operand := p.parseUnary()
		n := p.node(id)
		n.Op, n.OpLast, n.Expr = op, op, operand
		return p.done(id)
	case k == token.LParen && p.isCast():
		id := p.open(syntax.Cast)
		op := p.advance()
		t := p.parseType()
		p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after cast type")
		operand := p.parseUnary()
		n := p.node(id)
		n.Op, n.Expr = op, operand
		n.Children = append(n.Children, t)
		return p.done(id)
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *Parser) parsePostfix(expr syntax.NodeID) syntax.NodeID {
	if expr == syntax.NoNode {
		return expr
	}
	for {
		first := p.node(expr).First
		switch {
		case p.atOr(token.Dot, token.QuestionDot, token.Arrow):
			id := p.openAt(syntax.MemberAccess, first)
			op := p.advance()
			name, _ := p.expect(token.Ident, diag.SynExpectIdentifier, "expected member name")
			var kids []syntax.NodeID
			if name != syntax.NoToken && p.at(token.Lt) {
				if end, ok := p.scanTypeArgs(p.pos); ok && genericFollows(p.kindAt(end)) {
					kids = p.parseTypeArgs()
				}
			}
			n := p.node(id)
			n.Expr, n.Op, n.Name = expr, op, name
			n.Children = kids
			expr = p.done(id)
		case p.at(token.LParen):
			id := p.openAt(syntax.Invocation, first)
			open := p.advance()
			args := p.parseArgs(token.RParen)
			closeTok, _ := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close argument list")
			n := p.node(id)
			n.Expr, n.Op, n.Close = expr, open, closeTok
			n.Children = args
			expr = p.done(id)
		case p.at(token.LBracket) || (p.at(token.Question) && p.peekN(1).Kind == token.LBracket):
			id := p.openAt(syntax.ElementAccess, first)
			if p.at(token.Question) {
				p.advance()
			}
			open := p.advance()
			args := p.parseArgs(token.RBracket)
			closeTok, _ := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']'")
			n := p.node(id)
			n.Expr, n.Op, n.Close = expr, open, closeTok
			n.Children = args
			expr = p.done(id)
		case p.atOr(token.PlusPlus, token.MinusMinus):
			id := p.openAt(syntax.Unary, first)
			op := p.advance()
			n := p.node(id)
			n.Expr, n.Op, n.OpLast = expr, op, op
			expr = p.done(id)
		case p.at(token.Bang) && nullForgivingFollows(p.peekN(1).Kind):
			id := p.openAt(syntax.Unary, first)
			op := p.advance()
			n := p.node(id)
			n.Expr, n.Op, n.OpLast = expr, op, op
			expr = p.done(id)
		case (p.at(token.KwSwitch) || p.atWord("with")) && p.peekN(1).Kind == token.LBrace:
			id := p.openAt(syntax.Other, first)
			p.node(id).Keyword = p.advance()
			p.node(id).Expr = expr
			body := p.parseBracedExprs()
			p.node(id).Children = body
			expr = p.done(id)
		default:
			return expr
		}
	}
}

func nullForgivingFollows(k token.Kind) bool {
	switch k {
	case token.Dot, token.QuestionDot, token.RParen, token.Semicolon, token.Comma,
		token.RBracket, token.LBracket, token.RBrace, token.Bang, token.Question,
		token.QuestionQuestion, token.Colon, token.EOF:
		return true
	}
	return false
}

// parseBracedExprs handles switch-expression arms and with-initializers:
// "{ pattern => expr, ... }" and "{ A = 1, B = 2 }". Arms are returned as
// expression nodes so lambdas inside them stay visible to the rules.
func (p *Parser) parseBracedExprs() []syntax.NodeID {
	p.advance() // {
	var out []syntax.NodeID
	for !p.atOr(token.RBrace, token.EOF) {
		start := p.pos
		arm := p.open(syntax.Other)
		for !p.atOr(token.FatArrow, token.Comma, token.RBrace, token.EOF) {
			if p.atOr(token.LParen, token.LBracket, token.LBrace) {
				p.skipBalanced()
				continue
			}
			p.advance()
		}
		if p.at(token.FatArrow) {
			p.advance()
			if e := p.parseExpr(); e != syntax.NoNode {
				p.node(arm).Expr = e
			}
		}
		if p.pos == start {
			p.advance()
		}
		p.done(arm)
		out = append(out, arm)
		p.eat(token.Comma)
	}
	p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}'")
	return out
}

func (p *Parser) parsePrimary() syntax.NodeID {
	switch k := p.peek().Kind; {
	case k == token.IntLit || k == token.RealLit || k == token.CharLit || k == token.StringLit ||
		k == token.KwTrue || k == token.KwFalse || k == token.KwNull:
		id := p.open(syntax.Literal)
		p.advance()
		return p.done(id)

	case k == token.KwDefault:
		id := p.open(syntax.Literal)
		p.node(id).Keyword = p.advance()
		if p.at(token.LParen) {
			p.node(id).Kind = syntax.Other
			p.advance()
			t := p.parseType()
			p.node(id).Children = []syntax.NodeID{t}
			p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'")
		}
		return p.done(id)

	case k == token.Ident || k == token.KwThis || k == token.KwBase || token.IsPredefinedType(k):
		return p.parseName()

	case k == token.LParen:
		return p.parseParenOrTuple()

	case k == token.KwNew:
		return p.parseObjectCreation()

	case k == token.KwTypeof || k == token.KwSizeof:
		id := p.open(syntax.Other)
		p.node(id).Keyword = p.advance()
		p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
		if t := p.parseType(); t != syntax.NoNode {
			p.node(id).Children = []syntax.NodeID{t}
		}
		p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'")
		return p.done(id)

	case (k == token.KwChecked || k == token.KwUnchecked) && p.peekN(1).Kind == token.LParen:
		id := p.open(syntax.Other)
		p.node(id).Keyword = p.advance()
		p.advance()
		e := p.parseExpr()
		p.node(id).Expr = e
		p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'")
		return p.done(id)

	case k == token.KwDelegate:
		return p.parseAnonymousMethod()

	case k == token.KwStackalloc:
		id := p.open(syntax.Other)
		p.node(id).Keyword = p.advance()
		var kids []syntax.NodeID
		if !p.at(token.LBracket) {
			if t := p.parseType(); t != syntax.NoNode {
				kids = append(kids, t)
			}
		}
		if p.at(token.LBracket) {
			p.advance()
			kids = append(kids, p.parseArgs(token.RBracket)...)
			p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']'")
		}
		if p.at(token.LBrace) {
			kids = append(kids, p.parseInitializer())
		}
		p.node(id).Children = kids
		return p.done(id)

	case k == token.LBrace:
		return p.parseInitializer()

	case k == token.LBracket:
		// collection expression [a, b, ..c]
		id := p.open(syntax.Initializer)
		p.advance()
		elems := p.parseArgs(token.RBracket)
		p.node(id).Children = elems
		p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']'")
		return p.done(id)
	}

	p.err(diag.SynExpectExpression, "expected expression, found '"+p.peek().Text+"'")
	return syntax.NoNode
}

// parseName handles identifiers, this/base, keyword types used as
// expressions (int.Parse), alias::Name and generic names Foo<T>.
func (p *Parser) parseName() syntax.NodeID {
	id := p.open(syntax.Name)
	name := p.advance()
	if p.at(token.ColonColon) && p.peekN(1).Kind == token.Ident {
		p.advance()
		name = p.advance()
	}
	p.node(id).Name = name
	if p.at(token.Lt) {
		if end, ok := p.scanTypeArgs(p.pos); ok && genericFollows(p.kindAt(end)) {
			args := p.parseTypeArgs()
			p.node(id).Children = args
		}
	}
	return p.done(id)
}

func (p *Parser) parseParenOrTuple() syntax.NodeID {
	id := p.open(syntax.Paren)
	p.advance()
	var elems []syntax.NodeID
	for !p.atOr(token.RParen, token.EOF) {
		start := p.pos
		// (var a, var b) = ... и (int x, y): деконструкция
		if end, ok := p.localDeclEnd(p.pos, token.Comma, token.RParen); ok {
			elems = append(elems, p.parseInlineDeclarator(end))
		} else if e := p.parseExpr(); e != syntax.NoNode {
			elems = append(elems, e)
		}
		if _, ok := p.eat(token.Comma); !ok {
			if p.pos == start {
				p.advance()
			}
			if !p.at(token.RParen) {
				break
			}
		}
	}
	p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'")
	n := p.node(id)
	if len(elems) == 1 {
		n.Expr = elems[0]
	} else {
		n.Kind = syntax.Other
		n.Children = elems
	}
	return p.done(id)
}

// parseInlineDeclarator builds "Type name" used in out-arguments and
// deconstruction: a LocalDecl with one Declarator. nameAt is the name token.
func (p *Parser) parseInlineDeclarator(nameAt syntax.TokenID) syntax.NodeID {
	id := p.open(syntax.LocalDecl)
	var kids []syntax.NodeID
	if t := p.parseType(); t != syntax.NoNode {
		kids = append(kids, t)
	}
	if p.pos == nameAt {
		d := p.open(syntax.Declarator)
		p.node(d).Name = p.advance()
		kids = append(kids, p.done(d))
	}
	p.node(id).Children = kids
	return p.done(id)
}

func (p *Parser) parseObjectCreation() syntax.NodeID {
	id := p.open(syntax.ObjectCreation)
	p.node(id).Keyword = p.advance() // new
	var kids []syntax.NodeID

	switch {
	case p.at(token.LParen):
		// target-typed new(...)
	case p.at(token.LBracket):
		p.advance()
		for p.at(token.Comma) {
			p.advance()
		}
		p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']'")
	case p.at(token.LBrace):
		// anonymous type
	default:
		if t := p.parseType(); t != syntax.NoNode {
			kids = append(kids, t)
		}
		if p.at(token.LBracket) {
			p.advance()
			kids = append(kids, p.parseArgs(token.RBracket)...)
			p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']'")
			p.parseTypeSuffix()
		}
	}
	if p.at(token.LParen) {
		p.advance()
		kids = append(kids, p.parseArgs(token.RParen)...)
		p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close argument list")
	}
	if p.at(token.LBrace) {
		kids = append(kids, p.parseInitializer())
	}
	p.node(id).Children = kids
	return p.done(id)
}

// parseInitializer parses "{ a, b = c, { d } }" and "[i] = v" members.
func (p *Parser) parseInitializer() syntax.NodeID {
	id := p.open(syntax.Initializer)
	p.advance() // {
	var kids []syntax.NodeID
	for !p.atOr(token.RBrace, token.EOF) {
		start := p.pos
		if e := p.parseExpr(); e != syntax.NoNode {
			kids = append(kids, e)
		}
		if _, ok := p.eat(token.Comma); !ok && p.pos == start {
			p.advance()
		}
	}
	p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close initializer")
	p.node(id).Children = kids
	return p.done(id)
}

// parseArgs parses a comma separated argument list up to (not including)
// close. Named arguments, ref/out/in modifiers and out declarations are
// accepted.
func (p *Parser) parseArgs(closeKind token.Kind) []syntax.NodeID {
	var args []syntax.NodeID
	for !p.atOr(closeKind, token.EOF) {
		start := p.pos
		if p.at(token.Ident) && p.peekN(1).Kind == token.Colon {
			p.advance()
			p.advance()
		}
		if p.atOr(token.KwOut, token.KwIn) || (p.at(token.KwRef) && p.peekN(1).Kind != token.LParen) {
			p.advance()
			if end, ok := p.localDeclEnd(p.pos, closeKind, token.Comma); ok {
				args = append(args, p.parseInlineDeclarator(end))
				if !p.eatSeparator(closeKind, start) {
					break
				}
				continue
			}
		}
		if e := p.parseExpr(); e != syntax.NoNode {
			args = append(args, e)
		}
		if !p.eatSeparator(closeKind, start) {
			break
		}
	}
	return args
}

// eatSeparator consumes ',' between list elements. It guarantees progress
// and reports false when the list is over.
func (p *Parser) eatSeparator(closeKind token.Kind, start syntax.TokenID) bool {
	if _, ok := p.eat(token.Comma); ok {
		return true
	}
	if p.at(closeKind) {
		return false
	}
	if p.pos == start {
		p.advance()
		return true
	}
	// стоим на мусоре: дальше по списку, но не за пределы строки аргументов
	return !p.atOr(token.Semicolon, token.RBrace, token.EOF)
}

func (p *Parser) parseLambda() syntax.NodeID {
	id := p.open(syntax.Lambda)
	for p.atWord("async") || p.at(token.KwStatic) {
		p.node(id).Modifiers = append(p.node(id).Modifiers, p.advance())
	}
	var params []syntax.NodeID
	if p.at(token.LParen) {
		params = p.parseParameterList(token.LParen, token.RParen)
	} else {
		prm := p.open(syntax.Parameter)
		p.node(prm).Name = p.advance()
		params = append(params, p.done(prm))
	}
	p.expect(token.FatArrow, diag.SynUnexpectedToken, "expected '=>'")
	var body syntax.NodeID
	if p.at(token.LBrace) {
		body = p.parseBlock()
	} else {
		body = p.parseExpr()
	}
	n := p.node(id)
	n.Children = params
	n.Body = body
	return p.done(id)
}

func (p *Parser) parseAnonymousMethod() syntax.NodeID {
	id := p.open(syntax.AnonymousMethod)
	p.node(id).Keyword = p.advance()
	var params []syntax.NodeID
	if p.at(token.LParen) {
		params = p.parseParameterList(token.LParen, token.RParen)
	}
	var body syntax.NodeID
	if p.at(token.LBrace) {
		body = p.parseBlock()
	} else {
		p.err(diag.SynUnexpectedToken, "expected '{' after delegate")
	}
	n := p.node(id)
	n.Children = params
	n.Body = body
	return p.done(id)
}
