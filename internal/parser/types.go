package parser

import (
	"drlint/internal/diag"
	"drlint/internal/syntax"
	"drlint/internal/token"
)

// parseType builds a TypeRef. Name is the last identifier of the qualified
// name ("IntPtr" in "System.IntPtr[]"); generic arguments become children.
func (p *Parser) parseType() syntax.NodeID {
	if _, ok := p.scanType(p.pos); !ok {
		p.err(diag.SynUnexpectedToken, "expected type")
		return syntax.NoNode
	}
	id := p.open(syntax.TypeRef)
	var kids []syntax.NodeID

	if p.at(token.LParen) {
		p.advance()
		for !p.atOr(token.RParen, token.EOF) {
			if t := p.parseType(); t != syntax.NoNode {
				kids = append(kids, t)
			} else {
				break
			}
			p.eat(token.Ident)
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close tuple type")
	} else {
		for {
			name := p.advance()
			p.node(id).Name = name
			if p.at(token.Lt) {
				if _, ok := p.scanTypeArgs(p.pos); ok {
					kids = append(kids, p.parseTypeArgs()...)
				}
			}
			if p.atOr(token.Dot, token.ColonColon) && p.peekN(1).Kind == token.Ident {
				p.advance()
				continue
			}
			break
		}
	}
	p.parseTypeSuffix()
	p.node(id).Children = kids
	return p.done(id)
}

func (p *Parser) parseTypeSuffix() {
	for {
		switch {
		case p.atOr(token.Question, token.Star):
			p.advance()
		case p.at(token.LBracket):
			end := p.pos + 1
			for p.kindAt(end) == token.Comma {
				end++
			}
			if p.kindAt(end) != token.RBracket {
				return
			}
			for p.pos <= end {
				p.advance()
			}
		default:
			return
		}
	}
}

// parseTypeArgs consumes "<...>" and returns the argument types.
func (p *Parser) parseTypeArgs() []syntax.NodeID {
	p.advance() // <
	var args []syntax.NodeID
	for !p.atOr(token.Gt, token.EOF) {
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		t := p.parseType()
		if t == syntax.NoNode {
			break
		}
		args = append(args, t)
	}
	p.expect(token.Gt, diag.SynUnclosedDelimiter, "expected '>' to close type arguments")
	return args
}

// skipTypeParams consumes a declaration's "<T, in U>" list.
func (p *Parser) skipTypeParams() {
	if !p.at(token.Lt) {
		return
	}
	depth := 0
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
		}
		p.advance()
		if depth == 0 {
			return
		}
	}
}

// skipConstraints consumes "where T : class, new()" clauses.
func (p *Parser) skipConstraints() {
	for p.atWord("where") {
		for !p.atOr(token.LBrace, token.Semicolon, token.FatArrow, token.EOF) {
			if p.at(token.LParen) {
				p.skipBalanced()
				continue
			}
			p.advance()
		}
	}
}
