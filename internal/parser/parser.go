package parser

import (
	"slices"

	"drlint/internal/diag"
	"drlint/internal/lexer"
	"drlint/internal/source"
	"drlint/internal/syntax"
	"drlint/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser: состояние парсера на один файл
type Parser struct {
	b    *syntax.Builder
	toks []token.Token
	pos  syntax.TokenID // следующий токен
	last syntax.TokenID // последний съеденный токен
	opts Options
}

// ParseFile lexes and parses one file. Lex and syntax errors go to
// opts.Reporter; the returned tree is always usable.
func ParseFile(file *source.File, opts Options) *syntax.Tree {
	toks := lexer.Tokenize(file, lexer.Options{Reporter: opts.Reporter})
	return Parse(file, toks, opts)
}

// Parse builds a tree over an already lexed token stream that ends with EOF.
func Parse(file *source.File, toks []token.Token, opts Options) *syntax.Tree {
	p := &Parser{
		b:    syntax.NewBuilder(file, toks),
		toks: toks,
		pos:  1,
		opts: opts,
	}
	return p.b.Finish(p.parseCompilationUnit())
}

func (p *Parser) parseCompilationUnit() syntax.NodeID {
	root := p.b.New(syntax.CompilationUnit, p.pos)
	var members []syntax.NodeID
	for !p.at(token.EOF) {
		if id := p.parseMember(false); id != syntax.NoNode {
			members = append(members, id)
		}
	}
	n := p.b.Node(root)
	n.Children = members
	// корень покрывает и EOF, чтобы хвостовая trivia принадлежала дереву
	n.Last = p.pos
	p.b.Seal(root)
	return root
}

// --- token access ---

func (p *Parser) tok(id syntax.TokenID) *token.Token {
	if id == syntax.NoToken || int(id) > len(p.toks) {
		return &p.toks[len(p.toks)-1]
	}
	return &p.toks[id-1]
}

func (p *Parser) peek() *token.Token {
	return p.tok(p.pos)
}

// peekN looks n tokens ahead, saturating at EOF.
func (p *Parser) peekN(n int) *token.Token {
	return p.tok(p.pos + syntax.TokenID(n)) // #nosec G115 -- small lookahead
}

func (p *Parser) kindAt(id syntax.TokenID) token.Kind {
	return p.tok(id).Kind
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// atWord reports a contextual keyword such as "var", "async" or "where".
func (p *Parser) atWord(text string) bool {
	return p.peek().Is(text)
}

func (p *Parser) advance() syntax.TokenID {
	id := p.pos
	if p.kindAt(id) != token.EOF {
		p.last = id
		p.pos++
	}
	return id
}

func (p *Parser) eat(k token.Kind) (syntax.TokenID, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return syntax.NoToken, false
}

// expect: ожидаем конкретный токен. Если нет: репортим и возвращаем (NoToken,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (syntax.TokenID, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, msg)
	return syntax.NoToken, false
}

// adjacent reports that b directly follows a with no trivia in between;
// used to join '>' '>' into a shift.
func (p *Parser) adjacent(a, b syntax.TokenID) bool {
	ta, tb := p.tok(a), p.tok(b)
	return ta.Span.End == tb.Span.Start && len(ta.Trailing) == 0 && len(tb.Leading) == 0
}

// --- nodes ---

func (p *Parser) open(kind syntax.Kind) syntax.NodeID {
	return p.b.New(kind, p.pos)
}

func (p *Parser) openAt(kind syntax.Kind, first syntax.TokenID) syntax.NodeID {
	return p.b.New(kind, first)
}

func (p *Parser) node(id syntax.NodeID) *syntax.Node {
	return p.b.Node(id)
}

// done closes a node at the last consumed token and seals it.
func (p *Parser) done(id syntax.NodeID) syntax.NodeID {
	n := p.b.Node(id)
	n.Last = max(p.last, n.First)
	p.b.Seal(id)
	return id
}

// --- diagnostics ---

// diagSpan: лучший span для диагностики: текущий токен, либо позиция сразу
// после последнего съеденного, если мы на EOF
func (p *Parser) diagSpan() source.Span {
	cur := p.peek()
	if cur.Kind == token.EOF && p.last != syntax.NoToken {
		end := p.tok(p.last).Span.End
		return source.Span{File: cur.Span.File, Start: end, End: end}
	}
	return cur.Span
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, p.diagSpan(), msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	if p.opts.Reporter == nil {
		return
	}
	p.opts.CurrentErrors++
	if p.opts.Enough() {
		return
	}
	p.opts.Reporter.Report(diag.New(diag.SevError, code, sp, msg))
}

// skipBalanced consumes tokens from an opening delimiter up to and including
// its matching close. Unbalanced input stops at EOF with a diagnostic.
func (p *Parser) skipBalanced() {
	openTok := p.pos
	depth := 0
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.LParen, token.LBrace, token.LBracket:
			depth++
		case token.RParen, token.RBrace, token.RBracket:
			depth--
		}
		p.advance()
		if depth <= 0 {
			return
		}
	}
	p.report(diag.SynUnclosedDelimiter, p.tok(openTok).Span, "unclosed '"+p.tok(openTok).Text+"'")
}
