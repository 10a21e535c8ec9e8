// Package rename resolves declared names and builds rename plans.
//
// Index is the symbol-resolution collaborator: it maps a declaration name to
// a Symbol and enumerates every reference to it. LexicalIndex is the built-in
// implementation. It matches identifier tokens by text and narrows locals and
// parameters to their enclosing member, which is exact for well-formed code
// without shadowing and conservative otherwise.
package rename

import (
	"slices"
	"strings"

	"drlint/internal/rules"
	"drlint/internal/source"
	"drlint/internal/syntax"
	"drlint/internal/token"
)

// Symbol is a declared name.
type Symbol struct {
	Name string // without a verbatim '@'
	Decl source.Span
	Kind syntax.Kind
	Role rules.DeclRole
	// Scope bounds the references. The zero Span means every indexed file.
	Scope source.Span
}

// Local reports whether references are confined to Scope.
func (s Symbol) Local() bool { return s.Scope != (source.Span{}) }

type Index interface {
	Resolve(span source.Span) (Symbol, bool)
	References(sym Symbol) []source.Span
}

// LexicalIndex resolves symbols over a fixed set of trees.
type LexicalIndex struct {
	trees map[source.FileID]*syntax.Tree
	files []source.FileID
}

func NewLexicalIndex(trees ...*syntax.Tree) *LexicalIndex {
	ix := &LexicalIndex{trees: make(map[source.FileID]*syntax.Tree, len(trees))}
	for _, t := range trees {
		if t == nil || t.File == nil {
			continue
		}
		if _, dup := ix.trees[t.File.ID]; !dup {
			ix.files = append(ix.files, t.File.ID)
		}
		ix.trees[t.File.ID] = t
	}
	slices.Sort(ix.files)
	return ix
}

// Tree returns the indexed tree of a file.
func (ix *LexicalIndex) Tree(id source.FileID) (*syntax.Tree, bool) {
	t, ok := ix.trees[id]
	return t, ok
}

// Resolve finds the declaration whose name token has exactly span.
func (ix *LexicalIndex) Resolve(span source.Span) (Symbol, bool) {
	t, ok := ix.trees[span.File]
	if !ok {
		return Symbol{}, false
	}
	tid := t.TokenAt(span.Start)
	tok := t.Token(tid)
	if tok == nil || tok.Kind != token.Ident || tok.Span != span {
		return Symbol{}, false
	}
	for i := range t.Nodes {
		id := syntax.NodeID(i + 1) // #nosec G115 -- bounded by len(t.Nodes)
		name, role := rules.Declaration(t, id)
		if name != tid || role == rules.RoleNone {
			continue
		}
		sym := Symbol{
			Name: strings.TrimPrefix(tok.Text, "@"),
			Decl: span,
			Kind: t.Kind(id),
			Role: role,
		}
		if role == rules.RoleLocal || role == rules.RoleParameter {
			sym.Scope = localScope(t, id)
		}
		return sym, true
	}
	return Symbol{}, false
}

func localScope(t *syntax.Tree, id syntax.NodeID) source.Span {
	owner := t.Enclosing(id, func(k syntax.Kind) bool {
		switch k {
		case syntax.Method, syntax.Constructor, syntax.Property, syntax.Lambda, syntax.AnonymousMethod:
			return true
		}
		return false
	})
	if owner == syntax.NoNode {
		owner = t.Root
	}
	return t.Span(owner)
}

// References lists the spans of every identifier naming sym, declaration
// included, ordered by file and offset. Local symbols skip member accesses
// such as "other.name".
func (ix *LexicalIndex) References(sym Symbol) []source.Span {
	var out []source.Span
	for _, fid := range ix.files {
		if sym.Local() && fid != sym.Scope.File {
			continue
		}
		t := ix.trees[fid]
		for i := range t.Tokens {
			tok := &t.Tokens[i]
			if tok.Kind != token.Ident || strings.TrimPrefix(tok.Text, "@") != sym.Name {
				continue
			}
			if sym.Local() {
				if !sym.Scope.Contains(tok.Span) {
					continue
				}
				if prev := t.Token(t.Prev(syntax.TokenID(i + 1))); prev != nil && prev.Kind == token.Dot { // #nosec G115
					continue
				}
			}
			out = append(out, tok.Span)
		}
	}
	return out
}
