package syntax

import (
	"sort"
	"strings"

	"drlint/internal/source"
	"drlint/internal/token"
)

// Tree is the parsed form of one file.
type Tree struct {
	File   *source.File
	Tokens []token.Token // TokenID i is Tokens[i-1]; the last one is EOF
	Nodes  []Node        // NodeID i is Nodes[i-1]
	Root   NodeID
}

// Node returns the node for id, or nil for NoNode.
func (t *Tree) Node(id NodeID) *Node {
	if id == NoNode || int(id) > len(t.Nodes) {
		return nil
	}
	return &t.Nodes[id-1]
}

// Kind returns the kind of id, KindInvalid for NoNode.
func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Node(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}

// Token returns the token for id, or nil for NoToken.
func (t *Tree) Token(id TokenID) *token.Token {
	if id == NoToken || int(id) > len(t.Tokens) {
		return nil
	}
	return &t.Tokens[id-1]
}

// Span covers the node's tokens without surrounding trivia.
func (t *Tree) Span(id NodeID) source.Span {
	n := t.Node(id)
	if n == nil {
		return source.Span{}
	}
	first, last := t.Token(n.First), t.Token(n.Last)
	if first == nil || last == nil {
		return source.Span{}
	}
	return first.Span.Cover(last.Span)
}

// FullSpan extends Span with the first token's leading and the last token's
// trailing trivia.
func (t *Tree) FullSpan(id NodeID) source.Span {
	n := t.Node(id)
	if n == nil {
		return source.Span{}
	}
	first, last := t.Token(n.First), t.Token(n.Last)
	if first == nil || last == nil {
		return source.Span{}
	}
	return first.FullSpan().Cover(last.FullSpan())
}

// Text returns the source covered by Span, inner trivia included.
func (t *Tree) Text(id NodeID) string {
	return t.File.Text(t.Span(id))
}

// FullText returns the source covered by FullSpan.
func (t *Tree) FullText(id NodeID) string {
	return t.File.Text(t.FullSpan(id))
}

// TokenText joins the node's token texts without any trivia:
// "System . IntPtr" yields "System.IntPtr".
func (t *Tree) TokenText(id NodeID) string {
	n := t.Node(id)
	if n == nil {
		return ""
	}
	var b strings.Builder
	for tid := n.First; tid != NoToken && tid <= n.Last; tid++ {
		b.WriteString(t.Token(tid).Text)
	}
	return b.String()
}

// Line returns the 1-based line a token starts on.
func (t *Tree) Line(id TokenID) uint32 {
	tok := t.Token(id)
	if tok == nil {
		return 0
	}
	return t.File.LineOf(tok.Span.Start)
}

// EndLine returns the line of the token's last byte.
func (t *Tree) EndLine(id TokenID) uint32 {
	tok := t.Token(id)
	if tok == nil {
		return 0
	}
	if tok.Span.End > tok.Span.Start {
		return t.File.LineOf(tok.Span.End - 1)
	}
	return t.File.LineOf(tok.Span.Start)
}

// StartLine and LastLine give the physical line range of a node.
func (t *Tree) StartLine(id NodeID) uint32 {
	if n := t.Node(id); n != nil {
		return t.Line(n.First)
	}
	return 0
}

func (t *Tree) LastLine(id NodeID) uint32 {
	if n := t.Node(id); n != nil {
		return t.EndLine(n.Last)
	}
	return 0
}

// Prev returns the token before id, or NoToken.
func (t *Tree) Prev(id TokenID) TokenID {
	if id <= 1 {
		return NoToken
	}
	return id - 1
}

// Next returns the token after id, or NoToken past EOF.
func (t *Tree) Next(id TokenID) TokenID {
	if id == NoToken || int(id) >= len(t.Tokens) {
		return NoToken
	}
	return id + 1
}

// NameText returns the text of the node's Name token.
func (t *Tree) NameText(id NodeID) string {
	n := t.Node(id)
	if n == nil {
		return ""
	}
	if tok := t.Token(n.Name); tok != nil {
		return tok.Text
	}
	return ""
}

// Enclosing returns the nearest ancestor of id (id excluded) whose kind
// satisfies pred.
func (t *Tree) Enclosing(id NodeID, pred func(Kind) bool) NodeID {
	n := t.Node(id)
	for n != nil && n.Parent != NoNode {
		p := n.Parent
		if pred(t.Kind(p)) {
			return p
		}
		n = t.Node(p)
	}
	return NoNode
}

// FindNode returns the innermost node of the given kind whose Span equals sp.
// A node whose Span merely contains sp is used only when no exact match exists.
func (t *Tree) FindNode(sp source.Span, kind Kind) NodeID {
	var exact, containing NodeID
	t.Walk(func(id NodeID) bool {
		nsp := t.Span(id)
		if nsp.File != sp.File || !nsp.Contains(sp) {
			return false
		}
		if t.Kind(id) == kind {
			if nsp.Start == sp.Start && nsp.End == sp.End {
				exact = id
			} else {
				containing = id
			}
		}
		return true
	})
	if exact != NoNode {
		return exact
	}
	return containing
}

// TokenAt returns the token whose Span starts at off.
func (t *Tree) TokenAt(off uint32) TokenID {
	i := sort.Search(len(t.Tokens), func(i int) bool {
		return t.Tokens[i].Span.Start >= off
	})
	if i < len(t.Tokens) && t.Tokens[i].Span.Start == off && t.Tokens[i].Kind != token.EOF {
		return TokenID(i + 1) // #nosec G115 -- bounded by len(t.Tokens)
	}
	return NoToken
}

// Reconstruct concatenates every token with its trivia.
func (t *Tree) Reconstruct() string {
	var b strings.Builder
	b.Grow(len(t.File.Content))
	for i := range t.Tokens {
		tok := &t.Tokens[i]
		for _, tr := range tok.Leading {
			b.WriteString(tr.Text)
		}
		b.WriteString(tok.Text)
		for _, tr := range tok.Trailing {
			b.WriteString(tr.Text)
		}
	}
	return b.String()
}
