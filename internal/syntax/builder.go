package syntax

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"drlint/internal/source"
	"drlint/internal/token"
)

// Builder assembles a Tree. It is used by the parser only; the resulting
// Tree must not be modified once Finish returns.
type Builder struct {
	tree *Tree
}

func NewBuilder(file *source.File, toks []token.Token) *Builder {
	return &Builder{tree: &Tree{
		File:   file,
		Tokens: toks,
		Nodes:  make([]Node, 0, len(toks)/2+1),
	}}
}

// New allocates a node and returns its id.
func (b *Builder) New(kind Kind, first TokenID) NodeID {
	b.tree.Nodes = append(b.tree.Nodes, Node{Kind: kind, First: first, Last: first})
	id, err := safecast.Conv[uint32](len(b.tree.Nodes))
	if err != nil {
		panic(fmt.Errorf("node arena overflow: %w", err))
	}
	return NodeID(id)
}

// Node exposes a node under construction.
func (b *Builder) Node(id NodeID) *Node {
	return b.tree.Node(id)
}

// Token exposes the token stream to the parser.
func (b *Builder) Token(id TokenID) *token.Token {
	return b.tree.Token(id)
}

// Seal merges role slots into Children, orders children by their first
// token and links parents. Call it once the node's slots are final.
func (b *Builder) Seal(id NodeID) {
	n := b.tree.Node(id)
	n.Children = slices.DeleteFunc(n.Children, func(c NodeID) bool { return c == NoNode })
	for _, slot := range n.roleSlots() {
		if slot != NoNode && !slices.Contains(n.Children, slot) {
			n.Children = append(n.Children, slot)
		}
	}
	slices.SortStableFunc(n.Children, func(a, c NodeID) int {
		fa, fc := b.tree.Node(a).First, b.tree.Node(c).First
		switch {
		case fa < fc:
			return -1
		case fa > fc:
			return 1
		}
		return 0
	})
	for _, c := range n.Children {
		b.tree.Node(c).Parent = id
	}
}

// Finish seals the root and returns the tree.
func (b *Builder) Finish(root NodeID) *Tree {
	b.Seal(root)
	b.tree.Root = root
	return b.tree
}
