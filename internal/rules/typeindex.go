package rules

import (
	"slices"
	"strings"

	"drlint/internal/syntax"
)

// TypeIndex maps type simple names to the simple names of their bases,
// across every indexed file. Partial declarations merge. Generic arity is
// ignored: Foo and Foo<T> are one entry.
type TypeIndex struct {
	bases map[string][]string
}

func NewTypeIndex(trees ...*syntax.Tree) *TypeIndex {
	ix := &TypeIndex{bases: make(map[string][]string)}
	for _, t := range trees {
		ix.add(t)
	}
	return ix
}

func (ix *TypeIndex) add(t *syntax.Tree) {
	if t == nil {
		return
	}
	t.Walk(func(id syntax.NodeID) bool {
		n := t.Node(id)
		if !n.Kind.IsTypeDecl() {
			return true
		}
		name := t.NameText(id)
		if name == "" {
			return true
		}
		for _, b := range n.Bases {
			if !slices.Contains(ix.bases[name], b) {
				ix.bases[name] = append(ix.bases[name], b)
			}
		}
		if _, ok := ix.bases[name]; !ok {
			ix.bases[name] = nil
		}
		return true
	})
}

// Bases returns the direct bases recorded for name.
func (ix *TypeIndex) Bases(name string) []string {
	if ix == nil {
		return nil
	}
	return ix.bases[name]
}

// Known reports whether name is declared in an indexed file.
func (ix *TypeIndex) Known(name string) bool {
	_, ok := ix.bases[name]
	return ok
}

// Len returns the number of indexed type names.
func (ix *TypeIndex) Len() int { return len(ix.bases) }

// Entries renders the index as sorted "Name:Base1,Base2" lines.
func (ix *TypeIndex) Entries() []string {
	out := make([]string, 0, len(ix.bases))
	for name, bases := range ix.bases {
		out = append(out, name+":"+strings.Join(bases, ","))
	}
	slices.Sort(out)
	return out
}

// FindAncestor walks the base chain of a type whose direct bases are given
// and returns the first marker met, breadth first. Cycles and bases outside
// the index end the walk.
func (ix *TypeIndex) FindAncestor(direct []string, markers []string) (string, bool) {
	visited := make(map[string]bool)
	queue := slices.Clone(direct)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if visited[name] {
			continue
		}
		visited[name] = true
		if slices.Contains(markers, name) {
			return name, true
		}
		queue = append(queue, ix.Bases(name)...)
	}
	return "", false
}
