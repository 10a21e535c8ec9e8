package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"drlint/internal/source"
	"drlint/internal/syntax"
)

type treeNode struct {
	label    string
	children []*treeNode
}

func buildTreeNode(tree *syntax.Tree, fs *source.FileSet, id syntax.NodeID) *treeNode {
	n := tree.Node(id)
	if n == nil {
		return &treeNode{label: "<nil>"}
	}
	label := n.Kind.String()
	if name := tree.NameText(id); name != "" {
		label += " " + name
	}
	if tok := tree.Token(n.Op); tok != nil {
		op := tok.Text
		if n.OpLast > n.Op {
			for tid := n.Op + 1; tid <= n.OpLast; tid++ {
				op += tree.Token(tid).Text
			}
		}
		label += fmt.Sprintf(" %q", op)
	}
	if len(n.Bases) > 0 {
		label += " : " + strings.Join(n.Bases, ", ")
	}
	start, end := fs.Resolve(tree.Span(id))
	label += fmt.Sprintf(" [%d:%d-%d:%d]", start.Line, start.Col, end.Line, end.Col)

	out := &treeNode{label: label}
	for _, child := range n.Children {
		out.children = append(out.children, buildTreeNode(tree, fs, child))
	}
	return out
}

func (n *treeNode) render(b *strings.Builder, prefix string, last, root bool) {
	switch {
	case root:
		b.WriteString(n.label)
	case last:
		b.WriteString(prefix + "└─ " + n.label)
	default:
		b.WriteString(prefix + "├─ " + n.label)
	}
	b.WriteByte('\n')
	childPrefix := prefix
	if !root {
		if last {
			childPrefix += "   "
		} else {
			childPrefix += "│  "
		}
	}
	for i, c := range n.children {
		c.render(b, childPrefix, i == len(n.children)-1, false)
	}
}

// FormatTreePretty prints the syntax tree one node per line with box-drawing guides.
func FormatTreePretty(w io.Writer, tree *syntax.Tree, fs *source.FileSet) error {
	if tree == nil || tree.Root == syntax.NoNode {
		_, err := fmt.Fprintln(w, "<empty>")
		return err
	}
	var b strings.Builder
	buildTreeNode(tree, fs, tree.Root).render(&b, "", true, true)
	_, err := io.WriteString(w, b.String())
	return err
}

type NodeJSON struct {
	Kind     string      `json:"kind"`
	Name     string      `json:"name,omitempty"`
	Span     source.Span `json:"span"`
	Bases    []string    `json:"bases,omitempty"`
	Children []NodeJSON  `json:"children,omitempty"`
}

func buildNodeJSON(tree *syntax.Tree, id syntax.NodeID) NodeJSON {
	n := tree.Node(id)
	out := NodeJSON{
		Kind:  n.Kind.String(),
		Name:  tree.NameText(id),
		Span:  tree.Span(id),
		Bases: n.Bases,
	}
	for _, child := range n.Children {
		if tree.Node(child) != nil {
			out.Children = append(out.Children, buildNodeJSON(tree, child))
		}
	}
	return out
}

// FormatTreeJSON writes the syntax tree as nested JSON objects.
func FormatTreeJSON(w io.Writer, tree *syntax.Tree) error {
	var root *NodeJSON
	if tree != nil && tree.Node(tree.Root) != nil {
		r := buildNodeJSON(tree, tree.Root)
		root = &r
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(root)
}
