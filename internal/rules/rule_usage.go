package rules

import (
	"drlint/internal/diag"
	"drlint/internal/source"
	"drlint/internal/syntax"
	"drlint/internal/token"
)

const intPtr = "IntPtr"

// NativeIntSpan returns the span DR0001 reports for id, if any: a type
// reference or name naming IntPtr, with an optional System qualifier.
func NativeIntSpan(t *syntax.Tree, id syntax.NodeID) (source.Span, bool) {
	n := t.Node(id)
	if n == nil || n.Name == syntax.NoToken || t.Token(n.Name).Text != intPtr {
		return source.Span{}, false
	}
	switch n.Kind {
	case syntax.TypeRef:
		if !systemQualifier(t, n.First, n.Name) {
			return source.Span{}, false
		}
		return t.Token(n.First).Span.Cover(t.Token(n.Name).Span), true
	case syntax.Name:
		if n.First != n.Name && !systemQualifier(t, n.First, n.Name) {
			return source.Span{}, false
		}
		return t.Token(n.First).Span.Cover(t.Token(n.Name).Span), true
	case syntax.MemberAccess:
		if q := t.TokenText(n.Expr); t.Kind(n.Expr) != syntax.Name || (q != "System" && q != "global::System") {
			return source.Span{}, false
		}
		return t.Span(n.Expr).Cover(t.Token(n.Name).Span), true
	}
	return source.Span{}, false
}

// systemQualifier accepts "", "System." and "global::System." in front of
// the name token.
func systemQualifier(t *syntax.Tree, first, name syntax.TokenID) bool {
	var q string
	for tid := first; tid < name; tid++ {
		q += t.Token(tid).Text
	}
	switch q {
	case "", "System.", "global::System.":
		return true
	}
	return false
}

// DR0001: IntPtr where nint fits.
func nativeIntRule() Rule {
	return Rule{
		Descriptor: describe(diag.RuleUseNativeInt),
		Kinds:      []syntax.Kind{syntax.TypeRef, syntax.Name, syntax.MemberAccess},
		Eval: func(c *Context, id syntax.NodeID) {
			if span, ok := NativeIntSpan(c.Tree, id); ok {
				c.Report(span, c.Tree.File.Text(span))
			}
		},
	}
}

// ConfigurationMarker resolves the DR0008 marker inherited by the type that
// declares field, if any.
func ConfigurationMarker(t *syntax.Tree, ix *TypeIndex, field syntax.NodeID, markers []string) (string, bool) {
	owner := t.Node(t.Node(field).Parent)
	if owner == nil || !owner.Kind.IsTypeDecl() {
		return "", false
	}
	direct := append([]string(nil), owner.Bases...)
	if ix != nil {
		direct = append(direct, ix.Bases(t.NameText(t.Node(field).Parent))...)
	}
	return ix.FindAncestor(direct, markers)
}

// DR0008: readonly fields in configuration subclasses, one per declarator.
func configFieldReadonlyRule() Rule {
	return Rule{
		Descriptor: describe(diag.RuleConfigFieldReadonly),
		Kinds:      []syntax.Kind{syntax.Field},
		Eval: func(c *Context, id syntax.NodeID) {
			t := c.Tree
			if _, ok := HasModifier(t, id, token.KwReadonly); !ok {
				return
			}
			marker, ok := ConfigurationMarker(t, c.Index, id, c.Markers())
			if !ok {
				return
			}
			for _, d := range c.node(id).Children {
				if dn := t.Node(d); dn.Kind == syntax.Declarator {
					c.Report(c.tokSpan(dn.Name), t.Token(dn.Name).Text, marker)
				}
			}
		},
	}
}
