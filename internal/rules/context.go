package rules

import (
	"drlint/internal/diag"
	"drlint/internal/lexical"
	"drlint/internal/source"
	"drlint/internal/syntax"
	"drlint/internal/token"
)

// Context is what an evaluator sees for one node.
type Context struct {
	Tree  *syntax.Tree
	Index *TypeIndex
	Dict  *lexical.Dictionary

	markers []string
	policy  CasePolicy
	rule    *Rule
	sev     diag.Severity
	out     []diag.Diagnostic
}

// Report records a finding of the current rule.
func (c *Context) Report(span source.Span, args ...string) {
	c.out = append(c.out, diag.NewRule(c.rule.Code(), c.sev, span, args...))
}

// Markers returns the configured DR0008 base names.
func (c *Context) Markers() []string { return c.markers }

// CasePolicy returns the configured DR0010 policy.
func (c *Context) CasePolicy() CasePolicy { return c.policy }

func (c *Context) node(id syntax.NodeID) *syntax.Node { return c.Tree.Node(id) }

func (c *Context) tok(id syntax.TokenID) *token.Token { return c.Tree.Token(id) }

func (c *Context) tokSpan(id syntax.TokenID) source.Span {
	if t := c.tok(id); t != nil {
		return t.Span
	}
	return source.Span{}
}
