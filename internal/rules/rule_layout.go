package rules

import (
	"drlint/internal/diag"
	"drlint/internal/syntax"
)

// DR0004: the body starts on the line of its header.
func bodyOnNewLineRule() Rule {
	return Rule{
		Descriptor: describe(diag.RuleBodyOnNewLine),
		Kinds:      bodyOwnerKinds,
		Eval: func(c *Context, id syntax.NodeID) {
			t := c.Tree
			n := c.node(id)
			if n.Body == syntax.NoNode || IsElseIf(t, id) || t.Kind(n.Body).IsJump() {
				return
			}
			anchor := BodyAnchor(t, id)
			if anchor == syntax.NoToken {
				return
			}
			if t.EndLine(anchor) == t.StartLine(n.Body) {
				c.Report(t.Span(n.Body), Keyword(t, id))
			}
		},
	}
}

// DR0005: a braced body holding one simple single-line statement.
func singleLineNoBlockRule() Rule {
	return Rule{
		Descriptor: describe(diag.RuleSingleLineNoBlock),
		Kinds:      bodyOwnerKinds,
		Eval: func(c *Context, id syntax.NodeID) {
			t := c.Tree
			n := c.node(id)
			if IsElseIf(t, id) || !isBlock(t, n.Body) {
				return
			}
			if BlockIsRedundant(t, n.Body) {
				c.Report(t.Span(n.Body), Keyword(t, id))
			}
		},
	}
}

// DR0006: an unbraced body that is a control construct, spans several
// logical lines or holds a lambda block. Scope-acquisition chains are judged
// once, at the outermost link, by their terminal statement.
func multiLineNeedsBlockRule() Rule {
	return Rule{
		Descriptor: describe(diag.RuleMultiLineNeedsBlock),
		Kinds:      bodyOwnerKinds,
		Eval: func(c *Context, id syntax.NodeID) {
			t := c.Tree
			n := c.node(id)
			if n.Body == syntax.NoNode || isBlock(t, n.Body) || IsElseIf(t, id) || IsChainLink(t, id) {
				return
			}
			if n.Kind.IsScopeAcquisition() && t.Kind(n.Body).IsScopeAcquisition() {
				_, terminal := ChainTerminal(t, id)
				if terminal == syntax.NoNode || isBlock(t, terminal) || !NeedsBlock(t, terminal) {
					return
				}
				c.Report(t.Span(n.Body), Keyword(t, id))
				return
			}
			if NeedsBlock(t, n.Body) {
				c.Report(t.Span(n.Body), Keyword(t, id))
			}
		},
	}
}

var checkedOperators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"<<": true, ">>": true, "||": true, "&&": true,
	"|": true, "&": true, "^": true, "??": true,
}

// OperatorText joins the operator tokens of a binary node; ">>" is two.
func OperatorText(t *syntax.Tree, id syntax.NodeID) string {
	n := t.Node(id)
	op := t.Token(n.Op)
	if op == nil {
		return ""
	}
	if n.OpLast != syntax.NoToken && n.OpLast != n.Op {
		return op.Text + t.Token(n.OpLast).Text
	}
	return op.Text
}

// DR0007: a wrapped binary operator that leads its line.
func operatorAtLineEndRule() Rule {
	return Rule{
		Descriptor: describe(diag.RuleOperatorAtLineEnd),
		Kinds:      []syntax.Kind{syntax.Binary},
		Eval: func(c *Context, id syntax.NodeID) {
			t := c.Tree
			n := c.node(id)
			opText := OperatorText(t, id)
			if !checkedOperators[opText] || n.Left == syntax.NoNode {
				return
			}
			op := c.tok(n.Op)
			if t.Line(n.Op) <= t.LastLine(n.Left) || !t.File.OnlySpaceBefore(op.Span.Start) {
				return
			}
			span := op.Span
			if n.OpLast != n.Op {
				span = span.Cover(c.tokSpan(n.OpLast))
			}
			c.Report(span, opText)
		},
	}
}
