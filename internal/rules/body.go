package rules

import "drlint/internal/syntax"

var bodyOwnerKinds = []syntax.Kind{
	syntax.If, syntax.Else, syntax.For, syntax.ForEach, syntax.While,
	syntax.Do, syntax.UsingStmt, syntax.Lock, syntax.Fixed,
}

// Keyword returns the construct keyword used in messages: "if", "else",
// "using", ...
func Keyword(t *syntax.Tree, id syntax.NodeID) string {
	n := t.Node(id)
	if n == nil {
		return ""
	}
	if tok := t.Token(n.Keyword); tok != nil {
		return tok.Text
	}
	return n.Kind.String()
}

// BodyAnchor is the token the body of a construct follows: ')' for
// parenthesized headers, the keyword for else and do.
func BodyAnchor(t *syntax.Tree, id syntax.NodeID) syntax.TokenID {
	n := t.Node(id)
	switch n.Kind {
	case syntax.Else, syntax.Do:
		return n.Keyword
	}
	return n.Close
}

// IsElseIf reports an else clause whose body is an if statement.
func IsElseIf(t *syntax.Tree, id syntax.NodeID) bool {
	n := t.Node(id)
	return n.Kind == syntax.Else && t.Kind(n.Body) == syntax.If
}

// IsSimple reports a statement that is not a control construct.
func IsSimple(t *syntax.Tree, id syntax.NodeID) bool {
	return !t.Kind(id).IsControl()
}

// HasLambdaBlock reports a lambda or anonymous method with a block body
// anywhere inside id.
func HasLambdaBlock(t *syntax.Tree, id syntax.NodeID) bool {
	return t.Any(id, func(d syntax.NodeID) bool {
		n := t.Node(d)
		return (n.Kind == syntax.Lambda || n.Kind == syntax.AnonymousMethod) && t.Kind(n.Body) == syntax.Block
	})
}

// IsSingleLogicalLine reports a statement on one physical line, or an
// expression statement whose only line breaks sit inside the argument list
// of its invocation:
//
//	Log(a,
//	    b);
func IsSingleLogicalLine(t *syntax.Tree, id syntax.NodeID) bool {
	n := t.Node(id)
	if n == nil {
		return false
	}
	if t.Line(n.First) == t.EndLine(n.Last) {
		return true
	}
	inv := statementInvocation(t, id)
	if inv == syntax.NoNode {
		return false
	}
	call := t.Node(inv)
	if call.Op == syntax.NoToken || call.Close == syntax.NoToken {
		return false
	}
	return t.Line(n.First) == t.Line(call.Op) && t.EndLine(call.Close) == t.EndLine(n.Last)
}

// statementInvocation unwraps "x = await Call(...);" down to the call.
func statementInvocation(t *syntax.Tree, id syntax.NodeID) syntax.NodeID {
	n := t.Node(id)
	if n.Kind != syntax.ExprStmt {
		return syntax.NoNode
	}
	e := n.Expr
	for e != syntax.NoNode {
		en := t.Node(e)
		switch {
		case en.Kind == syntax.Invocation:
			return e
		case en.Kind == syntax.Assign:
			e = en.Right
		case en.Kind == syntax.Unary && t.Token(en.Op).Is("await"):
			e = en.Expr
		default:
			return syntax.NoNode
		}
	}
	return syntax.NoNode
}

// IsChainLink reports a scope-acquisition statement that is the body of
// another one: the inner "using" of "using (a) using (b) s;".
func IsChainLink(t *syntax.Tree, id syntax.NodeID) bool {
	n := t.Node(id)
	if n == nil || !n.Kind.IsScopeAcquisition() {
		return false
	}
	p := t.Node(n.Parent)
	return p != nil && p.Kind.IsScopeAcquisition() && p.Body == id
}

// ChainTerminal follows a chain of scope-acquisition bodies from id and
// returns the last link and the statement it governs.
func ChainTerminal(t *syntax.Tree, id syntax.NodeID) (link, terminal syntax.NodeID) {
	link = id
	for {
		body := t.Node(link).Body
		if !t.Kind(body).IsScopeAcquisition() {
			return link, body
		}
		link = body
	}
}

// SingleStatement returns the only statement of a block, or NoNode.
func SingleStatement(t *syntax.Tree, block syntax.NodeID) syntax.NodeID {
	n := t.Node(block)
	if n == nil || n.Kind != syntax.Block || len(n.Children) != 1 {
		return syntax.NoNode
	}
	return n.Children[0]
}

// embeddable reports statements that may stand as an unbraced body.
// Declarations and labels may not.
func embeddable(k syntax.Kind) bool {
	return k != syntax.LocalDecl && k != syntax.Labeled && k != syntax.Method
}

// NeedsBlock is the DR0006 test for an unbraced body.
func NeedsBlock(t *syntax.Tree, body syntax.NodeID) bool {
	return !IsSimple(t, body) || !IsSingleLogicalLine(t, body) || HasLambdaBlock(t, body)
}

// BlockIsRedundant is the DR0005 test for a braced body.
func BlockIsRedundant(t *syntax.Tree, block syntax.NodeID) bool {
	s := SingleStatement(t, block)
	if s == syntax.NoNode || !embeddable(t.Kind(s)) {
		return false
	}
	return IsSimple(t, s) && !HasLambdaBlock(t, s) && IsSingleLogicalLine(t, s)
}

func isBlock(t *syntax.Tree, id syntax.NodeID) bool {
	return t.Kind(id) == syntax.Block
}
