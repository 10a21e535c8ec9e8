package synth

import (
	"fmt"
	"strings"

	"drlint/internal/diag"
	"drlint/internal/rules"
	"drlint/internal/source"
	"drlint/internal/syntax"
	"drlint/internal/token"
)

// bodyAt finds the construct whose body spans exactly sp.
func bodyAt(t *syntax.Tree, sp source.Span) (owner, body syntax.NodeID) {
	for i := range t.Nodes {
		n := &t.Nodes[i]
		if n.Kind.IsBodyOwner() && n.Body != syntax.NoNode && t.Span(n.Body) == sp {
			return syntax.NodeID(i + 1), n.Body // #nosec G115 -- bounded by len(t.Nodes)
		}
	}
	return syntax.NoNode, syntax.NoNode
}

// constructIndent is the indentation of the line holding the construct keyword.
func constructIndent(t *syntax.Tree, owner syntax.NodeID) string {
	n := t.Node(owner)
	kw := n.Keyword
	if kw == syntax.NoToken {
		kw = n.First
	}
	return t.File.Indent(t.Token(kw).Span.Start)
}

// gapComments collects the comments between two tokens on one line, each
// prefixed with a space.
func gapComments(t *syntax.Tree, prev, next syntax.TokenID) string {
	var b strings.Builder
	for _, list := range [][]token.Trivia{t.Token(prev).Trailing, t.Token(next).Leading} {
		for _, tr := range list {
			if tr.IsComment() {
				b.WriteString(" ")
				b.WriteString(tr.Text)
			}
		}
	}
	return b.String()
}

// lineBreak replaces the space between prev and next with a newline and
// indent. Comments in between stay on prev's line.
func lineBreak(t *syntax.Tree, prev, next syntax.TokenID, indent string) diag.TextEdit {
	sp := source.Span{File: t.File.ID, Start: t.Token(prev).Span.End, End: t.Token(next).Span.Start}
	return diag.TextEdit{
		Span:    sp,
		NewText: gapComments(t, prev, next) + "\n" + indent,
		OldText: t.File.Text(sp),
	}
}

// sameLineEnd is where a token's same-line trailing comments end.
func sameLineEnd(tok *token.Token) uint32 {
	end := tok.Span.End
	for _, tr := range tok.Trailing {
		if tr.Kind == token.TriviaNewline {
			break
		}
		if tr.IsComment() {
			end = tr.Span.End
		}
	}
	return end
}

// shiftIndent rewrites the indentation of lines starting with from to to.
// The first line is left alone when skipFirst is set.
func shiftIndent(text, from, to string, skipFirst bool) string {
	if from == to {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if (i == 0 && skipFirst) || strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, from) {
			lines[i] = to + line[len(from):]
		}
	}
	return strings.Join(lines, "\n")
}

// follower is the keyword that continues owner after its body: the "else"
// of an if or the "while" of a do. NoToken when there is none.
func follower(t *syntax.Tree, owner syntax.NodeID) syntax.TokenID {
	n := t.Node(owner)
	switch n.Kind {
	case syntax.If:
		if e := t.Node(n.Else); e != nil {
			return e.Keyword
		}
	case syntax.Do:
		next := t.Next(t.Node(n.Body).Last)
		if tok := t.Token(next); tok != nil && tok.Kind == token.KwWhile {
			return next
		}
	}
	return syntax.NoToken
}

// DR0004
func moveBody(in *Input) (Result, error) {
	t := in.Tree
	owner, body := bodyAt(t, in.Diagnostic.Primary)
	if owner == syntax.NoNode {
		return Result{}, precondition("no body at %s", in.Diagnostic.Primary)
	}
	anchor := rules.BodyAnchor(t, owner)
	first := t.Node(body).First
	if anchor == syntax.NoToken || t.EndLine(anchor) != t.Line(first) {
		return Result{}, precondition("body already starts on its own line")
	}
	ci := constructIndent(t, owner)
	indent := ci + in.Indent
	if t.Kind(body) == syntax.Block {
		indent = ci
	}
	edits := []diag.TextEdit{lineBreak(t, anchor, first, indent)}
	if f := follower(t, owner); f != syntax.NoToken && t.Line(f) == t.EndLine(t.Node(body).Last) {
		edits = append(edits, lineBreak(t, t.Prev(f), f, ci))
	}
	return Result{
		Title: fmt.Sprintf("Move the body of '%s' to a new line", rules.Keyword(t, owner)),
		Edits: edits,
	}, nil
}

// DR0005
func removeBlock(in *Input) (Result, error) {
	t := in.Tree
	owner, block := bodyAt(t, in.Diagnostic.Primary)
	if owner == syntax.NoNode || t.Kind(block) != syntax.Block {
		return Result{}, precondition("no block at %s", in.Diagnostic.Primary)
	}
	if !rules.BlockIsRedundant(t, block) {
		return Result{}, precondition("block no longer holds one simple statement")
	}
	b := t.Node(block)
	stmt := t.Node(rules.SingleStatement(t, block))
	anchor := rules.BodyAnchor(t, owner)
	open, closing := t.Token(b.First), t.Token(b.Last)
	first, last := t.Token(stmt.First), t.Token(stmt.Last)
	if gapComments(t, anchor, b.First) != "" || token.HasComment(open.Trailing) ||
		token.HasComment(first.Leading) || token.HasComment(closing.Leading) {
		return Result{}, precondition("block holds comments that would be lost")
	}

	ci := constructIndent(t, owner)
	indent := ci + in.Indent
	body := t.File.Text(source.Span{File: t.File.ID, Start: first.Span.Start, End: sameLineEnd(last)})
	body = shiftIndent(body, t.File.Indent(first.Span.Start), indent, true)

	sp := source.Span{File: t.File.ID, Start: t.Token(anchor).Span.End, End: closing.Span.End}
	text := "\n" + indent + body
	next := t.Next(b.Last)
	if nt := t.Token(next); nt != nil && nt.Kind != token.EOF && t.Line(next) == t.EndLine(b.Last) {
		if token.HasComment(closing.Trailing) {
			return Result{}, precondition("comment between '}' and the code after it")
		}
		sp.End = nt.Span.Start
		text += "\n" + ci
	}
	return Result{
		Title: fmt.Sprintf("Remove the braces around the body of '%s'", rules.Keyword(t, owner)),
		Edits: []diag.TextEdit{{Span: sp, NewText: text, OldText: t.File.Text(sp)}},
	}, nil
}

// DR0006. A scope-acquisition chain gets its terminal statement wrapped.
func addBlock(in *Input) (Result, error) {
	t := in.Tree
	owner, body := bodyAt(t, in.Diagnostic.Primary)
	if owner == syntax.NoNode || t.Kind(body) == syntax.Block {
		return Result{}, precondition("no unbraced body at %s", in.Diagnostic.Primary)
	}
	link, target := owner, body
	if t.Kind(owner).IsScopeAcquisition() && t.Kind(body).IsScopeAcquisition() {
		link, target = rules.ChainTerminal(t, owner)
		if target == syntax.NoNode || t.Kind(target) == syntax.Block {
			return Result{}, precondition("chain is already braced")
		}
	}
	if !rules.NeedsBlock(t, target) {
		return Result{}, precondition("body no longer needs braces")
	}

	ci := constructIndent(t, link)
	inner := ci + in.Indent
	anchorID := rules.BodyAnchor(t, link)
	anchor := t.Token(anchorID)
	s := t.Node(target)
	first := t.Token(s.First)
	end := sameLineEnd(t.Token(s.Last))

	var sp source.Span
	var text string
	if t.EndLine(anchorID) == t.Line(s.First) {
		sp = source.Span{File: t.File.ID, Start: anchor.Span.End, End: end}
		stmt := t.File.Text(source.Span{File: t.File.ID, Start: first.Span.Start, End: end})
		text = gapComments(t, anchorID, s.First) + "\n" + ci + "{\n" + inner +
			shiftIndent(stmt, ci, inner, true) + "\n" + ci + "}"
	} else {
		start := anchor.Span.End
		if n := len(anchor.Trailing); n > 0 {
			start = anchor.Trailing[n-1].Span.End
		}
		sp = source.Span{File: t.File.ID, Start: start, End: end}
		region := t.File.Text(sp)
		text = ci + "{\n" + shiftIndent(region, t.File.Indent(first.Span.Start), inner, false) + "\n" + ci + "}"
	}
	return Result{
		Title: fmt.Sprintf("Wrap the body of '%s' in braces", rules.Keyword(t, link)),
		Edits: []diag.TextEdit{{Span: sp, NewText: text, OldText: t.File.Text(sp)}},
	}, nil
}

func binaryAt(t *syntax.Tree, sp source.Span) syntax.NodeID {
	for i := range t.Nodes {
		n := &t.Nodes[i]
		if n.Kind == syntax.Binary && n.Op != syntax.NoToken && t.Token(n.Op).Span.Start == sp.Start {
			return syntax.NodeID(i + 1) // #nosec G115 -- bounded by len(t.Nodes)
		}
	}
	return syntax.NoNode
}

// DR0007: append the operator to the left operand, then delete it with the
// spaces after it, or its whole line when nothing else is left there.
func moveOperator(in *Input) (Result, error) {
	t := in.Tree
	id := binaryAt(t, in.Diagnostic.Primary)
	if id == syntax.NoNode {
		return Result{}, precondition("no binary operator at %s", in.Diagnostic.Primary)
	}
	n := t.Node(id)
	op := t.Token(n.Op)
	lastID := n.OpLast
	if lastID == syntax.NoToken {
		lastID = n.Op
	}
	opLast := t.Token(lastID)
	if t.Line(n.Op) <= t.LastLine(n.Left) || !t.File.OnlySpaceBefore(op.Span.Start) {
		return Result{}, precondition("operator no longer starts its line")
	}
	opText := rules.OperatorText(t, id)
	leftEnd := t.Token(t.Node(n.Left).Last).Span.End

	del := source.Span{File: t.File.ID, Start: op.Span.Start, End: opLast.Span.End}
trailing:
	for _, tr := range opLast.Trailing {
		switch tr.Kind {
		case token.TriviaSpace:
			del.End = tr.Span.End
		case token.TriviaNewline:
			del.Start = t.File.LineStart(t.Line(n.Op))
			del.End = tr.Span.End
			break trailing
		default:
			break trailing
		}
	}
	return Result{
		Title: fmt.Sprintf("Move '%s' to the end of the previous line", opText),
		Edits: []diag.TextEdit{
			{Span: source.Span{File: t.File.ID, Start: leftEnd, End: leftEnd}, NewText: " " + opText},
			{Span: del, OldText: t.File.Text(del)},
		},
	}, nil
}
