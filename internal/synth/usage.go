package synth

import (
	"fmt"

	"drlint/internal/fix"
	"drlint/internal/rules"
	"drlint/internal/syntax"
	"drlint/internal/token"
)

// DR0001
func useNativeInt(in *Input) (Result, error) {
	t := in.Tree
	sp := in.Diagnostic.Primary
	found := false
	for i := range t.Nodes {
		got, ok := rules.NativeIntSpan(t, syntax.NodeID(i+1)) // #nosec G115 -- bounded by len(t.Nodes)
		if ok && got == sp {
			found = true
			break
		}
	}
	if !found {
		return Result{}, precondition("no IntPtr reference at %s", sp)
	}
	old := t.File.Text(sp)
	f := fix.ReplaceSpan(fmt.Sprintf("Replace '%s' with 'nint'", old), sp, "nint", old)
	return Result{Title: f.Title, Edits: f.Edits}, nil
}

// DR0008: drop the readonly keyword and the spaces after it.
func removeReadonly(in *Input) (Result, error) {
	t := in.Tree
	var field syntax.NodeID
	for i := range t.Nodes {
		n := &t.Nodes[i]
		if n.Kind == syntax.Declarator && n.Name != syntax.NoToken && t.Token(n.Name).Span == in.Diagnostic.Primary {
			field = n.Parent
			break
		}
	}
	if t.Kind(field) != syntax.Field {
		return Result{}, precondition("no field declarator at %s", in.Diagnostic.Primary)
	}
	kw, ok := rules.HasModifier(t, field, token.KwReadonly)
	if !ok {
		return Result{}, precondition("field is not readonly")
	}
	tok := t.Token(kw)
	sp := tok.Span
	for _, tr := range tok.Trailing {
		if tr.Kind != token.TriviaSpace {
			break
		}
		sp.End = tr.Span.End
	}
	f := fix.DeleteSpan("Remove 'readonly'", sp, t.File.Text(sp))
	return Result{Title: f.Title, Edits: f.Edits}, nil
}
