package synth

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"drlint/internal/lexical"
	"drlint/internal/rename"
	"drlint/internal/rules"
	"drlint/internal/source"
	"drlint/internal/syntax"
)

// declarationAt finds the declaration whose name token spans exactly sp.
func declarationAt(t *syntax.Tree, sp source.Span) (syntax.TokenID, rules.DeclRole, error) {
	tid := t.TokenAt(sp.Start)
	if tok := t.Token(tid); tok == nil || tok.Span != sp {
		return syntax.NoToken, rules.RoleNone, precondition("no identifier at %s", sp)
	}
	for i := range t.Nodes {
		name, role := rules.Declaration(t, syntax.NodeID(i+1)) // #nosec G115 -- bounded by len(t.Nodes)
		if name == tid && role != rules.RoleNone {
			return tid, role, nil
		}
	}
	return syntax.NoToken, rules.RoleNone, precondition("%q is not a declaration", t.Token(tid).Text)
}

func planRename(in *Input, decl source.Span, newName string, alts []string) (Result, error) {
	if in.Index == nil || in.FileSet == nil {
		return Result{}, fmt.Errorf("%w: no symbol index", ErrUnresolved)
	}
	plan, err := rename.Build(in.Index, in.FileSet, decl, newName)
	switch {
	case errors.Is(err, rename.ErrNotDeclared):
		return Result{}, fmt.Errorf("%w: %w", ErrUnresolved, err)
	case err != nil:
		return Result{}, fmt.Errorf("%w: %w", ErrPrecondition, err)
	}
	return Result{
		Title:        fmt.Sprintf("Rename '%s' to '%s'", plan.Old, plan.New),
		Edits:        plan.Edits,
		Rename:       plan,
		Alternatives: alts,
	}, nil
}

// DR0002. Members and types keep PascalCase, the rest become camelCase.
func renameUnderscore(in *Input) (Result, error) {
	t := in.Tree
	tid, role, err := declarationAt(t, in.Diagnostic.Primary)
	if err != nil {
		return Result{}, err
	}
	name := strings.TrimPrefix(t.Token(tid).Text, "@")
	trimmed := strings.TrimLeft(name, "_")
	if trimmed == name || trimmed == "" {
		return Result{}, precondition("%q has no removable underscore", name)
	}
	switch role {
	case rules.RoleMember, rules.RoleType:
		trimmed = upperFirst(trimmed)
	default:
		trimmed = lowerFirst(trimmed)
	}
	return planRename(in, in.Diagnostic.Primary, trimmed, nil)
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// PreferredForm picks the casing an acronym fix uses: lower for the leading
// word of a camelCase name, upper everywhere else.
func PreferredForm(name string, f lexical.Finding) string {
	if r, _ := utf8.DecodeRuneInString(name); f.Start == 0 && unicode.IsLower(r) {
		return f.Lower
	}
	return f.Upper
}

// FixAcronyms re-cases every inconsistent acronym of name.
func FixAcronyms(d *lexical.Dictionary, name string) string {
	findings := lexical.FindInconsistent(d, name)
	out := name
	for i := len(findings) - 1; i >= 0; i-- {
		out = findings[i].Replace(out, PreferredForm(name, findings[i]))
	}
	return out
}

// DR0009. The whole name is fixed at once so that several findings on one
// identifier produce the same edits.
func renameAcronyms(in *Input) (Result, error) {
	t := in.Tree
	tid, _, err := declarationAt(t, in.Diagnostic.Primary)
	if err != nil {
		return Result{}, err
	}
	name := strings.TrimPrefix(t.Token(tid).Text, "@")
	findings := lexical.FindInconsistent(in.Dict, name)
	var reported *lexical.Finding
	for i := range findings {
		if len(in.Diagnostic.Args) > 0 && findings[i].Text == in.Diagnostic.Args[0] {
			reported = &findings[i]
			break
		}
	}
	if reported == nil {
		return Result{}, precondition("%q has no inconsistent acronym %v", name, in.Diagnostic.Args)
	}
	other := reported.Lower
	if PreferredForm(name, *reported) == reported.Lower {
		other = reported.Upper
	}
	return planRename(in, in.Diagnostic.Primary, FixAcronyms(in.Dict, name), []string{reported.Replace(name, other)})
}

// DR0010
func renameCaseStyle(in *Input) (Result, error) {
	t := in.Tree
	tid, role, err := declarationAt(t, in.Diagnostic.Primary)
	if err != nil {
		return Result{}, err
	}
	text := t.Token(tid).Text
	style := in.CasePolicy.StyleFor(role)
	if style.Matches(strings.TrimLeft(strings.TrimPrefix(text, "@"), "_")) {
		return Result{}, precondition("%q is already %s", text, style)
	}
	suggestion := rules.SuggestName(in.Dict, text, style)
	if suggestion == text {
		return Result{}, precondition("no better name for %q", text)
	}
	var alts []string
	if style == lexical.StyleEither {
		if camel := rules.SuggestName(in.Dict, text, lexical.StyleCamel); camel != suggestion && camel != text {
			alts = []string{camel}
		}
	}
	return planRename(in, in.Diagnostic.Primary, suggestion, alts)
}
