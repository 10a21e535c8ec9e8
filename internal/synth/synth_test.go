package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drlint/internal/diag"
	"drlint/internal/parser"
	"drlint/internal/rename"
	"drlint/internal/rules"
	"drlint/internal/source"
	"drlint/internal/syntax"
)

func parse(fs *source.FileSet, src string) *syntax.Tree {
	id := fs.AddVirtual("t.cs", []byte(src))
	return parser.ParseFile(fs.Get(id), parser.Options{Reporter: diag.NopReporter{}})
}

func diagnose(src string, codes ...diag.Code) []diag.Diagnostic {
	tree := parse(source.NewFileSet(), src)
	return rules.Default(rules.Options{Only: codes}).Walk(rules.Input{Tree: tree}).Diagnostics
}

// fixFirst applies the fix of the first diagnostic of code.
func fixFirst(t *testing.T, src string, code diag.Code) string {
	t.Helper()
	ds := diagnose(src, code)
	require.NotEmpty(t, ds, "no %s in %q", code.ID(), src)
	out, _, err := ApplyToText([]byte(src), ds[0])
	require.NoError(t, err)
	return string(out)
}

func TestMoveBody(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"simple", "if (x) y();\n", "if (x)\n    y();\n"},
		{"nested indent", "class C\n{\n    void M()\n    {\n        while (a) b();\n    }\n}\n",
			"class C\n{\n    void M()\n    {\n        while (a)\n            b();\n    }\n}\n"},
		{"tabs", "class C\n{\n\tvoid M()\n\t{\n\t\tif (x) y();\n\t}\n}\n",
			"class C\n{\n\tvoid M()\n\t{\n\t\tif (x)\n\t\t\ty();\n\t}\n}\n"},
		{"else follows", "if (a) b(); else c();\n", "if (a)\n    b();\nelse c();\n"},
		{"block goes to construct indent", "foreach (var i in xs) {\n    f(i);\n}\n", "foreach (var i in xs)\n{\n    f(i);\n}\n"},
		{"do while", "do x(); while (y);\n", "do\n    x();\nwhile (y);\n"},
		{"comment stays", "if (x) /* c */ y();\n", "if (x) /* c */\n    y();\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fixFirst(t, tt.src, diag.RuleBodyOnNewLine))
		})
	}
}

func TestRemoveBlock(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"one line", "if (x) { y(); }\n", "if (x)\n    y();\n"},
		{"allman with trailing comment", "if (x)\n{\n    y(); // why\n}\n", "if (x)\n    y(); // why\n"},
		{"code after brace", "if (a) { b(); } else { c(); }\n", "if (a)\n    b();\nelse { c(); }\n"},
		{"wrapped arguments", "if (x) { Call(1,\n    2); }\n", "if (x)\n    Call(1,\n        2);\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fixFirst(t, tt.src, diag.RuleSingleLineNoBlock)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemoveBlockIsIdempotent(t *testing.T) {
	for _, src := range []string{
		"if (x) { y(); }\n",
		"class C\n{\n    void M()\n    {\n        foreach (var i in xs)\n        {\n            Log(i,\n                1);\n        }\n    }\n}\n",
	} {
		got := fixFirst(t, src, diag.RuleSingleLineNoBlock)
		assert.Empty(t, diagnose(got, diag.RuleSingleLineNoBlock, diag.RuleMultiLineNeedsBlock, diag.RuleBodyOnNewLine), got)
	}
}

func TestRemoveBlockRefusesToDropComments(t *testing.T) {
	src := "if (x)\n{\n    // note\n    y();\n}\n"
	ds := diagnose(src, diag.RuleSingleLineNoBlock)
	require.Len(t, ds, 1)
	out, _, err := ApplyToText([]byte(src), ds[0])
	require.ErrorIs(t, err, ErrPrecondition)
	assert.Equal(t, src, string(out))
}

func TestAddBlock(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"nested if", "if (x)\n    if (y) z();\n", "if (x)\n{\n    if (y) z();\n}\n"},
		{"leading comment", "while (a)\n    // note\n    Run(() => { b(); });\n", "while (a)\n{\n    // note\n    Run(() => { b(); });\n}\n"},
		{"same line", "if (x) if (y) z();\n", "if (x)\n{\n    if (y) z();\n}\n"},
		{"chain wraps terminal", "using (a)\nusing (b)\n    if (c) d();\n", "using (a)\nusing (b)\n{\n    if (c) d();\n}\n"},
		{"indented multi-line", "class C\n{\n    void M()\n    {\n        if (x)\n            a =\n                b;\n    }\n}\n",
			"class C\n{\n    void M()\n    {\n        if (x)\n        {\n            a =\n                b;\n        }\n    }\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fixFirst(t, tt.src, diag.RuleMultiLineNeedsBlock)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, diagnose(got, diag.RuleMultiLineNeedsBlock, diag.RuleSingleLineNoBlock))
		})
	}
}

func TestMoveOperator(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"operator alone", "var r = a\n    &&\n    b;\n", "var r = a &&\n    b;\n"},
		{"operator before operand", "var r = a\n    + b;\n", "var r = a +\n    b;\n"},
		{"shift", "var r = a\n    >> 2;\n", "var r = a >>\n    2;\n"},
		{"comment after left", "var r = a // c\n    || b;\n", "var r = a || // c\n    b;\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fixFirst(t, tt.src, diag.RuleOperatorAtLineEnd))
		})
	}
}

func TestUsageFixes(t *testing.T) {
	assert.Equal(t, "class C { nint p; }\n", fixFirst(t, "class C { System.IntPtr p; }\n", diag.RuleUseNativeInt))

	src := "class S : ManagerConfiguration\n{\n    public readonly int A, B;\n}\n"
	assert.Equal(t, "class S : ManagerConfiguration\n{\n    public int A, B;\n}\n", fixFirst(t, src, diag.RuleConfigFieldReadonly))

	fs := source.NewFileSet()
	tree := parse(fs, src)
	ds := rules.Default(rules.Options{Only: []diag.Code{diag.RuleConfigFieldReadonly}}).Walk(rules.Input{Tree: tree}).Diagnostics
	require.Len(t, ds, 2)
	a, err := Synthesize(Input{Tree: tree, Diagnostic: ds[0]})
	require.NoError(t, err)
	b, err := Synthesize(Input{Tree: tree, Diagnostic: ds[1]})
	require.NoError(t, err)
	assert.Equal(t, a.Edits, b.Edits)
}

func TestRenames(t *testing.T) {
	tests := []struct {
		name string
		code diag.Code
		src  string
		want string
	}{
		{"underscore", diag.RuleUnderscorePrefix,
			"class C\n{\n    void M()\n    {\n        var _count = 1;\n        Use(_count);\n    }\n}\n",
			"class C\n{\n    void M()\n    {\n        var count = 1;\n        Use(count);\n    }\n}\n"},
		{"acronym", diag.RuleAcronymCasing,
			"class C\n{\n    int userId;\n    int M() => userId;\n}\n",
			"class C\n{\n    int userID;\n    int M() => userID;\n}\n"},
		{"back to back acronyms", diag.RuleAcronymCasing, "class XmlHttpId { }\n", "class XMLHTTPID { }\n"},
		{"underscore member", diag.RuleUnderscorePrefix,
			"class C\n{\n    int _count { get; }\n    int M() => _count;\n}\n",
			"class C\n{\n    int Count { get; }\n    int M() => Count;\n}\n"},
		{"underscore type", diag.RuleUnderscorePrefix,
			"class _Shape { }\nclass D { _Shape s; }\n",
			"class Shape { }\nclass D { Shape s; }\n"},
		{"case style", diag.RuleIdentifierCaseStyle,
			"class foo_bar { }\nclass D { foo_bar f; }\n",
			"class FooBar { }\nclass D { FooBar f; }\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := diagnose(tt.src, tt.code)
			require.NotEmpty(t, ds)
			out, plan, err := ApplyToText([]byte(tt.src), ds[0])
			require.NoError(t, err)
			require.NotNil(t, plan)
			assert.Equal(t, tt.want, string(out))
			assert.Empty(t, diagnose(string(out), tt.code))
		})
	}
}

func TestAcronymAlternatives(t *testing.T) {
	fs := source.NewFileSet()
	tree := parse(fs, "class C { int userId; }\n")
	ds := rules.Default(rules.Options{Only: []diag.Code{diag.RuleAcronymCasing}}).Walk(rules.Input{Tree: tree}).Diagnostics
	require.Len(t, ds, 1)
	res, err := Synthesize(Input{Tree: tree, Diagnostic: ds[0], Index: rename.NewLexicalIndex(tree), FileSet: fs})
	require.NoError(t, err)
	assert.Equal(t, "Rename 'userId' to 'userID'", res.Title)
	assert.Equal(t, []string{"userid"}, res.Alternatives)
	assert.Equal(t, diag.FixKindRename, res.Kind)
	assert.Equal(t, diag.FixApplicabilitySafeWithHeuristics, res.Applicability)
}

func TestCaseStyleAlternatives(t *testing.T) {
	fs := source.NewFileSet()
	tree := parse(fs, "class C { void M() { var my_var = 1; Use(my_var); } }\n")
	ds := rules.Default(rules.Options{Only: []diag.Code{diag.RuleIdentifierCaseStyle}}).Walk(rules.Input{Tree: tree}).Diagnostics
	require.Len(t, ds, 1)
	res, err := Synthesize(Input{Tree: tree, Diagnostic: ds[0], Index: rename.NewLexicalIndex(tree), FileSet: fs})
	require.NoError(t, err)
	assert.Equal(t, "Rename 'my_var' to 'MyVar'", res.Title)
	assert.Equal(t, []string{"myVar"}, res.Alternatives)
}

func TestCaseStyleByRole(t *testing.T) {
	fs := source.NewFileSet()
	tree := parse(fs, "class C { void M(int Param) { Use(Param); } }\n")
	ro := rules.Options{Only: []diag.Code{diag.RuleIdentifierCaseStyle}, CasePolicy: rules.CaseByRole}
	ds := rules.Default(ro).Walk(rules.Input{Tree: tree}).Diagnostics
	require.Len(t, ds, 1)

	in := Input{Tree: tree, Diagnostic: ds[0], Index: rename.NewLexicalIndex(tree), FileSet: fs}
	_, err := Synthesize(in)
	assert.ErrorIs(t, err, ErrPrecondition, "PascalCase parameters pass the default policy")

	in.CasePolicy = rules.CaseByRole
	res, err := Synthesize(in)
	require.NoError(t, err)
	assert.Equal(t, "Rename 'Param' to 'param'", res.Title)
	assert.Empty(t, res.Alternatives)
}

func TestRefusals(t *testing.T) {
	fs := source.NewFileSet()
	tree := parse(fs, "class C { int userId; }\n")
	ds := rules.Default(rules.Options{Only: []diag.Code{diag.RuleAcronymCasing}}).Walk(rules.Input{Tree: tree}).Diagnostics
	require.Len(t, ds, 1)

	_, err := Synthesize(Input{Tree: tree, Diagnostic: ds[0]})
	assert.ErrorIs(t, err, ErrUnresolved)

	// diagnosed on the old text, applied to the fixed one
	old := "if (x) y();\n"
	d := diagnose(old, diag.RuleBodyOnNewLine)[0]
	changed := "if (x)\n    y();\n"
	out, _, err := ApplyToText([]byte(changed), d)
	assert.ErrorIs(t, err, ErrPrecondition)
	assert.Equal(t, changed, string(out))

	_, err = Synthesize(Input{Tree: tree, Diagnostic: diag.Diagnostic{Code: diag.SynExpectSemicolon}})
	assert.ErrorIs(t, err, ErrNoStrategy)
}

func TestAttachFixes(t *testing.T) {
	fs := source.NewFileSet()
	tree := parse(fs, "if (x) { y(); }\n")
	ds := rules.Default(rules.Options{}).Walk(rules.Input{Tree: tree}).Diagnostics
	ds = AttachFixes(ds, Binding{Tree: tree, Index: rename.NewLexicalIndex(tree)})
	require.NotEmpty(t, ds)
	require.Len(t, ds[0].Fixes, 1)

	fix, err := ds[0].Fixes[0].Resolve(diag.FixBuildContext{FileSet: fs})
	require.NoError(t, err)
	assert.Equal(t, FixID(ds[0]), fix.ID)
	assert.NotEmpty(t, fix.Edits)

	fs.Revise(tree.File.ID, []byte("if (x)\n    y();\n"))
	_, err = ds[0].Fixes[0].Resolve(diag.FixBuildContext{FileSet: fs})
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestIndentUnit(t *testing.T) {
	fs := source.NewFileSet()
	cases := map[string]string{
		"class C\n{\n  int x;\n}\n":      "  ",
		"class C\n{\n\tint x;\n}\n":      "\t",
		"/*\n * doc\n */\nclass C { }\n": DefaultIndent,
		"":                               DefaultIndent,
	}
	for src, want := range cases {
		f := fs.Get(fs.AddVirtual("i.cs", []byte(src)))
		assert.Equal(t, want, IndentUnit(f), "%q", src)
	}
}
