package parser_test

import (
	"testing"

	"drlint/internal/diag"
	"drlint/internal/parser"
	"drlint/internal/source"
	"drlint/internal/syntax"
)

func parse(t *testing.T, src string) (*syntax.Tree, []diag.Diagnostic) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cs", []byte(src))
	bag := diag.NewBag(0)
	tree := parser.ParseFile(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	return tree, bag.Items()
}

func parseClean(t *testing.T, src string) *syntax.Tree {
	t.Helper()
	tree, diags := parse(t, src)
	for _, d := range diags {
		t.Errorf("unexpected diagnostic %s: %s", d.Code.ID(), d.Message)
	}
	return tree
}

// collect returns all nodes of kind in source order.
func collect(tree *syntax.Tree, kind syntax.Kind) []syntax.NodeID {
	var out []syntax.NodeID
	tree.Walk(func(id syntax.NodeID) bool {
		if tree.Kind(id) == kind {
			out = append(out, id)
		}
		return true
	})
	return out
}

func only(t *testing.T, tree *syntax.Tree, kind syntax.Kind) syntax.NodeID {
	t.Helper()
	ids := collect(tree, kind)
	if len(ids) != 1 {
		t.Fatalf("want exactly one %v, got %d", kind, len(ids))
	}
	return ids[0]
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"class A { }\n",
		"// header\nusing System;\n\nnamespace N\n{\n    public class A : B\n    {\n        private int x = 1; // trailing\n\n        void M()\n        {\n            if (x > 0) { y(); }\n        }\n    }\n}\n",
		"#if DEBUG\nclass A { }\n#endif\n",
		"class { void M( { }",
	}
	for _, in := range inputs {
		tree, _ := parse(t, in)
		if got := tree.Reconstruct(); got != in {
			t.Errorf("reconstruct mismatch:\n got %q\nwant %q", got, in)
		}
		if in != "" {
			if got := tree.FullText(tree.Root); got != in {
				t.Errorf("root full text mismatch:\n got %q\nwant %q", got, in)
			}
		}
	}
}

func TestIfElseChain(t *testing.T) {
	tree := parseClean(t, "class A { void M() { if (x) { y(); } else if (z) w(); else q(); } }")
	ifs := collect(tree, syntax.If)
	if len(ifs) != 2 {
		t.Fatalf("want 2 ifs, got %d", len(ifs))
	}
	outer := tree.Node(ifs[0])
	if tree.Kind(outer.Body) != syntax.Block {
		t.Errorf("outer body = %v", tree.Kind(outer.Body))
	}
	if tree.Token(outer.Close).Text != ")" {
		t.Errorf("close token = %q", tree.Token(outer.Close).Text)
	}
	elseNode := tree.Node(outer.Else)
	if elseNode == nil || elseNode.Kind != syntax.Else {
		t.Fatalf("missing else")
	}
	if tree.Kind(elseNode.Body) != syntax.If {
		t.Errorf("else body = %v, want If", tree.Kind(elseNode.Body))
	}
	inner := tree.Node(elseNode.Body)
	if tree.Kind(inner.Body) != syntax.ExprStmt || tree.Kind(inner.Else) != syntax.Else {
		t.Errorf("inner if shape: body %v else %v", tree.Kind(inner.Body), tree.Kind(inner.Else))
	}
	if inner.Parent != outer.Else {
		t.Errorf("parent link broken")
	}
}

func TestShiftJoinsAdjacentGreaterThan(t *testing.T) {
	tree := parseClean(t, "class A { void M() { x = a >> 2; y >>= 1; List<List<int>> z = null; } }")
	bin := only(t, tree, syntax.Binary)
	n := tree.Node(bin)
	if n.Op == n.OpLast {
		t.Fatalf("shift must span two tokens")
	}
	if tree.Token(n.Op).Text != ">" || tree.Token(n.OpLast).Text != ">" {
		t.Errorf("shift tokens = %q %q", tree.Token(n.Op).Text, tree.Token(n.OpLast).Text)
	}
	assigns := collect(tree, syntax.Assign)
	if len(assigns) != 2 {
		t.Fatalf("want 2 assignments, got %d", len(assigns))
	}
	second := tree.Node(assigns[1])
	if tree.Token(second.OpLast).Text != ">=" {
		t.Errorf(">>= last token = %q", tree.Token(second.OpLast).Text)
	}
	if len(collect(tree, syntax.LocalDecl)) != 1 {
		t.Errorf("generic local declaration not recognized")
	}
}

func TestLessThanIsNotGeneric(t *testing.T) {
	tree := parseClean(t, "class A { void M() { if (a < b && c > d) f(); } }")
	bins := collect(tree, syntax.Binary)
	if len(bins) != 3 {
		t.Fatalf("want 3 binary nodes, got %d", len(bins))
	}
	if op := tree.Token(tree.Node(bins[0]).Op).Text; op != "&&" {
		t.Errorf("top operator = %q", op)
	}
}

func TestTypeDeclarations(t *testing.T) {
	src := `
public sealed class Settings : Base.ManagerConfiguration, IFoo<int>
{
    private readonly int _a = 1, b;
    public string Name { get; private set; } = "";
    public Settings(int a) : base(a) { }
    public int Sum(int x, ref int y) => x + y;
}

enum Color { Red, Green = 2, }
`
	tree := parseClean(t, src)
	cls := tree.Node(only(t, tree, syntax.Class))
	if got := tree.Token(cls.Name).Text; got != "Settings" {
		t.Errorf("class name = %q", got)
	}
	if len(cls.Bases) != 2 || cls.Bases[0] != "ManagerConfiguration" || cls.Bases[1] != "IFoo" {
		t.Errorf("bases = %v", cls.Bases)
	}
	field := tree.Node(only(t, tree, syntax.Field))
	if len(field.Modifiers) != 2 || tree.Token(field.Modifiers[1]).Text != "readonly" {
		t.Errorf("field modifiers = %v", field.Modifiers)
	}
	decls := collect(tree, syntax.Declarator)
	if len(decls) != 2 || tree.NameText(decls[0]) != "_a" || tree.NameText(decls[1]) != "b" {
		t.Errorf("declarators = %v", decls)
	}
	if tree.NameText(only(t, tree, syntax.Property)) != "Name" {
		t.Errorf("property name")
	}
	if tree.NameText(only(t, tree, syntax.Constructor)) != "Settings" {
		t.Errorf("constructor name")
	}
	if tree.NameText(only(t, tree, syntax.Method)) != "Sum" {
		t.Errorf("method name")
	}
	params := collect(tree, syntax.Parameter)
	if len(params) != 3 {
		t.Errorf("want 3 parameters, got %d", len(params))
	}
	members := collect(tree, syntax.EnumMember)
	if len(members) != 2 || tree.NameText(members[1]) != "Green" {
		t.Errorf("enum members = %v", members)
	}
}

func TestScopedStatementsAndLambdas(t *testing.T) {
	src := `class A { void M() {
    using (var a = Open())
    using (var b = Open())
        lock (gate) Run(() => { Go(); });
    foreach (var item in items) Use(item);
    do x++; while (x < 3);
    var f = delegate (int v) { return v; };
} }`
	tree := parseClean(t, src)
	usings := collect(tree, syntax.UsingStmt)
	if len(usings) != 2 {
		t.Fatalf("want 2 using statements, got %d", len(usings))
	}
	if tree.Kind(tree.Node(usings[0]).Body) != syntax.UsingStmt {
		t.Errorf("outer using body = %v", tree.Kind(tree.Node(usings[0]).Body))
	}
	lock := tree.Node(only(t, tree, syntax.Lock))
	if tree.Kind(lock.Body) != syntax.ExprStmt {
		t.Errorf("lock body = %v", tree.Kind(lock.Body))
	}
	lambda := tree.Node(only(t, tree, syntax.Lambda))
	if tree.Kind(lambda.Body) != syntax.Block {
		t.Errorf("lambda body = %v", tree.Kind(lambda.Body))
	}
	fe := tree.Node(only(t, tree, syntax.ForEach))
	if tree.Kind(fe.Body) != syntax.ExprStmt {
		t.Errorf("foreach body = %v", tree.Kind(fe.Body))
	}
	do := tree.Node(only(t, tree, syntax.Do))
	if tree.Kind(do.Cond) != syntax.Binary {
		t.Errorf("do condition = %v", tree.Kind(do.Cond))
	}
	anon := tree.Node(only(t, tree, syntax.AnonymousMethod))
	if tree.Kind(anon.Body) != syntax.Block {
		t.Errorf("anonymous method body = %v", tree.Kind(anon.Body))
	}
}

func TestTopLevelStatements(t *testing.T) {
	tree := parseClean(t, "using System;\nvar x = 1;\nif (x > 0)\n    Console.WriteLine(x);\n")
	if len(collect(tree, syntax.Using)) != 1 {
		t.Errorf("using directive missing")
	}
	if len(collect(tree, syntax.LocalDecl)) != 1 || len(collect(tree, syntax.If)) != 1 {
		t.Errorf("top-level statements not parsed")
	}
}

func TestErrorRecovery(t *testing.T) {
	tree, diags := parse(t, "class A { void M() { if (x) } int y; }")
	if len(diags) == 0 {
		t.Fatalf("expected syntax diagnostics")
	}
	for _, d := range diags {
		if d.Severity != diag.SevError {
			t.Errorf("syntax diagnostic severity = %v", d.Severity)
		}
	}
	if len(collect(tree, syntax.Field)) != 1 {
		t.Errorf("parser must recover and see the field after the broken method")
	}
}

func TestFindNode(t *testing.T) {
	src := "class A { void M() { if (x) { y(); } } }"
	tree := parseClean(t, src)
	blocks := collect(tree, syntax.Block)
	inner := blocks[len(blocks)-1]
	sp := tree.Span(inner)
	if got := tree.Text(inner); got != "{ y(); }" {
		t.Fatalf("block text = %q", got)
	}
	if found := tree.FindNode(sp, syntax.Block); found != inner {
		t.Errorf("FindNode = %d, want %d", found, inner)
	}
	if found := tree.FindNode(sp, syntax.If); found == syntax.NoNode {
		t.Errorf("FindNode must fall back to a containing If")
	}
	stale := source.Span{File: sp.File, Start: sp.Start + 1, End: sp.End + 3}
	if found := tree.FindNode(stale, syntax.Block); found == inner {
		t.Errorf("stale span must not match the block exactly")
	}
}
