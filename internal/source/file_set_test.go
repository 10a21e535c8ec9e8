package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("Program.cs", []byte("class A {}"), 0)
	id2 := fs.Add("Program.cs", []byte("class B {}"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}

	latest, ok := fs.GetLatest("Program.cs")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d, true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "class A {}" {
		t.Errorf("old version content = %q", got)
	}
	if got := fs.Latest(); len(got) != 1 || got[0] != id2 {
		t.Errorf("Latest() = %v, want [%d]", got, id2)
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.cs", []byte("ab\ncd\n\nef"))

	cases := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},
		{2, 1, 3}, // the '\n' belongs to its own line
		{3, 2, 1},
		{6, 3, 1},
		{7, 4, 1},
		{9, 4, 3},
	}
	for _, tc := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if start.Line != tc.line || start.Col != tc.col {
			t.Errorf("offset %d: got %d:%d, want %d:%d", tc.off, start.Line, start.Col, tc.line, tc.col)
		}
	}
}

func TestLineHelpers(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.cs", []byte("if (x)\n    y();\n\tz();")))

	if got := f.GetLine(2); got != "    y();" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Errorf("GetLine(9) = %q, want empty", got)
	}
	if got := f.LineStart(3); got != 16 {
		t.Errorf("LineStart(3) = %d, want 16", got)
	}
	if got := f.Indent(12); got != "    " {
		t.Errorf("Indent = %q", got)
	}
	if got := f.Indent(17); got != "\t" {
		t.Errorf("Indent = %q", got)
	}
	if !f.OnlySpaceBefore(11) {
		t.Errorf("expected only whitespace before y")
	}
	if f.OnlySpaceBefore(4) {
		t.Errorf("did not expect only whitespace before x")
	}
	if got := f.LineCount(); got != 3 {
		t.Errorf("LineCount = %d", got)
	}
}

func TestLoadNormalizesAndEncodeRestores(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Crlf.cs")
	raw := []byte("\xEF\xBB\xBFclass A\r\n{\r\n}\r\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "class A\n{\n}\n" {
		t.Fatalf("content not normalized: %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
	if got := f.Encode(f.Content); string(got) != string(raw) {
		t.Errorf("Encode = %q, want %q", got, raw)
	}
}

func TestReviseKeepsFlags(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("x.cs", []byte("a"), FileNormalizedCRLF)
	next := fs.Revise(id, []byte("b"))
	f := fs.Get(next)
	if f.Flags != FileNormalizedCRLF || string(f.Content) != "b" {
		t.Errorf("revised file = %+v", f)
	}
}
