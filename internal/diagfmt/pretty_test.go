package diagfmt

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drlint/internal/diag"
	"drlint/internal/fix"
	"drlint/internal/source"
)

const nintSource = "class A {\n    IntPtr p;\n}\n"

func nintDiagnostic(t *testing.T, fs *source.FileSet, path string) (diag.Diagnostic, source.FileID) {
	t.Helper()
	id := fs.AddVirtual(path, []byte(nintSource))
	span := source.Span{File: id, Start: 14, End: 20}
	require.Equal(t, "IntPtr", fs.Get(id).Text(span))
	return diag.NewRule(diag.RuleUseNativeInt, diag.SevWarning, span, "IntPtr"), id
}

func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")
	d, _ := nintDiagnostic(t, fs, "/home/user/project/src/Native.cs")
	bag := diag.NewBag(10)
	bag.Add(d)

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/src/Native.cs:2:5"},
		{"relative", PathModeRelative, "src/Native.cs:2:5"},
		{"basename", PathModeBasename, "Native.cs:2:5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode, Context: 1})
			out := buf.String()
			assert.Contains(t, out, tt.contains)
			assert.Contains(t, out, "WARNING")
			assert.Contains(t, out, "DR0001")
			assert.Contains(t, out, "Use 'nint' instead of 'IntPtr'")
		})
	}
}

func TestPathModeAuto(t *testing.T) {
	fs := source.NewFileSet()
	short, _ := nintDiagnostic(t, fs, "Short.cs")
	long, _ := nintDiagnostic(t, fs, "/very/long/absolute/path/to/some/nested/directory/Long.cs")

	bag := diag.NewBag(10)
	bag.Add(short)
	bag.Add(long)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto})
	out := buf.String()
	assert.Contains(t, out, "Short.cs:2:5")
	assert.Contains(t, out, "\nLong.cs:2:5")
	assert.NotContains(t, out, "/very/long")
}

func TestPrettyExcerptUnderlinesSpan(t *testing.T) {
	fs := source.NewFileSet()
	d, _ := nintDiagnostic(t, fs, "t.cs")
	bag := diag.NewBag(1)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: 1})
	want := "t.cs:2:5: WARNING DR0001: Use 'nint' instead of 'IntPtr'\n" +
		"1 | class A {\n" +
		"2 |     IntPtr p;\n" +
		"  |     ^~~~~~\n" +
		"3 | }\n"
	assert.Equal(t, want, buf.String())
}

func TestPrettyTruncatesWideLines(t *testing.T) {
	fs := source.NewFileSet()
	d, _ := nintDiagnostic(t, fs, "t.cs")
	bag := diag.NewBag(1)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Width: 10})
	assert.Contains(t, buf.String(), "IntPt…")
	assert.NotContains(t, buf.String(), "IntPtr p;")
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	d, id := nintDiagnostic(t, fs, "t.cs")
	d = d.WithNote(source.Span{File: id, Start: 6, End: 7}, "declared in A")

	replace := fix.ReplaceSpan("Use 'nint'", d.Primary, "nint", "IntPtr", fix.WithID("DR0001-t-14"), fix.Preferred())
	d = d.WithFixSuggestion(&replace)
	broken := fix.New("Rename everything", nil,
		fix.WithKind(diag.FixKindRename),
		fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
		fix.WithThunk(diag.FixThunkFunc(func(diag.FixBuildContext) (diag.Fix, error) {
			return diag.Fix{}, errors.New("source changed")
		})))
	d = d.WithFixSuggestion(&broken)

	bag := diag.NewBag(4)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, ShowFixes: true})
	out := buf.String()

	assert.Contains(t, out, "note: t.cs:1:7: declared in A")
	assert.Contains(t, out, "fix #1: Use 'nint' [quickfix, always-safe] id=DR0001-t-14 (preferred)")
	assert.Contains(t, out, `edit t.cs:2:5 apply="nint"`)
	assert.Contains(t, out, "fix #2: Rename everything [rename, safe-with-heuristics]")
	assert.Contains(t, out, "unavailable: source changed")
	assert.NotContains(t, out, "preview:")
}

func TestPrettyFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	d, _ := nintDiagnostic(t, fs, "t.cs")
	replace := fix.ReplaceSpan("Use 'nint'", d.Primary, "nint", "IntPtr")
	d = d.WithFixSuggestion(&replace)
	bag := diag.NewBag(1)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowFixes: true, ShowPreview: true})
	out := buf.String()
	assert.Contains(t, out, "preview:")
	assert.Contains(t, out, "-     IntPtr p;")
	assert.Contains(t, out, "+     nint p;")
}

func TestPrettyColorToggle(t *testing.T) {
	fs := source.NewFileSet()
	d, _ := nintDiagnostic(t, fs, "t.cs")
	bag := diag.NewBag(1)
	bag.Add(d)

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	Pretty(&colored, bag, fs, PrettyOpts{PathMode: PathModeBasename, Color: true})
	assert.NotContains(t, plain.String(), "\x1b[")
	assert.Contains(t, colored.String(), "\x1b[")
}

func TestSummaryAndShort(t *testing.T) {
	fs := source.NewFileSet()
	d, id := nintDiagnostic(t, fs, "t.cs")
	bag := diag.NewBag(4)
	bag.Add(d)
	bag.Add(diag.New(diag.SevError, diag.SynExpectSemicolon, source.Span{File: id, Start: 22, End: 23}, "expected ';'"))
	bag.Add(diag.NewRule(diag.RuleUnderscorePrefix, diag.SevWarning, source.Span{File: id, Start: 21, End: 22}, "p"))

	var sum bytes.Buffer
	Summary(&sum, bag, false)
	assert.Equal(t, "1 error, 2 warnings\n", sum.String())

	var empty bytes.Buffer
	Summary(&empty, diag.NewBag(1), false)
	assert.Equal(t, "no diagnostics\n", empty.String())

	var short bytes.Buffer
	require.NoError(t, Short(&short, bag, fs, false))
	lines := bytes.Split(bytes.TrimSuffix(short.Bytes(), []byte("\n")), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Equal(t, "t.cs:2:5: warning DR0001: Use 'nint' instead of 'IntPtr'", string(lines[0]))
}
