package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drlint/internal/diag"
	"drlint/internal/fix"
	"drlint/internal/source"
)

func decodeJSON(t *testing.T, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, bag, fs, opts))
	var out DiagnosticsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out), buf.String())
	return out
}

func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	d, _ := nintDiagnostic(t, fs, "t.cs")
	bag := diag.NewBag(10)
	bag.Add(d)

	out := decodeJSON(t, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename})
	require.Equal(t, 1, out.Count)
	require.Len(t, out.Diagnostics, 1)

	got := out.Diagnostics[0]
	assert.Equal(t, "WARNING", got.Severity)
	assert.Equal(t, "DR0001", got.Code)
	assert.Equal(t, "Performance", got.Category)
	assert.Equal(t, []string{"IntPtr"}, got.Args)
	assert.Equal(t, "Use 'nint' instead of 'IntPtr'", got.Message)
	assert.Equal(t, LocationJSON{
		File: "t.cs", StartByte: 14, EndByte: 20,
		StartLine: 2, StartCol: 5, EndLine: 2, EndCol: 11,
	}, got.Location)
}

func TestJSONNonRuleHasNoCategory(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.cs", []byte("class A {"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.SynUnclosedDelimiter, source.Span{File: id, Start: 8, End: 9}, "unclosed '{'"))

	out := decodeJSON(t, bag, fs, JSONOpts{PathMode: PathModeBasename})
	assert.Equal(t, "ERROR", out.Diagnostics[0].Severity)
	assert.Equal(t, "SYN2002", out.Diagnostics[0].Code)
	assert.Empty(t, out.Diagnostics[0].Category)
	assert.Zero(t, out.Diagnostics[0].Location.StartLine)
}

func TestJSONWithNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	d, id := nintDiagnostic(t, fs, "t.cs")
	d = d.WithNote(source.Span{File: id, Start: 6, End: 7}, "declared in A")
	replace := fix.ReplaceSpan("Use 'nint'", d.Primary, "nint", "IntPtr", fix.WithID("DR0001-t-14"))
	d = d.WithFixSuggestion(&replace)
	bag := diag.NewBag(1)
	bag.Add(d)

	out := decodeJSON(t, bag, fs, JSONOpts{PathMode: PathModeBasename, IncludeNotes: true, IncludeFixes: true})
	got := out.Diagnostics[0]
	require.Len(t, got.Notes, 1)
	assert.Equal(t, "declared in A", got.Notes[0].Message)

	require.Len(t, got.Fixes, 1)
	f := got.Fixes[0]
	assert.Equal(t, "DR0001-t-14", f.ID)
	assert.Equal(t, "Use 'nint'", f.Title)
	assert.Equal(t, "quickfix", f.Kind)
	assert.Equal(t, "always-safe", f.Applicability)
	assert.False(t, f.IsPreferred)
	assert.Empty(t, f.BuildError)
	require.Len(t, f.Edits, 1)
	assert.Equal(t, "nint", f.Edits[0].NewText)
	assert.Equal(t, "IntPtr", f.Edits[0].OldText)
	assert.Empty(t, f.Edits[0].BeforeLines)

	bare := decodeJSON(t, bag, fs, JSONOpts{PathMode: PathModeBasename})
	assert.Empty(t, bare.Diagnostics[0].Notes)
	assert.Empty(t, bare.Diagnostics[0].Fixes)
}

func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.cs", []byte("int _a, _b, _c, _d, _e;"))
	bag := diag.NewBag(10)
	for i := range 5 {
		start := uint32(4 + 4*i)
		bag.Add(diag.NewRule(diag.RuleUnderscorePrefix, diag.SevWarning, source.Span{File: id, Start: start, End: start + 2}, "_"))
	}

	out := decodeJSON(t, bag, fs, JSONOpts{PathMode: PathModeBasename, Max: 3})
	assert.Equal(t, 3, out.Count)
	assert.Len(t, out.Diagnostics, 3)
	assert.Equal(t, 2, out.Truncated)
}

func TestJSONPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")
	d, _ := nintDiagnostic(t, fs, "/home/user/project/src/Native.cs")
	bag := diag.NewBag(1)
	bag.Add(d)

	for mode, want := range map[PathMode]string{
		PathModeAbsolute: "/home/user/project/src/Native.cs",
		PathModeRelative: "src/Native.cs",
		PathModeBasename: "Native.cs",
	} {
		out := decodeJSON(t, bag, fs, JSONOpts{PathMode: mode})
		assert.Equal(t, want, out.Diagnostics[0].Location.File)
	}
}

func TestJSONFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	d, _ := nintDiagnostic(t, fs, "t.cs")
	replace := fix.ReplaceSpan("Use 'nint'", d.Primary, "nint", "IntPtr")
	d = d.WithFixSuggestion(&replace)
	bag := diag.NewBag(1)
	bag.Add(d)

	out := decodeJSON(t, bag, fs, JSONOpts{PathMode: PathModeBasename, IncludeFixes: true, IncludePreviews: true})
	edit := out.Diagnostics[0].Fixes[0].Edits[0]
	assert.Equal(t, []string{"    IntPtr p;"}, edit.BeforeLines)
	assert.Equal(t, []string{"    nint p;"}, edit.AfterLines)
}

func TestParsePathMode(t *testing.T) {
	assert.Equal(t, PathModeAbsolute, ParsePathMode("absolute"))
	assert.Equal(t, PathModeRelative, ParsePathMode("rel"))
	assert.Equal(t, PathModeBasename, ParsePathMode("basename"))
	assert.Equal(t, PathModeAuto, ParsePathMode("whatever"))
}
