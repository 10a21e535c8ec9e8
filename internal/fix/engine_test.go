package fix

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"drlint/internal/diag"
	"drlint/internal/source"
)

func TestGatherCandidatesSkipsDuplicateFixIDs(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cs", []byte(""))
	span := source.Span{File: fileID, Start: 0, End: 0}

	diagnostics := []diag.Diagnostic{{
		Code:    diag.RuleUseNativeInt,
		Message: "use nint",
		Primary: span,
		Fixes: []*diag.Fix{
			{
				ID:    "fix-duplicate",
				Title: "insert nint",
				Edits: []diag.TextEdit{{Span: span, NewText: "nint"}},
			},
			{
				ID:    "fix-duplicate",
				Title: "insert nint again",
				Edits: []diag.TextEdit{{Span: span, NewText: "nint"}},
			},
		},
	}}

	ctx := diag.FixBuildContext{FileSet: fs}
	candidates, skips := gatherCandidates(ctx, diagnostics)

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if len(skips) != 1 {
		t.Fatalf("expected 1 skipped fix, got %d", len(skips))
	}

	skip := skips[0]
	if skip.ID != "fix-duplicate" {
		t.Fatalf("expected skipped fix id 'fix-duplicate', got %q", skip.ID)
	}
	if skip.Reason != "duplicate fix id" {
		t.Fatalf("expected duplicate fix reason, got %q", skip.Reason)
	}
}

func TestGatherCandidatesRecordsThunkFailures(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cs", []byte("x"))
	span := source.Span{File: fileID, Start: 0, End: 1}

	f := New("broken", nil, WithThunk(diag.FixThunkFunc(func(diag.FixBuildContext) (diag.Fix, error) {
		return diag.Fix{}, errors.New("stale")
	})))
	d := diag.New(diag.SevWarning, diag.RuleUseNativeInt, span, "use nint").WithFixSuggestion(&f)

	candidates, skips := gatherCandidates(diag.FixBuildContext{FileSet: fs}, []diag.Diagnostic{d})
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates, got %d", len(candidates))
	}
	if len(skips) != 1 || !strings.Contains(skips[0].Reason, "stale") {
		t.Fatalf("unexpected skips: %+v", skips)
	}
}

// replace builds a diagnostic of code whose single fix replaces [start,end).
func replace(code diag.Code, file source.FileID, start, end uint32, old, text string, opts ...Option) diag.Diagnostic {
	span := source.Span{File: file, Start: start, End: end}
	f := ReplaceSpan("replace "+old, span, text, old, opts...)
	return diag.NewRule(code, diag.SevWarning, span).WithFixSuggestion(&f)
}

func TestApplyBatchDryRun(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.cs", []byte("IntPtr a; IntPtr b;"))

	diags := []diag.Diagnostic{
		replace(diag.RuleUseNativeInt, id, 10, 16, "IntPtr", "nint"),
		replace(diag.RuleUseNativeInt, id, 0, 6, "IntPtr", "nint"),
	}
	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 2 {
		t.Fatalf("expected 2 applied fixes, got %d (%+v)", len(res.Applied), res.Skipped)
	}
	if len(res.FileChanges) != 1 {
		t.Fatalf("expected 1 file change, got %d", len(res.FileChanges))
	}
	change := res.FileChanges[0]
	if got := string(change.After); got != "nint a; nint b;" {
		t.Fatalf("unexpected result %q", got)
	}
	if got := string(change.Before); got != "IntPtr a; IntPtr b;" {
		t.Fatalf("unexpected before %q", got)
	}
	if change.EditCount != 2 {
		t.Fatalf("expected 2 edits, got %d", change.EditCount)
	}
	latest, _ := fs.GetLatest("a.cs")
	if latest != change.FileID || latest == id {
		t.Fatalf("expected FileSet to be revised, latest=%d change=%d", latest, change.FileID)
	}
}

func TestApplyRejectsConflictingBatch(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.cs", []byte("IntPtr a;"))

	diags := []diag.Diagnostic{
		replace(diag.RuleUseNativeInt, id, 0, 6, "IntPtr", "nint"),
		replace(diag.RuleUseNativeInt, id, 3, 8, "Ptr a", "x"),
	}
	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if len(res.Skipped) != 2 {
		t.Fatalf("expected both fixes skipped, got %+v", res.Skipped)
	}
	for _, s := range res.Skipped {
		if !strings.Contains(s.Reason, "conflicting edits") {
			t.Fatalf("unexpected reason %q", s.Reason)
		}
	}
	if latest, _ := fs.GetLatest("a.cs"); latest != id {
		t.Fatal("file must not be revised")
	}
}

func TestApplyRejectsStaleGuard(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.cs", []byte("IntPtr a;"))

	diags := []diag.Diagnostic{replace(diag.RuleUseNativeInt, id, 0, 6, "UIntPt", "nint")}
	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if len(res.Skipped) != 1 {
		t.Fatalf("expected one skip, got %+v", res.Skipped)
	}
}

func TestApplyDeduplicatesIdenticalEdits(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.cs", []byte("int XmlHttp, XmlHttp2;"))

	diags := []diag.Diagnostic{
		replace(diag.RuleAcronymCasing, id, 4, 11, "XmlHttp", "XMLHTTP", WithID("one")),
		replace(diag.RuleAcronymCasing, id, 4, 11, "XmlHttp", "XMLHTTP", WithID("two")),
	}
	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 2 {
		t.Fatalf("expected 2 applied fixes, got %d", len(res.Applied))
	}
	if got := string(res.FileChanges[0].After); got != "int XMLHTTP, XmlHttp2;" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestApplyHeuristicsNeedOptIn(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.cs", []byte("int _x;"))
	diags := []diag.Diagnostic{
		replace(diag.RuleUnderscorePrefix, id, 4, 6, "_x", "x", WithApplicability(diag.FixApplicabilitySafeWithHeuristics)),
	}

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "applicability is safe-with-heuristics" {
		t.Fatalf("unexpected skips: %+v", res.Skipped)
	}

	res, err = Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll, DryRun: true, AllowHeuristics: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := string(res.FileChanges[0].After); got != "int x;" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestApplyDefersSecondBatchOnSameFile(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.cs", []byte("IntPtr _a;"))

	diags := []diag.Diagnostic{
		replace(diag.RuleUnderscorePrefix, id, 7, 9, "_a", "a"),
		replace(diag.RuleUseNativeInt, id, 0, 6, "IntPtr", "nint"),
	}
	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || res.Applied[0].Code != diag.RuleUseNativeInt {
		t.Fatalf("expected only the DR0001 batch to apply, got %+v", res.Applied)
	}
	if res.Deferred != 1 {
		t.Fatalf("expected 1 deferred batch, got %d", res.Deferred)
	}
	if got := string(res.FileChanges[0].After); got != "nint _a;" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestApplyRuleFilterAndModes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.cs", []byte("IntPtr _a;"))
	diags := []diag.Diagnostic{
		replace(diag.RuleUnderscorePrefix, id, 7, 9, "_a", "a", WithID("under")),
		replace(diag.RuleUseNativeInt, id, 0, 6, "IntPtr", "nint", WithID("native")),
	}

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll, DryRun: true, Rules: []diag.Code{diag.RuleUnderscorePrefix}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || res.Applied[0].ID != "under" {
		t.Fatalf("unexpected applied: %+v", res.Applied)
	}

	fs = source.NewFileSet()
	id = fs.AddVirtual("a.cs", []byte("IntPtr _a;"))
	diags = []diag.Diagnostic{
		replace(diag.RuleUnderscorePrefix, id, 7, 9, "_a", "a", WithID("under")),
		replace(diag.RuleUseNativeInt, id, 0, 6, "IntPtr", "nint", WithID("native")),
	}
	res, err = Apply(fs, diags, ApplyOptions{Mode: ApplyModeID, TargetID: "under", DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := string(res.FileChanges[0].After); got != "IntPtr a;" {
		t.Fatalf("unexpected result %q", got)
	}

	_, err = Apply(fs, diags, ApplyOptions{Mode: ApplyModeID, TargetID: "missing", DryRun: true})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
}

func TestApplyOnceSkipsRequiresAll(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.cs", []byte("IntPtr a;"))
	diags := []diag.Diagnostic{replace(diag.RuleUseNativeInt, id, 0, 6, "IntPtr", "nint", WithRequiresAll())}

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeOnce, DryRun: true})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "fix requires all fixes to be applied" {
		t.Fatalf("unexpected skips: %+v", res.Skipped)
	}
}

func TestApplyVirtualFileNeedsDryRun(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.cs", []byte("IntPtr a;"))
	diags := []diag.Diagnostic{replace(diag.RuleUseNativeInt, id, 0, 6, "IntPtr", "nint")}

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "target file is virtual" {
		t.Fatalf("unexpected skips: %+v", res.Skipped)
	}
}

func TestApplyWritesEncodedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.cs")
	if err := os.WriteFile(path, []byte("IntPtr a;\r\nIntPtr b;\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	diags := []diag.Diagnostic{
		replace(diag.RuleUseNativeInt, id, 0, 6, "IntPtr", "nint"),
		replace(diag.RuleUseNativeInt, id, 10, 16, "IntPtr", "nint"),
	}
	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.FileChanges[0].Path != "a.cs" {
		t.Fatalf("unexpected path %q", res.FileChanges[0].Path)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "nint a;\r\nnint b;\r\n" {
		t.Fatalf("unexpected file content %q", got)
	}
	if latest := fs.Get(res.FileChanges[0].FileID); string(latest.Content) != "nint a;\nnint b;\n" {
		t.Fatalf("unexpected revised content %q", latest.Content)
	}
}
