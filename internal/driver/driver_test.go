package driver

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drlint/internal/diag"
	"drlint/internal/fix"
	"drlint/internal/observ"
	"drlint/internal/trace"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func TestListFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.cs":          "",
		"sub/b.CS":      "",
		"bin/x.cs":      "",
		"obj/y.cs":      "",
		"c.txt":         "",
		"gen/d.g.cs":    "",
		"explicit.text": "",
	})

	files, err := ListFiles(context.Background(), []string{dir, filepath.Join(dir, "explicit.text"), filepath.Join(dir, "a.cs")}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.cs"),
		filepath.Join(dir, "explicit.text"),
		filepath.Join(dir, "sub", "b.CS"),
	}, files)

	_, err = ListFiles(context.Background(), []string{filepath.Join(dir, "missing")}, nil, nil)
	assert.Error(t, err)
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) count(stage Stage, status Status) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Stage == stage && ev.Status == status {
			n++
		}
	}
	return n
}

var configProject = map[string]string{
	"base.cs": "class Base : ManagerConfiguration { }\n",
	"cfg.cs":  "class Cfg : Base\n{\n    readonly string c;\n}\n",
}

func TestDiagnoseAcrossFiles(t *testing.T) {
	dir := writeTree(t, configProject)
	rec := &recorder{}
	timer := observ.NewTimer()

	res, err := Diagnose(context.Background(), []string{dir}, Options{
		Rules:    []diag.Code{diag.RuleConfigFieldReadonly},
		Jobs:     2,
		Progress: rec,
		Timer:    timer,
	})
	require.NoError(t, err)
	require.Len(t, res.Files, 2)
	assert.Equal(t, "base.cs", res.Files[0].Path)
	assert.Empty(t, res.Files[0].Diagnostics)

	ds := res.Diagnostics(0)
	require.Len(t, ds, 1)
	assert.Equal(t, diag.RuleConfigFieldReadonly, ds[0].Code)
	assert.Equal(t, res.Files[1].FileID, ds[0].Primary.File)
	assert.Equal(t, "c", res.FileSet.Get(ds[0].Primary.File).Text(ds[0].Primary))
	assert.Empty(t, ds[0].Fixes)
	assert.Zero(t, res.Failures())

	assert.Equal(t, 2, rec.count(StageLoad, StatusQueued))
	assert.Equal(t, 2, rec.count(StageRules, StatusDone))

	names := make([]string, 0)
	for _, p := range timer.Report().Phases {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"load", "parse", "index", "rules"}, names)
}

func TestDiagnoseNestsTraceSpans(t *testing.T) {
	dir := writeTree(t, configProject)
	ring := trace.NewRingTracer(0, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)

	_, err := Diagnose(ctx, []string{dir}, Options{Rules: []diag.Code{diag.RuleConfigFieldReadonly}})
	require.NoError(t, err)

	ids := map[string]uint64{}
	parents := map[string]uint64{}
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanBegin {
			ids[ev.Name], parents[ev.Name] = ev.SpanID, ev.ParentID
		}
	}
	require.Contains(t, ids, "diagnose")
	assert.Zero(t, parents["diagnose"])
	assert.Equal(t, ids["diagnose"], parents["parse"])
	assert.Equal(t, ids["diagnose"], parents["rules"])
	assert.Contains(t, []uint64{ids["parse"], ids["rules"]}, parents["cfg.cs"])
}

func TestDiagnoseReportsSyntaxAndEmptyInput(t *testing.T) {
	dir := writeTree(t, map[string]string{"bad.cs": "class C { void M( { }\n"})
	res, err := Diagnose(context.Background(), []string{dir}, Options{})
	require.NoError(t, err)
	ds := res.Diagnostics(0)
	assert.True(t, slices.ContainsFunc(ds, func(d diag.Diagnostic) bool { return !d.Code.IsRule() }))

	_, err = Diagnose(context.Background(), []string{t.TempDir()}, Options{})
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestDiagnoseAttachesFixes(t *testing.T) {
	dir := writeTree(t, configProject)
	res, err := Diagnose(context.Background(), []string{dir}, Options{
		Rules: []diag.Code{diag.RuleConfigFieldReadonly},
		Fixes: true,
	})
	require.NoError(t, err)
	ds := res.Diagnostics(0)
	require.Len(t, ds, 1)
	require.Len(t, ds[0].Fixes, 1)
	resolved, err := ds[0].Fixes[0].Resolve(diag.FixBuildContext{FileSet: res.FileSet})
	require.NoError(t, err)
	assert.Equal(t, "Remove 'readonly'", resolved.Title)
}

func TestDiagnoseCache(t *testing.T) {
	dir := writeTree(t, configProject)
	cache, err := OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)
	opts := Options{Rules: []diag.Code{diag.RuleConfigFieldReadonly}, Cache: cache}

	first, err := Diagnose(context.Background(), []string{dir}, opts)
	require.NoError(t, err)
	for _, f := range first.Files {
		assert.False(t, f.Cached, f.Path)
	}

	rec := &recorder{}
	opts.Progress = rec
	second, err := Diagnose(context.Background(), []string{dir}, opts)
	require.NoError(t, err)
	for _, f := range second.Files {
		assert.True(t, f.Cached, f.Path)
	}
	assert.Equal(t, 2, rec.count(StageRules, StatusCached))
	require.Len(t, second.Diagnostics(0), 1)
	assert.Equal(t, first.Diagnostics(0)[0].Primary, second.Diagnostics(0)[0].Primary)
	assert.Equal(t, first.Diagnostics(0)[0].Message, second.Diagnostics(0)[0].Message)

	// another file's base list changes what cfg.cs reports
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.cs"), []byte("class Base { }\n"), 0o600))
	third, err := Diagnose(context.Background(), []string{dir}, opts)
	require.NoError(t, err)
	assert.False(t, third.Files[1].Cached)
	assert.Empty(t, third.Diagnostics(0))

	require.NoError(t, cache.DropAll())
	fourth, err := Diagnose(context.Background(), []string{dir}, opts)
	require.NoError(t, err)
	assert.False(t, fourth.Files[0].Cached)
}

const mixedFixes = "class Cfg : ManagerConfiguration\n{\n    readonly System.IntPtr p;\n}\n"

func TestFixAllRunsPassesUntilClean(t *testing.T) {
	dir := writeTree(t, map[string]string{"cfg.cs": mixedFixes})
	path := filepath.Join(dir, "cfg.cs")

	res, err := FixAll(context.Background(), []string{dir}, FixOptions{
		Options: Options{Rules: []diag.Code{diag.RuleUseNativeInt, diag.RuleConfigFieldReadonly}},
		Mode:    fix.ApplyModeAll,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Passes)
	require.Len(t, res.Applied, 2)
	assert.Equal(t, diag.RuleUseNativeInt, res.Applied[0].Code)
	assert.Equal(t, diag.RuleConfigFieldReadonly, res.Applied[1].Code)

	want := "class Cfg : ManagerConfiguration\n{\n    nint p;\n}\n"
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, string(got))

	require.Len(t, res.Changes, 1)
	assert.Equal(t, mixedFixes, string(res.Changes[0].Before))
	assert.Equal(t, want, string(res.Changes[0].After))
	assert.Equal(t, 2, res.Changes[0].EditCount)
	assert.Empty(t, res.Counts())
}

func TestFixAllDryRunLeavesDisk(t *testing.T) {
	dir := writeTree(t, map[string]string{"cfg.cs": mixedFixes})
	res, err := FixAll(context.Background(), []string{dir}, FixOptions{
		Options: Options{Rules: []diag.Code{diag.RuleUseNativeInt, diag.RuleConfigFieldReadonly}},
		Mode:    fix.ApplyModeAll,
		DryRun:  true,
	})
	require.NoError(t, err)
	require.Len(t, res.Changes, 1)
	assert.Equal(t, "class Cfg : ManagerConfiguration\n{\n    nint p;\n}\n", string(res.Changes[0].After))

	got, err := os.ReadFile(filepath.Join(dir, "cfg.cs"))
	require.NoError(t, err)
	assert.Equal(t, mixedFixes, string(got))
}

func TestFixAllHeuristicsAndOnce(t *testing.T) {
	src := "class C\n{\n    void M()\n    {\n        var _count = 1;\n        Use(_count);\n    }\n}\n"
	dir := writeTree(t, map[string]string{"c.cs": src})
	opts := FixOptions{
		Options: Options{Rules: []diag.Code{diag.RuleUnderscorePrefix}},
		Mode:    fix.ApplyModeAll,
	}

	res, err := FixAll(context.Background(), []string{dir}, opts)
	require.NoError(t, err)
	assert.Zero(t, res.Passes)
	require.NotEmpty(t, res.Skipped)
	assert.Equal(t, 1, res.Counts()[diag.RuleUnderscorePrefix])

	opts.AllowHeuristics = true
	res, err = FixAll(context.Background(), []string{dir}, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Passes)
	got, err := os.ReadFile(filepath.Join(dir, "c.cs"))
	require.NoError(t, err)
	assert.Equal(t, "class C\n{\n    void M()\n    {\n        var count = 1;\n        Use(count);\n    }\n}\n", string(got))
}

func TestFixAllOnceAppliesSingleFix(t *testing.T) {
	dir := writeTree(t, map[string]string{"n.cs": "class N { System.IntPtr a; System.IntPtr b; }\n"})
	res, err := FixAll(context.Background(), []string{dir}, FixOptions{
		Options: Options{Rules: []diag.Code{diag.RuleUseNativeInt}},
		Mode:    fix.ApplyModeOnce,
		DryRun:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Passes)
	require.Len(t, res.Applied, 1)
	assert.Equal(t, "class N { nint a; System.IntPtr b; }\n", string(res.Changes[0].After))
	assert.Equal(t, 1, res.Counts()[diag.RuleUseNativeInt])
}

func TestParseAndTokenize(t *testing.T) {
	dir := writeTree(t, map[string]string{"p.cs": "class P { }\n"})
	path := filepath.Join(dir, "p.cs")

	pr, err := Parse(path, 10)
	require.NoError(t, err)
	assert.Zero(t, pr.Bag.Len())
	assert.Equal(t, "class P { }\n", pr.Tree.Reconstruct())

	tr, err := Tokenize(path, 10)
	require.NoError(t, err)
	require.NotEmpty(t, tr.Tokens)
	assert.Equal(t, "class", tr.Tokens[0].Text)
}
