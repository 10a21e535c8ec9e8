package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"

	"drlint/internal/config"
	"drlint/internal/diag"
	"drlint/internal/observ"
	"drlint/internal/parser"
	"drlint/internal/rename"
	"drlint/internal/rules"
	"drlint/internal/source"
	"drlint/internal/synth"
	"drlint/internal/syntax"
	"drlint/internal/trace"
)

// ErrNoFiles is returned when the given paths hold no source files.
var ErrNoFiles = errors.New("no source files found")

// Options configures a diagnose run.
type Options struct {
	// Config is the resolved configuration; nil uses the defaults.
	Config *config.Config
	// Rules narrows the registry further; empty keeps every enabled rule.
	Rules []diag.Code
	// Jobs bounds parallel workers; <= 0 uses GOMAXPROCS.
	Jobs int
	// Cache, when set, answers unchanged files without evaluating rules.
	Cache *DiskCache
	// Fixes attaches a lazy fix to every diagnostic that has a strategy.
	Fixes    bool
	Progress ProgressSink
	// Timer, when set, receives one phase per pipeline step.
	Timer *observ.Timer
}

// FileResult is the outcome for one file. Diagnostics hold lexer and parser
// findings followed by rule findings.
type FileResult struct {
	Path        string
	FileID      source.FileID
	Tree        *syntax.Tree
	Diagnostics []diag.Diagnostic
	// Failures counts rule evaluations that panicked.
	Failures int
	Cached   bool
}

// Result is a whole diagnose run. Files are in FileID order.
type Result struct {
	FileSet  *source.FileSet
	Files    []FileResult
	Registry *rules.Registry
	Types    *rules.TypeIndex
	Symbols  *rename.LexicalIndex
}

// Diagnostics returns every diagnostic sorted by location. limit > 0 caps
// the count.
func (r *Result) Diagnostics(limit int) []diag.Diagnostic {
	bag := diag.NewBag(limit)
	for _, f := range r.Files {
		for _, d := range f.Diagnostics {
			if !bag.Add(d) {
				break
			}
		}
	}
	bag.Sort()
	return bag.Items()
}

// Failures sums rule evaluation failures over all files.
func (r *Result) Failures() int {
	n := 0
	for _, f := range r.Files {
		n += f.Failures
	}
	return n
}

func (o Options) config() *config.Config {
	if o.Config == nil {
		return config.Default()
	}
	return o.Config
}

func (o Options) registry() *rules.Registry {
	ro := o.config().RuleOptions()
	if len(o.Rules) > 0 {
		if len(ro.Only) == 0 {
			ro.Only = slices.Clone(o.Rules)
		} else {
			ro.Only = slices.DeleteFunc(ro.Only, func(c diag.Code) bool { return !slices.Contains(o.Rules, c) })
			if len(ro.Only) == 0 {
				ro.Disabled = append(ro.Disabled, allRuleCodes()...)
			}
		}
	}
	return rules.Default(ro)
}

func allRuleCodes() []diag.Code {
	var out []diag.Code
	for _, r := range rules.Default(rules.Options{}).Rules() {
		out = append(out, r.Code())
	}
	return out
}

func (o Options) jobs(n int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, n))
}

// Diagnose lists, loads and analyzes every source file under paths.
func Diagnose(ctx context.Context, paths []string, opts Options) (*Result, error) {
	fs, ids, err := Load(ctx, paths, opts)
	if err != nil {
		return nil, err
	}
	return Analyze(ctx, fs, ids, opts)
}

// Load reads every source file under paths into a fresh FileSet whose base
// is the common directory of paths.
func Load(ctx context.Context, paths []string, opts Options) (*source.FileSet, []source.FileID, error) {
	timer := opts.Timer
	phase := -1
	if timer != nil {
		phase = timer.Begin("load")
	}
	files, err := ListFiles(ctx, paths, nil, nil)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, ErrNoFiles
	}
	fs := source.NewFileSetWithBase(commonDir(paths))
	ids := make([]source.FileID, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		id, err := fs.Load(path)
		if err != nil {
			emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		ids = append(ids, id)
	}
	if opts.Progress != nil {
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = fs.Get(id).FormatPath("relative", fs.BaseDir())
		}
		emitQueued(opts.Progress, names)
	}
	if timer != nil {
		timer.End(phase, strconv.Itoa(len(ids))+" files")
	}
	return fs, ids, nil
}

// Analyze parses and evaluates the given files of fs. Parsing runs first for
// every file because DR0008 needs the type index of all of them; rule
// evaluation then runs in parallel per file. fs is only read.
func Analyze(ctx context.Context, fs *source.FileSet, ids []source.FileID, opts Options) (*Result, error) {
	runSpan, ctx := trace.Start(ctx, trace.ScopeDriver, "diagnose")
	defer runSpan.End(strconv.Itoa(len(ids)) + " files")

	opts.Config = opts.config()
	res := &Result{
		FileSet:  fs,
		Files:    make([]FileResult, len(ids)),
		Registry: opts.registry(),
	}
	if len(ids) == 0 {
		res.Types = rules.NewTypeIndex()
		res.Symbols = rename.NewLexicalIndex()
		return res, nil
	}
	for i, id := range ids {
		res.Files[i] = FileResult{Path: fs.Get(id).FormatPath("relative", fs.BaseDir()), FileID: id}
	}

	if err := parseAll(ctx, res, opts); err != nil {
		return res, err
	}

	phase := beginPhase(opts.Timer, "index")
	trees := make([]*syntax.Tree, len(res.Files))
	for i := range res.Files {
		trees[i] = res.Files[i].Tree
	}
	res.Types = rules.NewTypeIndex(trees...)
	res.Symbols = rename.NewLexicalIndex(trees...)
	endPhase(opts.Timer, phase, strconv.Itoa(res.Types.Len())+" types")

	settings := settingsDigest(opts.Config, res.Registry, res.Types)
	if err := evaluateAll(ctx, res, opts, settings); err != nil {
		return res, err
	}
	return res, nil
}

func beginPhase(t *observ.Timer, name string) int {
	if t == nil {
		return -1
	}
	return t.Begin(name)
}

func endPhase(t *observ.Timer, idx int, note string) {
	if t != nil {
		t.End(idx, note)
	}
}

func parseAll(ctx context.Context, res *Result, opts Options) error {
	span, ctx := trace.Start(ctx, trace.ScopePhase, "parse")
	phase := beginPhase(opts.Timer, "parse")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(res.Files)))
	for i := range res.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// индекс i уникален для горутины, мьютекс не нужен
			fr := &res.Files[i]
			emit(opts.Progress, Event{File: fr.Path, Stage: StageParse, Status: StatusWorking})
			fileSpan, _ := trace.Start(gctx, trace.ScopeFile, fr.Path)
			bag := diag.NewBag(0)
			fr.Tree = parser.ParseFile(res.FileSet.Get(fr.FileID), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
			fr.Diagnostics = bag.Items()
			fileSpan.End(strconv.Itoa(len(fr.Diagnostics)) + " syntax diagnostics")
			return nil
		})
	}
	err := g.Wait()
	endPhase(opts.Timer, phase, "")
	span.End("")
	return err
}

func evaluateAll(ctx context.Context, res *Result, opts Options, settings config.Digest) error {
	span, ctx := trace.Start(ctx, trace.ScopePhase, "rules")
	tracer := trace.FromContext(ctx)
	phase := beginPhase(opts.Timer, "rules")
	synthOpts := opts.config().SynthOptions()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(res.Files)))
	for i := range res.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fr := &res.Files[i]
			file := res.FileSet.Get(fr.FileID)
			emit(opts.Progress, Event{File: fr.Path, Stage: StageRules, Status: StatusWorking})
			fileSpan, _ := trace.Start(gctx, trace.ScopeFile, fr.Path)

			key := cacheKey(file, settings)
			var found []diag.Diagnostic
			var payload DiskPayload
			hit, err := opts.Cache.Get(key, &payload)
			if err != nil {
				trace.Point(tracer, trace.ScopeFile, "cache", err.Error(), true, map[string]string{"file": fr.Path})
			}
			if hit {
				found = fromPayload(fr.FileID, &payload)
				fr.Cached = true
			} else {
				walk := res.Registry.Walk(rules.Input{Tree: fr.Tree, Index: res.Types, Tracer: tracer})
				found, fr.Failures = walk.Diagnostics, walk.Failures
				if fr.Failures == 0 {
					if err := opts.Cache.Put(key, toPayload(fr.Path, found)); err != nil {
						trace.Point(tracer, trace.ScopeFile, "cache", err.Error(), true, map[string]string{"file": fr.Path})
					}
				}
			}
			if opts.Fixes {
				found = synth.AttachFixes(found, synth.Binding{Options: synthOpts, Tree: fr.Tree, Index: res.Symbols})
			}
			fr.Diagnostics = append(fr.Diagnostics, found...)

			status := StatusDone
			if fr.Cached {
				status = StatusCached
			}
			emit(opts.Progress, Event{File: fr.Path, Stage: StageRules, Status: status})
			fileSpan.End(strconv.Itoa(len(found)) + " findings")
			return nil
		})
	}
	err := g.Wait()
	hits := 0
	for _, fr := range res.Files {
		if fr.Cached {
			hits++
		}
	}
	endPhase(opts.Timer, phase, fmt.Sprintf("%d cached", hits))
	span.End("")
	return err
}
