package fix

// todo: интеграция с git: флаг --staged-only (брать файлы из git diff --name-only --staged).

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"

	"drlint/internal/diag"
	"drlint/internal/edit"
	"drlint/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions configures how fixes are selected and written.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// Rules restricts candidates to these codes when non-empty.
	Rules []diag.Code
	// AllowHeuristics admits safe-with-heuristics fixes in ApplyModeAll.
	AllowHeuristics bool
	// DryRun revises the FileSet but leaves the files on disk alone.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file. FileID is the
// revision registered in the FileSet; Before and After are normalized text.
type FileChange struct {
	Path      string
	FileID    source.FileID
	EditCount int
	Before    []byte
	After     []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
	// Deferred counts batches left for a later pass because an earlier batch
	// already changed one of their files.
	Deferred int
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply collects fixes from diagnostics, selects a subset according to opts,
// and applies them batch by batch. A batch holds the fixes of one rule whose
// diagnostics point into one file; it applies completely or not at all.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Applied:     make([]AppliedFix, 0),
		Skipped:     make([]SkippedFix, 0),
		FileChanges: make([]FileChange, 0),
	}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	if len(opts.Rules) > 0 {
		diagnostics = slices.DeleteFunc(slices.Clone(diagnostics), func(d diag.Diagnostic) bool {
			return !slices.Contains(opts.Rules, d.Code)
		})
	}

	ctx := diag.FixBuildContext{FileSet: fs}
	candidates, buildSkips := gatherCandidates(ctx, diagnostics)
	result.Skipped = append(result.Skipped, buildSkips...)

	if len(candidates) == 0 {
		return result, ErrNoFixes
	}

	sortCandidates(candidates)

	selected, selectionSkips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, selectionSkips...)

	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	err := applyBatches(fs, makeBatches(selected), opts, result)
	if err != nil {
		return result, err
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// gatherCandidates materializes the fixes of every diagnostic.
//
// Diagnostics whose fixes fail to build are recorded as skipped, as are fixes
// with no edits or with an ID already seen. A fix without an ID gets one
// derived from the diagnostic code, file, start and fix index. Each candidate
// carries its insertion order for the stable sort that follows.
func gatherCandidates(ctx diag.FixBuildContext, diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	cands := make([]candidate, 0)
	skips := make([]SkippedFix, 0)
	seen := make(map[string]bool)

	order := 0
	for _, d := range diagnostics {
		if len(d.Fixes) == 0 {
			continue
		}

		resolved, err := diag.MaterializeFixes(ctx, d.Fixes)
		if err != nil {
			skips = append(skips, SkippedFix{
				Title:  d.Message,
				Reason: fmt.Sprintf("failed to build fixes: %v", err),
			})
			continue
		}

		for idx, f := range resolved {
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{
					ID:     f.ID,
					Title:  f.Title,
					Reason: "fix has no edits",
				})
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			}
			if seen[f.ID] {
				skips = append(skips, SkippedFix{
					ID:     f.ID,
					Title:  f.Title,
					Reason: "duplicate fix id",
				})
				continue
			}
			seen[f.ID] = true
			cands = append(cands, candidate{
				diag:  d,
				fix:   f,
				order: order,
			})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders candidates by file, span, insertion order, code,
// preference, ID and title.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if candidates[i].order != candidates[j].order {
			return candidates[i].order < candidates[j].order
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		if candidates[i].fix.IsPreferred != candidates[j].fix.IsPreferred {
			return candidates[i].fix.IsPreferred && !candidates[j].fix.IsPreferred
		}
		if candidates[i].fix.ID != candidates[j].fix.ID {
			return candidates[i].fix.ID < candidates[j].fix.ID
		}
		return candidates[i].fix.Title < candidates[j].fix.Title
	})
}

func allowed(f diag.Fix, opts ApplyOptions) bool {
	switch f.Applicability {
	case diag.FixApplicabilityAlwaysSafe:
		return true
	case diag.FixApplicabilitySafeWithHeuristics:
		return opts.AllowHeuristics
	}
	return false
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.fix.ID == opts.TargetID {
				if cand.fix.RequiresAll { // если fix требует всех fixes, то пропускаем
					return nil, []SkippedFix{{
						ID:     opts.TargetID,
						Reason: "fix requires all fixes to be applied",
					}}
				}
				return []candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{
			ID:     opts.TargetID,
			Reason: "fix id not found",
		}}
	case ApplyModeAll:
		selected := make([]candidate, 0, len(candidates))
		skipped := make([]SkippedFix, 0)
		for _, cand := range candidates {
			if allowed(cand.fix, opts) {
				selected = append(selected, cand)
				continue
			}
			skipped = append(skipped, SkippedFix{
				ID:     cand.fix.ID,
				Title:  cand.fix.Title,
				Reason: fmt.Sprintf("applicability is %s", cand.fix.Applicability.String()),
			})
		}
		return selected, skipped
	case ApplyModeOnce:
		var selected []candidate
		var fallback *candidate
		skipped := make([]SkippedFix, 0)
		for i := range candidates {
			cand := candidates[i]
			if cand.fix.RequiresAll {
				skipped = append(skipped, SkippedFix{
					ID:     cand.fix.ID,
					Title:  cand.fix.Title,
					Reason: "fix requires all fixes to be applied",
				})
				continue
			}
			if cand.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				selected = []candidate{cand}
				break
			}
			if fallback == nil {
				tmp := cand
				fallback = &tmp
			}
		}
		if len(selected) == 0 && fallback != nil {
			selected = []candidate{*fallback}
		}
		return selected, skipped
	default:
		return nil, nil
	}
}

type batchKey struct {
	code diag.Code
	file source.FileID
}

type batch struct {
	key   batchKey
	cands []candidate
}

// makeBatches groups candidates by rule and primary file, ordered by file
// then code.
func makeBatches(selected []candidate) []batch {
	index := make(map[batchKey]int)
	var out []batch
	for _, cand := range selected {
		k := batchKey{code: cand.diag.Code, file: cand.diag.Primary.File}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, batch{key: k})
		}
		out[i].cands = append(out[i].cands, cand)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].key.file != out[j].key.file {
			return out[i].key.file < out[j].key.file
		}
		return out[i].key.code < out[j].key.code
	})
	return out
}

// edits returns the batch's edits with exact duplicates removed; fixes for
// sibling diagnostics may propose the same change.
func (b batch) edits() []diag.TextEdit {
	var out []diag.TextEdit
	for _, cand := range b.cands {
		for _, e := range cand.fix.Edits {
			if !slices.Contains(out, e) {
				out = append(out, e)
			}
		}
	}
	return out
}

func (b batch) skipAll(reason string) []SkippedFix {
	out := make([]SkippedFix, 0, len(b.cands))
	for _, cand := range b.cands {
		out = append(out, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: reason})
	}
	return out
}

func applyBatches(fs *source.FileSet, batches []batch, opts ApplyOptions, result *ApplyResult) error {
	baseDir := fs.BaseDir()
	buffers := make(map[source.FileID][]byte)
	fileEditCount := make(map[source.FileID]int)
	touched := make(map[source.FileID]bool)

	for _, b := range batches {
		edits := b.edits()
		files := make(map[source.FileID][]byte)
		var skipReason string
		deferred := false
		for _, e := range edits {
			id := e.Span.File
			if _, ok := files[id]; ok {
				continue
			}
			file := fs.Get(id)
			if file == nil {
				skipReason = fmt.Sprintf("unknown file %d", id)
				break
			}
			if file.Flags&source.FileVirtual != 0 && !opts.DryRun {
				skipReason = "target file is virtual"
				break
			}
			if touched[id] {
				skipReason = fmt.Sprintf("deferred: %s changed by an earlier batch", file.FormatPath("auto", baseDir))
				deferred = true
				break
			}
			files[id] = file.Content
		}
		if skipReason == "" {
			next, err := edit.ApplyFiles(files, edits)
			switch {
			case errors.Is(err, edit.ErrConflict):
				skipReason = fmt.Sprintf("conflicting edits in batch %s: %v", b.key.code.ID(), err)
			case err != nil:
				skipReason = err.Error()
			default:
				for id, buf := range next {
					buffers[id] = buf
				}
			}
		}
		if skipReason != "" {
			if deferred {
				result.Deferred++
			}
			result.Skipped = append(result.Skipped, b.skipAll(skipReason)...)
			continue
		}

		for id := range files {
			touched[id] = true
		}
		for _, e := range edits {
			fileEditCount[e.Span.File]++
		}
		for _, cand := range b.cands {
			result.Applied = append(result.Applied, AppliedFix{
				ID:            cand.fix.ID,
				Title:         cand.fix.Title,
				Code:          cand.diag.Code,
				Message:       cand.diag.Message,
				Applicability: cand.fix.Applicability,
				PrimaryPath:   formatFilePath(fs, cand.diag.Primary.File),
				EditCount:     len(cand.fix.Edits),
			})
		}
	}

	ids := make([]source.FileID, 0, len(buffers))
	for id := range buffers {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		buf := buffers[id]
		file := fs.Get(id)
		before, path := file.Content, file.Path

		if !opts.DryRun {
			mode := os.FileMode(0o644)
			if info, err := os.Stat(path); err == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(path, file.Encode(buf), mode); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		}
		newID := fs.Revise(id, buf)

		result.FileChanges = append(result.FileChanges, FileChange{
			Path:      fs.Get(newID).FormatPath("relative", baseDir),
			FileID:    newID,
			EditCount: fileEditCount[id],
			Before:    before,
			After:     buf,
		})
	}

	sort.SliceStable(result.FileChanges, func(i, j int) bool {
		return result.FileChanges[i].Path < result.FileChanges[j].Path
	})
	return nil
}

func formatFilePath(fs *source.FileSet, fileID source.FileID) string {
	if fs == nil {
		return ""
	}
	file := fs.Get(fileID)
	if file == nil {
		return ""
	}
	return file.FormatPath("auto", fs.BaseDir())
}
