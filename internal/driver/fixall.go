package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"drlint/internal/diag"
	"drlint/internal/fix"
	"drlint/internal/source"
	"drlint/internal/trace"
)

// DefaultMaxPasses bounds the diagnose/apply loop of FixAll.
const DefaultMaxPasses = 8

// FixOptions configures FixAll. The embedded Options drive each diagnose
// pass; Fixes is forced on.
type FixOptions struct {
	Options
	Mode            fix.ApplyMode
	TargetID        string
	AllowHeuristics bool
	DryRun          bool
	MaxPasses       int
}

// FixResult aggregates every pass. Changes holds one entry per file with
// the text before the first pass and after the last one.
type FixResult struct {
	FileSet *source.FileSet
	Passes  int
	Applied []fix.AppliedFix
	// Skipped are the fixes of the last pass that did not apply.
	Skipped []fix.SkippedFix
	Changes []fix.FileChange
	// Remaining is the diagnose result after the last applied pass.
	Remaining *Result
}

// FixAll diagnoses paths and applies fixes until nothing applies or
// MaxPasses is reached. Every pass re-diagnoses the revised FileSet, so
// fixes deferred by an earlier batch are synthesized against fresh text.
// In Once and ID modes a single pass runs.
func FixAll(ctx context.Context, paths []string, opts FixOptions) (*FixResult, error) {
	fs, ids, err := Load(ctx, paths, opts.Options)
	if err != nil {
		return nil, err
	}
	return FixFileSet(ctx, fs, ids, opts)
}

// FixFileSet runs the FixAll loop over files already in fs.
func FixFileSet(ctx context.Context, fs *source.FileSet, ids []source.FileID, opts FixOptions) (*FixResult, error) {
	span, ctx := trace.Start(ctx, trace.ScopeDriver, "fix")
	opts.Fixes = true
	maxPasses := opts.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	if opts.Mode != fix.ApplyModeAll {
		maxPasses = 1
	}

	out := &FixResult{FileSet: fs}
	changes := make(map[string]int)
	stale := false
	for out.Passes < maxPasses {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		res, err := Analyze(ctx, fs, ids, opts.Options)
		if err != nil {
			return out, err
		}
		out.Remaining, stale = res, false

		emit(opts.Progress, Event{Stage: StageFix, Status: StatusWorking})
		phase := beginPhase(opts.Timer, "fix pass "+strconv.Itoa(out.Passes+1))
		applied, err := fix.Apply(fs, res.Diagnostics(0), fix.ApplyOptions{
			Mode:            opts.Mode,
			TargetID:        opts.TargetID,
			Rules:           opts.Rules,
			AllowHeuristics: opts.AllowHeuristics,
			DryRun:          opts.DryRun,
		})
		endPhase(opts.Timer, phase, "")
		out.Skipped = applied.Skipped
		if errors.Is(err, fix.ErrNoFixes) {
			break
		}
		if err != nil {
			return out, err
		}
		out.Passes++
		stale = true
		out.Applied = append(out.Applied, applied.Applied...)
		for _, ch := range applied.FileChanges {
			emit(opts.Progress, Event{File: ch.Path, Stage: StageFix, Status: StatusDone})
			if i, ok := changes[ch.Path]; ok {
				out.Changes[i].After = ch.After
				out.Changes[i].FileID = ch.FileID
				out.Changes[i].EditCount += ch.EditCount
				continue
			}
			changes[ch.Path] = len(out.Changes)
			out.Changes = append(out.Changes, ch)
		}
		ids = latest(fs, ids)
	}

	if stale {
		res, err := Analyze(ctx, fs, ids, opts.Options)
		if err != nil {
			return out, err
		}
		out.Remaining = res
	}
	span.End(fmt.Sprintf("%d passes, %d fixes", out.Passes, len(out.Applied)))
	return out, nil
}

// latest maps every id to the newest revision of its path.
func latest(fs *source.FileSet, ids []source.FileID) []source.FileID {
	out := make([]source.FileID, len(ids))
	for i, id := range ids {
		out[i] = id
		if newest, ok := fs.GetLatest(fs.Get(id).Path); ok {
			out[i] = newest
		}
	}
	return out
}

// Counts tallies the diagnostics left after fixing, by code.
func (r *FixResult) Counts() map[diag.Code]int {
	out := make(map[diag.Code]int)
	if r.Remaining == nil {
		return out
	}
	for _, d := range r.Remaining.Diagnostics(0) {
		out[d.Code]++
	}
	return out
}
