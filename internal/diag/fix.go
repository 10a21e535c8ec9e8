package diag

import (
	"errors"
	"fmt"

	"drlint/internal/source"
)

// FixKind classifies a fix for presentation.
type FixKind uint8

const (
	FixKindQuickFix FixKind = iota
	FixKindRefactor
	FixKindRefactorRewrite
	FixKindRename
)

func (k FixKind) String() string {
	switch k {
	case FixKindQuickFix:
		return "quickfix"
	case FixKindRefactor:
		return "refactor"
	case FixKindRefactorRewrite:
		return "refactor.rewrite"
	case FixKindRename:
		return "rename"
	}
	return "unknown"
}

// FixApplicability is the confidence that a fix is behaviour-preserving.
type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityManualReview:
		return "manual-review"
	}
	return "unknown"
}

// TextEdit replaces Span with NewText. OldText, when set, must equal the
// current text under Span or the edit is refused.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// Fix is a materialised or lazy automated correction.
type Fix struct {
	ID            string
	Title         string
	Kind          FixKind
	Applicability FixApplicability
	IsPreferred   bool
	RequiresAll   bool
	Edits         []TextEdit
	Thunk         FixThunk
}

// FixBuildContext is what thunks get to look at when they materialise.
type FixBuildContext struct {
	FileSet *source.FileSet
}

// FixThunk computes edits lazily.
type FixThunk interface {
	BuildFix(ctx FixBuildContext) (Fix, error)
}

// FixThunkFunc adapts a function to FixThunk.
type FixThunkFunc func(ctx FixBuildContext) (Fix, error)

func (f FixThunkFunc) BuildFix(ctx FixBuildContext) (Fix, error) { return f(ctx) }

// ErrEmptyFix is returned when a fix has neither edits nor a thunk.
var ErrEmptyFix = errors.New("fix has no edits")

// Resolve returns a fully materialised copy of the fix.
// Metadata set on the lazy fix (ID, title, preference) wins over what the thunk returns.
func (f *Fix) Resolve(ctx FixBuildContext) (Fix, error) {
	if f == nil {
		return Fix{}, ErrEmptyFix
	}
	if f.Thunk == nil {
		if len(f.Edits) == 0 {
			return Fix{}, ErrEmptyFix
		}
		out := *f
		out.Edits = append([]TextEdit(nil), f.Edits...)
		return out, nil
	}
	built, err := f.Thunk.BuildFix(ctx)
	if err != nil {
		return Fix{}, err
	}
	if f.ID != "" {
		built.ID = f.ID
	}
	if f.Title != "" {
		built.Title = f.Title
	}
	built.Kind = f.Kind
	built.Applicability = f.Applicability
	built.IsPreferred = built.IsPreferred || f.IsPreferred
	built.RequiresAll = built.RequiresAll || f.RequiresAll
	built.Thunk = nil
	if len(built.Edits) == 0 {
		return Fix{}, ErrEmptyFix
	}
	return built, nil
}

// MaterializeFixes resolves every fix; the first failure aborts.
func MaterializeFixes(ctx FixBuildContext, fixes []*Fix) ([]Fix, error) {
	out := make([]Fix, 0, len(fixes))
	for i, f := range fixes {
		resolved, err := f.Resolve(ctx)
		if err != nil {
			return nil, fmt.Errorf("fix %d: %w", i, err)
		}
		out = append(out, resolved)
	}
	return out, nil
}
