package synth

import (
	"fmt"

	"drlint/internal/diag"
	"drlint/internal/fix"
	"drlint/internal/parser"
	"drlint/internal/rename"
	"drlint/internal/source"
	"drlint/internal/syntax"
)

// Binding is the analysis state a lazy fix is built against.
type Binding struct {
	Options
	Tree  *syntax.Tree
	Index rename.Index
}

// FixID is the stable identifier of the fix for d.
func FixID(d diag.Diagnostic) string {
	return fmt.Sprintf("%s-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start)
}

// AttachFixes returns a copy of diags in which every diagnostic of b.Tree
// with a strategy carries a lazy fix. The fix is synthesized when the fix
// engine materializes it and refuses to build once the file was revised.
func AttachFixes(diags []diag.Diagnostic, b Binding) []diag.Diagnostic {
	out := make([]diag.Diagnostic, len(diags))
	for i, d := range diags {
		out[i] = d
		s, ok := strategies[d.Code]
		if !ok || b.Tree == nil || d.Primary.File != b.Tree.File.ID {
			continue
		}
		f := fix.New("", nil,
			fix.WithID(FixID(d)),
			fix.WithKind(s.kind),
			fix.WithApplicability(s.app),
			fix.Preferred(),
			fix.WithThunk(thunk(d, b)),
		)
		out[i] = d.WithFixSuggestion(&f)
	}
	return out
}

func thunk(d diag.Diagnostic, b Binding) diag.FixThunk {
	return diag.FixThunkFunc(func(ctx diag.FixBuildContext) (diag.Fix, error) {
		if ctx.FileSet != nil {
			if latest, ok := ctx.FileSet.GetLatest(b.Tree.File.Path); ok && latest != b.Tree.File.ID {
				return diag.Fix{}, precondition("%s changed since it was analyzed", b.Tree.File.Path)
			}
		}
		res, err := Synthesize(Input{
			Options:    b.Options,
			Tree:       b.Tree,
			Diagnostic: d,
			Index:      b.Index,
			FileSet:    ctx.FileSet,
		})
		if err != nil {
			return diag.Fix{}, err
		}
		return fix.New(res.Title, res.Edits, fix.WithKind(res.Kind), fix.WithApplicability(res.Applicability)), nil
	})
}

func parseFile(f *source.File) *syntax.Tree {
	return parser.ParseFile(f, parser.Options{Reporter: diag.NopReporter{}})
}
