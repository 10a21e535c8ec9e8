// Package synth turns rule diagnostics into concrete text edits.
//
// Each rule has one strategy. A strategy first locates the node the
// diagnostic points at and re-checks the condition the rule reported; when
// the tree no longer matches it fails with ErrPrecondition and nothing is
// edited. Rename strategies additionally need a rename.Index that resolves
// the declaration, or they fail with ErrUnresolved.
package synth

import (
	"errors"
	"fmt"
	"strings"

	"drlint/internal/diag"
	"drlint/internal/edit"
	"drlint/internal/lexical"
	"drlint/internal/rename"
	"drlint/internal/rules"
	"drlint/internal/source"
	"drlint/internal/syntax"
)

var (
	ErrPrecondition = errors.New("fix precondition failed")
	ErrUnresolved   = errors.New("rename target cannot be resolved")
	ErrNoStrategy   = errors.New("rule has no fix")
)

// DefaultIndent is used when a file has no indented line to learn from.
const DefaultIndent = "    "

// Options are shared by every strategy.
type Options struct {
	Dict *lexical.Dictionary
	// CasePolicy must match the one the rules ran with.
	CasePolicy rules.CasePolicy
	// Indent is the indentation unit; empty detects it per file.
	Indent string
}

// Input is one diagnostic together with the tree it was reported on.
type Input struct {
	Options
	Tree       *syntax.Tree
	Diagnostic diag.Diagnostic
	// Index and FileSet are needed by rename strategies only.
	Index   rename.Index
	FileSet *source.FileSet
}

// Result is a synthesized fix. Rename results carry the plan as well; its
// edits are also in Edits.
type Result struct {
	Title         string
	Kind          diag.FixKind
	Applicability diag.FixApplicability
	Edits         []diag.TextEdit
	Rename        *rename.Plan
	// Alternatives are other acceptable names for rename fixes.
	Alternatives []string
}

type strategy struct {
	kind diag.FixKind
	app  diag.FixApplicability
	run  func(in *Input) (Result, error)
}

var strategies = map[diag.Code]strategy{
	diag.RuleUseNativeInt:        {diag.FixKindQuickFix, diag.FixApplicabilityAlwaysSafe, useNativeInt},
	diag.RuleUnderscorePrefix:    {diag.FixKindRename, diag.FixApplicabilitySafeWithHeuristics, renameUnderscore},
	diag.RuleBodyOnNewLine:       {diag.FixKindQuickFix, diag.FixApplicabilityAlwaysSafe, moveBody},
	diag.RuleSingleLineNoBlock:   {diag.FixKindQuickFix, diag.FixApplicabilityAlwaysSafe, removeBlock},
	diag.RuleMultiLineNeedsBlock: {diag.FixKindRefactorRewrite, diag.FixApplicabilitySafeWithHeuristics, addBlock},
	diag.RuleOperatorAtLineEnd:   {diag.FixKindQuickFix, diag.FixApplicabilityAlwaysSafe, moveOperator},
	diag.RuleConfigFieldReadonly: {diag.FixKindQuickFix, diag.FixApplicabilityAlwaysSafe, removeReadonly},
	diag.RuleAcronymCasing:       {diag.FixKindRename, diag.FixApplicabilitySafeWithHeuristics, renameAcronyms},
	diag.RuleIdentifierCaseStyle: {diag.FixKindRename, diag.FixApplicabilitySafeWithHeuristics, renameCaseStyle},
}

// HasFix reports whether code has a strategy.
func HasFix(code diag.Code) bool {
	_, ok := strategies[code]
	return ok
}

// Synthesize builds the fix for in.Diagnostic.
func Synthesize(in Input) (Result, error) {
	s, ok := strategies[in.Diagnostic.Code]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrNoStrategy, in.Diagnostic.Code.ID())
	}
	if in.Tree == nil || in.Tree.File == nil || in.Tree.File.ID != in.Diagnostic.Primary.File {
		return Result{}, fmt.Errorf("%w: diagnostic does not belong to the tree", ErrPrecondition)
	}
	if in.Dict == nil {
		in.Dict = lexical.Default()
	}
	if in.Indent == "" {
		in.Indent = IndentUnit(in.Tree.File)
	}
	res, err := s.run(&in)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", in.Diagnostic.Code.ID(), err)
	}
	res.Kind, res.Applicability = s.kind, s.app
	return res, nil
}

// ApplyToText fixes one diagnostic in a standalone document. text is parsed
// afresh and the diagnostic's span is taken to point into it. On any error
// text is returned unchanged. Renames are confined to the document and also
// returned as a plan.
func ApplyToText(text []byte, d diag.Diagnostic) ([]byte, *rename.Plan, error) {
	return Options{}.ApplyToText(text, d)
}

func (o Options) ApplyToText(text []byte, d diag.Diagnostic) ([]byte, *rename.Plan, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("document", text)
	tree := parseFile(fs.Get(id))
	d.Primary.File = id
	res, err := Synthesize(Input{
		Options:    o,
		Tree:       tree,
		Diagnostic: d,
		Index:      rename.NewLexicalIndex(tree),
		FileSet:    fs,
	})
	if err != nil {
		return text, nil, err
	}
	out, err := edit.Apply(tree.File.Content, res.Edits)
	if err != nil {
		return text, nil, err
	}
	return tree.File.Encode(out), res.Rename, nil
}

// IndentUnit returns the indentation of the first indented line of f, or
// DefaultIndent.
func IndentUnit(f *source.File) string {
	for line := uint32(1); line <= f.LineCount(); line++ {
		text := f.GetLine(line)
		body := strings.TrimLeft(text, " \t")
		if body == "" || len(body) == len(text) || strings.HasPrefix(body, "*") {
			continue
		}
		if text[0] == '\t' {
			return "\t"
		}
		return text[:len(text)-len(body)]
	}
	return DefaultIndent
}

func precondition(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}
