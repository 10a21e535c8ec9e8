package rename

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"drlint/internal/diag"
	"drlint/internal/edit"
	"drlint/internal/source"
	"drlint/internal/token"
)

var (
	ErrNotDeclared = errors.New("no declaration at span")
	ErrInvalidName = errors.New("invalid identifier")
	ErrCollision   = errors.New("name already used in scope")
)

// Plan renames one symbol everywhere it is referenced. Every edit is guarded
// by the text it replaces.
type Plan struct {
	Old, New string
	Edits    []diag.TextEdit
}

// Build resolves the declaration at decl and plans renaming it to newName.
// A leading '@' is kept on references that carry one.
func Build(ix Index, fs *source.FileSet, decl source.Span, newName string) (*Plan, error) {
	sym, ok := ix.Resolve(decl)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotDeclared, decl)
	}
	bare := strings.TrimPrefix(newName, "@")
	if !ValidIdentifier("@" + bare) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, newName)
	}
	if bare == sym.Name {
		return nil, fmt.Errorf("%w: %q is the current name", ErrInvalidName, newName)
	}
	probe := sym
	probe.Name = bare
	if refs := ix.References(probe); len(refs) > 0 {
		return nil, fmt.Errorf("%w: %q at %s", ErrCollision, bare, position(fs, refs[0]))
	}

	plan := &Plan{Old: sym.Name, New: bare}
	for _, sp := range ix.References(sym) {
		f := fs.Get(sp.File)
		if f == nil {
			return nil, fmt.Errorf("%w: file %d", edit.ErrOutOfRange, sp.File)
		}
		old := f.Text(sp)
		text := bare
		if strings.HasPrefix(old, "@") || keyword(bare) {
			text = "@" + bare
		}
		plan.Edits = append(plan.Edits, diag.TextEdit{Span: sp, NewText: text, OldText: old})
	}
	return plan, nil
}

// position renders sp as path:line:col.
func position(fs *source.FileSet, sp source.Span) string {
	f := fs.Get(sp.File)
	if f == nil {
		return sp.String()
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", f.FormatPath("relative", fs.BaseDir()), start.Line, start.Col)
}

// Files lists the files the plan touches, in edit order.
func (p *Plan) Files() []source.FileID {
	var out []source.FileID
	seen := make(map[source.FileID]bool)
	for _, e := range p.Edits {
		if !seen[e.Span.File] {
			seen[e.Span.File] = true
			out = append(out, e.Span.File)
		}
	}
	return out
}

// Apply computes the new content of every touched file. Nothing is returned
// unless every edit applies.
func (p *Plan) Apply(fs *source.FileSet) (map[source.FileID][]byte, error) {
	files := make(map[source.FileID][]byte)
	for _, id := range p.Files() {
		if f := fs.Get(id); f != nil {
			files[id] = f.Content
		}
	}
	out, err := edit.ApplyFiles(files, p.Edits)
	if err != nil {
		return nil, fmt.Errorf("rename %s to %s: %w", p.Old, p.New, err)
	}
	return out, nil
}

// ValidIdentifier accepts a letter or '_' followed by letters, digits and
// '_', optionally behind a verbatim '@'. Keywords need the '@'.
func ValidIdentifier(name string) bool {
	verbatim := strings.HasPrefix(name, "@")
	name = strings.TrimPrefix(name, "@")
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return verbatim || !keyword(name)
}

func keyword(name string) bool {
	_, ok := token.LookupKeyword(name)
	return ok
}
