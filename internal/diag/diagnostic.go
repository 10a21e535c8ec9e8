package diag

import (
	"drlint/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Args     []string
	Primary  source.Span
	Notes    []Note
	Fixes    []*Fix
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

// NewRule builds a rule diagnostic whose message is the descriptor template rendered with args.
func NewRule(code Code, sev Severity, primary source.Span, args ...string) Diagnostic {
	msg := code.Title()
	if d, ok := Describe(code); ok {
		msg = d.Render(args)
	}
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Args:     args,
		Primary:  primary,
	}
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// WithFixSuggestion returns a copy of d with fix appended.
func (d Diagnostic) WithFixSuggestion(fix *Fix) Diagnostic {
	if fix == nil {
		return d
	}
	fixes := make([]*Fix, 0, len(d.Fixes)+1)
	fixes = append(fixes, d.Fixes...)
	d.Fixes = append(fixes, fix)
	return d
}
