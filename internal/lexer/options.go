package lexer

import (
	"drlint/internal/diag"
	"drlint/internal/source"
)

type Options struct {
	Reporter diag.Reporter // may be nil: errors are dropped and lexing continues
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(diag.New(diag.SevError, code, sp, msg))
	}
}
