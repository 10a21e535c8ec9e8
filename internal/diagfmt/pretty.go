package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"drlint/internal/diag"
	"drlint/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, code, gutter, caret, fix, added, removed, path *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		note:    color.New(color.FgBlue, color.Bold),
		code:    color.New(color.Bold),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgGreen, color.Bold),
		fix:     color.New(color.FgMagenta),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		path:    color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.gutter, p.caret, p.fix, p.added, p.removed, p.path} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pr := prettyPrinter{w: w, fs: fs, opts: opts, pal: newPalette(opts.Color)}
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		pr.diagnostic(&d)
	}
}

type prettyPrinter struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
	pal  palette
}

func (p *prettyPrinter) location(span source.Span) string {
	start, _ := p.fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", displayPath(p.fs, span.File, p.opts.PathMode), start.Line, start.Col)
}

func (p *prettyPrinter) diagnostic(d *diag.Diagnostic) {
	if p.fs.Get(d.Primary.File) == nil {
		fmt.Fprintf(p.w, "%s %s: %s\n", p.pal.severity(d.Severity).Sprint(d.Severity), p.pal.code.Sprint(d.Code.ID()), d.Message)
		return
	}
	fmt.Fprintf(p.w, "%s: %s %s: %s\n",
		p.pal.path.Sprint(p.location(d.Primary)),
		p.pal.severity(d.Severity).Sprint(d.Severity),
		p.pal.code.Sprint(d.Code.ID()),
		d.Message)
	p.excerpt(d.Primary)

	if p.opts.ShowNotes {
		for _, n := range d.Notes {
			if p.fs.Get(n.Span.File) == nil {
				fmt.Fprintf(p.w, "  %s %s\n", p.pal.note.Sprint("note:"), n.Msg)
				continue
			}
			fmt.Fprintf(p.w, "  %s %s: %s\n", p.pal.note.Sprint("note:"), p.location(n.Span), n.Msg)
		}
	}
	if p.opts.ShowFixes && len(d.Fixes) > 0 {
		p.fixes(d.Fixes)
	}
}

// excerpt prints the lines around span with a caret underline on the first line of span.
func (p *prettyPrinter) excerpt(span source.Span) {
	file := p.fs.Get(span.File)
	line := file.LineOf(span.Start)
	ctx := uint32(max(p.opts.Context, 0))
	first := uint32(1)
	if line > ctx {
		first = line - ctx
	}
	last := min(line+ctx, file.LineCount())
	gw := len(strconv.FormatUint(uint64(last), 10))
	blank := strings.Repeat(" ", gw)

	for ln := first; ln <= last; ln++ {
		text := expandTabs(file.GetLine(ln))
		if p.opts.Width > 0 {
			text = runewidth.Truncate(text, int(p.opts.Width), "…")
		}
		fmt.Fprintf(p.w, "%s %s\n", p.pal.gutter.Sprintf("%*d |", gw, ln), text)
		if ln != line {
			continue
		}
		lineStart := file.LineStart(line)
		lineEnd := file.LineEnd(line)
		prefix := expandTabs(string(file.Content[lineStart:min(span.Start, lineEnd)]))
		underEnd := min(max(span.End, span.Start), lineEnd)
		under := runewidth.StringWidth(expandTabs(string(file.Content[min(span.Start, lineEnd):underEnd])))
		marker := "^"
		if under > 1 {
			marker += strings.Repeat("~", under-1)
		}
		fmt.Fprintf(p.w, "%s %s%s\n", p.pal.gutter.Sprint(blank+" |"), strings.Repeat(" ", runewidth.StringWidth(prefix)), p.pal.caret.Sprint(marker))
	}
}

func (p *prettyPrinter) fixes(fixes []*diag.Fix) {
	ctx := diag.FixBuildContext{FileSet: p.fs}
	for i, f := range orderedFixes(fixes) {
		resolved, err := f.Resolve(ctx)
		title := resolved.Title
		if err != nil {
			title = f.Title
		}
		if title == "" {
			title = "(untitled)"
		}
		header := fmt.Sprintf("fix #%d: %s [%s, %s]", i+1, title, f.Kind, f.Applicability)
		if id := firstNonEmpty(resolved.ID, f.ID); id != "" {
			header += " id=" + id
		}
		if f.IsPreferred {
			header += " (preferred)"
		}
		fmt.Fprintf(p.w, "  %s\n", p.pal.fix.Sprint(header))
		if err != nil {
			fmt.Fprintf(p.w, "    unavailable: %v\n", err)
			continue
		}
		for _, e := range resolved.Edits {
			fmt.Fprintf(p.w, "    edit %s apply=%s\n", p.location(e.Span), strconv.Quote(e.NewText))
			if !p.opts.ShowPreview {
				continue
			}
			preview, perr := buildFixEditPreview(p.fs, e)
			if perr != nil {
				continue
			}
			fmt.Fprintln(p.w, "    preview:")
			for _, l := range preview.before {
				fmt.Fprintf(p.w, "      %s\n", p.pal.removed.Sprint("- "+expandTabs(l)))
			}
			for _, l := range preview.after {
				fmt.Fprintf(p.w, "      %s\n", p.pal.added.Sprint("+ "+expandTabs(l)))
			}
		}
	}
}

// Summary prints "N errors, M warnings, K infos" or "no diagnostics".
func Summary(w io.Writer, bag *diag.Bag, colored bool) {
	pal := newPalette(colored)
	var counts [3]int
	for _, d := range bag.Items() {
		if int(d.Severity) < len(counts) {
			counts[d.Severity]++
		}
	}
	if bag.Len() == 0 {
		fmt.Fprintln(w, "no diagnostics")
		return
	}
	parts := make([]string, 0, 3)
	for _, sev := range []diag.Severity{diag.SevError, diag.SevWarning, diag.SevInfo} {
		if n := counts[sev]; n > 0 {
			parts = append(parts, pal.severity(sev).Sprint(plural(n, strings.ToLower(sev.String()))))
		}
	}
	fmt.Fprintln(w, strings.Join(parts, ", "))
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Short writes one line per diagnostic in the stable golden-file format.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	out := diag.FormatShortDiagnostics(bag.Items(), fs, includeNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
