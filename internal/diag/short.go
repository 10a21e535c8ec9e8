package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"drlint/internal/source"
)

type shortLine struct {
	path      string
	line, col uint32
	severity  string
	code      string
	message   string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s:%d:%d: %s %s: %s", l.path, l.line, l.col, l.severity, l.code, l.message)
}

func compareShort(a, b shortLine) int {
	return cmp.Or(
		strings.Compare(a.path, b.path),
		cmp.Compare(a.line, b.line),
		cmp.Compare(a.col, b.col),
		strings.Compare(a.code, b.code),
		strings.Compare(a.message, b.message),
	)
}

// FormatShortDiagnostics renders one "path:line:col: severity CODE: message"
// line per diagnostic (and per note when includeNotes), sorted by location.
// Paths are relative to the FileSet base with forward slashes, so the output
// is stable across machines. There is no trailing newline.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil {
		return ""
	}
	var lines []shortLine
	for i := range diags {
		d := &diags[i]
		if l, ok := shortAt(fs, d.Primary); ok {
			l.severity, l.code, l.message = lowerSeverity(d.Severity), d.Code.ID(), oneLine(d.Message)
			lines = append(lines, l)
		}
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			if l, ok := shortAt(fs, n.Span); ok {
				l.severity, l.code, l.message = "note", d.Code.ID(), oneLine(n.Msg)
				lines = append(lines, l)
			}
		}
	}
	slices.SortStableFunc(lines, compareShort)

	rendered := make([]string, len(lines))
	for i, l := range lines {
		rendered[i] = l.String()
	}
	return strings.Join(rendered, "\n")
}

func shortAt(fs *source.FileSet, span source.Span) (shortLine, bool) {
	f := fs.Get(span.File)
	if f == nil {
		return shortLine{}, false
	}
	start, _ := fs.Resolve(span)
	path := filepath.ToSlash(f.FormatPath("relative", fs.BaseDir()))
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	return shortLine{path: path, line: start.Line, col: start.Col}, true
}

func lowerSeverity(s Severity) string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	}
	return "info"
}

// oneLine folds line breaks so a message never spans output lines.
func oneLine(msg string) string {
	msg = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg)
	return strings.TrimSpace(msg)
}
