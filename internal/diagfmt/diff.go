package diagfmt

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sourcegraph/go-diff/diff"

	"drlint/internal/fix"
)

// DefaultDiffContext is the number of unchanged lines kept around a hunk.
const DefaultDiffContext = 3

// PreviewOpts configures unified-diff previews of applied fixes.
type PreviewOpts struct {
	Color   bool
	Context int
}

// BuildFileDiff computes the line diff between before and after.
// The result is nil when the texts are equal.
// A missing trailing newline is ignored on both sides.
func BuildFileDiff(path string, before, after []byte, context int) (*diff.FileDiff, error) {
	if bytes.Equal(before, after) {
		return nil, nil
	}
	if context < 0 {
		context = DefaultDiffContext
	}
	a, b := diffLines(before), diffLines(after)
	fd := &diff.FileDiff{OrigName: "a/" + path, NewName: "b/" + path}

	m := difflib.NewMatcher(a, b)
	for _, group := range m.GetGroupedOpCodes(context) {
		first, last := group[0], group[len(group)-1]
		h, err := newHunk(first.I1, last.I2, first.J1, last.J2)
		if err != nil {
			return nil, err
		}
		var body bytes.Buffer
		for _, op := range group {
			switch op.Tag {
			case 'e':
				writeLines(&body, ' ', a[op.I1:op.I2])
			case 'd':
				writeLines(&body, '-', a[op.I1:op.I2])
			case 'i':
				writeLines(&body, '+', b[op.J1:op.J2])
			case 'r':
				writeLines(&body, '-', a[op.I1:op.I2])
				writeLines(&body, '+', b[op.J1:op.J2])
			}
		}
		h.Body = body.Bytes()
		fd.Hunks = append(fd.Hunks, h)
	}
	if len(fd.Hunks) == 0 {
		return nil, nil
	}
	return fd, nil
}

func newHunk(i1, i2, j1, j2 int) (*diff.Hunk, error) {
	origStart, err := safecast.Conv[int32](hunkStart(i1, i2))
	if err != nil {
		return nil, fmt.Errorf("hunk offset overflow: %w", err)
	}
	origLines, err := safecast.Conv[int32](i2 - i1)
	if err != nil {
		return nil, fmt.Errorf("hunk length overflow: %w", err)
	}
	newStart, err := safecast.Conv[int32](hunkStart(j1, j2))
	if err != nil {
		return nil, fmt.Errorf("hunk offset overflow: %w", err)
	}
	newLines, err := safecast.Conv[int32](j2 - j1)
	if err != nil {
		return nil, fmt.Errorf("hunk length overflow: %w", err)
	}
	return &diff.Hunk{
		OrigStartLine: origStart,
		OrigLines:     origLines,
		NewStartLine:  newStart,
		NewLines:      newLines,
	}, nil
}

// hunkStart is 1-based; an empty range names the line before it.
func hunkStart(lo, hi int) int {
	if hi == lo {
		return lo
	}
	return lo + 1
}

func diffLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	text := string(content)
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	lines := strings.SplitAfter(text, "\n")
	return lines[:len(lines)-1]
}

func writeLines(buf *bytes.Buffer, prefix byte, lines []string) {
	for _, l := range lines {
		buf.WriteByte(prefix)
		buf.WriteString(l)
	}
}

// BuildPreview returns one FileDiff per change that actually altered text.
func BuildPreview(changes []fix.FileChange, context int) ([]*diff.FileDiff, error) {
	out := make([]*diff.FileDiff, 0, len(changes))
	for _, ch := range changes {
		fd, err := BuildFileDiff(ch.Path, ch.Before, ch.After, context)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ch.Path, err)
		}
		if fd != nil {
			out = append(out, fd)
		}
	}
	return out, nil
}

// Preview writes the changes as a unified diff.
func Preview(w io.Writer, changes []fix.FileChange, opts PreviewOpts) error {
	fds, err := BuildPreview(changes, opts.Context)
	if err != nil {
		return err
	}
	if len(fds) == 0 {
		return nil
	}
	data, err := diff.PrintMultiFileDiff(fds)
	if err != nil {
		return err
	}
	if !opts.Color {
		_, err = w.Write(data)
		return err
	}
	pal := newPalette(true)
	for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			line = pal.path.Sprint(line)
		case strings.HasPrefix(line, "@@"):
			line = pal.gutter.Sprint(line)
		case strings.HasPrefix(line, "+"):
			line = pal.added.Sprint(line)
		case strings.HasPrefix(line, "-"):
			line = pal.removed.Sprint(line)
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// DiffStat reports "N files changed, X insertions(+), Y deletions(-)".
func DiffStat(fds []*diff.FileDiff) string {
	var ins, del int32
	for _, fd := range fds {
		st := fd.Stat()
		ins += st.Added + st.Changed
		del += st.Deleted + st.Changed
	}
	return fmt.Sprintf("%s changed, %d insertions(+), %d deletions(-)", plural(len(fds), "file"), ins, del)
}
