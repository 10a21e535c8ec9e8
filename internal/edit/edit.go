// Package edit applies text edits to a document snapshot.
//
// Every edit of a call is validated against the same content before any byte
// changes: spans must lie inside the content, must not overlap and must match
// their OldText guard. Edits are then applied from the highest start offset
// down, so lower offsets stay valid. On error the input is returned untouched.
package edit

import (
	"errors"
	"fmt"
	"slices"

	"fortio.org/safecast"

	"drlint/internal/diag"
	"drlint/internal/source"
)

var (
	ErrConflict   = errors.New("overlapping edits")
	ErrMismatch   = errors.New("existing text does not match expected content")
	ErrOutOfRange = errors.New("edit span out of range")
)

// Apply returns content with edits applied.
func Apply(content []byte, edits []diag.TextEdit) ([]byte, error) {
	if len(edits) == 0 {
		return content, nil
	}
	size, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return content, fmt.Errorf("content too large: %w", err)
	}
	sorted := Sorted(edits)
	for _, e := range sorted {
		if e.Span.Start > e.Span.End || e.Span.End > size {
			return content, fmt.Errorf("%w: %s in %d bytes", ErrOutOfRange, e.Span, size)
		}
	}
	if a, b, ok := Overlapping(sorted); ok {
		return content, fmt.Errorf("%w: %s and %s", ErrConflict, a.Span, b.Span)
	}
	for _, e := range sorted {
		if e.OldText != "" && string(content[e.Span.Start:e.Span.End]) != e.OldText {
			return content, fmt.Errorf("%w at %s: want %q, have %q",
				ErrMismatch, e.Span, e.OldText, content[e.Span.Start:e.Span.End])
		}
	}

	out := slices.Clone(content)
	for _, e := range sorted {
		suffix := append([]byte(nil), out[e.Span.End:]...)
		out = append(append(out[:e.Span.Start], e.NewText...), suffix...)
	}
	return out, nil
}

// ApplyFiles applies edits across several files. files maps each file to its
// current content; edits for a file missing from the map are out of range.
// Either every file is rewritten or the error is returned and nothing is.
func ApplyFiles(files map[source.FileID][]byte, edits []diag.TextEdit) (map[source.FileID][]byte, error) {
	byFile := make(map[source.FileID][]diag.TextEdit)
	for _, e := range edits {
		byFile[e.Span.File] = append(byFile[e.Span.File], e)
	}
	out := make(map[source.FileID][]byte, len(byFile))
	for id, fileEdits := range byFile {
		content, ok := files[id]
		if !ok {
			return nil, fmt.Errorf("%w: file %d is not loaded", ErrOutOfRange, id)
		}
		next, err := Apply(content, fileEdits)
		if err != nil {
			return nil, fmt.Errorf("file %d: %w", id, err)
		}
		out[id] = next
	}
	return out, nil
}

// Sorted returns a copy of edits ordered by descending start. At equal starts
// the wider edit comes first, so an insertion at the start of a replaced
// range ends up in front of the replacement.
func Sorted(edits []diag.TextEdit) []diag.TextEdit {
	out := slices.Clone(edits)
	slices.SortStableFunc(out, func(a, b diag.TextEdit) int {
		if a.Span.Start != b.Span.Start {
			return int(b.Span.Start) - int(a.Span.Start)
		}
		return int(b.Span.End) - int(a.Span.End)
	})
	return out
}

// Conflict reports whether two edits touch the same text. Spans are
// half-open. Two insertions at one offset conflict because their order would
// be arbitrary; an insertion conflicts with a range it falls strictly inside.
func Conflict(a, b diag.TextEdit) bool {
	if a.Span.File != b.Span.File {
		return false
	}
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End
	switch {
	case aStart == aEnd && bStart == bEnd:
		return aStart == bStart
	case aStart == aEnd:
		return bStart < aStart && aStart < bEnd
	case bStart == bEnd:
		return aStart < bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

// Overlapping returns a conflicting pair in edits, if any.
func Overlapping(edits []diag.TextEdit) (diag.TextEdit, diag.TextEdit, bool) {
	for i := range edits {
		for j := i + 1; j < len(edits); j++ {
			if Conflict(edits[i], edits[j]) {
				return edits[i], edits[j], true
			}
		}
	}
	return diag.TextEdit{}, diag.TextEdit{}, false
}
