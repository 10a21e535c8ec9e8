package diagfmt

import (
	"errors"
	"fmt"
	"strings"

	"drlint/internal/diag"
	"drlint/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

var errNoFileSet = errors.New("nil FileSet")

// buildFixEditPreview shows the whole lines touched by edit before and after it applies.
func buildFixEditPreview(fs *source.FileSet, edit diag.TextEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, errNoFileSet
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}

	startLine := file.LineOf(edit.Span.Start)
	endLine := max(file.LineOf(edit.Span.End), startLine)

	blockStart := file.LineStart(startLine)
	blockEnd := max(file.LineEnd(endLine), blockStart)

	if edit.Span.Start < blockStart || edit.Span.End > blockEnd || edit.Span.End < edit.Span.Start {
		return fixEditPreview{}, fmt.Errorf("edit span %s out of range for preview block", edit.Span)
	}
	original := file.Content[blockStart:blockEnd]
	relStart := edit.Span.Start - blockStart
	relEnd := edit.Span.End - blockStart

	after := make([]byte, 0, len(original)+len(edit.NewText))
	after = append(after, original[:relStart]...)
	after = append(after, edit.NewText...)
	after = append(after, original[relEnd:]...)

	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after),
	}, nil
}

// splitPreviewLines drops one trailing newline; inner blank lines survive.
func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}
