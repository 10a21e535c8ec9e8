package source

import (
	"fmt"

	"fortio.org/safecast"
)

func (f *File) size() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	return n
}

// Text returns the bytes covered by span as a string.
func (f *File) Text(span Span) string {
	end := min(span.End, f.size())
	if span.Start >= end {
		return ""
	}
	return string(f.Content[span.Start:end])
}

// LineOf returns the 1-based line containing off.
func (f *File) LineOf(off uint32) uint32 {
	return toLineCol(f.LineIdx, off).Line
}

// LineCount returns the number of lines, counting a trailing partial line.
func (f *File) LineCount() uint32 {
	n, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	return n + 1
}

// LineStart returns the offset of the first byte of the 1-based line.
func (f *File) LineStart(line uint32) uint32 {
	if line <= 1 {
		return 0
	}
	idx := int(line - 2)
	if idx < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return f.size()
}

// LineEnd returns the offset of the '\n' ending the line, or EOF.
func (f *File) LineEnd(line uint32) uint32 {
	if line == 0 {
		return 0
	}
	idx := int(line - 1)
	if idx < len(f.LineIdx) {
		return f.LineIdx[idx]
	}
	return f.size()
}

// GetLine returns the text of the 1-based line without its newline.
// An unknown line yields an empty string.
func (f *File) GetLine(line uint32) string {
	if line == 0 || line > f.LineCount() {
		return ""
	}
	start, end := f.LineStart(line), f.LineEnd(line)
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

// Indent returns the run of spaces and tabs that starts the line containing off.
func (f *File) Indent(off uint32) string {
	start := f.LineStart(f.LineOf(off))
	end := start
	for end < f.size() && (f.Content[end] == ' ' || f.Content[end] == '\t') {
		end++
	}
	return string(f.Content[start:end])
}

// OnlySpaceBefore reports whether nothing but spaces and tabs precede off on its line.
func (f *File) OnlySpaceBefore(off uint32) bool {
	start := f.LineStart(f.LineOf(off))
	for i := start; i < off && i < f.size(); i++ {
		if c := f.Content[i]; c != ' ' && c != '\t' {
			return false
		}
	}
	return true
}

// Encode restores the on-disk form of content: BOM and CRLF endings
// are re-applied when the file originally had them.
func (f *File) Encode(content []byte) []byte {
	return Denormalize(content, f.Flags)
}
