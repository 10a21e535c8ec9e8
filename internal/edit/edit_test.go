package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drlint/internal/diag"
	"drlint/internal/source"
)

func te(start, end uint32, text string) diag.TextEdit {
	return diag.TextEdit{Span: source.Span{File: 1, Start: start, End: end}, NewText: text}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		content string
		edits   []diag.TextEdit
		want    string
	}{
		{"no edits", "abc", nil, "abc"},
		{"replace", "hello world", []diag.TextEdit{te(6, 11, "there")}, "hello there"},
		{"insert and delete", "a\n    &&\n    b", []diag.TextEdit{te(1, 1, " &&"), te(6, 9, "")}, "a &&\n        b"},
		{"edits in any order", "0123456789", []diag.TextEdit{te(1, 2, "a"), te(8, 9, "b"), te(4, 6, "")}, "0a2367b9"},
		{"insert before replaced range", "xyz", []diag.TextEdit{te(1, 2, "Y"), te(1, 1, "+")}, "x+Yz"},
		{"insert after replaced range", "xyz", []diag.TextEdit{te(2, 2, "+"), te(1, 2, "Y")}, "xY+z"},
		{"at end", "ab", []diag.TextEdit{te(2, 2, "c")}, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply([]byte(tt.content), tt.edits)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestApplyRejects(t *testing.T) {
	tests := []struct {
		name  string
		edits []diag.TextEdit
		want  error
	}{
		{"overlap", []diag.TextEdit{te(0, 3, "a"), te(2, 4, "b")}, ErrConflict},
		{"same range", []diag.TextEdit{te(1, 2, "a"), te(1, 2, "b")}, ErrConflict},
		{"two inserts at one offset", []diag.TextEdit{te(2, 2, "a"), te(2, 2, "b")}, ErrConflict},
		{"insert inside range", []diag.TextEdit{te(0, 4, "a"), te(2, 2, "b")}, ErrConflict},
		{"nested far apart", []diag.TextEdit{te(0, 6, ""), te(1, 1, "x"), te(5, 5, "y")}, ErrConflict},
		{"past end", []diag.TextEdit{te(3, 9, "")}, ErrOutOfRange},
		{"reversed", []diag.TextEdit{te(3, 2, "")}, ErrOutOfRange},
		{"guard", []diag.TextEdit{{Span: source.Span{File: 1, Start: 0, End: 2}, NewText: "x", OldText: "zz"}}, ErrMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := []byte("abcdef")
			got, err := Apply(content, tt.edits)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, "abcdef", string(got))
		})
	}
}

func TestApplyGuardMatches(t *testing.T) {
	got, err := Apply([]byte("int x;"), []diag.TextEdit{{Span: source.Span{Start: 0, End: 3}, NewText: "nint", OldText: "int"}})
	require.NoError(t, err)
	assert.Equal(t, "nint x;", string(got))
}

func TestApplyFilesIsAllOrNothing(t *testing.T) {
	files := map[source.FileID][]byte{
		1: []byte("int foo = 1;"),
		2: []byte("use(foo);"),
	}
	rename := []diag.TextEdit{
		{Span: source.Span{File: 1, Start: 4, End: 7}, NewText: "bar", OldText: "foo"},
		{Span: source.Span{File: 2, Start: 4, End: 7}, NewText: "bar", OldText: "foo"},
	}
	out, err := ApplyFiles(files, rename)
	require.NoError(t, err)
	assert.Equal(t, "int bar = 1;", string(out[1]))
	assert.Equal(t, "use(bar);", string(out[2]))
	assert.Equal(t, "use(foo);", string(files[2]))

	rename[1].OldText = "baz"
	out, err = ApplyFiles(files, rename)
	require.ErrorIs(t, err, ErrMismatch)
	assert.Nil(t, out)

	_, err = ApplyFiles(files, []diag.TextEdit{{Span: source.Span{File: 7}}})
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestConflictIgnoresOtherFiles(t *testing.T) {
	a := diag.TextEdit{Span: source.Span{File: 1, Start: 0, End: 5}}
	b := diag.TextEdit{Span: source.Span{File: 2, Start: 0, End: 5}}
	assert.False(t, Conflict(a, b))
	assert.True(t, Conflict(a, diag.TextEdit{Span: source.Span{File: 1, Start: 4, End: 9}}))
	assert.False(t, Conflict(a, diag.TextEdit{Span: source.Span{File: 1, Start: 5, End: 9}}))
}
