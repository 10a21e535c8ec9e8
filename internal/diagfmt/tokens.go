package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"drlint/internal/source"
	"drlint/internal/token"
)

type TokenOutput struct {
	Kind     string       `json:"kind"`
	Text     string       `json:"text,omitempty"`
	Span     source.Span  `json:"span"`
	Line     uint32       `json:"line"`
	Col      uint32       `json:"col"`
	Leading  []TriviaJSON `json:"leading,omitempty"`
	Trailing []TriviaJSON `json:"trailing,omitempty"`
}

type TriviaJSON struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

func triviaKinds(list []token.Trivia) string {
	kinds := make([]string, len(list))
	for i, tr := range list {
		kinds[i] = tr.Kind.String()
	}
	return strings.Join(kinds, ", ")
}

func triviaJSON(list []token.Trivia) []TriviaJSON {
	if len(list) == 0 {
		return nil
	}
	out := make([]TriviaJSON, len(list))
	for i, tr := range list {
		out[i] = TriviaJSON{Kind: tr.Kind.String(), Text: tr.Text}
	}
	return out
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)
		line := fmt.Sprintf("%3d: %-15s", i+1, tok.Kind.String())
		if tok.Text != "" {
			line += fmt.Sprintf(" %q", tok.Text)
		}
		line += fmt.Sprintf(" at %d:%d-%d:%d", startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		if len(tok.Leading) > 0 {
			line += " (leading: " + triviaKinds(tok.Leading) + ")"
		}
		if len(tok.Trailing) > 0 {
			line += " (trailing: " + triviaKinds(tok.Trailing) + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате, trivia вместе с текстом.
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		start, _ := fs.Resolve(tok.Span)
		output = append(output, TokenOutput{
			Kind:     tok.Kind.String(),
			Text:     tok.Text,
			Span:     tok.Span,
			Line:     start.Line,
			Col:      start.Col,
			Leading:  triviaJSON(tok.Leading),
			Trailing: triviaJSON(tok.Trailing),
		})
		if tok.Kind == token.EOF {
			break
		}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
