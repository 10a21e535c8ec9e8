package token

import "drlint/internal/source"

//go:generate stringer -type=TriviaKind -trimprefix=Trivia
type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocLine
	TriviaDirective
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaNewline:
		return "Newline"
	case TriviaLineComment:
		return "LineComment"
	case TriviaBlockComment:
		return "BlockComment"
	case TriviaDocLine:
		return "DocLine"
	case TriviaDirective:
		return "Directive"
	}
	return "Unknown"
}

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// IsComment reports whether the trivia carries author text that a rewrite must not drop.
func (t Trivia) IsComment() bool {
	switch t.Kind {
	case TriviaLineComment, TriviaBlockComment, TriviaDocLine, TriviaDirective:
		return true
	}
	return false
}

// HasComment reports whether any trivia in the list is a comment or directive.
func HasComment(list []Trivia) bool {
	for _, t := range list {
		if t.IsComment() {
			return true
		}
	}
	return false
}

// HasNewline reports whether the list contains a line break.
func HasNewline(list []Trivia) bool {
	for _, t := range list {
		if t.Kind == TriviaNewline {
			return true
		}
	}
	return false
}
