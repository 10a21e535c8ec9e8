package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	cases := map[string]Kind{
		"if":       KwIf,
		"foreach":  KwForeach,
		"readonly": KwReadonly,
		"lock":     KwLock,
		"null":     KwNull,
	}
	for text, want := range cases {
		got, ok := LookupKeyword(text)
		if !ok || got != want {
			t.Errorf("LookupKeyword(%q) = %v, %v; want %v", text, got, ok, want)
		}
		if got.String() != text {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), text)
		}
	}
}

func TestContextualKeywordsStayIdent(t *testing.T) {
	for _, text := range []string{"var", "async", "await", "yield", "get", "set", "nameof", "If"} {
		if k, ok := LookupKeyword(text); ok {
			t.Errorf("%q must not be reserved, got %v", text, k)
		}
	}
}

func TestTokenFullText(t *testing.T) {
	tok := Token{
		Kind:     Ident,
		Text:     "x",
		Leading:  []Trivia{{Kind: TriviaSpace, Text: "  "}},
		Trailing: []Trivia{{Kind: TriviaLineComment, Text: "// c"}, {Kind: TriviaNewline, Text: "\n"}},
	}
	if got := tok.FullText(); got != "  x// c\n" {
		t.Errorf("FullText = %q", got)
	}
	if !HasComment(tok.Trailing) || HasComment(tok.Leading) {
		t.Errorf("HasComment misclassifies trivia")
	}
	if !tok.Is("x") || tok.Is("y") {
		t.Errorf("Is misbehaves")
	}
}

func TestOperatorNames(t *testing.T) {
	if QuestionQuestion.String() != "??" || AndAnd.String() != "&&" || Gt.String() != ">" {
		t.Errorf("unexpected operator names")
	}
	if !IsPredefinedType(KwInt) || IsPredefinedType(KwIf) {
		t.Errorf("IsPredefinedType misclassifies")
	}
}
