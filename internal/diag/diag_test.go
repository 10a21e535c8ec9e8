package diag

import (
	"errors"
	"testing"

	"drlint/internal/source"
)

func TestCodeIDRoundTrip(t *testing.T) {
	cases := map[Code]string{
		RuleUseNativeInt:        "DR0001",
		RuleOperatorAtLineEnd:   "DR0007",
		RuleIdentifierCaseStyle: "DR0010",
		LexBadNumber:            "LEX1004",
		SynExpectSemicolon:      "SYN2003",
	}
	for code, id := range cases {
		if got := code.ID(); got != id {
			t.Errorf("%d.ID() = %q, want %q", code, got, id)
		}
		back, err := ParseCode(id)
		if err != nil || back != code {
			t.Errorf("ParseCode(%q) = %v, %v", id, back, err)
		}
	}
	if _, err := ParseCode("DR0042"); err == nil {
		t.Errorf("expected unknown code error")
	}
	if c, err := ParseCode("dr7"); err != nil || c != RuleOperatorAtLineEnd {
		t.Errorf("ParseCode is not lenient: %v %v", c, err)
	}
}

func TestNewRuleRendersTemplate(t *testing.T) {
	d := NewRule(RuleAcronymCasing, SevWarning, source.Span{}, "Xml", "XML", "xml")
	want := "Acronym 'Xml' must be written as 'XML' or 'xml'"
	if d.Message != want {
		t.Errorf("Message = %q, want %q", d.Message, want)
	}
	if len(d.Args) != 3 || d.Args[0] != "Xml" {
		t.Errorf("Args = %v", d.Args)
	}
}

func TestDescriptorsAreOrderedAndComplete(t *testing.T) {
	ds := Descriptors()
	if len(ds) != 9 {
		t.Fatalf("expected 9 descriptors, got %d", len(ds))
	}
	for i := 1; i < len(ds); i++ {
		if ds[i-1].Code >= ds[i].Code {
			t.Fatalf("descriptors not sorted at %d", i)
		}
	}
	for _, d := range ds {
		if d.Title == "" || d.Template == "" || d.Category == "" {
			t.Errorf("incomplete descriptor %+v", d)
		}
		if d.Code == RuleReserved {
			t.Errorf("reserved code must not be described")
		}
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(0)
	b.Add(New(SevWarning, RuleOperatorAtLineEnd, source.Span{Start: 10, End: 12}, "b"))
	b.Add(New(SevError, SynExpectSemicolon, source.Span{Start: 2, End: 3}, "a"))
	b.Add(New(SevWarning, RuleOperatorAtLineEnd, source.Span{Start: 10, End: 12}, "b"))
	b.Dedup()
	b.Sort()
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
	if b.Items()[0].Code != SynExpectSemicolon {
		t.Errorf("sort order wrong: %v", b.Items()[0].Code)
	}
	if !b.HasErrors() {
		t.Errorf("HasErrors = false")
	}
	b.Filter(func(d Diagnostic) bool { return d.Severity < SevError })
	if b.HasErrors() || b.Len() != 1 {
		t.Errorf("Filter did not drop the error")
	}
}

func TestBagLimit(t *testing.T) {
	b := NewBag(1)
	if !b.Add(Diagnostic{}) || b.Add(Diagnostic{}) {
		t.Errorf("limit not enforced")
	}
}

func TestFixResolveThunk(t *testing.T) {
	calls := 0
	lazy := &Fix{
		ID:          "x",
		Title:       "lazy",
		IsPreferred: true,
		Thunk: FixThunkFunc(func(FixBuildContext) (Fix, error) {
			calls++
			return Fix{Edits: []TextEdit{{NewText: "y"}}}, nil
		}),
	}
	got, err := lazy.Resolve(FixBuildContext{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if calls != 1 || got.ID != "x" || got.Title != "lazy" || !got.IsPreferred || got.Thunk != nil {
		t.Errorf("resolved fix = %+v", got)
	}

	stale := errors.New("stale")
	failing := &Fix{Thunk: FixThunkFunc(func(FixBuildContext) (Fix, error) { return Fix{}, stale })}
	if _, err := MaterializeFixes(FixBuildContext{}, []*Fix{failing}); !errors.Is(err, stale) {
		t.Errorf("expected wrapped stale error, got %v", err)
	}
	if _, err := (&Fix{}).Resolve(FixBuildContext{}); !errors.Is(err, ErrEmptyFix) {
		t.Errorf("expected ErrEmptyFix, got %v", err)
	}
}

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSetWithBase(".")
	id := fs.AddVirtual("a.cs", []byte("x\n  y"))
	diags := []Diagnostic{
		NewRule(RuleOperatorAtLineEnd, SevWarning, source.Span{File: id, Start: 4, End: 5}, "&&"),
		New(SevError, SynExpectSemicolon, source.Span{File: id, Start: 0, End: 1}, "expected ';'"),
	}
	got := FormatShortDiagnostics(diags, fs, false)
	want := "a.cs:1:1: error SYN2003: expected ';'\n" +
		"a.cs:2:3: warning DR0007: Operator '&&' must be placed at the end of the previous line"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
