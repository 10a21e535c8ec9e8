package fix

import (
	"testing"

	"drlint/internal/diag"
	"drlint/internal/source"
)

// TestWithRequiresAll проверяет, что опция WithRequiresAll устанавливает флаг
func TestWithRequiresAll(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cs", []byte("int x = 1;"))

	span := source.Span{File: fileID, Start: 0, End: 0}
	fix := InsertText("Test fix", span, "// ", "", WithRequiresAll())

	if !fix.RequiresAll {
		t.Error("expected RequiresAll to be true")
	}
}

func TestDeleteSpan(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cs", []byte("readonly int x;"))

	span := source.Span{File: fileID, Start: 0, End: 9}
	fix := DeleteSpan("Remove 'readonly'", span, "readonly ")

	if len(fix.Edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(fix.Edits))
	}
	edit := fix.Edits[0]
	if edit.NewText != "" {
		t.Errorf("expected empty NewText for deletion, got %q", edit.NewText)
	}
	if edit.OldText != "readonly " {
		t.Errorf("expected OldText 'readonly ', got %q", edit.OldText)
	}
	if fix.Kind != diag.FixKindQuickFix || fix.Applicability != diag.FixApplicabilityAlwaysSafe {
		t.Errorf("unexpected defaults: %v %v", fix.Kind, fix.Applicability)
	}
}

func TestReplaceSpan(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cs", []byte("IntPtr p;"))

	span := source.Span{File: fileID, Start: 0, End: 6}
	fix := ReplaceSpan("Replace 'IntPtr' with 'nint'", span, "nint", "IntPtr")

	if len(fix.Edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(fix.Edits))
	}
	edit := fix.Edits[0]
	if edit.NewText != "nint" {
		t.Errorf("expected NewText 'nint', got %q", edit.NewText)
	}
	if edit.OldText != "IntPtr" {
		t.Errorf("expected OldText 'IntPtr', got %q", edit.OldText)
	}
}

// TestMultipleOptions проверяет комбинацию нескольких опций
func TestMultipleOptions(t *testing.T) {
	thunk := diag.FixThunkFunc(func(diag.FixBuildContext) (diag.Fix, error) {
		return diag.Fix{}, nil
	})
	fix := New(
		"Rename",
		nil,
		WithRequiresAll(),
		Preferred(),
		WithID("custom-id"),
		WithKind(diag.FixKindRename),
		WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
		WithThunk(thunk),
		nil,
	)

	if !fix.RequiresAll {
		t.Error("expected RequiresAll to be true")
	}
	if !fix.IsPreferred {
		t.Error("expected IsPreferred to be true")
	}
	if fix.ID != "custom-id" {
		t.Errorf("expected ID 'custom-id', got %q", fix.ID)
	}
	if fix.Kind != diag.FixKindRename {
		t.Errorf("expected Kind FixKindRename, got %v", fix.Kind)
	}
	if fix.Applicability != diag.FixApplicabilitySafeWithHeuristics {
		t.Errorf("expected Applicability SafeWithHeuristics, got %v", fix.Applicability)
	}
	if fix.Thunk == nil {
		t.Error("expected thunk to be attached")
	}
}
