package main

import (
	"bytes"
	"strings"
	"testing"

	"drlint/internal/config"
	"drlint/internal/diag"
	"drlint/internal/driver"
	"drlint/internal/fix"
)

func TestParseRuleList(t *testing.T) {
	codes, err := parseRuleList([]string{"DR0001, dr0007", "10", ""})
	if err != nil {
		t.Fatalf("parseRuleList: %v", err)
	}
	want := []diag.Code{diag.RuleUseNativeInt, diag.RuleOperatorAtLineEnd, diag.RuleIdentifierCaseStyle}
	if len(codes) != len(want) {
		t.Fatalf("got %v, want %v", codes, want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("codes[%d] = %s, want %s", i, codes[i].ID(), want[i].ID())
		}
	}
}

func TestParseRuleListRejectsNonRules(t *testing.T) {
	for _, id := range []string{"DR0003", "LEX1001", "SYN2001", "DR0042", "bogus"} {
		if _, err := parseRuleList([]string{id}); err == nil {
			t.Fatalf("parseRuleList(%q) succeeded, want error", id)
		}
	}
}

func TestUnknownRuleSuggestsCloseIDs(t *testing.T) {
	err := unknownRuleError("DR007")
	if err == nil || !strings.Contains(err.Error(), "did you mean") {
		t.Fatalf("expected suggestion, got %v", err)
	}
	if !strings.Contains(err.Error(), "DR0007") {
		t.Fatalf("expected DR0007 among suggestions, got %v", err)
	}
	if s := suggestRules("readonly"); len(s) == 0 || s[0] != "DR0008" {
		t.Fatalf("suggestRules(readonly) = %v", s)
	}
}

func TestReadUIMode(t *testing.T) {
	cases := map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff}
	for in, want := range cases {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatal("expected error for invalid ui mode")
	}
	if !shouldUseTUI(uiModeOn, true) {
		t.Fatal("--ui=on must force the progress view")
	}
	if shouldUseTUI(uiModeAuto, true) || shouldUseTUI(uiModeOff, false) {
		t.Fatal("quiet or --ui=off must disable the progress view")
	}
}

func TestSelectApplyMode(t *testing.T) {
	if m, err := selectApplyMode(false, false, ""); err != nil || m != fix.ApplyModeOnce {
		t.Fatalf("default mode = %v, %v", m, err)
	}
	if m, err := selectApplyMode(true, false, ""); err != nil || m != fix.ApplyModeAll {
		t.Fatalf("--all mode = %v, %v", m, err)
	}
	if m, err := selectApplyMode(false, false, "DR0001@3:5"); err != nil || m != fix.ApplyModeID {
		t.Fatalf("--id mode = %v, %v", m, err)
	}
	if _, err := selectApplyMode(true, false, "x"); err == nil {
		t.Fatal("expected error for --all with --id")
	}
}

func TestDescribeIdentifier(t *testing.T) {
	cfg := config.Default()
	info := describeIdentifier(cfg.Dictionary, "userId")
	if strings.Join(info.Words, ",") != "user,Id" {
		t.Fatalf("words = %v", info.Words)
	}
	if got := info.Normalized["upper"]; got != "userID" {
		t.Fatalf("upper = %q, want userID", got)
	}
	if len(info.Inconsistent) != 1 || info.Inconsistent[0] != "Id" {
		t.Fatalf("inconsistent = %v", info.Inconsistent)
	}

	var buf bytes.Buffer
	writeSplit(&buf, info)
	if !strings.Contains(buf.String(), "inconsistent acronyms: Id") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestCollectRulesHonorsConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Disabled = append(cfg.Disabled, diag.RuleAcronymCasing)
	infos := collectRules(cfg)
	if len(infos) != len(diag.Descriptors()) {
		t.Fatalf("got %d rules, want %d", len(infos), len(diag.Descriptors()))
	}
	for _, info := range infos {
		if info.ID == "DR0003" {
			t.Fatal("reserved code must not be listed")
		}
		if info.ID == "DR0009" && info.Enabled {
			t.Fatal("DR0009 should be disabled")
		}
		if info.ID == "DR0001" && !info.Enabled {
			t.Fatal("DR0001 should be enabled")
		}
	}

	var buf bytes.Buffer
	if err := listRules(&buf, infos); err != nil {
		t.Fatalf("listRules: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "ID") || !strings.Contains(buf.String(), "DR0010") {
		t.Fatalf("unexpected listing:\n%s", buf.String())
	}
}

func TestHandleFixResult(t *testing.T) {
	res := &driver.FixResult{
		Passes: 2,
		Applied: []fix.AppliedFix{
			{ID: "a", Title: "Replace IntPtr with nint", Code: diag.RuleUseNativeInt, PrimaryPath: "A.cs"},
		},
		Skipped: []fix.SkippedFix{{ID: "b", Reason: "conflicts with a", Title: "Remove braces"}},
		Changes: []fix.FileChange{{
			Path:      "A.cs",
			EditCount: 1,
			Before:    []byte("IntPtr p;\n"),
			After:     []byte("nint p;\n"),
		}},
	}
	var buf bytes.Buffer
	handleFixResult(&buf, res, false, false)
	out := buf.String()
	for _, want := range []string{
		"Applied 1 fix(es) in 2 pass(es):",
		"  - Replace IntPtr with nint [DR0001] A.cs",
		"Updated files:",
		"  - A.cs (1 edit(s))",
		"1 file changed, 1 insertions(+), 1 deletions(-)",
		"Skipped fixes:",
		"  - Remove braces: conflicts with a",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	handleFixResult(&buf, &driver.FixResult{}, true, false)
	if !strings.HasPrefix(buf.String(), "No applicable fixes found.") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}
