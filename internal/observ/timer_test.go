package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	parse := tm.Begin("parse")
	rules := tm.Begin("rules")
	tm.End(rules, "3 cached")
	tm.End(parse, "")
	tm.End(42, "ignored")

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(rep.Phases))
	}
	if rep.Phases[0].Name != "parse" || rep.Phases[1].Note != "3 cached" {
		t.Fatalf("unexpected phases: %+v", rep.Phases)
	}
	if rep.TotalMS < rep.Phases[0].DurationMS {
		t.Fatalf("total %.3f below phase %.3f", rep.TotalMS, rep.Phases[0].DurationMS)
	}

	sum := tm.Summary()
	for _, want := range []string{"timings:", "parse", "rules", "// 3 cached", "total"} {
		if !strings.Contains(sum, want) {
			t.Errorf("summary misses %q:\n%s", want, sum)
		}
	}
}

func TestEmptyTimer(t *testing.T) {
	if rep := NewTimer().Report(); rep.Phases != nil || rep.TotalMS != 0 {
		t.Fatalf("expected empty report, got %+v", rep)
	}
}
