package source

import "testing"

func TestSpanRelations(t *testing.T) {
	a := Span{File: 1, Start: 2, End: 8}
	b := Span{File: 1, Start: 4, End: 6}
	c := Span{File: 1, Start: 8, End: 10}

	if !a.Contains(b) || b.Contains(a) {
		t.Errorf("Contains is wrong for %v / %v", a, b)
	}
	if a.Overlaps(c) {
		t.Errorf("adjacent spans must not overlap")
	}
	if !a.Overlaps(b) {
		t.Errorf("nested spans overlap")
	}
	if got := a.Cover(c); got.Start != 2 || got.End != 10 {
		t.Errorf("Cover = %v", got)
	}
	if other := (Span{File: 2, Start: 0, End: 1}); a.Cover(other) != a {
		t.Errorf("Cover across files must be a no-op")
	}
	if !At(1, 5).Empty() {
		t.Errorf("At must be empty")
	}
}
