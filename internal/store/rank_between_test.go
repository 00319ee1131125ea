package store

import "testing"

func TestRankBetween_PrefixAdjacent_NoSpace(t *testing.T) {
	// "y" < "y0" but '0' is the minimal digit and end-of-string sorts before any digit,
	// so nothing fits between them.
	if _, err := RankBetween("y", "y0"); err == nil {
		t.Fatalf("expected error for prefix-adjacent bounds (no space), got nil")
	}
}

func TestRankBetween_Bounds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		lo, hi string
	}{
		{"", ""},
		{"h", ""},
		{"", "h"},
		{"m", "t"},
		{"h", "i"},
		{"hz", "i"},
		{"a", "a1"},
		{"a", "a01"},
		{"zz", ""},
		{"", "01"},
	}
	for _, tc := range cases {
		got, err := RankBetween(tc.lo, tc.hi)
		if err != nil {
			t.Fatalf("RankBetween(%q,%q): %v", tc.lo, tc.hi, err)
		}
		if tc.lo != "" && !(tc.lo < got) {
			t.Fatalf("RankBetween(%q,%q)=%q: not after lower bound", tc.lo, tc.hi, got)
		}
		if tc.hi != "" && !(got < tc.hi) {
			t.Fatalf("RankBetween(%q,%q)=%q: not before upper bound", tc.lo, tc.hi, got)
		}
	}
}

func TestRankBetween_RejectsBadInput(t *testing.T) {
	t.Parallel()

	if _, err := RankBetween("t", "m"); err == nil {
		t.Fatalf("expected order error")
	}
	if _, err := RankBetween("m", "m"); err == nil {
		t.Fatalf("expected order error for equal bounds")
	}
	if _, err := RankBetween("a!", ""); err == nil {
		t.Fatalf("expected invalid character error")
	}
}

func TestRankInitialAndAfter(t *testing.T) {
	t.Parallel()

	first, err := RankInitial()
	if err != nil {
		t.Fatalf("RankInitial: %v", err)
	}
	if first != "h" {
		t.Fatalf("expected initial rank h, got %q", first)
	}
	prev := first
	for i := 0; i < 100; i++ {
		next, err := RankAfter(prev)
		if err != nil {
			t.Fatalf("RankAfter(%q): %v", prev, err)
		}
		if !(prev < next) {
			t.Fatalf("RankAfter(%q)=%q does not sort after", prev, next)
		}
		prev = next
	}
}

func TestRankBetween_RepeatedBisectionStaysOrdered(t *testing.T) {
	t.Parallel()

	lo, hi := "h", "i"
	for i := 0; i < 60; i++ {
		mid, err := RankBetween(lo, hi)
		if err != nil {
			t.Fatalf("iteration %d RankBetween(%q,%q): %v", i, lo, hi, err)
		}
		if !(lo < mid && mid < hi) {
			t.Fatalf("iteration %d: %q not between %q and %q", i, mid, lo, hi)
		}
		if i%2 == 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
}
