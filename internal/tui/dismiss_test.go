package tui

import "testing"

func TestOutsideDismiss(t *testing.T) {
	t.Parallel()

	toolbar := region{x0: 2, y0: 1, x1: 20, y1: 2}
	cases := []struct {
		name  string
		shown bool
		x, y  int
		want  bool
	}{
		{"inside", true, 5, 1, false},
		{"left edge inside", true, 2, 1, false},
		{"right edge outside", true, 20, 1, true},
		{"row below", true, 5, 2, true},
		{"row above", true, 5, 0, true},
		{"hidden", false, 50, 10, false},
		{"hidden inside", false, 5, 1, false},
	}
	for _, tc := range cases {
		calls := 0
		d := outsideDismiss{
			bounds:  func() (region, bool) { return toolbar, tc.shown },
			dismiss: func() { calls++ },
		}
		got := d.press(tc.x, tc.y)
		if got != tc.want || (calls == 1) != tc.want {
			t.Fatalf("%s: press=%v calls=%d, want dismissed=%v", tc.name, got, calls, tc.want)
		}
	}
}

func TestRegionEmpty(t *testing.T) {
	t.Parallel()

	if (region{}).contains(0, 0) {
		t.Fatalf("empty region must not contain anything")
	}
}
