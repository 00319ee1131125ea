package tui

// region is a rectangle of terminal cells, [x0,x1) by [y0,y1).
type region struct {
	x0, y0, x1, y1 int
}

func (r region) empty() bool { return r.x1 <= r.x0 || r.y1 <= r.y0 }

func (r region) contains(x, y int) bool {
	return !r.empty() && x >= r.x0 && x < r.x1 && y >= r.y0 && y < r.y1
}

// outsideDismiss calls dismiss for presses outside the reference region while it is
// shown. Presses inside the region, and any press while it is hidden, are ignored.
type outsideDismiss struct {
	bounds  func() (region, bool)
	dismiss func()
}

// press reports whether the press at (x, y) triggered a dismiss.
func (d outsideDismiss) press(x, y int) bool {
	if d.bounds == nil || d.dismiss == nil {
		return false
	}
	r, shown := d.bounds()
	if !shown || r.contains(x, y) {
		return false
	}
	d.dismiss()
	return true
}
