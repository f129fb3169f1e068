package blueberry

import "math"

// maxRects tracks every maximal free rectangle of a page. Placing a
// footprint splits each free rectangle it touches into up to four
// remainders, then drops remainders contained in another free rectangle.
type maxRects struct {
	free []Rect
}

func newMaxRects(w, h int) *maxRects {
	return &maxRects{free: []Rect{{Width: w, Height: h}}}
}

func (m *maxRects) insert(w, h int, rotate bool) (Rect, bool, bool) {
	var (
		placed            Rect
		rotated, ok       bool
		bestShort, bestLg = math.MaxInt, math.MaxInt
	)
	try := func(f Rect, pw, ph int, rot bool) {
		if !f.Fits(pw, ph) {
			return
		}
		dw, dh := f.Width-pw, f.Height-ph
		short, long := min(dw, dh), max(dw, dh)
		if short < bestShort || (short == bestShort && long < bestLg) {
			placed = Rect{X: f.X, Y: f.Y, Width: pw, Height: ph}
			rotated, ok = rot, true
			bestShort, bestLg = short, long
		}
	}
	for _, f := range m.free {
		try(f, w, h, false)
		if rotate && w != h {
			try(f, h, w, true)
		}
	}
	if ok {
		m.place(placed)
	}
	return placed, rotated, ok
}

func (m *maxRects) place(used Rect) {
	n := len(m.free)
	var next []Rect
	for i := 0; i < n; i++ {
		f := m.free[i]
		if !used.Intersects(f) {
			next = append(next, f)
			continue
		}
		if used.X > f.X {
			next = append(next, Rect{X: f.X, Y: f.Y, Width: used.X - f.X, Height: f.Height})
		}
		if used.Right() < f.Right() {
			next = append(next, Rect{X: used.Right(), Y: f.Y, Width: f.Right() - used.Right(), Height: f.Height})
		}
		if used.Y > f.Y {
			next = append(next, Rect{X: f.X, Y: f.Y, Width: f.Width, Height: used.Y - f.Y})
		}
		if used.Bottom() < f.Bottom() {
			next = append(next, Rect{X: f.X, Y: used.Bottom(), Width: f.Width, Height: f.Bottom() - used.Bottom()})
		}
	}
	m.free = pruneContained(next)
}

// pruneContained removes rectangles fully inside another. Of two identical
// rectangles the first is kept.
func pruneContained(rects []Rect) []Rect {
	out := rects[:0:0]
	for i, r := range rects {
		redundant := false
		for j, o := range rects {
			if i == j || !o.Contains(r) {
				continue
			}
			if o != r || j < i {
				redundant = true
				break
			}
		}
		if !redundant {
			out = append(out, r)
		}
	}
	return out
}
