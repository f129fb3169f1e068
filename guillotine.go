package blueberry

import "slices"

// binPacker places footprints inside a single page.
type binPacker interface {
	// insert places a w×h footprint, trying the 90° rotated size when
	// rotate is set. The returned rect has the placed (possibly swapped)
	// size.
	insert(w, h int, rotate bool) (placed Rect, rotated, ok bool)
}

func newBinPacker(method PackMethod, w, h int) binPacker {
	if method == MethodMaxRects {
		return newMaxRects(w, h)
	}
	return newGuillotine(w, h)
}

// guillotine tracks disjoint free rectangles. A placement always goes to the
// top-left corner of the smallest free rectangle that fits, and that
// rectangle is cut into a right and a bottom remainder. Free space is never
// merged, so pathological inputs may fragment.
type guillotine struct {
	free []Rect
}

func newGuillotine(w, h int) *guillotine {
	return &guillotine{free: []Rect{{Width: w, Height: h}}}
}

func (g *guillotine) insert(w, h int, rotate bool) (Rect, bool, bool) {
	rotated := false
	i := g.best(w, h)
	if i < 0 && rotate && w != h {
		if i = g.best(h, w); i >= 0 {
			rotated = true
			w, h = h, w
		}
	}
	if i < 0 {
		return Rect{}, false, false
	}
	f := g.free[i]
	placed := Rect{X: f.X, Y: f.Y, Width: w, Height: h}
	g.split(i, placed)
	return placed, rotated, true
}

// best returns the index of the smallest free rectangle holding w×h, the
// earliest one on ties, or -1.
func (g *guillotine) best(w, h int) int {
	best, bestArea := -1, 0
	for i, f := range g.free {
		if !f.Fits(w, h) {
			continue
		}
		if a := f.Area(); best < 0 || a < bestArea {
			best, bestArea = i, a
		}
	}
	return best
}

// split replaces free[i] with what is left after placing used in its corner.
// The cut runs along the shorter leftover axis so the larger remainder keeps
// the full side.
func (g *guillotine) split(i int, used Rect) {
	f := g.free[i]
	g.free = slices.Delete(g.free, i, i+1)

	restW := f.Width - used.Width
	restH := f.Height - used.Height
	var right, bottom Rect
	if restW <= restH {
		right = Rect{X: used.Right(), Y: f.Y, Width: restW, Height: used.Height}
		bottom = Rect{X: f.X, Y: used.Bottom(), Width: f.Width, Height: restH}
	} else {
		right = Rect{X: used.Right(), Y: f.Y, Width: restW, Height: f.Height}
		bottom = Rect{X: f.X, Y: used.Bottom(), Width: used.Width, Height: restH}
	}
	if !right.Empty() {
		g.free = append(g.free, right)
	}
	if !bottom.Empty() {
		g.free = append(g.free, bottom)
	}
}
