package blueberry

// Nine-patch cell indices, row-major from the top-left.
const (
	PatchTopLeft = iota
	PatchTopCenter
	PatchTopRight
	PatchMiddleLeft
	PatchMiddleCenter
	PatchMiddleRight
	PatchBottomLeft
	PatchBottomCenter
	PatchBottomRight
)

// Canvas receives stretched sub-rectangles of atlas pages. src is in page
// pixels; the destination box is in target units.
type Canvas interface {
	DrawCell(page int, src Rect, x, y, w, h float64, tint Color)
}

// NinePatch is a region cut into a 3×3 grid: fixed corners, edges that
// stretch along one axis and a center that stretches along both. Cells with
// no area are nil. Immutable once built.
type NinePatch struct {
	page    int
	patches [9]*Rect

	leftWidth, rightWidth, middleWidth   float64
	topHeight, bottomHeight, middleHeight float64

	pads PadInsets
}

// NewNinePatch cuts bounds on the given page using the four split insets.
//
// A split with no left column and no middle column (vertical-only) moves the
// right column into the center; a split with no top row and no middle row
// moves the bottom row into the middle. Either way the result behaves as a
// three-patch.
func NewNinePatch(page int, bounds Rect, left, right, top, bottom int) *NinePatch {
	middleWidth := bounds.Width - left - right
	middleHeight := bounds.Height - top - bottom

	var p [9]*Rect
	cell := func(x, y, w, h int) *Rect {
		return &Rect{X: bounds.X + x, Y: bounds.Y + y, Width: w, Height: h}
	}
	if top > 0 {
		if left > 0 {
			p[PatchTopLeft] = cell(0, 0, left, top)
		}
		if middleWidth > 0 {
			p[PatchTopCenter] = cell(left, 0, middleWidth, top)
		}
		if right > 0 {
			p[PatchTopRight] = cell(left+middleWidth, 0, right, top)
		}
	}
	if middleHeight > 0 {
		if left > 0 {
			p[PatchMiddleLeft] = cell(0, top, left, middleHeight)
		}
		if middleWidth > 0 {
			p[PatchMiddleCenter] = cell(left, top, middleWidth, middleHeight)
		}
		if right > 0 {
			p[PatchMiddleRight] = cell(left+middleWidth, top, right, middleHeight)
		}
	}
	if bottom > 0 {
		if left > 0 {
			p[PatchBottomLeft] = cell(0, top+middleHeight, left, bottom)
		}
		if middleWidth > 0 {
			p[PatchBottomCenter] = cell(left, top+middleHeight, middleWidth, bottom)
		}
		if right > 0 {
			p[PatchBottomRight] = cell(left+middleWidth, top+middleHeight, right, bottom)
		}
	}

	if left == 0 && middleWidth == 0 {
		p[PatchTopCenter], p[PatchTopRight] = p[PatchTopRight], nil
		p[PatchMiddleCenter], p[PatchMiddleRight] = p[PatchMiddleRight], nil
		p[PatchBottomCenter], p[PatchBottomRight] = p[PatchBottomRight], nil
	}
	if top == 0 && middleHeight == 0 {
		p[PatchMiddleLeft], p[PatchBottomLeft] = p[PatchBottomLeft], nil
		p[PatchMiddleCenter], p[PatchBottomCenter] = p[PatchBottomCenter], nil
		p[PatchMiddleRight], p[PatchBottomRight] = p[PatchBottomRight], nil
	}

	np := &NinePatch{page: page, patches: p}
	np.measure()
	return np
}

// NinePatchFromRegion builds the nine-patch described by a region's splits
// and pads.
func NinePatchFromRegion(r *Region) (*NinePatch, error) {
	if r.Splits == nil {
		return nil, ErrNotANinePatch
	}
	s := r.Splits
	np := NewNinePatch(r.Page, r.Bounds, s.Left, s.Right, s.Top, s.Bottom)
	if r.Pads != nil {
		np.pads = *r.Pads
	}
	return np, nil
}

// measure derives the column widths and row heights from the cells.
func (np *NinePatch) measure() {
	size := func(i int) (float64, float64, bool) {
		c := np.patches[i]
		if c == nil {
			return 0, 0, false
		}
		return float64(c.Width), float64(c.Height), true
	}
	for _, i := range [...]int{PatchTopLeft, PatchMiddleLeft, PatchBottomLeft} {
		if w, _, ok := size(i); ok {
			np.leftWidth = max(np.leftWidth, w)
		}
	}
	for _, i := range [...]int{PatchTopCenter, PatchMiddleCenter, PatchBottomCenter} {
		if w, _, ok := size(i); ok {
			np.middleWidth = max(np.middleWidth, w)
		}
	}
	for _, i := range [...]int{PatchTopRight, PatchMiddleRight, PatchBottomRight} {
		if w, _, ok := size(i); ok {
			np.rightWidth = max(np.rightWidth, w)
		}
	}
	for _, i := range [...]int{PatchTopLeft, PatchTopCenter, PatchTopRight} {
		if _, h, ok := size(i); ok {
			np.topHeight = max(np.topHeight, h)
		}
	}
	for _, i := range [...]int{PatchMiddleLeft, PatchMiddleCenter, PatchMiddleRight} {
		if _, h, ok := size(i); ok {
			np.middleHeight = max(np.middleHeight, h)
		}
	}
	for _, i := range [...]int{PatchBottomLeft, PatchBottomCenter, PatchBottomRight} {
		if _, h, ok := size(i); ok {
			np.bottomHeight = max(np.bottomHeight, h)
		}
	}
}

// Page returns the atlas page the cells refer to.
func (np *NinePatch) Page() int { return np.page }

// Patch returns a copy of cell i, or false when the cell is empty.
func (np *NinePatch) Patch(i int) (Rect, bool) {
	if i < 0 || i >= len(np.patches) || np.patches[i] == nil {
		return Rect{}, false
	}
	return *np.patches[i], true
}

// PatchCount returns the number of non-empty cells.
func (np *NinePatch) PatchCount() int {
	n := 0
	for _, c := range np.patches {
		if c != nil {
			n++
		}
	}
	return n
}

// LeftWidth returns the width of the left column.
func (np *NinePatch) LeftWidth() float64 { return np.leftWidth }

// MiddleWidth returns the unstretched width of the center column.
func (np *NinePatch) MiddleWidth() float64 { return np.middleWidth }

// RightWidth returns the width of the right column.
func (np *NinePatch) RightWidth() float64 { return np.rightWidth }

// TopHeight returns the height of the top row.
func (np *NinePatch) TopHeight() float64 { return np.topHeight }

// MiddleHeight returns the unstretched height of the middle row.
func (np *NinePatch) MiddleHeight() float64 { return np.middleHeight }

// BottomHeight returns the height of the bottom row.
func (np *NinePatch) BottomHeight() float64 { return np.bottomHeight }

// MinWidth returns the width of the fixed columns.
func (np *NinePatch) MinWidth() float64 { return np.leftWidth + np.rightWidth }

// MinHeight returns the height of the fixed rows.
func (np *NinePatch) MinHeight() float64 { return np.topHeight + np.bottomHeight }

// PadLeft returns the explicit left pad, or LeftWidth when unset.
func (np *NinePatch) PadLeft() float64 { return np.pads.Left.Or(np.leftWidth) }

// PadRight returns the explicit right pad, or RightWidth when unset.
func (np *NinePatch) PadRight() float64 { return np.pads.Right.Or(np.rightWidth) }

// PadTop returns the explicit top pad, or TopHeight when unset.
func (np *NinePatch) PadTop() float64 { return np.pads.Top.Or(np.topHeight) }

// PadBottom returns the explicit bottom pad, or BottomHeight when unset.
func (np *NinePatch) PadBottom() float64 { return np.pads.Bottom.Or(np.bottomHeight) }

// Draw stretches the patch into the box (x, y, width, height). Corners keep
// their size, edges stretch along one axis and the center along both. A box
// smaller than the fixed borders is not an error; cells simply get
// non-positive extents and canvases skip or flip them as they see fit.
func (np *NinePatch) Draw(c Canvas, x, y, width, height float64, tint Color) {
	centerColumnX := x + np.leftWidth
	rightColumnX := x + width - np.rightWidth
	middleRowY := y + np.topHeight
	bottomRowY := y + height - np.bottomHeight

	cols := [3][2]float64{
		{x, centerColumnX - x},
		{centerColumnX, rightColumnX - centerColumnX},
		{rightColumnX, x + width - rightColumnX},
	}
	rows := [3][2]float64{
		{y, middleRowY - y},
		{middleRowY, bottomRowY - middleRowY},
		{bottomRowY, y + height - bottomRowY},
	}
	for i, cell := range np.patches {
		if cell == nil {
			continue
		}
		col, row := cols[i%3], rows[i/3]
		c.DrawCell(np.page, *cell, col[0], row[0], col[1], row[1], tint)
	}
}
