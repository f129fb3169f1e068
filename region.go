package blueberry

import "image"

// SourceImage is one input to the packer. Width and Height are the
// post-trim size; OriginalWidth, OriginalHeight and the offset describe how
// the trimmed pixels sit inside the authored image. Treat it as immutable once
// handed to Pack.
type SourceImage struct {
	Name  string
	Index int // animation frame index, -1 when none

	Width, Height                 int
	OriginalWidth, OriginalHeight int
	OffsetX, OffsetY              int

	Splits *Insets    // nine-patch stretch insets, nil for plain sprites
	Pads   *PadInsets // nine-patch content padding, nil when absent

	// Pixels holds the trimmed texels. Nil leaves the region transparent on
	// the page, which is enough for layout-only packing.
	Pixels PixelSource
}

// Region is the placement of one source image on an atlas page. Bounds is
// the rectangle the pixels occupy on the page; when Rotated, the source was
// turned 90° clockwise, so Bounds.Width is the source height and vice versa.
type Region struct {
	Name  string
	Page  int
	Index int // animation frame index, -1 when none

	Bounds  Rect
	Rotated bool

	OriginalWidth, OriginalHeight int
	OffsetX, OffsetY              int

	Splits *Insets
	Pads   *PadInsets
}

// IsNinePatch reports whether the region carries split metadata.
func (r *Region) IsNinePatch() bool { return r.Splits != nil }

// Width returns the unrotated width of the packed pixels.
func (r *Region) Width() int {
	if r.Rotated {
		return r.Bounds.Height
	}
	return r.Bounds.Width
}

// Height returns the unrotated height of the packed pixels.
func (r *Region) Height() int {
	if r.Rotated {
		return r.Bounds.Width
	}
	return r.Bounds.Height
}

// clone returns a deep copy so callers cannot mutate atlas state through the
// split or pad pointers.
func (r *Region) clone() Region {
	c := *r
	if r.Splits != nil {
		s := *r.Splits
		c.Splits = &s
	}
	if r.Pads != nil {
		p := *r.Pads
		c.Pads = &p
	}
	return c
}

// Page is one atlas sheet: its size, its straight-alpha RGBA pixels and the
// regions placed on it.
type Page struct {
	Index         int
	Width, Height int
	Pixels        *image.NRGBA
	Regions       []*Region
}

// Occupancy returns the fraction of the page area covered by regions.
func (p *Page) Occupancy() float64 {
	if p.Width <= 0 || p.Height <= 0 {
		return 0
	}
	used := 0
	for _, r := range p.Regions {
		used += r.Bounds.Area()
	}
	return float64(used) / float64(p.Width*p.Height)
}

// newPagePixels allocates a transparent page buffer.
func newPagePixels(w, h int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}
