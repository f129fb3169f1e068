package blueberry

import (
	"fmt"
	"image"
)

// Rect is an integer pixel rectangle. The origin is the top-left corner of a
// page, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height int
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Area returns Width*Height.
func (r Rect) Area() int { return r.Width * r.Height }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Intersects reports whether r and other share any pixel.
// Rectangles that only touch along an edge do not intersect.
func (r Rect) Intersects(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	return r.X < other.Right() && other.X < r.Right() &&
		r.Y < other.Bottom() && other.Y < r.Bottom()
}

// Contains reports whether other lies entirely inside r.
func (r Rect) Contains(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.Right() <= r.Right() && other.Bottom() <= r.Bottom()
}

// Fits reports whether a w×h rectangle fits inside r.
func (r Rect) Fits(w, h int) bool {
	return w <= r.Width && h <= r.Height
}

// Expand grows the rectangle by n pixels on every side.
func (r Rect) Expand(n int) Rect {
	return Rect{X: r.X - n, Y: r.Y - n, Width: r.Width + 2*n, Height: r.Height + 2*n}
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// Insets holds four edge sizes: the nine-patch split of a region.
type Insets struct {
	Left, Right, Top, Bottom int
}

// Pad is an optional padding value. The zero Pad is unset, meaning the
// padding falls back to the size of the matching nine-patch edge.
type Pad struct {
	Value int
	Set   bool
}

// PadOf returns a set Pad holding v.
func PadOf(v int) Pad { return Pad{Value: v, Set: true} }

// Or returns the pad value when set, otherwise fallback.
func (p Pad) Or(fallback float64) float64 {
	if p.Set {
		return float64(p.Value)
	}
	return fallback
}

// PadInsets holds the content padding of a nine-patch, one optional value per
// edge.
type PadInsets struct {
	Left, Right, Top, Bottom Pad
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at draw submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// nextPowerOfTwo returns the smallest power of two ≥ n (1 for n ≤ 1).
func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// prevPowerOfTwo returns the largest power of two ≤ n, or 0 for n < 1.
func prevPowerOfTwo(n int) int {
	if n < 1 {
		return 0
	}
	p := 1
	for p<<1 <= n {
		p <<= 1
	}
	return p
}

func roundUpToFour(n int) int {
	if n%4 == 0 {
		return n
	}
	return n + 4 - n%4
}
