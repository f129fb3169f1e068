package blueberry

import "github.com/hajimehoshi/ebiten/v2"

// Drawable is something a UI layer can size and draw from an atlas.
type Drawable interface {
	// Draw renders into the box (x, y, width, height) on dst.
	Draw(dst *ebiten.Image, x, y, width, height float64) error
	MinWidth() float64
	MinHeight() float64
	base() *drawableBase
}

// drawableBase holds the preferred size and tint shared by drawables. Tint
// starts as ColorWhite.
type drawableBase struct {
	Width, Height float64
	Tint          Color

	atlas *Atlas
}

func (b *drawableBase) base() *drawableBase { return b }

// Size returns the preferred size.
func (b *drawableBase) Size() (w, h float64) { return b.Width, b.Height }

// SetSize sets the preferred size.
func (b *drawableBase) SetSize(w, h float64) { b.Width, b.Height = w, h }

// DrawAt draws d at (x, y) with its preferred size.
func DrawAt(d Drawable, dst *ebiten.Image, x, y float64) error {
	b := d.base()
	return d.Draw(dst, x, y, b.Width, b.Height)
}

// RegionDrawable stretches one region over the box it is drawn into.
type RegionDrawable struct {
	drawableBase
	Region Region
}

// NewRegionDrawable looks up name in a and sizes the drawable to the
// region's untrimmed size.
func NewRegionDrawable(a *Atlas, name string) (*RegionDrawable, error) {
	r, err := a.FindRegion(name)
	if err != nil {
		return nil, err
	}
	return &RegionDrawable{
		drawableBase: drawableBase{
			Width:  float64(r.OriginalWidth),
			Height: float64(r.OriginalHeight),
			Tint:   ColorWhite,
			atlas:  a,
		},
		Region: r,
	}, nil
}

// MinWidth implements Drawable. Plain regions have no fixed border.
func (d *RegionDrawable) MinWidth() float64 { return 0 }

// MinHeight implements Drawable.
func (d *RegionDrawable) MinHeight() float64 { return 0 }

// Draw implements Drawable.
func (d *RegionDrawable) Draw(dst *ebiten.Image, x, y, width, height float64) error {
	ow, oh := float64(d.Region.OriginalWidth), float64(d.Region.OriginalHeight)
	if ow <= 0 || oh <= 0 || width <= 0 || height <= 0 {
		return nil
	}
	var m ebiten.GeoM
	m.Scale(width/ow, height/oh)
	m.Translate(x, y)
	return d.atlas.DrawRegion(dst, &d.Region, m, d.Tint)
}

// NinePatchDrawable draws a nine-patch stretched to the box. Its padding is
// the content inset a widget places children within.
type NinePatchDrawable struct {
	drawableBase
	Patch *NinePatch
}

// NewNinePatchDrawable looks up the nine-patch name in a and sizes the
// drawable to its fixed borders plus the middle cells.
func NewNinePatchDrawable(a *Atlas, name string) (*NinePatchDrawable, error) {
	np, err := a.FindNinePatch(name)
	if err != nil {
		return nil, err
	}
	return &NinePatchDrawable{
		drawableBase: drawableBase{
			Width:  np.MinWidth() + np.MiddleWidth(),
			Height: np.MinHeight() + np.MiddleHeight(),
			Tint:   ColorWhite,
			atlas:  a,
		},
		Patch: np,
	}, nil
}

// MinWidth implements Drawable.
func (d *NinePatchDrawable) MinWidth() float64 { return d.Patch.MinWidth() }

// MinHeight implements Drawable.
func (d *NinePatchDrawable) MinHeight() float64 { return d.Patch.MinHeight() }

// Padding returns the content insets: left, right, top, bottom.
func (d *NinePatchDrawable) Padding() (left, right, top, bottom float64) {
	return d.Patch.PadLeft(), d.Patch.PadRight(), d.Patch.PadTop(), d.Patch.PadBottom()
}

// Draw implements Drawable.
func (d *NinePatchDrawable) Draw(dst *ebiten.Image, x, y, width, height float64) error {
	if d.atlas.Disposed() {
		return ErrDisposed
	}
	c := &EbitenCanvas{Target: dst, Atlas: d.atlas}
	d.Patch.Draw(c, x, y, width, height, d.Tint)
	return c.Err()
}
