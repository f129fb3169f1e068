package blueberry

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Texture returns page i as an ebiten image, uploading it on first use. The
// atlas owns the texture; Dispose deallocates it.
func (a *Atlas) Texture(page int) (*ebiten.Image, error) {
	if a.disposed {
		return nil, ErrDisposed
	}
	if page < 0 || page >= len(a.pages) {
		return nil, fmt.Errorf("blueberry: page %d out of range [0,%d)", page, len(a.pages))
	}
	if a.textures == nil {
		a.textures = make([]*ebiten.Image, len(a.pages))
	}
	if tex := a.textures[page]; tex != nil {
		return tex, nil
	}
	p := a.pages[page]
	if p.Pixels == nil {
		return nil, fmt.Errorf("blueberry: page %d has no pixels", page)
	}
	tex := ebiten.NewImageFromImage(p.Pixels)
	a.textures[page] = tex
	return tex, nil
}

// applyTint sets a premultiplied color scale from a straight-alpha tint.
// ColorWhite draws untinted; the zero Color is fully transparent.
func applyTint(cs *ebiten.ColorScale, c Color) {
	cs.Reset()
	a := float32(clamp01(c.A))
	cs.Scale(float32(clamp01(c.R))*a, float32(clamp01(c.G))*a, float32(clamp01(c.B))*a, a)
}

// EbitenCanvas draws nine-patch cells from an atlas onto Target. GeoM is
// applied after each cell is placed, so a whole patch can be moved, scaled
// or rotated at once.
type EbitenCanvas struct {
	Target *ebiten.Image
	Atlas  *Atlas
	GeoM   ebiten.GeoM
	Filter ebiten.Filter

	op  ebiten.DrawImageOptions
	err error
}

// DrawCell implements Canvas. Cells with a non-positive extent are skipped.
// A cell whose page texture is unavailable is not drawn; the first such
// error is kept for Err.
func (c *EbitenCanvas) DrawCell(page int, src Rect, x, y, w, h float64, tint Color) {
	if w <= 0 || h <= 0 || src.Empty() {
		return
	}
	tex, err := c.Atlas.Texture(page)
	if err != nil {
		if c.err == nil {
			c.err = err
		}
		return
	}
	sub := tex.SubImage(src.Image()).(*ebiten.Image)

	op := &c.op
	op.GeoM.Reset()
	op.GeoM.Scale(w/float64(src.Width), h/float64(src.Height))
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(c.GeoM)
	applyTint(&op.ColorScale, tint)
	op.Filter = c.Filter
	c.Target.DrawImage(sub, op)
}

// Err returns the first texture error hit by DrawCell, or nil.
func (c *EbitenCanvas) Err() error { return c.err }

// regionGeoM returns the transform that maps a region's page pixels to its
// untrimmed, unrotated local space.
func regionGeoM(r *Region) ebiten.GeoM {
	var m ebiten.GeoM
	if r.Rotated {
		// Rotated regions are stored 90° clockwise: rotate back and shift
		// down by the stored width.
		m.Rotate(-1.5707963267948966) // -π/2
		m.Translate(0, float64(r.Bounds.Width))
	}
	if r.OffsetX != 0 || r.OffsetY != 0 {
		m.Translate(float64(r.OffsetX), float64(r.OffsetY))
	}
	return m
}

// DrawRegion draws r onto dst. geoM places the region's untrimmed local space
// (OriginalWidth × OriginalHeight) on dst.
func (a *Atlas) DrawRegion(dst *ebiten.Image, r *Region, geoM ebiten.GeoM, tint Color) error {
	if r.Bounds.Empty() {
		return nil
	}
	tex, err := a.Texture(r.Page)
	if err != nil {
		return err
	}
	sub := tex.SubImage(r.Bounds.Image()).(*ebiten.Image)

	var op ebiten.DrawImageOptions
	op.GeoM = regionGeoM(r)
	op.GeoM.Concat(geoM)
	applyTint(&op.ColorScale, tint)
	dst.DrawImage(sub, &op)
	return nil
}
