package blueberry

import (
	"image"

	"golang.org/x/image/draw"
)

// PixelSource is the capability the packer and codecs need from an image:
// its size and its straight (non-premultiplied) RGBA texels, row-major with no
// row padding. Backend textures are adapted to this, never the reverse.
type PixelSource interface {
	Size() (w, h int)
	TexelSize() int
	Pixels() []byte
}

// NRGBASource adapts an *image.NRGBA whose stride equals 4*width.
type NRGBASource struct {
	img *image.NRGBA
}

// NewPixelSource converts img into a tightly packed straight-alpha RGBA source
// with its origin at (0, 0).
func NewPixelSource(img image.Image) *NRGBASource {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return &NRGBASource{img: n}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(dst, image.Point{}, img, b, draw.Src, nil)
	return &NRGBASource{img: dst}
}

// Size implements PixelSource.
func (s *NRGBASource) Size() (w, h int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// TexelSize implements PixelSource.
func (s *NRGBASource) TexelSize() int { return 4 }

// Pixels implements PixelSource.
func (s *NRGBASource) Pixels() []byte { return s.img.Pix }

// Image returns the underlying image.
func (s *NRGBASource) Image() *image.NRGBA { return s.img }

// sourceImage views a PixelSource as an *image.NRGBA without copying.
// The source must already have passed checkPixelSource.
func sourceImage(src PixelSource) *image.NRGBA {
	if s, ok := src.(*NRGBASource); ok {
		return s.img
	}
	w, h := src.Size()
	return &image.NRGBA{Rect: image.Rect(0, 0, w, h), Stride: 4 * w, Pix: src.Pixels()}
}

// checkPixelSource reports whether src holds exactly w×h RGBA texels.
func checkPixelSource(src PixelSource, w, h int) bool {
	sw, sh := src.Size()
	return sw == w && sh == h && src.TexelSize() == 4 && len(src.Pixels()) == 4*w*h
}
