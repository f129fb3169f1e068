package blueberry

import (
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
)

var (
	colorRed  = color.NRGBA{R: 255, A: 255}
	colorBlue = color.NRGBA{B: 255, A: 255}
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func noiseImage(rng *rand.Rand, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.IntN(256))
	}
	return img
}

// src builds a layout-only source image.
func src(name string, w, h int) SourceImage {
	return SourceImage{Name: name, Index: -1, Width: w, Height: h, OriginalWidth: w, OriginalHeight: h}
}

// pixelSrc builds a source image filled with c.
func pixelSrc(name string, w, h int, c color.NRGBA) SourceImage {
	s := src(name, w, h)
	s.Pixels = NewPixelSource(solidImage(w, h, c))
	return s
}

// randomSources returns n sources with random sizes, pixels and trim data.
// Every fourth source is a nine-patch.
func randomSources(seed uint64, n, maxSide int) []SourceImage {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]SourceImage, n)
	for i := range out {
		w, h := 1+rng.IntN(maxSide), 1+rng.IntN(maxSide)
		patch := i%4 == 0
		if patch {
			w, h = max(w, 3), max(h, 3)
		}
		s := SourceImage{
			Name:           "img" + string(rune('a'+i%26)),
			Index:          i,
			Width:          w,
			Height:         h,
			OriginalWidth:  w + rng.IntN(8),
			OriginalHeight: h + rng.IntN(8),
			OffsetX:        rng.IntN(4),
			OffsetY:        rng.IntN(4),
			Pixels:         NewPixelSource(noiseImage(rng, w, h)),
		}
		if patch {
			s.Splits = &Insets{Left: w / 3, Right: w / 3, Top: h / 3, Bottom: h / 3}
			s.Pads = &PadInsets{Left: PadOf(1), Top: PadOf(0)}
		}
		out[i] = s
	}
	return out
}

// recordingCanvas captures DrawCell calls.
type recordingCanvas struct {
	cells []drawnCell
}

type drawnCell struct {
	page       int
	src        Rect
	x, y, w, h float64
	tint       Color
}

func (c *recordingCanvas) DrawCell(page int, src Rect, x, y, w, h float64, tint Color) {
	c.cells = append(c.cells, drawnCell{page, src, x, y, w, h, tint})
}

func writeTestPNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

// checkLayout verifies that padding-inclusive footprints on every page stay
// inside the page and never overlap.
func checkLayout(t *testing.T, pages []*Page, padding int) {
	t.Helper()
	for _, p := range pages {
		bounds := Rect{Width: p.Width, Height: p.Height}
		for i, a := range p.Regions {
			fa := a.Bounds.Expand(padding)
			if !bounds.Contains(fa) {
				t.Errorf("page %d: %q footprint %v outside %dx%d", p.Index, a.Name, fa, p.Width, p.Height)
			}
			for _, b := range p.Regions[i+1:] {
				if fb := b.Bounds.Expand(padding); fa.Intersects(fb) {
					t.Errorf("page %d: %q %v overlaps %q %v", p.Index, a.Name, fa, b.Name, fb)
				}
			}
		}
	}
}
