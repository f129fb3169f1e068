package blueberry

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"testing"
)

func packSettings(maxW, maxH int) Settings {
	s := DefaultSettings()
	s.MaxWidth, s.MaxHeight = maxW, maxH
	return s
}

func regionByName(t *testing.T, pages []*Page, name string) *Region {
	t.Helper()
	for _, p := range pages {
		for _, r := range p.Regions {
			if r.Name == name {
				return r
			}
		}
	}
	t.Fatalf("region %q not packed", name)
	return nil
}

func TestPack_ThreeSquaresOnePage(t *testing.T) {
	images := []SourceImage{src("small", 16, 16), src("big", 64, 64), src("mid", 32, 32)}
	for _, method := range []PackMethod{MethodGuillotine, MethodMaxRects} {
		t.Run(string(method), func(t *testing.T) {
			s := packSettings(128, 64)
			s.Method = method
			pages, err := Pack(images, s)
			if err != nil {
				t.Fatalf("Pack: %v", err)
			}
			if len(pages) != 1 {
				t.Fatalf("pages = %d, want 1", len(pages))
			}
			p := pages[0]
			if len(p.Regions) != 3 {
				t.Fatalf("regions = %d, want 3", len(p.Regions))
			}
			if p.Width != 112 || p.Height != 64 {
				t.Errorf("page = %dx%d, want 112x64", p.Width, p.Height)
			}
			if r := regionByName(t, pages, "big"); r.Bounds != (Rect{0, 0, 64, 64}) {
				t.Errorf("big = %v, want Rect(0,0 64x64)", r.Bounds)
			}
			if r := regionByName(t, pages, "mid"); r.Bounds != (Rect{64, 0, 32, 32}) {
				t.Errorf("mid = %v, want Rect(64,0 32x32)", r.Bounds)
			}
			if r := regionByName(t, pages, "small"); r.Bounds != (Rect{96, 0, 16, 16}) {
				t.Errorf("small = %v, want Rect(96,0 16x16)", r.Bounds)
			}
			checkLayout(t, pages, 0)
		})
	}
}

func TestPack_OrderIsAreaThenName(t *testing.T) {
	images := []SourceImage{src("b", 8, 8), src("a", 8, 8), src("c", 16, 16)}
	pages, err := Pack(images, packSettings(64, 64))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	var got []string
	for _, r := range pages[0].Regions {
		got = append(got, r.Name)
	}
	if fmt.Sprint(got) != "[c a b]" {
		t.Errorf("order = %v, want [c a b]", got)
	}
}

func TestPack_PowerOfTwoPage(t *testing.T) {
	images := []SourceImage{src("big", 64, 64), src("mid", 32, 32), src("small", 16, 16)}
	s := packSettings(128, 64)
	s.PowerOfTwo = true
	pages, err := Pack(images, s)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if p := pages[0]; p.Width != 128 || p.Height != 64 {
		t.Errorf("page = %dx%d, want 128x64", p.Width, p.Height)
	}
}

func TestPack_PowerOfTwoLowersMax(t *testing.T) {
	s := packSettings(100, 100)
	s.PowerOfTwo = true
	pages, err := Pack([]SourceImage{src("a", 50, 50)}, s)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if p := pages[0]; p.Width != 64 || p.Height != 64 {
		t.Errorf("page = %dx%d, want 64x64", p.Width, p.Height)
	}

	_, err = Pack([]SourceImage{src("wide", 70, 10)}, s)
	var pe *PackingError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *PackingError", err)
	}
	if pe.MaxWidth != 64 {
		t.Errorf("MaxWidth = %d, want 64", pe.MaxWidth)
	}
}

func TestPack_TooLargeFailsWithoutDropping(t *testing.T) {
	images := []SourceImage{src("big", 64, 64), src("mid", 32, 32), src("small", 16, 16)}
	pages, err := Pack(images, packSettings(32, 32))
	if !errors.Is(err, ErrPacking) {
		t.Fatalf("err = %v, want ErrPacking", err)
	}
	if pages != nil {
		t.Errorf("pages = %d, want none", len(pages))
	}
	var pe *PackingError
	if !errors.As(err, &pe) || pe.Image != "big" {
		t.Errorf("PackingError image = %v, want big", err)
	}
}

func TestPack_PaddingCountsTowardsFit(t *testing.T) {
	s := packSettings(32, 32)
	s.Padding = 1
	if _, err := Pack([]SourceImage{src("edge", 32, 32)}, s); !errors.Is(err, ErrPacking) {
		t.Errorf("err = %v, want ErrPacking", err)
	}
}

func TestPack_Padding(t *testing.T) {
	s := packSettings(64, 64)
	s.Padding = 2
	pages, err := Pack([]SourceImage{src("a", 10, 10), src("b", 10, 10)}, s)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if r := regionByName(t, pages, "a"); r.Bounds != (Rect{2, 2, 10, 10}) {
		t.Errorf("a = %v, want Rect(2,2 10x10)", r.Bounds)
	}
	if r := regionByName(t, pages, "b"); r.Bounds != (Rect{16, 2, 10, 10}) {
		t.Errorf("b = %v, want Rect(16,2 10x10)", r.Bounds)
	}
	if p := pages[0]; p.Width != 28 || p.Height != 14 {
		t.Errorf("page = %dx%d, want 28x14", p.Width, p.Height)
	}
	checkLayout(t, pages, 2)
}

func TestPack_SpillsToNewPages(t *testing.T) {
	var images []SourceImage
	for i := range 4 {
		images = append(images, src(fmt.Sprintf("tile%d", i), 64, 64))
	}
	pages, err := Pack(images, packSettings(64, 64))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(pages) != 4 {
		t.Fatalf("pages = %d, want 4", len(pages))
	}
	for i, p := range pages {
		if p.Index != i || p.Regions[0].Page != i {
			t.Errorf("page %d: Index = %d, region page = %d", i, p.Index, p.Regions[0].Page)
		}
	}
}

func TestPack_RotationFallback(t *testing.T) {
	s := packSettings(64, 32)
	s.AllowRotation = true
	pages, err := Pack([]SourceImage{src("tall", 20, 60)}, s)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	r := pages[0].Regions[0]
	if !r.Rotated {
		t.Fatal("expected rotated region")
	}
	if r.Bounds != (Rect{0, 0, 60, 20}) {
		t.Errorf("Bounds = %v, want Rect(0,0 60x20)", r.Bounds)
	}
	if r.Width() != 20 || r.Height() != 60 {
		t.Errorf("unrotated size = %dx%d, want 20x60", r.Width(), r.Height())
	}

	s.AllowRotation = false
	if _, err := Pack([]SourceImage{src("tall", 20, 60)}, s); !errors.Is(err, ErrPacking) {
		t.Errorf("err = %v, want ErrPacking without rotation", err)
	}
}

func TestPack_PrefersUnrotated(t *testing.T) {
	s := packSettings(64, 64)
	s.AllowRotation = true
	pages, err := Pack([]SourceImage{src("a", 10, 30)}, s)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if pages[0].Regions[0].Rotated {
		t.Error("region rotated although it fits unrotated")
	}
}

func TestPack_EarlierPageWinsOverRotation(t *testing.T) {
	s := packSettings(64, 64)
	s.AllowRotation = true
	// p leaves a 64x20 strip on page 0 and q leaves 64x34 on page 1. r
	// fits page 1 as is but page 0 only turned, and page 0 is tried first.
	images := []SourceImage{src("p", 64, 44), src("q", 64, 30), src("r", 20, 30)}
	pages, err := Pack(images, s)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}
	r := regionByName(t, pages, "r")
	if r.Page != 0 || !r.Rotated {
		t.Errorf("r page = %d rotated = %v, want page 0 rotated", r.Page, r.Rotated)
	}
}

func TestPack_NinePatchNeverRotates(t *testing.T) {
	s := packSettings(64, 32)
	s.AllowRotation = true
	img := src("panel", 20, 60)
	img.Splits = &Insets{Left: 2, Right: 2, Top: 2, Bottom: 2}
	if _, err := Pack([]SourceImage{img}, s); !errors.Is(err, ErrPacking) {
		t.Errorf("err = %v, want ErrPacking for a nine-patch that only fits rotated", err)
	}
}

func TestPack_RotatedPixels(t *testing.T) {
	img := solidImage(2, 3, color.NRGBA{A: 255})
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255}) // top-left marker
	s := packSettings(3, 2)
	s.AllowRotation = true
	in := src("r", 2, 3)
	in.Pixels = NewPixelSource(img)
	pages, err := Pack([]SourceImage{in}, s)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	// Turned 90° clockwise, the top-left texel ends up top-right.
	if got := pages[0].Pixels.NRGBAAt(2, 0); got.R != 255 {
		t.Errorf("rotated marker at (2,0) = %v, want red", got)
	}
	if got := pages[0].Pixels.NRGBAAt(0, 0); got.R != 0 {
		t.Errorf("pixel (0,0) = %v, want black", got)
	}
}

func TestPack_CompositesPixels(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	images := []SourceImage{pixelSrc("red", 8, 8, red), pixelSrc("blue", 4, 4, blue)}
	pages, err := Pack(images, packSettings(64, 64))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	for _, r := range pages[0].Regions {
		want := red
		if r.Name == "blue" {
			want = blue
		}
		if got := pages[0].Pixels.NRGBAAt(r.Bounds.X, r.Bounds.Y); got != want {
			t.Errorf("%s: pixel = %v, want %v", r.Name, got, want)
		}
	}
}

func TestPack_PageSizeRounding(t *testing.T) {
	s := packSettings(64, 64)
	s.MultipleOfFour = true
	pages, err := Pack([]SourceImage{src("a", 10, 10)}, s)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if p := pages[0]; p.Width != 12 || p.Height != 12 {
		t.Errorf("page = %dx%d, want 12x12", p.Width, p.Height)
	}

	s = packSettings(64, 64)
	s.MinWidth = 32
	pages, err = Pack([]SourceImage{src("a", 10, 10)}, s)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if p := pages[0]; p.Width != 32 || p.Height != 10 {
		t.Errorf("page = %dx%d, want 32x10", p.Width, p.Height)
	}
}

func TestPack_MultipleOfFourLowersMax(t *testing.T) {
	s := packSettings(30, 30)
	s.MultipleOfFour = true
	pages, err := Pack([]SourceImage{src("a", 27, 27)}, s)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if p := pages[0]; p.Width != 28 || p.Height != 28 {
		t.Errorf("page = %dx%d, want 28x28", p.Width, p.Height)
	}

	_, err = Pack([]SourceImage{src("wide", 29, 10)}, s)
	var pe *PackingError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *PackingError", err)
	}
	if pe.MaxWidth != 28 {
		t.Errorf("MaxWidth = %d, want 28", pe.MaxWidth)
	}
}

func TestPack_RejectsBadSources(t *testing.T) {
	if _, err := Pack([]SourceImage{src("zero", 0, 4)}, packSettings(64, 64)); err == nil {
		t.Error("expected error for zero-width image")
	}
	bad := src("bad", 4, 4)
	bad.Pixels = NewPixelSource(solidImage(3, 4, color.NRGBA{}))
	if _, err := Pack([]SourceImage{bad}, packSettings(64, 64)); err == nil {
		t.Error("expected error for mismatched pixels")
	}
	s := packSettings(0, 64)
	var se *SettingsError
	if _, err := Pack(nil, s); !errors.As(err, &se) {
		t.Errorf("err = %v, want *SettingsError", err)
	}
}

func TestPack_Empty(t *testing.T) {
	pages, err := Pack(nil, packSettings(64, 64))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(pages) != 0 {
		t.Errorf("pages = %d, want 0", len(pages))
	}
}

func TestPack_RandomInvariants(t *testing.T) {
	for _, method := range []PackMethod{MethodGuillotine, MethodMaxRects} {
		for _, pot := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s/pot=%t", method, pot), func(t *testing.T) {
				images := randomSources(42, 80, 100)
				s := packSettings(256, 200)
				s.Method = method
				s.PowerOfTwo = pot
				s.AllowRotation = true
				s.Padding = 1
				pages, err := Pack(images, s)
				if err != nil {
					t.Fatalf("Pack: %v", err)
				}
				n := 0
				for _, p := range pages {
					n += len(p.Regions)
					if pot && (!isPowerOfTwo(p.Width) || !isPowerOfTwo(p.Height)) {
						t.Errorf("page %d = %dx%d, want powers of two", p.Index, p.Width, p.Height)
					}
					for _, r := range p.Regions {
						if r.Rotated && r.Splits != nil {
							t.Errorf("nine-patch %q rotated", r.Name)
						}
					}
				}
				if n != len(images) {
					t.Errorf("packed %d regions, want %d", n, len(images))
				}
				checkLayout(t, pages, 1)
			})
		}
	}
}

func TestPack_Deterministic(t *testing.T) {
	s := packSettings(256, 256)
	s.AllowRotation = true
	s.Padding = 1
	encode := func() []byte {
		pages, err := Pack(randomSources(7, 50, 80), s)
		if err != nil {
			t.Fatalf("Pack: %v", err)
		}
		var buf bytes.Buffer
		if err := WriteBinary(&buf, pages); err != nil {
			t.Fatalf("WriteBinary: %v", err)
		}
		return buf.Bytes()
	}
	if !bytes.Equal(encode(), encode()) {
		t.Error("packing the same input twice gave different bytes")
	}
}

func TestPruneContained(t *testing.T) {
	rects := []Rect{
		{0, 0, 10, 10},
		{2, 2, 4, 4},
		{0, 0, 10, 10},
		{20, 0, 5, 5},
	}
	got := pruneContained(rects)
	if len(got) != 2 || got[0] != rects[0] || got[1] != rects[3] {
		t.Errorf("pruneContained = %v", got)
	}
}

func BenchmarkPack_Guillotine(b *testing.B) {
	images := randomSources(1, 500, 64)
	s := packSettings(1024, 1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Pack(images, s); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPack_MaxRects(b *testing.B) {
	images := randomSources(1, 500, 64)
	s := packSettings(1024, 1024)
	s.Method = MethodMaxRects
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Pack(images, s); err != nil {
			b.Fatal(err)
		}
	}
}
