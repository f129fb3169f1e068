package blueberry

import (
	"cmp"
	"fmt"
	"image"
	"slices"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// placement is one image placed on a page under construction.
type placement struct {
	src       *SourceImage
	footprint Rect // padding-inclusive
	rotated   bool
}

type pageBuilder struct {
	bin    binPacker
	placed []placement
}

// Pack places every image onto as few pages as the heuristic finds and
// composites the page pixels. Images are placed largest area first, ties
// broken by name, frame index and input order, so equal inputs always give
// equal output. An image that cannot fit an empty page returns a
// *PackingError and no pages; no image is ever dropped.
func Pack(images []SourceImage, s Settings) ([]*Page, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	maxW, maxH := s.effectiveMax()
	pad := s.Padding

	order := make([]int, len(images))
	for i := range order {
		order[i] = i
		if err := checkSource(&images[i], s, maxW, maxH); err != nil {
			return nil, err
		}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		ia, ib := &images[a], &images[b]
		if c := cmp.Compare(ib.Width*ib.Height, ia.Width*ia.Height); c != 0 {
			return c
		}
		if c := cmp.Compare(ia.Name, ib.Name); c != 0 {
			return c
		}
		return cmp.Compare(ia.Index, ib.Index)
	})

	var builders []*pageBuilder
	for _, idx := range order {
		img := &images[idx]
		fw, fh := img.Width+2*pad, img.Height+2*pad
		rotate := canRotate(img, s)

		placed := false
		for _, pb := range builders {
			if fp, rot, ok := pb.bin.insert(fw, fh, rotate); ok {
				pb.placed = append(pb.placed, placement{src: img, footprint: fp, rotated: rot})
				placed = true
				break
			}
		}
		if placed {
			continue
		}
		pb := &pageBuilder{bin: newBinPacker(s.Method, maxW, maxH)}
		fp, rot, ok := pb.bin.insert(fw, fh, rotate)
		if !ok {
			// checkSource guarantees an empty page has room.
			return nil, packingError(img, s)
		}
		pb.placed = append(pb.placed, placement{src: img, footprint: fp, rotated: rot})
		builders = append(builders, pb)
	}

	pages := make([]*Page, len(builders))
	for i, pb := range builders {
		pages[i] = pb.finish(i, s, maxW, maxH)
	}
	return pages, nil
}

func canRotate(img *SourceImage, s Settings) bool {
	return s.AllowRotation && img.Splits == nil
}

func checkSource(img *SourceImage, s Settings, maxW, maxH int) error {
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("blueberry: image %q has invalid size %dx%d", img.Name, img.Width, img.Height)
	}
	if img.Pixels != nil && !checkPixelSource(img.Pixels, img.Width, img.Height) {
		return fmt.Errorf("blueberry: image %q pixels do not match size %dx%d RGBA", img.Name, img.Width, img.Height)
	}
	fw, fh := img.Width+2*s.Padding, img.Height+2*s.Padding
	if fw <= maxW && fh <= maxH {
		return nil
	}
	if canRotate(img, s) && fh <= maxW && fw <= maxH {
		return nil
	}
	return packingError(img, s)
}

func packingError(img *SourceImage, s Settings) error {
	maxW, maxH := s.effectiveMax()
	return &PackingError{
		Image:     img.Name,
		Width:     img.Width,
		Height:    img.Height,
		MaxWidth:  maxW,
		MaxHeight: maxH,
		Padding:   s.Padding,
	}
}

// finish sizes the page to its content, builds the regions and composites
// the source pixels.
func (pb *pageBuilder) finish(index int, s Settings, maxW, maxH int) *Page {
	usedW, usedH := 0, 0
	for _, pl := range pb.placed {
		usedW = max(usedW, pl.footprint.Right())
		usedH = max(usedH, pl.footprint.Bottom())
	}
	w := pageSide(usedW, s.MinWidth, maxW, s)
	h := pageSide(usedH, s.MinHeight, maxH, s)

	page := &Page{
		Index:   index,
		Width:   w,
		Height:  h,
		Pixels:  newPagePixels(w, h),
		Regions: make([]*Region, 0, len(pb.placed)),
	}
	for _, pl := range pb.placed {
		src := pl.src
		bw, bh := src.Width, src.Height
		if pl.rotated {
			bw, bh = bh, bw
		}
		r := &Region{
			Name:  src.Name,
			Page:  index,
			Index: src.Index,
			Bounds: Rect{
				X:      pl.footprint.X + s.Padding,
				Y:      pl.footprint.Y + s.Padding,
				Width:  bw,
				Height: bh,
			},
			Rotated:        pl.rotated,
			OriginalWidth:  src.OriginalWidth,
			OriginalHeight: src.OriginalHeight,
			OffsetX:        src.OffsetX,
			OffsetY:        src.OffsetY,
		}
		if src.Splits != nil {
			sp := *src.Splits
			r.Splits = &sp
		}
		if src.Pads != nil {
			pd := *src.Pads
			r.Pads = &pd
		}
		page.Regions = append(page.Regions, r)
		composite(page.Pixels, r, src)
	}
	return page
}

// pageSide rounds a used extent up to the final page dimension.
func pageSide(used, minSide, maxSide int, s Settings) int {
	n := max(used, minSide, 1)
	switch {
	case s.PowerOfTwo:
		n = nextPowerOfTwo(n)
	case s.MultipleOfFour:
		n = roundUpToFour(n)
	}
	return min(n, maxSide)
}

// composite copies the source texels into the region bounds, turned 90°
// clockwise for rotated regions.
func composite(dst *image.NRGBA, r *Region, src *SourceImage) {
	if src.Pixels == nil {
		return
	}
	var img image.Image = sourceImage(src.Pixels)
	if r.Rotated {
		img = imaging.Rotate270(img)
	}
	draw.Copy(dst, image.Pt(r.Bounds.X, r.Bounds.Y), img, img.Bounds(), draw.Src, nil)
}
