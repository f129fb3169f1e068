package blueberry

import "image"

// .9 images carry a 1px border of black marker pixels: the top and left
// edges mark the stretchable span (splits), the bottom and right edges mark
// the content area (pads). Coordinates returned here are relative to the
// image with the border removed.

// splitPoint walks one border row or column from (x, y) and returns the
// position of the first opaque pixel (start) or transparent pixel (!start).
// Zero means not found, since position 0 is the stripped corner.
func splitPoint(img *image.NRGBA, x, y int, start, xAxis bool) int {
	b := img.Bounds()
	next, end := y, b.Dy()
	if xAxis {
		next, end = x, b.Dx()
	}
	var want uint8
	if start {
		want = 255
	}
	for ; next < end; next++ {
		if xAxis {
			x = next
		} else {
			y = next
		}
		if img.NRGBAAt(b.Min.X+x, b.Min.Y+y).A == want {
			return next
		}
	}
	return 0
}

// markerSpan converts a marker run [start, end) found on a border of the
// given full length into a pair of insets from both sides of the stripped
// image. A run that was never started stretches everything.
func markerSpan(start, end, length int) (int, int) {
	if start == 0 {
		return 0, length - 2
	}
	if end == 0 {
		end = length - 1
	}
	return start - 1, length - 2 - (end - 1)
}

// ninePatchSplits reads the top and left markers. It returns nil when the
// image has no split markers.
func ninePatchSplits(img *image.NRGBA) *Insets {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	startX := splitPoint(img, 1, 0, true, true)
	endX := 0
	if startX != 0 {
		endX = splitPoint(img, startX, 0, false, true)
	}
	startY := splitPoint(img, 0, 1, true, false)
	endY := 0
	if startY != 0 {
		endY = splitPoint(img, 0, startY, false, false)
	}
	if startX == 0 && endX == 0 && startY == 0 && endY == 0 {
		return nil
	}
	left, right := markerSpan(startX, endX, w)
	top, bottom := markerSpan(startY, endY, h)
	return &Insets{Left: left, Right: right, Top: top, Bottom: bottom}
}

// ninePatchPads reads the bottom and right markers. An axis without markers
// is left unset. It returns nil when there are no pad markers or the pads
// equal the splits.
func ninePatchPads(img *image.NRGBA, splits *Insets) *PadInsets {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	bottom, right := h-1, w-1

	startX := splitPoint(img, 1, bottom, true, true)
	startY := splitPoint(img, right, 1, true, false)
	endX, endY := 0, 0
	if startX != 0 {
		endX = splitPoint(img, startX+1, bottom, false, true)
	}
	if startY != 0 {
		endY = splitPoint(img, right, startY+1, false, false)
	}
	if startX == 0 && startY == 0 {
		return nil
	}

	var pads PadInsets
	if startX != 0 {
		l, r := markerSpan(startX, endX, w)
		pads.Left, pads.Right = PadOf(l), PadOf(r)
	}
	if startY != 0 {
		t, b := markerSpan(startY, endY, h)
		pads.Top, pads.Bottom = PadOf(t), PadOf(b)
	}
	if splits != nil &&
		pads.Left == PadOf(splits.Left) && pads.Right == PadOf(splits.Right) &&
		pads.Top == PadOf(splits.Top) && pads.Bottom == PadOf(splits.Bottom) {
		return nil
	}
	return &pads
}
