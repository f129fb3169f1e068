package blueberry

import "image"

// trimBounds returns the part of img left after stripping border rows
// (stripY) and columns (stripX) whose every alpha is at or below threshold.
// Rows are stripped first; columns are then scanned only within the kept
// rows. The result is empty when the image is blank.
func trimBounds(img *image.NRGBA, stripX, stripY bool, threshold uint8) image.Rectangle {
	b := img.Bounds()
	top, bottom := b.Min.Y, b.Max.Y
	left, right := b.Min.X, b.Max.X

	rowBlank := func(y int) bool {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.NRGBAAt(x, y).A > threshold {
				return false
			}
		}
		return true
	}
	colBlank := func(x int) bool {
		for y := top; y < bottom; y++ {
			if img.NRGBAAt(x, y).A > threshold {
				return false
			}
		}
		return true
	}

	if stripY {
		for top < bottom && rowBlank(top) {
			top++
		}
		for bottom > top && rowBlank(bottom-1) {
			bottom--
		}
	}
	if stripX {
		for left < right && colBlank(left) {
			left++
		}
		for right > left && colBlank(right-1) {
			right--
		}
	}
	return image.Rect(left, top, right, bottom)
}
