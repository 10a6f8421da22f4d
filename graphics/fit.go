package graphics

import "image"

// Fit returns the largest rectangle with the aspect ratio of src that fits
// in a dst sized area, centred, in top-left origin coordinates. It is empty
// if either size is empty.
func Fit(src, dst image.Point) image.Rectangle {
	if src.X <= 0 || src.Y <= 0 || dst.X <= 0 || dst.Y <= 0 {
		return image.Rectangle{}
	}
	w, h := dst.X, dst.X*src.Y/src.X
	if h > dst.Y {
		w, h = dst.Y*src.X/src.Y, dst.Y
	}
	w, h = max(w, 1), max(h, 1)
	x, y := (dst.X-w)/2, (dst.Y-h)/2
	return image.Rect(x, y, x+w, y+h)
}
