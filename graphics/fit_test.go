package graphics_test

import (
	"image"
	"testing"

	"github.com/richinsley/hexwater/graphics"
)

func TestFit(t *testing.T) {
	for _, test := range []struct {
		src, dst image.Point
		want     image.Rectangle
	}{
		{image.Pt(768, 512), image.Pt(768, 512), image.Rect(0, 0, 768, 512)},
		{image.Pt(768, 512), image.Pt(1536, 1024), image.Rect(0, 0, 1536, 1024)},
		// Wider window: bars left and right.
		{image.Pt(100, 100), image.Pt(300, 100), image.Rect(100, 0, 200, 100)},
		// Taller window: bars top and bottom.
		{image.Pt(200, 100), image.Pt(200, 300), image.Rect(0, 100, 200, 200)},
		{image.Pt(1, 1000), image.Pt(10, 10), image.Rect(4, 0, 5, 10)},
		{image.Pt(0, 10), image.Pt(10, 10), image.Rectangle{}},
		{image.Pt(10, 10), image.Pt(0, 0), image.Rectangle{}},
	} {
		if got := graphics.Fit(test.src, test.dst); got != test.want {
			t.Errorf("Fit(%v, %v) = %v, want %v", test.src, test.dst, got, test.want)
		}
	}
}
