package renderer_test

import (
	"math"
	"testing"

	"github.com/richinsley/hexwater/renderer"
)

func TestSizeSurfaceNeverDegenerate(t *testing.T) {
	values := []float64{0, -1, -1e9, 1e-9, 0.4, 0.5, 1, 12, 1e12, math.NaN(), math.Inf(1), math.Inf(-1)}
	for _, w := range values {
		for _, h := range values {
			for _, d := range values {
				s := renderer.SizeSurface(w, h, d)
				if s.Width < 1 || s.Height < 1 {
					t.Fatalf("SizeSurface(%v, %v, %v) = %dx%d", w, h, d, s.Width, s.Height)
				}
				if s.Width > renderer.MaxCanvasDimension || s.Height > renderer.MaxCanvasDimension {
					t.Fatalf("SizeSurface(%v, %v, %v) = %dx%d exceeds limit", w, h, d, s.Width, s.Height)
				}
			}
		}
	}
}

func TestSizeSurface(t *testing.T) {
	for _, test := range []struct {
		w, h, d  float64
		wantW    int
		wantH    int
		wantSize [2]float32
	}{
		{12, 8, 64, 768, 512, [2]float32{1200, 800}},
		{1.5, 1, 2.5, 4, 3, [2]float32{150, 100}}, // 3.75 and 2.5 round away from zero
		{0, 8, 64, 1, 512, [2]float32{0, 800}},
		{-3, 8, 64, 1, 512, [2]float32{-300, 800}},
		{12, 8, 0, 1, 1, [2]float32{1200, 800}},
		{12, 8, -2, 1, 1, [2]float32{1200, 800}},
	} {
		s := renderer.SizeSurface(test.w, test.h, test.d)
		if s.Width != test.wantW || s.Height != test.wantH {
			t.Errorf("SizeSurface(%v, %v, %v) = %dx%d, want %dx%d", test.w, test.h, test.d, s.Width, s.Height, test.wantW, test.wantH)
		}
		if s.CanvasSize != test.wantSize {
			t.Errorf("SizeSurface(%v, %v, %v) canvas_size = %v, want %v", test.w, test.h, test.d, s.CanvasSize, test.wantSize)
		}
	}
}
