package graphics_test

import (
	"image/color"
	"strings"
	"testing"

	"github.com/richinsley/hexwater/graphics"
)

func TestRenderTextDrawsGlyphs(t *testing.T) {
	img := graphics.RenderText("ERROR: 0:12: 'foam_level' : undeclared identifier", 320, 64)
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 64 {
		t.Fatalf("unexpected bounds %v", b)
	}
	dark := 0
	for y := 0; y < 64; y++ {
		for x := 0; x < 320; x++ {
			if c := img.RGBAAt(x, y); c.R < 128 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("no text pixels drawn")
	}
	if c := img.RGBAAt(319, 63); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("background not white: %v", c)
	}
}

func TestRenderTextDegenerateSize(t *testing.T) {
	img := graphics.RenderText("x", 0, -5)
	if b := img.Bounds(); b.Dx() != 1 || b.Dy() != 1 {
		t.Errorf("want 1x1 image, got %v", b)
	}
}

func TestWrapText(t *testing.T) {
	lines := graphics.WrapText("abcdefgh\nij\n\n", 3)
	want := []string{"abc", "def", "gh", "ij"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Errorf("got %q, want %q", lines, want)
	}
	if got := graphics.WrapText("a\tb", 80); got[0] != "a    b" {
		t.Errorf("tab expansion: %q", got[0])
	}
}
