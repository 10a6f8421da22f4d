package graphics

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	glyphWidth  = 7
	lineHeight  = 13
	textMargin  = 8
	textAscent  = 11
	maxTextSize = 4096
)

// RenderText rasterises text as black-on-white lines into a w by h image,
// wrapping lines that do not fit. It is used to show diagnostic text in
// place of a frame. Lines that run past the bottom edge are dropped.
func RenderText(text string, w, h int) *image.RGBA {
	w = min(max(w, 1), maxTextSize)
	h = min(max(h, 1), maxTextSize)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}
	cols := max((w-2*textMargin)/glyphWidth, 1)
	y := textMargin + textAscent
	for _, line := range WrapText(text, cols) {
		if y > h {
			break
		}
		d.Dot = fixed.Point26_6{X: fixed.I(textMargin), Y: fixed.I(y)}
		d.DrawString(line)
		y += lineHeight
	}
	return img
}

// WrapText splits text into lines of at most cols characters. Existing line
// breaks are kept and tabs become four spaces.
func WrapText(text string, cols int) []string {
	cols = max(cols, 1)
	text = strings.ReplaceAll(text, "\t", "    ")
	text = strings.TrimRight(strings.ReplaceAll(text, "\r\n", "\n"), "\n\x00")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		r := []rune(line)
		for len(r) > cols {
			lines = append(lines, string(r[:cols]))
			r = r[cols:]
		}
		lines = append(lines, string(r))
	}
	return lines
}
