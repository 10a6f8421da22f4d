package renderer

import (
	"math"

	"github.com/richinsley/hexwater/controls"
)

// MaxCanvasDimension bounds each side of the canvas in device pixels.
const MaxCanvasDimension = 16384

// Surface is the canvas size for one render.
type Surface struct {
	// Width and Height are device pixels, each at least 1.
	Width, Height int
	// CanvasSize is the logical size times 100, bound to canvas_size. It
	// does not depend on pixel density.
	CanvasSize [2]float32
}

// SizeSurface computes the canvas for a logical size and pixel density.
func SizeSurface(logicalW, logicalH, density float64) Surface {
	return Surface{
		Width:      devicePixels(logicalW, density),
		Height:     devicePixels(logicalH, density),
		CanvasSize: [2]float32{float32(logicalW * 100), float32(logicalH * 100)},
	}
}

func devicePixels(logical, density float64) int {
	v := math.Round(logical * density)
	switch {
	case !(v >= 1): // also catches NaN
		Logger().Debug("clamping degenerate canvas dimension", "logical", logical, "density", density)
		return 1
	case v > MaxCanvasDimension:
		Logger().Debug("clamping oversized canvas dimension", "logical", logical, "density", density)
		return MaxCanvasDimension
	}
	return int(v)
}

// SurfaceSource supplies the logical size and density of the canvas.
type SurfaceSource interface {
	SurfaceInputs() (logicalW, logicalH, density float64)
}

// FixedSurface is a SurfaceSource with constant inputs.
type FixedSurface struct {
	Width, Height, Density float64
}

func (f FixedSurface) SurfaceInputs() (float64, float64, float64) {
	return f.Width, f.Height, f.Density
}

// RegistrySurface reads the canvas_width, canvas_height and dpi scalar
// controls. A missing control takes its value from Default.
type RegistrySurface struct {
	Registry *controls.Registry
	Default  FixedSurface
}

func (rs RegistrySurface) SurfaceInputs() (float64, float64, float64) {
	return rs.scalar(controls.CanvasWidth, rs.Default.Width),
		rs.scalar(controls.CanvasHeight, rs.Default.Height),
		rs.scalar(controls.DPI, rs.Default.Density)
}

func (rs RegistrySurface) scalar(id string, fallback float64) float64 {
	d, ok := rs.Registry.Lookup(id)
	if !ok || d.Kind != controls.Scalar {
		return fallback
	}
	return d.Value
}
