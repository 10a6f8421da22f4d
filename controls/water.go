package controls

// Names of the controls that size the canvas. They are ordinary scalar
// controls and are declared as uniforms like every other control.
const (
	CanvasWidth  = "canvas_width"
	CanvasHeight = "canvas_height"
	DPI          = "dpi"
)

// Water returns the default water controls in page order.
func Water() []Descriptor {
	return []Descriptor{
		NewScalar(CanvasWidth, 12, 1, 40, 1),
		NewScalar(CanvasHeight, 8, 1, 40, 1),
		NewScalar(DPI, 64, 8, 256, 8),
		NewScalar("hex_size", 20, 1, 100, 1),
		NewScalar("hex_line_width", 10, 0, 100, 1),
		NewScalar("hex_smooth_step", 10, 0, 100, 1),
		NewScalar("foam_level", 30, 0, 100, 1),
		NewColor("water_dark", "#113355"),
		NewColor("water_light", "#2a6f97"),
		NewColor("hex_color", "#1d4e6e"),
		NewColor("foam_color", "#e0f4ff"),
	}
}
