package renderer

import (
	"github.com/richinsley/hexwater/controls"
	"github.com/richinsley/hexwater/graphics"
)

// Bind pushes the current value of every control with a resolved location.
// Scalars are bound as float, colors as RGB vec3. Controls missing from
// table are skipped.
func Bind(u graphics.Uniforms, table BindingTable, descs []controls.Descriptor) {
	for _, d := range descs {
		loc, ok := table[d.ID]
		if !ok {
			continue
		}
		switch d.Kind {
		case controls.Scalar:
			u.Uniform1f(loc, float32(d.Value))
		case controls.Color:
			rgb, err := controls.DecodeColor(d.Hex)
			if err != nil {
				Logger().Warn("skipping color uniform", "id", d.ID, "err", err)
				continue
			}
			u.Uniform3f(loc, rgb[0], rgb[1], rgb[2])
		}
	}
}
