package renderer_test

import (
	"math"
	"testing"

	"github.com/richinsley/hexwater/controls"
	"github.com/richinsley/hexwater/renderer"
)

type boundValue struct {
	loc int32
	v   []float32
}

type uniformRecorder struct {
	bound []boundValue
}

func (u *uniformRecorder) Uniform1f(loc int32, v float32) {
	u.bound = append(u.bound, boundValue{loc, []float32{v}})
}
func (u *uniformRecorder) Uniform2f(loc int32, x, y float32) {
	u.bound = append(u.bound, boundValue{loc, []float32{x, y}})
}
func (u *uniformRecorder) Uniform3f(loc int32, x, y, z float32) {
	u.bound = append(u.bound, boundValue{loc, []float32{x, y, z}})
}

func TestBindScalarPassthrough(t *testing.T) {
	var u uniformRecorder
	renderer.Bind(&u, renderer.BindingTable{"level": 3}, []controls.Descriptor{
		controls.NewScalar("level", 42, 0, 100, 1),
	})
	if len(u.bound) != 1 {
		t.Fatalf("got %d bindings", len(u.bound))
	}
	if b := u.bound[0]; b.loc != 3 || len(b.v) != 1 || b.v[0] != 42.0 {
		t.Errorf("bound %+v, want loc 3 value 42.0", b)
	}
}

func TestBindColorAndSkip(t *testing.T) {
	var u uniformRecorder
	descs := []controls.Descriptor{
		controls.NewScalar("unused", 1, 0, 0, 0),
		controls.NewColor("water_dark", "#113355"),
		{ID: "broken", Kind: controls.Color, Hex: "#12"},
	}
	renderer.Bind(&u, renderer.BindingTable{"water_dark": 0, "broken": 1}, descs)
	if len(u.bound) != 1 {
		t.Fatalf("got %d bindings, want only water_dark: %+v", len(u.bound), u.bound)
	}
	want := []float64{17. / 255, 51. / 255, 85. / 255}
	for i, c := range u.bound[0].v {
		if math.Abs(float64(c)-want[i]) > 1e-6 {
			t.Errorf("component %d = %v, want %v", i, c, want[i])
		}
	}
}
