package renderer_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/richinsley/hexwater/controls"
	"github.com/richinsley/hexwater/graphics"
	"github.com/richinsley/hexwater/renderer"
	"github.com/richinsley/hexwater/shader"
)

func TestBuildProgramResolvesActiveUniforms(t *testing.T) {
	dev := newFakeDevice()
	p, err := renderer.BuildProgram(dev, nil, controls.Water())
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"hex_size", "foam_level", "water_dark", "foam_color"} {
		if _, ok := p.Table[id]; !ok {
			t.Errorf("%s missing from binding table", id)
		}
	}
	// The sizing controls are declared but never read by the shader.
	for _, id := range []string{controls.CanvasWidth, controls.CanvasHeight, controls.DPI} {
		if _, ok := p.Table[id]; ok {
			t.Errorf("%s should not be active", id)
		}
	}
	if len(dev.shaders) != 0 {
		t.Errorf("%d shader objects left after link", len(dev.shaders))
	}
}

func TestBuildProgramMappedNames(t *testing.T) {
	dev := newFakeDevice()
	p, err := renderer.BuildProgram(dev, prefixTranslator{}, controls.Water())
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Table) != 8 {
		t.Errorf("got %d active uniforms through translator, want 8: %v", len(p.Table), p.Table)
	}
	if !strings.Contains(p.Source.Fragment, "uniform float foam_level;") {
		t.Error("Program.Source must hold the untranslated source")
	}
}

func TestBuildProgramTranslationError(t *testing.T) {
	dev := newFakeDevice()
	_, err := renderer.BuildProgram(dev, prefixTranslator{fail: graphics.Fragment, err: true}, controls.Water())
	var ce *renderer.CompileError
	if !errors.As(err, &ce) || ce.Stage != graphics.Fragment {
		t.Fatalf("want fragment CompileError, got %v", err)
	}
	if len(dev.calls) != 0 {
		t.Errorf("device used after translation failure: %v", dev.calls)
	}
}

func TestUniformUsedBeforeDeclaration(t *testing.T) {
	dev := newFakeDevice()
	src := shader.Source{
		Vertex: shader.Vertex(),
		Fragment: `#version 300 es
precision highp float;
out vec4 fragColor;
void main() { fragColor = vec4(vec3(foam_level), 1.0); }
uniform float foam_level;
`,
	}
	descs := []controls.Descriptor{controls.NewScalar("foam_level", 30, 0, 100, 1)}
	_, err := renderer.BuildProgramSource(dev, nil, src, descs)
	var ce *renderer.CompileError
	var le *renderer.LinkError
	if !errors.As(err, &ce) && !errors.As(err, &le) {
		t.Fatalf("want CompileError or LinkError, got %v", err)
	}
	if !strings.Contains(err.Error(), "foam_level") {
		t.Errorf("diagnostic does not name the uniform: %v", err)
	}
	if calls := dev.drawCalls(); len(calls) != 0 {
		t.Errorf("canvas touched: %v", calls)
	}
	if len(dev.shaders) != 0 || len(dev.programs) != 0 {
		t.Errorf("objects leaked: %d shaders, %d programs", len(dev.shaders), len(dev.programs))
	}
}

func TestLinkFailure(t *testing.T) {
	dev := newFakeDevice()
	dev.failLink = "error: vertex output vPosition not written\n"
	_, err := renderer.BuildProgram(dev, nil, controls.Water())
	var le *renderer.LinkError
	if !errors.As(err, &le) {
		t.Fatalf("want LinkError, got %v", err)
	}
	if len(dev.shaders) != 0 || len(dev.programs) != 0 {
		t.Errorf("objects leaked: %d shaders, %d programs", len(dev.shaders), len(dev.programs))
	}
}
