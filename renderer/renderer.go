// Package renderer turns the control registry into frames: it owns the
// shader program, the quad geometry and the canvas for one GPU device.
package renderer

import (
	"fmt"

	"github.com/richinsley/hexwater/controls"
	"github.com/richinsley/hexwater/graphics"
	"github.com/richinsley/hexwater/shader"
	"github.com/richinsley/hexwater/translator"
)

// quadPositions cover clip space with a 4 vertex triangle strip.
var quadPositions = []float32{
	1, 1,
	-1, 1,
	1, -1,
	-1, -1,
}

type Config struct {
	// Translator converts sources to the device dialect. Nil compiles them unchanged.
	Translator translator.Translator
	// Surface supplies the canvas size. Nil reads it from the registry's
	// sizing controls, falling back to the water defaults.
	Surface SurfaceSource
}

// Renderer holds all GPU state used to draw the water surface.
// It must only be used from the thread that owns the device.
type Renderer struct {
	dev     graphics.Device
	reg     *controls.Registry
	xl      translator.Translator
	surface SurfaceSource

	quad    graphics.Buffer
	prog    *Program
	failure error
	last    Surface
}

// NewRenderer creates the quad geometry and builds the program for the
// current registry contents. A compile or link failure does not fail
// construction: it puts the renderer in a permanent failed state reported
// by Failure.
func NewRenderer(dev graphics.Device, reg *controls.Registry, cfg Config) (*Renderer, error) {
	if err := reg.Reserve(shader.Symbols()...); err != nil {
		return nil, err
	}
	r := &Renderer{
		dev:     dev,
		reg:     reg,
		xl:      cfg.Translator,
		surface: cfg.Surface,
	}
	if r.surface == nil {
		r.surface = RegistrySurface{Registry: reg, Default: waterSurface}
	}
	r.quad = dev.NewQuad(quadPositions)
	r.build()
	return r, nil
}

var waterSurface = FixedSurface{Width: 12, Height: 8, Density: 64}

// Failure returns the compile, link or assembly error that disabled
// rendering, or nil.
func (r *Renderer) Failure() error { return r.failure }

// Program returns the current program, or nil.
func (r *Renderer) Program() *Program { return r.prog }

// Surface returns the canvas size of the last successful render.
func (r *Renderer) Surface() Surface { return r.last }

func (r *Renderer) build() {
	if r.prog != nil {
		r.dev.DeleteProgram(r.prog.handle)
		r.prog = nil
	}
	p, err := BuildProgram(r.dev, r.xl, r.reg.Descriptors())
	if err != nil {
		Logger().Error("shader program unavailable", "err", err)
		r.failure = err
		return
	}
	p.schema = r.reg.Schema()
	r.prog = p
}

// Render draws one frame with the values the registry holds now. The
// program is rebuilt first if controls were added since it was linked.
// Once a build has failed every call returns that failure without touching
// the device.
func (r *Renderer) Render() (Surface, error) {
	if r.failure != nil {
		return Surface{}, r.failure
	}
	if r.prog != nil && r.prog.schema != r.reg.Schema() {
		r.build()
		if r.failure != nil {
			return Surface{}, r.failure
		}
	}
	if r.prog == nil {
		return Surface{}, ErrNoProgram
	}

	s := SizeSurface(r.surface.SurfaceInputs())
	descs := r.reg.Descriptors()
	dev := r.dev

	dev.SetCanvasSize(s.Width, s.Height)
	dev.ClearColor(0, 0, 0, 1)
	dev.Clear()
	dev.BindVertexBuffer(r.quad, shader.PositionAttrib, 2)
	dev.UseProgram(r.prog.handle)
	if r.prog.canvasSize >= 0 {
		dev.Uniform2f(r.prog.canvasSize, s.CanvasSize[0], s.CanvasSize[1])
	}
	Bind(dev, r.prog.Table, descs)
	dev.Viewport(0, 0, int32(s.Width), int32(s.Height))
	dev.DrawTriangleStrip(0, 4)

	if err := dev.Err(); err != nil {
		return s, fmt.Errorf("render failed: %w", err)
	}
	r.last = s
	return s, nil
}

// Shutdown releases the program and the geometry buffer.
func (r *Renderer) Shutdown() {
	if r.prog != nil {
		r.dev.DeleteProgram(r.prog.handle)
		r.prog = nil
	}
	if r.quad != 0 {
		r.dev.DeleteBuffer(r.quad)
		r.quad = 0
	}
	if r.failure == nil {
		r.failure = ErrNoProgram
	}
}
