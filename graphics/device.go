package graphics

import (
	"image"
	"strconv"
)

// Stage identifies a shader stage.
type Stage uint8

const (
	Vertex Stage = iota
	Fragment
)

func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	}
	return "Stage(" + strconv.Itoa(int(s)) + ")"
}

// Opaque GPU object handles. The zero value is never a live object.
type (
	Shader  uint32
	Program uint32
	Buffer  uint32
)

// Uniforms is the part of a Device that pushes uniform values into the
// current program. A location of -1 is ignored, as in OpenGL.
type Uniforms interface {
	Uniform1f(loc int32, v float32)
	Uniform2f(loc int32, x, y float32)
	Uniform3f(loc int32, x, y, z float32)
}

// Device is the command surface the renderer draws through. All methods
// must be called from the thread that owns the GPU context.
type Device interface {
	Uniforms

	// CompileShader compiles src for stage. On failure the shader object has
	// already been released and the driver's info log is returned.
	CompileShader(stage Stage, src string) (sh Shader, log string, ok bool)
	DeleteShader(Shader)
	// LinkProgram links a program from two compiled shaders. On failure no
	// program object remains and the driver's info log is returned.
	LinkProgram(vs, fs Shader) (p Program, log string, ok bool)
	DeleteProgram(Program)
	UseProgram(Program)
	// UniformLocation returns -1 if name is not an active uniform of p.
	UniformLocation(p Program, name string) int32

	// NewQuad uploads vertex positions into an immutable buffer.
	NewQuad(positions []float32) Buffer
	DeleteBuffer(Buffer)
	// BindVertexBuffer binds b as the source of attribute attrib with
	// components tightly packed floats per vertex.
	BindVertexBuffer(b Buffer, attrib uint32, components int32)

	// SetCanvasSize resizes the render target to w by h device pixels.
	SetCanvasSize(w, h int)
	ClearColor(r, g, b, a float32)
	// Clear clears the color buffer and the depth buffer when one is attached.
	Clear()
	Viewport(x, y, w, h int32)
	DrawTriangleStrip(first, count int32)

	// ReadCanvas reads the render target back as a top-row-first image.
	ReadCanvas() (*image.RGBA, error)
	// Err reports and clears any pending GPU error.
	Err() error
}
