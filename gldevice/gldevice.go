// Package gldevice implements graphics.Device on OpenGL 4.1 core or
// OpenGL ES 3 through go-gl.
package gldevice

import (
	"fmt"
	"image"
	"strings"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/hexwater/graphics"
	"github.com/richinsley/hexwater/shader"
)

var (
	glInitOnce sync.Once
	glInitErr  error
)

// Device draws into an offscreen canvas framebuffer: an RGBA8 color texture
// with a 24 bit depth renderbuffer, reallocated whenever the canvas size
// changes. The canvas is shown in a window by Present.
type Device struct {
	gles bool
	vao  uint32

	fbo, colorTex, depthRB uint32
	width, height          int

	blit      uint32
	blitVAO   uint32
	blitVBO   uint32
	blitTex   int32
	blitFlip  int32
	imageTex  uint32
	imageSize image.Point
}

// blitQuad covers clip space with two triangles.
var blitQuad = []float32{
	-1, 1, -1, -1, 1, -1,
	-1, 1, 1, -1, 1, 1,
}

// New initialises the OpenGL bindings for the current context and creates
// the device objects. The context must stay current on the calling thread.
func New(gles bool) (*Device, error) {
	glInitOnce.Do(func() {
		glInitErr = gl.Init()
	})
	if glInitErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", glInitErr)
	}
	d := &Device{gles: gles}
	gl.GenVertexArrays(1, &d.vao)

	var err error
	d.blit, err = newProgram(shader.BlitVertex(gles), shader.BlitFragment(gles))
	if err != nil {
		return nil, fmt.Errorf("failed to create blit program: %w", err)
	}
	d.blitTex = gl.GetUniformLocation(d.blit, gl.Str("u_texture\x00"))
	d.blitFlip = gl.GetUniformLocation(d.blit, gl.Str("u_flip\x00"))

	gl.GenVertexArrays(1, &d.blitVAO)
	gl.BindVertexArray(d.blitVAO)
	gl.GenBuffers(1, &d.blitVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.blitVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(blitQuad)*4, gl.Ptr(blitQuad), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindVertexArray(0)

	if err := d.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// Version returns the GL_VERSION string of the current context.
func Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (d *Device) CompileShader(stage graphics.Stage, src string) (graphics.Shader, string, bool) {
	shaderType := uint32(gl.VERTEX_SHADER)
	if stage == graphics.Fragment {
		shaderType = gl.FRAGMENT_SHADER
	}
	sh, err := compileShader(src, shaderType)
	if err != nil {
		return 0, err.Error(), false
	}
	return graphics.Shader(sh), "", true
}

func (d *Device) DeleteShader(sh graphics.Shader) { gl.DeleteShader(uint32(sh)) }

func (d *Device) LinkProgram(vs, fs graphics.Shader) (graphics.Program, string, bool) {
	p, err := linkProgram(uint32(vs), uint32(fs))
	if err != nil {
		return 0, err.Error(), false
	}
	return graphics.Program(p), "", true
}

func (d *Device) DeleteProgram(p graphics.Program) { gl.DeleteProgram(uint32(p)) }
func (d *Device) UseProgram(p graphics.Program)    { gl.UseProgram(uint32(p)) }

func (d *Device) UniformLocation(p graphics.Program, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) Uniform1f(loc int32, v float32)       { gl.Uniform1f(loc, v) }
func (d *Device) Uniform2f(loc int32, x, y float32)    { gl.Uniform2f(loc, x, y) }
func (d *Device) Uniform3f(loc int32, x, y, z float32) { gl.Uniform3f(loc, x, y, z) }

func (d *Device) NewQuad(positions []float32) graphics.Buffer {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(positions)*4, gl.Ptr(positions), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return graphics.Buffer(vbo)
}

func (d *Device) DeleteBuffer(b graphics.Buffer) {
	vbo := uint32(b)
	gl.DeleteBuffers(1, &vbo)
}

func (d *Device) BindVertexBuffer(b graphics.Buffer, attrib uint32, components int32) {
	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.VertexAttribPointer(attrib, components, gl.FLOAT, false, 0, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(attrib)
}

func (d *Device) SetCanvasSize(w, h int) {
	if d.fbo == 0 || w != d.width || h != d.height {
		d.allocCanvas(w, h)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, d.fbo)
}

// allocCanvas (re)creates the canvas framebuffer attachments.
func (d *Device) allocCanvas(w, h int) {
	if d.fbo == 0 {
		gl.GenFramebuffers(1, &d.fbo)
		gl.GenTextures(1, &d.colorTex)
		gl.GenRenderbuffers(1, &d.depthRB)
	}
	d.width, d.height = w, h
	gl.BindFramebuffer(gl.FRAMEBUFFER, d.fbo)
	gl.BindTexture(gl.TEXTURE_2D, d.colorTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, d.colorTex, 0)
	gl.BindRenderbuffer(gl.RENDERBUFFER, d.depthRB)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, int32(w), int32(h))
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, d.depthRB)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (d *Device) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }
func (d *Device) Clear()                        { gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT) }
func (d *Device) Viewport(x, y, w, h int32)     { gl.Viewport(x, y, w, h) }

func (d *Device) DrawTriangleStrip(first, count int32) {
	gl.DrawArrays(gl.TRIANGLE_STRIP, first, count)
}

// ReadCanvas reads the canvas back. GL stores rows bottom first, so rows
// are flipped into the image.
func (d *Device) ReadCanvas() (*image.RGBA, error) {
	if d.fbo == 0 {
		return nil, fmt.Errorf("canvas has not been rendered")
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, d.fbo)
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return nil, fmt.Errorf("canvas framebuffer is not complete: 0x%x", status)
	}
	w, h := d.width, d.height
	pix := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	if err := d.Err(); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	stride := w * 4
	for y := 0; y < h; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], pix[(h-1-y)*stride:(h-y)*stride])
	}
	return img, nil
}

var glErrorNames = map[uint32]string{
	gl.INVALID_ENUM:                  "GL_INVALID_ENUM",
	gl.INVALID_VALUE:                 "GL_INVALID_VALUE",
	gl.INVALID_OPERATION:             "GL_INVALID_OPERATION",
	gl.INVALID_FRAMEBUFFER_OPERATION: "GL_INVALID_FRAMEBUFFER_OPERATION",
	gl.OUT_OF_MEMORY:                 "GL_OUT_OF_MEMORY",
}

// Err drains the GL error queue.
func (d *Device) Err() error {
	var codes []string
	for i := 0; i < 16; i++ {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			break
		}
		name, ok := glErrorNames[code]
		if !ok {
			name = fmt.Sprintf("0x%x", code)
		}
		codes = append(codes, name)
	}
	if len(codes) == 0 {
		return nil
	}
	return fmt.Errorf("gl error: %s", strings.Join(codes, ", "))
}

// Destroy releases the canvas and presentation objects.
func (d *Device) Destroy() {
	if d.fbo != 0 {
		gl.DeleteFramebuffers(1, &d.fbo)
		gl.DeleteTextures(1, &d.colorTex)
		gl.DeleteRenderbuffers(1, &d.depthRB)
		d.fbo = 0
	}
	if d.imageTex != 0 {
		gl.DeleteTextures(1, &d.imageTex)
	}
	gl.DeleteBuffers(1, &d.blitVBO)
	gl.DeleteVertexArrays(1, &d.blitVAO)
	gl.DeleteVertexArrays(1, &d.vao)
	gl.DeleteProgram(d.blit)
}
