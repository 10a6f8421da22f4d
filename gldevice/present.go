package gldevice

import (
	"image"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/hexwater/graphics"
)

// Present draws the canvas into the default framebuffer of size winW by
// winH, scaled to fit and centred. It does not re-render the canvas.
func (d *Device) Present(winW, winH int) {
	if d.fbo == 0 {
		d.clearWindow(winW, winH)
		return
	}
	d.blitTexture(d.colorTex, image.Pt(d.width, d.height), winW, winH, false)
}

// PresentImage draws img in place of the canvas, for example the
// diagnostic text of a failed shader build.
func (d *Device) PresentImage(img *image.RGBA, winW, winH int) {
	size := img.Bounds().Size()
	if d.imageTex == 0 {
		gl.GenTextures(1, &d.imageTex)
		gl.BindTexture(gl.TEXTURE_2D, d.imageTex)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	}
	gl.BindTexture(gl.TEXTURE_2D, d.imageTex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(size.X), int32(size.Y), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	d.imageSize = size
	d.blitTexture(d.imageTex, size, winW, winH, true)
}

func (d *Device) clearWindow(winW, winH int) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(winW), int32(winH))
	gl.ClearColor(0.08, 0.08, 0.08, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) blitTexture(tex uint32, size image.Point, winW, winH int, flip bool) {
	d.clearWindow(winW, winH)
	r := graphics.Fit(size, image.Pt(winW, winH))
	if r.Empty() {
		return
	}
	// GL viewports start at the bottom left.
	gl.Viewport(int32(r.Min.X), int32(winH-r.Max.Y), int32(r.Dx()), int32(r.Dy()))
	gl.Disable(gl.DEPTH_TEST)
	gl.UseProgram(d.blit)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.Uniform1i(d.blitTex, 0)
	var f int32
	if flip {
		f = 1
	}
	gl.Uniform1i(d.blitFlip, f)
	gl.BindVertexArray(d.blitVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(blitQuad)/2))
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}
