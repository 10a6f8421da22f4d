//go:build linux

// Package headless provides an offscreen OpenGL ES 3 context over EGL for
// snapshot and sweep renders on machines without a display.
package headless

import (
	"fmt"
	"log"
	"unsafe"

	"github.com/richinsley/hexwater/graphics"
)

/*
#cgo LDFLAGS: -lEGL
#include <EGL/egl.h>
#include <EGL/eglext.h>

static PFNEGLQUERYDEVICESEXTPROC query_devices_ptr = NULL;
static PFNEGLGETPLATFORMDISPLAYEXTPROC platform_display_ptr = NULL;

static void load_extensions() {
    query_devices_ptr = (PFNEGLQUERYDEVICESEXTPROC) eglGetProcAddress("eglQueryDevicesEXT");
    platform_display_ptr = (PFNEGLGETPLATFORMDISPLAYEXTPROC) eglGetProcAddress("eglGetPlatformDisplayEXT");
}

static EGLDisplay device_display(void *device) {
    if (platform_display_ptr) {
        return platform_display_ptr(EGL_PLATFORM_DEVICE_EXT, device, NULL);
    }
    return EGL_NO_DISPLAY;
}

static EGLBoolean query_devices(EGLint max, EGLDeviceEXT *devices, EGLint *n) {
    if (query_devices_ptr) {
        return query_devices_ptr(max, devices, n);
    }
    return EGL_FALSE;
}
*/
import "C"

// Context is a pbuffer-backed EGL context. The pbuffer is only a
// placeholder; rendering goes to the device's own framebuffer.
type Context struct {
	display C.EGLDisplay
	context C.EGLContext
	surface C.EGLSurface
	width   int
	height  int
}

// display picks the first GPU reported by EGL_EXT_device_query, falling
// back to the default display when the extension is missing.
func display() (C.EGLDisplay, error) {
	C.load_extensions()

	var n C.EGLint
	if C.query_devices(0, nil, &n) == C.EGL_FALSE || n == 0 {
		log.Println("EGL device query unavailable, using the default display")
		d := C.eglGetDisplay(C.EGLNativeDisplayType(C.EGL_DEFAULT_DISPLAY))
		if d == C.EGLDisplay(C.EGL_NO_DISPLAY) {
			return d, fmt.Errorf("no default EGL display")
		}
		return d, nil
	}

	devices := make([]C.EGLDeviceEXT, n)
	if C.query_devices(n, &devices[0], &n) == C.EGL_FALSE {
		return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("failed to query EGL devices")
	}
	for i := 0; i < int(n); i++ {
		d := C.device_display(unsafe.Pointer(devices[i]))
		if d != C.EGLDisplay(C.EGL_NO_DISPLAY) {
			log.Printf("Using EGL device %d of %d", i, n)
			return d, nil
		}
	}
	return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("none of %d EGL devices has a display", n)
}

// New creates a GLES 3 context with a width x height pbuffer and makes it
// current on the calling thread.
func New(width, height int) (graphics.Context, error) {
	c := &Context{
		context: C.EGLContext(C.EGL_NO_CONTEXT),
		surface: C.EGLSurface(C.EGL_NO_SURFACE),
		width:   width,
		height:  height,
	}
	var err error
	if c.display, err = display(); err != nil {
		return nil, err
	}
	if err := c.init(); err != nil {
		c.Shutdown()
		return nil, err
	}
	return c, nil
}

func (c *Context) init() error {
	var major, minor C.EGLint
	if C.eglInitialize(c.display, &major, &minor) == C.EGL_FALSE {
		return fmt.Errorf("failed to initialize EGL")
	}
	log.Printf("EGL %d.%d initialized", major, minor)

	configAttribs := []C.EGLint{
		C.EGL_SURFACE_TYPE, C.EGL_PBUFFER_BIT,
		C.EGL_RED_SIZE, 8,
		C.EGL_GREEN_SIZE, 8,
		C.EGL_BLUE_SIZE, 8,
		C.EGL_ALPHA_SIZE, 8,
		C.EGL_DEPTH_SIZE, 24,
		C.EGL_RENDERABLE_TYPE, C.EGL_OPENGL_ES3_BIT,
		C.EGL_NONE,
	}
	var config C.EGLConfig
	var n C.EGLint
	if C.eglChooseConfig(c.display, &configAttribs[0], &config, 1, &n) == C.EGL_FALSE || n == 0 {
		return fmt.Errorf("no EGL config for an RGBA8 GLES 3 pbuffer")
	}

	surfaceAttribs := []C.EGLint{
		C.EGL_WIDTH, C.EGLint(c.width),
		C.EGL_HEIGHT, C.EGLint(c.height),
		C.EGL_NONE,
	}
	c.surface = C.eglCreatePbufferSurface(c.display, config, &surfaceAttribs[0])
	if c.surface == C.EGLSurface(C.EGL_NO_SURFACE) {
		return fmt.Errorf("failed to create %dx%d pbuffer", c.width, c.height)
	}

	contextAttribs := []C.EGLint{C.EGL_CONTEXT_CLIENT_VERSION, 3, C.EGL_NONE}
	c.context = C.eglCreateContext(c.display, config, C.EGLContext(C.EGL_NO_CONTEXT), &contextAttribs[0])
	if c.context == C.EGLContext(C.EGL_NO_CONTEXT) {
		return fmt.Errorf("failed to create GLES 3 context")
	}
	if C.eglMakeCurrent(c.display, c.surface, c.surface, c.context) == C.EGL_FALSE {
		return fmt.Errorf("failed to make EGL context current")
	}
	return nil
}

func (c *Context) MakeCurrent() {
	C.eglMakeCurrent(c.display, c.surface, c.surface, c.context)
}

func (c *Context) Shutdown() {
	if c.display == C.EGLDisplay(C.EGL_NO_DISPLAY) {
		return
	}
	C.eglMakeCurrent(c.display, C.EGLSurface(C.EGL_NO_SURFACE), C.EGLSurface(C.EGL_NO_SURFACE), C.EGLContext(C.EGL_NO_CONTEXT))
	if c.context != C.EGLContext(C.EGL_NO_CONTEXT) {
		C.eglDestroyContext(c.display, c.context)
	}
	if c.surface != C.EGLSurface(C.EGL_NO_SURFACE) {
		C.eglDestroySurface(c.display, c.surface)
	}
	C.eglTerminate(c.display)
	c.display = C.EGLDisplay(C.EGL_NO_DISPLAY)
}

// ShouldClose is always false; headless runs end when their work is done.
func (c *Context) ShouldClose() bool { return false }

func (c *Context) EndFrame() {
	C.eglSwapBuffers(c.display, c.surface)
}

func (c *Context) GetFramebufferSize() (int, int) { return c.width, c.height }

func (c *Context) IsGLES() bool { return true }
