// Package glfwcontext provides the interactive window: a desktop GL 4.1
// context and keyboard editing of the controls.
package glfwcontext

import (
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	options "github.com/richinsley/hexwater/options"
)

// Rendering only happens on control changes, so the event loop blocks
// between frames instead of spinning.
const eventTimeout = 1.0 / 30

// KeyFunc handles a key press or repeat.
type KeyFunc func(mods glfw.ModifierKey)

type Context struct {
	window       *glfw.Window
	keyCallbacks map[glfw.Key]KeyFunc
}

// New creates a window sized from opts. A hidden window still carries a
// usable context for offscreen renders.
func New(opts *options.Options, visible bool) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(*opts.Width, *opts.Height, "hexwater", nil, nil)
	if err != nil {
		return nil, err
	}
	c := &Context{
		window:       win,
		keyCallbacks: make(map[glfw.Key]KeyFunc),
	}
	win.SetKeyCallback(c.glfwKeyCallback)
	win.MakeContextCurrent()
	return c, nil
}

// RegisterKeyCallback calls f whenever key is pressed or auto-repeats.
func (c *Context) RegisterKeyCallback(key glfw.Key, f KeyFunc) {
	c.keyCallbacks[key] = f
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
		return
	}
	if action == glfw.Release {
		return
	}
	if f, ok := c.keyCallbacks[key]; ok {
		f(mods)
	}
}

func (c *Context) SetTitle(title string) {
	c.window.SetTitle(title)
}

// ContentScale returns the monitor content scale of the window, 1 on
// ordinary displays and 2 on most high density ones.
func (c *Context) ContentScale() float32 {
	x, _ := c.window.GetContentScale()
	if x <= 0 {
		return 1
	}
	return x
}

func (c *Context) IsGLES() bool {
	return false
}

func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.WaitEventsTimeout(eventTimeout)
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

// Wake interrupts a blocked EndFrame. It is safe to call from any goroutine.
func Wake() {
	glfw.PostEmptyEvent()
}

// InitGraphics initializes GLFW. Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW initialized")
	return nil
}

// TerminateGraphics shuts down GLFW. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW terminated")
}
