package glfwcontext

import (
	"log"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/hexwater/controls"
)

// BindControlKeys wires the keyboard to cur:
//
//	Tab, Shift+Tab   select the next or previous scalar control
//	Up, Down         nudge the selection one step, ten with Shift
//	R                call reload
//
// The window title shows the selected control after every key.
func BindControlKeys(c *Context, cur *controls.Cursor, reload func() error) {
	title := func() { c.SetTitle("hexwater: " + cur.Status()) }
	nudge := func(dir int) KeyFunc {
		return func(mods glfw.ModifierKey) {
			steps := dir
			if mods&glfw.ModShift != 0 {
				steps *= 10
			}
			if err := cur.Nudge(steps); err != nil {
				log.Printf("nudge %s: %v", cur.Selected(), err)
			}
			title()
		}
	}

	c.RegisterKeyCallback(glfw.KeyTab, func(mods glfw.ModifierKey) {
		if mods&glfw.ModShift != 0 {
			cur.Move(-1)
		} else {
			cur.Move(1)
		}
		title()
	})
	c.RegisterKeyCallback(glfw.KeyUp, nudge(1))
	c.RegisterKeyCallback(glfw.KeyDown, nudge(-1))
	c.RegisterKeyCallback(glfw.KeyR, func(glfw.ModifierKey) {
		if reload == nil {
			return
		}
		if err := reload(); err != nil {
			log.Printf("reload controls: %v", err)
		}
		cur.Move(0)
		title()
	})
	title()
}
