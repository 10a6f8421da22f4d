package controls

import (
	"fmt"
	"strconv"
)

// Cursor selects one scalar control at a time and edits it by steps. It is
// the state behind keyboard editing in the window.
type Cursor struct {
	reg *Registry
	sel string
}

func NewCursor(reg *Registry) *Cursor {
	c := &Cursor{reg: reg}
	c.Move(0)
	return c
}

func (c *Cursor) scalars() []string {
	var ids []string
	for _, d := range c.reg.Descriptors() {
		if d.Kind == Scalar {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// Move selects the scalar control delta positions away from the current
// one, wrapping around. Move(0) revalidates the selection after the
// registry changed.
func (c *Cursor) Move(delta int) {
	ids := c.scalars()
	if len(ids) == 0 {
		c.sel = ""
		return
	}
	i := 0
	for j, id := range ids {
		if id == c.sel {
			i = j
			break
		}
	}
	i = ((i+delta)%len(ids) + len(ids)) % len(ids)
	c.sel = ids[i]
}

// Selected returns the id of the selected control, or "" if the registry
// has no scalar controls.
func (c *Cursor) Selected() string { return c.sel }

// Nudge moves the selected control by steps.
func (c *Cursor) Nudge(steps int) error {
	if c.sel == "" {
		return fmt.Errorf("no scalar control selected")
	}
	return c.reg.Nudge(c.sel, steps)
}

// Status describes the selected control and its value.
func (c *Cursor) Status() string {
	d, ok := c.reg.Lookup(c.sel)
	if !ok {
		return "no controls"
	}
	s := d.ID + " = " + strconv.FormatFloat(d.Value, 'g', 6, 64)
	if d.hasBounds() {
		s += " [" + strconv.FormatFloat(d.Min, 'g', -1, 64) + ".." + strconv.FormatFloat(d.Max, 'g', -1, 64) + "]"
	}
	return s
}
