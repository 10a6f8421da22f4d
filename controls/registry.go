package controls

import (
	"fmt"
	"math"
	"strconv"
)

// Registry is the ordered set of controls. Registration order is the order
// in which uniforms are declared in the generated fragment source.
//
// A Registry is not safe for concurrent use; it belongs to the rendering
// thread. Other goroutines hand changes to the renderer's scheduler instead.
type Registry struct {
	descs    []Descriptor
	index    map[string]int
	reserved map[string]struct{}
	schema   uint64
	notify   func(id string)
}

// NewRegistry validates and registers descs in order.
func NewRegistry(descs ...Descriptor) (*Registry, error) {
	r := &Registry{
		index:    make(map[string]int, len(descs)),
		reserved: make(map[string]struct{}),
	}
	for _, d := range descs {
		if err := r.add(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Reserve marks names already used by fixed shader sources so that no
// control can be registered under them. It fails if an existing control
// already uses one of the names.
func (r *Registry) Reserve(names ...string) error {
	for _, n := range names {
		if _, ok := r.index[n]; ok {
			return fmt.Errorf("control %q: %w: name is used by the shader sources", n, ErrReservedID)
		}
		r.reserved[n] = struct{}{}
	}
	return nil
}

// Subscribe installs the single change listener. Every accepted change calls
// fn synchronously with the id of the control that changed, before the
// setter returns. Passing nil removes the listener.
func (r *Registry) Subscribe(fn func(id string)) { r.notify = fn }

// Schema returns a generation counter that changes whenever the set of
// descriptors changes. Value changes do not affect it.
func (r *Registry) Schema() uint64 { return r.schema }

// Len returns the number of registered controls.
func (r *Registry) Len() int { return len(r.descs) }

// Descriptors returns a snapshot of all controls in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.descs))
	copy(out, r.descs)
	return out
}

// Lookup returns the control registered under id.
func (r *Registry) Lookup(id string) (Descriptor, bool) {
	i, ok := r.index[id]
	if !ok {
		return Descriptor{}, false
	}
	return r.descs[i], true
}

// Add registers a new control at the end of the registry. Adding a control
// changes the schema, so the shader program must be rebuilt before the next
// frame can bind it.
func (r *Registry) Add(d Descriptor) error {
	if err := r.add(d); err != nil {
		return err
	}
	r.changed(d.ID)
	return nil
}

func (r *Registry) add(d Descriptor) error {
	if err := ValidateID(d.ID); err != nil {
		return err
	}
	if _, ok := r.reserved[d.ID]; ok {
		return fmt.Errorf("control %q: %w: name is used by the shader sources", d.ID, ErrReservedID)
	}
	if _, ok := r.index[d.ID]; ok {
		return fmt.Errorf("control %q: %w", d.ID, ErrDuplicateID)
	}
	if err := d.validateValue(); err != nil {
		return fmt.Errorf("control %q: %w", d.ID, err)
	}
	r.index[d.ID] = len(r.descs)
	r.descs = append(r.descs, d)
	r.schema++
	return nil
}

// SetScalar sets the value of a Scalar control.
func (r *Registry) SetScalar(id string, v float64) error {
	i, err := r.find(id, Scalar)
	if err != nil {
		return err
	}
	r.descs[i].Value = v
	r.changed(id)
	return nil
}

// SetColor sets the value of a Color control. hex must be "#RRGGBB".
func (r *Registry) SetColor(id, hex string) error {
	i, err := r.find(id, Color)
	if err != nil {
		return err
	}
	if _, err := DecodeColor(hex); err != nil {
		return fmt.Errorf("control %q: %w", id, err)
	}
	r.descs[i].Hex = hex
	r.changed(id)
	return nil
}

// Set parses raw according to the kind of the control and stores it.
func (r *Registry) Set(id, raw string) error {
	d, ok := r.Lookup(id)
	if !ok {
		return fmt.Errorf("control %q: %w", id, ErrUnknownID)
	}
	if d.Kind == Color {
		return r.SetColor(id, raw)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("control %q: %w", id, err)
	}
	return r.SetScalar(id, v)
}

// Nudge moves a Scalar control by steps times its Step, clamping the result
// to [Min, Max] when the control has a range. A control without a Step moves
// by one hundredth of its range, or by 1 when it has no range either.
func (r *Registry) Nudge(id string, steps int) error {
	i, err := r.find(id, Scalar)
	if err != nil {
		return err
	}
	d := r.descs[i]
	step := d.Step
	if step <= 0 {
		step = 1
		if d.hasBounds() {
			step = (d.Max - d.Min) / 100
		}
	}
	v := d.Value + float64(steps)*step
	if d.hasBounds() {
		v = math.Min(math.Max(v, d.Min), d.Max)
	}
	return r.SetScalar(id, v)
}

// Apply merges descs into the registry. Known ids take the new value (and
// slider metadata), each value change notifying separately; unknown ids are
// appended. Unchanged values do not notify.
func (r *Registry) Apply(descs []Descriptor) error {
	for _, d := range descs {
		i, ok := r.index[d.ID]
		if !ok {
			if err := r.Add(d); err != nil {
				return err
			}
			continue
		}
		cur := r.descs[i]
		if cur.Kind != d.Kind {
			return fmt.Errorf("control %q: %w: have %v, got %v", d.ID, ErrKindMismatch, cur.Kind, d.Kind)
		}
		if err := d.validateValue(); err != nil {
			return fmt.Errorf("control %q: %w", d.ID, err)
		}
		r.descs[i].Min, r.descs[i].Max, r.descs[i].Step = d.Min, d.Max, d.Step
		if cur.Value == d.Value && cur.Hex == d.Hex {
			continue
		}
		r.descs[i].Value, r.descs[i].Hex = d.Value, d.Hex
		r.changed(d.ID)
	}
	return nil
}

func (r *Registry) find(id string, want Kind) (int, error) {
	i, ok := r.index[id]
	if !ok {
		return -1, fmt.Errorf("control %q: %w", id, ErrUnknownID)
	}
	if got := r.descs[i].Kind; got != want {
		return -1, fmt.Errorf("control %q: %w: is %v, not %v", id, ErrKindMismatch, got, want)
	}
	return i, nil
}

func (r *Registry) changed(id string) {
	if r.notify != nil {
		r.notify(id)
	}
}
