// Package controls holds the ordered set of live-adjustable parameters that
// drive the water shader. Each control is addressed by a GLSL identifier and
// becomes one uniform in the generated fragment source.
package controls

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind selects how a control is declared and bound.
type Kind uint8

const (
	// Scalar controls are declared as `uniform float`.
	Scalar Kind = iota
	// Color controls hold "#RRGGBB" and are declared as `uniform vec3`.
	Color
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Color:
		return "color"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// GLSLType returns the GLSL type a control of this kind is declared with.
func (k Kind) GLSLType() string {
	if k == Color {
		return "vec3"
	}
	return "float"
}

// ParseKind parses the kind marker used in control files.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "scalar", "float", "":
		return Scalar, nil
	case "color", "colour":
		return Color, nil
	}
	return 0, fmt.Errorf("unknown control kind %q", s)
}

var (
	ErrInvalidID    = errors.New("invalid control id")
	ErrReservedID   = errors.New("reserved control id")
	ErrDuplicateID  = errors.New("duplicate control id")
	ErrUnknownID    = errors.New("unknown control id")
	ErrKindMismatch = errors.New("control kind mismatch")
	ErrBadColor     = errors.New("malformed color")
)

// Descriptor describes one control and carries its current value.
// Min, Max and Step are slider metadata: they are only consulted by
// control sources such as Registry.Nudge, never by the renderer.
type Descriptor struct {
	ID    string
	Kind  Kind
	Value float64 // current value when Kind == Scalar
	Hex   string  // current value when Kind == Color, "#RRGGBB"

	Min, Max, Step float64
}

// NewScalar returns a Scalar descriptor.
func NewScalar(id string, value, min, max, step float64) Descriptor {
	return Descriptor{ID: id, Kind: Scalar, Value: value, Min: min, Max: max, Step: step}
}

// NewColor returns a Color descriptor.
func NewColor(id, hex string) Descriptor {
	return Descriptor{ID: id, Kind: Color, Hex: hex}
}

// ValueString formats the current value the way it would be typed into a control.
func (d Descriptor) ValueString() string {
	if d.Kind == Color {
		return d.Hex
	}
	return strconv.FormatFloat(d.Value, 'g', -1, 64)
}

func (d Descriptor) String() string {
	return d.ID + "(" + d.Kind.String() + ")=" + d.ValueString()
}

func (d Descriptor) validateValue() error {
	switch d.Kind {
	case Scalar:
		return nil
	case Color:
		_, err := DecodeColor(d.Hex)
		return err
	}
	return fmt.Errorf("control %q: %w: %v", d.ID, ErrKindMismatch, d.Kind)
}

// hasBounds reports whether Min and Max describe a usable range.
func (d Descriptor) hasBounds() bool { return d.Max > d.Min }
