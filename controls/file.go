package controls

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

// File is the on-disk form of a control set:
//
//	{"controls": [
//	  {"id": "foam_level", "kind": "scalar", "value": 30, "min": 0, "max": 100, "step": 1},
//	  {"id": "water_dark", "kind": "color", "value": "#113355"}
//	]}
type File struct {
	Controls []FileControl `json:"controls"`
}

type FileControl struct {
	ID    string          `json:"id"`
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
	Min   float64         `json:"min,omitempty"`
	Max   float64         `json:"max,omitempty"`
	Step  float64         `json:"step,omitempty"`
}

// Descriptor converts a file entry into a Descriptor. Scalar values may be
// written either as JSON numbers or as numeric strings.
func (fc FileControl) Descriptor() (Descriptor, error) {
	kind, err := ParseKind(fc.Kind)
	if err != nil {
		return Descriptor{}, fmt.Errorf("control %q: %w", fc.ID, err)
	}
	d := Descriptor{ID: fc.ID, Kind: kind, Min: fc.Min, Max: fc.Max, Step: fc.Step}
	if len(fc.Value) == 0 {
		return d, fmt.Errorf("control %q: missing value", fc.ID)
	}
	switch kind {
	case Color:
		if err := json.Unmarshal(fc.Value, &d.Hex); err != nil {
			return d, fmt.Errorf("control %q: %w: %v", fc.ID, ErrBadColor, err)
		}
		if _, err := DecodeColor(d.Hex); err != nil {
			return d, fmt.Errorf("control %q: %w", fc.ID, err)
		}
	default:
		if err := json.Unmarshal(fc.Value, &d.Value); err != nil {
			var s string
			if json.Unmarshal(fc.Value, &s) != nil {
				return d, fmt.Errorf("control %q: scalar value %s is not a number", fc.ID, fc.Value)
			}
			if d.Value, err = strconv.ParseFloat(s, 64); err != nil {
				return d, fmt.Errorf("control %q: %w", fc.ID, err)
			}
		}
	}
	return d, nil
}

// Load decodes a control file. Identifiers are validated by the registry the
// descriptors are later added to, not here.
func Load(r io.Reader) ([]Descriptor, error) {
	var f File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode controls: %w", err)
	}
	descs := make([]Descriptor, 0, len(f.Controls))
	for _, fc := range f.Controls {
		d, err := fc.Descriptor()
		if err != nil {
			return nil, err
		}
		descs = append(descs, d)
	}
	return descs, nil
}

// LoadFile reads the control file at path.
func LoadFile(path string) ([]Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	descs, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return descs, nil
}
