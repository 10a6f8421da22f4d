package controls

import (
	"fmt"
	"strconv"
)

// DecodeColor decodes a fixed-width "#RRGGBB" string into normalized RGB
// components. Each byte is decoded independently and divided by 255.
func DecodeColor(hex string) ([3]float32, error) {
	var rgb [3]float32
	if len(hex) != 7 || hex[0] != '#' {
		return rgb, fmt.Errorf("%w: %q is not #RRGGBB", ErrBadColor, hex)
	}
	for i := range rgb {
		b, err := strconv.ParseUint(hex[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return rgb, fmt.Errorf("%w: %q: %v", ErrBadColor, hex, err)
		}
		rgb[i] = float32(b) / 255
	}
	return rgb, nil
}

// EncodeColor is the inverse of DecodeColor. Components are clamped to [0,1].
func EncodeColor(rgb [3]float32) string {
	b := make([]byte, 1, 7)
	b[0] = '#'
	for _, c := range rgb {
		c = min(max(c, 0), 1)
		v := uint8(c*255 + 0.5)
		const digits = "0123456789abcdef"
		b = append(b, digits[v>>4], digits[v&0xf])
	}
	return string(b)
}
