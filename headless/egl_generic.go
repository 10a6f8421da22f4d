//go:build !linux

package headless

import (
	"fmt"

	"github.com/richinsley/hexwater/graphics"
)

// New is only implemented on Linux.
func New(width, height int) (graphics.Context, error) {
	return nil, fmt.Errorf("headless EGL rendering is not supported on this platform")
}
