package renderer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/richinsley/hexwater/graphics"
)

// ErrNoProgram is returned when a render is attempted without a linked program.
var ErrNoProgram = errors.New("no linked shader program")

// CompileError reports a shader stage rejected by the driver or the translator.
type CompileError struct {
	Stage graphics.Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, strings.TrimRight(e.Log, "\x00\n "))
}

// LinkError reports a vertex and fragment shader pair rejected at link time.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "failed to link program: " + strings.TrimRight(e.Log, "\x00\n ")
}
