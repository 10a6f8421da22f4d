package renderer

import (
	"maps"

	"github.com/richinsley/hexwater/controls"
	"github.com/richinsley/hexwater/graphics"
	"github.com/richinsley/hexwater/shader"
	"github.com/richinsley/hexwater/translator"
)

// BindingTable maps control ids to uniform locations in one linked program.
// Ids whose uniform is not active in the program are absent.
type BindingTable map[string]int32

// Program is a linked water program with its resolved uniform locations.
type Program struct {
	handle     graphics.Program
	schema     uint64
	canvasSize int32

	Source shader.Source
	Table  BindingTable
}

// Handle returns the device program handle.
func (p *Program) Handle() graphics.Program { return p.handle }

// BuildProgram assembles, compiles and links the program for descs and
// resolves its binding table. A nil translator compiles the GLSL ES 3.00
// sources as they are.
func BuildProgram(dev graphics.Device, xl translator.Translator, descs []controls.Descriptor) (*Program, error) {
	src, err := shader.Assemble(descs)
	if err != nil {
		return nil, err
	}
	return BuildProgramSource(dev, xl, src, descs)
}

// BuildProgramSource compiles and links already assembled sources. The
// shader objects are released whether or not linking succeeds.
func BuildProgramSource(dev graphics.Device, xl translator.Translator, src shader.Source, descs []controls.Descriptor) (*Program, error) {
	vsrc, fsrc := src.Vertex, src.Fragment
	names := make(map[string]string)
	if xl != nil {
		vt, err := xl.Translate(vsrc, graphics.Vertex)
		if err != nil {
			return nil, &CompileError{Stage: graphics.Vertex, Log: err.Error()}
		}
		ft, err := xl.Translate(fsrc, graphics.Fragment)
		if err != nil {
			return nil, &CompileError{Stage: graphics.Fragment, Log: err.Error()}
		}
		vsrc, fsrc = vt.Code, ft.Code
		maps.Copy(names, vt.Names)
		maps.Copy(names, ft.Names)
	}

	vs, err := compileShader(dev, graphics.Vertex, vsrc)
	if err != nil {
		return nil, err
	}
	fs, err := compileShader(dev, graphics.Fragment, fsrc)
	if err != nil {
		dev.DeleteShader(vs)
		return nil, err
	}
	handle, err := linkProgram(dev, vs, fs)
	if err != nil {
		return nil, err
	}

	resolve := func(name string) int32 {
		if mapped, ok := names[name]; ok {
			name = mapped
		}
		return dev.UniformLocation(handle, name)
	}
	p := &Program{
		handle:     handle,
		canvasSize: resolve(shader.CanvasSize),
		Source:     src,
		Table:      make(BindingTable, len(descs)),
	}
	for _, d := range descs {
		loc := resolve(d.ID)
		if loc < 0 {
			Logger().Debug("uniform is not active in program", "id", d.ID, "kind", d.Kind)
			continue
		}
		p.Table[d.ID] = loc
	}
	Logger().Info("program linked", "controls", len(descs), "active", len(p.Table))
	return p, nil
}

func compileShader(dev graphics.Device, stage graphics.Stage, src string) (graphics.Shader, error) {
	sh, log, ok := dev.CompileShader(stage, src)
	if !ok {
		return 0, &CompileError{Stage: stage, Log: log}
	}
	return sh, nil
}

func linkProgram(dev graphics.Device, vs, fs graphics.Shader) (graphics.Program, error) {
	p, log, ok := dev.LinkProgram(vs, fs)
	dev.DeleteShader(vs)
	dev.DeleteShader(fs)
	if !ok {
		return 0, &LinkError{Log: log}
	}
	return p, nil
}
