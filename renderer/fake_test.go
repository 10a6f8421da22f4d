package renderer_test

import (
	"errors"
	"fmt"
	"image"
	"regexp"
	"strings"

	"github.com/richinsley/hexwater/graphics"
	"github.com/richinsley/hexwater/translator"
)

var uniformDecl = regexp.MustCompile(`uniform\s+\w+\s+(\w+)\s*;`)

// fakeDevice records every command issued to it. It emulates the parts of a
// GLSL compiler the renderer depends on: a uniform used before it is
// declared fails compilation, and uniforms that are declared but never used
// are not active after linking.
type fakeDevice struct {
	calls []string

	next     uint32
	shaders  map[graphics.Shader][]string // active uniforms per live shader
	programs map[graphics.Program]map[string]int32
	buffers  map[graphics.Buffer]bool

	failLink string
	errOnce  error
	canvas   [2]int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		shaders:  make(map[graphics.Shader][]string),
		programs: make(map[graphics.Program]map[string]int32),
		buffers:  make(map[graphics.Buffer]bool),
	}
}

func (f *fakeDevice) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

// drawCalls returns the recorded calls that touch the canvas.
func (f *fakeDevice) drawCalls() []string {
	var out []string
	for _, c := range f.calls {
		for _, prefix := range []string{"Clear", "Viewport", "DrawTriangleStrip", "SetCanvasSize"} {
			if strings.HasPrefix(c, prefix) {
				out = append(out, c)
			}
		}
	}
	return out
}

func (f *fakeDevice) reset() { f.calls = f.calls[:0] }

func (f *fakeDevice) CompileShader(stage graphics.Stage, src string) (graphics.Shader, string, bool) {
	f.record("CompileShader %s", stage)
	var active []string
	for _, m := range uniformDecl.FindAllStringSubmatchIndex(src, -1) {
		name := src[m[2]:m[3]]
		word := regexp.MustCompile(`\b` + name + `\b`)
		uses := word.FindAllStringIndex(src, -1)
		if uses[0][0] < m[2] {
			line := strings.Count(src[:uses[0][0]], "\n") + 1
			return 0, fmt.Sprintf("ERROR: 0:%d: '%s' : undeclared identifier\n", line, name), false
		}
		if len(uses) > 1 {
			active = append(active, name)
		}
	}
	f.next++
	sh := graphics.Shader(f.next)
	f.shaders[sh] = active
	return sh, "", true
}

func (f *fakeDevice) DeleteShader(sh graphics.Shader) {
	f.record("DeleteShader")
	delete(f.shaders, sh)
}

func (f *fakeDevice) LinkProgram(vs, fs graphics.Shader) (graphics.Program, string, bool) {
	f.record("LinkProgram")
	if f.failLink != "" {
		return 0, f.failLink, false
	}
	locs := make(map[string]int32)
	for _, sh := range []graphics.Shader{vs, fs} {
		for _, name := range f.shaders[sh] {
			if _, ok := locs[name]; !ok {
				locs[name] = int32(len(locs))
			}
		}
	}
	f.next++
	p := graphics.Program(f.next)
	f.programs[p] = locs
	return p, "", true
}

func (f *fakeDevice) DeleteProgram(p graphics.Program) {
	f.record("DeleteProgram %d", p)
	delete(f.programs, p)
}

func (f *fakeDevice) UseProgram(p graphics.Program) { f.record("UseProgram %d", p) }

func (f *fakeDevice) UniformLocation(p graphics.Program, name string) int32 {
	if loc, ok := f.programs[p][name]; ok {
		return loc
	}
	return -1
}

func (f *fakeDevice) Uniform1f(loc int32, v float32) { f.record("Uniform1f %d %v", loc, v) }
func (f *fakeDevice) Uniform2f(loc int32, x, y float32) {
	f.record("Uniform2f %d %v %v", loc, x, y)
}
func (f *fakeDevice) Uniform3f(loc int32, x, y, z float32) {
	f.record("Uniform3f %d %v %v %v", loc, x, y, z)
}

func (f *fakeDevice) NewQuad(pos []float32) graphics.Buffer {
	f.record("NewQuad %v", pos)
	f.next++
	b := graphics.Buffer(f.next)
	f.buffers[b] = true
	return b
}

func (f *fakeDevice) DeleteBuffer(b graphics.Buffer) {
	f.record("DeleteBuffer")
	delete(f.buffers, b)
}

func (f *fakeDevice) BindVertexBuffer(b graphics.Buffer, attrib uint32, components int32) {
	f.record("BindVertexBuffer %d %d %d", b, attrib, components)
}

func (f *fakeDevice) SetCanvasSize(w, h int) {
	f.record("SetCanvasSize %dx%d", w, h)
	f.canvas = [2]int{w, h}
}

func (f *fakeDevice) ClearColor(r, g, b, a float32) { f.record("ClearColor %v %v %v %v", r, g, b, a) }
func (f *fakeDevice) Clear()                        { f.record("Clear") }
func (f *fakeDevice) Viewport(x, y, w, h int32)     { f.record("Viewport %d %d %d %d", x, y, w, h) }
func (f *fakeDevice) DrawTriangleStrip(first, count int32) {
	f.record("DrawTriangleStrip %d %d", first, count)
}

func (f *fakeDevice) ReadCanvas() (*image.RGBA, error) {
	return image.NewRGBA(image.Rect(0, 0, f.canvas[0], f.canvas[1])), nil
}

func (f *fakeDevice) Err() error {
	err := f.errOnce
	f.errOnce = nil
	return err
}

// prefixTranslator renames every declared uniform with a "_u" prefix, the
// way the ANGLE based translator does.
type prefixTranslator struct {
	fail graphics.Stage
	err  bool
}

func (p prefixTranslator) Translate(src string, stage graphics.Stage) (translator.Translation, error) {
	if p.err && stage == p.fail {
		return translator.Translation{}, errors.New("syntax error")
	}
	names := make(map[string]string)
	for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
		names[m[1]] = "_u" + m[1]
	}
	code := src
	for name, mapped := range names {
		code = regexp.MustCompile(`\b`+name+`\b`).ReplaceAllString(code, mapped)
	}
	return translator.Translation{Code: code, Names: names}, nil
}
