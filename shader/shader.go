// Package shader assembles the GLSL ES 3.00 sources of the water program.
//
// The fragment source is rendered from a template in a fixed order: version
// header, the procedural library, one uniform declaration per control, and
// finally the shading logic that references those uniforms by name.
package shader

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/richinsley/hexwater/controls"
)

//go:embed library.glsl
var library string

//go:embed water.glsl
var logic string

// CanvasSize is the uniform that carries the logical canvas size, scaled by 100.
const CanvasSize = "canvas_size"

// PositionAttrib is the vertex attribute location of the quad positions.
const PositionAttrib = 0

const vertexSource = `#version 300 es
precision highp float;
layout(location = 0) in vec4 aVertexPosition;
out highp vec2 vPosition;
uniform vec2 canvas_size;
void main() {
    gl_Position = aVertexPosition;
    vPosition = (aVertexPosition.xy * 0.5 + 0.5) * canvas_size;
}
`

const header = `#version 300 es
precision highp float;
precision highp int;
`

var fragmentTemplate = template.Must(template.New("fragment").Parse(
	`{{.Header}}
{{.Library}}
{{template "declarations" .Controls}}
{{.Logic}}` +
		`{{define "declarations"}}{{range .}}uniform {{.Kind.GLSLType}} {{.ID}};
{{end}}{{end}}`))

// symbols are the global names defined by the fixed sources, plus the locals
// of main that would shadow a uniform of the same name.
var symbols = []string{
	CanvasSize, "aVertexPosition", "vPosition", "fragColor",
	"mod289", "permute", "simplex", "snoise", "snoice_o", "hex_ratio", "getHex", "hex",
	"water", "grid", "foam", "color",
}

// Symbols returns the names used by the fixed shader sources. No control may
// be registered under one of them.
func Symbols() []string { return append([]string(nil), symbols...) }

// Source holds the assembled program sources.
type Source struct {
	Vertex   string
	Fragment string
	// Declarations is the generated uniform block embedded in Fragment.
	Declarations string
}

// Vertex returns the fixed vertex source.
func Vertex() string { return vertexSource }

// Assemble generates the program sources for descs. Every id is validated
// against GLSL identifier rules, the fixed source symbols, and the other ids
// before anything is rendered.
func Assemble(descs []controls.Descriptor) (Source, error) {
	if err := checkIDs(descs); err != nil {
		return Source{}, err
	}
	var decl, frag strings.Builder
	err := fragmentTemplate.ExecuteTemplate(&decl, "declarations", descs)
	if err != nil {
		return Source{}, fmt.Errorf("failed to render uniform declarations: %w", err)
	}
	err = fragmentTemplate.Execute(&frag, struct {
		Header, Library, Logic string
		Controls               []controls.Descriptor
	}{header, library, logic, descs})
	if err != nil {
		return Source{}, fmt.Errorf("failed to render fragment source: %w", err)
	}
	return Source{
		Vertex:       vertexSource,
		Fragment:     frag.String(),
		Declarations: decl.String(),
	}, nil
}

func checkIDs(descs []controls.Descriptor) error {
	seen := make(map[string]struct{}, len(descs)+len(symbols))
	for _, s := range symbols {
		seen[s] = struct{}{}
	}
	for _, d := range descs {
		if err := controls.ValidateID(d.ID); err != nil {
			return err
		}
		if _, ok := seen[d.ID]; ok {
			if isSymbol(d.ID) {
				return fmt.Errorf("control %q: %w: name is used by the shader sources", d.ID, controls.ErrReservedID)
			}
			return fmt.Errorf("control %q: %w", d.ID, controls.ErrDuplicateID)
		}
		seen[d.ID] = struct{}{}
	}
	return nil
}

func isSymbol(name string) bool {
	for _, s := range symbols {
		if s == name {
			return true
		}
	}
	return false
}
