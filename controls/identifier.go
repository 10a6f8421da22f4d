package controls

import (
	"fmt"
	"strings"
)

// maxIdentifierLength is the GLSL ES 3.00 limit on identifier length.
const maxIdentifierLength = 1024

// ValidateID checks that id can be declared as a uniform in GLSL ES 3.00
// source: identifier grammar, no "gl_" prefix, no "__" sequence, and not a
// keyword, reserved word or built-in function name.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidID)
	} else if len(id) > maxIdentifierLength {
		return fmt.Errorf("%w: %d characters exceeds %d", ErrInvalidID, len(id), maxIdentifierLength)
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return fmt.Errorf("%w: %q has illegal character %q at %d", ErrInvalidID, id, c, i)
		}
	}
	if strings.HasPrefix(id, "gl_") {
		return fmt.Errorf("%w: %q uses the gl_ prefix", ErrReservedID, id)
	} else if strings.Contains(id, "__") {
		return fmt.Errorf("%w: %q contains a double underscore", ErrReservedID, id)
	} else if _, ok := glslReserved[id]; ok {
		return fmt.Errorf("%w: %q is a GLSL keyword or built-in", ErrReservedID, id)
	}
	return nil
}

var glslReserved = makeSet(
	// Keywords.
	"const", "uniform", "layout", "centroid", "flat", "smooth", "break", "continue",
	"do", "for", "while", "switch", "case", "default", "if", "else", "in", "out",
	"inout", "float", "int", "void", "bool", "true", "false", "invariant", "discard",
	"return", "mat2", "mat3", "mat4", "mat2x2", "mat2x3", "mat2x4", "mat3x2", "mat3x3",
	"mat3x4", "mat4x2", "mat4x3", "mat4x4", "vec2", "vec3", "vec4", "ivec2", "ivec3",
	"ivec4", "bvec2", "bvec3", "bvec4", "uint", "uvec2", "uvec3", "uvec4", "lowp",
	"mediump", "highp", "precision", "sampler2D", "sampler3D", "samplerCube",
	"sampler2DShadow", "samplerCubeShadow", "sampler2DArray", "sampler2DArrayShadow",
	"isampler2D", "isampler3D", "isamplerCube", "isampler2DArray", "usampler2D",
	"usampler3D", "usamplerCube", "usampler2DArray", "struct",
	// Reserved for future use.
	"attribute", "varying", "coherent", "volatile", "restrict", "readonly", "writeonly",
	"resource", "atomic_uint", "noperspective", "patch", "sample", "subroutine",
	"common", "partition", "active", "asm", "class", "union", "enum", "typedef",
	"template", "this", "goto", "inline", "noinline", "public", "static", "extern",
	"external", "interface", "long", "short", "double", "half", "fixed", "unsigned",
	"superp", "input", "output", "hvec2", "hvec3", "hvec4", "dvec2", "dvec3", "dvec4",
	"fvec2", "fvec3", "fvec4", "sampler3DRect", "filter", "sizeof", "cast",
	"namespace", "using", "sampler1D", "sampler1DShadow", "sampler2DRect",
	"sampler2DRectShadow", "samplerBuffer", "image1D", "image2D", "image3D", "imageCube",
	// Built-in functions a uniform of the same name would hide.
	"radians", "degrees", "sin", "cos", "tan", "asin", "acos", "atan", "sinh", "cosh",
	"tanh", "asinh", "acosh", "atanh", "pow", "exp", "log", "exp2", "log2", "sqrt",
	"inversesqrt", "abs", "sign", "floor", "trunc", "round", "roundEven", "ceil",
	"fract", "mod", "modf", "min", "max", "clamp", "mix", "step", "smoothstep", "isnan",
	"isinf", "length", "distance", "dot", "cross", "normalize", "faceforward",
	"reflect", "refract", "matrixCompMult", "outerProduct", "transpose",
	"determinant", "inverse", "lessThan", "lessThanEqual", "greaterThan",
	"greaterThanEqual", "equal", "notEqual", "any", "all", "not", "texture",
	"textureSize", "textureProj", "textureLod", "texelFetch", "textureGrad",
	"dFdx", "dFdy", "fwidth", "main",
)

func makeSet(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}
