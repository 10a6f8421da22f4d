package shader

// Blit sources copy a texture onto the current viewport. They are written
// directly in the device dialect and never pass through the translator.

const blitVertexSourceGL = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitVertexSourceGLES = `#version 300 es
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitFragmentSourceGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
uniform int u_flip;
void main() {
    vec2 uv = u_flip != 0 ? vec2(frag_uv.x, 1.0 - frag_uv.y) : frag_uv;
    fragColor = texture(u_texture, uv);
}
`

const blitFragmentSourceGLES = `#version 300 es
precision mediump float;
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
uniform int u_flip;
void main() {
    vec2 uv = u_flip != 0 ? vec2(frag_uv.x, 1.0 - frag_uv.y) : frag_uv;
    fragColor = texture(u_texture, uv);
}
`

// BlitVertex returns the blit vertex source for desktop GL or GLES.
func BlitVertex(isGLES bool) string {
	if isGLES {
		return blitVertexSourceGLES
	}
	return blitVertexSourceGL
}

// BlitFragment returns the blit fragment source. Setting the u_flip uniform
// flips the texture vertically, for images stored top row first.
func BlitFragment(isGLES bool) string {
	if isGLES {
		return blitFragmentSourceGLES
	}
	return blitFragmentSourceGL
}
