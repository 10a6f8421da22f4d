package graphics

// Context defines the interface for an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	// EndFrame presents the back buffer and processes pending window events.
	EndFrame()
	GetFramebufferSize() (int, int)
	// IsGLES reports whether the context speaks OpenGL ES rather than desktop GL.
	IsGLES() bool
}
