package graphics

// Context defines the interface for the host that owns an OpenGL context:
// a window, a hidden window or a headless pbuffer.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
	// IsGLES reports whether the context speaks OpenGL ES rather than desktop GL.
	IsGLES() bool
}
