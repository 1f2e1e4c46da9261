package graphics

// Device is the subset of the OpenGL API used to drive full-screen fragment
// programs. Every call is synchronous and must be made from the thread that
// owns the current context.
type Device interface {
	IsGLES() bool
	MaxVertexAttribs() int
	// SetDefaultState applies blending, culling and pixel store settings once
	// after the context is created.
	SetDefaultState()

	CreateTexture() Texture
	DeleteTexture(t Texture)
	// BindTexture makes unit the active texture unit and binds t to it.
	BindTexture(unit int, t Texture)
	TexParameters(t Texture, wrapS, wrapT WrapMode, minFilter, magFilter FilterMode)
	// TexImage2D (re)specifies the storage of t. A nil data slice allocates
	// uninitialized storage.
	TexImage2D(t Texture, internal InternalFormat, width, height int, format Format, typ NumericType, data []byte)

	CreateFramebuffer() Framebuffer
	DeleteFramebuffer(f Framebuffer)
	BindFramebuffer(f Framebuffer)
	FramebufferTexture2D(f Framebuffer, t Texture)
	FramebufferRenderbuffer(f Framebuffer, r Renderbuffer)
	FramebufferComplete(f Framebuffer) bool
	BlitFramebuffer(src, dst Framebuffer, srcWidth, srcHeight, dstWidth, dstHeight int)
	// ReadPixels returns width*height RGBA8 pixels of f, bottom row first.
	ReadPixels(f Framebuffer, width, height int) []byte

	CreateRenderbuffer() Renderbuffer
	DeleteRenderbuffer(r Renderbuffer)
	// DepthStencilStorage allocates packed depth/stencil storage for r.
	DepthStencilStorage(r Renderbuffer, width, height int)

	CreateProgram() Program
	DeleteProgram(p Program)
	CreateShader(stage ShaderStage) Shader
	DeleteShader(s Shader)
	ShaderSource(s Shader, src string)
	CompileShader(s Shader)
	ShaderCompiled(s Shader) bool
	ShaderInfoLog(s Shader) string
	AttachShader(p Program, s Shader)
	DetachShader(p Program, s Shader)
	LinkProgram(p Program)
	ProgramLinked(p Program) bool
	ProgramInfoLog(p Program) string
	UseProgram(p Program)
	ActiveUniforms(p Program) []ActiveUniform
	GetUniformLocation(p Program, name string) UniformLocation

	Uniform1i(l UniformLocation, v int32)
	Uniform1f(l UniformLocation, v float32)
	Uniform2fv(l UniformLocation, v []float32)
	Uniform3fv(l UniformLocation, v []float32)
	Uniform4fv(l UniformLocation, v []float32)
	UniformMatrix2fv(l UniformLocation, v []float32)
	UniformMatrix3fv(l UniformLocation, v []float32)
	UniformMatrix4fv(l UniformLocation, v []float32)

	Viewport(x, y, width, height int)
	Scissor(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	// Clear clears the color buffer of the bound framebuffer.
	Clear()
	DisableVertexAttribArray(index int)
	// DrawTriangleStrip draws count vertices with no vertex arrays bound.
	DrawTriangleStrip(first, count int)
}
