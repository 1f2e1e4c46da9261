package renderer

import (
	"fmt"

	"github.com/richinsley/gofragment/graphics"
	"github.com/richinsley/gofragment/shader"
)

// ProgramSettings configures NewProgram. A nil ClearColor means transparent
// black.
type ProgramSettings struct {
	Source     string
	ClearColor *[4]float32
}

// RenderOptions describes a direct draw. Zero sizes default to 640x480 and a
// zero Framebuffer draws into the renderer's drawing surface.
type RenderOptions struct {
	Width       int
	Height      int
	Framebuffer graphics.Framebuffer
}

// Program is a full-screen fragment shader with its reflected uniforms.
type Program struct {
	r          *Renderer
	program    graphics.Program
	vertex     graphics.Shader
	fragment   graphics.Shader
	source     string
	clearColor [4]float32
	uniforms   *Uniforms
	released   bool
}

// NewProgram creates the program with the built-in vertex stage attached and
// applies settings.Source when it is not empty.
func NewProgram(r *Renderer, settings ProgramSettings) (*Program, error) {
	if r == nil {
		return nil, graphics.ErrNoDevice
	}
	dev := r.dev
	vertex, err := compileShader(dev, graphics.StageVertex, shader.VertexShader())
	if err != nil {
		return nil, err
	}

	p := &Program{
		r:        r,
		program:  dev.CreateProgram(),
		vertex:   vertex,
		uniforms: newUniforms(),
	}
	dev.AttachShader(p.program, vertex)
	if settings.ClearColor != nil {
		p.clearColor = *settings.ClearColor
	}

	if settings.Source != "" {
		if err := p.SetSource(settings.Source); err != nil {
			p.Release()
			return nil, err
		}
	}
	return p, nil
}

// compileShader returns a compiled shader object, deleting it again when
// compilation fails.
func compileShader(dev graphics.Device, stage graphics.ShaderStage, source string) (graphics.Shader, error) {
	s := dev.CreateShader(stage)
	dev.ShaderSource(s, source)
	dev.CompileShader(s)
	if !dev.ShaderCompiled(s) {
		log := dev.ShaderInfoLog(s)
		dev.DeleteShader(s)
		return graphics.Shader{}, &graphics.CompileError{Stage: stage, Log: log}
	}
	return s, nil
}

// Source returns the fragment source of the last successful SetSource.
func (p *Program) Source() string { return p.source }

// SetSource replaces the fragment stage and rebuilds the uniform map. The
// previous fragment stage is dropped first, so on a compile or link error the
// program has no fragment stage while the uniform map and Source keep their
// previous contents.
func (p *Program) SetSource(src string) (err error) {
	if p.released {
		return ErrReleased
	}
	dev := p.r.dev

	if p.fragment.Valid() {
		dev.DetachShader(p.program, p.fragment)
		dev.DeleteShader(p.fragment)
		p.fragment = graphics.Shader{}
	}

	fragment, err := compileShader(dev, graphics.StageFragment, shader.GetFragmentShader(src))
	if err != nil {
		return err
	}
	dev.AttachShader(p.program, fragment)
	defer func() {
		if err != nil {
			dev.DetachShader(p.program, fragment)
			dev.DeleteShader(fragment)
		}
	}()

	dev.LinkProgram(p.program)
	if !dev.ProgramLinked(p.program) {
		return &graphics.LinkError{Log: dev.ProgramInfoLog(p.program)}
	}

	p.fragment = fragment
	p.source = src
	p.uniforms = reflectUniforms(dev, p.program)
	return nil
}

// Uniforms returns the uniform map built by the last successful SetSource.
func (p *Program) Uniforms() *Uniforms { return p.uniforms }

func (p *Program) ClearColor() [4]float32 { return p.clearColor }

// SetClearColor sets the color every render clears to before drawing.
func (p *Program) SetClearColor(c [4]float32) { p.clearColor = c }

// Render draws the full-screen quad directly and returns the drawing surface.
func (p *Program) Render(opts RenderOptions) (*DrawingSurface, error) {
	if p.released {
		return nil, ErrReleased
	}
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = DefaultRenderWidth
	}
	if height <= 0 {
		height = DefaultRenderHeight
	}

	surface, err := p.r.resizeSurface(width, height)
	if err != nil {
		return nil, err
	}
	fbo := opts.Framebuffer
	if !fbo.Valid() {
		fbo = surface.Framebuffer()
	}

	dev := p.r.dev
	dev.BindFramebuffer(fbo)
	dev.Viewport(0, 0, width, height)
	dev.Scissor(0, 0, width, height)
	c := p.clearColor
	dev.ClearColor(c[0], c[1], c[2], c[3])
	dev.Clear()

	for i := 0; i < p.r.maxAttribs; i++ {
		dev.DisableVertexAttribArray(i)
	}
	dev.UseProgram(p.program)
	p.uniforms.upload(dev)
	dev.DrawTriangleStrip(0, shader.QuadVertexCount)
	return surface, nil
}

// RenderTo lets t pick the destination and draws into it.
func (p *Program) RenderTo(t *Target) error {
	if p.released {
		return ErrReleased
	}
	if t == nil {
		return fmt.Errorf("render to nil target")
	}
	return t.render(p)
}

// Released reports whether Release has been called.
func (p *Program) Released() bool { return p.released }

// Release deletes both shader stages and the program.
func (p *Program) Release() {
	if p.released {
		return
	}
	dev := p.r.dev
	if p.fragment.Valid() {
		dev.DetachShader(p.program, p.fragment)
		dev.DeleteShader(p.fragment)
		p.fragment = graphics.Shader{}
	}
	dev.DetachShader(p.program, p.vertex)
	dev.DeleteShader(p.vertex)
	dev.DeleteProgram(p.program)
	p.released = true
}
