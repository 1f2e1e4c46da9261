package renderer

import (
	"fmt"
	"image"

	"github.com/richinsley/gofragment/graphics"
	"github.com/richinsley/gofragment/inputs"
)

// AutoWires lists the uniforms a Target fills in before each render.
type AutoWires struct {
	// Resolution sets a vec2 "resolution" uniform to the destination size.
	Resolution bool
}

type TargetSettings struct {
	AutoWires AutoWires
}

// DefaultTargetSettings returns the settings NewTarget callers usually want:
// resolution auto-wiring on.
func DefaultTargetSettings() TargetSettings {
	return TargetSettings{AutoWires: AutoWires{Resolution: true}}
}

// destination is where a Target sends a program's output.
type destination interface {
	size() (int, int)
	render(p *Program) error
	release()
}

// Target routes Program output to a Surface or a PixelBuffer.
type Target struct {
	r        *Renderer
	settings TargetSettings
	dest     destination
	surface  Surface
	buffer   *inputs.PixelBuffer
}

func NewTarget(r *Renderer, settings TargetSettings) *Target {
	return &Target{r: r, settings: settings}
}

func (t *Target) Settings() TargetSettings { return t.settings }

// Surface returns the surface destination, or nil.
func (t *Target) Surface() Surface { return t.surface }

// Buffer returns the PixelBuffer destination, or nil.
func (t *Target) Buffer() *inputs.PixelBuffer { return t.buffer }

// SetSurface makes s the destination. Resources held for a previous buffer
// destination are released first. Surfaces hold no GPU resources, so
// assigning the current surface again just replaces it.
func (t *Target) SetSurface(s Surface) error {
	if s == nil {
		return fmt.Errorf("nil surface")
	}
	t.Release()
	t.surface = s
	t.dest = surfaceDestination{surface: s}
	return nil
}

// SetBuffer makes b the destination, attaching its texture to a new
// framebuffer with a depth/stencil renderbuffer of the same size.
func (t *Target) SetBuffer(b *inputs.PixelBuffer) error {
	if !b.Live() {
		return fmt.Errorf("target buffer: %w", inputs.ErrReleased)
	}
	if t.buffer == b {
		return nil
	}
	t.Release()

	dest, err := newBufferDestination(t.r.dev, b)
	if err != nil {
		return err
	}
	t.buffer = b
	t.dest = dest
	return nil
}

// Release frees whatever the current destination holds and leaves the
// target without a destination.
func (t *Target) Release() {
	if t.dest != nil {
		t.dest.release()
	}
	t.dest = nil
	t.surface = nil
	t.buffer = nil
}

func (t *Target) render(p *Program) error {
	if t.dest == nil {
		return fmt.Errorf("target has no destination")
	}
	if t.settings.AutoWires.Resolution {
		if u, ok := p.Uniforms().Get("resolution"); ok && u.Kind == graphics.KindVec2 {
			w, h := t.dest.size()
			u.value = Vec2{float32(w), float32(h)}
		}
	}
	return t.dest.render(p)
}

// Image reads back the PixelBuffer destination with the top row first.
func (t *Target) Image() (*image.NRGBA, error) {
	dest, ok := t.dest.(*bufferDestination)
	if !ok {
		return nil, fmt.Errorf("target has no buffer destination")
	}
	return readImage(t.r.dev, dest.fbo, dest.buffer.Width(), dest.buffer.Height())
}

type surfaceDestination struct {
	surface Surface
}

func (d surfaceDestination) size() (int, int) { return d.surface.Size() }

// render draws at the surface size. A surface with no area, such as a
// minimized window, gets nothing drawn or presented.
func (d surfaceDestination) render(p *Program) error {
	w, h := d.surface.Size()
	if w <= 0 || h <= 0 {
		return nil
	}
	drawing, err := p.Render(RenderOptions{Width: w, Height: h})
	if err != nil {
		return err
	}
	return d.surface.Present(drawing)
}

func (surfaceDestination) release() {}

type bufferDestination struct {
	dev    graphics.Device
	buffer *inputs.PixelBuffer
	fbo    graphics.Framebuffer
	depth  graphics.Renderbuffer
}

func newBufferDestination(dev graphics.Device, b *inputs.PixelBuffer) (*bufferDestination, error) {
	d := &bufferDestination{dev: dev, buffer: b}
	d.depth = dev.CreateRenderbuffer()
	dev.DepthStencilStorage(d.depth, b.Width(), b.Height())
	d.fbo = dev.CreateFramebuffer()
	dev.FramebufferTexture2D(d.fbo, b.Texture())
	dev.FramebufferRenderbuffer(d.fbo, d.depth)
	if !dev.FramebufferComplete(d.fbo) {
		d.release()
		return nil, fmt.Errorf("target buffer %v/%v: %w", b.Type(), b.Format(), ErrIncompleteFramebuffer)
	}
	return d, nil
}

func (d *bufferDestination) size() (int, int) { return d.buffer.Width(), d.buffer.Height() }

func (d *bufferDestination) render(p *Program) error {
	if !d.buffer.Live() {
		return fmt.Errorf("target buffer: %w", inputs.ErrReleased)
	}
	_, err := p.Render(RenderOptions{Width: d.buffer.Width(), Height: d.buffer.Height(), Framebuffer: d.fbo})
	return err
}

func (d *bufferDestination) release() {
	d.dev.DeleteRenderbuffer(d.depth)
	d.dev.DeleteFramebuffer(d.fbo)
}
