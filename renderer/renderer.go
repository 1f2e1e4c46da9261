package renderer

import (
	"errors"
	"fmt"

	"github.com/richinsley/gofragment/graphics"
)

const (
	DefaultRenderWidth  = 640
	DefaultRenderHeight = 480
)

var (
	// ErrReleased is returned when a released Program or Target is used.
	ErrReleased = errors.New("object released")
	// ErrUniformKind is returned when a uniform is given a value of another kind.
	ErrUniformKind = errors.New("uniform kind mismatch")
	// ErrIncompleteFramebuffer is returned when a PixelBuffer cannot be used
	// as a color attachment.
	ErrIncompleteFramebuffer = errors.New("framebuffer incomplete")
)

// Renderer is the graphics device context shared by every Program and Target
// created from it. It owns the drawing surface that direct renders land in.
type Renderer struct {
	dev        graphics.Device
	maxAttribs int
	surface    *DrawingSurface
}

// New applies the default pipeline state to dev and returns a Renderer. A nil
// device means the host has no usable graphics context.
func New(dev graphics.Device) (*Renderer, error) {
	if dev == nil {
		return nil, graphics.ErrNoDevice
	}
	dev.SetDefaultState()
	return &Renderer{
		dev:        dev,
		maxAttribs: dev.MaxVertexAttribs(),
	}, nil
}

// Device returns the device the renderer draws with.
func (r *Renderer) Device() graphics.Device { return r.dev }

// DrawingSurface returns the current drawing surface, or nil before the first
// render.
func (r *Renderer) DrawingSurface() *DrawingSurface { return r.surface }

// resizeSurface returns a drawing surface of exactly width x height.
func (r *Renderer) resizeSurface(width, height int) (*DrawingSurface, error) {
	if r.surface == nil {
		s, err := newDrawingSurface(r.dev, width, height)
		if err != nil {
			return nil, fmt.Errorf("failed to create drawing surface: %w", err)
		}
		r.surface = s
		return s, nil
	}
	if r.surface.width != width || r.surface.height != height {
		r.surface.resize(width, height)
	}
	return r.surface, nil
}

// Release frees the drawing surface. Programs, Targets and PixelBuffers are
// released by their owners.
func (r *Renderer) Release() {
	if r.surface != nil {
		r.surface.release()
		r.surface = nil
	}
}
