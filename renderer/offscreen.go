package renderer

import (
	"fmt"
	"image"

	"github.com/richinsley/gofragment/graphics"
)

// DrawingSurface is the off-screen RGBA8 framebuffer direct renders draw
// into. Surfaces present it by blitting or reading it back.
type DrawingSurface struct {
	dev     graphics.Device
	width   int
	height  int
	fbo     graphics.Framebuffer
	texture graphics.Texture
	depth   graphics.Renderbuffer
}

func newDrawingSurface(dev graphics.Device, width, height int) (*DrawingSurface, error) {
	s := &DrawingSurface{
		dev:     dev,
		fbo:     dev.CreateFramebuffer(),
		texture: dev.CreateTexture(),
		depth:   dev.CreateRenderbuffer(),
	}
	dev.TexParameters(s.texture, graphics.WrapClampToEdge, graphics.WrapClampToEdge, graphics.FilterLinear, graphics.FilterLinear)
	s.resize(width, height)
	dev.FramebufferTexture2D(s.fbo, s.texture)
	dev.FramebufferRenderbuffer(s.fbo, s.depth)
	if !dev.FramebufferComplete(s.fbo) {
		s.release()
		return nil, fmt.Errorf("drawing surface %dx%d: %w", width, height, ErrIncompleteFramebuffer)
	}
	return s, nil
}

// resize reallocates the color and depth/stencil storage in place.
func (s *DrawingSurface) resize(width, height int) {
	s.width, s.height = width, height
	s.dev.TexImage2D(s.texture, graphics.InternalRGBA8, width, height, graphics.FormatRGBA, graphics.TypeUnsignedByte, nil)
	s.dev.DepthStencilStorage(s.depth, width, height)
}

func (s *DrawingSurface) release() {
	s.dev.DeleteFramebuffer(s.fbo)
	s.dev.DeleteTexture(s.texture)
	s.dev.DeleteRenderbuffer(s.depth)
}

func (s *DrawingSurface) Width() int                        { return s.width }
func (s *DrawingSurface) Height() int                       { return s.height }
func (s *DrawingSurface) Framebuffer() graphics.Framebuffer { return s.fbo }
func (s *DrawingSurface) Texture() graphics.Texture         { return s.texture }

// Image reads the surface back with the top row first.
func (s *DrawingSurface) Image() (*image.NRGBA, error) {
	return readImage(s.dev, s.fbo, s.width, s.height)
}

func readImage(dev graphics.Device, fbo graphics.Framebuffer, width, height int) (*image.NRGBA, error) {
	pixels := dev.ReadPixels(fbo, width, height)
	rowSize := width * 4
	if len(pixels) != rowSize*height {
		return nil, fmt.Errorf("failed to read %dx%d pixels: got %d bytes", width, height, len(pixels))
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := pixels[(height-1-y)*rowSize:]
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], src[:rowSize])
	}
	return img, nil
}
