package renderer

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/richinsley/gofragment/graphics"
)

// Surface is a visible destination. Present copies the drawing surface onto
// it, scaling to Size.
type Surface interface {
	Size() (width, height int)
	Present(s *DrawingSurface) error
}

// WindowSurface presents to the default framebuffer of a host window.
// Swapping buffers stays with the caller's frame loop.
type WindowSurface struct {
	host graphics.Context
	dev  graphics.Device
}

func NewWindowSurface(r *Renderer, host graphics.Context) *WindowSurface {
	return &WindowSurface{host: host, dev: r.dev}
}

func (w *WindowSurface) Size() (int, int) { return w.host.GetFramebufferSize() }

func (w *WindowSurface) Present(s *DrawingSurface) error {
	width, height := w.Size()
	w.dev.BlitFramebuffer(s.Framebuffer(), graphics.DefaultFramebuffer, s.Width(), s.Height(), width, height)
	return nil
}

// ImageSurface presents into an in-memory image.
type ImageSurface struct {
	img    *image.NRGBA
	scaler draw.Scaler
}

// NewImageSurface returns a surface backed by a width x height image, scaled
// with bilinear filtering.
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{
		img:    image.NewNRGBA(image.Rect(0, 0, width, height)),
		scaler: draw.BiLinear,
	}
}

// SetScaler replaces the interpolator used when the drawing surface and the
// image differ in size.
func (s *ImageSurface) SetScaler(scaler draw.Scaler) { s.scaler = scaler }

func (s *ImageSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the backing image. It is overwritten by every Present.
func (s *ImageSurface) Image() *image.NRGBA { return s.img }

func (s *ImageSurface) Present(ds *DrawingSurface) error {
	src, err := ds.Image()
	if err != nil {
		return err
	}
	if src.Bounds().Size() == s.img.Bounds().Size() {
		draw.Draw(s.img, s.img.Bounds(), src, image.Point{}, draw.Src)
		return nil
	}
	s.scaler.Scale(s.img, s.img.Bounds(), src, src.Bounds(), draw.Src, nil)
	return nil
}
