package inputs

import (
	"errors"
	"fmt"
	"image"

	"github.com/richinsley/gofragment/graphics"
)

const (
	DefaultWidth  = 256
	DefaultHeight = 256
)

var (
	// ErrReleased is returned when a released PixelBuffer is used.
	ErrReleased = errors.New("pixel buffer released")
	// ErrPixelSource is returned when SetData is given data that does not
	// match the buffer's size, format or type.
	ErrPixelSource = errors.New("incompatible pixel source")
)

// Wrap holds the texture wrap mode per axis.
type Wrap struct {
	S, T graphics.WrapMode
}

// Filter holds the minification and magnification filters.
type Filter struct {
	Min, Mag graphics.FilterMode
}

// PixelBufferOptions configures a PixelBuffer. The zero value describes a
// 256x256 RGBA float buffer, clamped on both axes, with linear filtering.
type PixelBufferOptions struct {
	Width  int
	Height int
	Format graphics.Format
	Type   graphics.NumericType
	Wrap   Wrap
	Filter Filter
}

// PixelBuffer owns a single GPU texture of fixed size, format and type. It is
// used both as a render target and as a sampler input.
type PixelBuffer struct {
	dev      graphics.Device
	opts     PixelBufferOptions
	internal graphics.InternalFormat
	texture  graphics.Texture
	released bool
}

// NewPixelBuffer allocates the texture immediately. It fails without touching
// the device when the (type, format) pair has no internal storage format.
func NewPixelBuffer(dev graphics.Device, opts PixelBufferOptions) (*PixelBuffer, error) {
	if dev == nil {
		return nil, graphics.ErrNoDevice
	}
	if opts.Width == 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height == 0 {
		opts.Height = DefaultHeight
	}
	if opts.Width < 0 || opts.Height < 0 {
		return nil, fmt.Errorf("invalid pixel buffer size %dx%d", opts.Width, opts.Height)
	}

	internal, err := graphics.InternalFormatFor(opts.Type, opts.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to create pixel buffer: %w", err)
	}

	b := &PixelBuffer{
		dev:      dev,
		opts:     opts,
		internal: internal,
		texture:  dev.CreateTexture(),
	}
	dev.TexParameters(b.texture, opts.Wrap.S, opts.Wrap.T, opts.Filter.Min, opts.Filter.Mag)
	dev.TexImage2D(b.texture, internal, opts.Width, opts.Height, opts.Format, opts.Type, nil)
	return b, nil
}

// SetData re-uploads the whole texture at its existing size and format. src
// may be nil, []byte (raw texels), []float32, []uint16 (raw half floats) or
// an image.Image with the buffer's dimensions.
func (b *PixelBuffer) SetData(src any) error {
	if b.released {
		return ErrReleased
	}
	data, err := b.encode(src)
	if err != nil {
		return err
	}
	b.dev.TexImage2D(b.texture, b.internal, b.opts.Width, b.opts.Height, b.opts.Format, b.opts.Type, data)
	return nil
}

func (b *PixelBuffer) encode(src any) ([]byte, error) {
	components := b.opts.Width * b.opts.Height * b.opts.Format.Channels()

	switch data := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		if want := components * b.opts.Type.Size(); len(data) != want {
			return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrPixelSource, len(data), want)
		}
		return data, nil
	case []float32:
		if len(data) != components {
			return nil, fmt.Errorf("%w: got %d floats, want %d", ErrPixelSource, len(data), components)
		}
		return encodeFloats(data, b.opts.Type), nil
	case []uint16:
		if b.opts.Type != graphics.TypeHalfFloat {
			return nil, fmt.Errorf("%w: []uint16 needs a %v buffer, have %v", ErrPixelSource, graphics.TypeHalfFloat, b.opts.Type)
		}
		if len(data) != components {
			return nil, fmt.Errorf("%w: got %d halfs, want %d", ErrPixelSource, len(data), components)
		}
		return uint16Bytes(data), nil
	case image.Image:
		size := data.Bounds().Size()
		if size.X != b.opts.Width || size.Y != b.opts.Height {
			return nil, fmt.Errorf("%w: image is %dx%d, buffer is %dx%d", ErrPixelSource, size.X, size.Y, b.opts.Width, b.opts.Height)
		}
		return encodeImage(data, b.opts.Format, b.opts.Type), nil
	}
	return nil, fmt.Errorf("%w: unsupported type %T", ErrPixelSource, src)
}

// Release deletes the texture. Further calls are no-ops.
func (b *PixelBuffer) Release() {
	if b.released {
		return
	}
	b.dev.DeleteTexture(b.texture)
	b.released = true
}

func (b *PixelBuffer) Width() int                        { return b.opts.Width }
func (b *PixelBuffer) Height() int                       { return b.opts.Height }
func (b *PixelBuffer) Format() graphics.Format           { return b.opts.Format }
func (b *PixelBuffer) Type() graphics.NumericType        { return b.opts.Type }
func (b *PixelBuffer) Internal() graphics.InternalFormat { return b.internal }
func (b *PixelBuffer) Options() PixelBufferOptions       { return b.opts }
func (b *PixelBuffer) Texture() graphics.Texture         { return b.texture }
func (b *PixelBuffer) Released() bool                    { return b.released }

// Live reports whether b can still be bound as a sampler.
func (b *PixelBuffer) Live() bool { return b != nil && !b.released }

// PixelBufferOption overrides a FromImage default.
type PixelBufferOption func(*PixelBufferOptions)

func WithType(t graphics.NumericType) PixelBufferOption {
	return func(o *PixelBufferOptions) { o.Type = t }
}

func WithFormat(f graphics.Format) PixelBufferOption {
	return func(o *PixelBufferOptions) { o.Format = f }
}

func WithWrap(s, t graphics.WrapMode) PixelBufferOption {
	return func(o *PixelBufferOptions) { o.Wrap = Wrap{S: s, T: t} }
}

func WithFilter(min, mag graphics.FilterMode) PixelBufferOption {
	return func(o *PixelBufferOptions) { o.Filter = Filter{Min: min, Mag: mag} }
}

// FromImage creates a buffer sized to img and uploads it. Unless overridden
// the buffer stores unsigned byte RGBA.
func FromImage(dev graphics.Device, img image.Image, opts ...PixelBufferOption) (*PixelBuffer, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrPixelSource)
	}
	size := img.Bounds().Size()
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrPixelSource)
	}

	o := PixelBufferOptions{
		Width:  size.X,
		Height: size.Y,
		Format: graphics.FormatRGBA,
		Type:   graphics.TypeUnsignedByte,
	}
	for _, opt := range opts {
		opt(&o)
	}

	b, err := NewPixelBuffer(dev, o)
	if err != nil {
		return nil, err
	}
	if err := b.SetData(img); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}
