package graphics

import "fmt"

// InternalFormat is the GPU-side storage layout of a texture.
type InternalFormat int

const (
	InternalNone InternalFormat = iota
	InternalR8
	InternalRG8
	InternalRGB8
	InternalRGBA8
	InternalR16F
	InternalRG16F
	InternalRGB16F
	InternalRGBA16F
	InternalR32F
	InternalRG32F
	InternalRGB32F
	InternalRGBA32F
)

var internalFormats = map[NumericType]map[Format]InternalFormat{
	TypeUnsignedByte: {
		FormatRed:  InternalR8,
		FormatRG:   InternalRG8,
		FormatRGB:  InternalRGB8,
		FormatRGBA: InternalRGBA8,
	},
	TypeHalfFloat: {
		FormatRed:  InternalR16F,
		FormatRG:   InternalRG16F,
		FormatRGB:  InternalRGB16F,
		FormatRGBA: InternalRGBA16F,
	},
	TypeFloat: {
		FormatRed:  InternalR32F,
		FormatRG:   InternalRG32F,
		FormatRGB:  InternalRGB32F,
		FormatRGBA: InternalRGBA32F,
	},
}

// InternalFormatFor returns the storage format for a (type, format) pair.
func InternalFormatFor(typ NumericType, format Format) (InternalFormat, error) {
	if byFormat, ok := internalFormats[typ]; ok {
		if internal, ok := byFormat[format]; ok {
			return internal, nil
		}
	}
	return InternalNone, fmt.Errorf("%w: %v/%v", ErrUnsupportedFormat, typ, format)
}

func (f InternalFormat) String() string {
	switch f {
	case InternalR8:
		return "R8"
	case InternalRG8:
		return "RG8"
	case InternalRGB8:
		return "RGB8"
	case InternalRGBA8:
		return "RGBA8"
	case InternalR16F:
		return "R16F"
	case InternalRG16F:
		return "RG16F"
	case InternalRGB16F:
		return "RGB16F"
	case InternalRGBA16F:
		return "RGBA16F"
	case InternalR32F:
		return "R32F"
	case InternalRG32F:
		return "RG32F"
	case InternalRGB32F:
		return "RGB32F"
	case InternalRGBA32F:
		return "RGBA32F"
	}
	return fmt.Sprintf("InternalFormat(%d)", int(f))
}
