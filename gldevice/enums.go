package gldevice

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/gofragment/graphics"
)

func glInternalFormat(f graphics.InternalFormat) int32 {
	switch f {
	case graphics.InternalR8:
		return gl.R8
	case graphics.InternalRG8:
		return gl.RG8
	case graphics.InternalRGB8:
		return gl.RGB8
	case graphics.InternalRGBA8:
		return gl.RGBA8
	case graphics.InternalR16F:
		return gl.R16F
	case graphics.InternalRG16F:
		return gl.RG16F
	case graphics.InternalRGB16F:
		return gl.RGB16F
	case graphics.InternalRGBA16F:
		return gl.RGBA16F
	case graphics.InternalR32F:
		return gl.R32F
	case graphics.InternalRG32F:
		return gl.RG32F
	case graphics.InternalRGB32F:
		return gl.RGB32F
	default:
		return gl.RGBA32F
	}
}

func glFormat(f graphics.Format) uint32 {
	switch f {
	case graphics.FormatRed:
		return gl.RED
	case graphics.FormatRG:
		return gl.RG
	case graphics.FormatRGB:
		return gl.RGB
	default:
		return gl.RGBA
	}
}

func glType(t graphics.NumericType) uint32 {
	switch t {
	case graphics.TypeUnsignedByte:
		return gl.UNSIGNED_BYTE
	case graphics.TypeHalfFloat:
		return gl.HALF_FLOAT
	default:
		return gl.FLOAT
	}
}

func glWrap(w graphics.WrapMode) int32 {
	switch w {
	case graphics.WrapRepeat:
		return gl.REPEAT
	case graphics.WrapMirroredRepeat:
		return gl.MIRRORED_REPEAT
	default:
		return gl.CLAMP_TO_EDGE
	}
}

func glFilter(f graphics.FilterMode) int32 {
	if f == graphics.FilterNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

// kindFromGL maps a uniform type reported by glGetActiveUniform. Types the
// renderer cannot upload come back as KindUnsupported and are skipped.
func kindFromGL(xtype uint32) graphics.UniformKind {
	switch xtype {
	case gl.BOOL:
		return graphics.KindBool
	case gl.INT:
		return graphics.KindInt
	case gl.FLOAT:
		return graphics.KindFloat
	case gl.FLOAT_VEC2:
		return graphics.KindVec2
	case gl.FLOAT_VEC3:
		return graphics.KindVec3
	case gl.FLOAT_VEC4:
		return graphics.KindVec4
	case gl.FLOAT_MAT2:
		return graphics.KindMat2
	case gl.FLOAT_MAT3:
		return graphics.KindMat3
	case gl.FLOAT_MAT4:
		return graphics.KindMat4
	case gl.SAMPLER_2D:
		return graphics.KindSampler2D
	}
	return graphics.KindUnsupported
}
