package graphics

import "fmt"

type (
	Object       struct{ V uint32 }
	Texture      Object
	Framebuffer  Object
	Renderbuffer Object
	Shader       Object
	Program      Object
)

// UniformLocation is a uniform slot inside a linked program. -1 means absent.
type UniformLocation struct{ V int32 }

// NoLocation is returned for names that are not active in a program.
var NoLocation = UniformLocation{V: -1}

// DefaultFramebuffer is the framebuffer owned by the host window.
var DefaultFramebuffer = Framebuffer{}

func (t Texture) Valid() bool         { return t.V != 0 }
func (f Framebuffer) Valid() bool     { return f.V != 0 }
func (r Renderbuffer) Valid() bool    { return r.V != 0 }
func (s Shader) Valid() bool          { return s.V != 0 }
func (p Program) Valid() bool         { return p.V != 0 }
func (u UniformLocation) Valid() bool { return u.V != -1 }

// Format is the channel layout of a texture.
type Format int

const (
	FormatRGBA Format = iota
	FormatRed
	FormatRG
	FormatRGB
)

// Channels returns the number of components per pixel.
func (f Format) Channels() int {
	switch f {
	case FormatRed:
		return 1
	case FormatRG:
		return 2
	case FormatRGB:
		return 3
	case FormatRGBA:
		return 4
	}
	return 0
}

func (f Format) String() string {
	switch f {
	case FormatRed:
		return "RED"
	case FormatRG:
		return "RG"
	case FormatRGB:
		return "RGB"
	case FormatRGBA:
		return "RGBA"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// NumericType is the per-component storage type of a texture.
type NumericType int

const (
	TypeFloat NumericType = iota
	TypeUnsignedByte
	TypeHalfFloat
)

// Size returns the number of bytes used by one component.
func (t NumericType) Size() int {
	switch t {
	case TypeUnsignedByte:
		return 1
	case TypeHalfFloat:
		return 2
	case TypeFloat:
		return 4
	}
	return 0
}

func (t NumericType) String() string {
	switch t {
	case TypeUnsignedByte:
		return "UNSIGNED_BYTE"
	case TypeHalfFloat:
		return "HALF_FLOAT"
	case TypeFloat:
		return "FLOAT"
	}
	return fmt.Sprintf("NumericType(%d)", int(t))
}

type WrapMode int

const (
	WrapClampToEdge WrapMode = iota
	WrapRepeat
	WrapMirroredRepeat
)

func (w WrapMode) String() string {
	switch w {
	case WrapClampToEdge:
		return "CLAMP_TO_EDGE"
	case WrapRepeat:
		return "REPEAT"
	case WrapMirroredRepeat:
		return "MIRRORED_REPEAT"
	}
	return fmt.Sprintf("WrapMode(%d)", int(w))
}

type FilterMode int

const (
	FilterLinear FilterMode = iota
	FilterNearest
)

func (f FilterMode) String() string {
	switch f {
	case FilterLinear:
		return "LINEAR"
	case FilterNearest:
		return "NEAREST"
	}
	return fmt.Sprintf("FilterMode(%d)", int(f))
}

// ShaderStage selects the pipeline stage a shader object is compiled for.
type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StageFragment
)

func (s ShaderStage) String() string {
	if s == StageVertex {
		return "vertex"
	}
	return "fragment"
}

// UniformKind is the GLSL type of an active uniform.
type UniformKind int

const (
	KindUnsupported UniformKind = iota
	KindBool
	KindInt
	KindFloat
	KindVec2
	KindVec3
	KindVec4
	KindMat2
	KindMat3
	KindMat4
	KindSampler2D
)

var kindNames = [...]string{
	KindUnsupported: "unsupported",
	KindBool:        "bool",
	KindInt:         "int",
	KindFloat:       "float",
	KindVec2:        "vec2",
	KindVec3:        "vec3",
	KindVec4:        "vec4",
	KindMat2:        "mat2",
	KindMat3:        "mat3",
	KindMat4:        "mat4",
	KindSampler2D:   "sampler2D",
}

func (k UniformKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("UniformKind(%d)", int(k))
}

// KindFromGLSL maps a GLSL type keyword to its kind.
func KindFromGLSL(name string) UniformKind {
	for k, n := range kindNames {
		if n == name && k != int(KindUnsupported) {
			return UniformKind(k)
		}
	}
	return KindUnsupported
}

// ActiveUniform describes one uniform reported by program reflection.
type ActiveUniform struct {
	Name string
	Kind UniformKind
	Size int
}
