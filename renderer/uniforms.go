package renderer

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/richinsley/gofragment/graphics"
	"github.com/richinsley/gofragment/inputs"
)

// Value is the current value of a uniform. The concrete type decides both the
// uniform kind it fits and how it is uploaded.
type Value interface {
	Kind() graphics.UniformKind
	upload(dev graphics.Device, loc graphics.UniformLocation, units *int)
}

type (
	Bool  bool
	Int   int32
	Float float32
	Vec2  [2]float32
	Vec3  [3]float32
	Vec4  [4]float32
	// Matrices are column-major.
	Mat2 [4]float32
	Mat3 [9]float32
	Mat4 [16]float32
)

// Sampler binds a PixelBuffer to a sampler2D uniform. A nil or released
// buffer leaves the uniform unbound and consumes no texture unit.
type Sampler struct {
	Buffer *inputs.PixelBuffer
}

func (Bool) Kind() graphics.UniformKind    { return graphics.KindBool }
func (Int) Kind() graphics.UniformKind     { return graphics.KindInt }
func (Float) Kind() graphics.UniformKind   { return graphics.KindFloat }
func (Vec2) Kind() graphics.UniformKind    { return graphics.KindVec2 }
func (Vec3) Kind() graphics.UniformKind    { return graphics.KindVec3 }
func (Vec4) Kind() graphics.UniformKind    { return graphics.KindVec4 }
func (Mat2) Kind() graphics.UniformKind    { return graphics.KindMat2 }
func (Mat3) Kind() graphics.UniformKind    { return graphics.KindMat3 }
func (Mat4) Kind() graphics.UniformKind    { return graphics.KindMat4 }
func (Sampler) Kind() graphics.UniformKind { return graphics.KindSampler2D }

func (v Bool) upload(dev graphics.Device, loc graphics.UniformLocation, _ *int) {
	var i int32
	if v {
		i = 1
	}
	dev.Uniform1i(loc, i)
}

func (v Int) upload(dev graphics.Device, loc graphics.UniformLocation, _ *int) {
	dev.Uniform1i(loc, int32(v))
}

func (v Float) upload(dev graphics.Device, loc graphics.UniformLocation, _ *int) {
	dev.Uniform1f(loc, float32(v))
}

func (v Vec2) upload(dev graphics.Device, loc graphics.UniformLocation, _ *int) {
	dev.Uniform2fv(loc, v[:])
}

func (v Vec3) upload(dev graphics.Device, loc graphics.UniformLocation, _ *int) {
	dev.Uniform3fv(loc, v[:])
}

func (v Vec4) upload(dev graphics.Device, loc graphics.UniformLocation, _ *int) {
	dev.Uniform4fv(loc, v[:])
}

func (v Mat2) upload(dev graphics.Device, loc graphics.UniformLocation, _ *int) {
	dev.UniformMatrix2fv(loc, v[:])
}

func (v Mat3) upload(dev graphics.Device, loc graphics.UniformLocation, _ *int) {
	dev.UniformMatrix3fv(loc, v[:])
}

func (v Mat4) upload(dev graphics.Device, loc graphics.UniformLocation, _ *int) {
	dev.UniformMatrix4fv(loc, v[:])
}

func (v Sampler) upload(dev graphics.Device, loc graphics.UniformLocation, units *int) {
	if !v.Buffer.Live() {
		return
	}
	unit := *units
	dev.BindTexture(unit, v.Buffer.Texture())
	dev.Uniform1i(loc, int32(unit))
	*units = unit + 1
}

// defaultValue returns the zero value for kind, or nil for kinds that are not
// tracked.
func defaultValue(kind graphics.UniformKind) Value {
	switch kind {
	case graphics.KindBool:
		return Bool(false)
	case graphics.KindInt:
		return Int(0)
	case graphics.KindFloat:
		return Float(0)
	case graphics.KindVec2:
		return Vec2{}
	case graphics.KindVec3:
		return Vec3{}
	case graphics.KindVec4:
		return Vec4{}
	case graphics.KindMat2:
		return Mat2{}
	case graphics.KindMat3:
		return Mat3{}
	case graphics.KindMat4:
		return Mat4{}
	case graphics.KindSampler2D:
		return Sampler{}
	}
	return nil
}

// Uniform is one reflected uniform of a linked program.
type Uniform struct {
	Name     string
	Kind     graphics.UniformKind
	Location graphics.UniformLocation
	value    Value
}

// Value returns the value uploaded on the next render.
func (u *Uniform) Value() Value { return u.value }

// Set replaces the value. The value must have the uniform's kind.
func (u *Uniform) Set(v Value) error {
	if v == nil || v.Kind() != u.Kind {
		return fmt.Errorf("%w: %s is %v, got %T", ErrUniformKind, u.Name, u.Kind, v)
	}
	u.value = v
	return nil
}

// Uniforms is the ordered name to uniform map of a Program. Order follows
// program reflection.
type Uniforms struct {
	order  []*Uniform
	byName map[string]*Uniform
}

func newUniforms() *Uniforms {
	return &Uniforms{byName: make(map[string]*Uniform)}
}

// reflectUniforms builds a fresh map from the active uniforms of p. Uniforms
// of untracked kinds are left out.
func reflectUniforms(dev graphics.Device, p graphics.Program) *Uniforms {
	u := newUniforms()
	for _, active := range dev.ActiveUniforms(p) {
		value := defaultValue(active.Kind)
		if value == nil {
			continue
		}
		if _, dup := u.byName[active.Name]; dup {
			continue
		}
		uniform := &Uniform{
			Name:     active.Name,
			Kind:     active.Kind,
			Location: dev.GetUniformLocation(p, active.Name),
			value:    value,
		}
		u.order = append(u.order, uniform)
		u.byName[active.Name] = uniform
	}
	return u
}

// Get returns the uniform called name.
func (u *Uniforms) Get(name string) (*Uniform, bool) {
	uniform, ok := u.byName[name]
	return uniform, ok
}

// Set assigns v to the uniform called name. Names the program does not
// declare are ignored.
func (u *Uniforms) Set(name string, v Value) error {
	uniform, ok := u.byName[name]
	if !ok {
		return nil
	}
	return uniform.Set(v)
}

func (u *Uniforms) Len() int { return len(u.order) }

// Names returns the uniform names in reflection order.
func (u *Uniforms) Names() []string {
	names := make([]string, len(u.order))
	for i, uniform := range u.order {
		names[i] = uniform.Name
	}
	return names
}

// All iterates the uniforms in reflection order.
func (u *Uniforms) All() iter.Seq2[string, *Uniform] {
	return func(yield func(string, *Uniform) bool) {
		for _, uniform := range u.order {
			if !yield(uniform.Name, uniform) {
				return
			}
		}
	}
}

// upload sends every value to the program currently in use. Texture units are
// handed out from 0 in iteration order to samplers holding a live buffer.
func (u *Uniforms) upload(dev graphics.Device) {
	units := 0
	for _, uniform := range u.order {
		uniform.value.upload(dev, uniform.Location, &units)
	}
}

// ParseValue parses comma separated text as a value of kind. Booleans accept
// anything strconv.ParseBool does. Samplers cannot be parsed.
func ParseValue(kind graphics.UniformKind, text string) (Value, error) {
	switch kind {
	case graphics.KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("invalid bool %q: %w", text, err)
		}
		return Bool(b), nil
	case graphics.KindInt:
		i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid int %q: %w", text, err)
		}
		return Int(i), nil
	case graphics.KindSampler2D, graphics.KindUnsupported:
		return nil, fmt.Errorf("%w: cannot parse a %v from text", ErrUniformKind, kind)
	}

	fields := strings.Split(text, ",")
	floats := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid %v component %q: %w", kind, f, err)
		}
		floats[i] = float32(v)
	}

	want := map[graphics.UniformKind]int{
		graphics.KindFloat: 1,
		graphics.KindVec2:  2,
		graphics.KindVec3:  3,
		graphics.KindVec4:  4,
		graphics.KindMat2:  4,
		graphics.KindMat3:  9,
		graphics.KindMat4:  16,
	}[kind]
	if len(floats) != want {
		return nil, fmt.Errorf("%v needs %d components, got %d", kind, want, len(floats))
	}

	switch kind {
	case graphics.KindFloat:
		return Float(floats[0]), nil
	case graphics.KindVec2:
		return Vec2(floats), nil
	case graphics.KindVec3:
		return Vec3(floats), nil
	case graphics.KindVec4:
		return Vec4(floats), nil
	case graphics.KindMat2:
		return Mat2(floats), nil
	case graphics.KindMat3:
		return Mat3(floats), nil
	}
	return Mat4(floats), nil
}
