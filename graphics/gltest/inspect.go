package gltest

import "github.com/richinsley/gofragment/graphics"

// Counts is a snapshot of live GPU objects.
type Counts struct {
	Textures      int
	Framebuffers  int
	Renderbuffers int
	Shaders       int
	Programs      int
}

// Live returns the number of objects created and not yet deleted. The
// default framebuffer is not counted.
func (d *Device) Live() Counts {
	return Counts{
		Textures:      len(d.textures),
		Framebuffers:  len(d.framebuffers) - 1,
		Renderbuffers: len(d.renderbuffers),
		Shaders:       len(d.shaders),
		Programs:      len(d.programs),
	}
}

// TextureInfo describes the storage last specified for a texture.
type TextureInfo struct {
	Internal  graphics.InternalFormat
	Width     int
	Height    int
	Format    graphics.Format
	Type      graphics.NumericType
	Data      []byte
	WrapS     graphics.WrapMode
	WrapT     graphics.WrapMode
	MinFilter graphics.FilterMode
	MagFilter graphics.FilterMode
	Uploads   int
}

// Texture reports the state of t; ok is false once it has been deleted.
func (d *Device) Texture(t graphics.Texture) (info TextureInfo, ok bool) {
	tex, ok := d.textures[t]
	if !ok {
		return info, false
	}
	return TextureInfo{
		Internal:  tex.internal,
		Width:     tex.width,
		Height:    tex.height,
		Format:    tex.format,
		Type:      tex.typ,
		Data:      tex.data,
		WrapS:     tex.wrapS,
		WrapT:     tex.wrapT,
		MinFilter: tex.minFilter,
		MagFilter: tex.magFilter,
		Uploads:   tex.uploads,
	}, true
}

// HasFramebuffer reports whether f is still alive.
func (d *Device) HasFramebuffer(f graphics.Framebuffer) bool {
	_, ok := d.framebuffers[f]
	return ok
}

// FramebufferAttachments returns the color texture and depth/stencil
// renderbuffer attached to f.
func (d *Device) FramebufferAttachments(f graphics.Framebuffer) (graphics.Texture, graphics.Renderbuffer) {
	if fb, ok := d.framebuffers[f]; ok {
		return fb.color, fb.depth
	}
	return graphics.Texture{}, graphics.Renderbuffer{}
}

// ClearedWith returns the last color f was cleared with.
func (d *Device) ClearedWith(f graphics.Framebuffer) (color [4]float32, ok bool) {
	fb, ok := d.framebuffers[f]
	if !ok || !fb.cleared {
		return color, false
	}
	return fb.clear, true
}

// RenderbufferSize returns the storage size of r.
func (d *Device) RenderbufferSize(r graphics.Renderbuffer) (int, int) {
	s := d.renderbuffers[r]
	return s[0], s[1]
}

// BoundFramebuffer returns the framebuffer bound last.
func (d *Device) BoundFramebuffer() graphics.Framebuffer { return d.boundFB }

// CurrentProgram returns the program in use.
func (d *Device) CurrentProgram() graphics.Program { return d.current }

// Unit returns the texture bound to a texture unit.
func (d *Device) Unit(unit int) (graphics.Texture, bool) {
	t, ok := d.units[unit]
	return t, ok
}

// Units returns the number of texture units with a texture bound.
func (d *Device) Units() int { return len(d.units) }

// LastViewport returns the last viewport rectangle.
func (d *Device) LastViewport() [4]int { return d.viewport }

// LastScissor returns the last scissor rectangle.
func (d *Device) LastScissor() [4]int { return d.scissor }

// LastDraw returns the first vertex and vertex count of the last draw.
func (d *Device) LastDraw() (first, count int) { return d.lastDraw[0], d.lastDraw[1] }

// AttribDisabled reports whether DisableVertexAttribArray ran for index.
func (d *Device) AttribDisabled(index int) bool { return d.disabled[index] }

// UniformValue returns the last value uploaded for name in p, or nil.
func (d *Device) UniformValue(p graphics.Program, name string) any {
	prog, ok := d.programs[p]
	if !ok {
		return nil
	}
	loc, ok := prog.locations[name]
	if !ok {
		return nil
	}
	return prog.values[loc]
}

// Attached returns the shaders attached to p.
func (d *Device) Attached(p graphics.Program) []graphics.Shader {
	if prog, ok := d.programs[p]; ok {
		return append([]graphics.Shader(nil), prog.attached...)
	}
	return nil
}

// ShaderSourceOf returns the source last given to s.
func (d *Device) ShaderSourceOf(s graphics.Shader) string {
	if sh, ok := d.shaders[s]; ok {
		return sh.src
	}
	return ""
}

// Count returns how many times the named method was called.
func (d *Device) Count(name string) int {
	n := 0
	for _, c := range d.Calls {
		if c == name {
			n++
		}
	}
	return n
}

// ResetCalls clears the call log.
func (d *Device) ResetCalls() {
	d.Calls = d.Calls[:0]
	d.Blits = d.Blits[:0]
}
