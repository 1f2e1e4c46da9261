// Package gltest provides an in-memory graphics.Device that records the
// calls made against it. It compiles nothing: shader "compilation" checks
// for obvious syntax problems and reflection parses uniform declarations
// straight out of the source text.
package gltest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/richinsley/gofragment/graphics"
)

type texture struct {
	internal  graphics.InternalFormat
	width     int
	height    int
	format    graphics.Format
	typ       graphics.NumericType
	data      []byte
	wrapS     graphics.WrapMode
	wrapT     graphics.WrapMode
	minFilter graphics.FilterMode
	magFilter graphics.FilterMode
	uploads   int
}

type framebuffer struct {
	color   graphics.Texture
	depth   graphics.Renderbuffer
	clear   [4]float32
	cleared bool
}

type shader struct {
	stage    graphics.ShaderStage
	src      string
	compiled bool
	log      string
}

type program struct {
	attached  []graphics.Shader
	linked    bool
	log       string
	uniforms  []graphics.ActiveUniform
	locations map[string]int32
	values    map[int32]any
}

// Blit records one BlitFramebuffer call.
type Blit struct {
	Src, Dst            graphics.Framebuffer
	SrcWidth, SrcHeight int
	DstWidth, DstHeight int
}

// Device is a fake graphics.Device. The zero value is not usable; call New.
type Device struct {
	GLES       bool
	MaxAttribs int

	// Calls lists the name of every Device method invoked, in order.
	Calls []string
	// Blits lists every BlitFramebuffer call.
	Blits []Blit
	// Draws counts DrawTriangleStrip calls.
	Draws int
	// DefaultState is set once SetDefaultState has run.
	DefaultState bool

	next          uint32
	textures      map[graphics.Texture]*texture
	framebuffers  map[graphics.Framebuffer]*framebuffer
	renderbuffers map[graphics.Renderbuffer][2]int
	shaders       map[graphics.Shader]*shader
	programs      map[graphics.Program]*program

	boundFB    graphics.Framebuffer
	current    graphics.Program
	units      map[int]graphics.Texture
	clearColor [4]float32
	viewport   [4]int
	scissor    [4]int
	disabled   map[int]bool
	lastDraw   [2]int
}

// New returns an empty fake device.
func New() *Device {
	return &Device{
		MaxAttribs:    16,
		textures:      make(map[graphics.Texture]*texture),
		framebuffers:  map[graphics.Framebuffer]*framebuffer{graphics.DefaultFramebuffer: {}},
		renderbuffers: make(map[graphics.Renderbuffer][2]int),
		shaders:       make(map[graphics.Shader]*shader),
		programs:      make(map[graphics.Program]*program),
		units:         make(map[int]graphics.Texture),
		disabled:      make(map[int]bool),
	}
}

var _ graphics.Device = (*Device)(nil)

func (d *Device) record(name string) { d.Calls = append(d.Calls, name) }

func (d *Device) id() uint32 {
	d.next++
	return d.next
}

func (d *Device) IsGLES() bool { return d.GLES }

func (d *Device) MaxVertexAttribs() int { return d.MaxAttribs }

func (d *Device) SetDefaultState() {
	d.record("SetDefaultState")
	d.DefaultState = true
}

func (d *Device) CreateTexture() graphics.Texture {
	d.record("CreateTexture")
	t := graphics.Texture{V: d.id()}
	d.textures[t] = &texture{}
	return t
}

func (d *Device) DeleteTexture(t graphics.Texture) {
	d.record("DeleteTexture")
	delete(d.textures, t)
	for unit, bound := range d.units {
		if bound == t {
			delete(d.units, unit)
		}
	}
}

func (d *Device) BindTexture(unit int, t graphics.Texture) {
	d.record("BindTexture")
	d.units[unit] = t
}

func (d *Device) TexParameters(t graphics.Texture, wrapS, wrapT graphics.WrapMode, minFilter, magFilter graphics.FilterMode) {
	d.record("TexParameters")
	if tex, ok := d.textures[t]; ok {
		tex.wrapS, tex.wrapT = wrapS, wrapT
		tex.minFilter, tex.magFilter = minFilter, magFilter
	}
}

func (d *Device) TexImage2D(t graphics.Texture, internal graphics.InternalFormat, width, height int, format graphics.Format, typ graphics.NumericType, data []byte) {
	d.record("TexImage2D")
	tex, ok := d.textures[t]
	if !ok {
		return
	}
	tex.internal = internal
	tex.width, tex.height = width, height
	tex.format, tex.typ = format, typ
	tex.data = append([]byte(nil), data...)
	tex.uploads++
}

func (d *Device) CreateFramebuffer() graphics.Framebuffer {
	d.record("CreateFramebuffer")
	f := graphics.Framebuffer{V: d.id()}
	d.framebuffers[f] = &framebuffer{}
	return f
}

func (d *Device) DeleteFramebuffer(f graphics.Framebuffer) {
	d.record("DeleteFramebuffer")
	if f.Valid() {
		delete(d.framebuffers, f)
	}
}

func (d *Device) BindFramebuffer(f graphics.Framebuffer) {
	d.record("BindFramebuffer")
	d.boundFB = f
}

func (d *Device) FramebufferTexture2D(f graphics.Framebuffer, t graphics.Texture) {
	d.record("FramebufferTexture2D")
	if fb, ok := d.framebuffers[f]; ok {
		fb.color = t
	}
}

func (d *Device) FramebufferRenderbuffer(f graphics.Framebuffer, r graphics.Renderbuffer) {
	d.record("FramebufferRenderbuffer")
	if fb, ok := d.framebuffers[f]; ok {
		fb.depth = r
	}
}

func (d *Device) FramebufferComplete(f graphics.Framebuffer) bool {
	fb, ok := d.framebuffers[f]
	if !ok {
		return false
	}
	if !f.Valid() {
		return true
	}
	_, hasColor := d.textures[fb.color]
	return hasColor
}

func (d *Device) BlitFramebuffer(src, dst graphics.Framebuffer, srcWidth, srcHeight, dstWidth, dstHeight int) {
	d.record("BlitFramebuffer")
	d.Blits = append(d.Blits, Blit{src, dst, srcWidth, srcHeight, dstWidth, dstHeight})
	if s, ok := d.framebuffers[src]; ok {
		if t, ok := d.framebuffers[dst]; ok {
			t.clear, t.cleared = s.clear, s.cleared
		}
	}
}

// ReadPixels returns the framebuffer filled with its last clear color.
func (d *Device) ReadPixels(f graphics.Framebuffer, width, height int) []byte {
	d.record("ReadPixels")
	out := make([]byte, width*height*4)
	fb, ok := d.framebuffers[f]
	if !ok {
		return out
	}
	var px [4]byte
	for i, c := range fb.clear {
		px[i] = toByte(c)
	}
	for i := 0; i < len(out); i += 4 {
		copy(out[i:i+4], px[:])
	}
	return out
}

func toByte(c float32) byte {
	switch {
	case c <= 0:
		return 0
	case c >= 1:
		return 255
	}
	return byte(c*255 + 0.5)
}

func (d *Device) CreateRenderbuffer() graphics.Renderbuffer {
	d.record("CreateRenderbuffer")
	r := graphics.Renderbuffer{V: d.id()}
	d.renderbuffers[r] = [2]int{}
	return r
}

func (d *Device) DeleteRenderbuffer(r graphics.Renderbuffer) {
	d.record("DeleteRenderbuffer")
	delete(d.renderbuffers, r)
}

func (d *Device) DepthStencilStorage(r graphics.Renderbuffer, width, height int) {
	d.record("DepthStencilStorage")
	if _, ok := d.renderbuffers[r]; ok {
		d.renderbuffers[r] = [2]int{width, height}
	}
}

func (d *Device) CreateProgram() graphics.Program {
	d.record("CreateProgram")
	p := graphics.Program{V: d.id()}
	d.programs[p] = &program{}
	return p
}

func (d *Device) DeleteProgram(p graphics.Program) {
	d.record("DeleteProgram")
	delete(d.programs, p)
	if d.current == p {
		d.current = graphics.Program{}
	}
}

func (d *Device) CreateShader(stage graphics.ShaderStage) graphics.Shader {
	d.record("CreateShader")
	s := graphics.Shader{V: d.id()}
	d.shaders[s] = &shader{stage: stage}
	return s
}

func (d *Device) DeleteShader(s graphics.Shader) {
	d.record("DeleteShader")
	delete(d.shaders, s)
}

func (d *Device) ShaderSource(s graphics.Shader, src string) {
	d.record("ShaderSource")
	if sh, ok := d.shaders[s]; ok {
		sh.src = src
	}
}

func (d *Device) CompileShader(s graphics.Shader) {
	d.record("CompileShader")
	sh, ok := d.shaders[s]
	if !ok {
		return
	}
	sh.log = checkSyntax(sh.src)
	sh.compiled = sh.log == ""
}

func checkSyntax(src string) string {
	for n, line := range strings.Split(src, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#error") {
			return fmt.Sprintf("ERROR: 0:%d: '#error' : %s\n", n+1, strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "#error")))
		}
	}
	if strings.Count(src, "{") != strings.Count(src, "}") {
		return "ERROR: 0:1: '' : syntax error: unbalanced braces\n"
	}
	if strings.Count(src, "(") != strings.Count(src, ")") {
		return "ERROR: 0:1: '' : syntax error: unbalanced parentheses\n"
	}
	return ""
}

func (d *Device) ShaderCompiled(s graphics.Shader) bool {
	sh, ok := d.shaders[s]
	return ok && sh.compiled
}

func (d *Device) ShaderInfoLog(s graphics.Shader) string {
	if sh, ok := d.shaders[s]; ok {
		return sh.log
	}
	return ""
}

func (d *Device) AttachShader(p graphics.Program, s graphics.Shader) {
	d.record("AttachShader")
	if prog, ok := d.programs[p]; ok {
		prog.attached = append(prog.attached, s)
	}
}

func (d *Device) DetachShader(p graphics.Program, s graphics.Shader) {
	d.record("DetachShader")
	prog, ok := d.programs[p]
	if !ok {
		return
	}
	for i, a := range prog.attached {
		if a == s {
			prog.attached = append(prog.attached[:i], prog.attached[i+1:]...)
			return
		}
	}
}

var uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*(\[\s*(\d+)\s*\])?\s*;`)

func (d *Device) LinkProgram(p graphics.Program) {
	d.record("LinkProgram")
	prog, ok := d.programs[p]
	if !ok {
		return
	}
	prog.linked = false
	prog.uniforms = nil
	prog.locations = make(map[string]int32)
	prog.values = make(map[int32]any)

	var vertex, fragment *shader
	for _, s := range prog.attached {
		sh, ok := d.shaders[s]
		if !ok || !sh.compiled {
			prog.log = "ERROR: one or more attached shaders not successfully compiled\n"
			return
		}
		if sh.stage == graphics.StageVertex {
			vertex = sh
		} else {
			fragment = sh
		}
	}
	if vertex == nil || fragment == nil {
		prog.log = "ERROR: program requires a vertex and a fragment shader\n"
		return
	}
	if !strings.Contains(fragment.src, "main(") {
		prog.log = "ERROR: Fragment shader function main() is not defined\n"
		return
	}

	seen := map[string]bool{}
	for _, sh := range []*shader{vertex, fragment} {
		for _, m := range uniformDecl.FindAllStringSubmatch(sh.src, -1) {
			name := m[2]
			size := 1
			if m[3] != "" {
				name += "[0]"
				fmt.Sscanf(m[4], "%d", &size)
			}
			if seen[name] {
				continue
			}
			seen[name] = true
			prog.locations[name] = int32(len(prog.uniforms))
			prog.uniforms = append(prog.uniforms, graphics.ActiveUniform{
				Name: name,
				Kind: graphics.KindFromGLSL(m[1]),
				Size: size,
			})
		}
	}
	prog.linked = true
	prog.log = ""
}

func (d *Device) ProgramLinked(p graphics.Program) bool {
	prog, ok := d.programs[p]
	return ok && prog.linked
}

func (d *Device) ProgramInfoLog(p graphics.Program) string {
	if prog, ok := d.programs[p]; ok {
		return prog.log
	}
	return ""
}

func (d *Device) UseProgram(p graphics.Program) {
	d.record("UseProgram")
	d.current = p
}

func (d *Device) ActiveUniforms(p graphics.Program) []graphics.ActiveUniform {
	if prog, ok := d.programs[p]; ok && prog.linked {
		return append([]graphics.ActiveUniform(nil), prog.uniforms...)
	}
	return nil
}

func (d *Device) GetUniformLocation(p graphics.Program, name string) graphics.UniformLocation {
	prog, ok := d.programs[p]
	if !ok || !prog.linked {
		return graphics.NoLocation
	}
	if loc, ok := prog.locations[name]; ok {
		return graphics.UniformLocation{V: loc}
	}
	return graphics.NoLocation
}

func (d *Device) setUniform(name string, l graphics.UniformLocation, v any) {
	d.record(name)
	prog, ok := d.programs[d.current]
	if !ok || !l.Valid() {
		return
	}
	prog.values[l.V] = v
}

func (d *Device) Uniform1i(l graphics.UniformLocation, v int32) { d.setUniform("Uniform1i", l, v) }

func (d *Device) Uniform1f(l graphics.UniformLocation, v float32) { d.setUniform("Uniform1f", l, v) }

func (d *Device) Uniform2fv(l graphics.UniformLocation, v []float32) {
	d.setUniform("Uniform2fv", l, append([]float32(nil), v...))
}

func (d *Device) Uniform3fv(l graphics.UniformLocation, v []float32) {
	d.setUniform("Uniform3fv", l, append([]float32(nil), v...))
}

func (d *Device) Uniform4fv(l graphics.UniformLocation, v []float32) {
	d.setUniform("Uniform4fv", l, append([]float32(nil), v...))
}

func (d *Device) UniformMatrix2fv(l graphics.UniformLocation, v []float32) {
	d.setUniform("UniformMatrix2fv", l, append([]float32(nil), v...))
}

func (d *Device) UniformMatrix3fv(l graphics.UniformLocation, v []float32) {
	d.setUniform("UniformMatrix3fv", l, append([]float32(nil), v...))
}

func (d *Device) UniformMatrix4fv(l graphics.UniformLocation, v []float32) {
	d.setUniform("UniformMatrix4fv", l, append([]float32(nil), v...))
}

func (d *Device) Viewport(x, y, width, height int) {
	d.record("Viewport")
	d.viewport = [4]int{x, y, width, height}
}

func (d *Device) Scissor(x, y, width, height int) {
	d.record("Scissor")
	d.scissor = [4]int{x, y, width, height}
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.record("ClearColor")
	d.clearColor = [4]float32{r, g, b, a}
}

func (d *Device) Clear() {
	d.record("Clear")
	if fb, ok := d.framebuffers[d.boundFB]; ok {
		fb.clear = d.clearColor
		fb.cleared = true
	}
}

func (d *Device) DisableVertexAttribArray(index int) {
	d.disabled[index] = true
}

func (d *Device) DrawTriangleStrip(first, count int) {
	d.record("DrawTriangleStrip")
	d.Draws++
	d.lastDraw = [2]int{first, count}
}
