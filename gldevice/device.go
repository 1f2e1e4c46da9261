package gldevice

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/gofragment/graphics"
	"github.com/richinsley/gofragment/translator"
)

// Package-level guard so gl.Init() runs once per process.
var (
	glInitOnce sync.Once
	glInitErr  error
)

// Device implements graphics.Device on top of go-gl. Shader sources are
// WebGL2 GLSL ES 3.00 and are translated for the host context before
// compilation.
type Device struct {
	ctx        graphics.Context
	gles       bool
	maxAttribs int
	// Core profiles refuse to draw without a vertex array bound, even when
	// no attributes are read.
	vao uint32

	translateErrs map[graphics.Shader]string
	shaderNames   map[graphics.Shader]map[string]string
	attached      map[graphics.Program][]graphics.Shader
	// mapped -> original, and original -> mapped, per linked program
	reflectNames map[graphics.Program]map[string]string
	lookupNames  map[graphics.Program]map[string]string
}

var _ graphics.Device = (*Device)(nil)

// New makes ctx current, loads the GL entry points and returns a device.
func New(ctx graphics.Context) (*Device, error) {
	if ctx == nil {
		return nil, graphics.ErrNoDevice
	}
	ctx.MakeCurrent()

	glInitOnce.Do(func() {
		glInitErr = gl.Init()
	})
	if glInitErr != nil {
		return nil, fmt.Errorf("%w: failed to initialize OpenGL: %v", graphics.ErrNoDevice, glInitErr)
	}

	d := &Device{
		ctx:           ctx,
		gles:          ctx.IsGLES(),
		translateErrs: make(map[graphics.Shader]string),
		shaderNames:   make(map[graphics.Shader]map[string]string),
		attached:      make(map[graphics.Program][]graphics.Shader),
		reflectNames:  make(map[graphics.Program]map[string]string),
		lookupNames:   make(map[graphics.Program]map[string]string),
	}

	var maxAttribs int32
	gl.GetIntegerv(gl.MAX_VERTEX_ATTRIBS, &maxAttribs)
	d.maxAttribs = int(maxAttribs)

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	log.Printf("OpenGL %s on %s (max vertex attribs %d)",
		gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)), d.maxAttribs)
	return d, nil
}

// Destroy releases the objects owned by the device itself.
func (d *Device) Destroy() {
	gl.DeleteVertexArrays(1, &d.vao)
}

func (d *Device) IsGLES() bool          { return d.gles }
func (d *Device) MaxVertexAttribs() int { return d.maxAttribs }

func (d *Device) SetDefaultState() {
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.Disable(gl.STENCIL_TEST)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
}

// ─────────────────────────────── Textures ───────────────────────────────

func (d *Device) CreateTexture() graphics.Texture {
	var t uint32
	gl.GenTextures(1, &t)
	return graphics.Texture{V: t}
}

func (d *Device) DeleteTexture(t graphics.Texture) {
	gl.DeleteTextures(1, &t.V)
}

func (d *Device) BindTexture(unit int, t graphics.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, t.V)
}

func (d *Device) TexParameters(t graphics.Texture, wrapS, wrapT graphics.WrapMode, minFilter, magFilter graphics.FilterMode) {
	gl.BindTexture(gl.TEXTURE_2D, t.V)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap(wrapS))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap(wrapT))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(magFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(minFilter))
}

func (d *Device) TexImage2D(t graphics.Texture, internal graphics.InternalFormat, width, height int, format graphics.Format, typ graphics.NumericType, data []byte) {
	gl.BindTexture(gl.TEXTURE_2D, t.V)
	var pixels unsafe.Pointer
	if len(data) > 0 {
		pixels = gl.Ptr(data)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, glInternalFormat(internal), int32(width), int32(height), 0, glFormat(format), glType(typ), pixels)
}

// ───────────────────────────── Framebuffers ─────────────────────────────

func (d *Device) CreateFramebuffer() graphics.Framebuffer {
	var f uint32
	gl.GenFramebuffers(1, &f)
	return graphics.Framebuffer{V: f}
}

func (d *Device) DeleteFramebuffer(f graphics.Framebuffer) {
	gl.DeleteFramebuffers(1, &f.V)
}

func (d *Device) BindFramebuffer(f graphics.Framebuffer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, f.V)
}

func (d *Device) FramebufferTexture2D(f graphics.Framebuffer, t graphics.Texture) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, f.V)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.V, 0)
}

func (d *Device) FramebufferRenderbuffer(f graphics.Framebuffer, r graphics.Renderbuffer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, f.V)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, r.V)
}

func (d *Device) FramebufferComplete(f graphics.Framebuffer) bool {
	gl.BindFramebuffer(gl.FRAMEBUFFER, f.V)
	return gl.CheckFramebufferStatus(gl.FRAMEBUFFER) == gl.FRAMEBUFFER_COMPLETE
}

func (d *Device) BlitFramebuffer(src, dst graphics.Framebuffer, srcWidth, srcHeight, dstWidth, dstHeight int) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, src.V)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, dst.V)
	gl.BlitFramebuffer(0, 0, int32(srcWidth), int32(srcHeight), 0, 0, int32(dstWidth), int32(dstHeight), gl.COLOR_BUFFER_BIT, gl.LINEAR)
	gl.BindFramebuffer(gl.FRAMEBUFFER, dst.V)
}

func (d *Device) ReadPixels(f graphics.Framebuffer, width, height int) []byte {
	pixels := make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, f.V)
	if f.Valid() {
		gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	} else {
		gl.ReadBuffer(gl.BACK)
	}
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pixels[0]))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return pixels
}

func (d *Device) CreateRenderbuffer() graphics.Renderbuffer {
	var r uint32
	gl.GenRenderbuffers(1, &r)
	return graphics.Renderbuffer{V: r}
}

func (d *Device) DeleteRenderbuffer(r graphics.Renderbuffer) {
	gl.DeleteRenderbuffers(1, &r.V)
}

func (d *Device) DepthStencilStorage(r graphics.Renderbuffer, width, height int) {
	gl.BindRenderbuffer(gl.RENDERBUFFER, r.V)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, int32(width), int32(height))
}

// ─────────────────────────── Shaders & programs ──────────────────────────

func (d *Device) CreateProgram() graphics.Program {
	return graphics.Program{V: gl.CreateProgram()}
}

func (d *Device) DeleteProgram(p graphics.Program) {
	gl.DeleteProgram(p.V)
	delete(d.attached, p)
	delete(d.reflectNames, p)
	delete(d.lookupNames, p)
}

func (d *Device) CreateShader(stage graphics.ShaderStage) graphics.Shader {
	typ := uint32(gl.FRAGMENT_SHADER)
	if stage == graphics.StageVertex {
		typ = gl.VERTEX_SHADER
	}
	return graphics.Shader{V: gl.CreateShader(typ)}
}

func (d *Device) DeleteShader(s graphics.Shader) {
	gl.DeleteShader(s.V)
	delete(d.translateErrs, s)
	delete(d.shaderNames, s)
}

func (d *Device) shaderStage(s graphics.Shader) graphics.ShaderStage {
	var typ int32
	gl.GetShaderiv(s.V, gl.SHADER_TYPE, &typ)
	if typ == gl.VERTEX_SHADER {
		return graphics.StageVertex
	}
	return graphics.StageFragment
}

// ShaderSource translates src for the current context. A translation failure
// is reported by the following compile.
func (d *Device) ShaderSource(s graphics.Shader, src string) {
	delete(d.translateErrs, s)
	res, err := translator.Translate(src, d.shaderStage(s).String(), d.gles)
	if err != nil {
		d.translateErrs[s] = err.Error()
		d.shaderNames[s] = nil
		return
	}
	d.shaderNames[s] = res.Names

	csources, free := gl.Strs(res.Code + "\x00")
	gl.ShaderSource(s.V, 1, csources, nil)
	free()
}

func (d *Device) CompileShader(s graphics.Shader) {
	if _, failed := d.translateErrs[s]; failed {
		return
	}
	gl.CompileShader(s.V)
}

func (d *Device) ShaderCompiled(s graphics.Shader) bool {
	if _, failed := d.translateErrs[s]; failed {
		return false
	}
	var status int32
	gl.GetShaderiv(s.V, gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (d *Device) ShaderInfoLog(s graphics.Shader) string {
	if msg, failed := d.translateErrs[s]; failed {
		return msg
	}
	var logLength int32
	gl.GetShaderiv(s.V, gl.INFO_LOG_LENGTH, &logLength)
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(s.V, logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (d *Device) AttachShader(p graphics.Program, s graphics.Shader) {
	gl.AttachShader(p.V, s.V)
	d.attached[p] = append(d.attached[p], s)
}

func (d *Device) DetachShader(p graphics.Program, s graphics.Shader) {
	gl.DetachShader(p.V, s.V)
	list := d.attached[p]
	for i, a := range list {
		if a == s {
			d.attached[p] = append(list[:i], list[i+1:]...)
			break
		}
	}
}

func (d *Device) LinkProgram(p graphics.Program) {
	gl.LinkProgram(p.V)

	reflect := make(map[string]string)
	lookup := make(map[string]string)
	for _, s := range d.attached[p] {
		for mapped, original := range d.shaderNames[s] {
			reflect[mapped] = original
			lookup[original] = mapped
		}
	}
	d.reflectNames[p] = reflect
	d.lookupNames[p] = lookup
}

func (d *Device) ProgramLinked(p graphics.Program) bool {
	var status int32
	gl.GetProgramiv(p.V, gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (d *Device) ProgramInfoLog(p graphics.Program) string {
	var logLength int32
	gl.GetProgramiv(p.V, gl.INFO_LOG_LENGTH, &logLength)
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(p.V, logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (d *Device) UseProgram(p graphics.Program) {
	gl.UseProgram(p.V)
}

func (d *Device) ActiveUniforms(p graphics.Program) []graphics.ActiveUniform {
	var count, maxLength int32
	gl.GetProgramiv(p.V, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(p.V, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLength)
	if count == 0 {
		return nil
	}

	names := d.reflectNames[p]
	buf := make([]uint8, maxLength+1)
	out := make([]graphics.ActiveUniform, 0, count)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(p.V, uint32(i), maxLength+1, &length, &size, &xtype, &buf[0])
		out = append(out, graphics.ActiveUniform{
			Name: originalName(names, string(buf[:length])),
			Kind: kindFromGL(xtype),
			Size: int(size),
		})
	}
	return out
}

// originalName undoes the translator's renaming, keeping any "[0]" suffix
// reported for arrays.
func originalName(names map[string]string, reported string) string {
	base, suffix := reported, ""
	if i := strings.IndexByte(reported, '['); i >= 0 {
		base, suffix = reported[:i], reported[i:]
	}
	if original, ok := names[base]; ok {
		return original + suffix
	}
	return reported
}

func (d *Device) GetUniformLocation(p graphics.Program, name string) graphics.UniformLocation {
	mapped := originalName(d.lookupNames[p], name)
	return graphics.UniformLocation{V: gl.GetUniformLocation(p.V, gl.Str(mapped+"\x00"))}
}

// ─────────────────────────────── Uniforms ───────────────────────────────

func (d *Device) Uniform1i(l graphics.UniformLocation, v int32)   { gl.Uniform1i(l.V, v) }
func (d *Device) Uniform1f(l graphics.UniformLocation, v float32) { gl.Uniform1f(l.V, v) }

func (d *Device) Uniform2fv(l graphics.UniformLocation, v []float32) {
	if len(v) >= 2 {
		gl.Uniform2fv(l.V, 1, &v[0])
	}
}

func (d *Device) Uniform3fv(l graphics.UniformLocation, v []float32) {
	if len(v) >= 3 {
		gl.Uniform3fv(l.V, 1, &v[0])
	}
}

func (d *Device) Uniform4fv(l graphics.UniformLocation, v []float32) {
	if len(v) >= 4 {
		gl.Uniform4fv(l.V, 1, &v[0])
	}
}

func (d *Device) UniformMatrix2fv(l graphics.UniformLocation, v []float32) {
	if len(v) >= 4 {
		gl.UniformMatrix2fv(l.V, 1, false, &v[0])
	}
}

func (d *Device) UniformMatrix3fv(l graphics.UniformLocation, v []float32) {
	if len(v) >= 9 {
		gl.UniformMatrix3fv(l.V, 1, false, &v[0])
	}
}

func (d *Device) UniformMatrix4fv(l graphics.UniformLocation, v []float32) {
	if len(v) >= 16 {
		gl.UniformMatrix4fv(l.V, 1, false, &v[0])
	}
}

// ──────────────────────────────── Drawing ────────────────────────────────

func (d *Device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) Scissor(x, y, width, height int) {
	gl.Scissor(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (d *Device) Clear() { gl.Clear(gl.COLOR_BUFFER_BIT) }

func (d *Device) DisableVertexAttribArray(index int) {
	gl.DisableVertexAttribArray(uint32(index))
}

func (d *Device) DrawTriangleStrip(first, count int) {
	gl.BindVertexArray(d.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, int32(first), int32(count))
}
