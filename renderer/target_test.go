package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/gofragment/graphics"
	"github.com/richinsley/gofragment/graphics/gltest"
	"github.com/richinsley/gofragment/inputs"
)

const resolutionSource = `
uniform vec2 resolution;
void main() {
    fragColor = vec4(gl_FragCoord.xy / resolution, 0.0, 1.0);
}
`

func newBuffer(t *testing.T, dev *gltest.Device, w, h int) *inputs.PixelBuffer {
	t.Helper()
	b, err := inputs.NewPixelBuffer(dev, inputs.PixelBufferOptions{Width: w, Height: h, Type: graphics.TypeUnsignedByte})
	require.NoError(t, err)
	return b
}

func TestTargetBufferAttachments(t *testing.T) {
	r, dev := newTestRenderer(t)
	b := newBuffer(t, dev, 32, 8)

	target := NewTarget(r, DefaultTargetSettings())
	require.NoError(t, target.SetBuffer(b))
	assert.Same(t, b, target.Buffer())
	assert.Nil(t, target.Surface())

	dest := target.dest.(*bufferDestination)
	color, depth := dev.FramebufferAttachments(dest.fbo)
	assert.Equal(t, b.Texture(), color)
	assert.Equal(t, dest.depth, depth)
	w, h := dev.RenderbufferSize(depth)
	assert.Equal(t, 32, w)
	assert.Equal(t, 8, h)
}

func TestTargetRendersIntoBuffer(t *testing.T) {
	r, dev := newTestRenderer(t)
	b := newBuffer(t, dev, 16, 4)
	p := newTestProgram(t, r, resolutionSource)

	target := NewTarget(r, DefaultTargetSettings())
	require.NoError(t, target.SetBuffer(b))
	require.NoError(t, p.RenderTo(target))

	dest := target.dest.(*bufferDestination)
	assert.Equal(t, dest.fbo, dev.BoundFramebuffer())
	assert.Equal(t, [4]int{0, 0, 16, 4}, dev.LastViewport())

	u, _ := p.Uniforms().Get("resolution")
	assert.Equal(t, Vec2{16, 4}, u.Value())
	assert.Equal(t, []float32{16, 4}, dev.UniformValue(p.program, "resolution"))
}

func TestTargetBuffersKeepTheirOwnImages(t *testing.T) {
	r, dev := newTestRenderer(t)
	p := newTestProgram(t, r, solidSource)

	a := NewTarget(r, DefaultTargetSettings())
	require.NoError(t, a.SetBuffer(newBuffer(t, dev, 2, 2)))
	b := NewTarget(r, DefaultTargetSettings())
	require.NoError(t, b.SetBuffer(newBuffer(t, dev, 2, 2)))

	p.SetClearColor([4]float32{1, 0, 0, 1})
	require.NoError(t, p.RenderTo(a))
	p.SetClearColor([4]float32{0, 1, 0, 1})
	require.NoError(t, p.RenderTo(b))

	imgA, err := a.Image()
	require.NoError(t, err)
	imgB, err := b.Image()
	require.NoError(t, err)
	assert.Equal(t, []byte{255, 0, 0, 255}, imgA.Pix[0:4])
	assert.Equal(t, []byte{0, 255, 0, 255}, imgB.Pix[0:4])
}

func TestTargetCyclingBuffersDoesNotLeak(t *testing.T) {
	r, dev := newTestRenderer(t)
	p := newTestProgram(t, r, solidSource)
	bufA := newBuffer(t, dev, 8, 8)
	bufB := newBuffer(t, dev, 4, 4)

	target := NewTarget(r, DefaultTargetSettings())
	require.NoError(t, target.SetBuffer(bufA))
	require.NoError(t, p.RenderTo(target))
	baseline := dev.Live()

	for i := 0; i < 10; i++ {
		require.NoError(t, target.SetBuffer(bufB))
		require.NoError(t, p.RenderTo(target))
		require.NoError(t, target.SetBuffer(bufA))
		require.NoError(t, p.RenderTo(target))
		assert.Equal(t, baseline, dev.Live(), "cycle %d", i)
	}
}

func TestTargetSameBufferIsNoop(t *testing.T) {
	r, dev := newTestRenderer(t)
	b := newBuffer(t, dev, 4, 4)
	target := NewTarget(r, DefaultTargetSettings())
	require.NoError(t, target.SetBuffer(b))
	fbo := target.dest.(*bufferDestination).fbo

	require.NoError(t, target.SetBuffer(b))
	assert.Equal(t, fbo, target.dest.(*bufferDestination).fbo)
	assert.Equal(t, 1, dev.Count("CreateFramebuffer"))
}

func TestTargetSwitchToSurfaceReleasesBuffer(t *testing.T) {
	r, dev := newTestRenderer(t)
	b := newBuffer(t, dev, 4, 4)
	target := NewTarget(r, DefaultTargetSettings())
	require.NoError(t, target.SetBuffer(b))
	require.Equal(t, 1, dev.Live().Framebuffers)

	require.NoError(t, target.SetSurface(NewImageSurface(4, 4)))
	assert.Equal(t, 0, dev.Live().Framebuffers)
	assert.Equal(t, 0, dev.Live().Renderbuffers)
	assert.Nil(t, target.Buffer())
	assert.True(t, b.Live(), "the buffer itself stays with its owner")

	_, err := target.Image()
	assert.Error(t, err)
}

func TestTargetRejectsReleasedBuffer(t *testing.T) {
	r, dev := newTestRenderer(t)
	b := newBuffer(t, dev, 4, 4)
	b.Release()
	target := NewTarget(r, DefaultTargetSettings())
	assert.ErrorIs(t, target.SetBuffer(b), inputs.ErrReleased)
	assert.Zero(t, dev.Count("CreateFramebuffer"))
}

func TestTargetBufferReleasedAfterAssignment(t *testing.T) {
	r, dev := newTestRenderer(t)
	p := newTestProgram(t, r, solidSource)
	b := newBuffer(t, dev, 4, 4)
	target := NewTarget(r, DefaultTargetSettings())
	require.NoError(t, target.SetBuffer(b))
	b.Release()

	assert.ErrorIs(t, p.RenderTo(target), inputs.ErrReleased)
	assert.Zero(t, dev.Draws)
}

func TestTargetWithoutDestination(t *testing.T) {
	r, _ := newTestRenderer(t)
	p := newTestProgram(t, r, solidSource)
	assert.Error(t, p.RenderTo(NewTarget(r, DefaultTargetSettings())))
	assert.Error(t, NewTarget(r, DefaultTargetSettings()).SetSurface(nil))
}

func TestTargetSurfaceAutoWiresResolution(t *testing.T) {
	r, dev := newTestRenderer(t)
	p := newTestProgram(t, r, resolutionSource)
	host := &fakeHost{width: 320, height: 200}

	target := NewTarget(r, DefaultTargetSettings())
	require.NoError(t, target.SetSurface(NewWindowSurface(r, host)))
	require.NoError(t, p.RenderTo(target))

	assert.Equal(t, []float32{320, 200}, dev.UniformValue(p.program, "resolution"))
	assert.Equal(t, [4]int{0, 0, 320, 200}, dev.LastViewport())
	require.Len(t, dev.Blits, 1)
	assert.Equal(t, gltest.Blit{
		Src: r.DrawingSurface().Framebuffer(), Dst: graphics.DefaultFramebuffer,
		SrcWidth: 320, SrcHeight: 200, DstWidth: 320, DstHeight: 200,
	}, dev.Blits[0])
}

func TestTargetAutoWireDisabled(t *testing.T) {
	r, dev := newTestRenderer(t)
	p := newTestProgram(t, r, resolutionSource)

	target := NewTarget(r, TargetSettings{})
	require.NoError(t, target.SetSurface(NewImageSurface(10, 10)))
	require.NoError(t, p.RenderTo(target))
	assert.Equal(t, []float32{0, 0}, dev.UniformValue(p.program, "resolution"))
}

func TestTargetAutoWireSkipsOtherKinds(t *testing.T) {
	r, dev := newTestRenderer(t)
	p := newTestProgram(t, r, "uniform float resolution;\nvoid main() { fragColor = vec4(resolution); }\n")

	target := NewTarget(r, DefaultTargetSettings())
	require.NoError(t, target.SetSurface(NewImageSurface(10, 10)))
	require.NoError(t, p.RenderTo(target))
	assert.Equal(t, float32(0), dev.UniformValue(p.program, "resolution"))
}

func TestReleaseAllReturnsToZero(t *testing.T) {
	r, dev := newTestRenderer(t)
	p := newTestProgram(t, r, resolutionSource)
	b := newBuffer(t, dev, 8, 8)
	target := NewTarget(r, DefaultTargetSettings())
	require.NoError(t, target.SetBuffer(b))
	require.NoError(t, p.RenderTo(target))
	_, err := p.Render(RenderOptions{})
	require.NoError(t, err)

	target.Release()
	target.Release()
	b.Release()
	p.Release()
	r.Release()
	assert.Equal(t, gltest.Counts{}, dev.Live())
}

// sliceSurface is a Surface whose dynamic type cannot be compared with ==.
type sliceSurface struct {
	img *ImageSurface
	log []string
}

func (s sliceSurface) Size() (int, int) { return s.img.Size() }

func (s sliceSurface) Present(d *DrawingSurface) error { return s.img.Present(d) }

func TestTargetSetSurfaceAcceptsUncomparableSurfaces(t *testing.T) {
	r, dev := newTestRenderer(t)
	p := newTestProgram(t, r, solidSource)
	s := sliceSurface{img: NewImageSurface(4, 4)}

	target := NewTarget(r, DefaultTargetSettings())
	require.NotPanics(t, func() {
		require.NoError(t, target.SetSurface(s))
		require.NoError(t, target.SetSurface(s))
	})
	require.NoError(t, p.RenderTo(target))
	assert.Equal(t, 1, dev.Draws)
}

func TestTargetSkipsEmptySurface(t *testing.T) {
	r, dev := newTestRenderer(t)
	p := newTestProgram(t, r, resolutionSource)

	target := NewTarget(r, DefaultTargetSettings())
	require.NoError(t, target.SetSurface(NewWindowSurface(r, &fakeHost{})))
	require.NoError(t, p.RenderTo(target))
	assert.Zero(t, dev.Draws)
	assert.Empty(t, dev.Blits)
	assert.Nil(t, r.DrawingSurface())

	require.NoError(t, target.SetSurface(NewImageSurface(0, 0)))
	require.NoError(t, p.RenderTo(target))
	assert.Zero(t, dev.Draws)
}

func TestRenderToNilTarget(t *testing.T) {
	r, dev := newTestRenderer(t)
	p := newTestProgram(t, r, solidSource)
	assert.Error(t, p.RenderTo(nil))
	assert.Zero(t, dev.Draws)
}
