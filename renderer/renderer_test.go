package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/gofragment/graphics"
	"github.com/richinsley/gofragment/graphics/gltest"
)

const solidSource = `
void main() {
    fragColor = vec4(uv, 0.0, 1.0);
}
`

// fakeHost is a window that never closes.
type fakeHost struct {
	width, height int
}

func (h *fakeHost) MakeCurrent()                   {}
func (h *fakeHost) Shutdown()                      {}
func (h *fakeHost) ShouldClose() bool              { return false }
func (h *fakeHost) EndFrame()                      {}
func (h *fakeHost) GetFramebufferSize() (int, int) { return h.width, h.height }
func (h *fakeHost) Time() float64                  { return 0 }
func (h *fakeHost) IsGLES() bool                   { return false }

func newTestRenderer(t *testing.T) (*Renderer, *gltest.Device) {
	t.Helper()
	dev := gltest.New()
	r, err := New(dev)
	require.NoError(t, err)
	return r, dev
}

func newTestProgram(t *testing.T, r *Renderer, source string) *Program {
	t.Helper()
	p, err := NewProgram(r, ProgramSettings{Source: source})
	require.NoError(t, err)
	return p
}

func TestNewRequiresDevice(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, graphics.ErrNoDevice)

	_, err = NewProgram(nil, ProgramSettings{})
	assert.ErrorIs(t, err, graphics.ErrNoDevice)
}

func TestNewAppliesDefaultState(t *testing.T) {
	r, dev := newTestRenderer(t)
	assert.True(t, dev.DefaultState)
	assert.Equal(t, 16, r.maxAttribs)
	assert.Nil(t, r.DrawingSurface(), "drawing surface is created on first render")
	assert.Same(t, dev, r.Device())
}

func TestDrawingSurfaceResizesInPlace(t *testing.T) {
	r, dev := newTestRenderer(t)

	s, err := r.resizeSurface(32, 16)
	require.NoError(t, err)
	assert.Equal(t, 32, s.Width())
	assert.Equal(t, 16, s.Height())
	w, h := dev.RenderbufferSize(s.depth)
	assert.Equal(t, [2]int{32, 16}, [2]int{w, h})

	before := dev.Live()
	s2, err := r.resizeSurface(64, 64)
	require.NoError(t, err)
	assert.Same(t, s, s2)
	assert.Equal(t, before, dev.Live())

	info, ok := dev.Texture(s.Texture())
	require.True(t, ok)
	assert.Equal(t, 64, info.Width)
	assert.Equal(t, graphics.InternalRGBA8, info.Internal)

	r.Release()
	assert.Equal(t, gltest.Counts{}, dev.Live())
	assert.Nil(t, r.DrawingSurface())
}

func TestDrawingSurfaceImageIsTopRowFirst(t *testing.T) {
	r, dev := newTestRenderer(t)
	p := newTestProgram(t, r, solidSource)
	p.SetClearColor([4]float32{1, 0, 0, 1})

	s, err := p.Render(RenderOptions{Width: 3, Height: 2})
	require.NoError(t, err)
	img, err := s.Image()
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	assert.Equal(t, []byte{255, 0, 0, 255}, img.Pix[0:4])
	assert.Equal(t, 1, dev.Count("ReadPixels"))
}
