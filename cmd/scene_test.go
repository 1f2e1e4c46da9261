package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/gofragment/graphics"
	"github.com/richinsley/gofragment/graphics/gltest"
	"github.com/richinsley/gofragment/inputs"
	"github.com/richinsley/gofragment/options"
	"github.com/richinsley/gofragment/renderer"
)

const sceneSource = `
uniform float time;
uniform vec3 tint;
uniform sampler2D noise;
void main() {
    fragColor = vec4(tint * texture(noise, uv).rgb, sin(time));
}
`

func newSceneProgram(t *testing.T) (*renderer.Program, *gltest.Device) {
	t.Helper()
	dev := gltest.New()
	r, err := renderer.New(dev)
	require.NoError(t, err)
	p, err := renderer.NewProgram(r, renderer.ProgramSettings{Source: sceneSource})
	require.NoError(t, err)
	return p, dev
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	path := filepath.Join(t.TempDir(), "noise.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestOutputKindFor(t *testing.T) {
	tests := []struct {
		path string
		want outputKind
	}{
		{"", outputWindow},
		{"frame.png", outputImage},
		{"clip.MP4", outputVideo},
		{"clip.mkv", outputVideo},
	}
	for _, tt := range tests {
		got, err := outputKindFor(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := outputKindFor("frame.gif")
	assert.Error(t, err)
}

func TestApplyUniforms(t *testing.T) {
	p, _ := newSceneProgram(t)

	err := applyUniforms(p, options.Assignments{
		{Name: "tint", Value: "1, 0.5, 0.25"},
		{Name: "unused", Value: "3"},
	})
	require.NoError(t, err)
	u, ok := p.Uniforms().Get("tint")
	require.True(t, ok)
	assert.Equal(t, renderer.Vec3{1, 0.5, 0.25}, u.Value())

	assert.Error(t, applyUniforms(p, options.Assignments{{Name: "tint", Value: "1,2"}}))
	assert.Error(t, applyUniforms(p, options.Assignments{{Name: "noise", Value: "x.png"}}))
}

func TestTextureOptions(t *testing.T) {
	o, err := options.Parse(newFlagSet(), []string{"-texture-type", "half", "-texture-wrap", "repeat", "a.frag"})
	require.NoError(t, err)
	opts, err := textureOptions(o)
	require.NoError(t, err)
	assert.Len(t, opts, 4)

	for _, args := range [][]string{
		{"-texture-type", "double", "a.frag"},
		{"-texture-format", "bgra", "a.frag"},
	} {
		o, err = options.Parse(newFlagSet(), args)
		require.NoError(t, err)
		_, err = textureOptions(o)
		assert.Error(t, err, args)
	}
}

func TestTextureFormatFlagReachesBuffer(t *testing.T) {
	p, dev := newSceneProgram(t)
	o, err := options.Parse(newFlagSet(), []string{"-texture-format", "rg", "a.frag"})
	require.NoError(t, err)
	opts, err := textureOptions(o)
	require.NoError(t, err)

	buffers, err := bindTextures(dev, p, options.Assignments{{Name: "noise", Value: writePNG(t, 2, 2)}}, opts)
	require.NoError(t, err)
	require.Len(t, buffers, 1)
	assert.Equal(t, graphics.FormatRG, buffers[0].Format())
	assert.Equal(t, graphics.InternalRG8, buffers[0].Internal())
}

func TestBindTextures(t *testing.T) {
	p, dev := newSceneProgram(t)
	path := writePNG(t, 4, 2)

	buffers, err := bindTextures(dev, p, options.Assignments{{Name: "noise", Value: path}}, []inputs.PixelBufferOption{
		inputs.WithType(graphics.TypeHalfFloat),
	})
	require.NoError(t, err)
	require.Len(t, buffers, 1)
	assert.Equal(t, 4, buffers[0].Width())
	assert.Equal(t, 2, buffers[0].Height())
	assert.Equal(t, graphics.TypeHalfFloat, buffers[0].Type())

	u, _ := p.Uniforms().Get("noise")
	assert.Equal(t, renderer.Sampler{Buffer: buffers[0]}, u.Value())
}

func TestBindTexturesReleasesOnFailure(t *testing.T) {
	p, dev := newSceneProgram(t)
	path := writePNG(t, 2, 2)

	_, err := bindTextures(dev, p, options.Assignments{
		{Name: "noise", Value: path},
		{Name: "tint", Value: path},
	}, nil)
	require.Error(t, err)

	u, _ := p.Uniforms().Get("noise")
	s, ok := u.Value().(renderer.Sampler)
	require.True(t, ok)
	assert.True(t, s.Buffer.Released())

	_, err = bindTextures(dev, p, options.Assignments{{Name: "noise", Value: filepath.Join(t.TempDir(), "missing.png")}}, nil)
	assert.Error(t, err)
}

func TestTimeUniform(t *testing.T) {
	p, _ := newSceneProgram(t)
	timeUniform(p)(2.5)
	u, _ := p.Uniforms().Get("time")
	assert.Equal(t, renderer.Float(2.5), u.Value())

	dev := gltest.New()
	r, err := renderer.New(dev)
	require.NoError(t, err)
	bare, err := renderer.NewProgram(r, renderer.ProgramSettings{Source: "void main() { fragColor = vec4(1.0); }"})
	require.NoError(t, err)
	assert.NotPanics(t, func() { timeUniform(bare)(1) })
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("fragrender", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}
