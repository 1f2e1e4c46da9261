package options

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("fragrender", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseDefaults(t *testing.T) {
	o, err := Parse(newFlagSet(), []string{"-shader", "plasma.frag"})
	require.NoError(t, err)
	assert.Equal(t, "plasma.frag", *o.ShaderFile)
	assert.Equal(t, 1280, *o.Width)
	assert.Equal(t, 720, *o.Height)
	assert.Equal(t, 60, *o.FPS)
	assert.Empty(t, *o.OutputFile)
	assert.Equal(t, "h264", *o.Codec)
	assert.Equal(t, "rgba", *o.TextureFormat)
	assert.Empty(t, o.Uniforms)
}

func TestParseRepeatableAssignments(t *testing.T) {
	o, err := Parse(newFlagSet(), []string{
		"-uniform", "gain=0.5",
		"-uniform", "tint = 1,0,0",
		"-texture", "noise=noise.png",
		"scene.frag",
	})
	require.NoError(t, err)
	assert.Equal(t, "scene.frag", *o.ShaderFile)
	assert.Equal(t, Assignments{{"gain", "0.5"}, {"tint", "1,0,0"}}, o.Uniforms)
	assert.Equal(t, Assignments{{"noise", "noise.png"}}, o.Textures)
	assert.Equal(t, "gain=0.5 tint=1,0,0", o.Uniforms.String())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(newFlagSet(), nil)
	assert.Error(t, err)

	_, err = Parse(newFlagSet(), []string{"-shader", "a.frag", "-width", "0"})
	assert.Error(t, err)

	_, err = Parse(newFlagSet(), []string{"-shader", "a.frag", "-fps", "-1"})
	assert.Error(t, err)

	_, err = Parse(newFlagSet(), []string{"-uniform", "novalue", "a.frag"})
	assert.Error(t, err)
}

func TestParseHelpSkipsValidation(t *testing.T) {
	o, err := Parse(newFlagSet(), []string{"-help"})
	require.NoError(t, err)
	assert.True(t, *o.Help)
}

func TestParseAssignment(t *testing.T) {
	a, err := ParseAssignment("time=1.5")
	require.NoError(t, err)
	assert.Equal(t, Assignment{Name: "time", Value: "1.5"}, a)

	a, err = ParseAssignment("expr=a=b")
	require.NoError(t, err)
	assert.Equal(t, "a=b", a.Value)

	_, err = ParseAssignment("=1")
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("0.1, 0.2, 0.3")
	require.NoError(t, err)
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, c)

	c, err = ParseColor("1,0,0,0.5")
	require.NoError(t, err)
	assert.Equal(t, [4]float32{1, 0, 0, 0.5}, c)

	_, err = ParseColor("1,0")
	assert.Error(t, err)
	_, err = ParseColor("1,x,0")
	assert.Error(t, err)
}
