package encoder

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVideoWriterValidates(t *testing.T) {
	tests := []struct {
		name string
		opts VideoOptions
	}{
		{"no path", VideoOptions{Width: 4, Height: 4, FPS: 30}},
		{"no size", VideoOptions{Path: "out.mp4", FPS: 30}},
		{"no fps", VideoOptions{Path: "out.mp4", Width: 4, Height: 4}},
		{"bad codec", VideoOptions{Path: "out.mp4", Width: 4, Height: 4, FPS: 30, Codec: "vp9"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVideoWriter(tt.opts)
			assert.Error(t, err)
		})
	}
}

func TestArgs(t *testing.T) {
	opts := VideoOptions{Path: "clip.MP4", Width: 320, Height: 240, FPS: 25, Codec: "hevc"}
	in := inputArgs(opts)
	assert.Equal(t, "rawvideo", in["f"])
	assert.Equal(t, "rgba", in["pix_fmt"])
	assert.Equal(t, "320x240", in["s"])
	assert.Equal(t, 25, in["framerate"])

	out := outputArgs(opts)
	assert.Equal(t, "libx265", out["c:v"])
	assert.Equal(t, "hvc1", out["tag:v"])

	opts.Codec = "h264"
	out = outputArgs(opts)
	assert.Equal(t, "libx264", out["c:v"])
	assert.NotContains(t, out, "tag:v")
}

func TestPackRowsHandlesSubImages(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.NRGBA)

	out := packRows(sub)
	require.Len(t, out, 16)
	assert.Equal(t, []byte{1, 2, 3, 4}, out[0:4])
	assert.Equal(t, make([]byte, 12), out[4:])
}

func TestMissingFFmpegSurfacesOnClose(t *testing.T) {
	w, err := NewVideoWriter(VideoOptions{
		Path:       filepath.Join(t.TempDir(), "out.mp4"),
		Width:      2,
		Height:     2,
		FPS:        30,
		FFmpegPath: filepath.Join(t.TempDir(), "no-such-ffmpeg"),
	})
	require.NoError(t, err)

	frame := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	require.NoError(t, w.WriteFrame(frame))
	assert.Error(t, w.WriteFrame(image.NewNRGBA(image.Rect(0, 0, 3, 3))))
	assert.Equal(t, int64(1), w.Frames())

	assert.Error(t, w.Close())
	assert.ErrorIs(t, w.Close(), ErrClosed)
	assert.ErrorIs(t, w.WriteFrame(frame), ErrClosed)
}
