package encoder

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const frameQueue = 3

var (
	// ErrClosed is returned by WriteFrame after Close.
	ErrClosed = errors.New("video writer closed")
	// errFFmpegExited unblocks frame writes once the ffmpeg process is gone.
	errFFmpegExited = errors.New("ffmpeg exited")
)

// VideoOptions configures a VideoWriter.
type VideoOptions struct {
	Path   string
	Width  int
	Height int
	FPS    int
	// Codec is "h264" (default) or "hevc".
	Codec string
	// FFmpegPath overrides the ffmpeg binary looked up on PATH.
	FFmpegPath string
}

// Frame is one raw RGBA frame, top row first.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// VideoWriter streams raw RGBA frames into an ffmpeg process. Frames are
// queued to a single encoder goroutine that never touches the GPU.
type VideoWriter struct {
	opts   VideoOptions
	frames chan *Frame
	done   chan error
	pts    int64
	closed bool
}

// NewVideoWriter starts ffmpeg writing to opts.Path.
func NewVideoWriter(opts VideoOptions) (*VideoWriter, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("video output path is empty")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid video size %dx%d", opts.Width, opts.Height)
	}
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", opts.FPS)
	}
	if opts.Codec == "" {
		opts.Codec = "h264"
	}
	if opts.Codec != "h264" && opts.Codec != "hevc" {
		return nil, fmt.Errorf("unsupported codec %q", opts.Codec)
	}

	w := &VideoWriter{
		opts:   opts,
		frames: make(chan *Frame, frameQueue),
		done:   make(chan error, 1),
	}
	go w.runEncoder()
	return w, nil
}

func inputArgs(opts VideoOptions) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"framerate": opts.FPS,
	}
}

func outputArgs(opts VideoOptions) ffmpeg.KwArgs {
	args := ffmpeg.KwArgs{
		"pix_fmt": "yuv420p",
		"b:v":     "25M",
	}
	if opts.Codec == "hevc" {
		args["c:v"] = "libx265"
		if strings.EqualFold(filepath.Ext(opts.Path), ".mp4") {
			args["tag:v"] = "hvc1"
		}
	} else {
		args["c:v"] = "libx264"
	}
	return args
}

// runEncoder is the consumer. It runs ffmpeg and feeds it queued frames.
func (w *VideoWriter) runEncoder() {
	pipeReader, pipeWriter := io.Pipe()

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs(w.opts)).
		Output(w.opts.Path, outputArgs(w.opts)).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if w.opts.FFmpegPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(w.opts.FFmpegPath)
	}

	errc := make(chan error, 1)
	go func() {
		err := ffmpegCmd.Run()
		pipeReader.CloseWithError(errFFmpegExited)
		errc <- err
	}()

	var writeErr error
	for frame := range w.frames {
		if writeErr != nil {
			continue
		}
		if _, err := pipeWriter.Write(frame.Pixels); err != nil {
			log.Printf("Error writing frame %d to FFmpeg: %v", frame.PTS, err)
			writeErr = fmt.Errorf("failed to write frame %d: %w", frame.PTS, err)
		}
	}
	pipeWriter.Close()

	if err := <-errc; err != nil {
		w.done <- fmt.Errorf("ffmpeg failed: %w", err)
		return
	}
	w.done <- writeErr
}

// WriteFrame queues img. It must have the writer's dimensions.
func (w *VideoWriter) WriteFrame(img *image.NRGBA) error {
	if w.closed {
		return ErrClosed
	}
	size := img.Bounds().Size()
	if size.X != w.opts.Width || size.Y != w.opts.Height {
		return fmt.Errorf("frame is %dx%d, video is %dx%d", size.X, size.Y, w.opts.Width, w.opts.Height)
	}
	w.frames <- &Frame{Pixels: packRows(img), PTS: w.pts}
	w.pts++
	return nil
}

// Frames returns the number of frames queued so far.
func (w *VideoWriter) Frames() int64 { return w.pts }

// Close flushes the queue and waits for ffmpeg to finish.
func (w *VideoWriter) Close() error {
	if w.closed {
		return ErrClosed
	}
	w.closed = true
	close(w.frames)
	err := <-w.done
	if err == nil {
		log.Printf("Wrote %d frames to %s", w.pts, w.opts.Path)
	}
	return err
}

// packRows copies img into a tightly packed buffer.
func packRows(img *image.NRGBA) []byte {
	b := img.Bounds()
	rowSize := b.Dx() * 4
	out := make([]byte, rowSize*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		start := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out[y*rowSize:], img.Pix[start:start+rowSize])
	}
	return out
}
