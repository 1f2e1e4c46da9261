package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"runtime"

	"github.com/richinsley/gofragment/encoder"
	"github.com/richinsley/gofragment/gldevice"
	"github.com/richinsley/gofragment/glfwcontext"
	"github.com/richinsley/gofragment/graphics"
	"github.com/richinsley/gofragment/headless"
	"github.com/richinsley/gofragment/inputs"
	"github.com/richinsley/gofragment/options"
	"github.com/richinsley/gofragment/renderer"
)

func init() {
	runtime.LockOSThread()
}

// newHost opens the context everything renders through. The returned cleanup
// must run after every GPU object has been released.
func newHost(o *options.Options, kind outputKind) (graphics.Context, func(), error) {
	if kind != outputWindow && *o.Headless {
		h, err := headless.NewHeadless(*o.Width, *o.Height)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create headless context: %w", err)
		}
		return h, h.Shutdown, nil
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}
	ctx, err := glfwcontext.New(*o.Width, *o.Height, kind == outputWindow, "fragrender")
	if err != nil {
		glfwcontext.TerminateGraphics()
		return nil, nil, fmt.Errorf("failed to initialize glfw context: %w", err)
	}
	return ctx, func() {
		ctx.Shutdown()
		glfwcontext.TerminateGraphics()
	}, nil
}

func runWindow(r *renderer.Renderer, host graphics.Context, prog *renderer.Program) error {
	target := renderer.NewTarget(r, renderer.DefaultTargetSettings())
	defer target.Release()
	if err := target.SetSurface(renderer.NewWindowSurface(r, host)); err != nil {
		return err
	}

	setTime := timeUniform(prog)
	log.Println("Starting interactive render loop...")
	for !host.ShouldClose() {
		setTime(host.Time())
		if err := prog.RenderTo(target); err != nil {
			return err
		}
		host.EndFrame()
	}
	return nil
}

func runImage(r *renderer.Renderer, prog *renderer.Program, o *options.Options) error {
	surface := renderer.NewImageSurface(*o.Width, *o.Height)
	target := renderer.NewTarget(r, renderer.DefaultTargetSettings())
	defer target.Release()
	if err := target.SetSurface(surface); err != nil {
		return err
	}
	if err := prog.RenderTo(target); err != nil {
		return err
	}

	f, err := os.Create(*o.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := png.Encode(f, surface.Image()); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return f.Close()
}

// runVideo is the producer: it renders each frame into a PixelBuffer and
// hands the read-back to the encoder goroutine.
func runVideo(r *renderer.Renderer, prog *renderer.Program, o *options.Options) error {
	buffer, err := inputs.NewPixelBuffer(r.Device(), inputs.PixelBufferOptions{
		Width:  *o.Width,
		Height: *o.Height,
		Type:   graphics.TypeUnsignedByte,
	})
	if err != nil {
		return err
	}
	defer buffer.Release()

	target := renderer.NewTarget(r, renderer.DefaultTargetSettings())
	defer target.Release()
	if err := target.SetBuffer(buffer); err != nil {
		return err
	}

	writer, err := encoder.NewVideoWriter(encoder.VideoOptions{
		Path:       *o.OutputFile,
		Width:      *o.Width,
		Height:     *o.Height,
		FPS:        *o.FPS,
		Codec:      *o.Codec,
		FFmpegPath: *o.FFMPEGPath,
	})
	if err != nil {
		return err
	}

	setTime := timeUniform(prog)
	totalFrames := int(*o.Duration * float64(*o.FPS))
	timeStep := 1.0 / float64(*o.FPS)
	log.Printf("Rendering %d frames...", totalFrames)
	for i := 0; i < totalFrames; i++ {
		setTime(float64(i) * timeStep)
		if err := prog.RenderTo(target); err != nil {
			writer.Close()
			return err
		}
		img, err := target.Image()
		if err != nil {
			writer.Close()
			return err
		}
		if err := writer.WriteFrame(img); err != nil {
			writer.Close()
			return err
		}
	}
	return writer.Close()
}

func run(o *options.Options) error {
	kind, err := outputKindFor(*o.OutputFile)
	if err != nil {
		return err
	}
	clearColor, err := options.ParseColor(*o.ClearColor)
	if err != nil {
		return err
	}
	texOpts, err := textureOptions(o)
	if err != nil {
		return err
	}
	source, err := os.ReadFile(*o.ShaderFile)
	if err != nil {
		return fmt.Errorf("failed to read shader: %w", err)
	}

	host, closeHost, err := newHost(o, kind)
	if err != nil {
		return err
	}
	defer closeHost()

	dev, err := gldevice.New(host)
	if err != nil {
		return fmt.Errorf("no graphics device: %w", err)
	}
	defer dev.Destroy()

	r, err := renderer.New(dev)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer r.Release()

	prog, err := renderer.NewProgram(r, renderer.ProgramSettings{
		Source:     string(source),
		ClearColor: &clearColor,
	})
	if err != nil {
		return err
	}
	defer prog.Release()
	log.Printf("Compiled %s with %d uniforms", *o.ShaderFile, prog.Uniforms().Len())

	if err := applyUniforms(prog, o.Uniforms); err != nil {
		return err
	}
	buffers, err := bindTextures(dev, prog, o.Textures, texOpts)
	if err != nil {
		return err
	}
	defer func() {
		for _, b := range buffers {
			b.Release()
		}
	}()

	switch kind {
	case outputImage:
		return runImage(r, prog, o)
	case outputVideo:
		return runVideo(r, prog, o)
	}
	return runWindow(r, host, prog)
}

func main() {
	o, err := options.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}
	if *o.Help {
		fmt.Println("fragrender: render a fragment shader to a window, image or video")
		flag.PrintDefaults()
		return
	}

	if err := run(o); err != nil {
		log.Fatalf("Rendering failed: %v", err)
	}
	if *o.OutputFile != "" {
		log.Printf("Successfully rendered to %s", *o.OutputFile)
	}
}
