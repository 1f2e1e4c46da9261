package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/richinsley/gofragment/graphics"
	"github.com/richinsley/gofragment/inputs"
	"github.com/richinsley/gofragment/options"
	"github.com/richinsley/gofragment/renderer"
)

type outputKind int

const (
	outputWindow outputKind = iota
	outputImage
	outputVideo
)

func outputKindFor(path string) (outputKind, error) {
	if path == "" {
		return outputWindow, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return outputImage, nil
	case ".mp4", ".mov", ".mkv", ".webm":
		return outputVideo, nil
	}
	return 0, fmt.Errorf("unsupported output file %q", path)
}

// applyUniforms parses each assignment against the kind the program declares.
func applyUniforms(p *renderer.Program, assignments options.Assignments) error {
	for _, a := range assignments {
		u, ok := p.Uniforms().Get(a.Name)
		if !ok {
			log.Printf("Warning: uniform %q is not used by the shader", a.Name)
			continue
		}
		v, err := renderer.ParseValue(u.Kind, a.Value)
		if err != nil {
			return fmt.Errorf("uniform %s: %w", a.Name, err)
		}
		if err := u.Set(v); err != nil {
			return err
		}
	}
	return nil
}

func textureOptions(o *options.Options) ([]inputs.PixelBufferOption, error) {
	typ, err := inputs.ParseNumericType(*o.TextureType)
	if err != nil {
		return nil, err
	}
	format, err := inputs.ParseFormat(*o.TextureFormat)
	if err != nil {
		return nil, err
	}
	wrap, err := inputs.ParseWrapMode(*o.TextureWrap)
	if err != nil {
		return nil, err
	}
	minFilter, magFilter, err := inputs.ParseFilterMode(*o.TextureFilter)
	if err != nil {
		return nil, err
	}
	return []inputs.PixelBufferOption{
		inputs.WithType(typ),
		inputs.WithFormat(format),
		inputs.WithWrap(wrap, wrap),
		inputs.WithFilter(minFilter, magFilter),
	}, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	log.Printf("Loaded %s image %s (%dx%d)", format, path, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

// bindTextures loads every -texture image into a PixelBuffer and binds it to
// the named sampler. The caller releases the returned buffers.
func bindTextures(dev graphics.Device, p *renderer.Program, assignments options.Assignments, opts []inputs.PixelBufferOption) ([]*inputs.PixelBuffer, error) {
	var buffers []*inputs.PixelBuffer
	release := func() {
		for _, b := range buffers {
			b.Release()
		}
	}

	for _, a := range assignments {
		u, ok := p.Uniforms().Get(a.Name)
		if !ok || u.Kind != graphics.KindSampler2D {
			release()
			return nil, fmt.Errorf("texture %s: shader has no sampler2D of that name", a.Name)
		}
		img, err := loadImage(a.Value)
		if err != nil {
			release()
			return nil, fmt.Errorf("texture %s: %w", a.Name, err)
		}
		b, err := inputs.FromImage(dev, img, opts...)
		if err != nil {
			release()
			return nil, fmt.Errorf("texture %s: %w", a.Name, err)
		}
		buffers = append(buffers, b)
		if err := u.Set(renderer.Sampler{Buffer: b}); err != nil {
			release()
			return nil, err
		}
	}
	return buffers, nil
}

// timeUniform returns a setter for a float "time" uniform, or a no-op when
// the shader does not declare one.
func timeUniform(p *renderer.Program) func(seconds float64) {
	u, ok := p.Uniforms().Get("time")
	if !ok || u.Kind != graphics.KindFloat {
		return func(float64) {}
	}
	return func(seconds float64) {
		u.Set(renderer.Float(seconds))
	}
}
