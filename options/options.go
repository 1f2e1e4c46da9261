package options

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// Options holds the fragrender command line.
type Options struct {
	ShaderFile *string
	Help       *bool
	Width      *int
	Height     *int
	OutputFile *string // empty for an interactive window
	Duration   *float64
	FPS        *int
	Codec      *string
	FFMPEGPath *string
	Headless   *bool // render through EGL instead of a hidden GLFW window
	ClearColor *string
	// Texture sampling options applied to every -texture image.
	TextureType   *string
	TextureFormat *string
	TextureWrap   *string
	TextureFilter *string

	Uniforms Assignments
	Textures Assignments
}

// Assignment is one name=value flag argument.
type Assignment struct {
	Name  string
	Value string
}

// ParseAssignment splits "name=value". The name may not be empty.
func ParseAssignment(s string) (Assignment, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Assignment{}, fmt.Errorf("expected name=value, got %q", s)
	}
	return Assignment{Name: name, Value: strings.TrimSpace(value)}, nil
}

// Assignments is a repeatable flag of name=value pairs.
type Assignments []Assignment

func (a *Assignments) String() string {
	if a == nil {
		return ""
	}
	parts := make([]string, len(*a))
	for i, as := range *a {
		parts[i] = as.Name + "=" + as.Value
	}
	return strings.Join(parts, " ")
}

func (a *Assignments) Set(s string) error {
	as, err := ParseAssignment(s)
	if err != nil {
		return err
	}
	*a = append(*a, as)
	return nil
}

// Register defines every option on fs and returns the struct its values land in.
func Register(fs *flag.FlagSet) *Options {
	o := &Options{
		ShaderFile:    fs.String("shader", "", "Fragment shader source file"),
		Help:          fs.Bool("help", false, "Show help message"),
		Width:         fs.Int("width", 1280, "Width of the output"),
		Height:        fs.Int("height", 720, "Height of the output"),
		OutputFile:    fs.String("output", "", "Output file (.png for one frame, .mp4/.mov/.mkv for video); empty opens a window"),
		Duration:      fs.Float64("duration", 10.0, "Duration to record in seconds"),
		FPS:           fs.Int("fps", 60, "Frames per second"),
		Codec:         fs.String("codec", "h264", "Video codec (h264 or hevc)"),
		FFMPEGPath:    fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Headless:      fs.Bool("headless", false, "Use an EGL pbuffer instead of a hidden window (Linux only)"),
		ClearColor:    fs.String("clear", "0,0,0,0", "Clear color as r,g,b,a"),
		TextureType:   fs.String("texture-type", "byte", "Texture storage type (byte, half, float)"),
		TextureFormat: fs.String("texture-format", "rgba", "Texture channels kept from each image (red, rg, rgb, rgba)"),
		TextureWrap:   fs.String("texture-wrap", "clamp", "Texture wrap mode (clamp, repeat, mirror)"),
		TextureFilter: fs.String("texture-filter", "linear", "Texture filter (linear, nearest)"),
	}
	fs.Var(&o.Uniforms, "uniform", "Uniform value as name=v[,v...] (repeatable)")
	fs.Var(&o.Textures, "texture", "Image bound to a sampler2D as name=path (repeatable)")
	return o
}

// Parse registers the options on fs and parses args.
func Parse(fs *flag.FlagSet, args []string) (*Options, error) {
	o := Register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *o.Help {
		return o, nil
	}
	if *o.ShaderFile == "" && fs.NArg() > 0 {
		*o.ShaderFile = fs.Arg(0)
	}
	if *o.ShaderFile == "" {
		return nil, fmt.Errorf("no shader file given")
	}
	if *o.Width <= 0 || *o.Height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", *o.Width, *o.Height)
	}
	if *o.FPS <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", *o.FPS)
	}
	return o, nil
}

// ParseColor parses "r,g,b,a" with components in [0,1]. Missing alpha means 1.
func ParseColor(s string) ([4]float32, error) {
	c := [4]float32{0, 0, 0, 1}
	fields := strings.Split(s, ",")
	if len(fields) != 3 && len(fields) != 4 {
		return c, fmt.Errorf("expected r,g,b[,a], got %q", s)
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return c, fmt.Errorf("invalid color component %q: %w", f, err)
		}
		c[i] = float32(v)
	}
	return c, nil
}
