package graphics

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoDevice is returned when no usable graphics device is available.
	ErrNoDevice = errors.New("graphics device not available")
	// ErrUnsupportedFormat is returned for a numeric type and pixel format
	// combination with no internal storage format.
	ErrUnsupportedFormat = errors.New("unsupported texture format")
)

// CompileError carries the driver log of a failed shader compilation.
type CompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, strings.TrimRight(e.Log, "\x00\n"))
}

// LinkError carries the driver log of a failed program link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", strings.TrimRight(e.Log, "\x00\n"))
}
