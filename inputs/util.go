package inputs

import (
	"fmt"
	"strings"

	"github.com/richinsley/gofragment/graphics"
)

// ParseWrapMode converts a command line wrap name to a wrap mode.
func ParseWrapMode(wrap string) (graphics.WrapMode, error) {
	switch strings.ToLower(wrap) {
	case "", "clamp", "clamp_to_edge":
		return graphics.WrapClampToEdge, nil
	case "repeat":
		return graphics.WrapRepeat, nil
	case "mirror", "mirrored_repeat":
		return graphics.WrapMirroredRepeat, nil
	}
	return 0, fmt.Errorf("unknown wrap mode %q", wrap)
}

// ParseFilterMode converts a filter name to min and mag filters.
func ParseFilterMode(filter string) (minFilter, magFilter graphics.FilterMode, err error) {
	switch strings.ToLower(filter) {
	case "", "linear":
		return graphics.FilterLinear, graphics.FilterLinear, nil
	case "nearest":
		return graphics.FilterNearest, graphics.FilterNearest, nil
	}
	return 0, 0, fmt.Errorf("unknown filter mode %q", filter)
}

// ParseNumericType accepts "float", "half" and "byte".
func ParseNumericType(typ string) (graphics.NumericType, error) {
	switch strings.ToLower(typ) {
	case "", "float":
		return graphics.TypeFloat, nil
	case "half", "half_float":
		return graphics.TypeHalfFloat, nil
	case "byte", "unsigned_byte":
		return graphics.TypeUnsignedByte, nil
	}
	return 0, fmt.Errorf("unknown numeric type %q", typ)
}

// ParseFormat accepts "red", "rg", "rgb" and "rgba".
func ParseFormat(format string) (graphics.Format, error) {
	switch strings.ToLower(format) {
	case "", "rgba":
		return graphics.FormatRGBA, nil
	case "red", "r":
		return graphics.FormatRed, nil
	case "rg":
		return graphics.FormatRG, nil
	case "rgb":
		return graphics.FormatRGB, nil
	}
	return 0, fmt.Errorf("unknown format %q", format)
}
