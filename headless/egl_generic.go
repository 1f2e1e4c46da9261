//go:build !linux

package headless

import (
	"fmt"

	"github.com/richinsley/gofragment/graphics"
)

// NewHeadless is only implemented on Linux.
func NewHeadless(width, height int) (graphics.Context, error) {
	return nil, fmt.Errorf("egl headless rendering is not supported on this platform")
}
