package inputs

import (
	"image"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/x448/float16"
	"golang.org/x/image/draw"

	"github.com/richinsley/gofragment/graphics"
)

// toNRGBA converts img to straight-alpha 8-bit RGBA, flipped vertically so
// the first row in memory is the bottom of the picture.
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	return vflip(nrgba)
}

// vflip vertically flips src in place and returns it.
func vflip(src *image.NRGBA) *image.NRGBA {
	height := src.Rect.Dy()
	rowSize := src.Rect.Dx() * 4
	tmp := make([]byte, rowSize)
	for y := 0; y < height/2; y++ {
		top := src.Pix[y*src.Stride : y*src.Stride+rowSize]
		bottom := src.Pix[(height-1-y)*src.Stride : (height-1-y)*src.Stride+rowSize]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
	return src
}

// encodeImage packs img into texels of the given format and type.
func encodeImage(img image.Image, format graphics.Format, typ graphics.NumericType) []byte {
	nrgba := toNRGBA(img)
	channels := format.Channels()
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()

	if typ == graphics.TypeUnsignedByte {
		out := make([]byte, 0, w*h*channels)
		for y := 0; y < h; y++ {
			row := nrgba.Pix[y*nrgba.Stride:]
			for x := 0; x < w; x++ {
				out = append(out, row[x*4:x*4+channels]...)
			}
		}
		return out
	}

	values := make([]float32, 0, w*h*channels)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < w; x++ {
			for c := 0; c < channels; c++ {
				values = append(values, float32(row[x*4+c])/255)
			}
		}
	}
	return encodeFloats(values, typ)
}

// encodeFloats stores values as texel components of typ.
func encodeFloats(values []float32, typ graphics.NumericType) []byte {
	switch typ {
	case graphics.TypeUnsignedByte:
		out := make([]byte, len(values))
		for i, v := range values {
			out[i] = unitToByte(v)
		}
		return out
	case graphics.TypeHalfFloat:
		halfs := make([]uint16, len(values))
		for i, v := range values {
			halfs[i] = float16.Fromfloat32(v).Bits()
		}
		return uint16Bytes(halfs)
	}
	return float32Bytes(values)
}

func unitToByte(v float32) byte {
	if math32.IsNaN(v) {
		return 0
	}
	v = math32.Max(0, math32.Min(1, v))
	return byte(math32.Floor(v*255 + 0.5))
}

func float32Bytes(values []float32) []byte {
	if len(values) == 0 {
		return nil
	}
	out := make([]byte, len(values)*4)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), len(out)))
	return out
}

func uint16Bytes(values []uint16) []byte {
	if len(values) == 0 {
		return nil
	}
	out := make([]byte, len(values)*2)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), len(out)))
	return out
}
