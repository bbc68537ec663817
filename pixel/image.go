package pixel

import (
	"errors"
	"fmt"
)

// PaletteSize is the fixed number of entries in an indexed-color
// palette (3 bytes each: R, G, B).
const PaletteSize = 256

// Errors returned by Image construction and conversion.
var (
	ErrInvalidDimensions  = errors.New("pixel: width and height must be positive")
	ErrInvalidFormat      = errors.New("pixel: unknown pixel format")
	ErrBufferSize         = errors.New("pixel: pixel buffer has the wrong size")
	ErrPaletteSize        = errors.New("pixel: palette must have exactly 768 bytes (256 RGB entries)")
	ErrUnsupportedConvert = errors.New("pixel: unsupported pixel-format conversion")
)

// Image is an immutable-shape, mutable-content raster: width, height,
// and pixel format are fixed for its lifetime, but the pixel bytes (and
// palette, if indexed) may be overwritten in place.
type Image struct {
	width   int
	height  int
	format  Format
	pixels  []byte
	palette []byte // len == PaletteSize*3 when format is indexed, nil otherwise
}

// New allocates an Image of the given dimensions and format. If pixels
// is non-nil it must be exactly width*height*BytesPerPixel(format) bytes
// and is copied in; otherwise a zeroed buffer is allocated. If format is
// indexed and palette is non-nil it must be exactly PaletteSize*3 bytes
// and is copied in; otherwise a zeroed (all-black) palette is allocated.
func New(width, height int, format Format, pixels []byte, palette []byte) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if _, ok := descriptors[format]; !ok {
		return nil, ErrInvalidFormat
	}

	bpp := BytesPerPixel(format)
	want := width * height * bpp
	buf := make([]byte, want)
	if pixels != nil {
		if len(pixels) != want {
			return nil, ErrBufferSize
		}
		copy(buf, pixels)
	}

	img := &Image{width: width, height: height, format: format, pixels: buf}

	if IsIndexed(format) {
		img.palette = make([]byte, PaletteSize*3)
		if palette != nil {
			if len(palette) != PaletteSize*3 {
				return nil, ErrPaletteSize
			}
			copy(img.palette, palette)
		}
	}

	return img, nil
}

func (img *Image) Width() int     { return img.width }
func (img *Image) Height() int    { return img.height }
func (img *Image) Format() Format { return img.format }

// Pixels returns the image's pixel buffer. The returned slice aliases
// the image's internal storage; mutating it mutates the image.
func (img *Image) Pixels() []byte { return img.pixels }

// Palette returns the image's 256-entry RGB palette, or nil if the
// image's format is direct color.
func (img *Image) Palette() []byte { return img.palette }

// SetPixels copies exactly len(img.Pixels()) bytes from src into the
// image's pixel buffer.
func (img *Image) SetPixels(src []byte) error {
	if len(src) != len(img.pixels) {
		return ErrBufferSize
	}
	copy(img.pixels, src)
	return nil
}

// SetPalette copies exactly 768 bytes from src into the image's
// palette. It fails if the image's format is not indexed.
func (img *Image) SetPalette(src []byte) error {
	if img.palette == nil {
		return fmt.Errorf("pixel: SetPalette: format %v has no palette", img.format)
	}
	if len(src) != PaletteSize*3 {
		return ErrPaletteSize
	}
	copy(img.palette, src)
	return nil
}

// Convert returns an image holding the same pixels reinterpreted as
// target. If target equals the image's current format, Convert returns
// img itself (reference-shared, no copy). Otherwise it allocates a new
// Image and never mutates img.
//
// Supported conversions:
//   - direct -> direct: per-pixel channel copy; a target alpha channel
//     is taken from the source's alpha when present, else set to 0xFF.
//   - indexed -> direct: palette lookup per pixel; target alpha (if
//     any) is always 0xFF.
//   - direct -> indexed: converted to RGB, then quantized (see quantize.go).
//
// A target with no descriptor (Unknown, DontCare, or any other value)
// returns ErrInvalidFormat; any other combination returns
// ErrUnsupportedConvert.
func (img *Image) Convert(target Format) (*Image, error) {
	if target == img.format {
		return img, nil
	}
	if _, ok := descriptors[target]; !ok {
		return nil, ErrInvalidFormat
	}

	switch {
	case IsDirect(img.format) && IsDirect(target):
		return convertDirectToDirect(img, target)
	case IsIndexed(img.format) && IsDirect(target):
		return convertIndexedToDirect(img, target)
	case IsDirect(img.format) && IsIndexed(target):
		return convertDirectToIndexed(img)
	default:
		return nil, ErrUnsupportedConvert
	}
}

func convertDirectToDirect(img *Image, target Format) (*Image, error) {
	srcD := DescriptorFor(img.format)
	dstD := DescriptorFor(target)

	dst, err := New(img.width, img.height, target, nil, nil)
	if err != nil {
		return nil, err
	}

	n := img.width * img.height
	sp, dp := img.pixels, dst.pixels
	for i := 0; i < n; i++ {
		so := i * srcD.BytesPerPixel
		do := i * dstD.BytesPerPixel
		dp[do+dstD.ROffset] = sp[so+srcD.ROffset]
		dp[do+dstD.GOffset] = sp[so+srcD.GOffset]
		dp[do+dstD.BOffset] = sp[so+srcD.BOffset]
		if dstD.HasAlpha {
			if srcD.HasAlpha {
				dp[do+dstD.AOffset] = sp[so+srcD.AOffset]
			} else {
				dp[do+dstD.AOffset] = 0xFF
			}
		}
	}
	return dst, nil
}

func convertIndexedToDirect(img *Image, target Format) (*Image, error) {
	dstD := DescriptorFor(target)
	dst, err := New(img.width, img.height, target, nil, nil)
	if err != nil {
		return nil, err
	}

	n := img.width * img.height
	sp, dp, pal := img.pixels, dst.pixels, img.palette
	for i := 0; i < n; i++ {
		idx := int(sp[i]) * 3
		do := i * dstD.BytesPerPixel
		dp[do+dstD.ROffset] = pal[idx+0]
		dp[do+dstD.GOffset] = pal[idx+1]
		dp[do+dstD.BOffset] = pal[idx+2]
		if dstD.HasAlpha {
			dp[do+dstD.AOffset] = 0xFF
		}
	}
	return dst, nil
}

func convertDirectToIndexed(img *Image) (*Image, error) {
	rgb := img
	if img.format != RGB {
		var err error
		rgb, err = convertDirectToDirect(img, RGB)
		if err != nil {
			return nil, err
		}
	}
	return quantizeToRGBP8(rgb)
}
