// Package pixel holds the pixel-format enumeration, the Image type that
// unifies every codec's decode/encode result, and the format-conversion
// routines (including the octree quantizer bridge) that let a direct
// color image be reduced to an indexed one. It is the shared leaf
// dependency of the bmp, png, and jpeg codec packages, playing the role
// the teacher package's stdlib "image" dependency plays for VP8/VP8L:
// a common currency type the codecs decode into and encode out of.
package pixel

import "fmt"

// Format identifies one of the five pixel layouts this module supports.
type Format int

const (
	Unknown Format = iota
	// RGBP8 is 8-bit indexed color: one byte per pixel, naming an entry
	// in a 256-entry RGB palette.
	RGBP8
	// RGB is 24-bit direct color, red first.
	RGB
	// BGR is 24-bit direct color, blue first.
	BGR
	// RGBA is 32-bit direct color with alpha, red first.
	RGBA
	// BGRA is 32-bit direct color with alpha, blue first.
	BGRA
	// DontCare is a sentinel requesting "no conversion" from an API that
	// accepts a target Format.
	DontCare
)

func (f Format) String() string {
	switch f {
	case RGBP8:
		return "RGB_P8"
	case RGB:
		return "RGB"
	case BGR:
		return "BGR"
	case RGBA:
		return "RGBA"
	case BGRA:
		return "BGRA"
	case DontCare:
		return "DontCare"
	default:
		return "Unknown"
	}
}

// Descriptor is a read-only entry of the per-format channel layout
// table: whether the format is direct color, whether it carries alpha,
// its bytes-per-pixel count, and the byte offset of each channel within
// a pixel. Offsets are -1 for channels the format doesn't have.
type Descriptor struct {
	Direct        bool
	HasAlpha      bool
	BytesPerPixel int
	ROffset       int
	GOffset       int
	BOffset       int
	AOffset       int
}

var descriptors = map[Format]Descriptor{
	RGBP8: {Direct: false, HasAlpha: false, BytesPerPixel: 1, ROffset: -1, GOffset: -1, BOffset: -1, AOffset: -1},
	RGB:   {Direct: true, HasAlpha: false, BytesPerPixel: 3, ROffset: 0, GOffset: 1, BOffset: 2, AOffset: -1},
	BGR:   {Direct: true, HasAlpha: false, BytesPerPixel: 3, ROffset: 2, GOffset: 1, BOffset: 0, AOffset: -1},
	RGBA:  {Direct: true, HasAlpha: true, BytesPerPixel: 4, ROffset: 0, GOffset: 1, BOffset: 2, AOffset: 3},
	BGRA:  {Direct: true, HasAlpha: true, BytesPerPixel: 4, ROffset: 2, GOffset: 1, BOffset: 0, AOffset: 3},
}

// DescriptorFor returns the channel-layout descriptor for f. It panics
// for Unknown/DontCare, which name no concrete layout — callers are
// expected to have already resolved the format before asking for its
// descriptor.
func DescriptorFor(f Format) Descriptor {
	d, ok := descriptors[f]
	if !ok {
		panic(fmt.Sprintf("pixel: no descriptor for format %v", f))
	}
	return d
}

// BytesPerPixel returns the per-pixel byte count for f.
func BytesPerPixel(f Format) int { return DescriptorFor(f).BytesPerPixel }

// IsDirect reports whether f stores channel values directly in the
// pixel buffer (as opposed to indexing into a palette).
func IsDirect(f Format) bool { return DescriptorFor(f).Direct }

// IsIndexed reports whether f is palette-indexed.
func IsIndexed(f Format) bool { return f == RGBP8 }
