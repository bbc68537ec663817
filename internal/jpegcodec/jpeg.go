// Package jpegcodec implements the JPEG codec as a thin bridge to
// github.com/pixiv/go-libjpeg/jpeg, a cgo binding to libjpeg-turbo.
//
// The wrapped library already owns the source/destination managers and
// the non-local-exit (setjmp/longjmp) error channel that would
// otherwise have to be hand-rolled against libjpeg's C API — see
// aliaj1-go-turbo-thumbnailer's use of the same library for the
// pattern this package follows. This package's own job is narrower:
// adapt Stream to io.Reader/io.Writer, and force every decoded image
// into this module's RGB Image model regardless of the JPEG's native
// color transform (YCbCr, grayscale, or otherwise).
package jpegcodec

import (
	"fmt"
	"image"
	"image/color"

	libjpeg "github.com/pixiv/go-libjpeg/jpeg"

	"github.com/kyuu/azura/pixel"
	"github.com/kyuu/azura/stream"
)

// WriteOptions carries JPEG encode-time knobs.
type WriteOptions struct {
	// Quality is 1-100. The zero value requests this package's default
	// of 85, matching the quality the thumbnailer pack example falls
	// back to when its caller leaves Quality unset.
	Quality int
}

const defaultQuality = 85

// Decode reads one JPEG image from s, starting at its current
// position, always returning an RGB Image.
func Decode(s stream.Stream) (*pixel.Image, error) {
	src := streamReader{s}
	img, err := libjpeg.Decode(src, &libjpeg.DecoderOptions{})
	if err != nil {
		return nil, fmt.Errorf("jpegcodec: decoding: %w", err)
	}

	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	out, err := pixel.New(width, height, pixel.RGB, nil, nil)
	if err != nil {
		return nil, err
	}
	dst := out.Pixels()
	d := pixel.DescriptorFor(pixel.RGB)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			o := (y*width + x) * d.BytesPerPixel
			dst[o+d.ROffset] = byte(r >> 8)
			dst[o+d.GOffset] = byte(g >> 8)
			dst[o+d.BOffset] = byte(bl >> 8)
		}
	}
	return out, nil
}

// Encode writes img to s as a JPEG. img is converted to RGB first if
// it isn't already (the source image is never mutated); JPEG has no
// palette or alpha channel, so RGBP8/RGBA/BGR/BGRA sources all route
// through the same direct-color-without-alpha conversion.
func Encode(s stream.Stream, img *pixel.Image, opts WriteOptions) error {
	if img.Format() != pixel.RGB {
		converted, err := img.Convert(pixel.RGB)
		if err != nil {
			return fmt.Errorf("jpegcodec: converting to RGB: %w", err)
		}
		img = converted
	}

	quality := opts.Quality
	if quality == 0 {
		quality = defaultQuality
	}

	dst := streamWriter{s}
	adapter := &rgbImage{img: img}
	if err := libjpeg.Encode(dst, adapter, &libjpeg.EncoderOptions{Quality: quality}); err != nil {
		return fmt.Errorf("jpegcodec: encoding: %w", err)
	}
	return nil
}

// rgbImage presents a *pixel.Image (RGB format) as an image.Image, so
// it can be handed directly to libjpeg.Encode without an intermediate
// copy into a stdlib image type.
type rgbImage struct{ img *pixel.Image }

func (r *rgbImage) ColorModel() color.Model { return color.RGBAModel }

func (r *rgbImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.img.Width(), r.img.Height())
}

func (r *rgbImage) At(x, y int) color.Color {
	d := pixel.DescriptorFor(pixel.RGB)
	o := (y*r.img.Width() + x) * d.BytesPerPixel
	p := r.img.Pixels()
	return color.RGBA{R: p[o+d.ROffset], G: p[o+d.GOffset], B: p[o+d.BOffset], A: 0xFF}
}
