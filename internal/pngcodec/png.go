// Package pngcodec implements the PNG codec: the IHDR/PLTE/tRNS/IDAT/IEND
// chunk loop and per-scanline filtering around a streaming zlib
// (RFC 1950) compressor, bridged onto this module's Stream abstraction.
//
// The compressed-container work itself — inflating and deflating the
// IDAT payload — is delegated to github.com/klauspost/compress/zlib;
// this package owns only the PNG-specific framing around it: chunk
// assembly and CRC32 verification, Adam7 de-interlacing on read, and
// scanline defiltering/filtering.
package pngcodec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/kyuu/azura/internal/pool"
	"github.com/kyuu/azura/pixel"
	"github.com/kyuu/azura/stream"
)

// Errors returned while decoding or encoding a PNG stream.
var (
	ErrBadSignature           = errors.New("pngcodec: bad PNG signature")
	ErrBadCRC                 = errors.New("pngcodec: chunk CRC mismatch")
	ErrShortChunk             = errors.New("pngcodec: malformed chunk")
	ErrMissingIHDR            = errors.New("pngcodec: missing IHDR chunk")
	ErrMissingPalette         = errors.New("pngcodec: palette color type with no PLTE chunk")
	ErrUnsupportedColorType   = errors.New("pngcodec: unsupported color type")
	ErrUnsupportedBitDepth    = errors.New("pngcodec: unsupported bit depth")
	ErrUnsupportedCompression = errors.New("pngcodec: unsupported compression method")
	ErrUnsupportedFilter      = errors.New("pngcodec: unsupported filter method")
)

const (
	colorTypeGray      = 0
	colorTypeRGB       = 2
	colorTypePalette   = 3
	colorTypeGrayAlpha = 4
	colorTypeRGBAlpha  = 6
)

func channelsForColorType(ct byte) int {
	switch ct {
	case colorTypeGray, colorTypePalette:
		return 1
	case colorTypeGrayAlpha:
		return 2
	case colorTypeRGB:
		return 3
	case colorTypeRGBAlpha:
		return 4
	default:
		return 0
	}
}

type ihdr struct {
	width, height int
	bitDepth      int
	colorType     byte
	interlace     byte
}

// WriteOptions carries PNG encode-time knobs. The zero value requests
// zlib's own default compression level — to explicitly request
// zlib.NoCompression, name it via a nonzero sentinel of your own
// choosing upstream of this package, since 0 here is indistinguishable
// from "unset" and always resolves to the zlib default.
type WriteOptions struct {
	CompressionLevel int
}

// Decode reads one PNG image from s, starting at its current position.
func Decode(s stream.Stream) (*pixel.Image, error) {
	r := streamReader{s}
	if err := readSignature(r); err != nil {
		return nil, err
	}

	var hdr ihdr
	var havePalette bool
	var palette []byte
	var trns []byte
	var idat bytes.Buffer
	sawIHDR := false

loop:
	for {
		c, err := readChunk(r)
		if err != nil {
			return nil, err
		}
		switch {
		case c.is("IHDR"):
			if len(c.data) != 13 {
				return nil, fmt.Errorf("pngcodec: IHDR: %w", ErrShortChunk)
			}
			hdr.width = int(binary.BigEndian.Uint32(c.data[0:4]))
			hdr.height = int(binary.BigEndian.Uint32(c.data[4:8]))
			hdr.bitDepth = int(c.data[8])
			hdr.colorType = c.data[9]
			hdr.interlace = c.data[12]
			if c.data[10] != 0 {
				return nil, ErrUnsupportedCompression
			}
			if c.data[11] != 0 {
				return nil, ErrUnsupportedFilter
			}
			if hdr.bitDepth != 8 && hdr.bitDepth != 16 {
				return nil, ErrUnsupportedBitDepth
			}
			switch hdr.colorType {
			case colorTypeGray, colorTypeRGB, colorTypePalette, colorTypeGrayAlpha, colorTypeRGBAlpha:
			default:
				return nil, ErrUnsupportedColorType
			}
			sawIHDR = true
		case c.is("PLTE"):
			palette = c.data
			havePalette = true
		case c.is("tRNS"):
			trns = c.data
		case c.is("IDAT"):
			idat.Write(c.data)
		case c.is("IEND"):
			break loop
		}
	}

	if !sawIHDR {
		return nil, ErrMissingIHDR
	}
	if hdr.colorType == colorTypePalette && !havePalette {
		return nil, ErrMissingPalette
	}

	zr, err := zlib.NewReader(bytes.NewReader(idat.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("pngcodec: opening compressed data: %w", err)
	}
	defer zr.Close()

	raw, err := decodeScanlines(zr, hdr)
	if err != nil {
		return nil, err
	}
	defer pool.Put(raw)

	return buildImage(hdr, raw, palette, trns)
}

// decodeScanlines inflates and defilters IDAT's payload into a single
// width*height*stride raw sample buffer, de-interlacing Adam7 passes
// (if any) into final pixel positions as it goes. The buffer comes from
// the shared byte pool since a large image's raw samples are a
// short-lived allocation discarded as soon as buildImage has copied
// them into the returned Image.
func decodeScanlines(r io.Reader, hdr ihdr) ([]byte, error) {
	channels := channelsForColorType(hdr.colorType)
	bytesPerSample := hdr.bitDepth / 8
	bpp := channels * bytesPerSample

	out := pool.Get(hdr.width * hdr.height * bpp)

	readPass := func(w, h int, scatter func(row []byte, y int)) error {
		if w == 0 || h == 0 {
			return nil
		}
		rowBytes := w * bpp
		prev := make([]byte, rowBytes)
		cur := make([]byte, rowBytes)
		var ft [1]byte
		for y := 0; y < h; y++ {
			if _, err := io.ReadFull(r, ft[:]); err != nil {
				return fmt.Errorf("pngcodec: reading row %d filter byte: %w", y, err)
			}
			if _, err := io.ReadFull(r, cur); err != nil {
				return fmt.Errorf("pngcodec: reading row %d: %w", y, err)
			}
			unfilterRow(ft[0], cur, prev, bpp)
			scatter(cur, y)
			copy(prev, cur)
		}
		return nil
	}

	if hdr.interlace == 0 {
		stride := hdr.width * bpp
		return out, readPass(hdr.width, hdr.height, func(row []byte, y int) {
			copy(out[y*stride:], row)
		})
	}

	for _, p := range adam7Passes {
		pw, ph := p.dims(hdr.width, hdr.height)
		err := readPass(pw, ph, func(row []byte, py int) {
			destY := p.y0 + py*p.yStep
			for px := 0; px < pw; px++ {
				destX := p.x0 + px*p.xStep
				so := px * bpp
				do := (destY*hdr.width + destX) * bpp
				copy(out[do:do+bpp], row[so:so+bpp])
			}
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// buildImage maps a raw per-pixel sample buffer to this module's Image
// model: palette to RGBP8; gray and RGB to RGB, or to RGBA when a tRNS
// chunk names a transparent color; gray+alpha and RGB+alpha to RGBA.
func buildImage(hdr ihdr, raw []byte, palette, trns []byte) (*pixel.Image, error) {
	channels := channelsForColorType(hdr.colorType)
	bytesPerSample := hdr.bitDepth / 8
	stride := channels * bytesPerSample
	n := hdr.width * hdr.height

	// sample returns channel ch of pixel i, stripped to 8 bits (the high
	// byte of a 16-bit sample, or the only byte of an 8-bit one).
	sample := func(i, ch int) byte {
		return raw[i*stride+ch*bytesPerSample]
	}

	switch hdr.colorType {
	case colorTypePalette:
		img, err := pixel.New(hdr.width, hdr.height, pixel.RGBP8, nil, nil)
		if err != nil {
			return nil, err
		}
		idx := img.Pixels()
		for i := 0; i < n; i++ {
			idx[i] = sample(i, 0)
		}
		palBuf := make([]byte, pixel.PaletteSize*3)
		copy(palBuf, palette)
		if err := img.SetPalette(palBuf); err != nil {
			return nil, err
		}
		return img, nil

	case colorTypeGray:
		hasTRNS := len(trns) >= 2
		format := pixel.RGB
		var trnsVal byte
		if hasTRNS {
			format = pixel.RGBA
			trnsVal = trnsSampleValue(trns, 0, hdr.bitDepth)
		}
		img, err := pixel.New(hdr.width, hdr.height, format, nil, nil)
		if err != nil {
			return nil, err
		}
		d := pixel.DescriptorFor(format)
		dst := img.Pixels()
		for i := 0; i < n; i++ {
			g := sample(i, 0)
			do := i * d.BytesPerPixel
			dst[do+d.ROffset], dst[do+d.GOffset], dst[do+d.BOffset] = g, g, g
			if d.HasAlpha {
				dst[do+d.AOffset] = alphaFor(hasTRNS && g == trnsVal)
			}
		}
		return img, nil

	case colorTypeRGB:
		hasTRNS := len(trns) >= 6
		format := pixel.RGB
		var tr, tg, tb byte
		if hasTRNS {
			format = pixel.RGBA
			tr = trnsSampleValue(trns, 0, hdr.bitDepth)
			tg = trnsSampleValue(trns, 1, hdr.bitDepth)
			tb = trnsSampleValue(trns, 2, hdr.bitDepth)
		}
		img, err := pixel.New(hdr.width, hdr.height, format, nil, nil)
		if err != nil {
			return nil, err
		}
		d := pixel.DescriptorFor(format)
		dst := img.Pixels()
		for i := 0; i < n; i++ {
			r, g, b := sample(i, 0), sample(i, 1), sample(i, 2)
			do := i * d.BytesPerPixel
			dst[do+d.ROffset], dst[do+d.GOffset], dst[do+d.BOffset] = r, g, b
			if d.HasAlpha {
				dst[do+d.AOffset] = alphaFor(hasTRNS && r == tr && g == tg && b == tb)
			}
		}
		return img, nil

	case colorTypeGrayAlpha:
		img, err := pixel.New(hdr.width, hdr.height, pixel.RGBA, nil, nil)
		if err != nil {
			return nil, err
		}
		d := pixel.DescriptorFor(pixel.RGBA)
		dst := img.Pixels()
		for i := 0; i < n; i++ {
			g, a := sample(i, 0), sample(i, 1)
			do := i * d.BytesPerPixel
			dst[do+d.ROffset], dst[do+d.GOffset], dst[do+d.BOffset], dst[do+d.AOffset] = g, g, g, a
		}
		return img, nil

	case colorTypeRGBAlpha:
		img, err := pixel.New(hdr.width, hdr.height, pixel.RGBA, nil, nil)
		if err != nil {
			return nil, err
		}
		d := pixel.DescriptorFor(pixel.RGBA)
		dst := img.Pixels()
		for i := 0; i < n; i++ {
			r, g, b, a := sample(i, 0), sample(i, 1), sample(i, 2), sample(i, 3)
			do := i * d.BytesPerPixel
			dst[do+d.ROffset], dst[do+d.GOffset], dst[do+d.BOffset], dst[do+d.AOffset] = r, g, b, a
		}
		return img, nil

	default:
		return nil, ErrUnsupportedColorType
	}
}

func alphaFor(transparent bool) byte {
	if transparent {
		return 0
	}
	return 0xFF
}

// trnsSampleValue extracts channel ch's 2-byte value from a tRNS chunk
// and strips it to 8 bits the same way pixel samples are stripped.
func trnsSampleValue(trns []byte, ch, bitDepth int) byte {
	o := ch * 2
	if bitDepth == 16 {
		return trns[o]
	}
	return trns[o+1]
}

// Encode writes img to s as a non-interlaced, 8-bit PNG. Only RGBP8,
// RGB, and RGBA are directly serializable; BGR and BGRA sources are
// converted first (the source image is never mutated).
func Encode(s stream.Stream, img *pixel.Image, opts WriteOptions) error {
	switch img.Format() {
	case pixel.BGR:
		converted, err := img.Convert(pixel.RGB)
		if err != nil {
			return fmt.Errorf("pngcodec: converting to RGB: %w", err)
		}
		img = converted
	case pixel.BGRA:
		converted, err := img.Convert(pixel.RGBA)
		if err != nil {
			return fmt.Errorf("pngcodec: converting to RGBA: %w", err)
		}
		img = converted
	}

	var colorType byte
	var channels int
	switch img.Format() {
	case pixel.RGBP8:
		colorType, channels = colorTypePalette, 1
	case pixel.RGB:
		colorType, channels = colorTypeRGB, 3
	case pixel.RGBA:
		colorType, channels = colorTypeRGBAlpha, 4
	default:
		return fmt.Errorf("pngcodec: %w", ErrUnsupportedColorType)
	}

	w := streamWriter{s}
	if err := writeSignature(w); err != nil {
		return err
	}

	var ihdrData [13]byte
	binary.BigEndian.PutUint32(ihdrData[0:4], uint32(img.Width()))
	binary.BigEndian.PutUint32(ihdrData[4:8], uint32(img.Height()))
	ihdrData[8] = 8
	ihdrData[9] = colorType
	if err := writeChunk(w, "IHDR", ihdrData[:]); err != nil {
		return err
	}

	if colorType == colorTypePalette {
		if err := writeChunk(w, "PLTE", img.Palette()); err != nil {
			return err
		}
	}

	level := zlib.DefaultCompression
	if opts.CompressionLevel != 0 {
		level = opts.CompressionLevel
	}

	var compressed bytes.Buffer
	zw, err := zlib.NewWriterLevel(&compressed, level)
	if err != nil {
		return fmt.Errorf("pngcodec: opening compressor: %w", err)
	}

	rowBytes := img.Width() * channels
	filtered := pool.Get(rowBytes)
	defer pool.Put(filtered)
	src := img.Pixels()
	ft := []byte{1} // Sub filter for every row
	for y := 0; y < img.Height(); y++ {
		row := src[y*rowBytes : (y+1)*rowBytes]
		filterRowSub(row, filtered, channels)
		if _, err := zw.Write(ft); err != nil {
			return fmt.Errorf("pngcodec: compressing row %d: %w", y, err)
		}
		if _, err := zw.Write(filtered); err != nil {
			return fmt.Errorf("pngcodec: compressing row %d: %w", y, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("pngcodec: closing compressor: %w", err)
	}

	if err := writeChunk(w, "IDAT", compressed.Bytes()); err != nil {
		return err
	}
	return writeChunk(w, "IEND", nil)
}
