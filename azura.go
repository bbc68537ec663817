// Package azura is an image-file library: it reads and writes raster
// images in the BMP, PNG, and JPEG container formats against a small,
// fixed set of in-memory pixel layouts.
//
// The package is a thin facade over its leaf dependencies: stream (file
// and memory I/O), pixel (the Image type, format conversion, and the
// octree quantizer), and the internal bmp/pngcodec/jpegcodec codecs.
// Nothing here does any decoding or encoding itself — it only opens
// streams, dispatches to the right codec (by explicit format or by
// auto-detection), and converts the result to a caller-requested pixel
// format.
package azura

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kyuu/azura/internal/bmp"
	"github.com/kyuu/azura/internal/jpegcodec"
	"github.com/kyuu/azura/internal/pngcodec"
	"github.com/kyuu/azura/pixel"
	"github.com/kyuu/azura/stream"
)

// Re-exported so callers need only import this package for the common
// case. Format (pixel layout) and its sentinels live in package pixel;
// Image likewise.
type (
	Format = pixel.Format
	Image  = pixel.Image
)

const (
	Unknown  = pixel.Unknown
	RGBP8    = pixel.RGBP8
	RGB      = pixel.RGB
	BGR      = pixel.BGR
	RGBA     = pixel.RGBA
	BGRA     = pixel.BGRA
	DontCare = pixel.DontCare
)

// FileFormat identifies one of the three supported container formats,
// or one of the two sentinels (Unknown, AutoDetect) used by the read
// and write entry points below.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatBMP
	FormatPNG
	FormatJPEG
	FormatAutoDetect
)

// Errors returned by the facade's entry points.
var (
	ErrUnknownFormat     = errors.New("azura: unknown or unrecognized file format")
	ErrUnknownExtension  = errors.New("azura: filename has no recognized extension")
	ErrNoImage           = errors.New("azura: no image could be decoded")
	ErrAutoDetectOnWrite = errors.New("azura: AutoDetect requires a filename with a known extension on write")
)

// extensionFormats maps a filename's extension (the portion after the
// last dot, case-sensitive) to a FileFormat, per the caller-facing
// surface's fixed table.
var extensionFormats = map[string]FileFormat{
	"bmp":  FormatBMP,
	"dib":  FormatBMP,
	"png":  FormatPNG,
	"jpg":  FormatJPEG,
	"jpeg": FormatJPEG,
	"jpe":  FormatJPEG,
	"jfif": FormatJPEG,
}

func formatFromFilename(name string) FileFormat {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return FormatUnknown
	}
	ext := name[i+1:]
	if f, ok := extensionFormats[ext]; ok {
		return f
	}
	return FormatUnknown
}

// OpenFile opens name for reading or writing depending on write, and
// returns a Stream over it.
func OpenFile(name string, write bool) (stream.Stream, error) {
	if write {
		return stream.OpenFileWrite(name)
	}
	return stream.OpenFileRead(name)
}

// CreateMemoryStream returns an empty, writable memory Stream with the
// given initial capacity.
func CreateMemoryStream(capacity int) stream.Stream {
	return stream.NewMemoryStream(capacity)
}

// CreateMemoryStreamFromBytes returns a memory Stream whose initial
// content is a copy of data[:size].
func CreateMemoryStreamFromBytes(data []byte, size int) stream.Stream {
	return stream.NewMemoryStreamFromBytes(data, size)
}

// CreateImage allocates a new Image; see pixel.New for the exact
// semantics of the optional pixels/palette arguments.
func CreateImage(width, height int, format Format, pixels, palette []byte) (*Image, error) {
	return pixel.New(width, height, format, pixels, palette)
}

// ReadImage decodes one image from s. If format is FormatAutoDetect,
// BMP, PNG, and JPEG are each tried in that fixed order; s is rewound
// to its starting position (with its transient error/eof flags
// cleared) between failed attempts, and the first success wins. If
// requestedFormat is not DontCare and the decoded image's pixel format
// differs, the result is converted before returning.
func ReadImage(s stream.Stream, format FileFormat, requestedFormat Format) (*Image, error) {
	var img *Image
	var err error

	switch format {
	case FormatBMP:
		img, err = bmp.Decode(s)
	case FormatPNG:
		img, err = pngcodec.Decode(s)
	case FormatJPEG:
		img, err = jpegcodec.Decode(s)
	case FormatAutoDetect:
		img, err = readImageAutoDetect(s)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, err
	}

	if requestedFormat != DontCare && img.Format() != requestedFormat {
		return img.Convert(requestedFormat)
	}
	return img, nil
}

// readImageAutoDetect implements the fixed BMP -> PNG -> JPEG probe
// order, rewinding s between failed attempts.
func readImageAutoDetect(s stream.Stream) (*Image, error) {
	start := s.Tell()
	decoders := []func(stream.Stream) (*Image, error){bmp.Decode, pngcodec.Decode, jpegcodec.Decode}

	var lastErr error
	for _, decode := range decoders {
		img, err := decode(s)
		if err == nil {
			return img, nil
		}
		lastErr = err
		if !s.Seek(start, stream.Begin) {
			return nil, fmt.Errorf("azura: rewinding after failed probe: %w", stream.ErrSeekFailed)
		}
		s.Clearerr()
	}
	return nil, fmt.Errorf("azura: %w: %v", ErrNoImage, lastErr)
}

// ReadImageFile opens name for reading and decodes one image from it.
// If format is FormatAutoDetect, the filename's extension chooses the
// codec directly; an unrecognized extension falls back to byte
// probing via ReadImage's auto-detect path.
func ReadImageFile(name string, format FileFormat, requestedFormat Format) (*Image, error) {
	s, err := stream.OpenFileRead(name)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if format == FormatAutoDetect {
		if byName := formatFromFilename(name); byName != FormatUnknown {
			format = byName
		}
	}
	return ReadImage(s, format, requestedFormat)
}

// WriteImage encodes img to s using the named format. FormatAutoDetect
// is not accepted here — writing dispatches only by explicit format.
func WriteImage(img *Image, s stream.Stream, format FileFormat) error {
	switch format {
	case FormatBMP:
		return bmp.Encode(s, img)
	case FormatPNG:
		return pngcodec.Encode(s, img, pngcodec.WriteOptions{})
	case FormatJPEG:
		return jpegcodec.Encode(s, img, jpegcodec.WriteOptions{})
	default:
		return ErrUnknownFormat
	}
}

// WriteImageFile creates name for writing and encodes img to it. If
// format is FormatAutoDetect, name's extension selects the codec;
// an unrecognized or missing extension fails with
// ErrAutoDetectOnWrite.
func WriteImageFile(img *Image, name string, format FileFormat) error {
	if format == FormatAutoDetect {
		format = formatFromFilename(name)
		if format == FormatUnknown {
			return ErrAutoDetectOnWrite
		}
	}

	s, err := stream.OpenFileWrite(name)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := WriteImage(img, s, format); err != nil {
		return err
	}
	return s.Flush()
}
