// Package bmp implements the BMP codec: reading and writing uncompressed
// Windows DIB-v3 bitmaps against the module's Stream abstraction.
//
// Only BI_RGB (uncompressed) bitmaps are supported. Read accepts 1, 4,
// 8, 16, 24, and 32 bits per pixel; write always emits 24 bpp BGR. The
// sign of the info header's height field decides the order in which
// the reader fills destination rows (see Decode's doc comment).
package bmp

import (
	"errors"
	"fmt"

	"github.com/kyuu/azura/byteio"
	"github.com/kyuu/azura/pixel"
	"github.com/kyuu/azura/stream"
)

// Errors returned while decoding a BMP stream.
var (
	ErrBadSignature   = errors.New("bmp: bad file signature")
	ErrBadHeaderSize  = errors.New("bmp: unsupported info header size (only the 40-byte v3 header is supported)")
	ErrBadDimensions  = errors.New("bmp: width must be positive and height must be nonzero")
	ErrUnsupportedBPP = errors.New("bmp: unsupported bit depth")
	ErrCompressed     = errors.New("bmp: compressed bitmaps are not supported")
	ErrTooManyColors  = errors.New("bmp: colors-used exceeds 255")
	ErrShortRead      = errors.New("bmp: unexpected end of stream")
)

const (
	fileHeaderSize = 14
	infoHeaderSize = 40
	biRGB          = 0
)

// Decode reads one BMP image from s, starting at its current position.
//
// The info header's height field decides row placement: for height > 0
// the rows read from the file fill destination rows from the last one
// up to row 0, so the first stored row becomes the image's last row;
// for height < 0 they fill destination rows from row 0 downward, so the
// first stored row becomes row 0. Files written by Encode (positive
// height, last image row stored first) therefore decode to the same
// row order they were encoded from. Write orientation is documented on
// Encode.
func Decode(s stream.Stream) (*pixel.Image, error) {
	start := s.Tell()

	r := byteio.NewReader(s, byteio.LittleEndian)

	sig, ok := r.Bytes(2)
	if !ok {
		return nil, fmt.Errorf("bmp: reading file header: %w", ErrShortRead)
	}
	if sig[0] != 'B' || sig[1] != 'M' {
		return nil, ErrBadSignature
	}
	if _, ok := r.U32(); !ok { // file size, unchecked
		return nil, fmt.Errorf("bmp: reading file header: %w", ErrShortRead)
	}
	if _, ok := r.U16(); !ok { // reserved1
		return nil, fmt.Errorf("bmp: reading file header: %w", ErrShortRead)
	}
	if _, ok := r.U16(); !ok { // reserved2
		return nil, fmt.Errorf("bmp: reading file header: %w", ErrShortRead)
	}
	offBits, ok := r.U32()
	if !ok {
		return nil, fmt.Errorf("bmp: reading file header: %w", ErrShortRead)
	}

	headerSize, ok := r.U32()
	if !ok {
		return nil, fmt.Errorf("bmp: reading info header: %w", ErrShortRead)
	}
	if headerSize != infoHeaderSize {
		return nil, ErrBadHeaderSize
	}
	width32, ok := r.I32()
	if !ok {
		return nil, fmt.Errorf("bmp: reading info header: %w", ErrShortRead)
	}
	height32, ok := r.I32()
	if !ok {
		return nil, fmt.Errorf("bmp: reading info header: %w", ErrShortRead)
	}
	if _, ok := r.U16(); !ok { // planes, unchecked
		return nil, fmt.Errorf("bmp: reading info header: %w", ErrShortRead)
	}
	bppRaw, ok := r.U16()
	if !ok {
		return nil, fmt.Errorf("bmp: reading info header: %w", ErrShortRead)
	}
	compression, ok := r.U32()
	if !ok {
		return nil, fmt.Errorf("bmp: reading info header: %w", ErrShortRead)
	}
	if _, ok := r.U32(); !ok { // image byte size, unchecked
		return nil, fmt.Errorf("bmp: reading info header: %w", ErrShortRead)
	}
	if _, ok := r.I32(); !ok { // horizontal resolution, unchecked
		return nil, fmt.Errorf("bmp: reading info header: %w", ErrShortRead)
	}
	if _, ok := r.I32(); !ok { // vertical resolution, unchecked
		return nil, fmt.Errorf("bmp: reading info header: %w", ErrShortRead)
	}
	colorsUsed, ok := r.U32()
	if !ok {
		return nil, fmt.Errorf("bmp: reading info header: %w", ErrShortRead)
	}
	if _, ok := r.U32(); !ok { // important colors, unchecked
		return nil, fmt.Errorf("bmp: reading info header: %w", ErrShortRead)
	}

	width := int(width32)
	height := int(height32)
	if width <= 0 || height == 0 {
		return nil, ErrBadDimensions
	}
	bpp := int(bppRaw)
	switch bpp {
	case 1, 4, 8, 16, 24, 32:
	default:
		return nil, ErrUnsupportedBPP
	}
	if compression != biRGB {
		return nil, ErrCompressed
	}
	if colorsUsed > 255 {
		return nil, ErrTooManyColors
	}

	absHeight := height
	if absHeight < 0 {
		absHeight = -absHeight
	}
	// See Decode's doc comment: height > 0 fills destination rows from
	// the last one to the first.
	topDown := height > 0

	var palette [256][3]byte
	if bpp <= 8 {
		entryCount := int(colorsUsed)
		if entryCount == 0 {
			entryCount = 1 << uint(bpp)
		}
		for i := 0; i < entryCount; i++ {
			entry, ok := r.Bytes(4) // BGRX
			if !ok {
				return nil, fmt.Errorf("bmp: reading palette: %w", ErrShortRead)
			}
			// palette is kept in BGR order, matching the BGR image this
			// decoder always produces, so lookups below copy straight
			// across with no channel reordering.
			palette[i][0] = entry[0]
			palette[i][1] = entry[1]
			palette[i][2] = entry[2]
		}
	}

	if !s.Seek(start+int64(offBits), stream.Begin) {
		return nil, fmt.Errorf("bmp: seeking to pixel data: %w", stream.ErrSeekFailed)
	}

	rowSize := (bpp*width + 31) / 32 * 4
	row := make([]byte, rowSize)

	img, err := pixel.New(width, absHeight, pixel.BGR, nil, nil)
	if err != nil {
		return nil, err
	}
	dst := img.Pixels()

	decodeRow := func(iy int) error {
		if !r.BytesInto(row) {
			return fmt.Errorf("bmp: reading row %d: %w", iy, ErrShortRead)
		}
		o := iy * width * 3
		switch bpp {
		case 1:
			for x := 0; x < width; x++ {
				byteIdx := x / 8
				bit := 7 - uint(x%8)
				idx := (row[byteIdx] >> bit) & 1
				c := palette[idx]
				dst[o+x*3+0], dst[o+x*3+1], dst[o+x*3+2] = c[0], c[1], c[2]
			}
		case 4:
			for x := 0; x < width; x++ {
				byteIdx := x / 2
				var idx byte
				if x%2 == 0 {
					idx = row[byteIdx] >> 4
				} else {
					idx = row[byteIdx] & 0x0F
				}
				c := palette[idx]
				dst[o+x*3+0], dst[o+x*3+1], dst[o+x*3+2] = c[0], c[1], c[2]
			}
		case 8:
			for x := 0; x < width; x++ {
				c := palette[row[x]]
				dst[o+x*3+0], dst[o+x*3+1], dst[o+x*3+2] = c[0], c[1], c[2]
			}
		case 16:
			for x := 0; x < width; x++ {
				v := uint16(row[x*2]) | uint16(row[x*2+1])<<8
				r5 := byte((v >> 10) & 0x1F)
				g5 := byte((v >> 5) & 0x1F)
				b5 := byte(v & 0x1F)
				dst[o+x*3+0], dst[o+x*3+1], dst[o+x*3+2] = expand5(b5), expand5(g5), expand5(r5)
			}
		case 24:
			copy(dst[o:o+width*3], row[:width*3])
		case 32:
			for x := 0; x < width; x++ {
				src := row[x*4 : x*4+3]
				dst[o+x*3+0], dst[o+x*3+1], dst[o+x*3+2] = src[0], src[1], src[2]
			}
		}
		return nil
	}

	if topDown {
		for iy := absHeight - 1; iy >= 0; iy-- {
			if err := decodeRow(iy); err != nil {
				return nil, err
			}
		}
	} else {
		for iy := 0; iy < absHeight; iy++ {
			if err := decodeRow(iy); err != nil {
				return nil, err
			}
		}
	}

	return img, nil
}

// expand5 widens a 5-bit channel to 8 bits: shift into the top 5 bits
// and set the low 3 bits to 1, except that zero stays exactly zero.
func expand5(v byte) byte {
	v8 := v << 3
	if v8 != 0 {
		v8 |= 0x07
	}
	return v8
}

// Encode writes img to s as a 24 bpp uncompressed BMP. If img is not in
// BGR format it is converted first (the source image is never
// mutated). Rows are emitted bottom-up (last image row first) with a
// positive height, which Decode reads back into the original row
// order; see Decode's doc comment.
func Encode(s stream.Stream, img *pixel.Image) error {
	if img.Format() != pixel.BGR {
		converted, err := img.Convert(pixel.BGR)
		if err != nil {
			return fmt.Errorf("bmp: converting to BGR: %w", err)
		}
		img = converted
	}

	width, height := img.Width(), img.Height()
	rowSize := (24*width + 31) / 32 * 4
	padding := rowSize - 3*width

	w := byteio.NewWriter(s, byteio.LittleEndian)

	bfSize := uint32(fileHeaderSize + infoHeaderSize + height*rowSize)
	if !w.Bytes([]byte("BM")) ||
		!w.U32(bfSize) ||
		!w.U16(0) || !w.U16(0) ||
		!w.U32(fileHeaderSize + infoHeaderSize) {
		return fmt.Errorf("bmp: writing file header: %w", stream.ErrSeekFailed)
	}

	if !w.U32(infoHeaderSize) ||
		!w.I32(int32(width)) ||
		!w.I32(int32(height)) ||
		!w.U16(1) ||  // planes
		!w.U16(24) || // bpp
		!w.U32(biRGB) ||
		!w.U32(uint32(height*rowSize)) ||
		!w.I32(0) || !w.I32(0) || // resolution
		!w.U32(0) || !w.U32(0) { // colors used / important
		return fmt.Errorf("bmp: writing info header: %w", stream.ErrSeekFailed)
	}

	src := img.Pixels()
	pad := make([]byte, padding)
	for iy := height - 1; iy >= 0; iy-- {
		o := iy * width * 3
		if !w.Bytes(src[o : o+width*3]) {
			return fmt.Errorf("bmp: writing row %d: %w", iy, stream.ErrSeekFailed)
		}
		if padding > 0 && !w.Bytes(pad) {
			return fmt.Errorf("bmp: writing row %d padding: %w", iy, stream.ErrSeekFailed)
		}
	}

	return nil
}
