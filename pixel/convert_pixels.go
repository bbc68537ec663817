package pixel

// PackedFormat identifies one of the stream-level packed pixel layouts
// supported by ConvertPixels. These sit below the five Image-level
// formats and exist only for callers that need to convert raw buffers
// without going through an Image.
type PackedFormat int

const (
	// A1R5G5B5 is 16-bit: 1 alpha bit, 5 bits each of red, green, blue.
	A1R5G5B5 PackedFormat = iota
	// R5G6B5 is 16-bit direct color with no alpha: 5 red, 6 green, 5 blue.
	R5G6B5
	// A8R8G8B8 is 32-bit direct color with 8 bits per channel.
	A8R8G8B8
)

func bytesPerPacked(f PackedFormat) int {
	switch f {
	case A1R5G5B5, R5G6B5:
		return 2
	case A8R8G8B8:
		return 4
	default:
		panic("pixel: unknown packed format")
	}
}

// rgba8 is the canonical per-pixel temporary every packed-format
// conversion routes through: one byte per channel, full 8-bit range.
type rgba8 struct{ r, g, b, a byte }

// expand5 scales a 5-bit channel value up to 8 bits the way the BMP
// 16bpp decoder does: left-shift into the top 5 bits, then set the low
// 3 bits to 1, except that an all-zero value stays zero.
func expand5(v byte) byte {
	v8 := v << 3
	if v8 != 0 {
		v8 |= 0x07
	}
	return v8
}

func expand6(v byte) byte {
	return (v << 2) | (v >> 4)
}

func unpack(srcPtr []byte, f PackedFormat) rgba8 {
	switch f {
	case A1R5G5B5:
		v := uint16(srcPtr[0]) | uint16(srcPtr[1])<<8
		return rgba8{
			r: expand5(byte((v >> 10) & 0x1F)),
			g: expand5(byte((v >> 5) & 0x1F)),
			b: expand5(byte(v & 0x1F)),
			a: byte((v>>15)&1) * 0xFF,
		}
	case R5G6B5:
		v := uint16(srcPtr[0]) | uint16(srcPtr[1])<<8
		return rgba8{
			r: expand5(byte((v >> 11) & 0x1F)),
			g: expand6(byte((v >> 5) & 0x3F)),
			b: expand5(byte(v & 0x1F)),
			a: 0xFF,
		}
	case A8R8G8B8:
		return rgba8{a: srcPtr[3], r: srcPtr[2], g: srcPtr[1], b: srcPtr[0]}
	default:
		panic("pixel: unknown packed format")
	}
}

func pack(c rgba8, dstPtr []byte, f PackedFormat) {
	switch f {
	case A1R5G5B5:
		var v uint16
		if c.a >= 0x80 {
			v |= 1 << 15
		}
		v |= uint16(c.r>>3) << 10
		v |= uint16(c.g>>3) << 5
		v |= uint16(c.b >> 3)
		dstPtr[0] = byte(v)
		dstPtr[1] = byte(v >> 8)
	case R5G6B5:
		var v uint16
		v |= uint16(c.r>>3) << 11
		v |= uint16(c.g>>2) << 5
		v |= uint16(c.b >> 3)
		dstPtr[0] = byte(v)
		dstPtr[1] = byte(v >> 8)
	case A8R8G8B8:
		dstPtr[0] = c.b
		dstPtr[1] = c.g
		dstPtr[2] = c.r
		dstPtr[3] = c.a
	default:
		panic("pixel: unknown packed format")
	}
}

// ConvertPixels converts n pixels from srcPtr (laid out as srcFmt) into
// dstPtr (laid out as dstFmt), routing each pixel through a canonical
// RGBA8 temporary. dstPtr must be at least n*bytesPerPacked(dstFmt)
// bytes; srcPtr must be at least n*bytesPerPacked(srcFmt) bytes.
func ConvertPixels(srcPtr []byte, srcFmt PackedFormat, dstPtr []byte, dstFmt PackedFormat, n int) {
	sbpp := bytesPerPacked(srcFmt)
	dbpp := bytesPerPacked(dstFmt)
	for i := 0; i < n; i++ {
		so := i * sbpp
		do := i * dbpp
		c := unpack(srcPtr[so:so+sbpp], srcFmt)
		pack(c, dstPtr[do:do+dbpp], dstFmt)
	}
}
