// Package byteio is a thin typed layer over stream.Stream: fixed-width
// primitive reads and writes with a mutable endianness selector. Each
// primitive read consumes the exact native-size byte count and
// byte-swaps the result if the stream's endianness differs from the
// host's; each primitive write swaps first, then writes. This mirrors
// the teacher package's bit-level reader/writer pair (internal/bitio),
// generalized here from VP8L's bit-packed fields to the byte-aligned
// fixed-width fields BMP and PNG headers are made of.
package byteio

import "github.com/kyuu/azura/stream"

// Order selects little- or big-endian interpretation of multi-byte
// primitives.
type Order int

const (
	LittleEndian Order = iota
	BigEndian
)

// Reader reads fixed-width primitives from a Stream.
type Reader struct {
	s     stream.Stream
	order Order
	tmp   [8]byte
}

// NewReader returns a Reader over s using the given byte order.
func NewReader(s stream.Stream, order Order) *Reader {
	return &Reader{s: s, order: order}
}

// SetOrder changes the endianness used by subsequent reads.
func (r *Reader) SetOrder(order Order) { r.order = order }

func (r *Reader) Order() Order { return r.order }

// readFull reads exactly n bytes, reporting false on any short read.
func (r *Reader) readFull(n int) ([]byte, bool) {
	buf := r.tmp[:n]
	got := 0
	for got < n {
		k, _ := r.s.Read(buf[got:])
		if k == 0 {
			return nil, false
		}
		got += k
	}
	return buf, true
}

func (r *Reader) u16(b []byte) uint16 {
	if r.order == LittleEndian {
		return uint16(b[0]) | uint16(b[1])<<8
	}
	return uint16(b[1]) | uint16(b[0])<<8
}

func (r *Reader) u32(b []byte) uint32 {
	if r.order == LittleEndian {
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	}
	return uint32(b[3]) | uint32(b[2])<<8 | uint32(b[1])<<16 | uint32(b[0])<<24
}

func (r *Reader) u64(b []byte) uint64 {
	if r.order == LittleEndian {
		var v uint64
		for i := 7; i >= 0; i-- {
			v = v<<8 | uint64(b[i])
		}
		return v
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// U8 reads one unsigned byte.
func (r *Reader) U8() (uint8, bool) {
	b, ok := r.readFull(1)
	if !ok {
		return 0, false
	}
	return b[0], true
}

// I8 reads one signed byte.
func (r *Reader) I8() (int8, bool) {
	v, ok := r.U8()
	return int8(v), ok
}

// U16 reads a 16-bit unsigned integer.
func (r *Reader) U16() (uint16, bool) {
	b, ok := r.readFull(2)
	if !ok {
		return 0, false
	}
	return r.u16(b), true
}

// I16 reads a 16-bit signed integer.
func (r *Reader) I16() (int16, bool) {
	v, ok := r.U16()
	return int16(v), ok
}

// U32 reads a 32-bit unsigned integer.
func (r *Reader) U32() (uint32, bool) {
	b, ok := r.readFull(4)
	if !ok {
		return 0, false
	}
	return r.u32(b), true
}

// I32 reads a 32-bit signed integer.
func (r *Reader) I32() (int32, bool) {
	v, ok := r.U32()
	return int32(v), ok
}

// U64 reads a 64-bit unsigned integer.
func (r *Reader) U64() (uint64, bool) {
	b, ok := r.readFull(8)
	if !ok {
		return 0, false
	}
	return r.u64(b), true
}

// I64 reads a 64-bit signed integer.
func (r *Reader) I64() (int64, bool) {
	v, ok := r.U64()
	return int64(v), ok
}

// F32 reads an IEEE-754 single-precision float.
func (r *Reader) F32() (float32, bool) {
	v, ok := r.U32()
	if !ok {
		return 0, false
	}
	return float32FromBits(v), true
}

// F64 reads an IEEE-754 double-precision float.
func (r *Reader) F64() (float64, bool) {
	v, ok := r.U64()
	if !ok {
		return 0, false
	}
	return float64FromBits(v), true
}

// Bytes reads exactly n bytes into a freshly allocated slice.
func (r *Reader) Bytes(n int) ([]byte, bool) {
	if n == 0 {
		return nil, true
	}
	buf := make([]byte, n)
	got := 0
	for got < n {
		k, _ := r.s.Read(buf[got:])
		if k == 0 {
			return nil, false
		}
		got += k
	}
	return buf, true
}

// BytesInto reads exactly len(buf) bytes into buf, reporting false on a
// short read.
func (r *Reader) BytesInto(buf []byte) bool {
	got := 0
	for got < len(buf) {
		k, _ := r.s.Read(buf[got:])
		if k == 0 {
			return false
		}
		got += k
	}
	return true
}

// Writer writes fixed-width primitives to a Stream.
type Writer struct {
	s     stream.Stream
	order Order
	tmp   [8]byte
}

// NewWriter returns a Writer over s using the given byte order.
func NewWriter(s stream.Stream, order Order) *Writer {
	return &Writer{s: s, order: order}
}

// SetOrder changes the endianness used by subsequent writes.
func (w *Writer) SetOrder(order Order) { w.order = order }

func (w *Writer) Order() Order { return w.order }

func (w *Writer) putU16(b []byte, v uint16) {
	if w.order == LittleEndian {
		b[0], b[1] = byte(v), byte(v>>8)
	} else {
		b[0], b[1] = byte(v>>8), byte(v)
	}
}

func (w *Writer) putU32(b []byte, v uint32) {
	if w.order == LittleEndian {
		b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
	} else {
		b[0], b[1], b[2], b[3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
	}
}

func (w *Writer) putU64(b []byte, v uint64) {
	if w.order == LittleEndian {
		for i := 0; i < 8; i++ {
			b[i] = byte(v >> (8 * i))
		}
	} else {
		for i := 0; i < 8; i++ {
			b[i] = byte(v >> (8 * (7 - i)))
		}
	}
}

func (w *Writer) write(b []byte) bool {
	n, _ := w.s.Write(b)
	return n == len(b)
}

// U8 writes one unsigned byte.
func (w *Writer) U8(v uint8) bool { return w.write([]byte{v}) }

// I8 writes one signed byte.
func (w *Writer) I8(v int8) bool { return w.U8(uint8(v)) }

// U16 writes a 16-bit unsigned integer.
func (w *Writer) U16(v uint16) bool {
	b := w.tmp[:2]
	w.putU16(b, v)
	return w.write(b)
}

// I16 writes a 16-bit signed integer.
func (w *Writer) I16(v int16) bool { return w.U16(uint16(v)) }

// U32 writes a 32-bit unsigned integer.
func (w *Writer) U32(v uint32) bool {
	b := w.tmp[:4]
	w.putU32(b, v)
	return w.write(b)
}

// I32 writes a 32-bit signed integer.
func (w *Writer) I32(v int32) bool { return w.U32(uint32(v)) }

// U64 writes a 64-bit unsigned integer.
func (w *Writer) U64(v uint64) bool {
	b := w.tmp[:8]
	w.putU64(b, v)
	return w.write(b)
}

// I64 writes a 64-bit signed integer.
func (w *Writer) I64(v int64) bool { return w.U64(uint64(v)) }

// F32 writes an IEEE-754 single-precision float.
func (w *Writer) F32(v float32) bool { return w.U32(float32Bits(v)) }

// F64 writes an IEEE-754 double-precision float.
func (w *Writer) F64(v float64) bool { return w.U64(float64Bits(v)) }

// Bytes writes buf verbatim (no byte swapping applies to byte strings).
func (w *Writer) Bytes(buf []byte) bool { return w.write(buf) }
