package pngcodec

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
)

var pngSignature = [8]byte{137, 80, 78, 71, 13, 10, 26, 10}

// chunk is one length-prefixed, CRC-checked PNG chunk: a 4-byte type
// tag and its payload.
type chunk struct {
	typ  [4]byte
	data []byte
}

func (c chunk) is(tag string) bool {
	return c.typ[0] == tag[0] && c.typ[1] == tag[1] && c.typ[2] == tag[2] && c.typ[3] == tag[3]
}

func readSignature(r io.Reader) error {
	var got [8]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return fmt.Errorf("pngcodec: reading signature: %w", err)
	}
	if got != pngSignature {
		return ErrBadSignature
	}
	return nil
}

// readChunk reads one length+type+data+crc chunk, verifying the CRC.
func readChunk(r io.Reader) (chunk, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return chunk{}, fmt.Errorf("pngcodec: reading chunk length: %w", err)
	}
	length := binary.BigEndian.Uint32(lenBuf[:])

	var c chunk
	if _, err := io.ReadFull(r, c.typ[:]); err != nil {
		return chunk{}, fmt.Errorf("pngcodec: reading chunk type: %w", err)
	}
	c.data = make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, c.data); err != nil {
			return chunk{}, fmt.Errorf("pngcodec: reading chunk %q data: %w", c.typ, err)
		}
	}

	var crcBuf [4]byte
	if _, err := io.ReadFull(r, crcBuf[:]); err != nil {
		return chunk{}, fmt.Errorf("pngcodec: reading chunk %q crc: %w", c.typ, err)
	}
	want := binary.BigEndian.Uint32(crcBuf[:])

	h := crc32.NewIEEE()
	h.Write(c.typ[:])
	h.Write(c.data)
	if h.Sum32() != want {
		return chunk{}, fmt.Errorf("pngcodec: chunk %q: %w", c.typ, ErrBadCRC)
	}
	return c, nil
}

// writeChunk emits one length+type+data+crc chunk.
func writeChunk(w io.Writer, typ string, data []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}

	h := crc32.NewIEEE()
	tb := []byte(typ)
	h.Write(tb)
	if _, err := w.Write(tb); err != nil {
		return err
	}
	if len(data) > 0 {
		h.Write(data)
		if _, err := w.Write(data); err != nil {
			return err
		}
	}

	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], h.Sum32())
	_, err := w.Write(crcBuf[:])
	return err
}

func writeSignature(w io.Writer) error {
	_, err := w.Write(pngSignature[:])
	return err
}
