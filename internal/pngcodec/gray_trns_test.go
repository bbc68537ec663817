package pngcodec

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/zlib"

	"github.com/kyuu/azura/pixel"
	"github.com/kyuu/azura/stream"
)

// buildGrayPNG hand-assembles a minimal grayscale PNG (None-filtered
// rows) with an optional tRNS chunk, to exercise the gray-with-
// synthesized-alpha path independent of this package's own Encode.
func buildGrayPNG(t *testing.T, width, height int, gray []byte, trnsValue *byte) []byte {
	t.Helper()
	s := stream.NewMemoryStream(0)
	w := streamWriter{s}
	if err := writeSignature(w); err != nil {
		t.Fatalf("writeSignature: %v", err)
	}

	var ihdrData [13]byte
	binary.BigEndian.PutUint32(ihdrData[0:4], uint32(width))
	binary.BigEndian.PutUint32(ihdrData[4:8], uint32(height))
	ihdrData[8] = 8
	ihdrData[9] = colorTypeGray
	if err := writeChunk(w, "IHDR", ihdrData[:]); err != nil {
		t.Fatalf("writeChunk IHDR: %v", err)
	}

	if trnsValue != nil {
		trns := []byte{0, *trnsValue}
		if err := writeChunk(w, "tRNS", trns); err != nil {
			t.Fatalf("writeChunk tRNS: %v", err)
		}
	}

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	for y := 0; y < height; y++ {
		zw.Write([]byte{0}) // filter type None
		zw.Write(gray[y*width : (y+1)*width])
	}
	zw.Close()
	if err := writeChunk(w, "IDAT", compressed.Bytes()); err != nil {
		t.Fatalf("writeChunk IDAT: %v", err)
	}
	if err := writeChunk(w, "IEND", nil); err != nil {
		t.Fatalf("writeChunk IEND: %v", err)
	}

	return s.Bytes()
}

func TestDecodeGrayWithoutTRNSYieldsRGB(t *testing.T) {
	data := buildGrayPNG(t, 2, 1, []byte{0x40, 0x80}, nil)
	s := stream.NewMemoryStreamFromBytes(data, len(data))
	img, err := Decode(s)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Format() != pixel.RGB {
		t.Fatalf("Format() = %v, want RGB", img.Format())
	}
	if img.Pixels()[0] != 0x40 || img.Pixels()[1] != 0x40 || img.Pixels()[2] != 0x40 {
		t.Errorf("pixel 0 = %v, want (0x40,0x40,0x40)", img.Pixels()[0:3])
	}
}

func TestDecodeGrayWithTRNSSynthesizesAlpha(t *testing.T) {
	trns := byte(0x40)
	data := buildGrayPNG(t, 2, 1, []byte{0x40, 0x80}, &trns)
	s := stream.NewMemoryStreamFromBytes(data, len(data))
	img, err := Decode(s)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Format() != pixel.RGBA {
		t.Fatalf("Format() = %v, want RGBA", img.Format())
	}
	if img.Pixels()[3] != 0 {
		t.Errorf("pixel 0 alpha = %d, want 0 (matches tRNS value)", img.Pixels()[3])
	}
	if img.Pixels()[7] != 0xFF {
		t.Errorf("pixel 1 alpha = %d, want 0xFF (does not match tRNS value)", img.Pixels()[7])
	}
}
