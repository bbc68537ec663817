package pngcodec

import (
	"testing"

	"github.com/kyuu/azura/pixel"
	"github.com/kyuu/azura/stream"
)

func TestRoundTripRGB(t *testing.T) {
	pixels := []byte{
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06,
		0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C,
	}
	img, err := pixel.New(2, 2, pixel.RGB, pixels, nil)
	if err != nil {
		t.Fatalf("pixel.New: %v", err)
	}

	s := stream.NewMemoryStream(0)
	if err := Encode(s, img, WriteOptions{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	s.Seek(0, stream.Begin)

	decoded, err := Decode(s)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Width() != 2 || decoded.Height() != 2 || decoded.Format() != pixel.RGB {
		t.Fatalf("got %dx%d %v, want 2x2 RGB", decoded.Width(), decoded.Height(), decoded.Format())
	}
	for i, b := range pixels {
		if decoded.Pixels()[i] != b {
			t.Fatalf("byte %d = 0x%02x, want 0x%02x", i, decoded.Pixels()[i], b)
		}
	}
}

func TestRoundTripRGBA(t *testing.T) {
	pixels := []byte{
		0x10, 0x20, 0x30, 0x40,
		0x50, 0x60, 0x70, 0x80,
		0x90, 0xA0, 0xB0, 0xC0,
		0xD0, 0xE0, 0xF0, 0xFF,
	}
	img, err := pixel.New(2, 2, pixel.RGBA, pixels, nil)
	if err != nil {
		t.Fatalf("pixel.New: %v", err)
	}

	s := stream.NewMemoryStream(0)
	if err := Encode(s, img, WriteOptions{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	s.Seek(0, stream.Begin)

	decoded, err := Decode(s)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Format() != pixel.RGBA {
		t.Fatalf("Format() = %v, want RGBA", decoded.Format())
	}
	for i, b := range pixels {
		if decoded.Pixels()[i] != b {
			t.Fatalf("byte %d = 0x%02x, want 0x%02x", i, decoded.Pixels()[i], b)
		}
	}
}

func TestRoundTripPalette(t *testing.T) {
	palette := make([]byte, pixel.PaletteSize*3)
	palette[0], palette[1], palette[2] = 1, 2, 3
	palette[3], palette[4], palette[5] = 4, 5, 6
	img, err := pixel.New(2, 1, pixel.RGBP8, []byte{0, 1}, palette)
	if err != nil {
		t.Fatalf("pixel.New: %v", err)
	}

	s := stream.NewMemoryStream(0)
	if err := Encode(s, img, WriteOptions{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	s.Seek(0, stream.Begin)

	decoded, err := Decode(s)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Format() != pixel.RGBP8 {
		t.Fatalf("Format() = %v, want RGBP8", decoded.Format())
	}
	if decoded.Pixels()[0] != 0 || decoded.Pixels()[1] != 1 {
		t.Fatalf("indices = %v, want [0 1]", decoded.Pixels())
	}
	if decoded.Palette()[0] != 1 || decoded.Palette()[1] != 2 || decoded.Palette()[2] != 3 {
		t.Errorf("palette[0] = %v, want [1 2 3]", decoded.Palette()[0:3])
	}
	if decoded.Palette()[3] != 4 || decoded.Palette()[4] != 5 || decoded.Palette()[5] != 6 {
		t.Errorf("palette[1] = %v, want [4 5 6]", decoded.Palette()[3:6])
	}
}

func TestEncodeConvertsBGRSource(t *testing.T) {
	img, err := pixel.New(1, 1, pixel.BGR, []byte{10, 20, 30}, nil)
	if err != nil {
		t.Fatalf("pixel.New: %v", err)
	}

	s := stream.NewMemoryStream(0)
	if err := Encode(s, img, WriteOptions{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	s.Seek(0, stream.Begin)

	decoded, err := Decode(s)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	// BGR (B=10,G=20,R=30) converts to RGB (R=30,G=20,B=10).
	want := []byte{30, 20, 10}
	for i, b := range want {
		if decoded.Pixels()[i] != b {
			t.Errorf("byte %d = %d, want %d", i, decoded.Pixels()[i], b)
		}
	}
}

func TestDecodeRejectsBadSignature(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	s := stream.NewMemoryStreamFromBytes(data, len(data))
	if _, err := Decode(s); err != ErrBadSignature {
		t.Errorf("Decode = %v, want ErrBadSignature", err)
	}
}
