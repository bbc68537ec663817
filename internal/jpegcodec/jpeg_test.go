package jpegcodec

import (
	"testing"

	"github.com/kyuu/azura/pixel"
	"github.com/kyuu/azura/stream"
)

func TestRoundTripSolidGrayWithinTolerance(t *testing.T) {
	const w, h = 16, 16
	pixels := make([]byte, w*h*3)
	for i := range pixels {
		pixels[i] = 128
	}
	img, err := pixel.New(w, h, pixel.RGB, pixels, nil)
	if err != nil {
		t.Fatalf("pixel.New: %v", err)
	}

	s := stream.NewMemoryStream(0)
	if err := Encode(s, img, WriteOptions{Quality: 90}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	s.Seek(0, stream.Begin)

	decoded, err := Decode(s)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Width() != w || decoded.Height() != h || decoded.Format() != pixel.RGB {
		t.Fatalf("got %dx%d %v, want %dx%d RGB", decoded.Width(), decoded.Height(), decoded.Format(), w, h)
	}

	var sum, n int
	for i, b := range decoded.Pixels() {
		d := int(pixels[i]) - int(b)
		if d < 0 {
			d = -d
		}
		sum += d
		n++
	}
	mean := float64(sum) / float64(n)
	if mean > 8 {
		t.Errorf("mean per-channel absolute error = %.2f, want <= 8", mean)
	}
}

func TestEncodeConvertsNonRGBSource(t *testing.T) {
	img, err := pixel.New(1, 1, pixel.BGRA, []byte{10, 20, 30, 0xFF}, nil)
	if err != nil {
		t.Fatalf("pixel.New: %v", err)
	}
	s := stream.NewMemoryStream(0)
	if err := Encode(s, img, WriteOptions{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if s.Size() == 0 {
		t.Error("Encode wrote no bytes")
	}
}
