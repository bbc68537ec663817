package azura

import (
	"testing"

	"github.com/kyuu/azura/stream"
)

func solidImage(t *testing.T, w, h int, format Format, fill byte) *Image {
	t.Helper()
	d := 0
	switch format {
	case RGB, BGR:
		d = 3
	case RGBA, BGRA:
		d = 4
	default:
		t.Fatalf("unsupported format in test helper: %v", format)
	}
	pixels := make([]byte, w*h*d)
	for i := range pixels {
		pixels[i] = fill
	}
	img, err := CreateImage(w, h, format, pixels, nil)
	if err != nil {
		t.Fatalf("CreateImage: %v", err)
	}
	return img
}

func TestFormatFromFilename(t *testing.T) {
	cases := map[string]FileFormat{
		"a.bmp":     FormatBMP,
		"a.dib":     FormatBMP,
		"a.png":     FormatPNG,
		"a.jpg":     FormatJPEG,
		"a.jpeg":    FormatJPEG,
		"a.jpe":     FormatJPEG,
		"a.jfif":    FormatJPEG,
		"a.BMP":     FormatUnknown, // case-sensitive
		"noext":     FormatUnknown,
		"a.":        FormatUnknown,
		"dir/a.png": FormatPNG,
	}
	for name, want := range cases {
		if got := formatFromFilename(name); got != want {
			t.Errorf("formatFromFilename(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestWriteReadImageStreamPNG(t *testing.T) {
	img := solidImage(t, 3, 2, RGB, 0x55)
	s := stream.NewMemoryStream(0)
	if err := WriteImage(img, s, FormatPNG); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	s.Seek(0, stream.Begin)

	got, err := ReadImage(s, FormatPNG, DontCare)
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	if got.Width() != 3 || got.Height() != 2 || got.Format() != RGB {
		t.Fatalf("got %dx%d %v", got.Width(), got.Height(), got.Format())
	}
}

func TestReadImageAutoDetectTriesEachCodec(t *testing.T) {
	img := solidImage(t, 1, 1, RGB, 0x11)
	s := stream.NewMemoryStream(0)
	if err := WriteImage(img, s, FormatPNG); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	s.Seek(0, stream.Begin)

	got, err := ReadImage(s, FormatAutoDetect, DontCare)
	if err != nil {
		t.Fatalf("ReadImage autodetect: %v", err)
	}
	if got.Width() != 1 || got.Height() != 1 {
		t.Fatalf("got %dx%d", got.Width(), got.Height())
	}
	if s.Tell() != int64(s.Size()) {
		t.Errorf("stream position = %d, want end of stream (%d)", s.Tell(), s.Size())
	}
}

func TestReadImageAutoDetectFailsOnGarbage(t *testing.T) {
	s := stream.NewMemoryStreamFromBytes([]byte{0, 1, 2, 3, 4, 5, 6, 7}, 8)
	if _, err := ReadImage(s, FormatAutoDetect, DontCare); err == nil {
		t.Error("expected an error decoding garbage data, got nil")
	}
}

func TestReadImageRequestedFormatConverts(t *testing.T) {
	img := solidImage(t, 2, 2, RGB, 0x22)
	s := stream.NewMemoryStream(0)
	if err := WriteImage(img, s, FormatBMP); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	s.Seek(0, stream.Begin)

	got, err := ReadImage(s, FormatBMP, BGRA)
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	if got.Format() != BGRA {
		t.Fatalf("Format() = %v, want BGRA", got.Format())
	}
}

func TestWriteImageUnknownFormatFails(t *testing.T) {
	img := solidImage(t, 1, 1, RGB, 0)
	s := stream.NewMemoryStream(0)
	if err := WriteImage(img, s, FormatAutoDetect); err == nil {
		t.Error("expected WriteImage to reject FormatAutoDetect")
	}
}
