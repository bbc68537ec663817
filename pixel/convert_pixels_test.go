package pixel

import "testing"

func TestConvertPixelsR5G6B5ToA8R8G8B8White(t *testing.T) {
	src := []byte{0xFF, 0xFF} // all 16 bits set: R=31, G=63, B=31
	dst := make([]byte, 4)
	ConvertPixels(src, R5G6B5, dst, A8R8G8B8, 1)
	want := []byte{0xFF, 0xFF, 0xFF, 0xFF} // B, G, R, A
	for i, b := range want {
		if dst[i] != b {
			t.Errorf("byte %d = 0x%02x, want 0x%02x", i, dst[i], b)
		}
	}
}

func TestConvertPixelsA1R5G5B5ZeroAlphaBitIsTransparent(t *testing.T) {
	src := []byte{0xFF, 0x7F} // alpha bit clear, RGB all-ones
	dst := make([]byte, 4)
	ConvertPixels(src, A1R5G5B5, dst, A8R8G8B8, 1)
	if dst[3] != 0 {
		t.Errorf("alpha = 0x%02x, want 0x00", dst[3])
	}
	if dst[0] != 0xFF || dst[1] != 0xFF || dst[2] != 0xFF {
		t.Errorf("RGB = (%d,%d,%d), want (255,255,255)", dst[2], dst[1], dst[0])
	}
}

func TestConvertPixelsRoundTripA8R8G8B8ToR5G6B5AndBack(t *testing.T) {
	src := []byte{0x10, 0x20, 0x30, 0xFF} // B=0x10 G=0x20 R=0x30 A=0xFF
	mid := make([]byte, 2)
	ConvertPixels(src, A8R8G8B8, mid, R5G6B5, 1)
	back := make([]byte, 4)
	ConvertPixels(mid, R5G6B5, back, A8R8G8B8, 1)

	for i, ch := range []string{"B", "G", "R"} {
		d := int(src[i]) - int(back[i])
		if d < 0 {
			d = -d
		}
		if d > 8 {
			t.Errorf("channel %s: src=%d back=%d, delta %d too large for a 5/6-bit round trip", ch, src[i], back[i], d)
		}
	}
}

func TestConvertPixelsMultiplePixels(t *testing.T) {
	src := []byte{0x00, 0x00, 0xFF, 0xFF}
	dst := make([]byte, 8)
	ConvertPixels(src, R5G6B5, dst, A8R8G8B8, 2)
	if dst[0] != 0 || dst[1] != 0 || dst[2] != 0 {
		t.Errorf("pixel 0 = (%d,%d,%d), want black", dst[2], dst[1], dst[0])
	}
	if dst[4] != 0xFF || dst[5] != 0xFF || dst[6] != 0xFF {
		t.Errorf("pixel 1 = (%d,%d,%d), want white", dst[6], dst[5], dst[4])
	}
}
