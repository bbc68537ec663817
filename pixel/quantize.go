package pixel

import "github.com/kyuu/azura/internal/quantize"

// quantizeToRGBP8 reduces an RGB image to RGBP8 via octree color
// quantization. img must already be in RGB format.
func quantizeToRGBP8(img *Image) (*Image, error) {
	n := img.width * img.height
	result := quantize.Quantize(img.pixels, n)

	out, err := New(img.width, img.height, RGBP8, result.Indices, result.Palette)
	if err != nil {
		return nil, err
	}
	return out, nil
}
