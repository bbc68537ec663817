package pngcodec

// adam7Pass describes one of the seven interlacing passes: the first
// sample's offset and the stride between samples, in both dimensions.
type adam7Pass struct{ x0, y0, xStep, yStep int }

var adam7Passes = [7]adam7Pass{
	{0, 0, 8, 8},
	{4, 0, 8, 8},
	{0, 4, 4, 8},
	{2, 0, 4, 4},
	{0, 2, 2, 4},
	{1, 0, 2, 2},
	{0, 1, 1, 2},
}

// dims returns the pixel width and height of this pass over a full
// width x height image.
func (p adam7Pass) dims(width, height int) (int, int) {
	w := 0
	if width > p.x0 {
		w = (width - p.x0 + p.xStep - 1) / p.xStep
	}
	h := 0
	if height > p.y0 {
		h = (height - p.y0 + p.yStep - 1) / p.yStep
	}
	return w, h
}
