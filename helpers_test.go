package pixbuf

// pixels returns Pixel for every coordinate in row-major order.
func pixels(img *Image) []uint32 {
	out := make([]uint32, 0, img.Width()*img.Height())
	for y := range img.Height() {
		for x := range img.Width() {
			out = append(out, img.Pixel(x, y))
		}
	}
	return out
}

// indices returns PixelIndex for every coordinate in row-major order.
func indices(img *Image) []int {
	out := make([]int, 0, img.Width()*img.Height())
	for y := range img.Height() {
		for x := range img.Width() {
			out = append(out, img.PixelIndex(x, y))
		}
	}
	return out
}

// newFilled returns a w×h image whose pixels come from fn, set through
// SetPixel.
func newFilled(w, h int, f Format, fn func(x, y int) uint32) *Image {
	img := New(w, h, f)
	for y := range h {
		for x := range w {
			img.SetPixel(x, y, fn(x, y))
		}
	}
	return img
}

// gradient is a translucent ARGB32 test pattern.
func gradient(x, y int) uint32 {
	return ARGB(uint8(0x40+y*0x30), uint8(x*0x20), uint8(0xff-x*0x10), uint8(y*0x28))
}

// primaries cycles through colors every packed format stores exactly.
func primaries(x, y int) uint32 {
	colors := [...]uint32{0xffff0000, 0xff00ff00, 0xff0000ff, 0xffffffff, 0xff000000, 0xffffff00}
	return colors[(x+y)%len(colors)]
}
