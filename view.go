package pixbuf

import (
	"image"
	"image/color"
	"image/draw"
)

// View adapts an Image to the standard draw.Image and image.RGBA64Image
// interfaces. Reads go straight to the buffer. The first write detaches the
// image; later writes land in it directly, so the image must not be shared
// while a View writes to it.
type View struct {
	img      *Image
	writable bool
}

var (
	_ draw.Image        = (*View)(nil)
	_ draw.RGBA64Image  = (*View)(nil)
	_ image.RGBA64Image = (*View)(nil)
)

// View returns an adapter over img. A null image gives an empty view.
func (img *Image) View() *View {
	return &View{img: img}
}

// Image returns the image the view reads.
func (v *View) Image() *Image { return v.img }

// ColorModel returns the model matching the format's native precision.
func (v *View) ColorModel() color.Model {
	if v.img.IsNull() {
		return color.RGBAModel
	}
	d := v.img.d
	switch d.format {
	case FormatMono, FormatMonoLSB, FormatIndexed8:
		p := make(color.Palette, len(d.colorTable))
		for i, c := range d.colorTable {
			p[i] = color.NRGBA{R: Red(c), G: Green(c), B: Blue(c), A: Alpha(c)}
		}
		return p
	case FormatAlpha8:
		return color.AlphaModel
	case FormatGrayscale8:
		return color.GrayModel
	case FormatGrayscale16:
		return color.Gray16Model
	case FormatCMYK8888:
		return color.CMYKModel
	}
	switch {
	case d.format.IsFloatingPoint():
		return RgbaF32Model
	case d.format.IsHighColorPrecision(false) && d.format.Depth() > 32:
		if d.format.IsPremultiplied() {
			return color.RGBA64Model
		}
		return color.NRGBA64Model
	case d.format.IsPremultiplied() || !d.format.HasAlpha():
		return color.RGBAModel
	}
	return color.NRGBAModel
}

// Bounds returns the image rectangle with its origin at (0, 0).
func (v *View) Bounds() image.Rectangle { return v.img.Rect() }

// At returns the native-precision color at (x, y), or transparent black
// outside the image.
func (v *View) At(x, y int) color.Color {
	if !v.img.Valid(x, y) {
		return color.RGBA{}
	}
	return v.img.PixelColor(x, y)
}

// RGBA64At returns the premultiplied color at (x, y).
func (v *View) RGBA64At(x, y int) color.RGBA64 {
	if !v.img.Valid(x, y) {
		return color.RGBA64{}
	}
	d := v.img.d
	c := layouts[d.format].fetch64(d.scanLine(y), x, d.colorTable)
	if !d.format.IsPremultiplied() {
		c = c.premultiplied()
	}
	return color.RGBA64{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Opaque reports whether every pixel is fully opaque.
func (v *View) Opaque() bool {
	return !v.img.IsNull() && !v.img.HasAlphaPixels()
}

func (v *View) row(y int) []byte {
	if !v.writable {
		v.img.detach()
		v.writable = true
	}
	if v.img.IsNull() {
		return nil
	}
	return v.img.d.scanLine(y)
}

// Set stores c at (x, y). Indexed formats store the nearest palette entry.
func (v *View) Set(x, y int, c color.Color) {
	if !v.img.Valid(x, y) {
		return
	}
	if v.img.d.format.IsIndexed() {
		row := v.row(y)
		if row == nil {
			return
		}
		v.img.setPixel(row, x, closestMatch(FromColor(c), v.img.d.colorTable))
		return
	}
	r, g, b, a := c.RGBA()
	v.SetRGBA64(x, y, color.RGBA64{R: uint16(r), G: uint16(g), B: uint16(b), A: uint16(a)})
}

// SetRGBA64 stores a premultiplied color at (x, y).
func (v *View) SetRGBA64(x, y int, c color.RGBA64) {
	if !v.img.Valid(x, y) {
		return
	}
	d := v.img.d
	if d.format.IsIndexed() {
		v.Set(x, y, c)
		return
	}
	row := v.row(y)
	if row == nil {
		return
	}
	d = v.img.d
	p := rgba64{c.R, c.G, c.B, c.A}
	if !d.format.IsPremultiplied() {
		p = p.unpremultiplied()
	}
	layouts[d.format].store64(row, x, p)
}
