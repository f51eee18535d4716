package pixbuf

import (
	"image/color"
	"log/slog"

	"github.com/gogpu/pixbuf/internal/blend"
)

// Sentinels returned for coordinates outside the image.
const (
	outOfRangePixel = 12345
	outOfRangeIndex = -12345
)

// Pixel returns the color at (x, y) as 0xAARRGGBB. Indexed formats return
// their color table entry. Premultiplied formats return premultiplied
// values; all others return unpremultiplied ones.
func (img *Image) Pixel(x, y int) uint32 {
	if !img.Valid(x, y) {
		warn("Pixel", "coordinate out of range", slog.Int("x", x), slog.Int("y", y))
		return outOfRangePixel
	}
	d := img.d
	row := d.scanLine(y)
	switch d.format {
	case FormatMono, FormatMonoLSB, FormatIndexed8:
		i := img.pixelIndex(row, x)
		if i >= len(d.colorTable) {
			warn("Pixel", "color table index out of range", slog.Int("index", i))
			return 0
		}
		return d.colorTable[i]
	}
	return layouts[d.format].fetch32(row, x, d.colorTable)
}

func (img *Image) pixelIndex(row []byte, x int) int {
	switch img.d.format {
	case FormatMono:
		return int(monoBit(row, x, false))
	case FormatMonoLSB:
		return int(monoBit(row, x, true))
	}
	return int(row[x])
}

// PixelIndex returns the color table index at (x, y) of an indexed image.
func (img *Image) PixelIndex(x, y int) int {
	if !img.Valid(x, y) {
		warn("PixelIndex", "coordinate out of range", slog.Int("x", x), slog.Int("y", y))
		return outOfRangeIndex
	}
	if !img.d.format.IsIndexed() {
		warn("PixelIndex", "not applicable without a palette", slog.String("format", img.d.format.String()))
		return 0
	}
	return img.pixelIndex(img.d.scanLine(y), x)
}

// SetPixel stores v at (x, y). For indexed formats v is a color table
// index; otherwise it is 0xAARRGGBB in the domain Pixel returns. Formats
// without alpha store the color opaque.
func (img *Image) SetPixel(x, y int, v uint32) {
	if !img.Valid(x, y) {
		warn("SetPixel", "coordinate out of range", slog.Int("x", x), slog.Int("y", y))
		return
	}
	switch img.d.format {
	case FormatMono, FormatMonoLSB:
		if v > 1 {
			warn("SetPixel", "index out of range", slog.Int("index", int(v)))
			return
		}
	case FormatIndexed8:
		if int(v) >= len(img.d.colorTable) {
			warn("SetPixel", "index out of range", slog.Int("index", int(v)))
			return
		}
	}
	row := img.ScanLine(y)
	if row == nil {
		return
	}
	img.setPixel(row, x, v)
}

// setPixel writes into a row that is already detached.
func (img *Image) setPixel(row []byte, x int, v uint32) {
	switch img.d.format {
	case FormatMono:
		if v == 0 {
			row[x>>3] &^= 0x80 >> (x & 7)
		} else {
			row[x>>3] |= 0x80 >> (x & 7)
		}
	case FormatMonoLSB:
		if v == 0 {
			row[x>>3] &^= 1 << (x & 7)
		} else {
			row[x>>3] |= 1 << (x & 7)
		}
	case FormatIndexed8:
		row[x] = byte(v)
	default:
		layouts[img.d.format].store32(row, x, v)
	}
}

// PixelColor returns the color at (x, y) at the precision of the format,
// always unpremultiplied. The concrete type is color.NRGBA for 8-bit RGB
// formats, color.NRGBA64 for 10 and 16-bit formats, RgbaF32 for floating
// point formats, color.Gray or color.Gray16 for gray and color.CMYK for
// CMYK8888.
func (img *Image) PixelColor(x, y int) color.Color {
	if !img.Valid(x, y) {
		warn("PixelColor", "coordinate out of range", slog.Int("x", x), slog.Int("y", y))
		return color.NRGBA64{}
	}
	d := img.d
	row := d.scanLine(y)
	l := &layouts[d.format]
	switch d.format {
	case FormatGrayscale8:
		return color.Gray{Y: row[x]}
	case FormatGrayscale16:
		return color.Gray16{Y: uint16(le16(row, x))}
	case FormatCMYK8888:
		w := le32(row, x)
		return color.CMYK{C: uint8(w >> 24), M: uint8(w >> 16), Y: uint8(w >> 8), K: uint8(w)}
	case FormatBGR30, FormatA2BGR30Premultiplied, FormatRGB30, FormatA2RGB30Premultiplied,
		FormatRGBX64, FormatRGBA64, FormatRGBA64Premultiplied:
		c := l.fetch64(row, x, d.colorTable)
		if d.format.IsPremultiplied() {
			c = c.unpremultiplied()
		}
		return color.NRGBA64{R: c.R, G: c.G, B: c.B, A: c.A}
	}
	if d.format.IsFloatingPoint() {
		c := l.fetchF(row, x, d.colorTable)
		if d.format.IsPremultiplied() {
			c = c.unpremultiplied()
		}
		return RgbaF32(c)
	}
	p := img.Pixel(x, y)
	if d.format.IsPremultiplied() {
		p = blend.Unpremultiply(p)
	}
	return color.NRGBA{R: Red(p), G: Green(p), B: Blue(p), A: Alpha(p)}
}

// SetPixelColor stores c at (x, y). Indexed formats are not supported.
func (img *Image) SetPixelColor(x, y int, c color.Color) {
	if !img.Valid(x, y) {
		warn("SetPixelColor", "coordinate out of range", slog.Int("x", x), slog.Int("y", y))
		return
	}
	if c == nil {
		warn("SetPixelColor", "color is invalid")
		return
	}
	f := img.d.format
	if f.IsIndexed() {
		warn("SetPixelColor", "called on monochrome or indexed format", slog.String("format", f.String()))
		return
	}
	hasAlpha := img.HasAlphaChannel()

	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	c64 := rgba64{n.R, n.G, n.B, n.A}
	if !hasAlpha {
		c64.A = 0xffff
	} else if f.IsPremultiplied() {
		c64 = c64.premultiplied()
	}

	row := img.ScanLine(y)
	if row == nil {
		return
	}
	l := &layouts[f]
	switch f {
	case FormatBGR30, FormatA2BGR30Premultiplied, FormatRGB30, FormatA2RGB30Premultiplied,
		FormatRGBX64, FormatRGBA64, FormatRGBA64Premultiplied, FormatGrayscale16:
		l.store64(row, x, c64)
		return
	}
	if f.IsFloatingPoint() {
		cf := rgbaF(RgbaF32Model.Convert(c).(RgbaF32))
		if !hasAlpha {
			cf.A = 1
		} else if f.IsPremultiplied() {
			cf = cf.premultiplied()
		}
		l.storeF(row, x, cf)
		return
	}
	img.setPixel(row, x, c64.toARGB32())
}
