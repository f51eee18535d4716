package pixbuf

import (
	"image"
	"log/slog"
)

// RgbSwapped returns a copy with the red and blue channels exchanged.
// Indexed images swap their color table. Gray and alpha-only images are
// returned shared, and CMYK images are returned unchanged with a warning.
func (img *Image) RgbSwapped() *Image {
	if img.IsNull() {
		return &Image{}
	}
	switch img.d.format {
	case FormatAlpha8, FormatGrayscale8, FormatGrayscale16:
		return img.Share()
	case FormatCMYK8888:
		warn("RgbSwapped", "format has no red and blue channels", slog.String("format", img.d.format.String()))
		return img.Share()
	}
	res := img.Copy(image.Rectangle{})
	if res.IsNull() {
		return res
	}
	rgbSwap(res.d)
	return res
}

// RgbSwap exchanges the red and blue channels in place.
func (img *Image) RgbSwap() {
	if img.IsNull() {
		return
	}
	switch img.d.format {
	case FormatAlpha8, FormatGrayscale8, FormatGrayscale16:
		return
	case FormatCMYK8888:
		warn("RgbSwap", "format has no red and blue channels", slog.String("format", img.d.format.String()))
		return
	}
	img.detach()
	if img.IsNull() {
		return
	}
	if !img.d.ownData {
		img.assign(img.Copy(image.Rectangle{}))
		if img.IsNull() {
			return
		}
	}
	rgbSwap(img.d)
}

func swapRGB30(c uint32) uint32 {
	return (c<<20)&0x3ff00000 | (c>>20)&0x3ff | c&0xc00ffc00
}

// swapBytes exchanges the n-byte channels at offsets a and b of every
// pixel of size bpp.
func swapBytes(row []byte, w, bpp, a, b, n int) {
	for x := range w {
		p := row[x*bpp:]
		for i := range n {
			p[a+i], p[b+i] = p[b+i], p[a+i]
		}
	}
}

func rgbSwap(d *imageData) {
	switch d.format {
	case FormatMono, FormatMonoLSB, FormatIndexed8:
		for i, c := range d.colorTable {
			d.colorTable[i] = swapRB(c)
		}
		return
	}
	l := &layouts[d.format]
	for y := range d.height {
		row := d.scanLine(y)
		switch d.format {
		case FormatRGB32, FormatARGB32, FormatARGB32Premultiplied,
			FormatRGBX8888, FormatRGBA8888, FormatRGBA8888Premultiplied:
			for x := range d.width {
				put32(row, x, swapRB(le32(row, x)))
			}
		case FormatRGB16:
			for x := range d.width {
				c := le16(row, x)
				put16(row, x, (c<<11)&0xf800|(c>>11)&0x1f|c&0x07e0)
			}
		case FormatBGR30, FormatA2BGR30Premultiplied, FormatRGB30, FormatA2RGB30Premultiplied:
			for x := range d.width {
				put32(row, x, swapRGB30(le32(row, x)))
			}
		case FormatRGB888, FormatBGR888:
			swapBytes(row, d.width, 3, 0, 2, 1)
		case FormatRGBX64, FormatRGBA64, FormatRGBA64Premultiplied,
			FormatRGBX16FPx4, FormatRGBA16FPx4, FormatRGBA16FPx4Premultiplied:
			swapBytes(row, d.width, 8, 0, 4, 2)
		case FormatRGBX32FPx4, FormatRGBA32FPx4, FormatRGBA32FPx4Premultiplied:
			swapBytes(row, d.width, 16, 0, 8, 4)
		default:
			for x := range d.width {
				l.store32(row, x, swapRB(l.fetch32(row, x, nil)))
			}
		}
	}
}
