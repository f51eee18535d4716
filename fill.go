package pixbuf

import (
	"bytes"
	"encoding/binary"
	"image/color"

	"github.com/gogpu/pixbuf/internal/blend"
)

// Fill sets every pixel to v. For formats up to 32 bits, v is the raw pixel
// word: an index for indexed formats, bit 0 for mono, and the packed value
// for the rest. Padding bits that must be set (the top byte of RGB32 and
// RGBX8888, the high bits of RGB444, RGB666, BGR30 and RGB30) are forced.
// For 64-bit and floating point formats v is 0xAARRGGBB.
func (img *Image) Fill(v uint32) {
	if img.IsNull() {
		return
	}
	img.detach()
	if img.IsNull() {
		return
	}
	d := img.d
	switch {
	case d.depth == 1 || d.depth == 8:
		w := d.width
		if d.depth == 1 {
			if v&1 != 0 {
				v = 0xff
			} else {
				v = 0
			}
			w = (w + 7) / 8
		}
		img.fillBytes(w, []byte{byte(v)})
		return
	case d.depth == 16:
		if d.format == FormatRGB444 {
			v |= 0xf000
		}
		var pat [2]byte
		binary.LittleEndian.PutUint16(pat[:], uint16(v))
		img.fillPattern(pat[:])
		return
	case d.depth == 24:
		if d.format == FormatRGB666 {
			v |= 0xfc0000
		}
		var pat [3]byte
		put24(pat[:], 0, v)
		img.fillPattern(pat[:])
		return
	case d.format.IsFloatingPoint():
		pat := make([]byte, d.depth/8)
		c := rgbaFFromARGB32(v)
		if d.depth == 64 {
			putHalf(pat, c.R)
			putHalf(pat[2:], c.G)
			putHalf(pat[4:], c.B)
			putHalf(pat[6:], c.A)
		} else {
			putF32(pat, c.R)
			putF32(pat[4:], c.G)
			putF32(pat[8:], c.B)
			putF32(pat[12:], c.A)
		}
		img.fillPattern(pat)
		return
	case d.depth == 64:
		img.fill64(rgba64FromARGB32(v))
		return
	}

	switch d.format {
	case FormatRGB32, FormatRGBX8888:
		v |= 0xff000000
	case FormatBGR30, FormatRGB30:
		v |= 0xc0000000
	}
	var pat [4]byte
	binary.LittleEndian.PutUint32(pat[:], v)
	img.fillPattern(pat[:])
}

func (img *Image) fill64(c rgba64) {
	var pat [8]byte
	binary.LittleEndian.PutUint16(pat[:], c.R)
	binary.LittleEndian.PutUint16(pat[2:], c.G)
	binary.LittleEndian.PutUint16(pat[4:], c.B)
	binary.LittleEndian.PutUint16(pat[6:], c.A)
	img.fillPattern(pat[:])
}

// fillBytes repeats pat over the first n bytes of every row.
func (img *Image) fillBytes(n int, pat []byte) {
	d := img.d
	first := d.scanLine(0)[:n]
	for i := 0; i < n; i += len(pat) {
		copy(first[i:], pat)
	}
	for y := 1; y < d.height; y++ {
		copy(d.scanLine(y), first)
	}
}

// fillPattern repeats one encoded pixel across the image.
func (img *Image) fillPattern(pat []byte) {
	img.fillBytes(img.d.width*len(pat), pat)
}

// FillColor sets every pixel to c, converted to the format. Indexed images
// are filled with the first color table entry equal to c, or index 0.
func (img *Image) FillColor(c color.Color) {
	if img.IsNull() {
		return
	}
	if c == nil {
		warn("FillColor", "color is invalid")
		return
	}
	img.detach()
	if img.IsNull() {
		return
	}
	d := img.d
	argb := FromColor(c)
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	c64 := rgba64{n.R, n.G, n.B, n.A}
	opaque := c64
	opaque.A = 0xffff

	switch d.format {
	case FormatRGB32, FormatARGB32:
		img.Fill(argb)
	case FormatARGB32Premultiplied:
		img.Fill(blend.Premultiply(argb))
	case FormatRGBX8888:
		img.Fill(swapRB(argb | 0xff000000))
	case FormatRGBA8888:
		img.Fill(swapRB(argb))
	case FormatRGBA8888Premultiplied:
		img.Fill(swapRB(blend.Premultiply(argb)))
	case FormatBGR30, FormatRGB30:
		var pat [4]byte
		layouts[d.format].store64(pat[:], 0, opaque)
		img.fillPattern(pat[:])
	case FormatRGB16:
		var pat [2]byte
		layouts[FormatRGB16].store32(pat[:], 0, argb)
		img.fillPattern(pat[:])
	case FormatMono, FormatMonoLSB, FormatIndexed8:
		idx := uint32(0)
		for i, e := range d.colorTable {
			if e == argb {
				idx = uint32(i)
				break
			}
		}
		img.Fill(idx)
	case FormatRGBX64:
		img.fill64(opaque)
	case FormatRGBA64:
		img.fill64(c64)
	case FormatRGBA64Premultiplied:
		img.fill64(c64.premultiplied())
	default:
		pat := make([]byte, (d.depth+7)/8)
		l := &layouts[d.format]
		switch {
		case d.format.IsFloatingPoint():
			cf := rgbaF(RgbaF32Model.Convert(c).(RgbaF32))
			if !d.format.HasAlpha() {
				cf.A = 1
			} else if d.format.IsPremultiplied() {
				cf = cf.premultiplied()
			}
			l.storeF(pat, 0, cf)
		case d.format.IsPremultiplied():
			l.store32(pat, 0, blend.Premultiply(argb))
		default:
			l.store32(pat, 0, argb)
		}
		img.fillPattern(pat)
	}
}

// InvertPixels inverts every pixel. Premultiplied images are inverted in
// their unpremultiplied form so that the result stays valid. With
// InvertRgb alpha is left untouched.
func (img *Image) InvertPixels(mode InvertMode) {
	if img.IsNull() {
		return
	}
	img.detach()
	if img.IsNull() {
		return
	}
	orig := img.d.format
	if img.HasAlphaChannel() && orig.IsPremultiplied() {
		switch {
		case orig == FormatRGBA16FPx4Premultiplied:
			img.ConvertTo(FormatRGBA16FPx4, 0)
		case orig == FormatRGBA32FPx4Premultiplied:
			img.ConvertTo(FormatRGBA32FPx4, 0)
		case orig.Depth() > 32:
			img.ConvertTo(FormatRGBA64, 0)
		default:
			img.ConvertTo(FormatARGB32, 0)
		}
		if img.IsNull() {
			return
		}
	}

	d := img.d
	switch {
	case d.depth < 32:
		n := (d.width*d.depth + 7) / 8
		for y := range d.height {
			row := d.scanLine(y)[:n]
			for i := range row {
				row[i] ^= 0xff
			}
		}
	case d.format.IsFloatingPoint():
		l := &layouts[d.format]
		for y := range d.height {
			row := d.scanLine(y)
			for x := range d.width {
				c := l.fetchF(row, x, nil)
				c.R, c.G, c.B = 1-c.R, 1-c.G, 1-c.B
				if mode == InvertRgba {
					c.A = 1 - c.A
				}
				l.storeF(row, x, c)
			}
		}
	case d.depth == 64:
		for y := range d.height {
			row := d.scanLine(y)
			for x := range d.width {
				o := row[x*8:]
				for ch := range 3 {
					binary.LittleEndian.PutUint16(o[ch*2:], ^binary.LittleEndian.Uint16(o[ch*2:]))
				}
				if mode == InvertRgba {
					binary.LittleEndian.PutUint16(o[6:], ^binary.LittleEndian.Uint16(o[6:]))
				}
			}
		}
	default:
		xor := uint32(0xffffffff)
		switch d.format {
		case FormatRGBA8888, FormatARGB32:
			if mode != InvertRgba {
				xor = 0x00ffffff
			}
		case FormatRGBX8888, FormatRGB32:
			xor = 0x00ffffff
		case FormatBGR30, FormatRGB30:
			xor = 0x3fffffff
		}
		for y := range d.height {
			row := d.scanLine(y)
			for x := range d.width {
				put32(row, x, le32(row, x)^xor)
			}
		}
	}

	if img.d.format != orig {
		img.ConvertTo(orig, 0)
	}
}

// AllGray reports whether every pixel has equal red, green and blue.
// Indexed images check their color table instead of their pixels.
func (img *Image) AllGray() bool {
	if img.IsNull() {
		return true
	}
	d := img.d
	switch d.format {
	case FormatMono, FormatMonoLSB, FormatIndexed8:
		for _, c := range d.colorTable {
			if !isGrayRGB(c) {
				return false
			}
		}
		return true
	case FormatAlpha8:
		return false
	case FormatGrayscale8, FormatGrayscale16:
		return true
	}
	l := &layouts[d.format]
	if d.format.IsHighColorPrecision(true) && d.depth > 32 {
		for y := range d.height {
			row := d.scanLine(y)
			for x := range d.width {
				c := l.fetch64(row, x, nil)
				if c.R != c.G || c.G != c.B {
					return false
				}
			}
		}
		return true
	}
	for y := range d.height {
		row := d.scanLine(y)
		for x := range d.width {
			if !isGrayRGB(l.fetch32(row, x, nil)) {
				return false
			}
		}
	}
	return true
}

// IsGrayscale reports whether the image holds only shades of gray.
// Indexed images qualify only when entry i of the table is RGB(i, i, i).
func (img *Image) IsGrayscale() bool {
	if img.IsNull() {
		return false
	}
	d := img.d
	switch d.format {
	case FormatAlpha8:
		return false
	case FormatGrayscale8, FormatGrayscale16:
		return true
	}
	switch d.depth {
	case 16, 24, 32, 64, 128:
		return img.AllGray()
	case 8:
		for i, c := range d.colorTable {
			if c != RGB(uint8(i), uint8(i), uint8(i)) {
				return false
			}
		}
		return true
	}
	return false
}

// HasAlphaChannel reports whether the format carries alpha, or the color
// table of an indexed image has a translucent entry.
func (img *Image) HasAlphaChannel() bool {
	if img.IsNull() {
		return false
	}
	if img.d.format.HasAlpha() {
		return true
	}
	return img.d.format.IsIndexed() && img.d.hasAlphaClut
}

// HasAlphaPixels reports whether any pixel is not fully opaque. It scans
// the image, stopping at the first translucent row.
func (img *Image) HasAlphaPixels() bool {
	if img.IsNull() {
		return false
	}
	return img.d.hasAlphaPixels()
}

func (d *imageData) hasAlphaPixels() bool {
	switch {
	case d.format.IsIndexed():
		return d.hasAlphaClut
	case d.format == FormatAlpha8:
		return true
	case !d.format.HasAlpha():
		return false
	}
	l := &layouts[d.format]
	switch {
	case d.format.IsFloatingPoint():
		for y := range d.height {
			row := d.scanLine(y)
			for x := range d.width {
				if l.fetchF(row, x, nil).A < 1 {
					return true
				}
			}
		}
	case d.depth == 64:
		for y := range d.height {
			row := d.scanLine(y)
			and := uint16(0xffff)
			for x := range d.width {
				and &= binary.LittleEndian.Uint16(row[x*8+6:])
			}
			if and != 0xffff {
				return true
			}
		}
	default:
		for y := range d.height {
			row := d.scanLine(y)
			and := uint32(0xff000000)
			for x := range d.width {
				and &= l.fetch32(row, x, nil)
			}
			if and != 0xff000000 {
				return true
			}
		}
	}
	return false
}

// Equal reports whether two images have the same size, format, color
// space and pixels. The undefined top byte of RGB32 is ignored, and
// indexed images compare the colors their indices refer to.
func (img *Image) Equal(o *Image) bool {
	if img.IsNull() || o.IsNull() {
		return img.IsNull() == o.IsNull()
	}
	a, b := img.d, o.d
	if a == b {
		return true
	}
	if a.width != b.width || a.height != b.height || a.format != b.format || a.colorSpace != b.colorSpace {
		return false
	}
	switch {
	case a.format == FormatRGB32:
		for y := range a.height {
			ra, rb := a.scanLine(y), b.scanLine(y)
			for x := range a.width {
				if le32(ra, x)&0x00ffffff != le32(rb, x)&0x00ffffff {
					return false
				}
			}
		}
	case a.format.IsIndexed():
		for y := range a.height {
			ra, rb := a.scanLine(y), b.scanLine(y)
			for x := range a.width {
				ia := uint32(img.pixelIndex(ra, x))
				ib := uint32(o.pixelIndex(rb, x))
				if clutLookup(a.colorTable, ia) != clutLookup(b.colorTable, ib) {
					return false
				}
			}
		}
	default:
		n := a.width * a.depth / 8
		for y := range a.height {
			if !bytes.Equal(a.scanLine(y)[:n], b.scanLine(y)[:n]) {
				return false
			}
		}
	}
	return true
}
