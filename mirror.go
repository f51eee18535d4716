package pixbuf

import (
	"image"
	"math/bits"
)

// Mirrored returns a copy flipped horizontally and/or vertically.
func (img *Image) Mirrored(horizontal, vertical bool) *Image {
	if img.IsNull() {
		return &Image{}
	}
	d := img.d
	if (d.width <= 1 && d.height <= 1) || (!horizontal && !vertical) {
		return img.Share()
	}
	out, err := newImageData(d.width, d.height, d.format)
	if err != nil {
		oom("Mirrored", d.width, d.height, d.format)
		return &Image{}
	}
	out.colorTable = append([]uint32(nil), d.colorTable...)
	out.hasAlphaClut = d.hasAlphaClut
	copyMetadata(out, d)
	mirrorData(out, d, horizontal, vertical)
	return wrap(out)
}

// Mirror flips the image in place.
func (img *Image) Mirror(horizontal, vertical bool) {
	if img.IsNull() || (img.d.width <= 1 && img.d.height <= 1) || (!horizontal && !vertical) {
		return
	}
	img.detach()
	if img.IsNull() {
		return
	}
	if !img.d.ownData {
		img.assign(img.copyRect(image.Rectangle{}, "Mirror"))
		if img.IsNull() {
			return
		}
	}
	mirrorData(img.d, img.d, horizontal, vertical)
}

// Flipped returns a copy mirrored along the axes named by o. Rotation bits
// in o are ignored.
func (img *Image) Flipped(o Orientation) *Image {
	return img.Mirrored(o&OrientationMirror != 0, o&OrientationFlip != 0)
}

// mirrorData writes the mirror of src into dst, which may be src itself.
// 1-bit rows are mirrored bytewise first and then bit-reversed.
func mirrorData(dst, src *imageData, horizontal, vertical bool) {
	w, bpp := src.width, src.depth/8
	if src.depth == 1 {
		w, bpp = (src.width+7)/8, 1
	}
	n := w * bpp
	h := src.height
	inPlace := dst == src

	switch {
	case vertical && !horizontal:
		if inPlace {
			tmp := make([]byte, n)
			for y := range h / 2 {
				a, b := dst.scanLine(y)[:n], dst.scanLine(h-1-y)[:n]
				copy(tmp, a)
				copy(a, b)
				copy(b, tmp)
			}
		} else {
			for y := range h {
				copy(dst.scanLine(h-1-y)[:n], src.scanLine(y)[:n])
			}
		}
	case inPlace && vertical:
		for y := range h / 2 {
			swapMirrored(dst.scanLine(y), dst.scanLine(h-1-y), w, bpp)
		}
		if h%2 == 1 {
			mirrorInPlace(dst.scanLine(h/2), w, bpp)
		}
	case inPlace:
		for y := range h {
			mirrorInPlace(dst.scanLine(y), w, bpp)
		}
	default:
		for y := range h {
			sy := y
			if vertical {
				sy = h - 1 - y
			}
			mirrorRow(dst.scanLine(y), src.scanLine(sy), w, bpp)
		}
	}

	if horizontal && src.depth == 1 {
		lsb := dst.format == FormatMonoLSB
		for y := range h {
			reverseBits(dst.scanLine(y)[:w], src.width, lsb)
		}
	}
}

func mirrorRow(dst, src []byte, w, bpp int) {
	for x := range w {
		copy(dst[x*bpp:(x+1)*bpp], src[(w-1-x)*bpp:])
	}
}

func mirrorInPlace(row []byte, w, bpp int) {
	for i, j := 0, w-1; i < j; i, j = i+1, j-1 {
		swapPixel(row[i*bpp:(i+1)*bpp], row[j*bpp:(j+1)*bpp])
	}
}

// swapMirrored exchanges two distinct rows, mirroring both.
func swapMirrored(a, b []byte, w, bpp int) {
	for x := range w {
		swapPixel(a[x*bpp:(x+1)*bpp], b[(w-1-x)*bpp:(w-x)*bpp])
	}
}

func swapPixel(a, b []byte) {
	for i := range a {
		a[i], b[i] = b[i], a[i]
	}
}

// reverseBits finishes a horizontal mirror of a 1-bit row whose bytes are
// already in mirrored order: it reverses the bits of each byte, then shifts
// the row by the padding bits of the last byte.
func reverseBits(row []byte, width int, lsb bool) {
	for i, b := range row {
		row[i] = bits.Reverse8(b)
	}
	shift := uint(len(row)*8 - width)
	if shift == 0 {
		return
	}
	last := len(row) - 1
	for i := range last {
		if lsb {
			row[i] = row[i]>>shift | row[i+1]<<(8-shift)
		} else {
			row[i] = row[i]<<shift | row[i+1]>>(8-shift)
		}
	}
	if lsb {
		row[last] >>= shift
	} else {
		row[last] <<= shift
	}
}
