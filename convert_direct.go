package pixbuf

import (
	"math/bits"

	"github.com/gogpu/pixbuf/internal/blend"
)

// rowMap32 returns a converter that applies fn to every 32-bit word.
func rowMap32(fn func(uint32) uint32) converter {
	return func(dst, src *imageData, _ ConversionFlags) {
		for y := range src.height {
			srow, drow := src.scanLine(y), dst.scanLine(y)
			for x := range src.width {
				put32(drow, x, fn(le32(srow, x)))
			}
		}
	}
}

// inPlaceMap32 is rowMap32 over the buffer itself, retagged as f.
func inPlaceMap32(f Format, fn func(uint32) uint32) inPlaceConverter {
	return func(d *imageData, _ ConversionFlags) bool {
		for y := range d.height {
			row := d.scanLine(y)
			for x := range d.width {
				put32(row, x, fn(le32(row, x)))
			}
		}
		d.format = f
		return true
	}
}

func maskAlpha(p uint32) uint32 { return p | 0xff000000 }

func swapRBOpaque(p uint32) uint32 { return swapRB(p) | 0xff000000 }

func unpremultiplyOpaque(p uint32) uint32 { return blend.Unpremultiply(p) | 0xff000000 }

// map32 registers a direct and an in-place converter for a word-wise map.
func map32(from, to Format, fn func(uint32) uint32) {
	converters[from][to] = rowMap32(fn)
	inPlaceConverters[from][to] = inPlaceMap32(to, fn)
}

// fixColorTable adapts a palette to a 32-bit target: opaque targets get
// alpha forced to 0xff and premultiplied targets get premultiplied entries.
// The result always has n entries; missing ones are black for RGB32 and
// transparent otherwise.
func fixColorTable(ct []uint32, f Format, n int) []uint32 {
	out := make([]uint32, n)
	var fallback uint32
	if f == FormatRGB32 {
		fallback = 0xff000000
	}
	for i := range out {
		if i >= len(ct) {
			out[i] = fallback
			continue
		}
		switch c := ct[i]; f {
		case FormatRGB32:
			out[i] = c | 0xff000000
		case FormatARGB32Premultiplied:
			out[i] = blend.Premultiply(c)
		default:
			out[i] = c
		}
	}
	return out
}

func convertIndexed8ToX32(dst, src *imageData, _ ConversionFlags) {
	ct := src.colorTable
	if len(ct) == 0 {
		ct = make([]uint32, 256)
		for i := range ct {
			ct[i] = RGB(uint8(i), uint8(i), uint8(i))
		}
	}
	table := fixColorTable(ct, dst.format, 256)
	for y := range src.height {
		srow, drow := src.scanLine(y), dst.scanLine(y)
		for x := range src.width {
			put32(drow, x, table[srow[x]])
		}
	}
}

// monoTable returns the two entries of a 1-bit palette, defaulting to black
// and white.
func monoTable(ct []uint32) []uint32 {
	t := []uint32{0xff000000, 0xffffffff}
	copy(t, ct)
	return t
}

func convertMonoToX32(dst, src *imageData, _ ConversionFlags) {
	table := fixColorTable(monoTable(src.colorTable), dst.format, 2)
	lsb := src.format == FormatMonoLSB
	for y := range src.height {
		srow, drow := src.scanLine(y), dst.scanLine(y)
		for x := range src.width {
			put32(drow, x, table[monoBit(srow, x, lsb)])
		}
	}
}

func convertMonoToIndexed8(dst, src *imageData, _ ConversionFlags) {
	dst.setColorTable(monoTable(src.colorTable))
	lsb := src.format == FormatMonoLSB
	for y := range src.height {
		srow, drow := src.scanLine(y), dst.scanLine(y)
		for x := range src.width {
			drow[x] = byte(monoBit(srow, x, lsb))
		}
	}
}

// convertMonoSwap reverses the bit order of every byte.
func convertMonoSwap(dst, src *imageData, _ ConversionFlags) {
	dst.setColorTable(append([]uint32(nil), src.colorTable...))
	n := minBytesPerLine(src.width, 1)
	for y := range src.height {
		srow, drow := src.scanLine(y), dst.scanLine(y)
		for i := range n {
			drow[i] = bits.Reverse8(srow[i])
		}
	}
}

func monoSwapInPlace(f Format) inPlaceConverter {
	return func(d *imageData, _ ConversionFlags) bool {
		for i, b := range d.data {
			d.data[i] = bits.Reverse8(b)
		}
		d.format = f
		return true
	}
}

func convertIndexed8ToMono(dst, src *imageData, flags ConversionFlags) {
	ditherToMono(dst, src, flags, false)
}

// unpremultipliedCopy returns src converted to ARGB32.
func unpremultipliedCopy(src *imageData) (*imageData, bool) {
	tmp, err := newImageData(src.width, src.height, FormatARGB32)
	if err != nil {
		return nil, false
	}
	rowMap32(blend.Unpremultiply)(tmp, src, 0)
	return tmp, true
}

func convertX32ToMono(dst, src *imageData, flags ConversionFlags) {
	if src.format == FormatARGB32Premultiplied {
		tmp, ok := unpremultipliedCopy(src)
		if !ok {
			return
		}
		src = tmp
	}
	ditherToMono(dst, src, flags, false)
}

func convertX32ToIndexed8(dst, src *imageData, flags ConversionFlags) {
	if src.format == FormatARGB32Premultiplied {
		tmp, ok := unpremultipliedCopy(src)
		if !ok {
			return
		}
		src = tmp
	}
	quantizeToIndexed8(dst, src, flags)
}

func init() {
	map32(FormatRGB32, FormatARGB32, maskAlpha)
	map32(FormatRGB32, FormatARGB32Premultiplied, maskAlpha)
	map32(FormatARGB32, FormatRGB32, maskAlpha)
	map32(FormatARGB32, FormatARGB32Premultiplied, blend.Premultiply)
	map32(FormatARGB32Premultiplied, FormatARGB32, blend.Unpremultiply)
	map32(FormatARGB32Premultiplied, FormatRGB32, unpremultiplyOpaque)

	map32(FormatRGBX8888, FormatRGBA8888, maskAlpha)
	map32(FormatRGBX8888, FormatRGBA8888Premultiplied, maskAlpha)
	map32(FormatRGBA8888, FormatRGBX8888, maskAlpha)
	map32(FormatRGBA8888, FormatRGBA8888Premultiplied, blend.Premultiply)
	map32(FormatRGBA8888Premultiplied, FormatRGBA8888, blend.Unpremultiply)

	map32(FormatRGB32, FormatRGBX8888, swapRBOpaque)
	map32(FormatRGBX8888, FormatRGB32, swapRBOpaque)
	map32(FormatARGB32, FormatRGBA8888, swapRB)
	map32(FormatRGBA8888, FormatARGB32, swapRB)
	map32(FormatARGB32Premultiplied, FormatRGBA8888Premultiplied, swapRB)
	map32(FormatRGBA8888Premultiplied, FormatARGB32Premultiplied, swapRB)

	for _, to := range []Format{FormatRGB32, FormatARGB32, FormatARGB32Premultiplied} {
		converters[FormatIndexed8][to] = convertIndexed8ToX32
		converters[FormatMono][to] = convertMonoToX32
		converters[FormatMonoLSB][to] = convertMonoToX32
	}
	converters[FormatMono][FormatIndexed8] = convertMonoToIndexed8
	converters[FormatMonoLSB][FormatIndexed8] = convertMonoToIndexed8
	converters[FormatMono][FormatMonoLSB] = convertMonoSwap
	converters[FormatMonoLSB][FormatMono] = convertMonoSwap
	inPlaceConverters[FormatMono][FormatMonoLSB] = monoSwapInPlace(FormatMonoLSB)
	inPlaceConverters[FormatMonoLSB][FormatMono] = monoSwapInPlace(FormatMono)

	for _, from := range []Format{FormatRGB32, FormatARGB32, FormatARGB32Premultiplied} {
		converters[from][FormatIndexed8] = convertX32ToIndexed8
		converters[from][FormatMono] = convertX32ToMono
		converters[from][FormatMonoLSB] = convertX32ToMono
	}
	converters[FormatIndexed8][FormatMono] = convertIndexed8ToMono
	converters[FormatIndexed8][FormatMonoLSB] = convertIndexed8ToMono
}
