package pixbuf

import (
	"log/slog"

	"github.com/gogpu/pixbuf/internal/blend"
	"github.com/gogpu/pixbuf/internal/parallel"
)

// ParallelPixelThreshold is the pixel count below which per-pixel kernels
// (generic conversion and color transforms) run on the calling goroutine.
// Larger images are split into row bands.
var ParallelPixelThreshold = 65536

// converter fills dst, already allocated in the target format, from src.
type converter func(dst, src *imageData, flags ConversionFlags)

// inPlaceConverter rewrites d in a new format. It returns false when it
// cannot, leaving d untouched.
type inPlaceConverter func(d *imageData, flags ConversionFlags) bool

// Dispatch tables indexed by [source][target]. Pairs without an entry use
// the generic converters or are chained through RGB32 or ARGB32.
var (
	converters        [formatCount][formatCount]converter
	inPlaceConverters [formatCount][formatCount]inPlaceConverter
)

// ConvertToFormat returns the image in format f. Converting to the current
// format returns a shared handle to the same buffer.
func (img *Image) ConvertToFormat(f Format, flags ConversionFlags) *Image {
	if img.IsNull() {
		return &Image{}
	}
	if img.d.format == f {
		return img.Share()
	}
	return img.convertToFormatHelper(f, flags)
}

func (img *Image) convertToFormatHelper(f Format, flags ConversionFlags) *Image {
	d := img.d
	if d.format == f {
		return img.Share()
	}
	if !f.IsValid() {
		warn("ConvertToFormat", "invalid target format", slog.Int("format", int(f)))
		return &Image{}
	}

	conv := converters[d.format][f]
	if conv == nil && f > FormatIndexed8 && d.format > FormatIndexed8 {
		conv = genericConverter(d.format, f, img.HasAlphaChannel())
	}
	if conv != nil {
		out, err := newImageData(d.width, d.height, f)
		if err != nil {
			oom("ConvertToFormat", d.width, d.height, f)
			return &Image{}
		}
		copyMetadata(out, d)
		conv(out, d, flags)
		return wrap(out)
	}

	// Indexed formats without a direct path go through 32-bit RGB.
	via := FormatARGB32
	if !img.HasAlphaChannel() {
		via = FormatRGB32
	}
	debug("chained conversion", slog.String("from", d.format.String()),
		slog.String("via", via.String()), slog.String("to", f.String()))
	tmp := img.convertToFormatHelper(via, flags)
	if tmp.IsNull() {
		return tmp
	}
	defer tmp.Release()
	return tmp.convertToFormatHelper(f, flags)
}

// ConvertTo converts the image to f, in place when the buffer allows it.
func (img *Image) ConvertTo(f Format, flags ConversionFlags) {
	if img.IsNull() || !f.IsValid() || img.d.format == f {
		return
	}
	img.detach()
	if img.IsNull() {
		return
	}
	if img.d.convertInPlace(f, flags) {
		return
	}
	img.assign(img.convertToFormatHelper(f, flags))
}

// convertInPlace tries to rewrite d as format f without allocating a new
// buffer. It requires the sole reference to memory d owns.
func (d *imageData) convertInPlace(f Format, flags ConversionFlags) bool {
	if d.format == f {
		return true
	}
	if d.ref.Load() > 1 || !d.ownData {
		return false
	}
	if d.retag(f) {
		return true
	}
	if conv := inPlaceConverters[d.format][f]; conv != nil {
		return conv(d, flags)
	}
	if d.format > FormatIndexed8 && f > FormatIndexed8 && converters[d.format][f] == nil {
		return convertGenericInPlace(d, f)
	}
	return false
}

// retag converts by changing the format tag alone. It applies when f is
// the bit-compatible opaque or alpha sibling of the current format and
// every pixel reads as fully opaque in the alpha one.
func (d *imageData) retag(f Format) bool {
	from := d.format
	if f != from.dataCompatibleAlphaVersion() && f != from.dataCompatibleOpaqueVersion() {
		return false
	}
	if f.HasAlpha() {
		d.format = f
	}
	opaque := !d.hasAlphaPixels()
	d.format = from
	if !opaque {
		return false
	}
	debug("tag-only conversion", slog.String("from", from.String()), slog.String("to", f.String()))
	d.format = f
	return true
}

// ReinterpretAsFormat changes the format tag without touching the pixels.
// It only succeeds between formats of equal depth.
func (img *Image) ReinterpretAsFormat(f Format) bool {
	if !f.IsValid() || img.IsNull() {
		return false
	}
	if img.d.format == f {
		return true
	}
	if f.Depth() != img.d.format.Depth() {
		return false
	}
	if !img.IsDetached() {
		img.detach()
		if img.IsNull() {
			return false
		}
	}
	img.d.format = f
	return true
}

// ConvertToFormatPalette converts to an indexed format using the given
// palette. Each distinct color maps to the palette entry with the smallest
// sum of absolute channel differences. No dithering is done.
func (img *Image) ConvertToFormatPalette(f Format, palette []uint32, flags ConversionFlags) *Image {
	if img.IsNull() {
		return &Image{}
	}
	if img.d.format == f {
		return img.Share()
	}
	if !f.IsValid() {
		return &Image{}
	}
	if !f.IsIndexed() {
		return img.ConvertToFormat(f, flags)
	}
	src := img.ConvertToFormat(FormatARGB32, flags)
	if src.IsNull() {
		return src
	}
	defer src.Release()
	return convertWithPalette(src, f, palette)
}

func convertWithPalette(src *Image, f Format, palette []uint32) *Image {
	s := src.d
	out, err := newImageData(s.width, s.height, f)
	if err != nil {
		oom("ConvertToFormatPalette", s.width, s.height, f)
		return &Image{}
	}
	out.setColorTable(append([]uint32(nil), palette...))
	copyMetadata(out, s)
	dst := wrap(out)

	table := palette
	if f != FormatIndexed8 {
		table = make([]uint32, 2)
		copy(table, palette)
	}
	cache := make(map[uint32]uint32)
	for y := range s.height {
		srow, drow := s.scanLine(y), out.scanLine(y)
		for x := range s.width {
			p := le32(srow, x)
			v, ok := cache[p]
			if !ok {
				v = closestMatch(p, table)
				cache[p] = v
			}
			dst.setPixel(drow, x, v)
		}
	}
	return dst
}

func pixelDistance(a, b uint32) int {
	d := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return d(Red(a), Red(b)) + d(Green(a), Green(b)) + d(Blue(a), Blue(b)) + d(Alpha(a), Alpha(b))
}

// closestMatch returns the first palette index at minimum distance.
func closestMatch(p uint32, palette []uint32) uint32 {
	idx, best := 0, int(^uint(0)>>1)
	for i, c := range palette {
		if dist := pixelDistance(p, c); dist < best {
			best, idx = dist, i
		}
	}
	return uint32(idx)
}

// ============================================================================
// Generic conversion
// ============================================================================

// precision is the intermediate representation of a generic conversion.
type precision uint8

const (
	precision32 precision = iota
	precision64
	precisionFloat
)

// genericPrecision picks the narrowest intermediate that loses nothing
// visible. srcHasAlpha is whether the source image, not just its format,
// carries alpha.
func genericPrecision(from, to Format, srcHasAlpha bool) precision {
	if from.IsFloatingPoint() || to.IsFloatingPoint() {
		return precisionFloat
	}
	if from.IsHighColorPrecision(!to.HasAlpha()) && to.IsHighColorPrecision(!srcHasAlpha) {
		return precision64
	}
	return precision32
}

type rowFunc func(drow, srow []byte, width int, ct []uint32)

// genericRow returns a per-row kernel from one layout to another. Pixels are
// premultiplied or unpremultiplied when the two formats disagree.
func genericRow(from, to Format, prec precision) rowFunc {
	sl, dl := &layouts[from], &layouts[to]
	flip := from.IsPremultiplied() != to.IsPremultiplied()
	toPM := to.IsPremultiplied()

	switch prec {
	case precisionFloat:
		return func(drow, srow []byte, width int, ct []uint32) {
			for x := range width {
				c := sl.fetchF(srow, x, ct)
				if flip {
					if toPM {
						c = c.premultiplied()
					} else {
						c = c.unpremultiplied()
					}
				}
				dl.storeF(drow, x, c)
			}
		}
	case precision64:
		return func(drow, srow []byte, width int, ct []uint32) {
			for x := range width {
				c := sl.fetch64(srow, x, ct)
				if flip {
					if toPM {
						c = c.premultiplied()
					} else {
						c = c.unpremultiplied()
					}
				}
				dl.store64(drow, x, c)
			}
		}
	}
	return func(drow, srow []byte, width int, ct []uint32) {
		for x := range width {
			p := sl.fetch32(srow, x, ct)
			if flip {
				if toPM {
					p = blend.Premultiply(p)
				} else {
					p = blend.Unpremultiply(p)
				}
			}
			dl.store32(drow, x, p)
		}
	}
}

func genericConverter(from, to Format, srcHasAlpha bool) converter {
	prec := genericPrecision(from, to, srcHasAlpha)
	row := genericRow(from, to, prec)
	debug("generic conversion", slog.String("from", from.String()), slog.String("to", to.String()),
		slog.Int("precision", int(prec)))
	return func(dst, src *imageData, _ ConversionFlags) {
		parallel.Bands(src.width, src.height, ParallelPixelThreshold, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				row(dst.scanLine(y), src.scanLine(y), src.width, src.colorTable)
			}
		})
	}
}

// convertGenericInPlace converts between non-indexed formats whose target
// depth is not larger than the source depth.
func convertGenericInPlace(d *imageData, f Format) bool {
	depth := f.Depth()
	if d.depth < depth {
		return false
	}
	row := genericRow(d.format, f, genericPrecision(d.format, f, d.format.HasAlpha()))

	if depth == d.depth {
		parallel.Bands(d.width, d.height, ParallelPixelThreshold, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				line := d.scanLine(y)
				row(line, line, d.width, d.colorTable)
			}
		})
	} else {
		// Rows shrink, so row y is rewritten before row y+1 is touched.
		params, err := calculateImageParams(d.width, d.height, depth)
		if err != nil {
			return false
		}
		tmp := make([]byte, d.bytesPerLine)
		for y := range d.height {
			copy(tmp, d.scanLine(y))
			off := y * params.bytesPerLine
			row(d.data[off:off+params.bytesPerLine], tmp, d.width, d.colorTable)
		}
		d.bytesPerLine = params.bytesPerLine
		d.nbytes = params.totalSize
		d.data = d.data[:params.totalSize]
	}
	d.format = f
	d.depth = depth
	return true
}
