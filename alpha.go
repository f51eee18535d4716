package pixbuf

import (
	"log/slog"

	"github.com/gogpu/pixbuf/internal/blend"
)

// Mask colors of CreateHeuristicMask: bit 0 is background, bit 1 is kept.
const (
	maskColor0 = 0xffffffff
	maskColor1 = 0xff000000
)

// CreateAlphaMask returns a MonoLSB mask with a bit set for every pixel
// whose alpha is at least one half, dithered as flags select. RGB32
// images have no alpha and yield a null image.
func (img *Image) CreateAlphaMask(flags ConversionFlags) *Image {
	if img.IsNull() || img.d.format == FormatRGB32 {
		return &Image{}
	}
	if img.d.depth == 1 {
		// The two palette entries may carry alpha; expand them first.
		tmp := img.ConvertToFormat(FormatIndexed8, flags)
		defer tmp.Release()
		return tmp.CreateAlphaMask(flags)
	}
	src := img
	if img.d.format != FormatIndexed8 && img.d.format != FormatARGB32 {
		src = img.ConvertToFormat(FormatARGB32, flags)
		if src.IsNull() {
			return src
		}
		defer src.Release()
	}
	d, err := newImageData(src.d.width, src.d.height, FormatMonoLSB)
	if err != nil {
		oom("CreateAlphaMask", src.d.width, src.d.height, FormatMonoLSB)
		return &Image{}
	}
	ditherToMono(d, src.d, flags, true)
	copyPhysicalMetadata(d, img.d)
	return wrap(d)
}

func maskBit(row []byte, x int) bool { return row[x>>3]&(1<<(x&7)) != 0 }

// CreateHeuristicMask guesses the background color from the four corners
// and returns a MonoLSB mask with the background cleared. Background is
// chipped away from the edges inward until nothing changes, so background
// colored pixels enclosed by foreground stay set. With clipTight false the
// foreground is grown by one pixel in each direction.
//
// The corner vote prefers the top-left pixel. If no other corner agrees
// with it, the top-right pixel wins, unless it also stands alone and the
// two bottom corners agree, in which case the bottom-right pixel wins.
func (img *Image) CreateHeuristicMask(clipTight bool) *Image {
	if img.IsNull() {
		return &Image{}
	}
	if img.d.depth != 32 {
		tmp := img.ConvertToFormat(FormatRGB32, 0)
		defer tmp.Release()
		return tmp.CreateHeuristicMask(clipTight)
	}
	s := img.d
	w, h := s.width, s.height
	m, err := newImageData(w, h, FormatMonoLSB)
	if err != nil {
		oom("CreateHeuristicMask", w, h, FormatMonoLSB)
		return &Image{}
	}
	m.setColorTable([]uint32{maskColor0, maskColor1})
	for i := range m.data[:m.nbytes] {
		m.data[i] = 0xff
	}

	pix := func(x, y int) uint32 { return le32(s.scanLine(y), x) & 0x00ffffff }
	bg := pix(0, 0)
	if bg != pix(w-1, 0) && bg != pix(0, h-1) && bg != pix(w-1, h-1) {
		bg = pix(w-1, 0)
		if bg != pix(w-1, h-1) && bg != pix(0, h-1) && pix(0, h-1) == pix(w-1, h-1) {
			bg = pix(w-1, h-1)
		}
	}

	for done := false; !done; {
		done = true
		for y := range h {
			var prev, next []byte
			cur := m.scanLine(y)
			if y > 0 {
				prev = m.scanLine(y - 1)
			}
			if y < h-1 {
				next = m.scanLine(y + 1)
			}
			src := s.scanLine(y)
			for x := range w {
				if !maskBit(cur, x) || le32(src, x)&0x00ffffff != bg {
					continue
				}
				edge := x == 0 || y == 0 || x == w-1 || y == h-1 ||
					!maskBit(cur, x-1) || !maskBit(cur, x+1) ||
					!maskBit(prev, x) || !maskBit(next, x)
				if edge {
					done = false
					cur[x>>3] &^= 1 << (x & 7)
				}
			}
		}
	}

	if !clipTight {
		for y := range h {
			var prev, next []byte
			cur := m.scanLine(y)
			if y > 0 {
				prev = m.scanLine(y - 1)
			}
			if y < h-1 {
				next = m.scanLine(y + 1)
			}
			src := s.scanLine(y)
			for x := range w {
				if le32(src, x)&0x00ffffff == bg {
					continue
				}
				if x > 0 {
					cur[(x-1)>>3] |= 1 << ((x - 1) & 7)
				}
				if x < w-1 {
					cur[(x+1)>>3] |= 1 << ((x + 1) & 7)
				}
				if prev != nil {
					prev[x>>3] |= 1 << (x & 7)
				}
				if next != nil {
					next[x>>3] |= 1 << (x & 7)
				}
			}
		}
	}

	copyPhysicalMetadata(m, s)
	return wrap(m)
}

// CreateMaskFromColor returns a MonoLSB mask with a bit set for every
// pixel equal to c. 32-bit images compare the raw stored word; other
// formats compare Pixel. MaskOutColor inverts the mask.
func (img *Image) CreateMaskFromColor(c uint32, mode MaskMode) *Image {
	if img.IsNull() {
		return &Image{}
	}
	s := img.d
	d, err := newImageData(s.width, s.height, FormatMonoLSB)
	if err != nil {
		oom("CreateMaskFromColor", s.width, s.height, FormatMonoLSB)
		return &Image{}
	}
	clear(d.data[:d.nbytes])
	for y := range s.height {
		mrow := d.scanLine(y)
		if s.depth == 32 {
			row := s.scanLine(y)
			for x := range s.width {
				if le32(row, x) == c {
					mrow[x>>3] |= 1 << (x & 7)
				}
			}
			continue
		}
		for x := range s.width {
			if img.Pixel(x, y) == c {
				mrow[x>>3] |= 1 << (x & 7)
			}
		}
	}
	res := wrap(d)
	if mode == MaskOutColor {
		res.InvertPixels(InvertRgb)
	}
	copyPhysicalMetadata(res.d, s)
	return res
}

// SetAlphaChannel multiplies the image by the gray levels of mask, as if
// mask were composited with destination-in. The image is first converted
// to a premultiplied format with alpha. A mask of a different size is
// smoothly scaled to fit.
func (img *Image) SetAlphaChannel(mask *Image) {
	if img.IsNull() || mask.IsNull() {
		return
	}
	if af := img.d.format.alphaVersionForPainting(); img.d.format == af {
		img.detach()
	} else {
		img.ConvertTo(af, 0)
	}
	if img.IsNull() {
		return
	}

	src := mask
	if f := mask.d.format; f != FormatAlpha8 && f != FormatGrayscale8 {
		src = mask.ConvertToFormat(FormatGrayscale8, 0)
		if src.IsNull() {
			return
		}
		defer src.Release()
	}
	if src.Size() != img.Size() {
		f := src.d.format
		scaled := src.SmoothScaled(img.d.width, img.d.height)
		defer scaled.Release()
		src = scaled.ConvertToFormat(f, 0)
		if src.IsNull() {
			warn("SetAlphaChannel", "cannot scale the mask", slog.Any("size", img.Size()))
			return
		}
		defer src.Release()
	}
	destinationIn(img.d, src.d)
}

// destinationIn scales every channel of the premultiplied image d by the
// 8-bit coverage in a.
func destinationIn(d, a *imageData) {
	l := &layouts[d.format]
	for y := range d.height {
		row, cov := d.scanLine(y), a.scanLine(y)
		for x := range d.width {
			c := uint32(cov[x])
			switch {
			case c == 255:
			case d.format.IsFloatingPoint():
				p := l.fetchF(row, x, nil)
				k := float32(c) / 255
				l.storeF(row, x, rgbaF{p.R * k, p.G * k, p.B * k, p.A * k})
			case d.depth > 32 || d.format == FormatA2BGR30Premultiplied || d.format == FormatA2RGB30Premultiplied:
				p := l.fetch64(row, x, nil)
				k := uint64(c) * 257
				mul := func(v uint16) uint16 { return uint16(blend.Div65535(uint64(v) * k)) }
				l.store64(row, x, rgba64{mul(p.R), mul(p.G), mul(p.B), mul(p.A)})
			default:
				l.store32(row, x, blend.ByteMul(l.fetch32(row, x, nil), c))
			}
		}
	}
}
