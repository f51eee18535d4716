package pixbuf

import (
	"encoding/binary"
	"math"

	"github.com/x448/float16"
)

// layout holds the per-pixel readers and writers of one format. Values are
// in the format's native domain: premultiplied exactly when the format is.
// Indexed formats read through the color table and have no writers.
//
// Every format defines the precision it stores natively; init derives the
// other two.
type layout struct {
	fetch32 func(row []byte, x int, ct []uint32) uint32
	store32 func(row []byte, x int, p uint32)
	fetch64 func(row []byte, x int, ct []uint32) rgba64
	store64 func(row []byte, x int, c rgba64)
	fetchF  func(row []byte, x int, ct []uint32) rgbaF
	storeF  func(row []byte, x int, c rgbaF)
}

var layouts [formatCount]layout

func le16(row []byte, x int) uint32 { return uint32(binary.LittleEndian.Uint16(row[x*2:])) }
func le32(row []byte, x int) uint32 { return binary.LittleEndian.Uint32(row[x*4:]) }

func put16(row []byte, x int, v uint32) { binary.LittleEndian.PutUint16(row[x*2:], uint16(v)) }
func put32(row []byte, x int, v uint32) { binary.LittleEndian.PutUint32(row[x*4:], v) }

func be24(row []byte, x int) uint32 {
	b := row[x*3 : x*3+3]
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func put24(row []byte, x int, v uint32) {
	b := row[x*3 : x*3+3]
	b[0], b[1], b[2] = byte(v>>16), byte(v>>8), byte(v)
}

// expand widens an n-bit channel to 8 bits by bit replication.
func expand(v uint32, n uint) uint32 {
	switch n {
	case 8:
		return v
	case 1:
		return v * 0xff
	case 2:
		return v * 0x55
	}
	return v<<(8-n) | v>>(2*n-8)
}

// monoBit returns the index of pixel x in a 1-bit row.
func monoBit(row []byte, x int, lsb bool) uint32 {
	if lsb {
		return uint32(row[x>>3]>>(x&7)) & 1
	}
	return uint32(row[x>>3]>>(7-x&7)) & 1
}

func clutLookup(ct []uint32, i uint32) uint32 {
	if int(i) < len(ct) {
		return ct[i]
	}
	return 0
}

// packed describes a format of up to 24 bits whose channels are bit fields
// of one little-endian 16-bit or big-endian 24-bit word.
type packed struct {
	size                           int
	rBits, gBits, bBits, aBits     uint
	rShift, gShift, bShift, aShift uint
	pad                            uint32
}

func (p packed) word(row []byte, x int) uint32 {
	if p.size == 2 {
		return le16(row, x)
	}
	return be24(row, x)
}

func (p packed) put(row []byte, x int, v uint32) {
	if p.size == 2 {
		put16(row, x, v)
		return
	}
	put24(row, x, v)
}

func (p packed) layout() layout {
	field := func(w uint32, shift, bits uint) uint32 { return expand(w>>shift&(1<<bits-1), bits) }
	return layout{
		fetch32: func(row []byte, x int, _ []uint32) uint32 {
			w := p.word(row, x)
			a := uint32(0xff)
			if p.aBits != 0 {
				a = field(w, p.aShift, p.aBits)
			}
			return a<<24 | field(w, p.rShift, p.rBits)<<16 | field(w, p.gShift, p.gBits)<<8 | field(w, p.bShift, p.bBits)
		},
		store32: func(row []byte, x int, c uint32) {
			w := (c>>16&0xff)>>(8-p.rBits)<<p.rShift |
				(c>>8&0xff)>>(8-p.gBits)<<p.gShift |
				(c&0xff)>>(8-p.bBits)<<p.bShift | p.pad
			if p.aBits != 0 {
				w |= (c >> 24) >> (8 - p.aBits) << p.aShift
			}
			p.put(row, x, w)
		},
	}
}

// rgb30 is a 2-10-10-10 format; bgr puts blue in the high bits.
type rgb30 struct {
	bgr, alpha bool
}

func ch10to16(c uint32) uint16 { return uint16(c<<6 | c>>4) }
func ch16to10(c uint16) uint32 { return (uint32(c)*1023 + 32767) / 65535 }

func (f rgb30) channels(w uint32) (r, g, b uint32) {
	r, g, b = w>>20&0x3ff, w>>10&0x3ff, w&0x3ff
	if f.bgr {
		r, b = b, r
	}
	return r, g, b
}

func (f rgb30) layout() layout {
	return layout{
		fetch32: func(row []byte, x int, _ []uint32) uint32 {
			w := le32(row, x)
			r, g, b := f.channels(w)
			a := uint32(0xff)
			if f.alpha {
				a = (w >> 30) * 0x55
			}
			return a<<24 | (r>>2)<<16 | (g>>2)<<8 | b>>2
		},
		fetch64: func(row []byte, x int, _ []uint32) rgba64 {
			w := le32(row, x)
			r, g, b := f.channels(w)
			a := uint16(0xffff)
			if f.alpha {
				a = uint16((w >> 30) * 0x5555)
			}
			return rgba64{ch10to16(r), ch10to16(g), ch10to16(b), a}
		},
		store64: func(row []byte, x int, c rgba64) {
			a2 := uint32(3)
			if f.alpha {
				a2 = (uint32(c.A)*3 + 32767) / 65535
				if q := uint16(a2 * 0x5555); q != c.A {
					c = c.unpremultiplied()
					c.A = q
					c = c.premultiplied()
				}
			}
			r, g, b := ch16to10(c.R), ch16to10(c.G), ch16to10(c.B)
			if f.bgr {
				r, b = b, r
			}
			put32(row, x, a2<<30|r<<20|g<<10|b)
		},
	}
}

func rgba64Layout(opaque bool) layout {
	return layout{
		fetch64: func(row []byte, x int, _ []uint32) rgba64 {
			o := row[x*8:]
			c := rgba64{
				binary.LittleEndian.Uint16(o),
				binary.LittleEndian.Uint16(o[2:]),
				binary.LittleEndian.Uint16(o[4:]),
				binary.LittleEndian.Uint16(o[6:]),
			}
			if opaque {
				c.A = 0xffff
			}
			return c
		},
		store64: func(row []byte, x int, c rgba64) {
			o := row[x*8:]
			if opaque {
				c.A = 0xffff
			}
			binary.LittleEndian.PutUint16(o, c.R)
			binary.LittleEndian.PutUint16(o[2:], c.G)
			binary.LittleEndian.PutUint16(o[4:], c.B)
			binary.LittleEndian.PutUint16(o[6:], c.A)
		},
	}
}

func half(b []byte) float32 { return float16.Frombits(binary.LittleEndian.Uint16(b)).Float32() }

func putHalf(b []byte, v float32) { binary.LittleEndian.PutUint16(b, float16.Fromfloat32(v).Bits()) }

func float16Layout(opaque bool) layout {
	return layout{
		fetchF: func(row []byte, x int, _ []uint32) rgbaF {
			o := row[x*8:]
			c := rgbaF{half(o), half(o[2:]), half(o[4:]), half(o[6:])}
			if opaque {
				c.A = 1
			}
			return c
		},
		storeF: func(row []byte, x int, c rgbaF) {
			o := row[x*8:]
			if opaque {
				c.A = 1
			}
			putHalf(o, c.R)
			putHalf(o[2:], c.G)
			putHalf(o[4:], c.B)
			putHalf(o[6:], c.A)
		},
	}
}

func f32(b []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b)) }

func putF32(b []byte, v float32) { binary.LittleEndian.PutUint32(b, math.Float32bits(v)) }

func float32Layout(opaque bool) layout {
	return layout{
		fetchF: func(row []byte, x int, _ []uint32) rgbaF {
			o := row[x*16:]
			c := rgbaF{f32(o), f32(o[4:]), f32(o[8:]), f32(o[12:])}
			if opaque {
				c.A = 1
			}
			return c
		},
		storeF: func(row []byte, x int, c rgbaF) {
			o := row[x*16:]
			if opaque {
				c.A = 1
			}
			putF32(o, c.R)
			putF32(o[4:], c.G)
			putF32(o[8:], c.B)
			putF32(o[12:], c.A)
		},
	}
}

// swapRB converts between 0xAARRGGBB and the little-endian word of the
// byte order R, G, B, A.
func swapRB(p uint32) uint32 {
	return p&0xff00ff00 | (p>>16)&0xff | (p&0xff)<<16
}

func init() {
	layouts[FormatMono] = layout{fetch32: func(row []byte, x int, ct []uint32) uint32 {
		return clutLookup(ct, monoBit(row, x, false))
	}}
	layouts[FormatMonoLSB] = layout{fetch32: func(row []byte, x int, ct []uint32) uint32 {
		return clutLookup(ct, monoBit(row, x, true))
	}}
	layouts[FormatIndexed8] = layout{fetch32: func(row []byte, x int, ct []uint32) uint32 {
		return clutLookup(ct, uint32(row[x]))
	}}

	layouts[FormatRGB32] = layout{
		fetch32: func(row []byte, x int, _ []uint32) uint32 { return le32(row, x) | 0xff000000 },
		store32: func(row []byte, x int, p uint32) { put32(row, x, p|0xff000000) },
	}
	raw32 := layout{
		fetch32: func(row []byte, x int, _ []uint32) uint32 { return le32(row, x) },
		store32: put32,
	}
	layouts[FormatARGB32] = raw32
	layouts[FormatARGB32Premultiplied] = raw32

	layouts[FormatRGB16] = packed{size: 2, rBits: 5, gBits: 6, bBits: 5, rShift: 11, gShift: 5}.layout()
	layouts[FormatARGB8565Premultiplied] = packed{size: 3, rBits: 5, gBits: 6, bBits: 5, aBits: 8, rShift: 11, gShift: 5, aShift: 16}.layout()
	layouts[FormatRGB666] = packed{size: 3, rBits: 6, gBits: 6, bBits: 6, rShift: 12, gShift: 6, pad: 0xfc0000}.layout()
	layouts[FormatARGB6666Premultiplied] = packed{size: 3, rBits: 6, gBits: 6, bBits: 6, aBits: 6, rShift: 12, gShift: 6, aShift: 18}.layout()
	layouts[FormatRGB555] = packed{size: 2, rBits: 5, gBits: 5, bBits: 5, rShift: 10, gShift: 5}.layout()
	layouts[FormatARGB8555Premultiplied] = packed{size: 3, rBits: 5, gBits: 5, bBits: 5, aBits: 8, rShift: 10, gShift: 5, aShift: 16}.layout()
	layouts[FormatRGB888] = packed{size: 3, rBits: 8, gBits: 8, bBits: 8, rShift: 16, gShift: 8}.layout()
	layouts[FormatBGR888] = packed{size: 3, rBits: 8, gBits: 8, bBits: 8, gShift: 8, bShift: 16}.layout()
	layouts[FormatRGB444] = packed{size: 2, rBits: 4, gBits: 4, bBits: 4, rShift: 8, gShift: 4, pad: 0xf000}.layout()
	layouts[FormatARGB4444Premultiplied] = packed{size: 2, rBits: 4, gBits: 4, bBits: 4, aBits: 4, rShift: 8, gShift: 4, aShift: 12}.layout()

	layouts[FormatRGBX8888] = layout{
		fetch32: func(row []byte, x int, _ []uint32) uint32 { return swapRB(le32(row, x)) | 0xff000000 },
		store32: func(row []byte, x int, p uint32) { put32(row, x, swapRB(p)|0xff000000) },
	}
	rgba8888 := layout{
		fetch32: func(row []byte, x int, _ []uint32) uint32 { return swapRB(le32(row, x)) },
		store32: func(row []byte, x int, p uint32) { put32(row, x, swapRB(p)) },
	}
	layouts[FormatRGBA8888] = rgba8888
	layouts[FormatRGBA8888Premultiplied] = rgba8888

	layouts[FormatBGR30] = rgb30{bgr: true}.layout()
	layouts[FormatA2BGR30Premultiplied] = rgb30{bgr: true, alpha: true}.layout()
	layouts[FormatRGB30] = rgb30{}.layout()
	layouts[FormatA2RGB30Premultiplied] = rgb30{alpha: true}.layout()

	layouts[FormatAlpha8] = layout{
		fetch32: func(row []byte, x int, _ []uint32) uint32 { return uint32(row[x]) << 24 },
		store32: func(row []byte, x int, p uint32) { row[x] = byte(p >> 24) },
	}
	layouts[FormatGrayscale8] = layout{
		fetch32: func(row []byte, x int, _ []uint32) uint32 { return 0xff000000 | uint32(row[x])*0x010101 },
		store32: func(row []byte, x int, p uint32) {
			row[x] = byte(grayOf(p>>16&0xff, p>>8&0xff, p&0xff))
		},
	}

	layouts[FormatRGBX64] = rgba64Layout(true)
	layouts[FormatRGBA64] = rgba64Layout(false)
	layouts[FormatRGBA64Premultiplied] = rgba64Layout(false)
	layouts[FormatGrayscale16] = layout{
		fetch64: func(row []byte, x int, _ []uint32) rgba64 {
			v := uint16(le16(row, x))
			return rgba64{v, v, v, 0xffff}
		},
		store64: func(row []byte, x int, c rgba64) {
			put16(row, x, grayOf(uint32(c.R), uint32(c.G), uint32(c.B)))
		},
	}

	layouts[FormatRGBX16FPx4] = float16Layout(true)
	layouts[FormatRGBA16FPx4] = float16Layout(false)
	layouts[FormatRGBA16FPx4Premultiplied] = float16Layout(false)
	layouts[FormatRGBX32FPx4] = float32Layout(true)
	layouts[FormatRGBA32FPx4] = float32Layout(false)
	layouts[FormatRGBA32FPx4Premultiplied] = float32Layout(false)

	layouts[FormatCMYK8888] = layout{
		fetch32: func(row []byte, x int, _ []uint32) uint32 { return rgbFromCMYK(le32(row, x)) },
		store32: func(row []byte, x int, p uint32) { put32(row, x, cmykFromRGB(p|0xff000000)) },
	}

	for f := FormatMono; f < formatCount; f++ {
		layouts[f].derive()
	}
}

// derive fills in the missing precisions from the native one.
func (l *layout) derive() {
	switch {
	case l.fetch32 != nil:
		f8 := l.fetch32
		if l.fetch64 == nil {
			l.fetch64 = func(row []byte, x int, ct []uint32) rgba64 { return rgba64FromARGB32(f8(row, x, ct)) }
		}
		f64 := l.fetch64
		if l.fetchF == nil {
			l.fetchF = func(row []byte, x int, ct []uint32) rgbaF { return rgbaFFrom64(f64(row, x, ct)) }
		}
	case l.fetch64 != nil:
		f64 := l.fetch64
		l.fetch32 = func(row []byte, x int, ct []uint32) uint32 { return f64(row, x, ct).toARGB32() }
		l.fetchF = func(row []byte, x int, ct []uint32) rgbaF { return rgbaFFrom64(f64(row, x, ct)) }
	case l.fetchF != nil:
		ff := l.fetchF
		l.fetch32 = func(row []byte, x int, ct []uint32) uint32 { return ff(row, x, ct).toARGB32() }
		l.fetch64 = func(row []byte, x int, ct []uint32) rgba64 { return ff(row, x, ct).to64() }
	}

	switch {
	case l.store32 != nil && l.store64 == nil:
		s32 := l.store32
		l.store64 = func(row []byte, x int, c rgba64) { s32(row, x, c.toARGB32()) }
		l.storeF = func(row []byte, x int, c rgbaF) { s32(row, x, c.toARGB32()) }
	case l.store64 != nil:
		s64 := l.store64
		if l.store32 == nil {
			l.store32 = func(row []byte, x int, p uint32) { s64(row, x, rgba64FromARGB32(p)) }
		}
		l.storeF = func(row []byte, x int, c rgbaF) { s64(row, x, c.to64()) }
	case l.storeF != nil:
		sf := l.storeF
		l.store32 = func(row []byte, x int, p uint32) { sf(row, x, rgbaFFromARGB32(p)) }
		l.store64 = func(row []byte, x int, c rgba64) { sf(row, x, rgbaFFrom64(c)) }
	}
}
