package colorspace

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/pixbuf/internal/cache"
)

// Encoding is the in-memory layout of one scanline pixel handed to Apply.
// Multi-byte values are little-endian.
type Encoding uint8

const (
	// EncodingGray8 is one byte of gray.
	EncodingGray8 Encoding = iota
	// EncodingGray16 is one uint16 of gray.
	EncodingGray16
	// EncodingARGB32 is a uint32 0xAARRGGBB.
	EncodingARGB32
	// EncodingRGBA64 is four uint16 channels R, G, B, A.
	EncodingRGBA64
	// EncodingRGBA32F is four float32 channels R, G, B, A.
	EncodingRGBA32F
	// EncodingCMYK32 is a uint32 0xCCMMYYKK.
	EncodingCMYK32
)

// BytesPerPixel returns the size of one pixel in e.
func (e Encoding) BytesPerPixel() int {
	switch e {
	case EncodingGray8:
		return 1
	case EncodingGray16:
		return 2
	case EncodingARGB32, EncodingCMYK32:
		return 4
	case EncodingRGBA64:
		return 8
	case EncodingRGBA32F:
		return 16
	}
	return 0
}

func (e Encoding) hasAlpha() bool {
	return e == EncodingARGB32 || e == EncodingRGBA64 || e == EncodingRGBA32F
}

// Flags tell Apply how to treat alpha in the input.
type Flags uint8

const (
	// Unpremultiplied input keeps its alpha and is written unpremultiplied.
	Unpremultiplied Flags = iota
	// Premultiplied input is unpremultiplied before the curves and
	// premultiplied again on output.
	Premultiplied
	// InputOpaque input is treated as alpha 1 and written opaque.
	InputOpaque
)

// Transform converts colors from one space to another. The zero Transform
// is the identity.
type Transform struct {
	p *pipeline
}

type pipeline struct {
	in, out   ColorSpace
	toXYZ     mat3
	fromXYZ   mat3
	inLUT     *lut
	outLUT    *lut
	outIsGray bool
}

type spacePair struct{ in, out ColorSpace }

// pipelines holds recently built transforms. A pipeline is immutable once
// built, so one value serves every caller.
var pipelines = cache.New[spacePair, *pipeline](64)

// TransformationTo returns the transform from s to out. It is the identity
// when the spaces are equal or either is invalid.
func (s ColorSpace) TransformationTo(out ColorSpace) Transform {
	if !s.IsValid() || !out.IsValid() || s == out {
		return Transform{}
	}
	return Transform{p: pipelines.GetOrCreate(spacePair{s, out}, func() *pipeline { return newPipeline(s, out) })}
}

// newPipeline builds the transform from s to out, or nil when out has no
// inverse matrix.
func newPipeline(s, out ColorSpace) *pipeline {
	p := &pipeline{
		in:        s,
		out:       out,
		inLUT:     lutFor(s.curve),
		outLUT:    lutFor(out.curve),
		outIsGray: out.model == ModelGray,
	}
	if s.model != ModelGray {
		p.toXYZ = s.toXYZ()
	}
	if out.model != ModelGray {
		inv, ok := out.toXYZ().inverse()
		if !ok {
			return nil
		}
		p.fromXYZ = inv
	}
	return p
}

// IsIdentity reports whether t leaves colors unchanged.
func (t Transform) IsIdentity() bool { return t.p == nil }

// Source returns the input space, invalid for the identity.
func (t Transform) Source() ColorSpace {
	if t.p == nil {
		return ColorSpace{}
	}
	return t.p.in
}

// Target returns the output space, invalid for the identity.
func (t Transform) Target() ColorSpace {
	if t.p == nil {
		return ColorSpace{}
	}
	return t.p.out
}

// Map converts one unpremultiplied 0xAARRGGBB color, keeping its alpha.
func (t Transform) Map(argb uint32) uint32 {
	if t.p == nil {
		return argb
	}
	var in, out [4]byte
	binary.LittleEndian.PutUint32(in[:], argb)
	t.Apply(out[:], EncodingARGB32, in[:], EncodingARGB32, 1, Unpremultiplied)
	return binary.LittleEndian.Uint32(out[:])
}

// Apply converts n pixels from src to dst. dst and src may be the same
// slice when both encodings are equal.
func (t Transform) Apply(dst []byte, dstEnc Encoding, src []byte, srcEnc Encoding, n int, flags Flags) {
	if t.p == nil {
		if dstEnc == srcEnc {
			copy(dst[:n*dstEnc.BytesPerPixel()], src)
		}
		return
	}
	p := t.p
	for i := range n {
		lin, gray, a, exact := p.load(src, srcEnc, i, flags)
		x, y, z := p.xyz(lin, gray)
		p.store(dst, dstEnc, i, x, y, z, a, exact, flags)
	}
}

// sample is one decoded channel in encoded space, with the 8-bit index when
// the value is an exact byte.
type sample struct {
	v   float64
	idx int
}

func byteSample(b uint8) sample { return sample{float64(b) / 255, int(b)} }

func (p *pipeline) linear(s sample, t *lut, c curve) float64 {
	if s.idx >= 0 {
		return float64(t.toLinear[s.idx])
	}
	return c.toLinear(s.v)
}

// load decodes pixel i into linear values of the input space.
func (p *pipeline) load(src []byte, enc Encoding, i int, flags Flags) (lin [3]float64, gray bool, a float64, exact bool) {
	var ch [3]sample
	a = 1
	switch enc {
	case EncodingGray8:
		g := byteSample(src[i])
		return [3]float64{p.linear(g, p.inLUT, p.in.curve)}, true, 1, true
	case EncodingGray16:
		v := float64(binary.LittleEndian.Uint16(src[i*2:])) / 65535
		return [3]float64{p.in.curve.toLinear(v)}, true, 1, false
	case EncodingCMYK32:
		w := binary.LittleEndian.Uint32(src[i*4:])
		c, m, y, k := float64(w>>24)/255, float64((w>>16)&0xff)/255, float64((w>>8)&0xff)/255, float64(w&0xff)/255
		rgb := [3]float64{(1 - c) * (1 - k), (1 - m) * (1 - k), (1 - y) * (1 - k)}
		for j := range rgb {
			lin[j] = p.in.curve.toLinear(rgb[j])
		}
		return lin, false, 1, false
	case EncodingARGB32:
		w := binary.LittleEndian.Uint32(src[i*4:])
		ab := uint8(w >> 24)
		ch = [3]sample{byteSample(uint8(w >> 16)), byteSample(uint8(w >> 8)), byteSample(uint8(w))}
		a = float64(ab) / 255
		exact = true
		if flags == InputOpaque {
			a = 1
		} else if flags == Premultiplied && ab != 255 {
			exact = false
			for j := range ch {
				ch[j] = sample{unpremul(ch[j].v, a), -1}
			}
		}
	case EncodingRGBA64:
		for j := range ch {
			ch[j] = sample{float64(binary.LittleEndian.Uint16(src[i*8+j*2:])) / 65535, -1}
		}
		a = float64(binary.LittleEndian.Uint16(src[i*8+6:])) / 65535
		if flags == InputOpaque {
			a = 1
		} else if flags == Premultiplied {
			for j := range ch {
				ch[j].v = unpremul(ch[j].v, a)
			}
		}
	case EncodingRGBA32F:
		for j := range ch {
			ch[j] = sample{float64(math.Float32frombits(binary.LittleEndian.Uint32(src[i*16+j*4:]))), -1}
		}
		a = float64(math.Float32frombits(binary.LittleEndian.Uint32(src[i*16+12:])))
		if flags == InputOpaque {
			a = 1
		} else if flags == Premultiplied {
			for j := range ch {
				ch[j].v = unpremul(ch[j].v, a)
			}
		}
	}
	for j := range ch {
		lin[j] = p.linear(ch[j], p.inLUT, p.in.curve)
	}
	return lin, false, a, exact
}

func unpremul(v, a float64) float64 {
	if a <= 0 {
		return 0
	}
	return v / a
}

// xyz maps linear input values to D50 XYZ.
func (p *pipeline) xyz(lin [3]float64, gray bool) (x, y, z float64) {
	if gray || p.in.model == ModelGray {
		g := lin[0]
		return g * whiteD50XYZ[0], g * whiteD50XYZ[1], g * whiteD50XYZ[2]
	}
	return p.toXYZ.apply(lin[0], lin[1], lin[2])
}

// store encodes XYZ into pixel i of dst.
func (p *pipeline) store(dst []byte, enc Encoding, i int, x, y, z, a float64, exact bool, flags Flags) {
	if flags == InputOpaque || !enc.hasAlpha() {
		a = 1
	}
	premul := flags == Premultiplied

	var rgb [3]float64
	if enc == EncodingGray8 || enc == EncodingGray16 || p.outIsGray {
		rgb = [3]float64{y, y, y}
	} else {
		r, g, b := p.fromXYZ.apply(x, y, z)
		rgb = [3]float64{r, g, b}
	}

	switch enc {
	case EncodingGray8:
		dst[i] = p.outLUT.encode8(float32(y))
	case EncodingGray16:
		binary.LittleEndian.PutUint16(dst[i*2:], quant16(p.out.curve.fromLinear(y)))
	case EncodingCMYK32:
		var e [3]float64
		for j := range rgb {
			e[j] = clamp01(p.out.curve.fromLinear(rgb[j]))
		}
		k := 1 - max(e[0], e[1], e[2])
		var c, m, yy float64
		if k < 1 {
			c = (1 - e[0] - k) / (1 - k)
			m = (1 - e[1] - k) / (1 - k)
			yy = (1 - e[2] - k) / (1 - k)
		}
		binary.LittleEndian.PutUint32(dst[i*4:], quant8(c)<<24|quant8(m)<<16|quant8(yy)<<8|quant8(k))
	case EncodingARGB32:
		var w uint32
		for j, shift := range [3]uint{16, 8, 0} {
			var v uint32
			if exact && (!premul || a == 1) {
				v = uint32(p.outLUT.encode8(float32(rgb[j])))
			} else {
				e := clamp01(p.out.curve.fromLinear(rgb[j]))
				if premul {
					e *= a
				}
				v = quant8(e)
			}
			w |= v << shift
		}
		w |= quant8(a) << 24
		binary.LittleEndian.PutUint32(dst[i*4:], w)
	case EncodingRGBA64:
		for j := range rgb {
			e := clamp01(p.out.curve.fromLinear(rgb[j]))
			if premul {
				e *= a
			}
			binary.LittleEndian.PutUint16(dst[i*8+j*2:], quant16(e))
		}
		binary.LittleEndian.PutUint16(dst[i*8+6:], quant16(a))
	case EncodingRGBA32F:
		for j := range rgb {
			e := p.out.curve.fromLinear(rgb[j])
			if premul {
				e *= a
			}
			binary.LittleEndian.PutUint32(dst[i*16+j*4:], math.Float32bits(float32(e)))
		}
		binary.LittleEndian.PutUint32(dst[i*16+12:], math.Float32bits(float32(a)))
	}
}

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	return min(v, 1)
}

func quant8(v float64) uint32 {
	return uint32(math.Round(clamp01(v) * 255))
}

func quant16(v float64) uint16 {
	return uint16(math.Round(clamp01(v) * 65535))
}
