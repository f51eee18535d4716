package pixbuf

import (
	"image/color"
	"math"

	"github.com/gogpu/pixbuf/internal/blend"
)

// Packed 0xAARRGGBB helpers. Every 32-bit value accepted or returned by
// Pixel, SetPixel, Fill and the color table uses this layout.

// Alpha returns the alpha byte of a packed 0xAARRGGBB value.
func Alpha(rgb uint32) uint8 { return uint8(rgb >> 24) }

// Red returns the red byte of a packed 0xAARRGGBB value.
func Red(rgb uint32) uint8 { return uint8(rgb >> 16) }

// Green returns the green byte of a packed 0xAARRGGBB value.
func Green(rgb uint32) uint8 { return uint8(rgb >> 8) }

// Blue returns the blue byte of a packed 0xAARRGGBB value.
func Blue(rgb uint32) uint8 { return uint8(rgb) }

// ARGB packs four channels into 0xAARRGGBB.
func ARGB(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// RGB packs an opaque color into 0xffRRGGBB.
func RGB(r, g, b uint8) uint32 { return ARGB(0xff, r, g, b) }

// Gray returns the luminance of a packed color using the weights
// (11, 16, 5) / 32.
func Gray(rgb uint32) uint8 {
	return uint8(grayOf(uint32(Red(rgb)), uint32(Green(rgb)), uint32(Blue(rgb))))
}

func grayOf(r, g, b uint32) uint32 {
	return (r*11 + g*16 + b*5) / 32
}

// isGrayRGB reports whether r == g == b.
func isGrayRGB(rgb uint32) bool {
	return Red(rgb) == Green(rgb) && Green(rgb) == Blue(rgb)
}

// FromColor packs any color.Color into unpremultiplied 0xAARRGGBB. A nil
// color packs to 0.
func FromColor(c color.Color) uint32 {
	if c == nil {
		return 0
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return ARGB(n.A, n.R, n.G, n.B)
}

// div257 rounds a 16-bit channel to 8 bits.
func div257(x uint32) uint32 {
	return (x - (x >> 8) + 0x80) >> 8
}

// rgba64 is a 16-bit-per-channel pixel. Whether it is premultiplied depends
// on the format it was fetched from.
type rgba64 struct {
	R, G, B, A uint16
}

func rgba64FromARGB32(p uint32) rgba64 {
	return rgba64{
		R: uint16(((p >> 16) & 0xff) * 257),
		G: uint16(((p >> 8) & 0xff) * 257),
		B: uint16((p & 0xff) * 257),
		A: uint16((p >> 24) * 257),
	}
}

func (c rgba64) toARGB32() uint32 {
	return div257(uint32(c.A))<<24 | div257(uint32(c.R))<<16 | div257(uint32(c.G))<<8 | div257(uint32(c.B))
}

func (c rgba64) premultiplied() rgba64 {
	switch c.A {
	case 0xffff:
		return c
	case 0:
		return rgba64{}
	}
	return rgba64{
		blend.Premultiply16(c.R, c.A),
		blend.Premultiply16(c.G, c.A),
		blend.Premultiply16(c.B, c.A),
		c.A,
	}
}

func (c rgba64) unpremultiplied() rgba64 {
	switch c.A {
	case 0xffff:
		return c
	case 0:
		return rgba64{}
	}
	return rgba64{
		blend.Unpremultiply16(c.R, c.A),
		blend.Unpremultiply16(c.G, c.A),
		blend.Unpremultiply16(c.B, c.A),
		c.A,
	}
}

// rgbaF is a float pixel with channels nominally in [0, 1].
type rgbaF struct {
	R, G, B, A float32
}

func rgbaFFromARGB32(p uint32) rgbaF {
	return rgbaF{
		R: float32((p>>16)&0xff) / 255,
		G: float32((p>>8)&0xff) / 255,
		B: float32(p&0xff) / 255,
		A: float32(p>>24) / 255,
	}
}

func rgbaFFrom64(c rgba64) rgbaF {
	return rgbaF{
		R: float32(c.R) / 65535,
		G: float32(c.G) / 65535,
		B: float32(c.B) / 65535,
		A: float32(c.A) / 65535,
	}
}

func unitTo8(v float32) uint32 {
	return uint32(math.Round(float64(clampUnit(v)) * 255))
}

func unitTo16(v float32) uint16 {
	return uint16(math.Round(float64(clampUnit(v)) * 65535))
}

func clampUnit(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (c rgbaF) toARGB32() uint32 {
	return unitTo8(c.A)<<24 | unitTo8(c.R)<<16 | unitTo8(c.G)<<8 | unitTo8(c.B)
}

func (c rgbaF) to64() rgba64 {
	return rgba64{unitTo16(c.R), unitTo16(c.G), unitTo16(c.B), unitTo16(c.A)}
}

func (c rgbaF) premultiplied() rgbaF {
	return rgbaF{c.R * c.A, c.G * c.A, c.B * c.A, c.A}
}

func (c rgbaF) unpremultiplied() rgbaF {
	if c.A == 0 {
		return rgbaF{}
	}
	if c.A == 1 {
		return c
	}
	inv := 1 / c.A
	return rgbaF{c.R * inv, c.G * inv, c.B * inv, c.A}
}

// RgbaF32 is an unpremultiplied float color. PixelColor returns it for
// floating point formats so that values outside [0, 1] survive.
type RgbaF32 struct {
	R, G, B, A float32
}

// RGBA implements color.Color. Channels are clamped to [0, 1] and
// premultiplied.
func (c RgbaF32) RGBA() (r, g, b, a uint32) {
	p := rgbaF(c).premultiplied().to64()
	return uint32(p.R), uint32(p.G), uint32(p.B), uint32(p.A)
}

// RgbaF32Model converts any color to RgbaF32.
var RgbaF32Model = color.ModelFunc(func(c color.Color) color.Color {
	if f, ok := c.(RgbaF32); ok {
		return f
	}
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return RgbaF32{
		R: float32(n.R) / 65535,
		G: float32(n.G) / 65535,
		B: float32(n.B) / 65535,
		A: float32(n.A) / 65535,
	}
})

// cmykFromRGB converts an opaque 0xffRRGGBB to 0xCCMMYYKK.
func cmykFromRGB(rgb uint32) uint32 {
	r := float64(Red(rgb)) / 255
	g := float64(Green(rgb)) / 255
	b := float64(Blue(rgb)) / 255
	k := 1 - max(r, g, b)
	if k >= 1 {
		return 0xff
	}
	c := (1 - r - k) / (1 - k)
	m := (1 - g - k) / (1 - k)
	y := (1 - b - k) / (1 - k)
	q := func(v float64) uint32 { return uint32(math.Round(v * 255)) }
	return q(c)<<24 | q(m)<<16 | q(y)<<8 | q(k)
}

// rgbFromCMYK converts 0xCCMMYYKK to an opaque 0xffRRGGBB.
func rgbFromCMYK(cmyk uint32) uint32 {
	c := cmyk >> 24
	m := (cmyk >> 16) & 0xff
	y := (cmyk >> 8) & 0xff
	k := cmyk & 0xff
	ch := func(v uint32) uint32 { return ((255-v)*(255-k) + 127) / 255 }
	return 0xff000000 | ch(c)<<16 | ch(m)<<8 | ch(y)
}
