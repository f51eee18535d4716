// Package blend provides the fixed-point arithmetic shared by the pixel
// kernels: rounded division by 255 and 65535, and premultiplication of
// packed 8-bit and 16-bit-per-channel colors.
//
// The div255 family avoids integer division by using shifts and adds.
// Unpremultiplying a valid premultiplied color and premultiplying it
// again returns the original value.
//
// References:
//   - Alpha blending without division: https://arxiv.org/abs/2202.02864
//   - Alvy Ray Smith's technical memos: http://alvyray.com/Memos/
package blend

// Div255 divides x by 255 with rounding. For x in [0, 65535] the result is
// within one of round(x/255).
//
// Formula: (x + (x >> 8) + 0x80) >> 8
func Div255(x uint32) uint32 {
	return (x + (x >> 8) + 0x80) >> 8
}

// Div65535 divides x by 65535 with rounding, within one of round(x/65535).
func Div65535(x uint64) uint64 {
	return (x + (x >> 16) + 0x8000) >> 16
}

// MulDiv255 returns a*b/255 rounded, as Div255.
func MulDiv255(a, b uint32) uint32 {
	return Div255(a * b)
}

// ByteMul scales all four 8-bit channels of x by a/255.
func ByteMul(x, a uint32) uint32 {
	t := (x & 0xff00ff) * a
	t = (t + ((t >> 8) & 0xff00ff) + 0x800080) >> 8
	t &= 0xff00ff

	x = ((x >> 8) & 0xff00ff) * a
	x = x + ((x >> 8) & 0xff00ff) + 0x800080
	x &= 0xff00ff00
	return x | t
}

// Premultiply converts an unpremultiplied 0xAARRGGBB color to premultiplied form.
func Premultiply(x uint32) uint32 {
	a := x >> 24
	switch a {
	case 255:
		return x
	case 0:
		return 0
	}
	t := (x & 0xff00ff) * a
	t = (t + ((t >> 8) & 0xff00ff) + 0x800080) >> 8
	t &= 0xff00ff

	g := ((x >> 8) & 0xff) * a
	g = g + ((g >> 8) & 0xff) + 0x80
	g &= 0xff00
	return g | t | a<<24
}

// invPremulFactor[a] is round(255 * 2^16 / a).
var invPremulFactor = func() (t [256]uint32) {
	for a := 1; a < 256; a++ {
		t[a] = uint32((255*65536 + a/2) / a)
	}
	return t
}()

// Unpremultiply converts a premultiplied 0xAARRGGBB color to unpremultiplied form.
// Channels larger than alpha (invalid premultiplied data) saturate at 255.
func Unpremultiply(p uint32) uint32 {
	a := p >> 24
	switch a {
	case 255:
		return p
	case 0:
		return 0
	}
	inv := invPremulFactor[a]
	r := min((((p>>16)&0xff)*inv+0x8000)>>16, 255)
	g := min((((p>>8)&0xff)*inv+0x8000)>>16, 255)
	b := min(((p&0xff)*inv+0x8000)>>16, 255)
	return a<<24 | r<<16 | g<<8 | b
}

// Premultiply16 scales a 16-bit channel by a 16-bit alpha.
func Premultiply16(c, a uint16) uint16 {
	return uint16(Div65535(uint64(c) * uint64(a)))
}

// Unpremultiply16 undoes Premultiply16, saturating at 65535.
func Unpremultiply16(c, a uint16) uint16 {
	if a == 0 {
		return 0
	}
	if a == 0xffff {
		return c
	}
	v := (uint64(c)*65535 + uint64(a)/2) / uint64(a)
	return uint16(min(v, 65535))
}

// Clamp255 clamps v to [0, 255].
func Clamp255(v int) uint8 {
	return uint8(min(max(v, 0), 255))
}

// Clamp65535 clamps v to [0, 65535].
func Clamp65535(v int) uint16 {
	return uint16(min(max(v, 0), 65535))
}
