package colorspace

import (
	"math"

	"github.com/gogpu/pixbuf/internal/cache"
)

// TransferFunction is the tone response curve that maps encoded channel
// values to linear light.
type TransferFunction uint8

const (
	// TransferCustom marks a space whose curve is not one of the named ones.
	TransferCustom TransferFunction = iota
	TransferLinear
	TransferGamma
	TransferSRGB
	TransferProPhotoRGB
	TransferBT2020
	TransferST2084
	TransferHLG
)

var transferNames = [...]string{"Custom", "Linear", "Gamma", "SRgb", "ProPhotoRgb", "Bt2020", "St2084", "Hlg"}

func (tf TransferFunction) String() string {
	if int(tf) < len(transferNames) {
		return transferNames[tf]
	}
	return "Unknown"
}

// PQ constants (SMPTE ST 2084).
const (
	pqM1 = 0.1593017578125
	pqM2 = 78.84375
	pqC1 = 0.8359375
	pqC2 = 18.8515625
	pqC3 = 18.6875
)

// HLG constants (ARIB STD-B67).
const (
	hlgA = 0.17883277
	hlgB = 0.28466892
	hlgC = 0.55991073
)

// curve is a transfer function with its parameter.
type curve struct {
	tf    TransferFunction
	gamma float64
}

// toLinear decodes an encoded value. Values outside [0, 1] are extended
// symmetrically so that float images keep their sign.
func (c curve) toLinear(x float64) float64 {
	if x < 0 {
		return -c.toLinear(-x)
	}
	switch c.tf {
	case TransferLinear:
		return x
	case TransferGamma:
		return math.Pow(x, c.gamma)
	case TransferSRGB:
		if x <= 0.04045 {
			return x / 12.92
		}
		return math.Pow((x+0.055)/1.055, 2.4)
	case TransferProPhotoRGB:
		if x < 16.0/512 {
			return x / 16
		}
		return math.Pow(x, 1.8)
	case TransferBT2020:
		if x < 0.08124285829863519 {
			return x / 4.5
		}
		return math.Pow((x+0.09929682680944)/1.09929682680944, 1/0.45)
	case TransferST2084:
		e := math.Pow(x, 1/pqM2)
		return math.Pow(max(e-pqC1, 0)/(pqC2-pqC3*e), 1/pqM1)
	case TransferHLG:
		if x <= 0.5 {
			return x * x / 3
		}
		return (math.Exp((x-hlgC)/hlgA) + hlgB) / 12
	}
	return x
}

// fromLinear is the inverse of toLinear.
func (c curve) fromLinear(x float64) float64 {
	if x < 0 {
		return -c.fromLinear(-x)
	}
	switch c.tf {
	case TransferLinear:
		return x
	case TransferGamma:
		return math.Pow(x, 1/c.gamma)
	case TransferSRGB:
		if x <= 0.0031308 {
			return x * 12.92
		}
		return 1.055*math.Pow(x, 1/2.4) - 0.055
	case TransferProPhotoRGB:
		if x < 1.0/512 {
			return x * 16
		}
		return math.Pow(x, 1/1.8)
	case TransferBT2020:
		if x < 0.018053968510807 {
			return x * 4.5
		}
		return 1.09929682680944*math.Pow(x, 0.45) - 0.09929682680944
	case TransferST2084:
		y := math.Pow(x, pqM1)
		return math.Pow((pqC1+pqC2*y)/(1+pqC3*y), pqM2)
	case TransferHLG:
		if x <= 1.0/12 {
			return math.Sqrt(3 * x)
		}
		return hlgA*math.Log(12*x-hlgB) + hlgC
	}
	return x
}

// lut provides O(1) decoding of 8-bit channels and 12-bit-precision
// encoding back to 8 bits for one curve. Linear values below lutToe are
// encoded from the curve itself, where pure power curves are too steep for
// the table.
type lut struct {
	c          curve
	toLinear   [256]float32
	fromLinear [4096]uint8
}

const lutToe = 1.0 / 64

func newLUT(c curve) *lut {
	t := &lut{c: c}
	for i := range 256 {
		t.toLinear[i] = float32(c.toLinear(float64(i) / 255))
	}
	for i := range 4096 {
		t.fromLinear[i] = quantize8(c.fromLinear(float64(i) / 4095))
	}
	return t
}

func quantize8(s float64) uint8 {
	return uint8(min(max(int(s*255+0.5), 0), 255))
}

// encode8 converts a linear value to an 8-bit encoded channel.
func (t *lut) encode8(l float32) uint8 {
	if !(l > 0) {
		return t.fromLinear[0]
	}
	if l >= 1 {
		return t.fromLinear[4095]
	}
	if l < lutToe {
		return quantize8(t.c.fromLinear(float64(l)))
	}
	return t.fromLinear[int(l*4095+0.5)]
}

// lutCache holds the tables of recently used curves.
var lutCache = cache.New[curve, *lut](32)

// lutFor returns the shared table for c, building it on first use.
func lutFor(c curve) *lut {
	return lutCache.GetOrCreate(c, func() *lut { return newLUT(c) })
}
