// Package colorspace describes color spaces by their primaries and transfer
// function and converts scanlines between them.
//
// A ColorSpace is a small comparable value. The zero ColorSpace is invalid
// and means "unspecified". Transforms between two spaces are built with
// TransformationTo and applied to packed scanlines with Transform.Apply.
//
// All matrix math happens in CIE XYZ adapted to the D50 white point with
// the Bradford transform, so spaces with different white points convert
// with chromatic adaptation.
package colorspace

import (
	"fmt"
	"math"
)

// Model is the kind of color data a space describes.
type Model uint8

const (
	ModelUndefined Model = iota
	ModelRGB
	ModelGray
	ModelCMYK
)

func (m Model) String() string {
	switch m {
	case ModelRGB:
		return "Rgb"
	case ModelGray:
		return "Gray"
	case ModelCMYK:
		return "Cmyk"
	}
	return "Undefined"
}

// TransformModel tells how a space is converted to and from XYZ.
type TransformModel uint8

const (
	// ThreeComponentMatrix spaces convert through per-channel curves and a
	// 3×3 matrix.
	ThreeComponentMatrix TransformModel = iota

	// ElementListProcessing spaces need a general pipeline. Device CMYK is
	// the only such space here.
	ElementListProcessing
)

// Primaries names a set of RGB primaries and white point.
type Primaries uint8

const (
	PrimariesCustom Primaries = iota
	PrimariesSRGB
	PrimariesAdobeRGB
	PrimariesDCIP3D65
	PrimariesProPhotoRGB
	PrimariesBT2020
)

var primariesNames = [...]string{"Custom", "SRgb", "AdobeRgb", "DciP3D65", "ProPhotoRgb", "Bt2020"}

func (p Primaries) String() string {
	if int(p) < len(primariesNames) {
		return primariesNames[p]
	}
	return "Unknown"
}

// Chromaticity is a CIE xy coordinate.
type Chromaticity struct {
	X, Y float64
}

// Standard illuminants.
var (
	WhiteD50 = Chromaticity{0.3457, 0.3585}
	WhiteD65 = Chromaticity{0.3127, 0.3290}
)

type primarySet struct {
	white, red, green, blue Chromaticity
}

var primarySets = map[Primaries]primarySet{
	PrimariesSRGB:        {WhiteD65, Chromaticity{0.640, 0.330}, Chromaticity{0.300, 0.600}, Chromaticity{0.150, 0.060}},
	PrimariesAdobeRGB:    {WhiteD65, Chromaticity{0.640, 0.330}, Chromaticity{0.210, 0.710}, Chromaticity{0.150, 0.060}},
	PrimariesDCIP3D65:    {WhiteD65, Chromaticity{0.680, 0.320}, Chromaticity{0.265, 0.690}, Chromaticity{0.150, 0.060}},
	PrimariesProPhotoRGB: {WhiteD50, Chromaticity{0.7347, 0.2653}, Chromaticity{0.1596, 0.8404}, Chromaticity{0.0366, 0.0001}},
	PrimariesBT2020:      {WhiteD65, Chromaticity{0.708, 0.292}, Chromaticity{0.170, 0.797}, Chromaticity{0.131, 0.046}},
}

// ColorSpace is an immutable color space description. Two spaces are equal
// exactly when == reports so.
type ColorSpace struct {
	model     Model
	primaries Primaries
	set       primarySet
	curve     curve
}

// Predefined spaces.
var (
	SRGB        = New(PrimariesSRGB, TransferSRGB, 0)
	SRGBLinear  = New(PrimariesSRGB, TransferLinear, 0)
	AdobeRGB    = New(PrimariesAdobeRGB, TransferGamma, 2.19921875)
	DisplayP3   = New(PrimariesDCIP3D65, TransferSRGB, 0)
	ProPhotoRGB = New(PrimariesProPhotoRGB, TransferProPhotoRGB, 0)
	BT2020      = New(PrimariesBT2020, TransferBT2020, 0)
	BT2100PQ    = New(PrimariesBT2020, TransferST2084, 0)
	BT2100HLG   = New(PrimariesBT2020, TransferHLG, 0)
)

// New returns an RGB space with named primaries. gamma is only used with
// TransferGamma.
func New(p Primaries, tf TransferFunction, gamma float64) ColorSpace {
	set, ok := primarySets[p]
	if !ok {
		return ColorSpace{}
	}
	return ColorSpace{model: ModelRGB, primaries: p, set: set, curve: newCurve(tf, gamma)}
}

// NewCustom returns an RGB space with explicit chromaticities.
func NewCustom(white, red, green, blue Chromaticity, tf TransferFunction, gamma float64) ColorSpace {
	set := primarySet{white, red, green, blue}
	p := PrimariesCustom
	for named, s := range primarySets {
		if s == set {
			p = named
			break
		}
	}
	return ColorSpace{model: ModelRGB, primaries: p, set: set, curve: newCurve(tf, gamma)}
}

// NewGray returns a grayscale space with the given white point and curve.
func NewGray(white Chromaticity, tf TransferFunction, gamma float64) ColorSpace {
	return ColorSpace{model: ModelGray, set: primarySet{white: white}, curve: newCurve(tf, gamma)}
}

// NewCMYK returns device CMYK over sRGB: C = 1 - R/(1 - K) and so on.
func NewCMYK() ColorSpace {
	return ColorSpace{model: ModelCMYK, primaries: PrimariesSRGB, set: primarySets[PrimariesSRGB], curve: newCurve(TransferSRGB, 0)}
}

func newCurve(tf TransferFunction, gamma float64) curve {
	if tf != TransferGamma {
		gamma = 0
	}
	return curve{tf: tf, gamma: gamma}
}

// WithTransferFunction returns s with its curve replaced.
func (s ColorSpace) WithTransferFunction(tf TransferFunction, gamma float64) ColorSpace {
	if !s.IsValid() || s.model == ModelCMYK {
		return s
	}
	s.curve = newCurve(tf, gamma)
	return s
}

// IsValid reports whether s describes a usable space.
func (s ColorSpace) IsValid() bool {
	switch s.model {
	case ModelRGB:
		if s.set.white.Y <= 0 || s.set.red.Y <= 0 || s.set.green.Y <= 0 || s.set.blue.Y <= 0 {
			return false
		}
	case ModelGray:
		if s.set.white.Y <= 0 {
			return false
		}
	case ModelCMYK:
		return true
	default:
		return false
	}
	switch s.curve.tf {
	case TransferCustom:
		return false
	case TransferGamma:
		return s.curve.gamma > 0
	}
	return true
}

// IsValidTarget reports whether s can be converted to. Every valid space
// given to this package can.
func (s ColorSpace) IsValidTarget() bool { return s.IsValid() }

// Model returns the kind of data s describes.
func (s ColorSpace) Model() Model { return s.model }

// TransformModel returns how s converts to XYZ.
func (s ColorSpace) TransformModel() TransformModel {
	if s.model == ModelCMYK {
		return ElementListProcessing
	}
	return ThreeComponentMatrix
}

// Primaries returns the named primaries, or PrimariesCustom.
func (s ColorSpace) Primaries() Primaries { return s.primaries }

// TransferFunction returns the curve.
func (s ColorSpace) TransferFunction() TransferFunction { return s.curve.tf }

// Gamma returns the exponent of a TransferGamma curve and 0 otherwise.
func (s ColorSpace) Gamma() float64 { return s.curve.gamma }

// WhitePoint returns the white point chromaticity.
func (s ColorSpace) WhitePoint() Chromaticity { return s.set.white }

// String describes the space, e.g. "Rgb(SRgb, SRgb)".
func (s ColorSpace) String() string {
	if !s.IsValid() {
		return "Invalid"
	}
	switch s.model {
	case ModelGray:
		return fmt.Sprintf("Gray(%s)", s.curveString())
	case ModelCMYK:
		return "Cmyk(device)"
	}
	return fmt.Sprintf("Rgb(%s, %s)", s.primaries, s.curveString())
}

func (s ColorSpace) curveString() string {
	if s.curve.tf == TransferGamma {
		return fmt.Sprintf("Gamma %g", s.curve.gamma)
	}
	return s.curve.tf.String()
}

// mat3 is a row-major 3×3 matrix.
type mat3 [9]float64

func (m mat3) mul(o mat3) mat3 {
	var r mat3
	for i := range 3 {
		for j := range 3 {
			r[i*3+j] = m[i*3]*o[j] + m[i*3+1]*o[3+j] + m[i*3+2]*o[6+j]
		}
	}
	return r
}

func (m mat3) apply(x, y, z float64) (float64, float64, float64) {
	return m[0]*x + m[1]*y + m[2]*z,
		m[3]*x + m[4]*y + m[5]*z,
		m[6]*x + m[7]*y + m[8]*z
}

func (m mat3) inverse() (mat3, bool) {
	det := m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
	if math.Abs(det) < 1e-12 {
		return mat3{}, false
	}
	inv := 1 / det
	return mat3{
		(m[4]*m[8] - m[5]*m[7]) * inv,
		(m[2]*m[7] - m[1]*m[8]) * inv,
		(m[1]*m[5] - m[2]*m[4]) * inv,
		(m[5]*m[6] - m[3]*m[8]) * inv,
		(m[0]*m[8] - m[2]*m[6]) * inv,
		(m[2]*m[3] - m[0]*m[5]) * inv,
		(m[3]*m[7] - m[4]*m[6]) * inv,
		(m[1]*m[6] - m[0]*m[7]) * inv,
		(m[0]*m[4] - m[1]*m[3]) * inv,
	}, true
}

func identity3() mat3 { return mat3{1, 0, 0, 0, 1, 0, 0, 0, 1} }

func (c Chromaticity) xyz() (float64, float64, float64) {
	return c.X / c.Y, 1, (1 - c.X - c.Y) / c.Y
}

var bradford = mat3{
	0.8951, 0.2664, -0.1614,
	-0.7502, 1.7135, 0.0367,
	0.0389, -0.0685, 1.0296,
}

// whiteD50XYZ is the PCS white.
var whiteD50XYZ = [3]float64{0.96422, 1.0, 0.82521}

// adaptToD50 returns the Bradford adaptation from white w to D50.
func adaptToD50(w Chromaticity) mat3 {
	wx, wy, wz := w.xyz()
	if math.Abs(wx-whiteD50XYZ[0]) < 1e-3 && math.Abs(wz-whiteD50XYZ[2]) < 1e-3 {
		return identity3()
	}
	inv, _ := bradford.inverse()
	sr, sg, sb := bradford.apply(wx, wy, wz)
	dr, dg, db := bradford.apply(whiteD50XYZ[0], whiteD50XYZ[1], whiteD50XYZ[2])
	scale := mat3{dr / sr, 0, 0, 0, dg / sg, 0, 0, 0, db / sb}
	return inv.mul(scale).mul(bradford)
}

// toXYZ returns the matrix from linear RGB to D50 XYZ.
func (s ColorSpace) toXYZ() mat3 {
	rx, ry, rz := s.set.red.xyz()
	gx, gy, gz := s.set.green.xyz()
	bx, by, bz := s.set.blue.xyz()
	prim := mat3{rx, gx, bx, ry, gy, by, rz, gz, bz}
	inv, ok := prim.inverse()
	if !ok {
		return identity3()
	}
	wx, wy, wz := s.set.white.xyz()
	sr, sg, sb := inv.apply(wx, wy, wz)
	m := mat3{
		rx * sr, gx * sg, bx * sb,
		ry * sr, gy * sg, by * sb,
		rz * sr, gz * sg, bz * sb,
	}
	return adaptToD50(s.set.white).mul(m)
}
