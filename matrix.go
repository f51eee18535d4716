package pixbuf

import "math"

// Transform is a 2D projective transformation in row-major order:
//
//	| A  B  C |
//	| D  E  F |
//	| G  H  I |
//
// A point maps as
//
//	w  = G*x + H*y + I
//	x' = (A*x + B*y + C) / w
//	y' = (D*x + E*y + F) / w
//
// Affine transforms have G = H = 0 and I = 1.
type Transform struct {
	A, B, C float64
	D, E, F float64
	G, H, I float64
}

// TransformType classifies a Transform. Later values include the
// capabilities of earlier ones.
type TransformType uint8

const (
	TxNone TransformType = iota
	TxTranslate
	TxScale
	TxRotate
	TxShear
	TxProject
)

// Identity returns the identity transformation.
func Identity() Transform {
	return Transform{A: 1, E: 1, I: 1}
}

// Affine returns the affine transformation x' = a*x + b*y + c,
// y' = d*x + e*y + f.
func Affine(a, b, c, d, e, f float64) Transform {
	return Transform{A: a, B: b, C: c, D: d, E: e, F: f, I: 1}
}

// Translate creates a translation.
func Translate(x, y float64) Transform {
	return Affine(1, 0, x, 0, 1, y)
}

// Scale creates a scaling around the origin. Negative factors flip.
func Scale(x, y float64) Transform {
	return Affine(x, 0, 0, 0, y, 0)
}

// Rotate creates a rotation by angle radians. With y pointing down,
// positive angles turn clockwise. Multiples of π/2 are exact.
func Rotate(angle float64) Transform {
	var sin, cos float64
	switch angle {
	case math.Pi / 2:
		sin, cos = 1, 0
	case math.Pi:
		sin, cos = 0, -1
	case 3 * math.Pi / 2, -math.Pi / 2:
		sin, cos = -1, 0
	default:
		sin, cos = math.Sincos(angle)
	}
	return Affine(cos, -sin, 0, sin, cos, 0)
}

// Shear creates a shear.
func Shear(x, y float64) Transform {
	return Affine(1, x, 0, y, 1, 0)
}

// Multiply returns m * other: the result applies other first, then m.
func (m Transform) Multiply(other Transform) Transform {
	a := [9]float64{m.A, m.B, m.C, m.D, m.E, m.F, m.G, m.H, m.I}
	b := [9]float64{other.A, other.B, other.C, other.D, other.E, other.F, other.G, other.H, other.I}
	var r [9]float64
	for i := range 3 {
		for j := range 3 {
			r[i*3+j] = a[i*3]*b[j] + a[i*3+1]*b[3+j] + a[i*3+2]*b[6+j]
		}
	}
	return Transform{r[0], r[1], r[2], r[3], r[4], r[5], r[6], r[7], r[8]}
}

// Map applies the transformation to a point.
func (m Transform) Map(x, y float64) (float64, float64) {
	tx := m.A*x + m.B*y + m.C
	ty := m.D*x + m.E*y + m.F
	if m.IsAffine() {
		return tx, ty
	}
	w := m.G*x + m.H*y + m.I
	if w == 0 {
		w = 1e-9
	}
	return tx / w, ty / w
}

// MapRect returns the bounding box of the rectangle (0, 0, w, h) after
// the transformation.
func (m Transform) MapRect(w, h float64) (x0, y0, x1, y1 float64) {
	x0, y0 = math.Inf(1), math.Inf(1)
	x1, y1 = math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}} {
		x, y := m.Map(c[0], c[1])
		x0, y0 = min(x0, x), min(y0, y)
		x1, y1 = max(x1, x), max(y1, y)
	}
	return x0, y0, x1, y1
}

// Invert returns the inverse transformation, or false if m is singular.
func (m Transform) Invert() (Transform, bool) {
	if m.IsAffine() {
		det := m.A*m.E - m.B*m.D
		if math.Abs(det) < 1e-10 {
			return Transform{}, false
		}
		inv := 1 / det
		return Affine(
			m.E*inv, -m.B*inv, (m.B*m.F-m.C*m.E)*inv,
			-m.D*inv, m.A*inv, (m.C*m.D-m.A*m.F)*inv,
		), true
	}
	det := m.A*(m.E*m.I-m.F*m.H) - m.B*(m.D*m.I-m.F*m.G) + m.C*(m.D*m.H-m.E*m.G)
	if math.Abs(det) < 1e-10 {
		return Transform{}, false
	}
	inv := 1 / det
	return Transform{
		A: (m.E*m.I - m.F*m.H) * inv,
		B: (m.C*m.H - m.B*m.I) * inv,
		C: (m.B*m.F - m.C*m.E) * inv,
		D: (m.F*m.G - m.D*m.I) * inv,
		E: (m.A*m.I - m.C*m.G) * inv,
		F: (m.C*m.D - m.A*m.F) * inv,
		G: (m.D*m.H - m.E*m.G) * inv,
		H: (m.B*m.G - m.A*m.H) * inv,
		I: (m.A*m.E - m.B*m.D) * inv,
	}, true
}

// IsAffine reports whether m has no perspective component.
func (m Transform) IsAffine() bool {
	return m.G == 0 && m.H == 0 && m.I == 1
}

// IsIdentity reports whether m is the identity.
func (m Transform) IsIdentity() bool {
	return m == Identity()
}

// Type returns the most general kind of operation m performs.
func (m Transform) Type() TransformType {
	switch {
	case !m.IsAffine():
		return TxProject
	case m.B != 0 || m.D != 0:
		if dot := m.A*m.B + m.D*m.E; math.Abs(dot) < 1e-12 {
			return TxRotate
		}
		return TxShear
	case m.A != 1 || m.E != 1:
		return TxScale
	case m.C != 0 || m.F != 0:
		return TxTranslate
	}
	return TxNone
}

// TrueMatrix returns m adjusted so that a w×h image transformed by it has
// its bounding box at the origin.
func TrueMatrix(m Transform, w, h int) Transform {
	x0, y0, _, _ := m.MapRect(float64(w), float64(h))
	return Translate(-math.Floor(x0), -math.Floor(y0)).Multiply(m)
}
