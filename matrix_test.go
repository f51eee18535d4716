package pixbuf

import (
	"math"
	"testing"
)

func TestTransform_Type(t *testing.T) {
	tests := []struct {
		name string
		m    Transform
		want TransformType
	}{
		{"identity", Identity(), TxNone},
		{"translate", Translate(3, -1), TxTranslate},
		{"scale", Scale(2, 3), TxScale},
		{"flip", Scale(-1, 1), TxScale},
		{"scale + translate", Translate(1, 1).Multiply(Scale(2, 2)), TxScale},
		{"rotate 45deg", Rotate(math.Pi / 4), TxRotate},
		{"rotate 90deg", Rotate(math.Pi / 2), TxRotate},
		{"shear", Shear(0.5, 0), TxShear},
		{"perspective", Transform{A: 1, E: 1, G: 0.01, I: 1}, TxProject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Type(); got != tt.want {
				t.Errorf("Transform%+v.Type() = %v, want %v", tt.m, got, tt.want)
			}
		})
	}
}

func TestRotate_ExactQuarterTurns(t *testing.T) {
	tests := []struct {
		angle float64
		want  Transform
	}{
		{math.Pi / 2, Affine(0, -1, 0, 1, 0, 0)},
		{math.Pi, Affine(-1, 0, 0, 0, -1, 0)},
		{-math.Pi / 2, Affine(0, 1, 0, -1, 0, 0)},
		{3 * math.Pi / 2, Affine(0, 1, 0, -1, 0, 0)},
	}
	for _, tt := range tests {
		if got := Rotate(tt.angle); got != tt.want {
			t.Errorf("Rotate(%v) = %+v, want %+v", tt.angle, got, tt.want)
		}
	}
}

func TestTransform_Map(t *testing.T) {
	m := Translate(10, 20).Multiply(Scale(2, 3))
	if x, y := m.Map(1, 1); x != 12 || y != 23 {
		t.Errorf("Map(1, 1) = (%v, %v), want (12, 23)", x, y)
	}

	p := Transform{A: 1, E: 1, G: 1, I: 1}
	if x, y := p.Map(1, 2); x != 0.5 || y != 1 {
		t.Errorf("perspective Map(1, 2) = (%v, %v), want (0.5, 1)", x, y)
	}
}

func TestTransform_Invert(t *testing.T) {
	tests := []struct {
		name string
		m    Transform
	}{
		{"affine", Translate(5, -2).Multiply(Rotate(0.3)).Multiply(Scale(2, 0.5))},
		{"perspective", Transform{A: 2, B: 0.1, C: 3, D: 0.2, E: 1.5, F: -1, G: 0.01, H: 0.02, I: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := tt.m.Invert()
			if !ok {
				t.Fatal("Invert() reported singular")
			}
			x, y := tt.m.Map(3, 4)
			bx, by := inv.Map(x, y)
			if math.Abs(bx-3) > 1e-9 || math.Abs(by-4) > 1e-9 {
				t.Errorf("inverse mapped back to (%v, %v), want (3, 4)", bx, by)
			}
		})
	}
	if _, ok := Scale(0, 1).Invert(); ok {
		t.Error("a zero scale should be singular")
	}
}

func TestTrueMatrix(t *testing.T) {
	m := TrueMatrix(Rotate(math.Pi/2), 4, 2)
	if x, y := m.Map(0, 0); x != 2 || y != 0 {
		t.Errorf("Map(0, 0) = (%v, %v), want (2, 0)", x, y)
	}
	if x, y := m.Map(4, 2); x != 0 || y != 4 {
		t.Errorf("Map(4, 2) = (%v, %v), want (0, 4)", x, y)
	}
	x0, y0, x1, y1 := m.MapRect(4, 2)
	if x0 != 0 || y0 != 0 || x1 != 2 || y1 != 4 {
		t.Errorf("MapRect = (%v, %v, %v, %v), want (0, 0, 2, 4)", x0, y0, x1, y1)
	}
}
