package blend

import (
	"testing"
)

// TestDiv255 checks the shift-based division against real division.
func TestDiv255(t *testing.T) {
	for x := uint32(0); x <= 255*255; x++ {
		want := int((x + 127) / 255)
		got := int(Div255(x))
		if d := got - want; d < -1 || d > 1 {
			t.Fatalf("Div255(%d) = %d, want %d±1", x, got, want)
		}
	}
}

func TestDiv255_Endpoints(t *testing.T) {
	tests := []struct {
		a, b uint32
		want uint32
	}{
		{0, 0, 0},
		{255, 255, 255},
		{0, 255, 0},
		{255, 1, 1},
		{128, 255, 128},
	}
	for _, tt := range tests {
		if got := MulDiv255(tt.a, tt.b); got != tt.want {
			t.Errorf("MulDiv255(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDiv65535(t *testing.T) {
	for _, x := range []uint64{0, 1, 32767, 32768, 65535, 65535 * 65535, 1 << 31} {
		want := int64((x + 32767) / 65535)
		got := int64(Div65535(x))
		if d := got - want; d < -1 || d > 1 {
			t.Errorf("Div65535(%d) = %d, want %d±1", x, got, want)
		}
	}
	if got := Div65535(65535 * 65535); got != 65535 {
		t.Errorf("Div65535(65535²) = %d, want 65535", got)
	}
}

// =============================================================================
// Premultiplication
// =============================================================================

func TestPremultiply(t *testing.T) {
	tests := []struct {
		name string
		in   uint32
		want uint32
	}{
		{"opaque", 0xff102030, 0xff102030},
		{"transparent", 0x00ffffff, 0x00000000},
		{"half red", 0x80ff0000, 0x80800000},
		{"half white", 0x80ffffff, 0x80808080},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Premultiply(tt.in); got != tt.want {
				t.Errorf("Premultiply(%#08x) = %#08x, want %#08x", tt.in, got, tt.want)
			}
		})
	}
}

func TestUnpremultiply(t *testing.T) {
	tests := []struct {
		name string
		in   uint32
		want uint32
	}{
		{"opaque", 0xff102030, 0xff102030},
		{"transparent", 0x00000000, 0x00000000},
		{"half red", 0x80800000, 0x80ff0000},
		{"invalid saturates", 0x10ff0000, 0x10ff0000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Unpremultiply(tt.in); got != tt.want {
				t.Errorf("Unpremultiply(%#08x) = %#08x, want %#08x", tt.in, got, tt.want)
			}
		})
	}
}

// TestPremultiplyStable checks that every valid premultiplied color
// survives an unpremultiply/premultiply pass.
func TestPremultiplyStable(t *testing.T) {
	for a := uint32(0); a < 256; a++ {
		for c := uint32(0); c <= a; c++ {
			p := a<<24 | c<<16 | c<<8 | c
			if got := Premultiply(Unpremultiply(p)); got != p {
				t.Fatalf("Premultiply(Unpremultiply(%#08x)) = %#08x", p, got)
			}
		}
	}
}

func TestByteMul(t *testing.T) {
	if got := ByteMul(0xffffffff, 0x80); got != 0x80808080 {
		t.Errorf("ByteMul(white, 0x80) = %#08x, want 0x80808080", got)
	}
	if got := ByteMul(0x12345678, 255); got != 0x12345678 {
		t.Errorf("ByteMul(x, 255) = %#08x, want x", got)
	}
	if got := ByteMul(0x12345678, 0); got != 0 {
		t.Errorf("ByteMul(x, 0) = %#08x, want 0", got)
	}
}

func TestPremultiply16Stable(t *testing.T) {
	for _, a := range []uint16{1, 2, 255, 256, 1000, 32768, 65534} {
		for _, c := range []uint16{0, 1, a / 3, a / 2, a - 1, a} {
			if c > a {
				continue
			}
			u := Unpremultiply16(c, a)
			if got := Premultiply16(u, a); got != c {
				t.Errorf("Premultiply16(Unpremultiply16(%d, %d)) = %d", c, a, got)
			}
		}
	}
	if got := Unpremultiply16(100, 0); got != 0 {
		t.Errorf("Unpremultiply16(100, 0) = %d, want 0", got)
	}
}

func TestClamp(t *testing.T) {
	if Clamp255(-4) != 0 || Clamp255(300) != 255 || Clamp255(17) != 17 {
		t.Error("Clamp255 out of range")
	}
	if Clamp65535(-1) != 0 || Clamp65535(70000) != 65535 {
		t.Error("Clamp65535 out of range")
	}
}
