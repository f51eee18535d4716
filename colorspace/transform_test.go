package colorspace

import (
	"encoding/binary"
	"testing"
)

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestTransformIdentity(t *testing.T) {
	if !SRGB.TransformationTo(SRGB).IsIdentity() {
		t.Error("transform to the same space should be the identity")
	}
	if !SRGB.TransformationTo(ColorSpace{}).IsIdentity() {
		t.Error("transform to an invalid space should be the identity")
	}
	var id Transform
	if got := id.Map(0x80123456); got != 0x80123456 {
		t.Errorf("identity Map = %#x", got)
	}
	src := []byte{1, 2, 3, 4}
	dst := make([]byte, 4)
	id.Apply(dst, EncodingARGB32, src, EncodingARGB32, 1, Unpremultiplied)
	if binary.LittleEndian.Uint32(dst) != binary.LittleEndian.Uint32(src) {
		t.Error("identity Apply should copy")
	}
}

func TestTransformSourceTarget(t *testing.T) {
	tr := SRGB.TransformationTo(DisplayP3)
	if tr.IsIdentity() {
		t.Fatal("sRGB -> P3 should not be the identity")
	}
	if tr.Source() != SRGB || tr.Target() != DisplayP3 {
		t.Errorf("Source/Target = %v/%v", tr.Source(), tr.Target())
	}
}

func TestMapSRGBToLinear(t *testing.T) {
	tr := SRGB.TransformationTo(SRGBLinear)
	if got := tr.Map(0xff808080); got != 0xff373737 {
		t.Errorf("Map(0xff808080) = %#08x, want 0xff373737", got)
	}
}

func TestMapKeepsWhiteBlackAndAlpha(t *testing.T) {
	for _, out := range []ColorSpace{SRGBLinear, DisplayP3, AdobeRGB, ProPhotoRGB, BT2020} {
		tr := SRGB.TransformationTo(out)
		if got := tr.Map(0xffffffff); got != 0xffffffff {
			t.Errorf("%s: white -> %#08x", out, got)
		}
		if got := tr.Map(0xff000000); got != 0xff000000 {
			t.Errorf("%s: black -> %#08x", out, got)
		}
		if got := tr.Map(0x80ffffff); got>>24 != 0x80 {
			t.Errorf("%s: alpha lost: %#08x", out, got)
		}
	}
}

// TestRoundTripThroughRGBA64 converts 8-bit sRGB to 16-bit linear and back.
func TestRoundTripThroughRGBA64(t *testing.T) {
	there := SRGB.TransformationTo(SRGBLinear)
	back := SRGBLinear.TransformationTo(SRGB)

	const n = 256
	src := make([]byte, n*4)
	for i := range n {
		binary.LittleEndian.PutUint32(src[i*4:], 0xff000000|uint32(i)<<16|uint32(255-i)<<8|uint32(i*7&0xff))
	}
	mid := make([]byte, n*8)
	out := make([]byte, n*4)
	there.Apply(mid, EncodingRGBA64, src, EncodingARGB32, n, InputOpaque)
	back.Apply(out, EncodingARGB32, mid, EncodingRGBA64, n, InputOpaque)

	for i := 0; i < len(src); i++ {
		if absDiff(src[i], out[i]) > 1 {
			t.Fatalf("byte %d: %d -> %d", i, src[i], out[i])
		}
	}
}

func TestPremultipliedApply(t *testing.T) {
	tr := SRGB.TransformationTo(DisplayP3)
	src := make([]byte, 4)
	dst := make([]byte, 4)
	// Transparent pixels stay transparent black.
	tr.Apply(dst, EncodingARGB32, src, EncodingARGB32, 1, Premultiplied)
	if got := binary.LittleEndian.Uint32(dst); got != 0 {
		t.Errorf("transparent -> %#08x", got)
	}
	// Premultiplied white at half alpha stays half white.
	binary.LittleEndian.PutUint32(src, 0x80808080)
	tr.Apply(dst, EncodingARGB32, src, EncodingARGB32, 1, Premultiplied)
	got := binary.LittleEndian.Uint32(dst)
	for shift := 0; shift < 32; shift += 8 {
		if absDiff(uint8(got>>shift), 0x80) > 1 {
			t.Fatalf("half white -> %#08x", got)
		}
	}
}

func TestGrayTransforms(t *testing.T) {
	gray := NewGray(WhiteD65, TransferSRGB, 0)

	toGray := SRGB.TransformationTo(gray)
	src := make([]byte, 4)
	binary.LittleEndian.PutUint32(src, 0xff808080)
	g := make([]byte, 1)
	toGray.Apply(g, EncodingGray8, src, EncodingARGB32, 1, InputOpaque)
	if absDiff(g[0], 0x80) > 1 {
		t.Errorf("sRGB gray -> Gray8 %d, want 128", g[0])
	}

	fromGray := gray.TransformationTo(SRGB)
	out := make([]byte, 4)
	fromGray.Apply(out, EncodingARGB32, []byte{0x80}, EncodingGray8, 1, InputOpaque)
	p := binary.LittleEndian.Uint32(out)
	if p>>24 != 0xff {
		t.Errorf("gray -> ARGB32 alpha %#x", p>>24)
	}
	for shift := 0; shift < 24; shift += 8 {
		if absDiff(uint8(p>>shift), 0x80) > 1 {
			t.Fatalf("Gray8 128 -> %#08x", p)
		}
	}

	g16 := make([]byte, 2)
	toGray.Apply(g16, EncodingGray16, src, EncodingARGB32, 1, InputOpaque)
	if v := binary.LittleEndian.Uint16(g16); v < 0x8000-0x200 || v > 0x8080+0x200 {
		t.Errorf("Gray16 = %#x", v)
	}
}

func TestCMYKTransforms(t *testing.T) {
	toCMYK := SRGB.TransformationTo(NewCMYK())
	tests := []struct {
		rgb, cmyk uint32
	}{
		{0xffff0000, 0x00ffff00},
		{0xff00ff00, 0xff00ff00},
		{0xffffffff, 0x00000000},
		{0xff000000, 0x000000ff},
	}
	for _, tt := range tests {
		src := make([]byte, 4)
		binary.LittleEndian.PutUint32(src, tt.rgb)
		dst := make([]byte, 4)
		toCMYK.Apply(dst, EncodingCMYK32, src, EncodingARGB32, 1, InputOpaque)
		if got := binary.LittleEndian.Uint32(dst); got != tt.cmyk {
			t.Errorf("rgb %#08x -> cmyk %#08x, want %#08x", tt.rgb, got, tt.cmyk)
		}
	}

	back := NewCMYK().TransformationTo(SRGB)
	src := make([]byte, 4)
	binary.LittleEndian.PutUint32(src, 0x00ffff00)
	dst := make([]byte, 4)
	back.Apply(dst, EncodingARGB32, src, EncodingCMYK32, 1, InputOpaque)
	if got := binary.LittleEndian.Uint32(dst); got != 0xffff0000 {
		t.Errorf("cmyk red -> %#08x", got)
	}
}

func TestEncodingBytesPerPixel(t *testing.T) {
	want := map[Encoding]int{
		EncodingGray8: 1, EncodingGray16: 2, EncodingARGB32: 4,
		EncodingCMYK32: 4, EncodingRGBA64: 8, EncodingRGBA32F: 16,
	}
	for e, n := range want {
		if e.BytesPerPixel() != n {
			t.Errorf("Encoding(%d).BytesPerPixel() = %d, want %d", e, e.BytesPerPixel(), n)
		}
	}
}

func BenchmarkApplyARGB32(b *testing.B) {
	tr := SRGB.TransformationTo(DisplayP3)
	const n = 1024
	buf := make([]byte, n*4)
	for i := range buf {
		buf[i] = byte(i)
	}
	out := make([]byte, n*4)
	b.SetBytes(n * 4)
	for i := 0; i < b.N; i++ {
		tr.Apply(out, EncodingARGB32, buf, EncodingARGB32, n, Unpremultiplied)
	}
}

func TestTransformationToIsShared(t *testing.T) {
	a := SRGB.TransformationTo(BT2020)
	b := SRGB.TransformationTo(BT2020)
	if a.p != b.p {
		t.Error("repeated TransformationTo should reuse the cached pipeline")
	}
	if lutFor(SRGB.curve) != lutFor(SRGB.curve) {
		t.Error("lutFor should reuse the cached table")
	}
}
