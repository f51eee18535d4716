package pixbuf

import (
	"image/color"
	"slices"
	"strings"
	"testing"
)

// =============================================================================
// Pixel access
// =============================================================================

func TestPixel_OutOfRange(t *testing.T) {
	img := New(4, 4, FormatARGB32)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}} {
		if got := img.Pixel(p[0], p[1]); got != outOfRangePixel {
			t.Errorf("Pixel(%d, %d) = %d, want %d", p[0], p[1], got, outOfRangePixel)
		}
	}
	idx := New(4, 4, FormatIndexed8)
	if got := idx.PixelIndex(4, 0); got != outOfRangeIndex {
		t.Errorf("PixelIndex(4, 0) = %d, want %d", got, outOfRangeIndex)
	}
	if got := img.PixelIndex(0, 0); got != 0 {
		t.Errorf("PixelIndex on ARGB32 = %d, want 0", got)
	}
}

func TestSetPixel_OpaqueFormats(t *testing.T) {
	for _, f := range []Format{FormatRGB32, FormatRGB888, FormatRGBX8888, FormatRGBX64} {
		t.Run(f.String(), func(t *testing.T) {
			img := New(1, 1, f)
			img.SetPixel(0, 0, 0x10203040)
			if got := img.Pixel(0, 0); got != 0xff203040 {
				t.Errorf("Pixel = %#08x, want 0xff203040", got)
			}
		})
	}
}

func TestSetPixel_IndexRange(t *testing.T) {
	img := New(2, 1, FormatIndexed8)
	img.SetColorTable([]uint32{0xff000000, 0xffffffff})
	img.Fill(0)
	img.SetPixel(0, 0, 1)
	img.SetPixel(1, 0, 2)
	if got := indices(img); !slices.Equal(got, []int{1, 0}) {
		t.Errorf("indices = %v, want [1 0]", got)
	}

	mono := New(9, 1, FormatMonoLSB)
	mono.Fill(0)
	mono.SetPixel(8, 0, 1)
	mono.SetPixel(0, 0, 3)
	if got := mono.PixelIndex(8, 0); got != 1 {
		t.Errorf("PixelIndex(8, 0) = %d, want 1", got)
	}
	if got := mono.PixelIndex(0, 0); got != 0 {
		t.Errorf("PixelIndex(0, 0) = %d, index 3 should be rejected", got)
	}
}

func TestPixelColor_Types(t *testing.T) {
	tests := []struct {
		f    Format
		want color.Color
	}{
		{FormatRGB888, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}},
		{FormatARGB32Premultiplied, color.NRGBA{R: 0xff, A: 0x80}},
		{FormatRGBA64, color.NRGBA64{R: 0xffff, A: 0x8080}},
		{FormatRGBA32FPx4, RgbaF32{R: 1, A: 0x80 / 255.0}},
		{FormatGrayscale8, color.Gray{Y: 0x80}},
		{FormatGrayscale16, color.Gray16{Y: 0x8080}},
	}
	set := map[Format]uint32{
		FormatRGB888:              0xff102030,
		FormatARGB32Premultiplied: 0x80800000,
		FormatRGBA64:              0x80ff0000,
		FormatRGBA32FPx4:          0x80ff0000,
		FormatGrayscale8:          0xff808080,
		FormatGrayscale16:         0xff808080,
	}
	for _, tt := range tests {
		t.Run(tt.f.String(), func(t *testing.T) {
			img := New(1, 1, tt.f)
			img.SetPixel(0, 0, set[tt.f])
			if got := img.PixelColor(0, 0); got != tt.want {
				t.Errorf("PixelColor = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSetPixelColor(t *testing.T) {
	img := New(1, 1, FormatRGBA64)
	want := color.NRGBA64{R: 0x1234, G: 0x5678, B: 0x9abc, A: 0xffff}
	img.SetPixelColor(0, 0, want)
	if got := img.PixelColor(0, 0); got != want {
		t.Errorf("RGBA64: PixelColor = %#v, want %#v", got, want)
	}

	rgb := New(1, 1, FormatRGB32)
	rgb.SetPixelColor(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 0x80})
	if got := rgb.Pixel(0, 0); got != 0xff0a141e {
		t.Errorf("RGB32: Pixel = %#08x, want 0xff0a141e", got)
	}

	idx := New(1, 1, FormatIndexed8)
	idx.SetColorTable([]uint32{0xff000000})
	idx.Fill(0)
	idx.SetPixelColor(0, 0, color.White)
	if got := idx.PixelIndex(0, 0); got != 0 {
		t.Errorf("Indexed8: PixelIndex = %d, SetPixelColor should be ignored", got)
	}
}

// =============================================================================
// Fill
// =============================================================================

func TestFill_ForcesPadding(t *testing.T) {
	img := New(3, 2, FormatRGB32)
	img.Fill(0x00123456)
	for i, p := range pixels(img) {
		if p != 0xff123456 {
			t.Fatalf("pixel %d = %#08x, want 0xff123456", i, p)
		}
	}
}

func TestFillColor(t *testing.T) {
	red := color.NRGBA{R: 0xff, A: 0xff}
	for _, f := range []Format{
		FormatRGB32, FormatARGB32, FormatARGB32Premultiplied, FormatRGB16, FormatRGB888,
		FormatRGBA8888, FormatRGBX64, FormatRGBA64, FormatBGR30, FormatRGBA16FPx4, FormatRGBA32FPx4,
	} {
		t.Run(f.String(), func(t *testing.T) {
			img := New(3, 3, f)
			img.FillColor(red)
			for i, p := range pixels(img) {
				if p != 0xffff0000 {
					t.Fatalf("pixel %d = %#08x, want 0xffff0000", i, p)
				}
			}
		})
	}
}

func TestFillColor_Translucent(t *testing.T) {
	img := New(2, 2, FormatARGB32Premultiplied)
	img.FillColor(color.NRGBA{R: 0xff, A: 0x80})
	if got := img.Pixel(1, 1); got != 0x80800000 {
		t.Errorf("Pixel = %#08x, want 0x80800000", got)
	}
}

func TestFillColor_Nil(t *testing.T) {
	buf := captureLogs(t)
	img := New(3, 3, FormatRGBA64)
	img.FillColor(color.NRGBA64{R: 0xffff, A: 0xffff})
	img.FillColor(nil)
	if got := img.Pixel(2, 2); got != 0xffff0000 {
		t.Errorf("Pixel = %#08x, want the earlier fill 0xffff0000", got)
	}
	if !strings.Contains(buf.String(), "color is invalid") {
		t.Errorf("missing warning, log = %q", buf.String())
	}
	if got := FromColor(nil); got != 0 {
		t.Errorf("FromColor(nil) = %#08x, want 0", got)
	}
}

func TestFillColor_IndexedPicksEntry(t *testing.T) {
	img := New(2, 2, FormatIndexed8)
	img.SetColorTable([]uint32{0xff000000, 0xffff0000, 0xff00ff00})
	img.FillColor(color.NRGBA{G: 0xff, A: 0xff})
	if got := indices(img); !slices.Equal(got, []int{2, 2, 2, 2}) {
		t.Errorf("indices = %v", got)
	}
	img.FillColor(color.NRGBA{B: 0xff, A: 0xff})
	if got := indices(img); !slices.Equal(got, []int{0, 0, 0, 0}) {
		t.Errorf("missing color: indices = %v, want index 0", got)
	}
}

// =============================================================================
// Inversion and gray checks
// =============================================================================

func TestInvertPixels(t *testing.T) {
	tests := []struct {
		name string
		f    Format
		mode InvertMode
		in   uint32
		want uint32
	}{
		{"RGB32", FormatRGB32, InvertRgb, 0xff102030, 0xffefdfcf},
		{"ARGB32 rgb", FormatARGB32, InvertRgb, 0x80102030, 0x80efdfcf},
		{"ARGB32 rgba", FormatARGB32, InvertRgba, 0x80102030, 0x7fefdfcf},
		{"RGBA8888 rgb", FormatRGBA8888, InvertRgb, 0x80102030, 0x80efdfcf},
		{"RGB888", FormatRGB888, InvertRgb, 0xff102030, 0xffefdfcf},
		{"RGBA64 rgba", FormatRGBA64, InvertRgba, 0x80102030, 0x7fefdfcf},
		{"RGBA32FPx4 rgb", FormatRGBA32FPx4, InvertRgb, 0x80000000, 0x80ffffff},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := newFilled(2, 2, tt.f, func(x, y int) uint32 { return tt.in })
			img.InvertPixels(tt.mode)
			if got := img.Pixel(1, 0); got != tt.want {
				t.Errorf("Pixel = %#08x, want %#08x", got, tt.want)
			}
			if img.Format() != tt.f {
				t.Errorf("Format() = %v, want %v", img.Format(), tt.f)
			}
		})
	}
}

func TestInvertPixels_Mono(t *testing.T) {
	img := New(3, 1, FormatMono)
	img.SetColorTable([]uint32{0xffffffff, 0xff000000})
	img.Fill(0)
	img.SetPixel(1, 0, 1)
	img.InvertPixels(InvertRgb)
	if got := indices(img); !slices.Equal(got, []int{1, 0, 1}) {
		t.Errorf("indices = %v, want [1 0 1]", got)
	}
}

func TestAllGray(t *testing.T) {
	gray := newFilled(2, 2, FormatRGB32, func(x, y int) uint32 { return 0xff808080 })
	if !gray.AllGray() || !gray.IsGrayscale() {
		t.Error("uniform gray RGB32 should be gray")
	}
	gray.SetPixel(1, 1, 0xff808081)
	if gray.AllGray() {
		t.Error("a colored pixel should fail AllGray")
	}

	if !New(1, 1, FormatGrayscale16).IsGrayscale() {
		t.Error("Grayscale16 is grayscale")
	}
	if New(1, 1, FormatAlpha8).AllGray() {
		t.Error("Alpha8 is not gray")
	}

	idx := New(1, 1, FormatIndexed8)
	idx.SetColorTable([]uint32{RGB(0, 0, 0), RGB(1, 1, 1)})
	if !idx.IsGrayscale() {
		t.Error("identity gray table should be grayscale")
	}
	idx.SetColorTable([]uint32{RGB(0x80, 0x80, 0x80)})
	if !idx.AllGray() || idx.IsGrayscale() {
		t.Error("a gray table that is not the identity ramp is AllGray but not IsGrayscale")
	}
}

// =============================================================================
// Equality
// =============================================================================

func TestEqual(t *testing.T) {
	a := newFilled(3, 3, FormatRGB32, primaries)
	b := a.Copy(a.Rect())
	b.Bits()[3] = 0
	if !a.Equal(b) {
		t.Error("RGB32 top byte should be ignored")
	}

	b.SetPixel(2, 2, 0xff123456)
	if a.Equal(b) {
		t.Error("different pixels should not be equal")
	}

	if a.Equal(a.ConvertToFormat(FormatARGB32, 0)) {
		t.Error("different formats should not be equal")
	}

	var null *Image
	if !null.Equal(&Image{}) || a.Equal(null) {
		t.Error("null images equal each other only")
	}
}

func TestEqual_IndexedComparesColors(t *testing.T) {
	a := New(2, 1, FormatIndexed8)
	a.SetColorTable([]uint32{0xffff0000, 0xff00ff00})
	a.SetPixel(0, 0, 0)
	a.SetPixel(1, 0, 1)

	b := New(2, 1, FormatIndexed8)
	b.SetColorTable([]uint32{0xff00ff00, 0xffff0000})
	b.SetPixel(0, 0, 1)
	b.SetPixel(1, 0, 0)

	if !a.Equal(b) {
		t.Error("same colors through different tables should be equal")
	}
}
