package pixbuf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// =============================================================================
// Alpha detection
// =============================================================================

func TestHasAlphaPixels(t *testing.T) {
	tests := []struct {
		name  string
		image func() *Image
		want  bool
	}{
		{"RGB32", func() *Image { return New(4, 4, FormatRGB32) }, false},
		{"opaque ARGB32", func() *Image {
			img := New(4, 4, FormatARGB32)
			img.Fill(0xff102030)
			return img
		}, false},
		{"translucent ARGB32", func() *Image {
			img := New(4, 4, FormatARGB32)
			img.Fill(0xff102030)
			img.SetPixel(3, 3, 0xfe102030)
			return img
		}, true},
		{"translucent RGBA64", func() *Image {
			img := New(4, 4, FormatRGBA64)
			img.Fill(0xffffffff)
			img.SetPixel(1, 2, 0x80ffffff)
			return img
		}, true},
		{"opaque RGBA32FPx4", func() *Image {
			img := New(4, 4, FormatRGBA32FPx4)
			img.Fill(0xff000000)
			return img
		}, false},
		{"Alpha8", func() *Image { return New(1, 1, FormatAlpha8) }, true},
		{"Indexed8 with transparent entry", func() *Image {
			img := New(1, 1, FormatIndexed8)
			img.SetColorTable([]uint32{0x00000000})
			return img
		}, true},
		{"Indexed8 opaque", func() *Image {
			img := New(1, 1, FormatIndexed8)
			img.SetColorTable([]uint32{0xff000000})
			return img
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.image().HasAlphaPixels(); got != tt.want {
				t.Errorf("HasAlphaPixels() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasAlphaChannel_Indexed(t *testing.T) {
	img := New(2, 2, FormatIndexed8)
	img.SetColorTable([]uint32{0xff000000, 0xffffffff})
	if img.HasAlphaChannel() {
		t.Error("opaque table should not report alpha")
	}
	img.SetColor(1, 0x80ffffff)
	if !img.HasAlphaChannel() {
		t.Error("translucent entry should report alpha")
	}
}

// =============================================================================
// Masks
// =============================================================================

func TestCreateAlphaMask_RGB32IsNull(t *testing.T) {
	if !New(2, 2, FormatRGB32).CreateAlphaMask(0).IsNull() {
		t.Error("RGB32 has no alpha mask")
	}
}

func TestCreateAlphaMask_MonoPalette(t *testing.T) {
	img := New(2, 1, FormatMono)
	img.SetColorTable([]uint32{0x00000000, 0xff000000})
	img.SetPixel(1, 0, 1)
	mask := img.CreateAlphaMask(0)
	if diff := cmp.Diff([]int{0, 1}, indices(mask)); diff != "" {
		t.Errorf("indices (-want +got):\n%s", diff)
	}
}

func TestCreateMaskFromColor(t *testing.T) {
	for _, f := range []Format{FormatRGB32, FormatARGB32, FormatRGB888, FormatRGBA64} {
		t.Run(f.String(), func(t *testing.T) {
			img := newFilled(5, 3, f, primaries)
			in := img.CreateMaskFromColor(0xffff0000, MaskInColor)
			out := img.CreateMaskFromColor(0xffff0000, MaskOutColor)
			if in.Format() != FormatMonoLSB || out.Format() != FormatMonoLSB {
				t.Fatalf("formats %v, %v", in.Format(), out.Format())
			}
			for y := range 3 {
				for x := range 5 {
					want := 0
					if primaries(x, y) == 0xffff0000 {
						want = 1
					}
					if got := in.PixelIndex(x, y); got != want {
						t.Errorf("in (%d, %d) = %d, want %d", x, y, got, want)
					}
					if got := out.PixelIndex(x, y); got != 1-want {
						t.Errorf("out (%d, %d) = %d, want %d", x, y, got, 1-want)
					}
				}
			}
		})
	}
}

func TestCreateHeuristicMask(t *testing.T) {
	// A black ring around a white center on a white background.
	img := newFilled(7, 7, FormatRGB32, func(x, y int) uint32 {
		if x >= 2 && x <= 4 && y >= 2 && y <= 4 && !(x == 3 && y == 3) {
			return 0xff000000
		}
		return 0xffffffff
	})

	tight := img.CreateHeuristicMask(true)
	if tight.Format() != FormatMonoLSB {
		t.Fatalf("Format() = %v", tight.Format())
	}
	for y := range 7 {
		for x := range 7 {
			want := 0
			if x >= 2 && x <= 4 && y >= 2 && y <= 4 {
				want = 1
			}
			if got := tight.PixelIndex(x, y); got != want {
				t.Errorf("tight (%d, %d) = %d, want %d", x, y, got, want)
			}
		}
	}

	loose := img.CreateHeuristicMask(false)
	if loose.PixelIndex(1, 3) != 1 || loose.PixelIndex(3, 1) != 1 {
		t.Error("loose mask should grow by one pixel")
	}
	if loose.PixelIndex(1, 1) != 0 || loose.PixelIndex(0, 3) != 0 {
		t.Error("loose mask should not grow diagonally or by two pixels")
	}
}

func TestCreateHeuristicMask_CornerVote(t *testing.T) {
	img := New(4, 4, FormatRGB32)
	img.Fill(0xff0000ff)
	img.SetPixel(0, 0, 0xffff0000)
	mask := img.CreateHeuristicMask(true)
	if mask.PixelIndex(0, 0) != 1 {
		t.Error("lone top-left corner should be foreground")
	}
	if mask.PixelIndex(3, 0) != 0 || mask.PixelIndex(2, 2) != 0 {
		t.Error("majority color should be background")
	}
}

// =============================================================================
// SetAlphaChannel
// =============================================================================

func TestSetAlphaChannel(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		mask   func() *Image
		want   uint32
	}{
		{"gray mask", FormatARGB32, func() *Image {
			m := New(4, 4, FormatGrayscale8)
			m.Fill(0x80)
			return m
		}, 0x80808080},
		{"alpha mask on RGB32", FormatRGB32, func() *Image {
			m := New(4, 4, FormatAlpha8)
			m.Fill(0x80)
			return m
		}, 0x80808080},
		{"opaque mask", FormatARGB32, func() *Image {
			m := New(4, 4, FormatGrayscale8)
			m.Fill(0xff)
			return m
		}, 0xffffffff},
		{"scaled mask", FormatARGB32, func() *Image {
			m := New(2, 2, FormatGrayscale8)
			m.Fill(0)
			return m
		}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := New(4, 4, tt.format)
			img.Fill(0xffffffff)
			img.SetAlphaChannel(tt.mask())
			if img.Format() != FormatARGB32Premultiplied {
				t.Fatalf("Format() = %v", img.Format())
			}
			for _, p := range pixels(img) {
				if p != tt.want {
					t.Fatalf("pixel = %#x, want %#x", p, tt.want)
				}
			}
		})
	}
}

func TestSetAlphaChannel_HighPrecision(t *testing.T) {
	img := New(2, 2, FormatRGBA64)
	img.Fill(0xffffffff)
	mask := New(2, 2, FormatGrayscale8)
	mask.Fill(0)
	img.SetAlphaChannel(mask)
	if img.Format() != FormatRGBA64Premultiplied {
		t.Fatalf("Format() = %v", img.Format())
	}
	if img.HasAlphaPixels() != true || img.Pixel(0, 0) != 0 {
		t.Errorf("Pixel(0, 0) = %#x, want transparent", img.Pixel(0, 0))
	}
}

func TestSetAlphaChannel_DoesNotTouchShared(t *testing.T) {
	img := New(2, 2, FormatARGB32Premultiplied)
	img.Fill(0xffffffff)
	other := img.Share()
	mask := New(2, 2, FormatGrayscale8)
	img.SetAlphaChannel(mask)
	if other.Pixel(0, 0) != 0xffffffff {
		t.Errorf("shared handle changed to %#x", other.Pixel(0, 0))
	}
	if img.Pixel(0, 0) != 0 {
		t.Errorf("Pixel(0, 0) = %#x, want 0", img.Pixel(0, 0))
	}
}
