package pixbuf

import "testing"

func countIndex(img *Image, i int) int {
	n := 0
	for _, v := range indices(img) {
		if v == i {
			n++
		}
	}
	return n
}

func TestBayerIsPermutation(t *testing.T) {
	seen := make(map[uint8]int)
	for x := range 16 {
		for y := range 16 {
			seen[bayer[x][y]]++
		}
	}
	// 0 is promoted to 1, so 1 appears twice.
	if len(seen) != 255 || seen[1] != 2 {
		t.Errorf("bayer holds %d distinct values, 1 appears %d times", len(seen), seen[1])
	}
}

func TestDitherToMono(t *testing.T) {
	gray := New(16, 16, FormatRGB32)
	gray.Fill(0xff808080)
	tests := []struct {
		name     string
		flags    ConversionFlags
		min, max int
	}{
		{"threshold", ThresholdDither, 0, 0},
		{"ordered", OrderedDither, 127, 127},
		{"diffuse", DiffuseDither, 100, 156},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mono := gray.ConvertToFormat(FormatMono, tt.flags)
			if got := mono.Color(1); got != 0xff000000 {
				t.Fatalf("Color(1) = %#x, want black", got)
			}
			black := countIndex(mono, 1)
			if black < tt.min || black > tt.max {
				t.Errorf("%d black pixels, want [%d, %d]", black, tt.min, tt.max)
			}
		})
	}
}

func TestDitherToMono_FromIndexed(t *testing.T) {
	img := New(4, 1, FormatIndexed8)
	img.SetColorTable([]uint32{0xff000000, 0xffffffff})
	img.SetPixel(0, 0, 0)
	img.SetPixel(1, 0, 1)
	img.SetPixel(2, 0, 0)
	img.SetPixel(3, 0, 1)
	mono := img.ConvertToFormat(FormatMonoLSB, ThresholdDither)
	want := []uint32{0xff000000, 0xffffffff, 0xff000000, 0xffffffff}
	for x, w := range want {
		if got := mono.Pixel(x, 0); got != w {
			t.Errorf("Pixel(%d) = %#x, want %#x", x, got, w)
		}
	}
}

func TestDitherToMono_AlphaMask(t *testing.T) {
	img := New(3, 1, FormatARGB32)
	img.SetPixel(0, 0, 0x00ffffff)
	img.SetPixel(1, 0, 0x7fffffff)
	img.SetPixel(2, 0, 0xffffffff)
	mask := img.CreateAlphaMask(0)
	if mask.Format() != FormatMonoLSB {
		t.Fatalf("Format() = %v", mask.Format())
	}
	want := []int{0, 0, 1}
	for x, w := range want {
		if got := mask.PixelIndex(x, 0); got != w {
			t.Errorf("PixelIndex(%d) = %d, want %d", x, got, w)
		}
	}
}

func BenchmarkDither_Diffuse(b *testing.B) {
	img := newFilled(256, 256, FormatRGB32, func(x, y int) uint32 { return RGB(uint8(x), uint8(y), 0x80) })
	b.ReportAllocs()
	for b.Loop() {
		img.ConvertToFormat(FormatMono, DiffuseDither).Release()
	}
}
