package pixbuf

import (
	"slices"
	"testing"
)

// swappableFormats lists every format with separate red and blue channels.
func swappableFormats() []Format {
	var out []Format
	for _, f := range Formats() {
		switch f {
		case FormatAlpha8, FormatGrayscale8, FormatGrayscale16, FormatCMYK8888:
			continue
		}
		out = append(out, f)
	}
	return out
}

func TestRgbSwapped(t *testing.T) {
	base := newFilled(6, 3, FormatRGB32, primaries)
	for _, f := range swappableFormats() {
		t.Run(f.String(), func(t *testing.T) {
			src := base.ConvertToFormat(f, 0)
			want := pixels(src)
			for i, p := range want {
				want[i] = swapRB(p)
			}
			got := src.RgbSwapped()
			if got.Format() != f {
				t.Fatalf("Format() = %v, want %v", got.Format(), f)
			}
			if !slices.Equal(pixels(got), want) {
				t.Errorf("pixels = %#08x, want %#08x", pixels(got), want)
			}
			if back := got.RgbSwapped(); !back.Equal(src) {
				t.Error("swapping twice should be the identity")
			}
		})
	}
}

func TestRgbSwapped_KeepsSource(t *testing.T) {
	src := newFilled(2, 1, FormatARGB32, func(x, y int) uint32 { return 0x80102030 })
	_ = src.RgbSwapped()
	if got := src.Pixel(0, 0); got != 0x80102030 {
		t.Errorf("source pixel = %#08x after RgbSwapped", got)
	}
}

func TestRgbSwapped_SharesChannelless(t *testing.T) {
	for _, f := range []Format{FormatAlpha8, FormatGrayscale8, FormatGrayscale16, FormatCMYK8888} {
		t.Run(f.String(), func(t *testing.T) {
			src := New(3, 3, f)
			src.Fill(0x7f)
			got := src.RgbSwapped()
			if got.SerialNumber() != src.SerialNumber() {
				t.Error("RgbSwapped should share the buffer")
			}
		})
	}
}

func TestRgbSwap_InPlace(t *testing.T) {
	tests := []struct {
		f    Format
		in   uint32
		want uint32
	}{
		{FormatRGB32, 0xff112233, 0xff332211},
		{FormatARGB32, 0x80112233, 0x80332211},
		{FormatRGB888, 0xff112233, 0xff332211},
		{FormatRGBA64, 0x40112233, 0x40332211},
		{FormatRGB16, 0xffff0000, 0xff0000ff},
	}
	for _, tt := range tests {
		t.Run(tt.f.String(), func(t *testing.T) {
			img := newFilled(2, 2, tt.f, func(x, y int) uint32 { return tt.in })
			shared := img.Share()
			img.RgbSwap()
			if got := img.Pixel(1, 1); got != tt.want {
				t.Errorf("Pixel = %#08x, want %#08x", got, tt.want)
			}
			if got := shared.Pixel(1, 1); got != tt.in {
				t.Errorf("shared handle changed to %#08x", got)
			}
		})
	}
}

func TestRgbSwap_Indexed(t *testing.T) {
	img := New(2, 2, FormatIndexed8)
	img.SetColorTable([]uint32{0xffff0000, 0xff00ff00})
	img.Fill(0)
	img.RgbSwap()
	if got := img.ColorTable(); !slices.Equal(got, []uint32{0xff0000ff, 0xff00ff00}) {
		t.Errorf("ColorTable() = %#08x", got)
	}
	if got := img.PixelIndex(0, 0); got != 0 {
		t.Errorf("PixelIndex = %d, indices should be untouched", got)
	}
}
