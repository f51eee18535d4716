package pixbuf

import (
	"image"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestColorTable(t *testing.T) {
	img := New(2, 2, FormatIndexed8)
	img.SetColor(3, 0xffff0000)
	if got := img.ColorCount(); got != 4 {
		t.Fatalf("ColorCount() = %d, want 4", got)
	}
	if got := img.Color(3); got != 0xffff0000 {
		t.Errorf("Color(3) = %#08x", got)
	}
	if got := img.Color(0); got != 0 {
		t.Errorf("Color(0) = %#08x, new entries should be transparent black", got)
	}
	if got := img.Color(9); got != 0 {
		t.Errorf("Color(9) = %#08x, want 0", got)
	}
	if !img.HasAlphaChannel() {
		t.Error("a transparent entry should give the image alpha")
	}

	img.SetColorTable([]uint32{0xff000000, 0xffffffff})
	if img.HasAlphaChannel() {
		t.Error("an opaque table should drop alpha")
	}
	img.SetColorCount(0)
	if img.ColorCount() != 0 {
		t.Errorf("SetColorCount(0) left %d entries", img.ColorCount())
	}
}

func TestSetColor_DepthLimit(t *testing.T) {
	img := New(8, 1, FormatMono)
	if got := img.ColorTable(); !slices.Equal(got, []uint32{0xff000000, 0xffffffff}) {
		t.Fatalf("default Mono table = %#08x", got)
	}
	img.SetColor(2, 0xff00ff00)
	if got := img.ColorCount(); got != 2 {
		t.Errorf("ColorCount() = %d, index 2 does not fit 1 bit", got)
	}
	rgb := New(1, 1, FormatRGB32)
	rgb.SetColor(0, 0xffffffff)
	if rgb.ColorCount() != 0 {
		t.Error("SetColor on a 32-bit image should be ignored")
	}
}

func TestColorTable_IsCopied(t *testing.T) {
	img := New(1, 1, FormatIndexed8)
	ct := []uint32{0xff000000}
	img.SetColorTable(ct)
	ct[0] = 0xffffffff
	if got := img.Color(0); got != 0xff000000 {
		t.Errorf("SetColorTable aliased its argument: Color(0) = %#08x", got)
	}
	out := img.ColorTable()
	out[0] = 0xffffffff
	if got := img.Color(0); got != 0xff000000 {
		t.Errorf("ColorTable returned the live table: Color(0) = %#08x", got)
	}
}

func TestResolution(t *testing.T) {
	img := New(100, 50, FormatRGB32)
	if img.DotsPerMeterX() != defaultDotsPerMeter {
		t.Errorf("default DotsPerMeterX() = %v", img.DotsPerMeterX())
	}
	img.SetDotsPerMeterX(3937)
	img.SetDotsPerMeterY(3937)
	img.SetDotsPerMeterX(0)
	if img.DotsPerMeterX() != 3937 {
		t.Errorf("zero should be ignored, DotsPerMeterX() = %v", img.DotsPerMeterX())
	}

	tests := []struct {
		m    Metric
		want float64
	}{
		{MetricWidth, 100},
		{MetricHeight, 50},
		{MetricWidthMM, 25},
		{MetricHeightMM, 13},
		{MetricDpiX, 100},
		{MetricPhysicalDpiY, 100},
		{MetricDepth, 32},
		{MetricNumColors, 0},
		{MetricDevicePixelRatio, 1},
		{MetricDevicePixelRatioScaled, 65536},
	}
	for _, tt := range tests {
		if got := img.Metric(tt.m); got != tt.want {
			t.Errorf("Metric(%d) = %v, want %v", tt.m, got, tt.want)
		}
	}
	var null *Image
	if got := null.Metric(MetricWidth); got != 0 {
		t.Errorf("null Metric = %v", got)
	}
}

func TestDevicePixelRatio(t *testing.T) {
	img := New(200, 100, FormatARGB32)
	img.SetDevicePixelRatio(2)
	w, h := img.DeviceIndependentSize()
	if w != 100 || h != 50 {
		t.Errorf("DeviceIndependentSize() = %vx%v, want 100x50", w, h)
	}
	if got := img.Metric(MetricDevicePixelRatio); got != 2 {
		t.Errorf("Metric(DevicePixelRatio) = %v", got)
	}
}

func TestOffset(t *testing.T) {
	img := New(1, 1, FormatRGB32)
	img.SetOffset(image.Pt(3, -4))
	if got := img.Offset(); got != image.Pt(3, -4) {
		t.Errorf("Offset() = %v", got)
	}
}

func TestMetadata_DetachesShared(t *testing.T) {
	a := New(2, 2, FormatRGB32)
	a.SetText("Title", "original")
	b := a.Share()
	b.SetText("Title", "changed")
	b.SetDotsPerMeterX(1000)
	b.SetOffset(image.Pt(1, 1))

	if got := a.Text("Title"); got != "original" {
		t.Errorf("shared Text = %q", got)
	}
	if a.DotsPerMeterX() == 1000 || a.Offset() != (image.Point{}) {
		t.Error("metadata change leaked into the shared handle")
	}
}

// =============================================================================
// Text
// =============================================================================

func TestText(t *testing.T) {
	img := New(1, 1, FormatRGB32)
	img.SetText("Title", "a  b\n\tc")
	img.SetText("Author", "x")

	if got := img.Text("Title"); got != "a  b\n\tc" {
		t.Errorf("Text(Title) = %q", got)
	}
	if got := img.TextKeys(); !slices.Equal(got, []string{"Author", "Title"}) {
		t.Errorf("TextKeys() = %q", got)
	}
	want := "Author: x\n\nTitle: a b c"
	if got := img.Text(""); got != want {
		t.Errorf("Text(\"\") = %q, want %q", got, want)
	}
	if diff := cmp.Diff(map[string]string{"Author": "x", "Title": "a b c"}, ParseTextDescription(want)); diff != "" {
		t.Errorf("ParseTextDescription mismatch (-want +got):\n%s", diff)
	}
}

func TestText_NormalizesKeys(t *testing.T) {
	img := New(1, 1, FormatRGB32)
	img.SetText("Cafe\u0301", "decomposed")
	if got := img.Text("Caf\u00e9"); got != "decomposed" {
		t.Errorf("Text(precomposed) = %q", got)
	}
	if got := img.TextKeys(); !slices.Equal(got, []string{"Caf\u00e9"}) {
		t.Errorf("TextKeys() = %q", got)
	}
}

func TestParseTextDescription_SkipsJunk(t *testing.T) {
	got := ParseTextDescription("no colon here\n\n: empty key\n\nKey:  value  ")
	if diff := cmp.Diff(map[string]string{"Key": "value"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
