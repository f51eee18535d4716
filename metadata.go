package pixbuf

import (
	"image"
	"log/slog"
	"math"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/pixbuf/colorspace"
)

// ColorTable returns a copy of the color table.
func (img *Image) ColorTable() []uint32 {
	if img.IsNull() {
		return nil
	}
	return slices.Clone(img.d.colorTable)
}

// SetColorTable replaces the color table. It is used by indexed formats
// only, but any image may carry one.
func (img *Image) SetColorTable(ct []uint32) {
	if img.IsNull() {
		return
	}
	img.detachMetadata(true)
	if img.IsNull() {
		return
	}
	img.d.setColorTable(slices.Clone(ct))
}

// ColorCount returns the size of the color table.
func (img *Image) ColorCount() int {
	if img.IsNull() {
		return 0
	}
	return len(img.d.colorTable)
}

// Color returns color table entry i, or 0 when i is out of range.
func (img *Image) Color(i int) uint32 {
	if img.IsNull() {
		return 0
	}
	if i < 0 || i >= len(img.d.colorTable) {
		warn("Color", "index out of range", slog.Int("index", i), slog.Int("colors", len(img.d.colorTable)))
		return 0
	}
	return img.d.colorTable[i]
}

// SetColor sets color table entry i, growing the table when needed. The
// index must be addressable by the image depth.
func (img *Image) SetColor(i int, c uint32) {
	if img.IsNull() {
		return
	}
	if i < 0 || img.d.depth > 8 || i >= 1<<img.d.depth {
		warn("SetColor", "index out of range", slog.Int("index", i), slog.Int("depth", img.d.depth))
		return
	}
	img.detachMetadata(true)
	if img.IsNull() {
		return
	}
	if i >= len(img.d.colorTable) {
		img.setColorCount(i + 1)
	}
	img.d.colorTable[i] = c
	img.d.setColorTable(img.d.colorTable)
}

// SetColorCount resizes the color table to n entries. New entries are 0
// (transparent black); n of 0 removes the table.
func (img *Image) SetColorCount(n int) {
	if n < 0 || n > 256 {
		warn("SetColorCount", "invalid color count", slog.Int("colors", n))
		return
	}
	if img.IsNull() {
		warn("SetColorCount", "null image")
		return
	}
	img.detachMetadata(true)
	if img.IsNull() {
		return
	}
	img.setColorCount(n)
}

func (img *Image) setColorCount(n int) {
	d := img.d
	switch {
	case n == len(d.colorTable):
	case n <= 0:
		d.colorTable = nil
		d.hasAlphaClut = false
	case n < len(d.colorTable):
		d.setColorTable(d.colorTable[:n:n])
	default:
		grown := make([]uint32, n)
		copy(grown, d.colorTable)
		d.setColorTable(grown)
	}
}

// DotsPerMeterX returns the horizontal resolution.
func (img *Image) DotsPerMeterX() float64 {
	if img.IsNull() {
		return 0
	}
	return img.d.dpmX
}

// DotsPerMeterY returns the vertical resolution.
func (img *Image) DotsPerMeterY() float64 {
	if img.IsNull() {
		return 0
	}
	return img.d.dpmY
}

// SetDotsPerMeterX sets the horizontal resolution. Zero is ignored.
func (img *Image) SetDotsPerMeterX(v float64) {
	if img.IsNull() || v == 0 || img.d.dpmX == v {
		return
	}
	img.detachMetadata(false)
	if !img.IsNull() {
		img.d.dpmX = v
	}
}

// SetDotsPerMeterY sets the vertical resolution. Zero is ignored.
func (img *Image) SetDotsPerMeterY(v float64) {
	if img.IsNull() || v == 0 || img.d.dpmY == v {
		return
	}
	img.detachMetadata(false)
	if !img.IsNull() {
		img.d.dpmY = v
	}
}

// Offset returns the position hint used when the image is placed
// relative to others.
func (img *Image) Offset() image.Point {
	if img.IsNull() {
		return image.Point{}
	}
	return img.d.offset
}

// SetOffset sets the position hint.
func (img *Image) SetOffset(p image.Point) {
	if img.IsNull() || img.d.offset == p {
		return
	}
	img.detachMetadata(false)
	if !img.IsNull() {
		img.d.offset = p
	}
}

// DevicePixelRatio returns the ratio between image pixels and
// device-independent pixels.
func (img *Image) DevicePixelRatio() float64 {
	if img.IsNull() {
		return 1
	}
	return img.d.devicePixelRatio
}

// SetDevicePixelRatio sets the device pixel ratio.
func (img *Image) SetDevicePixelRatio(r float64) {
	if img.IsNull() || img.d.devicePixelRatio == r {
		return
	}
	img.detachMetadata(false)
	if !img.IsNull() {
		img.d.devicePixelRatio = r
	}
}

// DeviceIndependentSize returns the size divided by the device pixel ratio.
func (img *Image) DeviceIndependentSize() (w, h float64) {
	if img.IsNull() {
		return 0, 0
	}
	r := img.d.devicePixelRatio
	return float64(img.d.width) / r, float64(img.d.height) / r
}

// ColorSpace returns the color space of the pixels. The zero value means
// none was set.
func (img *Image) ColorSpace() colorspace.ColorSpace {
	if img.IsNull() {
		return colorspace.ColorSpace{}
	}
	return img.d.colorSpace
}

// Text returns the text stored under key. The empty key returns every
// entry as "key: value" paragraphs separated by blank lines, with runs of
// white space in the values collapsed.
func (img *Image) Text(key string) string {
	if img.IsNull() {
		return ""
	}
	if key != "" {
		return img.d.text[norm.NFC.String(key)]
	}
	var b strings.Builder
	for _, k := range img.TextKeys() {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(strings.Join(strings.Fields(img.d.text[k]), " "))
	}
	return b.String()
}

// TextKeys returns the text keys in sorted order.
func (img *Image) TextKeys() []string {
	if img.IsNull() || len(img.d.text) == 0 {
		return nil
	}
	keys := make([]string, 0, len(img.d.text))
	for k := range img.d.text {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// SetText stores value under key. Keys are normalized to NFC.
func (img *Image) SetText(key, value string) {
	if img.IsNull() {
		return
	}
	img.detachMetadata(false)
	if img.IsNull() {
		return
	}
	if img.d.text == nil {
		img.d.text = make(map[string]string)
	}
	img.d.text[norm.NFC.String(key)] = value
}

// ParseTextDescription splits a description of "key: value" paragraphs
// separated by blank lines, as produced by Text(""), into a map.
func ParseTextDescription(desc string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(desc, "\n\n") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out[norm.NFC.String(k)] = strings.TrimSpace(v)
	}
	return out
}

// Metric selects a paint device measurement.
type Metric uint8

const (
	MetricWidth Metric = iota + 1
	MetricHeight
	MetricWidthMM
	MetricHeightMM
	MetricNumColors
	MetricDepth
	MetricDpiX
	MetricDpiY
	MetricPhysicalDpiX
	MetricPhysicalDpiY
	MetricDevicePixelRatio
	MetricDevicePixelRatioScaled
)

// devicePixelRatioScale is the fixed-point scale of MetricDevicePixelRatioScaled.
const devicePixelRatioScale = 65536

// Metric returns the measurement m for painting on the image. A null image
// measures 0.
func (img *Image) Metric(m Metric) float64 {
	if img.IsNull() {
		return 0
	}
	d := img.d
	switch m {
	case MetricWidth:
		return float64(d.width)
	case MetricHeight:
		return float64(d.height)
	case MetricWidthMM:
		return math.Round(float64(d.width) * 1000 / d.dpmX)
	case MetricHeightMM:
		return math.Round(float64(d.height) * 1000 / d.dpmY)
	case MetricNumColors:
		return float64(len(d.colorTable))
	case MetricDepth:
		return float64(d.depth)
	case MetricDpiX, MetricPhysicalDpiX:
		return math.Round(d.dpmX * 0.0254)
	case MetricDpiY, MetricPhysicalDpiY:
		return math.Round(d.dpmY * 0.0254)
	case MetricDevicePixelRatio:
		return d.devicePixelRatio
	case MetricDevicePixelRatioScaled:
		return d.devicePixelRatio * devicePixelRatioScale
	}
	warn("Metric", "unknown metric", slog.Int("metric", int(m)))
	return 0
}
