package pixbuf

import (
	"image"
	"log/slog"

	"golang.org/x/image/draw"
)

// DownscaleThreshold is the shrink factor beyond which scale-only
// transforms always go through the smooth resampler.
var DownscaleThreshold = 2

// LargeImagePixels is the source size, in pixels, from which smooth
// scale-only transforms use the resampler instead of painting.
var LargeImagePixels = 1 << 20

// Scaled returns the image scaled to fit w×h as aspect asks. A result
// equal in size to the image shares it.
func (img *Image) Scaled(w, h int, aspect AspectRatioMode, mode TransformationMode) *Image {
	if img.IsNull() {
		warn("Scaled", "image is a null image")
		return &Image{}
	}
	if w <= 0 || h <= 0 {
		return &Image{}
	}
	nw, nh := scaleSize(img.d.width, img.d.height, w, h, aspect)
	nw, nh = max(nw, 1), max(nh, 1)
	if nw == img.d.width && nh == img.d.height {
		return img.Share()
	}
	m := Scale(float64(nw)/float64(img.d.width), float64(nh)/float64(img.d.height))
	return img.Transformed(m, mode)
}

// scaleSize fits (w, h) into (tw, th).
func scaleSize(w, h, tw, th int, aspect AspectRatioMode) (int, int) {
	if aspect == IgnoreAspectRatio || w == 0 || h == 0 {
		return tw, th
	}
	rw := int(int64(th) * int64(w) / int64(h))
	useHeight := rw >= tw
	if aspect == KeepAspectRatio {
		useHeight = rw <= tw
	}
	if useHeight {
		return rw, th
	}
	return tw, int(int64(tw) * int64(h) / int64(w))
}

// ScaledToWidth scales the image to width w, keeping the aspect ratio.
func (img *Image) ScaledToWidth(w int, mode TransformationMode) *Image {
	if img.IsNull() {
		warn("ScaledToWidth", "image is a null image")
		return &Image{}
	}
	if w <= 0 {
		return &Image{}
	}
	f := float64(w) / float64(img.d.width)
	return img.Transformed(Scale(f, f), mode)
}

// ScaledToHeight scales the image to height h, keeping the aspect ratio.
func (img *Image) ScaledToHeight(h int, mode TransformationMode) *Image {
	if img.IsNull() {
		warn("ScaledToHeight", "image is a null image")
		return &Image{}
	}
	if h <= 0 {
		return &Image{}
	}
	f := float64(h) / float64(img.d.height)
	return img.Transformed(Scale(f, f), mode)
}

// smoothFormat returns the format the resampler works in for f.
func smoothFormat(f Format, hasAlpha bool) Format {
	switch f {
	case FormatRGB32, FormatARGB32Premultiplied, FormatRGBX8888, FormatRGBA8888Premultiplied,
		FormatRGBX64, FormatRGBA64Premultiplied, FormatRGBX32FPx4, FormatRGBA32FPx4Premultiplied,
		FormatCMYK8888:
		return f
	case FormatRGBA64, FormatGrayscale16:
		return FormatRGBA64Premultiplied
	case FormatRGBX16FPx4:
		return FormatRGBX32FPx4
	case FormatRGBA16FPx4, FormatRGBA16FPx4Premultiplied, FormatRGBA32FPx4:
		return FormatRGBA32FPx4Premultiplied
	}
	if hasAlpha {
		return FormatARGB32Premultiplied
	}
	return FormatRGB32
}

// SmoothScaled resamples the image to w×h with a filtering kernel. The
// result is in one of the resampler's working formats; callers convert
// back when they need the original.
func (img *Image) SmoothScaled(w, h int) *Image {
	if img.IsNull() {
		return &Image{}
	}
	if w <= 0 || h <= 0 {
		warn("SmoothScaled", "invalid target size", slog.Int("width", w), slog.Int("height", h))
		return &Image{}
	}
	src := img.ConvertToFormat(smoothFormat(img.d.format, img.HasAlphaChannel()), 0)
	if src.IsNull() {
		return src
	}
	defer src.Release()

	s := src.d
	out, err := newImageData(w, h, s.format)
	if err != nil {
		oom("SmoothScaled", w, h, s.format)
		return &Image{}
	}
	res := wrap(out)

	kernel := draw.Interpolator(draw.BiLinear)
	if w < s.width || h < s.height {
		kernel = draw.CatmullRom
	}
	dr := image.Rect(0, 0, w, h)
	if dst, ok := out.rgbaImage(); ok {
		srcImg, _ := s.rgbaImage()
		kernel.Scale(dst, dr, srcImg, srcImg.Rect, draw.Src, nil)
	} else {
		kernel.Scale(res.View(), dr, src.View(), src.Rect(), draw.Src, nil)
	}
	copyMetadata(out, img.d)
	debug("smooth scale", slog.String("format", s.format.String()),
		slog.Int("from_w", s.width), slog.Int("from_h", s.height), slog.Int("to_w", w), slog.Int("to_h", h))
	return res
}

// rgbaImage wraps buffers laid out as premultiplied R, G, B, A bytes as an
// *image.RGBA so that draw can use its fast paths.
func (d *imageData) rgbaImage() (*image.RGBA, bool) {
	if d.format != FormatRGBA8888Premultiplied && d.format != FormatRGBX8888 {
		return nil, false
	}
	return &image.RGBA{Pix: d.data, Stride: d.bytesPerLine, Rect: image.Rect(0, 0, d.width, d.height)}, true
}
