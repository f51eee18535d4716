package pixbuf

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/pixbuf/colorspace"
	"github.com/gogpu/pixbuf/internal/parallel"
)

// compatibleSource reports whether pixels of model m can be read as data
// of the color space model cs.
func compatibleSource(m ColorModel, cs colorspace.Model) bool {
	if compatibleModel(m, cs) {
		return true
	}
	// Gray data can go through an RGB transform as r = g = b.
	return m == ModelGrayscale && cs == colorspace.ModelRGB
}

// compatibleTarget reports whether pixels of model m can hold the output
// of a transform into cs.
func compatibleTarget(m ColorModel, cs colorspace.ColorSpace) bool {
	if compatibleModel(m, cs.Model()) {
		return true
	}
	return m == ModelGrayscale && cs.TransformModel() == colorspace.ThreeComponentMatrix
}

func compatibleModel(m ColorModel, cs colorspace.Model) bool {
	switch m {
	case ModelRGB, ModelBGR, ModelIndexed:
		return cs == colorspace.ModelRGB
	case ModelGrayscale:
		return cs == colorspace.ModelGray
	case ModelCMYK:
		return cs == colorspace.ModelCMYK
	case ModelAlpha:
		return true
	}
	return false
}

// SetColorSpace tags the image with cs without touching the pixels. A
// space whose model does not fit the format is ignored with a warning.
func (img *Image) SetColorSpace(cs colorspace.ColorSpace) {
	if img.IsNull() || img.d.colorSpace == cs {
		return
	}
	if cs.IsValid() && !compatibleSource(img.d.format.Model(), cs.Model()) {
		warn("SetColorSpace", "color space is not compatible with the image format",
			slog.String("format", img.d.format.String()), slog.String("colorspace", cs.String()))
		return
	}
	img.detachMetadata(false)
	if img.d != nil {
		img.d.colorSpace = cs
	}
}

// CanConvertToColorSpace reports why ConvertToColorSpace(cs) would fail,
// or nil if it would succeed.
func (img *Image) CanConvertToColorSpace(cs colorspace.ColorSpace) error {
	switch {
	case img.IsNull():
		return ErrNullImage
	case !img.d.colorSpace.IsValid():
		return fmt.Errorf("%w: image has no color space", ErrIncompatibleColorSpace)
	case !cs.IsValidTarget():
		return fmt.Errorf("%w: %s is not a valid target", ErrIncompatibleColorSpace, cs)
	}
	return nil
}

// ConvertToColorSpace converts the pixels in place from the image's color
// space to cs and tags the image with cs. When the format cannot hold data
// of cs the image is replaced by ConvertedToColorSpace(cs).
func (img *Image) ConvertToColorSpace(cs colorspace.ColorSpace) {
	if err := img.CanConvertToColorSpace(cs); err != nil {
		if !img.IsNull() {
			warn("ConvertToColorSpace", err.Error())
		}
		return
	}
	if img.d.colorSpace == cs {
		return
	}
	if !compatibleTarget(img.d.format.Model(), cs) {
		img.assign(img.ConvertedToColorSpace(cs))
		return
	}
	img.ApplyColorTransform(img.d.colorSpace.TransformationTo(cs))
	img.detachMetadata(false)
	if img.d != nil {
		img.d.colorSpace = cs
	}
}

// ConvertedToColorSpace returns a copy converted to cs. The format changes
// when the current one cannot hold data of cs.
func (img *Image) ConvertedToColorSpace(cs colorspace.ColorSpace) *Image {
	if err := img.CanConvertToColorSpace(cs); err != nil {
		if !img.IsNull() {
			warn("ConvertedToColorSpace", err.Error())
		}
		return &Image{}
	}
	if img.d.colorSpace == cs {
		return img.Share()
	}
	res := img.ColorTransformed(img.d.colorSpace.TransformationTo(cs), FormatInvalid, 0)
	res.SetColorSpace(cs)
	return res
}

// ConvertedToColorSpaceFormat converts to cs and then to format f.
func (img *Image) ConvertedToColorSpaceFormat(cs colorspace.ColorSpace, f Format, flags ConversionFlags) *Image {
	if err := img.CanConvertToColorSpace(cs); err != nil {
		if !img.IsNull() {
			warn("ConvertedToColorSpace", err.Error())
		}
		return &Image{}
	}
	if !compatibleTarget(f.Model(), cs) {
		warn("ConvertedToColorSpace", "format cannot hold the color space",
			slog.String("format", f.String()), slog.String("colorspace", cs.String()))
		return &Image{}
	}
	if img.d.colorSpace == cs {
		return img.ConvertToFormat(f, flags)
	}
	res := img.ColorTransformed(img.d.colorSpace.TransformationTo(cs), f, flags)
	res.SetColorSpace(cs)
	return res
}

// ColorTransformed returns a copy with t applied, in format f, or in the
// image's format when f is FormatInvalid. Transforms that change the color
// model pick a format of the new model unless flags has NoFormatConversion.
func (img *Image) ColorTransformed(t colorspace.Transform, f Format, flags ConversionFlags) *Image {
	if img.IsNull() {
		return &Image{}
	}
	explicit := f != FormatInvalid
	if !explicit {
		f = img.d.format
	}
	if t.IsIdentity() {
		return img.ConvertToFormat(f, flags)
	}
	in, out := t.Source(), t.Target()
	if !compatibleSource(img.d.format.Model(), in.Model()) {
		warn("ColorTransformed", "invalid input color space for transform",
			slog.String("format", img.d.format.String()), slog.String("colorspace", in.String()))
		return &Image{}
	}
	if !compatibleTarget(f.Model(), out) {
		if explicit || flags&NoFormatConversion != 0 {
			warn("ColorTransformed", "invalid output color space for transform",
				slog.String("format", f.String()), slog.String("colorspace", out.String()))
			return &Image{}
		}
		// All model switching transforms are opaque in at least one end.
		high := img.d.format.IsHighColorPrecision(true)
		switch out.Model() {
		case colorspace.ModelRGB:
			f = pick(high, FormatRGBX64, FormatRGB32)
		case colorspace.ModelGray:
			f = pick(high, FormatGrayscale16, FormatGrayscale8)
		case colorspace.ModelCMYK:
			f = FormatCMYK8888
		default:
			return &Image{}
		}
	}

	if compatibleTarget(img.d.format.Model(), out) {
		res := img.Copy(image.Rectangle{})
		res.ApplyColorTransform(t)
		if res.d == nil || res.d.format == f {
			return res
		}
		defer res.Release()
		return res.ConvertToFormat(f, flags)
	}
	return img.modelSwitch(t, f, flags)
}

func pick(cond bool, a, b Format) Format {
	if cond {
		return a
	}
	return b
}

// modelSwitch applies t between two formats of different color models,
// reading from a working copy of the image and writing a new buffer.
func (img *Image) modelSwitch(t colorspace.Transform, f Format, flags ConversionFlags) *Image {
	high := img.d.format.IsHighColorPrecision(true)
	var srcFmt Format
	switch img.d.format.Model() {
	case ModelGrayscale:
		srcFmt = pick(high, FormatGrayscale16, FormatGrayscale8)
	case ModelCMYK:
		srcFmt = FormatCMYK8888
	default:
		switch {
		case img.d.format.IsFloatingPoint():
			srcFmt = FormatRGBA32FPx4
		case img.d.format.Depth() > 32:
			srcFmt = FormatRGBA64
		case img.HasAlphaChannel():
			srcFmt = FormatARGB32
		default:
			srcFmt = FormatRGB32
		}
	}
	var dstFmt Format
	switch t.Target().Model() {
	case colorspace.ModelGray:
		dstFmt = pick(f.IsHighColorPrecision(true) || high, FormatGrayscale16, FormatGrayscale8)
	case colorspace.ModelCMYK:
		dstFmt = FormatCMYK8888
	default:
		dstFmt = pick(f.IsHighColorPrecision(true) || high, FormatRGBX64, FormatRGB32)
	}

	src := img.ConvertToFormat(srcFmt, flags)
	if src.IsNull() {
		return src
	}
	defer src.Release()
	s := src.d
	out, err := newImageData(s.width, s.height, dstFmt)
	if err != nil {
		oom("ColorTransformed", s.width, s.height, dstFmt)
		return &Image{}
	}
	copyMetadata(out, s)
	res := wrap(out)

	srcEnc, _ := encodingFor(srcFmt)
	dstEnc, _ := encodingFor(dstFmt)
	tf := transformFlags(srcFmt)
	parallel.Bands(s.width, s.height, ParallelPixelThreshold, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			t.Apply(out.scanLine(y), dstEnc, s.scanLine(y), srcEnc, s.width, tf)
		}
	})
	debug("color model switch", slog.String("from", srcFmt.String()), slog.String("to", dstFmt.String()))
	if dstFmt == f {
		return res
	}
	defer res.Release()
	return res.ConvertToFormat(f, flags)
}

// encodingFor returns the scanline encoding of a transform working format.
func encodingFor(f Format) (colorspace.Encoding, bool) {
	switch f {
	case FormatGrayscale8:
		return colorspace.EncodingGray8, true
	case FormatGrayscale16:
		return colorspace.EncodingGray16, true
	case FormatRGB32, FormatARGB32, FormatARGB32Premultiplied:
		return colorspace.EncodingARGB32, true
	case FormatRGBX64, FormatRGBA64, FormatRGBA64Premultiplied:
		return colorspace.EncodingRGBA64, true
	case FormatRGBX32FPx4, FormatRGBA32FPx4, FormatRGBA32FPx4Premultiplied:
		return colorspace.EncodingRGBA32F, true
	case FormatCMYK8888:
		return colorspace.EncodingCMYK32, true
	}
	return 0, false
}

func transformFlags(f Format) colorspace.Flags {
	switch f {
	case FormatARGB32Premultiplied, FormatRGBA64Premultiplied, FormatRGBA32FPx4Premultiplied:
		return colorspace.Premultiplied
	case FormatGrayscale8, FormatGrayscale16, FormatRGB32, FormatCMYK8888, FormatRGBX64, FormatRGBX32FPx4:
		return colorspace.InputOpaque
	}
	return colorspace.Unpremultiplied
}

// workingFormat is the format ApplyColorTransform runs in for f.
func workingFormat(f Format, hasAlpha bool) Format {
	switch {
	case f.IsFloatingPoint():
		switch f {
		case FormatRGBX32FPx4, FormatRGBA32FPx4, FormatRGBA32FPx4Premultiplied:
			return f
		case FormatRGBX16FPx4:
			return FormatRGBX32FPx4
		case FormatRGBA16FPx4Premultiplied:
			return FormatRGBA32FPx4Premultiplied
		}
		return FormatRGBA32FPx4
	case f.Depth() > 32:
		switch f {
		case FormatRGBX64, FormatRGBA64, FormatRGBA64Premultiplied:
			return f
		}
		return FormatRGBA64
	}
	switch f {
	case FormatARGB32, FormatRGB32, FormatARGB32Premultiplied, FormatCMYK8888,
		FormatGrayscale8, FormatGrayscale16:
		return f
	}
	if f.IsHighColorPrecision(!hasAlpha) && f != FormatRGBA8888 {
		return FormatRGBA64
	}
	if hasAlpha {
		return FormatARGB32
	}
	return FormatRGB32
}

// ApplyColorTransform applies t to the pixels in place. The format is kept;
// formats the transform cannot read directly go through a working format
// and back. Indexed images have their color table transformed instead.
func (img *Image) ApplyColorTransform(t colorspace.Transform) {
	if img.IsNull() || t.IsIdentity() || img.d.format.Model() == ModelAlpha {
		return
	}
	if !compatibleSource(img.d.format.Model(), t.Source().Model()) ||
		!compatibleTarget(img.d.format.Model(), t.Target()) {
		warn("ApplyColorTransform", "transform does not fit the image format",
			slog.String("format", img.d.format.String()))
		return
	}
	img.detach()
	if img.IsNull() {
		return
	}
	d := img.d
	if d.format.IsIndexed() {
		for i, c := range d.colorTable {
			d.colorTable[i] = t.Map(c)
		}
		d.setColorTable(d.colorTable)
		return
	}

	orig := d.format
	wf := workingFormat(orig, img.HasAlphaChannel())
	if wf != orig {
		img.ConvertTo(wf, 0)
		if img.IsNull() {
			return
		}
		d = img.d
	}
	enc, _ := encodingFor(wf)
	flags := transformFlags(wf)
	parallel.Bands(d.width, d.height, ParallelPixelThreshold, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := d.scanLine(y)
			t.Apply(row, enc, row, enc, d.width, flags)
		}
	})
	if wf != orig {
		img.ConvertTo(orig, 0)
	}
}
