package pixbuf

import (
	"log/slog"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Transformed returns the image transformed by m, translated so that the
// result's bounding box starts at the origin (see TrueMatrix). Areas not
// covered by the source are transparent, or the reserved transparent
// palette entry for indexed results.
func (img *Image) Transformed(m Transform, mode TransformationMode) *Image {
	if img.IsNull() {
		return &Image{}
	}
	d := img.d
	ws, hs := d.width, d.height
	mat := TrueMatrix(m, ws, hs)

	var wd, hd int
	complexXform, scaleXform, nonPaintable := false, false, false
	if t := mat.Type(); t <= TxScale {
		if t == TxNone {
			return img.Share()
		}
		if mat.A == -1 && mat.E == -1 {
			return img.Rotated180()
		}
		hd = int(math.Round(math.Abs(mat.E) * float64(hs)))
		wd = int(math.Round(math.Abs(mat.A) * float64(ws)))
		scaleXform = true
		if hd*DownscaleThreshold < hs || wd*DownscaleThreshold < ws || d.format == FormatCMYK8888 {
			nonPaintable = true
		}
	} else {
		if t <= TxRotate && mat.A == 0 && mat.E == 0 {
			switch {
			case mat.D == 1 && mat.B == -1:
				return img.Rotated90()
			case mat.D == -1 && mat.B == 1:
				return img.Rotated270()
			}
		}
		x0, y0, x1, y1 := mat.MapRect(float64(ws), float64(hs))
		wd = int(math.Ceil(x1) - math.Floor(x0))
		hd = int(math.Ceil(y1) - math.Floor(y0))
		complexXform = true
	}
	if wd <= 0 || hd <= 0 {
		return &Image{}
	}

	if scaleXform && mode == SmoothTransformation {
		if res, ok := img.smoothScaleXform(mat, wd, hd, nonPaintable); ok {
			return res
		}
	}

	target := d.format
	if complexXform || mode == SmoothTransformation {
		if d.format < FormatRGB32 || (!img.HasAlphaChannel() && complexXform) {
			target = d.format.AlphaVersion()
		}
	}
	out, err := newImageData(wd, hd, target)
	if err != nil {
		oom("Transformed", wd, hd, target)
		return &Image{}
	}
	res := wrap(out)

	if target.IsIndexed() {
		ct := append([]uint32(nil), d.colorTable...)
		if target == FormatIndexed8 && len(ct) < 256 {
			ct = append(ct, 0)
			bg := byte(len(ct) - 1)
			for i := range out.data {
				out.data[i] = bg
			}
		}
		out.colorTable = ct
		out.hasAlphaClut = d.hasAlphaClut || complexXform
	}

	if target >= FormatRGB32 && target != FormatCMYK8888 {
		paint(res, img, mat, mode == SmoothTransformation)
	} else {
		inv, ok := mat.Invert()
		if !ok {
			warn("Transformed", "matrix is not invertible")
			return &Image{}
		}
		xform(out, d, inv)
	}
	copyMetadata(out, d)
	return res
}

// smoothScaleXform handles scale-only transforms that the resampler serves
// better than painting.
func (img *Image) smoothScaleXform(mat Transform, wd, hd int, nonPaintable bool) (*Image, bool) {
	d := img.d
	switch d.format {
	case FormatRGB32, FormatARGB32Premultiplied, FormatRGBX8888, FormatRGBA8888Premultiplied,
		FormatRGBX64, FormatRGBA64Premultiplied, FormatCMYK8888:
		if mat.A > 0 && mat.E > 0 {
			return img.SmoothScaled(wd, hd), true
		}
	}
	if !nonPaintable && d.width*d.height < LargeImagePixels {
		return nil, false
	}
	scaled := img.SmoothScaled(wd, hd)
	if scaled.IsNull() {
		return scaled, true
	}
	if mat.A < 0 || mat.E < 0 {
		scaled.Mirror(mat.A < 0, mat.E < 0)
	}
	if d.format.IsIndexed() {
		return scaled, true
	}
	defer scaled.Release()
	return scaled.ConvertToFormat(d.format, 0), true
}

// paint renders src into dst through mat. Affine matrices use x/image/draw;
// perspective ones use an inverse-mapping sampler.
func paint(dst, src *Image, mat Transform, smooth bool) {
	if mat.IsAffine() {
		s2d := f64.Aff3{mat.A, mat.B, mat.C, mat.D, mat.E, mat.F}
		var k draw.Transformer = draw.NearestNeighbor
		if smooth {
			k = draw.BiLinear
		}
		k.Transform(dst.View(), s2d, src.View(), src.Rect(), draw.Src, nil)
		return
	}
	inv, ok := mat.Invert()
	if !ok {
		warn("Transformed", "matrix is not invertible")
		return
	}
	debug("perspective paint", slog.String("format", dst.d.format.String()), slog.Bool("smooth", smooth))
	sampleInverse(dst.d, src.d, inv, smooth)
}

// sampleInverse fills every dst pixel whose center maps inside src, by
// nearest neighbor or bilinear interpolation of premultiplied values.
func sampleInverse(dst, src *imageData, inv Transform, smooth bool) {
	sl, dl := &layouts[src.format], &layouts[dst.format]
	ws, hs := float64(src.width), float64(src.height)
	fetch := func(x, y int) rgba64 {
		c := sl.fetch64(src.scanLine(y), x, src.colorTable)
		if !src.format.IsPremultiplied() {
			c = c.premultiplied()
		}
		return c
	}
	for y := range dst.height {
		drow := dst.scanLine(y)
		for x := range dst.width {
			u, v := inv.Map(float64(x)+0.5, float64(y)+0.5)
			if !(u >= 0 && u < ws && v >= 0 && v < hs) {
				continue
			}
			var c rgba64
			if smooth {
				c = bilinear(fetch, u-0.5, v-0.5, src.width, src.height)
			} else {
				c = fetch(int(u), int(v))
			}
			if !dst.format.IsPremultiplied() {
				c = c.unpremultiplied()
			}
			dl.store64(drow, x, c)
		}
	}
}

func bilinear(fetch func(x, y int) rgba64, u, v float64, w, h int) rgba64 {
	x0, y0 := int(math.Floor(u)), int(math.Floor(v))
	fx, fy := u-float64(x0), v-float64(y0)
	clampX := func(x int) int { return min(max(x, 0), w-1) }
	clampY := func(y int) int { return min(max(y, 0), h-1) }
	c00 := fetch(clampX(x0), clampY(y0))
	c10 := fetch(clampX(x0+1), clampY(y0))
	c01 := fetch(clampX(x0), clampY(y0+1))
	c11 := fetch(clampX(x0+1), clampY(y0+1))
	mix := func(a, b, c, d uint16) uint16 {
		top := float64(a)*(1-fx) + float64(b)*fx
		bot := float64(c)*(1-fx) + float64(d)*fx
		return uint16(math.Round(top*(1-fy) + bot*fy))
	}
	return rgba64{
		R: mix(c00.R, c10.R, c01.R, c11.R),
		G: mix(c00.G, c10.G, c01.G, c11.G),
		B: mix(c00.B, c10.B, c01.B, c11.B),
		A: mix(c00.A, c10.A, c01.A, c11.A),
	}
}

// xform copies pixels nearest to the inverse-mapped centers, for formats
// that are not painted: 1-bit, Indexed8 and CMYK8888. Affine matrices step
// 12-bit fixed-point source coordinates along each row.
func xform(dst, src *imageData, inv Transform) {
	bpp := src.depth / 8
	lsb := src.format == FormatMonoLSB
	copyPixel := func(drow []byte, x int, sx, sy int) {
		srow := src.scanLine(sy)
		if src.depth == 1 {
			if monoBit(srow, sx, lsb) != 0 {
				setMonoBit(drow, x, lsb)
			} else {
				clearMonoBit(drow, x, lsb)
			}
			return
		}
		copy(drow[x*bpp:(x+1)*bpp], srow[sx*bpp:])
	}

	if !inv.IsAffine() {
		ws, hs := float64(src.width), float64(src.height)
		for y := range dst.height {
			drow := dst.scanLine(y)
			for x := range dst.width {
				u, v := inv.Map(float64(x)+0.5, float64(y)+0.5)
				if u >= 0 && u < ws && v >= 0 && v < hs {
					copyPixel(drow, x, int(u), int(v))
				}
			}
		}
		return
	}

	m11, m12 := int(inv.A*4096), int(inv.D*4096)
	m21, m22 := int(inv.B*4096), int(inv.E*4096)
	dx, dy := int(math.Round(inv.C*4096)), int(math.Round(inv.F*4096))
	rowX := dx + (m11+m21)/2
	rowY := dy + (m12+m22)/2
	maxX, maxY := src.width<<12, src.height<<12
	for y := range dst.height {
		tx, ty := rowX, rowY
		drow := dst.scanLine(y)
		for x := range dst.width {
			if tx >= 0 && tx < maxX && ty >= 0 && ty < maxY {
				copyPixel(drow, x, tx>>12, ty>>12)
			}
			tx += m11
			ty += m12
		}
		rowX += m21
		rowY += m22
	}
}

func clearMonoBit(row []byte, x int, lsb bool) {
	if lsb {
		row[x>>3] &^= 1 << (x & 7)
	} else {
		row[x>>3] &^= 0x80 >> (x & 7)
	}
}
