package pixbuf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// LoadOptions control decoding.
type LoadOptions struct {
	// Format names the codec ("png", "jpeg", ...). Empty sniffs the data.
	Format string

	// AutoTransform applies the EXIF orientation of JPEG and TIFF data.
	AutoTransform bool
}

// SaveOptions control encoding.
type SaveOptions struct {
	// Format names the codec. SaveFile falls back to the file extension.
	Format string

	// Quality is 0..100 for lossy codecs, or -1 for the codec default.
	Quality int
}

type codec struct {
	decode func(io.Reader) (image.Image, error)
	encode func(io.Writer, image.Image, int) error
}

var codecs = map[string]codec{
	"png": {png.Decode, func(w io.Writer, m image.Image, _ int) error { return png.Encode(w, m) }},
	"jpeg": {jpeg.Decode, func(w io.Writer, m image.Image, q int) error {
		if q < 0 {
			q = jpeg.DefaultQuality
		}
		return jpeg.Encode(w, m, &jpeg.Options{Quality: max(q, 1)})
	}},
	"gif":  {gif.Decode, func(w io.Writer, m image.Image, _ int) error { return gif.Encode(w, m, nil) }},
	"bmp":  {bmp.Decode, func(w io.Writer, m image.Image, _ int) error { return bmp.Encode(w, m) }},
	"tiff": {tiff.Decode, func(w io.Writer, m image.Image, _ int) error { return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate}) }},
	"webp": {webp.Decode, func(w io.Writer, m image.Image, _ int) error { return nativewebp.Encode(w, m, nil) }},
}

var codecAliases = map[string]string{"jpg": "jpeg", "tif": "tiff"}

func lookupCodec(name string) (string, codec, error) {
	name = strings.ToLower(strings.TrimPrefix(name, "."))
	if a, ok := codecAliases[name]; ok {
		name = a
	}
	c, ok := codecs[name]
	if !ok {
		return "", codec{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	return name, c, nil
}

// Codecs returns the names Load and Save accept.
func Codecs() []string {
	return []string{"bmp", "gif", "jpeg", "png", "tiff", "webp"}
}

// Load decodes one image from r and imports it into the closest native
// format.
func Load(r io.Reader, opts LoadOptions) (*Image, error) {
	var (
		m   image.Image
		err error
	)
	switch {
	case opts.AutoTransform:
		m, err = imaging.Decode(r, imaging.AutoOrientation(true))
	case opts.Format != "":
		var c codec
		if _, c, err = lookupCodec(opts.Format); err != nil {
			return nil, err
		}
		m, err = c.decode(r)
	default:
		m, _, err = image.Decode(r)
	}
	if err != nil {
		return nil, fmt.Errorf("pixbuf: decode: %w", err)
	}
	img := FromImage(m)
	if img.IsNull() {
		return nil, fmt.Errorf("%w: decoded image is empty", ErrInvalidDimensions)
	}
	return img, nil
}

// LoadFromData decodes an image held in memory.
func LoadFromData(data []byte, opts LoadOptions) (*Image, error) {
	return Load(bytes.NewReader(data), opts)
}

// LoadFile decodes the file at path.
func LoadFile(path string, opts LoadOptions) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := Load(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// clampQuality maps values outside [-1, 100] into it.
func clampQuality(q int) int {
	if q < -1 || q > 100 {
		warn("Save", "quality out of range [-1, 100]", slog.Int("quality", q))
		if q > 100 {
			return 100
		}
		return -1
	}
	return q
}

// Save encodes the image to w with the codec named in opts.
func (img *Image) Save(w io.Writer, opts SaveOptions) error {
	if img.IsNull() {
		return ErrNullImage
	}
	_, c, err := lookupCodec(opts.Format)
	if err != nil {
		return err
	}
	if err := c.encode(w, img.ToImage(), clampQuality(opts.Quality)); err != nil {
		return fmt.Errorf("pixbuf: encode %s: %w", opts.Format, err)
	}
	return nil
}

// SaveFile writes the image to path. An empty opts.Format is taken from
// the file extension.
func (img *Image) SaveFile(path string, opts SaveOptions) error {
	if img.IsNull() {
		return ErrNullImage
	}
	if opts.Format == "" {
		opts.Format = filepath.Ext(path)
	}
	if _, _, err := lookupCodec(opts.Format); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := img.Save(f, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FromImage copies m into a new Image. Standard image types map to the
// native format with the same layout: Gray to Grayscale8, Gray16 to
// Grayscale16, NRGBA to RGBA8888, RGBA to RGBA8888Premultiplied, NRGBA64
// to RGBA64, RGBA64 to RGBA64Premultiplied, CMYK to CMYK8888, Alpha to
// Alpha8 and Paletted to Indexed8. Everything else becomes RGB32, or
// ARGB32 when it is not known to be opaque.
func FromImage(m image.Image) *Image {
	if m == nil {
		return &Image{}
	}
	if v, ok := m.(*View); ok {
		return v.img.Copy(image.Rectangle{})
	}
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()

	rows := func(f Format, pix []byte, stride, bpp int, conv func(dst, src []byte)) *Image {
		img := New(w, h, f)
		if img.IsNull() {
			return img
		}
		for y := range h {
			src := pix[y*stride : y*stride+w*bpp]
			dst := img.d.scanLine(y)
			if conv == nil {
				copy(dst, src)
			} else {
				conv(dst, src)
			}
		}
		return img
	}
	swap16 := func(dst, src []byte) {
		for i := 0; i+1 < len(src); i += 2 {
			binary.LittleEndian.PutUint16(dst[i:], binary.BigEndian.Uint16(src[i:]))
		}
	}

	switch m := m.(type) {
	case *image.Gray:
		return rows(FormatGrayscale8, m.Pix, m.Stride, 1, nil)
	case *image.Gray16:
		return rows(FormatGrayscale16, m.Pix, m.Stride, 2, swap16)
	case *image.Alpha:
		return rows(FormatAlpha8, m.Pix, m.Stride, 1, nil)
	case *image.NRGBA:
		return rows(FormatRGBA8888, m.Pix, m.Stride, 4, nil)
	case *image.RGBA:
		return rows(FormatRGBA8888Premultiplied, m.Pix, m.Stride, 4, nil)
	case *image.NRGBA64:
		return rows(FormatRGBA64, m.Pix, m.Stride, 8, swap16)
	case *image.RGBA64:
		return rows(FormatRGBA64Premultiplied, m.Pix, m.Stride, 8, swap16)
	case *image.CMYK:
		return rows(FormatCMYK8888, m.Pix, m.Stride, 4, func(dst, src []byte) {
			for i := 0; i+3 < len(src); i += 4 {
				dst[i], dst[i+1], dst[i+2], dst[i+3] = src[i+3], src[i+2], src[i+1], src[i]
			}
		})
	case *image.Paletted:
		img := rows(FormatIndexed8, m.Pix, m.Stride, 1, nil)
		if img.IsNull() {
			return img
		}
		ct := make([]uint32, len(m.Palette))
		for i, c := range m.Palette {
			ct[i] = FromColor(c)
		}
		img.d.setColorTable(ct)
		return img
	}

	f := FormatARGB32
	if o, ok := m.(interface{ Opaque() bool }); ok && o.Opaque() {
		f = FormatRGB32
	}
	img := New(w, h, f)
	if img.IsNull() {
		return img
	}
	for y := range h {
		row := img.d.scanLine(y)
		for x := range w {
			c := color.NRGBAModel.Convert(m.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			put32(row, x, ARGB(c.A, c.R, c.G, c.B))
		}
	}
	return img
}

// ToImage copies the image into the standard image type closest to its
// format.
func (img *Image) ToImage() image.Image {
	if img.IsNull() {
		return image.NewNRGBA(image.Rectangle{})
	}
	d := img.d
	r := image.Rect(0, 0, d.width, d.height)
	copyRows := func(pix []byte, stride int, conv func(dst, src []byte)) {
		n := minBytesPerLine(d.width, d.depth)
		for y := range d.height {
			dst := pix[y*stride : y*stride+n]
			if conv == nil {
				copy(dst, d.scanLine(y))
			} else {
				conv(dst, d.scanLine(y)[:n])
			}
		}
	}
	swap16 := func(dst, src []byte) {
		for i := 0; i+1 < len(src); i += 2 {
			binary.BigEndian.PutUint16(dst[i:], binary.LittleEndian.Uint16(src[i:]))
		}
	}

	switch d.format {
	case FormatIndexed8:
		m := image.NewPaletted(r, img.View().ColorModel().(color.Palette))
		copyRows(m.Pix, m.Stride, nil)
		return m
	case FormatGrayscale8:
		m := image.NewGray(r)
		copyRows(m.Pix, m.Stride, nil)
		return m
	case FormatGrayscale16:
		m := image.NewGray16(r)
		copyRows(m.Pix, m.Stride, swap16)
		return m
	case FormatAlpha8:
		m := image.NewAlpha(r)
		copyRows(m.Pix, m.Stride, nil)
		return m
	case FormatRGBA8888:
		m := image.NewNRGBA(r)
		copyRows(m.Pix, m.Stride, nil)
		return m
	case FormatRGBA8888Premultiplied:
		m := image.NewRGBA(r)
		copyRows(m.Pix, m.Stride, nil)
		return m
	case FormatRGBA64:
		m := image.NewNRGBA64(r)
		copyRows(m.Pix, m.Stride, swap16)
		return m
	case FormatRGBA64Premultiplied:
		m := image.NewRGBA64(r)
		copyRows(m.Pix, m.Stride, swap16)
		return m
	case FormatCMYK8888:
		m := image.NewCMYK(r)
		copyRows(m.Pix, m.Stride, func(dst, src []byte) {
			for i := 0; i+3 < len(src); i += 4 {
				dst[i], dst[i+1], dst[i+2], dst[i+3] = src[i+3], src[i+2], src[i+1], src[i]
			}
		})
		return m
	}

	if d.format.IsHighColorPrecision(true) {
		m := image.NewNRGBA64(r)
		v := img.View()
		for y := range d.height {
			for x := range d.width {
				m.Set(x, y, color.NRGBA64Model.Convert(v.RGBA64At(x, y)))
			}
		}
		return m
	}
	src := img
	if d.format != FormatARGB32 && d.format != FormatRGB32 {
		src = img.ConvertToFormat(pick(img.HasAlphaChannel(), FormatARGB32, FormatRGB32), 0)
		defer src.Release()
	}
	m := image.NewNRGBA(r)
	opaque := src.d.format == FormatRGB32
	for y := range d.height {
		row := src.d.scanLine(y)
		out := m.Pix[y*m.Stride:]
		for x := range d.width {
			p := le32(row, x)
			a := Alpha(p)
			if opaque {
				a = 0xff
			}
			out[x*4], out[x*4+1], out[x*4+2], out[x*4+3] = Red(p), Green(p), Blue(p), a
		}
	}
	return m
}
