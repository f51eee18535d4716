package pixbuf

import (
	"image"
	"log/slog"
	"runtime"
)

// Image is a handle to a pixel buffer that may be shared with other handles.
//
// Handles obtained from Share point at the same buffer. The first mutating
// call on a shared or read-only buffer gives the handle a private copy, so
// writes through one handle are never visible through another.
//
// All methods are safe on a nil or null Image: queries return zero values
// and transformations return a null Image. A single handle must not be
// mutated from several goroutines at once.
//
// Images are used through *Image only. Copying the struct would let the
// buffer be released while the copy still reads it; use Share instead.
type Image struct {
	_       noCopy
	d       *imageData
	cleanup runtime.Cleanup
}

// noCopy makes go vet's copylocks check flag Image values that are copied.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// DataOptions configure an Image that wraps caller-owned memory.
type DataOptions struct {
	// ReadOnly makes the first mutation copy the buffer instead of
	// writing to it.
	ReadOnly bool

	// Cleanup is called exactly once, after the last handle referencing
	// the buffer is released or collected.
	Cleanup func()
}

func wrap(d *imageData) *Image {
	img := &Image{}
	img.attach(d)
	return img
}

// attach points img at d, taking over one reference.
func (img *Image) attach(d *imageData) {
	img.d = d
	if d != nil {
		img.cleanup = runtime.AddCleanup(img, func(d *imageData) { d.release() }, d)
	}
}

// drop releases img's reference and leaves it null.
func (img *Image) drop() {
	if img.d == nil {
		return
	}
	img.cleanup.Stop()
	d := img.d
	img.d = nil
	d.release()
}

// assign makes img take over o's buffer. o is left null.
func (img *Image) assign(o *Image) {
	if img == o {
		return
	}
	img.drop()
	if o == nil || o.d == nil {
		return
	}
	o.cleanup.Stop()
	d := o.d
	o.d = nil
	img.attach(d)
}

// New returns a w×h image in format f. The pixel data is zeroed. Invalid
// parameters and oversized buffers yield a null image and a logged warning.
func New(w, h int, f Format) *Image {
	img, err := NewChecked(w, h, f)
	if err != nil {
		warn("New", "invalid image parameters",
			slog.Int("width", w), slog.Int("height", h),
			slog.String("format", f.String()), slog.Any("error", err))
	}
	return img
}

// NewSize is New with the size given as a point.
func NewSize(size image.Point, f Format) *Image {
	return New(size.X, size.Y, f)
}

// NewChecked is New that also reports why construction failed. The returned
// image is null, never nil, when err is set.
func NewChecked(w, h int, f Format) (*Image, error) {
	d, err := newImageData(w, h, f)
	if err != nil {
		return &Image{}, err
	}
	return wrap(d), nil
}

// FromData wraps buf without copying it. A stride of 0 means the 32-bit
// aligned default; a positive stride must cover at least one row of pixels.
// The buffer must hold stride*h bytes.
func FromData(buf []byte, w, h, stride int, f Format, opts DataOptions) *Image {
	img, err := FromDataChecked(buf, w, h, stride, f, opts)
	if err != nil {
		warn("FromData", "invalid image parameters",
			slog.Int("width", w), slog.Int("height", h), slog.Int("stride", stride),
			slog.String("format", f.String()), slog.Any("error", err))
	}
	return img
}

// FromDataChecked is FromData that also reports why construction failed.
func FromDataChecked(buf []byte, w, h, stride int, f Format, opts DataOptions) (*Image, error) {
	d, err := newImageDataFrom(buf, w, h, stride, f, opts)
	if err != nil {
		return &Image{}, err
	}
	return wrap(d), nil
}

// Share returns a second handle to the same buffer.
func (img *Image) Share() *Image {
	if img == nil || img.d == nil {
		return &Image{}
	}
	img.d.ref.Add(1)
	return wrap(img.d)
}

// Release drops the handle's reference. The handle becomes null. Handles
// that are never released drop their reference when collected.
func (img *Image) Release() {
	if img == nil {
		return
	}
	img.drop()
}

// IsNull reports whether the handle has no buffer.
func (img *Image) IsNull() bool {
	return img == nil || img.d == nil
}

// IsDetached reports whether the handle holds the only reference.
func (img *Image) IsDetached() bool {
	return !img.IsNull() && img.d.ref.Load() == 1
}

// MarkCached flags the buffer so that OnCacheInvalidate hooks run when it
// changes or is released.
func (img *Image) MarkCached() {
	if img.IsNull() {
		return
	}
	img.d.isCached.Store(true)
}

// detach gives img a private, writable buffer and bumps its generation.
func (img *Image) detach() {
	if img.IsNull() {
		return
	}
	d := img.d
	if d.isCached.Load() && d.ref.Load() == 1 {
		runCacheHooks(d.cacheKey())
	}
	if d.ref.Load() != 1 || d.roData {
		img.assign(img.copyRect(image.Rectangle{}, "detach"))
	}
	if img.d != nil {
		img.d.detachNo++
	}
}

// detachMetadata is detach for metadata changes: it copies only a shared
// buffer and bumps the generation only when invalidate is set.
func (img *Image) detachMetadata(invalidate bool) {
	if img.IsNull() {
		return
	}
	if img.d.ref.Load() != 1 {
		img.assign(img.copyRect(image.Rectangle{}, "detach"))
	}
	if img.d != nil && invalidate {
		img.d.detachNo++
	}
}

// Copy returns a deep copy of the part of the image inside r. The zero
// rectangle copies everything, including the color table. Areas of r
// outside the image are zero-filled.
func (img *Image) Copy(r image.Rectangle) *Image {
	return img.copyRect(r, "Copy")
}

func (img *Image) copyRect(r image.Rectangle, op string) *Image {
	if img.IsNull() {
		return &Image{}
	}
	d := img.d

	if r.Empty() {
		out, err := newImageData(d.width, d.height, d.format)
		if err != nil {
			oom(op, d.width, d.height, d.format)
			return &Image{}
		}
		if out.bytesPerLine == d.bytesPerLine {
			copy(out.data, d.data[:d.nbytes])
		} else {
			n := min(out.bytesPerLine, d.bytesPerLine)
			for y := range d.height {
				copy(out.scanLine(y)[:n], d.scanLine(y)[:n])
			}
		}
		out.colorTable = append([]uint32(nil), d.colorTable...)
		out.hasAlphaClut = d.hasAlphaClut
		copyMetadata(out, d)
		return wrap(out)
	}

	x, y := r.Min.X, r.Min.Y
	w, h := r.Dx(), r.Dy()
	dx, dy := 0, 0

	out, err := newImageData(w, h, d.format)
	if err != nil {
		oom(op, w, h, d.format)
		return &Image{}
	}
	res := wrap(out)

	if x < 0 || y < 0 || x+w > d.width || y+h > d.height {
		clear(out.data)
		if x < 0 {
			dx = -x
			x = 0
		}
		if y < 0 {
			dy = -y
			y = 0
		}
	}

	out.colorTable = append([]uint32(nil), d.colorTable...)
	out.hasAlphaClut = d.hasAlphaClut

	pixelsToCopy := max(w-dx, 0)
	if x > d.width {
		pixelsToCopy = 0
	} else if pixelsToCopy > d.width-x {
		pixelsToCopy = d.width - x
	}
	linesToCopy := max(h-dy, 0)
	if y > d.height {
		linesToCopy = 0
	} else if linesToCopy > d.height-y {
		linesToCopy = d.height - y
	}

	byteAligned := true
	if d.format == FormatMono || d.format == FormatMonoLSB {
		byteAligned = dx&7 == 0 && x&7 == 0 && pixelsToCopy&7 == 0
	}

	if pixelsToCopy == 0 {
		linesToCopy = 0
	}
	if byteAligned {
		for i := range linesToCopy {
			src := d.scanLine(y + i)[(x*d.depth)>>3:]
			dst := out.scanLine(dy + i)[(dx*d.depth)>>3:]
			copy(dst[:(pixelsToCopy*d.depth)>>3], src)
		}
	} else if d.format == FormatMono {
		for i := range linesToCopy {
			src := d.scanLine(y + i)
			dst := out.scanLine(dy + i)
			for j := range pixelsToCopy {
				sx, tx := x+j, dx+j
				if src[sx>>3]&(0x80>>(sx&7)) != 0 {
					dst[tx>>3] |= 0x80 >> (tx & 7)
				} else {
					dst[tx>>3] &^= 0x80 >> (tx & 7)
				}
			}
		}
	} else {
		for i := range linesToCopy {
			src := d.scanLine(y + i)
			dst := out.scanLine(dy + i)
			for j := range pixelsToCopy {
				sx, tx := x+j, dx+j
				if src[sx>>3]&(1<<(sx&7)) != 0 {
					dst[tx>>3] |= 1 << (tx & 7)
				} else {
					dst[tx>>3] &^= 1 << (tx & 7)
				}
			}
		}
	}

	copyMetadata(out, d)
	return res
}

// Width returns the width in pixels.
func (img *Image) Width() int {
	if img.IsNull() {
		return 0
	}
	return img.d.width
}

// Height returns the height in pixels.
func (img *Image) Height() int {
	if img.IsNull() {
		return 0
	}
	return img.d.height
}

// Size returns the dimensions as a point.
func (img *Image) Size() image.Point {
	return image.Pt(img.Width(), img.Height())
}

// Rect returns the rectangle (0, 0)-(Width, Height).
func (img *Image) Rect() image.Rectangle {
	return image.Rect(0, 0, img.Width(), img.Height())
}

// Format returns the pixel format, or FormatInvalid for a null image.
func (img *Image) Format() Format {
	if img.IsNull() {
		return FormatInvalid
	}
	return img.d.format
}

// Depth returns the bits per pixel.
func (img *Image) Depth() int {
	if img.IsNull() {
		return 0
	}
	return img.d.depth
}

// BitPlaneCount returns the number of meaningful bits per pixel.
func (img *Image) BitPlaneCount() int {
	return img.Format().BitPlaneCount()
}

// BytesPerLine returns the stride.
func (img *Image) BytesPerLine() int {
	if img.IsNull() {
		return 0
	}
	return img.d.bytesPerLine
}

// SizeInBytes returns BytesPerLine*Height.
func (img *Image) SizeInBytes() int {
	if img.IsNull() {
		return 0
	}
	return img.d.nbytes
}

// Bits returns the writable pixel buffer, detaching first.
func (img *Image) Bits() []byte {
	if img.IsNull() {
		return nil
	}
	img.detach()
	if img.IsNull() {
		return nil
	}
	return img.d.data
}

// ConstBits returns the pixel buffer without detaching. It must not be
// written to.
func (img *Image) ConstBits() []byte {
	if img.IsNull() {
		return nil
	}
	return img.d.data
}

// ScanLine returns row y for writing, detaching first.
func (img *Image) ScanLine(y int) []byte {
	if img.IsNull() {
		return nil
	}
	if y < 0 || y >= img.d.height {
		warn("ScanLine", "row out of range", slog.Int("y", y))
		return nil
	}
	img.detach()
	if img.IsNull() {
		return nil
	}
	return img.d.scanLine(y)
}

// ConstScanLine returns row y without detaching. It must not be written to.
func (img *Image) ConstScanLine(y int) []byte {
	if img.IsNull() {
		return nil
	}
	if y < 0 || y >= img.d.height {
		warn("ConstScanLine", "row out of range", slog.Int("y", y))
		return nil
	}
	return img.d.scanLine(y)
}

// CacheKey identifies the current contents: the serial number in the high
// 32 bits and the generation in the low 32 bits.
func (img *Image) CacheKey() int64 {
	if img.IsNull() {
		return 0
	}
	return img.d.cacheKey()
}

// SerialNumber returns the process-unique number of the buffer.
func (img *Image) SerialNumber() uint32 {
	if img.IsNull() {
		return 0
	}
	return img.d.serial
}

// Valid reports whether (x, y) lies inside the image.
func (img *Image) Valid(x, y int) bool {
	return !img.IsNull() && x >= 0 && x < img.d.width && y >= 0 && y < img.d.height
}
