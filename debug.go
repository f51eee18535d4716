package pixbuf

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/pixbuf/internal/hasher"
)

var _ slog.LogValuer = (*Image)(nil)

// String describes the image for debugging, e.g.
// "Image(ARGB32, 640x480, depth 32, bpl 2560)".
func (img *Image) String() string {
	if img.IsNull() {
		return "Image(null)"
	}
	d := img.d
	return fmt.Sprintf("Image(%s, %dx%d, depth %d, bpl %d)", d.format, d.width, d.height, d.depth, d.bytesPerLine)
}

// LogValue groups the image's shape and identity for structured logs.
func (img *Image) LogValue() slog.Value {
	if img.IsNull() {
		return slog.GroupValue(slog.Bool("null", true))
	}
	d := img.d
	return slog.GroupValue(
		slog.String("format", d.format.String()),
		slog.Int("width", d.width),
		slog.Int("height", d.height),
		slog.Int("depth", d.depth),
		slog.Int("bytesPerLine", d.bytesPerLine),
		slog.Uint64("serial", uint64(d.serial)),
		slog.Uint64("generation", uint64(d.detachNo)),
	)
}

// Digest returns an xxHash64 of the format, size, color table and pixels.
// Row padding and the unused byte of RGB32 do not contribute, so images
// that compare Equal with identical color tables have equal digests.
func (img *Image) Digest() uint64 {
	if img.IsNull() {
		return 0
	}
	d := img.d
	h := hasher.New()
	h.Uint64(uint64(d.format))
	h.Uint64(uint64(d.width)<<32 | uint64(d.height))
	for _, c := range d.colorTable {
		h.Uint64(uint64(c))
	}
	n := minBytesPerLine(d.width, d.depth)
	var scratch []byte
	if d.format == FormatRGB32 {
		scratch = make([]byte, n)
	}
	for y := range d.height {
		row := d.scanLine(y)[:n]
		if scratch != nil {
			copy(scratch, row)
			for i := 3; i < n; i += 4 {
				scratch[i] = 0xff
			}
			row = scratch
		}
		if pad := d.width * d.depth % 8; pad != 0 {
			// Mask the unused low bits of the last byte of 1-bit rows.
			last := row[n-1]
			if d.format == FormatMonoLSB {
				last &= byte(1)<<pad - 1
			} else {
				last &= ^(byte(0xff) >> pad)
			}
			h.Write(row[:n-1])
			h.Uint64(uint64(last))
			continue
		}
		h.Write(row)
	}
	return h.Sum64()
}

// DigestHex is Digest formatted as 16 hex digits.
func (img *Image) DigestHex() string {
	return hasher.Hex(img.Digest(), 0)
}
