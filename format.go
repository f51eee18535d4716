package pixbuf

// Format identifies the pixel encoding of an Image.
type Format uint8

const (
	// FormatInvalid is the format of a null image.
	FormatInvalid Format = iota

	// FormatMono is 1 bit per pixel, most significant bit first, indexed
	// through a color table.
	FormatMono

	// FormatMonoLSB is 1 bit per pixel, least significant bit first.
	FormatMonoLSB

	// FormatIndexed8 is an 8-bit index into a color table of up to 256 entries.
	FormatIndexed8

	// FormatRGB32 is 0xffRRGGBB packed in a 32-bit word. The top byte is undefined.
	FormatRGB32

	// FormatARGB32 is 0xAARRGGBB, not premultiplied.
	FormatARGB32

	// FormatARGB32Premultiplied is 0xAARRGGBB with premultiplied color channels.
	FormatARGB32Premultiplied

	// FormatRGB16 is 5-6-5 RGB in a 16-bit word.
	FormatRGB16

	// FormatARGB8565Premultiplied is 8-bit alpha followed by 5-6-5 RGB, 24 bits.
	FormatARGB8565Premultiplied

	// FormatRGB666 is 6-6-6 RGB in 24 bits.
	FormatRGB666

	// FormatARGB6666Premultiplied is 6-6-6-6 ARGB in 24 bits.
	FormatARGB6666Premultiplied

	// FormatRGB555 is 5-5-5 RGB in a 16-bit word. The top bit is unused.
	FormatRGB555

	// FormatARGB8555Premultiplied is 8-bit alpha followed by 5-5-5 RGB, 24 bits.
	FormatARGB8555Premultiplied

	// FormatRGB888 is 8-8-8 RGB stored as the bytes R, G, B.
	FormatRGB888

	// FormatRGB444 is 4-4-4 RGB in a 16-bit word. The top 4 bits are unused.
	FormatRGB444

	// FormatARGB4444Premultiplied is 4-4-4-4 ARGB in a 16-bit word.
	FormatARGB4444Premultiplied

	// FormatRGBX8888 is stored as the bytes R, G, B, 0xff.
	FormatRGBX8888

	// FormatRGBA8888 is stored as the bytes R, G, B, A.
	FormatRGBA8888

	// FormatRGBA8888Premultiplied is stored as the bytes R, G, B, A, premultiplied.
	FormatRGBA8888Premultiplied

	// FormatBGR30 is x-10-10-10 with blue in the high bits.
	FormatBGR30

	// FormatA2BGR30Premultiplied is 2-10-10-10 with blue in the high bits.
	FormatA2BGR30Premultiplied

	// FormatRGB30 is x-10-10-10 with red in the high bits.
	FormatRGB30

	// FormatA2RGB30Premultiplied is 2-10-10-10 with red in the high bits.
	FormatA2RGB30Premultiplied

	// FormatAlpha8 is 8-bit alpha only.
	FormatAlpha8

	// FormatGrayscale8 is 8-bit luminance.
	FormatGrayscale8

	// FormatRGBX64 is four 16-bit channels R, G, B, 0xffff.
	FormatRGBX64

	// FormatRGBA64 is four 16-bit channels R, G, B, A.
	FormatRGBA64

	// FormatRGBA64Premultiplied is four premultiplied 16-bit channels.
	FormatRGBA64Premultiplied

	// FormatGrayscale16 is 16-bit luminance.
	FormatGrayscale16

	// FormatBGR888 is 8-8-8 RGB stored as the bytes B, G, R.
	FormatBGR888

	// FormatRGBX16FPx4 is four half-float channels with alpha fixed at 1.
	FormatRGBX16FPx4

	// FormatRGBA16FPx4 is four half-float channels.
	FormatRGBA16FPx4

	// FormatRGBA16FPx4Premultiplied is four premultiplied half-float channels.
	FormatRGBA16FPx4Premultiplied

	// FormatRGBX32FPx4 is four float32 channels with alpha fixed at 1.
	FormatRGBX32FPx4

	// FormatRGBA32FPx4 is four float32 channels.
	FormatRGBA32FPx4

	// FormatRGBA32FPx4Premultiplied is four premultiplied float32 channels.
	FormatRGBA32FPx4Premultiplied

	// FormatCMYK8888 is 8-8-8-8 CMYK packed as 0xCCMMYYKK in a 32-bit word.
	FormatCMYK8888

	formatCount
)

// ColorModel is the channel space of a pixel format.
type ColorModel uint8

const (
	ModelRGB ColorModel = iota
	ModelBGR
	ModelIndexed
	ModelGrayscale
	ModelCMYK
	ModelAlpha
)

var colorModelNames = [...]string{"RGB", "BGR", "Indexed", "Grayscale", "CMYK", "Alpha"}

func (m ColorModel) String() string {
	if int(m) < len(colorModelNames) {
		return colorModelNames[m]
	}
	return "Unknown"
}

// AlphaUsage tells whether the alpha bits of a format carry meaning.
type AlphaUsage uint8

const (
	IgnoresAlpha AlphaUsage = iota
	UsesAlpha
)

// AlphaPosition tells where the alpha bits sit relative to the color bits.
type AlphaPosition uint8

const (
	AtBeginning AlphaPosition = iota
	AtEnd
)

// ByteOrder of byte-ordered formats.
type ByteOrder uint8

const (
	CurrentSystemEndian ByteOrder = iota
	LittleEndian
	BigEndian
)

// TypeInterpretation is the numeric unit in which a pixel is addressed.
type TypeInterpretation uint8

const (
	UnsignedInteger TypeInterpretation = iota
	UnsignedShort
	UnsignedByte
	FloatingPoint
)

// PixelFormat describes the layout of a Format.
type PixelFormat struct {
	Model ColorModel

	// Channels holds the bit widths of the color channels in order
	// (R, G, B; C, M, Y, K; or a single gray or index channel).
	Channels [4]uint8

	// Alpha is the width of the alpha channel, including unused padding
	// bits for formats that ignore alpha.
	Alpha uint8

	AlphaUsage     AlphaUsage
	AlphaPosition  AlphaPosition
	Premultiplied  bool
	Interpretation TypeInterpretation
	ByteOrder      ByteOrder

	// Depth is the total number of bits per pixel.
	Depth int
}

// HasAlpha reports whether the alpha bits are meaningful.
func (p PixelFormat) HasAlpha() bool { return p.AlphaUsage == UsesAlpha }

// ChannelCount returns the number of color channels, not counting alpha.
func (p PixelFormat) ChannelCount() int {
	n := 0
	for _, c := range p.Channels {
		if c != 0 {
			n++
		}
	}
	return n
}

func pf(model ColorModel, c0, c1, c2, c3, alpha uint8, usage AlphaUsage, pos AlphaPosition,
	premul bool, interp TypeInterpretation, depth int) PixelFormat {
	return PixelFormat{
		Model:          model,
		Channels:       [4]uint8{c0, c1, c2, c3},
		Alpha:          alpha,
		AlphaUsage:     usage,
		AlphaPosition:  pos,
		Premultiplied:  premul,
		Interpretation: interp,
		ByteOrder:      CurrentSystemEndian,
		Depth:          depth,
	}
}

var pixelFormats = [formatCount]PixelFormat{
	FormatInvalid:                 {},
	FormatMono:                    pf(ModelIndexed, 1, 0, 0, 0, 0, IgnoresAlpha, AtBeginning, false, UnsignedByte, 1),
	FormatMonoLSB:                 pf(ModelIndexed, 1, 0, 0, 0, 0, IgnoresAlpha, AtBeginning, false, UnsignedByte, 1),
	FormatIndexed8:                pf(ModelIndexed, 8, 0, 0, 0, 0, IgnoresAlpha, AtBeginning, false, UnsignedByte, 8),
	FormatRGB32:                   pf(ModelRGB, 8, 8, 8, 0, 8, IgnoresAlpha, AtBeginning, false, UnsignedInteger, 32),
	FormatARGB32:                  pf(ModelRGB, 8, 8, 8, 0, 8, UsesAlpha, AtBeginning, false, UnsignedInteger, 32),
	FormatARGB32Premultiplied:     pf(ModelRGB, 8, 8, 8, 0, 8, UsesAlpha, AtBeginning, true, UnsignedInteger, 32),
	FormatRGB16:                   pf(ModelRGB, 5, 6, 5, 0, 0, IgnoresAlpha, AtBeginning, false, UnsignedShort, 16),
	FormatARGB8565Premultiplied:   pf(ModelRGB, 5, 6, 5, 0, 8, UsesAlpha, AtBeginning, true, UnsignedInteger, 24),
	FormatRGB666:                  pf(ModelRGB, 6, 6, 6, 0, 0, IgnoresAlpha, AtBeginning, false, UnsignedInteger, 24),
	FormatARGB6666Premultiplied:   pf(ModelRGB, 6, 6, 6, 0, 6, UsesAlpha, AtEnd, true, UnsignedInteger, 24),
	FormatRGB555:                  pf(ModelRGB, 5, 5, 5, 0, 0, IgnoresAlpha, AtBeginning, false, UnsignedShort, 16),
	FormatARGB8555Premultiplied:   pf(ModelRGB, 5, 5, 5, 0, 8, UsesAlpha, AtBeginning, true, UnsignedInteger, 24),
	FormatRGB888:                  pf(ModelRGB, 8, 8, 8, 0, 0, IgnoresAlpha, AtBeginning, false, UnsignedByte, 24),
	FormatRGB444:                  pf(ModelRGB, 4, 4, 4, 0, 0, IgnoresAlpha, AtBeginning, false, UnsignedShort, 16),
	FormatARGB4444Premultiplied:   pf(ModelRGB, 4, 4, 4, 0, 4, UsesAlpha, AtEnd, true, UnsignedShort, 16),
	FormatRGBX8888:                pf(ModelRGB, 8, 8, 8, 0, 8, IgnoresAlpha, AtEnd, false, UnsignedByte, 32),
	FormatRGBA8888:                pf(ModelRGB, 8, 8, 8, 0, 8, UsesAlpha, AtEnd, false, UnsignedByte, 32),
	FormatRGBA8888Premultiplied:   pf(ModelRGB, 8, 8, 8, 0, 8, UsesAlpha, AtEnd, true, UnsignedByte, 32),
	FormatBGR30:                   pf(ModelBGR, 10, 10, 10, 0, 2, IgnoresAlpha, AtBeginning, false, UnsignedInteger, 32),
	FormatA2BGR30Premultiplied:    pf(ModelBGR, 10, 10, 10, 0, 2, UsesAlpha, AtBeginning, true, UnsignedInteger, 32),
	FormatRGB30:                   pf(ModelRGB, 10, 10, 10, 0, 2, IgnoresAlpha, AtBeginning, false, UnsignedInteger, 32),
	FormatA2RGB30Premultiplied:    pf(ModelRGB, 10, 10, 10, 0, 2, UsesAlpha, AtBeginning, true, UnsignedInteger, 32),
	FormatAlpha8:                  pf(ModelAlpha, 0, 0, 0, 0, 8, UsesAlpha, AtBeginning, true, UnsignedByte, 8),
	FormatGrayscale8:              pf(ModelGrayscale, 8, 0, 0, 0, 0, IgnoresAlpha, AtBeginning, false, UnsignedByte, 8),
	FormatRGBX64:                  pf(ModelRGB, 16, 16, 16, 0, 16, IgnoresAlpha, AtEnd, false, UnsignedShort, 64),
	FormatRGBA64:                  pf(ModelRGB, 16, 16, 16, 0, 16, UsesAlpha, AtEnd, false, UnsignedShort, 64),
	FormatRGBA64Premultiplied:     pf(ModelRGB, 16, 16, 16, 0, 16, UsesAlpha, AtEnd, true, UnsignedShort, 64),
	FormatGrayscale16:             pf(ModelGrayscale, 16, 0, 0, 0, 0, IgnoresAlpha, AtBeginning, false, UnsignedShort, 16),
	FormatBGR888:                  pf(ModelBGR, 8, 8, 8, 0, 0, IgnoresAlpha, AtBeginning, false, UnsignedByte, 24),
	FormatRGBX16FPx4:              pf(ModelRGB, 16, 16, 16, 0, 16, IgnoresAlpha, AtEnd, false, FloatingPoint, 64),
	FormatRGBA16FPx4:              pf(ModelRGB, 16, 16, 16, 0, 16, UsesAlpha, AtEnd, false, FloatingPoint, 64),
	FormatRGBA16FPx4Premultiplied: pf(ModelRGB, 16, 16, 16, 0, 16, UsesAlpha, AtEnd, true, FloatingPoint, 64),
	FormatRGBX32FPx4:              pf(ModelRGB, 32, 32, 32, 0, 32, IgnoresAlpha, AtEnd, false, FloatingPoint, 128),
	FormatRGBA32FPx4:              pf(ModelRGB, 32, 32, 32, 0, 32, UsesAlpha, AtEnd, false, FloatingPoint, 128),
	FormatRGBA32FPx4Premultiplied: pf(ModelRGB, 32, 32, 32, 0, 32, UsesAlpha, AtEnd, true, FloatingPoint, 128),
	FormatCMYK8888:                pf(ModelCMYK, 8, 8, 8, 8, 0, IgnoresAlpha, AtBeginning, false, UnsignedInteger, 32),
}

var formatNames = [formatCount]string{
	"Invalid", "Mono", "MonoLSB", "Indexed8", "RGB32", "ARGB32", "ARGB32Premultiplied",
	"RGB16", "ARGB8565Premultiplied", "RGB666", "ARGB6666Premultiplied", "RGB555",
	"ARGB8555Premultiplied", "RGB888", "RGB444", "ARGB4444Premultiplied", "RGBX8888",
	"RGBA8888", "RGBA8888Premultiplied", "BGR30", "A2BGR30Premultiplied", "RGB30",
	"A2RGB30Premultiplied", "Alpha8", "Grayscale8", "RGBX64", "RGBA64",
	"RGBA64Premultiplied", "Grayscale16", "BGR888", "RGBX16FPx4", "RGBA16FPx4",
	"RGBA16FPx4Premultiplied", "RGBX32FPx4", "RGBA32FPx4", "RGBA32FPx4Premultiplied",
	"CMYK8888",
}

// String returns the format name, e.g. "ARGB32Premultiplied".
func (f Format) String() string {
	if f < formatCount {
		return formatNames[f]
	}
	return "Unknown"
}

// ParseFormat returns the format with the given name, or FormatInvalid.
func ParseFormat(name string) Format {
	for f := FormatMono; f < formatCount; f++ {
		if formatNames[f] == name {
			return f
		}
	}
	return FormatInvalid
}

// Formats returns every valid format in enumeration order.
func Formats() []Format {
	out := make([]Format, 0, formatCount-1)
	for f := FormatMono; f < formatCount; f++ {
		out = append(out, f)
	}
	return out
}

// IsValid reports whether f is a real pixel format.
func (f Format) IsValid() bool {
	return f > FormatInvalid && f < formatCount
}

// PixelFormat returns the layout descriptor of f.
func (f Format) PixelFormat() PixelFormat {
	if f >= formatCount {
		return PixelFormat{}
	}
	return pixelFormats[f]
}

// Depth returns the number of bits per pixel, or 0 for invalid formats.
func (f Format) Depth() int {
	return f.PixelFormat().Depth
}

// Model returns the color model of f.
func (f Format) Model() ColorModel {
	return f.PixelFormat().Model
}

// IsIndexed reports whether f stores color table indices.
func (f Format) IsIndexed() bool {
	return f == FormatMono || f == FormatMonoLSB || f == FormatIndexed8
}

// HasAlpha reports whether pixels of f carry alpha. Indexed formats carry
// alpha through their color table and report false here.
func (f Format) HasAlpha() bool {
	return f.IsValid() && pixelFormats[f].AlphaUsage == UsesAlpha
}

// IsPremultiplied reports whether f stores premultiplied color.
func (f Format) IsPremultiplied() bool {
	return f.IsValid() && pixelFormats[f].Premultiplied
}

// IsFloatingPoint reports whether f stores floating point channels.
func (f Format) IsFloatingPoint() bool {
	return f.IsValid() && pixelFormats[f].Interpretation == FloatingPoint
}

// IsHighColorPrecision reports whether f holds more color precision than
// ARGB32Premultiplied. With opaque set, the unpremultiplied 8-bit formats
// do not count since their extra precision lives only in translucent pixels.
func (f Format) IsHighColorPrecision(opaque bool) bool {
	switch f {
	case FormatARGB32, FormatRGBA8888:
		return !opaque
	case FormatBGR30, FormatRGB30, FormatA2BGR30Premultiplied, FormatA2RGB30Premultiplied,
		FormatRGBX64, FormatRGBA64, FormatRGBA64Premultiplied, FormatGrayscale16:
		return true
	}
	return f.IsFloatingPoint()
}

// BitPlaneCount returns the number of meaningful bits per pixel.
func (f Format) BitPlaneCount() int {
	switch f {
	case FormatBGR30, FormatRGB30:
		return 30
	case FormatRGB32, FormatRGBX8888:
		return 24
	case FormatRGB666:
		return 18
	case FormatRGB555:
		return 15
	case FormatARGB8555Premultiplied:
		return 23
	case FormatRGB444:
		return 12
	case FormatRGBX64, FormatRGBX16FPx4:
		return 48
	case FormatRGBX32FPx4:
		return 96
	}
	return f.Depth()
}

// OpaqueVersion returns the format without alpha that keeps f's channel layout.
func (f Format) OpaqueVersion() Format {
	switch f {
	case FormatARGB8565Premultiplied:
		return FormatRGB16
	case FormatARGB8555Premultiplied:
		return FormatRGB555
	case FormatARGB6666Premultiplied:
		return FormatRGB666
	case FormatARGB4444Premultiplied:
		return FormatRGB444
	case FormatRGBA8888, FormatRGBA8888Premultiplied:
		return FormatRGBX8888
	case FormatA2BGR30Premultiplied:
		return FormatBGR30
	case FormatA2RGB30Premultiplied:
		return FormatRGB30
	case FormatRGBA64, FormatRGBA64Premultiplied:
		return FormatRGBX64
	case FormatRGBA16FPx4, FormatRGBA16FPx4Premultiplied:
		return FormatRGBX16FPx4
	case FormatRGBA32FPx4, FormatRGBA32FPx4Premultiplied:
		return FormatRGBX32FPx4
	case FormatARGB32, FormatARGB32Premultiplied:
		return FormatRGB32
	case FormatRGB16, FormatRGB32, FormatRGB444, FormatRGB555, FormatRGB666, FormatRGB888,
		FormatBGR888, FormatRGBX8888, FormatBGR30, FormatRGB30, FormatRGBX64,
		FormatRGBX16FPx4, FormatRGBX32FPx4, FormatGrayscale8, FormatGrayscale16, FormatCMYK8888:
		return f
	}
	return FormatRGB32
}

// AlphaVersion returns the premultiplied format with alpha closest to f.
func (f Format) AlphaVersion() Format {
	switch f {
	case FormatRGB32, FormatARGB32:
		return FormatARGB32Premultiplied
	case FormatRGB16:
		return FormatARGB8565Premultiplied
	case FormatRGB555:
		return FormatARGB8555Premultiplied
	case FormatRGB666:
		return FormatARGB6666Premultiplied
	case FormatRGB444:
		return FormatARGB4444Premultiplied
	case FormatRGBX8888, FormatRGBA8888:
		return FormatRGBA8888Premultiplied
	case FormatBGR30:
		return FormatA2BGR30Premultiplied
	case FormatRGB30:
		return FormatA2RGB30Premultiplied
	case FormatRGBX64, FormatRGBA64, FormatGrayscale16:
		return FormatRGBA64Premultiplied
	case FormatRGBX16FPx4, FormatRGBA16FPx4:
		return FormatRGBA16FPx4Premultiplied
	case FormatRGBX32FPx4, FormatRGBA32FPx4:
		return FormatRGBA32FPx4Premultiplied
	case FormatARGB32Premultiplied, FormatARGB8565Premultiplied, FormatARGB8555Premultiplied,
		FormatARGB6666Premultiplied, FormatARGB4444Premultiplied, FormatRGBA8888Premultiplied,
		FormatA2BGR30Premultiplied, FormatA2RGB30Premultiplied, FormatRGBA64Premultiplied,
		FormatRGBA16FPx4Premultiplied, FormatRGBA32FPx4Premultiplied:
		return f
	}
	return FormatARGB32Premultiplied
}

// alphaVersionForPainting is AlphaVersion, upgraded to ARGB32Premultiplied
// when the depth changes anyway.
func (f Format) alphaVersionForPainting() Format {
	to := f.AlphaVersion()
	if f.Depth() != to.Depth() && to.Depth() <= 32 {
		return FormatARGB32Premultiplied
	}
	return to
}

// dataCompatibleOpaqueVersion returns an opaque format whose pixels are
// bit-compatible with f, or f itself if there is none.
func (f Format) dataCompatibleOpaqueVersion() Format {
	switch f {
	case FormatARGB8565Premultiplied, FormatARGB8555Premultiplied:
		return f
	}
	if f.IsIndexed() || f == FormatAlpha8 || !f.IsValid() {
		return f
	}
	return f.OpaqueVersion()
}

// dataCompatibleAlphaVersion returns a format with alpha whose opaque
// pixels are bit-compatible with f, or f itself if there is none.
func (f Format) dataCompatibleAlphaVersion() Format {
	switch f {
	case FormatRGB32:
		return FormatARGB32Premultiplied
	case FormatRGB666:
		return FormatARGB6666Premultiplied
	case FormatRGB444:
		return FormatARGB4444Premultiplied
	case FormatRGBX8888:
		return FormatRGBA8888Premultiplied
	case FormatBGR30:
		return FormatA2BGR30Premultiplied
	case FormatRGB30:
		return FormatA2RGB30Premultiplied
	case FormatRGBX64:
		return FormatRGBA64Premultiplied
	case FormatRGBX16FPx4:
		return FormatRGBA16FPx4Premultiplied
	case FormatRGBX32FPx4:
		return FormatRGBA32FPx4Premultiplied
	}
	return f
}

// toPremultiplied maps an unpremultiplied format with alpha to its
// premultiplied sibling. The premultiplied variant always follows.
func (f Format) toPremultiplied() Format { return f + 1 }

// toUnpremultiplied is the inverse of toPremultiplied.
func (f Format) toUnpremultiplied() Format { return f - 1 }
