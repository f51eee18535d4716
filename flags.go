package pixbuf

// ConversionFlags control color reduction when converting to formats with
// fewer colors. Zero is the default: automatic color mode, Floyd-Steinberg
// diffusion for color and a threshold for alpha.
type ConversionFlags uint32

const (
	colorModeMask ConversionFlags = 0x3
	AutoColor     ConversionFlags = 0x0
	ColorOnly     ConversionFlags = 0x3
	MonoOnly      ConversionFlags = 0x2

	alphaDitherMask      ConversionFlags = 0xc
	ThresholdAlphaDither ConversionFlags = 0x0
	OrderedAlphaDither   ConversionFlags = 0x4
	DiffuseAlphaDither   ConversionFlags = 0x8

	ditherMask      ConversionFlags = 0x30
	DiffuseDither   ConversionFlags = 0x0
	OrderedDither   ConversionFlags = 0x10
	ThresholdDither ConversionFlags = 0x20

	ditherModeMask ConversionFlags = 0xc0
	AutoDither     ConversionFlags = 0x0
	PreferDither   ConversionFlags = 0x40
	AvoidDither    ConversionFlags = 0x80

	// NoOpaqueDetection skips the scan that turns fully opaque sources into
	// formats without alpha.
	NoOpaqueDetection ConversionFlags = 0x100

	// NoFormatConversion asks operations that would change the format as a
	// side effect to keep it.
	NoFormatConversion ConversionFlags = 0x200
)

func (f ConversionFlags) colorMode() ConversionFlags   { return f & colorModeMask }
func (f ConversionFlags) dither() ConversionFlags      { return f & ditherMask }
func (f ConversionFlags) alphaDither() ConversionFlags { return f & alphaDitherMask }
func (f ConversionFlags) ditherMode() ConversionFlags  { return f & ditherModeMask }

// InvertMode selects the channels InvertPixels touches.
type InvertMode uint8

const (
	InvertRgb InvertMode = iota
	InvertRgba
)

// MaskMode selects which pixels CreateMaskFromColor marks.
type MaskMode uint8

const (
	MaskInColor MaskMode = iota
	MaskOutColor
)

// TransformationMode selects sampling for scaling and transforms.
type TransformationMode uint8

const (
	FastTransformation TransformationMode = iota
	SmoothTransformation
)

// AspectRatioMode controls how Scaled fits the requested size.
type AspectRatioMode uint8

const (
	IgnoreAspectRatio AspectRatioMode = iota
	KeepAspectRatio
	KeepAspectRatioByExpanding
)
