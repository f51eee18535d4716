package pixbuf

import "errors"

// Sentinel errors returned by the checked constructors and by the I/O
// boundary. In-process operations return a null image instead.
var (
	// ErrInvalidDimensions is returned when the width or height is not positive.
	ErrInvalidDimensions = errors.New("pixbuf: invalid image dimensions")

	// ErrInvalidFormat is returned for FormatInvalid or an out-of-range format.
	ErrInvalidFormat = errors.New("pixbuf: invalid pixel format")

	// ErrInvalidStride is returned when a caller-supplied stride or buffer is
	// too small for the requested geometry.
	ErrInvalidStride = errors.New("pixbuf: invalid stride")

	// ErrSizeOverflow is returned when the buffer size does not fit the
	// size type or exceeds AllocationLimit.
	ErrSizeOverflow = errors.New("pixbuf: image size overflow")

	// ErrNullImage is returned when saving or streaming a null image where
	// that is not allowed.
	ErrNullImage = errors.New("pixbuf: null image")

	// ErrUnsupportedFormat is returned for an unknown codec name.
	ErrUnsupportedFormat = errors.New("pixbuf: unsupported format")

	// ErrReadPastEnd is returned when a stream ends before a complete image.
	ErrReadPastEnd = errors.New("pixbuf: read past end of stream")

	// ErrIncompatibleColorSpace is returned when a color space cannot be
	// applied to an image's color model.
	ErrIncompatibleColorSpace = errors.New("pixbuf: incompatible color space")
)
