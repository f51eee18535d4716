package pixbuf

import (
	"fmt"
	"image"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/pixbuf/colorspace"
)

// AllocationLimit is the largest pixel buffer, in bytes, that New will
// allocate. Larger requests fail the same way an arithmetic overflow does.
var AllocationLimit int64 = 1 << 34

// defaultDotsPerMeter corresponds to 96 dpi.
const defaultDotsPerMeter = 96 * 100 / 2.54

// imageData is the buffer shared by one or more Image handles. Pixel data is
// only written through a handle that holds the sole reference.
type imageData struct {
	ref atomic.Int32

	width, height int
	depth         int
	format        Format
	bytesPerLine  int
	nbytes        int
	data          []byte

	colorTable   []uint32
	hasAlphaClut bool

	dpmX, dpmY       float64
	offset           image.Point
	devicePixelRatio float64
	colorSpace       colorspace.ColorSpace
	text             map[string]string

	serial   uint32
	detachNo uint32

	ownData  bool
	roData   bool
	isCached atomic.Bool

	cleanup     func()
	cleanupOnce sync.Once
}

// serialCounter hands out serial numbers. It is 32 bits wide and wraps
// after 2^32 allocations, which only matters to caches that outlive that
// many images.
var serialCounter atomic.Uint32

func nextSerial() uint32 {
	return serialCounter.Add(1)
}

// imageParams are the computed stride and total size of a buffer.
type imageParams struct {
	bytesPerLine int
	totalSize    int
}

// calculateImageParams returns the 32-bit aligned stride and total size for
// the given geometry, or an error when either overflows.
func calculateImageParams(width, height, depth int) (imageParams, error) {
	if width <= 0 || height <= 0 {
		return imageParams{}, ErrInvalidDimensions
	}
	if width > (math.MaxInt32-31)/depth {
		return imageParams{}, fmt.Errorf("%w: %d pixels of %d bits", ErrSizeOverflow, width, depth)
	}
	bpl := ((width*depth + 31) >> 5) << 2
	if height > math.MaxInt/bpl {
		return imageParams{}, fmt.Errorf("%w: %d rows of %d bytes", ErrSizeOverflow, height, bpl)
	}
	total := bpl * height
	if int64(total) > AllocationLimit {
		return imageParams{}, fmt.Errorf("%w: %d bytes exceeds limit", ErrSizeOverflow, total)
	}
	return imageParams{bytesPerLine: bpl, totalSize: total}, nil
}

func minBytesPerLine(width, depth int) int {
	return (width*depth + 7) / 8
}

func newImageData(width, height int, format Format) (*imageData, error) {
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFormat, format)
	}
	depth := format.Depth()
	params, err := calculateImageParams(width, height, depth)
	if err != nil {
		return nil, err
	}

	d := &imageData{
		width:            width,
		height:           height,
		depth:            depth,
		format:           format,
		bytesPerLine:     params.bytesPerLine,
		nbytes:           params.totalSize,
		data:             make([]byte, params.totalSize),
		dpmX:             defaultDotsPerMeter,
		dpmY:             defaultDotsPerMeter,
		devicePixelRatio: 1,
		serial:           nextSerial(),
		ownData:          true,
	}
	d.ref.Store(1)

	if format == FormatMono || format == FormatMonoLSB {
		d.colorTable = []uint32{0xff000000, 0xffffffff}
	}
	return d, nil
}

func newImageDataFrom(buf []byte, width, height, stride int, format Format, opts DataOptions) (*imageData, error) {
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFormat, format)
	}
	if buf == nil {
		return nil, fmt.Errorf("%w: nil buffer", ErrInvalidStride)
	}
	depth := format.Depth()
	params, err := calculateImageParams(width, height, depth)
	if err != nil {
		return nil, err
	}
	if stride > 0 {
		if stride < minBytesPerLine(width, depth) {
			return nil, fmt.Errorf("%w: %d bytes per line, need %d", ErrInvalidStride, stride, minBytesPerLine(width, depth))
		}
		if height > math.MaxInt/stride {
			return nil, fmt.Errorf("%w: %d rows of %d bytes", ErrSizeOverflow, height, stride)
		}
		params.bytesPerLine = stride
		params.totalSize = stride * height
	}
	if len(buf) < params.totalSize {
		return nil, fmt.Errorf("%w: buffer holds %d bytes, need %d", ErrInvalidStride, len(buf), params.totalSize)
	}

	d := &imageData{
		width:            width,
		height:           height,
		depth:            depth,
		format:           format,
		bytesPerLine:     params.bytesPerLine,
		nbytes:           params.totalSize,
		data:             buf[:params.totalSize:params.totalSize],
		dpmX:             defaultDotsPerMeter,
		dpmY:             defaultDotsPerMeter,
		devicePixelRatio: 1,
		serial:           nextSerial(),
		roData:           opts.ReadOnly,
		cleanup:          opts.Cleanup,
	}
	d.ref.Store(1)
	return d, nil
}

// release drops one reference and tears the buffer down with the last one.
func (d *imageData) release() {
	if d.ref.Add(-1) != 0 {
		return
	}
	if d.isCached.Load() {
		runCacheHooks(d.cacheKey())
	}
	d.cleanupOnce.Do(func() {
		if d.cleanup != nil {
			d.cleanup()
		}
	})
	if d.ownData {
		d.data = nil
	}
}

func (d *imageData) cacheKey() int64 {
	return int64(d.serial)<<32 | int64(d.detachNo)
}

func (d *imageData) scanLine(y int) []byte {
	off := y * d.bytesPerLine
	return d.data[off : off+d.bytesPerLine]
}

// setColorTable installs ct and recomputes the alpha flag.
func (d *imageData) setColorTable(ct []uint32) {
	d.colorTable = ct
	d.hasAlphaClut = false
	for _, c := range ct {
		if c>>24 != 0xff {
			d.hasAlphaClut = true
			break
		}
	}
}

// copyPhysicalMetadata copies resolution and device pixel ratio.
func copyPhysicalMetadata(dst, src *imageData) {
	dst.dpmX = src.dpmX
	dst.dpmY = src.dpmY
	dst.devicePixelRatio = src.devicePixelRatio
}

// copyMetadata copies everything except the pixels and the color table.
func copyMetadata(dst, src *imageData) {
	copyPhysicalMetadata(dst, src)
	dst.text = cloneText(src.text)
	dst.offset = src.offset
	dst.colorSpace = src.colorSpace
}

func cloneText(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Cache invalidation hooks run with the CacheKey of a buffer that was
// marked cached, when it is about to change or be released.
var (
	cacheHooksMu sync.RWMutex
	cacheHooks   []func(key int64)
)

// OnCacheInvalidate registers fn to be called with the cache key of every
// image that was marked with MarkCached, right before its pixels change in
// place or its buffer is released.
func OnCacheInvalidate(fn func(key int64)) {
	cacheHooksMu.Lock()
	cacheHooks = append(cacheHooks, fn)
	cacheHooksMu.Unlock()
}

func runCacheHooks(key int64) {
	cacheHooksMu.RLock()
	hooks := cacheHooks
	cacheHooksMu.RUnlock()
	for _, fn := range hooks {
		fn(key)
	}
}
