package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Segments returns how many row bands a width x height job is split into.
// One band covers at least minPixels pixels, and there is never more than
// one band per row or per available processor.
func Segments(width, height, minPixels int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	if minPixels <= 0 {
		minPixels = 1
	}
	n := (width * height) / minPixels
	n = min(n, height, runtime.GOMAXPROCS(0))
	return max(n, 1)
}

// Bands calls fn over disjoint, contiguous row ranges [y0, y1) that cover
// [0, height). When more than one band is needed the ranges run on
// transient goroutines and Bands returns once all of them have finished.
// With a single band fn runs on the calling goroutine.
//
// Rows are split so that the rows still unassigned are spread evenly over
// the bands still unassigned.
func Bands(width, height, minPixels int, fn func(y0, y1 int)) {
	segments := Segments(width, height, minPixels)
	if segments == 0 {
		return
	}
	if segments == 1 {
		fn(0, height)
		return
	}

	var g errgroup.Group
	g.SetLimit(segments)
	for _, b := range Split(height, segments) {
		g.Go(func() error {
			fn(b[0], b[1])
			return nil
		})
	}
	_ = g.Wait()
}

// Split returns the band boundaries Bands would use, as a list of
// [y0, y1) pairs.
func Split(height, segments int) [][2]int {
	if height <= 0 || segments <= 0 {
		return nil
	}
	out := make([][2]int, 0, segments)
	y := 0
	for i := range segments {
		yn := (height - y) / (segments - i)
		out = append(out, [2]int{y, y + yn})
		y += yn
	}
	return out
}
