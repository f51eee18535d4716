package pixbuf

import (
	"log/slog"
	"strings"
)

// Orientation is a combination of the transformations an image file can
// ask a viewer to apply. Mirror is applied before Flip, and both before
// Rotate90.
type Orientation uint8

const (
	OrientationNone     Orientation = 0
	OrientationMirror   Orientation = 1
	OrientationFlip     Orientation = 2
	OrientationRotate90 Orientation = 4

	OrientationRotate180         = OrientationMirror | OrientationFlip
	OrientationMirrorAndRotate90 = OrientationMirror | OrientationRotate90
	OrientationFlipAndRotate90   = OrientationFlip | OrientationRotate90
	OrientationRotate270         = OrientationRotate180 | OrientationRotate90
)

func (o Orientation) String() string {
	if o == OrientationNone {
		return "None"
	}
	var parts []string
	if o&OrientationMirror != 0 {
		parts = append(parts, "Mirror")
	}
	if o&OrientationFlip != 0 {
		parts = append(parts, "Flip")
	}
	if o&OrientationRotate90 != 0 {
		parts = append(parts, "Rotate90")
	}
	return strings.Join(parts, "|")
}

// OrientationFromEXIF maps an EXIF orientation tag (1 to 8) to the
// transformation that displays the image upright.
func OrientationFromEXIF(tag int) Orientation {
	switch tag {
	case 1:
		return OrientationNone
	case 2:
		return OrientationMirror
	case 3:
		return OrientationRotate180
	case 4:
		return OrientationFlip
	case 5:
		return OrientationFlipAndRotate90
	case 6:
		return OrientationRotate90
	case 7:
		return OrientationMirrorAndRotate90
	case 8:
		return OrientationRotate270
	}
	warn("OrientationFromEXIF", "invalid EXIF orientation", slog.Int("tag", tag))
	return OrientationNone
}

// ApplyOrientation transforms the image in place.
func (img *Image) ApplyOrientation(o Orientation) {
	if img.IsNull() || o == OrientationNone {
		return
	}
	if o == OrientationRotate270 {
		img.assign(img.Rotated270())
		return
	}
	img.Mirror(o&OrientationMirror != 0, o&OrientationFlip != 0)
	if o&OrientationRotate90 != 0 {
		img.assign(img.Rotated90())
	}
}
