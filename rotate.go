package pixbuf

// rotateTile is the edge of the square blocks the rotation kernels copy at
// a time.
const rotateTile = 32

// Rotated90 returns the image rotated 90° clockwise.
func (img *Image) Rotated90() *Image { return img.rotated(90) }

// Rotated180 returns the image rotated by 180°.
func (img *Image) Rotated180() *Image {
	if img.IsNull() {
		return &Image{}
	}
	return img.Mirrored(true, true)
}

// Rotated270 returns the image rotated 90° counterclockwise.
func (img *Image) Rotated270() *Image { return img.rotated(270) }

func (img *Image) rotated(deg int) *Image {
	if img.IsNull() {
		return &Image{}
	}
	d := img.d
	out, err := newImageData(d.height, d.width, d.format)
	if err != nil {
		oom("Rotated", d.height, d.width, d.format)
		return &Image{}
	}
	copyMetadata(out, d)
	if len(d.colorTable) > 0 {
		out.setColorTable(append([]uint32(nil), d.colorTable...))
	}
	res := wrap(out)

	if d.depth >= 8 {
		rotateBlocks(out, d, d.depth/8, deg == 90)
		return res
	}
	w, h := d.width, d.height
	indexed := len(d.colorTable) > 0
	for y := range h {
		srow := d.scanLine(y)
		for x := range w {
			var v uint32
			if indexed {
				v = uint32(img.pixelIndex(srow, x))
			} else {
				v = layouts[d.format].fetch32(srow, x, d.colorTable)
			}
			tx, ty := h-1-y, x
			if deg == 270 {
				tx, ty = y, w-1-x
			}
			res.setPixel(out.scanLine(ty), tx, v)
		}
	}
	return res
}

// rotateBlocks copies pixels of bpp bytes from src to the transposed dst in
// square tiles. Clockwise maps (x, y) to (h-1-y, x), otherwise to (y, w-1-x).
func rotateBlocks(dst, src *imageData, bpp int, clockwise bool) {
	w, h := src.width, src.height
	for ty := 0; ty < h; ty += rotateTile {
		yEnd := min(ty+rotateTile, h)
		for tx := 0; tx < w; tx += rotateTile {
			xEnd := min(tx+rotateTile, w)
			for y := ty; y < yEnd; y++ {
				srow := src.scanLine(y)
				for x := tx; x < xEnd; x++ {
					dx, dy := h-1-y, x
					if !clockwise {
						dx, dy = y, w-1-x
					}
					copy(dst.scanLine(dy)[dx*bpp:(dx+1)*bpp], srow[x*bpp:])
				}
			}
		}
	}
}
