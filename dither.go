package pixbuf

// bayer is the 16×16 ordered-dither threshold matrix indexed [x&15][y&15],
// with values in [1, 255].
var bayer [16][16]uint8

func init() {
	cell := [2][2]int{{0, 3}, {2, 1}}
	for x := range 16 {
		for y := range 16 {
			v := 0
			for k := range 4 {
				v = v*4 + cell[x>>k&1][y>>k&1]
			}
			bayer[x][y] = uint8(max(v, 1))
		}
	}
}

type ditherKind uint8

const (
	ditherThreshold ditherKind = iota
	ditherOrdered
	ditherDiffuse
)

func monoDither(flags ConversionFlags, fromAlpha bool) ditherKind {
	if fromAlpha {
		switch flags.alphaDither() {
		case DiffuseAlphaDither:
			return ditherDiffuse
		case OrderedAlphaDither:
			return ditherOrdered
		}
		return ditherThreshold
	}
	switch flags.dither() {
	case ThresholdDither:
		return ditherThreshold
	case OrderedDither:
		return ditherOrdered
	}
	return ditherDiffuse
}

func setMonoBit(row []byte, x int, lsb bool) {
	if lsb {
		row[x>>3] |= 1 << (x & 7)
	} else {
		row[x>>3] |= 0x80 >> (x & 7)
	}
}

func monoBitSet(row []byte, x int, lsb bool) bool {
	return monoBit(row, x, lsb) != 0
}

// ditherToMono writes a 1-bit image whose index 1 is black. src is 32-bit
// unpremultiplied or Indexed8. With fromAlpha the set bits mark opaque
// pixels instead of dark ones.
func ditherToMono(dst, src *imageData, flags ConversionFlags, fromAlpha bool) {
	dst.setColorTable([]uint32{0xffffffff, 0xff000000})
	w, h := src.width, src.height
	lsb := dst.format == FormatMonoLSB

	// levels writes the darkness of each pixel in row y: a bit is set where
	// the level falls below the threshold.
	levels := func(y int, out []int) {
		row := src.scanLine(y)
		for x := range w {
			var p uint32
			if src.depth == 8 {
				p = clutLookup(src.colorTable, uint32(row[x]))
			} else {
				p = le32(row, x)
			}
			if fromAlpha {
				out[x] = 255 - int(p>>24)
			} else {
				out[x] = int(Gray(p))
			}
		}
	}

	switch monoDither(flags, fromAlpha) {
	case ditherDiffuse:
		cur, next := make([]int, w), make([]int, w)
		levels(0, next)
		for y := range h {
			cur, next = next, cur
			notLast := y < h-1
			if notLast {
				levels(y+1, next)
			}
			drow := dst.scanLine(y)
			clear(drow)
			for x := range w {
				var err int
				if cur[x] < 128 {
					err = cur[x]
					setMonoBit(drow, x, lsb)
				} else {
					err = cur[x] - 255
				}
				e7 := (err*7 + 8) >> 4
				e5 := (err*5 + 8) >> 4
				e3 := (err*3 + 8) >> 4
				e1 := err - (e7 + e5 + e3)
				if x < w-1 {
					cur[x+1] += e7
				}
				if notLast {
					next[x] += e5
					if x > 0 {
						next[x-1] += e3
					}
					if x < w-1 {
						next[x+1] += e1
					}
				}
			}
		}
	default:
		ordered := monoDither(flags, fromAlpha) == ditherOrdered
		lv := make([]int, w)
		for y := range h {
			levels(y, lv)
			drow := dst.scanLine(y)
			clear(drow)
			for x, v := range lv {
				t := 128
				if ordered {
					t = int(bayer[x&15][y&15])
				}
				if v < t {
					setMonoBit(drow, x, lsb)
				}
			}
		}
	}
}

// Color cube used when an image has more than 256 colors.
const (
	cubeLevels  = 6
	cubeMax     = cubeLevels - 1
	transparent = cubeLevels * cubeLevels * cubeLevels
)

func cubeIndex(r, g, b int) uint8 {
	return uint8((r*cubeLevels+g)*cubeLevels + b)
}

// quantizeToIndexed8 fills dst from a 32-bit unpremultiplied source. Images
// with at most 256 distinct colors keep them exactly unless PreferDither is
// set; others map onto a 6×6×6 cube, dithered as flags choose. Sources with
// alpha reserve entry 216 for transparent pixels.
func quantizeToIndexed8(dst, src *imageData, flags ConversionFlags) {
	w, h := src.width, src.height
	var alphaMask uint32
	if src.format == FormatRGB32 {
		alphaMask = 0xff000000
	}
	withAlpha := src.format != FormatRGB32
	if withAlpha && flags&NoOpaqueDetection == 0 && !hasAlphaPixels32(src) {
		withAlpha = false
		alphaMask = 0xff000000
	}

	quantize := flags.ditherMode() == PreferDither || withAlpha
	if !quantize {
		index := make(map[uint32]uint8, 256)
		table := make([]uint32, 0, 256)
	exact:
		for y := range h {
			srow, drow := src.scanLine(y), dst.scanLine(y)
			for x := range w {
				p := le32(srow, x) | alphaMask
				i, ok := index[p]
				if !ok {
					if len(table) == 256 {
						quantize = true
						break exact
					}
					i = uint8(len(table))
					index[p] = i
					table = append(table, p)
				}
				drow[x] = i
			}
		}
		if !quantize {
			dst.setColorTable(table)
			return
		}
	}

	table := make([]uint32, 256)
	for r := range cubeLevels {
		for g := range cubeLevels {
			for b := range cubeLevels {
				table[cubeIndex(r, g, b)] = RGB(uint8(r*255/cubeMax), uint8(g*255/cubeMax), uint8(b*255/cubeMax))
			}
		}
	}

	switch flags.dither() {
	case ThresholdDither:
		q := func(v uint8) int { return (int(v)*cubeMax + 127) / 255 }
		for y := range h {
			srow, drow := src.scanLine(y), dst.scanLine(y)
			for x := range w {
				p := le32(srow, x)
				drow[x] = cubeIndex(q(Red(p)), q(Green(p)), q(Blue(p)))
			}
		}
	case OrderedDither:
		for y := range h {
			srow, drow := src.scanLine(y), dst.scanLine(y)
			for x := range w {
				p := le32(srow, x)
				d := int(bayer[x&15][y&15])
				q := func(v uint8) int { return min((int(v)*cubeMax*256/255+d)>>8, cubeMax) }
				drow[x] = cubeIndex(q(Red(p)), q(Green(p)), q(Blue(p)))
			}
		}
	default:
		floydSteinberg(dst, src)
	}

	if withAlpha {
		table[transparent] = 0
		mask, err := newImageData(w, h, FormatMono)
		if err == nil {
			ditherToMono(mask, src, flags, true)
			for y := range h {
				mrow, drow := mask.scanLine(y), dst.scanLine(y)
				for x := range w {
					if !monoBitSet(mrow, x, false) {
						drow[x] = transparent
					}
				}
			}
		}
	}
	dst.setColorTable(table)
}

// floydSteinberg dithers onto the color cube, alternating direction each
// row.
func floydSteinberg(dst, src *imageData) {
	w, h := src.width, src.height
	var cur, next [3][]int
	for c := range 3 {
		cur[c], next[c] = make([]int, w), make([]int, w)
	}
	load := func(y int, out [3][]int) {
		row := src.scanLine(y)
		for x := range w {
			p := le32(row, x)
			out[0][x], out[1][x], out[2][x] = int(Red(p)), int(Green(p)), int(Blue(p))
		}
	}
	level := make([][3]int, w)

	load(0, next)
	for y := range h {
		cur, next = next, cur
		notLast := y < h-1
		if notLast {
			load(y+1, next)
		}
		ltr := y&1 == 0
		for i := range w {
			x, step := i, 1
			if !ltr {
				x, step = w-1-i, -1
			}
			for c := range 3 {
				l1, l2 := cur[c], next[c]
				v := min(max((l1[x]*cubeMax+128)/255, 0), cubeMax)
				level[x][c] = v
				err := l1[x] - v*255/cubeMax
				if ahead := x + step; ahead >= 0 && ahead < w {
					l1[ahead] += (err * 7) >> 4
					if notLast {
						l2[ahead] += err >> 4
					}
				}
				if notLast {
					l2[x] += (err * 5) >> 4
					if behind := x - step; behind >= 0 && behind < w {
						l2[behind] += (err * 3) >> 4
					}
				}
			}
		}
		drow := dst.scanLine(y)
		for x := range w {
			drow[x] = cubeIndex(level[x][0], level[x][1], level[x][2])
		}
	}
}

// hasAlphaPixels32 reports whether a 32-bit buffer holds any alpha below
// 0xff.
func hasAlphaPixels32(d *imageData) bool {
	for y := range d.height {
		row := d.scanLine(y)
		for x := range d.width {
			if row[x*4+3] != 0xff {
				return true
			}
		}
	}
	return false
}
