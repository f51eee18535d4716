// Package hasher computes xxHash64 content digests of image data.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/cespare/xxhash/v2"
)

// Hasher accumulates a digest over header fields and scanlines.
type Hasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

// New returns an empty Hasher.
func New() *Hasher {
	return &Hasher{d: xxhash.New()}
}

// Uint64 mixes v into the digest in a fixed byte order.
func (h *Hasher) Uint64(v uint64) {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	h.d.Write(h.buf[:])
}

// Write mixes p into the digest. It never fails.
func (h *Hasher) Write(p []byte) (int, error) {
	return h.d.Write(p)
}

// Sum64 returns the digest so far.
func (h *Hasher) Sum64() uint64 { return h.d.Sum64() }

// Rows hashes n scanlines returned by row.
func Rows(n int, row func(y int) []byte) uint64 {
	d := xxhash.New()
	for y := range n {
		d.Write(row(y))
	}
	return d.Sum64()
}

// Hex formats v as big-endian hex truncated to n characters. n <= 0 or
// n >= 16 returns all 16.
func Hex(v uint64, n int) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	full := hex.EncodeToString(b[:])
	if n > 0 && n < len(full) {
		return full[:n]
	}
	return full
}

// Reader hashes everything read from r.
func Reader(r io.Reader) (uint64, error) {
	d := xxhash.New()
	if _, err := io.Copy(d, r); err != nil {
		return 0, err
	}
	return d.Sum64(), nil
}
