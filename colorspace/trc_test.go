package colorspace

import (
	"math"
	"testing"
)

func TestCurveRoundTrip(t *testing.T) {
	curves := []curve{
		{tf: TransferLinear},
		{tf: TransferGamma, gamma: 2.2},
		{tf: TransferSRGB},
		{tf: TransferProPhotoRGB},
		{tf: TransferBT2020},
		{tf: TransferST2084},
		{tf: TransferHLG},
	}
	for _, c := range curves {
		t.Run(c.tf.String(), func(t *testing.T) {
			for i := 0; i <= 64; i++ {
				x := float64(i) / 64
				got := c.fromLinear(c.toLinear(x))
				if math.Abs(got-x) > 1e-5 {
					t.Errorf("fromLinear(toLinear(%v)) = %v", x, got)
				}
			}
		})
	}
}

func TestCurveMirrorsNegative(t *testing.T) {
	c := curve{tf: TransferSRGB}
	if got, want := c.toLinear(-0.5), -c.toLinear(0.5); got != want {
		t.Errorf("toLinear(-0.5) = %v, want %v", got, want)
	}
}

func TestLUTEndpoints(t *testing.T) {
	l := lutFor(curve{tf: TransferSRGB})
	if l.toLinear[0] != 0 || l.toLinear[255] != 1 {
		t.Errorf("toLinear endpoints = %v, %v", l.toLinear[0], l.toLinear[255])
	}
	if l.encode8(0) != 0 || l.encode8(1) != 255 || l.encode8(2) != 255 || l.encode8(-1) != 0 {
		t.Error("encode8 does not clamp")
	}
	if lutFor(curve{tf: TransferSRGB}) != l {
		t.Error("lutFor should cache tables")
	}
}

// TestLUTRoundTrip checks that every byte survives decode and encode.
func TestLUTRoundTrip(t *testing.T) {
	for _, c := range []curve{
		{tf: TransferSRGB},
		{tf: TransferLinear},
		{tf: TransferGamma, gamma: 2.2},
		{tf: TransferGamma, gamma: 2.19921875},
		{tf: TransferGamma, gamma: 2.8},
		{tf: TransferProPhotoRGB},
		{tf: TransferBT2020},
	} {
		l := lutFor(c)
		maxErr := 0
		for i := range 256 {
			got := int(l.encode8(l.toLinear[i]))
			d := got - i
			if d < 0 {
				d = -d
			}
			maxErr = max(maxErr, d)
		}
		if maxErr > 1 {
			t.Errorf("%s %v: max round-trip error %d", c.tf, c.gamma, maxErr)
		}
	}
}

func BenchmarkLUTEncode8(b *testing.B) {
	l := lutFor(curve{tf: TransferSRGB})
	var sink uint8
	i := 0
	for b.Loop() {
		sink += l.encode8(float32(i&1023) / 1023)
		i++
	}
	_ = sink
}
