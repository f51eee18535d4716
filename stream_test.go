package pixbuf

import (
	"bytes"
	"errors"
	"slices"
	"testing"
)

func TestStream_Null(t *testing.T) {
	var buf bytes.Buffer
	var null *Image
	if err := null.WriteStream(&buf, StreamVersion); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0, 0, 0, 0}) {
		t.Fatalf("null stream = %x, want 00000000", buf.Bytes())
	}
	got, err := ReadStream(&buf, StreamVersion)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsNull() {
		t.Error("null marker should read back as a null image")
	}
}

func TestStream_RoundTrip(t *testing.T) {
	src := newFilled(7, 5, FormatARGB32, gradient)
	var buf bytes.Buffer
	n, err := src.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo reported %d bytes, wrote %d", n, buf.Len())
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte{0, 0, 0, 1, 0x89, 'P', 'N', 'G'}) {
		t.Errorf("stream starts with %x, want a non-null marker and PNG data", buf.Bytes()[:8])
	}

	var got Image
	if _, err := got.ReadFrom(&buf); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(pixels(&got), pixels(src)) {
		t.Error("stream round trip changed the pixels")
	}
}

func TestStream_Version1(t *testing.T) {
	src := newFilled(3, 2, FormatRGB32, primaries)
	var buf bytes.Buffer
	if err := src.WriteStream(&buf, 1); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("BM")) {
		t.Fatalf("version 1 stream starts with %q, want BMP data", buf.Bytes()[:2])
	}
	got, err := ReadStream(&buf, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(pixels(got), pixels(src)) {
		t.Error("version 1 round trip changed the pixels")
	}
}

func TestStream_ReadPastEnd(t *testing.T) {
	if _, err := ReadStream(bytes.NewReader(nil), StreamVersion); !errors.Is(err, ErrReadPastEnd) {
		t.Errorf("empty stream: err = %v", err)
	}
	if _, err := ReadStream(bytes.NewReader([]byte{0, 0}), StreamVersion); !errors.Is(err, ErrReadPastEnd) {
		t.Errorf("short marker: err = %v", err)
	}

	var buf bytes.Buffer
	if err := newFilled(4, 4, FormatRGB32, primaries).WriteStream(&buf, StreamVersion); err != nil {
		t.Fatal(err)
	}
	truncated := buf.Bytes()[:buf.Len()/2]
	if _, err := ReadStream(bytes.NewReader(truncated), StreamVersion); !errors.Is(err, ErrReadPastEnd) {
		t.Errorf("truncated data: err = %v", err)
	}
}

func TestStream_CorruptLeavesImage(t *testing.T) {
	img := newFilled(2, 2, FormatRGB32, primaries)
	before := img.SerialNumber()
	corrupt := append([]byte{0, 0, 0, 1}, []byte("garbage")...)
	if _, err := img.ReadFrom(bytes.NewReader(corrupt)); err == nil {
		t.Fatal("ReadFrom should fail on corrupt data")
	}
	if img.SerialNumber() != before || img.Width() != 2 {
		t.Error("a failed ReadFrom should leave the image unchanged")
	}
}
