package pixbuf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// StreamVersion is the stream protocol version used by WriteTo and
// ReadFrom.
const StreamVersion = 22

// Stream markers written before the image from version 5 on.
const (
	streamNull    int32 = 0
	streamNonNull int32 = 1
)

func streamCodec(version int) string {
	if version == 1 {
		return "bmp"
	}
	return "png"
}

// WriteStream writes the image in the stream format of the given protocol
// version: a big-endian 32-bit null marker from version 5 on, then the
// encoded image (BMP for version 1, PNG otherwise). A null image writes
// just the marker.
func (img *Image) WriteStream(w io.Writer, version int) error {
	if version >= 5 {
		marker := streamNonNull
		if img.IsNull() {
			marker = streamNull
		}
		if err := binary.Write(w, binary.BigEndian, marker); err != nil {
			return err
		}
		if marker == streamNull {
			return nil
		}
	}
	return img.Save(w, SaveOptions{Format: streamCodec(version), Quality: -1})
}

// ReadStream reads one image written by WriteStream with the same version.
// A null marker yields a null image and no error.
func ReadStream(r io.Reader, version int) (*Image, error) {
	if version >= 5 {
		var marker int32
		if err := binary.Read(r, binary.BigEndian, &marker); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w: missing image marker", ErrReadPastEnd)
			}
			return nil, err
		}
		if marker == streamNull {
			return &Image{}, nil
		}
	}
	img, err := Load(r, LoadOptions{Format: streamCodec(version)})
	if err != nil {
		if version >= 5 {
			return nil, fmt.Errorf("%w: %w", ErrReadPastEnd, err)
		}
		return nil, err
	}
	return img, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// WriteTo writes the image at StreamVersion.
func (img *Image) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := img.WriteStream(cw, StreamVersion)
	return cw.n, err
}

// ReadFrom replaces the image with one read at StreamVersion. On error the
// image is left unchanged.
func (img *Image) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	res, err := ReadStream(cr, StreamVersion)
	if err != nil {
		return cr.n, err
	}
	img.assign(res)
	return cr.n, nil
}
