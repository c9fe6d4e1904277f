package wire

import (
	"bufio"
	"encoding/binary"
	"io"
)

// Reader adapts an io.Reader to the io.ByteReader interface required by
// the varint codec, while also giving access to little-endian scalar reads.
type Reader struct {
	*bufio.Reader
}

// NewReader wraps r for use with the decoding helpers in this package.
func NewReader(r io.Reader) *Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return &Reader{Reader: br}
	}
	return &Reader{Reader: bufio.NewReader(r)}
}

// ReadI32 reads a little-endian signed 32-bit integer.
func ReadI32(r *Reader) (int32, error) {
	var v int32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

// ReadF64 reads a little-endian IEEE-754 double.
func ReadF64(r *Reader) (float64, error) {
	var v float64
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

// ReadRawByte reads a single raw byte, exposed for callers that need to peek at
// tag bytes directly.
func (r *Reader) ReadRawByte() (byte, error) { return r.ReadByte() }
