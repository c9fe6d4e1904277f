// Package wire implements the primitive binary encodings shared by the
// bytecode container: variable-length integers, length-prefixed string
// blocks, and the debug-info run-length stream.
package wire

import (
	"io"

	"github.com/mna/vmbc/bytecode/bcerrors"
)

// signedLimit is the exclusive bound on a signed varint's magnitude: the
// largest representable magnitude is 2^29-1.
const signedLimit = 1 << 29

// ReadSignedVarint decodes a signed variable-length integer from r.
func ReadSignedVarint(r io.ByteReader) (int32, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	if b&0x80 == 0 {
		return int32(b & 0x7f), nil
	}
	if b&0x40 == 0 {
		c, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		mag := int32(c) | (int32(b&0x1f) << 8)
		if b&0x20 != 0 {
			mag = -mag
		}
		return mag, nil
	}
	c, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	d, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	e, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	mag := (int32(b&0x1f) << 24) | (int32(c) << 16) | (int32(d) << 8) | int32(e)
	if b&0x20 != 0 {
		mag = -mag
	}
	return mag, nil
}

// ReadUnsignedVarint decodes an unsigned variable-length integer from r. It
// fails with a Malformed error if the decoded value is negative.
func ReadUnsignedVarint(r io.ByteReader) (uint32, error) {
	v, err := ReadSignedVarint(r)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, bcerrors.NewMalformed("expected unsigned varint, got negative value %d", v)
	}
	return uint32(v), nil
}

// WriteSignedVarint encodes v in the shortest form that represents it. It
// fails with ValueOutOfBounds if |v| >= 2^29.
func WriteSignedVarint(w io.ByteWriter, v int32) error {
	neg := v < 0
	mag := v
	if neg {
		mag = -mag
	}
	if mag >= signedLimit {
		return &bcerrors.ValueOutOfBounds{Value: int64(v), Limit: signedLimit - 1}
	}

	switch {
	case mag < 0x80 && !neg:
		return w.WriteByte(byte(mag))
	case mag < 0x2000:
		hi := byte(0x80 | (mag >> 8))
		if neg {
			hi |= 0x20
		}
		if err := w.WriteByte(hi); err != nil {
			return err
		}
		return w.WriteByte(byte(mag))
	default:
		hi := byte(0x80 | 0x40 | ((mag >> 24) & 0x1f))
		if neg {
			hi |= 0x20
		}
		if err := w.WriteByte(hi); err != nil {
			return err
		}
		if err := w.WriteByte(byte(mag >> 16)); err != nil {
			return err
		}
		if err := w.WriteByte(byte(mag >> 8)); err != nil {
			return err
		}
		return w.WriteByte(byte(mag))
	}
}

// WriteUnsignedVarint encodes v, which must be below 2^29; larger values
// fail with ValueOutOfBounds.
func WriteUnsignedVarint(w io.ByteWriter, v uint32) error {
	if v >= signedLimit {
		return &bcerrors.ValueOutOfBounds{Value: int64(v), Limit: signedLimit - 1}
	}
	return WriteSignedVarint(w, int32(v))
}
