package wire

import (
	"bytes"
	"encoding/binary"
	"io"
	"unicode/utf8"

	"github.com/mna/vmbc/bytecode/bcerrors"
)

// ReadStringBlock decodes a length-prefixed string table: a little-endian
// i32 total byte size, that many bytes of NUL-terminated UTF-8 strings, then
// one variable-unsigned length per string (excluding the NUL).
func ReadStringBlock(r *Reader, n int) ([]string, error) {
	var size int32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, bcerrors.NewMalformed("negative string block size %d", size)
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	lengths := make([]int, n)
	for i := 0; i < n; i++ {
		l, err := ReadUnsignedVarint(r)
		if err != nil {
			return nil, err
		}
		lengths[i] = int(l)
	}

	out := make([]string, n)
	pos := 0
	for i, l := range lengths {
		if pos+l > len(buf) {
			return nil, bcerrors.NewMalformed("string block overruns its declared size at entry %d", i)
		}
		raw := buf[pos : pos+l]
		if !utf8.Valid(raw) {
			return nil, &bcerrors.Utf8{Index: i}
		}
		out[i] = string(raw)
		pos += l
		if pos >= len(buf) {
			if i != n-1 {
				return nil, bcerrors.NewMalformed("string block exhausted before all %d entries were read", n)
			}
			break
		}
		if buf[pos] != 0 {
			return nil, bcerrors.NewMalformed("string block entry %d is not NUL-terminated", i)
		}
		pos++
	}
	return out, nil
}

// WriteStringBlock encodes strs as a length-prefixed string table.
func WriteStringBlock(w *Writer, strs []string) error {
	var buf bytes.Buffer
	for _, s := range strs {
		buf.WriteString(s)
		buf.WriteByte(0)
	}

	if err := binary.Write(w, binary.LittleEndian, int32(buf.Len())); err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	for _, s := range strs {
		if err := WriteUnsignedVarint(w, uint32(len(s))); err != nil {
			return err
		}
	}
	return nil
}
