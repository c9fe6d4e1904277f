package wire

// DebugPos is a single (file, line) pair associated with one opcode.
type DebugPos struct {
	File int
	Line int
}

// ReadDebugInfo decodes n (file, line) pairs, one per opcode in a function,
// using the compact run-length code described by the container format.
func ReadDebugInfo(r *Reader, n int) ([]DebugPos, error) {
	out := make([]DebugPos, 0, n)
	var curFile, curLine int

	for len(out) < n {
		c, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		switch {
		case c&1 != 0:
			c2, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			curFile = (int(c>>1) << 8) | int(c2)

		case c&2 != 0:
			count := int(c>>2) & 0x0f
			for i := 0; i < count && len(out) < n; i++ {
				out = append(out, DebugPos{File: curFile, Line: curLine})
			}
			curLine += int(int8(c) >> 6)

		case c&4 != 0:
			curLine += int(c >> 3)
			out = append(out, DebugPos{File: curFile, Line: curLine})

		default:
			b2, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			b3, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			curLine = (int(c) >> 3) | (int(b2) << 5) | (int(b3) << 13)
			out = append(out, DebugPos{File: curFile, Line: curLine})
		}
	}
	return out, nil
}

// WriteDebugInfo encodes positions using the same run-length code read by
// ReadDebugInfo, flushing accumulated repeats whenever the file or the delta
// category changes.
func WriteDebugInfo(w *Writer, positions []DebugPos) error {
	curFile := -1
	curLine := 0
	var pending int // count of positions identical to (curFile, curLine) not yet flushed

	flush := func() error {
		for pending > 0 {
			n := pending
			if n > 0x0f {
				n = 0x0f
			}
			if err := w.WriteByte(byte(2) | byte(n<<2)); err != nil {
				return err
			}
			pending -= n
		}
		return nil
	}

	for _, p := range positions {
		if p.File != curFile {
			if err := flush(); err != nil {
				return err
			}
			curFile = p.File
			if err := w.WriteByte(byte(1 | (curFile>>8)<<1)); err != nil {
				return err
			}
			if err := w.WriteByte(byte(curFile)); err != nil {
				return err
			}
		}

		delta := p.Line - curLine
		if delta == 0 {
			pending++
			continue
		}
		if err := flush(); err != nil {
			return err
		}

		if delta >= 1 && delta < 32 {
			curLine = p.Line
			if err := w.WriteByte(byte(4) | byte(delta<<3)); err != nil {
				return err
			}
			continue
		}

		curLine = p.Line
		b1 := byte(curLine&0x1f) << 3
		b2 := byte((curLine >> 5) & 0xff)
		b3 := byte((curLine >> 13) & 0xff)
		if err := w.WriteByte(b1); err != nil {
			return err
		}
		if err := w.WriteByte(b2); err != nil {
			return err
		}
		if err := w.WriteByte(b3); err != nil {
			return err
		}
	}
	return flush()
}
