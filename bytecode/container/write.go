package container

import (
	"io"

	"github.com/mna/vmbc/bytecode/opcode"
	"github.com/mna/vmbc/bytecode/types"
	"github.com/mna/vmbc/bytecode/wire"
)

// Write serializes c in the bit-exact container format. Writing is a pure
// fold over the container; it never re-runs the linking passes.
func Write(w io.Writer, c *Code) error {
	bw := wire.NewWriter(w)

	for _, b := range magic {
		if err := bw.WriteByte(b); err != nil {
			return err
		}
	}
	if err := bw.WriteByte(byte(c.Version)); err != nil {
		return err
	}

	var flags uint32
	if c.HasDebug {
		flags |= 1
	}
	if err := wire.WriteUnsignedVarint(bw, flags); err != nil {
		return err
	}

	if err := wire.WriteUnsignedVarint(bw, uint32(len(c.Ints))); err != nil {
		return err
	}
	if err := wire.WriteUnsignedVarint(bw, uint32(len(c.Floats))); err != nil {
		return err
	}
	if err := wire.WriteUnsignedVarint(bw, uint32(len(c.Strings))); err != nil {
		return err
	}
	if c.Version >= 5 {
		if err := wire.WriteUnsignedVarint(bw, uint32(len(c.ByteOffsets))); err != nil {
			return err
		}
	}
	if err := wire.WriteUnsignedVarint(bw, uint32(len(c.Types))); err != nil {
		return err
	}
	if err := wire.WriteUnsignedVarint(bw, uint32(len(c.Globals))); err != nil {
		return err
	}
	if err := wire.WriteUnsignedVarint(bw, uint32(len(c.Natives))); err != nil {
		return err
	}
	if err := wire.WriteUnsignedVarint(bw, uint32(len(c.Functions))); err != nil {
		return err
	}
	if c.Version >= 4 {
		if err := wire.WriteUnsignedVarint(bw, uint32(len(c.Constants))); err != nil {
			return err
		}
	}

	if err := wire.WriteUnsignedVarint(bw, uint32(c.Entrypoint)); err != nil {
		return err
	}

	for _, v := range c.Ints {
		if err := wire.WriteI32(bw, v); err != nil {
			return err
		}
	}
	for _, v := range c.Floats {
		if err := wire.WriteF64(bw, v); err != nil {
			return err
		}
	}
	if err := wire.WriteStringBlock(bw, c.Strings); err != nil {
		return err
	}

	if c.Version >= 5 {
		if err := wire.WriteI32(bw, int32(len(c.Bytes))); err != nil {
			return err
		}
		if _, err := bw.Write(c.Bytes); err != nil {
			return err
		}
		for _, off := range c.ByteOffsets {
			if err := wire.WriteUnsignedVarint(bw, uint32(off)); err != nil {
				return err
			}
		}
	}

	if c.HasDebug {
		if err := wire.WriteUnsignedVarint(bw, uint32(len(c.DebugFiles))); err != nil {
			return err
		}
		if err := wire.WriteStringBlock(bw, c.DebugFiles); err != nil {
			return err
		}
	}

	for _, t := range c.Types {
		if err := types.WriteType(bw, t); err != nil {
			return err
		}
	}

	for _, g := range c.Globals {
		if err := wire.WriteUnsignedVarint(bw, uint32(g)); err != nil {
			return err
		}
	}

	for _, n := range c.Natives {
		if err := writeNative(bw, n); err != nil {
			return err
		}
	}

	for _, fn := range c.Functions {
		if err := writeFunction(bw, fn, c.Version, c.HasDebug); err != nil {
			return err
		}
	}

	if c.Version >= 4 {
		for _, ct := range c.Constants {
			if err := writeConstant(bw, ct); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

func writeNative(w *wire.Writer, n Native) error {
	if err := wire.WriteUnsignedVarint(w, uint32(n.Lib)); err != nil {
		return err
	}
	if err := wire.WriteUnsignedVarint(w, uint32(n.Name)); err != nil {
		return err
	}
	if err := wire.WriteUnsignedVarint(w, uint32(n.Type)); err != nil {
		return err
	}
	return wire.WriteUnsignedVarint(w, uint32(n.FIndex))
}

func writeFunction(w *wire.Writer, fn Function, version int, hasDebug bool) error {
	if err := wire.WriteUnsignedVarint(w, uint32(fn.Type)); err != nil {
		return err
	}
	if err := wire.WriteUnsignedVarint(w, uint32(fn.FIndex)); err != nil {
		return err
	}
	if err := wire.WriteUnsignedVarint(w, uint32(len(fn.Regs))); err != nil {
		return err
	}
	if err := wire.WriteUnsignedVarint(w, uint32(len(fn.Ops))); err != nil {
		return err
	}
	for _, r := range fn.Regs {
		if err := wire.WriteUnsignedVarint(w, uint32(r)); err != nil {
			return err
		}
	}
	for _, instr := range fn.Ops {
		if err := opcode.Encode(w, instr); err != nil {
			return err
		}
	}

	if hasDebug {
		if err := wire.WriteDebugInfo(w, fn.Debug); err != nil {
			return err
		}
		if version >= 3 {
			if err := wire.WriteUnsignedVarint(w, uint32(len(fn.Assigns))); err != nil {
				return err
			}
			for _, a := range fn.Assigns {
				if err := wire.WriteUnsignedVarint(w, uint32(a.Name)); err != nil {
					return err
				}
				if err := wire.WriteUnsignedVarint(w, uint32(a.Pos)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func writeConstant(w *wire.Writer, ct Constant) error {
	if err := wire.WriteUnsignedVarint(w, uint32(ct.Global)); err != nil {
		return err
	}
	if err := wire.WriteUnsignedVarint(w, uint32(len(ct.Fields))); err != nil {
		return err
	}
	for _, f := range ct.Fields {
		if err := wire.WriteUnsignedVarint(w, uint32(f)); err != nil {
			return err
		}
	}
	return nil
}
