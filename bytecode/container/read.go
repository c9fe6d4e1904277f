package container

import (
	"io"

	"github.com/mna/vmbc/bytecode/bcerrors"
	"github.com/mna/vmbc/bytecode/opcode"
	"github.com/mna/vmbc/bytecode/ref"
	"github.com/mna/vmbc/bytecode/types"
	"github.com/mna/vmbc/bytecode/wire"
)

var magic = [3]byte{'H', 'L', 'B'}

// Read parses a bytecode file from r, runs the post-parse linking passes,
// and returns the fully assembled container.
func Read(r io.Reader) (*Code, error) {
	br := wire.NewReader(r)

	var m [3]byte
	for i := range m {
		b, err := br.ReadByte()
		if err != nil {
			return nil, err
		}
		m[i] = b
	}
	if m != magic {
		return nil, bcerrors.NewMalformed("bad magic bytes %q", m)
	}

	version, err := br.ReadByte()
	if err != nil {
		return nil, err
	}
	if int(version) < MinVersion || int(version) > MaxVersion {
		return nil, &bcerrors.UnsupportedVersion{Version: int(version), Min: MinVersion, Max: MaxVersion}
	}

	flags, err := wire.ReadUnsignedVarint(br)
	if err != nil {
		return nil, err
	}
	hasDebug := flags&1 != 0

	c := &Code{Version: int(version), HasDebug: hasDebug}

	nints, err := wire.ReadUnsignedVarint(br)
	if err != nil {
		return nil, err
	}
	nfloats, err := wire.ReadUnsignedVarint(br)
	if err != nil {
		return nil, err
	}
	nstrings, err := wire.ReadUnsignedVarint(br)
	if err != nil {
		return nil, err
	}
	var nbytes uint32
	if c.Version >= 5 {
		if nbytes, err = wire.ReadUnsignedVarint(br); err != nil {
			return nil, err
		}
	}
	ntypes, err := wire.ReadUnsignedVarint(br)
	if err != nil {
		return nil, err
	}
	nglobals, err := wire.ReadUnsignedVarint(br)
	if err != nil {
		return nil, err
	}
	nnatives, err := wire.ReadUnsignedVarint(br)
	if err != nil {
		return nil, err
	}
	nfunctions, err := wire.ReadUnsignedVarint(br)
	if err != nil {
		return nil, err
	}
	var nconstants uint32
	if c.Version >= 4 {
		if nconstants, err = wire.ReadUnsignedVarint(br); err != nil {
			return nil, err
		}
	}

	entry, err := wire.ReadUnsignedVarint(br)
	if err != nil {
		return nil, err
	}
	c.Entrypoint = ref.Function(entry)

	c.Ints = make([]int32, nints)
	for i := range c.Ints {
		if c.Ints[i], err = wire.ReadI32(br); err != nil {
			return nil, err
		}
	}

	c.Floats = make([]float64, nfloats)
	for i := range c.Floats {
		if c.Floats[i], err = wire.ReadF64(br); err != nil {
			return nil, err
		}
	}

	if c.Strings, err = wire.ReadStringBlock(br, int(nstrings)); err != nil {
		return nil, err
	}

	if c.Version >= 5 {
		var blobLen int32
		if blobLen, err = wire.ReadI32(br); err != nil {
			return nil, err
		}
		if blobLen < 0 {
			return nil, bcerrors.NewMalformed("negative bytes blob length %d", blobLen)
		}
		c.Bytes = make([]byte, blobLen)
		if _, err = io.ReadFull(br, c.Bytes); err != nil {
			return nil, err
		}
		c.ByteOffsets = make([]int32, nbytes)
		for i := range c.ByteOffsets {
			var off uint32
			if off, err = wire.ReadUnsignedVarint(br); err != nil {
				return nil, err
			}
			c.ByteOffsets[i] = int32(off)
		}
	}

	if hasDebug {
		ndebugfiles, err := wire.ReadUnsignedVarint(br)
		if err != nil {
			return nil, err
		}
		if c.DebugFiles, err = wire.ReadStringBlock(br, int(ndebugfiles)); err != nil {
			return nil, err
		}
	}

	c.Types = make([]*types.Type, ntypes)
	for i := range c.Types {
		if c.Types[i], err = types.ReadType(br); err != nil {
			return nil, err
		}
	}

	c.Globals = make([]ref.Type, nglobals)
	for i := range c.Globals {
		v, err := wire.ReadUnsignedVarint(br)
		if err != nil {
			return nil, err
		}
		c.Globals[i] = ref.Type(v)
	}

	c.Natives = make([]Native, nnatives)
	for i := range c.Natives {
		if c.Natives[i], err = readNative(br); err != nil {
			return nil, err
		}
	}

	c.Functions = make([]Function, nfunctions)
	for i := range c.Functions {
		if c.Functions[i], err = readFunction(br, c.Version, hasDebug); err != nil {
			return nil, err
		}
	}

	if c.Version >= 4 {
		c.Constants = make([]Constant, nconstants)
		for i := range c.Constants {
			if c.Constants[i], err = readConstant(br); err != nil {
				return nil, err
			}
		}
	}

	c.link()
	return c, nil
}

func readNative(r *wire.Reader) (Native, error) {
	lib, err := wire.ReadUnsignedVarint(r)
	if err != nil {
		return Native{}, err
	}
	name, err := wire.ReadUnsignedVarint(r)
	if err != nil {
		return Native{}, err
	}
	typ, err := wire.ReadUnsignedVarint(r)
	if err != nil {
		return Native{}, err
	}
	findex, err := wire.ReadUnsignedVarint(r)
	if err != nil {
		return Native{}, err
	}
	return Native{
		Lib:    ref.String(lib),
		Name:   ref.String(name),
		Type:   ref.Type(typ),
		FIndex: ref.Function(findex),
	}, nil
}

func readFunction(r *wire.Reader, version int, hasDebug bool) (Function, error) {
	typ, err := wire.ReadUnsignedVarint(r)
	if err != nil {
		return Function{}, err
	}
	findex, err := wire.ReadUnsignedVarint(r)
	if err != nil {
		return Function{}, err
	}
	nregs, err := wire.ReadUnsignedVarint(r)
	if err != nil {
		return Function{}, err
	}
	nops, err := wire.ReadUnsignedVarint(r)
	if err != nil {
		return Function{}, err
	}

	regs := make([]ref.Type, nregs)
	for i := range regs {
		v, err := wire.ReadUnsignedVarint(r)
		if err != nil {
			return Function{}, err
		}
		regs[i] = ref.Type(v)
	}

	ops := make([]*opcode.Instr, nops)
	for i := range ops {
		tag, err := r.ReadByte()
		if err != nil {
			return Function{}, err
		}
		if int(tag) >= opcode.Count() {
			return Function{}, bcerrors.NewMalformed("unknown opcode tag %d", tag)
		}
		if ops[i], err = opcode.Decode(r, opcode.Opcode(tag)); err != nil {
			return Function{}, err
		}
	}

	fn := Function{Type: ref.Type(typ), FIndex: ref.Function(findex), Regs: regs, Ops: ops}

	if hasDebug {
		if fn.Debug, err = wire.ReadDebugInfo(r, int(nops)); err != nil {
			return Function{}, err
		}
		if version >= 3 {
			nassigns, err := wire.ReadUnsignedVarint(r)
			if err != nil {
				return Function{}, err
			}
			assigns := make([]AssignEntry, nassigns)
			for i := range assigns {
				name, err := wire.ReadUnsignedVarint(r)
				if err != nil {
					return Function{}, err
				}
				pos, err := wire.ReadUnsignedVarint(r)
				if err != nil {
					return Function{}, err
				}
				assigns[i] = AssignEntry{Name: ref.String(name), Pos: int(pos)}
			}
			fn.Assigns = assigns
		}
	}
	return fn, nil
}

func readConstant(r *wire.Reader) (Constant, error) {
	global, err := wire.ReadUnsignedVarint(r)
	if err != nil {
		return Constant{}, err
	}
	n, err := wire.ReadUnsignedVarint(r)
	if err != nil {
		return Constant{}, err
	}
	fields := make([]int32, n)
	for i := range fields {
		v, err := wire.ReadUnsignedVarint(r)
		if err != nil {
			return Constant{}, err
		}
		fields[i] = int32(v)
	}
	return Constant{Global: ref.Global(global), Fields: fields}, nil
}
