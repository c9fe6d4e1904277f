package types

import (
	"github.com/mna/vmbc/bytecode/bcerrors"
	"github.com/mna/vmbc/bytecode/ref"
	"github.com/mna/vmbc/bytecode/wire"
)

func readTypeRef(r *wire.Reader) (ref.Type, error) {
	v, err := wire.ReadUnsignedVarint(r)
	return ref.Type(v), err
}

func readStringRef(r *wire.Reader) (ref.String, error) {
	v, err := wire.ReadUnsignedVarint(r)
	return ref.String(v), err
}

func readGlobalRef(r *wire.Reader) (ref.Global, error) {
	v, err := wire.ReadUnsignedVarint(r)
	return ref.Global(v), err
}

func readFunRef(r *wire.Reader) (ref.Function, error) {
	v, err := wire.ReadUnsignedVarint(r)
	return ref.Function(v), err
}

func readFields(r *wire.Reader) ([]Field, error) {
	n, err := wire.ReadUnsignedVarint(r)
	if err != nil {
		return nil, err
	}
	fields := make([]Field, n)
	for i := range fields {
		name, err := readStringRef(r)
		if err != nil {
			return nil, err
		}
		typ, err := readTypeRef(r)
		if err != nil {
			return nil, err
		}
		fields[i] = Field{Name: name, Type: typ}
	}
	return fields, nil
}

func readProtos(r *wire.Reader) ([]Proto, error) {
	n, err := wire.ReadUnsignedVarint(r)
	if err != nil {
		return nil, err
	}
	protos := make([]Proto, n)
	for i := range protos {
		name, err := readStringRef(r)
		if err != nil {
			return nil, err
		}
		findex, err := readFunRef(r)
		if err != nil {
			return nil, err
		}
		pidx, err := wire.ReadSignedVarint(r)
		if err != nil {
			return nil, err
		}
		protos[i] = Proto{Name: name, FIndex: findex, PIndex: pidx}
	}
	return protos, nil
}

func readBindings(r *wire.Reader) ([]Binding, error) {
	n, err := wire.ReadUnsignedVarint(r)
	if err != nil {
		return nil, err
	}
	bindings := make([]Binding, n)
	for i := range bindings {
		field, err := wire.ReadUnsignedVarint(r)
		if err != nil {
			return nil, err
		}
		findex, err := readFunRef(r)
		if err != nil {
			return nil, err
		}
		bindings[i] = Binding{Field: ref.Field(field), FIndex: findex}
	}
	return bindings, nil
}

func readRecord(r *wire.Reader) (*Record, error) {
	name, err := readStringRef(r)
	if err != nil {
		return nil, err
	}
	hasSuper, err := wire.ReadUnsignedVarint(r)
	if err != nil {
		return nil, err
	}
	rec := &Record{Name: name}
	if hasSuper != 0 {
		super, err := readTypeRef(r)
		if err != nil {
			return nil, err
		}
		rec.Super = &super
	}
	if rec.Global, err = readGlobalRef(r); err != nil {
		return nil, err
	}
	if rec.Fields, err = readFields(r); err != nil {
		return nil, err
	}
	if rec.Protos, err = readProtos(r); err != nil {
		return nil, err
	}
	if rec.Bindings, err = readBindings(r); err != nil {
		return nil, err
	}
	return rec, nil
}

func readSignature(r *wire.Reader) (*Signature, error) {
	n, err := wire.ReadUnsignedVarint(r)
	if err != nil {
		return nil, err
	}
	args := make([]ref.Type, n)
	for i := range args {
		if args[i], err = readTypeRef(r); err != nil {
			return nil, err
		}
	}
	ret, err := readTypeRef(r)
	if err != nil {
		return nil, err
	}
	return &Signature{Args: args, Ret: ret}, nil
}

func readEnum(r *wire.Reader) (*Enum, error) {
	name, err := readStringRef(r)
	if err != nil {
		return nil, err
	}
	global, err := readGlobalRef(r)
	if err != nil {
		return nil, err
	}
	n, err := wire.ReadUnsignedVarint(r)
	if err != nil {
		return nil, err
	}
	variants := make([]Variant, n)
	for i := range variants {
		vname, err := readStringRef(r)
		if err != nil {
			return nil, err
		}
		nf, err := wire.ReadUnsignedVarint(r)
		if err != nil {
			return nil, err
		}
		vfields := make([]ref.Type, nf)
		for j := range vfields {
			if vfields[j], err = readTypeRef(r); err != nil {
				return nil, err
			}
		}
		variants[i] = Variant{Name: vname, Fields: vfields}
	}
	return &Enum{Name: name, Global: global, Variants: variants}, nil
}

// ReadType decodes one type-pool entry: a tag byte followed by its
// kind-specific payload.
func ReadType(r *wire.Reader) (*Type, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	k := Kind(tag)
	t := &Type{Kind: k}

	switch k {
	case KVoid, KUI8, KUI16, KI32, KI64, KF32, KF64, KBool, KBytes, KDyn, KArray, KType, KDynObj:
		// no payload

	case KRef, KNull, KPacked:
		if t.Wrapped, err = readTypeRef(r); err != nil {
			return nil, err
		}

	case KFun, KMethod:
		if t.Sig, err = readSignature(r); err != nil {
			return nil, err
		}

	case KObj, KStruct:
		if t.Rec, err = readRecord(r); err != nil {
			return nil, err
		}

	case KVirtual:
		if t.Fields, err = readFields(r); err != nil {
			return nil, err
		}

	case KAbstract:
		if t.Name, err = readStringRef(r); err != nil {
			return nil, err
		}

	case KEnum:
		if t.Enum, err = readEnum(r); err != nil {
			return nil, err
		}

	default:
		return nil, bcerrors.NewMalformed("unknown type tag %d", tag)
	}
	return t, nil
}

func writeFields(w *wire.Writer, fields []Field) error {
	if err := wire.WriteUnsignedVarint(w, uint32(len(fields))); err != nil {
		return err
	}
	for _, f := range fields {
		if err := wire.WriteUnsignedVarint(w, uint32(f.Name)); err != nil {
			return err
		}
		if err := wire.WriteUnsignedVarint(w, uint32(f.Type)); err != nil {
			return err
		}
	}
	return nil
}

func writeProtos(w *wire.Writer, protos []Proto) error {
	if err := wire.WriteUnsignedVarint(w, uint32(len(protos))); err != nil {
		return err
	}
	for _, p := range protos {
		if err := wire.WriteUnsignedVarint(w, uint32(p.Name)); err != nil {
			return err
		}
		if err := wire.WriteUnsignedVarint(w, uint32(p.FIndex)); err != nil {
			return err
		}
		if err := wire.WriteSignedVarint(w, p.PIndex); err != nil {
			return err
		}
	}
	return nil
}

func writeBindings(w *wire.Writer, bindings []Binding) error {
	if err := wire.WriteUnsignedVarint(w, uint32(len(bindings))); err != nil {
		return err
	}
	for _, b := range bindings {
		if err := wire.WriteUnsignedVarint(w, uint32(b.Field)); err != nil {
			return err
		}
		if err := wire.WriteUnsignedVarint(w, uint32(b.FIndex)); err != nil {
			return err
		}
	}
	return nil
}

func writeRecord(w *wire.Writer, rec *Record) error {
	if err := wire.WriteUnsignedVarint(w, uint32(rec.Name)); err != nil {
		return err
	}
	hasSuper := uint32(0)
	if rec.HasSuper() {
		hasSuper = 1
	}
	if err := wire.WriteUnsignedVarint(w, hasSuper); err != nil {
		return err
	}
	if rec.HasSuper() {
		if err := wire.WriteUnsignedVarint(w, uint32(*rec.Super)); err != nil {
			return err
		}
	}
	if err := wire.WriteUnsignedVarint(w, uint32(rec.Global)); err != nil {
		return err
	}
	if err := writeFields(w, rec.Fields); err != nil {
		return err
	}
	if err := writeProtos(w, rec.Protos); err != nil {
		return err
	}
	return writeBindings(w, rec.Bindings)
}

func writeSignature(w *wire.Writer, sig *Signature) error {
	if err := wire.WriteUnsignedVarint(w, uint32(len(sig.Args))); err != nil {
		return err
	}
	for _, a := range sig.Args {
		if err := wire.WriteUnsignedVarint(w, uint32(a)); err != nil {
			return err
		}
	}
	return wire.WriteUnsignedVarint(w, uint32(sig.Ret))
}

func writeEnum(w *wire.Writer, e *Enum) error {
	if err := wire.WriteUnsignedVarint(w, uint32(e.Name)); err != nil {
		return err
	}
	if err := wire.WriteUnsignedVarint(w, uint32(e.Global)); err != nil {
		return err
	}
	if err := wire.WriteUnsignedVarint(w, uint32(len(e.Variants))); err != nil {
		return err
	}
	for _, v := range e.Variants {
		if err := wire.WriteUnsignedVarint(w, uint32(v.Name)); err != nil {
			return err
		}
		if err := wire.WriteUnsignedVarint(w, uint32(len(v.Fields))); err != nil {
			return err
		}
		for _, f := range v.Fields {
			if err := wire.WriteUnsignedVarint(w, uint32(f)); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteType encodes one type-pool entry.
func WriteType(w *wire.Writer, t *Type) error {
	if err := w.WriteByte(byte(t.Kind)); err != nil {
		return err
	}
	switch t.Kind {
	case KVoid, KUI8, KUI16, KI32, KI64, KF32, KF64, KBool, KBytes, KDyn, KArray, KType, KDynObj:
		return nil
	case KRef, KNull, KPacked:
		return wire.WriteUnsignedVarint(w, uint32(t.Wrapped))
	case KFun, KMethod:
		return writeSignature(w, t.Sig)
	case KObj, KStruct:
		return writeRecord(w, t.Rec)
	case KVirtual:
		return writeFields(w, t.Fields)
	case KAbstract:
		return wire.WriteUnsignedVarint(w, uint32(t.Name))
	case KEnum:
		return writeEnum(w, t.Enum)
	default:
		return bcerrors.NewMalformed("unknown type kind %d", t.Kind)
	}
}
