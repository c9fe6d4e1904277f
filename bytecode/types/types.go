// Package types models the bytecode type pool: a tagged sum type covering
// every kind the container format can describe, plus the record and
// signature shapes shared by objects, structs, functions and methods.
package types

import (
	"fmt"

	"github.com/mna/vmbc/bytecode/ref"
)

// Kind identifies which case of the Type sum type a value represents.
type Kind uint8

const ( //nolint:revive
	KVoid Kind = iota
	KUI8
	KUI16
	KI32
	KI64
	KF32
	KF64
	KBool
	KBytes
	KDyn
	KArray
	KType
	KDynObj

	// unary wrappers, carry Type.Wrapped
	KRef
	KNull
	KPacked

	// signature-carrying, carry Type.Sig
	KFun
	KMethod

	// record-carrying, carry Type.Rec
	KObj
	KStruct

	KVirtual  // carries Type.Fields
	KAbstract // carries Type.Name
	KEnum     // carries Type.Enum
)

var kindNames = [...]string{
	KVoid:     "void",
	KUI8:      "ui8",
	KUI16:     "ui16",
	KI32:      "i32",
	KI64:      "i64",
	KF32:      "f32",
	KF64:      "f64",
	KBool:     "bool",
	KBytes:    "bytes",
	KDyn:      "dyn",
	KArray:    "array",
	KType:     "type",
	KDynObj:   "dynobj",
	KRef:      "ref",
	KNull:     "null",
	KPacked:   "packed",
	KFun:      "fun",
	KMethod:   "method",
	KObj:      "obj",
	KStruct:   "struct",
	KVirtual:  "virtual",
	KAbstract: "abstract",
	KEnum:     "enum",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("<invalid kind %d>", k)
}

// IsLeaf reports whether k carries no payload beyond the tag.
func (k Kind) IsLeaf() bool {
	switch k {
	case KVoid, KUI8, KUI16, KI32, KI64, KF32, KF64, KBool, KBytes, KDyn, KArray, KType, KDynObj:
		return true
	default:
		return false
	}
}

// Signature is the (args, return) shape shared by Fun and Method types.
type Signature struct {
	Args []ref.Type
	Ret  ref.Type
}

// Field is a named, typed slot in a record or a virtual.
type Field struct {
	Name ref.String
	Type ref.Type
}

// Proto is a named method slot installed on a record. PIndex is an
// auxiliary integer whose meaning is opaque to the codec: it is preserved
// verbatim for round-trip but never interpreted.
type Proto struct {
	Name   ref.String
	FIndex ref.Function
	PIndex int32
}

// Binding attaches a field index to the function that implements it,
// modeling fields that are callable closures installed at construction.
type Binding struct {
	Field  ref.Field
	FIndex ref.Function
}

// Record is the shape shared by Obj and Struct types.
type Record struct {
	Name   ref.String
	Super  *ref.Type // nil if the record has no super type
	Global ref.Global // 0 if the record has no static companion

	Fields   []Field // own fields, declared order
	Protos   []Proto
	Bindings []Binding

	// Flattened is filled by the container's post-link pass: the super
	// chain's own fields, root-first, followed by this record's own fields.
	// Field references in opcodes index into this slice, not into Fields.
	Flattened []Field
}

// HasSuper reports whether the record extends another record.
func (r *Record) HasSuper() bool { return r.Super != nil }

// HasStatic reports whether the record has a static companion global.
func (r *Record) HasStatic() bool { return r.Global != 0 }

// Variant is one named construct of an Enum type.
type Variant struct {
	Name   ref.String
	Fields []ref.Type
}

// Enum is the shape carried by the Enum type kind.
type Enum struct {
	Name     ref.String
	Global   ref.Global
	Variants []Variant
}

// Type is the sum type covering every kind of value the bytecode format can
// describe. Only the fields relevant to Kind are populated; the zero value
// for the others is meaningless and must not be read.
type Type struct {
	Kind Kind

	Wrapped ref.Type   // KRef, KNull, KPacked
	Sig     *Signature // KFun, KMethod
	Rec     *Record    // KObj, KStruct
	Fields  []Field    // KVirtual
	Name    ref.String // KAbstract
	Enum    *Enum      // KEnum
}

// IsObjLike reports whether t is an Obj or a Struct, the two kinds that
// carry a Record.
func (t *Type) IsObjLike() bool { return t.Kind == KObj || t.Kind == KStruct }

// IsCallable reports whether t is a Fun or a Method, the two kinds that
// carry a Signature.
func (t *Type) IsCallable() bool { return t.Kind == KFun || t.Kind == KMethod }

func (t *Type) String() string {
	switch t.Kind {
	case KRef, KNull, KPacked:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Wrapped)
	case KObj, KStruct:
		return fmt.Sprintf("%s %s", t.Kind, t.Rec.Name)
	case KAbstract:
		return fmt.Sprintf("abstract %s", t.Name)
	case KEnum:
		return fmt.Sprintf("enum %s", t.Enum.Name)
	default:
		return t.Kind.String()
	}
}
