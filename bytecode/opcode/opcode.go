// Package opcode declares the bytecode instruction set once, as data, and
// derives decoding and encoding from that single declaration; names come
// from a parallel table. No per-opcode description text is carried.
// Reordering the Opcode constants is an incompatible format
// change: the wire tag is the declaration order.
package opcode

import "fmt"

// Opcode identifies one bytecode instruction.
type Opcode uint8

const ( //nolint:revive
	// data movement and literals
	OMov Opcode = iota
	OInt
	OFloat
	OBool
	OBytes
	OString
	ONull

	// arithmetic and bitwise
	OAdd
	OSub
	OMul
	OSDiv
	OUDiv
	OSMod
	OUMod
	OShl
	OSShr
	OUShr
	OAnd
	OOr
	OXor
	ONeg
	ONot
	OIncr
	ODecr

	// calls
	OCall0
	OCall1
	OCall2
	OCall3
	OCall4
	OCallN
	OCallMethod
	OCallThis
	OCallClosure
	OStaticClosure
	OInstanceClosure
	OVirtualClosure

	// field access
	OField
	OSetField
	OGetThis
	OSetThis
	ODynGet
	ODynSet

	// control flow
	OJTrue
	OJFalse
	OJNull
	OJNotNull
	OJSLt
	OJSGte
	OJSGt
	OJSLte
	OJULt
	OJUGte
	OJNotLt
	OJNotGte
	OJEq
	OJNotEq
	OJAlways
	OLabel
	ORet
	OSwitch
	OThrow
	ORethrow
	ONullCheck
	OTrap
	OEndTrap

	// casts and type queries
	OToDyn
	OToSFloat
	OToUFloat
	OToInt
	OSafeCast
	OUnsafeCast
	OToVirtual
	OGetType

	// allocation
	ONew
	OEnumAlloc
	OMakeEnum
	OEnumIndex
	OEnumField
	OSetEnumField

	// references and arrays
	ORef
	OUnref
	OSetRef
	ORefOffset
	OArraySize
	OGetArray
	OSetArray
	OGetI32
	OGetU8
	OGetU16
	OGetF32
	OGetF64
	OSetI32
	OSetU8
	OSetU16
	OSetF32
	OSetF64

	// globals
	OGetGlobal
	OSetGlobal

	// no-op, preserves instruction offsets
	ONop

	opcodeCount
)

var opcodeNames = [...]string{
	OMov:             "mov",
	OInt:             "int",
	OFloat:           "float",
	OBool:            "bool",
	OBytes:           "bytes",
	OString:          "string",
	ONull:            "null",
	OAdd:             "add",
	OSub:             "sub",
	OMul:             "mul",
	OSDiv:            "sdiv",
	OUDiv:            "udiv",
	OSMod:            "smod",
	OUMod:            "umod",
	OShl:             "shl",
	OSShr:            "sshr",
	OUShr:            "ushr",
	OAnd:             "and",
	OOr:              "or",
	OXor:             "xor",
	ONeg:             "neg",
	ONot:             "not",
	OIncr:            "incr",
	ODecr:            "decr",
	OCall0:           "call0",
	OCall1:           "call1",
	OCall2:           "call2",
	OCall3:           "call3",
	OCall4:           "call4",
	OCallN:           "calln",
	OCallMethod:      "callmethod",
	OCallThis:        "callthis",
	OCallClosure:     "callclosure",
	OStaticClosure:   "staticclosure",
	OInstanceClosure: "instanceclosure",
	OVirtualClosure:  "virtualclosure",
	OField:           "field",
	OSetField:        "setfield",
	OGetThis:         "getthis",
	OSetThis:         "setthis",
	ODynGet:          "dynget",
	ODynSet:          "dynset",
	OJTrue:           "jtrue",
	OJFalse:          "jfalse",
	OJNull:           "jnull",
	OJNotNull:        "jnotnull",
	OJSLt:            "jslt",
	OJSGte:           "jsgte",
	OJSGt:            "jsgt",
	OJSLte:           "jslte",
	OJULt:            "jult",
	OJUGte:           "jugte",
	OJNotLt:          "jnotlt",
	OJNotGte:         "jnotgte",
	OJEq:             "jeq",
	OJNotEq:          "jnoteq",
	OJAlways:         "jalways",
	OLabel:           "label",
	ORet:             "ret",
	OSwitch:          "switch",
	OThrow:           "throw",
	ORethrow:         "rethrow",
	ONullCheck:       "nullcheck",
	OTrap:            "trap",
	OEndTrap:         "endtrap",
	OToDyn:           "todyn",
	OToSFloat:        "tosfloat",
	OToUFloat:        "toufloat",
	OToInt:           "toint",
	OSafeCast:        "safecast",
	OUnsafeCast:      "unsafecast",
	OToVirtual:       "tovirtual",
	OGetType:         "gettype",
	ONew:             "new",
	OEnumAlloc:       "enumalloc",
	OMakeEnum:        "makeenum",
	OEnumIndex:       "enumindex",
	OEnumField:       "enumfield",
	OSetEnumField:    "setenumfield",
	ORef:             "ref",
	OUnref:           "unref",
	OSetRef:          "setref",
	ORefOffset:       "refoffset",
	OArraySize:       "arraysize",
	OGetArray:        "getarray",
	OSetArray:        "setarray",
	OGetI32:          "geti32",
	OGetU8:           "getu8",
	OGetU16:          "getu16",
	OGetF32:          "getf32",
	OGetF64:          "getf64",
	OSetI32:          "seti32",
	OSetU8:           "setu8",
	OSetU16:          "setu16",
	OSetF32:          "setf32",
	OSetF64:          "setf64",
	OGetGlobal:       "getglobal",
	OSetGlobal:       "setglobal",
	ONop:             "nop",
}

var reverseLookupOpcode = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op, s := range opcodeNames {
		m[s] = Opcode(op)
	}
	return m
}()

// Name returns the instruction's lowercase mnemonic.
func (op Opcode) Name() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return ""
}

func (op Opcode) String() string {
	if name := op.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("<invalid opcode %d>", op)
}

// FromName looks up an Opcode by its mnemonic. It is a left inverse of
// Name: FromName(op.Name()) == (op, true) for every well-formed Opcode.
func FromName(name string) (Opcode, bool) {
	op, ok := reverseLookupOpcode[name]
	return op, ok
}

// Count returns the number of declared opcodes.
func Count() int { return int(opcodeCount) }

// IsJump reports whether op is one of the 15 jump variants (14 conditional
// plus OJAlways), whose argument layout always ends in a signed jump offset.
func IsJump(op Opcode) bool {
	switch op {
	case OJTrue, OJFalse, OJNull, OJNotNull, OJSLt, OJSGte, OJSGt, OJSLte,
		OJULt, OJUGte, OJNotLt, OJNotGte, OJEq, OJNotEq, OJAlways:
		return true
	default:
		return false
	}
}
