// Package container assembles the bytecode pools and opcode streams into a
// single queryable object, and performs the post-parse linking passes that
// turn raw pool contents into a resolvable object model.
package container

import (
	"github.com/dolthub/swiss"

	"github.com/mna/vmbc/bytecode/opcode"
	"github.com/mna/vmbc/bytecode/ref"
	"github.com/mna/vmbc/bytecode/types"
	"github.com/mna/vmbc/bytecode/wire"
)

// MinVersion and MaxVersion bound the supported format versions.
const (
	MinVersion = 4
	MaxVersion = 5
)

// Native is one native (foreign) function declaration.
type Native struct {
	Lib    ref.String
	Name   ref.String
	Type   ref.Type
	FIndex ref.Function
}

// AssignEntry associates a source-level name with the opcode position where
// it first becomes the current name for its register, used by the
// decompiler's variable-naming rule.
type AssignEntry struct {
	Name ref.String
	Pos  int
}

// Function is one function definition: its signature type, its dense findex,
// its register file and its opcode stream, plus optional debug data.
type Function struct {
	Type    ref.Type
	FIndex  ref.Function
	Regs    []ref.Type
	Ops     []*opcode.Instr
	Debug   []wire.DebugPos // len(Debug) == len(Ops) iff present
	Assigns []AssignEntry   // present iff debug flag set and version >= 3

	// Name and Parent are filled by the method-naming link pass: Name is the
	// proto or binding name that installed this function, Parent is the
	// owning record's type if this function was installed as a proto or
	// binding, zero value otherwise.
	Name   ref.String
	Parent ref.Type
}

// Constant is one constant initializer: a global and the flattened-field
// indices supplying its initial field values.
type Constant struct {
	Global ref.Global
	Fields []int32
}

// DispatchKind distinguishes a findex dispatch table entry.
type DispatchKind uint8

const (
	DispatchNone DispatchKind = iota
	DispatchFunc
	DispatchNative
)

// DispatchEntry is one slot of the findex dispatch table: either absent, or
// an index into Code.Functions or Code.Natives.
type DispatchEntry struct {
	Kind  DispatchKind
	Index int32
}

// Code is the fully parsed and linked bytecode container: every pool plus
// the maps built by the post-link passes described in the container format.
type Code struct {
	Version    int
	HasDebug   bool
	Entrypoint ref.Function

	Ints        []int32
	Floats      []float64
	Strings     []string
	Bytes       []byte
	ByteOffsets []int32 // only populated for version >= 5
	DebugFiles  []string
	Types       []*types.Type
	Globals     []ref.Type
	Natives     []Native
	Functions   []Function
	Constants   []Constant

	// Dispatch maps a findex to the function or native definition it names.
	// Length is len(Functions) + len(Natives); unassigned slots have
	// Kind == DispatchNone.
	Dispatch []DispatchEntry

	// NameToFunc maps a function's linked Name to its findex, built by the
	// name/initializer map pass. Functions with no name (Name.IsNull()) are
	// not present. A swiss.Map, the same acceleration structure the teacher
	// uses for its own map value (lang/machine's Map), since this is queried
	// by name rather than walked.
	NameToFunc *swiss.Map[string, ref.Function]

	// GlobalToConstant maps a global slot to its index in Constants.
	GlobalToConstant *swiss.Map[ref.Global, int]
}

// Type resolves a type reference, or nil if out of bounds.
func (c *Code) Type(r ref.Type) *types.Type {
	if int(r) < 0 || int(r) >= len(c.Types) {
		return nil
	}
	return c.Types[r]
}

// String resolves a string reference. A null reference resolves to "".
func (c *Code) String(r ref.String) string {
	if r.IsNull() || int(r) < 0 || int(r) >= len(c.Strings) {
		return ""
	}
	return c.Strings[r]
}

// Function resolves a function reference through the dispatch table.
// ok is false if the findex is unassigned or out of range.
func (c *Code) Function(r ref.Function) (*Function, bool) {
	if int(r) < 0 || int(r) >= len(c.Dispatch) {
		return nil, false
	}
	d := c.Dispatch[r]
	if d.Kind != DispatchFunc {
		return nil, false
	}
	return &c.Functions[d.Index], true
}

// NativeFor resolves a function reference to its native declaration, if the
// dispatch table names a native at that slot.
func (c *Code) NativeFor(r ref.Function) (*Native, bool) {
	if int(r) < 0 || int(r) >= len(c.Dispatch) {
		return nil, false
	}
	d := c.Dispatch[r]
	if d.Kind != DispatchNative {
		return nil, false
	}
	return &c.Natives[d.Index], true
}

// Record resolves a record-carrying type reference to its Record, or nil if
// the reference is out of bounds or does not name an Obj/Struct.
func (c *Code) Record(r ref.Type) *types.Record {
	t := c.Type(r)
	if t == nil || !t.IsObjLike() {
		return nil
	}
	return t.Rec
}
