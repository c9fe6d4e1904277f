// Package analysis builds derived, queryable views over a linked container:
// usage inversion (who references X), a call-graph explorer, and the
// "from the standard library" heuristic used for UI filtering.
package analysis

import (
	"github.com/dolthub/swiss"

	"github.com/mna/vmbc/bytecode/container"
	"github.com/mna/vmbc/bytecode/opcode"
	"github.com/mna/vmbc/bytecode/ref"
	"github.com/mna/vmbc/bytecode/types"
)

// UseKind labels why a use was recorded.
type UseKind string

const (
	UseSigArg         UseKind = "signature-arg"
	UseSigRet         UseKind = "signature-return"
	UseFieldType      UseKind = "field-type"
	UseEnumFieldType  UseKind = "enum-field-type"
	UseFuncType       UseKind = "function-type"
	UseRegType        UseKind = "register-type"
	UseCall           UseKind = "call"
	UseClosure        UseKind = "closure"
	UseProto          UseKind = "proto"
	UseBinding        UseKind = "binding"
	UseMethodDispatch UseKind = "method-dispatch"
	UseTypeName       UseKind = "type-name"
	UseEnumVariant    UseKind = "enum-variant-name"
	UseFieldName      UseKind = "field-name"
	UseProtoName      UseKind = "proto-name"
	UseConstOperand   UseKind = "string-operand"
	UseDynField       UseKind = "dynamic-field-name"
	UseNativeName     UseKind = "native-name"
	UseNativeLib      UseKind = "native-library"
)

// TypeUse, FuncUse and StringUse record one use-site, scoped to the
// function it was found in where that is meaningful (0 otherwise).
type TypeUse struct {
	Kind UseKind
	In   ref.Function
}

type FuncUse struct {
	Kind UseKind
	In   ref.Function
}

type StringUse struct {
	Kind UseKind
	In   ref.Function
}

// Usage is the result of inverting every cross-reference in a container:
// three parallel tables answering "what uses this type/function/string".
// Each is a swiss.Map, the teacher's acceleration structure for a value
// queried by key rather than walked in pool order.
type Usage struct {
	Types     *swiss.Map[ref.Type, []TypeUse]
	Functions *swiss.Map[ref.Function, []FuncUse]
	Strings   *swiss.Map[ref.String, []StringUse]
}

// Invert builds the usage tables for c.
func Invert(c *container.Code) *Usage {
	u := &Usage{
		Types:     swiss.NewMap[ref.Type, []TypeUse](sizeHint(len(c.Types))),
		Functions: swiss.NewMap[ref.Function, []FuncUse](sizeHint(len(c.Functions))),
		Strings:   swiss.NewMap[ref.String, []StringUse](sizeHint(len(c.Strings))),
	}

	addType := func(r ref.Type, kind UseKind, in ref.Function) {
		uses, _ := u.Types.Get(r)
		u.Types.Put(r, append(uses, TypeUse{Kind: kind, In: in}))
	}
	addFunc := func(r ref.Function, kind UseKind, in ref.Function) {
		uses, _ := u.Functions.Get(r)
		u.Functions.Put(r, append(uses, FuncUse{Kind: kind, In: in}))
	}
	addString := func(r ref.String, kind UseKind, in ref.Function) {
		if r.IsNull() {
			return
		}
		uses, _ := u.Strings.Get(r)
		u.Strings.Put(r, append(uses, StringUse{Kind: kind, In: in}))
	}

	for _, t := range c.Types {
		switch t.Kind {
		case types.KFun, types.KMethod:
			for _, a := range t.Sig.Args {
				addType(a, UseSigArg, 0)
			}
			addType(t.Sig.Ret, UseSigRet, 0)

		case types.KObj, types.KStruct:
			addString(t.Rec.Name, UseTypeName, 0)
			for _, f := range t.Rec.Fields {
				addType(f.Type, UseFieldType, 0)
				addString(f.Name, UseFieldName, 0)
			}
			for _, p := range t.Rec.Protos {
				addString(p.Name, UseProtoName, 0)
				addFunc(p.FIndex, UseProto, 0)
			}
			for _, b := range t.Rec.Bindings {
				addFunc(b.FIndex, UseBinding, 0)
			}

		case types.KVirtual:
			for _, f := range t.Fields {
				addType(f.Type, UseFieldType, 0)
				addString(f.Name, UseFieldName, 0)
			}

		case types.KAbstract:
			addString(t.Name, UseTypeName, 0)

		case types.KEnum:
			addString(t.Enum.Name, UseTypeName, 0)
			for _, v := range t.Enum.Variants {
				addString(v.Name, UseEnumVariant, 0)
				for _, ft := range v.Fields {
					addType(ft, UseEnumFieldType, 0)
				}
			}
		}
	}

	for i := range c.Functions {
		fn := &c.Functions[i]
		addType(fn.Type, UseFuncType, fn.FIndex)
		for _, rt := range fn.Regs {
			addType(rt, UseRegType, fn.FIndex)
		}

		for _, instr := range fn.Ops {
			if instr.Op == opcode.OString {
				addString(ref.String(instr.Ints[0]), UseConstOperand, fn.FIndex)
			}
			if instr.Op == opcode.ODynGet || instr.Op == opcode.ODynSet {
				addString(ref.String(instr.Ints[0]), UseDynField, fn.FIndex)
			}
		}

		for _, call := range callsIn(c, fn) {
			addFunc(call.Target, call.Kind, fn.FIndex)
		}
	}

	for _, n := range c.Natives {
		addString(n.Name, UseNativeName, 0)
		addString(n.Lib, UseNativeLib, 0)
	}

	return u
}

// sizeHint picks an initial swiss.Map capacity for the maps built in this
// file.
func sizeHint(n int) uint32 {
	if n < 0 {
		return 0
	}
	return uint32(n)
}

// IndexFunctionsByName builds a fast name -> findex lookup from the
// container's linked function names and its strings, for tools that let a user type a
// name on the command line and need every function sharing it.
func IndexFunctionsByName(c *container.Code) *swiss.Map[string, []ref.Function] {
	m := swiss.NewMap[string, []ref.Function](sizeHint(len(c.Functions)))
	for i := range c.Functions {
		fn := &c.Functions[i]
		if fn.Name.IsNull() {
			continue
		}
		name := c.String(fn.Name)
		list, _ := m.Get(name)
		m.Put(name, append(list, fn.FIndex))
	}
	return m
}
