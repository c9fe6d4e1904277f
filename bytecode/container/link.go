package container

import (
	"github.com/dolthub/swiss"

	"github.com/mna/vmbc/bytecode/ref"
	"github.com/mna/vmbc/bytecode/types"
)

// link runs the four post-parse passes documented for the container format:
// building the findex dispatch table, flattening object/struct field lists,
// naming functions installed as protos or bindings, and building the
// name/initializer acceleration maps.
func (c *Code) link() {
	c.linkDispatch()
	c.linkFlattenFields()
	c.linkMethodNames()
	c.linkAccelerationMaps()
}

func (c *Code) linkDispatch() {
	size := len(c.Functions) + len(c.Natives)
	table := make([]DispatchEntry, size)
	for i, fn := range c.Functions {
		if int(fn.FIndex) >= 0 && int(fn.FIndex) < size {
			table[fn.FIndex] = DispatchEntry{Kind: DispatchFunc, Index: int32(i)}
		}
	}
	for i, n := range c.Natives {
		if int(n.FIndex) >= 0 && int(n.FIndex) < size {
			table[n.FIndex] = DispatchEntry{Kind: DispatchNative, Index: int32(i)}
		}
	}
	c.Dispatch = table
}

// flatten computes and caches rec.Flattened: the super chain's own fields,
// root-first, followed by rec's own fields. memo guards against revisiting
// a record already flattened by an earlier sibling.
func (c *Code) flatten(r ref.Type, memo map[ref.Type]bool) []types.Field {
	t := c.Type(r)
	if t == nil || !t.IsObjLike() {
		return nil
	}
	rec := t.Rec
	if memo[r] {
		return rec.Flattened
	}
	memo[r] = true

	var inherited []types.Field
	if rec.HasSuper() {
		inherited = c.flatten(*rec.Super, memo)
	}
	flat := make([]types.Field, 0, len(inherited)+len(rec.Fields))
	flat = append(flat, inherited...)
	flat = append(flat, rec.Fields...)
	rec.Flattened = flat
	return flat
}

func (c *Code) linkFlattenFields() {
	memo := make(map[ref.Type]bool, len(c.Types))
	for i, t := range c.Types {
		if t.IsObjLike() {
			c.flatten(ref.Type(i), memo)
		}
	}
}

func (c *Code) linkMethodNames() {
	for i, t := range c.Types {
		if !t.IsObjLike() {
			continue
		}
		rec := t.Rec
		parent := ref.Type(i)
		for _, p := range rec.Protos {
			if fn, ok := c.Function(p.FIndex); ok {
				fn.Name = p.Name
				fn.Parent = parent
			}
		}
		for _, b := range rec.Bindings {
			if fn, ok := c.Function(b.FIndex); ok {
				if int(b.Field) >= 0 && int(b.Field) < len(rec.Flattened) {
					fn.Name = rec.Flattened[b.Field].Name
				}
				fn.Parent = parent
			}
		}
	}
}

func (c *Code) linkAccelerationMaps() {
	names := swiss.NewMap[string, ref.Function](uint32(len(c.Functions)))
	for _, fn := range c.Functions {
		if !fn.Name.IsNull() {
			names.Put(c.String(fn.Name), fn.FIndex)
		}
	}
	c.NameToFunc = names

	globals := swiss.NewMap[ref.Global, int](uint32(len(c.Constants)))
	for i, ct := range c.Constants {
		globals.Put(ct.Global, i)
	}
	c.GlobalToConstant = globals
}
