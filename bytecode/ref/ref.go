// Package ref defines the newtyped pool indices used throughout the
// bytecode object model. Every cross-reference between bytecode entities is
// one of these types, never a bare int, so that mixing up a type index with
// a string index is a compile error rather than a runtime corruption.
package ref

import "fmt"

// Int indexes the container's int pool.
type Int int32

// Float indexes the container's float pool.
type Float int32

// String indexes the container's string pool. A zero value is the sentinel
// for "unnamed" and never resolves to a pool entry.
type String int32

// IsNull reports whether s is the "unnamed" sentinel.
func (s String) IsNull() bool { return s == 0 }

// Type indexes the container's type pool.
type Type int32

// Global indexes the container's globals pool.
type Global int32

// Function indexes the shared findex namespace (functions and natives
// share this dense index space; see Code.Dispatch).
type Function int32

// Field indexes a record's flattened field list.
type Field int32

// Construct indexes an enum variant (a "construct") within an Enum type.
type Construct int32

// File indexes the optional debug-file pool.
type File int32

func (r Int) String() string       { return fmt.Sprintf("int@%d", int32(r)) }
func (r Float) String() string     { return fmt.Sprintf("float@%d", int32(r)) }
func (r String) String() string    { return fmt.Sprintf("string@%d", int32(r)) }
func (r Type) String() string      { return fmt.Sprintf("type@%d", int32(r)) }
func (r Global) String() string    { return fmt.Sprintf("global@%d", int32(r)) }
func (r Function) String() string  { return fmt.Sprintf("fun@%d", int32(r)) }
func (r Field) String() string     { return fmt.Sprintf("field@%d", int32(r)) }
func (r Construct) String() string { return fmt.Sprintf("construct@%d", int32(r)) }
func (r File) String() string      { return fmt.Sprintf("file@%d", int32(r)) }

// Reg identifies a register slot within a single function body. Unlike the
// pool references above it is scoped to one function, not to the container.
type Reg int32

func (r Reg) String() string { return fmt.Sprintf("reg%d", int32(r)) }
