/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package bytecode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// ConstantKind is the tag of a ConstantEntry's payload.
type ConstantKind uint8

const (
	ConstantNone ConstantKind = iota
	ConstantUserdata
	ConstantInt
	ConstantFloat
	ConstantString
)

// ConstantEntry is a single entry in a ConstantPool: a tagged value with a
// raw byte payload. Two entries compare equal iff their Kind and Data are
// byte-for-byte identical.
type ConstantEntry struct {
	Kind ConstantKind
	Data []byte
}

// NewConstantInt creates an Int constant entry.
func NewConstantInt(v int32) ConstantEntry {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return ConstantEntry{ConstantInt, b}
}

// NewConstantFloat creates a Float constant entry.
func NewConstantFloat(v float64) ConstantEntry {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	return ConstantEntry{ConstantFloat, b}
}

// NewConstantString creates a String constant entry.
func NewConstantString(s string) ConstantEntry {
	return ConstantEntry{ConstantString, []byte(s)}
}

// NewConstantUserdata creates a Userdata constant entry wrapping an opaque
// byte payload.
func NewConstantUserdata(data []byte) ConstantEntry {
	cp := make([]byte, len(data))
	copy(cp, data)
	return ConstantEntry{ConstantUserdata, cp}
}

// AsInt decodes the entry as an Int.
func (e ConstantEntry) AsInt() int32 {
	return int32(binary.LittleEndian.Uint32(e.Data))
}

// AsFloat decodes the entry as a Float.
func (e ConstantEntry) AsFloat() float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(e.Data))
}

// AsString decodes the entry as a String.
func (e ConstantEntry) AsString() string {
	return string(e.Data)
}

// Equal reports whether e and other have the same Kind and byte-identical
// Data.
func (e ConstantEntry) Equal(other ConstantEntry) bool {
	return e.Kind == other.Kind && bytes.Equal(e.Data, other.Data)
}

// ToValue converts a ConstantEntry to the runtime Value it represents.
func (e ConstantEntry) ToValue() Value {
	switch e.Kind {
	case ConstantInt:
		return NewInt(e.AsInt())
	case ConstantFloat:
		return NewFloat(e.AsFloat())
	case ConstantString:
		return NewString(e.AsString())
	case ConstantUserdata:
		return NewUserdata(e.Data)
	default:
		return Null
	}
}

func (e ConstantEntry) dump() string {
	switch e.Kind {
	case ConstantInt:
		return fmt.Sprintf("%d", e.AsInt())
	case ConstantFloat:
		return fmt.Sprintf("%g", e.AsFloat())
	case ConstantString:
		return fmt.Sprintf("%q", e.AsString())
	case ConstantUserdata:
		return fmt.Sprintf("<%d bytes>", len(e.Data))
	default:
		return "<none>"
	}
}

// ConstantPool is the deduplicated table of constant values referenced by
// CONSTARG-flagged instructions. Insertion returns a stable, 0-based
// index; once returned, an index never changes.
type ConstantPool struct {
	entries []ConstantEntry
}

// Get returns the index of entry in the pool, inserting it if it is not
// already present (deduplication by Equal).
func (p *ConstantPool) Get(entry ConstantEntry) int {
	for i, e := range p.entries {
		if e.Equal(entry) {
			return i
		}
	}
	p.entries = append(p.entries, entry)
	return len(p.entries) - 1
}

// At returns the entry at idx.
func (p *ConstantPool) At(idx int) ConstantEntry {
	return p.entries[idx]
}

// Size returns the number of entries in the pool.
func (p *ConstantPool) Size() int {
	return len(p.entries)
}

// Dump renders the pool in a human-readable form, one entry per line.
func (p *ConstantPool) Dump() string {
	s := strings.Builder{}
	for i, e := range p.entries {
		fmt.Fprintf(&s, "%4d: %v\n", i, e.dump())
	}
	return s.String()
}

// Param is one formal parameter of a FunctionEntry.
type Param struct {
	Field    string
	Type     string
	Optional bool
}

// NativeFunc is the signature of a function implemented in Go rather than
// compiled llamaScript, registered into a FunctionEntry.
type NativeFunc func(vm NativeVM, argc int) error

// NativeVM is the slice of VM behavior a NativeFunc needs: pushing and
// popping operands. Defined here (rather than importing pkg/vm, which
// itself imports pkg/bytecode) to avoid a dependency cycle.
type NativeVM interface {
	Push(v Value)
	Pop() Value
	Peek(distance int) Value
}

// FunctionEntry is one entry in a FunctionPool: a name (possibly empty, for
// anonymous functions), its formal parameters, its compiled body, the
// source line it was declared at, and, for native functions, a Go
// implementation instead of a compiled body.
type FunctionEntry struct {
	Name   string
	Args   []Param
	Code   *Chunk
	Line   int
	Native NativeFunc
}

// IsNative reports whether this entry is implemented in Go rather than
// compiled llamaScript.
func (f *FunctionEntry) IsNative() bool {
	return f.Native != nil
}

// FunctionPool is the append-only table of functions known to a Module.
// The index assigned on Add is the function's stable callee identifier.
type FunctionPool struct {
	entries []*FunctionEntry
}

// Add appends entry to the pool and returns its index.
func (p *FunctionPool) Add(entry *FunctionEntry) int {
	p.entries = append(p.entries, entry)
	return len(p.entries) - 1
}

// Get looks up a function by name via a linear scan. ok is false if no
// function with that name has been added.
func (p *FunctionPool) Get(name string) (index int, ok bool) {
	for i, e := range p.entries {
		if e.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Has reports whether a function named name has already been added.
func (p *FunctionPool) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// At returns the entry at idx.
func (p *FunctionPool) At(idx int) *FunctionEntry {
	return p.entries[idx]
}

// Size returns the number of entries in the pool.
func (p *FunctionPool) Size() int {
	return len(p.entries)
}

// Property is one field of a ClassEntry.
type Property struct {
	Name string
	Type string
}

// ClassEntry is one entry in a ClassPool: its declared properties and the
// packed bytecode of its initializer/body. Present for wire-format
// completeness; class declarations are rejected by the compiler, so in
// practice no ClassEntry is ever produced by compiling llamaScript source
// -- only by a module built programmatically or loaded from disk.
type ClassEntry struct {
	Properties []Property
	Code       *Chunk
}

// ClassPool is the append-only table of classes known to a Module. Unlike
// FunctionPool, it has no by-name lookup: nothing in the language
// currently looks up a class by name at compile time.
type ClassPool struct {
	entries []*ClassEntry
}

// Add appends entry to the pool and returns its index.
func (p *ClassPool) Add(entry *ClassEntry) int {
	p.entries = append(p.entries, entry)
	return len(p.entries) - 1
}

// At returns the entry at idx.
func (p *ClassPool) At(idx int) *ClassEntry {
	return p.entries[idx]
}

// Size returns the number of entries in the pool.
func (p *ClassPool) Size() int {
	return len(p.entries)
}
