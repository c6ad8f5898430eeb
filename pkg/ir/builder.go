/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

// Package ir builds llamaScript's linear intermediate representation: a
// list of instructions with up to three 32-bit arguments each, assembled
// with a structured-block stack that back-patches jump/block-length
// offsets once the enclosing scope is closed.
package ir

import (
	"fmt"
	"strings"

	"github.com/llamascript/llama/pkg/bytecode"
)

// Inst is one instruction in the IR: an opcode plus its arguments (padded
// to bytecode.InfoFor(Opcode).ArgCount significant entries).
type Inst struct {
	Opcode bytecode.OpCode
	Args   [3]int32
	Line   int
}

// Dump renders inst the way the original implementation's InstData::dump()
// does: mnemonic followed by space-separated arguments.
func (inst Inst) Dump() string {
	info := bytecode.InfoFor(inst.Opcode)
	s := info.Mnemonic
	for i := 0; i < info.ArgCount; i++ {
		s += fmt.Sprintf(" %d", inst.Args[i])
	}
	return s
}

// Builder assembles one function's (or top-level scope's) instruction
// list. It shares a target Module so that its constant-resolving emitters
// (e.g. PushString) can intern literals into the Module's
// ConstantPool.
type Builder struct {
	module *bytecode.Module
	insts  []Inst
	line   int

	// blocks is the LIFO stack of indices into insts where an open
	// BLOCK/IF/ELSE/LOOP instruction lives, used to back-patch its
	// length argument once the block is closed.
	blocks []int
}

// NewBuilder creates a Builder targeting module (for constant-pool
// resolution).
func NewBuilder(module *bytecode.Module) *Builder {
	return &Builder{module: module}
}

// SetLine sets the source line attributed to subsequently emitted
// instructions.
func (b *Builder) SetLine(line int) {
	b.line = line
}

// Size returns the number of instructions emitted so far.
func (b *Builder) Size() int {
	return len(b.insts)
}

// At returns the instruction at index i.
func (b *Builder) At(i int) Inst {
	return b.insts[i]
}

// Set overwrites the instruction at index i. (The compiler's `.` rewrite
// uses PopInst instead.)
func (b *Builder) Set(i int, inst Inst) {
	b.insts[i] = inst
}

// PopInst removes and returns the last emitted instruction. Used by the
// compiler to undo a speculatively emitted GETGLOBAL/REFGLOBAL once a
// following `.` reveals it should have been GETPROPERTY/REFPROPERTY.
func (b *Builder) PopInst() Inst {
	last := b.insts[len(b.insts)-1]
	b.insts = b.insts[:len(b.insts)-1]
	return last
}

func (b *Builder) push(op bytecode.OpCode, args ...int32) int {
	inst := Inst{Opcode: op, Line: b.line}
	copy(inst.Args[:], args)
	b.insts = append(b.insts, inst)
	return len(b.insts) - 1
}

//
// Simple emitters
//

func (b *Builder) Nop()               { b.push(bytecode.OpNop) }
func (b *Builder) Jp(offset int32)     { b.push(bytecode.OpJp, offset) }
func (b *Builder) Jz(offset int32)     { b.push(bytecode.OpJz, offset) }
func (b *Builder) Jnz(offset int32)    { b.push(bytecode.OpJnz, offset) }
func (b *Builder) Repeat()             { b.push(bytecode.OpRepeat) }
func (b *Builder) Break()              { b.push(bytecode.OpBreak) }

func (b *Builder) PushNull()  { b.push(bytecode.OpPushNull) }
func (b *Builder) PushTrue()  { b.push(bytecode.OpPushTrue) }
func (b *Builder) PushFalse() { b.push(bytecode.OpPushFalse) }
func (b *Builder) PushDyn()   { b.push(bytecode.OpPushDyn) }

func (b *Builder) PushInt(v int32) {
	idx := b.module.Constants.Get(bytecode.NewConstantInt(v))
	b.push(bytecode.OpPushInt, int32(idx))
}

func (b *Builder) PushFloat(v float64) {
	idx := b.module.Constants.Get(bytecode.NewConstantFloat(v))
	b.push(bytecode.OpPushFloat, int32(idx))
}

func (b *Builder) PushString(s string) {
	idx := b.module.Constants.Get(bytecode.NewConstantString(s))
	b.push(bytecode.OpPushString, int32(idx))
}

func (b *Builder) PushList(count int32) { b.push(bytecode.OpPushList, count) }

func (b *Builder) PushFunc(funcIndex int32) { b.push(bytecode.OpPushFunc, funcIndex) }

func (b *Builder) SetGlobal(name string) { b.push(bytecode.OpSetGlobal, b.intern(name)) }
func (b *Builder) GetGlobal(name string) { b.push(bytecode.OpGetGlobal, b.intern(name)) }
func (b *Builder) SetProperty(name string) { b.push(bytecode.OpSetProp, b.intern(name)) }
func (b *Builder) GetProperty(name string) { b.push(bytecode.OpGetProp, b.intern(name)) }
func (b *Builder) SetIndex()             { b.push(bytecode.OpSetIndex) }
func (b *Builder) GetIndex()             { b.push(bytecode.OpGetIndex) }
func (b *Builder) NewGlobal(name string) { b.push(bytecode.OpNewGlobal, b.intern(name)) }
func (b *Builder) NewLocal(name string)  { b.push(bytecode.OpNewLocal, b.intern(name)) }

func (b *Builder) Pop()         { b.push(bytecode.OpPop) }
func (b *Builder) PopN(n int32) {
	if n <= 0 {
		return
	}
	if n == 1 {
		b.Pop()
		return
	}
	b.push(bytecode.OpPopN, n)
}

func (b *Builder) Add() { b.push(bytecode.OpAdd) }
func (b *Builder) Sub() { b.push(bytecode.OpSub) }
func (b *Builder) Mul() { b.push(bytecode.OpMul) }
func (b *Builder) Div() { b.push(bytecode.OpDiv) }
func (b *Builder) Mod() { b.push(bytecode.OpMod) }
func (b *Builder) Pow() { b.push(bytecode.OpPow) }
func (b *Builder) Negate()  { b.push(bytecode.OpNegate) }
func (b *Builder) Promote() { b.push(bytecode.OpPromote) }

func (b *Builder) BitNot() { b.push(bytecode.OpBitNot) }
func (b *Builder) BitAnd() { b.push(bytecode.OpBitAnd) }
func (b *Builder) BitOr()  { b.push(bytecode.OpBitOr) }
func (b *Builder) BitXor() { b.push(bytecode.OpBitXor) }
func (b *Builder) BitShl() { b.push(bytecode.OpBitShl) }
func (b *Builder) BitShr() { b.push(bytecode.OpBitShr) }

func (b *Builder) Not() { b.push(bytecode.OpNot) }
func (b *Builder) And() { b.push(bytecode.OpAnd) }
func (b *Builder) Or()  { b.push(bytecode.OpOr) }
func (b *Builder) Eq()  { b.push(bytecode.OpEq) }
func (b *Builder) Lt()  { b.push(bytecode.OpLt) }
func (b *Builder) Le()  { b.push(bytecode.OpLe) }
func (b *Builder) Gt()  { b.push(bytecode.OpGt) }
func (b *Builder) Ge()  { b.push(bytecode.OpGe) }
func (b *Builder) Ne()  { b.push(bytecode.OpNe) }

func (b *Builder) Sizeof() { b.push(bytecode.OpSizeof) }
func (b *Builder) Lenof()  { b.push(bytecode.OpLenof) }
func (b *Builder) Typeof() { b.push(bytecode.OpTypeof) }

func (b *Builder) As(typeName string) { b.push(bytecode.OpAs, b.intern(typeName)) }

func (b *Builder) Call(argCount int32)  { b.push(bytecode.OpCall, argCount) }
func (b *Builder) CallV(argCount int32) { b.push(bytecode.OpCallV, argCount) }
func (b *Builder) Return()              { b.push(bytecode.OpReturn) }
func (b *Builder) ReturnV()             { b.push(bytecode.OpReturnV) }

func (b *Builder) Ref()                    { b.push(bytecode.OpRef) }
func (b *Builder) RefGlobal(name string)   { b.push(bytecode.OpRefGlobal, b.intern(name)) }
func (b *Builder) RefProperty(name string) { b.push(bytecode.OpRefProperty, b.intern(name)) }
func (b *Builder) RefIndex()               { b.push(bytecode.OpRefIndex) }
func (b *Builder) RefSet(stackOffset int32) { b.push(bytecode.OpRefSet, stackOffset) }

func (b *Builder) Breakpoint() { b.push(bytecode.OpBreakpoint) }
func (b *Builder) Typecheck()  { b.push(bytecode.OpTypecheck) }

func (b *Builder) intern(s string) int32 {
	return int32(b.module.Constants.Get(bytecode.NewConstantString(s)))
}

//
// Structured control flow
//
// BLOCK/IF/LOOP each open a scope (ELSE takes over an IF's scope) whose
// length argument is back-patched once the scope closes; the closing END
// carries the negative offset back to its opener.
//

// PushBlock emits an unconditional BLOCK and opens a scope.
func (b *Builder) PushBlock() {
	idx := b.push(bytecode.OpBlock, 0)
	b.blocks = append(b.blocks, idx)
}

// PushIf emits an IF (consuming the condition already on the stack) and
// opens a scope for its then-branch.
func (b *Builder) PushIf() {
	idx := b.push(bytecode.OpIf, 0)
	b.blocks = append(b.blocks, idx)
}

// PushElse closes the preceding if-branch and opens a new scope for the
// else-branch. It back-patches the IF opener so a false condition jumps
// straight to the first instruction of the else-branch, skipping the ELSE
// opcode itself -- ELSE is only ever reached by falling through after the
// then-branch completes.
func (b *Builder) PushElse() {
	idx := b.push(bytecode.OpElse, 0)
	opener := b.blocks[len(b.blocks)-1]
	b.insts[opener].Args[0] = int32(idx + 1 - opener)
	b.blocks[len(b.blocks)-1] = idx
}

// PushLoop emits a LOOP and opens a scope for its body.
func (b *Builder) PushLoop() {
	idx := b.push(bytecode.OpLoop, 0)
	b.blocks = append(b.blocks, idx)
}

// EndBlock closes the innermost open scope: it back-patches the opener's
// length argument and emits the matching END, carrying the negative
// offset back to the opener.
func (b *Builder) EndBlock() {
	opener := b.blocks[len(b.blocks)-1]
	b.blocks = b.blocks[:len(b.blocks)-1]
	offset := int32(len(b.insts) - opener)
	b.insts[opener].Args[0] = offset
	b.push(bytecode.OpEnd, -offset)
}

// OpenBlocks returns the current nesting depth of open structured-control
// scopes -- zero once every PushXxx has a matching EndBlock.
func (b *Builder) OpenBlocks() int {
	return len(b.blocks)
}

//
// Build / dump
//

// Build packs the accumulated instructions into a bytecode.Chunk plus a
// per-byte-offset line table. Each function (and the top-level script)
// gets its own Builder, so Build does not reset any state for reuse.
//
// Structured-block opcodes (BLOCK/IF/LOOP/ELSE/END) carry a length in
// Args[0] expressed as an instruction-count delta (set by PushElse/
// EndBlock, which only know instruction indices). Since instructions are
// variable-width once packed, that delta is translated here into a byte
// offset using a first pass over instruction byte positions -- the
// runtime only ever sees byte deltas.
func (b *Builder) Build() (*bytecode.Chunk, []int) {
	locs := make([]int, len(b.insts)+1)
	pos := 0
	for i, inst := range b.insts {
		locs[i] = pos
		pos += bytecode.InfoFor(inst.Opcode).Size()
	}
	locs[len(b.insts)] = pos

	chunk := &bytecode.Chunk{}
	var lines []int

	for i, inst := range b.insts {
		info := bytecode.InfoFor(inst.Opcode)
		args := inst.Args
		if info.ArgCount > 0 && info.Has(bytecode.FlagIsBlock|bytecode.FlagIsEnd) {
			target := i + int(args[0])
			args[0] = int32(locs[target] - locs[i])
		}

		start := len(chunk.Code)
		chunk.Code = append(chunk.Code, byte(inst.Opcode))
		for j := 0; j < info.ArgCount; j++ {
			chunk.Code = append(chunk.Code, 0, 0, 0, 0)
			bytecode.EncodeInt32(chunk.Code[start+1+j*4:], args[j])
		}
		for j := start; j < len(chunk.Code); j++ {
			lines = append(lines, inst.Line)
		}
	}

	return chunk, lines
}

// Dump renders the raw (pre-Build) instruction list, one per line,
// matching the original implementation's IRBuilder::dump().
func (b *Builder) Dump() string {
	s := strings.Builder{}
	for i, inst := range b.insts {
		fmt.Fprintf(&s, "%4d: %v\n", i, inst.Dump())
	}
	return s.String()
}
