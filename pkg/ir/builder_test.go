/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llamascript/llama/pkg/bytecode"
	"github.com/llamascript/llama/pkg/ir"
)

func TestSimpleEmittersProduceOneInstEach(t *testing.T) {
	mod := bytecode.NewModule()
	b := ir.NewBuilder(mod)

	b.PushTrue()
	b.Add()
	b.Return()

	require.Equal(t, 3, b.Size())
	assert.Equal(t, bytecode.OpPushTrue, b.At(0).Opcode)
	assert.Equal(t, bytecode.OpAdd, b.At(1).Opcode)
	assert.Equal(t, bytecode.OpReturn, b.At(2).Opcode)
}

func TestPushIntInternsConstantOnce(t *testing.T) {
	mod := bytecode.NewModule()
	b := ir.NewBuilder(mod)

	b.PushInt(42)
	b.PushInt(42)

	assert.Equal(t, b.At(0).Args[0], b.At(1).Args[0])
	assert.Equal(t, 1, mod.Constants.Size())
}

func TestPopNCollapsesToPopForOne(t *testing.T) {
	mod := bytecode.NewModule()
	b := ir.NewBuilder(mod)

	b.PopN(1)

	require.Equal(t, 1, b.Size())
	assert.Equal(t, bytecode.OpPop, b.At(0).Opcode)
}

func TestPopNIsNoOpForZero(t *testing.T) {
	mod := bytecode.NewModule()
	b := ir.NewBuilder(mod)

	b.PopN(0)

	assert.Equal(t, 0, b.Size())
}

func TestBlockOpenAndCloseTracksDepth(t *testing.T) {
	mod := bytecode.NewModule()
	b := ir.NewBuilder(mod)

	assert.Equal(t, 0, b.OpenBlocks())
	b.PushBlock()
	assert.Equal(t, 1, b.OpenBlocks())
	b.PushLoop()
	assert.Equal(t, 2, b.OpenBlocks())
	b.EndBlock()
	assert.Equal(t, 1, b.OpenBlocks())
	b.EndBlock()
	assert.Equal(t, 0, b.OpenBlocks())
}

func TestEndBlockBackpatchesOpenerLength(t *testing.T) {
	mod := bytecode.NewModule()
	b := ir.NewBuilder(mod)

	b.PushBlock()
	b.PushTrue()
	b.Pop()
	b.EndBlock()

	// opener at index 0, three more insts (PushTrue, Pop, End) follow it.
	require.Equal(t, 4, b.Size())
	assert.Equal(t, int32(3), b.At(0).Args[0])
	assert.Equal(t, bytecode.OpEnd, b.At(3).Opcode)
	assert.Equal(t, int32(-3), b.At(3).Args[0])
}

func TestPushElseBackpatchesIfToSkipElseOpcode(t *testing.T) {
	mod := bytecode.NewModule()
	b := ir.NewBuilder(mod)

	b.PushTrue()
	b.PushIf()  // index 1
	b.PushInt(1) // index 2
	b.PushElse() // index 3
	b.PushInt(2) // index 4
	b.EndBlock() // index 5

	// IF's length must point past ELSE, straight to the first instruction
	// of the else-branch (index 4, PushInt(2)): 3+1-1 = 3.
	assert.Equal(t, int32(3), b.At(1).Args[0])
	// ELSE's own length is back-patched by the matching EndBlock: 5-3 = 2.
	assert.Equal(t, int32(2), b.At(3).Args[0])
}

func TestBuildPacksByteOffsetsForBlock(t *testing.T) {
	mod := bytecode.NewModule()
	b := ir.NewBuilder(mod)

	b.PushBlock()  // index 0: BLOCK, 1 arg -> 5 bytes
	b.PushTrue()   // index 1: PUSHTRUE, 0 args -> 1 byte
	b.Pop()        // index 2: POP, 0 args -> 1 byte
	b.EndBlock()   // index 3: END, 1 arg -> 5 bytes

	chunk, lines := b.Build()

	// Byte layout: BLOCK(5) PUSHTRUE(1) POP(1) END(5) = 12 bytes total.
	require.Len(t, chunk.Code, 12)
	require.Len(t, lines, 12)

	// Byte offsets: BLOCK at 0, PUSHTRUE at 5, POP at 6, END at 7.
	assert.Equal(t, byte(bytecode.OpBlock), chunk.Code[0])
	blockArg := bytecode.DecodeInt32(chunk.Code[1:5])
	assert.Equal(t, int32(7), blockArg) // byte offset from BLOCK to END

	assert.Equal(t, byte(bytecode.OpEnd), chunk.Code[7])
	endArg := bytecode.DecodeInt32(chunk.Code[8:12])
	assert.Equal(t, int32(-7), endArg)
}

func TestBuildLeavesNonBlockArgsUntranslated(t *testing.T) {
	mod := bytecode.NewModule()
	b := ir.NewBuilder(mod)

	b.PushInt(7)
	b.Call(3)

	chunk, _ := b.Build()

	// PUSHINT's arg is a constant-pool index, not a block length: it must
	// survive Build unchanged.
	pushIntArg := bytecode.DecodeInt32(chunk.Code[1:5])
	assert.Equal(t, int32(0), pushIntArg)

	callArg := bytecode.DecodeInt32(chunk.Code[6:10])
	assert.Equal(t, int32(3), callArg)
}

func TestDumpRendersMnemonicsAndArgs(t *testing.T) {
	mod := bytecode.NewModule()
	b := ir.NewBuilder(mod)

	b.PushTrue()
	b.Call(2)

	dump := b.Dump()
	assert.Contains(t, dump, "PUSHTRUE")
	assert.Contains(t, dump, "CALL 2")
}

func TestSetAndPopInst(t *testing.T) {
	mod := bytecode.NewModule()
	b := ir.NewBuilder(mod)

	b.GetGlobal("x")
	popped := b.PopInst()
	assert.Equal(t, bytecode.OpGetGlobal, popped.Opcode)
	assert.Equal(t, 0, b.Size())

	b.GetGlobal("x")
	b.Set(0, ir.Inst{Opcode: bytecode.OpGetProp, Args: popped.Args})
	assert.Equal(t, bytecode.OpGetProp, b.At(0).Opcode)
}
