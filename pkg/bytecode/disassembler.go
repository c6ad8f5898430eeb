/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package bytecode

import (
	"fmt"
	"io"
	"strings"
)

// Disassemble writes a human-readable listing of every function in m to
// out, resolving constant-pool references and indenting structured blocks.
func (m *Module) Disassemble(out io.Writer, di *DebugInfo) {
	for i := 0; i < m.Functions.Size(); i++ {
		fn := m.Functions.At(i)
		fmt.Fprintf(out, "== function %d", i)
		if fn.Name != "" {
			fmt.Fprintf(out, " %q", fn.Name)
		}
		fmt.Fprintln(out, " ==")

		if fn.IsNative() {
			fmt.Fprintln(out, "  <native>")
			continue
		}

		indent := 0
		offset := 0
		for offset < len(fn.Code.Code) {
			offset = m.disassembleInstruction(fn.Code, out, offset, di, i, &indent)
		}
	}
}

// disassembleInstruction disassembles the instruction at offset and returns
// the offset of the next one. indent tracks the current structured-block
// nesting depth: ELSE/END dedent before printing, and any block-opening
// opcode indents after.
func (m *Module) disassembleInstruction(chunk *Chunk, out io.Writer, offset int, di *DebugInfo, funcIndex int, indent *int) int {
	op := OpCode(chunk.Code[offset])
	in := InfoFor(op)

	if op == OpEnd || op == OpElse {
		if *indent > 0 {
			*indent--
		}
	}

	fmt.Fprintf(out, "%05d ", offset)
	if di != nil && funcIndex < len(di.FunctionLines) {
		lines := di.FunctionLines[funcIndex]
		if offset < len(lines) {
			if offset > 0 && lines[offset] == lines[offset-1] {
				fmt.Fprint(out, "   | ")
			} else {
				fmt.Fprintf(out, "%4d ", lines[offset])
			}
		}
	}

	fmt.Fprint(out, strings.Repeat("  ", *indent))

	args := make([]int32, in.ArgCount)
	for a := 0; a < in.ArgCount; a++ {
		args[a] = DecodeInt32(chunk.Code[offset+1+a*4:])
	}

	switch {
	case in.Has(FlagConstArg) && in.ArgCount > 0:
		idx := int(args[0])
		entry := "?"
		if idx >= 0 && idx < m.Constants.Size() {
			entry = m.Constants.At(idx).dump()
		}
		fmt.Fprintf(out, "%-12s %4d '%v'\n", in.Mnemonic, idx, entry)

	case in.ArgCount > 0:
		fmt.Fprintf(out, "%-12s", in.Mnemonic)
		for _, a := range args {
			fmt.Fprintf(out, " %d", a)
		}
		fmt.Fprintln(out)

	default:
		fmt.Fprintln(out, in.Mnemonic)
	}

	if in.Has(FlagIsBlock) || op == OpElse {
		*indent++
	}

	return offset + in.Size()
}
