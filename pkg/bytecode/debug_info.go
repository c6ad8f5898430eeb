/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package bytecode

// DebugInfo contains the debug information matching a Module: everything
// that is not strictly necessary to run a program, but is useful for
// better error reporting and disassembly.
type DebugInfo struct {
	// FunctionLines contains, for each Function Pool entry, the source
	// code line that generated each instruction of its Code. Interpreted
	// as FunctionLines[funcIndex][codeOffset].
	FunctionLines [][]int

	// SourceFile is the name of the source file the Module was compiled
	// from.
	SourceFile string
}

// NewDebugInfo creates an empty DebugInfo sized for a module with the
// given number of functions.
func NewDebugInfo(sourceFile string, numFunctions int) *DebugInfo {
	return &DebugInfo{
		FunctionLines: make([][]int, numFunctions),
		SourceFile:    sourceFile,
	}
}
