/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package bytecode

const (
	// MaxConstants is the maximum number of constants a single Module's
	// ConstantPool may hold. Equal to 2^31, so that every index
	// (0 through 2^31-1) fits into a signed 32-bit instruction argument,
	// and large enough that no real program will ever hit it.
	MaxConstants = 2_147_483_648
)

// Module is the compilation unit and the VM's program: it owns the
// constant, function and class pools produced by compiling one source
// file.
type Module struct {
	Constants ConstantPool
	Functions FunctionPool
	Classes   ClassPool

	// EntryFunction indexes the Functions entry that execution starts
	// from: the last function added by a top-level compile.
	EntryFunction int
}

// NewModule creates an empty Module.
func NewModule() *Module {
	return &Module{}
}
