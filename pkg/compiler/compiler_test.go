/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llamascript/llama/pkg/bytecode"
	"github.com/llamascript/llama/pkg/compiler"
	"github.com/llamascript/llama/pkg/errs"
	"github.com/llamascript/llama/pkg/scanner"
)

func compile(t *testing.T, source string) (*bytecode.Module, int) {
	t.Helper()
	log := errs.NewLogger()
	toks, err := scanner.New(source, "test", log).Scan()
	require.Nil(t, err, "%v", err)

	mod := bytecode.NewModule()
	idx, cerr := compiler.Compile(toks, mod, log)
	require.Nil(t, cerr, "%v", cerr)
	return mod, idx
}

func TestCompileProducesNonEmptyCode(t *testing.T) {
	mod, idx := compile(t, `var x = 1 + 2;`)
	entry := mod.Functions.At(idx)
	assert.NotEmpty(t, entry.Code.Code)
}

func TestCompileInternsSharedConstantsOnce(t *testing.T) {
	mod, _ := compile(t, `var a = "same"; var b = "same";`)

	count := 0
	for i := 0; i < mod.Constants.Size(); i++ {
		if e := mod.Constants.At(i); e.Kind == bytecode.ConstantString && e.AsString() == "same" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCompileRejectsForLoop(t *testing.T) {
	log := errs.NewLogger()
	log.Recoverable = true
	toks, err := scanner.New(`for {}`, "test", log).Scan()
	require.Nil(t, err)

	mod := bytecode.NewModule()
	_, cerr := compiler.Compile(toks, mod, log)
	require.NotNil(t, cerr)
	_, isSyntax := cerr.(*errs.SyntaxError)
	assert.True(t, isSyntax)
}

func TestCompileRejectsElseWithoutIf(t *testing.T) {
	log := errs.NewLogger()
	log.Recoverable = true
	toks, err := scanner.New(`else {}`, "test", log).Scan()
	require.Nil(t, err)

	mod := bytecode.NewModule()
	_, cerr := compiler.Compile(toks, mod, log)
	require.NotNil(t, cerr)
}
