/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package stdlib_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llamascript/llama/pkg/bytecode"
	"github.com/llamascript/llama/pkg/errs"
	"github.com/llamascript/llama/pkg/stdlib"
	"github.com/llamascript/llama/pkg/vm"
)

func newVM(out *bytes.Buffer) *vm.VM {
	log := errs.NewLogger()
	log.Recoverable = true
	v := vm.New(bytecode.NewModule(), log)
	stdlib.Register(v, out)
	return v
}

func TestLenOfString(t *testing.T) {
	var out bytes.Buffer
	v := newVM(&out)
	err := v.DoString(`var n = len("hello");`, "test")
	require.Nil(t, err, "%v", err)
}

func TestLenOfList(t *testing.T) {
	var out bytes.Buffer
	v := newVM(&out)
	err := v.DoString(`var n = len([1, 2, 3]);`, "test")
	require.Nil(t, err, "%v", err)
}

func TestStrConvertsInt(t *testing.T) {
	var out bytes.Buffer
	v := newVM(&out)
	err := v.DoString(`var s = str(42);`, "test")
	require.Nil(t, err, "%v", err)
}

func TestPrintWritesToSink(t *testing.T) {
	var out bytes.Buffer
	v := newVM(&out)
	err := v.DoString(`print("hi");`, "test")
	require.Nil(t, err, "%v", err)
	assert.Equal(t, "hi\n", out.String())
}
