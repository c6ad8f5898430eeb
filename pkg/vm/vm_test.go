/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llamascript/llama/pkg/bytecode"
	"github.com/llamascript/llama/pkg/errs"
)

func newVM() *VM {
	log := errs.NewLogger()
	log.Recoverable = true
	return New(bytecode.NewModule(), log)
}

func runOK(t *testing.T, vm *VM, source string) {
	t.Helper()
	err := vm.DoString(source, "test")
	require.Nil(t, err, "%v", err)
}

func TestGlobalArithmetic(t *testing.T) {
	vm := newVM()
	runOK(t, vm, `var x = 1 + 2 * 3; var y = x;`)
	assert.Equal(t, bytecode.NewInt(7), vm.globals["x"])
	assert.Equal(t, bytecode.NewInt(7), vm.globals["y"])
}

func TestPowerIsRightAssociative(t *testing.T) {
	vm := newVM()
	runOK(t, vm, `var x = 2 ** 3 ** 2;`)
	assert.Equal(t, bytecode.NewInt(512), vm.globals["x"])
}

func TestUnaryBindsTighterThanPower(t *testing.T) {
	vm := newVM()
	runOK(t, vm, `var x = -2 ** 2;`)
	assert.Equal(t, bytecode.NewInt(4), vm.globals["x"])
}

func TestIfElse(t *testing.T) {
	vm := newVM()
	runOK(t, vm, `
		var a = 0;
		if 1 < 2 {
			a = 10;
		} else {
			a = 20;
		}
	`)
	assert.Equal(t, bytecode.NewInt(10), vm.globals["a"])

	vm2 := newVM()
	runOK(t, vm2, `
		var a = 0;
		if 1 > 2 {
			a = 10;
		} else {
			a = 20;
		}
	`)
	assert.Equal(t, bytecode.NewInt(20), vm2.globals["a"])
}

func TestWhileLoop(t *testing.T) {
	vm := newVM()
	runOK(t, vm, `
		var i = 0;
		var sum = 0;
		while i < 5 {
			sum = sum + i;
			i = i + 1;
		}
	`)
	assert.Equal(t, bytecode.NewInt(10), vm.globals["sum"])
	assert.Equal(t, bytecode.NewInt(5), vm.globals["i"])
}

func TestLoopBreak(t *testing.T) {
	vm := newVM()
	runOK(t, vm, `
		var i = 0;
		loop {
			i = i + 1;
			if i == 3 {
				break;
			}
		}
	`)
	assert.Equal(t, bytecode.NewInt(3), vm.globals["i"])
}

func TestBreakInNestedLoopLeavesOuterLoopFrameIntact(t *testing.T) {
	vm := newVM()
	runOK(t, vm, `
		var a = 0;
		while a < 2 {
			a = a + 1;
			while true {
				if true {
					break;
				}
			}
		}
	`)
	assert.Equal(t, bytecode.NewInt(2), vm.globals["a"])
}

func TestFunctionCall(t *testing.T) {
	vm := newVM()
	runOK(t, vm, `
		fn add(a, b) {
			return a + b;
		}
		var r = add(3, 4);
	`)
	assert.Equal(t, bytecode.NewInt(7), vm.globals["r"])
}

func TestRedeclarationIsRuntimeError(t *testing.T) {
	vm := newVM()
	err := vm.DoString(`var x = 1; var x = 2;`, "test")
	require.NotNil(t, err)
	_, isRuntime := err.(*errs.Runtime)
	assert.True(t, isRuntime)
}

func TestUnknownGlobalIsRuntimeError(t *testing.T) {
	vm := newVM()
	err := vm.DoString(`var r = missing;`, "test")
	require.NotNil(t, err)
	_, isRuntime := err.(*errs.Runtime)
	assert.True(t, isRuntime)
}

func TestDivisionByZero(t *testing.T) {
	vm := newVM()
	err := vm.DoString(`var r = 1 / 0;`, "test")
	require.NotNil(t, err)
}

func TestAsConversion(t *testing.T) {
	vm := newVM()
	runOK(t, vm, `var x = 3 as float;`)
	assert.Equal(t, bytecode.NewFloat(3), vm.globals["x"])
}

func TestListLiteralAndIndex(t *testing.T) {
	vm := newVM()
	runOK(t, vm, `var xs = [1, 2, 3]; var y = xs[1];`)
	assert.Equal(t, bytecode.NewInt(2), vm.globals["y"])
}

func TestStackBalanceAfterStatements(t *testing.T) {
	vm := newVM()
	runOK(t, vm, `
		var a = 1;
		var b = 2;
		a = a + b;
		if a > 0 { a = a; }
		while false { a = a; }
	`)
	assert.Equal(t, 0, vm.stack.size())
}
