/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

// Package stdlib registers llamaScript's small set of native global
// functions (len, str, print) into a VM's function pool and global
// environment, so they are callable from source through the ordinary
// GETGLOBAL+CALL path like any user-defined function.
package stdlib

import (
	"errors"
	"fmt"
	"io"

	"github.com/llamascript/llama/pkg/bytecode"
)

// host is the slice of VM behavior Register needs to bind a native
// function into the global environment.
type host interface {
	bytecode.NativeVM
	DefineNative(name string, params []bytecode.Param, fn bytecode.NativeFunc)
}

// Register binds len, str and print into vm's global environment, with
// print writing to out.
func Register(vm host, out io.Writer) {
	vm.DefineNative("len", []bytecode.Param{{Field: "value"}}, lenFn)
	vm.DefineNative("str", []bytecode.Param{{Field: "value"}}, strFn)
	vm.DefineNative("print", []bytecode.Param{{Field: "value"}}, printFn(out))
}

// lenFn implements `len`: the element count of a list or object, the byte
// length of a string, an error for anything else.
func lenFn(vm bytecode.NativeVM, argc int) error {
	if argc != 1 {
		return fmt.Errorf("len expects 1 argument, got %d", argc)
	}
	v := vm.Pop()
	n, ok := v.Lenof()
	if !ok {
		return errors.New("len requires a list, object or string")
	}
	vm.Push(bytecode.NewInt(n))
	return nil
}

// strFn implements `str`: the value's textual representation, as returned
// by Value.String.
func strFn(vm bytecode.NativeVM, argc int) error {
	if argc != 1 {
		return fmt.Errorf("str expects 1 argument, got %d", argc)
	}
	v := vm.Pop()
	vm.Push(bytecode.NewString(v.String()))
	return nil
}

// printFn implements `print`: writes the value's String representation
// followed by a newline to out, and leaves Void as its result.
func printFn(out io.Writer) bytecode.NativeFunc {
	return func(vm bytecode.NativeVM, argc int) error {
		if argc != 1 {
			return fmt.Errorf("print expects 1 argument, got %d", argc)
		}
		v := vm.Pop()
		if _, err := fmt.Fprintln(out, v.String()); err != nil {
			return err
		}
		vm.Push(bytecode.Void)
		return nil
	}
}
