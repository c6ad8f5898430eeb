/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

// Package vm is llamaScript's bytecode virtual machine: a single operand
// stack and a flat global/local name environment, interpreting one
// Module's compiled functions opcode by opcode.
package vm

import (
	"fmt"
	"os"

	"github.com/llamascript/llama/pkg/bytecode"
	"github.com/llamascript/llama/pkg/compiler"
	"github.com/llamascript/llama/pkg/errs"
	"github.com/llamascript/llama/pkg/scanner"
)

// DefaultMemoryLimit is the default cap, in bytes, on the combined
// payload size of every reference-kinded value the VM is holding.
const DefaultMemoryLimit = 1024 * 1024

// VM owns a module, the operand stack, and the global/local name
// environment. There is exactly one VM per embedding (single threaded, no
// synchronization).
type VM struct {
	Module *bytecode.Module
	Log    *errs.Logger

	// DebugTraceExecution, when set, makes run() print the stack contents
	// and the next instruction before executing it, to standard error.
	DebugTraceExecution bool

	stack   *Stack
	globals map[string]bytecode.Value

	memLimit int
	memUsed  int
}

// New creates a VM over mod, sharing log for diagnostics.
func New(mod *bytecode.Module, log *errs.Logger) *VM {
	return &VM{
		Module:   mod,
		Log:      log,
		stack:    &Stack{},
		globals:  map[string]bytecode.Value{},
		memLimit: DefaultMemoryLimit,
	}
}

// SetMemoryLimit overrides the default live-payload byte budget.
func (vm *VM) SetMemoryLimit(bytes int) {
	vm.memLimit = bytes
}

// DefineNative registers fn as a native function named name, callable from
// llamaScript source through the ordinary GETGLOBAL+CALL path: it is added
// to the module's function pool and bound as a Function value under name in
// the flat global/local environment.
func (vm *VM) DefineNative(name string, params []bytecode.Param, fn bytecode.NativeFunc) {
	idx := vm.Module.Functions.Add(&bytecode.FunctionEntry{
		Name:   name,
		Args:   params,
		Native: fn,
	})
	vm.globals[name] = bytecode.NewFunction(idx)
}

//
// bytecode.NativeVM
//

// Push pushes v onto the operand stack, accounting for its payload size
// against the memory limit.
func (vm *VM) Push(v bytecode.Value) {
	vm.memUsed += payloadSize(v)
	if vm.memUsed > vm.memLimit {
		vm.Log.Log(errs.LevelPanic, "memory limit of %d bytes exceeded", vm.memLimit)
	}
	vm.stack.push(v)
}

// Pop removes and returns the operand stack's top value.
func (vm *VM) Pop() bytecode.Value {
	v := vm.stack.pop()
	vm.memUsed -= payloadSize(v)
	return v
}

// Peek returns the value distance slots from the top without removing it
// (distance 0 is the top).
func (vm *VM) Peek(distance int) bytecode.Value {
	return vm.stack.peek(distance)
}

// trace prints the current stack contents and the instruction about to be
// executed at pc, for --trace / DebugTraceExecution.
func (vm *VM) trace(pc int, mnemonic string, args []int32) {
	fmt.Fprint(os.Stderr, "          ")
	for i := 0; i < vm.stack.size(); i++ {
		fmt.Fprintf(os.Stderr, "[ %v ]", vm.stack.at(i).String())
	}
	fmt.Fprintln(os.Stderr)

	fmt.Fprintf(os.Stderr, "%05d %-12s", pc, mnemonic)
	for _, a := range args {
		fmt.Fprintf(os.Stderr, " %d", a)
	}
	fmt.Fprintln(os.Stderr)
}

func payloadSize(v bytecode.Value) int {
	switch v.Kind {
	case bytecode.KindString:
		return len(v.AsString())
	case bytecode.KindUserdata:
		return len(v.AsUserdata())
	case bytecode.KindList:
		n := 0
		for _, e := range v.AsList() {
			n += payloadSize(e)
		}
		return n
	case bytecode.KindObject:
		n := 0
		for _, e := range v.AsObject() {
			n += payloadSize(e)
		}
		return n
	default:
		return int(v.Sizeof())
	}
}

//
// Entry points
//

// DoString loads, compiles and executes source text as a fresh top-level
// function call with no arguments.
func (vm *VM) DoString(source, fileName string) errs.Error {
	idx, err := vm.LoadString(source, fileName)
	if err != nil {
		return err
	}
	return vm.CallIndex(idx, nil)
}

// LoadString scans and compiles source, registering its top-level
// function in the module and returning its index. It does not execute
// anything.
func (vm *VM) LoadString(source, fileName string) (int, errs.Error) {
	toks, err := scanner.New(source, fileName, vm.Log).Scan()
	if err != nil {
		return 0, err
	}
	return compiler.Compile(toks, vm.Module, vm.Log)
}

// CallIndex invokes the function at idx in the module's function pool
// directly with the given arguments (bypassing the stack-based call
// convention used by the CALL opcode).
func (vm *VM) CallIndex(idx int, args []bytecode.Value) errs.Error {
	fn := vm.Module.Functions.At(idx)
	_, err := vm.invokeValue(fn, args)
	return err
}

// Call implements the stack-based call convention the CALL opcode uses: a
// Function value at stack position -(argc+1), with argc arguments above
// it. The callee is popped only if popCallee is set; the arguments are
// always consumed, and the callee's result is pushed back on success.
func (vm *VM) Call(argc int, popCallee bool) errs.Error {
	calleeIdx := vm.stack.size() - argc - 1
	if calleeIdx < 0 {
		return vm.Log.Log(errs.LevelPanic, "stack underflow preparing call")
	}
	callee := vm.stack.at(calleeIdx)
	if callee.Kind != bytecode.KindFunction {
		return vm.Log.Log(errs.LevelRuntimeError, "call target is not a function")
	}

	args := make([]bytecode.Value, argc)
	for i := 0; i < argc; i++ {
		args[i] = vm.stack.at(calleeIdx + 1 + i)
	}
	if popCallee {
		vm.stack.truncate(calleeIdx)
	} else {
		vm.stack.truncate(calleeIdx + 1)
	}

	fn := vm.Module.Functions.At(callee.AsFunction())
	result, err := vm.invokeValue(fn, args)
	if err != nil {
		return err
	}
	vm.Push(result)
	return nil
}

// invokeValue runs fn to completion and returns the value it leaves on
// the stack (RETURN's operand, or Void for RETURNV/fallthrough), removing
// it from the stack so the caller controls whether/how it is pushed back.
func (vm *VM) invokeValue(fn *bytecode.FunctionEntry, args []bytecode.Value) (bytecode.Value, errs.Error) {
	if fn.IsNative() {
		for _, a := range args {
			vm.Push(a)
		}
		if err := fn.Native(vm, len(args)); err != nil {
			return bytecode.Void, vm.Log.Log(errs.LevelRuntimeError, "%v", err)
		}
		if vm.stack.size() == 0 {
			return bytecode.Void, nil
		}
		return vm.Pop(), nil
	}

	base := vm.stack.size()
	if err := vm.run(fn, args); err != nil {
		return bytecode.Void, err
	}
	if vm.stack.size() <= base {
		return bytecode.Void, nil
	}
	return vm.Pop(), nil
}

// blockFrame tracks one open structured-control-flow scope during
// execution: which opcode opened it and the byte PC of its matching
// END/ELSE, so the zero-argument REPEAT/BREAK opcodes can find the
// nearest enclosing loop without encoding a jump target themselves.
type blockFrame struct {
	opener bytecode.OpCode
	start  int // pc of the first instruction inside the scope
	end    int // pc of the scope's matching END/ELSE
}

// run executes fn's compiled body, leaving its result (if any) on top of
// the operand stack. Function parameters are bound into the flat
// global/local environment under their declared names for the duration
// of the call and restored (or removed) afterwards -- there is no
// separate call-frame-local namespace, matching the single environment
// the GETGLOBAL/SETGLOBAL opcodes address uniformly for both `var`
// globals and `let`/`const` locals.
func (vm *VM) run(fn *bytecode.FunctionEntry, args []bytecode.Value) errs.Error {
	type saved struct {
		value bytecode.Value
		had   bool
	}
	restore := make(map[string]saved, len(fn.Args))
	for i, p := range fn.Args {
		if i >= len(args) {
			break
		}
		prev, had := vm.globals[p.Field]
		restore[p.Field] = saved{prev, had}
		vm.globals[p.Field] = args[i]
	}
	defer func() {
		for name, s := range restore {
			if s.had {
				vm.globals[name] = s.value
			} else {
				delete(vm.globals, name)
			}
		}
	}()

	code := fn.Code.Code
	pc := 0
	var blocks []blockFrame

	for pc < len(code) {
		op := bytecode.OpCode(code[pc])
		info := bytecode.InfoFor(op)

		var a [3]int32
		for i := 0; i < info.ArgCount; i++ {
			a[i] = bytecode.DecodeInt32(code[pc+1+i*4:])
		}
		next := pc + info.Size()

		if vm.DebugTraceExecution {
			vm.trace(pc, info.Mnemonic, a[:info.ArgCount])
		}

		switch op {
		case bytecode.OpNop, bytecode.OpBreakpoint, bytecode.OpTypecheck, bytecode.OpRef, bytecode.OpRefIndex:
			// No-op at runtime: REF/REFINDEX are reserved (no compiler
			// production emits a bare REF or an indexed assignment
			// target), TYPECHECK is reserved for a future static pass.

		case bytecode.OpJp:
			next = pc + int(a[0])
		case bytecode.OpJz:
			b, ok := vm.Pop().Truthy()
			if !ok {
				return vm.Log.Log(errs.LevelRuntimeError, "branch condition is not a bool")
			}
			if !b {
				next = pc + int(a[0])
			}
		case bytecode.OpJnz:
			b, ok := vm.Pop().Truthy()
			if !ok {
				return vm.Log.Log(errs.LevelRuntimeError, "branch condition is not a bool")
			}
			if b {
				next = pc + int(a[0])
			}

		case bytecode.OpBlock:
			blocks = append(blocks, blockFrame{op, next, pc + int(a[0])})

		case bytecode.OpIf:
			b, ok := vm.Pop().Truthy()
			if !ok {
				return vm.Log.Log(errs.LevelRuntimeError, "if condition is not a bool")
			}
			endPC := pc + int(a[0])
			blocks = append(blocks, blockFrame{op, next, endPC})
			if !b {
				next = endPC
			}

		case bytecode.OpElse:
			// Only ever reached by falling through once the then-branch
			// completes (a false condition jumps straight past ELSE into
			// the else-branch body) -- so reaching it always means "skip
			// the else-branch".
			if len(blocks) > 0 {
				blocks = blocks[:len(blocks)-1]
			}
			endPC := pc + int(a[0])
			blocks = append(blocks, blockFrame{op, next, endPC})
			next = endPC

		case bytecode.OpLoop:
			blocks = append(blocks, blockFrame{op, next, pc + int(a[0])})

		case bytecode.OpEnd:
			if len(blocks) > 0 {
				blocks = blocks[:len(blocks)-1]
			}

		case bytecode.OpRepeat:
			// Drop every frame opened inside the loop body (nested
			// `if`s, inner loops) but keep the loop's own frame open --
			// REPEAT jumps back into the same iteration, not out of it.
			if i, ok := nearestLoopIndex(blocks); ok {
				next = blocks[i].start
				blocks = blocks[:i+1]
			}

		case bytecode.OpBreak:
			// Drop the loop's own frame along with everything opened
			// inside it -- BREAK exits the loop entirely, resuming just
			// past the loop's END so that END does not pop a frame again.
			if i, ok := nearestLoopIndex(blocks); ok {
				next = blocks[i].end + bytecode.InfoFor(bytecode.OpEnd).Size()
				blocks = blocks[:i]
			}

		case bytecode.OpPushNull:
			vm.Push(bytecode.Null)
		case bytecode.OpPushTrue:
			vm.Push(bytecode.NewBool(true))
		case bytecode.OpPushFalse:
			vm.Push(bytecode.NewBool(false))
		case bytecode.OpPushDyn:
			vm.Push(bytecode.NewDynamic(vm.Pop()))
		case bytecode.OpPushInt, bytecode.OpPushFloat, bytecode.OpPushString:
			vm.Push(vm.Module.Constants.At(int(a[0])).ToValue())
		case bytecode.OpPushList:
			n := int(a[0])
			elems := make([]bytecode.Value, n)
			for i := n - 1; i >= 0; i-- {
				elems[i] = vm.Pop()
			}
			vm.Push(bytecode.NewList(elems))
		case bytecode.OpPushFunc:
			vm.Push(bytecode.NewFunction(int(a[0])))

		case bytecode.OpNewGlobal, bytecode.OpNewLocal:
			name := vm.Module.Constants.At(int(a[0])).AsString()
			if _, exists := vm.globals[name]; exists {
				return vm.Log.Log(errs.LevelRuntimeError, "`%v` already declared", name)
			}
			vm.globals[name] = bytecode.Null

		case bytecode.OpGetGlobal, bytecode.OpGetProp:
			name := vm.Module.Constants.At(int(a[0])).AsString()
			v, ok := vm.globals[name]
			if !ok {
				return vm.Log.Log(errs.LevelRuntimeError, "`%v` not declared", name)
			}
			vm.Push(v)

		case bytecode.OpSetGlobal, bytecode.OpSetProp:
			name := vm.Module.Constants.At(int(a[0])).AsString()
			v := vm.Pop()
			if _, ok := vm.globals[name]; !ok {
				return vm.Log.Log(errs.LevelRuntimeError, "`%v` not declared", name)
			}
			vm.globals[name] = v

		case bytecode.OpGetIndex:
			idx := vm.Pop()
			obj := vm.Pop()
			if obj.Kind != bytecode.KindList || idx.Kind != bytecode.KindInt {
				return vm.Log.Log(errs.LevelTypeError, "indexing requires a list and an int index")
			}
			elems := obj.AsList()
			i := int(idx.AsInt())
			if i < 0 || i >= len(elems) {
				return vm.Log.Log(errs.LevelRuntimeError, "index %d out of range", i)
			}
			vm.Push(elems[i])

		case bytecode.OpSetIndex:
			val := vm.Pop()
			idx := vm.Pop()
			obj := vm.Pop()
			if obj.Kind != bytecode.KindList || idx.Kind != bytecode.KindInt {
				return vm.Log.Log(errs.LevelTypeError, "indexing requires a list and an int index")
			}
			elems := obj.AsList()
			i := int(idx.AsInt())
			if i < 0 || i >= len(elems) {
				return vm.Log.Log(errs.LevelRuntimeError, "index %d out of range", i)
			}
			elems[i] = val
			vm.Push(bytecode.NewList(elems))

		case bytecode.OpPop:
			vm.Pop()
		case bytecode.OpPopN:
			for i := int32(0); i < a[0]; i++ {
				vm.Pop()
			}

		case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpMod, bytecode.OpPow:
			rhs := vm.Pop()
			lhs := vm.Pop()
			res, ok := arith(op, lhs, rhs)
			if !ok {
				return vm.Log.Log(errs.LevelRuntimeError, "invalid operands to arithmetic operator")
			}
			vm.Push(res)

		case bytecode.OpNegate:
			v, ok := vm.Pop().Negate()
			if !ok {
				return vm.Log.Log(errs.LevelTypeError, "negate requires a numeric operand")
			}
			vm.Push(v)
		case bytecode.OpPromote:
			v, ok := vm.Pop().Promote()
			if !ok {
				return vm.Log.Log(errs.LevelTypeError, "unary + requires a numeric operand")
			}
			vm.Push(v)

		case bytecode.OpBitAnd, bytecode.OpBitOr, bytecode.OpBitXor, bytecode.OpBitShl, bytecode.OpBitShr:
			rhs := vm.Pop()
			lhs := vm.Pop()
			res, ok := bitwise(op, lhs, rhs)
			if !ok {
				return vm.Log.Log(errs.LevelTypeError, "bitwise operators require int operands")
			}
			vm.Push(res)
		case bytecode.OpBitNot:
			v, ok := vm.Pop().BitNot()
			if !ok {
				return vm.Log.Log(errs.LevelTypeError, "bitwise not requires an int operand")
			}
			vm.Push(v)

		case bytecode.OpNot:
			b, ok := vm.Pop().Truthy()
			if !ok {
				return vm.Log.Log(errs.LevelTypeError, "`not` requires a bool operand")
			}
			vm.Push(bytecode.NewBool(!b))
		case bytecode.OpAnd:
			rhs := vm.Pop()
			lhs := vm.Pop()
			lb, ok1 := lhs.Truthy()
			rb, ok2 := rhs.Truthy()
			if !ok1 || !ok2 {
				return vm.Log.Log(errs.LevelTypeError, "`and` requires bool operands")
			}
			vm.Push(bytecode.NewBool(lb && rb))
		case bytecode.OpOr:
			rhs := vm.Pop()
			lhs := vm.Pop()
			lb, ok1 := lhs.Truthy()
			rb, ok2 := rhs.Truthy()
			if !ok1 || !ok2 {
				return vm.Log.Log(errs.LevelTypeError, "`or` requires bool operands")
			}
			vm.Push(bytecode.NewBool(lb || rb))

		case bytecode.OpEq:
			rhs := vm.Pop()
			lhs := vm.Pop()
			vm.Push(bytecode.NewBool(lhs.Eq(rhs)))
		case bytecode.OpNe:
			rhs := vm.Pop()
			lhs := vm.Pop()
			vm.Push(bytecode.NewBool(lhs.Ne(rhs)))
		case bytecode.OpLt:
			rhs := vm.Pop()
			lhs := vm.Pop()
			vm.Push(bytecode.NewBool(lhs.Lt(rhs)))
		case bytecode.OpLe:
			rhs := vm.Pop()
			lhs := vm.Pop()
			vm.Push(bytecode.NewBool(lhs.Le(rhs)))
		case bytecode.OpGt:
			rhs := vm.Pop()
			lhs := vm.Pop()
			vm.Push(bytecode.NewBool(lhs.Gt(rhs)))
		case bytecode.OpGe:
			rhs := vm.Pop()
			lhs := vm.Pop()
			vm.Push(bytecode.NewBool(lhs.Ge(rhs)))

		case bytecode.OpSizeof:
			vm.Push(bytecode.NewInt(vm.Pop().Sizeof()))
		case bytecode.OpLenof:
			n, ok := vm.Pop().Lenof()
			if !ok {
				return vm.Log.Log(errs.LevelTypeError, "lenof requires a list, string or object")
			}
			vm.Push(bytecode.NewInt(n))
		case bytecode.OpTypeof:
			vm.Push(bytecode.NewString(vm.Pop().Kind.String()))

		case bytecode.OpAs:
			target := constNameToKind(vm.Module.Constants.At(int(a[0])).AsString())
			v, ok := vm.Pop().Convert(target)
			if !ok {
				return vm.Log.Log(errs.LevelTypeError, "invalid `as` conversion")
			}
			vm.Push(v)

		case bytecode.OpCall, bytecode.OpCallV:
			if err := vm.Call(int(a[0]), true); err != nil {
				return err
			}
			if op == bytecode.OpCallV {
				vm.Pop()
			}

		case bytecode.OpReturn:
			return nil
		case bytecode.OpReturnV:
			vm.Push(bytecode.Void)
			return nil

		case bytecode.OpRefGlobal, bytecode.OpRefProperty:
			name := vm.Module.Constants.At(int(a[0])).AsString()
			vm.Push(bytecode.NewString(name))

		case bytecode.OpRefSet:
			offset := int(a[0])
			value := vm.Pop()
			refIdx := vm.stack.size() + offset
			if refIdx < 0 || refIdx >= vm.stack.size() {
				return vm.Log.Log(errs.LevelPanic, "REFSET offset out of range")
			}
			name := vm.stack.at(refIdx).AsString()
			if _, ok := vm.globals[name]; !ok {
				return vm.Log.Log(errs.LevelRuntimeError, "`%v` not declared", name)
			}
			vm.globals[name] = value
			vm.stack.setAt(refIdx, value)

		default:
			return vm.Log.Log(errs.LevelPanic, "unimplemented opcode %v", info.Mnemonic)
		}

		pc = next
	}

	return nil
}

// nearestLoopIndex finds the innermost open LOOP frame's index, searching
// from the top of the block stack -- a BREAK/REPEAT inside a nested `if`
// still targets the enclosing loop, not the `if`.
func nearestLoopIndex(blocks []blockFrame) (int, bool) {
	for i := len(blocks) - 1; i >= 0; i-- {
		if blocks[i].opener == bytecode.OpLoop {
			return i, true
		}
	}
	return 0, false
}

func arith(op bytecode.OpCode, lhs, rhs bytecode.Value) (bytecode.Value, bool) {
	switch op {
	case bytecode.OpAdd:
		return lhs.Add(rhs)
	case bytecode.OpSub:
		return lhs.Sub(rhs)
	case bytecode.OpMul:
		return lhs.Mul(rhs)
	case bytecode.OpDiv:
		return lhs.Div(rhs)
	case bytecode.OpMod:
		return lhs.Mod(rhs)
	case bytecode.OpPow:
		return lhs.Pow(rhs)
	default:
		return bytecode.Value{}, false
	}
}

func bitwise(op bytecode.OpCode, lhs, rhs bytecode.Value) (bytecode.Value, bool) {
	switch op {
	case bytecode.OpBitAnd:
		return lhs.BitAnd(rhs)
	case bytecode.OpBitOr:
		return lhs.BitOr(rhs)
	case bytecode.OpBitXor:
		return lhs.BitXor(rhs)
	case bytecode.OpBitShl:
		return lhs.BitShl(rhs)
	case bytecode.OpBitShr:
		return lhs.BitShr(rhs)
	default:
		return bytecode.Value{}, false
	}
}

func constNameToKind(name string) bytecode.Kind {
	switch name {
	case "int":
		return bytecode.KindInt
	case "float":
		return bytecode.KindFloat
	case "bool":
		return bytecode.KindBool
	default:
		return bytecode.KindNull
	}
}
