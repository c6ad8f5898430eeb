/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package bytecode

import (
	"fmt"
	"math"
)

// Kind identifies one of the runtime value kinds a llamaScript Value can
// hold.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindObject
	KindUserdata
	KindDynamic
	KindFunction
	KindVoid
)

var kindNames = map[Kind]string{
	KindNull:     "null",
	KindBool:     "bool",
	KindInt:      "int",
	KindFloat:    "float",
	KindString:   "string",
	KindList:     "list",
	KindObject:   "object",
	KindUserdata: "userdata",
	KindDynamic:  "dynamic",
	KindFunction: "function",
	KindVoid:     "void",
}

// String returns the type name as used by the typeof operator and by error
// messages.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// IsRefKind reports whether values of this kind carry an owned heap
// payload (the original's IS_REFTYPE range, String through Userdata).
func (k Kind) IsRefKind() bool {
	return k >= KindString && k <= KindUserdata
}

// Value is a llamaScript runtime value: a tagged union over the kinds in
// Kind. Only one of the typed fields is meaningful, selected by Kind.
type Value struct {
	Kind Kind

	boolVal  bool
	intVal   int32
	floatVal float64
	strVal   string
	listVal  []Value
	objVal   map[string]Value
	udVal    []byte
	funcVal  int
	dynVal   *Value
}

// Null is the singular Null value.
var Null = Value{Kind: KindNull}

// Void is the singular Void value, used as a procedure's "no result".
var Void = Value{Kind: KindVoid}

// NewBool creates a Bool value.
func NewBool(b bool) Value { return Value{Kind: KindBool, boolVal: b} }

// NewInt creates an Int value.
func NewInt(i int32) Value { return Value{Kind: KindInt, intVal: i} }

// NewFloat creates a Float value.
func NewFloat(f float64) Value { return Value{Kind: KindFloat, floatVal: f} }

// NewString creates a String value.
func NewString(s string) Value { return Value{Kind: KindString, strVal: s} }

// NewList creates a List value. The backing slice is copied so later
// mutation of elems does not alias the Value.
func NewList(elems []Value) Value {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return Value{Kind: KindList, listVal: cp}
}

// NewObject creates an Object value from a field map. The map is copied.
func NewObject(fields map[string]Value) Value {
	cp := make(map[string]Value, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Value{Kind: KindObject, objVal: cp}
}

// NewUserdata creates a Userdata value wrapping an opaque byte payload. The
// payload is copied.
func NewUserdata(bs []byte) Value {
	cp := make([]byte, len(bs))
	copy(cp, bs)
	return Value{Kind: KindUserdata, udVal: cp}
}

// NewDynamic wraps another Value as a Dynamic value.
func NewDynamic(v Value) Value {
	cp := v
	return Value{Kind: KindDynamic, dynVal: &cp}
}

// NewFunction creates a Function value pointing at an entry in a
// FunctionPool.
func NewFunction(index int) Value { return Value{Kind: KindFunction, funcVal: index} }

//
// Accessors. Each is meaningful only when Kind matches; callers (the VM,
// the pools) are expected to check Kind first.
//

func (v Value) AsBool() bool               { return v.boolVal }
func (v Value) AsInt() int32               { return v.intVal }
func (v Value) AsFloat() float64           { return v.floatVal }
func (v Value) AsString() string           { return v.strVal }
func (v Value) AsList() []Value            { return v.listVal }
func (v Value) AsObject() map[string]Value { return v.objVal }
func (v Value) AsUserdata() []byte         { return v.udVal }
func (v Value) AsDynamic() Value           { return *v.dynVal }
func (v Value) AsFunction() int            { return v.funcVal }

// Copy returns an independent deep copy of v. Reference-kinded values own
// their heap payload, so assigning them must never alias the source.
func (v Value) Copy() Value {
	switch v.Kind {
	case KindList:
		return NewList(v.listVal)
	case KindObject:
		return NewObject(v.objVal)
	case KindUserdata:
		return NewUserdata(v.udVal)
	case KindDynamic:
		return NewDynamic(v.AsDynamic().Copy())
	default:
		return v
	}
}

// Truthy reports whether v counts as true when used as a branch condition.
// Only Bool values are accepted; ok is false otherwise and the VM raises an
// error (a RuntimeError for a branch condition, a TypeError for
// not/and/or).
func (v Value) Truthy() (value bool, ok bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.boolVal, true
}

// String renders v for display (the `str` stdlib function and error
// messages).
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindVoid:
		return "void"
	case KindBool:
		return fmt.Sprintf("%v", v.boolVal)
	case KindInt:
		return fmt.Sprintf("%d", v.intVal)
	case KindFloat:
		return fmt.Sprintf("%g", v.floatVal)
	case KindString:
		return v.strVal
	case KindList:
		s := "["
		for i, e := range v.listVal {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + "]"
	case KindObject:
		return fmt.Sprintf("<object %d fields>", len(v.objVal))
	case KindUserdata:
		return fmt.Sprintf("<userdata %d bytes>", len(v.udVal))
	case KindDynamic:
		return v.AsDynamic().String()
	case KindFunction:
		return fmt.Sprintf("<function %d>", v.funcVal)
	default:
		return "<unknown>"
	}
}

// Sizeof returns the in-memory size, in bytes, of v's primitive
// representation -- the sizeof operator.
func (v Value) Sizeof() int32 {
	switch v.Kind {
	case KindBool:
		return 1
	case KindInt:
		return 4
	case KindFloat:
		return 8
	case KindString:
		return int32(len(v.strVal))
	case KindUserdata:
		return int32(len(v.udVal))
	default:
		return 0
	}
}

// Lenof returns the element count of a List, field count of an Object, or
// byte length of a String -- the lenof operator. ok is false for any other
// kind.
func (v Value) Lenof() (n int32, ok bool) {
	switch v.Kind {
	case KindList:
		return int32(len(v.listVal)), true
	case KindObject:
		return int32(len(v.objVal)), true
	case KindString:
		return int32(len(v.strVal)), true
	default:
		return 0, false
	}
}

//
// Arithmetic. Each returns ok=false when the operand kinds are
// incompatible or the operation is otherwise undefined (e.g. division by
// zero); the caller (the VM) raises the RuntimeError. This is a deliberate
// departure from the original implementation, which signalled failure by
// returning a Value whose Kind is Null: here failure is reported only
// through the explicit ok result.
//

func (v Value) Add(other Value) (Value, bool) {
	if v.Kind != other.Kind {
		return Value{}, false
	}
	switch v.Kind {
	case KindInt:
		return NewInt(v.intVal + other.intVal), true
	case KindFloat:
		return NewFloat(v.floatVal + other.floatVal), true
	case KindString:
		return NewString(v.strVal + other.strVal), true
	case KindList:
		return NewList(append(append([]Value{}, v.listVal...), other.listVal...)), true
	default:
		return Value{}, false
	}
}

func (v Value) Sub(other Value) (Value, bool) {
	if v.Kind != other.Kind {
		return Value{}, false
	}
	switch v.Kind {
	case KindInt:
		return NewInt(v.intVal - other.intVal), true
	case KindFloat:
		return NewFloat(v.floatVal - other.floatVal), true
	default:
		return Value{}, false
	}
}

func (v Value) Mul(other Value) (Value, bool) {
	if v.Kind != other.Kind {
		return Value{}, false
	}
	switch v.Kind {
	case KindInt:
		return NewInt(v.intVal * other.intVal), true
	case KindFloat:
		return NewFloat(v.floatVal * other.floatVal), true
	default:
		return Value{}, false
	}
}

func (v Value) Div(other Value) (Value, bool) {
	if v.Kind != other.Kind {
		return Value{}, false
	}
	switch v.Kind {
	case KindInt:
		if other.intVal == 0 {
			return Value{}, false
		}
		return NewInt(v.intVal / other.intVal), true
	case KindFloat:
		return NewFloat(v.floatVal / other.floatVal), true
	default:
		return Value{}, false
	}
}

func (v Value) Mod(other Value) (Value, bool) {
	if v.Kind != other.Kind {
		return Value{}, false
	}
	switch v.Kind {
	case KindInt:
		if other.intVal == 0 {
			return Value{}, false
		}
		return NewInt(v.intVal % other.intVal), true
	case KindFloat:
		return NewFloat(math.Mod(v.floatVal, other.floatVal)), true
	default:
		return Value{}, false
	}
}

func (v Value) Pow(other Value) (Value, bool) {
	if v.Kind != other.Kind {
		return Value{}, false
	}
	switch v.Kind {
	case KindInt:
		result := int32(1)
		for e := other.intVal; e > 0; e-- {
			result *= v.intVal
		}
		return NewInt(result), true
	case KindFloat:
		return NewFloat(math.Pow(v.floatVal, other.floatVal)), true
	default:
		return Value{}, false
	}
}

func (v Value) Negate() (Value, bool) {
	switch v.Kind {
	case KindInt:
		return NewInt(-v.intVal), true
	case KindFloat:
		return NewFloat(-v.floatVal), true
	default:
		return Value{}, false
	}
}

// Promote is the unary-plus operator. Numeric kinds pass through
// unchanged; any other kind fails.
func (v Value) Promote() (Value, bool) {
	switch v.Kind {
	case KindInt, KindFloat:
		return v, true
	default:
		return Value{}, false
	}
}

//
// Bitwise operators. Reserved by the instruction set but never emitted by
// the compiler (no bitwise syntax exists in the grammar); implemented here
// on Int operands in case a future compiler front-end or a hand-assembled
// module wants to use them.
//

func (v Value) BitAnd(other Value) (Value, bool) { return intBinOp(v, other, func(a, b int32) int32 { return a & b }) }
func (v Value) BitOr(other Value) (Value, bool)  { return intBinOp(v, other, func(a, b int32) int32 { return a | b }) }
func (v Value) BitXor(other Value) (Value, bool) { return intBinOp(v, other, func(a, b int32) int32 { return a ^ b }) }
func (v Value) BitShl(other Value) (Value, bool) {
	return intBinOp(v, other, func(a, b int32) int32 { return a << uint32(b) })
}
func (v Value) BitShr(other Value) (Value, bool) {
	return intBinOp(v, other, func(a, b int32) int32 { return a >> uint32(b) })
}

func (v Value) BitNot() (Value, bool) {
	if v.Kind != KindInt {
		return Value{}, false
	}
	return NewInt(^v.intVal), true
}

func intBinOp(a, b Value, op func(int32, int32) int32) (Value, bool) {
	if a.Kind != KindInt || b.Kind != KindInt {
		return Value{}, false
	}
	return NewInt(op(a.intVal, b.intVal)), true
}

//
// Comparisons. Eq, Lt, Le, Gt and Ge return false when the operand kinds
// don't match: equality on mismatched kinds is false, and by the same
// reasoning so is ordering -- it has no other sensible value. Ne is the
// negation of Eq, so it returns true for mismatched kinds.
//

func (v Value) Eq(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNull, KindVoid:
		return true
	case KindBool:
		return v.boolVal == other.boolVal
	case KindInt:
		return v.intVal == other.intVal
	case KindFloat:
		return v.floatVal == other.floatVal
	case KindString:
		return v.strVal == other.strVal
	case KindFunction:
		return v.funcVal == other.funcVal
	case KindList:
		return valuesSliceEqual(v.listVal, other.listVal)
	default:
		return false
	}
}

func (v Value) Ne(other Value) bool { return !v.Eq(other) }

func (v Value) Lt(other Value) bool { n, ok := numPair(v, other); return ok && n[0] < n[1] }
func (v Value) Le(other Value) bool { n, ok := numPair(v, other); return ok && n[0] <= n[1] }
func (v Value) Gt(other Value) bool { n, ok := numPair(v, other); return ok && n[0] > n[1] }
func (v Value) Ge(other Value) bool { n, ok := numPair(v, other); return ok && n[0] >= n[1] }

func numPair(a, b Value) ([2]float64, bool) {
	if a.Kind != b.Kind {
		return [2]float64{}, false
	}
	switch a.Kind {
	case KindInt:
		return [2]float64{float64(a.intVal), float64(b.intVal)}, true
	case KindFloat:
		return [2]float64{a.floatVal, b.floatVal}, true
	default:
		return [2]float64{}, false
	}
}

func valuesSliceEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Eq(b[i]) {
			return false
		}
	}
	return true
}

// Convert implements the `as` operator: {Bool, Int, Float} -> {Int, Float}
// using C-style widening/truncating conversion. ok is false if v's kind
// cannot be converted to target.
func (v Value) Convert(target Kind) (Value, bool) {
	if v.Kind == target {
		return v, true
	}
	switch v.Kind {
	case KindBool:
		n := int32(0)
		if v.boolVal {
			n = 1
		}
		switch target {
		case KindInt:
			return NewInt(n), true
		case KindFloat:
			return NewFloat(float64(n)), true
		}
	case KindInt:
		if target == KindFloat {
			return NewFloat(float64(v.intVal)), true
		}
	case KindFloat:
		if target == KindInt {
			return NewInt(int32(v.floatVal)), true
		}
	}
	return Value{}, false
}
