/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package bytecode

import (
	"encoding/binary"
	"math"
)

// A Chunk is a packed sequence of bytecode: opcode bytes interleaved with
// their 32-bit immediate arguments. There is one Chunk per Function Pool
// entry.
type Chunk struct {
	Code []uint8
}

// EncodeUInt31 packs an unsigned 31-bit integer into the first four bytes
// of bytecode, little endian. Panics if v does not fit into 31 bits.
func EncodeUInt31(bytecode []byte, v int) {
	if v < 0 || v > math.MaxInt32 {
		panic("bytecode: value does not fit into 31 bits")
	}
	binary.LittleEndian.PutUint32(bytecode, uint32(v))
}

// DecodeUInt31 unpacks the first four bytes of bytecode into an unsigned
// 31-bit integer. Panics if the value read does not fit into 31 bits.
func DecodeUInt31(bytecode []byte) int {
	v := binary.LittleEndian.Uint32(bytecode)
	if v > math.MaxInt32 {
		panic("bytecode: value does not fit into 31 bits")
	}
	return int(v)
}

// EncodeInt32 packs a signed 32-bit integer into the first four bytes of
// bytecode, little endian. Used for jump/block-length arguments, which can
// be negative (a closing END carries the negative offset back to its
// opener).
func EncodeInt32(bytecode []byte, v int32) {
	binary.LittleEndian.PutUint32(bytecode, uint32(v))
}

// DecodeInt32 unpacks the first four bytes of bytecode into a signed
// 32-bit integer.
func DecodeInt32(bytecode []byte) int32 {
	return int32(binary.LittleEndian.Uint32(bytecode))
}
