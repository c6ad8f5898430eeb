/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package romutil

import (
	"encoding/binary"
	"io"
)

// Serializer is the interface implemented by objects that can serialize
// themselves to the llamaScript wire format.
type Serializer interface {
	Serialize(w io.Writer) error
}

// Deserializer is the interface implemented by objects that can
// deserialize themselves from the llamaScript wire format.
type Deserializer interface {
	Deserialize(r io.Reader) error
}

// SerializeU8 writes a single byte to w.
func SerializeU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

// DeserializeU8 reads a single byte from r.
func DeserializeU8(r io.Reader) (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// SerializeU32 writes a uint32 to w, little endian.
func SerializeU32(w io.Writer, v uint32) error {
	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], v)
	_, err := w.Write(u32[:])
	return err
}

// DeserializeU32 reads a uint32 from r, little endian.
func DeserializeU32(r io.Reader) (uint32, error) {
	var u32 [4]byte
	if _, err := io.ReadFull(r, u32[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(u32[:]), nil
}

// SerializeI32 writes an int32 to w, little endian.
func SerializeI32(w io.Writer, v int32) error {
	return SerializeU32(w, uint32(v))
}

// DeserializeI32 reads an int32 from r, little endian.
func DeserializeI32(r io.Reader) (int32, error) {
	v, err := DeserializeU32(r)
	return int32(v), err
}

// SerializeBytes writes a u32 length prefix followed by data.
func SerializeBytes(w io.Writer, data []byte) error {
	if err := SerializeU32(w, uint32(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// DeserializeBytes reads a u32-length-prefixed byte slice from r.
func DeserializeBytes(r io.Reader) ([]byte, error) {
	n, err := DeserializeU32(r)
	if err != nil {
		return nil, err
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}

// SerializeString writes a u32-length-prefixed string to w.
func SerializeString(w io.Writer, s string) error {
	return SerializeBytes(w, []byte(s))
}

// DeserializeString reads a u32-length-prefixed string from r.
func DeserializeString(r io.Reader) (string, error) {
	data, err := DeserializeBytes(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
