/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package bytecode

import (
	"io"

	"github.com/llamascript/llama/pkg/romutil"
)

// Serialize writes m to w in the wire format: u32 entry-function index,
// then the constant pool, then the function pool, then the class pool.
// Native functions cannot be serialized (they have no portable
// representation) and Serialize returns an error if any exist.
func (m *Module) Serialize(w io.Writer) error {
	if err := romutil.SerializeU32(w, uint32(m.EntryFunction)); err != nil {
		return err
	}

	if err := romutil.SerializeU32(w, uint32(m.Constants.Size())); err != nil {
		return err
	}
	for i := 0; i < m.Constants.Size(); i++ {
		e := m.Constants.At(i)
		if err := romutil.SerializeU8(w, uint8(e.Kind)); err != nil {
			return err
		}
		if err := romutil.SerializeBytes(w, e.Data); err != nil {
			return err
		}
	}

	if err := romutil.SerializeU32(w, uint32(m.Functions.Size())); err != nil {
		return err
	}
	for i := 0; i < m.Functions.Size(); i++ {
		fn := m.Functions.At(i)
		if fn.IsNative() {
			return errNativeNotSerializable
		}
		if err := serializeFunction(w, fn); err != nil {
			return err
		}
	}

	if err := romutil.SerializeU32(w, uint32(m.Classes.Size())); err != nil {
		return err
	}
	for i := 0; i < m.Classes.Size(); i++ {
		if err := serializeClass(w, m.Classes.At(i)); err != nil {
			return err
		}
	}

	return nil
}

func serializeFunction(w io.Writer, fn *FunctionEntry) error {
	if err := romutil.SerializeString(w, fn.Name); err != nil {
		return err
	}
	if err := romutil.SerializeU32(w, uint32(len(fn.Args))); err != nil {
		return err
	}
	for _, a := range fn.Args {
		if err := romutil.SerializeString(w, a.Field); err != nil {
			return err
		}
		if err := romutil.SerializeString(w, a.Type); err != nil {
			return err
		}
		optional := uint8(0)
		if a.Optional {
			optional = 1
		}
		if err := romutil.SerializeU8(w, optional); err != nil {
			return err
		}
	}
	if err := romutil.SerializeI32(w, int32(fn.Line)); err != nil {
		return err
	}
	return romutil.SerializeBytes(w, fn.Code.Code)
}

func serializeClass(w io.Writer, cl *ClassEntry) error {
	if err := romutil.SerializeU32(w, uint32(len(cl.Properties))); err != nil {
		return err
	}
	for _, p := range cl.Properties {
		if err := romutil.SerializeString(w, p.Name); err != nil {
			return err
		}
		if err := romutil.SerializeString(w, p.Type); err != nil {
			return err
		}
	}
	return romutil.SerializeBytes(w, cl.Code.Code)
}

// DeserializeModule reads a Module from r in the format written by
// Module.Serialize.
func DeserializeModule(r io.Reader) (*Module, error) {
	m := NewModule()

	entry, err := romutil.DeserializeU32(r)
	if err != nil {
		return nil, err
	}
	m.EntryFunction = int(entry)

	numConsts, err := romutil.DeserializeU32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < numConsts; i++ {
		kind, err := romutil.DeserializeU8(r)
		if err != nil {
			return nil, err
		}
		data, err := romutil.DeserializeBytes(r)
		if err != nil {
			return nil, err
		}
		m.Constants.Get(ConstantEntry{Kind: ConstantKind(kind), Data: data})
	}

	numFuncs, err := romutil.DeserializeU32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < numFuncs; i++ {
		fn, err := deserializeFunction(r)
		if err != nil {
			return nil, err
		}
		m.Functions.Add(fn)
	}

	numClasses, err := romutil.DeserializeU32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < numClasses; i++ {
		cl, err := deserializeClass(r)
		if err != nil {
			return nil, err
		}
		m.Classes.Add(cl)
	}

	return m, nil
}

func deserializeFunction(r io.Reader) (*FunctionEntry, error) {
	name, err := romutil.DeserializeString(r)
	if err != nil {
		return nil, err
	}
	numArgs, err := romutil.DeserializeU32(r)
	if err != nil {
		return nil, err
	}
	args := make([]Param, numArgs)
	for i := range args {
		field, err := romutil.DeserializeString(r)
		if err != nil {
			return nil, err
		}
		typ, err := romutil.DeserializeString(r)
		if err != nil {
			return nil, err
		}
		opt, err := romutil.DeserializeU8(r)
		if err != nil {
			return nil, err
		}
		args[i] = Param{Field: field, Type: typ, Optional: opt != 0}
	}
	line, err := romutil.DeserializeI32(r)
	if err != nil {
		return nil, err
	}
	code, err := romutil.DeserializeBytes(r)
	if err != nil {
		return nil, err
	}
	return &FunctionEntry{Name: name, Args: args, Line: int(line), Code: &Chunk{Code: code}}, nil
}

func deserializeClass(r io.Reader) (*ClassEntry, error) {
	numProps, err := romutil.DeserializeU32(r)
	if err != nil {
		return nil, err
	}
	props := make([]Property, numProps)
	for i := range props {
		name, err := romutil.DeserializeString(r)
		if err != nil {
			return nil, err
		}
		typ, err := romutil.DeserializeString(r)
		if err != nil {
			return nil, err
		}
		props[i] = Property{Name: name, Type: typ}
	}
	code, err := romutil.DeserializeBytes(r)
	if err != nil {
		return nil, err
	}
	return &ClassEntry{Properties: props, Code: &Chunk{Code: code}}, nil
}

type serializeError string

func (e serializeError) Error() string { return string(e) }

const errNativeNotSerializable = serializeError("bytecode: cannot serialize a native function")
