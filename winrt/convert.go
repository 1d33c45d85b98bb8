package winrt

import (
	"fmt"
	"unsafe"

	"github.com/wippyai/winrt-runtime/abi"
	"github.com/wippyai/winrt-runtime/com"
	"github.com/wippyai/winrt-runtime/errors"
	"github.com/wippyai/winrt-runtime/guid"
)

// Zero returns the default value of t: zero scalars, the empty string, a null
// reference, zeroed struct data. Uninstantiated generics, async shapes and
// out slots have no default and panic.
func Zero(t Type) Value {
	switch v := t.(type) {
	case BasicType:
		switch v {
		case BasicString:
			return HString(0)
		case BasicGuid:
			return Guid(guid.Nil)
		case BasicObject:
			return Object(nil)
		}
		return scalarValue(v, AbiType(v).Default())
	case EnumType:
		return Enum(v, 0)
	case HResultType:
		return HResult(com.S_OK)
	case StructType:
		return Struct(v, v.Handle.NewValue())
	case ObjectArrayType:
		return ObjectArray(v.Elem, nil)
	case InterfaceType, DelegateType, RuntimeClassType, ParameterizedType:
		return ObjectOf(v, nil)
	case GenericType:
		panic(fmt.Sprintf("winrt: uninstantiated generic %v has no default value", v))
	case OutValueType:
		panic("winrt: out slots have no default value")
	}
	if IsAsync(t) {
		panic(fmt.Sprintf("winrt: async type %v has no default value without an object", t))
	}
	panic(fmt.Sprintf("winrt: unknown type %T", t))
}

// FromOut converts out-parameter storage written by a successful call.
// Ownership of references, strings and receive-array buffers moves to the
// returned value.
func FromOut(t Type, p unsafe.Pointer) (Value, error) {
	switch v := t.(type) {
	case OutValueType:
		return Value{}, errors.InvalidNestedOut(v.String())
	case BasicType:
		if v == BasicGuid {
			return Guid(*(*guid.GUID)(p)), nil
		}
	case StructType:
		data := v.Handle.FromBytes(unsafe.Slice((*byte)(p), v.Handle.Size()))
		return Struct(v, data), nil
	case ObjectArrayType:
		n := *(*uint32)(p)
		buf := *(*unsafe.Pointer)(unsafe.Add(p, abi.PointerSize))
		return objectArrayFrom(v, n, buf), nil
	case GenericType:
		panic(fmt.Sprintf("winrt: uninstantiated generic %v cannot receive a value", v))
	}
	return FromOutValue(t, abi.Load(AbiType(t), p))
}

// FromOutValue converts a raw ABI value into a value of t. A raw shape that
// does not fit t is an AbiMismatch error.
func FromOutValue(t Type, raw abi.Value) (Value, error) {
	if _, ok := t.(OutValueType); ok {
		return Value{}, errors.InvalidNestedOut(t.String())
	}
	if _, ok := t.(GenericType); ok {
		panic(fmt.Sprintf("winrt: uninstantiated generic %v cannot receive a value", t))
	}
	if _, ok := t.(ObjectArrayType); ok {
		return Value{}, errors.AbiMismatch(t.String(), raw.Type().String())
	}

	want := AbiType(t)
	if raw.Type() != want {
		return Value{}, errors.AbiMismatch(t.String(), raw.Type().String())
	}

	switch v := t.(type) {
	case BasicType:
		switch v {
		case BasicString:
			return HString(com.HString(raw.Pointer())), nil
		case BasicGuid:
			if raw.Pointer() == 0 {
				return Value{}, errors.AbiMismatch(t.String(), "null ptr")
			}
			return Guid(*(*guid.GUID)(unsafe.Pointer(raw.Pointer()))), nil
		case BasicObject:
			return Object(com.FromRaw(unsafe.Pointer(raw.Pointer()))), nil
		}
		return scalarValue(v, raw), nil
	case EnumType:
		return Value{typ: v, kind: KindScalar, scalar: raw}, nil
	case HResultType:
		return HResult(com.HRESULT(raw.Int32())), nil
	case StructType:
		if raw.Pointer() == 0 {
			return Value{}, errors.AbiMismatch(t.String(), "null ptr")
		}
		return FromOut(v, unsafe.Pointer(raw.Pointer()))
	case InterfaceType, DelegateType, RuntimeClassType, ParameterizedType:
		return ObjectOf(v, com.FromRaw(unsafe.Pointer(raw.Pointer()))), nil
	}

	if IsAsync(t) {
		op := com.FromRaw(unsafe.Pointer(raw.Pointer()))
		if op.IsNil() {
			return ObjectOf(t, nil), nil
		}
		defer op.Release()
		info, err := NewAsyncInfo(t, op)
		if err != nil {
			return Value{}, err
		}
		return Async(info), nil
	}
	panic(fmt.Sprintf("winrt: unknown type %T", t))
}

func objectArrayFrom(t ObjectArrayType, n uint32, buf unsafe.Pointer) Value {
	if buf == nil {
		return ObjectArray(t.Elem, nil)
	}
	ptrs := unsafe.Slice((*unsafe.Pointer)(buf), n)
	objs := make([]*com.Unknown, n)
	for i, p := range ptrs {
		objs[i] = com.FromRaw(p)
	}
	com.TaskMemFree(buf)
	return ObjectArray(t.Elem, objs)
}
