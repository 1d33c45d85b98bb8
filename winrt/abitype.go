package winrt

import (
	"fmt"

	"github.com/wippyai/winrt-runtime/abi"
	"github.com/wippyai/winrt-runtime/layout"
)

// AbiType returns the transport category of t. References, strings, out
// slots and arrays travel as pointers. Structs and Guid are composite; their
// category is Ptr because out storage is addressed, and Descriptor gives the
// by-value shape. Uninstantiated generics panic.
func AbiType(t Type) abi.Type {
	switch v := t.(type) {
	case BasicType:
		switch v {
		case BasicBool:
			return abi.Bool
		case BasicI8:
			return abi.I8
		case BasicU8:
			return abi.U8
		case BasicI16:
			return abi.I16
		case BasicU16, BasicChar16:
			return abi.U16
		case BasicI32:
			return abi.I32
		case BasicU32:
			return abi.U32
		case BasicI64:
			return abi.I64
		case BasicU64:
			return abi.U64
		case BasicF32:
			return abi.F32
		case BasicF64:
			return abi.F64
		case BasicString, BasicGuid, BasicObject:
			return abi.Ptr
		}
		panic(fmt.Sprintf("winrt: invalid basic type %d", uint8(v)))
	case EnumType:
		if v.Flags {
			return abi.U32
		}
		return abi.I32
	case HResultType:
		return abi.I32
	case GenericType:
		panic(fmt.Sprintf("winrt: uninstantiated generic %v has no ABI type", v))
	case InterfaceType, DelegateType, RuntimeClassType, ParameterizedType,
		AsyncActionType, AsyncActionWithProgressType, AsyncOperationType, AsyncOperationWithProgressType,
		StructType, OutValueType, ObjectArrayType:
		return abi.Ptr
	}
	panic(fmt.Sprintf("winrt: unknown type %T", t))
}

// IsComposite reports whether t is passed with a struct descriptor.
func IsComposite(t Type) bool {
	switch v := t.(type) {
	case StructType:
		return true
	case BasicType:
		return v == BasicGuid
	}
	return false
}

var guidDescriptor = abi.StructDescriptor(
	abi.U32.Descriptor(), abi.U16.Descriptor(), abi.U16.Descriptor(),
	abi.U8.Descriptor(), abi.U8.Descriptor(), abi.U8.Descriptor(), abi.U8.Descriptor(),
	abi.U8.Descriptor(), abi.U8.Descriptor(), abi.U8.Descriptor(), abi.U8.Descriptor(),
)

// Descriptor returns the by-value foreign-call descriptor of t.
func Descriptor(t Type) abi.Descriptor {
	switch v := t.(type) {
	case StructType:
		return v.Handle.Descriptor()
	case BasicType:
		if v == BasicGuid {
			return guidDescriptor
		}
	}
	return AbiType(t).Descriptor()
}

// StorageSize returns the number of bytes of out storage a value of t needs.
func StorageSize(t Type) uint32 {
	if _, ok := t.(ObjectArrayType); ok {
		return 2 * abi.PointerSize
	}
	return Descriptor(t).Size
}

// GuidStructName names the Guid layout inside a registry.
const GuidStructName = "System.Guid"

// LayoutHandle returns the layout of t inside reg, defining the Guid layout on first use.
func LayoutHandle(reg *layout.Registry, t Type) layout.Handle {
	switch v := t.(type) {
	case StructType:
		if v.Handle.Registry() != reg {
			panic(fmt.Sprintf("winrt: struct %v belongs to another registry", v))
		}
		return v.Handle
	case BasicType:
		if v == BasicGuid {
			if h, ok := reg.Lookup(GuidStructName); ok {
				return h
			}
			u8 := reg.Primitive(abi.U8)
			return reg.DefineNamedStruct(GuidStructName,
				reg.Primitive(abi.U32), reg.Primitive(abi.U16), reg.Primitive(abi.U16),
				u8, u8, u8, u8, u8, u8, u8, u8)
		}
	case ObjectArrayType:
		panic("winrt: object arrays cannot be struct fields")
	}
	return reg.Primitive(AbiType(t))
}

// NewStruct defines a named WinRT struct in reg from WinRT field types.
func NewStruct(reg *layout.Registry, name string, fields ...Type) StructType {
	handles := make([]layout.Handle, len(fields))
	for i, f := range fields {
		handles[i] = LayoutHandle(reg, f)
	}
	return StructType{
		Name:   name,
		Fields: append([]Type(nil), fields...),
		Handle: reg.DefineNamedStruct(name, handles...),
	}
}
