package abi

import "unsafe"

// Type is a raw transport category of the platform ABI.
type Type uint8

const (
	Invalid Type = iota
	Bool
	I8
	U8
	I16
	U16
	I32
	U32
	I64
	U64
	F32
	F64
	Ptr
)

// PointerSize is the size of a machine word on the target.
const PointerSize = uint32(unsafe.Sizeof(uintptr(0)))

var typeNames = [...]string{
	Invalid: "invalid",
	Bool:    "bool",
	I8:      "i8",
	U8:      "u8",
	I16:     "i16",
	U16:     "u16",
	I32:     "i32",
	U32:     "u32",
	I64:     "i64",
	U64:     "u64",
	F32:     "f32",
	F64:     "f64",
	Ptr:     "ptr",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "invalid"
}

// Size returns the byte size of the category.
func (t Type) Size() uint32 {
	switch t {
	case Bool, I8, U8:
		return 1
	case I16, U16:
		return 2
	case I32, U32, F32:
		return 4
	case I64, U64, F64:
		return 8
	case Ptr:
		return PointerSize
	default:
		panic("abi: size of invalid type")
	}
}

// Align returns the natural alignment, which always equals the size.
func (t Type) Align() uint32 {
	return t.Size()
}

func (t Type) IsFloat() bool {
	return t == F32 || t == F64
}

func (t Type) IsSigned() bool {
	return t == I8 || t == I16 || t == I32 || t == I64
}

func (t Type) Valid() bool {
	return t >= Bool && t <= Ptr
}

// Default returns the zero value of the category. Out storage is seeded with it.
func (t Type) Default() Value {
	if !t.Valid() {
		panic("abi: default value of invalid type")
	}
	return Value{typ: t}
}

// AlignTo rounds offset up to the next multiple of align.
func AlignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}
