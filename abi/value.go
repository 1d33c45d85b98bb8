package abi

import (
	"fmt"
	"math"
	"unsafe"
)

// Value is a scalar tagged with its transport category.
// The payload is kept as raw little-endian bits.
type Value struct {
	typ  Type
	bits uint64
}

func BoolValue(b bool) Value {
	if b {
		return Value{typ: Bool, bits: 1}
	}
	return Value{typ: Bool}
}

func Int8(v int8) Value       { return Value{typ: I8, bits: uint64(uint8(v))} }
func Uint8(v uint8) Value     { return Value{typ: U8, bits: uint64(v)} }
func Int16(v int16) Value     { return Value{typ: I16, bits: uint64(uint16(v))} }
func Uint16(v uint16) Value   { return Value{typ: U16, bits: uint64(v)} }
func Int32(v int32) Value     { return Value{typ: I32, bits: uint64(uint32(v))} }
func Uint32(v uint32) Value   { return Value{typ: U32, bits: uint64(v)} }
func Int64(v int64) Value     { return Value{typ: I64, bits: uint64(v)} }
func Uint64(v uint64) Value   { return Value{typ: U64, bits: v} }
func Float32(v float32) Value { return Value{typ: F32, bits: uint64(math.Float32bits(v))} }
func Float64(v float64) Value { return Value{typ: F64, bits: math.Float64bits(v)} }
func Pointer(p uintptr) Value { return Value{typ: Ptr, bits: uint64(p)} }

// Type returns the transport category of v.
func (v Value) Type() Type { return v.typ }

// Bits returns the raw payload.
func (v Value) Bits() uint64 { return v.bits }

func (v Value) Bool() bool       { return v.bits&0xff != 0 }
func (v Value) Int8() int8       { return int8(v.bits) }
func (v Value) Uint8() uint8     { return uint8(v.bits) }
func (v Value) Int16() int16     { return int16(v.bits) }
func (v Value) Uint16() uint16   { return uint16(v.bits) }
func (v Value) Int32() int32     { return int32(v.bits) }
func (v Value) Uint32() uint32   { return uint32(v.bits) }
func (v Value) Int64() int64     { return int64(v.bits) }
func (v Value) Uint64() uint64   { return v.bits }
func (v Value) Float32() float32 { return math.Float32frombits(uint32(v.bits)) }
func (v Value) Float64() float64 { return math.Float64frombits(v.bits) }
func (v Value) Pointer() uintptr { return uintptr(v.bits) }

// Word returns v as one argument register word.
// Signed integers are sign extended; floats keep their IEEE bit pattern.
func (v Value) Word() uintptr {
	switch v.typ {
	case I8:
		return uintptr(int64(int8(v.bits)))
	case I16:
		return uintptr(int64(int16(v.bits)))
	case I32:
		return uintptr(int64(int32(v.bits)))
	default:
		return uintptr(v.bits)
	}
}

func (v Value) String() string {
	switch v.typ {
	case Bool:
		return fmt.Sprintf("bool(%t)", v.Bool())
	case I8, I16, I32, I64:
		return fmt.Sprintf("%s(%d)", v.typ, int64(v.Word()))
	case U8, U16, U32, U64:
		return fmt.Sprintf("%s(%d)", v.typ, v.bits)
	case F32:
		return fmt.Sprintf("f32(%g)", v.Float32())
	case F64:
		return fmt.Sprintf("f64(%g)", v.Float64())
	case Ptr:
		return fmt.Sprintf("ptr(%#x)", v.bits)
	default:
		return "invalid"
	}
}

// Load reads a value of category t from raw storage at p.
func Load(t Type, p unsafe.Pointer) Value {
	switch t {
	case Bool, I8, U8:
		return Value{typ: t, bits: uint64(*(*uint8)(p))}
	case I16, U16:
		return Value{typ: t, bits: uint64(*(*uint16)(p))}
	case I32, U32, F32:
		return Value{typ: t, bits: uint64(*(*uint32)(p))}
	case I64, U64, F64:
		return Value{typ: t, bits: *(*uint64)(p)}
	case Ptr:
		return Value{typ: t, bits: uint64(*(*uintptr)(p))}
	default:
		panic("abi: load of invalid type")
	}
}

// Store writes v into raw storage at p using v's own width.
func (v Value) Store(p unsafe.Pointer) {
	switch v.typ {
	case Bool, I8, U8:
		*(*uint8)(p) = uint8(v.bits)
	case I16, U16:
		*(*uint16)(p) = uint16(v.bits)
	case I32, U32, F32:
		*(*uint32)(p) = uint32(v.bits)
	case I64, U64, F64:
		*(*uint64)(p) = v.bits
	case Ptr:
		*(*uintptr)(p) = uintptr(v.bits)
	default:
		panic("abi: store of invalid value")
	}
}
