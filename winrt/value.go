package winrt

import (
	"fmt"
	"unsafe"

	"github.com/wippyai/winrt-runtime/abi"
	"github.com/wippyai/winrt-runtime/com"
	"github.com/wippyai/winrt-runtime/errors"
	"github.com/wippyai/winrt-runtime/guid"
	"github.com/wippyai/winrt-runtime/layout"
)

// Kind is the variant held by a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindScalar
	KindGuid
	KindString
	KindObject
	KindHResult
	KindOut
	KindAsync
	KindObjectArray
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindGuid:
		return "guid"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindHResult:
		return "hresult"
	case KindOut:
		return "out"
	case KindAsync:
		return "async"
	case KindObjectArray:
		return "object array"
	case KindStruct:
		return "struct"
	default:
		return "invalid"
	}
}

// Value is a WinRT value. Scalars, chars and enums share the abi payload.
type Value struct {
	typ    Type
	obj    *com.Unknown
	async  *AsyncInfo
	data   *layout.ValueTypeData
	out    unsafe.Pointer
	objs   []*com.Unknown
	scalar abi.Value
	str    *stringRef
	id     guid.GUID
	kind   Kind
}

// stringRef is shared by every copy of a string value, so only the first
// Release deletes the HSTRING.
type stringRef struct {
	h com.HString
}

func (r *stringRef) handle() com.HString {
	if r == nil {
		return 0
	}
	return r.h
}

func (r *stringRef) release() {
	if r == nil {
		return
	}
	h := r.h
	r.h = 0
	h.Delete()
}

func scalarValue(t BasicType, v abi.Value) Value {
	return Value{typ: t, kind: KindScalar, scalar: v}
}

// Scalar builds a value of a primitive type from its ABI form. It panics if
// v does not have the ABI type of t.
func Scalar(t BasicType, v abi.Value) Value {
	if t == BasicString || t == BasicGuid || t == BasicObject || AbiType(t) != v.Type() {
		panic(fmt.Sprintf("winrt: %v is not an ABI value of %v", v, t))
	}
	return scalarValue(t, v)
}

func Bool(b bool) Value       { return scalarValue(BasicBool, abi.BoolValue(b)) }
func Int8(v int8) Value       { return scalarValue(BasicI8, abi.Int8(v)) }
func Uint8(v uint8) Value     { return scalarValue(BasicU8, abi.Uint8(v)) }
func Int16(v int16) Value     { return scalarValue(BasicI16, abi.Int16(v)) }
func Uint16(v uint16) Value   { return scalarValue(BasicU16, abi.Uint16(v)) }
func Int32(v int32) Value     { return scalarValue(BasicI32, abi.Int32(v)) }
func Uint32(v uint32) Value   { return scalarValue(BasicU32, abi.Uint32(v)) }
func Int64(v int64) Value     { return scalarValue(BasicI64, abi.Int64(v)) }
func Uint64(v uint64) Value   { return scalarValue(BasicU64, abi.Uint64(v)) }
func Float32(v float32) Value { return scalarValue(BasicF32, abi.Float32(v)) }
func Float64(v float64) Value { return scalarValue(BasicF64, abi.Float64(v)) }
func Char16(v uint16) Value   { return scalarValue(BasicChar16, abi.Uint16(v)) }
func Guid(g guid.GUID) Value  { return Value{typ: BasicGuid, kind: KindGuid, id: g} }

// HResult wraps a status code.
func HResult(hr com.HRESULT) Value {
	return Value{typ: HResultType{}, kind: KindHResult, scalar: abi.Int32(int32(hr))}
}

// NewString creates a string value owning a new HSTRING.
func NewString(s string) (Value, error) {
	h, err := com.NewHString(s)
	if err != nil {
		return Value{}, errors.Wrap(errors.PhaseConvert, errors.KindInvalidInput, err, "create HSTRING")
	}
	return HString(h), nil
}

// MustString is NewString for literals.
func MustString(s string) Value {
	v, err := NewString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// HString adopts an HSTRING.
func HString(h com.HString) Value {
	return Value{typ: BasicString, kind: KindString, str: &stringRef{h: h}}
}

// Object adopts an untyped interface reference. A nil reference is a null object.
func Object(u *com.Unknown) Value {
	return ObjectOf(BasicObject, u)
}

// ObjectOf adopts u tagged with its declared reference type.
func ObjectOf(t Type, u *com.Unknown) Value {
	if !IsReference(t) {
		panic(fmt.Sprintf("winrt: %v is not a reference type", t))
	}
	return Value{typ: t, kind: KindObject, obj: u}
}

// Enum builds an enum value. Flags enums keep the unsigned bits.
func Enum(t EnumType, v int64) Value {
	if t.Flags {
		return Value{typ: t, kind: KindScalar, scalar: abi.Uint32(uint32(v))}
	}
	return Value{typ: t, kind: KindScalar, scalar: abi.Int32(int32(v))}
}

// Struct wraps value type data. The handle of data must be that of t.
func Struct(t StructType, data *layout.ValueTypeData) Value {
	if data.Handle() != t.Handle {
		panic(fmt.Sprintf("winrt: data of %v used for struct %v", data.Handle(), t))
	}
	return Value{typ: t, kind: KindStruct, data: data}
}

// Out is a slot awaiting a value of elem at p.
func Out(elem Type, p unsafe.Pointer) Value {
	return Value{typ: OutValueType{Elem: elem}, kind: KindOut, out: p}
}

// Async wraps an async operation.
func Async(info *AsyncInfo) Value {
	return Value{typ: info.Type(), kind: KindAsync, async: info}
}

// ObjectArray adopts the references in objs.
func ObjectArray(elem Type, objs []*com.Unknown) Value {
	return Value{typ: ObjectArrayType{Elem: elem}, kind: KindObjectArray, objs: objs}
}

// Type returns the WinRT type of v.
func (v Value) Type() Type { return v.typ }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v was constructed.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Abi returns the scalar payload of scalar, enum, char and status values.
func (v Value) Abi() (abi.Value, bool) {
	if v.kind == KindScalar || v.kind == KindHResult {
		return v.scalar, true
	}
	return abi.Value{}, false
}

func (v Value) basic(b BasicType) (abi.Value, bool) {
	if v.kind != KindScalar || v.typ != b {
		return abi.Value{}, false
	}
	return v.scalar, true
}

func (v Value) AsBool() (bool, bool) {
	s, ok := v.basic(BasicBool)
	return s.Bool(), ok
}

func (v Value) AsInt8() (int8, bool) {
	s, ok := v.basic(BasicI8)
	return s.Int8(), ok
}

func (v Value) AsUint8() (uint8, bool) {
	s, ok := v.basic(BasicU8)
	return s.Uint8(), ok
}

func (v Value) AsInt16() (int16, bool) {
	s, ok := v.basic(BasicI16)
	return s.Int16(), ok
}

func (v Value) AsUint16() (uint16, bool) {
	s, ok := v.basic(BasicU16)
	return s.Uint16(), ok
}

func (v Value) AsInt32() (int32, bool) {
	s, ok := v.basic(BasicI32)
	return s.Int32(), ok
}

func (v Value) AsUint32() (uint32, bool) {
	s, ok := v.basic(BasicU32)
	return s.Uint32(), ok
}

func (v Value) AsInt64() (int64, bool) {
	s, ok := v.basic(BasicI64)
	return s.Int64(), ok
}

func (v Value) AsUint64() (uint64, bool) {
	s, ok := v.basic(BasicU64)
	return s.Uint64(), ok
}

func (v Value) AsFloat32() (float32, bool) {
	s, ok := v.basic(BasicF32)
	return s.Float32(), ok
}

func (v Value) AsFloat64() (float64, bool) {
	s, ok := v.basic(BasicF64)
	return s.Float64(), ok
}

func (v Value) AsChar16() (uint16, bool) {
	s, ok := v.basic(BasicChar16)
	return s.Uint16(), ok
}

// AsEnum returns the numeric value of an enum.
func (v Value) AsEnum() (int64, bool) {
	e, ok := v.typ.(EnumType)
	if !ok || v.kind != KindScalar {
		return 0, false
	}
	if e.Flags {
		return int64(v.scalar.Uint32()), true
	}
	return int64(v.scalar.Int32()), true
}

func (v Value) AsGuid() (guid.GUID, bool) {
	return v.id, v.kind == KindGuid
}

func (v Value) AsHResult() (com.HRESULT, bool) {
	return com.HRESULT(v.scalar.Int32()), v.kind == KindHResult
}

// AsHString returns the string handle without transferring ownership.
func (v Value) AsHString() (com.HString, bool) {
	return v.str.handle(), v.kind == KindString
}

// AsString copies the string contents.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str.handle().String(), true
}

// AsObject returns the held reference without transferring ownership.
// Async values expose their IAsyncInfo reference.
func (v Value) AsObject() (*com.Unknown, bool) {
	switch v.kind {
	case KindObject:
		return v.obj, true
	case KindAsync:
		return v.async.Info(), true
	}
	return nil, false
}

func (v Value) AsAsync() (*AsyncInfo, bool) {
	return v.async, v.kind == KindAsync
}

func (v Value) AsStruct() (*layout.ValueTypeData, bool) {
	return v.data, v.kind == KindStruct
}

func (v Value) AsObjectArray() ([]*com.Unknown, bool) {
	return v.objs, v.kind == KindObjectArray
}

// AsOut returns the storage pointer of an out slot.
func (v Value) AsOut() (unsafe.Pointer, bool) {
	return v.out, v.kind == KindOut
}

// IsNull reports whether v is a reference value holding no object.
func (v Value) IsNull() bool {
	return v.kind == KindObject && v.obj.IsNil()
}

// Release gives up the references and strings owned by v. Copies of a value
// share ownership: releasing any of them releases all, and releasing again
// is a no-op.
func (v Value) Release() {
	switch v.kind {
	case KindObject:
		v.obj.Release()
	case KindString:
		v.str.release()
	case KindAsync:
		v.async.Release()
	case KindObjectArray:
		for _, o := range v.objs {
			o.Release()
		}
	}
}

// Clone returns a value owning its own references and strings.
func (v Value) Clone() (Value, error) {
	c := v
	switch v.kind {
	case KindObject:
		c.obj = v.obj.Clone()
	case KindString:
		h, err := v.str.handle().Duplicate()
		if err != nil {
			return Value{}, errors.Wrap(errors.PhaseConvert, errors.KindInvalidInput, err, "duplicate HSTRING")
		}
		c.str = &stringRef{h: h}
	case KindAsync:
		c.async = v.async.Clone()
	case KindObjectArray:
		c.objs = make([]*com.Unknown, len(v.objs))
		for i, o := range v.objs {
			c.objs[i] = o.Clone()
		}
	case KindStruct:
		c.data = v.data.Clone()
	}
	return c, nil
}

// Cast queries the held object for iid and returns a new reference tagged as
// that interface. Non-reference values fail with KindExpectObject.
func (v Value) Cast(iid guid.GUID) (Value, error) {
	u, ok := v.AsObject()
	if !ok {
		return Value{}, errors.ExpectObject(errors.PhaseConvert, v.describe())
	}
	if u.IsNil() {
		return Value{}, errors.New(errors.PhaseConvert, errors.KindExpectObject).
			Type("null " + v.typ.String()).Expected("interface reference").Build()
	}
	q, err := u.QueryInterface(iid)
	if err != nil {
		return Value{}, errors.New(errors.PhaseCall, errors.KindCallFailed).
			Detail("QueryInterface %s", iid).Cause(err).Build()
	}
	return ObjectOf(InterfaceType{IID: iid}, q), nil
}

// CastTo is Cast for a reference type, keeping t as the value's type.
func (v Value) CastTo(t Type) (Value, error) {
	iid, ok := IID(t)
	if !ok || !IsReference(t) {
		return Value{}, errors.Unsupported(errors.PhaseConvert, "cast to non-interface type "+t.String())
	}
	c, err := v.Cast(iid)
	if err != nil {
		return Value{}, err
	}
	c.typ = t
	return c, nil
}

func (v Value) describe() string {
	if v.typ == nil {
		return "invalid value"
	}
	return v.typ.String()
}

func (v Value) String() string {
	switch v.kind {
	case KindScalar:
		if e, ok := v.typ.(EnumType); ok {
			n, _ := v.AsEnum()
			return fmt.Sprintf("%s(%d)", e.Name, n)
		}
		return v.scalar.String()
	case KindGuid:
		return v.id.Braced()
	case KindString:
		return fmt.Sprintf("%q", v.str.handle().String())
	case KindObject:
		if v.obj.IsNil() {
			return v.typ.String() + "(null)"
		}
		return fmt.Sprintf("%s(%p)", v.typ, v.obj.Raw())
	case KindHResult:
		return com.HRESULT(v.scalar.Int32()).String()
	case KindOut:
		return fmt.Sprintf("%s@%p", v.typ, v.out)
	case KindAsync:
		return v.async.String()
	case KindObjectArray:
		return fmt.Sprintf("%s(len=%d)", v.typ, len(v.objs))
	case KindStruct:
		return v.data.String()
	default:
		return "invalid"
	}
}
