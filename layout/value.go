package layout

import (
	"fmt"
	"unsafe"

	"github.com/wippyai/winrt-runtime/abi"
)

// ValueTypeData is an owned, zero-initialized buffer holding one instance of
// a value type. Storage is word aligned, which satisfies every ABI category.
type ValueTypeData struct {
	handle Handle
	words  []uint64
}

// NewValue allocates a zeroed instance of h.
func (h Handle) NewValue() *ValueTypeData {
	if !h.Valid() {
		panic("layout: NewValue on invalid handle")
	}
	return &ValueTypeData{handle: h, words: make([]uint64, wordsFor(h.Size()))}
}

// FromBytes copies raw bytes into a new instance of h. len(b) must equal h.Size().
func (h Handle) FromBytes(b []byte) *ValueTypeData {
	if uint32(len(b)) != h.Size() {
		panic(fmt.Sprintf("layout: %d bytes for type of size %d", len(b), h.Size()))
	}
	v := h.NewValue()
	copy(v.Bytes(), b)
	return v
}

func wordsFor(size uint32) int {
	n := int((size + 7) / 8)
	if n == 0 {
		n = 1
	}
	return n
}

func (v *ValueTypeData) Handle() Handle { return v.handle }

func (v *ValueTypeData) Size() uint32 { return v.handle.Size() }

// Pointer returns the address of the buffer. It stays valid while v is reachable.
func (v *ValueTypeData) Pointer() unsafe.Pointer {
	return unsafe.Pointer(&v.words[0])
}

// Bytes exposes the instance bytes.
func (v *ValueTypeData) Bytes() []byte {
	return unsafe.Slice((*byte)(v.Pointer()), v.Size())
}

// Clone returns a bit copy.
func (v *ValueTypeData) Clone() *ValueTypeData {
	return &ValueTypeData{handle: v.handle, words: append([]uint64(nil), v.words...)}
}

// FieldPointer returns the address of field i.
func (v *ValueTypeData) FieldPointer(i int) unsafe.Pointer {
	return unsafe.Add(v.Pointer(), v.handle.FieldOffset(i))
}

// Field reads a primitive field as a tagged scalar.
func (v *ValueTypeData) Field(i int) abi.Value {
	t, ok := v.handle.FieldType(i).Primitive()
	if !ok {
		panic(fmt.Sprintf("layout: field %d of %v is not primitive", i, v.handle))
	}
	return abi.Load(t, v.FieldPointer(i))
}

// SetField writes a primitive field. The value category must match the field.
func (v *ValueTypeData) SetField(i int, val abi.Value) {
	t, ok := v.handle.FieldType(i).Primitive()
	if !ok || t != val.Type() {
		panic(fmt.Sprintf("layout: cannot store %v into field %d of %v", val, i, v.handle))
	}
	val.Store(v.FieldPointer(i))
}

// Struct returns a copy of a nested struct field.
func (v *ValueTypeData) Struct(i int) *ValueTypeData {
	ft := v.handle.FieldType(i)
	if !ft.IsStruct() {
		panic(fmt.Sprintf("layout: field %d of %v is not a struct", i, v.handle))
	}
	return ft.FromBytes(v.Bytes()[v.handle.FieldOffset(i) : v.handle.FieldOffset(i)+ft.Size()])
}

// SetStruct copies a nested struct value into field i.
func (v *ValueTypeData) SetStruct(i int, nested *ValueTypeData) {
	ft := v.handle.FieldType(i)
	if !ft.IsStruct() || ft.Size() != nested.Size() {
		panic(fmt.Sprintf("layout: cannot store %v into field %d of %v", nested.handle, i, v.handle))
	}
	off := v.handle.FieldOffset(i)
	copy(v.Bytes()[off:off+ft.Size()], nested.Bytes())
}

// Get reads field i as T. The size of T must equal the field size.
func Get[T any](v *ValueTypeData, i int) T {
	var zero T
	field := v.handle.FieldType(i)
	if uintptr(field.Size()) != unsafe.Sizeof(zero) {
		panic(fmt.Sprintf("layout: field %d has size %d, %T has size %d", i, field.Size(), zero, unsafe.Sizeof(zero)))
	}
	return *(*T)(v.FieldPointer(i))
}

// Set writes field i as T. The size of T must equal the field size.
func Set[T any](v *ValueTypeData, i int, val T) {
	field := v.handle.FieldType(i)
	if uintptr(field.Size()) != unsafe.Sizeof(val) {
		panic(fmt.Sprintf("layout: field %d has size %d, %T has size %d", i, field.Size(), val, unsafe.Sizeof(val)))
	}
	*(*T)(v.FieldPointer(i)) = val
}

// GetAt reads a T at a raw byte offset.
func GetAt[T any](v *ValueTypeData, offset uint32) T {
	var zero T
	if uintptr(offset)+unsafe.Sizeof(zero) > uintptr(v.Size()) {
		panic(fmt.Sprintf("layout: read of %T at offset %d exceeds size %d", zero, offset, v.Size()))
	}
	return *(*T)(unsafe.Add(v.Pointer(), offset))
}

// SetAt writes a T at a raw byte offset.
func SetAt[T any](v *ValueTypeData, offset uint32, val T) {
	if uintptr(offset)+unsafe.Sizeof(val) > uintptr(v.Size()) {
		panic(fmt.Sprintf("layout: write of %T at offset %d exceeds size %d", val, offset, v.Size()))
	}
	*(*T)(unsafe.Add(v.Pointer(), offset)) = val
}

func (v *ValueTypeData) String() string {
	if !v.handle.IsStruct() {
		t, _ := v.handle.Primitive()
		return abi.Load(t, v.Pointer()).String()
	}
	s := v.handle.Name()
	if s == "" {
		s = "struct"
	}
	s += "{"
	for i := 0; i < v.handle.FieldCount(); i++ {
		if i > 0 {
			s += ", "
		}
		if v.handle.FieldType(i).IsStruct() {
			s += v.Struct(i).String()
		} else {
			s += v.Field(i).String()
		}
	}
	return s + "}"
}
