package com

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/wippyai/winrt-runtime/guid"
)

// Unknown owns one reference to a COM interface pointer.
// The zero value and nil are empty references.
type Unknown struct {
	ptr unsafe.Pointer
}

// FromRaw adopts a reference the caller already owns, such as an out
// parameter. A nil pointer yields nil.
func FromRaw(p unsafe.Pointer) *Unknown {
	if p == nil {
		return nil
	}
	return &Unknown{ptr: p}
}

// FromRawBorrowed takes a new reference on a pointer the caller does not own.
func FromRawBorrowed(p unsafe.Pointer) *Unknown {
	if p == nil {
		return nil
	}
	u := &Unknown{ptr: p}
	u.AddRef()
	return u
}

// Raw returns the interface pointer without affecting the reference count.
func (u *Unknown) Raw() unsafe.Pointer {
	if u == nil {
		return nil
	}
	return u.ptr
}

// IsNil reports whether u holds no reference.
func (u *Unknown) IsNil() bool {
	return u == nil || u.ptr == nil
}

// AddRef increments the object's count and returns the new value.
func (u *Unknown) AddRef() uint32 {
	if u.IsNil() {
		return 0
	}
	return uint32(Dispatch(FunctionPointer(u.ptr, SlotAddRef), uintptr(u.ptr)))
}

// Release gives up the reference held by u and returns the remaining count.
// Releasing an empty reference is a no-op.
func (u *Unknown) Release() uint32 {
	if u.IsNil() {
		return 0
	}
	p := u.ptr
	u.ptr = nil
	return uint32(Dispatch(FunctionPointer(p, SlotRelease), uintptr(p)))
}

// Clone returns a second owning reference to the same interface pointer.
func (u *Unknown) Clone() *Unknown {
	if u.IsNil() {
		return nil
	}
	return FromRawBorrowed(u.ptr)
}

// QueryInterface asks the object for iid and returns a new owning reference.
func (u *Unknown) QueryInterface(iid guid.GUID) (*Unknown, error) {
	if u.IsNil() {
		return nil, E_POINTER
	}
	var pin runtime.Pinner
	riid := &iid
	out := new(unsafe.Pointer)
	pin.Pin(riid)
	pin.Pin(out)
	defer pin.Unpin()

	hr := CallMethod(u.ptr, SlotQueryInterface, uintptr(unsafe.Pointer(riid)), uintptr(unsafe.Pointer(out)))
	if hr.Failed() {
		return nil, hr
	}
	if *out == nil {
		return nil, E_POINTER
	}
	return &Unknown{ptr: *out}, nil
}

// Is reports whether the object answers QueryInterface for iid.
func (u *Unknown) Is(iid guid.GUID) bool {
	q, err := u.QueryInterface(iid)
	if err != nil {
		return false
	}
	q.Release()
	return true
}

func (u *Unknown) String() string {
	if u.IsNil() {
		return "Unknown(nil)"
	}
	return fmt.Sprintf("Unknown(%p)", u.ptr)
}
