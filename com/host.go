package com

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/winrt-runtime/guid"
	"github.com/wippyai/winrt-runtime/internal/handles"
)

// HostImpl is the Go side of a COM object implemented in this process.
type HostImpl interface {
	// Interface returns the pointer to hand out for iid, or nil when the
	// object does not implement it. Returning self is the common case.
	Interface(self unsafe.Pointer, iid guid.GUID) unsafe.Pointer
}

// hostHeader is the native object layout. It holds no Go pointers; the Go
// state is reached through the handle.
type hostHeader struct {
	vtbl   uintptr
	refs   int32
	handle uint32
}

const hostKind = 1

var hostTable = handles.New()

// HostVtable is a native vtable whose first three slots are the shared
// IUnknown implementation. Vtables are process lifetime.
type HostVtable struct {
	ptr   unsafe.Pointer
	slots int
}

var (
	unknownOnce sync.Once
	unknownFns  [3]uintptr
)

func unknownCallbacks() [3]uintptr {
	unknownOnce.Do(func() {
		unknownFns = [3]uintptr{
			NewCallback(hostQueryInterface),
			NewCallback(hostAddRef),
			NewCallback(hostRelease),
		}
	})
	return unknownFns
}

// NewHostVtable builds a vtable from function pointers created with
// NewCallback. methods fill slots 3 onward.
func NewHostVtable(methods ...uintptr) *HostVtable {
	base := unknownCallbacks()
	n := len(base) + len(methods)
	mem := TaskMemAlloc(uintptr(n) * unsafe.Sizeof(uintptr(0)))
	slots := unsafe.Slice((*uintptr)(mem), n)
	copy(slots, base[:])
	copy(slots[len(base):], methods)
	return &HostVtable{ptr: mem, slots: n}
}

// Slots returns the number of vtable entries.
func (vt *HostVtable) Slots() int { return vt.slots }

// NewHostObject creates a native object with vtable vt backed by impl.
// The returned pointer carries one reference; the object stays alive until
// its count drops to zero.
func NewHostObject(vt *HostVtable, impl HostImpl) (unsafe.Pointer, error) {
	h, err := hostTable.Insert(hostKind, impl)
	if err != nil {
		return nil, err
	}
	mem := TaskMemAlloc(unsafe.Sizeof(hostHeader{}))
	if mem == nil {
		hostTable.Remove(h)
		return nil, E_OUTOFMEMORY
	}
	hdr := (*hostHeader)(mem)
	hdr.vtbl = uintptr(vt.ptr)
	hdr.refs = 1
	hdr.handle = uint32(h)
	return mem, nil
}

// HostFromRaw returns the Go implementation behind a host object pointer.
func HostFromRaw(this unsafe.Pointer) (HostImpl, bool) {
	if this == nil {
		return nil, false
	}
	hdr := (*hostHeader)(this)
	v, ok := hostTable.GetKind(handles.Handle(hdr.handle), hostKind)
	if !ok {
		return nil, false
	}
	return v.(HostImpl), true
}

// HostRefCount reads the current count of a host object.
func HostRefCount(this unsafe.Pointer) int32 {
	return atomic.LoadInt32(&(*hostHeader)(this).refs)
}

// LiveHostObjects returns the number of host objects not yet destroyed.
func LiveHostObjects() int {
	return hostTable.Len()
}

func hostQueryInterface(this, riid, ppv uintptr) uintptr {
	if riid == 0 || ppv == 0 {
		return E_INVALIDARG.Word()
	}
	out := (*unsafe.Pointer)(unsafe.Pointer(ppv))
	*out = nil

	self := unsafe.Pointer(this)
	impl, ok := HostFromRaw(self)
	if !ok {
		return E_UNEXPECTED.Word()
	}
	iid := *(*guid.GUID)(unsafe.Pointer(riid))
	p := impl.Interface(self, iid)
	if p == nil {
		Logger().Debug("host QueryInterface rejected", zap.Stringer("iid", iid))
		return E_NOINTERFACE.Word()
	}
	if p == self {
		hostAddRef(this)
	} else {
		Dispatch(FunctionPointer(p, SlotAddRef), uintptr(p))
	}
	*out = p
	return S_OK.Word()
}

func hostAddRef(this uintptr) uintptr {
	hdr := (*hostHeader)(unsafe.Pointer(this))
	return uintptr(uint32(atomic.AddInt32(&hdr.refs, 1)))
}

func hostRelease(this uintptr) uintptr {
	p := unsafe.Pointer(this)
	hdr := (*hostHeader)(p)
	n := atomic.AddInt32(&hdr.refs, -1)
	if n == 0 {
		if v, ok := hostTable.Remove(handles.Handle(hdr.handle)); ok {
			if d, ok := v.(handles.Dropper); ok {
				d.Drop()
			}
		}
		hdr.vtbl = 0
		TaskMemFree(p)
	}
	return uintptr(uint32(n))
}
