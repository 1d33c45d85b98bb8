// Package comtest builds COM objects out of Go functions for tests.
//
// Objects share one vtable of generic trampolines, so any number of fakes can
// be created without exhausting the platform callback limit. Each slot from 3
// up to MaxSlot is routed to the Method registered with On; unregistered
// slots return E_NOTIMPL. Slots 0-2 are the shared IUnknown implementation.
package comtest

import (
	"sync"
	"unsafe"

	"github.com/wippyai/winrt-runtime/com"
	"github.com/wippyai/winrt-runtime/guid"
)

// MaxSlot is the highest vtable slot a fake can implement.
const MaxSlot = 34

// Method implements a vtable slot. args are the words after the receiver;
// unused trailing words are zero or garbage depending on the platform.
type Method func(args []uintptr) uintptr

// Object is a fake COM object.
type Object struct {
	methods map[int]Method
	calls   map[int]int
	aliases map[guid.GUID]*Object
	iids    []guid.GUID
	name    string
	ptr     unsafe.Pointer
	mu      sync.Mutex
	dropped bool
}

var (
	vtableOnce sync.Once
	vtable     *com.HostVtable
)

func sharedVtable() *com.HostVtable {
	vtableOnce.Do(func() {
		fns := make([]uintptr, 0, MaxSlot-2)
		for slot := 3; slot <= MaxSlot; slot++ {
			fns = append(fns, com.NewCallback(trampoline(slot)))
		}
		vtable = com.NewHostVtable(fns...)
	})
	return vtable
}

func trampoline(slot int) func(this, a0, a1, a2, a3, a4, a5, a6, a7 uintptr) uintptr {
	return func(this, a0, a1, a2, a3, a4, a5, a6, a7 uintptr) uintptr {
		impl, ok := com.HostFromRaw(unsafe.Pointer(this))
		if !ok {
			return com.E_UNEXPECTED.Word()
		}
		o := impl.(*Object)
		o.mu.Lock()
		m := o.methods[slot]
		o.calls[slot]++
		o.mu.Unlock()
		if m == nil {
			return com.E_NOTIMPL.Word()
		}
		return m([]uintptr{a0, a1, a2, a3, a4, a5, a6, a7})
	}
}

// New creates a fake answering QueryInterface for IUnknown, IInspectable and iids.
// The caller owns the initial reference.
func New(iids ...guid.GUID) *Object {
	o := &Object{
		methods: make(map[int]Method),
		calls:   make(map[int]int),
		aliases: make(map[guid.GUID]*Object),
		iids:    append([]guid.GUID{com.IIDUnknown, com.IIDInspectable}, iids...),
	}
	p, err := com.NewHostObject(sharedVtable(), o)
	if err != nil {
		panic(err)
	}
	o.ptr = p
	o.On(com.SlotGetRuntimeClassName, func(args []uintptr) uintptr {
		o.mu.Lock()
		name := o.name
		o.mu.Unlock()
		return StoreHString(args[0], name)
	})
	return o
}

// Interface implements com.HostImpl.
func (o *Object) Interface(self unsafe.Pointer, iid guid.GUID) unsafe.Pointer {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, want := range o.iids {
		if want == iid {
			return self
		}
	}
	if alias, ok := o.aliases[iid]; ok {
		return alias.ptr
	}
	return nil
}

// Drop implements handles.Dropper.
func (o *Object) Drop() {
	o.mu.Lock()
	o.dropped = true
	o.mu.Unlock()
}

// On registers m for slot and returns o.
func (o *Object) On(slot int, m Method) *Object {
	if slot < 3 || slot > MaxSlot {
		panic("comtest: slot out of range")
	}
	o.mu.Lock()
	o.methods[slot] = m
	o.mu.Unlock()
	return o
}

// Named sets the runtime class name reported by GetRuntimeClassName.
func (o *Object) Named(name string) *Object {
	o.mu.Lock()
	o.name = name
	o.mu.Unlock()
	return o
}

// Alias makes QueryInterface for iid return other, which models a second
// interface of the same object with its own vtable.
func (o *Object) Alias(iid guid.GUID, other *Object) *Object {
	o.mu.Lock()
	o.aliases[iid] = other
	o.mu.Unlock()
	return o
}

// Raw returns the object pointer.
func (o *Object) Raw() unsafe.Pointer { return o.ptr }

// Unknown returns a new owning reference.
func (o *Object) Unknown() *com.Unknown { return com.FromRawBorrowed(o.ptr) }

// Calls returns how often slot was invoked.
func (o *Object) Calls(slot int) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls[slot]
}

// RefCount returns the current reference count.
func (o *Object) RefCount() int32 {
	if o.Dropped() {
		return 0
	}
	return com.HostRefCount(o.ptr)
}

// Dropped reports whether the last reference was released.
func (o *Object) Dropped() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dropped
}

// Release drops the reference created by New.
func (o *Object) Release() uint32 {
	return com.FromRaw(o.ptr).Release()
}
