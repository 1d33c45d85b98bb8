package com

import (
	"sync/atomic"
	"unsafe"
)

// Dispatcher performs a raw call through a native function pointer using the
// platform convention and returns the integer return register.
type Dispatcher interface {
	Dispatch(fn uintptr, args ...uintptr) uintptr
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(fn uintptr, args ...uintptr) uintptr

func (f DispatcherFunc) Dispatch(fn uintptr, args ...uintptr) uintptr {
	return f(fn, args...)
}

var dispatcher atomic.Value

func init() {
	dispatcher.Store(dispatcherBox{platformDispatcher{}})
}

type dispatcherBox struct{ d Dispatcher }

// SetDispatcher installs d and returns the previous dispatcher.
// Wrapping the previous dispatcher is how call tracing is layered in.
func SetDispatcher(d Dispatcher) Dispatcher {
	if d == nil {
		d = platformDispatcher{}
	}
	return dispatcher.Swap(dispatcherBox{d}).(dispatcherBox).d
}

// CurrentDispatcher returns the installed dispatcher.
func CurrentDispatcher() Dispatcher {
	return dispatcher.Load().(dispatcherBox).d
}

// PlatformDispatcher returns the dispatcher native to this build.
func PlatformDispatcher() Dispatcher {
	return platformDispatcher{}
}

// Dispatch calls fn through the installed dispatcher.
func Dispatch(fn uintptr, args ...uintptr) uintptr {
	return CurrentDispatcher().Dispatch(fn, args...)
}

// FunctionPointer reads slot from the vtable of obj: *(*(obj) + slot*ptrsize).
func FunctionPointer(obj unsafe.Pointer, slot int) uintptr {
	vtbl := *(*unsafe.Pointer)(obj)
	return *(*uintptr)(unsafe.Add(vtbl, uintptr(slot)*unsafe.Sizeof(uintptr(0))))
}

// CallMethod invokes vtable slot of obj with obj as the receiver and returns the status.
func CallMethod(obj unsafe.Pointer, slot int, args ...uintptr) HRESULT {
	if obj == nil {
		return E_POINTER
	}
	words := make([]uintptr, 0, len(args)+1)
	words = append(words, uintptr(obj))
	words = append(words, args...)
	return FromWord(Dispatch(FunctionPointer(obj, slot), words...))
}
