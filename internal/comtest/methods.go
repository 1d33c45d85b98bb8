package comtest

import (
	"runtime"
	"testing"
	"unsafe"

	"github.com/wippyai/winrt-runtime/com"
)

// Store writes v to the out pointer p.
func Store[T any](p uintptr, v T) {
	*(*T)(unsafe.Pointer(p)) = v
}

// Load reads a T from p.
func Load[T any](p uintptr) T {
	return *(*T)(unsafe.Pointer(p))
}

// StoreHString writes a new HSTRING holding s to p and returns S_OK.
func StoreHString(p uintptr, s string) uintptr {
	if p == 0 {
		return com.E_POINTER.Word()
	}
	h, err := com.NewHString(s)
	if err != nil {
		return com.E_OUTOFMEMORY.Word()
	}
	Store(p, h)
	return com.S_OK.Word()
}

// Returns is a method that only reports hr.
func Returns(hr com.HRESULT) Method {
	return func([]uintptr) uintptr { return hr.Word() }
}

// Out is a getter method writing v to its only out parameter.
func Out[T any](v T) Method {
	return func(args []uintptr) uintptr {
		if args[0] == 0 {
			return com.E_POINTER.Word()
		}
		Store(args[0], v)
		return com.S_OK.Word()
	}
}

// OutString is a getter method returning s as a fresh HSTRING.
func OutString(s string) Method {
	return func(args []uintptr) uintptr {
		return StoreHString(args[0], s)
	}
}

// OutObject is a getter returning a new reference to obj.
func OutObject(obj *Object) Method {
	return func(args []uintptr) uintptr {
		if args[0] == 0 {
			return com.E_POINTER.Word()
		}
		u := obj.Unknown()
		Store(args[0], u.Raw())
		return com.S_OK.Word()
	}
}

// Fails is a method that writes garbage to its first out pointer and fails.
// Callers must not read the out value.
func Fails(hr com.HRESULT) Method {
	return func(args []uintptr) uintptr {
		if args[0] != 0 {
			Store(args[0], uint32(0xdeadbeef))
		}
		return hr.Word()
	}
}

// Alloc returns pinned heap storage for an out parameter, released at the end of the test.
// Stack addresses are not stable across calls, so out storage handed over as a
// word must come from here.
func Alloc[T any](tb testing.TB) *T {
	p := new(T)
	var pin runtime.Pinner
	pin.Pin(p)
	tb.Cleanup(pin.Unpin)
	return p
}

// Addr returns p as an argument word.
func Addr[T any](p *T) uintptr {
	return uintptr(unsafe.Pointer(p))
}
