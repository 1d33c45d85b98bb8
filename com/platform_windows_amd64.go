package com

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Native reports whether calls reach real platform code.
const Native = true

var (
	modcombase = windows.NewLazySystemDLL("combase.dll")
	modole32   = windows.NewLazySystemDLL("ole32.dll")

	procWindowsCreateString       = modcombase.NewProc("WindowsCreateString")
	procWindowsDeleteString       = modcombase.NewProc("WindowsDeleteString")
	procWindowsDuplicateString    = modcombase.NewProc("WindowsDuplicateString")
	procWindowsGetStringRawBuffer = modcombase.NewProc("WindowsGetStringRawBuffer")
	procCoTaskMemAlloc            = modole32.NewProc("CoTaskMemAlloc")
	procCoTaskMemFree             = modole32.NewProc("CoTaskMemFree")
)

type platformDispatcher struct{}

func (platformDispatcher) Dispatch(fn uintptr, args ...uintptr) uintptr {
	r, _, _ := syscall.SyscallN(fn, args...)
	return r
}

// NewCallback wraps fn as a native function pointer. fn must take only
// uintptr-sized arguments and return one uintptr. The number of callbacks a
// process can create is limited, so callers create them once.
func NewCallback(fn any) uintptr {
	return syscall.NewCallback(fn)
}

func createString(s string) (HString, error) {
	if s == "" {
		return 0, nil
	}
	u, err := windows.UTF16FromString(s)
	if err != nil {
		return 0, err
	}
	var h HString
	r, _, _ := procWindowsCreateString.Call(
		uintptr(unsafe.Pointer(&u[0])),
		uintptr(len(u)-1),
		uintptr(unsafe.Pointer(&h)),
	)
	if hr := FromWord(r); hr.Failed() {
		return 0, hr
	}
	return h, nil
}

func stringValue(h HString) string {
	if h == 0 {
		return ""
	}
	var n uint32
	r, _, _ := procWindowsGetStringRawBuffer.Call(uintptr(h), uintptr(unsafe.Pointer(&n)))
	if r == 0 || n == 0 {
		return ""
	}
	return windows.UTF16ToString(unsafe.Slice((*uint16)(unsafe.Pointer(r)), n))
}

func duplicateString(h HString) (HString, error) {
	if h == 0 {
		return 0, nil
	}
	var out HString
	r, _, _ := procWindowsDuplicateString.Call(uintptr(h), uintptr(unsafe.Pointer(&out)))
	if hr := FromWord(r); hr.Failed() {
		return 0, hr
	}
	return out, nil
}

func deleteString(h HString) {
	if h != 0 {
		procWindowsDeleteString.Call(uintptr(h))
	}
}

func taskMemAlloc(size uintptr) unsafe.Pointer {
	r, _, _ := procCoTaskMemAlloc.Call(size)
	return unsafe.Pointer(r)
}

func taskMemFree(p unsafe.Pointer) {
	if p != nil {
		procCoTaskMemFree.Call(uintptr(p))
	}
}
