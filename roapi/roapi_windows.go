//go:build windows && amd64

package roapi

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/wippyai/winrt-runtime/com"
	"github.com/wippyai/winrt-runtime/guid"
)

var (
	modcombase = windows.NewLazySystemDLL("combase.dll")

	procRoInitialize           = modcombase.NewProc("RoInitialize")
	procRoUninitialize         = modcombase.NewProc("RoUninitialize")
	procRoGetActivationFactory = modcombase.NewProc("RoGetActivationFactory")
)

func platformInitialize(a Apartment) com.HRESULT {
	r, _, _ := procRoInitialize.Call(uintptr(a))
	return com.FromWord(r)
}

func platformUninitialize() {
	procRoUninitialize.Call()
}

func platformActivationFactory(name com.HString, iid guid.GUID) (unsafe.Pointer, com.HRESULT) {
	var p unsafe.Pointer
	r, _, _ := procRoGetActivationFactory.Call(
		uintptr(name),
		uintptr(unsafe.Pointer(&iid)),
		uintptr(unsafe.Pointer(&p)),
	)
	return p, com.FromWord(r)
}
