//go:build !(windows && amd64)

package roapi

import (
	"unsafe"

	"github.com/wippyai/winrt-runtime/com"
	"github.com/wippyai/winrt-runtime/guid"
)

func platformInitialize(Apartment) com.HRESULT { return com.S_OK }

func platformUninitialize() {}

func platformActivationFactory(com.HString, guid.GUID) (unsafe.Pointer, com.HRESULT) {
	return nil, com.REGDB_E_CLASSNOTREG
}
