package com

import "fmt"

// HRESULT is the 32-bit status code returned by every vtable method.
// Negative values are failures.
type HRESULT int32

const (
	S_OK    HRESULT = 0
	S_FALSE HRESULT = 1

	E_NOTIMPL                     = HRESULT(0x80004001 - 1<<32)
	E_NOINTERFACE                 = HRESULT(0x80004002 - 1<<32)
	E_POINTER                     = HRESULT(0x80004003 - 1<<32)
	E_ABORT                       = HRESULT(0x80004004 - 1<<32)
	E_FAIL                        = HRESULT(0x80004005 - 1<<32)
	E_UNEXPECTED                  = HRESULT(0x8000FFFF - 1<<32)
	E_ACCESSDENIED                = HRESULT(0x80070005 - 1<<32)
	E_ILLEGAL_METHOD_CALL         = HRESULT(0x8000000E - 1<<32)
	E_ILLEGAL_DELEGATE_ASSIGNMENT = HRESULT(0x80000018 - 1<<32)
	E_OUTOFMEMORY                 = HRESULT(0x8007000E - 1<<32)
	E_INVALIDARG                  = HRESULT(0x80070057 - 1<<32)
	E_BOUNDS                      = HRESULT(0x8000000B - 1<<32)
	REGDB_E_CLASSNOTREG           = HRESULT(0x80040154 - 1<<32)
	RPC_E_CHANGED_MODE            = HRESULT(0x80010106 - 1<<32)
	CO_E_NOTINITIALIZED           = HRESULT(0x800401F0 - 1<<32)
)

var hresultNames = map[HRESULT]string{
	S_OK:                          "S_OK",
	S_FALSE:                       "S_FALSE",
	E_NOTIMPL:                     "E_NOTIMPL",
	E_NOINTERFACE:                 "E_NOINTERFACE",
	E_POINTER:                     "E_POINTER",
	E_ABORT:                       "E_ABORT",
	E_FAIL:                        "E_FAIL",
	E_UNEXPECTED:                  "E_UNEXPECTED",
	E_ACCESSDENIED:                "E_ACCESSDENIED",
	E_ILLEGAL_METHOD_CALL:         "E_ILLEGAL_METHOD_CALL",
	E_ILLEGAL_DELEGATE_ASSIGNMENT: "E_ILLEGAL_DELEGATE_ASSIGNMENT",
	E_OUTOFMEMORY:                 "E_OUTOFMEMORY",
	E_INVALIDARG:                  "E_INVALIDARG",
	E_BOUNDS:                      "E_BOUNDS",
	REGDB_E_CLASSNOTREG:           "REGDB_E_CLASSNOTREG",
	RPC_E_CHANGED_MODE:            "RPC_E_CHANGED_MODE",
	CO_E_NOTINITIALIZED:           "CO_E_NOTINITIALIZED",
}

// FromWord extracts the status code from the low 32 bits of a return register.
func FromWord(r uintptr) HRESULT {
	return HRESULT(int32(uint32(r)))
}

func (hr HRESULT) Succeeded() bool { return hr >= 0 }

func (hr HRESULT) Failed() bool { return hr < 0 }

// Code returns the raw status value.
func (hr HRESULT) Code() int32 { return int32(hr) }

// Word returns the status as a return register value.
func (hr HRESULT) Word() uintptr { return uintptr(uint32(hr)) }

func (hr HRESULT) String() string {
	if name, ok := hresultNames[hr]; ok {
		return name
	}
	return fmt.Sprintf("HRESULT(0x%08X)", uint32(hr))
}

// Error makes a failing HRESULT usable as an error value.
func (hr HRESULT) Error() string {
	if name, ok := hresultNames[hr]; ok {
		return fmt.Sprintf("%s (0x%08X)", name, uint32(hr))
	}
	return fmt.Sprintf("HRESULT 0x%08X", uint32(hr))
}

// Err returns nil for success codes and hr otherwise.
func (hr HRESULT) Err() error {
	if hr.Succeeded() {
		return nil
	}
	return hr
}
