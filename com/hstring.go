package com

import "unsafe"

// HString is a WinRT string handle. The zero handle is the empty string.
// A non-zero handle is owned by whoever created or received it and must be
// deleted once.
type HString uintptr

// NewHString creates an HSTRING holding s.
func NewHString(s string) (HString, error) {
	return createString(s)
}

// String copies the contents into a Go string.
func (h HString) String() string {
	return stringValue(h)
}

// Duplicate returns a second handle to the same contents.
func (h HString) Duplicate() (HString, error) {
	return duplicateString(h)
}

// Delete releases the handle. Deleting the empty string is a no-op.
func (h HString) Delete() {
	deleteString(h)
}

// TaskMemAlloc allocates memory that may be handed to, or freed by, the platform.
func TaskMemAlloc(size uintptr) unsafe.Pointer {
	return taskMemAlloc(size)
}

// TaskMemFree releases memory from TaskMemAlloc or returned by the platform.
func TaskMemFree(p unsafe.Pointer) {
	taskMemFree(p)
}
