package com

import "github.com/wippyai/winrt-runtime/guid"

// Interface identifiers of the base interfaces every object and handler deals with.
var (
	IIDUnknown           = guid.MustParse("00000000-0000-0000-c000-000000000046")
	IIDInspectable       = guid.MustParse("af86e2e0-b12d-4c6a-9c5a-d7aa65101e90")
	IIDAgileObject       = guid.MustParse("94ea2b94-e9cc-49e0-c0ff-ee64ca8f5b90")
	IIDMarshal           = guid.MustParse("00000003-0000-0000-c000-000000000046")
	IIDAsyncInfo         = guid.MustParse("00000036-0000-0000-c000-000000000046")
	IIDActivationFactory = guid.MustParse("00000035-0000-0000-c000-000000000046")
)

// Vtable slots of IUnknown and IInspectable.
const (
	SlotQueryInterface      = 0
	SlotAddRef              = 1
	SlotRelease             = 2
	SlotGetIids             = 3
	SlotGetRuntimeClassName = 4
	SlotGetTrustLevel       = 5
)
