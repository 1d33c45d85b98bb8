// Package com is the native boundary of the runtime: status codes, owned
// interface references, vtable dispatch, callbacks, HSTRINGs, task memory
// and Go-implemented COM objects.
//
// On windows/amd64 calls go through syscall.SyscallN. The Go call trampoline
// mirrors the first four integer argument registers into XMM0-3, so every
// argument, including float bits, travels as one machine word and the x64
// convention is honoured for float parameters too.
//
// Every other platform gets an in-process emulation: NewCallback returns
// synthetic function addresses and the default Dispatcher invokes the
// registered Go function directly. HSTRINGs and task memory live in Go-owned
// tables. This lets the call engine and async bridge be exercised against
// Go-built vtables anywhere.
//
// References are released explicitly. An Unknown owns exactly one reference
// and Release gives it up.
package com
